// Package dog is the HTTP client for the dog_trainer V2 API.
//
// The client implements reconcile.Source:
//
//	GET {url}/hosts            host records
//	GET {url}/groups           group records
//	GET {url}/fact?name=NAME   named fact document
//
// Every request carries `Authorization: Bearer <token>`. Transport failures and
// non-2xx responses are returned as reconcile.SourceUnavailableError; a 404 on
// the fact endpoint is reported as reconcile.ErrFactNotFound. Retries are left
// to the caller.
package dog
