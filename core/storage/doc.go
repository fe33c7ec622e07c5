// Package storage provides an abstraction layer for object storage services.
//
// It wraps the MinIO Go client behind the Client interface and builds the
// fact snapshot store on top of it. This supports both AWS S3 and
// self-hosted MinIO instances.
//
// # Client Interface
//
// The Client interface abstracts the underlying storage provider, making it easier
// to mock storage interactions for unit testing (as seen in core/storage/mocks).
//
// # Fact Store
//
// FactStore keeps named fact documents as `<prefix>/<name>.json`. It is an
// alternative fact source for reconciliation runs (`fact_source: storage`)
// and the target of the snapshot command:
//
//   - FetchFact: reads a document; a missing key is reconcile.ErrFactNotFound.
//   - SaveFact: writes a document, creating the bucket on first use.
//   - ListFacts: lists stored document names.
//
// # Usage
//
//	client, err := storage.NewClient(cfg.Storage)
//	facts := storage.NewFactStore(client, cfg.Storage)
//	doc, err := facts.FetchFact(ctx, "before-upgrade")
package storage
