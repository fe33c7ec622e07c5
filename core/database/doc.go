// Package database opens the optional run-history database.
//
// It wraps GORM and configures either MySQL or SQLite from the application's
// configuration. The connection is only used by the audit recorder; the
// inventory itself is never stored.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    log.Warn("Run auditing disabled", zap.Error(err))
//	}
package database
