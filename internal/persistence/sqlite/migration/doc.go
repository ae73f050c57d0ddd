// Package migration applies versioned SQL migrations to the SQLite database
// backing the client storage.
//
// Migrations are read from an fs.FS (normally an embedded directory) and must
// follow the naming convention {version}_{description}.sql, for example
// "001_client_storage.sql". Applied versions are tracked in a
// schema_migrations table so each migration runs exactly once.
//
// Example usage:
//
//	manager := NewManager(NewScanner(migrations.FS, "."), NewSQLiteExecutor(db), logger)
//	if err := manager.Run(ctx); err != nil {
//		return fmt.Errorf("migrate: %w", err)
//	}
package migration
