// Package migration applies versioned SQL files to the housekeeping SQLite database.
//
// Migration files live in an fs.FS (normally embedded into the binary) and follow
// the naming convention {version}_{description}.sql, for example
// "001_create_users.sql". Each file runs inside its own transaction and is
// recorded in the schema_migrations table so it is never applied twice.
//
// Example usage:
//
//	manager := migration.NewMigrationManager(migration.NewFileScanner(files), migration.NewSQLiteExecutor(db), "migrations", logger)
//	if err := manager.RunMigrations(ctx); err != nil {
//		return err
//	}
package migration
