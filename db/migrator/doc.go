// Package migrator reconciles the schema state of a SQLite database against
// a catalog of ordered, named migrations.
//
// Features:
// - Supports both forward (`up`) and rollback (`down`) migrations
// - Loads SQL migration files from a filesystem with structured naming (`{id}-{name}.{up|down}.sql`)
// - Tracks applied versions and the current version pointer in a key-value bookkeeping table
// - Computes minimal ordered plans to reach a target version, a step offset, or "all"
// - Repairs out-of-order catalogs by rolling back past the first inconsistency and replaying in catalog order
// - Executes each plan step in its own transaction
// - Maintains chronological migration history with timestamps
package migrator
