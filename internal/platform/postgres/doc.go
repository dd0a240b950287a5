// Package postgres provides PostgreSQL implementations of the store
// interfaces. All stores accept a store.DBTX so the same implementation
// works against a pooled *sql.DB or inside a *sql.Tx.
package postgres
