// Package vector defines the embedding model shared by the index packages:
//   - Entry (label + embedding) and the Store interface
//   - SQLiteStore: durable catalog storage with exact SQL-side ranking
//   - Schema helpers to create the catalog table
//   - Embedding encoding (BLOB) and the closed Distance enumeration
package vector
