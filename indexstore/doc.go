// Package indexstore persists serialized indexes as opaque blobs and restores
// them by blob kind.
//
// Two backends are provided: SQLiteStore keeps blobs in the vector_storage
// table next to the catalog, BadgerStore keeps them in an embedded Badger
// key-value store. Reindex rebuilds an index from the catalog entries and
// persists the result.
package indexstore
