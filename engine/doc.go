// Package engine provides helpers for working with the modernc.org/sqlite
// driver in this module: opening connections, applying connection pragmas and
// registering the SQL scalar distance functions used for exact catalog
// ranking. It intentionally keeps a thin surface so other packages can share
// the same driver instance.
package engine
