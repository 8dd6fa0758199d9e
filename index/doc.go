// Package index defines the abstraction shared by vector indexes that are
// filled entry by entry, queried for the nearest labels under a chosen
// vector.Distance, and serialized for persistence.
//
// Implementations in this module are index/lsh (random hyperplane hashing,
// the serving index) and index/bruteforce (exhaustive, used as an exact
// baseline).
package index
