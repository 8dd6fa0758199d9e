// Package lsh implements an approximate nearest-neighbour index based on
// random hyperplane locality-sensitive hashing.
//
// Each of L tables hashes a vector to a k-bit code: bit i is set when the
// vector lies on the positive side of the table's i-th hyperplane. Entries
// sharing a code land in the same bucket. A query gathers the entries of the
// buckets it hashes to in any table and ranks only those candidates, so an
// entry that never collides with the query is never returned.
//
// Hyperplanes are drawn once from a seeded generator (or supplied explicitly)
// and never change, which keeps codes computed at insertion time comparable
// with codes computed at query time, including after a serialization round
// trip.
package lsh
