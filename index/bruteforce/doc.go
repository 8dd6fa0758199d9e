// Package bruteforce provides an exhaustive vector index that answers
// queries by scoring every stored entry. It serves as the exact baseline for
// measuring LSH recall and can be selected explicitly as the serving index.
// It supports a compact binary format for persistence in the vector_storage
// table.
package bruteforce
