// Package catalog maps catalog labels to image paths and builds the catalog:
// it scans image directories, extracts an embedding per image and records
// the entries in both the durable catalog store and a query index.
package catalog
