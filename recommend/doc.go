// Package recommend turns an uploaded image into catalog recommendations.
//
// A Recommender runs the image through the model once with a capture
// attached to the configured layer, queries the index with the last captured
// row and resolves the returned labels to paths. When the upload directory
// holds a file carrying the transient prefix, the upload is a catalog image
// that will match itself, so one extra result is requested and the first is
// dropped.
package recommend
