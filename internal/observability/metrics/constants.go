// Package metrics provides constants used across metric definitions.
package metrics

// Status label values
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Datastore operation label values
const (
	OpGet    = "get"
	OpSet    = "set"
	OpDelete = "delete"
	OpKeys   = "keys"
	OpOpen   = "open"
	OpClose  = "close"
)

// Histogram bucket parameters
const (
	// BucketStart100us with factor 2 and count 14 covers 100µs to ~0.8s
	BucketStart100us = 0.0001
	// BucketStart1ms with factor 2 and count 12 covers 1ms to ~2s
	BucketStart1ms = 0.001
	BucketFactor2  = 2
	BucketCount12  = 12
	BucketCount14  = 14
)
