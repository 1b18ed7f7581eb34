package metrics

// Recorder defines a minimal interface for recording metrics.
// Components depend on it instead of a concrete metrics type.
type Recorder interface {
	// RecordOperation records an operation with its status, StatusSuccess
	// or StatusError.
	RecordOperation(operation, status string)

	// RecordDuration records the duration of an operation in seconds.
	RecordDuration(operation string, seconds float64)

	// RecordError records an error occurrence with its type.
	// The errorType parameter is usually an error category.
	RecordError(operation, errorType string)
}
