package record

// ValidationError reports a rejected record mutation. It is always surfaced
// synchronously and never retried.
type ValidationError struct {
	Field  string
	Reason string
}

func (e ValidationError) Error() string {
	return "invalid record " + e.Field + ": " + e.Reason
}
