package leads

// ValidationError marks bad or incomplete input. Requests failing
// validation are rejected before any side effect and never retried.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

var (
	// ErrMissingContact is returned when both email and phone normalize to empty
	ErrMissingContact = &ValidationError{Reason: "either email or phone is required"}

	// ErrMissingConsent is returned when consent confirmation is required but absent
	ErrMissingConsent = &ValidationError{Reason: "consent confirmation is required"}
)
