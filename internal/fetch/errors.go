package fetch

// Kind labels the terminal failure classes a fetch can end in.
type Kind string

const (
	// KindInvalidURL means no video id could be derived; zero attempts made.
	KindInvalidURL Kind = "invalid_url"
	// KindEngineFatal means the engine failed with a message that is not a
	// bot challenge; remaining strategies are never tried.
	KindEngineFatal Kind = "engine_fatal"
	// KindExhausted means every strategy/identity combination was blocked.
	KindExhausted Kind = "exhausted"
)

// Error is the single error type surfaced by Fetch. Message is free text;
// callers that need finer behaviour branch on Kind.
type Error struct {
	Kind     Kind
	Message  string
	Attempts int
}

func (e *Error) Error() string {
	return e.Message
}

func newError(kind Kind, message string, attempts int) *Error {
	return &Error{Kind: kind, Message: message, Attempts: attempts}
}
