package entry

// Reason identifies why an input was rejected. Reasons are shared with the
// CSV importer so callers can render one taxonomy of messages.
type Reason string

const (
	MissingDescription     Reason = "MissingDescription"
	MissingAmount          Reason = "MissingAmount"
	NonPositiveAmount      Reason = "NonPositiveAmount"
	InvalidDate            Reason = "InvalidDate"
	InvalidType            Reason = "InvalidType"
	MissingRequiredHeaders Reason = "MissingRequiredHeaders"
	RowParseFailure        Reason = "RowParseFailure"
)

// ParseError is a value-level rejection, never a control-flow fault. Message
// is written to be shown to the user verbatim.
type ParseError struct {
	Reason  Reason
	Message string
}

func (e *ParseError) Error() string {
	return e.Message
}

func reject(reason Reason, message string) *ParseError {
	return &ParseError{Reason: reason, Message: message}
}
