package availability

import "time"

// Code identifies why a request was rejected. Every code is an expected
// business outcome for the caller to relay, not a fault.
type Code string

const (
	CodeUnparseable          Code = "Unparseable"
	CodeIncompleteDateTime   Code = "IncompleteDateTime"
	CodePastDate             Code = "PastDate"
	CodeDuplicateAppointment Code = "DuplicateAppointment"
	CodeClosedException      Code = "ClosedException"
	CodeClosedWeekday        Code = "ClosedWeekday"
	CodeOutsideHours         Code = "OutsideHours"
	CodeSlotFull             Code = "SlotFull"
)

// Verdict is the engine's single answer per request: either available with a
// resolved instant, or rejected with a code. Message is always populated and
// ready to display.
type Verdict struct {
	Available  bool
	Code       Code
	Message    string
	ResolvedAt time.Time
}

func reject(code Code, message string) Verdict {
	return Verdict{Available: false, Code: code, Message: message}
}
