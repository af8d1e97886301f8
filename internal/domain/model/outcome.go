// File: internal/domain/model/outcome.go
package model

// OutcomeKind tags the result of one generation attempt.
type OutcomeKind int

const (
	// OutcomeFailure is opaque to the end user; details live in the logs.
	OutcomeFailure OutcomeKind = iota
	// OutcomeImage carries an in-memory PNG ready to send.
	OutcomeImage
	// OutcomeAdvisory carries actionable text for the end user
	// (e.g. quota exhausted — wait or upgrade).
	OutcomeAdvisory
)

// Outcome is produced once per prompt and consumed exactly once by the
// dispatcher to pick a responder action.
type Outcome struct {
	Kind     OutcomeKind
	Image    []byte
	Advisory string
}

func FailureOutcome() Outcome             { return Outcome{Kind: OutcomeFailure} }
func ImageOutcome(png []byte) Outcome     { return Outcome{Kind: OutcomeImage, Image: png} }
func AdvisoryOutcome(text string) Outcome { return Outcome{Kind: OutcomeAdvisory, Advisory: text} }
