// Package parse turns free-form reminder text into structured schedule
// fields. The primary path asks a language model; a deterministic rule-based
// fallback takes over whenever the model is unreachable or returns output
// that cannot be used.
package parse

// Repeat values carried in parsed fields. Mirrors the reminder package's
// enum; duplicated to keep this package free of entity imports.
const (
	RepeatNone  = "none"
	RepeatDaily = "daily"
)

// Fields is the structured result of parsing reminder text. It is transient:
// the lifecycle layer turns it into a persisted reminder only after the user
// confirms.
type Fields struct {
	Title           string `json:"title"`
	Description     string `json:"description,omitempty"`
	Date            string `json:"date,omitempty"` // YYYY-MM-DD
	Clock           string `json:"time,omitempty"` // HH:MM, 24-hour
	IsRelative      bool   `json:"isRelativeTime"`
	RelativeMinutes int    `json:"relativeMinutes,omitempty"`
	Repeat          string `json:"repeat"`
	UsedFallback    bool   `json:"usedFallback"`
}
