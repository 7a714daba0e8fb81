package model

import "fmt"

// Priority ranks a suggestion. Lower values are more urgent.
type Priority int

const (
	PriorityCritical Priority = iota + 1
	PriorityHigh
	PriorityMedium
	PriorityLow
)

// Priorities lists every priority in display order.
var Priorities = []Priority{PriorityCritical, PriorityHigh, PriorityMedium, PriorityLow}

func (p Priority) String() string {
	switch p {
	case PriorityCritical:
		return "CRITICAL"
	case PriorityHigh:
		return "HIGH"
	case PriorityMedium:
		return "MEDIUM"
	case PriorityLow:
		return "LOW"
	default:
		return fmt.Sprintf("Priority(%d)", int(p))
	}
}

// Less orders p before q when p is more urgent.
func (p Priority) Less(q Priority) bool { return p < q }

// Suggestion is a remediation item. It is never modified after creation.
type Suggestion struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Priority    Priority `json:"priority"`
	Remediation string   `json:"remediation"`
}

// Tag marks a user-facing result line.
type Tag string

const (
	TagPass  Tag = "PASS"
	TagFail  Tag = "FAIL"
	TagWarn  Tag = "WARN"
	TagInfo  Tag = "INFO"
	TagError Tag = "ERROR"
)

// Note is one result line emitted by a check, in emission order.
type Note struct {
	Tag  Tag    `json:"tag"`
	Text string `json:"text"`
}

// Notef builds a Note with a formatted message.
func Notef(tag Tag, format string, args ...any) Note {
	return Note{Tag: tag, Text: fmt.Sprintf(format, args...)}
}
