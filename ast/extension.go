package ast

// Extension is one modifier-extension value parsed out of the `( ... )`
// group that may follow a detached-modifier sigil.
type Extension interface {
	isExtension()
}

// TodoStatus enumerates the states a `Todo` extension can carry.
type TodoStatus int

const (
	Undone TodoStatus = iota
	Done
	NeedsClarification
	Urgent
	Recurring
	Pending
	OnHold
	Cancelled
)

func (s TodoStatus) String() string {
	switch s {
	case Undone:
		return "Undone"
	case Done:
		return "Done"
	case NeedsClarification:
		return "NeedsClarification"
	case Urgent:
		return "Urgent"
	case Recurring:
		return "Recurring"
	case Pending:
		return "Pending"
	case OnHold:
		return "OnHold"
	case Cancelled:
		return "Cancelled"
	default:
		return "TodoStatus(?)"
	}
}

// TodoExtension is the `x`, ` `, `?`, `!`, `+`, `-`, `=`, `_` extension kind.
// RecurringPeriod is only set when Status == Recurring and a period string
// followed the '+' (e.g. "(+ Friday)"); it is nil for a bare "(+)".
type TodoExtension struct {
	Status          TodoStatus
	RecurringPeriod *string
}

// PriorityExtension is the `#` extension kind.
type PriorityExtension struct{ Value string }

// DueDateExtension is the `<` extension kind.
type DueDateExtension struct{ Value string }

// StartDateExtension is the `>` extension kind.
type StartDateExtension struct{ Value string }

// TimestampExtension is the `@` extension kind.
type TimestampExtension struct{ Value string }

func (TodoExtension) isExtension()      {}
func (PriorityExtension) isExtension()  {}
func (DueDateExtension) isExtension()   {}
func (StartDateExtension) isExtension() {}
func (TimestampExtension) isExtension() {}
