package block

import "fmt"

// Error is stage 3's single failure mode: unrecognized block grammar, an
// unterminated ranged construct, or one of the grammar's explicit
// regression cases. NearIndex is the index, in stage 3's own line split,
// of the line closest to the failure.
type Error struct {
	Reason    string
	NearIndex int
}

func (e *Error) Error() string {
	return fmt.Sprintf("stage3 error near line %d: %s", e.NearIndex, e.Reason)
}

func errAt(idx int, format string, args ...interface{}) error {
	return &Error{Reason: fmt.Sprintf(format, args...), NearIndex: idx}
}
