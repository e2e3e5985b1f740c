package refdata

import "fmt"

// ShapeError reports a record field that is missing or has the wrong JSON type.
type ShapeError struct {
	Category string
	Index    int
	Field    string
	Reason   string
}

func (e *ShapeError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s record %d: %s", e.Category, e.Index, e.Reason)
	}
	return fmt.Sprintf("%s record %d: field %q %s", e.Category, e.Index, e.Field, e.Reason)
}

// JoinError reports a trait whose specialization id is not in the index.
type JoinError struct {
	Trait          string
	Specialization uint64
}

func (e *JoinError) Error() string {
	return fmt.Sprintf("trait %q: cannot find spec %d", e.Trait, e.Specialization)
}
