package fixture

import (
	"fmt"
	"strings"
)

// ItemError is one entry of a fixture list that could not be mapped.
// ExternalID is zero when not even the id could be read.
type ItemError struct {
	Index      int
	ExternalID int64
	Err        error
}

func (e ItemError) Error() string {
	if e.ExternalID > 0 {
		return fmt.Sprintf("fixture %d (item %d): %v", e.ExternalID, e.Index, e.Err)
	}
	return fmt.Sprintf("fixture item %d: %v", e.Index, e.Err)
}

func (e ItemError) Unwrap() error {
	return e.Err
}

// PayloadErrors is returned next to the fixtures that did decode when some
// list items were malformed. Callers keep the decoded fixtures.
type PayloadErrors []ItemError

func (p PayloadErrors) Error() string {
	parts := make([]string, 0, len(p))
	for _, item := range p {
		parts = append(parts, item.Error())
	}
	return fmt.Sprintf("%d malformed fixture(s): %s", len(p), strings.Join(parts, "; "))
}
