// Package recurrence decides what editing or deleting an appointment means
// when it belongs to a weekly series, and materializes series as dated
// occurrences.
package recurrence

import (
	"errors"
	"fmt"
)

// ErrScopeRequired is returned when an operation targets a series member and
// the caller has not made a scope decision. The caller must obtain one from
// the user and re-invoke; the resolver never guesses.
var ErrScopeRequired = errors.New("operation targets a recurring series: scope is required")

// EditScope says how far an edit propagates across a series.
type EditScope int

const (
	// EditSingle mutates the target occurrence only. Series membership is
	// preserved; the occurrence does not detach.
	EditSingle EditScope = iota
	// EditFuture mutates the target and every sibling dated on or after it.
	EditFuture
)

func ParseEditScope(s string) (EditScope, error) {
	switch s {
	case "single":
		return EditSingle, nil
	case "future":
		return EditFuture, nil
	default:
		return 0, fmt.Errorf("unknown edit scope %q (want single or future)", s)
	}
}

func (s EditScope) String() string {
	if s == EditFuture {
		return "future"
	}
	return "single"
}

// DeleteScope says how far a delete propagates across a series.
type DeleteScope int

const (
	// DeleteSingle removes the target occurrence only, leaving siblings.
	DeleteSingle DeleteScope = iota
	// DeleteSeries removes every occurrence sharing the series id.
	DeleteSeries
)

func ParseDeleteScope(s string) (DeleteScope, error) {
	switch s {
	case "single":
		return DeleteSingle, nil
	case "series":
		return DeleteSeries, nil
	default:
		return 0, fmt.Errorf("unknown delete scope %q (want single or series)", s)
	}
}

func (s DeleteScope) String() string {
	if s == DeleteSeries {
		return "series"
	}
	return "single"
}
