package repository

import (
	"strings"
	"time"
)

// RecordFilter is a sparse set of search predicates. Nil (or blank) fields are
// ignored; every supplied field narrows the result.
type RecordFilter struct {
	// exact match
	Governorate   *string
	Rank          *string
	Office        *string
	PoliceStation *string
	RecordNumber  *int64

	// substring match
	FirstName      *string
	SecondName     *string
	ThirdName      *string
	FourthName     *string
	OutgoingNumber *string
	MilitaryNumber *string
	RecordedNotes  *string

	// inclusive bounds on tour_date
	StartDate *time.Time
	EndDate   *time.Time
}

// Condition is one WHERE fragment with its bind arguments
type Condition struct {
	Query string
	Args  []interface{}
}

// predicate contributes at most one condition for a filter
type predicate func(f RecordFilter) (Condition, bool)

var recordPredicates = []predicate{
	equals("governorate", func(f RecordFilter) *string { return f.Governorate }),
	equals("rank", func(f RecordFilter) *string { return f.Rank }),
	equals("office", func(f RecordFilter) *string { return f.Office }),
	equals("police_station", func(f RecordFilter) *string { return f.PoliceStation }),
	func(f RecordFilter) (Condition, bool) {
		if f.RecordNumber == nil {
			return Condition{}, false
		}
		return Condition{Query: "record_number = ?", Args: []interface{}{*f.RecordNumber}}, true
	},

	contains("first_name", func(f RecordFilter) *string { return f.FirstName }),
	contains("second_name", func(f RecordFilter) *string { return f.SecondName }),
	contains("third_name", func(f RecordFilter) *string { return f.ThirdName }),
	contains("fourth_name", func(f RecordFilter) *string { return f.FourthName }),
	contains("outgoing_number", func(f RecordFilter) *string { return f.OutgoingNumber }),
	contains("military_number", func(f RecordFilter) *string { return f.MilitaryNumber }),
	contains("recorded_notes", func(f RecordFilter) *string { return f.RecordedNotes }),

	dateBound("tour_date >= ?", func(f RecordFilter) *time.Time { return f.StartDate }),
	dateBound("tour_date <= ?", func(f RecordFilter) *time.Time { return f.EndDate }),
}

// Conditions compiles the filter into its ANDed fragments, in a stable order
func (f RecordFilter) Conditions() []Condition {
	conds := make([]Condition, 0, len(recordPredicates))
	for _, p := range recordPredicates {
		if c, ok := p(f); ok {
			conds = append(conds, c)
		}
	}
	return conds
}

// IsEmpty reports whether the filter has no effective predicate
func (f RecordFilter) IsEmpty() bool {
	return len(f.Conditions()) == 0
}

func equals(column string, get func(RecordFilter) *string) predicate {
	return func(f RecordFilter) (Condition, bool) {
		v, ok := present(get(f))
		if !ok {
			return Condition{}, false
		}
		return Condition{Query: column + " = ?", Args: []interface{}{v}}, true
	}
}

func contains(column string, get func(RecordFilter) *string) predicate {
	return func(f RecordFilter) (Condition, bool) {
		v, ok := present(get(f))
		if !ok {
			return Condition{}, false
		}
		return Condition{Query: column + " ILIKE ?", Args: []interface{}{"%" + escapeLike(v) + "%"}}, true
	}
}

func dateBound(query string, get func(RecordFilter) *time.Time) predicate {
	return func(f RecordFilter) (Condition, bool) {
		t := get(f)
		if t == nil {
			return Condition{}, false
		}
		day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
		return Condition{Query: query, Args: []interface{}{day}}, true
	}
}

func present(s *string) (string, bool) {
	if s == nil {
		return "", false
	}
	v := strings.TrimSpace(*s)
	return v, v != ""
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
