package vectorstore

import (
	"fmt"
	"reflect"

	"github.com/qdrant/go-client/qdrant"
)

// Range bounds a numeric payload field. Nil bounds are open.
type Range struct {
	Gte *float64
	Lte *float64
}

// Condition is a single equality or range test on a payload field.
// Exactly one of Value or Range is set.
type Condition struct {
	Field string
	Value any
	Range *Range
}

// Predicate is a conjunction of conditions. The zero Predicate matches everything.
type Predicate struct {
	Must []Condition
}

// Eq returns an equality condition.
func Eq(field string, value any) Condition {
	return Condition{Field: field, Value: value}
}

// Between returns a range condition. Either bound may be nil.
func Between(field string, gte, lte *float64) Condition {
	return Condition{Field: field, Range: &Range{Gte: gte, Lte: lte}}
}

// ActiveFilter selects the records that are currently active for group.
func ActiveFilter(group string) Predicate {
	return Predicate{Must: []Condition{
		Eq(FieldGroup, group),
		Eq(FieldActive, true),
	}}
}

// GroupFilter selects every record of group regardless of version.
func GroupFilter(group string) Predicate {
	return Predicate{Must: []Condition{Eq(FieldGroup, group)}}
}

// CommitFilter selects the records uploaded by one commit of group.
func CommitFilter(group, commitHash string) Predicate {
	return Predicate{Must: []Condition{
		Eq(FieldGroup, group),
		Eq(FieldCommit, commitHash),
	}}
}

// And returns a predicate requiring both p and other. Neither input is modified.
func (p Predicate) And(other Predicate) Predicate {
	must := make([]Condition, 0, len(p.Must)+len(other.Must))
	must = append(must, p.Must...)
	must = append(must, other.Must...)
	return Predicate{Must: must}
}

// Matches evaluates the predicate against a payload.
func (p Predicate) Matches(payload map[string]any) bool {
	for _, c := range p.Must {
		v, ok := payload[c.Field]
		if !ok {
			return false
		}
		if c.Range != nil {
			f, ok := toFloat(v)
			if !ok {
				return false
			}
			if c.Range.Gte != nil && f < *c.Range.Gte {
				return false
			}
			if c.Range.Lte != nil && f > *c.Range.Lte {
				return false
			}
			continue
		}
		if !equalValues(v, c.Value) {
			return false
		}
	}
	return true
}

// QdrantFilter translates a predicate into a Qdrant filter.
// It returns nil for the zero predicate.
func QdrantFilter(p Predicate) *qdrant.Filter {
	if len(p.Must) == 0 {
		return nil
	}
	must := make([]*qdrant.Condition, 0, len(p.Must))
	for _, c := range p.Must {
		must = append(must, qdrantCondition(c))
	}
	return &qdrant.Filter{Must: must}
}

// MergeQdrantFilter adds the predicate's conditions to a caller-supplied
// Qdrant filter. The caller's filter is not modified; its Should and MustNot
// clauses are carried over unchanged.
func MergeQdrantFilter(p Predicate, caller *qdrant.Filter) *qdrant.Filter {
	own := QdrantFilter(p)
	if caller == nil {
		return own
	}
	if own == nil {
		own = &qdrant.Filter{}
	}
	merged := &qdrant.Filter{
		Must:    make([]*qdrant.Condition, 0, len(caller.Must)+len(own.Must)),
		Should:  caller.Should,
		MustNot: caller.MustNot,
	}
	merged.Must = append(merged.Must, caller.Must...)
	merged.Must = append(merged.Must, own.Must...)
	return merged
}

func qdrantCondition(c Condition) *qdrant.Condition {
	if c.Range != nil {
		return qdrant.NewRange(c.Field, &qdrant.Range{Gte: c.Range.Gte, Lte: c.Range.Lte})
	}
	switch v := c.Value.(type) {
	case bool:
		return qdrant.NewMatchBool(c.Field, v)
	case int:
		return qdrant.NewMatchInt(c.Field, int64(v))
	case int64:
		return qdrant.NewMatchInt(c.Field, v)
	case string:
		return qdrant.NewMatch(c.Field, v)
	default:
		return qdrant.NewMatch(c.Field, fmt.Sprintf("%v", v))
	}
}

func equalValues(stored, want any) bool {
	if sf, ok := toFloat(stored); ok {
		if wf, ok := toFloat(want); ok {
			return sf == wf
		}
	}
	return reflect.DeepEqual(stored, want)
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}
