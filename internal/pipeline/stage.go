// Package pipeline describes enrichment queries as ordered stages.
// Building a pipeline never touches the database; the repository package
// compiles and executes them.
package pipeline

import (
	"fmt"
	"slices"
)

// Op is a match operator.
type Op int

const (
	// OpEq matches a column equal to the value.
	OpEq Op = iota
	// OpContains matches a case-insensitive substring.
	OpContains
)

func (o Op) String() string {
	switch o {
	case OpEq:
		return "eq"
	case OpContains:
		return "contains"
	default:
		return fmt.Sprintf("op(%d)", int(o))
	}
}

// Condition is one predicate of a Match stage. Field is a qualified
// column such as "videos.owner_id".
type Condition struct {
	Field string
	Op    Op
	Value any
}

// Eq builds an equality condition.
func Eq(field string, value any) Condition {
	return Condition{Field: field, Op: OpEq, Value: value}
}

// Contains builds a case-insensitive substring condition.
func Contains(field, needle string) Condition {
	return Condition{Field: field, Op: OpContains, Value: needle}
}

// Stage is one step of a pipeline. The set of stages is closed.
type Stage interface {
	stageName() string
}

// Match keeps rows satisfying every condition.
type Match struct {
	Conditions []Condition
}

// Lookup joins one row of From onto the current row. Only Fields of the
// joined row are ever exposed, under the As prefix.
type Lookup struct {
	From         string
	As           string
	LocalField   string
	ForeignField string
	Fields       []string
	// Inner drops rows without a match instead of yielding a null object.
	Inner bool
}

// Flatten collapses the joined rows of a Lookup into a single optional
// object: the first match or nil.
type Flatten struct {
	Field string
}

// CountRelated computes the number of rows in From whose ForeignField
// equals LocalField of the current row.
type CountRelated struct {
	From         string
	ForeignField string
	LocalField   string
	Where        []Condition
	As           string
}

// Field maps a source column onto an output name.
type Field struct {
	Source string
	As     string
}

// Project restricts the output to Fields.
type Project struct {
	Fields []Field
}

// SortKey is one ordering column.
type SortKey struct {
	Field string
	Desc  bool
}

// Sort orders rows by Keys in sequence.
type Sort struct {
	Keys []SortKey
}

// Skip drops the first N rows.
type Skip struct {
	N int
}

// Limit keeps at most N rows.
type Limit struct {
	N int
}

func (Match) stageName() string        { return "match" }
func (Lookup) stageName() string       { return "lookup" }
func (Flatten) stageName() string      { return "flatten" }
func (CountRelated) stageName() string { return "count" }
func (Project) stageName() string      { return "project" }
func (Sort) stageName() string         { return "sort" }
func (Skip) stageName() string         { return "skip" }
func (Limit) stageName() string        { return "limit" }

// Pipeline is an ordered list of stages rooted at one table.
type Pipeline struct {
	Collection string
	Stages     []Stage
	// Sortable maps public sort names onto columns.
	Sortable map[string]string
	// Label is the default key for the items array in a page envelope.
	Label string
}

// Append returns a copy of p with stages added at the end.
func (p Pipeline) Append(stages ...Stage) Pipeline {
	out := p
	out.Stages = append(slices.Clip(slices.Clone(p.Stages)), stages...)
	return out
}

// Filtering returns the part of p that decides which rows exist: its
// matches and joins. Counting this pipeline yields the total item count
// regardless of sorting or slicing.
func (p Pipeline) Filtering() Pipeline {
	out := p
	out.Stages = nil
	for _, st := range p.Stages {
		switch s := st.(type) {
		case Match, Lookup:
			out.Stages = append(out.Stages, s)
		case Flatten, CountRelated, Project, Sort, Skip, Limit:
		}
	}
	return out
}

// Names lists the stage names in order, mostly for logs and tests.
func (p Pipeline) Names() []string {
	names := make([]string, 0, len(p.Stages))
	for _, st := range p.Stages {
		names = append(names, st.stageName())
	}
	return names
}
