package repository

import (
	"context"
	"fmt"
	"strings"

	"videotube/internal/observability"
	"videotube/internal/pipeline"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

// Aggregator compiles pipelines into SQL and runs them.
type Aggregator struct {
	db *gorm.DB
}

// NewAggregator creates an executor bound to db.
func NewAggregator(db *gorm.DB) *Aggregator {
	return &Aggregator{db: db}
}

type lookupInfo struct {
	fields map[string]bool
}

// compile turns p into a query. Column names only ever come from pipeline
// builders; user input reaches SQL through bind variables.
func compile(db *gorm.DB, p pipeline.Pipeline) (*gorm.DB, error) {
	tx := db.Table(p.Collection)
	lookups := map[string]lookupInfo{}
	counts := map[string]pipeline.CountRelated{}

	for _, st := range p.Stages {
		switch s := st.(type) {
		case pipeline.Match:
			for _, cond := range s.Conditions {
				switch cond.Op {
				case pipeline.OpEq:
					tx = tx.Where(cond.Field+" = ?", cond.Value)
				case pipeline.OpContains:
					needle, _ := cond.Value.(string)
					tx = tx.Where(fmt.Sprintf("LOWER(%s) LIKE ? ESCAPE '\\'", cond.Field), likePattern(needle))
				default:
					return nil, fmt.Errorf("pipeline %s: unsupported operator %s", p.Collection, cond.Op)
				}
			}
		case pipeline.Lookup:
			join := "LEFT JOIN"
			if s.Inner {
				join = "INNER JOIN"
			}
			tx = tx.Joins(fmt.Sprintf("%s %s AS %s ON %s.%s = %s",
				join, s.From, s.As, s.As, s.ForeignField, s.LocalField))
			info := lookupInfo{}
			if len(s.Fields) > 0 {
				info.fields = map[string]bool{}
				for _, f := range s.Fields {
					info.fields[f] = true
				}
			}
			lookups[s.As] = info
		case pipeline.Flatten:
			if _, ok := lookups[s.Field]; !ok {
				return nil, fmt.Errorf("pipeline %s: flatten of unknown lookup %q", p.Collection, s.Field)
			}
		case pipeline.CountRelated:
			counts[s.As] = s
		case pipeline.Project:
			sel, args, err := projection(s, lookups, counts)
			if err != nil {
				return nil, fmt.Errorf("pipeline %s: %w", p.Collection, err)
			}
			if len(args) > 0 {
				tx = tx.Select(sel, args...)
			} else {
				tx = tx.Select(sel)
			}
		case pipeline.Sort:
			for _, key := range s.Keys {
				if key.Desc {
					tx = tx.Order(key.Field + " DESC")
				} else {
					tx = tx.Order(key.Field + " ASC")
				}
			}
		case pipeline.Skip:
			tx = tx.Offset(s.N)
		case pipeline.Limit:
			tx = tx.Limit(s.N)
		default:
			return nil, fmt.Errorf("pipeline %s: unknown stage %T", p.Collection, st)
		}
	}
	return tx, nil
}

func projection(s pipeline.Project, lookups map[string]lookupInfo, counts map[string]pipeline.CountRelated) (string, []any, error) {
	parts := make([]string, 0, len(s.Fields))
	var args []any
	for _, f := range s.Fields {
		if c, ok := counts[f.Source]; ok {
			alias := "c_" + c.As
			sub := fmt.Sprintf("SELECT COUNT(*) FROM %s AS %s WHERE %s.%s = %s",
				c.From, alias, alias, c.ForeignField, c.LocalField)
			for _, cond := range c.Where {
				if cond.Op != pipeline.OpEq {
					return "", nil, fmt.Errorf("count %s: unsupported operator %s", c.As, cond.Op)
				}
				sub += fmt.Sprintf(" AND %s.%s = ?", alias, cond.Field)
				args = append(args, cond.Value)
			}
			parts = append(parts, fmt.Sprintf("(%s) AS %s", sub, f.As))
			continue
		}

		if alias, column, found := strings.Cut(f.Source, "."); found {
			if info, ok := lookups[alias]; ok && info.fields != nil && !info.fields[column] {
				return "", nil, fmt.Errorf("field %s is not exposed by lookup %s", column, alias)
			}
		}
		parts = append(parts, fmt.Sprintf("%s AS %s", f.Source, f.As))
	}
	return strings.Join(parts, ", "), args, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func likePattern(needle string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(needle)) + "%"
}

// All runs p and scans every row into dest.
func (a *Aggregator) All(ctx context.Context, p pipeline.Pipeline, dest any) error {
	defer observability.TrackQuery("aggregate", p.Collection)()
	tx, err := compile(a.db.WithContext(ctx), p)
	if err != nil {
		return err
	}
	return tx.Scan(dest).Error
}

// Count returns how many rows p yields before any slicing.
func (a *Aggregator) Count(ctx context.Context, p pipeline.Pipeline) (int64, error) {
	defer observability.TrackQuery("count", p.Collection)()
	tx, err := compile(a.db.WithContext(ctx), p.Filtering())
	if err != nil {
		return 0, err
	}
	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

// Paginate runs one page of p and, alongside it, the unsliced count of the
// same filtered pipeline. Rows are scanned as R and shaped into T.
func Paginate[R, T any](ctx context.Context, a *Aggregator, p pipeline.Pipeline, q pipeline.PageQuery, shape func(R) T) (*pipeline.Page[T], error) {
	q = q.Normalize()
	paged, err := pipeline.WithPage(p, q)
	if err != nil {
		return nil, err
	}

	var (
		rows  []R
		total int64
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := a.Count(gctx, p)
		total = n
		return err
	})
	g.Go(func() error {
		return a.All(gctx, paged, &rows)
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	items := make([]T, 0, len(rows))
	for _, r := range rows {
		items = append(items, shape(r))
	}
	return pipeline.NewPage(items, total, q, p.Label), nil
}

// Collect runs p without pagination and shapes every row.
func Collect[R, T any](ctx context.Context, a *Aggregator, p pipeline.Pipeline, shape func(R) T) ([]T, error) {
	var rows []R
	if err := a.All(ctx, p, &rows); err != nil {
		return nil, err
	}
	items := make([]T, 0, len(rows))
	for _, r := range rows {
		items = append(items, shape(r))
	}
	return items, nil
}
