package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/marmos91/dittonas/pkg/controlplane/models"
)

// ============================================================================
// Generic GORM Helpers
// ============================================================================
//
// These helpers reduce repetitive query boilerplate across store implementation
// files. They are unexported and operate on the raw *gorm.DB to avoid coupling
// to GORMStore.

// ListOptions controls paging and ordering of list queries.
type ListOptions struct {
	// Offset is the number of rows to skip.
	Offset int

	// Limit caps the number of rows returned. Zero means no limit.
	Limit int

	// OrderBy lists public field names, each optionally prefixed with "-"
	// for descending order. Fields must be present in the resource's
	// column whitelist.
	OrderBy []string
}

// preload names an association to load with the parent rows. conds are
// passed to gorm's Preload as-is.
type preload struct {
	assoc string
	conds []any
}

// with loads assoc in whatever order the database returns it.
func with(assoc string) preload {
	return preload{assoc: assoc}
}

// withOrdered loads a has-many assoc in primary key order, which is the
// order the rows were imported in.
func withOrdered(assoc string) preload {
	return preload{assoc: assoc, conds: []any{byPrimaryKey}}
}

func byPrimaryKey(db *gorm.DB) *gorm.DB {
	return db.Order("id")
}

func applyPreloads(q *gorm.DB, preloads []preload) *gorm.DB {
	for _, p := range preloads {
		q = q.Preload(p.assoc, p.conds...)
	}
	return q
}

// columns maps public (JSON) field names to database columns for ordering.
type columns map[string]string

// orderClauses resolves OrderBy against the whitelist. Results always end
// with the primary key so pages are stable.
func orderClauses(orderBy []string, allowed columns) ([]clause.OrderByColumn, error) {
	out := make([]clause.OrderByColumn, 0, len(orderBy)+1)
	for _, field := range orderBy {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		desc := false
		switch field[0] {
		case '-':
			desc, field = true, field[1:]
		case '+':
			field = field[1:]
		}
		col, ok := allowed[field]
		if !ok {
			return nil, fmt.Errorf("%w: %q", models.ErrInvalidOrdering, field)
		}
		out = append(out, clause.OrderByColumn{Column: clause.Column{Name: col}, Desc: desc})
	}
	return append(out, clause.OrderByColumn{Column: clause.Column{Name: "id"}}), nil
}

// listPage returns one page of T and the total row count matching scope.
// scope may be nil.
//
// Example:
//
//	disks, total, err := listPage[models.Disk](db, ctx, opts, diskColumns, listableDisks)
func listPage[T any](db *gorm.DB, ctx context.Context, opts ListOptions, allowed columns, scope func(*gorm.DB) *gorm.DB, preloads ...preload) ([]*T, int64, error) {
	if opts.Offset < 0 || opts.Limit < 0 {
		return nil, 0, models.ErrInvalidRange
	}
	order, err := orderClauses(opts.OrderBy, allowed)
	if err != nil {
		return nil, 0, err
	}

	base := func() *gorm.DB {
		q := db.WithContext(ctx).Model(new(T))
		if scope != nil {
			q = scope(q)
		}
		return q
	}

	var total int64
	if err := base().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	q := applyPreloads(base(), preloads)
	for _, o := range order {
		q = q.Order(o)
	}
	if opts.Offset > 0 {
		q = q.Offset(opts.Offset)
	}
	if opts.Limit > 0 {
		q = q.Limit(opts.Limit)
	}

	results := []*T{}
	if err := q.Find(&results).Error; err != nil {
		return nil, 0, err
	}
	return results, total, nil
}

// getByField retrieves a single record of type T by matching field=value.
// It applies optional GORM Preload clauses and converts gorm.ErrRecordNotFound
// to the provided notFoundErr for consistent domain error mapping.
//
// Example:
//
//	vol, err := getByField[models.Volume](db, ctx, "name", "tank", models.ErrVolumeNotFound, withOrdered("MountPoints"))
func getByField[T any](db *gorm.DB, ctx context.Context, field string, value any, notFoundErr error, preloads ...preload) (*T, error) {
	var result T
	q := applyPreloads(db.WithContext(ctx), preloads)
	if err := q.Where(field+" = ?", value).First(&result).Error; err != nil {
		return nil, convertNotFoundError(err, notFoundErr)
	}
	return &result, nil
}

// listAll retrieves all records of type T ordered by primary key, applying
// optional GORM Preload clauses. Returns an empty slice (not nil) on success
// with no records.
func listAll[T any](db *gorm.DB, ctx context.Context, preloads ...preload) ([]*T, error) {
	results := []*T{}
	q := applyPreloads(db.WithContext(ctx), preloads)
	if err := q.Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// createWithID generates a UUID for the entity if it has no ID, then creates
// it in the database. The idSetter callback sets the generated ID on the entity.
// Unique constraint violations are converted to dupErr for consistent error handling.
func createWithID[T any](db *gorm.DB, ctx context.Context, entity *T, idSetter func(*T, string), currentID string, dupErr error) (string, error) {
	id := currentID
	if id == "" {
		id = uuid.New().String()
		idSetter(entity, id)
	}
	if err := db.WithContext(ctx).Create(entity).Error; err != nil {
		if isUniqueConstraintError(err) {
			return "", dupErr
		}
		return "", err
	}
	return id, nil
}

// deleteAll removes every row of T. Used by inventory replacement.
func deleteAll[T any](tx *gorm.DB) error {
	var zero T
	return tx.Where("1 = 1").Delete(&zero).Error
}
