package admindata

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/uptrace/bun"

	"myday-qr/internal/apperr"
	"myday-qr/internal/models"
)

// Table reads rows of one model through a ListQuery. Column names in the
// query are checked against the model so nothing from the client reaches SQL
// unescaped.
type Table[T any] struct {
	DB *bun.DB
	// Hidden columns are never selected, filtered or ordered on.
	Hidden []string
	// Missing reports columns absent from the live schema.
	Missing func() []string
}

func (t Table[T]) excluded() map[string]bool {
	out := make(map[string]bool, len(t.Hidden))
	for _, c := range t.Hidden {
		out[c] = true
	}
	if t.Missing != nil {
		for _, c := range t.Missing() {
			out[c] = true
		}
	}
	return out
}

func (t Table[T]) columns() []string {
	var zero T
	table := t.DB.Table(reflect.TypeOf(zero))
	skip := t.excluded()

	var cols []string
	for _, f := range table.Fields {
		if !skip[f.Name] {
			cols = append(cols, f.Name)
		}
	}
	return cols
}

func (t Table[T]) column(name string, field string) (string, error) {
	name = strings.TrimSpace(name)
	for _, c := range t.columns() {
		if c == name {
			return c, nil
		}
	}
	return "", apperr.Invalid(fmt.Sprintf("unknown column %q", name), apperr.FieldErrors{field: "unknown column"})
}

func (t Table[T]) selection(sel string) ([]string, error) {
	sel = strings.TrimSpace(sel)
	if sel == "" || sel == "*" {
		return t.columns(), nil
	}
	var cols []string
	for _, part := range strings.Split(sel, ",") {
		c, err := t.column(part, "query.select")
		if err != nil {
			return nil, err
		}
		cols = append(cols, c)
	}
	return cols, nil
}

func (t Table[T]) List(ctx context.Context, q models.ListQuery) (interface{}, error) {
	cols, err := t.selection(q.Select)
	if err != nil {
		return nil, err
	}

	rows := make([]T, 0)
	query := t.DB.NewSelect().Model(&rows).Column(cols...)

	if q.Eq != nil {
		c, err := t.column(q.Eq.Column, "query.eq.column")
		if err != nil {
			return nil, err
		}
		query = query.Where("? = ?", bun.Ident(c), q.Eq.Value)
	}
	if q.Order != nil {
		c, err := t.column(q.Order.Column, "query.order.column")
		if err != nil {
			return nil, err
		}
		dir := "ASC"
		if q.Order.Ascending != nil && !*q.Order.Ascending {
			dir = "DESC"
		}
		query = query.OrderExpr("? "+dir, bun.Ident(c))
	}

	if err := query.Scan(ctx); err != nil {
		return nil, err
	}
	return rows, nil
}

// Get loads one row by id with every visible column.
func (t Table[T]) Get(ctx context.Context, id string) (*T, error) {
	row := new(T)
	err := t.DB.NewSelect().Model(row).Column(t.columns()...).
		Where("? = ?", bun.Ident("id"), id).
		Limit(1).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("row %s: %w", id, apperr.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return row, nil
}
