package database

import (
	"fmt"
	"strings"
)

// SetBuilder accumulates the SET clauses of a partial UPDATE.
type SetBuilder struct {
	clauses []string
	args    []any
}

// Set adds "column = $n" when v is non-nil.
func Set[T any](b *SetBuilder, column string, v *T) {
	if v == nil {
		return
	}
	b.Value(column, *v)
}

// Value adds "column = $n" unconditionally.
func (b *SetBuilder) Value(column string, v any) {
	b.args = append(b.args, v)
	b.clauses = append(b.clauses, fmt.Sprintf("%s = $%d", column, len(b.args)))
}

// Len reports how many columns have been set.
func (b *SetBuilder) Len() int {
	return len(b.clauses)
}

// Update renders the UPDATE statement for the row with the given id.
func (b *SetBuilder) Update(table, id, returning string) (string, []any) {
	args := make([]any, len(b.args), len(b.args)+1)
	copy(args, b.args)
	args = append(args, id)

	query := fmt.Sprintf(`UPDATE %s SET %s WHERE id = $%d RETURNING %s`,
		table, strings.Join(b.clauses, ", "), len(args), returning)
	return query, args
}
