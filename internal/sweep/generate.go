package sweep

import (
	"errors"
	"fmt"
)

// ErrRaggedColumns indicates Generate was given value columns of
// differing lengths.
var ErrRaggedColumns = errors.New("sweep: all value columns must have the same length")

// Generate renders one string per row of the given value columns by
// substituting each row into the fmt-style specification. Columns are
// zipped positionally: the i-th output uses the i-th element of every
// column.
//
//	Generate("run -n %v -i %v", []any{1, 2}, []any{"a.in", "b.in"})
//	  -> ["run -n 1 -i a.in", "run -n 2 -i b.in"]
func Generate(spec string, columns ...[]any) ([]string, error) {
	if len(columns) == 0 {
		return nil, nil
	}
	rows := len(columns[0])
	for _, col := range columns[1:] {
		if len(col) != rows {
			return nil, ErrRaggedColumns
		}
	}
	out := make([]string, 0, rows)
	for i := 0; i < rows; i++ {
		row := make([]any, len(columns))
		for j, col := range columns {
			row[j] = col[i]
		}
		out = append(out, fmt.Sprintf(spec, row...))
	}
	return out, nil
}
