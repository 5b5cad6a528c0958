package repository

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// timestampLayout is fixed-width so that lexical order of stored values
// equals chronological order (RFC3339Nano trims trailing zeros).
const timestampLayout = "2006-01-02T15:04:05.000000000Z"

const dateLayout = "2006-01-02"

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}

func parseTimestamp(s string) (time.Time, error) {
	return time.Parse(timestampLayout, s)
}

// parseNullableTime parses a sql.NullString into a *time.Time using the given layout.
// Returns nil if the value is NULL, empty, or fails to parse.
func parseNullableTime(s sql.NullString, layout string) *time.Time {
	if !s.Valid || s.String == "" {
		return nil
	}
	t, err := time.Parse(layout, s.String)
	if err != nil {
		return nil
	}
	return &t
}

// nullableTimestamp converts a *time.Time to a value suitable for storage.
// Returns nil (SQL NULL) if the pointer is nil.
func nullableTimestamp(t *time.Time) any {
	if t == nil {
		return nil
	}
	return formatTimestamp(*t)
}

func nullableString(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

func stringFromNull(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	v := s.String
	return &v
}

// nullableIntToValue converts a *int to a value suitable for storage.
func nullableIntToValue(v *int) any {
	if v == nil {
		return nil
	}
	return *v
}

func intFromNull(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	n := int(v.Int64)
	return &n
}

// boolToInt converts a Go bool to an integer (0 or 1) for storage.
func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// intToBool converts a stored integer (0 or 1) to a Go bool.
func intToBool(i int) bool {
	return i != 0
}

func encodeStates(states []bool) (any, error) {
	if states == nil {
		return nil, nil
	}
	data, err := json.Marshal(states)
	if err != nil {
		return nil, fmt.Errorf("encoding subtask states: %w", err)
	}
	return string(data), nil
}

func decodeStates(s sql.NullString) ([]bool, error) {
	if !s.Valid || s.String == "" {
		return nil, nil
	}
	var states []bool
	if err := json.Unmarshal([]byte(s.String), &states); err != nil {
		return nil, fmt.Errorf("decoding subtask states: %w", err)
	}
	return states, nil
}

// where accumulates AND-ed conditions and their arguments.
type where struct {
	conds []string
	args  []any
}

func (w *where) add(cond string, args ...any) {
	w.conds = append(w.conds, cond)
	w.args = append(w.args, args...)
}

// nullableEq adds "col = ?" or "col IS NULL" depending on v.
func (w *where) nullableEq(col string, v *string) {
	if v == nil {
		w.add(col + " IS NULL")
		return
	}
	w.add(col+" = ?", *v)
}

func (w *where) String() string {
	if len(w.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.conds, " AND ")
}

// assignments accumulates the SET list of a partial update.
type assignments struct {
	cols []string
	args []any
}

func (a *assignments) set(col string, v any) {
	a.cols = append(a.cols, col+" = ?")
	a.args = append(a.args, v)
}

func (a *assignments) String() string {
	return strings.Join(a.cols, ", ")
}

func (a *assignments) empty() bool {
	return len(a.cols) == 0
}
