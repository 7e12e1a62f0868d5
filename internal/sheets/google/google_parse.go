package google

import (
	"fmt"
	"strings"

	ports "gofinances/internal/sheets"
)

const dateLayout = "2006-01-02"

// formatRow lays out a row as [id, date, title, category, type, value].
func formatRow(r ports.Row) []any {
	return []any{
		r.ID,
		r.Date.Format(dateLayout),
		r.Title,
		r.Category,
		r.Type,
		r.Value.String(),
	}
}

// findRow returns the index of the first row whose first cell equals id.
func findRow(values [][]any, id string) int {
	if id == "" {
		return -1
	}
	for i, row := range values {
		if len(row) == 0 {
			continue
		}
		if strings.TrimSpace(fmt.Sprint(row[0])) == id {
			return i
		}
	}
	return -1
}
