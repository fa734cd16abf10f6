// Package render turns query results into text.
package render

import (
	"database/sql/driver"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/povarna/generative-ai-agents/sql-agent/internal/database"
	"github.com/pterm/pterm"
)

// FormatRow prints a row as a tuple: (0,) for one value, (1, 'ABCD', NULL) otherwise.
func FormatRow(values []any) string {
	if len(values) == 1 {
		return "(" + FormatValue(values[0]) + ",)"
	}

	parts := make([]string, len(values))
	for i, value := range values {
		parts[i] = FormatValue(value)
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// FormatValue renders a single column value.
func FormatValue(value any) string {
	switch v := value.(type) {
	case nil:
		return "NULL"
	case string:
		return "'" + strings.ReplaceAll(v, "'", "''") + "'"
	case []byte:
		return `'\x` + hex.EncodeToString(v) + "'"
	case time.Time:
		return "'" + v.Format(time.RFC3339) + "'"
	case fmt.Stringer:
		return v.String()
	case driver.Valuer:
		inner, err := v.Value()
		if err != nil {
			return fmt.Sprint(value)
		}
		// Valuers such as pgtype.Numeric report their text form as a string.
		if s, ok := inner.(string); ok {
			return s
		}
		return FormatValue(inner)
	default:
		return fmt.Sprint(v)
	}
}

// Lines renders every row of the result in tuple form.
func Lines(result *database.Result) []string {
	if result == nil {
		return nil
	}

	lines := make([]string, 0, len(result.Rows))
	for _, row := range result.Rows {
		lines = append(lines, FormatRow(row))
	}
	return lines
}

// Table builds pterm table data with the column names as header.
func Table(result *database.Result) pterm.TableData {
	if result == nil || len(result.Columns) == 0 {
		return nil
	}

	data := pterm.TableData{result.Columns}
	for _, row := range result.Rows {
		cells := make([]string, len(row))
		for i, value := range row {
			cells[i] = FormatValue(value)
		}
		data = append(data, cells)
	}
	return data
}
