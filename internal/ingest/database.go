package ingest

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	"execlink/internal/records"
)

// candidateTables are tried in order when no table is configured, matching
// the naming seen in upstream databases.
var candidateTables = []string{"executives", "executive", "execs", "exec"}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

func quoteIdentMySQL(name string) string {
	return "`" + strings.ReplaceAll(name, "`", "``") + "`"
}

func fetchTable(ctx context.Context, db *sql.DB, table, quoted string) ([]records.Record, error) {
	rows, err := db.QueryContext(ctx, `SELECT * FROM `+quoted)
	if err != nil {
		return nil, fmt.Errorf("query table %s: %w", table, err)
	}
	defer func() { _ = rows.Close() }()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("read columns of %s: %w", table, err)
	}
	cols, err := identifyColumns(columns)
	if err != nil {
		return nil, fmt.Errorf("table %s: %w", table, err)
	}

	values := make([]any, len(columns))
	ptrs := make([]any, len(columns))
	for i := range values {
		ptrs[i] = &values[i]
	}

	var batch []records.Record
	for row := 1; rows.Next(); row++ {
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("scan row %d of %s: %w", row, table, err)
		}
		fields := make([]string, len(values))
		for i, value := range values {
			fields[i] = valueToString(value)
		}
		rec := records.Record{
			ID:      fieldAt(fields, cols.id),
			Name:    fieldAt(fields, cols.name),
			Title:   fieldAt(fields, cols.title),
			Address: fieldAt(fields, cols.address),
			Company: fieldAt(fields, cols.company),
		}
		if rec.ID == "" {
			rec.ID = strconv.Itoa(row)
		}
		batch = append(batch, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s: %w", table, err)
	}
	return batch, nil
}

func valueToString(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case []byte:
		return string(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	case time.Time:
		return v.Format(time.RFC3339)
	default:
		return fmt.Sprint(v)
	}
}
