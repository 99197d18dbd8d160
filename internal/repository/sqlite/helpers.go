package sqlite

import (
	"database/sql"
	"fmt"
	"strings"
)

// maxQueryParams stays well below SQLite's bound variable limit
const maxQueryParams = 500

// chunkKeys splits keys into slices of at most size elements
func chunkKeys(keys []string, size int) [][]string {
	var chunks [][]string
	for len(keys) > size {
		chunks = append(chunks, keys[:size])
		keys = keys[size:]
	}
	if len(keys) > 0 {
		chunks = append(chunks, keys)
	}
	return chunks
}

// inQuery expands the %s in format to one placeholder per key. The first
// argument is the collection name.
func inQuery(format, collection string, keys []string) (string, []any) {
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(keys)), ",")
	args := make([]any, 0, len(keys)+1)
	args = append(args, collection)
	for _, k := range keys {
		args = append(args, k)
	}
	return fmt.Sprintf(format, placeholders), args
}

// scanIDs reads a single column of ids and closes rows
func scanIDs(rows *sql.Rows) ([]any, error) {
	defer rows.Close()

	var ids []any
	for rows.Next() {
		var id any
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan id: %w", err)
		}
		if b, ok := id.([]byte); ok {
			id = string(b)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating ids: %w", err)
	}
	return ids, nil
}
