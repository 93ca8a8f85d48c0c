// This file loads elements.jsonl into SQLite and reads elements back.
package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/BakaI9/excalidraw/pkg/types"
)

// loadElements reads the JSONL file at path into db in one transaction.
// Lines that do not decode to a valid element, or repeat an ID already
// loaded, are skipped with a warning. It returns the number of elements
// loaded.
func loadElements(db *sql.DB, path string, logger *zap.Logger) (int, error) {
	records, malformed, err := readJSONL(path)
	if err != nil {
		return 0, err
	}
	if malformed > 0 {
		logger.Warn("skipped malformed lines", zap.String("file", path), zap.Int("lines", malformed))
	}

	elements := make([]*types.Element, 0, len(records))
	seen := make(map[string]bool, len(records))
	for i, rec := range records {
		var el types.Element
		if err := json.Unmarshal(rec, &el); err != nil {
			logger.Warn("skipped undecodable element", zap.Int("record", i), zap.Error(err))
			continue
		}
		if err := types.ValidateElement(&el); err != nil {
			logger.Warn("skipped invalid element", zap.Int("record", i), zap.Error(err))
			continue
		}
		if seen[el.ID] {
			logger.Warn("skipped duplicate element", zap.String("elementId", el.ID))
			continue
		}
		seen[el.ID] = true
		elements = append(elements, &el)
	}

	tx, err := db.Begin()
	if err != nil {
		return 0, fmt.Errorf("beginning load transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := insertElements(tx, elements); err != nil {
		return 0, err
	}
	if err := insertLinks(tx, elements); err != nil {
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing load transaction: %w", err)
	}
	return len(elements), nil
}

// insertElements writes elements in order and returns their JSON records.
func insertElements(tx *sql.Tx, elements []*types.Element) ([]json.RawMessage, error) {
	stmt, err := tx.Prepare(`INSERT INTO elements
    (id, seq, type, version, version_nonce, idx, is_deleted, data)
    VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return nil, fmt.Errorf("preparing element insert: %w", err)
	}
	defer stmt.Close()

	records := make([]json.RawMessage, 0, len(elements))
	for seq, el := range elements {
		data, err := json.Marshal(el)
		if err != nil {
			return nil, fmt.Errorf("encoding element %s: %w", el.ID, err)
		}
		if _, err := stmt.Exec(el.ID, seq, string(el.Type), el.Version, el.VersionNonce,
			el.Index, boolToInt(el.IsDeleted), string(data)); err != nil {
			return nil, fmt.Errorf("inserting element %s: %w", el.ID, err)
		}
		records = append(records, data)
	}
	return records, nil
}

// queryElements returns every stored element in paint order.
func queryElements(db *sql.DB) ([]*types.Element, error) {
	rows, err := db.Query("SELECT data FROM elements ORDER BY idx, seq")
	if err != nil {
		return nil, fmt.Errorf("querying elements: %w", err)
	}
	defer rows.Close()

	var out []*types.Element
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("scanning element: %w", err)
		}
		var el types.Element
		if err := json.Unmarshal([]byte(data), &el); err != nil {
			return nil, fmt.Errorf("decoding element: %w", err)
		}
		out = append(out, &el)
	}
	return out, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
