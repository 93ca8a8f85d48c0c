package sqlite

import (
	"database/sql"
	"fmt"
)

// Schema DDL. The elements table keeps the full JSON record in data; the
// other columns serve ordering and lookups.
const (
	createElements = `CREATE TABLE elements (
    id TEXT PRIMARY KEY,
    seq INTEGER NOT NULL,
    type TEXT NOT NULL,
    version INTEGER NOT NULL,
    version_nonce INTEGER NOT NULL,
    idx TEXT NOT NULL DEFAULT '',
    is_deleted INTEGER NOT NULL DEFAULT 0,
    data TEXT NOT NULL
);`

	createLinks = `CREATE TABLE links (
    kind TEXT NOT NULL,
    from_id TEXT NOT NULL,
    to_id TEXT NOT NULL,
    PRIMARY KEY (kind, from_id, to_id)
);`
)

// Index DDL.
const (
	idxElementsOrder = `CREATE INDEX idx_elements_order ON elements(idx, seq);`
	idxLinksTo       = `CREATE INDEX idx_links_to ON links(to_id);`
)

var schemaDDL = []string{
	createElements,
	createLinks,
	idxElementsOrder,
	idxLinksTo,
}

func createSchema(db *sql.DB) error {
	for _, stmt := range schemaDDL {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("creating schema: %w", err)
		}
	}
	return nil
}
