// This file derives the links table from element relations.
package sqlite

import (
	"database/sql"
	"fmt"

	"github.com/BakaI9/excalidraw/pkg/types"
)

// LinkKind names a derived relation between two IDs.
type LinkKind string

// Link kinds. FromID is always the element holding the reference.
const (
	LinkArrowStart LinkKind = "arrow_start" // connector -> start target
	LinkArrowEnd   LinkKind = "arrow_end"   // connector -> end target
	LinkBoundText  LinkKind = "bound_text"  // text -> container
	LinkFrame      LinkKind = "frame"       // element -> frame
	LinkGroup      LinkKind = "group"       // element -> group ID
)

// Link is one row of the links table.
type Link struct {
	Kind   LinkKind `json:"kind"`
	FromID string   `json:"fromId"`
	ToID   string   `json:"toId"`
}

// deriveLinks lists the relations held by el.
func deriveLinks(el *types.Element) []Link {
	var out []Link
	if el.StartBinding != nil && el.StartBinding.ElementID != "" {
		out = append(out, Link{LinkArrowStart, el.ID, el.StartBinding.ElementID})
	}
	if el.EndBinding != nil && el.EndBinding.ElementID != "" {
		out = append(out, Link{LinkArrowEnd, el.ID, el.EndBinding.ElementID})
	}
	if el.ContainerID != "" {
		out = append(out, Link{LinkBoundText, el.ID, el.ContainerID})
	}
	if el.FrameID != "" {
		out = append(out, Link{LinkFrame, el.ID, el.FrameID})
	}
	for _, g := range el.GroupIDs {
		out = append(out, Link{LinkGroup, el.ID, g})
	}
	return out
}

func insertLinks(tx *sql.Tx, elements []*types.Element) error {
	stmt, err := tx.Prepare("INSERT OR IGNORE INTO links (kind, from_id, to_id) VALUES (?, ?, ?)")
	if err != nil {
		return fmt.Errorf("preparing link insert: %w", err)
	}
	defer stmt.Close()

	for _, el := range elements {
		for _, l := range deriveLinks(el) {
			if _, err := stmt.Exec(string(l.Kind), l.FromID, l.ToID); err != nil {
				return fmt.Errorf("inserting link %s %s->%s: %w", l.Kind, l.FromID, l.ToID, err)
			}
		}
	}
	return nil
}

// Links returns the relations in which id takes part on either side,
// ordered by kind and IDs.
func (b *Backend) Links(id string) ([]Link, error) {
	if id == "" {
		return nil, types.ErrInvalidID
	}
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.attached {
		return nil, types.ErrBoardDetached
	}
	rows, err := b.db.Query(
		"SELECT kind, from_id, to_id FROM links WHERE from_id = ? OR to_id = ? ORDER BY kind, from_id, to_id",
		id, id,
	)
	if err != nil {
		return nil, fmt.Errorf("querying links for %s: %w", id, err)
	}
	defer rows.Close()

	var out []Link
	for rows.Next() {
		var (
			l    Link
			kind string
		)
		if err := rows.Scan(&kind, &l.FromID, &l.ToID); err != nil {
			return nil, fmt.Errorf("scanning link: %w", err)
		}
		l.Kind = LinkKind(kind)
		out = append(out, l)
	}
	return out, rows.Err()
}
