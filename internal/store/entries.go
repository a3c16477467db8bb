package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"boxd/internal/models"
)

// ListPageSize is the fixed page size for child listings.
const ListPageSize = 20

// InsertEntry persists a new entry. The caller is responsible for having
// validated ownership and parent constraints beforehand.
func (s *Store) InsertEntry(ctx context.Context, entry *models.Entry) error {
	if entry == nil {
		return fmt.Errorf("entry is required")
	}
	isPublic := 0
	if entry.IsPublic {
		isPublic = 1
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO entries (id, owner_id, name, kind, parent_id, is_public, blob_path, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, string(entry.ID), string(entry.OwnerID), entry.Name, string(entry.Kind), string(entry.ParentID),
		isPublic, entry.BlobPath, dbFormatTime(entry.CreatedAt), dbFormatTime(entry.UpdatedAt))
	return err
}

// GetEntryByID returns one entry by id, or nil when it does not exist.
func (s *Store) GetEntryByID(ctx context.Context, id models.EntryID) (*models.Entry, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, owner_id, name, kind, parent_id, is_public, blob_path, created_at, updated_at
		FROM entries
		WHERE id = ?
		LIMIT 1
	`, string(id))
	return scanEntry(row)
}

// GetEntryByIDAndOwner returns one entry matching both id and owner, or nil.
func (s *Store) GetEntryByIDAndOwner(ctx context.Context, id models.EntryID, ownerID models.UserID) (*models.Entry, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, owner_id, name, kind, parent_id, is_public, blob_path, created_at, updated_at
		FROM entries
		WHERE id = ? AND owner_id = ?
		LIMIT 1
	`, string(id), string(ownerID))
	return scanEntry(row)
}

// ListEntriesByParent returns one fixed-size page of the owner's entries
// under a parent, ordered by id so pages are reproducible. Pages past the
// end come back empty.
func (s *Store) ListEntriesByParent(ctx context.Context, ownerID models.UserID, parentID models.EntryID, page int) ([]models.Entry, error) {
	if page < 0 {
		page = 0
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, owner_id, name, kind, parent_id, is_public, blob_path, created_at, updated_at
		FROM entries
		WHERE owner_id = ? AND parent_id = ?
		ORDER BY id ASC
		LIMIT ? OFFSET ?
	`, string(ownerID), string(parentID), ListPageSize, page*ListPageSize)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]models.Entry, 0)
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		if entry == nil {
			continue
		}
		entries = append(entries, *entry)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

// SetEntryVisibility updates only is_public and returns the fresh entry.
// Returns nil when the entry does not exist.
func (s *Store) SetEntryVisibility(ctx context.Context, id models.EntryID, isPublic bool, now time.Time) (*models.Entry, error) {
	value := 0
	if isPublic {
		value = 1
	}
	if _, err := s.db.ExecContext(ctx, `
		UPDATE entries SET is_public = ?, updated_at = ? WHERE id = ?
	`, value, dbFormatTime(now), string(id)); err != nil {
		return nil, err
	}
	return s.GetEntryByID(ctx, id)
}

// EntryExists checks whether an entry exists by raw id.
func (s *Store) EntryExists(id string) (bool, error) {
	var exists int
	err := s.db.QueryRow("SELECT 1 FROM entries WHERE id = ? LIMIT 1", id).Scan(&exists)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// CountEntries returns the total number of entries.
func (s *Store) CountEntries(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM entries").Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}

func scanEntry(scanner interface {
	Scan(dest ...any) error
}) (*models.Entry, error) {
	var entry models.Entry
	var id, ownerID, kind, parentID string
	var isPublic int
	var createdAt, updatedAt string
	err := scanner.Scan(&id, &ownerID, &entry.Name, &kind, &parentID, &isPublic, &entry.BlobPath, &createdAt, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	entry.ID = models.EntryID(id)
	entry.OwnerID = models.UserID(ownerID)
	entry.Kind = models.EntryKind(kind)
	entry.ParentID = models.EntryID(parentID)
	entry.IsPublic = isPublic != 0
	if entry.CreatedAt, err = dbParseTime(createdAt); err != nil {
		return nil, err
	}
	if entry.UpdatedAt, err = dbParseTime(updatedAt); err != nil {
		return nil, err
	}
	return &entry, nil
}
