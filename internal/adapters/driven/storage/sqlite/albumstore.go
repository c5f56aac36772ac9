package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Sanali209/webos-dam/internal/core/domain"
	"github.com/Sanali209/webos-dam/internal/core/ports/driven"
)

// albumStore implements driven.AlbumStore.
type albumStore struct {
	store *Store
}

var _ driven.AlbumStore = (*albumStore)(nil)

// Save stores or updates an album.
func (s *albumStore) Save(ctx context.Context, album *domain.Album) error {
	assetIDsJSON, err := json.Marshal(album.AssetIDs)
	if err != nil {
		return fmt.Errorf("marshalling album members: %w", err)
	}

	now := time.Now().UTC()
	if album.CreatedAt.IsZero() {
		album.CreatedAt = now
	}
	album.UpdatedAt = now

	_, err = s.store.db.ExecContext(ctx, `
		INSERT INTO albums (id, owner_id, title, description, parent_id, cover_asset_id, asset_ids, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			owner_id = excluded.owner_id,
			title = excluded.title,
			description = excluded.description,
			parent_id = excluded.parent_id,
			cover_asset_id = excluded.cover_asset_id,
			asset_ids = excluded.asset_ids,
			updated_at = excluded.updated_at
	`, album.ID, album.OwnerID, album.Title, album.Description, album.ParentID,
		album.CoverAssetID, string(assetIDsJSON), album.CreatedAt, album.UpdatedAt)

	if err != nil {
		return fmt.Errorf("saving album: %w", err)
	}
	return nil
}

// Get retrieves an album by ID.
func (s *albumStore) Get(ctx context.Context, id string) (*domain.Album, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, owner_id, title, description, parent_id, cover_asset_id, asset_ids, created_at, updated_at
		FROM albums WHERE id = ?
	`, id)

	var album domain.Album
	var assetIDsJSON string
	if err := row.Scan(&album.ID, &album.OwnerID, &album.Title, &album.Description,
		&album.ParentID, &album.CoverAssetID, &assetIDsJSON, &album.CreatedAt, &album.UpdatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning album: %w", err)
	}

	if err := json.Unmarshal([]byte(assetIDsJSON), &album.AssetIDs); err != nil {
		return nil, fmt.Errorf("unmarshaling album members: %w", err)
	}
	return &album, nil
}

// Delete removes an album.
func (s *albumStore) Delete(ctx context.Context, id string) error {
	_, err := s.store.db.ExecContext(ctx, "DELETE FROM albums WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting album: %w", err)
	}
	return nil
}

// List returns albums for an owner; empty owner means all.
func (s *albumStore) List(ctx context.Context, ownerID string) ([]domain.Album, error) {
	query := `SELECT id, owner_id, title, description, parent_id, cover_asset_id, asset_ids, created_at, updated_at FROM albums`
	var args []any
	if ownerID != "" {
		query += ` WHERE owner_id = ?`
		args = append(args, ownerID)
	}

	rows, err := s.store.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying albums: %w", err)
	}
	defer rows.Close()

	return scanAlbums(rows)
}

// ListByAsset returns albums containing the asset. Membership lives in
// the asset_ids JSON array.
func (s *albumStore) ListByAsset(ctx context.Context, assetID string) ([]domain.Album, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, owner_id, title, description, parent_id, cover_asset_id, asset_ids, created_at, updated_at
		FROM albums
		WHERE EXISTS (SELECT 1 FROM json_each(albums.asset_ids) WHERE json_each.value = ?)
	`, assetID)
	if err != nil {
		return nil, fmt.Errorf("querying albums by asset: %w", err)
	}
	defer rows.Close()

	return scanAlbums(rows)
}

// ListChildren returns albums whose parent is the given album.
func (s *albumStore) ListChildren(ctx context.Context, parentID string) ([]domain.Album, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, owner_id, title, description, parent_id, cover_asset_id, asset_ids, created_at, updated_at
		FROM albums WHERE parent_id = ?
	`, parentID)
	if err != nil {
		return nil, fmt.Errorf("querying child albums: %w", err)
	}
	defer rows.Close()

	return scanAlbums(rows)
}

// scanAlbums scans multiple album rows.
func scanAlbums(rows *sql.Rows) ([]domain.Album, error) {
	var albums []domain.Album //nolint:prealloc // size unknown from query
	for rows.Next() {
		var album domain.Album
		var assetIDsJSON string
		if err := rows.Scan(&album.ID, &album.OwnerID, &album.Title, &album.Description,
			&album.ParentID, &album.CoverAssetID, &assetIDsJSON, &album.CreatedAt, &album.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning album: %w", err)
		}

		if err := json.Unmarshal([]byte(assetIDsJSON), &album.AssetIDs); err != nil {
			return nil, fmt.Errorf("unmarshaling album members: %w", err)
		}
		albums = append(albums, album)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating albums: %w", err)
	}

	return albums, nil
}
