package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/Sanali209/webos-dam/internal/core/domain"
	"github.com/Sanali209/webos-dam/internal/core/ports/driven"
)

// linkStore implements driven.LinkStore.
type linkStore struct {
	store *Store
}

var _ driven.LinkStore = (*linkStore)(nil)

// Save stores a link. The (source, target, relation) tuple is unique;
// a duplicate insert updates the existing edge's weight and metadata.
func (s *linkStore) Save(ctx context.Context, link *domain.Link) error {
	metadataJSON, err := json.Marshal(link.Metadata)
	if err != nil {
		return fmt.Errorf("marshalling link metadata: %w", err)
	}

	if link.CreatedAt.IsZero() {
		link.CreatedAt = time.Now().UTC()
	}

	_, err = s.store.db.ExecContext(ctx, `
		INSERT INTO links (id, source_id, target_id, relation, weight, metadata, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(source_id, target_id, relation) DO UPDATE SET
			weight = excluded.weight,
			metadata = excluded.metadata
	`, link.ID, link.SourceID, link.TargetID, link.Relation, link.Weight,
		string(metadataJSON), link.CreatedAt)

	if err != nil {
		return fmt.Errorf("saving link: %w", err)
	}
	return nil
}

// Exists reports whether a (source, target, relation) tuple is present.
func (s *linkStore) Exists(ctx context.Context, sourceID, targetID, relation string) (bool, error) {
	var count int
	err := s.store.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM links WHERE source_id = ? AND target_id = ? AND relation = ?
	`, sourceID, targetID, relation).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("checking link: %w", err)
	}
	return count > 0, nil
}

// ListBySource returns links originating at the asset.
func (s *linkStore) ListBySource(ctx context.Context, sourceID string) ([]domain.Link, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, source_id, target_id, relation, weight, metadata, created_at
		FROM links WHERE source_id = ?
	`, sourceID)
	if err != nil {
		return nil, fmt.Errorf("querying links: %w", err)
	}
	defer rows.Close()

	return scanLinks(rows)
}

// Neighbors returns every link touching any of the given asset ids.
func (s *linkStore) Neighbors(ctx context.Context, assetIDs []string) ([]domain.Link, error) {
	if len(assetIDs) == 0 {
		return nil, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(assetIDs)), ",")
	args := make([]any, 0, len(assetIDs)*2)
	for _, id := range assetIDs {
		args = append(args, id)
	}
	for _, id := range assetIDs {
		args = append(args, id)
	}

	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, source_id, target_id, relation, weight, metadata, created_at
		FROM links WHERE source_id IN (`+placeholders+`) OR target_id IN (`+placeholders+`)
	`, args...)
	if err != nil {
		return nil, fmt.Errorf("querying neighbours: %w", err)
	}
	defer rows.Close()

	return scanLinks(rows)
}

// DeleteByAsset removes every link where the asset is source or target.
func (s *linkStore) DeleteByAsset(ctx context.Context, assetID string) (int, error) {
	result, err := s.store.db.ExecContext(ctx,
		"DELETE FROM links WHERE source_id = ? OR target_id = ?", assetID, assetID)
	if err != nil {
		return 0, fmt.Errorf("deleting links: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("counting deleted links: %w", err)
	}
	return int(affected), nil
}

// scanLinks scans multiple link rows.
func scanLinks(rows *sql.Rows) ([]domain.Link, error) {
	var links []domain.Link //nolint:prealloc // size unknown from query
	for rows.Next() {
		var link domain.Link
		var metadataJSON string
		if err := rows.Scan(&link.ID, &link.SourceID, &link.TargetID, &link.Relation,
			&link.Weight, &metadataJSON, &link.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning link: %w", err)
		}

		if metadataJSON != "" {
			if err := json.Unmarshal([]byte(metadataJSON), &link.Metadata); err != nil {
				return nil, fmt.Errorf("unmarshaling link metadata: %w", err)
			}
		}
		links = append(links, link)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating links: %w", err)
	}

	return links, nil
}
