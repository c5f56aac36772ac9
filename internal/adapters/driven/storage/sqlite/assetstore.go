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

// assetStore implements driven.AssetStore.
type assetStore struct {
	store *Store
}

var _ driven.AssetStore = (*assetStore)(nil)

// assetColumns is the canonical select list; every scan follows it.
const assetColumns = `id, owner_id, filename, storage_urn, size, mime_type, hash, phash,
	asset_types, status, error_message, visibility, title, description, tags,
	width, height, duration, thumbnails, ai_caption, ai_tags, detected_objects,
	vectors, vectors_indexed, metadata, version, created_at, updated_at`

// Save stores or updates an asset. The version counter increments on
// every write.
func (s *assetStore) Save(ctx context.Context, asset *domain.Asset) error {
	asset.EnsureMaps()

	now := time.Now().UTC()
	if asset.CreatedAt.IsZero() {
		asset.CreatedAt = now
	}
	asset.UpdatedAt = now
	asset.Version++

	typesJSON, err := json.Marshal(asset.AssetTypes)
	if err != nil {
		return fmt.Errorf("marshalling asset types: %w", err)
	}
	tagsJSON, err := json.Marshal(asset.Tags)
	if err != nil {
		return fmt.Errorf("marshalling tags: %w", err)
	}
	thumbsJSON, err := json.Marshal(asset.Thumbnails)
	if err != nil {
		return fmt.Errorf("marshalling thumbnails: %w", err)
	}
	aiTagsJSON, err := json.Marshal(asset.AITags)
	if err != nil {
		return fmt.Errorf("marshalling ai tags: %w", err)
	}
	objectsJSON, err := json.Marshal(asset.DetectedObjects)
	if err != nil {
		return fmt.Errorf("marshalling detected objects: %w", err)
	}
	vectorsJSON, err := json.Marshal(asset.Vectors)
	if err != nil {
		return fmt.Errorf("marshalling vectors: %w", err)
	}
	indexedJSON, err := json.Marshal(asset.VectorsIndexed)
	if err != nil {
		return fmt.Errorf("marshalling vectors indexed: %w", err)
	}
	metadataJSON, err := json.Marshal(asset.Metadata)
	if err != nil {
		return fmt.Errorf("marshalling metadata: %w", err)
	}

	_, err = s.store.db.ExecContext(ctx, `
		INSERT INTO assets (`+assetColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			owner_id = excluded.owner_id,
			filename = excluded.filename,
			storage_urn = excluded.storage_urn,
			size = excluded.size,
			mime_type = excluded.mime_type,
			hash = excluded.hash,
			phash = excluded.phash,
			asset_types = excluded.asset_types,
			status = excluded.status,
			error_message = excluded.error_message,
			visibility = excluded.visibility,
			title = excluded.title,
			description = excluded.description,
			tags = excluded.tags,
			width = excluded.width,
			height = excluded.height,
			duration = excluded.duration,
			thumbnails = excluded.thumbnails,
			ai_caption = excluded.ai_caption,
			ai_tags = excluded.ai_tags,
			detected_objects = excluded.detected_objects,
			vectors = excluded.vectors,
			vectors_indexed = excluded.vectors_indexed,
			metadata = excluded.metadata,
			version = excluded.version,
			updated_at = excluded.updated_at
	`, asset.ID, asset.OwnerID, asset.Filename, asset.StorageURN, asset.Size,
		asset.MIMEType, asset.Hash, asset.PHash, string(typesJSON), string(asset.Status),
		asset.ErrorMessage, asset.Visibility, asset.Title, asset.Description,
		string(tagsJSON), asset.Width, asset.Height, asset.Duration, string(thumbsJSON),
		asset.AICaption, string(aiTagsJSON), string(objectsJSON), string(vectorsJSON),
		string(indexedJSON), string(metadataJSON), asset.Version, asset.CreatedAt, asset.UpdatedAt)

	if err != nil {
		return fmt.Errorf("saving asset: %w", err)
	}
	return nil
}

// Get retrieves an asset by ID.
func (s *assetStore) Get(ctx context.Context, id string) (*domain.Asset, error) {
	row := s.store.db.QueryRowContext(ctx,
		`SELECT `+assetColumns+` FROM assets WHERE id = ?`, id)
	return scanAsset(row)
}

// GetByHash retrieves an asset by content hash.
func (s *assetStore) GetByHash(ctx context.Context, hash string) (*domain.Asset, error) {
	row := s.store.db.QueryRowContext(ctx,
		`SELECT `+assetColumns+` FROM assets WHERE hash = ? ORDER BY created_at LIMIT 1`, hash)
	return scanAsset(row)
}

// GetByURN retrieves the asset stored at the given locator.
func (s *assetStore) GetByURN(ctx context.Context, urn string) (*domain.Asset, error) {
	row := s.store.db.QueryRowContext(ctx,
		`SELECT `+assetColumns+` FROM assets WHERE storage_urn = ?`, urn)
	return scanAsset(row)
}

// Delete removes the asset record.
func (s *assetStore) Delete(ctx context.Context, id string) error {
	_, err := s.store.db.ExecContext(ctx, "DELETE FROM assets WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting asset: %w", err)
	}
	return nil
}

// List returns filtered assets sorted by recency, newest first.
func (s *assetStore) List(ctx context.Context, filter domain.AssetFilter, limit int) ([]domain.Asset, error) {
	where, args := filterClauses(filter)
	query := `SELECT ` + assetColumns + ` FROM assets` + where + ` ORDER BY created_at DESC`
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}

	rows, err := s.store.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying assets: %w", err)
	}
	defer rows.Close()

	return scanAssets(rows)
}

// ListByURNPrefix returns assets whose locator starts with prefix.
func (s *assetStore) ListByURNPrefix(ctx context.Context, prefix string) ([]domain.Asset, error) {
	rows, err := s.store.db.QueryContext(ctx,
		`SELECT `+assetColumns+` FROM assets WHERE storage_urn LIKE ? ESCAPE '\'`,
		likePrefix(prefix))
	if err != nil {
		return nil, fmt.Errorf("querying assets by prefix: %w", err)
	}
	defer rows.Close()

	return scanAssets(rows)
}

// SearchText runs the keyword channel: per-term containment over the
// concatenated text fields, ranked by how many terms match, ties broken
// by recency. The tag columns are matched as their JSON text, which
// contains every label verbatim.
func (s *assetStore) SearchText(ctx context.Context, query string, filter domain.AssetFilter, limit int) ([]string, error) {
	terms := strings.Fields(strings.ToLower(query))
	if len(terms) == 0 {
		return nil, nil
	}

	const haystack = `lower(filename || ' ' || title || ' ' || description || ' ' ||
		ai_caption || ' ' || tags || ' ' || ai_tags)`

	scoreParts := make([]string, len(terms))
	args := make([]any, 0, len(terms))
	for i, term := range terms {
		scoreParts[i] = `(instr(` + haystack + `, ?) > 0)`
		args = append(args, term)
	}
	scoreExpr := strings.Join(scoreParts, " + ")

	where, filterArgs := filterClauses(filter)
	args = append(args, filterArgs...)

	sqlQuery := `SELECT id FROM (
		SELECT id, created_at, (` + scoreExpr + `) AS score FROM assets` + where + `
	) WHERE score > 0 ORDER BY score DESC, created_at DESC`
	if limit > 0 {
		sqlQuery += fmt.Sprintf(" LIMIT %d", limit)
	}

	rows, err := s.store.db.QueryContext(ctx, sqlQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("keyword search: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning search hit: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating search hits: %w", err)
	}
	return ids, nil
}

// Count returns the number of assets matching the filter.
func (s *assetStore) Count(ctx context.Context, filter domain.AssetFilter) (int, error) {
	where, args := filterClauses(filter)
	var count int
	err := s.store.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM assets`+where, args...).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting assets: %w", err)
	}
	return count, nil
}

// Facets groups the filtered set by primary asset type and by tag,
// returning the top 10 buckets per field.
func (s *assetStore) Facets(ctx context.Context, filter domain.AssetFilter) (*domain.SearchFacets, error) {
	where, args := filterClauses(filter)

	typeRows, err := s.store.db.QueryContext(ctx, `
		SELECT COALESCE(json_extract(asset_types, '$[0]'), 'other') AS t, COUNT(*) AS c
		FROM assets`+where+`
		GROUP BY t ORDER BY c DESC, t LIMIT 10
	`, args...)
	if err != nil {
		return nil, fmt.Errorf("querying type facets: %w", err)
	}
	types, err := scanBuckets(typeRows)
	if err != nil {
		return nil, err
	}

	tagRows, err := s.store.db.QueryContext(ctx, `
		SELECT je.value AS t, COUNT(*) AS c
		FROM assets, json_each(assets.tags) AS je`+where+`
		GROUP BY t ORDER BY c DESC, t LIMIT 10
	`, args...)
	if err != nil {
		return nil, fmt.Errorf("querying tag facets: %w", err)
	}
	tags, err := scanBuckets(tagRows)
	if err != nil {
		return nil, err
	}

	return &domain.SearchFacets{AssetTypes: types, Tags: tags}, nil
}

// filterClauses translates an AssetFilter into a WHERE clause. Must
// agree with domain.AssetFilter.Matches.
func filterClauses(filter domain.AssetFilter) (string, []any) {
	var clauses []string
	var args []any

	if filter.OwnerID != "" {
		clauses = append(clauses, "owner_id = ?")
		args = append(args, filter.OwnerID)
	}
	if filter.Status != "" {
		clauses = append(clauses, "status = ?")
		args = append(args, string(filter.Status))
	}
	if filter.Visibility != "" {
		clauses = append(clauses, "visibility = ?")
		args = append(args, filter.Visibility)
	}
	if len(filter.AssetTypes) > 0 {
		placeholders := strings.TrimSuffix(strings.Repeat("?,", len(filter.AssetTypes)), ",")
		clauses = append(clauses,
			"EXISTS (SELECT 1 FROM json_each(assets.asset_types) WHERE json_each.value IN ("+placeholders+"))")
		for _, t := range filter.AssetTypes {
			args = append(args, t)
		}
	}
	if len(filter.Tags) > 0 {
		placeholders := strings.TrimSuffix(strings.Repeat("?,", len(filter.Tags)), ",")
		clauses = append(clauses,
			"EXISTS (SELECT 1 FROM json_each(assets.tags) WHERE json_each.value IN ("+placeholders+"))")
		for _, t := range filter.Tags {
			args = append(args, t)
		}
	}
	if !filter.CreatedAt.After.IsZero() {
		clauses = append(clauses, "created_at >= ?")
		args = append(args, filter.CreatedAt.After)
	}
	if !filter.CreatedAt.Before.IsZero() {
		clauses = append(clauses, "created_at <= ?")
		args = append(args, filter.CreatedAt.Before)
	}

	if len(clauses) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

// likePrefix escapes LIKE wildcards in a literal prefix.
func likePrefix(prefix string) string {
	escaped := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(prefix)
	return escaped + "%"
}

type rowScanner interface {
	Scan(dest ...any) error
}

// scanAssetFields populates an asset from the canonical column list.
func scanAssetFields(sc rowScanner, asset *domain.Asset) error {
	var typesJSON, tagsJSON, thumbsJSON, aiTagsJSON string
	var objectsJSON, vectorsJSON, indexedJSON, metadataJSON string
	var status string

	if err := sc.Scan(&asset.ID, &asset.OwnerID, &asset.Filename, &asset.StorageURN,
		&asset.Size, &asset.MIMEType, &asset.Hash, &asset.PHash, &typesJSON, &status,
		&asset.ErrorMessage, &asset.Visibility, &asset.Title, &asset.Description,
		&tagsJSON, &asset.Width, &asset.Height, &asset.Duration, &thumbsJSON,
		&asset.AICaption, &aiTagsJSON, &objectsJSON, &vectorsJSON, &indexedJSON,
		&metadataJSON, &asset.Version, &asset.CreatedAt, &asset.UpdatedAt); err != nil {
		return err
	}

	asset.Status = domain.AssetStatus(status)

	for _, field := range []struct {
		raw  string
		dest any
	}{
		{typesJSON, &asset.AssetTypes},
		{tagsJSON, &asset.Tags},
		{thumbsJSON, &asset.Thumbnails},
		{aiTagsJSON, &asset.AITags},
		{objectsJSON, &asset.DetectedObjects},
		{vectorsJSON, &asset.Vectors},
		{indexedJSON, &asset.VectorsIndexed},
		{metadataJSON, &asset.Metadata},
	} {
		if field.raw == "" {
			continue
		}
		if err := json.Unmarshal([]byte(field.raw), field.dest); err != nil {
			return fmt.Errorf("unmarshaling asset field: %w", err)
		}
	}
	return nil
}

// scanAsset scans a single asset row.
func scanAsset(row *sql.Row) (*domain.Asset, error) {
	var asset domain.Asset
	if err := scanAssetFields(row, &asset); err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning asset: %w", err)
	}
	return &asset, nil
}

// scanAssets scans multiple asset rows.
func scanAssets(rows *sql.Rows) ([]domain.Asset, error) {
	var assets []domain.Asset //nolint:prealloc // size unknown from query
	for rows.Next() {
		var asset domain.Asset
		if err := scanAssetFields(rows, &asset); err != nil {
			return nil, fmt.Errorf("scanning asset: %w", err)
		}
		assets = append(assets, asset)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating assets: %w", err)
	}

	return assets, nil
}

// scanBuckets scans (value, count) facet rows.
func scanBuckets(rows *sql.Rows) ([]domain.FacetBucket, error) {
	defer rows.Close()

	var buckets []domain.FacetBucket //nolint:prealloc // size unknown from query
	for rows.Next() {
		var b domain.FacetBucket
		if err := rows.Scan(&b.Value, &b.Count); err != nil {
			return nil, fmt.Errorf("scanning facet bucket: %w", err)
		}
		buckets = append(buckets, b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating facet buckets: %w", err)
	}

	return buckets, nil
}
