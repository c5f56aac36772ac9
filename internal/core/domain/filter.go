package domain

import "time"

// DateRange bounds a time field. Zero values mean unbounded.
type DateRange struct {
	// After matches entities created at or after this instant.
	After time.Time

	// Before matches entities created at or before this instant.
	Before time.Time
}

// AssetFilter is the structured filter shared by the keyword, vector and
// listing channels. Zero-valued fields are ignored.
type AssetFilter struct {
	// OwnerID restricts results to one owner.
	OwnerID string

	// AssetTypes matches assets declaring any of these types.
	AssetTypes []string

	// Tags matches assets carrying any of these user tags.
	Tags []string

	// Status restricts to one lifecycle state.
	Status AssetStatus

	// Visibility restricts to "private" or "public".
	Visibility string

	// CreatedAt bounds the creation time.
	CreatedAt DateRange
}

// Matches reports whether the asset satisfies every set field of the
// filter. It is the reference semantics that every store-side filter
// translation must agree with.
func (f AssetFilter) Matches(a *Asset) bool {
	if f.OwnerID != "" && a.OwnerID != f.OwnerID {
		return false
	}
	if f.Status != "" && a.Status != f.Status {
		return false
	}
	if f.Visibility != "" && a.Visibility != f.Visibility {
		return false
	}
	if len(f.AssetTypes) > 0 && !intersects(f.AssetTypes, a.AssetTypes) {
		return false
	}
	if len(f.Tags) > 0 && !intersects(f.Tags, a.Tags) {
		return false
	}
	if !f.CreatedAt.After.IsZero() && a.CreatedAt.Before(f.CreatedAt.After) {
		return false
	}
	if !f.CreatedAt.Before.IsZero() && a.CreatedAt.After(f.CreatedAt.Before) {
		return false
	}
	return true
}

func intersects(want, have []string) bool {
	for _, w := range want {
		for _, h := range have {
			if w == h {
				return true
			}
		}
	}
	return false
}
