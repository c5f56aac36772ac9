package services

import (
	"strings"

	"github.com/Sanali209/webos-dam/internal/core/domain"
	"github.com/Sanali209/webos-dam/internal/logger"
)

// AssetTypeDefinition declares one asset type and the MIME signatures
// it claims. Exact entries win over prefix entries.
type AssetTypeDefinition struct {
	// TypeID is the declared type label, e.g. "image".
	TypeID string

	// MIMEPrefixes match any MIME type starting with the prefix,
	// e.g. "image/".
	MIMEPrefixes []string

	// MIMEExact match a full MIME type, e.g. "application/pdf".
	MIMEExact []string
}

// CanHandle reports whether the definition claims the MIME type.
func (d AssetTypeDefinition) CanHandle(mime string) bool {
	for _, e := range d.MIMEExact {
		if mime == e {
			return true
		}
	}
	for _, p := range d.MIMEPrefixes {
		if strings.HasPrefix(mime, p) {
			return true
		}
	}
	return false
}

// TypeRegistry maps content MIME signatures to declared asset types.
// Registration happens at the composition root; lookups fall back to
// the generic "other" type.
type TypeRegistry struct {
	order []string
	types map[string]AssetTypeDefinition
}

// NewTypeRegistry creates an empty registry.
func NewTypeRegistry() *TypeRegistry {
	return &TypeRegistry{types: make(map[string]AssetTypeDefinition)}
}

// NewBuiltinTypeRegistry creates a registry preloaded with the built-in
// image, video, audio and document types.
func NewBuiltinTypeRegistry() *TypeRegistry {
	r := NewTypeRegistry()
	r.Register(AssetTypeDefinition{TypeID: "image", MIMEPrefixes: []string{"image/"}})
	r.Register(AssetTypeDefinition{TypeID: "video", MIMEPrefixes: []string{"video/"}})
	r.Register(AssetTypeDefinition{TypeID: "audio", MIMEPrefixes: []string{"audio/"}})
	r.Register(AssetTypeDefinition{
		TypeID:       "document",
		MIMEPrefixes: []string{"text/"},
		MIMEExact: []string{
			"application/pdf",
			"application/msword",
			"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
			"application/epub+zip",
		},
	})
	return r
}

// Register adds a type definition. Duplicate type ids are skipped.
func (r *TypeRegistry) Register(def AssetTypeDefinition) {
	if _, ok := r.types[def.TypeID]; ok {
		logger.Warn("type registry: %q already registered, skipping duplicate", def.TypeID)
		return
	}
	r.types[def.TypeID] = def
	r.order = append(r.order, def.TypeID)
}

// Resolve returns the type label for a MIME signature, in registration
// order, falling back to domain.TypeOther.
func (r *TypeRegistry) Resolve(mime string) string {
	for _, id := range r.order {
		if r.types[id].CanHandle(mime) {
			return id
		}
	}
	return domain.TypeOther
}

// AllTypes returns the registered labels plus the fallback.
func (r *TypeRegistry) AllTypes() []string {
	out := make([]string, 0, len(r.order)+1)
	out = append(out, r.order...)
	return append(out, domain.TypeOther)
}
