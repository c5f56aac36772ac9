package domain

import "time"

// AssetStatus is the lifecycle state of an asset.
type AssetStatus string

// Asset lifecycle states. READY and PARTIAL are only reachable from
// PROCESSING; MISSING is reachable from any live state and is reversed
// by a refresh of the same path.
const (
	StatusPending    AssetStatus = "pending"
	StatusUploading  AssetStatus = "uploading"
	StatusProcessing AssetStatus = "processing"
	StatusReady      AssetStatus = "ready"
	StatusPartial    AssetStatus = "partial"
	StatusError      AssetStatus = "error"
	StatusMissing    AssetStatus = "missing"
)

// TypeOther is the fallback asset type when classification yields nothing.
const TypeOther = "other"

// MetaKeyPipelineErrors is the metadata namespace where the pipeline
// orchestrator records per-stage failures.
const MetaKeyPipelineErrors = "pipeline_errors"

// Asset represents one physical file under management and everything
// derived from it.
type Asset struct {
	// ID is the unique identifier for the asset.
	ID string

	// OwnerID identifies the owning user.
	OwnerID string

	// Filename is the original file name.
	Filename string

	// StorageURN locates the bytes in a blob backend.
	// The scheme prefix identifies the backend, e.g. "fs://local/...".
	StorageURN string

	// Size is the byte size of the content.
	Size int64

	// MIMEType is the content-sniffed MIME type.
	MIMEType string

	// Hash is the SHA-256 digest of the full byte content.
	// It is the content-addressed dedup key: unique across live assets.
	Hash string

	// PHash is an optional perceptual hash for near-duplicate detection.
	PHash string

	// AssetTypes is the ordered list of declared type labels.
	// The first entry drives driver and stage dispatch.
	AssetTypes []string

	// Status is the lifecycle state.
	Status AssetStatus

	// ErrorMessage holds the failure reason when Status is error.
	ErrorMessage string

	// Visibility is "private" or "public".
	Visibility string

	// Title and Description are user-supplied.
	Title       string
	Description string

	// Tags are user-assigned labels.
	Tags []string

	// Width, Height and Duration are filled by drivers where applicable.
	Width    int
	Height   int
	Duration float64

	// Thumbnails maps a size preset name to a storage locator.
	Thumbnails map[string]string

	// AICaption is the generated free-text caption.
	AICaption string

	// AITags are auto-generated tags with confidences.
	AITags []AITag

	// DetectedObjects are localized detections with bounding boxes.
	DetectedObjects []DetectedObject

	// Vectors maps an embedding-model name to its numeric vector.
	Vectors map[string][]float32

	// VectorsIndexed records which embedding models have been pushed
	// to the external vector index.
	VectorsIndexed map[string]bool

	// Metadata is namespaced by extraction type: drivers write under
	// their own type key, the orchestrator writes a pipeline_errors
	// sub-map keyed by stage name.
	Metadata map[string]any

	// Version is an optimistic concurrency counter.
	Version int

	// CreatedAt is when the asset was first registered.
	CreatedAt time.Time

	// UpdatedAt is when the asset was last written.
	UpdatedAt time.Time
}

// AITag is an auto-generated tag with its model confidence.
type AITag struct {
	// Label is the tag text.
	Label string

	// Confidence is the model score in [0, 1].
	Confidence float64
}

// DetectedObject is a localized object detection on an asset.
type DetectedObject struct {
	// Class is the detected class label.
	Class string

	// Subclass refines the class where the model provides one.
	Subclass string

	// Confidence is the detection score in [0, 1].
	Confidence float64

	// BBoxX, BBoxY, BBoxW, BBoxH are normalized to [0, 1] of the
	// image dimensions.
	BBoxX float64
	BBoxY float64
	BBoxW float64
	BBoxH float64

	// ModelName records which detector produced this object.
	ModelName string
}

// PrimaryType returns the first declared type label, or TypeOther when
// the asset has no classification. It is always derived, never stored.
func (a *Asset) PrimaryType() string {
	if len(a.AssetTypes) == 0 {
		return TypeOther
	}
	return a.AssetTypes[0]
}

// EnsureMaps initialises nil map fields so callers can write without
// nil checks.
func (a *Asset) EnsureMaps() {
	if a.Thumbnails == nil {
		a.Thumbnails = make(map[string]string)
	}
	if a.Vectors == nil {
		a.Vectors = make(map[string][]float32)
	}
	if a.VectorsIndexed == nil {
		a.VectorsIndexed = make(map[string]bool)
	}
	if a.Metadata == nil {
		a.Metadata = make(map[string]any)
	}
}

// PipelineErrors returns the pipeline_errors sub-map, creating it
// on first use.
func (a *Asset) PipelineErrors() map[string]string {
	a.EnsureMaps()
	if existing, ok := a.Metadata[MetaKeyPipelineErrors].(map[string]string); ok {
		return existing
	}
	m := make(map[string]string)
	a.Metadata[MetaKeyPipelineErrors] = m
	return m
}
