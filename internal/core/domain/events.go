package domain

// FileEventKind classifies a filesystem notification.
type FileEventKind string

// Filesystem event kinds dispatched by the watcher.
const (
	FileEventCreated  FileEventKind = "created"
	FileEventModified FileEventKind = "modified"
	FileEventMoved    FileEventKind = "moved"
	FileEventDeleted  FileEventKind = "deleted"
)

// FileEvent is the typed handoff unit between the notification thread
// and the watcher's consumer. Path is the subject; DestPath is set only
// for moves.
type FileEvent struct {
	Kind     FileEventKind
	Path     string
	DestPath string
}

// Key is the debounce key: events for the same key coalesce.
func (e FileEvent) Key() string {
	return e.Path
}

// IngestSignal carries the id of a freshly persisted asset to the
// pipeline orchestrator. Delivery is at-least-once best-effort; nothing
// survives a process crash between persisting and running the pipeline.
type IngestSignal struct {
	AssetID string
}
