package types

// Origin names the file a raw document was read from.
type Origin string

// Document origins.
const (
	OriginPrimary Origin = "primary"
	OriginBackup  Origin = "backup"
	OriginMemory  Origin = "memory"
)

// Raw is an undecoded save document as read from storage.
type Raw struct {
	Data   []byte
	Origin Origin
}

// SaveStore reads and writes the single persisted save document.
// Implementations never return a partially written document.
type SaveStore interface {
	// Read returns the newest parseable document. It returns ErrNotFound when
	// nothing has been saved and ErrCorrupt when files exist but none parse.
	Read() (Raw, error)

	// Write replaces the stored document with data. Errors wrap ErrIOFailure.
	Write(data []byte) error
}
