package store

import (
	"fmt"

	"github.com/mesh-intelligence/funfair/internal/jsonx"
	"github.com/mesh-intelligence/funfair/pkg/types"
)

// Memory is an in-memory SaveStore for tests and ephemeral sessions. It keeps
// the same primary/backup semantics as File. State is lost when the process
// restarts.
type Memory struct {
	primary []byte
	backup  []byte
	failErr error

	// Writes counts successful writes.
	Writes int
}

// NewMemory returns an empty Memory store.
func NewMemory() *Memory {
	return &Memory{}
}

// Seed sets the primary document without rotating the backup.
func (m *Memory) Seed(data []byte) {
	m.primary = clone(data)
}

// SeedBackup sets the backup document.
func (m *Memory) SeedBackup(data []byte) {
	m.backup = clone(data)
}

// FailWrites makes every subsequent Write fail with err wrapped in
// ErrIOFailure. A nil err clears the failure.
func (m *Memory) FailWrites(err error) {
	m.failErr = err
}

// Bytes returns a copy of the primary document.
func (m *Memory) Bytes() []byte {
	return clone(m.primary)
}

// BackupBytes returns a copy of the backup document.
func (m *Memory) BackupBytes() []byte {
	return clone(m.backup)
}

// Read returns the primary, then the backup.
func (m *Memory) Read() (types.Raw, error) {
	if m.primary != nil && jsonx.IsObject(m.primary) {
		return types.Raw{Data: clone(m.primary), Origin: types.OriginMemory}, nil
	}
	if m.backup != nil && jsonx.IsObject(m.backup) {
		return types.Raw{Data: clone(m.backup), Origin: types.OriginBackup}, nil
	}
	if m.primary == nil && m.backup == nil {
		return types.Raw{}, types.ErrNotFound
	}
	return types.Raw{}, types.ErrCorrupt
}

// Write rotates a valid primary into the backup slot and stores data.
func (m *Memory) Write(data []byte) error {
	if m.failErr != nil {
		return fmt.Errorf("%w: %w", types.ErrIOFailure, m.failErr)
	}
	if m.primary != nil && jsonx.IsObject(m.primary) {
		m.backup = m.primary
	}
	m.primary = clone(data)
	m.Writes++
	return nil
}

func clone(b []byte) []byte {
	if b == nil {
		return nil
	}
	return append([]byte(nil), b...)
}
