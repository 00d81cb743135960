package store

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/funfair/pkg/types"
)

func TestMemoryStore(t *testing.T) {
	m := NewMemory()

	_, err := m.Read()
	assert.ErrorIs(t, err, types.ErrNotFound)

	require.NoError(t, m.Write([]byte(`{"n":1}`)))
	require.NoError(t, m.Write([]byte(`{"n":2}`)))
	assert.Equal(t, 2, m.Writes)
	assert.JSONEq(t, `{"n":1}`, string(m.BackupBytes()))

	m.Seed([]byte(`{broken`))
	raw, err := m.Read()
	require.NoError(t, err)
	assert.Equal(t, types.OriginBackup, raw.Origin)
	assert.JSONEq(t, `{"n":1}`, string(raw.Data))

	m.SeedBackup([]byte(`nope`))
	_, err = m.Read()
	assert.ErrorIs(t, err, types.ErrCorrupt)
}

func TestMemoryStoreFailWrites(t *testing.T) {
	m := NewMemory()
	disk := errors.New("disk full")
	m.FailWrites(disk)

	err := m.Write([]byte(`{}`))
	assert.ErrorIs(t, err, types.ErrIOFailure)
	assert.ErrorIs(t, err, disk)
	assert.Zero(t, m.Writes)

	m.FailWrites(nil)
	require.NoError(t, m.Write([]byte(`{}`)))
}

var (
	_ types.SaveStore = (*File)(nil)
	_ types.SaveStore = (*Memory)(nil)
)
