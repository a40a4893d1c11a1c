package database

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBoltKVStore(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "test.db")
	s, err := NewBoltKVStore(path, "responses")
	require.NoError(t, err)
	defer s.Close()

	data, err := s.ReadKey([]byte("missing"))
	require.NoError(t, err)
	assert.Nil(t, data)

	require.NoError(t, s.UpdateKey([]byte("key"), []byte("value")))

	data, err = s.ReadKey([]byte("key"))
	require.NoError(t, err)
	assert.Equal(t, []byte("value"), data)

	require.NoError(t, s.UpdateKey([]byte("key"), []byte("replaced")))
	data, err = s.ReadKey([]byte("key"))
	require.NoError(t, err)
	assert.Equal(t, []byte("replaced"), data)
}

func TestNewBoltKVStoreBucketFailureReleasesFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "test.db")

	// An empty bucket name fails bucket creation after the db file is opened.
	_, err := NewBoltKVStore(path, "")
	require.Error(t, err)

	// The file lock must be released, or this open would block.
	s, err := NewBoltKVStore(path, "responses")
	require.NoError(t, err)
	require.NoError(t, s.Close())
}
