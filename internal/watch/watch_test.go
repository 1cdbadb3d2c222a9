package watch_test

import (
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/satishbabariya/go-dbal/internal/watch"
)

func TestWatcherRerunsOnWrite(t *testing.T) {
	file := filepath.Join(t.TempDir(), "queries.yaml")
	require.NoError(t, os.WriteFile(file, []byte("a"), 0o644))

	var calls atomic.Int32
	w, err := watch.NewWatcher(file, func() error {
		calls.Add(1)
		return nil
	}, nil)
	require.NoError(t, err)
	w.SetDebounce(10 * time.Millisecond)

	require.NoError(t, w.Start())
	defer w.Stop()
	assert.Equal(t, int32(1), calls.Load())

	require.NoError(t, os.WriteFile(file, []byte("b"), 0o644))
	assert.Eventually(t, func() bool { return calls.Load() >= 2 }, 5*time.Second, 10*time.Millisecond)
}

func TestWatcherInitialError(t *testing.T) {
	file := filepath.Join(t.TempDir(), "q.yaml")
	boom := errors.New("boom")

	w, err := watch.NewWatcher(file, func() error { return boom }, nil)
	require.NoError(t, err)

	assert.ErrorIs(t, w.Start(), boom)
	assert.NoError(t, w.Stop())
}
