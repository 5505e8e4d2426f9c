package logger

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingFile struct {
	writes int
	closed bool
}

func (f *failingFile) Write(p []byte) (int, error) {
	f.writes++
	return 0, errors.New("disk full")
}

func (f *failingFile) Close() error {
	f.closed = true
	return nil
}

func TestSink_WritesToBoth(t *testing.T) {
	path := filepath.Join(t.TempDir(), "errors.log")
	file, err := OpenFile(path)
	require.NoError(t, err)

	var console bytes.Buffer
	sink := NewSink(&console, file)

	n, err := sink.Write([]byte("line one\n"))
	require.NoError(t, err)
	assert.Equal(t, 9, n)
	require.NoError(t, sink.Close())

	persisted, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "line one\n", console.String())
	assert.Equal(t, "line one\n", string(persisted))
}

func TestOpenFile_Appends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "errors.log")
	require.NoError(t, os.WriteFile(path, []byte("previous run\n"), 0o644))

	file, err := OpenFile(path)
	require.NoError(t, err)
	_, err = file.Write([]byte("this run\n"))
	require.NoError(t, err)
	require.NoError(t, file.Close())

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "previous run\nthis run\n", string(content))
}

func TestOpenFile_Unopenable(t *testing.T) {
	_, err := OpenFile(filepath.Join(t.TempDir(), "missing", "dir", "errors.log"))
	assert.Error(t, err)
}

func TestSink_FileFailureFallsBackToConsole(t *testing.T) {
	var console bytes.Buffer
	file := &failingFile{}
	sink := NewSink(&console, file)

	_, err := sink.Write([]byte("first\n"))
	assert.NoError(t, err)
	_, err = sink.Write([]byte("second\n"))
	assert.NoError(t, err)

	assert.Equal(t, 1, file.writes, "file is not retried after a failure")
	assert.False(t, sink.FileHealthy())
	assert.Equal(t, 1, strings.Count(console.String(), "continuing on console only"))
	assert.Contains(t, console.String(), "first\n")
	assert.Contains(t, console.String(), "second\n")

	require.NoError(t, sink.Close())
	assert.True(t, file.closed)
}

func TestSink_CloseIsIdempotent(t *testing.T) {
	file := &failingFile{}
	sink := NewSink(nil, file)

	assert.NoError(t, sink.Close())
	assert.NoError(t, sink.Close())
	assert.True(t, file.closed)
}

func TestSink_ConcurrentLinesDoNotInterleave(t *testing.T) {
	var console bytes.Buffer
	sink := NewSink(&console, nil)
	l := New("pagefetch", "", "info", sink, nil)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			l.Info(context.Background(), strings.Repeat("x", 200), nil)
		}()
	}
	wg.Wait()

	lines := strings.Split(strings.TrimSpace(console.String()), "\n")
	require.Len(t, lines, 50)
	for _, line := range lines {
		assert.Contains(t, line, strings.Repeat("x", 200))
		assert.Contains(t, line, "service=pagefetch")
	}
}
