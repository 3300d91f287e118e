package assets

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/pierrec/lz4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name string, data []byte) {
	t.Helper()
	path := filepath.Join(dir, filepath.FromSlash(name))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, data, 0644))
}

func compress(t *testing.T, data []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := lz4.NewWriter(&buf)
	_, err := w.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func TestManagerLoadFromDir(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "textures/wall.png", []byte("wall"))

	m := NewManager()
	m.AddSource(NewDirSource(dir))

	data, err := m.Load(context.Background(), "textures/wall.png")
	require.NoError(t, err)
	assert.Equal(t, []byte("wall"), data)

	_, err = m.Load(context.Background(), "textures/missing.png")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestManagerCachesLoads(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.bin", []byte("first"))

	m := NewManager()
	m.AddSource(NewDirSource(dir))

	_, err := m.Load(context.Background(), "a.bin")
	require.NoError(t, err)

	// A changed file is not re-read while cached.
	writeFile(t, dir, "a.bin", []byte("second"))
	data, err := m.Load(context.Background(), "a.bin")
	require.NoError(t, err)
	assert.Equal(t, []byte("first"), data)

	hits, misses := m.Cache().Stats()
	assert.Equal(t, 1, hits)
	assert.Equal(t, 1, misses)

	m.Cache().Delete("a.bin")
	data, err = m.Load(context.Background(), "a.bin")
	require.NoError(t, err)
	assert.Equal(t, []byte("second"), data)
}

func TestManagerLaterSourcesWin(t *testing.T) {
	base, patch := t.TempDir(), t.TempDir()
	writeFile(t, base, "a.txt", []byte("base"))
	writeFile(t, base, "b.txt", []byte("base-only"))
	writeFile(t, patch, "a.txt", []byte("patch"))

	m := NewManager()
	m.AddSource(NewDirSource(base))
	m.AddSource(NewDirSource(patch))

	a, err := m.Load(context.Background(), "a.txt")
	require.NoError(t, err)
	assert.Equal(t, "patch", string(a))

	b, err := m.Load(context.Background(), "b.txt")
	require.NoError(t, err)
	assert.Equal(t, "base-only", string(b))
}

func TestManagerDecompressesLZ4Fallback(t *testing.T) {
	dir := t.TempDir()
	payload := bytes.Repeat([]byte("texel"), 512)
	writeFile(t, dir, "big.raw"+CompressedSuffix, compress(t, payload))

	m := NewManager()
	m.AddSource(NewDirSource(dir))

	data, err := m.Load(context.Background(), "big.raw")
	require.NoError(t, err)
	assert.Equal(t, payload, data)
}

func TestDirSourceRejectsEscapes(t *testing.T) {
	s := NewDirSource(t.TempDir())
	_, err := s.Read(context.Background(), "../etc/passwd")
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrNotFound))
}

func TestHTTPSource(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/assets/maps/a.bsp":
			w.Write([]byte("map"))
		case "/assets/broken":
			w.WriteHeader(http.StatusInternalServerError)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	s, err := NewHTTPSource(srv.URL+"/assets", 5*time.Second)
	require.NoError(t, err)

	data, err := s.Read(context.Background(), "maps/a.bsp")
	require.NoError(t, err)
	assert.Equal(t, "map", string(data))

	_, err = s.Read(context.Background(), "maps/missing.bsp")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = s.Read(context.Background(), "broken")
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrNotFound))
}

func TestFetchDeliversThroughDispatcher(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.txt", []byte("hello"))

	m := NewManager()
	m.AddSource(NewDirSource(dir))
	d := NewDispatcher()

	var got []byte
	var gotErr error
	called := false
	m.Fetch(context.Background(), "a.txt", d, func(data []byte, err error) {
		called = true
		got, gotErr = data, err
	})

	require.Eventually(t, func() bool { return d.Pending() == 1 }, 2*time.Second, 5*time.Millisecond)
	assert.False(t, called, "callback must not run before Poll")

	assert.Equal(t, 1, d.Poll())
	assert.True(t, called)
	require.NoError(t, gotErr)
	assert.Equal(t, "hello", string(got))
}

func TestDispatcherRunsInPostOrder(t *testing.T) {
	d := NewDispatcher()
	var order []int
	for i := 0; i < 3; i++ {
		d.Post(func() { order = append(order, i) })
	}
	d.Post(func() {
		d.Post(func() { order = append(order, 99) })
	})

	assert.Equal(t, 4, d.Poll())
	assert.Equal(t, []int{0, 1, 2}, order)
	assert.Equal(t, 1, d.Pending())

	d.Poll()
	assert.Equal(t, []int{0, 1, 2, 99}, order)
}
