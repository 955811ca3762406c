package delaunay

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/hupe1980/delaunay/blobstore"
	"github.com/hupe1980/delaunay/internal/resource"
)

// Save encodes the mesh with the configured codec and writes it to store
// under name. Writes are rate limited by WithIOLimit.
func (t *Triangulation) Save(ctx context.Context, store blobstore.BlobStore, name string) error {
	start := time.Now()

	n, err := t.save(ctx, store, name)

	t.opts.logger.LogSnapshot(ctx, name, n, err)
	t.opts.metricsCollector.RecordSnapshot("save", n, time.Since(start), err)

	return err
}

func (t *Triangulation) save(ctx context.Context, store blobstore.BlobStore, name string) (int, error) {
	if store == nil {
		return 0, ErrNilStore
	}

	data, err := t.opts.codec.Marshal(t.mesh)
	if err != nil {
		return 0, fmt.Errorf("delaunay: encode %s: %w", name, err)
	}

	w, err := store.Create(ctx, name)
	if err != nil {
		return 0, fmt.Errorf("delaunay: create %s: %w", name, err)
	}

	if _, err := resource.NewRateLimitedWriter(ctx, w, t.opts.rc).Write(data); err != nil {
		_ = abort(w)
		return 0, fmt.Errorf("delaunay: write %s: %w", name, err)
	}

	if err := w.Close(); err != nil {
		return 0, fmt.Errorf("delaunay: close %s: %w", name, err)
	}

	return len(data), nil
}

// abort discards a partial write where the backend supports it.
func abort(w blobstore.WritableBlob) error {
	if a, ok := w.(blobstore.Aborter); ok {
		return a.Abort()
	}
	return w.Close()
}

// Load reads a snapshot written by Save and rebuilds the location index.
// Location options (WithEpsilon, WithBruteforce, ...) apply to the loaded
// triangulation; the codec must match the one used to save.
func Load(ctx context.Context, store blobstore.BlobStore, name string, optFns ...Option) (*Triangulation, error) {
	opts := applyOptions(optFns)
	start := time.Now()

	t, n, err := load(ctx, store, name, opts)

	opts.logger.LogLoad(ctx, name, n, err)
	opts.metricsCollector.RecordSnapshot("load", n, time.Since(start), err)

	return t, err
}

func load(ctx context.Context, store blobstore.BlobStore, name string, opts options) (*Triangulation, int, error) {
	if store == nil {
		return nil, 0, ErrNilStore
	}

	blob, err := store.Open(ctx, name)
	if err != nil {
		return nil, 0, fmt.Errorf("delaunay: open %s: %w", name, err)
	}
	defer func() { _ = blob.Close() }()

	size := blob.Size()

	// Decoding holds the encoded bytes and the expanded mesh at once.
	est := 4 * size
	if err := opts.rc.AcquireMemory(est); err != nil {
		return nil, 0, fmt.Errorf("delaunay: load %s needs about %d bytes: %w", name, est, err)
	}
	defer opts.rc.ReleaseMemory(est)

	data := make([]byte, size)
	r := resource.NewRateLimitedReader(ctx, io.NewSectionReader(blob, 0, size), opts.rc)
	if _, err := io.ReadFull(r, data); err != nil {
		return nil, 0, fmt.Errorf("delaunay: read %s: %w", name, err)
	}

	m, err := opts.codec.Unmarshal(data)
	if err != nil {
		return nil, len(data), fmt.Errorf("delaunay: decode %s: %w", name, err)
	}

	t, err := newTriangulation(m, opts)
	if err != nil {
		return nil, len(data), err
	}

	return t, len(data), nil
}
