package gedcom

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// LoadStatus is the state of one file in a concurrent load.
type LoadStatus string

const (
	LoadPending LoadStatus = "pending"
	LoadParsing LoadStatus = "parsing"
	LoadDone    LoadStatus = "done"
	LoadFailed  LoadStatus = "failed"
)

// LoadEvent reports progress of a single file.
type LoadEvent struct {
	Path   string
	Status LoadStatus
	Err    error
}

// Loader parses several independent documents in parallel.
type Loader struct {
	limit      int
	opts       []Option
	onProgress func(LoadEvent)
}

// NewLoader returns a Loader running at most limit parses at once (no limit
// when limit <= 0). onProgress is called from the parsing goroutines and may
// be nil.
func NewLoader(limit int, onProgress func(LoadEvent), opts ...Option) *Loader {
	return &Loader{limit: limit, opts: opts, onProgress: onProgress}
}

// Load parses every path and returns the documents in path order. The first
// failure cancels the derived context so that files not yet started are
// skipped; its error is returned.
func (l *Loader) Load(ctx context.Context, paths []string) ([]*Document, error) {
	docs := make([]*Document, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	if l.limit > 0 {
		g.SetLimit(l.limit)
	}

	for _, path := range paths {
		l.emit(LoadEvent{Path: path, Status: LoadPending})
	}
	for i, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				l.emit(LoadEvent{Path: path, Status: LoadFailed, Err: err})
				return err
			}
			l.emit(LoadEvent{Path: path, Status: LoadParsing})
			doc, err := ParseFile(path, l.opts...)
			if err != nil {
				l.emit(LoadEvent{Path: path, Status: LoadFailed, Err: err})
				return err
			}
			docs[i] = doc
			l.emit(LoadEvent{Path: path, Status: LoadDone})
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return docs, nil
}

func (l *Loader) emit(ev LoadEvent) {
	if l.onProgress != nil {
		l.onProgress(ev)
	}
}

// LoadFiles parses paths concurrently with at most limit parses in flight.
func LoadFiles(ctx context.Context, paths []string, limit int, opts ...Option) ([]*Document, error) {
	return NewLoader(limit, nil, opts...).Load(ctx, paths)
}
