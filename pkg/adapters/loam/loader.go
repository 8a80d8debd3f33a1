package loam

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/aretw0/loam"
	"github.com/aretw0/wayfinder/internal/logging"
	"github.com/aretw0/wayfinder/pkg/adapters/memory"
	"github.com/aretw0/wayfinder/pkg/domain"
)

// Loader serves node snapshots read from a Loam repository.
// Documents are loaded into an in-memory index; Get, ListByAuthor and
// SearchByEmbedding answer from that index, so Loader implements ports.NodePort.
type Loader struct {
	*memory.NodeStore

	Repo   *loam.TypedRepository[NodeMetadata]
	logger *slog.Logger
}

// Option configures the Loader.
type Option func(*Loader)

// WithLogger sets the structured logger used for reload reporting.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Loader) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// New creates a new Loam adapter. Call Load before serving requests.
func New(repo *loam.TypedRepository[NodeMetadata], opts ...Option) *Loader {
	l := &Loader{
		NodeStore: memory.NewNodeStore(),
		Repo:      repo,
		logger:    logging.NewNop(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Open initializes a read-only Loam repository at path and loads it.
func Open(ctx context.Context, path string, opts ...Option) (*Loader, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("invalid path: %w", err)
	}

	// Strict mode keeps numbers as json.Number across the Markdown and JSON adapters.
	// The engine never writes nodes, so the repository is opened read-only.
	repo, err := loam.Init(absPath,
		loam.WithStrict(true),
		loam.WithReadOnly(true),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize loam: %w", err)
	}

	l := New(loam.NewTypedRepository[NodeMetadata](repo), opts...)
	if err := l.Load(ctx); err != nil {
		return nil, err
	}
	return l, nil
}

// Load reads every document and atomically replaces the index.
// On error the previous index is kept.
func (l *Loader) Load(ctx context.Context) error {
	docs, err := l.Repo.List(ctx)
	if err != nil {
		return fmt.Errorf("loam list failed: %w", err)
	}

	seen := make(map[int64]string, len(docs))
	snaps := make([]domain.NodeSnapshot, 0, len(docs))
	for _, doc := range docs {
		snap, err := doc.Data.toSnapshot(doc.ID)
		if err != nil {
			return err
		}
		// Collision Detection
		if existing, ok := seen[snap.ID]; ok {
			return fmt.Errorf("collision detected: node %d is defined in both '%s' and '%s'", snap.ID, existing, doc.ID)
		}
		seen[snap.ID] = doc.ID
		snaps = append(snaps, snap)
	}

	l.Replace(snaps)
	l.logger.Info("nodes loaded", "count", len(snaps))
	return nil
}

// Watch implements ports.Watchable.
func (l *Loader) Watch(ctx context.Context) (<-chan string, error) {
	events, err := l.Repo.Watch(ctx, "**/*.{md,json,yaml,yml}")
	if err != nil {
		return nil, fmt.Errorf("failed to start loam watcher: %w", err)
	}

	ch := make(chan string, 1)

	go func() {
		defer close(ch)
		for {
			select {
			case <-ctx.Done():
				return
			case evt, ok := <-events:
				if !ok {
					return
				}
				select {
				case ch <- evt.ID:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return ch, nil
}

// AutoReload reloads the index whenever a document changes, until ctx is done.
// Failed reloads are logged and the previous index keeps serving.
func (l *Loader) AutoReload(ctx context.Context) error {
	changes, err := l.Watch(ctx)
	if err != nil {
		return err
	}
	go func() {
		for id := range changes {
			if err := l.Load(ctx); err != nil {
				l.logger.Error("reload failed", "doc", id, "err", err)
				continue
			}
			l.logger.Debug("reloaded after change", "doc", id)
		}
	}()
	return nil
}
