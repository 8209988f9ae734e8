package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/dtroode/gophcheck-server/database"
	"github.com/dtroode/gophcheck-server/internal/model"
)

// OpenFunc opens and prepares a database handle for dsn.
type OpenFunc func(ctx context.Context, dsn string) (*sql.DB, error)

// buildTimeout bounds one attempt to open and migrate the database.
const buildTimeout = 30 * time.Second

// Provider owns the process-wide database handle. The handle is built on
// first use and reused afterwards; a failed build is retried by the next caller.
// The lock is never held while the handle is being built.
type Provider struct {
	mu      sync.Mutex
	dsn     string
	db      *sql.DB
	open    OpenFunc
	pending *build
	closed  bool
}

// build is one in-flight construction shared by every caller waiting on it.
type build struct {
	done chan struct{}
	db   *sql.DB
	err  error
}

// NewProvider creates a Provider that opens dsn with the pgx driver and
// applies the embedded migrations on first use.
func NewProvider(dsn string) *Provider {
	return &Provider{dsn: dsn, open: Open}
}

// NewProviderWithOpen creates a Provider using a custom open function.
func NewProviderWithOpen(dsn string, open OpenFunc) *Provider {
	return &Provider{dsn: dsn, open: open}
}

// NewProviderWithDB wraps an already opened handle.
func NewProviderWithDB(db *sql.DB) *Provider {
	return &Provider{db: db}
}

// Open opens a pgx-backed *sql.DB and migrates the schema.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open connection pool: %w", err)
	}
	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(5)
	db.SetConnMaxIdleTime(5 * time.Minute)

	if err := database.Migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	return db, nil
}

// Configured reports whether a DSN or handle is available.
func (p *Provider) Configured() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.db != nil || strings.TrimSpace(p.dsn) != ""
}

// DB returns the shared handle, building it if needed.
// Concurrent first callers share a single construction; each of them stops
// waiting as soon as its own ctx is done.
func (p *Provider) DB(ctx context.Context) (*sql.DB, error) {
	p.mu.Lock()
	if p.db != nil {
		db := p.db
		p.mu.Unlock()
		return db, nil
	}
	if strings.TrimSpace(p.dsn) == "" {
		p.mu.Unlock()
		return nil, fmt.Errorf("%w: DATABASE_DSN", model.ErrConfigurationMissing)
	}
	b := p.pending
	if b == nil {
		b = &build{done: make(chan struct{})}
		p.pending = b
		go p.build(b)
	}
	p.mu.Unlock()

	select {
	case <-b.done:
		return b.db, b.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// build runs on its own context so that a caller giving up does not fail the others.
func (p *Provider) build(b *build) {
	ctx, cancel := context.WithTimeout(context.Background(), buildTimeout)
	defer cancel()

	db, err := p.open(ctx, p.dsn)

	p.mu.Lock()
	if err == nil && p.closed {
		_ = db.Close()
		db, err = nil, errors.New("database provider is closed")
	}
	b.db, b.err = db, err
	if err == nil {
		p.db = db
	}
	p.pending = nil
	p.mu.Unlock()

	close(b.done)
}

// Ping checks that the database answers.
func (p *Provider) Ping(ctx context.Context) error {
	db, err := p.DB(ctx)
	if err != nil {
		return err
	}
	return db.PingContext(ctx)
}

// Close releases the handle if it was built.
func (p *Provider) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.closed = true
	if p.db == nil {
		return nil
	}
	err := p.db.Close()
	p.db = nil
	return err
}
