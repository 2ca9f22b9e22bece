// Package sqlite implements the SQLite storage backend for haldai.
//
// Each collection is a table of JSON documents keyed by id. Secondary
// indexes are expression indexes over json_extract of the indexed field, so
// the documents stay schemaless while index lookups remain exact-match and
// non-unique.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/haldai/pkg/types"
)

// Compile-time interface check.
var _ types.Store = (*Backend)(nil)

// Backend implements types.Store on a single SQLite database file.
type Backend struct {
	mu          sync.RWMutex
	initialized bool
	config      types.Config
	db          *sql.DB

	session types.Session
	logger  *zap.Logger
}

// Option configures a Backend.
type Option func(*Backend)

// WithSession sets the session consulted by SaveTask and SaveNotebook for
// the owner email.
func WithSession(s types.Session) Option {
	return func(b *Backend) {
		b.session = s
	}
}

// WithLogger sets the logger for lifecycle diagnostics.
func WithLogger(l *zap.Logger) Option {
	return func(b *Backend) {
		if l != nil {
			b.logger = l
		}
	}
}

// NewBackend creates a new SQLite backend instance.
// The backend is not initialized; call Init with a Config to open it.
func NewBackend(opts ...Option) *Backend {
	b := &Backend{
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Init opens the database at DataDir/<Name>.db, creating DataDir if needed,
// and upgrades the schema when the stored version is behind config.Version.
// Open and upgrade failures are reported as ErrStorageUnavailable.
// Returns ErrAlreadyInitialized if the backend is already open.
func (b *Backend) Init(ctx context.Context, config types.Config) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.initialized {
		return types.ErrAlreadyInitialized
	}

	if err := config.Validate(); err != nil {
		return err
	}
	config = config.WithDefaults()

	log := b.logger.With(
		zap.String("name", config.Name),
		zap.Int("version", config.Version),
		zap.String("data_dir", config.DataDir),
	)

	db, from, err := openDatabase(ctx, config)
	if err != nil {
		log.Error("storage open failed", zap.Error(err))
		return fmt.Errorf("%w: %w", types.ErrStorageUnavailable, err)
	}
	if from != config.Version {
		log.Info("schema upgraded", zap.Int("from", from), zap.Int("to", config.Version))
	}

	b.db = db
	b.config = config
	b.initialized = true

	log.Info("storage connected")
	return nil
}

// openDatabase opens and pings the database file and runs the schema
// upgrade. It returns the schema version found before the upgrade.
func openDatabase(ctx context.Context, config types.Config) (*sql.DB, int, error) {
	dataDir := config.DataDir
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, 0, fmt.Errorf("create data dir: %w", err)
	}

	dbPath := filepath.Join(dataDir, config.Name+".db")
	db, err := sql.Open("sqlite", dbPath+"?_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, 0, fmt.Errorf("open %s: %w", dbPath, err)
	}
	// One connection: the engine serializes every transaction.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, 0, fmt.Errorf("ping %s: %w", dbPath, err)
	}

	from, err := upgradeSchema(ctx, db, config.Version)
	if err != nil {
		db.Close()
		return nil, 0, err
	}
	return db, from, nil
}

// Close releases the connection. After Close, generic operations return
// ErrNotInitialized. Close is idempotent.
func (b *Backend) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.initialized {
		return nil
	}

	err := b.db.Close()
	b.db = nil
	b.initialized = false
	if err != nil {
		return fmt.Errorf("close database: %w", err)
	}

	b.logger.Info("storage closed", zap.String("name", b.config.Name))
	return nil
}

// Config returns the effective configuration of an initialized backend.
func (b *Backend) Config() types.Config {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.config
}

// Initialized reports whether Init has succeeded and Close has not run since.
func (b *Backend) Initialized() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.initialized
}
