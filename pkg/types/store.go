package types

import (
	"context"
	"errors"
)

// Store is the local record store. Callers Init it once, read and write
// records by collection, and Close it when done.
//
// Generic operations (GetAll, Get, GetAllByIndex, Add, Delete) fail with
// ErrNotInitialized before Init succeeds. The owner-scoped listings
// GetTasks and GetNotebooks instead return a nil slice and a nil error.
type Store interface {
	// Init opens the database described by config and creates the
	// collections and indexes when the stored schema version is behind
	// config.Version. Fails with ErrStorageUnavailable if the engine cannot
	// be opened and ErrAlreadyInitialized if called twice.
	Init(ctx context.Context, config Config) error

	// Close releases the connection. Idempotent.
	Close() error

	// GetAll returns every record in the collection, ordered by id.
	GetAll(ctx context.Context, collection string) ([]Record, error)

	// Get returns the record with the given id, or nil if there is none.
	Get(ctx context.Context, collection, id string) (Record, error)

	// GetAllByIndex returns the records whose index field equals value.
	GetAllByIndex(ctx context.Context, collection, index, value string) ([]Record, error)

	// Add inserts the record or replaces the one with the same id, and
	// returns the record as written. Ids must be strings; a numeric id, as
	// a browser key store would accept, fails with ErrInvalidID. Values
	// read back are JSON-decoded, so numbers come back as float64.
	Add(ctx context.Context, collection string, record Record) (Record, error)

	// Delete removes the record with the given id. Deleting an absent id
	// is not an error.
	Delete(ctx context.Context, collection, id string) error

	// GetTasks returns the tasks owned by userEmail, or all tasks when
	// userEmail is empty.
	GetTasks(ctx context.Context, userEmail string) ([]*Task, error)
	GetTask(ctx context.Context, id string) (*Task, error)

	// SaveTask stamps task.UserEmail from the session user, if any, and
	// upserts the task. The stamp is applied to the caller's value.
	SaveTask(ctx context.Context, task *Task) (*Task, error)
	DeleteTask(ctx context.Context, id string) error

	// GetNotebooks returns the notebooks owned by userEmail, or all
	// notebooks when userEmail is empty.
	GetNotebooks(ctx context.Context, userEmail string) ([]*Notebook, error)
	GetNotebook(ctx context.Context, id string) (*Notebook, error)

	// SaveNotebook stamps note.UserEmail from the session user, if any,
	// and upserts the notebook in place.
	SaveNotebook(ctx context.Context, note *Notebook) (*Notebook, error)
	DeleteNotebook(ctx context.Context, id string) error

	// Export writes one JSONL file per collection into dir.
	Export(ctx context.Context, dir string) error

	// Import upserts every record found in the JSONL files in dir and
	// returns the number of records written.
	Import(ctx context.Context, dir string) (int, error)
}

// Lifecycle errors.
var (
	ErrStorageUnavailable = errors.New("storage unavailable")
	ErrNotInitialized     = errors.New("store not initialized")
	ErrAlreadyInitialized = errors.New("store is already initialized")
)

// Operation errors. ErrReadFailed and ErrWriteFailed wrap the engine error.
var (
	ErrReadFailed         = errors.New("read failed")
	ErrWriteFailed        = errors.New("write failed")
	ErrCollectionNotFound = errors.New("collection not found")
	ErrIndexNotFound      = errors.New("index not found")
	// ErrInvalidID covers numeric ids too: keys are strings only.
	ErrInvalidID          = errors.New("record id must be a non-empty string")
	ErrInvalidRecord      = errors.New("invalid record")
)
