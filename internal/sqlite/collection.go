package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mesh-intelligence/haldai/pkg/types"
)

// GetAll returns every record in the collection ordered by id.
// Returns ErrNotInitialized before Init and ErrCollectionNotFound for an
// unknown collection.
func (b *Backend) GetAll(ctx context.Context, collection string) ([]types.Record, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	schema, err := b.collection(collection)
	if err != nil {
		return nil, err
	}
	docs, err := b.selectAll(ctx, schema)
	if err != nil {
		return nil, err
	}
	return decodeRecords(schema.Name, docs)
}

// Get returns the record with the given id, or nil when there is none.
func (b *Backend) Get(ctx context.Context, collection, id string) (types.Record, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	schema, err := b.collection(collection)
	if err != nil {
		return nil, err
	}
	doc, err := b.selectOne(ctx, schema, id)
	if err != nil || doc == nil {
		return nil, err
	}
	r, err := types.DecodeRecord(doc)
	if err != nil {
		return nil, fmt.Errorf("%w: %s/%s: %w", types.ErrReadFailed, schema.Name, id, err)
	}
	return r, nil
}

// GetAllByIndex returns the records whose index field equals value exactly,
// ordered by id. Returns ErrIndexNotFound if the collection declares no such
// index.
func (b *Backend) GetAllByIndex(ctx context.Context, collection, index, value string) ([]types.Record, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	schema, err := b.collection(collection)
	if err != nil {
		return nil, err
	}
	docs, err := b.selectByIndex(ctx, schema, index, value)
	if err != nil {
		return nil, err
	}
	return decodeRecords(schema.Name, docs)
}

// Add upserts record keyed by its id field and returns it.
// Returns ErrInvalidID if the id is missing or not a non-empty string.
func (b *Backend) Add(ctx context.Context, collection string, record types.Record) (types.Record, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	schema, err := b.collection(collection)
	if err != nil {
		return nil, err
	}
	id, err := record.ID()
	if err != nil {
		return nil, err
	}
	doc, err := json.Marshal(record)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", types.ErrInvalidRecord, err)
	}
	if err := b.put(ctx, schema, id, doc); err != nil {
		return nil, err
	}
	return record, nil
}

// Delete removes the record with the given id. An absent id is not an error.
func (b *Backend) Delete(ctx context.Context, collection, id string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	schema, err := b.collection(collection)
	if err != nil {
		return err
	}
	return b.remove(ctx, schema, id)
}

// collection checks the backend is open and resolves the collection schema.
// The caller must hold b.mu.
func (b *Backend) collection(name string) (types.CollectionSchema, error) {
	if !b.initialized {
		return types.CollectionSchema{}, types.ErrNotInitialized
	}
	return types.LookupCollection(name)
}

// Statement helpers below expect b.mu held and schema resolved through
// collection, so table names are never caller-controlled.

func (b *Backend) selectAll(ctx context.Context, schema types.CollectionSchema) ([][]byte, error) {
	return b.selectDocs(ctx, schema.Name,
		"SELECT data FROM "+schema.Name+" ORDER BY id")
}

func (b *Backend) selectByIndex(ctx context.Context, schema types.CollectionSchema, index, value string) ([][]byte, error) {
	if !schema.HasIndex(index) {
		return nil, fmt.Errorf("%w: %s.%s", types.ErrIndexNotFound, schema.Name, index)
	}
	return b.selectDocs(ctx, schema.Name,
		"SELECT data FROM "+schema.Name+" WHERE "+indexExpr(index)+" = ? ORDER BY id", value)
}

func (b *Backend) selectDocs(ctx context.Context, collection, query string, args ...any) ([][]byte, error) {
	rows, err := b.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", types.ErrReadFailed, collection, err)
	}
	defer rows.Close()

	docs := [][]byte{}
	for rows.Next() {
		var doc []byte
		if err := rows.Scan(&doc); err != nil {
			return nil, fmt.Errorf("%w: scanning %s: %w", types.ErrReadFailed, collection, err)
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", types.ErrReadFailed, collection, err)
	}
	return docs, nil
}

// selectOne returns the document stored under id, or nil if there is none.
func (b *Backend) selectOne(ctx context.Context, schema types.CollectionSchema, id string) ([]byte, error) {
	var doc []byte
	err := b.db.QueryRowContext(ctx,
		"SELECT data FROM "+schema.Name+" WHERE id = ?", id).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s/%s: %w", types.ErrReadFailed, schema.Name, id, err)
	}
	return doc, nil
}

// put upserts one document. A single statement is its own transaction.
func (b *Backend) put(ctx context.Context, schema types.CollectionSchema, id string, doc []byte) error {
	_, err := b.db.ExecContext(ctx,
		"INSERT INTO "+schema.Name+" (id, data) VALUES (?, ?) "+
			"ON CONFLICT(id) DO UPDATE SET data = excluded.data",
		id, string(doc))
	if err != nil {
		return fmt.Errorf("%w: %s/%s: %w", types.ErrWriteFailed, schema.Name, id, err)
	}
	return nil
}

func (b *Backend) remove(ctx context.Context, schema types.CollectionSchema, id string) error {
	if id == "" {
		return types.ErrInvalidID
	}
	if _, err := b.db.ExecContext(ctx,
		"DELETE FROM "+schema.Name+" WHERE id = ?", id); err != nil {
		return fmt.Errorf("%w: %s/%s: %w", types.ErrWriteFailed, schema.Name, id, err)
	}
	return nil
}

// decodeRecords parses stored documents into records. A document that no
// longer parses is a read failure.
func decodeRecords(collection string, docs [][]byte) ([]types.Record, error) {
	records := make([]types.Record, 0, len(docs))
	for _, doc := range docs {
		r, err := types.DecodeRecord(doc)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", types.ErrReadFailed, collection, err)
		}
		records = append(records, r)
	}
	return records, nil
}
