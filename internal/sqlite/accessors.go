package sqlite

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mesh-intelligence/haldai/pkg/types"
)

// GetTasks returns the tasks owned by userEmail, or every task when
// userEmail is empty. Before Init it returns nil, nil rather than
// ErrNotInitialized.
func (b *Backend) GetTasks(ctx context.Context, userEmail string) ([]*types.Task, error) {
	docs, err := b.ownedDocs(ctx, types.TasksCollection, userEmail)
	if err != nil || docs == nil {
		return nil, err
	}
	return decodeAll[types.Task](types.TasksCollection, docs)
}

// GetTask returns the task with the given id, or nil when there is none.
func (b *Backend) GetTask(ctx context.Context, id string) (*types.Task, error) {
	return getOne[types.Task](ctx, b, types.TasksCollection, id)
}

// SaveTask stamps task.UserEmail from the session user when one is known,
// then upserts the task. The caller's task is modified in place and
// returned.
func (b *Backend) SaveTask(ctx context.Context, task *types.Task) (*types.Task, error) {
	if task == nil {
		return nil, fmt.Errorf("%w: nil task", types.ErrInvalidRecord)
	}
	if email, ok := types.OwnerEmail(b.session); ok {
		task.UserEmail = email
	}
	if err := b.save(ctx, types.TasksCollection, task.ID, task); err != nil {
		return nil, err
	}
	return task, nil
}

// DeleteTask removes the task with the given id.
func (b *Backend) DeleteTask(ctx context.Context, id string) error {
	return b.Delete(ctx, types.TasksCollection, id)
}

// GetNotebooks returns the notebooks owned by userEmail, or every notebook
// when userEmail is empty. Before Init it returns nil, nil.
func (b *Backend) GetNotebooks(ctx context.Context, userEmail string) ([]*types.Notebook, error) {
	docs, err := b.ownedDocs(ctx, types.NotebooksCollection, userEmail)
	if err != nil || docs == nil {
		return nil, err
	}
	return decodeAll[types.Notebook](types.NotebooksCollection, docs)
}

// GetNotebook returns the notebook with the given id, or nil.
func (b *Backend) GetNotebook(ctx context.Context, id string) (*types.Notebook, error) {
	return getOne[types.Notebook](ctx, b, types.NotebooksCollection, id)
}

// SaveNotebook stamps note.UserEmail from the session user when one is
// known, then upserts the notebook. The caller's note is modified in place.
func (b *Backend) SaveNotebook(ctx context.Context, note *types.Notebook) (*types.Notebook, error) {
	if note == nil {
		return nil, fmt.Errorf("%w: nil notebook", types.ErrInvalidRecord)
	}
	if email, ok := types.OwnerEmail(b.session); ok {
		note.UserEmail = email
	}
	if err := b.save(ctx, types.NotebooksCollection, note.ID, note); err != nil {
		return nil, err
	}
	return note, nil
}

// DeleteNotebook removes the notebook with the given id.
func (b *Backend) DeleteNotebook(ctx context.Context, id string) error {
	return b.Delete(ctx, types.NotebooksCollection, id)
}

// ownedDocs reads the collection, filtered by the user_email index when
// userEmail is set. It returns nil, nil when the backend is not initialized.
func (b *Backend) ownedDocs(ctx context.Context, collection, userEmail string) ([][]byte, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.initialized {
		return nil, nil
	}
	schema, err := types.LookupCollection(collection)
	if err != nil {
		return nil, err
	}
	if userEmail == "" {
		return b.selectAll(ctx, schema)
	}
	return b.selectByIndex(ctx, schema, types.FieldUserEmail, userEmail)
}

// save marshals v and upserts it under id.
func (b *Backend) save(ctx context.Context, collection, id string, v any) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	schema, err := b.collection(collection)
	if err != nil {
		return err
	}
	if id == "" {
		return types.ErrInvalidID
	}
	doc, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("%w: %w", types.ErrInvalidRecord, err)
	}
	return b.put(ctx, schema, id, doc)
}

// getOne reads and decodes a single document into T.
func getOne[T any](ctx context.Context, b *Backend, collection, id string) (*T, error) {
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
	v := new(T)
	if err := json.Unmarshal(doc, v); err != nil {
		return nil, fmt.Errorf("%w: %s/%s: %w", types.ErrReadFailed, collection, id, err)
	}
	return v, nil
}

// decodeAll parses stored documents into a non-nil slice of *T.
func decodeAll[T any](collection string, docs [][]byte) ([]*T, error) {
	out := make([]*T, 0, len(docs))
	for _, doc := range docs {
		v := new(T)
		if err := json.Unmarshal(doc, v); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", types.ErrReadFailed, collection, err)
		}
		out = append(out, v)
	}
	return out, nil
}
