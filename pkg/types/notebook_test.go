package types

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotebookJSON(t *testing.T) {
	created := time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)
	note := Notebook{
		ID:        "n1",
		CreatedAt: created,
		UserEmail: "a@x.com",
		Fields:    map[string]any{"title": "Ideas"},
	}

	data, err := json.Marshal(note)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"n1","created_at":"2026-03-01T09:30:00Z","user_email":"a@x.com","title":"Ideas"}`, string(data))

	var back Notebook
	require.NoError(t, json.Unmarshal(data, &back))
	assert.True(t, created.Equal(back.CreatedAt))
	assert.Equal(t, note.ID, back.ID)
	assert.Equal(t, note.UserEmail, back.UserEmail)
	assert.Equal(t, note.Fields, back.Fields)
}

func TestNotebookZeroCreatedAtOmitted(t *testing.T) {
	data, err := json.Marshal(Notebook{ID: "n2"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"n2"}`, string(data))
}

func TestNotebookNonRFC3339CreatedAt(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want any
	}{
		{"epoch millis", `{"id":"n3","created_at":1700000000000}`, float64(1700000000000)},
		{"free text", `{"id":"n3","created_at":"yesterday"}`, "yesterday"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var n Notebook
			require.NoError(t, json.Unmarshal([]byte(tt.doc), &n))
			assert.Equal(t, "n3", n.ID)
			assert.True(t, n.CreatedAt.IsZero())
			assert.Equal(t, map[string]any{"created_at": tt.want}, n.Fields)

			data, err := json.Marshal(n)
			require.NoError(t, err)
			assert.JSONEq(t, tt.doc, string(data))
		})
	}
}
