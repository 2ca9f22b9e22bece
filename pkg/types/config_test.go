package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr error
	}{
		{
			name:    "empty backend returns ErrBackendEmpty",
			config:  Config{Backend: "", DataDir: "/tmp/data"},
			wantErr: ErrBackendEmpty,
		},
		{
			name:    "unknown backend returns ErrBackendUnknown",
			config:  Config{Backend: "postgres", DataDir: "/tmp/data"},
			wantErr: ErrBackendUnknown,
		},
		{
			name:   "valid sqlite config",
			config: Config{Backend: BackendSQLite, DataDir: "/tmp/data"},
		},
		{
			name:   "sqlite with empty DataDir is valid at config level",
			config: Config{Backend: BackendSQLite},
		},
		{
			name:    "name with path separator is rejected",
			config:  Config{Backend: BackendSQLite, Name: "../escape"},
			wantErr: ErrNameInvalid,
		},
		{
			name:    "negative version is rejected",
			config:  Config{Backend: BackendSQLite, Version: -1},
			wantErr: ErrVersionInvalid,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr == nil {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestConfigWithDefaults(t *testing.T) {
	got := Config{Backend: BackendSQLite}.WithDefaults()
	assert.Equal(t, DefaultName, got.Name)
	assert.Equal(t, SchemaVersion, got.Version)

	kept := Config{Backend: BackendSQLite, Name: "other", Version: 3}.WithDefaults()
	assert.Equal(t, "other", kept.Name)
	assert.Equal(t, 3, kept.Version)
}
