package core

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSessionIDIsTimeOrderedUUID(t *testing.T) {
	seen := make(map[SessionID]struct{}, 1000)
	var prev SessionID
	for i := 0; i < 1000; i++ {
		id := NewSessionID()
		require.False(t, ID(id).IsEmpty())

		parsed, err := uuid.Parse(id.String())
		require.NoError(t, err)
		assert.Equal(t, uuid.Version(7), parsed.Version())

		_, dup := seen[id]
		require.False(t, dup, "duplicate session ID %s", id)
		seen[id] = struct{}{}

		if prev != "" {
			assert.LessOrEqual(t, prev.String()[:8], id.String()[:8])
		}
		prev = id
	}
}

func TestParseSessionID(t *testing.T) {
	valid := NewSessionID()

	tests := []struct {
		name    string
		input   string
		want    SessionID
		wantErr bool
	}{
		{"valid", valid.String(), valid, false},
		{"surrounding spaces", "  " + valid.String() + " ", valid, false},
		{"empty", "", "", true},
		{"blank", "   ", "", true},
		{"not a uuid", "not-a-uuid", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseSessionID(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
