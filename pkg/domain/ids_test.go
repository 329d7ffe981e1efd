package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "corpstats/pkg/domain-errors"
)

// TestParseCorporationID_Invariants validates the parsing invariant:
// "EVE IDs at trust boundaries must be positive integers"
func TestParseCorporationID_Invariants(t *testing.T) {
	tests := []struct {
		name  string
		input string
		ok    bool
	}{
		{"empty", "", false},
		{"not a number", "corp", false},
		{"zero", "0", false},
		{"negative", "-98000001", false},
		{"overflow", "99999999999999999999", false},
		{"valid", "98000001", true},
		{"valid with whitespace", " 98000001 ", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseCorporationID(tt.input)
			if !tt.ok {
				require.Error(t, err)
				assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, CorporationID(98000001), got)
		})
	}
}

func TestParseSnapshotID(t *testing.T) {
	t.Run("rejects nil UUID", func(t *testing.T) {
		_, err := ParseSnapshotID(uuid.Nil.String())
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("accepts valid UUID", func(t *testing.T) {
		raw := uuid.New()
		got, err := ParseSnapshotID(raw.String())
		require.NoError(t, err)
		assert.Equal(t, SnapshotID(raw), got)
		assert.False(t, got.IsNil())
	})
}
