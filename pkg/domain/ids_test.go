package domain

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "fairgate/pkg/domain-errors"
)

func TestParseUUID_Invariants(t *testing.T) {
	t.Run("rejects empty string", func(t *testing.T) {
		_, err := ParseUserID("")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeBadRequest))
	})

	t.Run("rejects invalid format", func(t *testing.T) {
		_, err := ParseExhibitorID("not-a-uuid")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeBadRequest))
	})

	t.Run("rejects nil UUID", func(t *testing.T) {
		_, err := ParseDocumentID(uuid.Nil.String())
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeBadRequest))
	})

	t.Run("accepts valid UUID", func(t *testing.T) {
		validUUID := uuid.New()
		id, err := ParseSessionID(validUUID.String())
		require.NoError(t, err)
		assert.Equal(t, SessionID(validUUID), id)
	})
}

func TestParseID_ReportsInvalidParameter(t *testing.T) {
	_, err := ParseExhibitorID("42")
	de, ok := dErrors.As(err)
	require.True(t, ok)
	assert.Equal(t, "invalid-parameter", de.Identifier())
}

func TestParseID_RejectsHostileInput(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"SQL injection", "'; DROP TABLE exhibitors;--"},
		{"path traversal", "../../../etc/passwd"},
		{"null byte", "550e8400-e29b-41d4-a716-446655440000\x00"},
		{"trailing whitespace", "550e8400-e29b-41d4-a716-446655440000 "},
		{"zero width space", "550e8400​-e29b-41d4-a716-446655440000"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseExhibitorID(tt.input)
			assert.Error(t, err)
		})
	}
}

func TestIDMarshalsAsUUIDString(t *testing.T) {
	raw := uuid.New()
	out, err := json.Marshal(struct {
		ID ExhibitorID `json:"id"`
	}{ID: ExhibitorID(raw)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"`+raw.String()+`"}`, string(out))
}

func TestIsNil(t *testing.T) {
	assert.True(t, UserID{}.IsNil())
	assert.False(t, UserID(uuid.New()).IsNil())
}

func TestIDRoundTripsThroughJSONAndSQL(t *testing.T) {
	raw := uuid.New()

	var decoded struct {
		ID DocumentID `json:"id"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"id":"`+raw.String()+`"}`), &decoded))
	assert.Equal(t, DocumentID(raw), decoded.ID)

	v, err := ExhibitorID(raw).Value()
	require.NoError(t, err)
	var scanned ExhibitorID
	require.NoError(t, scanned.Scan(v))
	assert.Equal(t, ExhibitorID(raw), scanned)
}
