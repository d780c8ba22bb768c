package credential

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/fapm/internal/model"
)

func TestValidToken(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"abcdef01-2345-6789-abcd-ef0123456789", true},
		{"ABCDEF01-2345-6789-ABCD-EF0123456789", true},
		{"  abcdef01-2345-6789-abcd-ef0123456789\n", true},
		{"abcdef01234567890abcdef0123456789", false},
		{"abcdef01-2345-6789-abcd-ef012345678", false},
		{"ghijkl01-2345-6789-abcd-ef0123456789", false},
		{"{abcdef01-2345-6789-abcd-ef0123456789}", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidToken(tt.in))
		})
	}
}

func TestNormalizeTokenLowercases(t *testing.T) {
	got, err := NormalizeToken("A", "ABCDEF01-2345-6789-ABCD-EF0123456789")
	require.NoError(t, err)
	assert.Equal(t, "abcdef01-2345-6789-abcd-ef0123456789", got)
}

func TestNormalizeTokenRejects(t *testing.T) {
	_, err := NormalizeToken("B", "urn:uuid:abcdef01-2345-6789-abcd-ef0123456789")
	require.Error(t, err)
	assert.True(t, model.IsValidationError(err))
	assert.Contains(t, err.Error(), "session token B")
}
