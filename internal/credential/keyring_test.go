package credential

import (
	"testing"

	"github.com/99designs/keyring"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/fapm/internal/model"
)

func TestKeyringRememberRecallForget(t *testing.T) {
	k := NewKeyring(keyring.NewArrayKeyring(nil))

	a, b, err := k.Recall()
	require.NoError(t, err)
	assert.Empty(t, a)
	assert.Empty(t, b)

	require.NoError(t, k.Remember(model.NewCredentials(goodA, goodB)))

	a, b, err = k.Recall()
	require.NoError(t, err)
	assert.Equal(t, goodA, a)
	assert.Equal(t, goodB, b)

	require.NoError(t, k.Forget())
	a, b, err = k.Recall()
	require.NoError(t, err)
	assert.Empty(t, a)
	assert.Empty(t, b)

	require.NoError(t, k.Forget(), "forgetting twice is fine")
}
