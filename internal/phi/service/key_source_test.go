package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocloud.dev/secrets"

	phiDomain "github.com/clearcove/phicrypt/internal/phi/domain"
)

func TestEnvKeySource(t *testing.T) {
	t.Run("ConfiguredValue", func(t *testing.T) {
		source := NewEnvKeySource(strings.Repeat("ef", 32))
		keyHex, err := source.KeyHex(context.Background())
		require.NoError(t, err)
		assert.Equal(t, strings.Repeat("ef", 32), keyHex)
	})

	t.Run("MissingValue", func(t *testing.T) {
		source := NewEnvKeySource("")
		_, err := source.KeyHex(context.Background())
		assert.ErrorIs(t, err, phiDomain.ErrKeyRequired)
	})
}

// localKeeperURI builds a base64key:// URI for gocloud's local secrets
// driver, so the KMS path is exercised without any external provider.
func localKeeperURI(t *testing.T) string {
	t.Helper()
	raw := make([]byte, 32)
	_, err := rand.Read(raw)
	require.NoError(t, err)
	return "base64key://" + base64.URLEncoding.EncodeToString(raw)
}

func TestKMSKeySource(t *testing.T) {
	ctx := context.Background()
	keyURI := localKeeperURI(t)

	// Wrap a key hex string the way the provisioning tooling would.
	keeper, err := secrets.OpenKeeper(ctx, keyURI)
	require.NoError(t, err)
	defer func() { _ = keeper.Close() }()

	keyHex := strings.Repeat("ab", 32)
	wrapped, err := keeper.Encrypt(ctx, []byte(keyHex))
	require.NoError(t, err)

	t.Run("UnwrapsKey", func(t *testing.T) {
		source := NewKMSKeySource(
			NewKMSService(),
			keyURI,
			base64.StdEncoding.EncodeToString(wrapped),
		)

		recovered, err := source.KeyHex(ctx)
		require.NoError(t, err)
		assert.Equal(t, keyHex, recovered)
	})

	t.Run("MissingCiphertext", func(t *testing.T) {
		source := NewKMSKeySource(NewKMSService(), keyURI, "")
		_, err := source.KeyHex(ctx)
		assert.ErrorIs(t, err, phiDomain.ErrKeyRequired)
	})

	t.Run("InvalidBase64", func(t *testing.T) {
		source := NewKMSKeySource(NewKMSService(), keyURI, "not-base64!!!")
		_, err := source.KeyHex(ctx)
		assert.ErrorIs(t, err, phiDomain.ErrInvalidKeyFormat)
	})
}
