package keys

import (
	"bytes"
	"testing"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPrivateKey(t *testing.T) *PrivateKey {
	t.Helper()
	pk, err := PrivateKeyFromBytes(bytes.Repeat([]byte{0x1b}, 32))
	require.NoError(t, err)
	return pk
}

func TestSignAndVerify(t *testing.T) {
	pk := testPrivateKey(t)
	hash := chainhash.DoubleHashH([]byte("payload"))

	sig := pk.Sign(hash)
	assert.True(t, Verify(pk.PublicKey(), hash, sig))

	t.Run("wrong hash fails", func(t *testing.T) {
		other := chainhash.DoubleHashH([]byte("other payload"))
		assert.False(t, Verify(pk.PublicKey(), other, sig))
	})

	t.Run("wrong key fails", func(t *testing.T) {
		other, err := PrivateKeyFromBytes(bytes.Repeat([]byte{0x2c}, 32))
		require.NoError(t, err)
		assert.False(t, Verify(other.PublicKey(), hash, sig))
	})

	t.Run("malformed signature fails", func(t *testing.T) {
		assert.False(t, Verify(pk.PublicKey(), hash, []byte{0x30, 0x01}))
	})
}

func TestPublicKeyRoundTrip(t *testing.T) {
	pub := testPrivateKey(t).PublicKey()

	raw := pub.Bytes()
	require.Len(t, raw, 33)

	parsed, err := ParsePublicKey(raw)
	require.NoError(t, err)
	assert.Equal(t, raw, parsed.Bytes())

	_, err = ParsePublicKey(raw[:32])
	assert.Error(t, err)
}

func TestWIFRoundTrip(t *testing.T) {
	raw := bytes.Repeat([]byte{0x1b}, 32)

	for _, tc := range []struct {
		name       string
		compressed bool
		testnet    bool
	}{
		{"mainnet compressed", true, false},
		{"mainnet uncompressed", false, false},
		{"testnet compressed", true, true},
	} {
		t.Run(tc.name, func(t *testing.T) {
			wif, err := EncodeWIF(raw, tc.compressed, tc.testnet)
			require.NoError(t, err)

			pk, err := ParsePrivateKeyWIF(wif)
			require.NoError(t, err)
			assert.Equal(t, raw, pk.Bytes())
		})
	}
}

func TestParsePrivateKeyWIFRejectsMalformed(t *testing.T) {
	for _, tc := range []struct {
		name string
		wif  string
	}{
		{"empty", ""},
		{"not base58 payload", "abc"},
		{"corrupted checksum", "5HueCGU8rMjxEXxiPuD5BDku4MkFqeZyd4dZ1jvhTVqvbTLvyTq"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParsePrivateKeyWIF(tc.wif)
			assert.Error(t, err)
		})
	}
}

func TestPrivateKeyFromBytesLength(t *testing.T) {
	_, err := PrivateKeyFromBytes(make([]byte, 31))
	assert.Error(t, err)
}
