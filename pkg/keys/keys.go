// Package keys implements secp256k1 ECDSA signing over computed signature
// hashes.
//
// The transaction core produces only the 32-byte hash to be signed; this
// package turns that hash into a DER-encoded signature and back. Key
// material is handled in the common wallet formats:
//
//   - Private keys: WIF (Wallet Import Format) or raw 32 bytes
//   - Public keys: compressed 33-byte format
//   - Signatures: DER-encoded
package keys

import (
	"errors"
	"fmt"

	"github.com/btcsuite/btcd/btcutil/base58"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
)

// WIF version bytes.
const (
	mainNetWIF byte = 0x80
	testNetWIF byte = 0xef
)

// PrivateKey wraps a secp256k1 private key.
type PrivateKey struct {
	key *secp256k1.PrivateKey
}

// PublicKey wraps a secp256k1 public key.
type PublicKey struct {
	key *secp256k1.PublicKey
}

// ParsePrivateKeyWIF parses a WIF-encoded private key.
func ParsePrivateKeyWIF(wif string) (*PrivateKey, error) {
	raw, err := decodeWIF(wif)
	if err != nil {
		return nil, err
	}
	return &PrivateKey{key: secp256k1.PrivKeyFromBytes(raw)}, nil
}

// PrivateKeyFromBytes creates a private key from its raw 32 bytes.
func PrivateKeyFromBytes(raw []byte) (*PrivateKey, error) {
	if len(raw) != 32 {
		return nil, fmt.Errorf("private key must be 32 bytes, got %d", len(raw))
	}
	return &PrivateKey{key: secp256k1.PrivKeyFromBytes(raw)}, nil
}

// Sign produces a DER-encoded ECDSA signature over the given signature
// hash.
func (pk *PrivateKey) Sign(hash chainhash.Hash) []byte {
	return ecdsa.Sign(pk.key, hash[:]).Serialize()
}

// PublicKey derives the corresponding public key.
func (pk *PrivateKey) PublicKey() *PublicKey {
	return &PublicKey{key: pk.key.PubKey()}
}

// Bytes returns the raw 32-byte private key.
func (pk *PrivateKey) Bytes() []byte { return pk.key.Serialize() }

// Bytes returns the compressed 33-byte public key.
func (pub *PublicKey) Bytes() []byte { return pub.key.SerializeCompressed() }

// ParsePublicKey parses a compressed 33-byte public key.
func ParsePublicKey(raw []byte) (*PublicKey, error) {
	if len(raw) != 33 {
		return nil, fmt.Errorf("compressed public key must be 33 bytes, got %d", len(raw))
	}
	key, err := secp256k1.ParsePubKey(raw)
	if err != nil {
		return nil, fmt.Errorf("parsing public key: %w", err)
	}
	return &PublicKey{key: key}, nil
}

// Verify checks a DER-encoded ECDSA signature against a signature hash.
func Verify(pub *PublicKey, hash chainhash.Hash, signature []byte) bool {
	sig, err := ecdsa.ParseDERSignature(signature)
	if err != nil {
		return false
	}
	return sig.Verify(hash[:], pub.key)
}

// decodeWIF decodes a WIF private key.
// Format: version || key (32 bytes) || [compression flag] || checksum (4 bytes)
func decodeWIF(wif string) ([]byte, error) {
	decoded := base58.Decode(wif)
	if len(decoded) != 37 && len(decoded) != 38 {
		return nil, errors.New("invalid WIF length")
	}
	if v := decoded[0]; v != mainNetWIF && v != testNetWIF {
		return nil, fmt.Errorf("invalid WIF version byte: 0x%02x", v)
	}

	payload := decoded[:len(decoded)-4]
	provided := decoded[len(decoded)-4:]
	check := chainhash.DoubleHashB(payload)
	for i := 0; i < 4; i++ {
		if provided[i] != check[i] {
			return nil, errors.New("WIF checksum mismatch")
		}
	}
	return payload[1:33], nil
}

// EncodeWIF encodes a raw private key to WIF.
func EncodeWIF(raw []byte, compressed, testnet bool) (string, error) {
	if len(raw) != 32 {
		return "", errors.New("private key must be 32 bytes")
	}
	version := mainNetWIF
	if testnet {
		version = testNetWIF
	}
	payload := append([]byte{version}, raw...)
	if compressed {
		payload = append(payload, 0x01)
	}
	check := chainhash.DoubleHashB(payload)
	return base58.Encode(append(payload, check[:4]...)), nil
}
