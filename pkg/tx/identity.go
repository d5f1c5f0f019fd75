// Transaction identity.
//
// Two distinct identifiers exist and are exposed separately: the content
// hash over the witness-free payload (the txid used to reference outputs)
// and the full hash over the witness-inclusive payload (the wtxid). Both are
// double-SHA256 of the corresponding serialization; the display form is the
// byte-reversed hexadecimal rendering supplied by the chainhash collaborator.
package tx

import "github.com/btcsuite/btcd/chaincfg/chainhash"

// TxHash is the witness-exclusive content hash:
// doubleSHA256(Serialize(BaseEncoding)).
func (t *Transaction) TxHash() chainhash.Hash {
	return chainhash.DoubleHashH(t.Serialize(BaseEncoding))
}

// WitnessHash is the witness-inclusive hash:
// doubleSHA256(Serialize(WitnessEncoding)). For a transaction without
// witness data the two serializations still differ by the marker/flag bytes,
// so TxHash and WitnessHash are never interchangeable.
func (t *Transaction) WitnessHash() chainhash.Hash {
	return chainhash.DoubleHashH(t.Serialize(WitnessEncoding))
}

// TxID is the human-readable display identifier: the byte-reversed
// hexadecimal rendering of TxHash.
func (t *Transaction) TxID() string {
	h := t.TxHash()
	return h.String()
}

// WitnessID is the display rendering of WitnessHash.
func (t *Transaction) WitnessID() string {
	h := t.WitnessHash()
	return h.String()
}

// BlockID is the display rendering of the cached containing-block hash, or
// empty when unconfirmed. Informational only; not derived from transaction
// content.
func (t *Transaction) BlockID() string {
	var zero chainhash.Hash
	if t.BlockHash == zero {
		return ""
	}
	return t.BlockHash.String()
}

// SetBlockID sets the cached containing-block hash from its display
// rendering.
func (t *Transaction) SetBlockID(id string) error {
	h, err := chainhash.NewHashFromStr(id)
	if err != nil {
		return err
	}
	t.BlockHash = *h
	return nil
}
