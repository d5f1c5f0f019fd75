// Package sighash computes the witness-style signature hash used to
// authorize spending one input of a transaction.
//
// The preimage follows the BIP 143 construction: aggregate double-SHA256
// commitments over all prevouts, sequences and outputs, combined with the
// outpoint, subscript, spent amount and sequence of the input being signed,
// and the hash type as a little-endian 32-bit integer. The algorithm is
// applied uniformly to every input regardless of whether it actually carries
// witness data; there is no legacy, witness-agnostic fallback.
//
// Reference:
//   - BIP 143: https://github.com/bitcoin/bips/blob/master/bip-0143.mediawiki
package sighash

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/btcsuite/btcd/chaincfg/chainhash"

	"github.com/suffix-labs/btc-txkit/pkg/tx"
)

// HashType describes which parts of the transaction a signature commits to.
// The value participates in the preimage as a little-endian 32-bit integer;
// it never changes which fields this engine hashes.
type HashType uint32

const (
	All          HashType = 0x01
	None         HashType = 0x02
	Single       HashType = 0x03
	AnyoneCanPay HashType = 0x80
)

// InvalidInputIndex is the reserved sentinel input index. Computing a
// signature hash with it always fails.
const InvalidInputIndex uint32 = 0xffffffff

// Error is returned when a signature hash cannot be computed.
type Error struct {
	InputIndex uint32 // Index of the input that caused the error
	Message    string // Human-readable error message
}

func (e *Error) Error() string {
	return fmt.Sprintf("sighash error at input %d: %s", e.InputIndex, e.Message)
}

// Compute returns the 32-byte hash a signer signs to authorize the input at
// inputIndex, committing to subscript as the script code and to hashType.
//
// The input's cached spent value must have been populated by the caller from
// the referenced previous output; the engine does not fetch it. Compute
// operates on an internal deep clone, so the caller's transaction is never
// mutated and concurrent computations over one transaction are safe.
func Compute(transaction *tx.Transaction, subscript []byte, inputIndex uint32, hashType HashType) (chainhash.Hash, error) {
	if transaction == nil {
		return chainhash.Hash{}, &Error{
			InputIndex: inputIndex,
			Message:    "missing transaction",
		}
	}
	if inputIndex == InvalidInputIndex {
		return chainhash.Hash{}, &Error{
			InputIndex: inputIndex,
			Message:    "missing valid input index",
		}
	}

	snapshot := transaction.Clone()
	ins := snapshot.Inputs()
	if int(inputIndex) >= len(ins) {
		return chainhash.Hash{}, &Error{
			InputIndex: inputIndex,
			Message:    "input index out of bounds",
		}
	}
	target := ins[inputIndex]

	prevoutsHash := hashPrevouts(ins)
	sequencesHash := hashSequences(ins)
	outputsHash := hashOutputs(snapshot.Outputs())

	preimage := new(bytes.Buffer)
	binary.Write(preimage, binary.LittleEndian, snapshot.Version)
	preimage.Write(prevoutsHash[:])
	preimage.Write(sequencesHash[:])
	preimage.Write(target.PreviousHash[:])
	binary.Write(preimage, binary.LittleEndian, target.PreviousIndex)
	tx.WriteVarBytes(preimage, subscript)
	binary.Write(preimage, binary.LittleEndian, target.Value)
	binary.Write(preimage, binary.LittleEndian, target.Sequence)
	preimage.Write(outputsHash[:])
	binary.Write(preimage, binary.LittleEndian, snapshot.LockTime)
	binary.Write(preimage, binary.LittleEndian, uint32(hashType))

	return chainhash.DoubleHashH(preimage.Bytes()), nil
}

// hashPrevouts commits to every input's outpoint in order.
func hashPrevouts(ins []*tx.TxInput) chainhash.Hash {
	buf := new(bytes.Buffer)
	for _, in := range ins {
		buf.Write(in.PreviousHash[:])
		binary.Write(buf, binary.LittleEndian, in.PreviousIndex)
	}
	return chainhash.DoubleHashH(buf.Bytes())
}

// hashSequences commits to every input's sequence number in order.
func hashSequences(ins []*tx.TxInput) chainhash.Hash {
	buf := new(bytes.Buffer)
	for _, in := range ins {
		binary.Write(buf, binary.LittleEndian, in.Sequence)
	}
	return chainhash.DoubleHashH(buf.Bytes())
}

// hashOutputs commits to every output's full serialized payload in order.
func hashOutputs(outs []*tx.TxOutput) chainhash.Hash {
	buf := new(bytes.Buffer)
	for _, out := range outs {
		out.SerializeTo(buf)
	}
	return chainhash.DoubleHashH(buf.Bytes())
}
