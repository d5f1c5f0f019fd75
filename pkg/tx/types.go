// Package tx implements the Bitcoin transaction data model and its binary
// wire encoding, including the segregated witness extension defined by
// BIP 141 / BIP 144.
//
// A Transaction owns its inputs and outputs exclusively: an input or output
// can be attached to at most one transaction at a time, and attachment is
// checked at attach time rather than discovered later through a corrupted
// hash. All byte-producing accessors (serialization, hashes, weight)
// recompute from current state on every call; callers who need repeated
// access to an expensive derivation cache the result themselves.
//
// References:
//   - BIP 141: https://github.com/bitcoin/bips/blob/master/bip-0141.mediawiki
//   - BIP 144: https://github.com/bitcoin/bips/blob/master/bip-0144.mediawiki
package tx

import (
	"time"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

const (
	// CurrentVersion is the transaction version set on newly built
	// transactions.
	CurrentVersion uint32 = 1

	// MaxSequence is the default input sequence number, disabling
	// relative lock time for the input.
	MaxSequence uint32 = 0xffffffff

	// AmountUnknown is the sentinel for an amount that has not been
	// populated. It applies to a transaction's fee and inputs-amount
	// fields and to an input's cached spent value.
	AmountUnknown int64 = -1

	// IndexUnknown is the sentinel for an output whose position within
	// its transaction has not been recorded.
	IndexUnknown uint32 = 0xffffffff
)

// Transaction is a Bitcoin transaction: version, inputs, outputs and lock
// time, plus wallet-level bookkeeping (fee and total input amount) and
// informational metadata about the containing block.
//
// The informational fields (BlockHash, BlockHeight, BlockDate,
// Confirmations, UserInfo) are copied on Clone but play no role in the wire
// encoding or in any hash.
type Transaction struct {
	// Version is the transaction format version, little-endian on the wire.
	Version uint32

	// LockTime is the earliest time or block height at which the
	// transaction may be mined.
	LockTime uint32

	// Informational fields, not part of the hashed payload.
	BlockHash     chainhash.Hash // Hash of the containing block, zero if unconfirmed
	BlockHeight   int32          // Height of the containing block, -1 if unknown
	BlockDate     time.Time      // Approximate timestamp of the containing block
	Confirmations uint32         // Number of confirmations observed
	UserInfo      any            // Opaque caller annotation

	ins  []*TxInput
	outs []*TxOutput

	// fee and inputsAmount are mutually derived bookkeeping values using
	// AmountUnknown as the "not populated" sentinel. Setting one
	// invalidates the other; see amounts.go.
	fee          int64
	inputsAmount int64
}

// TxInput references a previous output being spent: the outpoint, the
// unlocking script, a sequence number, the input's witness stack and an
// optionally cached spent value.
type TxInput struct {
	PreviousHash    chainhash.Hash // Hash of the transaction holding the output being spent
	PreviousIndex   uint32         // Index of that output within its transaction
	SignatureScript []byte         // Unlocking script (scriptSig)
	Sequence        uint32         // Sequence number (default MaxSequence)

	// Witness is the ordered list of witness items for this input,
	// possibly empty. Serialized only in the witness encoding.
	Witness [][]byte

	// Value is the amount of the output being spent, populated by the
	// caller from the referenced previous output. AmountUnknown if the
	// caller has not populated it. Required for signature hashing.
	Value int64

	owner *Transaction
}

// NewTxInput returns a detached input with default sequence and an unknown
// spent value.
func NewTxInput() *TxInput {
	return &TxInput{
		Sequence: MaxSequence,
		Value:    AmountUnknown,
	}
}

// TxOutput is an amount locked by a script, plus two caches that are only
// meaningful once the containing transaction's byte layout is fixed: the
// output's position index and the owning transaction's hash. Both caches are
// reset whenever the output is (re-)attached.
type TxOutput struct {
	Value    int64  // Amount in base units
	PkScript []byte // Locking script (scriptPubKey)

	index  uint32
	txHash *chainhash.Hash
	owner  *Transaction
}

// NewTxOutput returns a detached output carrying the given value and script.
func NewTxOutput(value int64, pkScript []byte) *TxOutput {
	return &TxOutput{
		Value:    value,
		PkScript: pkScript,
		index:    IndexUnknown,
	}
}

// Index returns the output's recorded position within its transaction, or
// IndexUnknown.
func (o *TxOutput) Index() uint32 { return o.index }

// SetIndex records the output's position within its transaction.
func (o *TxOutput) SetIndex(i uint32) { o.index = i }

// TransactionHash returns the recorded hash of the owning transaction, or
// nil if none was recorded.
func (o *TxOutput) TransactionHash() *chainhash.Hash { return o.txHash }

// SetTransactionHash records the hash of the owning transaction.
func (o *TxOutput) SetTransactionHash(h chainhash.Hash) {
	c := h
	o.txHash = &c
}

// NewTransaction returns an empty transaction with the current version, no
// inputs or outputs, and unknown fee and inputs amount.
func NewTransaction() *Transaction {
	return &Transaction{
		Version:      CurrentVersion,
		BlockHeight:  -1,
		fee:          AmountUnknown,
		inputsAmount: AmountUnknown,
	}
}

// Inputs returns the transaction's inputs in order. The returned slice is a
// copy; the inputs themselves are shared.
func (t *Transaction) Inputs() []*TxInput {
	ins := make([]*TxInput, len(t.ins))
	copy(ins, t.ins)
	return ins
}

// Outputs returns the transaction's outputs in order. The returned slice is
// a copy; the outputs themselves are shared.
func (t *Transaction) Outputs() []*TxOutput {
	outs := make([]*TxOutput, len(t.outs))
	copy(outs, t.outs)
	return outs
}

// AddInput appends an input. Attaching an input that is already attached to
// a different transaction returns an *OwnershipError; re-adding an input the
// transaction already owns is a no-op.
func (t *Transaction) AddInput(in *TxInput) error {
	if in.owner == t {
		return nil
	}
	if in.owner != nil {
		return &OwnershipError{
			Entity:  "input",
			Message: "input is attached to another transaction",
		}
	}
	in.owner = t
	t.ins = append(t.ins, in)
	return nil
}

// AddOutput appends an output. Attaching an output that is already attached
// to a different transaction returns an *OwnershipError; re-adding an output
// the transaction already owns is a no-op. On attachment the output's
// position-index and transaction-hash caches are reset, since both are only
// meaningful once the final byte layout is fixed.
func (t *Transaction) AddOutput(out *TxOutput) error {
	if out.owner == t {
		return nil
	}
	if out.owner != nil {
		return &OwnershipError{
			Entity:  "output",
			Message: "output is attached to another transaction",
		}
	}
	out.owner = t
	out.index = IndexUnknown
	out.txHash = nil
	t.outs = append(t.outs, out)
	return nil
}

// SetOutput replaces the output at position i. The replaced output is
// detached; the new output's caches are reset as in AddOutput. Replacing
// with an output attached to a different transaction, or using an
// out-of-range index, returns an *OwnershipError.
func (t *Transaction) SetOutput(i int, out *TxOutput) error {
	if i < 0 || i >= len(t.outs) {
		return &OwnershipError{
			Entity:  "output",
			Message: "replacement index out of range",
		}
	}
	if out.owner != nil && out.owner != t {
		return &OwnershipError{
			Entity:  "output",
			Message: "output is attached to another transaction",
		}
	}
	old := t.outs[i]
	if old != out {
		old.owner = nil
	}
	out.owner = t
	out.index = IndexUnknown
	out.txHash = nil
	t.outs[i] = out
	return nil
}

// RemoveAllInputs detaches and removes every input.
func (t *Transaction) RemoveAllInputs() {
	for _, in := range t.ins {
		in.owner = nil
	}
	t.ins = nil
}

// RemoveAllOutputs detaches and removes every output.
func (t *Transaction) RemoveAllOutputs() {
	for _, out := range t.outs {
		out.owner = nil
	}
	t.outs = nil
}

// Clone returns a fully independent deep copy. Inputs and outputs are copied
// and re-linked to the clone; script and witness bytes are duplicated;
// informational fields and the fee/inputs-amount bookkeeping are copied
// verbatim.
func (t *Transaction) Clone() *Transaction {
	c := &Transaction{
		Version:       t.Version,
		LockTime:      t.LockTime,
		BlockHash:     t.BlockHash,
		BlockHeight:   t.BlockHeight,
		BlockDate:     t.BlockDate,
		Confirmations: t.Confirmations,
		UserInfo:      t.UserInfo,
		fee:           t.fee,
		inputsAmount:  t.inputsAmount,
	}
	c.ins = make([]*TxInput, 0, len(t.ins))
	for _, in := range t.ins {
		dup := &TxInput{
			PreviousHash:    in.PreviousHash,
			PreviousIndex:   in.PreviousIndex,
			SignatureScript: append([]byte(nil), in.SignatureScript...),
			Sequence:        in.Sequence,
			Value:           in.Value,
			owner:           c,
		}
		if in.Witness != nil {
			dup.Witness = make([][]byte, len(in.Witness))
			for i, item := range in.Witness {
				dup.Witness[i] = append([]byte(nil), item...)
			}
		}
		c.ins = append(c.ins, dup)
	}
	c.outs = make([]*TxOutput, 0, len(t.outs))
	for _, out := range t.outs {
		dup := &TxOutput{
			Value:    out.Value,
			PkScript: append([]byte(nil), out.PkScript...),
			index:    out.index,
			owner:    c,
		}
		if out.txHash != nil {
			h := *out.txHash
			dup.txHash = &h
		}
		c.outs = append(c.outs, dup)
	}
	return c
}
