// Transaction wire codec.
//
// Layout (all multi-byte integers little-endian):
//
//	version (4) ||
//	[marker 0x00 || flag 0x01]              (witness encoding only) ||
//	varint input count || inputs... ||
//	varint output count || outputs... ||
//	[per-input witness stacks]              (witness encoding only) ||
//	lock_time (4)
//
// The decoder inspects the byte that follows the version field: a 0x00
// marker followed by the 0x01 flag announces a witness section, any other
// value is the start of the input-count varint of a pre-witness stream.
// Both layouts therefore round-trip.
package tx

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
)

// Encoding selects the serialization mode.
type Encoding int

const (
	// WitnessEncoding includes the marker/flag bytes and the per-input
	// witness stacks. This is the canonical full serialization.
	WitnessEncoding Encoding = iota

	// BaseEncoding omits the witness section. It is the pre-witness
	// layout, used for the content hash and for base-size accounting.
	BaseEncoding
)

const (
	witnessMarker byte = 0x00
	witnessFlag   byte = 0x01

	// maxItemCount bounds decoded input, output and witness-item counts.
	// An input needs at least 41 bytes on the wire, so any real stream
	// stays far below this.
	maxItemCount = 1 << 20
)

// SerializeTo writes the transaction in the given encoding.
func (t *Transaction) SerializeTo(w io.Writer, enc Encoding) error {
	if err := binary.Write(w, binary.LittleEndian, t.Version); err != nil {
		return err
	}
	if enc == WitnessEncoding {
		if _, err := w.Write([]byte{witnessMarker, witnessFlag}); err != nil {
			return err
		}
	}
	if err := WriteCompactSize(w, uint64(len(t.ins))); err != nil {
		return err
	}
	for _, in := range t.ins {
		if err := in.SerializeTo(w); err != nil {
			return err
		}
	}
	if err := WriteCompactSize(w, uint64(len(t.outs))); err != nil {
		return err
	}
	for _, out := range t.outs {
		if err := out.SerializeTo(w); err != nil {
			return err
		}
	}
	if enc == WitnessEncoding {
		for _, in := range t.ins {
			if err := WriteCompactSize(w, uint64(len(in.Witness))); err != nil {
				return err
			}
			for _, item := range in.Witness {
				if err := WriteVarBytes(w, item); err != nil {
					return err
				}
			}
		}
	}
	return binary.Write(w, binary.LittleEndian, t.LockTime)
}

// Serialize returns the transaction bytes in the given encoding. It is a
// pure function of the transaction's current state and recomputes on every
// call.
func (t *Transaction) Serialize(enc Encoding) []byte {
	buf := new(bytes.Buffer)
	// Writes to a bytes.Buffer cannot fail.
	_ = t.SerializeTo(buf, enc)
	return buf.Bytes()
}

// SerializeTo writes the input's own payload: previous outpoint, unlocking
// script and sequence. The witness stack is serialized at the transaction
// level, not here.
func (in *TxInput) SerializeTo(w io.Writer) error {
	if _, err := w.Write(in.PreviousHash[:]); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, in.PreviousIndex); err != nil {
		return err
	}
	if err := WriteVarBytes(w, in.SignatureScript); err != nil {
		return err
	}
	return binary.Write(w, binary.LittleEndian, in.Sequence)
}

// SerializeTo writes the output's own payload: value and locking script.
func (o *TxOutput) SerializeTo(w io.Writer) error {
	if err := binary.Write(w, binary.LittleEndian, o.Value); err != nil {
		return err
	}
	return WriteVarBytes(w, o.PkScript)
}

// Parse decodes a transaction from raw bytes. See Decode.
func Parse(data []byte) (*Transaction, error) {
	t, err := Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	return t, nil
}

// Decode reads a transaction from the stream. Both the witness-extended and
// the pre-witness layout are accepted; the marker/flag bytes decide which.
// Any short read, truncated varint or malformed witness length fails with a
// *ParseError and no partial Transaction is returned.
func Decode(r io.Reader) (*Transaction, error) {
	t := NewTransaction()

	if err := binary.Read(r, binary.LittleEndian, &t.Version); err != nil {
		return nil, &ParseError{Field: "version", Message: "short read", Cause: err}
	}

	var first [1]byte
	if _, err := io.ReadFull(r, first[:]); err != nil {
		return nil, &ParseError{Field: "input count", Message: "short read", Cause: err}
	}

	hasWitness := false
	var numInputs uint64
	if first[0] == witnessMarker {
		var flag [1]byte
		if _, err := io.ReadFull(r, flag[:]); err != nil {
			return nil, &ParseError{Field: "witness flag", Message: "short read", Cause: err}
		}
		if flag[0] != witnessFlag {
			return nil, &ParseError{
				Field:   "witness flag",
				Message: fmt.Sprintf("unexpected flag byte 0x%02x", flag[0]),
			}
		}
		hasWitness = true
		n, err := ReadCompactSize(r)
		if err != nil {
			return nil, &ParseError{Field: "input count", Message: "truncated varint", Cause: err}
		}
		numInputs = n
	} else {
		// No witness section; the byte already consumed starts the
		// input-count varint.
		n, err := readCompactSizeTail(r, first[0])
		if err != nil {
			return nil, &ParseError{Field: "input count", Message: "truncated varint", Cause: err}
		}
		numInputs = n
	}
	if numInputs > maxItemCount {
		return nil, &ParseError{
			Field:   "input count",
			Message: fmt.Sprintf("count %d exceeds limit", numInputs),
		}
	}

	for i := uint64(0); i < numInputs; i++ {
		in := NewTxInput()
		if err := in.deserializeFrom(r); err != nil {
			return nil, &ParseError{
				Field:   fmt.Sprintf("input %d", i),
				Message: "malformed input",
				Cause:   err,
			}
		}
		if err := t.AddInput(in); err != nil {
			return nil, err
		}
	}

	numOutputs, err := ReadCompactSize(r)
	if err != nil {
		return nil, &ParseError{Field: "output count", Message: "truncated varint", Cause: err}
	}
	if numOutputs > maxItemCount {
		return nil, &ParseError{
			Field:   "output count",
			Message: fmt.Sprintf("count %d exceeds limit", numOutputs),
		}
	}
	for i := uint64(0); i < numOutputs; i++ {
		out := &TxOutput{index: IndexUnknown}
		if err := out.deserializeFrom(r); err != nil {
			return nil, &ParseError{
				Field:   fmt.Sprintf("output %d", i),
				Message: "malformed output",
				Cause:   err,
			}
		}
		if err := t.AddOutput(out); err != nil {
			return nil, err
		}
	}

	if hasWitness {
		// One witness stack per input, in input order.
		for i, in := range t.ins {
			count, err := ReadCompactSize(r)
			if err != nil {
				return nil, &ParseError{
					Field:   fmt.Sprintf("witness %d", i),
					Message: "truncated item count",
					Cause:   err,
				}
			}
			if count > maxItemCount {
				return nil, &ParseError{
					Field:   fmt.Sprintf("witness %d", i),
					Message: fmt.Sprintf("item count %d exceeds limit", count),
				}
			}
			if count > 0 {
				in.Witness = make([][]byte, count)
				for j := uint64(0); j < count; j++ {
					item, err := ReadVarBytes(r)
					if err != nil {
						return nil, &ParseError{
							Field:   fmt.Sprintf("witness %d item %d", i, j),
							Message: "malformed witness item",
							Cause:   err,
						}
					}
					in.Witness[j] = item
				}
			}
		}
	}

	if err := binary.Read(r, binary.LittleEndian, &t.LockTime); err != nil {
		return nil, &ParseError{Field: "lock time", Message: "short read", Cause: err}
	}
	return t, nil
}

func (in *TxInput) deserializeFrom(r io.Reader) error {
	if _, err := io.ReadFull(r, in.PreviousHash[:]); err != nil {
		return fmt.Errorf("reading previous hash: %w", err)
	}
	if err := binary.Read(r, binary.LittleEndian, &in.PreviousIndex); err != nil {
		return fmt.Errorf("reading previous index: %w", err)
	}
	script, err := ReadVarBytes(r)
	if err != nil {
		return fmt.Errorf("reading signature script: %w", err)
	}
	in.SignatureScript = script
	if err := binary.Read(r, binary.LittleEndian, &in.Sequence); err != nil {
		return fmt.Errorf("reading sequence: %w", err)
	}
	return nil
}

func (o *TxOutput) deserializeFrom(r io.Reader) error {
	if err := binary.Read(r, binary.LittleEndian, &o.Value); err != nil {
		return fmt.Errorf("reading value: %w", err)
	}
	script, err := ReadVarBytes(r)
	if err != nil {
		return fmt.Errorf("reading pk script: %w", err)
	}
	o.PkScript = script
	return nil
}

// BaseSize is the serialized length excluding the witness section.
func (t *Transaction) BaseSize() int {
	return len(t.Serialize(BaseEncoding))
}

// TotalSize is the full witness-inclusive serialized length.
func (t *Transaction) TotalSize() int {
	return len(t.Serialize(WitnessEncoding))
}

// Weight is the block-capacity cost of the transaction, counting witness
// bytes a quarter as much as base bytes: BaseSize*3 + TotalSize.
func (t *Transaction) Weight() int {
	return t.BaseSize()*3 + t.TotalSize()
}

// VirtualSize is the weight expressed in virtual bytes, rounded up.
func (t *Transaction) VirtualSize() int {
	return (t.Weight() + 3) / 4
}
