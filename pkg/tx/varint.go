package tx

import (
	"encoding/binary"
	"fmt"
	"io"
)

// maxVarBytesLen bounds a single length-prefixed byte string. A decoded length
// above this limit is treated as a malformed stream rather than honored with
// a huge allocation.
const maxVarBytesLen = 4 * 1024 * 1024

// WriteCompactSize writes a Bitcoin-style variable-length integer.
func WriteCompactSize(w io.Writer, n uint64) error {
	switch {
	case n < 253:
		_, err := w.Write([]byte{byte(n)})
		return err
	case n <= 0xFFFF:
		if _, err := w.Write([]byte{253}); err != nil {
			return err
		}
		return binary.Write(w, binary.LittleEndian, uint16(n))
	case n <= 0xFFFFFFFF:
		if _, err := w.Write([]byte{254}); err != nil {
			return err
		}
		return binary.Write(w, binary.LittleEndian, uint32(n))
	default:
		if _, err := w.Write([]byte{255}); err != nil {
			return err
		}
		return binary.Write(w, binary.LittleEndian, n)
	}
}

// ReadCompactSize reads a Bitcoin-style variable-length integer.
func ReadCompactSize(r io.Reader) (uint64, error) {
	var first [1]byte
	if _, err := io.ReadFull(r, first[:]); err != nil {
		return 0, err
	}
	return readCompactSizeTail(r, first[0])
}

// readCompactSizeTail finishes reading a compact size whose discriminant byte
// has already been consumed. The parser uses this when the byte that was read
// as a witness marker turns out to be the start of the input-count varint.
func readCompactSizeTail(r io.Reader, first byte) (uint64, error) {
	switch first {
	case 253:
		var v uint16
		if err := binary.Read(r, binary.LittleEndian, &v); err != nil {
			return 0, err
		}
		return uint64(v), nil
	case 254:
		var v uint32
		if err := binary.Read(r, binary.LittleEndian, &v); err != nil {
			return 0, err
		}
		return uint64(v), nil
	case 255:
		var v uint64
		if err := binary.Read(r, binary.LittleEndian, &v); err != nil {
			return 0, err
		}
		return v, nil
	default:
		return uint64(first), nil
	}
}

// WriteVarBytes writes a compact-size length prefix followed by the bytes.
func WriteVarBytes(w io.Writer, b []byte) error {
	if err := WriteCompactSize(w, uint64(len(b))); err != nil {
		return err
	}
	_, err := w.Write(b)
	return err
}

// ReadVarBytes reads a compact-size length prefix followed by that many bytes.
func ReadVarBytes(r io.Reader) ([]byte, error) {
	n, err := ReadCompactSize(r)
	if err != nil {
		return nil, err
	}
	if n > maxVarBytesLen {
		return nil, fmt.Errorf("byte string length %d exceeds limit %d", n, maxVarBytesLen)
	}
	if n == 0 {
		return nil, nil
	}
	b := make([]byte, n)
	if _, err := io.ReadFull(r, b); err != nil {
		return nil, err
	}
	return b, nil
}
