package codec

import (
	"encoding/binary"
	"fmt"
)

// OutputBuffer is a growable byte buffer for encoding.
type OutputBuffer struct {
	buf []byte
}

// NewOutputBuffer returns an empty buffer with the given capacity.
func NewOutputBuffer(capacity int) *OutputBuffer {
	return &OutputBuffer{buf: make([]byte, 0, capacity)}
}

// Bytes returns the encoded bytes.
func (b *OutputBuffer) Bytes() []byte { return b.buf }

// Len returns the number of encoded bytes.
func (b *OutputBuffer) Len() int { return len(b.buf) }

// WriteByte appends a single byte. It never fails.
func (b *OutputBuffer) WriteByte(c byte) error {
	b.buf = append(b.buf, c)
	return nil
}

// WriteUint32 appends v in little endian order.
func (b *OutputBuffer) WriteUint32(v uint32) {
	b.buf = binary.LittleEndian.AppendUint32(b.buf, v)
}

// WriteString appends the length of s followed by its bytes.
func (b *OutputBuffer) WriteString(s string) {
	b.WriteUint32(uint32(len(s)))
	b.buf = append(b.buf, s...)
}

// InputBuffer reads encoded data with an internal cursor.
type InputBuffer struct {
	data []byte
	off  int
}

// NewInputBuffer returns a buffer reading data from the start.
func NewInputBuffer(data []byte) *InputBuffer {
	return &InputBuffer{data: data}
}

// Offset returns the position of the cursor.
func (b *InputBuffer) Offset() int { return b.off }

// Remaining returns the number of unread bytes.
func (b *InputBuffer) Remaining() int { return len(b.data) - b.off }

// PeekByte returns the next byte without consuming it.
func (b *InputBuffer) PeekByte() (byte, error) {
	if b.off >= len(b.data) {
		return 0, b.eof(1)
	}
	return b.data[b.off], nil
}

// ReadByte consumes the next byte.
func (b *InputBuffer) ReadByte() (byte, error) {
	c, err := b.PeekByte()
	if err != nil {
		return 0, err
	}
	b.off++
	return c, nil
}

// ReadUint32 consumes a little endian uint32.
func (b *InputBuffer) ReadUint32() (uint32, error) {
	if b.Remaining() < 4 {
		return 0, b.eof(4)
	}
	v := binary.LittleEndian.Uint32(b.data[b.off:])
	b.off += 4
	return v, nil
}

// ReadString consumes a length prefixed string.
func (b *InputBuffer) ReadString() (string, error) {
	n, err := b.ReadUint32()
	if err != nil {
		return "", err
	}
	if uint64(b.Remaining()) < uint64(n) {
		return "", b.eof(int(n))
	}
	s := string(b.data[b.off : b.off+int(n)])
	b.off += int(n)
	return s, nil
}

func (b *InputBuffer) eof(n int) error {
	return fmt.Errorf("%w: need %d bytes at offset %d, have %d", ErrUnexpectedEOF, n, b.off, b.Remaining())
}
