package strict

import "encoding/binary"

// Reader decodes strict-encoded values from a byte slice. The first
// error is sticky: later reads return zero values.
type Reader struct {
	data []byte
	pos  int
	err  error
}

// NewReader creates a Reader over data.
func NewReader(data []byte) *Reader {
	return &Reader{data: data}
}

// Err returns the first error encountered.
func (r *Reader) Err() error { return r.err }

// Fail records err unless an error is already recorded.
func (r *Reader) Fail(err error) {
	if r.err == nil {
		r.err = err
	}
}

// Remaining returns the number of unread bytes.
func (r *Reader) Remaining() int { return len(r.data) - r.pos }

// Done returns the sticky error, or a data-integrity error when
// unread bytes remain.
func (r *Reader) Done() error {
	if r.err != nil {
		return r.err
	}
	if r.pos != len(r.data) {
		return IntegrityError("%d trailing bytes", len(r.data)-r.pos)
	}
	return nil
}

func (r *Reader) next(n int) []byte {
	if r.err != nil {
		return nil
	}
	if n > len(r.data)-r.pos {
		r.err = ErrUnexpectedEOF
		return nil
	}
	p := r.data[r.pos : r.pos+n]
	r.pos += n
	return p
}

func (r *Reader) U8() uint8 {
	p := r.next(1)
	if p == nil {
		return 0
	}
	return p[0]
}

func (r *Reader) U16() uint16 {
	p := r.next(2)
	if p == nil {
		return 0
	}
	return binary.LittleEndian.Uint16(p)
}

func (r *Reader) U32() uint32 {
	p := r.next(4)
	if p == nil {
		return 0
	}
	return binary.LittleEndian.Uint32(p)
}

func (r *Reader) U64() uint64 {
	p := r.next(8)
	if p == nil {
		return 0
	}
	return binary.LittleEndian.Uint64(p)
}

// Bytes reads a fixed-width array into dst.
func (r *Reader) Bytes(dst []byte) {
	if p := r.next(len(dst)); p != nil {
		copy(dst, p)
	}
}

// TinyBlob reads a u8 length-prefixed byte string.
func (r *Reader) TinyBlob() []byte {
	n := int(r.U8())
	return r.copyOf(n)
}

// SmallBlob reads a u16 length-prefixed byte string.
func (r *Reader) SmallBlob() []byte {
	n := int(r.U16())
	return r.copyOf(n)
}

func (r *Reader) copyOf(n int) []byte {
	p := r.next(n)
	if p == nil {
		return nil
	}
	out := make([]byte, n)
	copy(out, p)
	return out
}

// Option reads the presence byte of an optional value.
func (r *Reader) Option(what string) bool {
	switch tag := r.U8(); tag {
	case 0:
		return false
	case 1:
		return true
	default:
		r.Fail(&TagError{Type: what, Tag: tag})
		return false
	}
}
