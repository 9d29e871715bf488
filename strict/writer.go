package strict

import (
	"encoding/binary"
	"io"
)

// Writer writes strict-encoded values. The first error is sticky:
// later writes are no-ops and Err reports it.
type Writer struct {
	w   io.Writer
	n   int
	err error
	buf [8]byte
}

// NewWriter creates a Writer on top of w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// Err returns the first error encountered.
func (w *Writer) Err() error { return w.err }

// Len returns the number of bytes written so far.
func (w *Writer) Len() int { return w.n }

// Fail records err unless an error is already recorded.
func (w *Writer) Fail(err error) {
	if w.err == nil {
		w.err = err
	}
}

// Write writes raw bytes with no length prefix.
func (w *Writer) Write(p []byte) (int, error) {
	if w.err != nil {
		return 0, w.err
	}
	n, err := w.w.Write(p)
	w.n += n
	if err != nil {
		w.err = err
	}
	return n, err
}

func (w *Writer) U8(v uint8) {
	w.buf[0] = v
	_, _ = w.Write(w.buf[:1])
}

func (w *Writer) U16(v uint16) {
	binary.LittleEndian.PutUint16(w.buf[:2], v)
	_, _ = w.Write(w.buf[:2])
}

func (w *Writer) U32(v uint32) {
	binary.LittleEndian.PutUint32(w.buf[:4], v)
	_, _ = w.Write(w.buf[:4])
}

func (w *Writer) U64(v uint64) {
	binary.LittleEndian.PutUint64(w.buf[:8], v)
	_, _ = w.Write(w.buf[:8])
}

// Bytes writes a fixed-width array.
func (w *Writer) Bytes(p []byte) {
	_, _ = w.Write(p)
}

// TinyBlob writes a u8 length prefix followed by p.
func (w *Writer) TinyBlob(what string, p []byte) {
	if len(p) > TinyMax {
		w.Fail(&ConfinementError{What: what, Len: len(p), Max: TinyMax})
		return
	}
	w.U8(uint8(len(p)))
	w.Bytes(p)
}

// SmallBlob writes a u16 length prefix followed by p.
func (w *Writer) SmallBlob(what string, p []byte) {
	if len(p) > SmallMax {
		w.Fail(&ConfinementError{What: what, Len: len(p), Max: SmallMax})
		return
	}
	w.U16(uint16(len(p)))
	w.Bytes(p)
}

// TinyLen writes the u8 count prefix of a collection.
func (w *Writer) TinyLen(what string, n int) bool {
	if n > TinyMax {
		w.Fail(&ConfinementError{What: what, Len: n, Max: TinyMax})
		return false
	}
	w.U8(uint8(n))
	return true
}

// SmallLen writes the u16 count prefix of a collection.
func (w *Writer) SmallLen(what string, n int) bool {
	if n > SmallMax {
		w.Fail(&ConfinementError{What: what, Len: n, Max: SmallMax})
		return false
	}
	w.U16(uint16(n))
	return true
}

// Option writes the presence byte of an optional value.
func (w *Writer) Option(present bool) {
	if present {
		w.U8(1)
	} else {
		w.U8(0)
	}
}
