package bits

// Cursor reads forward through a Buffer and never past its limit.
// A cursor returned by Narrow is bounded: reads crossing the limit fail with
// ErrRegionOverrun instead of ErrTruncated.
type Cursor struct {
	buf     *Buffer
	pos     int
	limit   int
	bounded bool
}

// NewCursor starts a cursor at offset start covering the rest of buf.
func NewCursor(buf *Buffer, start int) *Cursor {
	return &Cursor{buf: buf, pos: start, limit: buf.Len()}
}

func (c *Cursor) Offset() int {
	return c.pos
}

// Remaining is the number of bits left before the limit.
func (c *Cursor) Remaining() int {
	if c.pos >= c.limit {
		return 0
	}
	return c.limit - c.pos
}

// ReadUint reads width bits and advances past them.
func (c *Cursor) ReadUint(width int) (uint64, error) {
	if width < 0 || width > MaxWidth || c.pos < 0 {
		return 0, ErrInvalidWidth
	}
	if c.pos+width > c.limit {
		if c.bounded {
			return 0, ErrRegionOverrun
		}
		return 0, ErrTruncated
	}
	v, err := c.buf.ReadUint(c.pos, width)
	if err != nil {
		return 0, err
	}
	c.pos += width
	return v, nil
}

func (c *Cursor) ReadBit() (bool, error) {
	v, err := c.ReadUint(1)
	return v == 1, err
}

// Narrow returns a bounded cursor over [Offset(), end).
// A region escaping an enclosing region is an overrun even when it also
// runs past the buffer.
func (c *Cursor) Narrow(end int) (*Cursor, error) {
	if end < c.pos || (c.bounded && end > c.limit) {
		return nil, ErrRegionOverrun
	}
	if end > c.buf.Len() {
		return nil, ErrTruncated
	}
	return &Cursor{buf: c.buf, pos: c.pos, limit: end, bounded: true}, nil
}

// Seek moves the cursor to offset, typically where a narrowed child cursor stopped.
func (c *Cursor) Seek(offset int) error {
	if offset < 0 || offset > c.limit {
		if c.bounded {
			return ErrRegionOverrun
		}
		return ErrTruncated
	}
	c.pos = offset
	return nil
}
