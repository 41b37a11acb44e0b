package domain

// Cursor is the read position inside the followed file. It starts at the
// file size observed at open and only moves forward.
type Cursor struct {
	offset int64
}

// NewCursor returns a cursor positioned at offset.
func NewCursor(offset int64) Cursor {
	return Cursor{offset: offset}
}

// Offset returns the position of the next unread byte.
func (c Cursor) Offset() int64 {
	return c.offset
}

// Advance moves the cursor past n consumed bytes. Non-positive n is ignored.
func (c *Cursor) Advance(n int) {
	if n > 0 {
		c.offset += int64(n)
	}
}
