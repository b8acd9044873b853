package packet

import "github.com/danmuck/packetctl/internal/bits"

// decodeStack is decodeRecursive with the pending operators kept on an explicit
// stack, so nesting depth costs heap instead of goroutine stack.
func (d Decoder) decodeStack(root *bits.Cursor) (Packet, error) {
	var stack []*opFrame
	c := root
	for {
		start := c.Offset()
		if len(stack) > d.Limits.MaxDepth {
			return nil, decodeErr(start, ErrDepthExceeded)
		}
		h, err := readHeader(c)
		if err != nil {
			return nil, err
		}

		var done Packet
		if h.typeID == TypeLiteral {
			lit, err := readLiteral(c, h)
			if err != nil {
				return nil, err
			}
			done = lit
		} else {
			f, err := openOperator(c, h)
			if err != nil {
				return nil, err
			}
			if f.more() {
				stack = append(stack, f)
				c = f.cur
				continue
			}
			op, err := f.close()
			if err != nil {
				return nil, err
			}
			done = op
		}

		// Attach the finished packet and close every operator it completes.
		for {
			if len(stack) == 0 {
				return done, nil
			}
			top := stack[len(stack)-1]
			top.add(done)
			if top.more() {
				break
			}
			stack = stack[:len(stack)-1]
			op, err := top.close()
			if err != nil {
				return nil, err
			}
			done = op
		}
		c = stack[len(stack)-1].cur
	}
}
