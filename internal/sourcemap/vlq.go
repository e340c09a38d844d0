package sourcemap

import "fmt"

const base64Chars = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789+/"

var base64Values = func() [256]int8 {
	var v [256]int8
	for i := range v {
		v[i] = -1
	}
	for i := 0; i < len(base64Chars); i++ {
		v[base64Chars[i]] = int8(i)
	}
	return v
}()

// encodeVLQ appends the base64 VLQ encoding of value to b. The sign lives in
// the least significant bit; each digit carries five payload bits plus a
// continuation bit.
func encodeVLQ(b []byte, value int) []byte {
	vlq := value << 1
	if value < 0 {
		vlq = (-value << 1) | 1
	}
	for {
		digit := vlq & 0x1f
		vlq >>= 5
		if vlq > 0 {
			digit |= 0x20
		}
		b = append(b, base64Chars[digit])
		if vlq == 0 {
			return b
		}
	}
}

// decodeVLQ decodes one VLQ value from s starting at pos, returning the value
// and the position of the next undecoded byte.
func decodeVLQ(s string, pos int) (int, int, error) {
	value := 0
	shift := 0
	for {
		if pos >= len(s) {
			return 0, 0, fmt.Errorf("%w: truncated value", ErrInvalidVLQ)
		}
		digit := base64Values[s[pos]]
		if digit < 0 {
			return 0, 0, fmt.Errorf("%w: byte %q", ErrInvalidVLQ, s[pos])
		}
		pos++
		value |= int(digit&0x1f) << shift
		shift += 5
		if digit&0x20 == 0 {
			break
		}
	}
	if value&1 != 0 {
		return -(value >> 1), pos, nil
	}
	return value >> 1, pos, nil
}
