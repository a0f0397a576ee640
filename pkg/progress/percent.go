package progress

import "math"

// FormatPercent renders ratio as a fixed five character percentage such as
// "  0.0", " 42.5" or "100.0". Rounding is half-up at the tenths place.
func FormatPercent(ratio float64) string {
	if ratio < 0 || math.IsNaN(ratio) {
		ratio = 0
	}
	if ratio > 1 {
		ratio = 1
	}
	i := uint64(ratio*1000 + 0.5)

	var buf [5]byte
	buf[0] = ' '
	if i >= 1000 {
		buf[0] = byte('0' + i/1000)
	}
	buf[1] = ' '
	if i >= 100 {
		buf[1] = byte('0' + (i/100)%10)
	}
	buf[2] = byte('0' + (i/10)%10)
	buf[3] = '.'
	buf[4] = byte('0' + i%10)
	return string(buf[:])
}
