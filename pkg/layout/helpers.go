package layout

import "strconv"

// satSub returns a-b, or 0 if b > a.
func satSub(a, b uint32) uint32 {
	if b > a {
		return 0
	}
	return a - b
}

func itoa(v uint32) string {
	return strconv.FormatUint(uint64(v), 10)
}

// Equal reports whether two region lists are identical.
func Equal(a, b []Rect) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// TotalWidth returns the sum of region widths.
func TotalWidth(regions []Rect) uint32 {
	var sum uint32
	for _, r := range regions {
		sum += r.Width
	}
	return sum
}
