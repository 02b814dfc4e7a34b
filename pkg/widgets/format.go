package widgets

import "strings"

// expand replaces %x codes in format with vals[x]. "%%" is a literal
// percent sign; unknown codes and a trailing '%' are kept as written.
func expand(format string, vals map[byte]string) string {
	var b strings.Builder
	b.Grow(len(format))
	for i := 0; i < len(format); i++ {
		ch := format[i]
		if ch != '%' || i+1 == len(format) {
			b.WriteByte(ch)
			continue
		}
		next := format[i+1]
		if next == '%' {
			b.WriteByte('%')
			i++
			continue
		}
		if v, ok := vals[next]; ok {
			b.WriteString(v)
			i++
			continue
		}
		b.WriteByte(ch)
	}
	return b.String()
}
