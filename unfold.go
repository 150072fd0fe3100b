package vcard

// Unfold reverses line folding in s.
//
// A CRLF immediately followed by a single space or tab is a fold marker: the CRLF and that
// one whitespace byte are removed, joining the continuation onto the previous line.
// Only one whitespace byte is consumed, so "abc\r\n  def" unfolds to "abc def".
// Any other CRLF, including one at the end of s, is a real line break and is kept.
//
// Markers are resolved left to right and the joined text is re-examined after each
// removal, so markers exposed by a removal are resolved too and Unfold(Unfold(s)) == Unfold(s).
// Unfold never fails: a malformed marker is simply not a fold.
//
// If s has no fold markers, s itself is returned. Otherwise the result is a new buffer
// and s is left untouched.
func Unfold[T ~string | ~[]byte](s T) T {
	i := foldIndex(s)
	if i < 0 {
		return s
	}

	out := make([]byte, 0, len(s))
	out = append(out, s[:i]...)
	for ; i < len(s); i++ {
		out = append(out, s[i])
		if n := len(out); n >= 3 && out[n-3] == '\r' && out[n-2] == '\n' && isWSP(out[n-1]) {
			out = out[:n-3]
		}
	}
	return T(out)
}

func foldIndex[T ~string | ~[]byte](s T) int {
	for i := 0; i+2 < len(s); i++ {
		if s[i] == '\r' && s[i+1] == '\n' && isWSP(s[i+2]) {
			return i
		}
	}
	return -1
}

func isWSP(c byte) bool { return c == ' ' || c == '\t' }
