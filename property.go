package vcard

import (
	"log/slog"
	"strings"

	"braces.dev/errtrace"

	"github.com/ghettovoice/vcard/internal/util"
)

const reservedName = "END"

// Param is a single property parameter, e.g. TYPE=INTERNET.
// Value is kept raw, with quotes and escapes as written; it is empty for a bare parameter (TEL;CELL:...).
type Param struct {
	Key   string
	Value string
}

// Property is one parsed logical line of a card.
//
// Values holds the value region split on unescaped commas. The split is always reported,
// whatever the property is: a free-text property that contains commas must be recombined
// by the caller (see the card package).
// Strings are sliced from the unfolded text without copying.
type Property struct {
	// Group is the optional prefix before a dot in the property name, e.g. "item1" in "item1.TEL".
	Group string
	// Name is the property name as written. Compare it with [Property.Is].
	Name string
	// Params are the parameters in encounter order. Keys may repeat.
	Params []Param
	// Values are the raw value fragments, at least one.
	Values []string
	// Line is the 1-based number of the logical line the property was parsed from.
	Line int
	// Offset is the byte offset of the line in the unfolded text.
	Offset int
}

// Is reports whether the property name equals name, ignoring case.
func (p *Property) Is(name string) bool {
	return p != nil && util.EqFold(p.Name, name)
}

// Param returns the value of the first parameter with the given key, ignoring key case.
func (p *Property) Param(key string) (string, bool) {
	if p == nil {
		return "", false
	}
	for _, prm := range p.Params {
		if util.EqFold(prm.Key, key) {
			return prm.Value, true
		}
	}
	return "", false
}

// ParamValues returns values of all parameters with the given key in encounter order.
func (p *Property) ParamValues(key string) []string {
	if p == nil {
		return nil
	}
	var vals []string
	for _, prm := range p.Params {
		if util.EqFold(prm.Key, key) {
			vals = append(vals, prm.Value)
		}
	}
	return vals
}

// Value returns the first value fragment.
func (p *Property) Value() string {
	if p == nil || len(p.Values) == 0 {
		return ""
	}
	return p.Values[0]
}

// Clone returns a deep copy of the property.
// The copy holds no references to the source text, so it outlives the parsed [Document].
func (p *Property) Clone() *Property {
	if p == nil {
		return nil
	}
	p2 := *p
	p2.Group = strings.Clone(p.Group)
	p2.Name = strings.Clone(p.Name)
	if p.Params != nil {
		p2.Params = make([]Param, len(p.Params))
		for i, prm := range p.Params {
			p2.Params[i] = Param{Key: strings.Clone(prm.Key), Value: strings.Clone(prm.Value)}
		}
	}
	if p.Values != nil {
		p2.Values = make([]string, len(p.Values))
		for i, v := range p.Values {
			p2.Values[i] = strings.Clone(v)
		}
	}
	return &p2
}

// LogValue implements [slog.LogValuer].
func (p *Property) LogValue() slog.Value {
	if p == nil {
		return slog.Value{}
	}
	attrs := make([]slog.Attr, 0, 5)
	if p.Group != "" {
		attrs = append(attrs, slog.String("group", p.Group))
	}
	attrs = append(attrs, slog.String("name", p.Name))
	if len(p.Params) > 0 {
		attrs = append(attrs, slog.Any("params", p.Params))
	}
	attrs = append(attrs, slog.Any("values", p.Values), slog.Int("line", p.Line))
	return slog.GroupValue(attrs...)
}

// ParseProperty parses a single logical line into a [Property].
//
// The line must already be unfolded. A trailing CRLF is allowed; anything after
// the first CRLF is ignored.
// On failure it returns a [*ParseError] wrapping one of [ErrReservedName], [ErrEmptyName],
// [ErrMalformedParam] or [ErrUnterminatedHeader].
//
// Example usage:
//
//	prop, err := vcard.ParseProperty("EMAIL;TYPE=INTERNET:hello.betty@gmail.com")
func ParseProperty[T ~string | ~[]byte](line T) (*Property, error) {
	s := string(line)
	if i := strings.Index(s, crlf); i >= 0 {
		s = s[:i]
	}
	prop, err := parseProperty(s)
	if err != nil {
		return nil, errtrace.Wrap(&ParseError{
			Err:   err,
			State: ParseStateProperties,
			Line:  1,
			Buf:   []byte(s),
		})
	}
	prop.Line = 1
	return &prop, nil
}

// parseProperty runs the per-line grammar: name, parameters, colon, values.
// Every delimiter search stops at the leftmost unescaped match.
func parseProperty(line string) (Property, error) {
	var prop Property

	i := indexUnescaped(line, ";:")
	name := line
	if i >= 0 {
		name = line[:i]
	}
	if group, n, ok := strings.Cut(name, "."); ok {
		if group == "" {
			return prop, ErrEmptyName
		}
		prop.Group, name = group, n
	}
	if util.EqFold(name, reservedName) {
		return prop, ErrReservedName
	}
	if i < 0 {
		return prop, ErrUnterminatedHeader
	}
	if name == "" {
		return prop, ErrEmptyName
	}
	prop.Name = name

	rest := line[i:]
	for rest[0] == ';' {
		rest = rest[1:]
		k := indexUnescaped(rest, "=;:")
		if k < 0 {
			return prop, ErrUnterminatedHeader
		}
		if k == 0 {
			return prop, ErrMalformedParam
		}
		prm := Param{Key: rest[:k]}
		if rest[k] == '=' {
			rest = rest[k+1:]
			v := indexParamValueEnd(rest)
			if v < 0 {
				return prop, ErrUnterminatedHeader
			}
			prm.Value, rest = rest[:v], rest[v:]
		} else {
			rest = rest[k:]
		}
		prop.Params = append(prop.Params, prm)
	}

	prop.Values = splitValues(rest[1:])
	return prop, nil
}

// indexUnescaped returns the index of the first byte of s that is one of delims
// and is not escaped by a backslash, or -1.
func indexUnescaped(s, delims string) int {
	for i := 0; i < len(s); i++ {
		switch c := s[i]; {
		case c == '\\':
			i++
		case strings.IndexByte(delims, c) >= 0:
			return i
		}
	}
	return -1
}

// indexParamValueEnd is like indexUnescaped(s, ";:") but skips over double-quoted spans.
func indexParamValueEnd(s string) int {
	var quoted bool
	for i := 0; i < len(s); i++ {
		switch c := s[i]; {
		case c == '\\':
			i++
		case c == '"':
			quoted = !quoted
		case !quoted && (c == ';' || c == ':'):
			return i
		}
	}
	return -1
}

func splitValues(s string) []string {
	vals := make([]string, 0, 1)
	for {
		i := indexUnescaped(s, ",")
		if i < 0 {
			return append(vals, s)
		}
		vals = append(vals, s[:i])
		s = s[i+1:]
	}
}
