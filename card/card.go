// Package card interprets parsed vCard documents as contacts.
//
// The vcard package reports every value region split on commas because it does not know
// property cardinality. This package is the layer that does: it recombines free-text
// properties, splits structured ones on semicolons and removes escapes.
package card

//go:generate errtrace -w .

import (
	"log/slog"
	"strings"

	"braces.dev/errtrace"

	"github.com/ghettovoice/vcard"
	"github.com/ghettovoice/vcard/internal/errorutil"
	"github.com/ghettovoice/vcard/internal/util"
)

// Error represents a card error.
// See [errorutil.Error].
type Error = errorutil.Error

const (
	ErrInvalidArgument = errorutil.ErrInvalidArgument
	// ErrMissingFullName is returned when a document has no FN property.
	ErrMissingFullName Error = "missing FN property"
)

// Name is the structured name from the N property.
type Name struct {
	Family     string
	Given      string
	Additional string
	Prefix     string
	Suffix     string
}

// Card is a contact built from a parsed document.
type Card struct {
	FullName   string
	Name       Name
	Properties []vcard.Property
}

// FromDocument builds a [Card] from doc.
// FN is required, N is optional. Properties holds every property of doc, FN and N included.
func FromDocument(doc *vcard.Document) (*Card, error) {
	if doc == nil {
		return nil, errtrace.Wrap(errorutil.NewInvalidArgumentError("nil document"))
	}
	fn, ok := doc.First("FN")
	if !ok {
		return nil, errtrace.Wrap(ErrMissingFullName)
	}
	c := &Card{
		FullName:   Text(fn),
		Properties: doc.Properties,
	}
	if n, ok := doc.First("N"); ok {
		c.Name = ParseName(raw(n))
	}
	return c, nil
}

// Get returns the card properties with the given name, ignoring case.
func (c *Card) Get(name string) []*vcard.Property {
	if c == nil {
		return nil
	}
	var props []*vcard.Property
	for i := range c.Properties {
		if c.Properties[i].Is(name) {
			props = append(props, &c.Properties[i])
		}
	}
	return props
}

// Values returns the unescaped list values of all properties with the given name.
// It suits multi-valued properties such as EMAIL, TEL or CATEGORIES.
func (c *Card) Values(name string) []string {
	var vals []string
	for _, p := range c.Get(name) {
		vals = append(vals, List(p)...)
	}
	return vals
}

// LogValue implements [slog.LogValuer].
func (c *Card) LogValue() slog.Value {
	if c == nil {
		return slog.Value{}
	}
	return slog.GroupValue(
		slog.String("full_name", c.FullName),
		slog.String("family", c.Name.Family),
		slog.String("given", c.Name.Given),
		slog.Int("properties", len(c.Properties)),
	)
}

// ParseName splits a raw N value into its components.
// Missing trailing components are left empty, extra ones are ignored.
func ParseName(s string) Name {
	parts := splitUnescaped(s, ';')
	for len(parts) < 5 {
		parts = append(parts, "")
	}
	return Name{
		Family:     Unescape(parts[0]),
		Given:      Unescape(parts[1]),
		Additional: Unescape(parts[2]),
		Prefix:     Unescape(parts[3]),
		Suffix:     Unescape(parts[4]),
	}
}

// Text returns the value of a free-text property: the fragments joined back with commas and unescaped.
func Text(p *vcard.Property) string {
	if p == nil {
		return ""
	}
	return Unescape(raw(p))
}

// List returns the unescaped value fragments of a list property.
func List(p *vcard.Property) []string {
	if p == nil {
		return nil
	}
	vals := make([]string, len(p.Values))
	for i, v := range p.Values {
		vals[i] = Unescape(v)
	}
	return vals
}

// raw returns the value region as written, before the comma split.
func raw(p *vcard.Property) string { return strings.Join(p.Values, ",") }

// Unescape resolves vCard text escapes: \\, \, \; \: and \n or \N for a newline.
// An unknown escape keeps the escaped byte, a trailing backslash is kept as is.
func Unescape(s string) string {
	if strings.IndexByte(s, '\\') < 0 {
		return s
	}

	sb := util.GetStringBuilder()
	defer util.FreeStringBuilder(sb)

	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' || i+1 == len(s) {
			sb.WriteByte(c)
			continue
		}
		i++
		switch s[i] {
		case 'n', 'N':
			sb.WriteByte('\n')
		default:
			sb.WriteByte(s[i])
		}
	}
	return sb.String()
}

func splitUnescaped(s string, sep byte) []string {
	var parts []string
	start := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\\':
			i++
		case sep:
			parts = append(parts, s[start:i])
			start = i + 1
		}
	}
	return append(parts, s[start:])
}
