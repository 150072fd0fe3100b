package vcard

import (
	"iter"
	"log/slog"
)

// Document is a parsed card: the properties found between the VERSION line and END:VCARD,
// in input order. The envelope lines are validated but not included.
type Document struct {
	Properties []Property

	src string
}

// Len returns the number of properties.
func (doc *Document) Len() int {
	if doc == nil {
		return 0
	}
	return len(doc.Properties)
}

// All returns an iterator over the properties in input order.
func (doc *Document) All() iter.Seq[*Property] {
	return func(yield func(*Property) bool) {
		if doc == nil {
			return
		}
		for i := range doc.Properties {
			if !yield(&doc.Properties[i]) {
				return
			}
		}
	}
}

// Get returns all properties with the given name, ignoring case.
func (doc *Document) Get(name string) []*Property {
	var props []*Property
	for p := range doc.All() {
		if p.Is(name) {
			props = append(props, p)
		}
	}
	return props
}

// First returns the first property with the given name, ignoring case.
func (doc *Document) First(name string) (*Property, bool) {
	for p := range doc.All() {
		if p.Is(name) {
			return p, true
		}
	}
	return nil, false
}

// Source returns the unfolded text the properties were sliced from.
func (doc *Document) Source() string {
	if doc == nil {
		return ""
	}
	return doc.src
}

// LogValue implements [slog.LogValuer].
func (doc *Document) LogValue() slog.Value {
	if doc == nil {
		return slog.Value{}
	}
	names := make([]string, 0, len(doc.Properties))
	for i := range doc.Properties {
		names = append(names, doc.Properties[i].Name)
	}
	return slog.GroupValue(
		slog.Int("len", len(doc.Properties)),
		slog.Any("names", names),
	)
}
