// Package vcard decodes vCard 3.0 text (RFC 2426) into ordered property records.
//
// Decoding runs in two passes. [Unfold] reverses line folding, turning physical lines into
// logical lines. [Parse] then validates the card envelope and parses every logical line:
//
//	doc, err := vcard.Parse(vcard.Unfold(raw))
//	if err != nil {
//		var perr *vcard.ParseError
//		if errors.As(err, &perr) {
//			fmt.Printf("line %d: %v\n", perr.Line, perr.Err)
//		}
//		return err
//	}
//	for prop := range doc.All() {
//		fmt.Println(prop.Name, prop.Params, prop.Values)
//	}
//
// # Grammar
//
// A card is
//
//	BEGIN:VCARD CRLF
//	VERSION:3.0 CRLF
//	1*(property CRLF)
//	END:VCARD CRLF
//
// and a property line is
//
//	[group "."] name *(";" key ["=" value]) ":" value *("," value)
//
// Envelope keywords are matched case-insensitively, and only version 3.0 is accepted.
// Delimiter search is leftmost: the name ends at the first unescaped ";" or ":", a parameter
// value at the next unescaped ";" or ":" outside double quotes. A backslash escapes the next byte.
//
// # Values
//
// The value region is always split on unescaped commas, so "NOTE:a,b" yields two values.
// The parser does not know property cardinality: free-text properties must be recombined
// by the caller, see the card package.
//
// # Errors
//
// Parsing fails fast. Errors are [*ParseError] values that wrap one of the sentinel errors
// ([ErrMissingBegin], [ErrUnsupportedVersion], [ErrReservedName], [ErrUnterminatedHeader],
// [ErrEmptyPropertyList], [ErrMissingEnd], ...) and carry the logical line number and byte offset.
//
// # Memory
//
// Property strings are substrings of the unfolded text, available through [Document.Source].
// No copies are made per field and the text stays reachable while any property is.
//
// # Streams
//
// [ParseStream] splits a reader into cards and yields one [Document] per card.
package vcard
