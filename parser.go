package vcard

import (
	"log/slog"
	"strings"

	"braces.dev/errtrace"

	"github.com/ghettovoice/vcard/internal/log"
	"github.com/ghettovoice/vcard/internal/util"
)

const (
	crlf        = "\r\n"
	beginLine   = "BEGIN:VCARD" + crlf
	versionLine = "VERSION:3.0" + crlf
	endMarker   = "END:VCARD"
)

var defParser = &Parser{}

// Parse parses a single card from the unfolded text s using the default parser.
// See [Parser.Parse] for details.
//
// Example usage:
//
//	doc, err := vcard.Parse(vcard.Unfold(raw))
func Parse[T ~string | ~[]byte](s T) (*Document, error) {
	return errtrace.Wrap2(defParser.Parse(string(s)))
}

// Parser parses vCard 3.0 text.
//
// The zero value is ready to use. A Parser holds no parse state and is safe for concurrent use.
type Parser struct {
	// Logger is used for debug logging of parse results.
	// If nil, the [log.Default] is used.
	Logger *slog.Logger
}

func (p *Parser) log() *slog.Logger {
	if p == nil || p.Logger == nil {
		return log.Default()
	}
	return p.Logger
}

// Parse parses a single card from s.
//
// The text must already be unfolded with [Unfold] and use CRLF line terminators. It must hold
// BEGIN:VCARD, VERSION:3.0, one or more property lines and END:VCARD, each line terminated by CRLF.
// The envelope keywords are matched case-insensitively.
// Anything after the closing CRLF is ignored; use [Parser.ParseStream] for a sequence of cards.
//
// Parsing stops at the first error, no partial document is returned.
// The error is a [*ParseError] wrapping one of the package sentinel errors.
func (p *Parser) Parse(s string) (*Document, error) {
	doc, err := parseDocument(s)
	if err != nil {
		p.log().Debug("card parse failed", "error", err)
		return nil, errtrace.Wrap(err)
	}
	p.log().Debug("card parsed", "document", doc)
	return doc, nil
}

// cardScanner walks the unfolded text one logical line at a time.
type cardScanner struct {
	src  string
	pos  int
	line int
}

func (sc *cardScanner) rest() string { return sc.src[sc.pos:] }

// accept consumes lit if the remaining text starts with it, ignoring case.
func (sc *cardScanner) accept(lit string) bool {
	if !util.HasPrefixFold(sc.rest(), lit) {
		return false
	}
	sc.pos += len(lit)
	sc.line++
	return true
}

// next returns the next CRLF-terminated line without its terminator.
// If no CRLF is left, it returns the rest of the text and false.
func (sc *cardScanner) next() (string, bool) {
	rest := sc.rest()
	i := strings.Index(rest, crlf)
	if i < 0 {
		return rest, false
	}
	sc.pos += i + len(crlf)
	sc.line++
	return rest[:i], true
}

func newParseError(err error, state ParseState, line, offset int, buf string) *ParseError {
	return &ParseError{
		Err:    err,
		State:  state,
		Line:   line,
		Offset: offset,
		Buf:    []byte(buf),
	}
}

func (sc *cardScanner) firstLine() string {
	rest := sc.rest()
	if i := strings.Index(rest, crlf); i >= 0 {
		return rest[:i]
	}
	return rest
}

func parseDocument(src string) (*Document, error) {
	sc := &cardScanner{src: src}
	if !sc.accept(beginLine) {
		return nil, errtrace.Wrap(newParseError(ErrMissingBegin, ParseStateBegin, 1, 0, sc.firstLine()))
	}
	if !sc.accept(versionLine) {
		return nil, errtrace.Wrap(newParseError(ErrUnsupportedVersion, ParseStateVersion, 2, sc.pos, sc.firstLine()))
	}

	doc := &Document{src: src}
	for {
		off := sc.pos
		line, ok := sc.next()
		if !ok {
			if len(doc.Properties) == 0 && util.EqFold(line, endMarker) {
				return nil, errtrace.Wrap(newParseError(ErrEmptyPropertyList, ParseStateProperties, sc.line+1, off, line))
			}
			return nil, errtrace.Wrap(newParseError(ErrMissingEnd, ParseStateEnd, sc.line+1, off, line))
		}
		if util.EqFold(line, endMarker) {
			if len(doc.Properties) == 0 {
				return nil, errtrace.Wrap(newParseError(ErrEmptyPropertyList, ParseStateProperties, sc.line, off, line))
			}
			return doc, nil
		}

		prop, err := parseProperty(line)
		if err != nil {
			return nil, errtrace.Wrap(newParseError(err, ParseStateProperties, sc.line, off, line))
		}
		prop.Line, prop.Offset = sc.line, off
		doc.Properties = append(doc.Properties, prop)
	}
}
