package vcard

import (
	"fmt"
	"log/slog"

	"github.com/ghettovoice/vcard/internal/errorutil"
	"github.com/ghettovoice/vcard/internal/log"
	"github.com/ghettovoice/vcard/internal/util"
)

// Error is a vCard grammar error.
// See [errorutil.GrammarError].
type Error = errorutil.GrammarError

// Envelope errors.
const (
	ErrMissingBegin       Error = "missing BEGIN:VCARD"
	ErrUnsupportedVersion Error = "unsupported or missing version"
	ErrEmptyPropertyList  Error = "empty property list"
	ErrMissingEnd         Error = "missing END:VCARD"
)

// Property line errors.
const (
	ErrReservedName       Error = "reserved property name"
	ErrEmptyName          Error = "empty property name"
	ErrMalformedParam     Error = "malformed property parameter"
	ErrUnterminatedHeader Error = "unterminated property header"
)

// ParseState is the stage of the card grammar at which parsing stopped.
type ParseState int

const (
	ParseStateBegin      ParseState = iota // parsing BEGIN:VCARD line
	ParseStateVersion                      // parsing VERSION line
	ParseStateProperties                   // parsing property lines
	ParseStateEnd                          // parsing END:VCARD line
)

func (s ParseState) String() string {
	switch s {
	case ParseStateBegin:
		return "begin"
	case ParseStateVersion:
		return "version"
	case ParseStateProperties:
		return "properties"
	case ParseStateEnd:
		return "end"
	default:
		return fmt.Sprintf("ParseState(%d)", int(s))
	}
}

// ParseError represents an error that occurred during parsing.
//
// It contains the error that occurred, the parsing state, the position of the offending
// logical line and the line bytes.
// Line is 1-based, Offset is the byte offset of the line start in the unfolded text.
// Line is zero when the error is not tied to a line, e.g. a read failure in [StreamParser].
type ParseError struct {
	Err    error
	State  ParseState
	Line   int
	Offset int
	Buf    []byte
}

func (err *ParseError) Error() string {
	if err == nil {
		return "<nil>"
	}
	if err.Line > 0 {
		return fmt.Sprintf("line %d: %v", err.Line, err.Err)
	}
	return fmt.Sprintf("parse error: %v", err.Err)
}

func (err *ParseError) Unwrap() error { return err.Err }

func (err *ParseError) Grammar() bool { return errorutil.IsGrammarErr(err.Err) }

func (err *ParseError) Timeout() bool { return errorutil.IsTimeoutErr(err.Err) }

func (err *ParseError) Temporary() bool { return errorutil.IsTemporaryErr(err.Err) }

// LogValue implements [slog.LogValuer].
func (err *ParseError) LogValue() slog.Value {
	if err == nil {
		return slog.Value{}
	}
	return slog.GroupValue(
		slog.Any("error", err.Err),
		slog.String("state", err.State.String()),
		slog.Int("line", err.Line),
		slog.Int("offset", err.Offset),
		slog.Any("buf", log.StringValue(util.Ellipsis(string(err.Buf), 64))),
	)
}
