package vcard

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"iter"
	"log/slog"

	"braces.dev/errtrace"

	"github.com/ghettovoice/vcard/internal/util"
)

// ParseStream creates a new [StreamParser] for parsing cards from r using the default parser.
// See [Parser.ParseStream] for details.
func ParseStream(r io.Reader) *StreamParser { return defParser.ParseStream(r) }

// ParseStream creates a new [StreamParser] for parsing a sequence of cards from r.
// The returned parser logs with the same logger as p.
func (p *Parser) ParseStream(r io.Reader) *StreamParser {
	return &StreamParser{rdr: r, prs: p}
}

// StreamParser parses a stream of cards.
//
// It can be initialized using [Parser.ParseStream] or [ParseStream].
type StreamParser struct {
	rdr io.Reader
	prs *Parser
}

// Documents returns an iterator that yields each parsed [Document] and an error, if any.
//
// The stream is split into cards on physical END:VCARD lines; blank lines between cards
// are skipped. Each card is unfolded with [Unfold] and parsed with [Parser.Parse].
// A card that fails to parse yields nil and its [*ParseError], then the iterator moves on to the next card.
// A read failure yields nil and a [*ParseError] wrapping the reader error and ends the iteration;
// an [io.EOF] in the middle of a card is replaced with [io.ErrUnexpectedEOF].
//
// The iterator is closed when the consumer breaks the loop.
//
// Example:
//
//	for doc, err := range vcard.ParseStream(r).Documents() {
//		if err != nil {
//			var perr *vcard.ParseError
//			if errors.As(err, &perr) && perr.Grammar() {
//				// bad card, decide to break or continue
//				continue
//			}
//			break
//		}
//		// doc is a complete card
//	}
func (sp *StreamParser) Documents() iter.Seq2[*Document, error] {
	return func(yield func(*Document, error) bool) {
		br := util.GetBufReader(sp.rdr)
		defer util.FreeBufReader(br)
		buf := util.GetBytesBuffer()
		defer util.FreeBytesBuffer(buf)

		log := sp.prs.log()
		for num := 1; ; num++ {
			buf.Reset()
			err := readCard(br, buf)
			if errors.Is(err, io.EOF) {
				return
			}
			if err != nil {
				log.Debug("card read failed", "card", num, "error", err)
				yield(nil, errtrace.Wrap(&ParseError{Err: err, State: ParseStateProperties}))
				return
			}

			doc, err := sp.prs.Parse(Unfold(buf.String()))
			if err != nil {
				log.Debug("card skipped", "card", num, slog.Any("error", err))
			}
			if !yield(doc, errtrace.Wrap(err)) {
				return
			}
		}
	}
}

// readCard copies the physical lines of the next card into buf, through its END:VCARD line.
// It returns io.EOF when the stream ends before a card starts,
// and io.ErrUnexpectedEOF when it ends inside a card.
func readCard(br *bufio.Reader, buf *bytes.Buffer) error {
	for {
		start := buf.Len()
		if err := readLine(br, buf); err != nil {
			if !errors.Is(err, io.EOF) {
				return errtrace.Wrap(err)
			}
			if isBlank(buf.Bytes()) {
				return errtrace.Wrap(io.EOF)
			}
			if isEndLine(buf.Bytes()[start:]) {
				// last card without the closing CRLF, let the parser report it
				return nil
			}
			return errtrace.Wrap(io.ErrUnexpectedEOF)
		}

		line := buf.Bytes()[start:]
		switch {
		case start == 0 && isBlank(line):
			buf.Reset()
		case isEndLine(line):
			return nil
		}
	}
}

// readLine appends the next physical line, including its LF, to buf.
// The error is io.EOF when the stream ends, whether or not a partial line was read.
func readLine(br *bufio.Reader, buf *bytes.Buffer) error {
	for {
		chunk, err := br.ReadSlice('\n')
		buf.Write(chunk)
		if errors.Is(err, bufio.ErrBufferFull) {
			continue
		}
		return errtrace.Wrap(err)
	}
}

func isBlank(b []byte) bool { return len(bytes.TrimRight(b, "\r\n")) == 0 }

func isEndLine(b []byte) bool {
	return bytes.EqualFold(bytes.TrimRight(b, "\r\n"), []byte(endMarker))
}
