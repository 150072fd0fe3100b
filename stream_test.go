package vcard_test

import (
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"go.uber.org/mock/gomock"

	"github.com/ghettovoice/vcard"
	"github.com/ghettovoice/vcard/internal/log"
	"github.com/ghettovoice/vcard/internal/testutil/iomock"
)

type streamResult struct {
	Names []string
	Err   error
}

func collect(sp *vcard.StreamParser) []streamResult {
	var res []streamResult
	for doc, err := range sp.Documents() {
		var r streamResult
		if err != nil {
			r.Err = err
		} else {
			for p := range doc.All() {
				r.Names = append(r.Names, p.Name)
			}
		}
		res = append(res, r)
	}
	return res
}

func TestParseStream(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		in   string
		want []streamResult
	}{
		{"empty", "", nil},
		{"blank lines only", "\r\n\r\n", nil},
		{
			"single",
			card("BEGIN:VCARD", "VERSION:3.0", "FN:a", "END:VCARD"),
			[]streamResult{{Names: []string{"FN"}}},
		},
		{
			"several with blank lines",
			"\r\n" + card("BEGIN:VCARD", "VERSION:3.0", "FN:a", "END:VCARD") +
				"\r\n\r\n" + card("begin:vcard", "version:3.0", "FN:b", "NOTE:x", " y", "end:vcard"),
			[]streamResult{{Names: []string{"FN"}}, {Names: []string{"FN", "NOTE"}}},
		},
		{
			"bad card in the middle",
			card("BEGIN:VCARD", "VERSION:3.0", "FN:a", "END:VCARD") +
				card("BEGIN:VCARD", "VERSION:2.1", "FN:b", "END:VCARD") +
				card("BEGIN:VCARD", "VERSION:3.0", "FN:c", "END:VCARD"),
			[]streamResult{
				{Names: []string{"FN"}},
				{Err: vcard.ErrUnsupportedVersion},
				{Names: []string{"FN"}},
			},
		},
		{
			"last card without final crlf",
			card("BEGIN:VCARD", "VERSION:3.0", "FN:a") + "END:VCARD",
			[]streamResult{{Err: vcard.ErrMissingEnd}},
		},
		{
			"truncated card",
			card("BEGIN:VCARD", "VERSION:3.0", "FN:a"),
			[]streamResult{{Err: io.ErrUnexpectedEOF}},
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()

			got := collect(vcard.ParseStream(strings.NewReader(c.in)))
			if diff := cmp.Diff(got, c.want, cmpopts.EquateErrors()); diff != "" {
				t.Errorf("collect(vcard.ParseStream(r)) = %+v, want %+v\ndiff (-got +want):\n%v", got, c.want, diff)
			}
		})
	}
}

func TestParseStream_Break(t *testing.T) {
	t.Parallel()

	in := strings.Repeat(card("BEGIN:VCARD", "VERSION:3.0", "FN:a", "END:VCARD"), 3)
	var n int
	for _, err := range vcard.ParseStream(strings.NewReader(in)).Documents() {
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		n++
		break
	}
	if n != 1 {
		t.Errorf("iterations = %d, want 1", n)
	}
}

func TestParseStream_ReadError(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	errRead := errors.New("read failed")
	data := card("BEGIN:VCARD", "VERSION:3.0", "FN:a", "END:VCARD") + "BEGIN:VCARD\r\n"

	rdr := iomock.NewMockReader(ctrl)
	gomock.InOrder(
		rdr.EXPECT().
			Read(gomock.Any()).
			DoAndReturn(func(p []byte) (int, error) { return copy(p, data), nil }).
			Times(1),
		rdr.EXPECT().
			Read(gomock.Any()).
			Return(0, errRead).
			Times(1),
	)

	p := &vcard.Parser{Logger: log.Noop}
	got := collect(p.ParseStream(rdr))
	want := []streamResult{{Names: []string{"FN"}}, {Err: errRead}}
	if diff := cmp.Diff(got, want, cmpopts.EquateErrors()); diff != "" {
		t.Fatalf("collect(p.ParseStream(rdr)) = %+v, want %+v\ndiff (-got +want):\n%v", got, want, diff)
	}

	var perr *vcard.ParseError
	if !errors.As(got[1].Err, &perr) {
		t.Fatalf("read error = %v, want *vcard.ParseError", got[1].Err)
	}
	if perr.Grammar() {
		t.Errorf("perr.Grammar() = true, want false")
	}
	if perr.Line != 0 {
		t.Errorf("perr.Line = %d, want 0", perr.Line)
	}
}

func TestParseStream_LongLine(t *testing.T) {
	t.Parallel()

	photo := strings.Repeat("A", 10000)
	in := card("BEGIN:VCARD", "VERSION:3.0", "PHOTO;ENCODING=b:"+photo, "END:VCARD")
	var docs int
	for doc, err := range vcard.ParseStream(strings.NewReader(in)).Documents() {
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		docs++
		if got := doc.Properties[0].Value(); got != photo {
			t.Errorf("len(photo value) = %d, want %d", len(got), len(photo))
		}
	}
	if docs != 1 {
		t.Errorf("documents = %d, want 1", docs)
	}
}
