package vcard_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/ghettovoice/vcard"
)

// card joins lines with CRLF and terminates the last one.
func card(lines ...string) string {
	return strings.Join(lines, "\r\n") + "\r\n"
}

func TestParse(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name      string
		src       any
		wantProps []vcard.Property
		wantErr   error
	}{
		{"empty string", "", nil, vcard.ErrMissingBegin},
		{"empty bytes", []byte{}, nil, vcard.ErrMissingBegin},
		{"trash", "qwerty", nil, vcard.ErrMissingBegin},
		{"missing begin", card("VERSION:3.0", "FN:x", "END:VCARD"), nil, vcard.ErrMissingBegin},
		{"begin without crlf", "BEGIN:VCARD", nil, vcard.ErrMissingBegin},
		{"lf terminators", "BEGIN:VCARD\nVERSION:3.0\nFN:x\nEND:VCARD\n", nil, vcard.ErrMissingBegin},
		{"missing version", card("BEGIN:VCARD", "FN:x", "END:VCARD"), nil, vcard.ErrUnsupportedVersion},
		{"version 2.1", card("BEGIN:VCARD", "VERSION:2.1", "FN:x", "END:VCARD"), nil, vcard.ErrUnsupportedVersion},
		{"version 4.0", card("BEGIN:VCARD", "VERSION:4.0", "FN:x", "END:VCARD"), nil, vcard.ErrUnsupportedVersion},
		{"empty body", card("BEGIN:VCARD", "VERSION:3.0", "END:VCARD"), nil, vcard.ErrEmptyPropertyList},
		{"empty body without final crlf", "BEGIN:VCARD\r\nVERSION:3.0\r\nEND:VCARD", nil, vcard.ErrEmptyPropertyList},
		{"missing end", card("BEGIN:VCARD", "VERSION:3.0", "FN:x"), nil, vcard.ErrMissingEnd},
		{"end without final crlf", "BEGIN:VCARD\r\nVERSION:3.0\r\nFN:x\r\nEND:VCARD", nil, vcard.ErrMissingEnd},
		{"only envelope head", card("BEGIN:VCARD", "VERSION:3.0"), nil, vcard.ErrMissingEnd},
		{"reserved name", card("BEGIN:VCARD", "VERSION:3.0", "FN:x", "END:FOO", "END:VCARD"), nil, vcard.ErrReservedName},
		{"unterminated header", card("BEGIN:VCARD", "VERSION:3.0", "FN;TYPE=x", "END:VCARD"), nil, vcard.ErrUnterminatedHeader},
		{"blank property line", card("BEGIN:VCARD", "VERSION:3.0", "FN:x", "", "END:VCARD"), nil, vcard.ErrUnterminatedHeader},
		{"empty name", card("BEGIN:VCARD", "VERSION:3.0", ":x", "END:VCARD"), nil, vcard.ErrEmptyName},
		{"malformed param", card("BEGIN:VCARD", "VERSION:3.0", "TEL;=x:1", "END:VCARD"), nil, vcard.ErrMalformedParam},

		{
			"betty",
			card(
				"BEGIN:VCARD",
				"VERSION:3.0",
				"FN:Hello Betty",
				"EMAIL;TYPE=INTERNET:hello.betty@gmail.com",
				"END:VCARD",
			),
			[]vcard.Property{
				{Name: "FN", Values: []string{"Hello Betty"}, Line: 3, Offset: 26},
				{
					Name:   "EMAIL",
					Params: []vcard.Param{{"TYPE", "INTERNET"}},
					Values: []string{"hello.betty@gmail.com"},
					Line:   4,
					Offset: 42,
				},
			},
			nil,
		},
		{
			"case insensitive envelope",
			[]byte(card("begin:vcard", "Version:3.0", "fn:test", "End:VCard")),
			[]vcard.Property{{Name: "fn", Values: []string{"test"}, Line: 3, Offset: 26}},
			nil,
		},
		{
			"trailing data ignored",
			card("BEGIN:VCARD", "VERSION:3.0", "FN:x", "END:VCARD", "BEGIN:VCARD"),
			[]vcard.Property{{Name: "FN", Values: []string{"x"}, Line: 3, Offset: 26}},
			nil,
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()

			var (
				doc *vcard.Document
				err error
			)
			switch src := c.src.(type) {
			case string:
				doc, err = vcard.Parse(src)
			case []byte:
				doc, err = vcard.Parse(src)
			}
			if diff := cmp.Diff(err, c.wantErr, cmpopts.EquateErrors()); diff != "" {
				t.Fatalf("vcard.Parse(src) error = %v, want %v\ndiff (-got +want):\n%v", err, c.wantErr, diff)
			}
			if c.wantErr != nil {
				if doc != nil {
					t.Errorf("vcard.Parse(src) = %+v, want nil", doc)
				}
				return
			}
			if diff := cmp.Diff(doc.Properties, c.wantProps); diff != "" {
				t.Errorf("vcard.Parse(src) properties = %+v, want %+v\ndiff (-got +want):\n%v",
					doc.Properties, c.wantProps, diff)
			}
		})
	}
}

func TestParse_ErrorPosition(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name      string
		src       string
		wantState vcard.ParseState
		wantLine  int
		wantBuf   string
		wantMsg   string
	}{
		{
			"empty input",
			"",
			vcard.ParseStateBegin, 1, "",
			"line 1: missing BEGIN:VCARD",
		},
		{
			"missing begin",
			card("BEGN:VCARD", "VERSION:3.0"),
			vcard.ParseStateBegin, 1, "BEGN:VCARD",
			"line 1: missing BEGIN:VCARD",
		},
		{
			"bad version",
			card("BEGIN:VCARD", "VERSION:2.1"),
			vcard.ParseStateVersion, 2, "VERSION:2.1",
			"line 2: unsupported or missing version",
		},
		{
			"unterminated header",
			card("BEGIN:VCARD", "VERSION:3.0", "FN:a", "N:b", "NOTE", "END:VCARD"),
			vcard.ParseStateProperties, 5, "NOTE",
			"line 5: unterminated property header",
		},
		{
			"folded line counts once",
			vcard.Unfold(card("BEGIN:VCARD", "VERSION:3.0", "NOTE:a", " b", "end;x=y:z", "END:VCARD")),
			vcard.ParseStateProperties, 4, "end;x=y:z",
			"line 4: reserved property name",
		},
		{
			"missing end",
			card("BEGIN:VCARD", "VERSION:3.0", "FN:a") + "END:VCAR",
			vcard.ParseStateEnd, 4, "END:VCAR",
			"line 4: missing END:VCARD",
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()

			_, err := vcard.Parse(c.src)
			var perr *vcard.ParseError
			if !errors.As(err, &perr) {
				t.Fatalf("vcard.Parse(src) error = %v, want *vcard.ParseError", err)
			}
			if perr.State != c.wantState {
				t.Errorf("perr.State = %v, want %v", perr.State, c.wantState)
			}
			if perr.Line != c.wantLine {
				t.Errorf("perr.Line = %d, want %d", perr.Line, c.wantLine)
			}
			if got := string(perr.Buf); got != c.wantBuf {
				t.Errorf("perr.Buf = %q, want %q", got, c.wantBuf)
			}
			if got := perr.Error(); got != c.wantMsg {
				t.Errorf("perr.Error() = %q, want %q", got, c.wantMsg)
			}
			if !strings.HasPrefix(c.src[perr.Offset:], c.wantBuf) {
				t.Errorf("src[perr.Offset:] = %q, want prefix %q", c.src[perr.Offset:], c.wantBuf)
			}
			if !perr.Grammar() {
				t.Errorf("perr.Grammar() = false, want true")
			}
		})
	}
}

func TestParse_RecordCount(t *testing.T) {
	t.Parallel()

	raw := card(
		"BEGIN:VCARD",
		"VERSION:3.0",
		"FN:Hello Betty",
		"N:Hello;Betty;;;",
		"EMAIL;TYPE=INTERNET:hello.betty@gmail.com",
		"TEL;TYPE=CELL:+91 12342 12332",
		"TEL;TYPE=CELL:+1 (123) 112-123",
		"ROLE:Application Engineer",
		"NOTE:Gender: Male",
		"PHOTO:https://lh3.googleusercontent.com/contacts/AOq4LdZ2EOkQkPc_KK2CyLAkx1",
		" 8rcOgp0FYDG3f9_omOYadasd",
		"CATEGORIES:myContacts",
		"END:VCARD",
	)
	src := vcard.Unfold(raw)

	lines := strings.Split(strings.TrimSuffix(src, "\r\n"), "\r\n")
	want := len(lines) - 3 // BEGIN, VERSION and END

	doc, err := vcard.Parse(src)
	if err != nil {
		t.Fatalf("vcard.Parse(src) error = %v, want nil", err)
	}
	if got := doc.Len(); got != want {
		t.Errorf("doc.Len() = %d, want %d", got, want)
	}
	for i, p := range doc.Properties {
		if got := lines[i+2]; !strings.HasPrefix(got, p.Name) {
			t.Errorf("doc.Properties[%d].Name = %q, want prefix of line %q", i, p.Name, got)
		}
	}
	if doc.Source() != src {
		t.Errorf("doc.Source() = %q, want %q", doc.Source(), src)
	}

	photo, ok := doc.First("photo")
	if !ok {
		t.Fatal("doc.First(\"photo\") not found")
	}
	if got, want := photo.Value(),
		"https://lh3.googleusercontent.com/contacts/AOq4LdZ2EOkQkPc_KK2CyLAkx18rcOgp0FYDG3f9_omOYadasd"; got != want {
		t.Errorf("photo.Value() = %q, want %q", got, want)
	}
	note, _ := doc.First("NOTE")
	if diff := cmp.Diff(note.Values, []string{"Gender: Male"}); diff != "" {
		t.Errorf("note.Values = %q, want %q\ndiff (-got +want):\n%v", note.Values, []string{"Gender: Male"}, diff)
	}
	if got := len(doc.Get("tel")); got != 2 {
		t.Errorf("len(doc.Get(\"tel\")) = %d, want 2", got)
	}
}

func TestParser_Parse(t *testing.T) {
	t.Parallel()

	var p *vcard.Parser
	doc, err := p.Parse(card("BEGIN:VCARD", "VERSION:3.0", "FN:x", "END:VCARD"))
	if err != nil {
		t.Fatalf("p.Parse(src) error = %v, want nil", err)
	}
	if got := doc.Len(); got != 1 {
		t.Errorf("doc.Len() = %d, want 1", got)
	}
}
