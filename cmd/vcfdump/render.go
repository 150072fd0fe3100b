package main

import (
	"io"
	"strings"

	"braces.dev/errtrace"

	"github.com/ghettovoice/vcard"
	"github.com/ghettovoice/vcard/card"
	"github.com/ghettovoice/vcard/internal/ioutil"
)

// renderDocument writes one line per property:
//
//	[group.]NAME [KEY=VALUE ...]: value | value
func renderDocument(w io.Writer, num int, doc *vcard.Document) (int, error) {
	cw := ioutil.GetCountingWriter(w)
	defer ioutil.FreeCountingWriter(cw)

	cw.Fprintf("-- card %d --\n", num)
	for p := range doc.All() {
		cw.Call(func(w io.Writer) (int, error) { return renderProperty(w, p) })
	}
	return errtrace.Wrap2(cw.Result())
}

func renderProperty(w io.Writer, p *vcard.Property) (int, error) {
	cw := ioutil.GetCountingWriter(w)
	defer ioutil.FreeCountingWriter(cw)

	if p.Group != "" {
		cw.Fprint(p.Group, ".")
	}
	cw.Fprint(p.Name)
	if len(p.Params) > 0 {
		cw.Fprint(" [")
		for i, prm := range p.Params {
			if i > 0 {
				cw.Fprint(" ")
			}
			cw.Fprint(prm.Key)
			if prm.Value != "" {
				cw.Fprint("=", prm.Value)
			}
		}
		cw.Fprint("]")
	}
	cw.Fprint(": ", strings.Join(p.Values, " | "), "\n")
	return errtrace.Wrap2(cw.Result())
}

func renderCard(w io.Writer, num int, c *card.Card) (int, error) {
	cw := ioutil.GetCountingWriter(w)
	defer ioutil.FreeCountingWriter(cw)

	cw.Fprintf("-- card %d --\n", num)
	cw.Fprintf("Full name: %s\n", c.FullName)
	if c.Name != (card.Name{}) {
		cw.Fprintf("Name: family=%q given=%q additional=%q prefix=%q suffix=%q\n",
			c.Name.Family, c.Name.Given, c.Name.Additional, c.Name.Prefix, c.Name.Suffix)
	}
	for _, name := range []string{"EMAIL", "TEL"} {
		for _, v := range c.Values(name) {
			cw.Fprintf("%s: %s\n", name, v)
		}
	}
	for _, p := range c.Get("NOTE") {
		cw.Fprintf("NOTE: %s\n", card.Text(p))
	}
	return errtrace.Wrap2(cw.Result())
}
