// Package log provides logging utilities.
package log

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/golang-cz/devslog"
	"github.com/phsym/console-slog"
	slogformatter "github.com/samber/slog-formatter"
)

var newHandler = slogformatter.NewFormatterHandler(
	slogformatter.ErrorFormatter("error"),
	slogformatter.FormatByType(func(f *os.File) slog.Value {
		return slog.GroupValue(
			slog.String("type", fmt.Sprintf("%T", f)),
			slog.String("name", f.Name()),
		)
	}),
)

// New returns a logger writing to w.
// The dev flag selects the verbose developer handler instead of the console one.
func New(w io.Writer, lvl slog.Leveler, dev bool) *slog.Logger {
	if dev {
		return slog.New(newHandler(
			devslog.NewHandler(w, &devslog.Options{
				HandlerOptions: &slog.HandlerOptions{
					AddSource: true,
					Level:     lvl,
				},
				SortKeys:   true,
				TimeFormat: time.RFC3339Nano,
			}),
		))
	}
	return slog.New(newHandler(
		console.NewHandler(w, &console.HandlerOptions{
			Level:      lvl,
			TimeFormat: time.RFC3339,
		}),
	))
}

// Default returns the process-wide [slog.Default] logger.
func Default() *slog.Logger { return slog.Default() }

type noopHandler struct{}

func (noopHandler) Enabled(context.Context, slog.Level) bool { return false }

func (noopHandler) Handle(context.Context, slog.Record) error { return nil }

func (h noopHandler) WithAttrs([]slog.Attr) slog.Handler { return h }

func (h noopHandler) WithGroup(string) slog.Handler { return h }

// Noop is a noop logger.
var Noop = slog.New(noopHandler{})

type stringValue[T ~string | ~[]byte] struct {
	v T
}

func (v stringValue[T]) LogValue() slog.Value {
	return slog.StringValue(string(v.v))
}

// StringValue returns a value logger that formats v as string.
func StringValue[T ~string | ~[]byte](v T) slog.LogValuer { return stringValue[T]{v} }
