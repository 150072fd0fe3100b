package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"braces.dev/errtrace"
	"github.com/spf13/cobra"

	"github.com/ghettovoice/vcard"
	"github.com/ghettovoice/vcard/card"
	"github.com/ghettovoice/vcard/internal/errorutil"
	"github.com/ghettovoice/vcard/internal/log"
)

type options struct {
	card    bool
	dev     bool
	verbose bool
}

func newRootCmd() *cobra.Command {
	var opts options

	cmd := &cobra.Command{
		Use:           "vcfdump [file]",
		Short:         "Print the properties of vCard 3.0 files",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := run(cmd, args, &opts)
			if err != nil {
				fmt.Fprintln(cmd.ErrOrStderr(), err)
			}
			return err
		},
	}

	flags := cmd.Flags()
	flags.BoolVar(&opts.card, "card", false, "print the contact view instead of raw properties")
	flags.BoolVar(&opts.dev, "dev", false, "use the developer log format")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logging")

	return cmd
}

func run(cmd *cobra.Command, args []string, opts *options) error {
	lvl := slog.LevelWarn
	if opts.verbose {
		lvl = slog.LevelDebug
	}
	logger := log.New(cmd.ErrOrStderr(), lvl, opts.dev)

	in, closeIn, err := openInput(cmd, args)
	if err != nil {
		return errtrace.Wrap(err)
	}
	defer closeIn()
	logger.Debug("reading cards", "input", in)

	prs := &vcard.Parser{Logger: logger}
	out := cmd.OutOrStdout()

	var errs []error
	num := 0
	for doc, err := range prs.ParseStream(in).Documents() {
		num++
		if err != nil {
			errs = append(errs, fmt.Errorf("card %d: %w", num, err))
			var perr *vcard.ParseError
			if errors.As(err, &perr) && perr.Grammar() {
				continue
			}
			break
		}

		if opts.card {
			c, err := card.FromDocument(doc)
			if err != nil {
				errs = append(errs, fmt.Errorf("card %d: %w", num, err))
				continue
			}
			_, err = renderCard(out, num, c)
			if err != nil {
				return errtrace.Wrap(err)
			}
			continue
		}
		if _, err := renderDocument(out, num, doc); err != nil {
			return errtrace.Wrap(err)
		}
	}
	logger.Debug("cards processed", "total", num, "failed", len(errs))

	return errtrace.Wrap(errorutil.JoinPrefix("vcfdump:", errs...))
}

// openInput returns the reader named by args; stdin when args is empty or "-".
func openInput(cmd *cobra.Command, args []string) (io.Reader, func(), error) {
	if len(args) == 0 || args[0] == "-" {
		return cmd.InOrStdin(), func() {}, nil
	}
	f, err := os.Open(args[0])
	if err != nil {
		return nil, nil, errtrace.Wrap(err)
	}
	return f, func() { f.Close() }, nil
}
