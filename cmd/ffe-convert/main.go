// Command ffe-convert turns a federation export into the text result files
// without running the server. Platform results are merged when meeting
// credentials are given.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	service "github.com/okian/ffebridge/internal/app"
	"github.com/okian/ffebridge/internal/auth"
	"github.com/okian/ffebridge/pkg/logger"
)

const defaultTimeout = 2 * time.Minute

var errUsage = errors.New("usage")

func main() {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if !errors.Is(err, errUsage) {
			os.Stderr.WriteString("ffe-convert: " + err.Error() + "\n")
		}
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("ffe-convert", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		format     = fs.String("format", service.FormatSIFText, "output format: sif_text or ffecompet_delimited")
		outDir     = fs.String("out", ".", "directory receiving the generated file")
		apiKey     = fs.String("api-key", "", "meeting API key (optional)")
		meetingURL = fs.String("meeting-url", "", "meeting base URL (optional)")
		verbose    = fs.Bool("verbose", false, "log progress to stderr")
	)
	fs.Usage = func() {
		fmt.Fprintln(stderr, "usage: ffe-convert [flags] export.xml")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return errUsage
	}

	log := logger.Nop()
	if *verbose {
		if err := logger.Init(logger.WithWriter(stderr)); err != nil {
			return err
		}
		log = logger.Get()
	}

	data, err := os.ReadFile(fs.Arg(0))
	if err != nil {
		return err
	}

	svc := service.New(service.WithLogger(log))
	res, stats, err := svc.Parse(ctx, data)
	if err != nil {
		return err
	}
	log.Info(ctx, "parsed", logger.Int("competitions", stats.Competitions), logger.Int("starts", stats.TotalStarts))

	creds := auth.Credentials{APIKey: *apiKey, MeetingURL: *meetingURL}
	var f service.File
	switch *format {
	case service.FormatSIFText:
		f, err = svc.ExportSIFText(ctx, creds, res)
	case service.FormatDelimited:
		f, err = svc.ExportFFECompetDelimited(ctx, creds, res)
	default:
		return fmt.Errorf("unknown format %q", *format)
	}
	if err != nil {
		return err
	}

	path := filepath.Join(*outDir, f.Name)
	if err := os.WriteFile(path, f.Data, 0o644); err != nil {
		return err
	}
	fmt.Fprintln(stdout, path)
	return nil
}
