// Package delimited writes the line oriented text exports of a parse result
// (SIF sections, FFECompet ';' records) and the printable results report.
package delimited

import (
	"regexp"
	"strings"
	"time"

	"github.com/okian/ffebridge/internal/domain/model"
)

const (
	lineBreak       = "\r\n"
	timestampLayout = "20060102150405"
)

// File is one generated export.
type File struct {
	Name string
	Data []byte
}

// Results maps start foreign ids to their platform result. It may be nil
// when the starts have not run yet.
type Results map[string]model.RemoteResult

// Encoder writes the text exports.
type Encoder struct {
	now func() time.Time
}

// Option configures an Encoder.
type Option func(*Encoder)

// WithClock sets the clock used for headers and file names.
func WithClock(now func() time.Time) Option {
	return func(e *Encoder) {
		if now != nil {
			e.now = now
		}
	}
}

// New creates an encoder.
func New(opts ...Option) *Encoder {
	e := &Encoder{now: time.Now}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

var cleaner = strings.NewReplacer(";", " ", "\r", " ", "\n", " ", "\t", " ")

// clean keeps a value on one line and out of the field separator.
func clean(s string) string {
	return strings.TrimSpace(cleaner.Replace(s))
}

var isoDate = regexp.MustCompile(`(\d{4})-(\d{2})-(\d{2})`)

// frenchDate turns an ISO date into dd/mm/yyyy. Other values pass through.
func frenchDate(s string) string {
	if m := isoDate.FindStringSubmatch(s); m != nil {
		return m[3] + "/" + m[2] + "/" + m[1]
	}
	return s
}

// compactDate turns an ISO date into yyyymmdd.
func compactDate(s string) string {
	return strings.ReplaceAll(s, "-", "")
}

func epreuveNum(num string) string {
	return strings.ReplaceAll(num, "EP", "")
}

func join(lines []string) []byte {
	return []byte(strings.Join(lines, lineBreak))
}
