// Package fixedwidth writes the FFECompet positional result files read by
// the federation software.
package fixedwidth

import (
	"archive/zip"
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/okian/ffebridge/internal/export"
)

// Default software tags of the 00 line.
const (
	DefaultTag       = "V024FFECompet Export Equipe"
	DefaultGlobalTag = "V024FFECompet Export Global"

	lineBreak       = "\r\n"
	timestampLayout = "20060102150405"
)

// File is one generated export.
type File struct {
	Name string
	Data []byte
	// Lines is the number of lines written, trailer included.
	Lines int
}

// Encoder writes fixed-width files.
type Encoder struct {
	tag       string
	globalTag string
	now       func() time.Time
}

// Option configures an Encoder.
type Option func(*Encoder)

// WithTags overrides the software tags of single and global exports.
func WithTags(single, global string) Option {
	return func(e *Encoder) {
		if single != "" {
			e.tag = single
		}
		if global != "" {
			e.globalTag = global
		}
	}
}

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
	e := &Encoder{tag: DefaultTag, globalTag: DefaultGlobalTag, now: time.Now}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Lines renders a file for the competitions of one concours sharing the
// discipline code. epreuves is the count written on line 01.
func Lines(at time.Time, tag, concours, code string, epreuves int, comps []export.Competition, judges JudgeResolver) []string {
	lines := []string{
		HeaderLine(at, tag),
		ConcoursLine(concours, code, epreuves),
	}
	for _, c := range comps {
		lines = append(lines, EpreuveLine(c.EpreuveNum, len(c.Rows)))
		for _, row := range c.Rows {
			if row.StartFields.Terrain {
				lines = append(lines, FlagLine(RecordTerrain, c.EpreuveNum, row))
			}
			if row.StartFields.Invitation {
				lines = append(lines, FlagLine(RecordInvitation, c.EpreuveNum, row))
			}
		}
		for _, j := range judges.Resolve(c.Remote) {
			lines = append(lines, JudgeLine(j, c.EpreuveNum))
		}
		for _, row := range c.Rows {
			lines = append(lines, ResultLine(c.Discipline, row))
		}
	}
	return append(lines, TrailerLine(len(lines)))
}

// Single writes the file of one competition.
func (e *Encoder) Single(c export.Competition, judges JudgeResolver) File {
	at := e.now()
	lines := Lines(at, e.tag, c.ConcoursNum, c.Discipline.FFECompet(), 1, []export.Competition{c}, judges)
	return File{
		Name:  FileName(c.EpreuveNum, at),
		Data:  join(lines),
		Lines: len(lines),
	}
}

// Global writes one file per discipline code and concours.
func (e *Encoder) Global(groups []export.Group, judges JudgeResolver) []File {
	at := e.now()
	files := make([]File, 0, len(groups))
	for _, g := range groups {
		lines := Lines(at, e.globalTag, g.ConcoursNum, g.Code, len(g.Competitions), g.Competitions, judges)
		files = append(files, File{
			Name:  GlobalFileName(g.ConcoursNum, g.Code, at),
			Data:  join(lines),
			Lines: len(lines),
		})
	}
	return files
}

// Archive packs files into a zip archive.
func (e *Encoder) Archive(files []File) (File, error) {
	at := e.now()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, f := range files {
		w, err := zw.CreateHeader(&zip.FileHeader{Name: f.Name, Method: zip.Deflate, Modified: at})
		if err != nil {
			return File{}, fmt.Errorf("zip %s: %w", f.Name, err)
		}
		if _, err := w.Write(f.Data); err != nil {
			return File{}, fmt.Errorf("zip %s: %w", f.Name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return File{}, fmt.Errorf("zip: %w", err)
	}
	return File{Name: "ffecompet_global_" + at.Format(timestampLayout) + ".zip", Data: buf.Bytes()}, nil
}

// FileName is the name of a single competition export.
func FileName(epreuve string, at time.Time) string {
	return "ffecompet_" + strings.TrimSpace(epreuve) + "_" + at.Format(timestampLayout) + ".txt"
}

// GlobalFileName is the name of one global export file.
func GlobalFileName(concours, code string, at time.Time) string {
	return "ffecompet_" + strings.TrimSpace(concours) + "_" + code + "_" + at.Format(timestampLayout) + ".txt"
}

func join(lines []string) []byte {
	return []byte(strings.Join(lines, lineBreak))
}
