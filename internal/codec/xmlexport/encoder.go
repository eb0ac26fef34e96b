// Package xmlexport writes the XML result exports: the WinJump ffe:message
// document and the generic SIF document.
package xmlexport

import (
	"encoding/xml"
	"fmt"
	"time"
)

// Defaults of the WinJump info element.
const (
	DefaultSoftware  = "FFEBridge"
	DefaultVersion   = "1.0.0"
	DefaultDepositor = "FFE bridge"

	timestampLayout = "20060102150405"
)

// File is one generated export.
type File struct {
	Name string
	Data []byte
}

// Encoder writes XML exports.
type Encoder struct {
	software  string
	version   string
	depositor string
	now       func() time.Time
}

// Option configures an Encoder.
type Option func(*Encoder)

// WithSoftware sets the info element of WinJump documents.
func WithSoftware(name, version, depositor string) Option {
	return func(e *Encoder) {
		if name != "" {
			e.software = name
		}
		if version != "" {
			e.version = version
		}
		if depositor != "" {
			e.depositor = depositor
		}
	}
}

// WithClock sets the clock used for dates and file names.
func WithClock(now func() time.Time) Option {
	return func(e *Encoder) {
		if now != nil {
			e.now = now
		}
	}
}

// New creates an encoder.
func New(opts ...Option) *Encoder {
	e := &Encoder{
		software:  DefaultSoftware,
		version:   DefaultVersion,
		depositor: DefaultDepositor,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func marshal(v any) ([]byte, error) {
	body, err := xml.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode xml: %w", err)
	}
	out := make([]byte, 0, len(xml.Header)+len(body)+1)
	out = append(out, xml.Header...)
	out = append(out, body...)
	return append(out, '\n'), nil
}
