// Package service orchestrates every user action of the bridge: parsing a
// federation export, importing it into a meeting, checking which imported
// competitions have results, and producing the federation result files.
package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/okian/ffebridge/internal/adapters/mq/worker"
	"github.com/okian/ffebridge/internal/adapters/platform"
	"github.com/okian/ffebridge/internal/auth"
	"github.com/okian/ffebridge/internal/codec/delimited"
	"github.com/okian/ffebridge/internal/codec/fixedwidth"
	"github.com/okian/ffebridge/internal/codec/xmlexport"
	"github.com/okian/ffebridge/internal/domain/batch"
	"github.com/okian/ffebridge/internal/domain/codes"
	"github.com/okian/ffebridge/internal/domain/dedupe"
	"github.com/okian/ffebridge/internal/domain/model"
	"github.com/okian/ffebridge/internal/export"
	"github.com/okian/ffebridge/internal/parser"
	"github.com/okian/ffebridge/pkg/logger"
	"github.com/okian/ffebridge/pkg/metrics"
)

// Platform is the subset of the platform client the service drives.
type Platform interface {
	BaseURL() string
	SendBatch(ctx context.Context, b *batch.Batch) (*platform.BatchResult, error)
	ConfigureCustomFields(ctx context.Context, s model.Settings) error
	VerifyCustomFields(ctx context.Context) (bool, error)
	TestConnection(ctx context.Context) error
	Competitions(ctx context.Context) ([]model.RemoteCompetition, error)
	Results(ctx context.Context, competitionID string) ([]model.RemoteResult, error)
	HasResults(ctx context.Context, competitionID string) (bool, error)
	Starts(ctx context.Context, competitionID string) ([]model.RemoteStart, error)
	People(ctx context.Context) ([]model.RemotePerson, error)
	Horses(ctx context.Context) ([]model.RemoteHorse, error)
}

// Connector opens a client for one meeting.
type Connector func(creds auth.Credentials) Platform

// Recorder receives the business metrics of the service.
type Recorder interface {
	ObserveParse(stats metrics.ParseStats, err error)
	ObserveBatch(err error)
	ObserveCustomFieldFailure()
	ObserveExport(format string, files int)
}

// Service implements the API dependencies of the bridge. It keeps no state
// between calls besides the in-flight import guard.
type Service struct {
	logger       logger.Logger
	recorder     Recorder
	decoder      *auth.Decoder
	connect      Connector
	platformOpts []platform.Option
	poolObserver worker.Observer
	concurrency  int
	defaultLevel codes.Level
	tag          string
	globalTag    string
	now          func() time.Time

	parser  *parser.Parser
	imports *dedupe.Guard
	pool    *worker.Pool
	fixed   *fixedwidth.Encoder
	xml     *xmlexport.Encoder
	text    *delimited.Encoder
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		logger:       logger.Nop(),
		recorder:     metrics.Default(),
		concurrency:  worker.DefaultSize,
		defaultLevel: codes.DefaultLevel,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.connect == nil {
		s.connect = s.platformClient
	}

	s.parser = parser.New(parser.WithLogger(s.logger.Named("parser")), parser.WithClock(s.now))
	s.imports = dedupe.NewGuard()
	s.pool = worker.NewPool(s.concurrency,
		worker.WithName("platform-reads"),
		worker.WithLogger(s.logger),
		worker.WithObserver(s.poolObserver))
	s.fixed = fixedwidth.New(fixedwidth.WithTags(s.tag, s.globalTag), fixedwidth.WithClock(s.now))
	s.xml = xmlexport.New(xmlexport.WithClock(s.now))
	s.text = delimited.New(delimited.WithClock(s.now))
	return s
}

func (s *Service) platformClient(creds auth.Credentials) Platform {
	opts := append([]platform.Option{platform.WithLogger(s.logger.Named("platform"))}, s.platformOpts...)
	return platform.New(creds.MeetingURL, creds.APIKey, opts...)
}

// Credentials resolves the meeting credentials of a request. Explicit values
// win; a bearer token fills in when they are incomplete.
func (s *Service) Credentials(token string, explicit auth.Credentials) (auth.Credentials, error) {
	explicit.APIKey = strings.TrimSpace(explicit.APIKey)
	explicit.MeetingURL = strings.TrimSpace(explicit.MeetingURL)
	if explicit.APIKey != "" && explicit.MeetingURL != "" {
		return explicit, nil
	}
	if strings.TrimSpace(token) == "" || s.decoder == nil {
		return auth.Credentials{}, ErrMissingCredentials
	}
	creds, err := s.decoder.Decode(token)
	if err != nil {
		return auth.Credentials{}, fmt.Errorf("%w: %w", ErrMissingCredentials, err)
	}
	return creds, nil
}

func (s *Service) client(creds auth.Credentials) (Platform, error) {
	if strings.TrimSpace(creds.APIKey) == "" || strings.TrimSpace(creds.MeetingURL) == "" {
		return nil, ErrMissingCredentials
	}
	return s.connect(creds), nil
}

// Parse reads a federation export.
func (s *Service) Parse(ctx context.Context, data []byte) (*model.ParseResult, model.Stats, error) {
	res, err := s.parser.Parse(ctx, data)
	if err != nil {
		s.recorder.ObserveParse(nil, err)
		s.logger.Warn(ctx, "parse failed", logger.Error(err))
		return nil, model.Stats{}, err
	}
	stats := res.Stats()
	s.recorder.ObserveParse(metrics.ParseStats{
		"competitions": stats.Competitions,
		"people":       stats.People,
		"officials":    stats.Officials,
		"horses":       stats.Horses,
		"clubs":        stats.Clubs,
		"starts":       stats.TotalStarts,
	}, nil)
	s.logger.Info(ctx, "document parsed",
		logger.String("concours", res.Concours.Num),
		logger.Int("competitions", stats.Competitions),
		logger.Int("starts", stats.TotalStarts))
	return res, stats, nil
}

// ApplyLevels returns a copy of res with the overrides written into the
// competition levels.
func (s *Service) ApplyLevels(res *model.ParseResult, levels batch.LevelOverrides) (*model.ParseResult, error) {
	if res == nil {
		return nil, ErrNoParseResult
	}
	out := *res
	out.Competitions = make([]model.Competition, len(res.Competitions))
	for i, c := range res.Competitions {
		c.Level = levels.Resolve(c)
		out.Competitions[i] = c
	}
	return &out, nil
}

// ImportResult is a successful import.
type ImportResult struct {
	*platform.BatchResult
	Counts map[string]int `json:"counts"`
}

// Import sends the selected competitions with their people, horses, clubs
// and starts as one batch. Custom fields are configured first; a failure of
// that step is logged and does not stop the send. A second import for the
// same meeting is refused while one runs.
func (s *Service) Import(ctx context.Context, creds auth.Credentials, res *model.ParseResult, sel batch.Selection) (*ImportResult, error) {
	if res == nil {
		return nil, ErrNoParseResult
	}
	if len(sel.CompetitionIDs) == 0 {
		return nil, ErrNothingSelected
	}
	if err := res.Validate(); err != nil {
		return nil, err
	}
	client, err := s.client(creds)
	if err != nil {
		return nil, err
	}

	release, ok := s.imports.Acquire(ctx, client.BaseURL())
	if !ok {
		return nil, ErrImportInProgress
	}
	defer release()

	if sel.Levels.Default == "" {
		sel.Levels.Default = s.defaultLevel
	}
	b := batch.Build(ctx, res, sel)
	if b.Competitions == nil {
		return nil, ErrNothingSelected
	}

	if err := client.ConfigureCustomFields(ctx, batch.CustomFieldSettings()); err != nil {
		s.recorder.ObserveCustomFieldFailure()
		s.logger.Warn(ctx, "custom field setup failed, sending anyway", logger.Error(err))
	}

	sent, err := client.SendBatch(ctx, b)
	s.recorder.ObserveBatch(err)
	if err != nil {
		s.logger.Error(ctx, "batch rejected", logger.Error(err))
		return nil, err
	}
	s.logger.Info(ctx, "batch sent",
		logger.String("transaction", sent.TransactionID),
		logger.Int("status", sent.Status))
	return &ImportResult{BatchResult: sent, Counts: b.Counts()}, nil
}

// ConfigureCustomFields declares the custom fields on the meeting.
func (s *Service) ConfigureCustomFields(ctx context.Context, creds auth.Credentials) error {
	client, err := s.client(creds)
	if err != nil {
		return err
	}
	if err := client.ConfigureCustomFields(ctx, batch.CustomFieldSettings()); err != nil {
		s.recorder.ObserveCustomFieldFailure()
		return err
	}
	return nil
}

// VerifyCustomFields reports whether the meeting declares every custom field.
func (s *Service) VerifyCustomFields(ctx context.Context, creds auth.Credentials) (bool, error) {
	client, err := s.client(creds)
	if err != nil {
		return false, err
	}
	return client.VerifyCustomFields(ctx)
}

// TestConnection probes the meeting with the given credentials.
func (s *Service) TestConnection(ctx context.Context, creds auth.Credentials) error {
	client, err := s.client(creds)
	if err != nil {
		return err
	}
	return client.TestConnection(ctx)
}

// CheckResult is the result state of one imported competition.
type CheckResult struct {
	ID         string `json:"id"`
	ForeignID  string `json:"foreign_id"`
	Name       string `json:"name"`
	Num        string `json:"num"`
	Discipline string `json:"discipline"`
	Date       string `json:"date"`
	HasResults bool   `json:"has_results"`
	Error      string `json:"error,omitempty"`
}

// CheckImported lists the meeting's federation competitions with whether
// each has ranked results. Checks run on the bounded pool without retry; a
// failed check reports no results and its error. Platform order is kept.
func (s *Service) CheckImported(ctx context.Context, creds auth.Credentials) ([]CheckResult, error) {
	client, err := s.client(creds)
	if err != nil {
		return nil, err
	}
	all, err := client.Competitions(ctx)
	if err != nil {
		return nil, err
	}
	comps := export.FilterFederation(all)

	outcomes := worker.Run(ctx, s.pool, comps, func(ctx context.Context, c model.RemoteCompetition) (bool, error) {
		return client.HasResults(ctx, c.Kq.String())
	})

	out := make([]CheckResult, len(comps))
	for i, c := range comps {
		out[i] = CheckResult{
			ID:         c.Kq.String(),
			ForeignID:  c.ForeignID,
			Name:       c.Name,
			Num:        c.Num.String(),
			Discipline: c.Discipline,
			Date:       c.Date,
			HasResults: outcomes[i].Value,
		}
		if outcomes[i].Err != nil {
			out[i].HasResults = false
			out[i].Error = outcomes[i].Err.Error()
		}
	}
	return out, nil
}
