package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/okian/ffebridge/internal/adapters/mq/worker"
	"github.com/okian/ffebridge/internal/auth"
	"github.com/okian/ffebridge/internal/codec/delimited"
	"github.com/okian/ffebridge/internal/codec/fixedwidth"
	"github.com/okian/ffebridge/internal/domain/codes"
	"github.com/okian/ffebridge/internal/domain/model"
	"github.com/okian/ffebridge/internal/export"
	"github.com/okian/ffebridge/pkg/logger"
)

// Export formats, also used as metric labels.
const (
	FormatFFECompet       = "ffecompet"
	FormatFFECompetGlobal = "ffecompet_global"
	FormatWinJump         = "winjump"
	FormatSIF             = "sif"
	FormatSIFText         = "sif_text"
	FormatDelimited       = "ffecompet_delimited"
	FormatReport          = "results_report"
)

// File is a generated export.
type File struct {
	Name   string `json:"filename"`
	Data   []byte `json:"-"`
	Format string `json:"format"`
	// Files is the number of files packed in an archive.
	Files int `json:"files,omitempty"`
}

// ExportRequest selects one platform competition. Officials are the parsed
// officials used to resolve judge licenses and Competitions the parsed
// competitions whose judge lists fill empty seats; both may be empty.
type ExportRequest struct {
	CompetitionID string
	Officials     []model.Official
	Competitions  []model.Competition
}

func (req ExportRequest) judges(people *export.Index) fixedwidth.JudgeResolver {
	r := fixedwidth.JudgeResolver{Officials: req.Officials, People: people}
	for _, c := range req.Competitions {
		if c.ForeignID == "" || strings.TrimSpace(c.JudgeList) == "" {
			continue
		}
		if r.Rosters == nil {
			r.Rosters = make(map[string]string, len(req.Competitions))
		}
		r.Rosters[c.ForeignID] = c.JudgeList
	}
	return r
}

type meeting struct {
	client Platform
	index  *export.Index
}

func (s *Service) meeting(ctx context.Context, creds auth.Credentials) (*meeting, error) {
	client, err := s.client(creds)
	if err != nil {
		return nil, err
	}
	people, err := client.People(ctx)
	if err != nil {
		return nil, fmt.Errorf("load people: %w", err)
	}
	horses, err := client.Horses(ctx)
	if err != nil {
		return nil, fmt.Errorf("load horses: %w", err)
	}
	return &meeting{client: client, index: export.NewIndex(people, horses)}, nil
}

// competition loads one competition by platform id or foreign id.
func (m *meeting) competition(ctx context.Context, id string) (export.Competition, error) {
	id = strings.TrimSpace(id)
	comps, err := m.client.Competitions(ctx)
	if err != nil {
		return export.Competition{}, err
	}
	for _, c := range comps {
		if id != "" && (c.Kq.String() == id || c.ForeignID == id) {
			return m.join(ctx, c)
		}
	}
	return export.Competition{}, fmt.Errorf("%w: %s", ErrCompetitionNotFound, id)
}

func (m *meeting) join(ctx context.Context, c model.RemoteCompetition) (export.Competition, error) {
	results, err := m.client.Results(ctx, c.Kq.String())
	if err != nil {
		return export.Competition{}, fmt.Errorf("load results of %s: %w", c.Kq, err)
	}
	starts, err := m.client.Starts(ctx, c.Kq.String())
	if err != nil {
		return export.Competition{}, fmt.Errorf("load starts of %s: %w", c.Kq, err)
	}
	return export.NewCompetition(c, results, starts, m.index), nil
}

func (s *Service) single(ctx context.Context, creds auth.Credentials, id string) (*meeting, export.Competition, error) {
	m, err := s.meeting(ctx, creds)
	if err != nil {
		return nil, export.Competition{}, err
	}
	c, err := m.competition(ctx, id)
	if err != nil {
		return nil, export.Competition{}, err
	}
	if len(c.Rows) == 0 {
		return nil, export.Competition{}, fmt.Errorf("%w: %s", ErrNoResults, c.Remote.Name)
	}
	return m, c, nil
}

func (s *Service) exported(ctx context.Context, f File) File {
	files := f.Files
	if files == 0 {
		files = 1
	}
	s.recorder.ObserveExport(f.Format, files)
	s.logger.Info(ctx, "export generated",
		logger.String("format", f.Format),
		logger.String("file", f.Name),
		logger.Int("bytes", len(f.Data)))
	return f
}

// ExportFFECompet writes the fixed-width file of one competition.
func (s *Service) ExportFFECompet(ctx context.Context, creds auth.Credentials, req ExportRequest) (File, error) {
	m, c, err := s.single(ctx, creds, req.CompetitionID)
	if err != nil {
		return File{}, err
	}
	f := s.fixed.Single(c, req.judges(m.index))
	return s.exported(ctx, File{Name: f.Name, Data: f.Data, Format: FormatFFECompet}), nil
}

// ExportFFECompetGlobal writes one fixed-width file per discipline and
// concours for every federation competition with ranked results, packed in
// a zip archive. Results are loaded on the bounded pool. The competition id
// of req is ignored.
func (s *Service) ExportFFECompetGlobal(ctx context.Context, creds auth.Credentials, req ExportRequest) (File, error) {
	m, err := s.meeting(ctx, creds)
	if err != nil {
		return File{}, err
	}
	all, err := m.client.Competitions(ctx)
	if err != nil {
		return File{}, err
	}
	comps := export.FilterFederation(all)

	outcomes := worker.Run(ctx, s.pool, comps, m.join)
	var ready []export.Competition
	for i, o := range outcomes {
		if o.Err != nil {
			s.logger.Warn(ctx, "competition skipped",
				logger.String("competition", comps[i].ForeignID), logger.Error(o.Err))
			continue
		}
		if export.HasResults(o.Value.Results()) {
			ready = append(ready, o.Value)
		}
	}
	if len(ready) == 0 {
		return File{}, ErrNoResults
	}

	files := s.fixed.Global(export.GroupByDiscipline(ready), req.judges(m.index))
	archive, err := s.fixed.Archive(files)
	if err != nil {
		return File{}, err
	}
	return s.exported(ctx, File{Name: archive.Name, Data: archive.Data, Format: FormatFFECompetGlobal, Files: len(files)}), nil
}

// ExportWinJump writes the WinJump XML of one competition.
func (s *Service) ExportWinJump(ctx context.Context, creds auth.Credentials, req ExportRequest) (File, error) {
	m, c, err := s.single(ctx, creds, req.CompetitionID)
	if err != nil {
		return File{}, err
	}
	f, err := s.xml.WinJump(c, m.index)
	if err != nil {
		return File{}, err
	}
	return s.exported(ctx, File{Name: f.Name, Data: f.Data, Format: FormatWinJump}), nil
}

// ExportSIF writes the generic SIF XML of one competition.
func (s *Service) ExportSIF(ctx context.Context, creds auth.Credentials, req ExportRequest) (File, error) {
	_, c, err := s.single(ctx, creds, req.CompetitionID)
	if err != nil {
		return File{}, err
	}
	f, err := s.xml.SIF(c)
	if err != nil {
		return File{}, err
	}
	return s.exported(ctx, File{Name: f.Name, Data: f.Data, Format: FormatSIF}), nil
}

// ResultsExport is the raw results of one competition and their printable
// report.
type ResultsExport struct {
	Competition model.RemoteCompetition `json:"competition"`
	Results     []model.RemoteResult    `json:"results"`
	Report      File                    `json:"report"`
}

// ExportResults returns the joined results of one competition in rank order.
func (s *Service) ExportResults(ctx context.Context, creds auth.Credentials, req ExportRequest) (*ResultsExport, error) {
	_, c, err := s.single(ctx, creds, req.CompetitionID)
	if err != nil {
		return nil, err
	}
	info := delimited.ReportInfo{
		Name:       c.Remote.Name,
		Num:        c.EpreuveNum,
		Date:       c.Remote.Date,
		Category:   codes.LevelOrDefault(c.Remote.Level).SIFText(),
		Discipline: c.Discipline,
	}
	report := s.text.Report(info, c.Rows)
	return &ResultsExport{
		Competition: c.Remote,
		Results:     c.Results(),
		Report:      s.exported(ctx, File{Name: report.Name, Data: report.Data, Format: FormatReport}),
	}, nil
}

// ExportSIFText writes the SIF sections of a parse result. With credentials
// the platform results of the parsed competitions are merged in.
func (s *Service) ExportSIFText(ctx context.Context, creds auth.Credentials, res *model.ParseResult) (File, error) {
	if res == nil {
		return File{}, ErrNoParseResult
	}
	f := s.text.SIFText(res, s.parsedResults(ctx, creds, res))
	return s.exported(ctx, File{Name: f.Name, Data: f.Data, Format: FormatSIFText}), nil
}

// ExportFFECompetDelimited writes the ';' FFECompet records of a parse result.
func (s *Service) ExportFFECompetDelimited(ctx context.Context, creds auth.Credentials, res *model.ParseResult) (File, error) {
	if res == nil {
		return File{}, ErrNoParseResult
	}
	f := s.text.FFECompet(res, s.parsedResults(ctx, creds, res))
	return s.exported(ctx, File{Name: f.Name, Data: f.Data, Format: FormatDelimited}), nil
}

// parsedResults loads the platform results of the parsed competitions keyed
// by start foreign id. It returns nil without credentials; read failures
// only drop the affected competitions.
func (s *Service) parsedResults(ctx context.Context, creds auth.Credentials, res *model.ParseResult) delimited.Results {
	client, err := s.client(creds)
	if err != nil {
		return nil
	}
	all, err := client.Competitions(ctx)
	if err != nil {
		s.logger.Warn(ctx, "results unavailable", logger.Error(err))
		return nil
	}
	wanted := make(map[string]struct{}, len(res.Competitions))
	for _, c := range res.Competitions {
		wanted[c.ForeignID] = struct{}{}
	}
	var comps []model.RemoteCompetition
	for _, c := range all {
		if _, ok := wanted[c.ForeignID]; ok {
			comps = append(comps, c)
		}
	}

	type loaded struct {
		results []model.RemoteResult
		starts  []model.RemoteStart
	}
	outcomes := worker.Run(ctx, s.pool, comps, func(ctx context.Context, c model.RemoteCompetition) (loaded, error) {
		results, err := client.Results(ctx, c.Kq.String())
		if err != nil {
			return loaded{}, err
		}
		starts, err := client.Starts(ctx, c.Kq.String())
		return loaded{results: results, starts: starts}, err
	})

	out := delimited.Results{}
	for _, o := range outcomes {
		if o.Err != nil {
			continue
		}
		for fid, r := range export.ByStartForeignID(o.Value.results, o.Value.starts) {
			out[fid] = r
		}
	}
	return out
}
