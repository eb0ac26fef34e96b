package api

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"

	service "github.com/okian/ffebridge/internal/app"
	"github.com/okian/ffebridge/internal/auth"
	"github.com/okian/ffebridge/internal/domain/batch"
	"github.com/okian/ffebridge/internal/domain/codes"
	"github.com/okian/ffebridge/internal/domain/model"
)

// uploadField is the multipart field carrying the federation export.
const uploadField = "xml_file"

type importRequest struct {
	credentialFields
	ParseResult  *model.ParseResult `json:"parse_result"`
	Competitions []string           `json:"competitions"`
	DefaultLevel string             `json:"default_level"`
	Levels       map[string]string  `json:"levels"`
}

// overrides validates the requested levels.
func (req importRequest) overrides() (batch.LevelOverrides, error) {
	var out batch.LevelOverrides
	if req.DefaultLevel != "" {
		lvl, ok := codes.ParseLevel(req.DefaultLevel)
		if !ok {
			return out, badRequest(fmt.Errorf("unknown level %q", req.DefaultLevel))
		}
		out.Default = lvl
	}
	if len(req.Levels) > 0 {
		out.PerCompetition = make(map[string]codes.Level, len(req.Levels))
		for id, raw := range req.Levels {
			lvl, ok := codes.ParseLevel(raw)
			if !ok {
				return out, badRequest(fmt.Errorf("unknown level %q for %s", raw, id))
			}
			out.PerCompetition[id] = lvl
		}
	}
	return out, nil
}

type exportRequest struct {
	credentialFields
	CompetitionID string              `json:"competition_id"`
	Officials     []model.Official    `json:"officials"`
	Competitions  []model.Competition `json:"competitions"`
}

type parsedExportRequest struct {
	credentialFields
	ParseResult *model.ParseResult `json:"parse_result"`
}

func (s *Server) handleTestConnection(w http.ResponseWriter, r *http.Request) {
	var req credentialFields
	if !s.decode(w, r, &req) {
		return
	}
	creds, err := s.credentials(r, req)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if err := s.deps.TestConnection(r.Context(), creds); err != nil {
		s.fail(w, r, err)
		return
	}
	writeOK(w, map[string]any{"message": "connection ok"})
}

// handleParse accepts the export as a multipart upload or as the raw body.
func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
	data, err := s.upload(w, r)
	if err != nil {
		s.fail(w, r, badRequest(err))
		return
	}
	res, stats, err := s.deps.Parse(r.Context(), data)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeOK(w, map[string]any{"data": res, "stats": stats})
}

func (s *Server) upload(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUpload)
	mt, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mt != "multipart/form-data" {
		data, err := io.ReadAll(r.Body)
		if err != nil {
			return nil, err
		}
		if len(data) == 0 {
			return nil, errors.New("empty body")
		}
		return data, nil
	}
	if err := r.ParseMultipartForm(s.maxUpload); err != nil {
		return nil, err
	}
	f, _, err := r.FormFile(uploadField)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", uploadField, err)
	}
	defer f.Close()
	return io.ReadAll(f)
}

func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	var req importRequest
	if !s.decode(w, r, &req) {
		return
	}
	levels, err := req.overrides()
	if err != nil {
		s.fail(w, r, err)
		return
	}
	creds, err := s.credentials(r, req.credentialFields)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	out, err := s.deps.Import(r.Context(), creds, req.ParseResult, batch.Selection{
		CompetitionIDs: req.Competitions,
		Levels:         levels,
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeOK(w, map[string]any{"data": out, "message": "import sent"})
}

// handleLevels writes level overrides into a parse result without sending it.
func (s *Server) handleLevels(w http.ResponseWriter, r *http.Request) {
	var req importRequest
	if !s.decode(w, r, &req) {
		return
	}
	levels, err := req.overrides()
	if err != nil {
		s.fail(w, r, err)
		return
	}
	res, err := s.deps.ApplyLevels(req.ParseResult, levels)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeOK(w, map[string]any{"parse_result": res})
}

func (s *Server) handleCheck(w http.ResponseWriter, r *http.Request) {
	var req credentialFields
	if !s.decode(w, r, &req) {
		return
	}
	creds, err := s.credentials(r, req)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	comps, err := s.deps.CheckImported(r.Context(), creds)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeOK(w, map[string]any{"competitions": comps})
}

func (s *Server) handleVerifyCustomFields(w http.ResponseWriter, r *http.Request) {
	creds, err := s.credentials(r, credentialFields{})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	ok, err := s.deps.VerifyCustomFields(r.Context(), creds)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeOK(w, map[string]any{"configured": ok})
}

func (s *Server) handleConfigureCustomFields(w http.ResponseWriter, r *http.Request) {
	var req credentialFields
	if !s.decode(w, r, &req) {
		return
	}
	creds, err := s.credentials(r, req)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if err := s.deps.ConfigureCustomFields(r.Context(), creds); err != nil {
		s.fail(w, r, err)
		return
	}
	writeOK(w, map[string]any{"message": "custom fields configured"})
}

// competitionExport runs one competition-scoped export.
func (s *Server) competitionExport(w http.ResponseWriter, r *http.Request,
	fn func(ctx context.Context, creds auth.Credentials, req service.ExportRequest) (service.File, error),
) {
	var req exportRequest
	if !s.decode(w, r, &req) {
		return
	}
	creds, err := s.credentials(r, req.credentialFields)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	f, err := fn(r.Context(), creds, req.toService())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeFile(w, f)
}

func (s *Server) handleExportFFECompet(w http.ResponseWriter, r *http.Request) {
	s.competitionExport(w, r, s.deps.ExportFFECompet)
}

func (s *Server) handleExportGlobal(w http.ResponseWriter, r *http.Request) {
	s.competitionExport(w, r, s.deps.ExportFFECompetGlobal)
}

func (s *Server) handleExportWinJump(w http.ResponseWriter, r *http.Request) {
	s.competitionExport(w, r, s.deps.ExportWinJump)
}

func (s *Server) handleExportSIF(w http.ResponseWriter, r *http.Request) {
	s.competitionExport(w, r, s.deps.ExportSIF)
}

func (s *Server) handleExportResults(w http.ResponseWriter, r *http.Request) {
	var req exportRequest
	if !s.decode(w, r, &req) {
		return
	}
	creds, err := s.credentials(r, req.credentialFields)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	out, err := s.deps.ExportResults(r.Context(), creds, req.toService())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeOK(w, map[string]any{
		"competition": out.Competition,
		"results":     out.Results,
		"filename":    out.Report.Name,
		"content":     base64.StdEncoding.EncodeToString(out.Report.Data),
		"format":      out.Report.Format,
	})
}

// Text exports work from a parse result; credentials are optional and only
// add platform results.
func (s *Server) handleExportSIFText(w http.ResponseWriter, r *http.Request) {
	s.parsedExport(w, r, func(req parsedExportRequest) (service.File, error) {
		return s.deps.ExportSIFText(r.Context(), s.optionalCredentials(r, req.credentialFields), req.ParseResult)
	})
}

func (s *Server) handleExportDelimited(w http.ResponseWriter, r *http.Request) {
	s.parsedExport(w, r, func(req parsedExportRequest) (service.File, error) {
		return s.deps.ExportFFECompetDelimited(r.Context(), s.optionalCredentials(r, req.credentialFields), req.ParseResult)
	})
}

func (s *Server) parsedExport(w http.ResponseWriter, r *http.Request, fn func(parsedExportRequest) (service.File, error)) {
	var req parsedExportRequest
	if !s.decode(w, r, &req) {
		return
	}
	f, err := fn(req)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeFile(w, f)
}

func (s *Server) optionalCredentials(r *http.Request, f credentialFields) auth.Credentials {
	creds, err := s.credentials(r, f)
	if err != nil {
		return auth.Credentials{}
	}
	return creds
}

func (req exportRequest) toService() service.ExportRequest {
	return service.ExportRequest{CompetitionID: req.CompetitionID, Officials: req.Officials, Competitions: req.Competitions}
}

func writeFile(w http.ResponseWriter, f service.File) {
	fields := map[string]any{
		"filename": f.Name,
		"content":  base64.StdEncoding.EncodeToString(f.Data),
		"format":   f.Format,
	}
	if f.Files > 0 {
		fields["files"] = f.Files
		fields["message"] = fmt.Sprintf("%d files generated", f.Files)
	}
	writeOK(w, fields)
}
