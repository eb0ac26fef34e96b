package api_test

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/ffebridge/internal/adapters/http/api"
	"github.com/okian/ffebridge/internal/adapters/platform"
	service "github.com/okian/ffebridge/internal/app"
	"github.com/okian/ffebridge/internal/auth"
	"github.com/okian/ffebridge/internal/domain/batch"
	"github.com/okian/ffebridge/internal/domain/codes"
	"github.com/okian/ffebridge/internal/domain/model"
	"github.com/okian/ffebridge/internal/parser"
)

type stubDeps struct {
	parsed       []byte
	parseErr     error
	selection    batch.Selection
	importErr    error
	creds        auth.Credentials
	officials    []model.Official
	competitions []model.Competition
	exportErr    error
	textCreds    auth.Credentials
}

func (d *stubDeps) Credentials(token string, explicit auth.Credentials) (auth.Credentials, error) {
	if explicit.APIKey != "" && explicit.MeetingURL != "" {
		return explicit, nil
	}
	if token == "good" {
		return auth.Credentials{APIKey: "from-token", MeetingURL: "https://meeting.test"}, nil
	}
	return auth.Credentials{}, service.ErrMissingCredentials
}

func (d *stubDeps) Parse(_ context.Context, data []byte) (*model.ParseResult, model.Stats, error) {
	d.parsed = data
	if d.parseErr != nil {
		return nil, model.Stats{}, d.parseErr
	}
	res := &model.ParseResult{Concours: model.Concours{Num: "202501009"}}
	return res, model.Stats{Competitions: 2}, nil
}

func (d *stubDeps) ApplyLevels(res *model.ParseResult, levels batch.LevelOverrides) (*model.ParseResult, error) {
	if res == nil {
		return nil, service.ErrNoParseResult
	}
	out := *res
	for i := range out.Competitions {
		out.Competitions[i].Level = levels.Resolve(out.Competitions[i])
	}
	return &out, nil
}

func (d *stubDeps) Import(_ context.Context, creds auth.Credentials, _ *model.ParseResult, sel batch.Selection) (*service.ImportResult, error) {
	d.creds, d.selection = creds, sel
	if d.importErr != nil {
		return nil, d.importErr
	}
	return &service.ImportResult{
		BatchResult: &platform.BatchResult{TransactionID: "tx-1", Status: http.StatusCreated},
		Counts:      map[string]int{"competitions": len(sel.CompetitionIDs)},
	}, nil
}

func (d *stubDeps) ConfigureCustomFields(_ context.Context, creds auth.Credentials) error {
	d.creds = creds
	return nil
}

func (d *stubDeps) VerifyCustomFields(_ context.Context, creds auth.Credentials) (bool, error) {
	d.creds = creds
	return true, nil
}

func (d *stubDeps) TestConnection(_ context.Context, creds auth.Credentials) error {
	d.creds = creds
	return nil
}

func (d *stubDeps) CheckImported(context.Context, auth.Credentials) ([]service.CheckResult, error) {
	return []service.CheckResult{
		{ID: "12", ForeignID: "202501009_2", HasResults: true},
		{ID: "13", ForeignID: "202501009_3", Error: "unexpected platform status"},
	}, nil
}

func (d *stubDeps) file(format string) (service.File, error) {
	if d.exportErr != nil {
		return service.File{}, d.exportErr
	}
	return service.File{Name: format + ".txt", Data: []byte("payload"), Format: format}, nil
}

func (d *stubDeps) ExportFFECompet(_ context.Context, _ auth.Credentials, req service.ExportRequest) (service.File, error) {
	d.officials = req.Officials
	d.competitions = req.Competitions
	return d.file(service.FormatFFECompet)
}

func (d *stubDeps) ExportFFECompetGlobal(_ context.Context, _ auth.Credentials, req service.ExportRequest) (service.File, error) {
	d.officials = req.Officials
	d.competitions = req.Competitions
	if d.exportErr != nil {
		return service.File{}, d.exportErr
	}
	return service.File{Name: "global.zip", Data: []byte("zip"), Format: service.FormatFFECompetGlobal, Files: 3}, nil
}

func (d *stubDeps) ExportWinJump(context.Context, auth.Credentials, service.ExportRequest) (service.File, error) {
	return d.file(service.FormatWinJump)
}

func (d *stubDeps) ExportSIF(context.Context, auth.Credentials, service.ExportRequest) (service.File, error) {
	return d.file(service.FormatSIF)
}

func (d *stubDeps) ExportResults(_ context.Context, _ auth.Credentials, req service.ExportRequest) (*service.ResultsExport, error) {
	if d.exportErr != nil {
		return nil, d.exportErr
	}
	return &service.ResultsExport{
		Competition: model.RemoteCompetition{Name: "Grand Prix"},
		Report:      service.File{Name: "RES_FFE.txt", Data: []byte("report"), Format: service.FormatReport},
	}, nil
}

func (d *stubDeps) ExportSIFText(_ context.Context, creds auth.Credentials, res *model.ParseResult) (service.File, error) {
	d.textCreds = creds
	if res == nil {
		return service.File{}, service.ErrNoParseResult
	}
	return d.file(service.FormatSIFText)
}

func (d *stubDeps) ExportFFECompetDelimited(_ context.Context, creds auth.Credentials, res *model.ParseResult) (service.File, error) {
	d.textCreds = creds
	if res == nil {
		return service.File{}, service.ErrNoParseResult
	}
	return d.file(service.FormatDelimited)
}

func do(h http.Handler, method, path, body string, headers ...string) (*httptest.ResponseRecorder, map[string]any) {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	var out map[string]any
	_ = json.Unmarshal(rec.Body.Bytes(), &out)
	return rec, out
}

const creds = `"api_key":"k","meeting_url":"https://meeting.test"`

func TestHealthAndMetrics(t *testing.T) {
	Convey("Given a server with a metrics handler", t, func() {
		metricsHandler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte("# metrics"))
		})
		h := api.NewServer(&stubDeps{}, api.WithMetricsHandler(metricsHandler)).Router()

		Convey("healthz answers ok", func() {
			rec, body := do(h, http.MethodGet, "/healthz", "")
			So(rec.Code, ShouldEqual, http.StatusOK)
			So(body["status"], ShouldEqual, "ok")
		})

		Convey("metrics are served", func() {
			rec, _ := do(h, http.MethodGet, "/metrics", "")
			So(rec.Code, ShouldEqual, http.StatusOK)
			So(rec.Body.String(), ShouldEqual, "# metrics")
		})

		Convey("the API is documented", func() {
			rec, _ := do(h, http.MethodGet, "/openapi.yaml", "")
			So(rec.Code, ShouldEqual, http.StatusOK)
		})

		Convey("CORS preflight is answered", func() {
			rec, _ := do(h, http.MethodOptions, "/api/parse", "",
				"Origin", "https://app.test", "Access-Control-Request-Method", "POST")
			So(rec.Header().Get("Access-Control-Allow-Origin"), ShouldEqual, "*")
		})
	})
}

func TestParse(t *testing.T) {
	Convey("Given a server", t, func() {
		deps := &stubDeps{}
		h := api.NewServer(deps).Router()

		Convey("a raw body is parsed", func() {
			rec, body := do(h, http.MethodPost, "/api/parse", "<concours/>", "Content-Type", "application/xml")
			So(rec.Code, ShouldEqual, http.StatusOK)
			So(body["success"], ShouldBeTrue)
			So(string(deps.parsed), ShouldEqual, "<concours/>")
			So(body["stats"].(map[string]any)["competitions"], ShouldEqual, float64(2))
		})

		Convey("a multipart upload is parsed", func() {
			var buf bytes.Buffer
			mw := multipart.NewWriter(&buf)
			fw, err := mw.CreateFormFile("xml_file", "export.xml")
			So(err, ShouldBeNil)
			_, _ = fw.Write([]byte("<concours num=\"1\"/>"))
			So(mw.Close(), ShouldBeNil)

			req := httptest.NewRequest(http.MethodPost, "/api/parse", &buf)
			req.Header.Set("Content-Type", mw.FormDataContentType())
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			So(rec.Code, ShouldEqual, http.StatusOK)
			So(string(deps.parsed), ShouldEqual, "<concours num=\"1\"/>")
		})

		Convey("an empty body is a bad request", func() {
			rec, body := do(h, http.MethodPost, "/api/parse", "")
			So(rec.Code, ShouldEqual, http.StatusBadRequest)
			So(body["success"], ShouldBeFalse)
		})

		Convey("a malformed document is unprocessable", func() {
			deps.parseErr = fmt.Errorf("%w: unexpected EOF", parser.ErrParse)
			rec, body := do(h, http.MethodPost, "/api/parse", "<concours")
			So(rec.Code, ShouldEqual, http.StatusUnprocessableEntity)
			So(body["error"], ShouldContainSubstring, "parse error")
		})

		Convey("bodies over the limit are refused", func() {
			small := api.NewServer(deps, api.WithMaxUploadBytes(4)).Router()
			rec, _ := do(small, http.MethodPost, "/api/parse", "<concours/>")
			So(rec.Code, ShouldEqual, http.StatusBadRequest)
		})
	})
}

func TestImport(t *testing.T) {
	Convey("Given a server", t, func() {
		deps := &stubDeps{}
		h := api.NewServer(deps).Router()

		Convey("the selection and levels reach the service", func() {
			rec, body := do(h, http.MethodPost, "/api/import",
				`{`+creds+`,"parse_result":{"concours":{}},"competitions":["202501009_2"],"default_level":"n","levels":{"202501009_2":"R"}}`)
			So(rec.Code, ShouldEqual, http.StatusOK)
			So(body["message"], ShouldEqual, "import sent")
			So(deps.selection.CompetitionIDs, ShouldResemble, []string{"202501009_2"})
			So(deps.selection.Levels.Default, ShouldEqual, codes.LevelNational)
			So(deps.selection.Levels.PerCompetition["202501009_2"], ShouldEqual, codes.LevelRegional)
			So(body["data"].(map[string]any)["transaction_uuid"], ShouldEqual, "tx-1")
		})

		Convey("a bearer token supplies the credentials", func() {
			rec, _ := do(h, http.MethodPost, "/api/import", `{"competitions":["a"]}`, "Authorization", "Bearer good")
			So(rec.Code, ShouldEqual, http.StatusOK)
			So(deps.creds.APIKey, ShouldEqual, "from-token")
		})

		Convey("missing credentials are a bad request", func() {
			rec, _ := do(h, http.MethodPost, "/api/import", `{"competitions":["a"]}`)
			So(rec.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("an unknown level is refused", func() {
			rec, body := do(h, http.MethodPost, "/api/import", `{`+creds+`,"default_level":"Z"}`)
			So(rec.Code, ShouldEqual, http.StatusBadRequest)
			So(body["error"], ShouldContainSubstring, "unknown level")
		})

		Convey("a concurrent import conflicts", func() {
			deps.importErr = service.ErrImportInProgress
			rec, _ := do(h, http.MethodPost, "/api/import", `{`+creds+`,"competitions":["a"]}`)
			So(rec.Code, ShouldEqual, http.StatusConflict)
		})

		Convey("a rejected batch is a bad gateway", func() {
			deps.importErr = fmt.Errorf("%w: 422", platform.ErrRemoteBatch)
			rec, _ := do(h, http.MethodPost, "/api/import", `{`+creds+`,"competitions":["a"]}`)
			So(rec.Code, ShouldEqual, http.StatusBadGateway)
		})

		Convey("invalid JSON is a bad request", func() {
			rec, _ := do(h, http.MethodPost, "/api/import", `{`)
			So(rec.Code, ShouldEqual, http.StatusBadRequest)
		})
	})
}

func TestLevels(t *testing.T) {
	Convey("Level overrides are applied to the posted parse result", t, func() {
		h := api.NewServer(&stubDeps{}).Router()
		rec, body := do(h, http.MethodPost, "/api/competitions/levels",
			`{"parse_result":{"competitions":[{"foreign_id":"202501009_2"}]},"default_level":"L"}`)
		So(rec.Code, ShouldEqual, http.StatusOK)
		res := body["parse_result"].(map[string]any)
		So(res, ShouldNotBeNil)

		Convey("and a missing parse result is refused", func() {
			rec, _ := do(h, http.MethodPost, "/api/competitions/levels", `{}`)
			So(rec.Code, ShouldEqual, http.StatusBadRequest)
		})
	})
}

func TestMeetingActions(t *testing.T) {
	Convey("Given a server", t, func() {
		deps := &stubDeps{}
		h := api.NewServer(deps).Router()

		Convey("connection test uses body credentials", func() {
			rec, body := do(h, http.MethodPost, "/api/connection/test", `{`+creds+`}`)
			So(rec.Code, ShouldEqual, http.StatusOK)
			So(body["success"], ShouldBeTrue)
			So(deps.creds.MeetingURL, ShouldEqual, "https://meeting.test")
		})

		Convey("custom fields are verified with query credentials", func() {
			rec, body := do(h, http.MethodGet, "/api/settings/custom-fields?api_key=k&meeting_url=https://m.test", "")
			So(rec.Code, ShouldEqual, http.StatusOK)
			So(body["configured"], ShouldBeTrue)
			So(deps.creds.MeetingURL, ShouldEqual, "https://m.test")
		})

		Convey("custom fields are configured with a bearer token and no body", func() {
			rec, _ := do(h, http.MethodPost, "/api/settings/custom-fields", "", "Authorization", "Bearer good")
			So(rec.Code, ShouldEqual, http.StatusOK)
			So(deps.creds.APIKey, ShouldEqual, "from-token")
		})

		Convey("check lists every competition with its error", func() {
			rec, body := do(h, http.MethodPost, "/api/competitions/check", `{`+creds+`}`)
			So(rec.Code, ShouldEqual, http.StatusOK)
			comps := body["competitions"].([]any)
			So(comps, ShouldHaveLength, 2)
			So(comps[0].(map[string]any)["has_results"], ShouldBeTrue)
			So(comps[1].(map[string]any)["error"], ShouldNotBeEmpty)
		})
	})
}

func TestExports(t *testing.T) {
	Convey("Given a server", t, func() {
		deps := &stubDeps{}
		h := api.NewServer(deps).Router()

		Convey("single exports answer a base64 file", func() {
			for path, format := range map[string]string{
				"/api/export/ffecompet": service.FormatFFECompet,
				"/api/export/winjump":   service.FormatWinJump,
				"/api/export/sif":       service.FormatSIF,
			} {
				rec, body := do(h, http.MethodPost, path, `{`+creds+`,"competition_id":"12"}`)
				So(rec.Code, ShouldEqual, http.StatusOK)
				So(body["format"], ShouldEqual, format)
				data, err := base64.StdEncoding.DecodeString(body["content"].(string))
				So(err, ShouldBeNil)
				So(string(data), ShouldEqual, "payload")
			}
		})

		Convey("officials are passed through", func() {
			rec, _ := do(h, http.MethodPost, "/api/export/ffecompet",
				`{`+creds+`,"competition_id":"12","officials":[{"licence":"0012345A","nom":"DURAND"}]}`)
			So(rec.Code, ShouldEqual, http.StatusOK)
			So(deps.officials, ShouldHaveLength, 1)
			So(deps.officials[0].License, ShouldEqual, "0012345A")
		})

		Convey("parsed judge lists reach the global export", func() {
			rec, _ := do(h, http.MethodPost, "/api/export/ffecompet/global",
				`{`+creds+`,"competitions":[{"foreign_id":"202501009_2","domarec_kb":"Marie DURAND (FRA)"}]}`)
			So(rec.Code, ShouldEqual, http.StatusOK)
			So(deps.competitions, ShouldHaveLength, 1)
			So(deps.competitions[0].JudgeList, ShouldEqual, "Marie DURAND (FRA)")
		})

		Convey("the global export reports the file count", func() {
			rec, body := do(h, http.MethodPost, "/api/export/ffecompet/global", `{`+creds+`}`)
			So(rec.Code, ShouldEqual, http.StatusOK)
			So(body["files"], ShouldEqual, float64(3))
			So(body["message"], ShouldEqual, "3 files generated")
		})

		Convey("the results export carries the report", func() {
			rec, body := do(h, http.MethodPost, "/api/export/results", `{`+creds+`,"competition_id":"12"}`)
			So(rec.Code, ShouldEqual, http.StatusOK)
			So(body["filename"], ShouldEqual, "RES_FFE.txt")
			So(body["competition"], ShouldNotBeNil)
		})

		Convey("unknown competitions are not found", func() {
			deps.exportErr = fmt.Errorf("%w: 99", service.ErrCompetitionNotFound)
			rec, _ := do(h, http.MethodPost, "/api/export/winjump", `{`+creds+`,"competition_id":"99"}`)
			So(rec.Code, ShouldEqual, http.StatusNotFound)
		})

		Convey("platform auth failures are unauthorized", func() {
			deps.exportErr = platform.ErrAuth
			rec, _ := do(h, http.MethodPost, "/api/export/sif", `{`+creds+`,"competition_id":"12"}`)
			So(rec.Code, ShouldEqual, http.StatusUnauthorized)
		})

		Convey("unexpected failures are internal errors", func() {
			deps.exportErr = fmt.Errorf("disk full")
			rec, body := do(h, http.MethodPost, "/api/export/sif", `{`+creds+`,"competition_id":"12"}`)
			So(rec.Code, ShouldEqual, http.StatusInternalServerError)
			So(body["error"], ShouldEqual, "disk full")
		})

		Convey("text exports work without credentials", func() {
			rec, body := do(h, http.MethodPost, "/api/export/sif-text", `{"parse_result":{"concours":{}}}`)
			So(rec.Code, ShouldEqual, http.StatusOK)
			So(body["format"], ShouldEqual, service.FormatSIFText)
			So(deps.textCreds, ShouldResemble, auth.Credentials{})
		})

		Convey("text exports pass credentials when given", func() {
			rec, _ := do(h, http.MethodPost, "/api/export/ffecompet-delimited", `{`+creds+`,"parse_result":{}}`)
			So(rec.Code, ShouldEqual, http.StatusOK)
			So(deps.textCreds.APIKey, ShouldEqual, "k")
		})

		Convey("text exports need a parse result", func() {
			rec, _ := do(h, http.MethodPost, "/api/export/sif-text", `{}`)
			So(rec.Code, ShouldEqual, http.StatusBadRequest)
		})
	})
}

func TestEndToEndParse(t *testing.T) {
	Convey("The real service parses through the router", t, func() {
		h := api.NewServer(service.New()).Router()
		rec, body := do(h, http.MethodPost, "/api/parse",
			`<concours num="202501009" nom="Printemps"><epreuve num="2" nom_categorie="Club 1" discipline="01"/></concours>`)
		So(rec.Code, ShouldEqual, http.StatusOK)
		stats := body["stats"].(map[string]any)
		So(stats["competitions"], ShouldEqual, float64(1))
	})
}
