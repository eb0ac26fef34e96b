// Package platform is the REST client of the competition management
// platform: batch writes, settings and the read APIs used by the exports.
package platform

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/okian/ffebridge/internal/domain/batch"
	"github.com/okian/ffebridge/internal/domain/model"
	"github.com/okian/ffebridge/pkg/logger"
)

// Request headers.
const (
	HeaderAPIKey      = "X-Api-Key"
	HeaderTransaction = "X-Transaction-Uuid"
	contentJSON       = "application/json"
	maxMessageLen     = 500
)

// Client talks to one meeting. It holds no mutable state and is safe for
// concurrent use.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	log     logger.Logger
	obs     Observer
	newID   func() uuid.UUID

	batchTimeout    time.Duration
	settingsTimeout time.Duration
	readTimeout     time.Duration
	checkTimeout    time.Duration
}

// New creates a client for the meeting at baseURL.
func New(baseURL, apiKey string, opts ...Option) *Client {
	c := &Client{
		baseURL:         strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		apiKey:          strings.TrimSpace(apiKey),
		http:            &http.Client{},
		log:             logger.Nop(),
		newID:           uuid.New,
		batchTimeout:    DefaultBatchTimeout,
		settingsTimeout: DefaultSettingsTimeout,
		readTimeout:     DefaultReadTimeout,
		checkTimeout:    DefaultCheckTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the meeting URL without trailing slash.
func (c *Client) BaseURL() string { return c.baseURL }

// BatchResult is a successful batch send.
type BatchResult struct {
	TransactionID string          `json:"transaction_uuid"`
	Status        int             `json:"http_code"`
	Response      json.RawMessage `json:"response,omitempty"`
}

// SendBatch posts the batch under a fresh transaction id. There is no retry;
// a caller re-sending the same batch gets a new transaction id.
func (c *Client) SendBatch(ctx context.Context, b *batch.Batch) (*BatchResult, error) {
	body, err := json.Marshal(b)
	if err != nil {
		return nil, fmt.Errorf("encode batch: %w", err)
	}
	txID := c.newID().String()
	c.log.Info(ctx, "sending batch",
		logger.String("transaction", txID),
		logger.Any("groups", b.Counts()))

	resp, err := c.do(ctx, "batch", http.MethodPost, "/batch", body, c.batchTimeout,
		map[string]string{HeaderTransaction: txID})
	if err != nil {
		return nil, err
	}
	if resp.status < 200 || resp.status >= 300 {
		return nil, &RemoteBatchError{Status: resp.status, Message: errorMessage(resp.body)}
	}
	res := &BatchResult{TransactionID: txID, Status: resp.status}
	if json.Valid(resp.body) {
		res.Response = resp.body
	}
	return res, nil
}

// ConfigureCustomFields patches settings.json. Only 200 counts as success.
func (c *Client) ConfigureCustomFields(ctx context.Context, s model.Settings) error {
	body, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	resp, err := c.do(ctx, "settings_patch", http.MethodPatch, "/settings.json", body, c.settingsTimeout, nil)
	if err != nil {
		return err
	}
	if resp.status != http.StatusOK {
		return &StatusError{Op: "configure custom fields", Status: resp.status}
	}
	return nil
}

// Settings reads settings.json.
func (c *Client) Settings(ctx context.Context) (model.Settings, error) {
	var s model.Settings
	err := c.getJSON(ctx, "settings", "/settings.json", c.settingsTimeout, &s)
	return s, err
}

// VerifyCustomFields reports whether every custom field the batch carries is
// declared on the platform. It never mutates.
func (c *Client) VerifyCustomFields(ctx context.Context) (bool, error) {
	s, err := c.Settings(ctx)
	if err != nil {
		return false, err
	}
	missing := batch.MissingCustomFields(s)
	if len(missing) > 0 {
		c.log.Debug(ctx, "custom fields missing", logger.Any("fields", missing))
	}
	return len(missing) == 0, nil
}

// TestConnection probes competitions.json. A meeting without competitions
// answers 404 and still counts as reachable.
func (c *Client) TestConnection(ctx context.Context) error {
	resp, err := c.do(ctx, "connection_test", http.MethodGet, "/competitions.json", nil, c.settingsTimeout, nil)
	if err != nil {
		return err
	}
	switch resp.status {
	case http.StatusOK, http.StatusNoContent, http.StatusNotFound:
		return nil
	default:
		return &StatusError{Op: "test connection", Status: resp.status}
	}
}

// Competitions lists the meeting's competitions. 404 is an empty meeting.
func (c *Client) Competitions(ctx context.Context) ([]model.RemoteCompetition, error) {
	var out []model.RemoteCompetition
	err := c.getJSON(ctx, "competitions", "/competitions.json", c.readTimeout, &out)
	if errors.Is(err, errNotFound) {
		return nil, nil
	}
	return out, err
}

// Results lists the results of a competition.
func (c *Client) Results(ctx context.Context, competitionID string) ([]model.RemoteResult, error) {
	return c.results(ctx, competitionID, c.readTimeout)
}

// HasResults reports whether any result of the competition is ranked. It
// uses the short check timeout.
func (c *Client) HasResults(ctx context.Context, competitionID string) (bool, error) {
	results, err := c.results(ctx, competitionID, c.checkTimeout)
	if err != nil {
		return false, err
	}
	for _, r := range results {
		if r.Ranked() {
			return true, nil
		}
	}
	return false, nil
}

func (c *Client) results(ctx context.Context, competitionID string, timeout time.Duration) ([]model.RemoteResult, error) {
	var out []model.RemoteResult
	path := "/competitions/" + url.PathEscape(competitionID) + "/results.json"
	if err := c.getJSON(ctx, "results", path, timeout, &out); err != nil {
		if errors.Is(err, errNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return out, nil
}

// Starts lists the starts of a competition.
func (c *Client) Starts(ctx context.Context, competitionID string) ([]model.RemoteStart, error) {
	var out []model.RemoteStart
	path := "/competitions/" + url.PathEscape(competitionID) + "/starts.json"
	err := c.getJSON(ctx, "starts", path, c.readTimeout, &out)
	if errors.Is(err, errNotFound) {
		return nil, nil
	}
	return out, err
}

// People lists the meeting's people.
func (c *Client) People(ctx context.Context) ([]model.RemotePerson, error) {
	var out []model.RemotePerson
	err := c.getJSON(ctx, "people", "/people.json", c.readTimeout, &out)
	if errors.Is(err, errNotFound) {
		return nil, nil
	}
	return out, err
}

// Horses lists the meeting's horses.
func (c *Client) Horses(ctx context.Context) ([]model.RemoteHorse, error) {
	var out []model.RemoteHorse
	err := c.getJSON(ctx, "horses", "/horses.json", c.readTimeout, &out)
	if errors.Is(err, errNotFound) {
		return nil, nil
	}
	return out, err
}

// Clubs lists the meeting's clubs.
func (c *Client) Clubs(ctx context.Context) ([]model.RemoteClub, error) {
	var out []model.RemoteClub
	err := c.getJSON(ctx, "clubs", "/clubs.json", c.readTimeout, &out)
	if errors.Is(err, errNotFound) {
		return nil, nil
	}
	return out, err
}

var errNotFound = &StatusError{Op: "get", Status: http.StatusNotFound}

type response struct {
	status int
	body   []byte
}

func (c *Client) getJSON(ctx context.Context, endpoint, path string, timeout time.Duration, dst any) error {
	resp, err := c.do(ctx, endpoint, http.MethodGet, path, nil, timeout, nil)
	if err != nil {
		return err
	}
	switch {
	case resp.status == http.StatusNotFound:
		return errNotFound
	case resp.status != http.StatusOK:
		return &StatusError{Op: "get " + endpoint, Status: resp.status}
	}
	if len(bytes.TrimSpace(resp.body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(resp.body, dst); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrDecode, endpoint, err)
	}
	return nil
}

func (c *Client) do(ctx context.Context, endpoint, method, path string, body []byte, timeout time.Duration, headers map[string]string) (*response, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	target := c.baseURL + path
	var rdr io.Reader
	if body != nil {
		rdr = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, rdr)
	if err != nil {
		return nil, &TransportError{Op: method, URL: target, Err: err}
	}
	req.Header.Set(HeaderAPIKey, c.apiKey)
	req.Header.Set("Accept", contentJSON)
	if body != nil {
		req.Header.Set("Content-Type", contentJSON)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	start := time.Now()
	res, err := c.http.Do(req)
	if err != nil {
		err = &TransportError{Op: method, URL: target, Err: err}
		c.observe(endpoint, start, err)
		c.log.Warn(ctx, "platform request failed",
			logger.String("endpoint", endpoint), logger.Error(err))
		return nil, err
	}
	defer res.Body.Close()

	data, err := io.ReadAll(res.Body)
	if err != nil {
		err = &TransportError{Op: method, URL: target, Err: err}
		c.observe(endpoint, start, err)
		return nil, err
	}
	var statusErr error
	if res.StatusCode >= 400 && res.StatusCode != http.StatusNotFound {
		statusErr = &StatusError{Op: endpoint, Status: res.StatusCode}
	}
	c.observe(endpoint, start, statusErr)
	c.log.Debug(ctx, "platform request",
		logger.String("endpoint", endpoint),
		logger.String("method", method),
		logger.Int("status", res.StatusCode),
		logger.Int("bytes", len(data)))
	return &response{status: res.StatusCode, body: data}, nil
}

func (c *Client) observe(endpoint string, start time.Time, err error) {
	if c.obs != nil {
		c.obs.ObservePlatformRequest(endpoint, time.Since(start).Seconds(), err)
	}
}

// errorMessage extracts "message" or "error" from a JSON error body, or
// falls back to the raw text.
func errorMessage(body []byte) string {
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		if payload.Message != "" {
			return payload.Message
		}
		if payload.Error != "" {
			return payload.Error
		}
	}
	msg := strings.TrimSpace(string(body))
	if len(msg) > maxMessageLen {
		msg = msg[:maxMessageLen]
	}
	return msg
}
