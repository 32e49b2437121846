// Package client talks to a running number game server.
package client

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/yulrizka/numbergame"
	"github.com/yulrizka/numbergame/api"
	"github.com/yulrizka/numbergame/model"
	"github.com/yulrizka/numbergame/qna"
)

// Client of the number game HTTP API
type Client struct {
	BaseURL string
	HTTP    *http.Client
}

// Result of a validation
type Result struct {
	Status  int
	Message string
}

// Correct reports whether the server accepted the answer
func (r Result) Correct() bool {
	return r.Status == http.StatusOK
}

// New creates a client, a nil hc uses a client with a 10 second timeout
func New(baseURL string, hc *http.Client) *Client {
	if hc == nil {
		hc = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTP:    hc,
	}
}

// Question asks the server for a new question
func (c *Client) Question(ctx context.Context) (qna.Question, error) {
	resp, body, err := c.get(ctx, "/question", nil)
	if err != nil {
		return qna.Question{}, err
	}
	if resp.StatusCode != http.StatusOK {
		return qna.Question{}, errors.Errorf("question: unexpected status %d: %s", resp.StatusCode, body)
	}

	q := qna.Question{
		ID:   resp.Header.Get(api.HeaderGameID),
		Text: string(body),
	}
	if q.ID == "" {
		return q, errors.New("question: response without game id")
	}
	if q.Numbers, err = qna.ParseNumbers(q.Text); err != nil {
		return q, errors.Wrapf(err, "question %q", q.Text)
	}

	return q, nil
}

// Validate sends an answer. Rejected answers are not errors, check
// Result.Correct.
func (c *Client) Validate(ctx context.Context, a numbergame.Answer) (Result, error) {
	v := url.Values{}
	v.Set("inputQuestion", a.Text)
	v.Set("sum", a.Sum)

	header := http.Header{}
	if a.ID != "" {
		header.Set(api.HeaderGameID, a.ID)
	}
	resp, body, err := c.get(ctx, "/validate?"+v.Encode(), header)
	if err != nil {
		return Result{}, err
	}
	if resp.StatusCode >= http.StatusInternalServerError {
		return Result{}, errors.Errorf("validate: unexpected status %d: %s", resp.StatusCode, body)
	}

	return Result{Status: resp.StatusCode, Message: string(body)}, nil
}

// Stats fetches the server counters
func (c *Client) Stats(ctx context.Context) (model.Stats, error) {
	resp, body, err := c.get(ctx, "/stats", nil)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("stats: unexpected status %d: %s", resp.StatusCode, body)
	}

	var stats model.Stats
	if err := json.Unmarshal(body, &stats); err != nil {
		return nil, errors.Wrap(err, "stats: decode")
	}
	return stats, nil
}

func (c *Client) get(ctx context.Context, path string, header http.Header) (*http.Response, []byte, error) {
	req, err := http.NewRequest(http.MethodGet, c.BaseURL+path, nil)
	if err != nil {
		return nil, nil, err
	}
	req = req.WithContext(ctx)
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "GET %s", path)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp, nil, errors.Wrapf(err, "GET %s: read body", path)
	}
	return resp, body, nil
}
