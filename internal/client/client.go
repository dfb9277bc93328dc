// Package client talks to the reviewer resource over HTTP.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"evaluation/internal/model"

	"go.uber.org/zap"
)

// Resource names a list endpoint together with the key its records arrive under.
type Resource struct {
	Path string
	Key  string
}

var (
	ReviewerList = Resource{Path: "reviewer/list", Key: "reviewers"}
	Reviewer     = Resource{Path: "reviewer", Key: "reviewer"}
	Evaluation   = Resource{Path: "evaluation", Key: "evaluation"}
)

// ParseResource accepts reviewer-list, reviewer or evaluation.
func ParseResource(s string) (Resource, error) {
	switch s {
	case "reviewer-list", "list", "":
		return ReviewerList, nil
	case "reviewer":
		return Reviewer, nil
	case "evaluation":
		return Evaluation, nil
	}
	return Resource{}, fmt.Errorf("unknown resource %q", s)
}

// Sort is the optional sort_column/asc pair of a list request.
type Sort struct {
	Column int
	Asc    bool
}

var ErrTransport = errors.New("request failed")

// APIError is a non-2xx answer from the resource.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("server returned %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("server returned %d %s: %s", e.Status, e.Code, e.Message)
}

type Client struct {
	baseURL *url.URL
	http    *http.Client
	log     *zap.Logger
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

func WithLogger(log *zap.Logger) Option {
	return func(c *Client) {
		if log != nil {
			c.log = log
		}
	}
}

func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/") + "/")
	if err != nil {
		return nil, fmt.Errorf("invalid server url %q: %w", baseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid server url %q: scheme must be http or https", baseURL)
	}

	c := &Client{baseURL: u, http: &http.Client{}, log: zap.NewNop()}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// List fetches a resource's records in the order the server sent them.
// A nil sort leaves ordering to the server.
func (c *Client) List(ctx context.Context, res Resource, sort *Sort) ([]model.Record, error) {
	q := url.Values{}
	if sort != nil {
		q.Set("sort_column", strconv.Itoa(sort.Column))
		q.Set("asc", strconv.FormatBool(sort.Asc))
	}

	var body map[string][]model.Record
	if err := c.do(ctx, http.MethodGet, res.Path, q, nil, "", &body); err != nil {
		return nil, err
	}
	records, ok := body[res.Key]
	if !ok {
		return nil, fmt.Errorf("%w: response has no %q field", ErrTransport, res.Key)
	}
	return records, nil
}

// Get fetches one reviewer's row.
func (c *Client) Get(ctx context.Context, name string) (model.Record, error) {
	var rec model.Record
	err := c.do(ctx, http.MethodGet, "reviewer/"+name, nil, nil, "", &rec)
	return rec, err
}

// Put writes one new row with body {name, skill_score, experience_score, hire}.
func (c *Client) Put(ctx context.Context, rec model.Record) error {
	payload, err := json.Marshal(struct {
		Name            string `json:"name"`
		SkillScore      int    `json:"skill_score"`
		ExperienceScore int    `json:"experience_score"`
		Hire            int    `json:"hire"`
	}{rec.Name, rec.SkillScore, rec.ExperienceScore, rec.Hire})
	if err != nil {
		return err
	}
	return c.do(ctx, http.MethodPut, "reviewer", nil, bytes.NewReader(payload), "application/json", nil)
}

// Update changes the given fields of an existing row; nil fields are left alone.
func (c *Client) Update(ctx context.Context, name string, skill, experience, hire *int) error {
	form := url.Values{}
	for key, v := range map[string]*int{"skill_score": skill, "experience_score": experience, "hire": hire} {
		if v != nil {
			form.Set(key, strconv.Itoa(*v))
		}
	}
	return c.do(ctx, http.MethodPost, "reviewer/"+name, nil,
		strings.NewReader(form.Encode()), "application/x-www-form-urlencoded", nil)
}

func (c *Client) Delete(ctx context.Context, name string) error {
	return c.do(ctx, http.MethodDelete, "reviewer/"+name, nil, nil, "", nil)
}

// Average fetches the server-computed mean of every row.
func (c *Client) Average(ctx context.Context) (model.AverageSummary, error) {
	var avg model.AverageSummary
	err := c.do(ctx, http.MethodGet, "reviewer/average", nil, nil, "", &avg)
	return avg, err
}

// Import uploads CSV files for background import and returns the accepted names.
func (c *Client) Import(ctx context.Context, paths ...string) ([]string, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for _, path := range paths {
		if err := addFile(writer, path); err != nil {
			return nil, err
		}
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}

	var resp struct {
		Files []string `json:"files"`
	}
	if err := c.do(ctx, http.MethodPost, "reviewer/import", nil, body, writer.FormDataContentType(), &resp); err != nil {
		return nil, err
	}
	return resp.Files, nil
}

func addFile(writer *multipart.Writer, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	part, err := writer.CreateFormFile("files", filepath.Base(path))
	if err != nil {
		return err
	}
	_, err = io.Copy(part, f)
	return err
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body io.Reader, contentType string, out any) error {
	u := c.baseURL.JoinPath(path)
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrTransport, err)
	}
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn("request failed", zap.String("method", method), zap.String("url", u.String()), zap.Error(err))
		return fmt.Errorf("%w: %s %s: %w", ErrTransport, method, path, err)
	}
	defer resp.Body.Close()

	c.log.Debug("request",
		zap.String("method", method),
		zap.String("url", u.String()),
		zap.Int("status", resp.StatusCode),
		zap.Duration("took", time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeAPIError(resp)
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode %s %s: %w", ErrTransport, method, path, err)
	}
	return nil
}

func decodeAPIError(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode}
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))

	var body struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}
	if json.Unmarshal(data, &body) == nil && (body.Code != "" || body.Message != "") {
		apiErr.Code = body.Code
		apiErr.Message = body.Message
	} else {
		apiErr.Message = strings.TrimSpace(string(data))
		if apiErr.Message == "" {
			apiErr.Message = http.StatusText(resp.StatusCode)
		}
	}
	return apiErr
}
