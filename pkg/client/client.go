package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/orci-tz/mafunzo/internal/services"
)

// Client is a Go SDK for the survey API.
type Client struct {
	baseURL      string
	directoryURL string
	session      *Session
	httpClient   *http.Client
}

// Option configures the client
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.httpClient = client
	}
}

// WithTimeout sets the client timeout
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// WithSession shares a session between clients or restores a saved one.
func WithSession(s *Session) Option {
	return func(c *Client) {
		c.session = s
	}
}

// WithDirectoryURL points employee and department lookups at the HR
// directory service when it is not hosted next to the survey API.
func WithDirectoryURL(u string) Option {
	return func(c *Client) {
		c.directoryURL = strings.TrimRight(u, "/")
	}
}

func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		session: NewSession(),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.directoryURL == "" {
		c.directoryURL = c.baseURL
	}
	return c
}

func (c *Client) Session() *Session { return c.session }

// TokenPair is the login answer.
type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// Login exchanges credentials for tokens and stores them in the session.
func (c *Client) Login(ctx context.Context, username, password string) (*TokenPair, error) {
	body, err := json.Marshal(map[string]string{"username": username, "password": password})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}
	resp, status, err := c.doRequest(ctx, http.MethodPost, c.baseURL+"/api/v1/token/", bytes.NewReader(body), false)
	if err != nil {
		return nil, err
	}
	if err := c.readError(status, resp); err != nil {
		return nil, err
	}
	var pair TokenPair
	if err := json.Unmarshal(resp, &pair); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}
	if err := c.session.Set(pair.Access, pair.Refresh); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}
	return &pair, nil
}

// FetchResponses returns every stored response. The endpoint may answer with
// a bare list or a {results: [...]} envelope; both are normalised.
func (c *Client) FetchResponses(ctx context.Context) ([]services.ResponseRecord, error) {
	resp, err := c.get(ctx, c.baseURL+"/api/v1/responses/", true)
	if err != nil {
		return nil, err
	}
	records, err := services.DecodeRecordList(resp)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}
	return records, nil
}

// SubmitResponse posts one survey response. Any non-2xx answer is a *SubmitError.
func (c *Client) SubmitResponse(ctx context.Context, rec services.ResponseRecord) (*services.ResponseRecord, error) {
	body, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}
	resp, status, err := c.doRequest(ctx, http.MethodPost, c.baseURL+"/api/v1/responses/", bytes.NewReader(body), false)
	if err != nil {
		return nil, err
	}
	if status < 200 || status >= 300 {
		return nil, &SubmitError{Status: status, Body: string(resp)}
	}
	var stored services.ResponseRecord
	if err := json.Unmarshal(resp, &stored); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}
	return &stored, nil
}

func (c *Client) FetchSummary(ctx context.Context, locale string) (*services.Dashboard, error) {
	q := url.Values{}
	if locale != "" {
		q.Set("lang", locale)
	}
	resp, err := c.get(ctx, c.baseURL+"/api/v1/reports/summary?"+q.Encode(), true)
	if err != nil {
		return nil, err
	}
	var d services.Dashboard
	if err := json.Unmarshal(resp, &d); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}
	return &d, nil
}

func (c *Client) FetchYearMatrix(ctx context.Context, start, end int) (*services.YearMatrix, error) {
	resp, err := c.get(ctx, c.baseURL+"/api/v1/reports/year-matrix?"+yearQuery("", start, end), true)
	if err != nil {
		return nil, err
	}
	var m services.YearMatrix
	if err := json.Unmarshal(resp, &m); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}
	return &m, nil
}

// DownloadYearMatrix fetches the report rendered as csv, xlsx or pdf.
func (c *Client) DownloadYearMatrix(ctx context.Context, format string, start, end int) (*services.ExportResult, error) {
	req, err := c.newRequest(ctx, http.MethodGet, c.baseURL+"/api/v1/reports/year-matrix?"+yearQuery(format, start, end), nil, true)
	if err != nil {
		return nil, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if err := c.readError(resp.StatusCode, data); err != nil {
		return nil, err
	}
	name := fmt.Sprintf("Training_Report_%d_%d.%s", start, end, format)
	if _, params, err := mime.ParseMediaType(resp.Header.Get("Content-Disposition")); err == nil && params["filename"] != "" {
		name = params["filename"]
	}
	return &services.ExportResult{Filename: name, ContentType: resp.Header.Get("Content-Type"), Data: data}, nil
}

// FetchEmployees loads the staff directory used for PF number autofill.
func (c *Client) FetchEmployees(ctx context.Context) ([]services.Employee, error) {
	resp, err := c.get(ctx, c.directoryURL+"/api/users?size=1000000", true)
	if err != nil {
		return nil, err
	}
	return services.DecodeEmployeeList(resp)
}

// FetchDepartments loads departments with their sections.
func (c *Client) FetchDepartments(ctx context.Context) ([]services.Department, error) {
	resp, err := c.get(ctx, c.directoryURL+"/api/v1/departments?pageSize=1000&size=1000", true)
	if err != nil {
		return nil, err
	}
	return services.DecodeDepartmentList(resp)
}

func yearQuery(format string, start, end int) string {
	q := url.Values{}
	if format != "" {
		q.Set("format", format)
	}
	if start != 0 {
		q.Set("start", strconv.Itoa(start))
	}
	if end != 0 {
		q.Set("end", strconv.Itoa(end))
	}
	return q.Encode()
}

func (c *Client) get(ctx context.Context, u string, auth bool) ([]byte, error) {
	resp, status, err := c.doRequest(ctx, http.MethodGet, u, nil, auth)
	if err != nil {
		return nil, err
	}
	if err := c.readError(status, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// readError maps a non-2xx status to the read error taxonomy. A 401 also
// clears the session.
func (c *Client) readError(status int, body []byte) error {
	switch {
	case status >= 200 && status < 300:
		return nil
	case status == http.StatusUnauthorized:
		_ = c.session.Clear()
		return ErrUnauthorized
	case status == http.StatusForbidden:
		return ErrForbidden
	default:
		return &FetchError{Status: status, Body: strings.TrimSpace(string(body))}
	}
}

func (c *Client) newRequest(ctx context.Context, method, u string, body io.Reader, auth bool) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if tok := c.session.Token(); auth && tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}
	return req, nil
}

func (c *Client) doRequest(ctx context.Context, method, u string, body io.Reader, auth bool) ([]byte, int, error) {
	req, err := c.newRequest(ctx, method, u, body, auth)
	if err != nil {
		return nil, 0, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("failed to read response: %w", err)
	}
	return respBody, resp.StatusCode, nil
}
