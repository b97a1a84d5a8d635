// Package client talks to the admin API on behalf of the dashboard. It owns
// the form sessions that validate locally, then submit a single multipart
// request per save.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/raf-alpha/api-go/apperr"
	"github.com/raf-alpha/api-go/lang"
)

var (
	ErrUnauthorized = apperr.ErrUnauthorized
	ErrForbidden    = apperr.ErrForbidden
)

// APIError is any non-2xx answer other than 401 and 403.
type APIError struct {
	StatusCode int
	Message    string
	Fields     []apperr.FieldError
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api: status %d", e.StatusCode)
	}
	return fmt.Sprintf("api: status %d: %s", e.StatusCode, e.Message)
}

// Unwrap lets callers match a rejected form with errors.Is(err, apperr.ErrValidation).
func (e *APIError) Unwrap() error {
	switch e.StatusCode {
	case http.StatusBadRequest:
		return apperr.ErrValidation
	case http.StatusNotFound:
		return apperr.ErrNotFound
	case http.StatusConflict:
		return apperr.ErrConflict
	}
	return nil
}

type Client struct {
	baseURL string
	http    *http.Client
	creds   CredentialProvider
	lang    lang.Lang
	log     *slog.Logger
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

func WithCredentials(p CredentialProvider) Option {
	return func(c *Client) { c.creds = p }
}

// WithLang selects the language of server messages for calls that are not
// tied to a form.
func WithLang(l lang.Lang) Option {
	return func(c *Client) { c.lang = l }
}

func WithLogger(log *slog.Logger) Option {
	return func(c *Client) { c.log = log }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{},
		creds:   StaticToken(""),
		lang:    lang.English,
		log:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.log = c.log.With("component", "client")
	return c
}

func (c *Client) Lang() lang.Lang { return c.lang }

// endpoint joins path to the base URL and adds the message language.
func (c *Client) endpoint(path string, l lang.Lang) string {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return c.baseURL + path + sep + "lang=" + url.QueryEscape(l.String())
}

func (c *Client) newRequest(ctx context.Context, method, target string, body io.Reader, contentType string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")

	token, err := c.creds.Token(ctx)
	if err != nil {
		return nil, fmt.Errorf("load token: %w", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req, nil
}

// send issues one request and decodes a 2xx JSON body into out when out is
// not nil.
func (c *Client) send(ctx context.Context, method, target string, body io.Reader, contentType string, out any) error {
	req, err := c.newRequest(ctx, method, target, body, contentType)
	if err != nil {
		return err
	}

	c.log.DebugContext(ctx, "api request", "method", method, "url", target)
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	if err := checkResponse(resp); err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", req.URL.Path, err)
	}
	return nil
}

func (c *Client) sendJSON(ctx context.Context, method, path string, l lang.Lang, in, out any) error {
	var body io.Reader
	contentType := ""
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(raw)
		contentType = "application/json"
	}
	return c.send(ctx, method, c.endpoint(path, l), body, contentType, out)
}

type errorResponse struct {
	Error   string              `json:"error"`
	Message string              `json:"message"`
	Fields  []apperr.FieldError `json:"fields"`
}

func checkResponse(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	var body errorResponse
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	_ = json.Unmarshal(raw, &body)
	msg := body.Error
	if msg == "" {
		msg = body.Message
	}

	switch resp.StatusCode {
	case http.StatusUnauthorized:
		return fmt.Errorf("%w: %s", ErrUnauthorized, msg)
	case http.StatusForbidden:
		return fmt.Errorf("%w: %s", ErrForbidden, msg)
	}
	return &APIError{StatusCode: resp.StatusCode, Message: msg, Fields: body.Fields}
}

// IsForbidden reports a 403, shown to the user as "not allowed".
func IsForbidden(err error) bool {
	return errors.Is(err, ErrForbidden)
}
