// Package client provides the thin HTTP helpers every service call goes
// through. GET and POST decode strictly and fail loudly; PATCH never fails on
// an unexpected response shape and instead reports whatever the server sent.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"time"

	"smartenergy/internal/models"
)

const defaultTimeout = 30 * time.Second

// Client issues requests against a single base URL, carrying ambient session
// credentials via a shared cookie jar.
type Client struct {
	baseURL string
	http    *http.Client
}

// New returns a client bound to baseURL (trailing slash trimmed).
func New(baseURL string) *Client {
	jar, _ := cookiejar.New(nil)
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Timeout: defaultTimeout,
			Jar:     jar,
		},
	}
}

func (c *Client) url(path string) string {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return c.baseURL + path
}

// GetJSON issues a GET and decodes the body into out. The HTTP status is not
// inspected: whatever JSON the server returns is handed to the caller, and a
// body that is not JSON is a transport failure.
func (c *Client) GetJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url(path), nil)
	if err != nil {
		return fmt.Errorf("get %s: %w", path, err)
	}
	return c.doJSON(req, out)
}

// PostJSON issues a POST with a JSON body and decodes the response into out.
// Same failure contract as GetJSON.
func (c *Client) PostJSON(ctx context.Context, path string, body, out any) error {
	buf, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("post %s: encode body: %w", path, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url(path), bytes.NewReader(buf))
	if err != nil {
		return fmt.Errorf("post %s: %w", path, err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.doJSON(req, out)
}

func (c *Client) doJSON(req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", strings.ToLower(req.Method), req.URL.Path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s %s: decode response: %w", strings.ToLower(req.Method), req.URL.Path, err)
	}
	return nil
}

// PatchJSON issues a PATCH with a JSON body and always returns an
// ActionResult when the server responds at all. JSON parse is attempted
// first; on failure the body is kept as plain text so error messages inside
// non-JSON responses stay visible. An error is returned only when the request
// itself could not be completed.
func (c *Client) PatchJSON(ctx context.Context, path string, body any) (models.ActionResult, error) {
	buf, err := json.Marshal(body)
	if err != nil {
		return models.ActionResult{}, fmt.Errorf("patch %s: encode body: %w", path, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, c.url(path), bytes.NewReader(buf))
	if err != nil {
		return models.ActionResult{}, fmt.Errorf("patch %s: %w", path, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return models.ActionResult{}, fmt.Errorf("patch %s: %w", path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	res := models.ActionResult{Status: resp.StatusCode}
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		// Body unreadable: status is all we have.
		return res, nil
	}

	var parsed models.ActionBody
	if json.Unmarshal(raw, &parsed) == nil {
		res.Body = &parsed
		res.Raw = raw
		res.OK = parsed.OK
	} else {
		res.Text = string(raw)
	}
	return res, nil
}

// Delete issues a DELETE and reports the HTTP status plus the parsed {ok,msg}
// body when the server sent JSON. Success for delete means both the transport
// succeeded (2xx) and the body declared ok:true; the caller applies that rule.
func (c *Client) Delete(ctx context.Context, path string) (int, *models.OKResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.url(path), nil)
	if err != nil {
		return 0, nil, fmt.Errorf("delete %s: %w", path, err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("delete %s: %w", path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	var body models.OKResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return resp.StatusCode, nil, nil
	}
	return resp.StatusCode, &body, nil
}
