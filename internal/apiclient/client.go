// Package apiclient is the HTTP client of the ESG API. It attaches the
// session's bearer token, refreshes it when it expires or the server rejects
// it, and normalizes every response into a value or an error.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"esgboard/internal/dto"
	"esgboard/internal/session"
)

// ErrUnauthenticated means there is no usable session: the user never signed
// in or the refresh token was rejected. The session has been cleared.
var ErrUnauthenticated = errors.New("not signed in")

// APIError is a response whose transport or body status is not 2xx.
type APIError struct {
	Method  string
	Path    string
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s %s: status %d", e.Method, e.Path, e.Status)
	}
	return fmt.Sprintf("%s %s: %s (status %d)", e.Method, e.Path, e.Message, e.Status)
}

// expirySkew refreshes tokens slightly before they expire.
const expirySkew = 30 * time.Second

const refreshPath = "/users/refresh-token"

type Client struct {
	baseURL *url.URL
	http    *http.Client
	session *session.Store
	log     *zap.Logger
	now     func() time.Time

	refreshMu sync.Mutex
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

func WithLogger(log *zap.Logger) Option {
	return func(c *Client) { c.log = log }
}

func New(baseURL string, store *session.Store, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("base url %q must be http or https", baseURL)
	}
	c := &Client{
		baseURL: u,
		http:    &http.Client{Timeout: 30 * time.Second},
		session: store,
		log:     zap.NewNop(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Session returns the store the client reads its tokens from.
func (c *Client) Session() *session.Store {
	return c.session
}

func (c *Client) Get(ctx context.Context, path string, query url.Values, out any) error {
	return c.Do(ctx, http.MethodGet, path, query, nil, out)
}

func (c *Client) Post(ctx context.Context, path string, query url.Values, body, out any) error {
	return c.Do(ctx, http.MethodPost, path, query, body, out)
}

func (c *Client) Put(ctx context.Context, path string, query url.Values, body, out any) error {
	return c.Do(ctx, http.MethodPut, path, query, body, out)
}

func (c *Client) Delete(ctx context.Context, path string, query url.Values, out any) error {
	return c.Do(ctx, http.MethodDelete, path, query, nil, out)
}

// Do sends an authenticated request and decodes the envelope's data into out,
// which may be nil.
func (c *Client) Do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	return c.do(ctx, method, path, query, body, out, true)
}

// DoPublic sends a request without a bearer token.
func (c *Client) DoPublic(ctx context.Context, method, path string, query url.Values, body, out any) error {
	return c.do(ctx, method, path, query, body, out, false)
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any, authenticated bool) error {
	resp, err := c.send(ctx, method, path, query, body, authenticated)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return c.decode(method, path, resp, out)
}

// Download streams a non-JSON response body into w.
func (c *Client) Download(ctx context.Context, path string, query url.Values, w io.Writer) error {
	resp, err := c.send(ctx, http.MethodGet, path, query, nil, true)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if isJSON(resp) || resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.decode(http.MethodGet, path, resp, nil)
	}
	if _, err := io.Copy(w, resp.Body); err != nil {
		return fmt.Errorf("GET %s: %w", path, err)
	}
	return nil
}

// send performs the request, refreshing the access token first when it is
// missing or expired and once more when the server answers 401. The returned
// response is never a 401 the client could still recover from.
func (c *Client) send(ctx context.Context, method, path string, query url.Values, body any, authenticated bool) (*http.Response, error) {
	var payload []byte
	if body != nil {
		var err error
		if payload, err = json.Marshal(body); err != nil {
			return nil, fmt.Errorf("encode %s %s: %w", method, path, err)
		}
	}

	token := ""
	if authenticated {
		var err error
		if token, err = c.validAccessToken(ctx); err != nil {
			return nil, err
		}
	}

	resp, err := c.roundTrip(ctx, method, path, query, payload, token)
	if err != nil || !authenticated {
		return resp, err
	}
	if !c.unauthorized(resp) {
		return resp, nil
	}

	c.log.Debug("Access token rejected, refreshing", zap.String("path", path))
	if token, err = c.refresh(ctx, token); err != nil {
		return nil, err
	}
	return c.roundTrip(ctx, method, path, query, payload, token)
}

func (c *Client) roundTrip(ctx context.Context, method, path string, query url.Values, payload []byte, token string) (*http.Response, error) {
	u := *c.baseURL
	u.Path = c.baseURL.Path + path
	q := u.Query()
	for k, vs := range query {
		for _, v := range vs {
			q.Add(k, v)
		}
	}
	u.RawQuery = q.Encode()

	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, u.String(), reader)
	if err != nil {
		return nil, fmt.Errorf("build %s %s: %w", method, path, err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Accept-Language", string(c.session.Lang()))
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := c.now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	c.log.Debug("API request",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("latency", c.now().Sub(start)),
	)
	return resp, nil
}

// unauthorized reports a 401 in the transport status or in a JSON body. A body
// that had to be read is replaced so the caller can still decode it.
func (c *Client) unauthorized(resp *http.Response) bool {
	if resp.StatusCode == http.StatusUnauthorized {
		resp.Body.Close()
		return true
	}
	if !isJSON(resp) {
		return false
	}
	raw, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	resp.Body = io.NopCloser(bytes.NewReader(raw))
	if err != nil {
		return false
	}
	var env dto.Envelope[json.RawMessage]
	if json.Unmarshal(raw, &env) != nil {
		return false
	}
	return env.Status == http.StatusUnauthorized
}

func (c *Client) decode(method, path string, resp *http.Response, out any) error {
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%s %s: read body: %w", method, path, err)
	}
	var env dto.Envelope[json.RawMessage]
	if err := json.Unmarshal(raw, &env); err != nil {
		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			return &APIError{Method: method, Path: path, Status: resp.StatusCode, Message: strings.TrimSpace(string(raw))}
		}
		return fmt.Errorf("%s %s: decode envelope: %w", method, path, err)
	}
	if env.Status == 0 {
		env.Status = resp.StatusCode
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 || !env.OK() {
		status := env.Status
		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			status = resp.StatusCode
		}
		return &APIError{Method: method, Path: path, Status: status, Message: env.Message}
	}
	if out == nil || len(env.Data) == 0 || string(env.Data) == "null" {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("%s %s: decode data: %w", method, path, err)
	}
	return nil
}

// validAccessToken returns the stored access token, refreshing it first when
// it is missing or about to expire.
func (c *Client) validAccessToken(ctx context.Context) (string, error) {
	token := c.session.AccessToken()
	if token != "" && !c.expired(token) {
		return token, nil
	}
	if c.session.RefreshToken() == "" {
		return "", ErrUnauthenticated
	}
	return c.refresh(ctx, token)
}

// expired reads the exp claim without verifying the signature; the server
// remains the authority on validity.
func (c *Client) expired(token string) bool {
	var claims jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return true
	}
	if claims.ExpiresAt == nil {
		return false
	}
	return !c.now().Add(expirySkew).Before(claims.ExpiresAt.Time)
}

// refresh exchanges the refresh token for a new pair. stale is the access
// token that failed; if another request already replaced it, the new one is
// reused. A rejected refresh clears the session.
func (c *Client) refresh(ctx context.Context, stale string) (string, error) {
	c.refreshMu.Lock()
	defer c.refreshMu.Unlock()

	if current := c.session.AccessToken(); current != "" && current != stale && !c.expired(current) {
		return current, nil
	}
	refreshToken := c.session.RefreshToken()
	if refreshToken == "" {
		return "", ErrUnauthenticated
	}

	var res dto.AuthResult
	err := c.DoPublic(ctx, http.MethodPost, refreshPath, nil, dto.RefreshRequest{RefreshToken: refreshToken}, &res)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) {
			c.log.Info("Refresh token rejected, clearing session", zap.Int("status", apiErr.Status))
			if clearErr := c.session.Clear(); clearErr != nil {
				c.log.Warn("Failed to clear session", zap.Error(clearErr))
			}
			return "", fmt.Errorf("%w: %v", ErrUnauthenticated, err)
		}
		return "", err
	}
	if err := c.session.SetLogin(res); err != nil {
		c.log.Warn("Failed to persist refreshed tokens", zap.Error(err))
	}
	return res.AccessToken, nil
}

func isJSON(resp *http.Response) bool {
	mt, _, err := mime.ParseMediaType(resp.Header.Get("Content-Type"))
	return err == nil && mt == "application/json"
}
