package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"esgboard/internal/dto"
	"esgboard/internal/i18n"
	"esgboard/internal/session"
)

func signed(t *testing.T, exp time.Time) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "1",
		ExpiresAt: jwt.NewNumericDate(exp),
		ID:        exp.String(),
	}).SignedString([]byte("test"))
	require.NoError(t, err)
	return tok
}

func writeEnvelope(w http.ResponseWriter, transport int, env dto.Envelope[any]) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(transport)
	_ = json.NewEncoder(w).Encode(env)
}

// fakeAPI accepts exactly one access token; /users/refresh-token swaps in a
// new one when given the expected refresh token.
type fakeAPI struct {
	t          *testing.T
	access     atomic.Value
	refresh    string
	refreshes  atomic.Int32
	bodyStatus bool
}

func (f *fakeAPI) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/users/refresh-token", func(w http.ResponseWriter, r *http.Request) {
		f.refreshes.Add(1)
		var req dto.RefreshRequest
		require.NoError(f.t, json.NewDecoder(r.Body).Decode(&req))
		if req.RefreshToken != f.refresh {
			writeEnvelope(w, http.StatusUnauthorized, dto.Envelope[any]{Status: http.StatusUnauthorized, Message: "Unauthorized"})
			return
		}
		next := signed(f.t, time.Now().Add(time.Hour))
		f.access.Store(next)
		writeEnvelope(w, http.StatusOK, dto.Envelope[any]{Status: http.StatusOK, Data: dto.AuthResult{
			AccessToken: next, RefreshToken: f.refresh, User: dto.Profile{ID: 1, Username: "a@example.com"},
		}})
	})
	mux.HandleFunc("/users/profile", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer "+f.access.Load().(string) {
			transport := http.StatusUnauthorized
			if f.bodyStatus {
				transport = http.StatusOK
			}
			writeEnvelope(w, transport, dto.Envelope[any]{Status: http.StatusUnauthorized, Message: "Unauthorized"})
			return
		}
		writeEnvelope(w, http.StatusOK, dto.Envelope[any]{Status: http.StatusOK, Data: dto.Profile{ID: 1, Username: "a@example.com"}})
	})
	mux.HandleFunc("/webapp/questions/add-answer", func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusOK, dto.Envelope[any]{Status: http.StatusBadRequest, Message: "Year must be between 2000 and 2100"})
	})
	mux.HandleFunc("/webapp/report/export", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(f.t, "2023", r.URL.Query().Get("year"))
		w.Header().Set("Content-Type", "application/octet-stream")
		_, _ = w.Write([]byte("PK-xlsx"))
	})
	return mux
}

func newFake(t *testing.T, access string) (*fakeAPI, *Client, *session.Store) {
	t.Helper()
	f := &fakeAPI{t: t, refresh: "refresh-1"}
	f.access.Store(access)
	srv := httptest.NewServer(f.handler())
	t.Cleanup(srv.Close)

	store := session.New()
	c, err := New(srv.URL, store, WithTimeout(5*time.Second))
	require.NoError(t, err)
	return f, c, store
}

func TestValidTokenIsSent(t *testing.T) {
	access := signed(t, time.Now().Add(time.Hour))
	f, c, store := newFake(t, access)
	require.NoError(t, store.SetTokens(access, "refresh-1"))

	p, err := c.Profile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "a@example.com", p.Username)
	assert.Zero(t, f.refreshes.Load())
	require.NotNil(t, store.Snapshot().User)
}

func TestExpiredTokenIsRefreshedFirst(t *testing.T) {
	current := signed(t, time.Now().Add(time.Hour))
	f, c, store := newFake(t, current)
	require.NoError(t, store.SetTokens(signed(t, time.Now().Add(-time.Minute)), "refresh-1"))

	_, err := c.Profile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(1), f.refreshes.Load())
	assert.Equal(t, f.access.Load().(string), store.AccessToken())
}

func TestRejectedTokenIsRefreshed(t *testing.T) {
	for _, bodyStatus := range []bool{false, true} {
		f, c, store := newFake(t, "server-side-only")
		f.bodyStatus = bodyStatus
		require.NoError(t, store.SetTokens(signed(t, time.Now().Add(time.Hour)), "refresh-1"))

		_, err := c.Profile(context.Background())
		require.NoError(t, err, "bodyStatus=%v", bodyStatus)
		assert.Equal(t, int32(1), f.refreshes.Load())
	}
}

func TestFailedRefreshClearsSession(t *testing.T) {
	f, c, store := newFake(t, "server-side-only")
	require.NoError(t, store.SetTokens(signed(t, time.Now().Add(-time.Minute)), "stolen"))
	require.NoError(t, store.SetLang(i18n.VI))

	_, err := c.Profile(context.Background())
	assert.ErrorIs(t, err, ErrUnauthenticated)
	assert.Equal(t, int32(1), f.refreshes.Load())
	assert.False(t, store.Snapshot().LoggedIn())
	assert.Equal(t, i18n.VI, store.Lang())
}

func TestNoSessionNeverHitsNetwork(t *testing.T) {
	f, c, _ := newFake(t, "x")
	_, err := c.Profile(context.Background())
	assert.ErrorIs(t, err, ErrUnauthenticated)
	assert.Zero(t, f.refreshes.Load())
}

func TestBodyStatusBecomesAPIError(t *testing.T) {
	access := signed(t, time.Now().Add(time.Hour))
	_, c, store := newFake(t, access)
	require.NoError(t, store.SetTokens(access, "refresh-1"))

	err := c.SubmitAnswers(context.Background(), i18n.EN, dto.Submission{Section: "WATER", Year: 1999})
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr), "got %v", err)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Contains(t, apiErr.Message, "2000")
}

func TestDownload(t *testing.T) {
	access := signed(t, time.Now().Add(time.Hour))
	_, c, store := newFake(t, access)
	require.NoError(t, store.SetTokens(access, "refresh-1"))

	var buf bytes.Buffer
	require.NoError(t, c.ExportReport(context.Background(), 2023, i18n.EN, &buf))
	assert.Equal(t, "PK-xlsx", buf.String())
}

func TestNewRejectsBadURL(t *testing.T) {
	_, err := New("ftp://example.com", session.New())
	assert.Error(t, err)
}
