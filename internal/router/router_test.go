package router

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"esgboard/internal/auth"
	"esgboard/internal/catalog"
	"esgboard/internal/config"
	"esgboard/internal/database"
	"esgboard/internal/dto"
	"esgboard/internal/models"
	"esgboard/internal/repository"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	m.Run()
}

const testBank = `
questions:
  - code: WA_CONSUMPTION
    section: WATER
    type: numeric
    name: {en: Water consumption, vi: Lượng nước tiêu thụ}
  - code: WA_RECYCLED
    section: WATER
    type: numeric
    name: {en: Water recycled}
  - code: WA_POLICY
    section: WATER
    type: boolean
    name: {en: Has a water policy}
`

type testServer struct {
	t         *testing.T
	engine    *gin.Engine
	repo      *repository.Repository
	submitted atomic.Int32
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	db, err := database.OpenMemory(zap.NewNop())
	require.NoError(t, err)
	bank, err := models.ParseQuestionBank([]byte(testBank))
	require.NoError(t, err)
	require.NoError(t, database.SeedQuestions(db, bank, zap.NewNop()))

	conf := &config.Config{
		Server: config.ServerConfig{SessionSecret: "test-session-secret-0123456789", LoginRate: 1000},
		Auth: config.AuthConfig{
			AccessSecret:  "access-secret",
			RefreshSecret: "refresh-secret",
			AccessTTL:     time.Hour,
			RefreshTTL:    2 * time.Hour,
		},
	}
	ts := &testServer{t: t, repo: repository.New(db)}
	ts.engine, err = Setup(Deps{
		Log:      zap.NewNop(),
		Config:   conf,
		Repo:     ts.repo,
		Tokens:   auth.NewManager(conf.Auth),
		Catalog:  catalog.Default(),
		OnSubmit: func() { ts.submitted.Add(1) },
	})
	require.NoError(t, err)
	return ts
}

func (ts *testServer) do(method, path string, body any, token string) *httptest.ResponseRecorder {
	ts.t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(ts.t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	ts.engine.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) dto.Envelope[T] {
	t.Helper()
	var env dto.Envelope[T]
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return env
}

func (ts *testServer) register(username string) dto.AuthResult {
	ts.t.Helper()
	rec := ts.do(http.MethodPost, "/auth/register", dto.Credentials{
		Username: username, Password: "Secret#123", CompanyName: "Acme",
	}, "")
	require.Equal(ts.t, http.StatusOK, rec.Code, rec.Body.String())
	return decode[dto.AuthResult](ts.t, rec).Data
}

func TestRegisterLoginProfile(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(http.MethodPost, "/auth/register", dto.Credentials{Username: "a@example.com", Password: "weak"}, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = ts.do(http.MethodPost, "/auth/register", dto.Credentials{Username: "not-an-email", Password: "Secret#123"}, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	res := ts.register("a@example.com")
	assert.NotEmpty(t, res.AccessToken)
	assert.NotEmpty(t, res.RefreshToken)
	assert.Equal(t, "Acme", res.User.CompanyName)

	rec = ts.do(http.MethodPost, "/auth/register", dto.Credentials{Username: "a@example.com", Password: "Secret#123"}, "")
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = ts.do(http.MethodPost, "/auth/login", dto.Credentials{Username: "a@example.com", Password: "Wrong#123"}, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, http.StatusUnauthorized, decode[any](t, rec).Status)

	rec = ts.do(http.MethodPost, "/auth/login", dto.Credentials{Username: "a@example.com", Password: "Secret#123"}, "")
	require.Equal(t, http.StatusOK, rec.Code)
	login := decode[dto.AuthResult](t, rec).Data

	rec = ts.do(http.MethodGet, "/users/profile", nil, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = ts.do(http.MethodGet, "/users/profile", nil, login.AccessToken)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "a@example.com", decode[dto.Profile](t, rec).Data.Username)

	// refresh tokens are not accepted as access tokens
	rec = ts.do(http.MethodGet, "/users/profile", nil, login.RefreshToken)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRefreshRotatesAndLogoutRevokes(t *testing.T) {
	ts := newTestServer(t)
	res := ts.register("b@example.com")

	rec := ts.do(http.MethodPost, "/users/refresh-token", dto.RefreshRequest{RefreshToken: res.RefreshToken}, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	rotated := decode[dto.AuthResult](t, rec).Data
	assert.NotEqual(t, res.RefreshToken, rotated.RefreshToken)

	rec = ts.do(http.MethodPost, "/users/refresh-token", dto.RefreshRequest{RefreshToken: res.RefreshToken}, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = ts.do(http.MethodGet, "/auth/logout", nil, rotated.AccessToken)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = ts.do(http.MethodPost, "/users/refresh-token", dto.RefreshRequest{RefreshToken: rotated.RefreshToken}, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestQuestionnaireEndpoints(t *testing.T) {
	ts := newTestServer(t)
	token := ts.register("c@example.com").AccessToken

	rec := ts.do(http.MethodGet, "/webapp/questions/get-all-topics-and-questions/?section=WATER&lang=vi", nil, token)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	questions := decode[[]dto.Question](t, rec).Data
	require.Len(t, questions, 3)
	assert.Equal(t, "Lượng nước tiêu thụ", questions[0].Name)
	assert.Equal(t, dto.TypeBoolean, questions[2].Type)
	assert.Len(t, questions[2].Options, 2)

	rec = ts.do(http.MethodGet, "/webapp/questions/get-all-topics-and-questions/?section=NOPE", nil, token)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	bad := dto.Submission{Section: "WATER", Year: 1999}
	rec = ts.do(http.MethodPost, "/webapp/questions/add-answer?lang=en", bad, token)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	unknown := dto.Submission{Section: "WATER", Year: 2023, Answers: []dto.SubmittedAnswer{{QuestionCode: "EM_SCOPE1", Answer: 1.0}}}
	rec = ts.do(http.MethodPost, "/webapp/questions/add-answer", unknown, token)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	outOfRange := dto.Submission{Section: "WATER", Year: 2023, Answers: []dto.SubmittedAnswer{{QuestionCode: "WA_POLICY", Answer: "3"}}}
	rec = ts.do(http.MethodPost, "/webapp/questions/add-answer", outOfRange, token)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Zero(t, ts.submitted.Load())

	sub := dto.Submission{Section: "WATER", Year: 2023, Answers: []dto.SubmittedAnswer{
		{QuestionCode: "WA_CONSUMPTION", Answer: 120.5},
		{QuestionCode: "WA_RECYCLED", Answer: nil},
		{QuestionCode: "WA_POLICY", Answer: "1"},
	}}
	rec = ts.do(http.MethodPost, "/webapp/questions/add-answer?lang=en", sub, token)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "Answers submitted", decode[int](t, rec).Message)
	assert.Equal(t, int32(1), ts.submitted.Load())

	rec = ts.do(http.MethodGet, "/webapp/questions/get-all-answers-of-year?section=WATER&year=2023", nil, token)
	require.Equal(t, http.StatusOK, rec.Code)
	stored := map[string]any{}
	for _, a := range decode[[]dto.StoredAnswer](t, rec).Data {
		stored[a.QuestionCode] = a.Answer
	}
	assert.Equal(t, map[string]any{"WA_CONSUMPTION": 120.5, "WA_RECYCLED": nil, "WA_POLICY": "1"}, stored)

	rec = ts.do(http.MethodGet, "/webapp/questions/get-all-answers-of-year?section=WATER&year=abc", nil, token)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = ts.do(http.MethodGet, "/webapp/questions/get-all-submitcount-of-section?year=2023", nil, token)
	require.Equal(t, http.StatusOK, rec.Code)
	counts := decode[[]dto.SectionSubmitCount](t, rec).Data
	require.Len(t, counts, 1)
	assert.Equal(t, "WATER", counts[0].SectionName)
	assert.Equal(t, 1, counts[0].SubmitCount)
}

func TestTargetEndpoints(t *testing.T) {
	ts := newTestServer(t)
	token := ts.register("d@example.com").AccessToken

	sub := dto.Submission{Section: "WATER", Year: 2030, Answers: []dto.SubmittedAnswer{
		{QuestionCode: "WA_CONSUMPTION", Answer: 100.0},
	}}
	rec := ts.do(http.MethodPost, "/webapp/targets/add-answer?targetType=forever", sub, token)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = ts.do(http.MethodPost, "/webapp/targets/add-answer?targetType=short", sub, token)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Zero(t, ts.submitted.Load())

	rec = ts.do(http.MethodGet, "/webapp/targets/get-all-answers-of-year?section=WATER&year=2030&targetType=short", nil, token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]dto.StoredAnswer](t, rec).Data, 1)

	rec = ts.do(http.MethodGet, "/webapp/questions/get-all-answers-of-year?section=WATER&year=2030", nil, token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode[[]dto.StoredAnswer](t, rec).Data)

	rec = ts.do(http.MethodGet, "/webapp/targets/get-all-submitcount-of-section?year=2030", nil, token)
	require.Equal(t, http.StatusOK, rec.Code)
	var water *dto.SectionProgress
	progress := decode[[]dto.SectionProgress](t, rec).Data
	for i := range progress {
		if progress[i].SectionName == "WATER" {
			water = &progress[i]
		}
	}
	require.NotNil(t, water)
	assert.InDelta(t, 33.33, water.PercentileCompleted, 0.01)
}

func TestCompanyInfo(t *testing.T) {
	ts := newTestServer(t)
	token := ts.register("e@example.com").AccessToken

	rec := ts.do(http.MethodGet, "/webapp/user/get-all-company-infor", nil, token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Acme", decode[dto.CompanyInfo](t, rec).Data.OverallInfor.CompanyName)

	update := dto.CompanyInfo{
		OverallInfor: dto.OverallInfo{CompanyName: "Acme Green", DateFounder: 2001},
		SiteInfors:   []dto.SiteInfo{{SiteName: "Hanoi", NumberEmployees: 12}},
	}
	rec = ts.do(http.MethodPost, "/webapp/user/update-company-infor", update, token)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = ts.do(http.MethodGet, "/webapp/user/get-all-company-infor", nil, token)
	info := decode[dto.CompanyInfo](t, rec).Data
	assert.Equal(t, "Acme Green", info.OverallInfor.CompanyName)
	require.Len(t, info.SiteInfors, 1)
	assert.Equal(t, 12, info.SiteInfors[0].NumberEmployees)
	assert.Empty(t, info.ProductInfors)
}

func TestDashboardChartsAndReport(t *testing.T) {
	ts := newTestServer(t)
	res := ts.register("f@example.com")
	token := res.AccessToken

	sub := dto.Submission{Section: "WATER", Year: 2023, Answers: []dto.SubmittedAnswer{
		{QuestionCode: "WA_CONSUMPTION", Answer: 80.0},
		{QuestionCode: "WA_RECYCLED", Answer: 20.0},
	}}
	rec := ts.do(http.MethodPost, "/webapp/questions/add-answer", sub, token)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, ts.repo.SaveScores(context.Background(), []models.Score{{UserID: res.User.ID, Year: 2023, Environmental: 0.5, ESG: 0.2}}))

	rec = ts.do(http.MethodGet, "/webapp/dashboard/get-all-data", nil, token)
	require.Equal(t, http.StatusOK, rec.Code)
	dash := decode[dto.Dashboard](t, rec).Data
	assert.Equal(t, "Acme", dash.Company.Name)
	require.Len(t, dash.Company.Data, 1)
	assert.Equal(t, 0.2, dash.Company.Data[0].ESG)

	rec = ts.do(http.MethodGet, "/webapp/environment/chart-water", nil, token)
	require.Equal(t, http.StatusOK, rec.Code)
	chart := decode[dto.Chart](t, rec).Data
	assert.Equal(t, []string{"2023"}, chart.Labels)
	require.Len(t, chart.Series, 2)
	assert.Equal(t, []float64{80}, chart.Series[0].Values)
	assert.NotEmpty(t, chart.Options)

	rec = ts.do(http.MethodGet, "/webapp/report/get-all-data?year=2023", nil, token)
	require.Equal(t, http.StatusOK, rec.Code)
	rep := decode[dto.Report](t, rec).Data
	require.NotNil(t, rep.Score)
	require.Len(t, rep.Sections, 1)
	assert.Equal(t, "80", rep.Sections[0].Answers[0].Answer)

	rec = ts.do(http.MethodGet, "/webapp/report/export?year=2023", nil, token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, xlsxType, rec.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("PK")))
}

const xlsxType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

func TestBrowserDashboard(t *testing.T) {
	ts := newTestServer(t)
	ts.register("g@example.com")

	rec := ts.do(http.MethodGet, "/dashboard", nil, "")
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/dashboard/login", rec.Header().Get("Location"))

	rec = ts.do(http.MethodGet, "/dashboard/login?lang=vi", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `name="_csrf"`)
	assert.Contains(t, rec.Body.String(), "Đăng nhập")
	assert.Contains(t, rec.Header().Get("Content-Security-Policy"), "nonce-")

	// a form post without the session's CSRF token is refused
	req := httptest.NewRequest(http.MethodPost, "/dashboard/login", strings.NewReader("username=g@example.com&password=Secret%23123"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec = httptest.NewRecorder()
	ts.engine.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
