package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/justsurfingit/JobConnect/internal/ads"
	"github.com/justsurfingit/JobConnect/internal/auth"
	"github.com/justsurfingit/JobConnect/internal/database"
	"github.com/justsurfingit/JobConnect/internal/handlers"
	"github.com/justsurfingit/JobConnect/internal/services"
	"github.com/justsurfingit/JobConnect/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms"
)

type stubModel struct {
	reply string
	err   error
}

func (m stubModel) GenerateContent(context.Context, []llms.MessageContent, ...llms.CallOption) (*llms.ContentResponse, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &llms.ContentResponse{Choices: []*llms.ContentChoice{{Content: m.reply}}}, nil
}

func (m stubModel) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	return llms.GenerateFromSinglePrompt(ctx, m, prompt, options...)
}

type testServer struct {
	router *gin.Engine
	sched  *testutil.ManualScheduler
	store  *database.MemoryStore
	llm    *services.LLMService
}

func newServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := database.NewMemoryStore()
	sched := testutil.NewManualScheduler()
	llm := &services.LLMService{Client: stubModel{reply: "- Lead the team"}}
	sessions := services.NewSessionService(store, sched, ads.DefaultPlacements(), ads.DefaultTiming())

	r := handlers.NewRouter(handlers.Deps{
		Jobs:     services.NewJobService(store),
		Sessions: sessions,
		LLM:      llm,
		Matcher:  services.NewMatcherService(),
		Gate:     auth.NewOTPGate(),
	})
	return &testServer{router: r, sched: sched, store: store, llm: llm}
}

func (s *testServer) do(t *testing.T, method, path string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	var out map[string]any
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	}
	return w, out
}

// login verifies phone and clears the app-open ad.
func (s *testServer) login(t *testing.T, phone string) {
	t.Helper()
	w, body := s.do(t, http.MethodPost, "/api/v1/auth/verify", map[string]string{"phone": phone, "otp": "1234"})
	require.Equal(t, http.StatusOK, w.Code, body)
	overlay := body["overlay"].(map[string]any)
	require.Equal(t, "app-open", overlay["kind"])

	s.sched.Advance(time.Minute)
	w, _ = s.do(t, http.MethodPost, "/api/v1/ads/overlay/dismiss", nil)
	require.Equal(t, http.StatusOK, w.Code)
}

func jobsByID(t *testing.T, body map[string]any) map[string]map[string]any {
	t.Helper()
	out := map[string]map[string]any{}
	for _, j := range body["jobs"].([]any) {
		m := j.(map[string]any)
		out[m["id"].(string)] = m
	}
	return out
}

func TestHealthAndCategories(t *testing.T) {
	s := newServer(t)
	w, body := s.do(t, http.MethodGet, "/api/v1/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", body["status"])

	_, body = s.do(t, http.MethodGet, "/api/v1/categories", nil)
	cats := body["categories"].([]any)
	assert.Equal(t, "All", cats[0])
	assert.Len(t, cats, 7)
}

func TestAuthFlow(t *testing.T) {
	s := newServer(t)

	w, _ := s.do(t, http.MethodGet, "/api/v1/jobs", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, body := s.do(t, http.MethodPost, "/api/v1/auth/code", map[string]string{"phone": "12345"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, auth.ErrInvalidPhone.Error(), body["error"])

	w, body = s.do(t, http.MethodPost, "/api/v1/auth/code", map[string]string{"phone": "1712345678"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "1234", body["code"])

	w, _ = s.do(t, http.MethodPost, "/api/v1/auth/verify", map[string]string{"phone": "1712345678", "otp": "9999"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, body = s.do(t, http.MethodPost, "/api/v1/auth/verify", map[string]string{"phone": "1712345678"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, body["error"], "otp is required")

	s.login(t, "1712345678")
	_, body = s.do(t, http.MethodGet, "/api/v1/auth/me", nil)
	assert.Equal(t, "user", body["user"].(map[string]any)["role"])

	w, _ = s.do(t, http.MethodPost, "/api/v1/auth/logout", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	w, _ = s.do(t, http.MethodGet, "/api/v1/auth/me", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestListJobs_RedactsAndFilters(t *testing.T) {
	s := newServer(t)
	s.login(t, "1712345678")

	w, body := s.do(t, http.MethodGet, "/api/v1/jobs", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 3, body["count"])
	for id, j := range jobsByID(t, body) {
		assert.Equal(t, "", j["salary"], "job %s", id)
		assert.Equal(t, true, j["salaryLocked"])
	}

	_, body = s.do(t, http.MethodGet, "/api/v1/jobs?category=Design", nil)
	assert.EqualValues(t, 1, body["count"])
	assert.Contains(t, jobsByID(t, body), "2")

	_, body = s.do(t, http.MethodGet, "/api/v1/jobs?q=techflow", nil)
	assert.EqualValues(t, 1, body["count"])
	assert.Contains(t, jobsByID(t, body), "1")
}

func TestUnlockSalaryScenario(t *testing.T) {
	s := newServer(t)
	s.login(t, "1712345678")

	w, body := s.do(t, http.MethodPost, "/api/v1/jobs/2/unlock-salary", nil)
	require.Equal(t, http.StatusAccepted, w.Code)
	assert.Equal(t, "rewarded", body["overlay"].(map[string]any)["kind"])

	// a second gate while the ad runs is refused
	w, _ = s.do(t, http.MethodPost, "/api/v1/jobs/1/apply", nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	s.sched.Advance(3 * time.Second)
	w, body = s.do(t, http.MethodPost, "/api/v1/ads/overlay/dismiss", nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, ads.ErrMustFinishWatching.Error(), body["error"])

	s.sched.Advance(10 * time.Second)
	_, body = s.do(t, http.MethodGet, "/api/v1/ads/overlay", nil)
	assert.Equal(t, "closable", body["overlay"].(map[string]any)["phase"])

	w, body = s.do(t, http.MethodPost, "/api/v1/ads/overlay/dismiss", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "2", body["unlockedJobId"])

	_, body = s.do(t, http.MethodGet, "/api/v1/jobs", nil)
	jobs := jobsByID(t, body)
	assert.Equal(t, "80,000 - 120,000 BDT", jobs["2"]["salary"])
	assert.Equal(t, false, jobs["2"]["salaryLocked"])
	assert.Equal(t, true, jobs["3"]["salaryLocked"])

	// already unlocked: no ad needed
	w, body = s.do(t, http.MethodPost, "/api/v1/jobs/2/unlock-salary", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, body["unlocked"])

	_, body = s.do(t, http.MethodGet, "/api/v1/ads/overlay", nil)
	assert.Equal(t, false, body["active"])
}

func TestApplyGate(t *testing.T) {
	s := newServer(t)
	s.login(t, "1712345678")

	w, _ := s.do(t, http.MethodPost, "/api/v1/jobs/404/apply", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, body := s.do(t, http.MethodPost, "/api/v1/jobs/1/apply", nil)
	require.Equal(t, http.StatusAccepted, w.Code)
	overlay := body["overlay"].(map[string]any)
	assert.Equal(t, "interstitial", overlay["kind"])
	assert.Equal(t, ads.DefaultPlacements()[ads.KindInterstitial], overlay["unitId"])

	// early close is ignored, not an error
	w, body = s.do(t, http.MethodPost, "/api/v1/ads/overlay/dismiss", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "loading", body["overlay"].(map[string]any)["phase"])

	s.sched.Advance(time.Minute)
	w, body = s.do(t, http.MethodPost, "/api/v1/ads/overlay/dismiss", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "closed", body["overlay"].(map[string]any)["phase"])
	assert.Nil(t, body["unlockedJobId"])

	w, _ = s.do(t, http.MethodPost, "/api/v1/ads/overlay/dismiss", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestBanners(t *testing.T) {
	s := newServer(t)
	s.login(t, "1712345678")

	w, body := s.do(t, http.MethodPost, "/api/v1/ads/banners", nil)
	require.Equal(t, http.StatusCreated, w.Code)
	banner := body["banner"].(map[string]any)
	assert.Equal(t, "loading", banner["phase"])
	id := int(banner["id"].(float64))

	s.sched.Advance(time.Second)
	w, body = s.do(t, http.MethodGet, "/api/v1/ads/banners/"+strconv.Itoa(id), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "closable", body["banner"].(map[string]any)["phase"])

	w, _ = s.do(t, http.MethodGet, "/api/v1/ads/banners/999", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	w, _ = s.do(t, http.MethodGet, "/api/v1/ads/banners/abc", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAdminRoutes(t *testing.T) {
	s := newServer(t)
	s.login(t, "1712345678")
	w, _ := s.do(t, http.MethodGet, "/api/v1/admin/jobs", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	_, _ = s.do(t, http.MethodPost, "/api/v1/auth/logout", nil)

	s.login(t, "1700012345")

	w, body := s.do(t, http.MethodGet, "/api/v1/jobs", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "150,000 - 200,000 BDT", jobsByID(t, body)["1"]["salary"], "admins see salaries")

	form := map[string]string{
		"title": "Go Developer", "company": "Acme", "location": "Remote",
		"salary": "100k", "description": "Build APIs", "type": "Remote", "category": "Engineering",
	}
	w, body = s.do(t, http.MethodPost, "/api/v1/admin/jobs", form)
	require.Equal(t, http.StatusCreated, w.Code, body)
	newID := body["job"].(map[string]any)["id"].(string)
	jobs := body["jobs"].([]any)
	assert.Len(t, jobs, 4)
	assert.Equal(t, newID, jobs[0].(map[string]any)["id"])

	bad := map[string]string{}
	for k, v := range form {
		bad[k] = v
	}
	bad["category"] = "Astrology"
	w, _ = s.do(t, http.MethodPost, "/api/v1/admin/jobs", bad)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	bad["category"] = "Engineering"
	bad["type"] = "Internship"
	w, body = s.do(t, http.MethodPost, "/api/v1/admin/jobs", bad)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, body["error"], "type must be one of")

	delete(bad, "title")
	w, body = s.do(t, http.MethodPost, "/api/v1/admin/jobs", bad)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, body["error"], "title is required")

	w, body = s.do(t, http.MethodDelete, "/api/v1/admin/jobs/"+newID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, body["jobs"], 3)

	w, body = s.do(t, http.MethodDelete, "/api/v1/admin/jobs/nonexistent", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, body["jobs"], 3)
}

func TestGenerateDescription(t *testing.T) {
	s := newServer(t)
	s.login(t, "1700012345")

	req := map[string]string{"title": "Go Developer", "company": "Acme", "skills": "Go"}
	w, body := s.do(t, http.MethodPost, "/api/v1/admin/jobs/generate-description", req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "- Lead the team", body["description"])

	s.llm.Client = stubModel{err: errors.New("quota exceeded")}
	w, body = s.do(t, http.MethodPost, "/api/v1/admin/jobs/generate-description", req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, services.DescriptionFailed, body["description"])

	w, _ = s.do(t, http.MethodPost, "/api/v1/admin/jobs/generate-description", map[string]string{"title": "x"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCorruptStoreIs500(t *testing.T) {
	s := newServer(t)
	s.login(t, "1712345678")
	require.NoError(t, s.store.Set(context.Background(), services.JobsKey, "garbage"))

	w, _ := s.do(t, http.MethodGet, "/api/v1/jobs", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
