package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sheetbridge/busybusy-export/internal/cache"
	"github.com/sheetbridge/busybusy-export/internal/clients/busybusy"
	"github.com/sheetbridge/busybusy-export/internal/engine"
	"github.com/sheetbridge/busybusy-export/internal/logger"
	"github.com/sheetbridge/busybusy-export/internal/requestdata"
	"github.com/sheetbridge/busybusy-export/internal/types"
)

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("logger.New: %v", err)
	}
	return log
}

type stubProjectService struct {
	rows  []types.ProjectRow
	skips []engine.Skip
	err   error
}

func (s *stubProjectService) Export(ctx context.Context, apiKey string, isArchived bool, timezone string) ([]types.ProjectRow, []engine.Skip, error) {
	return s.rows, s.skips, s.err
}

func serveProjects(t *testing.T, svc *stubProjectService, target string, authed bool) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	h := NewProjectHandler(testLogger(t), svc)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, target, nil)
	if authed {
		rd := &requestdata.RequestData{APIKey: strings.Repeat("k", 24), RequestID: "r1"}
		c.Request = c.Request.WithContext(requestdata.WithRequestData(c.Request.Context(), rd))
	}
	h.Export(c)
	return w
}

func TestProjectExportOK(t *testing.T) {
	svc := &stubProjectService{rows: []types.ProjectRow{{ID: "p1", Status: "Active"}}}
	w := serveProjects(t, svc, "/api/projects?timezone=GMT%2B05:30", true)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), `"projects"`) {
		t.Errorf("body = %s", w.Body.String())
	}
}

func TestProjectExportUnauthenticated(t *testing.T) {
	w := serveProjects(t, &stubProjectService{}, "/api/projects", false)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
}

func TestProjectExportBadTimezone(t *testing.T) {
	w := serveProjects(t, &stubProjectService{}, "/api/projects?timezone=America/Denver", true)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestProjectExportUpstreamFailure(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"transport", &busybusy.TransportError{StatusCode: 429, Body: "slow down"}, http.StatusBadGateway},
		{"graphql", &busybusy.RemoteDataError{Messages: []string{"boom"}}, http.StatusBadGateway},
		{"wrapped transport", errors.Join(errors.New("fetch projects"), &busybusy.TransportError{StatusCode: 500}), http.StatusBadGateway},
		{"other", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := serveProjects(t, &stubProjectService{err: tc.err}, "/api/projects", true)
			if w.Code != tc.want {
				t.Errorf("status = %d, want %d", w.Code, tc.want)
			}
		})
	}
}

func serveCache(t *testing.T, store cache.Store, target string) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	h := NewCacheHandler(testLogger(t), store)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodDelete, target, nil)
	h.Invalidate(c)
	return w
}

func TestCacheInvalidateSingleView(t *testing.T) {
	store := cache.NewMemoryStore()
	ctx := context.Background()
	_ = store.Set(ctx, cache.Key("project", false), []byte("a"), time.Minute)
	_ = store.Set(ctx, cache.Key("project", true), []byte("b"), time.Minute)

	w := serveCache(t, store, "/api/cache?dataset=project&is_archived=false")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	if _, ok := store.Get(ctx, cache.Key("project", false)); ok {
		t.Errorf("active entry survived invalidation")
	}
	if _, ok := store.Get(ctx, cache.Key("project", true)); !ok {
		t.Errorf("archived entry should be untouched")
	}
}

func TestCacheInvalidateBothViews(t *testing.T) {
	store := cache.NewMemoryStore()
	ctx := context.Background()
	_ = store.Set(ctx, cache.Key("budget", false), []byte("a"), time.Minute)
	_ = store.Set(ctx, cache.Key("budget", true), []byte("b"), time.Minute)
	_ = store.Set(ctx, cache.Key("project", false), []byte("c"), time.Minute)

	w := serveCache(t, store, "/api/cache?dataset=budget")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	if _, ok := store.Get(ctx, cache.Key("budget", false)); ok {
		t.Errorf("active budget entry survived")
	}
	if _, ok := store.Get(ctx, cache.Key("budget", true)); ok {
		t.Errorf("archived budget entry survived")
	}
	if _, ok := store.Get(ctx, cache.Key("project", false)); !ok {
		t.Errorf("other dataset should be untouched")
	}
}

func TestCacheInvalidateUnknownDataset(t *testing.T) {
	w := serveCache(t, cache.NewMemoryStore(), "/api/cache?dataset=timecards")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}
