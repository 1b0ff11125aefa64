package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/aerolift/dispatch/internal/config"
	"github.com/aerolift/dispatch/internal/database"
	"github.com/aerolift/dispatch/internal/repository"
)

// testEnv wires real repositories onto a throwaway SQLite database so the
// handlers are exercised end to end, minus the HTTP router.
type testEnv struct {
	cfg       config.Config
	db        *database.DB
	drivers   *repository.DriverRepo
	jobs      *repository.JobRepo
	locations *repository.LocationRepo
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db, err := database.Open("", filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, db.InitSchema(context.Background(), 4))

	return &testEnv{
		cfg: config.Config{
			JWTSecret:      "test-secret",
			AccessTokenTTL: time.Hour,
			BcryptCost:     4,
		},
		db:        db,
		drivers:   &repository.DriverRepo{DB: db},
		jobs:      &repository.JobRepo{DB: db},
		locations: &repository.LocationRepo{DB: db},
	}
}

// request builds an Echo context around a JSON request. Path params are
// supplied as alternating name/value pairs.
func request(t *testing.T, method, target, body string, params ...string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := echo.New().NewContext(req, rec)

	require.Zero(t, len(params)%2, "params must come in name/value pairs")
	names := make([]string, 0, len(params)/2)
	values := make([]string, 0, len(params)/2)
	for i := 0; i < len(params); i += 2 {
		names = append(names, params[i])
		values = append(values, params[i+1])
	}
	c.SetParamNames(names...)
	c.SetParamValues(values...)
	return c, rec
}

func TestHealth(t *testing.T) {
	c, rec := request(t, http.MethodGet, "/healthz", "")
	require.NoError(t, Health(c))
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}
