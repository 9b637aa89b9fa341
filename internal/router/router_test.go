package router_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deppfellow/breezi/internal/bindings"
	"github.com/deppfellow/breezi/internal/config"
	"github.com/deppfellow/breezi/internal/database"
	"github.com/deppfellow/breezi/internal/errs"
	"github.com/deppfellow/breezi/internal/handler"
	"github.com/deppfellow/breezi/internal/middleware"
	"github.com/deppfellow/breezi/internal/model"
	"github.com/deppfellow/breezi/internal/repository"
	"github.com/deppfellow/breezi/internal/router"
	"github.com/deppfellow/breezi/internal/rpc"
	"github.com/deppfellow/breezi/internal/server"
	"github.com/deppfellow/breezi/internal/service"
	"github.com/deppfellow/breezi/internal/validation"
)

func newTestRouter(t *testing.T, mutate func(cfg *config.Config)) *echo.Echo {
	t.Helper()

	r, _ := newTestRouterWithRepositories(t, mutate)
	return r
}

func newTestRouterWithRepositories(t *testing.T, mutate func(cfg *config.Config)) (*echo.Echo, *repository.Repositories) {
	t.Helper()

	cfg := config.Default()
	if mutate != nil {
		mutate(cfg)
	}

	logger := zerolog.Nop()
	db, err := database.OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "breezi.db"), &logger)
	require.NoError(t, err)

	repos := repository.NewSQLiteRepositories(db)
	t.Cleanup(func() { _ = repos.Close() })

	s := &server.Server{
		Config:       cfg,
		Logger:       &logger,
		Repositories: repos,
	}

	services := service.NewServices(repos, &logger)
	patterns, err := validation.NewPatternCache(model.Patterns())
	require.NoError(t, err)

	dispatcher, err := rpc.NewDispatcher(services.NewRegistry(), validation.New(patterns), logger)
	require.NoError(t, err)

	return router.NewRouter(s, handler.NewHandlers(s, dispatcher)), repos
}

func do(r *echo.Echo, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errs.ErrorResponse {
	t.Helper()

	var resp errs.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp), rec.Body.String())
	return resp
}

func TestRPC_Register(t *testing.T) {
	t.Parallel()

	r := newTestRouter(t, nil)

	rec := do(r, http.MethodPost, "/rpc/register",
		`{"username":"username123","email":"user@example.com","password":"password"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var id string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &id))
	assert.NotEmpty(t, id)
	assert.NotEmpty(t, rec.Header().Get(middleware.RequestIDHeader))

	rec = do(r, http.MethodPost, "/rpc/user", `{"id":"`+id+`"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var profile model.UserProfile
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &profile))
	assert.Equal(t, model.UserProfile{ID: id, Username: "username123", Email: "user@example.com"}, profile)
	assert.NotContains(t, rec.Body.String(), "password")

	rec = do(r, http.MethodPost, "/rpc/register",
		`{"username":"username123","email":"other@example.com","password":"password"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, errs.ReasonConflict, decodeError(t, rec).Reason)
}

func TestRPC_Failures(t *testing.T) {
	t.Parallel()

	r := newTestRouter(t, nil)

	t.Run("invalid input lists every field", func(t *testing.T) {
		rec := do(r, http.MethodPost, "/rpc/register",
			`{"username":"username123","email":"not-an-email","password":"pw"}`)
		require.Equal(t, http.StatusBadRequest, rec.Code)

		resp := decodeError(t, rec)
		assert.Equal(t, errs.ReasonInvalid, resp.Reason)
		assert.Equal(t, []string{"email", "password"}, resp.Payload.Fields())
		assert.Equal(t, "length", resp.Payload["password"].Code)
		assert.Equal(t, "email", resp.Payload["email"].Code)
	})

	t.Run("unknown procedure", func(t *testing.T) {
		rec := do(r, http.MethodPost, "/rpc/nope", `{}`)
		require.Equal(t, http.StatusNotFound, rec.Code)

		resp := decodeError(t, rec)
		assert.Equal(t, errs.ReasonNotFound, resp.Reason)
		assert.Equal(t, rpc.MsgUnknownProcedure, resp.Message)
		assert.Nil(t, resp.Payload)
	})

	t.Run("malformed body", func(t *testing.T) {
		rec := do(r, http.MethodPost, "/rpc/register", `{"username":`)
		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, errs.ReasonBadRequest, decodeError(t, rec).Reason)
	})

	t.Run("unknown route", func(t *testing.T) {
		rec := do(r, http.MethodGet, "/nope", "")
		require.Equal(t, http.StatusNotFound, rec.Code)

		resp := decodeError(t, rec)
		assert.Equal(t, errs.ReasonNotFound, resp.Reason)
		assert.Equal(t, "Route not found", resp.Message)
	})

	t.Run("wrong method", func(t *testing.T) {
		rec := do(r, http.MethodGet, "/rpc/register", "")
		require.Equal(t, http.StatusBadRequest, rec.Code)

		resp := decodeError(t, rec)
		assert.Equal(t, errs.ReasonBadRequest, resp.Reason)
		assert.Equal(t, "Method not allowed", resp.Message)
	})

	t.Run("wrong method on manifest", func(t *testing.T) {
		rec := do(r, http.MethodDelete, "/rpc", "")
		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Method not allowed", decodeError(t, rec).Message)
	})
}

func TestRPC_BodyLimit(t *testing.T) {
	t.Parallel()

	r := newTestRouter(t, func(cfg *config.Config) {
		cfg.Server.MaxBodySize = "1K"
	})

	big := `{"username":"` + strings.Repeat("a", 2048) + `"}`
	rec := do(r, http.MethodPost, "/rpc/register", big)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	resp := decodeError(t, rec)
	assert.Equal(t, errs.ReasonBadRequest, resp.Reason)
	assert.Equal(t, "Request body too large", resp.Message)
}

func TestRPC_List(t *testing.T) {
	t.Parallel()

	r := newTestRouter(t, nil)

	rec := do(r, http.MethodGet, "/rpc", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var manifest []bindings.ProcedureInfo
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &manifest))
	require.Len(t, manifest, 2)
	assert.Equal(t, service.ProcedureRegister, manifest[0].Name)
	assert.Equal(t, rpc.KindMutation, manifest[0].Kind)
	assert.Equal(t, service.ProcedureUser, manifest[1].Name)
	assert.Equal(t, rpc.KindQuery, manifest[1].Kind)
}

func TestStatus(t *testing.T) {
	t.Parallel()

	r := newTestRouter(t, nil)

	rec := do(r, http.MethodGet, "/status", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var health handler.HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &health))
	assert.Equal(t, "healthy", health.Status)
	assert.Equal(t, config.DriverSQLite, health.Database)
	assert.Equal(t, "healthy", health.Checks["database"].Status)
}

func TestStatus_ReportsKindNotDriverDetail(t *testing.T) {
	t.Parallel()

	r, repos := newTestRouterWithRepositories(t, nil)
	require.NoError(t, repos.Close())

	rec := do(r, http.MethodGet, "/status", "")
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.NotContains(t, rec.Body.String(), "sql:")
	assert.NotContains(t, rec.Body.String(), "database is closed")

	var health handler.HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &health))
	assert.Equal(t, "unhealthy", health.Status)
	assert.Equal(t, "unhealthy", health.Checks["database"].Status)
	assert.Equal(t, errs.StoragePoolClosed.String(), health.Checks["database"].Error)
}

func TestStatic(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "assets"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("<html>app</html>"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "assets", "app.js"), []byte("console.log(1)"), 0o644))

	r := newTestRouter(t, func(cfg *config.Config) {
		cfg.Server.StaticDir = dir
	})

	t.Run("index", func(t *testing.T) {
		rec := do(r, http.MethodGet, "/", "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "app")
	})

	t.Run("client route falls back to index", func(t *testing.T) {
		rec := do(r, http.MethodGet, "/users/42", "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "<html>app</html>")
	})

	t.Run("asset", func(t *testing.T) {
		rec := do(r, http.MethodGet, "/assets/app.js", "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "console.log(1)", rec.Body.String())
	})

	t.Run("missing asset is not found", func(t *testing.T) {
		rec := do(r, http.MethodGet, "/assets/missing.js", "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("rpc still routed", func(t *testing.T) {
		rec := do(r, http.MethodGet, "/rpc", "")
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}
