package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"medislot/cmd/internal/auth"
	"medislot/cmd/internal/config"
	"medislot/cmd/internal/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "main-test-secret-0123456789"

func testConfig(t *testing.T) *config.Config {
	return &config.Config{
		Port:               "0",
		LogLevel:           "error",
		DBDriver:           "sqlite",
		DBDSN:              filepath.Join(t.TempDir(), "test.db"),
		AvailabilitySource: config.SourceDatabase,
		AuthMode:           config.AuthJWT,
		JWTSecret:          secret,
		CORSOrigins:        []string{"*"},
	}
}

func TestNewServerServesHealthMetricsAndSlots(t *testing.T) {
	e, err := newServer(context.Background(), testConfig(t))
	require.NoError(t, err)

	get := func(path string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		return rec
	}

	rec := get("/health")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))

	rec = get("/api/availability/slots?doctor_id=7c1d3f0e-5b7a-4a55-9d61-2c0f7d1f9a10&date=2025-06-02")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"time":"16:30"`)

	rec = get("/metrics")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "medislot_availability_resolutions_total")

	rec = get("/api/appointments")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestNewServerSupabaseSource(t *testing.T) {
	cfg := testConfig(t)
	cfg.AvailabilitySource = config.SourceSupabase
	cfg.SupabaseURL = "http://127.0.0.1:1"
	cfg.SupabaseServiceKey = "key"

	e, err := newServer(context.Background(), cfg)
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/availability/slots?doctor_id=7c1d3f0e-5b7a-4a55-9d61-2c0f7d1f9a10&date=2025-06-02", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestTokenCommand(t *testing.T) {
	env := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(env, []byte("AUTH_MODE=jwt\nJWT_SECRET="+secret+"\n"), 0o600))
	t.Setenv("AUTH_MODE", "")
	t.Setenv("JWT_SECRET", "")
	require.NoError(t, os.Unsetenv("AUTH_MODE"))
	require.NoError(t, os.Unsetenv("JWT_SECRET"))

	var out bytes.Buffer
	cmd := rootCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"token", "admin-sub", "--role", "admin", "--env-file", env})
	require.NoError(t, cmd.Execute())

	data, err := auth.NewJWTAuthenticator(secret).Authenticate(context.Background(), strings.TrimSpace(out.String()))
	require.NoError(t, err)
	assert.Equal(t, &utils.TokenData{Sub: "admin-sub", Role: utils.RoleAdmin}, data)
}

func TestMigrateCommand(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "migrate.db")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DB_DSN", dsn)
	t.Setenv("JWT_SECRET", secret)
	t.Setenv("AUTH_MODE", "jwt")

	cmd := rootCmd()
	cmd.SetArgs([]string{"migrate", "--env-file", filepath.Join(t.TempDir(), "none.env")})
	require.NoError(t, cmd.Execute())

	_, err := os.Stat(dsn)
	assert.NoError(t, err)
}
