package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/jsamuelsen/quotes-api/internal/adapters/http/dto"
	"github.com/jsamuelsen/quotes-api/internal/adapters/http/handlers"
	"github.com/jsamuelsen/quotes-api/internal/adapters/http/middleware"
	"github.com/jsamuelsen/quotes-api/internal/app"
	"github.com/jsamuelsen/quotes-api/internal/domain"
	"github.com/jsamuelsen/quotes-api/internal/mocks"
	"github.com/jsamuelsen/quotes-api/internal/platform/config"
	"github.com/jsamuelsen/quotes-api/internal/platform/logging"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

func testServerConfig() *config.ServerConfig {
	return &config.ServerConfig{
		Host:            "127.0.0.1",
		Port:            0,
		ReadTimeout:     5 * time.Second,
		WriteTimeout:    10 * time.Second,
		IdleTimeout:     30 * time.Second,
		ShutdownTimeout: 5 * time.Second,
		MaxRequestSize:  1 << 20,
	}
}

// setupTestRouter builds the full middleware and route stack around a mock
// repository.
func setupTestRouter(t *testing.T, setupMock func(*mocks.MockQuoteRepository)) *gin.Engine {
	t.Helper()

	repo := mocks.NewMockQuoteRepository(t)
	if setupMock != nil {
		setupMock(repo)
	}

	service := app.NewQuoteService(app.QuoteServiceConfig{Repository: repo, Logger: discard})

	engine := gin.New()
	SetupRouter(engine, NewDefaultRouterConfig(
		discard,
		&config.AppConfig{Name: "quotes-api", Environment: "test", Version: "1.0.0"},
		&config.AuthConfig{APIKey: "TopSecretAPIKey"},
		handlers.NewHealthHandler(nil, handlers.BuildInfo{Version: "1.0.0"}),
		handlers.NewQuoteHandler(service, "quotes-api", "1.0.0"),
	))

	return engine
}

func serve(engine http.Handler, method, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(method, target, nil))

	return w
}

func TestServerNew(t *testing.T) {
	cfg := testServerConfig()

	srv := New(cfg, discard)

	require.NotNil(t, srv)
	assert.NotNil(t, srv.Engine())
	assert.Equal(t, cfg, srv.Config())
	assert.Equal(t, "127.0.0.1:0", srv.Addr())
}

func TestServerAddr(t *testing.T) {
	tests := []struct {
		host         string
		port         int
		expectedAddr string
	}{
		{"localhost", 8080, "localhost:8080"},
		{"0.0.0.0", 3000, "0.0.0.0:3000"},
	}

	for _, tt := range tests {
		t.Run(tt.expectedAddr, func(t *testing.T) {
			cfg := testServerConfig()
			cfg.Host = tt.host
			cfg.Port = tt.port

			assert.Equal(t, tt.expectedAddr, New(cfg, discard).Addr())
		})
	}
}

func TestServerServe(t *testing.T) {
	var buf bytes.Buffer

	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	srv := New(testServerConfig(), logger)
	srv.Engine().GET("/ping", func(c *gin.Context) {
		logging.FromContext(c.Request.Context()).Info("handled ping")
		c.String(http.StatusOK, "pong")
	})

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)

	go func() { done <- srv.Serve(ctx, ln) }()

	resp, err := http.Get(fmt.Sprintf("http://%s/ping", ln.Addr()))
	require.NoError(t, err)

	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "pong", string(body))

	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("timeout waiting for server to shut down")
	}

	// Requests log through the server's logger via the base context.
	assert.Contains(t, buf.String(), "handled ping")
	assert.Contains(t, buf.String(), "HTTP server stopped")
}

func TestServerRun_ListenError(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	defer ln.Close()

	cfg := testServerConfig()
	cfg.Port = ln.Addr().(*net.TCPAddr).Port

	err = New(cfg, discard).Run(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "listening on")
}

func TestMaxBodySize(t *testing.T) {
	cfg := testServerConfig()
	cfg.MaxRequestSize = 64

	srv := New(cfg, discard)
	srv.Engine().POST("/add", func(c *gin.Context) {
		var req dto.AddQuoteRequest
		if err := dto.BindFormAndValidate(c, &req); err != nil {
			dto.HandleBindingError(c, err)
			return
		}
		c.Status(http.StatusOK)
	})

	post := func(form url.Values) int {
		req := httptest.NewRequest(http.MethodPost, "/add", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

		w := httptest.NewRecorder()
		srv.Engine().ServeHTTP(w, req)

		return w.Code
	}

	assert.Equal(t, http.StatusOK, post(url.Values{"quote": {"Short."}, "author": {"Anon"}}))
	assert.Equal(t, http.StatusBadRequest, post(url.Values{"quote": {strings.Repeat("x", 200)}, "author": {"Anon"}}))
}

func TestSetupRouter_Routes(t *testing.T) {
	engine := setupTestRouter(t, nil)

	routes := make(map[string]bool)
	for _, r := range engine.Routes() {
		routes[r.Method+" "+r.Path] = true
	}

	for _, expected := range []string{
		"GET /-/live", "GET /-/ready", "GET /-/build", "GET /-/metrics",
		"GET /", "GET /random", "GET /all", "GET /search-by-author", "GET /search",
		"POST /add", "PATCH /update-quote/:id", "PATCH /update-quote-author/:id", "DELETE /delete-quote/:id",
	} {
		assert.True(t, routes[expected], "missing route: %s", expected)
	}
}

func TestSetupRouter_IndexPage(t *testing.T) {
	w := serve(setupTestRouter(t, nil), http.MethodGet, "/")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "/delete-quote/:id")
}

func TestSetupRouter_DeleteRequiresAPIKey(t *testing.T) {
	tests := []struct {
		name           string
		target         string
		setupMock      func(*mocks.MockQuoteRepository)
		expectedStatus int
		expectedCode   string
		expectedMsg    string
	}{
		{
			name:           "missing key is rejected before lookup",
			target:         "/delete-quote/1",
			expectedStatus: http.StatusForbidden,
			expectedCode:   dto.ErrorCodeForbidden,
			expectedMsg:    middleware.MsgForbidden,
		},
		{
			name:           "wrong key on unknown id is forbidden, not missing",
			target:         "/delete-quote/999?api-key=nope",
			expectedStatus: http.StatusForbidden,
			expectedCode:   dto.ErrorCodeForbidden,
			expectedMsg:    middleware.MsgForbidden,
		},
		{
			name:   "correct key on unknown id",
			target: "/delete-quote/999?api-key=TopSecretAPIKey",
			setupMock: func(m *mocks.MockQuoteRepository) {
				m.EXPECT().Get(mock.Anything, int64(999)).Return(nil, domain.NewNotFoundError("quote", "999"))
			},
			expectedStatus: http.StatusNotFound,
			expectedCode:   dto.ErrorCodeNotFound,
			expectedMsg:    app.MsgQuoteIDNotFound,
		},
		{
			name:   "correct key deletes",
			target: "/delete-quote/1?api-key=TopSecretAPIKey",
			setupMock: func(m *mocks.MockQuoteRepository) {
				m.EXPECT().Get(mock.Anything, int64(1)).Return(&domain.Quote{ID: 1, Text: "Stay curious.", Author: "Anon"}, nil)
				m.EXPECT().Delete(mock.Anything, int64(1)).Return(nil)
			},
			expectedStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(setupTestRouter(t, tt.setupMock), http.MethodDelete, tt.target)

			assert.Equal(t, tt.expectedStatus, w.Code)

			if tt.expectedCode == "" {
				return
			}

			var resp dto.ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tt.expectedMsg, resp.Error[tt.expectedCode])
		})
	}
}

func TestSetupRouter_ErrorCarriesTraceID(t *testing.T) {
	tp := sdktrace.NewTracerProvider()
	otel.SetTracerProvider(tp)

	t.Cleanup(func() {
		otel.SetTracerProvider(noop.NewTracerProvider())
		_ = tp.Shutdown(context.Background())
	})

	engine := setupTestRouter(t, func(m *mocks.MockQuoteRepository) {
		m.EXPECT().Random(mock.Anything).Return(nil, domain.NewNotFoundError("quote", ""))
	})

	w := serve(engine, http.MethodGet, "/random")

	var resp dto.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, app.MsgStoreEmpty, resp.Error[dto.ErrorCodeNotFound])
	require.NotEmpty(t, resp.TraceID)
	assert.Equal(t, resp.TraceID, w.Header().Get("X-Trace-ID"))
}

func TestSetupRouter_UntracedErrorOmitsTraceID(t *testing.T) {
	w := serve(setupTestRouter(t, nil), http.MethodGet, "/update-quote/abc?new_quote=x")

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.NotContains(t, w.Body.String(), "traceId")
}

func TestSetupRouter_LogsThroughConfiguredLogger(t *testing.T) {
	var buf bytes.Buffer

	engine := gin.New()
	SetupRouter(engine, RouterConfig{
		Logger:    slog.New(slog.NewJSONHandler(&buf, nil)),
		AppConfig: &config.AppConfig{Name: "quotes-api"},
	})

	serve(engine, http.MethodGet, "/random")

	assert.Contains(t, buf.String(), `"msg":"request completed"`)
	assert.Contains(t, buf.String(), `"request_id"`)
}

func TestSetupRouter_WithoutHandlers(t *testing.T) {
	engine := gin.New()

	require.NotPanics(t, func() {
		SetupRouter(engine, RouterConfig{
			Logger:    discard,
			AppConfig: &config.AppConfig{Name: "quotes-api"},
		})
	})

	assert.Equal(t, http.StatusNotFound, serve(engine, http.MethodGet, "/random").Code)
}
