package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rentalhub/rentalhub/internal/config"
	"github.com/rentalhub/rentalhub/internal/endpoints"
	"github.com/rentalhub/rentalhub/internal/gateway"
	"github.com/rentalhub/rentalhub/internal/routes"
	"github.com/rentalhub/rentalhub/internal/session"
	"github.com/rentalhub/rentalhub/internal/storage"
)

type testEnv struct {
	server   *httptest.Server
	client   *http.Client
	upstream string
	identity *fakeIdentity
}

// fakeIdentity accepts any password except "wrong" unless told to fail
type fakeIdentity struct {
	fail  atomic.Bool
	calls atomic.Int32

	mu   sync.Mutex
	last map[string]any
}

func (f *fakeIdentity) lastBody() map[string]any {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.last
}

func (f *fakeIdentity) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.calls.Add(1)
	if f.fail.Load() {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	var body map[string]any
	_ = json.NewDecoder(r.Body).Decode(&body)
	f.mu.Lock()
	f.last = body
	f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	switch r.URL.Path {
	case "/identity/login":
		if body["password"] == "wrong" {
			_, _ = w.Write([]byte(`{"success":false,"errorMessage":"Invalid credentials"}`))
			return
		}
		_, _ = w.Write([]byte(`{"userID":7,"success":true}`))
	case "/identity/addUser":
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"userID":"u-99","success":true}`))
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Port:        "0",
			CORSOrigins: []string{"http://localhost:5173"},
		},
		Session: config.SessionConfig{
			CookieName: "rentalhub_session",
		},
	}
}

func setupTestServer(t *testing.T, store storage.Store) *testEnv {
	t.Helper()

	identity := &fakeIdentity{}
	upstream := httptest.NewServer(identity)
	t.Cleanup(upstream.Close)

	manager, err := session.NewManager("test-secret")
	require.NoError(t, err)

	reg := endpoints.NewWithIdentity(upstream.URL, upstream.URL+"/identity")
	srv := NewWithDeps(testConfig(), zerolog.Nop(), "test", Deps{
		Store:    store,
		Sessions: manager,
		Guard:    routes.NewGuard(routes.Default()),
		Gateway:  gateway.New(reg, zerolog.Nop()),
	})

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	return &testEnv{
		server:   ts,
		client:   newBrowser(t),
		upstream: upstream.URL,
		identity: identity,
	}
}

// newBrowser keeps cookies and reports redirects instead of following them
func newBrowser(t *testing.T) *http.Client {
	t.Helper()

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &http.Client{
		Jar: jar,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

func newFileStore(t *testing.T) storage.Store {
	return storage.NewFileStore(filepath.Join(t.TempDir(), "sessions.json"))
}

func (e *testEnv) get(t *testing.T, path string) *http.Response {
	t.Helper()

	resp, err := e.client.Get(e.server.URL + path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func (e *testEnv) post(t *testing.T, path, body string) *http.Response {
	t.Helper()

	resp, err := e.client.Post(e.server.URL+path, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()

	var out T
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &out), string(data))
	return out
}

func (e *testEnv) login(t *testing.T) {
	t.Helper()

	resp := e.post(t, "/api/auth/login", `{"email":"renter@example.com","password":"secret1"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestHealthCheck(t *testing.T) {
	env := setupTestServer(t, newFileStore(t))

	resp := env.get(t, "/health")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decode[map[string]any](t, resp)
	assert.Equal(t, "online", body["status"])
	assert.Equal(t, "test", body["version"])
	assert.NotEmpty(t, resp.Header.Get(headerRequestID))
}

func TestPages_SignedOut(t *testing.T) {
	env := setupTestServer(t, newFileStore(t))

	tests := []struct {
		path     string
		status   int
		location string
	}{
		{"/orders", http.StatusFound, "/login"},
		{"/profile", http.StatusFound, "/login"},
		{"/rental-store", http.StatusFound, "/login"},
		{"/", http.StatusFound, "/login"},
		{"/login", http.StatusOK, ""},
		{"/signup", http.StatusOK, ""},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			resp := env.get(t, tt.path)
			assert.Equal(t, tt.status, resp.StatusCode)
			assert.Equal(t, tt.location, resp.Header.Get("Location"))
		})
	}
}

func TestPages_ServeStubWhenAllowed(t *testing.T) {
	env := setupTestServer(t, newFileStore(t))

	resp := env.get(t, "/login")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decode[map[string]string](t, resp)
	assert.Equal(t, "Login", body["route"])
	assert.Equal(t, "/login", body["path"])
}

func TestLoginFlow(t *testing.T) {
	env := setupTestServer(t, newFileStore(t))

	resp := env.post(t, "/api/auth/login", `{"email":"renter@example.com","password":"secret1"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	got := decode[SessionResponse](t, resp)
	assert.True(t, got.Authenticated)
	assert.Equal(t, "7", got.UserID)
	assert.Equal(t, routes.LandingPath, got.Redirect)

	// Signed in: auth pages bounce to the landing page
	resp = env.get(t, "/login")
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/rental-store", resp.Header.Get("Location"))

	resp = env.get(t, "/signup")
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/rental-store", resp.Header.Get("Location"))

	resp = env.get(t, "/profile")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Profile", decode[map[string]string](t, resp)["route"])

	// The root alias still redirects to its target
	resp = env.get(t, "/")
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/rental-store", resp.Header.Get("Location"))

	resp = env.get(t, "/api/auth/session")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	sess := decode[SessionResponse](t, resp)
	assert.True(t, sess.Authenticated)
	assert.Equal(t, "7", sess.UserID)

	resp = env.post(t, "/api/auth/logout", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	out := decode[SessionResponse](t, resp)
	assert.False(t, out.Authenticated)
	assert.Equal(t, routes.LoginPath, out.Redirect)

	resp = env.get(t, "/orders")
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/login", resp.Header.Get("Location"))
}

func TestSignup(t *testing.T) {
	env := setupTestServer(t, newFileStore(t))

	resp := env.post(t, "/api/auth/signup",
		`{"name":"Ada","email":"ada@example.com","password":"secret1","city":"Singapore","phoneNo":"+65 5550 1234"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "+65 5550 1234", env.identity.lastBody()["phoneNo"])
	assert.Equal(t, "Singapore", env.identity.lastBody()["city"])

	got := decode[SessionResponse](t, resp)
	assert.True(t, got.Authenticated)
	assert.Equal(t, "u-99", got.UserID)

	resp = env.get(t, "/orders")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestLogin_Failures(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		failUp     bool
		wantStatus int
		wantCalls  int32
	}{
		{"malformed body", `{"email":`, false, http.StatusBadRequest, 0},
		{"invalid email", `{"email":"nope","password":"x"}`, false, http.StatusBadRequest, 0},
		{"rejected", `{"email":"renter@example.com","password":"wrong"}`, false, http.StatusUnauthorized, 1},
		{"identity down", `{"email":"renter@example.com","password":"secret1"}`, true, http.StatusBadGateway, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := setupTestServer(t, newFileStore(t))
			env.identity.fail.Store(tt.failUp)

			resp := env.post(t, "/api/auth/login", tt.body)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			assert.Equal(t, tt.wantCalls, env.identity.calls.Load())

			// The flag stays down
			resp = env.get(t, "/orders")
			assert.Equal(t, http.StatusFound, resp.StatusCode)
		})
	}
}

func TestNavigate(t *testing.T) {
	env := setupTestServer(t, newFileStore(t))

	check := func(t *testing.T, query string) NavigateResponse {
		t.Helper()
		resp := env.get(t, "/api/navigate?"+query)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		return decode[NavigateResponse](t, resp)
	}

	got := check(t, "to="+url.QueryEscape("/orders"))
	assert.Equal(t, routes.Redirect, got.Action)
	assert.Equal(t, "/login", got.Target)
	assert.True(t, got.Known)

	got = check(t, "to="+url.QueryEscape("/signup")+"&from="+url.QueryEscape("/login"))
	assert.Equal(t, routes.Proceed, got.Action)
	assert.Equal(t, "/signup", got.Target)

	got = check(t, "to="+url.QueryEscape("/no-such-page"))
	assert.Equal(t, routes.Proceed, got.Action)
	assert.False(t, got.Known)

	env.login(t)

	got = check(t, "to="+url.QueryEscape("/login"))
	assert.Equal(t, routes.Redirect, got.Action)
	assert.Equal(t, "/rental-store", got.Target)

	got = check(t, "to="+url.QueryEscape("/user-orders"))
	assert.Equal(t, routes.Proceed, got.Action)
	assert.Equal(t, "/user-orders", got.Target)
}

func TestNavigate_InvalidQuery(t *testing.T) {
	env := setupTestServer(t, newFileStore(t))

	for _, query := range []string{
		"",
		"to=orders",
		"to=" + url.QueryEscape("//evil.example.com/login"),
		"to=" + url.QueryEscape("/orders") + "&from=relative",
	} {
		resp := env.get(t, "/api/navigate?"+query)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, query)
	}
}

func TestListEndpoints(t *testing.T) {
	env := setupTestServer(t, newFileStore(t))

	resp := env.get(t, "/api/endpoints")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	got := decode[EndpointsResponse](t, resp)
	assert.Equal(t, env.upstream, got.BaseURL)
	require.NotEmpty(t, got.Endpoints)

	byName := make(map[string]endpoints.Entry, len(got.Endpoints))
	for _, e := range got.Endpoints {
		byName[e.Name] = e
	}
	assert.Equal(t, got.BaseURL+"/order/confirm/{id}", byName["order.confirm"].URL)
	assert.True(t, byName["order.confirm"].Parameterized)
	assert.Equal(t, env.upstream+"/identity/login", byName["external.login"].URL)
}

func TestUnknownPath(t *testing.T) {
	env := setupTestServer(t, newFileStore(t))

	resp := env.get(t, "/no-such-page")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestSession_TamperedCookieStartsFresh(t *testing.T) {
	env := setupTestServer(t, newFileStore(t))
	env.login(t)

	u, err := url.Parse(env.server.URL)
	require.NoError(t, err)
	env.client.Jar.SetCookies(u, []*http.Cookie{{Name: "rentalhub_session", Value: "not-a-token", Path: "/"}})

	resp := env.get(t, "/orders")
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/login", resp.Header.Get("Location"))
}

func TestSession_FlagSurvivesRestart(t *testing.T) {
	store := newFileStore(t)

	first := setupTestServer(t, store)
	first.login(t)

	// Same storage and secret, new process: the browser keeps its cookie
	second := setupTestServer(t, store)
	second.client = first.client
	u, err := url.Parse(first.server.URL)
	require.NoError(t, err)
	v, err := url.Parse(second.server.URL)
	require.NoError(t, err)
	second.client.Jar.SetCookies(v, first.client.Jar.Cookies(u))

	resp := second.get(t, "/orders")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestLoadOrCreateSecret(t *testing.T) {
	ctx := context.Background()
	store := newFileStore(t)
	cfg := testConfig()

	first, err := loadOrCreateSecret(ctx, cfg, store, zerolog.Nop())
	require.NoError(t, err)
	assert.Len(t, first, 64)

	// Persisted and reused on the next start
	second, err := loadOrCreateSecret(ctx, cfg, store, zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, first, second)

	cfg.Session.Secret = "configured"
	got, err := loadOrCreateSecret(ctx, cfg, store, zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, "configured", got)
}

func TestOpenStore_UnknownBackend(t *testing.T) {
	cfg := testConfig()
	cfg.Session.Backend = "memcached"

	_, _, err := openStore(cfg, zerolog.Nop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "memcached")
}

func TestNew_SQLiteBackend(t *testing.T) {
	cfg := testConfig()
	cfg.Session.Backend = "sqlite"
	cfg.Session.PruneSchedule = "@daily"
	cfg.Session.RetentionAfter = time.Hour
	cfg.Database.URL = filepath.Join(t.TempDir(), "rentalhub.sqlite")
	cfg.Gateway.BaseURL = "http://gateway.test"

	srv, err := New(cfg, zerolog.Nop(), "test")
	require.NoError(t, err)
	require.NotNil(t, srv.pruner)
	t.Cleanup(srv.close)

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	client := newBrowser(t)
	resp, err := client.Get(ts.URL + "/orders")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/login", resp.Header.Get("Location"))
}

func TestNew_InvalidRoutesFile(t *testing.T) {
	cfg := testConfig()
	cfg.Server.RoutesFile = filepath.Join(t.TempDir(), "missing.yaml")

	_, err := New(cfg, zerolog.Nop(), "test")
	require.Error(t, err)
}

func TestLogin_RotatesSessionCookie(t *testing.T) {
	env := setupTestServer(t, newFileStore(t))

	// Obtain a pre-login cookie, as a planted one would be
	resp := env.get(t, "/login")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	u, err := url.Parse(env.server.URL)
	require.NoError(t, err)
	before := sessionCookie(t, env.client, u)

	env.login(t)
	after := sessionCookie(t, env.client, u)
	assert.NotEqual(t, before, after)

	// The new cookie is signed in
	resp = env.get(t, "/orders")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// The pre-login cookie is not
	other := newBrowser(t)
	other.Jar.SetCookies(u, []*http.Cookie{{Name: "rentalhub_session", Value: before, Path: "/"}})
	resp, err = other.Get(env.server.URL + "/orders")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/login", resp.Header.Get("Location"))
}

func sessionCookie(t *testing.T, client *http.Client, u *url.URL) string {
	t.Helper()

	for _, c := range client.Jar.Cookies(u) {
		if c.Name == "rentalhub_session" {
			return c.Value
		}
	}
	t.Fatalf("no session cookie for %s", u)
	return ""
}

func TestNew_BlankCORSOriginsFallBack(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("CORS_ORIGINS", " , ")

	cfg, err := config.Load()
	require.NoError(t, err)

	require.NotPanics(t, func() {
		NewWithDeps(cfg, zerolog.Nop(), "test", Deps{
			Store:   newFileStore(t),
			Guard:   routes.NewGuard(routes.Default()),
			Gateway: gateway.New(endpoints.New("http://gateway.test"), zerolog.Nop()),
		})
	})
}
