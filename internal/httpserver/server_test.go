package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrSnakeDoc/bookmarks/internal/config"
	"github.com/MrSnakeDoc/bookmarks/internal/domain"
	"github.com/MrSnakeDoc/bookmarks/internal/httpserver/deps"
	"github.com/MrSnakeDoc/bookmarks/internal/logger"
	"github.com/MrSnakeDoc/bookmarks/internal/store"
	"github.com/MrSnakeDoc/bookmarks/internal/store/memory"
)

type errorEnvelope struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// brokenStore fails every call, standing in for an unreachable database.
type brokenStore struct{}

var errBroken = errors.New("connection refused")

func (brokenStore) List(context.Context) ([]domain.Bookmark, error) { return nil, errBroken }
func (brokenStore) Get(context.Context, string) (domain.Bookmark, error) {
	return domain.Bookmark{}, errBroken
}
func (brokenStore) Insert(context.Context, domain.NewBookmark) (domain.Bookmark, error) {
	return domain.Bookmark{}, errBroken
}
func (brokenStore) Delete(context.Context, string) (bool, error) { return false, errBroken }
func (brokenStore) Ping(context.Context) error                   { return errBroken }
func (brokenStore) Close() error                                 { return nil }

var _ store.Store = brokenStore{}

type testServer struct {
	*httptest.Server
	token string
}

func newTestServer(t *testing.T, st store.Store, mutate func(*config.Config, *deps.Deps)) *testServer {
	t.Helper()

	cfg := &config.Config{
		ListenPort:     ":0",
		RequestTimeout: 5 * time.Second,
		StoreDriver:    store.DriverMemory,
	}
	d := deps.Deps{
		Logger:    logger.NewNop(),
		Store:     st,
		StartTime: time.Now(),
		Version:   "test",
	}
	if mutate != nil {
		mutate(cfg, &d)
	}
	d.BasePath = cfg.BasePath
	d.APIToken = cfg.APIToken

	srv := New(cfg, logger.NewNop(), d)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return &testServer{Server: ts, token: cfg.APIToken}
}

func (ts *testServer) do(t *testing.T, method, path, body string) *http.Response {
	t.Helper()
	var rdr io.Reader
	if body != "" {
		rdr = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, ts.URL+path, rdr)
	require.NoError(t, err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if ts.token != "" {
		req.Header.Set("Authorization", "Bearer "+ts.token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func TestCreateThenGet(t *testing.T) {
	ts := newTestServer(t, memory.New(), nil)

	resp := ts.do(t, http.MethodPost, "/bookmarks",
		`{"title":"Go","url":"https://go.dev","description":"The Go site","rating":5}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decode[domain.BookmarkView](t, resp)

	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "Go", created.Title)
	assert.Equal(t, "https://go.dev", created.URL)
	assert.Equal(t, "The Go site", created.Description)
	assert.Equal(t, 5, created.Rating)
	assert.Equal(t, "/bookmarks/"+created.ID, resp.Header.Get("Location"))
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	resp = ts.do(t, http.MethodGet, "/bookmarks/"+created.ID, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, created, decode[domain.BookmarkView](t, resp))
}

func TestCreateWithoutDescriptionDefaultsToEmpty(t *testing.T) {
	ts := newTestServer(t, memory.New(), nil)

	resp := ts.do(t, http.MethodPost, "/bookmarks", `{"title":"Plain","url":"http://plain.example","rating":1}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	got := decode[map[string]any](t, resp)
	assert.Equal(t, "", got["description"])
	assert.EqualValues(t, 1, got["rating"])
}

func TestCreateValidationMessages(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"missing title", `{"url":"https://a.example","rating":3}`, "'title' is required"},
		{"empty title", `{"title":"","url":"https://a.example","rating":3}`, "'title' is required"},
		{"missing url", `{"title":"A","rating":3}`, "'url' is required"},
		{"missing rating", `{"title":"A","url":"https://a.example"}`, "'rating' is required"},
		{"numeric zero rating", `{"title":"A","url":"https://a.example","rating":0}`, "'rating' is required"},
		{"everything missing reports title first", `{}`, "'title' is required"},
		{"rating too high", `{"title":"A","url":"https://a.example","rating":6}`, "'rating' must be a number between 0 and 5"},
		{"rating negative", `{"title":"A","url":"https://a.example","rating":-1}`, "'rating' must be a number between 0 and 5"},
		{"rating not numeric", `{"title":"A","url":"https://a.example","rating":"abc"}`, "'rating' must be a number between 0 and 5"},
		{"rating fractional", `{"title":"A","url":"https://a.example","rating":2.5}`, "'rating' must be a number between 0 and 5"},
		{"url not a url", `{"title":"A","url":"not a url","rating":2}`, "'url' must be a valid URL"},
		{"malformed json", `{"title":`, "invalid request body"},
		{"numeric title", `{"title":5,"url":"https://a.example","rating":3}`, "invalid request body"},
		{"numeric url", `{"title":"A","url":7,"rating":3}`, "invalid request body"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := memory.New()
			ts := newTestServer(t, st, nil)

			resp := ts.do(t, http.MethodPost, "/bookmarks", tt.body)
			require.Equal(t, http.StatusBadRequest, resp.StatusCode)
			assert.Equal(t, tt.want, decode[errorEnvelope](t, resp).Error.Message)
			assert.Zero(t, st.Count(), "nothing must be stored on a rejected request")
		})
	}
}

func TestCreateAcceptsNumericStringRating(t *testing.T) {
	ts := newTestServer(t, memory.New(), nil)

	resp := ts.do(t, http.MethodPost, "/bookmarks", `{"title":"A","url":"https://a.example","rating":"4"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, 4, decode[domain.BookmarkView](t, resp).Rating)

	resp = ts.do(t, http.MethodPost, "/bookmarks", `{"title":"A","url":"https://a.example","rating":"0"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, 0, decode[domain.BookmarkView](t, resp).Rating)
}

func TestDeleteThenListThenGet(t *testing.T) {
	ts := newTestServer(t, memory.New(), nil)

	resp := ts.do(t, http.MethodPost, "/bookmarks", `{"title":"Tmp","url":"https://tmp.example","rating":1}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	id := decode[domain.BookmarkView](t, resp).ID

	resp = ts.do(t, http.MethodDelete, "/bookmarks/"+id, "")
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Empty(t, body)

	resp = ts.do(t, http.MethodGet, "/bookmarks", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, decode[[]domain.BookmarkView](t, resp))

	resp = ts.do(t, http.MethodGet, "/bookmarks/"+id, "")
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "Bookmark doesn't exist", decode[errorEnvelope](t, resp).Error.Message)

	resp = ts.do(t, http.MethodDelete, "/bookmarks/"+id, "")
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "Bookmark doesn't exist", decode[errorEnvelope](t, resp).Error.Message)
}

func TestUnknownIDs(t *testing.T) {
	ts := newTestServer(t, memory.New(), nil)

	for _, id := range []string{"does-not-exist", "8c0b5f3e-6a4e-4a55-9d43-2f1f0f6a0c11", "42"} {
		for _, method := range []string{http.MethodGet, http.MethodDelete} {
			resp := ts.do(t, method, "/bookmarks/"+id, "")
			require.Equal(t, http.StatusNotFound, resp.StatusCode, "%s %s", method, id)
			assert.Equal(t, "Bookmark doesn't exist", decode[errorEnvelope](t, resp).Error.Message)
		}
	}
}

func TestListEmptyIsArray(t *testing.T) {
	ts := newTestServer(t, memory.New(), nil)

	resp := ts.do(t, http.MethodGet, "/bookmarks", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(body))
}

func TestListSanitizesStoredMarkup(t *testing.T) {
	st := memory.New()
	_, err := st.Insert(context.Background(), domain.NewBookmark{
		Title:       `Naughty <script>alert("xss");</script>`,
		URL:         "https://www.hackers.com",
		Description: `Bad image <img src="https://url.to.file.which/does-not.exist" onerror="alert(document.cookie);">. But not <strong>all</strong> bad.`,
		Rating:      1,
	})
	require.NoError(t, err)

	ts := newTestServer(t, st, nil)

	resp := ts.do(t, http.MethodGet, "/bookmarks", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	list := decode[[]domain.BookmarkView](t, resp)
	require.Len(t, list, 1)

	got := list[0]
	assert.Equal(t, `Naughty &lt;script&gt;alert("xss");&lt;/script&gt;`, got.Title)
	assert.Equal(t, `Bad image <img src="https://url.to.file.which/does-not.exist">. But not <strong>all</strong> bad.`, got.Description)
	assert.Equal(t, "https://www.hackers.com", got.URL)
}

func TestCreateMaliciousBookmarkRoundTrip(t *testing.T) {
	st := memory.New()
	ts := newTestServer(t, st, nil)

	body, err := json.Marshal(map[string]any{
		"title":       `Naughty naughty very naughty <script>alert("xss");</script>`,
		"url":         "https://www.hackers.com",
		"description": `Bad image <img src="https://url.to.file.which/does-not.exist" onerror="alert(document.cookie);">. But not <strong>all</strong> bad.`,
		"rating":      1,
	})
	require.NoError(t, err)

	want := domain.BookmarkView{
		Title:       `Naughty naughty very naughty &lt;script&gt;alert("xss");&lt;/script&gt;`,
		URL:         "https://www.hackers.com",
		Description: `Bad image <img src="https://url.to.file.which/does-not.exist">. But not <strong>all</strong> bad.`,
		Rating:      1,
	}

	resp := ts.do(t, http.MethodPost, "/bookmarks", string(body))
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decode[domain.BookmarkView](t, resp)
	want.ID = created.ID
	assert.Equal(t, want, created)

	resp = ts.do(t, http.MethodGet, "/bookmarks/"+created.ID, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, want, decode[domain.BookmarkView](t, resp))

	// storage keeps the raw input, only responses are escaped
	stored, err := st.Get(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, `Naughty naughty very naughty <script>alert("xss");</script>`, stored.Title)
}

func TestCreateKeepsPlainPunctuation(t *testing.T) {
	ts := newTestServer(t, memory.New(), nil)

	resp := ts.do(t, http.MethodPost, "/bookmarks",
		`{"title":"Tom & Jerry's \"best\" <3","url":"https://x.example","rating":2}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, `Tom & Jerry's "best" &lt;3`, decode[domain.BookmarkView](t, resp).Title)
}

func TestStorageFailureIsServerError(t *testing.T) {
	ts := newTestServer(t, brokenStore{}, nil)

	tests := []struct {
		method, path, body string
	}{
		{http.MethodGet, "/bookmarks", ""},
		{http.MethodPost, "/bookmarks", `{"title":"A","url":"https://a.example","rating":1}`},
		{http.MethodGet, "/bookmarks/abc", ""},
		{http.MethodDelete, "/bookmarks/abc", ""},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			resp := ts.do(t, tt.method, tt.path, tt.body)
			require.Equal(t, http.StatusInternalServerError, resp.StatusCode)
			assert.Equal(t, "server error", decode[errorEnvelope](t, resp).Error.Message)
		})
	}
}

func TestBasePathPrefixesRoutesAndLocation(t *testing.T) {
	ts := newTestServer(t, memory.New(), func(c *config.Config, _ *deps.Deps) {
		c.BasePath = "/api"
	})

	resp := ts.do(t, http.MethodPost, "/api/bookmarks", `{"title":"A","url":"https://a.example","rating":1}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	id := decode[domain.BookmarkView](t, resp).ID
	assert.Equal(t, "/api/bookmarks/"+id, resp.Header.Get("Location"))

	resp = ts.do(t, http.MethodGet, "/bookmarks", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestBearerTokenRequired(t *testing.T) {
	ts := newTestServer(t, memory.New(), func(c *config.Config, _ *deps.Deps) {
		c.APIToken = "s3cret"
	})

	resp := ts.do(t, http.MethodGet, "/bookmarks", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	req, err := http.NewRequest(http.MethodGet, ts.URL+"/bookmarks", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer wrong")
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Unauthorized request", decode[errorEnvelope](t, resp).Error.Message)

	// health probes stay open
	probe, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	defer func() { _ = probe.Body.Close() }()
	assert.Equal(t, http.StatusOK, probe.StatusCode)
}

func TestReadyzReflectsStore(t *testing.T) {
	ok := newTestServer(t, memory.New(), nil)
	resp := ok.do(t, http.MethodGet, "/readyz", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	down := newTestServer(t, brokenStore{}, nil)
	resp = down.do(t, http.MethodGet, "/readyz", "")
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestHealthzReportsVersion(t *testing.T) {
	ts := newTestServer(t, memory.New(), nil)

	resp := ts.do(t, http.MethodGet, "/healthz", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	got := decode[map[string]any](t, resp)
	assert.Equal(t, "ok", got["status"])
	assert.Equal(t, "test", got["version"])
}

func TestMetricsEndpoint(t *testing.T) {
	ts := newTestServer(t, memory.New(), func(_ *config.Config, d *deps.Deps) {
		d.Metrics = prometheus.NewRegistry()
	})

	ts.do(t, http.MethodGet, "/bookmarks", "")

	resp := ts.do(t, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Regexp(t, `bookmarks_http_requests_total\{method="GET",route="/bookmarks/?",status="200"\} 1`, string(body))
}

func TestMetricsDisabled(t *testing.T) {
	ts := newTestServer(t, memory.New(), nil)

	resp := ts.do(t, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
