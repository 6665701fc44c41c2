package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/cinesub/SubsceneProxy/internal/apperrors"
	"github.com/cinesub/SubsceneProxy/internal/languages"
	"github.com/cinesub/SubsceneProxy/internal/models"
)

// stubClient implements client.Client with canned responses, recording the
// arguments handlers pass through.
type stubClient struct {
	searchResult *models.ResultSet
	searchErr    error
	subtitle     *models.Subtitle
	findErr      error
	download     *models.DownloadResult
	downloadErr  error

	filter      string
	lastQuery   string
	lastFindID  string
	lastFindURL string
	closed      bool
}

func (s *stubClient) Search(_ context.Context, query string) (*models.ResultSet, error) {
	s.lastQuery = query
	if s.searchErr != nil {
		return nil, s.searchErr
	}
	return s.searchResult, nil
}

func (s *stubClient) FindByID(_ context.Context, id string) (*models.Subtitle, error) {
	s.lastFindID = id
	if s.findErr != nil {
		return nil, s.findErr
	}
	return s.subtitle, nil
}

func (s *stubClient) FindByURL(_ context.Context, id string, pageURL string) (*models.Subtitle, error) {
	s.lastFindID = id
	s.lastFindURL = pageURL
	if s.findErr != nil {
		return nil, s.findErr
	}
	return s.subtitle, nil
}

func (s *stubClient) Download(_ context.Context, _ *models.Subtitle) (*models.DownloadResult, error) {
	if s.downloadErr != nil {
		return nil, s.downloadErr
	}
	return s.download, nil
}

func (s *stubClient) SetLanguageFilter(names string) {
	s.filter = languages.Encode(names)
}

func (s *stubClient) SetLanguageFilterID(ids ...int) {
	s.filter = languages.EncodeIDs(ids)
}

func (s *stubClient) LanguageFilter() string {
	return s.filter
}

func (s *stubClient) Close() error {
	s.closed = true
	return nil
}

func newTestRouter(stub *stubClient) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewServer(stub).RegisterRoutes(r)
	return r
}

func performRequest(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestServer_Health(t *testing.T) {
	r := newTestRouter(&stubClient{})

	w := performRequest(r, http.MethodGet, "/healthz", "")
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}
}

func TestServer_Search(t *testing.T) {
	stub := &stubClient{
		searchResult: &models.ResultSet{
			Query: "some release",
			Results: []models.SearchResult{
				{ID: "2697000", Name: "Some.Release.S01E01.720p.WEB-DL", Language: "English", DetailURL: "/subtitles/some-release/english/2697000"},
			},
			Total: 1,
		},
	}
	r := newTestRouter(stub)

	w := performRequest(r, http.MethodGet, "/api/search?q=some+release", "")
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if stub.lastQuery != "some release" {
		t.Errorf("Expected the query to reach the client, got %q", stub.lastQuery)
	}

	var got models.ResultSet
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("Unmarshal response: %v", err)
	}
	if got.Total != 1 || len(got.Results) != 1 {
		t.Fatalf("Expected 1 result, got %+v", got)
	}
	if got.Results[0].ID != "2697000" {
		t.Errorf("Expected ID '2697000', got %q", got.Results[0].ID)
	}
}

func TestServer_Search_MissingQuery(t *testing.T) {
	r := newTestRouter(&stubClient{})

	w := performRequest(r, http.MethodGet, "/api/search", "")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400 without 'q', got %d", w.Code)
	}
}

func TestServer_ErrorMapping(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"no results", apperrors.NewNoResultsError("x"), http.StatusNotFound},
		{"upstream status", apperrors.NewHTTPError(http.StatusInternalServerError, "500 Internal Server Error", "https://example.com"), http.StatusBadGateway},
		{"missing field", apperrors.NewParseError("download link"), http.StatusBadGateway},
		{"unreachable", apperrors.NewTransportError("https://example.com", errors.New("connection refused")), http.StatusGatewayTimeout},
		{"unexpected", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := newTestRouter(&stubClient{searchErr: tc.err})

			w := performRequest(r, http.MethodGet, "/api/search?q=x", "")
			if w.Code != tc.wantStatus {
				t.Errorf("Expected status %d, got %d", tc.wantStatus, w.Code)
			}

			var body map[string]string
			if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
				t.Fatalf("Unmarshal error body: %v", err)
			}
			if body["error"] == "" {
				t.Error("Expected an error message in the body")
			}
		})
	}
}

func TestServer_GetSubtitle(t *testing.T) {
	subtitle := models.SubtitleDetails{
		Title:       "Some Show - First Season",
		DownloadURL: "/subtitle/download?mac=abc123",
	}.WithID("2697723")

	stub := &stubClient{subtitle: &subtitle}
	r := newTestRouter(stub)

	w := performRequest(r, http.MethodGet, "/api/subtitles/2697723", "")
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if stub.lastFindID != "2697723" {
		t.Errorf("Expected the path ID to reach the client, got %q", stub.lastFindID)
	}

	var got models.Subtitle
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("Unmarshal response: %v", err)
	}
	if got.ID != "2697723" || got.Title != "Some Show - First Season" {
		t.Errorf("Unexpected response record: %+v", got)
	}
}

func TestServer_GetSubtitle_NotFound(t *testing.T) {
	r := newTestRouter(&stubClient{findErr: apperrors.NewNotFoundError("subtitle", "999")})

	w := performRequest(r, http.MethodGet, "/api/subtitles/999", "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("Expected 404, got %d", w.Code)
	}
}

func TestServer_FindSubtitle(t *testing.T) {
	subtitle := models.SubtitleDetails{Title: "Another Show"}.WithID("42")
	stub := &stubClient{subtitle: &subtitle}
	r := newTestRouter(stub)

	w := performRequest(r, http.MethodPost, "/api/subtitles/find",
		`{"id":"42","url":"/subtitles/another-show/english/42"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if stub.lastFindID != "42" {
		t.Errorf("Expected ID '42' to reach the client, got %q", stub.lastFindID)
	}
	if stub.lastFindURL != "/subtitles/another-show/english/42" {
		t.Errorf("Expected the page URL to reach the client, got %q", stub.lastFindURL)
	}
}

func TestServer_FindSubtitle_BadBody(t *testing.T) {
	r := newTestRouter(&stubClient{})

	// Not JSON at all.
	w := performRequest(r, http.MethodPost, "/api/subtitles/find", "not-json")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400 for a malformed body, got %d", w.Code)
	}

	// Missing the required url field.
	w = performRequest(r, http.MethodPost, "/api/subtitles/find", `{"id":"42"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400 for a missing url, got %d", w.Code)
	}
}

func TestServer_DownloadSubtitle(t *testing.T) {
	subtitle := models.SubtitleDetails{
		Title:       "Some Show",
		DownloadURL: "/subtitle/download?mac=abc123",
	}.WithID("42")

	stub := &stubClient{
		subtitle: &subtitle,
		download: &models.DownloadResult{
			Filename:    "42.srt",
			Content:     []byte("1\n00:00:01,000 --> 00:00:02,000\nHello\n"),
			Format:      models.FormatSubRip,
			ContentType: "application/x-subrip",
		},
	}
	r := newTestRouter(stub)

	w := performRequest(r, http.MethodGet, "/api/subtitles/42/download?url=/subtitles/x/english/42", "")
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if stub.lastFindURL != "/subtitles/x/english/42" {
		t.Errorf("Expected the url parameter to drive the lookup, got %q", stub.lastFindURL)
	}

	if got := w.Header().Get("Content-Type"); got != "application/x-subrip" {
		t.Errorf("Expected the subtitle content type, got %q", got)
	}
	if got := w.Header().Get("Content-Disposition"); got != `attachment; filename="42.srt"` {
		t.Errorf("Unexpected Content-Disposition %q", got)
	}
	if !strings.Contains(w.Body.String(), "Hello") {
		t.Error("Expected the subtitle content as the response body")
	}
}

func TestServer_DownloadSubtitle_ByIDWithoutURL(t *testing.T) {
	subtitle := models.SubtitleDetails{DownloadURL: "/subtitle/download?mac=abc123"}.WithID("42")
	stub := &stubClient{
		subtitle: &subtitle,
		download: &models.DownloadResult{Filename: "42.srt", Content: []byte("x"), ContentType: "application/x-subrip"},
	}
	r := newTestRouter(stub)

	w := performRequest(r, http.MethodGet, "/api/subtitles/42/download", "")
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}
	if stub.lastFindID != "42" {
		t.Errorf("Expected the ID lookup, got %q", stub.lastFindID)
	}
	if stub.lastFindURL != "" {
		t.Errorf("Expected no URL lookup without the parameter, got %q", stub.lastFindURL)
	}
}

func TestServer_LanguageFilter(t *testing.T) {
	stub := &stubClient{}
	r := newTestRouter(stub)

	// Names resolve to ids.
	w := performRequest(r, http.MethodPut, "/api/language-filter", `{"languages":"english,spanish"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if body["filter"] != "13,38" {
		t.Errorf("Expected filter '13,38', got %q", body["filter"])
	}

	// GET reflects the stored filter.
	w = performRequest(r, http.MethodGet, "/api/language-filter", "")
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}
	body = map[string]string{}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if body["filter"] != "13,38" {
		t.Errorf("Expected filter '13,38' on read-back, got %q", body["filter"])
	}

	// Numeric ids bypass name resolution.
	w = performRequest(r, http.MethodPut, "/api/language-filter", `{"ids":[13,46]}`)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}
	if stub.filter != "13,46" {
		t.Errorf("Expected filter '13,46', got %q", stub.filter)
	}

	// An empty ids array clears the filter.
	w = performRequest(r, http.MethodPut, "/api/language-filter", `{"ids":[]}`)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}
	if stub.filter != "" {
		t.Errorf("Expected a cleared filter, got %q", stub.filter)
	}
}

func TestServer_LanguageFilter_BadBody(t *testing.T) {
	r := newTestRouter(&stubClient{})

	w := performRequest(r, http.MethodPut, "/api/language-filter", "{")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400 for a malformed body, got %d", w.Code)
	}
}

func TestNewRouter_ServesRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := NewRouter(&stubClient{})

	w := performRequest(r, http.MethodGet, "/healthz", "")
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200 from the assembled router, got %d", w.Code)
	}
}
