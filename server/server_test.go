package server_test

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/jrsteele09/go-portfolio-client/internal/config"
	"github.com/jrsteele09/go-portfolio-client/model"
	"github.com/jrsteele09/go-portfolio-client/server"
	"github.com/jrsteele09/go-portfolio-client/token/jwt"
	"github.com/stretchr/testify/require"
)

const (
	adminEmail    = "admin@test.local"
	adminPassword = "Adm1nPassw0rd!"
)

type testConfig struct {
	config.EnvVars
	config.Cors
	config.Security
	rateLimit bool
	baseURL   string
}

func (testConfig) GetEnv() string                      { return "TEST" }
func (testConfig) GetSeedFile() string                 { return "" }
func (testConfig) GetAdminEmail() string               { return adminEmail }
func (testConfig) GetAdminPassword() string            { return adminPassword }
func (testConfig) GetTokenSecret() string              { return "test-secret" }
func (testConfig) GetAccessTokenExpiry() time.Duration { return time.Hour }
func (testConfig) GetSecureCookies() bool              { return false }
func (testConfig) GetLoginRatePerMinute() int          { return 1 }
func (testConfig) GetLoginBurst() int                  { return 2 }
func (testConfig) GetAllowedOrigins() config.AllowedOrigins {
	return config.ParseAllowedOrigins("http://localhost:5173")
}
func (c testConfig) GetEnableRateLimiting() bool { return c.rateLimit }
func (c testConfig) GetBaseURL() string          { return c.baseURL }

type testFixture struct {
	t      *testing.T
	srv    *server.Server
	ts     *httptest.Server
	client *http.Client
}

func setupTestFixture(t *testing.T, rateLimit bool) *testFixture {
	t.Helper()
	srv, err := server.New(testConfig{rateLimit: rateLimit, baseURL: "http://dev.test"})
	require.NoError(t, err)
	ts := httptest.NewServer(srv)
	t.Cleanup(func() {
		ts.Close()
		srv.Close()
	})
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &testFixture{t: t, srv: srv, ts: ts, client: &http.Client{Jar: jar}}
}

func (f *testFixture) do(method, path string, body any) (*http.Response, []byte) {
	f.t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(f.t, err)
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, f.ts.URL+path, reader)
	require.NoError(f.t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return f.send(req)
}

func (f *testFixture) send(req *http.Request) (*http.Response, []byte) {
	f.t.Helper()
	resp, err := f.client.Do(req)
	require.NoError(f.t, err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(f.t, err)
	return resp, data
}

func (f *testFixture) upload(path, filename string, content []byte) (*http.Response, []byte) {
	f.t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filename)
	require.NoError(f.t, err)
	_, err = part.Write(content)
	require.NoError(f.t, err)
	require.NoError(f.t, mw.Close())

	req, err := http.NewRequest(http.MethodPost, f.ts.URL+path, &buf)
	require.NoError(f.t, err)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return f.send(req)
}

func (f *testFixture) login() {
	f.t.Helper()
	resp, body := f.do(http.MethodPost, "/api/auth/login", model.LoginRequest{Email: adminEmail, Password: adminPassword})
	require.Equal(f.t, http.StatusOK, resp.StatusCode, string(body))
}

func envelope(t *testing.T, body []byte) model.Envelope {
	t.Helper()
	var env model.Envelope
	require.NoError(t, json.Unmarshal(body, &env), string(body))
	return env
}

func data[T any](t *testing.T, body []byte) T {
	t.Helper()
	var out T
	env := envelope(t, body)
	require.True(t, env.IsSuccess(), string(body))
	require.NoError(t, json.Unmarshal(env.Data, &out))
	return out
}

func cookieByName(cookies []*http.Cookie, name string) *http.Cookie {
	for _, c := range cookies {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestLogin_SetsSessionCookies(t *testing.T) {
	f := setupTestFixture(t, false)

	resp, body := f.do(http.MethodPost, "/api/auth/login", model.LoginRequest{Email: adminEmail, Password: adminPassword})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var auth model.AuthResponse
	require.NoError(t, json.Unmarshal(body, &auth))
	require.NotEmpty(t, auth.Token)
	require.NotEmpty(t, auth.RefreshToken)

	access := cookieByName(resp.Cookies(), model.AccessTokenCookie)
	require.NotNil(t, access)
	require.Equal(t, "/", access.Path)
	require.True(t, access.HttpOnly)
	refresh := cookieByName(resp.Cookies(), model.RefreshTokenCookie)
	require.NotNil(t, refresh)
	require.Equal(t, model.RefreshCookiePath, refresh.Path)

	resp, body = f.do(http.MethodGet, "/api/auth/me", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var me model.CurrentUser
	require.NoError(t, json.Unmarshal(body, &me))
	require.Equal(t, adminEmail, me.Email)
	require.Contains(t, me.Roles, "ADMIN")
}

func TestLogin_BadCredentials(t *testing.T) {
	f := setupTestFixture(t, false)

	resp, body := f.do(http.MethodPost, "/api/auth/login", model.LoginRequest{Email: adminEmail, Password: "wrong"})
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	require.False(t, envelope(t, body).IsSuccess())
	require.Nil(t, cookieByName(resp.Cookies(), model.AccessTokenCookie))
}

func TestLogin_RateLimited(t *testing.T) {
	f := setupTestFixture(t, true)

	bad := model.LoginRequest{Email: adminEmail, Password: "wrong"}
	for i := 0; i < 2; i++ {
		resp, _ := f.do(http.MethodPost, "/api/auth/login", bad)
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	}
	resp, _ := f.do(http.MethodPost, "/api/auth/login", bad)
	require.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	require.NotEmpty(t, resp.Header.Get("Retry-After"))
}

func TestProtectedRoute_WithoutSessionIsForbidden(t *testing.T) {
	f := setupTestFixture(t, false)

	resp, body := f.do(http.MethodGet, "/api/contact", nil)
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
	env := envelope(t, body)
	require.Equal(t, model.StatusError, env.Status)
}

func TestRefresh_WithoutCookieIsForbidden(t *testing.T) {
	f := setupTestFixture(t, false)

	resp, body := f.do(http.MethodPost, "/api/auth/refresh", nil)
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
	require.Empty(t, body)
}

func TestExpiredAccess_RefreshThenRetry(t *testing.T) {
	f := setupTestFixture(t, false)
	f.login()

	resp, _ := f.do(http.MethodGet, "/api/contact", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// Move past the access token lifetime; the refresh token is still good
	jwt.NowTimeFunc = func() time.Time { return time.Now().Add(2 * time.Hour) }
	t.Cleanup(func() { jwt.NowTimeFunc = time.Now })
	resp, _ = f.do(http.MethodGet, "/api/contact", nil)
	require.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, body := f.do(http.MethodPost, "/api/auth/refresh", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	require.NotNil(t, cookieByName(resp.Cookies(), model.AccessTokenCookie))

	resp, _ = f.do(http.MethodGet, "/api/contact", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestLogout_ClearsSession(t *testing.T) {
	f := setupTestFixture(t, false)
	f.login()

	resp, _ := f.do(http.MethodPost, "/api/auth/logout", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	for _, c := range resp.Cookies() {
		require.Empty(t, c.Value)
		require.Negative(t, c.MaxAge)
	}

	resp, _ = f.do(http.MethodGet, "/api/auth/me", nil)
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp, _ = f.do(http.MethodPost, "/api/auth/refresh", nil)
	require.Equal(t, http.StatusForbidden, resp.StatusCode)

	// Logging out again without a session still succeeds
	resp, _ = f.do(http.MethodPost, "/api/auth/logout", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRegister_DisabledByDefault(t *testing.T) {
	f := setupTestFixture(t, false)

	resp, _ := f.do(http.MethodPost, "/api/auth/register", model.RegisterRequest{
		FirstName: "Ada", LastName: "Lovelace", Email: "ada@test.local", Password: "Str0ngPassw0rd!",
	})
	require.Equal(t, http.StatusNotImplemented, resp.StatusCode)
}

func TestProjects_CRUD(t *testing.T) {
	f := setupTestFixture(t, false)

	resp, body := f.do(http.MethodGet, "/api/projects", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	seeded := data[[]model.Project](t, body)
	require.Len(t, seeded, 2)

	resp, _ = f.do(http.MethodPost, "/api/projects", model.Project{Title: "New"})
	require.Equal(t, http.StatusForbidden, resp.StatusCode)

	f.login()
	resp, body = f.do(http.MethodPost, "/api/projects", model.Project{Title: "New", ProjectType: model.ProjectOpenSource})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	created := data[model.Project](t, body)
	require.NotEmpty(t, created.ID)

	resp, body = f.do(http.MethodPut, "/api/projects/"+created.ID, model.Project{Title: "Renamed", ProjectType: model.ProjectOpenSource})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "Renamed", data[model.Project](t, body).Title)

	resp, body = f.do(http.MethodGet, "/api/projects?featured=true", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	featured := data[[]model.Project](t, body)
	require.Len(t, featured, 1)
	require.Equal(t, "portfolio-site", featured[0].ID)

	resp, _ = f.do(http.MethodDelete, "/api/projects/"+created.ID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp, body = f.do(http.MethodGet, "/api/projects/"+created.ID, nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	require.Equal(t, "Project not found", envelope(t, body).Message)
}

func TestProjects_Validation(t *testing.T) {
	f := setupTestFixture(t, false)
	f.login()

	resp, _ := f.do(http.MethodPost, "/api/projects", model.Project{})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp, _ = f.do(http.MethodPost, "/api/projects", model.Project{Title: "x", ProjectType: "HOBBY"})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestBlogs_PagedAndBySlug(t *testing.T) {
	f := setupTestFixture(t, false)

	resp, body := f.do(http.MethodGet, "/api/blogs?page=0&size=10", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	page := data[model.Page[model.BlogPost]](t, body)
	require.Equal(t, int64(1), page.TotalElements)
	require.Equal(t, "refreshing-sessions", page.Content[0].Slug)

	resp, body = f.do(http.MethodGet, "/api/blogs/refreshing-sessions", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, int64(1), data[model.BlogPost](t, body).ViewCount)

	resp, body = f.do(http.MethodGet, "/api/blogs/draft-notes", nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	require.Empty(t, body)

	f.login()
	resp, body = f.do(http.MethodGet, "/api/blogs/admin", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, int64(2), data[model.Page[model.BlogPost]](t, body).TotalElements)

	resp, body = f.do(http.MethodPost, "/api/blogs", model.BlogPost{Title: "Hello, World!", IsPublished: true})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "hello-world", data[model.BlogPost](t, body).Slug)
}

func TestEducation_VisibilityAndReorder(t *testing.T) {
	f := setupTestFixture(t, false)

	resp, body := f.do(http.MethodGet, "/api/public/education", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, data[[]model.Education](t, body), 1)

	f.login()
	resp, body = f.do(http.MethodPost, "/api/admin/education", model.Education{Institution: "Night school", Degree: "Diploma"})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	created := data[model.Education](t, body)
	require.True(t, created.IsVisible())
	require.NotNil(t, created.Visible)

	resp, body = f.do(http.MethodGet, "/api/admin/education", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	all := data[[]model.Education](t, body)
	require.Len(t, all, 3)

	reversed := []string{all[2].ID, all[1].ID, all[0].ID}
	resp, body = f.do(http.MethodPatch, "/api/admin/education/reorder", reversed)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	reordered := data[[]model.Education](t, body)
	for i, e := range reordered {
		require.Equal(t, reversed[i], e.ID)
		require.Equal(t, i, e.OrderIndex)
	}

	resp, _ = f.do(http.MethodPatch, "/api/admin/education/reorder", []string{"missing"})
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestContact_SendAndManage(t *testing.T) {
	f := setupTestFixture(t, false)

	resp, _ := f.do(http.MethodPost, "/api/contact", model.ContactRequest{SenderName: "Bo", SenderEmail: "not-an-email", Message: "hi"})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, body := f.do(http.MethodPost, "/api/contact", model.ContactRequest{SenderName: "Bo", SenderEmail: "bo@example.com", Message: "hi"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	sent := data[model.ContactMessage](t, body)
	require.NotEmpty(t, sent.IPAddress)
	require.NotEmpty(t, sent.CreatedAt)

	f.login()
	resp, body = f.do(http.MethodGet, "/api/admin/dashboard/stats", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, int64(1), data[model.DashboardStats](t, body).UnreadMessages)

	resp, body = f.do(http.MethodPut, "/api/contact/"+sent.ID+"/read", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.True(t, data[model.ContactMessage](t, body).IsRead)

	resp, body = f.do(http.MethodGet, "/api/admin/dashboard/stats", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	stats := data[model.DashboardStats](t, body)
	require.Zero(t, stats.UnreadMessages)
	require.Equal(t, int64(2), stats.Projects)

	resp, _ = f.do(http.MethodDelete, "/api/contact/"+sent.ID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp, _ = f.do(http.MethodDelete, "/api/contact/"+sent.ID, nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestResume_Lifecycle(t *testing.T) {
	f := setupTestFixture(t, false)
	f.login()

	resp, body := f.do(http.MethodGet, "/api/admin/cv", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	env := envelope(t, body)
	require.True(t, env.IsSuccess())
	require.False(t, env.HasData())

	resp, _ = f.upload("/api/admin/cv/upload", "notes.txt", []byte("plain text"))
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	pdf := []byte("%PDF-1.4\n1 0 obj\n<<>>\nendobj\n")
	resp, body = f.upload("/api/admin/cv/upload", "cv.pdf", pdf)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	uploaded := data[model.ResumeUpload](t, body)
	require.Equal(t, "cv.pdf", uploaded.FileName)
	require.Equal(t, "http://dev.test/api/public/cv/download", uploaded.DownloadURL)

	resp, body = f.do(http.MethodGet, "/api/admin/cv", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	meta := data[model.ResumeMetadata](t, body)
	require.Equal(t, int64(len(pdf)), meta.FileSize)
	require.Equal(t, adminEmail, meta.UploadedBy)

	resp, body = f.do(http.MethodGet, "/api/public/cv/download", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, pdf, body)
	require.Contains(t, resp.Header.Get("Content-Disposition"), `filename="cv.pdf"`)

	resp, _ = f.do(http.MethodDelete, "/api/admin/cv", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp, body = f.do(http.MethodDelete, "/api/admin/cv", nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	require.Equal(t, model.StatusError, envelope(t, body).Status)

	resp, body = f.do(http.MethodGet, "/api/admin/dashboard/stats", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, int64(1), data[model.DashboardStats](t, body).Downloads)
}

func TestImageUpload_ServesStoredImage(t *testing.T) {
	f := setupTestFixture(t, false)
	f.login()

	png := []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")
	resp, body := f.upload("/api/admin/projects/portfolio-site/image", "shot.png", png)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	var img model.ImageUpload
	require.NoError(t, json.Unmarshal(body, &img))
	require.True(t, strings.HasPrefix(img.URL, "http://dev.test/uploads/"))

	resp, body = f.do(http.MethodGet, "/api/projects/portfolio-site", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, img.URL, data[model.Project](t, body).ProjectImage)

	resp, body = f.do(http.MethodGet, strings.TrimPrefix(img.URL, "http://dev.test"), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "image/png", resp.Header.Get("Content-Type"))
	require.Equal(t, png, body)

	resp, _ = f.upload("/api/admin/projects/missing/image", "shot.png", png)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestCORS_Preflight(t *testing.T) {
	f := setupTestFixture(t, false)

	req, err := http.NewRequest(http.MethodOptions, f.ts.URL+"/api/projects", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://localhost:5173")
	resp, _ := f.send(req)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	require.Equal(t, "http://localhost:5173", resp.Header.Get("Access-Control-Allow-Origin"))
	require.Equal(t, "true", resp.Header.Get("Access-Control-Allow-Credentials"))
	require.Contains(t, resp.Header.Get("Access-Control-Allow-Headers"), "X-Request-ID")

	req, err = http.NewRequest(http.MethodOptions, f.ts.URL+"/api/projects", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://evil.test")
	resp, _ = f.send(req)
	require.Empty(t, resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestHealthAndMetrics(t *testing.T) {
	f := setupTestFixture(t, false)
	f.login()

	resp, _ := f.do(http.MethodGet, "/healthz", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body := f.do(http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, string(body), `portfolio_devapi_logins_total{result="success"} 1`)
}

func TestParseSeed(t *testing.T) {
	seed, err := server.ParseSeed([]byte(`
profile:
  headline: Hi
skills:
  - skillName: Go
    proficiencyLevel: 90
`))
	require.NoError(t, err)
	require.Equal(t, "Hi", seed.Profile.Headline)
	require.Len(t, seed.Skills, 1)
	require.Equal(t, 90, seed.Skills[0].ProficiencyLevel)

	_, err = server.ParseSeed([]byte("skills: {not: [a list"))
	require.Error(t, err)

	defaults, err := server.LoadSeed("")
	require.NoError(t, err)
	require.NotEmpty(t, defaults.Projects)
}
