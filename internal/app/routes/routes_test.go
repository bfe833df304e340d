package routes_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/yigit/universe/internal/bootstrap"
	"github.com/yigit/universe/internal/config"
	"github.com/yigit/universe/internal/middleware"
	"github.com/yigit/universe/internal/pkg/auth"
	"github.com/yigit/universe/internal/pkg/logger"
)

const verifier = "verify@example.com"

type envelope struct {
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
		Field   string `json:"field"`
	} `json:"error"`
}

func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()
	auth.BcryptCost = bcrypt.MinCost

	t.Setenv("APP_ENV", config.EnvTesting)
	t.Setenv("STORAGE_DRIVER", config.DriverMemory)
	t.Setenv("SECRET_KEY", "route-test-secret")
	t.Setenv("VERIFICATION_EMAIL", verifier)
	t.Setenv("SMTP_HOST", "")

	cfg, err := config.LoadConfig("")
	require.NoError(t, err)

	lgr := logger.Nop()
	wb, release, err := bootstrap.SetupWorkbook(context.Background(), cfg, lgr)
	require.NoError(t, err)
	t.Cleanup(release)

	deps, err := bootstrap.BuildDependencies(cfg, wb, lgr)
	require.NoError(t, err)
	router, err := bootstrap.SetupRouter(cfg, deps, lgr)
	require.NoError(t, err)
	return router
}

func do(t *testing.T, r http.Handler, method, path, body string, header http.Header) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range header {
		req.Header[k] = v
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return w, env
}

func bearer(token string) http.Header {
	return http.Header{"Authorization": {"Bearer " + token}}
}

func register(t *testing.T, r http.Handler, email, name string) string {
	t.Helper()
	w, env := do(t, r, http.MethodPost, "/api/v1/auth/register",
		`{"email":"`+email+`","name":"`+name+`","password":"secret123"}`, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var data struct {
		Token struct {
			AccessToken string `json:"accessToken"`
		} `json:"token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	require.NotEmpty(t, data.Token.AccessToken)
	return data.Token.AccessToken
}

func TestSiteAndHealth(t *testing.T) {
	r := setupRouter(t)
	assert.Equal(t, gin.TestMode, gin.Mode())

	for _, path := range []string{"/", "/api/v1/site"} {
		w, env := do(t, r, http.MethodGet, path, "", nil)
		require.Equal(t, http.StatusOK, w.Code)
		var site struct {
			SiteName   string `json:"siteName"`
			DataSource string `json:"dataSource"`
			LiveData   bool   `json:"liveData"`
		}
		require.NoError(t, json.Unmarshal(env.Data, &site))
		assert.Equal(t, "UniVerse", site.SiteName)
		assert.Equal(t, "sample", site.DataSource)
		assert.False(t, site.LiveData)
	}

	w, _ := do(t, r, http.MethodGet, "/api/v1/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w, env := do(t, r, http.MethodGet, "/api/v1/nope", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "RES_001", env.Error.Code)
}

func TestCourseRoutes(t *testing.T) {
	r := setupRouter(t)

	w, env := do(t, r, http.MethodGet, "/api/v1/courses?q=physics", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list struct {
		Courses []struct {
			Slug string `json:"slug"`
		} `json:"courses"`
		Total int `json:"total"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &list))
	require.Len(t, list.Courses, 1)
	assert.Equal(t, "physics-i", list.Courses[0].Slug)
	assert.Equal(t, 6, list.Total)

	w, env = do(t, r, http.MethodGet, "/api/v1/courses/computer-science-i", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var detail struct {
		Materials []struct {
			ID string `json:"id"`
		} `json:"materials"`
		CanVerify bool `json:"canVerify"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &detail))
	assert.Len(t, detail.Materials, 2)
	assert.False(t, detail.CanVerify)

	w, env = do(t, r, http.MethodGet, "/api/v1/courses/unknown-course", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Course not found", env.Error.Message)
}

func TestListingRoutes(t *testing.T) {
	r := setupRouter(t)

	tests := []struct {
		path     string
		filtered int
	}{
		{"/api/v1/opportunities", 4},
		{"/api/v1/opportunities?type=Event", 2},
		{"/api/v1/jobs?programme=" + url.QueryEscape("Mechanical Engineering"), 2},
		{"/api/v1/events", 3},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			w, env := do(t, r, http.MethodGet, tt.path, "", nil)
			require.Equal(t, http.StatusOK, w.Code)
			var resp struct {
				Filtered int `json:"filtered"`
			}
			require.NoError(t, json.Unmarshal(env.Data, &resp))
			assert.Equal(t, tt.filtered, resp.Filtered)
		})
	}

	w, env := do(t, r, http.MethodGet, "/api/v1/timetable?search=fischer&day=mi", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var tt struct {
		Entries []struct {
			ProgramSemester string `json:"programSemester"`
		} `json:"entries"`
		Total int `json:"total"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &tt))
	require.Len(t, tt.Entries, 1)
	assert.Equal(t, "BA Informatik 1, BA Wirtschaftsinformatik 1", tt.Entries[0].ProgramSemester)
	assert.Equal(t, 5, tt.Total)
}

func TestAuthRoutes(t *testing.T) {
	r := setupRouter(t)
	register(t, r, "dana@example.com", "Dana")

	w, env := do(t, r, http.MethodPost, "/api/v1/auth/register",
		`{"email":"dana@example.com","name":"Dana","password":"secret123"}`, nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "RES_002", env.Error.Code)

	w, env = do(t, r, http.MethodPost, "/api/v1/auth/register",
		`{"email":"eve@example.com","name":"Eve","password":"short"}`, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "password", env.Error.Field)

	w, _ = do(t, r, http.MethodPost, "/api/v1/auth/login", `{"email":"dana@example.com","password":"wrong1234"}`, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, _ = do(t, r, http.MethodPost, "/api/v1/auth/login", `{"email":"dana@example.com","password":"secret123"}`, nil)
	require.Equal(t, http.StatusOK, w.Code)
	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies)
	assert.Equal(t, middleware.SessionCookie, cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/account", nil)
	req.AddCookie(cookies[0])
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code, "session cookie authenticates")

	w, _ = do(t, r, http.MethodPost, "/api/v1/auth/logout", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NotEmpty(t, w.Result().Cookies())
	assert.True(t, w.Result().Cookies()[0].MaxAge < 0)
}

func TestProtectedRoutesRequireSession(t *testing.T) {
	r := setupRouter(t)

	for _, route := range []struct{ method, path string }{
		{http.MethodGet, "/api/v1/account"},
		{http.MethodPost, "/api/v1/materials/rate"},
		{http.MethodPost, "/api/v1/materials/verify"},
		{http.MethodPost, "/api/v1/comments"},
	} {
		w, env := do(t, r, route.method, route.path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code, route.path)
		assert.Equal(t, "AUTH_008", env.Error.Code)
	}

	w, env := do(t, r, http.MethodGet, "/api/v1/account", "", bearer("not.a.token"))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "AUTH_005", env.Error.Code)

	// well-signed token whose account does not exist
	jwtSvc := auth.NewJWTService(auth.JWTConfig{SecretKey: "route-test-secret", AccessTokenExp: time.Hour})
	token, _, err := jwtSvc.GenerateToken("ghost@example.com", "Ghost")
	require.NoError(t, err)
	w, env = do(t, r, http.MethodGet, "/api/v1/account", "", bearer(token))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "AUTH_008", env.Error.Code)
}

func TestMaterialRoutes(t *testing.T) {
	r := setupRouter(t)
	token := register(t, r, "ben.student@example.com", "Ben")
	verifierToken := register(t, r, verifier, "Verifier")

	rate := `{"courseSlug":"computer-science-i","title":"Lecture Notes Week 1","rating":2}`
	w, env := do(t, r, http.MethodPost, "/api/v1/materials/rate", rate, bearer(token))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var m struct {
		Rating      float64 `json:"rating"`
		RatingCount int     `json:"ratingCount"`
		Verified    bool    `json:"verified"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &m))
	assert.Equal(t, 3.67, m.Rating)
	assert.Equal(t, 3, m.RatingCount)

	w, _ = do(t, r, http.MethodPost, "/api/v1/materials/rate",
		`{"courseSlug":"computer-science-i","title":"Lecture Notes Week 1","rating":9}`, bearer(token))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	verify := `{"courseSlug":"physics-i","title":"Lab Report Template"}`
	w, _ = do(t, r, http.MethodPost, "/api/v1/materials/verify", verify, bearer(token))
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, env = do(t, r, http.MethodPost, "/api/v1/materials/verify", verify, bearer(verifierToken))
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(env.Data, &m))
	assert.True(t, m.Verified)

	w, _ = do(t, r, http.MethodPost, "/api/v1/materials/verify", verify, bearer(verifierToken))
	assert.Equal(t, http.StatusConflict, w.Code)

	w, env = do(t, r, http.MethodGet, "/api/v1/courses/physics-i", "", bearer(verifierToken))
	require.Equal(t, http.StatusOK, w.Code)
	var detail struct {
		CanVerify bool `json:"canVerify"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &detail))
	assert.True(t, detail.CanVerify)

	w, env = do(t, r, http.MethodGet, "/api/v1/materials?author=anna.student@example.com", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var materials []json.RawMessage
	require.NoError(t, json.Unmarshal(env.Data, &materials))
	assert.Len(t, materials, 2)
}

func TestCommentAndProfileRoutes(t *testing.T) {
	r := setupRouter(t)
	anna := register(t, r, "anna.student@example.com", "Anna Student")
	register(t, r, "ben.student@example.com", "Ben Student")

	w, _ := do(t, r, http.MethodPost, "/api/v1/comments",
		`{"type":"material","referenceId":"computer-science-i:Lecture Notes Week 1","text":"Great notes"}`, bearer(anna))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w, _ = do(t, r, http.MethodPost, "/api/v1/comments",
		`{"type":"profile","referenceId":"ben.student@example.com","text":"Thanks!"}`, bearer(anna))
	require.Equal(t, http.StatusCreated, w.Code)

	w, env := do(t, r, http.MethodPost, "/api/v1/comments",
		`{"type":"course","referenceId":"x","text":"hi"}`, bearer(anna))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "type", env.Error.Field)

	w, _ = do(t, r, http.MethodPost, "/api/v1/comments",
		`{"type":"material","referenceId":"physics-i:Nope","text":"hi"}`, bearer(anna))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, env = do(t, r, http.MethodGet, "/api/v1/comments?type=material&ref="+url.QueryEscape("computer-science-i:Lecture Notes Week 1"), "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list struct {
		Total int `json:"total"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &list))
	assert.Equal(t, 1, list.Total)

	w, env = do(t, r, http.MethodGet, "/api/v1/profiles/ben.student@example.com", "", bearer(anna))
	require.Equal(t, http.StatusOK, w.Code)
	var profile struct {
		Comments     []json.RawMessage `json:"comments"`
		IsOwnAccount bool              `json:"isOwnAccount"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &profile))
	assert.Len(t, profile.Comments, 1)
	assert.False(t, profile.IsOwnAccount)

	w, env = do(t, r, http.MethodGet, "/api/v1/account", "", bearer(anna))
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(env.Data, &profile))
	assert.True(t, profile.IsOwnAccount)

	w, env = do(t, r, http.MethodGet, "/api/v1/profiles?search=student&size=1&page=2", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var page struct {
		Users []struct {
			Email string `json:"email"`
		} `json:"users"`
		Pagination struct {
			TotalItems int64 `json:"totalItems"`
		} `json:"pagination"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &page))
	require.Len(t, page.Users, 1)
	assert.Equal(t, "ben.student@example.com", page.Users[0].Email)
	assert.Equal(t, int64(2), page.Pagination.TotalItems)

	w, _ = do(t, r, http.MethodGet, "/api/v1/profiles/ghost@example.com", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
