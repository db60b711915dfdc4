// user_test.go - Tests for landing, registration, login and logout
// Run with: go test ./...

package handlers

import (
	"net/http"          // HTTP status codes
	"net/http/httptest" // HTTP test helpers
	"net/url"           // Form encoding
	"path/filepath"     // Temp paths
	"strings"           // Request bodies
	"testing"           // Go's testing package
	"time"              // Token lifetimes

	"go-library-backend/config"     // Project config
	"go-library-backend/database"   // Database setup
	"go-library-backend/library"    // Domain service
	"go-library-backend/middleware" // Session tokens
	"go-library-backend/models"     // User model
	"go-library-backend/uploads"    // Cover store

	"github.com/gin-gonic/gin"            // Gin web framework
	"github.com/stretchr/testify/assert"  // For assertions
	"github.com/stretchr/testify/require" // For fatal assertions
	"golang.org/x/crypto/bcrypt"          // Password hashing
	"gorm.io/gorm"                        // ORM handle
)

// testEnv is a full router over a fresh SQLite database.
type testEnv struct {
	router  *gin.Engine
	db      *gorm.DB
	cfg     *config.Config
	svc     *library.Service
	admin   *models.User
	student *models.User
}

// setupTestEnv builds the app the same way main does, minus the network.
// Each tweak runs on the config before anything is wired.
func setupTestEnv(t *testing.T, tweaks ...func(*config.Config)) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	// STEP 1: Config pointing at temp storage
	dir := t.TempDir()
	cfg := config.Load()
	cfg.DBDriver = "sqlite"
	cfg.DBPath = filepath.Join(dir, "test.db")
	cfg.DBLogLevel = "silent"
	cfg.JWTSecret = "test-secret"
	cfg.UploadDir = filepath.Join(dir, "uploads")
	cfg.SweepOnRequest = true
	cfg.FinePerDay = 10
	cfg.Currency = "₹"
	for _, tweak := range tweaks {
		tweak(cfg)
	}

	// STEP 2: Schema only, no seed data
	db, err := database.Open(cfg)
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	// STEP 3: Service, handlers and templates
	svc := library.NewService(db, library.Options{
		FinePerDay: cfg.FinePerDay,
		LoanPeriod: cfg.LoanPeriod,
		Currency:   cfg.Currency,
	}, nil)
	h := NewHandler(db, cfg, svc, uploads.NewStore(cfg.UploadDir, cfg.AllowedExtensions, cfg.MaxUploadMB))

	r := gin.New()
	r.SetFuncMap(FuncMap(cfg.Currency, cfg.FinePerDay))
	r.LoadHTMLGlob("../templates/*.html")
	h.Routes(r)

	env := &testEnv{router: r, db: db, cfg: cfg, svc: svc}
	env.admin = env.createUser(t, "Admin", "admin@test.com", "adminpass", models.RoleAdmin)
	env.student = env.createUser(t, "Student", "student@test.com", "userpass", models.RoleStudent)
	return env
}

func (e *testEnv) createUser(t *testing.T, name, email, password string, role models.Role) *models.User {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	u := &models.User{Name: name, Email: email, Password: string(hash), Role: role}
	require.NoError(t, e.db.Create(u).Error)
	return u
}

// session returns a valid session cookie for u.
func (e *testEnv) session(t *testing.T, u *models.User) *http.Cookie {
	token, err := middleware.GenerateToken(u, e.cfg.JWTSecret, time.Hour, time.Now())
	require.NoError(t, err)
	return &http.Cookie{Name: middleware.TokenCookie, Value: token}
}

func (e *testEnv) get(path string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	return e.serve(req, cookies)
}

func (e *testEnv) post(path string, form url.Values, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return e.serve(req, cookies)
}

func (e *testEnv) serve(req *http.Request, cookies []*http.Cookie) *httptest.ResponseRecorder {
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

// follow loads the redirect target carrying the flash cookie, returning the
// rendered page.
func (e *testEnv) follow(t *testing.T, w *httptest.ResponseRecorder, cookies ...*http.Cookie) string {
	t.Helper()
	require.Equal(t, http.StatusFound, w.Code)
	for _, c := range w.Result().Cookies() {
		if c.Name == "flash" && c.MaxAge >= 0 {
			cookies = append(cookies, c)
		}
	}
	page := e.get(w.Header().Get("Location"), cookies...)
	require.Equal(t, http.StatusOK, page.Code, page.Body.String())
	return page.Body.String()
}

func sessionFrom(w *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range w.Result().Cookies() {
		if c.Name == middleware.TokenCookie && c.Value != "" {
			return c
		}
	}
	return nil
}

// TestRegisterAndLogin tests student registration and login
func TestRegisterAndLogin(t *testing.T) {
	env := setupTestEnv(t)

	// --- Registration ---
	w := env.post("/register", url.Values{
		"name":     {"Test User"},
		"email":    {"test@example.com"},
		"mobile":   {"5551234"},
		"password": {"testpass"},
	})
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))
	assert.Contains(t, env.follow(t, w), "Registration successful! Please login.")

	var user models.User
	require.NoError(t, env.db.Where("email = ?", "test@example.com").First(&user).Error)
	assert.Equal(t, models.RoleStudent, user.Role)

	// --- Duplicate email ---
	w = env.post("/register", url.Values{"name": {"Again"}, "email": {"test@example.com"}, "password": {"x"}})
	assert.Equal(t, "/register", w.Header().Get("Location"))
	assert.Contains(t, env.follow(t, w), "Email already registered")

	// --- Login ---
	w = env.post("/login", url.Values{"email": {"test@example.com"}, "password": {"testpass"}})
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/student/dashboard", w.Header().Get("Location"))
	require.NotNil(t, sessionFrom(w))

	// --- Login with wrong password ---
	w = env.post("/login", url.Values{"email": {"test@example.com"}, "password": {"wrongpass"}})
	assert.Equal(t, "/login", w.Header().Get("Location"))
	assert.Nil(t, sessionFrom(w))
	assert.Contains(t, env.follow(t, w), "Invalid email or password")
}

func TestLoginRedirects(t *testing.T) {
	env := setupTestEnv(t)
	form := url.Values{"email": {"admin@test.com"}, "password": {"adminpass"}}

	w := env.post("/login", form)
	assert.Equal(t, "/admin/dashboard", w.Header().Get("Location"))

	w = env.post("/login?next=%2Fbooks", form)
	assert.Equal(t, "/books", w.Header().Get("Location"))

	w = env.post("/login?next=https%3A%2F%2Fevil.example", form)
	assert.Equal(t, "/admin/dashboard", w.Header().Get("Location"))
}

func TestIndex(t *testing.T) {
	env := setupTestEnv(t)

	w := env.get("/")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Welcome to the Library")

	w = env.get("/", env.session(t, env.admin))
	assert.Equal(t, "/admin/dashboard", w.Header().Get("Location"))

	w = env.get("/", env.session(t, env.student))
	assert.Equal(t, "/student/dashboard", w.Header().Get("Location"))
}

func TestLogout(t *testing.T) {
	env := setupTestEnv(t)
	w := env.get("/logout", env.session(t, env.student))
	assert.Equal(t, "/", w.Header().Get("Location"))

	cleared := false
	for _, c := range w.Result().Cookies() {
		if c.Name == middleware.TokenCookie && c.MaxAge < 0 {
			cleared = true
		}
	}
	assert.True(t, cleared)
}

func TestSafeNext(t *testing.T) {
	assert.Equal(t, "/books?x=1", safeNext("/books?x=1"))
	assert.Empty(t, safeNext("//evil.example"))
	assert.Empty(t, safeNext("/\\evil.example"))
	assert.Empty(t, safeNext("https://evil.example"))
	assert.Empty(t, safeNext("books"))
	assert.Empty(t, safeNext(""))
}
