package users

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"remedy/db"
	"remedy/store"

	"github.com/gin-gonic/gin"
)

func setupAuthRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	conn, err := db.InitSQLite(filepath.Join(t.TempDir(), "users.sqlite"))
	if err != nil {
		t.Fatalf("init sqlite: %v", err)
	}
	if err := db.EnsureSchema(conn); err != nil {
		t.Fatalf("ensure schema: %v", err)
	}
	t.Cleanup(func() {
		_ = conn.Close()
	})

	h := &Handler{Store: store.New(conn), Sessions: NewSessions()}

	r := gin.New()
	r.POST("/register", h.HandleRegister)
	r.POST("/login", h.HandleLogin)
	r.POST("/logout", h.HandleLogout)
	r.GET("/check-login", h.HandleCheckLogin)
	r.GET("/user", h.AuthMiddleware(), h.HandleGetProfile)
	r.PUT("/user", h.AuthMiddleware(), h.HandleUpdateProfile)
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method string, path string, body interface{}, cookies []*http.Cookie) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()

	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal payload: %v", err)
		}
	}

	req := httptest.NewRequest(method, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	var resp map[string]interface{}
	if rec.Body.Len() > 0 {
		_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	}
	return rec, resp
}

func loginAs(t *testing.T, r *gin.Engine, username string, password string) []*http.Cookie {
	t.Helper()

	rec, _ := doJSON(t, r, http.MethodPost, "/login", map[string]string{"username": username, "password": password}, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("login failed: %d body=%s", rec.Code, rec.Body.String())
	}
	cookies := rec.Result().Cookies()
	if len(cookies) == 0 {
		t.Fatalf("expected a session cookie on login")
	}
	return cookies
}

func TestRegisterThenLogin(t *testing.T) {
	r := setupAuthRouter(t)

	rec, resp := doJSON(t, r, http.MethodPost, "/register", map[string]string{"username": "alice", "password": "pw1"}, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("register failed: %d body=%s", rec.Code, rec.Body.String())
	}

	rec, resp = doJSON(t, r, http.MethodPost, "/login", map[string]string{"username": "alice", "password": "pw1"}, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("login failed: %d body=%s", rec.Code, rec.Body.String())
	}
	if resp["user"] != "alice" {
		t.Fatalf("expected user alice in login response, got %v", resp["user"])
	}
}

func TestRegisterRejectsMissingFields(t *testing.T) {
	r := setupAuthRouter(t)

	rec, _ := doJSON(t, r, http.MethodPost, "/register", map[string]string{"username": "  ", "password": "pw1"}, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for blank username, got %d", rec.Code)
	}

	rec, _ = doJSON(t, r, http.MethodPost, "/register", map[string]string{"username": "alice"}, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing password, got %d", rec.Code)
	}
}

func TestRegisterRejectsTakenUsername(t *testing.T) {
	r := setupAuthRouter(t)

	rec, _ := doJSON(t, r, http.MethodPost, "/register", map[string]string{"username": "alice", "password": "pw1"}, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("register failed: %d", rec.Code)
	}

	rec, _ = doJSON(t, r, http.MethodPost, "/register", map[string]string{"username": "alice", "password": "other"}, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for taken username, got %d", rec.Code)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	r := setupAuthRouter(t)

	doJSON(t, r, http.MethodPost, "/register", map[string]string{"username": "alice", "password": "pw1"}, nil)

	rec, _ := doJSON(t, r, http.MethodPost, "/login", map[string]string{"username": "alice", "password": "wrong"}, nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for wrong password, got %d", rec.Code)
	}

	// Exact match required, including case
	rec, _ = doJSON(t, r, http.MethodPost, "/login", map[string]string{"username": "alice", "password": "PW1"}, nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for wrong-case password, got %d", rec.Code)
	}

	rec, _ = doJSON(t, r, http.MethodPost, "/login", map[string]string{"username": "nobody", "password": "pw1"}, nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for unknown user, got %d", rec.Code)
	}
}

func TestCheckLoginReflectsSessionState(t *testing.T) {
	r := setupAuthRouter(t)

	rec, resp := doJSON(t, r, http.MethodGet, "/check-login", nil, nil)
	if rec.Code != http.StatusOK || resp["logged_in"] != false {
		t.Fatalf("expected logged_in=false before login, got %d %v", rec.Code, resp)
	}

	doJSON(t, r, http.MethodPost, "/register", map[string]string{"username": "alice", "password": "pw1"}, nil)
	cookies := loginAs(t, r, "alice", "pw1")

	rec, resp = doJSON(t, r, http.MethodGet, "/check-login", nil, cookies)
	if resp["logged_in"] != true || resp["user"] != "alice" {
		t.Fatalf("expected logged_in=true for alice, got %v", resp)
	}

	rec, _ = doJSON(t, r, http.MethodPost, "/logout", nil, cookies)
	if rec.Code != http.StatusOK {
		t.Fatalf("logout failed: %d", rec.Code)
	}

	rec, resp = doJSON(t, r, http.MethodGet, "/check-login", nil, cookies)
	if resp["logged_in"] != false {
		t.Fatalf("expected logged_in=false after logout, got %v", resp)
	}
}

func TestLogoutIsIdempotent(t *testing.T) {
	r := setupAuthRouter(t)

	rec, _ := doJSON(t, r, http.MethodPost, "/logout", nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for logout without a session, got %d", rec.Code)
	}
}

func TestGetProfileStripsPassword(t *testing.T) {
	r := setupAuthRouter(t)

	doJSON(t, r, http.MethodPost, "/register", map[string]string{"username": "alice", "password": "pw1"}, nil)
	cookies := loginAs(t, r, "alice", "pw1")

	rec, resp := doJSON(t, r, http.MethodGet, "/user", nil, cookies)
	if rec.Code != http.StatusOK {
		t.Fatalf("get profile failed: %d body=%s", rec.Code, rec.Body.String())
	}
	if resp["username"] != "alice" {
		t.Fatalf("expected username alice, got %v", resp["username"])
	}
	if _, present := resp["password"]; present {
		t.Fatalf("password leaked in profile response: %s", rec.Body.String())
	}
}

func TestGetProfileRequiresSession(t *testing.T) {
	r := setupAuthRouter(t)

	rec, _ := doJSON(t, r, http.MethodGet, "/user", nil, nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without session, got %d", rec.Code)
	}
}

func TestUpdateProfile(t *testing.T) {
	r := setupAuthRouter(t)

	doJSON(t, r, http.MethodPost, "/register", map[string]string{"username": "alice", "password": "pw1"}, nil)
	cookies := loginAs(t, r, "alice", "pw1")

	rec, _ := doJSON(t, r, http.MethodPut, "/user", map[string]string{"nickname": "al"}, cookies)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 when no recognized fields are sent, got %d", rec.Code)
	}

	rec, _ = doJSON(t, r, http.MethodPut, "/user", map[string]string{"email": "alice@example.com", "password": "pw2"}, cookies)
	if rec.Code != http.StatusOK {
		t.Fatalf("update failed: %d body=%s", rec.Code, rec.Body.String())
	}

	rec, resp := doJSON(t, r, http.MethodGet, "/user", nil, cookies)
	if resp["email"] != "alice@example.com" {
		t.Fatalf("email not updated, got %v", resp["email"])
	}

	rec, _ = doJSON(t, r, http.MethodPost, "/login", map[string]string{"username": "alice", "password": "pw1"}, nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("old password still accepted after change")
	}
	loginAs(t, r, "alice", "pw2")
}
