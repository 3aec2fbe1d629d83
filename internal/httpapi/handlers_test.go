package httpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"forms-platform/internal/audit"
	"forms-platform/internal/auth"
	"forms-platform/internal/config"
	"forms-platform/internal/forms"
	"forms-platform/internal/ratelimit"
	"forms-platform/internal/rbac"
	"forms-platform/internal/users"

	"github.com/gin-gonic/gin"
)

type testEnv struct {
	router    *gin.Engine
	userRepo  *users.MemoryRepo
	formRepo  *forms.MemoryRepo
	tokens    *auth.Manager
	hasher    *auth.PasswordHasher
	auditRepo *audit.MemoryRepo
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	tokens, err := auth.NewManager(config.AuthConfig{JWTSecret: "secret", TokenTTL: 7 * 24 * time.Hour})
	if err != nil {
		t.Fatalf("manager: %v", err)
	}
	hasher, err := auth.NewPasswordHasher(4)
	if err != nil {
		t.Fatalf("hasher: %v", err)
	}

	userRepo := users.NewMemoryRepo()
	formRepo := forms.NewMemoryRepo()
	auditRepo := audit.NewMemoryRepo()
	auditSvc := audit.NewService(auditRepo)

	h := Handlers{
		Users:        users.NewService(userRepo, tokens, hasher, auditSvc),
		Forms:        forms.NewService(formRepo, auditSvc),
		LoginLimiter: ratelimit.NewLoginLimiter(nil, 0, 0),
	}

	r := gin.New()
	authMW := auth.RequireAuth(tokens)

	api := r.Group("/api")
	authGroup := api.Group("/auth")
	authGroup.POST("/register", h.Register)
	authGroup.POST("/login", h.Login)
	authGroup.GET("/me", authMW, h.Me)

	userForms := api.Group("/user/forms")
	userForms.Use(authMW)
	userForms.POST("", h.CreateForm)
	userForms.GET("/my-forms", h.MyForms)
	userForms.GET("/:id", h.GetMyForm)

	admin := api.Group("/admin")
	admin.Use(authMW)
	admin.Use(rbac.RequireAdmin())
	admin.GET("/forms", h.AdminListForms)
	admin.GET("/forms/:id", h.AdminGetForm)
	admin.PUT("/forms/:id", h.AdminUpdateForm)
	admin.DELETE("/forms/:id", h.AdminDeleteForm)

	return &testEnv{
		router:    r,
		userRepo:  userRepo,
		formRepo:  formRepo,
		tokens:    tokens,
		hasher:    hasher,
		auditRepo: auditRepo,
	}
}

func (e *testEnv) do(t *testing.T, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body %q: %v", w.Body.String(), err)
	}
	return body
}

// createAdmin seeds an admin account directly; registration only ever
// produces standard users.
func (e *testEnv) createAdmin(t *testing.T) string {
	t.Helper()
	hash, err := e.hasher.Hash("adminpw")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	u := &users.User{Name: "Root", Email: "root@x.com", PasswordHash: hash, Role: rbac.RoleAdmin}
	if err := e.userRepo.Create(context.Background(), u); err != nil {
		t.Fatalf("create admin: %v", err)
	}
	tok, err := e.tokens.Issue(time.Now(), u.ID, u.Email, u.Role)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	return tok
}

func TestRegisterLoginMeScenario(t *testing.T) {
	e := newTestEnv(t)

	// register Ann
	w := e.do(t, http.MethodPost, "/api/auth/register", "", `{"name":"Ann","email":"ann@x.com","password":"secret123"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("register: expected 201, got %d: %s", w.Code, w.Body.String())
	}
	body := decode(t, w)
	user := body["user"].(map[string]any)
	if user["role"] != "user" {
		t.Fatalf("expected role user, got %v", user["role"])
	}
	if _, hasHash := user["password_hash"]; hasHash {
		t.Fatalf("password hash leaked: %v", user)
	}

	// wrong password
	w = e.do(t, http.MethodPost, "/api/auth/login", "", `{"email":"ann@x.com","password":"wrong"}`)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
	if decode(t, w)["message"] != "Invalid credentials" {
		t.Fatalf("unexpected message: %s", w.Body.String())
	}

	// correct password
	w = e.do(t, http.MethodPost, "/api/auth/login", "", `{"email":"ann@x.com","password":"secret123"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("login: expected 200, got %d: %s", w.Code, w.Body.String())
	}
	token := decode(t, w)["token"].(string)

	// me
	w = e.do(t, http.MethodGet, "/api/auth/me", token, "")
	if w.Code != http.StatusOK {
		t.Fatalf("me: expected 200, got %d: %s", w.Code, w.Body.String())
	}
	me := decode(t, w)["user"].(map[string]any)
	if me["email"] != "ann@x.com" {
		t.Fatalf("unexpected me: %v", me)
	}
	if _, hasCreated := me["created_at"]; !hasCreated {
		t.Fatalf("expected created_at on /me: %v", me)
	}
}

func TestRegister_ValidationAndDuplicate(t *testing.T) {
	e := newTestEnv(t)

	w := e.do(t, http.MethodPost, "/api/auth/register", "", `{"name":"","email":"a@b.c","password":"pw"}`)
	if w.Code != http.StatusBadRequest || decode(t, w)["message"] != "All fields required" {
		t.Fatalf("expected 400 All fields required, got %d %s", w.Code, w.Body.String())
	}

	w = e.do(t, http.MethodPost, "/api/auth/register", "", `{"name":"Ann","email":"ann@x.com","password":"pw"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("register: %d", w.Code)
	}
	w = e.do(t, http.MethodPost, "/api/auth/register", "", `{"name":"Imposter","email":"ann@x.com","password":"pw2"}`)
	if w.Code != http.StatusBadRequest || decode(t, w)["message"] != "Email already registered" {
		t.Fatalf("expected duplicate rejection, got %d %s", w.Code, w.Body.String())
	}
}

func TestLogin_UnknownEmailAndWrongPasswordBodiesAreIdentical(t *testing.T) {
	e := newTestEnv(t)

	w := e.do(t, http.MethodPost, "/api/auth/register", "", `{"name":"Ann","email":"ann@x.com","password":"secret123"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("register: %d", w.Code)
	}

	unknown := e.do(t, http.MethodPost, "/api/auth/login", "", `{"email":"ghost@x.com","password":"secret123"}`)
	wrongPw := e.do(t, http.MethodPost, "/api/auth/login", "", `{"email":"ann@x.com","password":"wrong"}`)

	if unknown.Code != http.StatusUnauthorized || wrongPw.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401/401, got %d/%d", unknown.Code, wrongPw.Code)
	}
	if unknown.Body.String() != wrongPw.Body.String() {
		t.Fatalf("bodies differ:\n%s\n%s", unknown.Body.String(), wrongPw.Body.String())
	}
}

func TestMe_AccountDeletedAfterIssuance(t *testing.T) {
	e := newTestEnv(t)

	w := e.do(t, http.MethodPost, "/api/auth/register", "", `{"name":"Ann","email":"ann@x.com","password":"secret123"}`)
	body := decode(t, w)
	token := body["token"].(string)
	id := int64(body["user"].(map[string]any)["id"].(float64))

	e.userRepo.Delete(id)

	// Token still verifies; the lookup 404s.
	w = e.do(t, http.MethodGet, "/api/auth/me", token, "")
	if w.Code != http.StatusNotFound || decode(t, w)["message"] != "User not found" {
		t.Fatalf("expected 404 User not found, got %d %s", w.Code, w.Body.String())
	}
}

func TestFormLifecycleForUser(t *testing.T) {
	e := newTestEnv(t)

	w := e.do(t, http.MethodPost, "/api/auth/register", "", `{"name":"Ann","email":"ann@x.com","password":"secret123"}`)
	token := decode(t, w)["token"].(string)

	// missing required fields
	w = e.do(t, http.MethodPost, "/api/user/forms", token, `{"full_name":"","email":""}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}

	// create
	w = e.do(t, http.MethodPost, "/api/user/forms", token,
		`{"full_name":"Ann","email":"ann@x.com","degree":"BSc","graduation_year":2020,"skills":["go","sql"]}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d: %s", w.Code, w.Body.String())
	}
	formID := int64(decode(t, w)["formId"].(float64))
	if formID == 0 {
		t.Fatalf("expected formId")
	}

	// list mine
	w = e.do(t, http.MethodGet, "/api/user/forms/my-forms", token, "")
	if w.Code != http.StatusOK {
		t.Fatalf("list: %d", w.Code)
	}
	list := decode(t, w)["forms"].([]any)
	if len(list) != 1 {
		t.Fatalf("expected 1 form, got %d", len(list))
	}
	skills := list[0].(map[string]any)["skills"].([]any)
	if len(skills) != 2 || skills[0] != "go" {
		t.Fatalf("skills lost: %v", skills)
	}

	// another user cannot see it
	w = e.do(t, http.MethodPost, "/api/auth/register", "", `{"name":"Bob","email":"bob@x.com","password":"pw"}`)
	bobToken := decode(t, w)["token"].(string)
	w = e.do(t, http.MethodGet, "/api/user/forms/1", bobToken, "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for foreign form, got %d", w.Code)
	}

	// owner can
	w = e.do(t, http.MethodGet, "/api/user/forms/1", token, "")
	if w.Code != http.StatusOK {
		t.Fatalf("owner get: %d", w.Code)
	}
}

func TestAdminGate(t *testing.T) {
	e := newTestEnv(t)

	w := e.do(t, http.MethodPost, "/api/auth/register", "", `{"name":"Ann","email":"ann@x.com","password":"secret123"}`)
	userToken := decode(t, w)["token"].(string)

	// no token
	w = e.do(t, http.MethodGet, "/api/admin/forms", "", "")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}

	// standard role
	w = e.do(t, http.MethodGet, "/api/admin/forms", userToken, "")
	if w.Code != http.StatusForbidden || decode(t, w)["message"] != "Admin access required" {
		t.Fatalf("expected 403 Admin access required, got %d %s", w.Code, w.Body.String())
	}

	// admin role
	adminToken := e.createAdmin(t)
	w = e.do(t, http.MethodGet, "/api/admin/forms", adminToken, "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 for admin, got %d: %s", w.Code, w.Body.String())
	}
}

func TestAdminFormManagement(t *testing.T) {
	e := newTestEnv(t)

	w := e.do(t, http.MethodPost, "/api/auth/register", "", `{"name":"Ann","email":"ann@x.com","password":"secret123"}`)
	userToken := decode(t, w)["token"].(string)
	userID := int64(decode(t, w)["user"].(map[string]any)["id"].(float64))
	e.formRepo.Owners[userID] = [2]string{"Ann", "ann@x.com"}

	w = e.do(t, http.MethodPost, "/api/user/forms", userToken, `{"full_name":"Ann","email":"ann@x.com"}`)
	formID := int64(decode(t, w)["formId"].(float64))
	formPath := fmt.Sprintf("/api/admin/forms/%d", formID)

	adminToken := e.createAdmin(t)

	// admin list includes owner info
	w = e.do(t, http.MethodGet, "/api/admin/forms", adminToken, "")
	all := decode(t, w)["forms"].([]any)
	if len(all) != 1 {
		t.Fatalf("expected 1 form, got %d", len(all))
	}
	if all[0].(map[string]any)["user_email"] != "ann@x.com" {
		t.Fatalf("expected owner join: %v", all[0])
	}

	// update
	w = e.do(t, http.MethodPut, formPath, adminToken,
		`{"full_name":"Ann Smith","email":"ann@x.com","skills":["go"]}`)
	if w.Code != http.StatusOK {
		t.Fatalf("update: %d: %s", w.Code, w.Body.String())
	}
	w = e.do(t, http.MethodGet, formPath, adminToken, "")
	if got := decode(t, w)["form"].(map[string]any)["full_name"]; got != "Ann Smith" {
		t.Fatalf("update lost: %v", got)
	}

	// delete
	w = e.do(t, http.MethodDelete, formPath, adminToken, "")
	if w.Code != http.StatusOK {
		t.Fatalf("delete: %d", w.Code)
	}
	w = e.do(t, http.MethodGet, formPath, adminToken, "")
	if w.Code != http.StatusNotFound || decode(t, w)["message"] != "Form not found" {
		t.Fatalf("expected 404 after delete, got %d %s", w.Code, w.Body.String())
	}

	// missing ids
	for _, path := range []string{"/api/admin/forms/999", "/api/admin/forms/abc"} {
		w = e.do(t, http.MethodDelete, path, adminToken, "")
		if w.Code != http.StatusNotFound {
			t.Fatalf("expected 404 for %s, got %d", path, w.Code)
		}
	}
}
