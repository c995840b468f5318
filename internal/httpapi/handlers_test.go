package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"blog-platform/internal/auth"
	"blog-platform/internal/config"
	"blog-platform/internal/post"
	"blog-platform/internal/user"

	"github.com/gin-gonic/gin"
)

type fakeCache struct {
	m    map[string][]byte
	gets int
	sets int
}

func newFakeCache() *fakeCache { return &fakeCache{m: make(map[string][]byte)} }

func (f *fakeCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	f.gets++
	b, ok := f.m[key]
	return b, ok, nil
}

func (f *fakeCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	f.sets++
	f.m[key] = value
	return nil
}

type testAPI struct {
	router *gin.Engine
	h      Handlers
	users  *user.MemoryRepo
	cache  *fakeCache
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	gin.SetMode(gin.TestMode)

	m, err := auth.NewManager(config.AuthConfig{
		Secret:     "secret",
		Algorithm:  "HS256",
		AccessTTL:  15 * time.Minute,
		RefreshTTL: 7 * 24 * time.Hour,
	})
	if err != nil {
		t.Fatalf("manager: %v", err)
	}

	urepo := user.NewMemoryRepo()
	sessions := auth.NewService(m, urepo)
	fc := newFakeCache()

	h := Handlers{
		Sessions: sessions,
		Users:    user.NewService(urepo, config.PagingConfig{DefaultPage: 1, DefaultPageSize: 10, MaxPageSize: 100}),
		Posts:    post.NewService(post.NewMemoryRepo()),
		Cache:    fc,
		CacheTTL: time.Minute,
	}

	r := gin.New()
	v1 := r.Group("/api/v1")
	{
		users := v1.Group("/users")
		users.POST("", h.RegisterUser)
		users.POST("/login", h.Login)
		users.POST("/refresh", h.Refresh)
		users.GET("", h.ListUsers)
		users.GET("/:id", h.GetUser)

		v1.GET("/me", auth.RequireAuth(sessions), h.Me)

		posts := v1.Group("/posts")
		posts.POST("", auth.RequireAuth(sessions), h.CreatePost)
		posts.GET("/:id", h.GetPost)
	}
	r.POST("/api/v2/users", h.RegisterUserV2)

	return &testAPI{router: r, h: h, users: urepo, cache: fc}
}

func (a *testAPI) seedAlice(t *testing.T) user.User {
	t.Helper()
	hash, err := auth.HashPassword("password123")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	u, err := a.users.Create(context.Background(), user.NewUser{
		Name:         "Alice",
		Email:        "alice@example.com",
		PasswordHash: hash,
	})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	return u
}

func (a *testAPI) do(t *testing.T, method, path, body string, header map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	for k, v := range header {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode body %q: %v", w.Body.String(), err)
	}
	return out
}

func refreshCookie(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, ck := range w.Result().Cookies() {
		if ck.Name == auth.RefreshCookieName {
			return ck
		}
	}
	return nil
}

/* ===================== SESSION ===================== */

func TestLogin_WebClientGetsCookie(t *testing.T) {
	api := newTestAPI(t)
	api.seedAlice(t)

	w := api.do(t, http.MethodPost, "/api/v1/users/login",
		`{"username":"alice@example.com","password":"password123"}`, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	body := decodeBody(t, w)
	if body["access_token"] == "" || body["token_type"] != "bearer" {
		t.Fatalf("unexpected body: %v", body)
	}
	if _, ok := body["refresh_token"]; ok {
		t.Fatalf("web client must not receive refresh token in body")
	}

	ck := refreshCookie(t, w)
	if ck == nil {
		t.Fatalf("expected refresh_token cookie")
	}
	if !ck.HttpOnly || !ck.Secure || ck.SameSite != http.SameSiteStrictMode || ck.Path != "/" {
		t.Fatalf("unexpected cookie attributes: %+v", ck)
	}
	if ck.MaxAge != int((7 * 24 * time.Hour).Seconds()) {
		t.Fatalf("expected Max-Age of refresh TTL seconds, got %d", ck.MaxAge)
	}
}

func TestLogin_MobileClientGetsBodyTokens(t *testing.T) {
	api := newTestAPI(t)
	api.seedAlice(t)

	w := api.do(t, http.MethodPost, "/api/v1/users/login",
		`{"username":"alice@example.com","password":"password123"}`,
		map[string]string{"X-Client-Type": "mobile"})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	body := decodeBody(t, w)
	if body["access_token"] == "" || body["refresh_token"] == "" || body["token_type"] != "bearer" {
		t.Fatalf("unexpected body: %v", body)
	}
	if refreshCookie(t, w) != nil {
		t.Fatalf("mobile client must not receive a cookie")
	}
}

func TestLogin_BadCredentialsAreOne401(t *testing.T) {
	api := newTestAPI(t)
	api.seedAlice(t)

	wrongPw := api.do(t, http.MethodPost, "/api/v1/users/login",
		`{"username":"alice@example.com","password":"nope-nope"}`, nil)
	unknown := api.do(t, http.MethodPost, "/api/v1/users/login",
		`{"username":"ghost@example.com","password":"whatever1"}`, nil)

	if wrongPw.Code != http.StatusUnauthorized || unknown.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401/401, got %d/%d", wrongPw.Code, unknown.Code)
	}
	if wrongPw.Body.String() != unknown.Body.String() {
		t.Fatalf("login failures must be indistinguishable: %s vs %s", wrongPw.Body, unknown.Body)
	}
}

func TestRefresh_ViaCookieRotatesPair(t *testing.T) {
	api := newTestAPI(t)
	api.seedAlice(t)

	login := api.do(t, http.MethodPost, "/api/v1/users/login",
		`{"username":"alice@example.com","password":"password123"}`, nil)
	ck := refreshCookie(t, login)
	if ck == nil {
		t.Fatalf("expected login cookie")
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/users/refresh", nil)
	req.AddCookie(&http.Cookie{Name: ck.Name, Value: ck.Value})
	w := httptest.NewRecorder()
	api.router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	body := decodeBody(t, w)
	if body["access_token"] == "" || body["token_type"] != "bearer" {
		t.Fatalf("unexpected body: %v", body)
	}
	rotated := refreshCookie(t, w)
	if rotated == nil {
		t.Fatalf("expected rotated refresh cookie")
	}
	if !rotated.Secure || !rotated.HttpOnly {
		t.Fatalf("rotated cookie lost its attributes: %+v", rotated)
	}
}

func TestRefresh_ViaBodyForMobile(t *testing.T) {
	api := newTestAPI(t)
	api.seedAlice(t)

	login := api.do(t, http.MethodPost, "/api/v1/users/login",
		`{"username":"alice@example.com","password":"password123"}`,
		map[string]string{"X-Client-Type": "mobile"})
	refresh := decodeBody(t, login)["refresh_token"].(string)

	w := api.do(t, http.MethodPost, "/api/v1/users/refresh",
		`{"refresh_token":"`+refresh+`"}`,
		map[string]string{"X-Client-Type": "mobile"})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	body := decodeBody(t, w)
	if body["refresh_token"] == "" {
		t.Fatalf("expected rotated refresh token in body")
	}
}

func TestRefresh_RejectsAccessToken(t *testing.T) {
	api := newTestAPI(t)
	api.seedAlice(t)

	login := api.do(t, http.MethodPost, "/api/v1/users/login",
		`{"username":"alice@example.com","password":"password123"}`,
		map[string]string{"X-Client-Type": "mobile"})
	access := decodeBody(t, login)["access_token"].(string)

	w := api.do(t, http.MethodPost, "/api/v1/users/refresh",
		`{"refresh_token":"`+access+`"}`, nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for access token on refresh path, got %d", w.Code)
	}
}

func TestRefresh_MissingToken(t *testing.T) {
	api := newTestAPI(t)
	if w := api.do(t, http.MethodPost, "/api/v1/users/refresh", "", nil); w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestMe_ReturnsPrincipalWithoutHash(t *testing.T) {
	api := newTestAPI(t)
	alice := api.seedAlice(t)

	login := api.do(t, http.MethodPost, "/api/v1/users/login",
		`{"username":"alice@example.com","password":"password123"}`, nil)
	access := decodeBody(t, login)["access_token"].(string)

	w := api.do(t, http.MethodGet, "/api/v1/me", "",
		map[string]string{"Authorization": "Bearer " + access})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	body := decodeBody(t, w)
	if int64(body["id"].(float64)) != alice.ID || body["email"] != "alice@example.com" {
		t.Fatalf("unexpected principal: %v", body)
	}
	if strings.Contains(w.Body.String(), "password") {
		t.Fatalf("response must not carry password material: %s", w.Body.String())
	}
}

func TestMe_RejectsMissingAndExpiredTokens(t *testing.T) {
	api := newTestAPI(t)
	api.seedAlice(t)

	if w := api.do(t, http.MethodGet, "/api/v1/me", "", nil); w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", w.Code)
	}
	if w := api.do(t, http.MethodGet, "/api/v1/me", "",
		map[string]string{"Authorization": "Bearer garbage"}); w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for garbage token, got %d", w.Code)
	}
}

/* ===================== USERS ===================== */

func TestRegisterUser_ConflictOnDuplicateEmail(t *testing.T) {
	api := newTestAPI(t)

	body := `{"name":"Bob","email":"bob@example.com","password":"password123","level":0}`
	if w := api.do(t, http.MethodPost, "/api/v1/users", body, nil); w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	if w := api.do(t, http.MethodPost, "/api/v1/users", body, nil); w.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", w.Code)
	}
}

func TestRegisterUserV2_ForcesLevelOne(t *testing.T) {
	api := newTestAPI(t)

	w := api.do(t, http.MethodPost, "/api/v2/users",
		`{"name":"Bob","email":"bob@example.com","password":"password123","level":9}`, nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	if lvl := decodeBody(t, w)["level"].(float64); lvl != 1 {
		t.Fatalf("expected level 1, got %v", lvl)
	}
}

func TestGetUser_NotFound(t *testing.T) {
	api := newTestAPI(t)
	if w := api.do(t, http.MethodGet, "/api/v1/users/999", "", nil); w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
	if w := api.do(t, http.MethodGet, "/api/v1/users/abc", "", nil); w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for non-numeric id, got %d", w.Code)
	}
}

func TestListUsers_ReadThroughCache(t *testing.T) {
	api := newTestAPI(t)
	api.seedAlice(t)

	first := api.do(t, http.MethodGet, "/api/v1/users?page=1&page_size=10", "", nil)
	if first.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", first.Code)
	}
	if api.cache.sets != 1 {
		t.Fatalf("expected one cache fill, got %d", api.cache.sets)
	}
	if _, ok := api.cache.m["users:page=1:size=10"]; !ok {
		t.Fatalf("expected cache entry under the page key, have %v", api.cache.m)
	}

	// A second identical request must be served from the cache even after
	// the underlying store changes.
	if _, err := api.users.Create(context.Background(), user.NewUser{
		Name: "Carol", Email: "carol@example.com", PasswordHash: "x",
	}); err != nil {
		t.Fatalf("create: %v", err)
	}
	second := api.do(t, http.MethodGet, "/api/v1/users?page=1&page_size=10", "", nil)
	if second.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", second.Code)
	}
	if second.Body.String() != first.Body.String() {
		t.Fatalf("expected cached page to be served unchanged")
	}
	if api.cache.sets != 1 {
		t.Fatalf("cache hit must not refill, sets=%d", api.cache.sets)
	}

	var p user.Page
	if err := json.Unmarshal(first.Body.Bytes(), &p); err != nil {
		t.Fatalf("decode page: %v", err)
	}
	if p.Pagination.CurrentPage != 1 || p.Pagination.TotalUsers != 1 {
		t.Fatalf("unexpected pagination: %+v", p.Pagination)
	}
}

/* ===================== POSTS ===================== */

func TestCreatePost_OwnedByPrincipal(t *testing.T) {
	api := newTestAPI(t)
	alice := api.seedAlice(t)

	login := api.do(t, http.MethodPost, "/api/v1/users/login",
		`{"username":"alice@example.com","password":"password123"}`, nil)
	access := decodeBody(t, login)["access_token"].(string)
	hdr := map[string]string{"Authorization": "Bearer " + access}

	w := api.do(t, http.MethodPost, "/api/v1/posts",
		`{"title":"first","content":"hello"}`, hdr)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	if owner := decodeBody(t, w)["user_id"].(float64); int64(owner) != alice.ID {
		t.Fatalf("expected owner %d, got %v", alice.ID, owner)
	}

	if w := api.do(t, http.MethodPost, "/api/v1/posts",
		`{"title":"first","content":"again"}`, hdr); w.Code != http.StatusConflict {
		t.Fatalf("expected 409 for duplicate title, got %d", w.Code)
	}
}

func TestCreatePost_RequiresAuth(t *testing.T) {
	api := newTestAPI(t)
	if w := api.do(t, http.MethodPost, "/api/v1/posts",
		`{"title":"t","content":"c"}`, nil); w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestGetPost_NotFound(t *testing.T) {
	api := newTestAPI(t)
	if w := api.do(t, http.MethodGet, "/api/v1/posts/42", "", nil); w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}
