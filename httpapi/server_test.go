package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/MrEthical07/learnhub"
	"github.com/MrEthical07/learnhub/assets"
	"github.com/MrEthical07/learnhub/catalog"
	"github.com/MrEthical07/learnhub/mail"
	"github.com/MrEthical07/learnhub/middleware"
	"github.com/MrEthical07/learnhub/password"
	"github.com/MrEthical07/learnhub/store/memory"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testAPI struct {
	mr     *miniredis.Miniredis
	server *Server
	engine *learnhub.Engine
	store  *memory.Store
	mailer *mail.Recorder
}

type fakeVerifier struct {
	profile learnhub.SocialProfile
}

func (f fakeVerifier) Profile(_ context.Context, token string) (learnhub.SocialProfile, error) {
	if token != "valid-id-token" {
		return learnhub.SocialProfile{}, errors.New("bad token")
	}
	return f.profile, nil
}

func newTestAPI(t *testing.T, cfg Config, google ProfileVerifier) *testAPI {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	engineCfg := learnhub.DefaultConfig()
	engineCfg.JWT.Access.Secret = "access-secret-access-secret-0001"
	engineCfg.JWT.Refresh.Secret = "refresh-secret-refresh-secret-01"
	engineCfg.JWT.Activation.Secret = "activation-secret-activation-001"
	engineCfg.Password.Cost = 4

	store := memory.New()
	recorder := mail.NewRecorder()
	host := assets.NewMemory("https://assets.test")

	engine, err := learnhub.New().
		WithConfig(engineCfg).
		WithRedis(rdb).
		WithIdentityStore(store).
		WithMailer(recorder).
		WithAssetHost(host).
		Build()
	require.NoError(t, err)
	t.Cleanup(engine.Close)

	svc, err := catalog.NewService(catalog.Deps{
		Courses:       store,
		Orders:        store,
		Notifications: store,
		Layouts:       store,
		Accounts:      engine,
		Identities:    store,
		Assets:        host,
		Mailer:        recorder,
		Cache:         catalog.NewCourseCache(rdb, catalog.CourseCacheTTL),
	})
	require.NoError(t, err)

	srv, err := New(cfg, Deps{
		Engine:  engine,
		Catalog: svc,
		Google:  google,
		Metrics: http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { _, _ = w.Write([]byte("metrics")) }),
	})
	require.NoError(t, err)
	return &testAPI{mr: mr, server: srv, engine: engine, store: store, mailer: recorder}
}

func (a *testAPI) do(t *testing.T, method, path string, body any, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	a.server.Handler().ServeHTTP(rec, req)
	return rec
}

func (a *testAPI) seed(t *testing.T, id, email, pw string, role learnhub.Role) {
	t.Helper()
	hasher, err := password.NewBcrypt(password.Config{Cost: 4})
	require.NoError(t, err)
	hash, err := hasher.Hash(pw)
	require.NoError(t, err)
	now := time.Now().UTC()
	require.NoError(t, a.store.CreateIdentity(context.Background(), &learnhub.Identity{
		ID: id, Name: id, Email: email, PasswordHash: hash, Role: role,
		Courses: []string{}, CreatedAt: now, UpdatedAt: now,
	}))
}

func (a *testAPI) login(t *testing.T, email, pw string) []*http.Cookie {
	t.Helper()
	rec := a.do(t, http.MethodPost, "/api/v1/user/login", map[string]string{"email": email, "password": pw})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	return rec.Result().Cookies()
}

func cookie(cookies []*http.Cookie, name string) *http.Cookie {
	for _, c := range cookies {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestRegistrationActivationAndSession(t *testing.T) {
	api := newTestAPI(t, Config{}, nil)

	rec := api.do(t, http.MethodPost, "/api/v1/user/registration", map[string]string{
		"name": "Ada", "email": "Ada@Example.com", "password": "secret-pw",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	ticket, _ := decode(t, rec)["activationToken"].(string)
	require.NotEmpty(t, ticket)

	msg, ok := api.mailer.Last()
	require.True(t, ok)
	assert.Equal(t, "ada@example.com", msg.To)
	code, _ := msg.Data["activationCode"].(string)
	require.Len(t, code, 4)

	rec = api.do(t, http.MethodPost, "/api/v1/user/activate-user", map[string]string{
		"activation_token": ticket, "activation_code": code,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	// a second activation with the same ticket finds the email taken
	rec = api.do(t, http.MethodPost, "/api/v1/user/activate-user", map[string]string{
		"activation_token": ticket, "activation_code": code,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	cookies := api.login(t, "ada@example.com", "secret-pw")
	access := cookie(cookies, middleware.AccessCookie)
	refresh := cookie(cookies, middleware.RefreshCookie)
	require.NotNil(t, access)
	require.NotNil(t, refresh)
	assert.True(t, access.HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, access.SameSite)
	assert.False(t, access.Secure)

	rec = api.do(t, http.MethodGet, "/api/v1/user/me", nil, access)
	require.Equal(t, http.StatusOK, rec.Code)
	user := decode(t, rec)["user"].(map[string]any)
	assert.Equal(t, "ada@example.com", user["email"])
	assert.NotContains(t, rec.Body.String(), "password")

	rec = api.do(t, http.MethodGet, "/api/v1/user/refresh", nil, refresh)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.NotNil(t, cookie(rec.Result().Cookies(), middleware.AccessCookie))
	refreshed := decode(t, rec)
	assert.Equal(t, true, refreshed["success"])
	assert.NotEmpty(t, refreshed["accessToken"])

	rec = api.do(t, http.MethodGet, "/api/v1/user/logout", nil, access)
	require.Equal(t, http.StatusOK, rec.Code)
	cleared := cookie(rec.Result().Cookies(), middleware.AccessCookie)
	require.NotNil(t, cleared)
	assert.Empty(t, cleared.Value)

	rec = api.do(t, http.MethodGet, "/api/v1/user/me", nil, access)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = api.do(t, http.MethodGet, "/api/v1/user/refresh", nil, refresh)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRefreshAttachesIdentity(t *testing.T) {
	api := newTestAPI(t, Config{}, nil)
	api.seed(t, "u1", "u1@example.com", "password-1", learnhub.RoleUser)
	refresh := cookie(api.login(t, "u1@example.com", "password-1"), middleware.RefreshCookie)
	require.NotNil(t, refresh)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/user/refresh", nil)
	req.AddCookie(refresh)
	rec := httptest.NewRecorder()
	c := api.server.echo.NewContext(req, rec)

	require.NoError(t, api.server.handleRefresh(c))
	identity, ok := middleware.IdentityFromContext(c.Request().Context())
	require.True(t, ok)
	assert.Equal(t, "u1", identity.ID)
	assert.Equal(t, "u1@example.com", identity.Email)
}

func TestSecureCookiesInProduction(t *testing.T) {
	api := newTestAPI(t, Config{Production: true}, nil)
	api.seed(t, "u1", "u1@example.com", "password-1", learnhub.RoleUser)

	access := cookie(api.login(t, "u1@example.com", "password-1"), middleware.AccessCookie)
	require.NotNil(t, access)
	assert.True(t, access.Secure)
}

func TestLoginErrors(t *testing.T) {
	api := newTestAPI(t, Config{}, nil)
	api.seed(t, "u1", "u1@example.com", "password-1", learnhub.RoleUser)

	rec := api.do(t, http.MethodPost, "/api/v1/user/login", map[string]string{"email": "not-an-email", "password": "x"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, false, body["success"])
	assert.Contains(t, body["message"], "invalid input")

	rec = api.do(t, http.MethodPost, "/api/v1/user/login", map[string]string{"email": "u1@example.com", "password": "wrong"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = api.do(t, http.MethodGet, "/api/v1/user/refresh", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestProfileUpdates(t *testing.T) {
	api := newTestAPI(t, Config{}, nil)
	api.seed(t, "u1", "u1@example.com", "password-1", learnhub.RoleUser)
	access := cookie(api.login(t, "u1@example.com", "password-1"), middleware.AccessCookie)

	rec := api.do(t, http.MethodPut, "/api/v1/user/update-user-info", map[string]string{"name": "Renamed"}, access)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "Renamed", decode(t, rec)["user"].(map[string]any)["name"])

	rec = api.do(t, http.MethodPut, "/api/v1/user/update-user-password", map[string]string{
		"oldPassword": "password-1", "newPassword": "password-2",
	}, access)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	api.login(t, "u1@example.com", "password-2")

	rec = api.do(t, http.MethodPut, "/api/v1/user/update-user-avatar", map[string]string{
		"avatar": "data:image/png;base64,AAAA",
	}, access)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	avatar := decode(t, rec)["user"].(map[string]any)["avatar"].(map[string]any)
	assert.Contains(t, avatar["public_id"], "avatars/")
}

func TestSocialAuthWithVerifier(t *testing.T) {
	api := newTestAPI(t, Config{}, fakeVerifier{profile: learnhub.SocialProfile{
		Email: "g@example.com", Name: "Gee",
	}})

	rec := api.do(t, http.MethodPost, "/api/v1/user/social-auth", map[string]string{"email": "spoof@example.com"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = api.do(t, http.MethodPost, "/api/v1/user/social-auth", map[string]string{"id_token": "forged"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = api.do(t, http.MethodPost, "/api/v1/user/social-auth", map[string]string{"id_token": "valid-id-token"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "g@example.com", decode(t, rec)["user"].(map[string]any)["email"])
	assert.NotNil(t, cookie(rec.Result().Cookies(), middleware.AccessCookie))
}

func TestSocialAuthWithoutVerifier(t *testing.T) {
	api := newTestAPI(t, Config{}, nil)

	rec := api.do(t, http.MethodPost, "/api/v1/user/social-auth", map[string]string{"name": "No Email"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = api.do(t, http.MethodPost, "/api/v1/user/social-auth", map[string]string{"email": "s@example.com", "name": "Sam"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func TestCatalogRoutes(t *testing.T) {
	api := newTestAPI(t, Config{}, nil)
	api.seed(t, "admin", "admin@example.com", "password-1", learnhub.RoleAdmin)
	api.seed(t, "u1", "u1@example.com", "password-1", learnhub.RoleUser)
	admin := cookie(api.login(t, "admin@example.com", "password-1"), middleware.AccessCookie)
	user := cookie(api.login(t, "u1@example.com", "password-1"), middleware.AccessCookie)

	course := map[string]any{
		"name":        "Go in Practice",
		"description": "<p>Learn Go</p><script>alert(1)</script>",
		"price":       49,
		"thumbnail":   "data:image/png;base64,AAAA",
		"tags":        "go",
		"level":       "beginner",
		"courseData": []map[string]any{{
			"title": "Goroutines", "videoUrl": "https://video.test/1", "videoLength": 12,
		}},
	}
	rec := api.do(t, http.MethodPost, "/api/v1/course/create-course", course, user)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = api.do(t, http.MethodPost, "/api/v1/course/create-course", course, admin)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode(t, rec)["course"].(map[string]any)
	courseID := created["_id"].(string)
	assert.NotContains(t, created["description"], "<script>")

	rec = api.do(t, http.MethodPost, "/api/v1/course/create-course", map[string]any{"price": -1}, admin)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = api.do(t, http.MethodGet, "/api/v1/course/get-single-course/"+courseID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "video.test")
	rec = api.do(t, http.MethodGet, "/api/v1/course/get-single-course/missing", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = api.do(t, http.MethodGet, "/api/v1/course/get-all-courses", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode(t, rec)["courses"], 1)

	rec = api.do(t, http.MethodGet, "/api/v1/course/get-course-by-user/"+courseID, nil, user)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	order := map[string]any{"courseId": courseID, "payment_info": map[string]any{"id": "pi_1"}}
	rec = api.do(t, http.MethodPost, "/api/v1/order/create-order", order, user)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	rec = api.do(t, http.MethodPost, "/api/v1/order/create-order", order, user)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	msg, ok := api.mailer.Last()
	require.True(t, ok)
	assert.Equal(t, "order-confirmation", msg.Template)

	rec = api.do(t, http.MethodGet, "/api/v1/course/get-course-by-user/"+courseID, nil, user)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), "https://video.test/1")

	rec = api.do(t, http.MethodGet, "/api/v1/order/get-orders", nil, user)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	rec = api.do(t, http.MethodGet, "/api/v1/order/get-orders", nil, admin)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode(t, rec)["orders"], 1)

	rec = api.do(t, http.MethodGet, "/api/v1/notifications/get-all-notifications", nil, admin)
	require.Equal(t, http.StatusOK, rec.Code)
	notes := decode(t, rec)["notifications"].([]any)
	require.Len(t, notes, 1)
	noteID := notes[0].(map[string]any)["_id"].(string)

	rec = api.do(t, http.MethodPut, "/api/v1/notifications/update-notification-status/"+noteID, nil, admin)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "read", decode(t, rec)["notifications"].([]any)[0].(map[string]any)["status"])

	rec = api.do(t, http.MethodGet, "/api/v1/analytics/get-orders-analytics", nil, admin)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = api.do(t, http.MethodGet, "/api/v1/analytics/get-users-analytics", nil, user)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	rec = api.do(t, http.MethodGet, "/api/v1/analytics/get-courses-analytics", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCourseQuestionRoutes(t *testing.T) {
	api := newTestAPI(t, Config{}, nil)
	api.seed(t, "admin", "admin@example.com", "password-1", learnhub.RoleAdmin)
	api.seed(t, "u1", "u1@example.com", "password-1", learnhub.RoleUser)
	api.seed(t, "u2", "u2@example.com", "password-1", learnhub.RoleUser)
	admin := cookie(api.login(t, "admin@example.com", "password-1"), middleware.AccessCookie)
	buyer := cookie(api.login(t, "u1@example.com", "password-1"), middleware.AccessCookie)
	stranger := cookie(api.login(t, "u2@example.com", "password-1"), middleware.AccessCookie)

	rec := api.do(t, http.MethodPost, "/api/v1/course/create-course", map[string]any{
		"name": "Go", "description": "d", "price": 10,
		"courseData": []map[string]any{{"title": "Channels", "videoUrl": "https://video.test/1"}},
	}, admin)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode(t, rec)["course"].(map[string]any)
	courseID := created["_id"].(string)
	contentID := created["courseData"].([]any)[0].(map[string]any)["_id"].(string)

	rec = api.do(t, http.MethodPost, "/api/v1/order/create-order", map[string]any{"courseId": courseID}, buyer)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	question := map[string]string{"courseId": courseID, "contentId": contentID, "question": "Buffered?"}
	rec = api.do(t, http.MethodPut, "/api/v1/course/add-question", question, stranger)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = api.do(t, http.MethodPut, "/api/v1/course/add-question", question, buyer)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = api.do(t, http.MethodGet, "/api/v1/course/get-course-by-user/"+courseID, nil, buyer)
	require.Equal(t, http.StatusOK, rec.Code)
	section := decode(t, rec)["content"].([]any)[0].(map[string]any)
	questions := section["questions"].([]any)
	require.Len(t, questions, 1)
	questionID := questions[0].(map[string]any)["_id"].(string)

	rec = api.do(t, http.MethodPut, "/api/v1/course/add-reply", map[string]string{
		"courseId": courseID, "contentId": contentID, "questionId": questionID, "answer": "Start unbuffered.",
	}, admin)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	msg, ok := api.mailer.Last()
	require.True(t, ok)
	assert.Equal(t, "question-reply", msg.Template)
	assert.Equal(t, "u1@example.com", msg.To)

	rec = api.do(t, http.MethodPut, "/api/v1/course/add-review/"+courseID, map[string]any{"rating": 4, "review": "solid"}, stranger)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = api.do(t, http.MethodPut, "/api/v1/course/add-review/"+courseID, map[string]any{"rating": 4, "review": "solid"}, buyer)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, 4.0, decode(t, rec)["course"].(map[string]any)["ratings"])
}

func TestLayoutRoutes(t *testing.T) {
	api := newTestAPI(t, Config{}, nil)
	api.seed(t, "admin", "admin@example.com", "password-1", learnhub.RoleAdmin)
	admin := cookie(api.login(t, "admin@example.com", "password-1"), middleware.AccessCookie)

	faq := map[string]any{"type": "FAQ", "faq": []map[string]string{{"question": "Q?", "answer": "A."}}}
	rec := api.do(t, http.MethodPost, "/api/v1/layout/create-layout", faq, admin)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	rec = api.do(t, http.MethodPost, "/api/v1/layout/create-layout", faq, admin)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = api.do(t, http.MethodGet, "/api/v1/layout/get-layout/FAQ", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = api.do(t, http.MethodGet, "/api/v1/layout/get-layout/Unknown", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLivenessMetricsAndNotFound(t *testing.T) {
	api := newTestAPI(t, Config{}, nil)

	rec := api.do(t, http.MethodGet, "/test", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, decode(t, rec)["success"])

	rec = api.do(t, http.MethodGet, "/metrics", nil)
	assert.Equal(t, "metrics", rec.Body.String())

	rec = api.do(t, http.MethodGet, "/api/v1/nowhere", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, false, decode(t, rec)["success"])
}

func TestRateLimitMiddleware(t *testing.T) {
	api := newTestAPI(t, Config{RateLimit: RateLimitConfig{RPS: 0.001, Burst: 2}}, nil)

	for i := 0; i < 2; i++ {
		assert.Equal(t, http.StatusOK, api.do(t, http.MethodGet, "/test", nil).Code)
	}
	rec := api.do(t, http.MethodGet, "/test", nil)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}

func TestRateLimitIgnoresSpoofedForwardedFor(t *testing.T) {
	api := newTestAPI(t, Config{RateLimit: RateLimitConfig{RPS: 0.001, Burst: 1}}, nil)

	allowed := 0
	for _, fwd := range []string{"1.1.1.1", "2.2.2.2", "3.3.3.3", "4.4.4.4", "5.5.5.5"} {
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set("X-Forwarded-For", fwd)
		rec := httptest.NewRecorder()
		api.server.Handler().ServeHTTP(rec, req)
		if rec.Code == http.StatusOK {
			allowed++
		}
	}
	assert.Equal(t, 1, allowed)
}

func TestTrustedProxyForwardedFor(t *testing.T) {
	api := newTestAPI(t, Config{
		TrustedProxies: []string{"192.0.2.0/24"},
		RateLimit:      RateLimitConfig{RPS: 0.001, Burst: 1},
	}, nil)

	for _, fwd := range []string{"198.51.100.1", "198.51.100.2"} {
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set("X-Forwarded-For", fwd)
		rec := httptest.NewRecorder()
		api.server.Handler().ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code, fwd)
	}

	_, err := New(Config{TrustedProxies: []string{"not-a-cidr"}}, Deps{Engine: api.engine, Catalog: api.server.catalog})
	assert.Error(t, err)
}

func TestLoginThrottleUsesPeerAddress(t *testing.T) {
	api := newTestAPI(t, Config{}, nil)
	api.seed(t, "u1", "u1@example.com", "password-1", learnhub.RoleUser)

	body, err := json.Marshal(map[string]string{"email": "u1@example.com", "password": "wrong"})
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/user/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Forwarded-For", "203.0.113.9")
	rec := httptest.NewRecorder()
	api.server.Handler().ServeHTTP(rec, req)
	require.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())

	assert.True(t, api.mr.Exists("lh:rl:login-ip:192.0.2.1"))
	assert.False(t, api.mr.Exists("lh:rl:login-ip:203.0.113.9"))
}

func TestRateLimiterIsPerIP(t *testing.T) {
	l := NewRateLimiter(RateLimitConfig{RPS: 0.001, Burst: 1, MaxIPs: 2})
	assert.True(t, l.Allow("10.0.0.1"))
	assert.False(t, l.Allow("10.0.0.1"))
	assert.True(t, l.Allow("10.0.0.2"))

	// a third address evicts the least recently used bucket
	assert.True(t, l.Allow("10.0.0.3"))
	assert.True(t, l.Allow("10.0.0.1"))
}

func TestNewRequiresDeps(t *testing.T) {
	_, err := New(Config{}, Deps{})
	assert.Error(t, err)
}

func TestHealthz(t *testing.T) {
	api := newTestAPI(t, Config{}, nil)

	rec := api.do(t, http.MethodGet, "/healthz", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, decode(t, rec)["redisAvailable"])

	api.mr.SetError("ERR injected failure")
	rec = api.do(t, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
