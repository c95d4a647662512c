package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pu-ac-cn/ticketapp/internal/service"
	"github.com/pu-ac-cn/ticketapp/internal/storage"
	"github.com/pu-ac-cn/ticketapp/internal/view"
	"github.com/pu-ac-cn/ticketapp/pkg/response"
	"github.com/pu-ac-cn/ticketapp/web"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// setupRouter 基于内存后端组装完整路由
func setupRouter(t *testing.T, backend storage.Backend) *gin.Engine {
	t.Helper()
	if backend == nil {
		backend = storage.NewMemoryBackend()
	}
	store := storage.NewAdapter(backend)

	renderer, err := view.New(web.FS(nil))
	require.NoError(t, err)

	profiles, err := service.NewProfileTokens(&service.ProfileTokensConfig{
		Secret: []byte("handler-test-secret"),
		TTL:    time.Hour,
	})
	require.NoError(t, err)

	sessions := service.NewSessionManager(store, nil)
	auth, err := service.NewAuthService(sessions, &service.AuthServiceConfig{
		TestAccount: service.TestAccount{Email: "test@user.com", Password: "password123", Name: "Test User"},
		HashCost:    bcrypt.MinCost,
	})
	require.NoError(t, err)

	return NewRouter(&RouterConfig{
		Renderer:      renderer,
		Static:        web.NewStaticHandler(nil),
		Profiles:      profiles,
		Sessions:      sessions,
		Auth:          auth,
		Tickets:       service.NewTicketService(store, nil),
		Guard:         service.NewRouteGuard(sessions),
		Backend:       backend,
		StorageDriver: "memory",
	})
}

// testClient 模拟一个浏览器：在请求之间保留 Cookie
type testClient struct {
	t       *testing.T
	router  *gin.Engine
	cookies map[string]*http.Cookie
}

func newTestClient(t *testing.T, router *gin.Engine) *testClient {
	return &testClient{t: t, router: router, cookies: map[string]*http.Cookie{}}
}

func (tc *testClient) do(req *http.Request) *httptest.ResponseRecorder {
	for _, c := range tc.cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	tc.router.ServeHTTP(w, req)

	for _, c := range w.Result().Cookies() {
		if c.MaxAge < 0 || c.Value == "" {
			delete(tc.cookies, c.Name)
			continue
		}
		tc.cookies[c.Name] = c
	}
	return w
}

func (tc *testClient) get(path string) *httptest.ResponseRecorder {
	return tc.do(httptest.NewRequest(http.MethodGet, path, nil))
}

func (tc *testClient) postForm(path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return tc.do(req)
}

func (tc *testClient) sendJSON(method, path string, body interface{}) *httptest.ResponseRecorder {
	var r io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(tc.t, err)
		r = strings.NewReader(string(data))
	}
	return tc.do(newJSONRequest(method, path, r))
}

func newJSONRequest(method, path string, body io.Reader) *http.Request {
	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func (tc *testClient) login() {
	w := tc.postForm("/auth/login", url.Values{"email": {"test@user.com"}, "password": {"password123"}})
	require.Equal(tc.t, http.StatusSeeOther, w.Code)
}

// decodeResponse 解析 JSON 响应，data 解到 out
func decodeResponse(t *testing.T, w *httptest.ResponseRecorder, out interface{}) response.Response {
	t.Helper()
	var raw struct {
		Code int             `json:"code"`
		Msg  string          `json:"msg"`
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &raw), w.Body.String())
	if out != nil && len(raw.Data) > 0 && string(raw.Data) != "null" {
		require.NoError(t, json.Unmarshal(raw.Data, out))
	}
	return response.Response{Code: raw.Code, Msg: raw.Msg}
}

// downBackend Ping 总是失败
type downBackend struct {
	*storage.MemoryBackend
}

func (downBackend) Ping(context.Context) error {
	return errors.New("connection refused")
}
