package router_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httpctx "github.com/dtroode/authkeeper/internal/api/http/context"
	"github.com/dtroode/authkeeper/internal/api/http/router"
	"github.com/dtroode/authkeeper/internal/mint"
	"github.com/dtroode/authkeeper/internal/mocks"
	"github.com/dtroode/authkeeper/internal/model"
	redisrepo "github.com/dtroode/authkeeper/internal/repository/redis"
	"github.com/dtroode/authkeeper/internal/service"
	"github.com/dtroode/authkeeper/internal/testutil"
	"github.com/dtroode/authkeeper/internal/token"
)

// serverFixture runs the full route tree over miniredis-backed stores so
// requests exercise real services and repositories end to end.
type serverFixture struct {
	ts      *httptest.Server
	client  *http.Client
	redis   *miniredis.Miniredis
	users   *redisrepo.UserRepository
	clients *redisrepo.ClientRepository
}

func newServerFixture(t *testing.T) *serverFixture {
	t.Helper()

	mr := miniredis.RunT(t)
	conn := redisrepo.NewConnectionFromClient(goredis.NewClient(&goredis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { _ = conn.Close() })

	users := redisrepo.NewUserRepository(conn)
	clients := redisrepo.NewClientRepository(conn)
	tokens := redisrepo.NewTokenRepository(conn)
	codes := redisrepo.NewAuthorizationCodeRepository(conn)

	log := testutil.MakeNoopLogger()
	authService := service.NewAuth(users, tokens, log)
	signer := token.NewStateSigner("router-test-secret", time.Minute)
	grantService := service.NewGrant(clients, tokens, codes, authService, signer, service.GrantConfig{
		AccessTokenTTL:       2 * time.Hour,
		RefreshTokenTTL:      14 * 24 * time.Hour,
		AuthorizationCodeTTL: 30 * time.Second,
	}, log)
	sessionService := service.NewSession(grantService, authService, tokens, "dashboard", log)
	userService := service.NewUser(users, log)
	clientService := service.NewClient(clients, &mocks.Storage{}, log)

	r := router.New(
		grantService, sessionService, userService, clientService,
		authService, httpctx.NewManager(), conn.Ping, log,
	)

	ts := httptest.NewServer(r.Register())
	t.Cleanup(ts.Close)

	// Redirects are the protocol surface under test, so never follow them.
	httpClient := &http.Client{
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}

	return &serverFixture{ts: ts, client: httpClient, redis: mr, users: users, clients: clients}
}

func (f *serverFixture) seedUser(t *testing.T, email, password string, roles map[string]bool) model.User {
	t.Helper()

	salt, err := mint.NewSalt()
	require.NoError(t, err)

	now := time.Now()
	user, err := f.users.Create(context.Background(), model.User{
		ID:        uuid.New(),
		Email:     email,
		Name:      "Test User",
		Password:  mint.HashPassword(password, salt),
		Salt:      salt,
		Roles:     roles,
		Validated: &now,
		CreatedAt: now,
		UpdatedAt: now,
	})
	require.NoError(t, err)
	return user
}

func (f *serverFixture) seedClient(t *testing.T, owner uuid.UUID) model.Client {
	t.Helper()

	now := time.Now()
	client, err := f.clients.Create(context.Background(), model.Client{
		ID:           "web-app",
		Secret:       "s3cret",
		Name:         "Web App",
		RedirectURIs: []string{"https://app.example.com/cb"},
		Scopes:       []string{"read", "write"},
		Grants: []string{
			model.GrantAuthorizationCode,
			model.GrantRefreshToken,
			model.GrantPassword,
		},
		UserID:    owner,
		CreatedAt: now,
		UpdatedAt: now,
	})
	require.NoError(t, err)
	return client
}

func (f *serverFixture) postForm(t *testing.T, path string, form url.Values) *http.Response {
	t.Helper()

	req, err := http.NewRequest(http.MethodPost, f.ts.URL+path, strings.NewReader(form.Encode()))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := f.client.Do(req)
	require.NoError(t, err)
	return resp
}

func (f *serverFixture) tokenRequest(t *testing.T, clientID, clientSecret string, form url.Values) (*http.Response, map[string]any) {
	t.Helper()

	req, err := http.NewRequest(http.MethodPost, f.ts.URL+"/oauth2/token", strings.NewReader(form.Encode()))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(clientID, clientSecret)

	resp, err := f.client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return resp, body
}

// stateFrom pulls the flow state out of a redirect Location.
func stateFrom(t *testing.T, resp *http.Response) (string, *url.URL) {
	t.Helper()

	loc, err := url.Parse(resp.Header.Get("Location"))
	require.NoError(t, err)
	return loc.Query().Get("state"), loc
}

func TestRouter_AuthorizationCodeFlow(t *testing.T) {
	f := newServerFixture(t)
	user := f.seedUser(t, "owner@example.com", "correct horse", nil)
	f.seedClient(t, user.ID)

	// Authorization request redirects to the login page with a flow state.
	resp, err := f.client.Get(f.ts.URL + "/oauth2/auth?" + url.Values{
		"client_id":     {"web-app"},
		"response_type": {"code"},
		"redirect_uri":  {"https://app.example.com/cb"},
		"scope":         {"read"},
		"state":         {"client-state"},
	}.Encode())
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusFound, resp.StatusCode)
	loginState, loc := stateFrom(t, resp)
	require.Equal(t, "/oauth2/login", loc.Path)
	require.NotEmpty(t, loginState)

	// Login with the resource owner's credentials.
	resp = f.postForm(t, "/oauth2/login", url.Values{
		"state":    {loginState},
		"email":    {"owner@example.com"},
		"password": {"correct horse"},
	})
	resp.Body.Close()
	require.Equal(t, http.StatusFound, resp.StatusCode)
	grantState, loc := stateFrom(t, resp)
	require.Equal(t, "/oauth2/grant", loc.Path)

	// The consent page names the client and the requested scope.
	resp, err = f.client.Get(f.ts.URL + "/oauth2/grant?state=" + url.QueryEscape(grantState))
	require.NoError(t, err)
	page := readBody(t, resp)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, page, "Web App")
	assert.Contains(t, page, "read")

	// Consent redirects back to the client with a code and the original state.
	resp = f.postForm(t, "/oauth2/grant", url.Values{
		"state": {grantState},
		"allow": {"true"},
	})
	resp.Body.Close()
	require.Equal(t, http.StatusFound, resp.StatusCode)
	cb, err := url.Parse(resp.Header.Get("Location"))
	require.NoError(t, err)
	require.Equal(t, "app.example.com", cb.Host)
	require.Equal(t, "client-state", cb.Query().Get("state"))
	code := cb.Query().Get("code")
	require.NotEmpty(t, code)

	// Exchange the code for a token pair.
	tokenForm := url.Values{
		"grant_type":   {"authorization_code"},
		"code":         {code},
		"redirect_uri": {"https://app.example.com/cb"},
	}
	resp, body := f.tokenRequest(t, "web-app", "s3cret", tokenForm)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	accessToken, _ := body["access_token"].(string)
	require.Len(t, accessToken, 64)
	assert.Equal(t, "Bearer", body["token_type"])
	assert.InDelta(t, 7200, body["expires_in"], 2)
	require.NotEmpty(t, body["refresh_token"])

	// The access token authenticates resource requests.
	req, err := http.NewRequest(http.MethodGet, f.ts.URL+"/api/user", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+accessToken)
	resp, err = f.client.Do(req)
	require.NoError(t, err)
	self := readBody(t, resp)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, self, "owner@example.com")
	assert.NotContains(t, self, "password")

	// The code is single use.
	resp, body = f.tokenRequest(t, "web-app", "s3cret", tokenForm)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "invalid_grant", body["error"])
}

func TestRouter_RefreshRotation(t *testing.T) {
	f := newServerFixture(t)
	user := f.seedUser(t, "owner@example.com", "correct horse", nil)
	f.seedClient(t, user.ID)

	resp, body := f.tokenRequest(t, "web-app", "s3cret", url.Values{
		"grant_type": {"password"},
		"username":   {"owner@example.com"},
		"password":   {"correct horse"},
		"scope":      {"read"},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	firstRefresh, _ := body["refresh_token"].(string)
	require.NotEmpty(t, firstRefresh)

	// Rotation yields a new pair bound to the same client.
	resp, body = f.tokenRequest(t, "web-app", "s3cret", url.Values{
		"grant_type":    {"refresh_token"},
		"refresh_token": {firstRefresh},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	secondRefresh, _ := body["refresh_token"].(string)
	require.NotEmpty(t, secondRefresh)
	assert.NotEqual(t, firstRefresh, secondRefresh)

	// The rotated-out token is dead.
	resp, body = f.tokenRequest(t, "web-app", "s3cret", url.Values{
		"grant_type":    {"refresh_token"},
		"refresh_token": {firstRefresh},
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "invalid_grant", body["error"])
}

func TestRouter_LoginFailureStaysOnPage(t *testing.T) {
	f := newServerFixture(t)
	user := f.seedUser(t, "owner@example.com", "correct horse", nil)
	f.seedClient(t, user.ID)

	resp, err := f.client.Get(f.ts.URL + "/oauth2/auth?" + url.Values{
		"client_id":     {"web-app"},
		"response_type": {"code"},
		"redirect_uri":  {"https://app.example.com/cb"},
	}.Encode())
	require.NoError(t, err)
	resp.Body.Close()
	loginState, _ := stateFrom(t, resp)

	resp = f.postForm(t, "/oauth2/login", url.Values{
		"state":    {loginState},
		"email":    {"owner@example.com"},
		"password": {"wrong"},
	})
	page := readBody(t, resp)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, resp.Header.Get("Location"))
	assert.Contains(t, page, "invalid email or password")
}

func TestRouter_SessionEndpoints(t *testing.T) {
	f := newServerFixture(t)
	f.seedUser(t, "owner@example.com", "correct horse", nil)

	login := func(email, password string) *http.Response {
		payload, err := json.Marshal(map[string]string{"email": email, "password": password})
		require.NoError(t, err)
		resp, err := f.client.Post(f.ts.URL+"/api/session/login", "application/json", bytes.NewReader(payload))
		require.NoError(t, err)
		return resp
	}

	resp := login("owner@example.com", "correct horse")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var pair struct {
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&pair))
	resp.Body.Close()
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)

	// Session errors use the API taxonomy, not the protocol one.
	resp = login("owner@example.com", "wrong")
	body := readBody(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Contains(t, body, "unauthenticated")

	logout := func() *http.Response {
		payload := fmt.Sprintf(`{"refreshToken":%q}`, pair.RefreshToken)
		resp, err := f.client.Post(f.ts.URL+"/api/session/logout", "application/json", strings.NewReader(payload))
		require.NoError(t, err)
		return resp
	}

	resp = logout()
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	// Logging out twice is fine.
	resp = logout()
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}

func TestRouter_RoleGates(t *testing.T) {
	f := newServerFixture(t)
	f.seedUser(t, "admin@example.com", "pw", map[string]bool{model.RoleAdmin: true})
	f.seedUser(t, "plain@example.com", "pw", nil)
	f.seedClient(t, uuid.New())

	bearerFor := func(email string) string {
		resp, body := f.tokenRequest(t, "web-app", "s3cret", url.Values{
			"grant_type": {"password"},
			"username":   {email},
			"password":   {"pw"},
		})
		require.Equal(t, http.StatusOK, resp.StatusCode)
		accessToken, _ := body["access_token"].(string)
		require.NotEmpty(t, accessToken)
		return accessToken
	}

	get := func(path, bearer string) *http.Response {
		req, err := http.NewRequest(http.MethodGet, f.ts.URL+path, nil)
		require.NoError(t, err)
		if bearer != "" {
			req.Header.Set("Authorization", "Bearer "+bearer)
		}
		resp, err := f.client.Do(req)
		require.NoError(t, err)
		return resp
	}

	adminToken := bearerFor("admin@example.com")
	plainToken := bearerFor("plain@example.com")

	resp := get("/api/users", adminToken)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "2", resp.Header.Get("X-Total-Count"))

	resp = get("/api/users", plainToken)
	resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = get("/api/users", "")
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRouter_Healthz(t *testing.T) {
	f := newServerFixture(t)

	resp, err := f.client.Get(f.ts.URL + "/healthz")
	require.NoError(t, err)
	body := readBody(t, resp)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"status":"ok"}`, body)

	// A dead backend flips the endpoint to unavailable.
	f.redis.Close()
	resp, err = f.client.Get(f.ts.URL + "/healthz")
	require.NoError(t, err)
	body = readBody(t, resp)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.Contains(t, body, "store_unavailable")
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()

	var buf bytes.Buffer
	_, err := buf.ReadFrom(resp.Body)
	require.NoError(t, err)
	return buf.String()
}
