package auth_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	auth "github.com/holord/auth-gateway"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApp(t *testing.T, auther auth.Authenticator, tokens auth.TokenService) *fiber.App {
	t.Helper()

	app := fiber.New()
	controller := auth.NewAuthController(
		auth.WithAuthenticator(auther),
		auth.WithTokenService(tokens),
	)
	auth.RegisterAuthRoutes(app.Group("/api/auth"), controller)

	return app
}

func newOpenApp(t *testing.T) *fiber.App {
	t.Helper()

	store := auth.NewTieredCredentials(nil, auth.NewMemoryCredentials())
	tokens := auth.NewTokenService([]byte(testSigningKey), 7*24*time.Hour, "holord-auth", nil)
	auther := auth.NewAuthenticator(auth.ModeOpenSignup, store, nil, tokens)

	return newTestApp(t, auther, tokens)
}

func newInvitationApp(t *testing.T, seeds []auth.SeedAccount) *fiber.App {
	t.Helper()

	registry, err := auth.NewAccountRegistry("admin-secret", seeds)
	require.NoError(t, err)

	tokens := auth.NewTokenService([]byte(testSigningKey), 30*24*time.Hour, "holord-auth", nil)
	auther := auth.NewAuthenticator(auth.ModeInvitationOnly, nil, registry, tokens)

	return newTestApp(t, auther, tokens)
}

func postJSON(t *testing.T, app *fiber.App, path string, body any) (*http.Response, map[string]any) {
	t.Helper()

	raw, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")

	res, err := app.Test(req, -1)
	require.NoError(t, err)

	return res, decodeBody(t, res)
}

func getJSON(t *testing.T, app *fiber.App, path string, headers map[string]string) (*http.Response, map[string]any) {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, path, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	res, err := app.Test(req, -1)
	require.NoError(t, err)

	return res, decodeBody(t, res)
}

func decodeBody(t *testing.T, res *http.Response) map[string]any {
	t.Helper()

	defer res.Body.Close()
	raw, err := io.ReadAll(res.Body)
	require.NoError(t, err)

	payload := map[string]any{}
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &payload))
	}

	return payload
}

func TestTestRoute(t *testing.T) {
	app := newOpenApp(t)

	res, body := getJSON(t, app, "/api/auth/test", nil)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, false, body["dbConnected"])
	assert.Contains(t, body, "endpoints")
}

func TestSignupFlow(t *testing.T) {
	app := newOpenApp(t)

	res, body := postJSON(t, app, "/api/auth/signup", fiber.Map{
		"email":    "a@x.com",
		"password": "pw1",
	})
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, true, body["success"])
	assert.NotEmpty(t, body["userId"])

	t.Run("duplicate email", func(t *testing.T) {
		res, body := postJSON(t, app, "/api/auth/signup", fiber.Map{
			"email":    "a@x.com",
			"password": "pw2",
		})
		assert.Equal(t, http.StatusBadRequest, res.StatusCode)
		assert.Equal(t, false, body["success"])
		assert.Equal(t, "User already exists", body["message"])
	})

	t.Run("missing fields", func(t *testing.T) {
		res, body := postJSON(t, app, "/api/auth/signup", fiber.Map{
			"email": "b@x.com",
		})
		assert.Equal(t, http.StatusBadRequest, res.StatusCode)
		assert.Equal(t, "Missing email or password", body["message"])
	})

	t.Run("wrong password then correct password", func(t *testing.T) {
		res, body := postJSON(t, app, "/api/auth/login", fiber.Map{
			"email":    "a@x.com",
			"password": "wrong",
		})
		assert.Equal(t, http.StatusBadRequest, res.StatusCode)
		assert.Equal(t, "Invalid email or password", body["message"])

		res, body = postJSON(t, app, "/api/auth/login", fiber.Map{
			"email":    "a@x.com",
			"password": "pw1",
		})
		assert.Equal(t, http.StatusOK, res.StatusCode)
		assert.Equal(t, true, body["success"])
		assert.NotEmpty(t, body["token"])

		user, ok := body["user"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "a@x.com", user["email"])
	})

	t.Run("unknown email gets the same message as a bad password", func(t *testing.T) {
		res, body := postJSON(t, app, "/api/auth/login", fiber.Map{
			"email":    "ghost@x.com",
			"password": "pw1",
		})
		assert.Equal(t, http.StatusBadRequest, res.StatusCode)
		assert.Equal(t, "Invalid email or password", body["message"])
	})
}

func TestSignupDisabledRoute(t *testing.T) {
	app := newInvitationApp(t, nil)

	res, body := postJSON(t, app, "/api/auth/signup", fiber.Map{
		"email":    "a@x.com",
		"password": "pw1",
	})
	assert.Equal(t, http.StatusForbidden, res.StatusCode)
	assert.Contains(t, body["message"], "invitation only")
}

func TestRegistryLoginRoute(t *testing.T) {
	app := newInvitationApp(t, []auth.SeedAccount{
		{Email: "client@x.com", Password: "pw1", Name: "Client"},
		{
			Email:     "lapsed@x.com",
			Password:  "pw1",
			Name:      "Lapsed",
			ExpiresOn: time.Now().AddDate(0, -1, 0),
		},
	})

	t.Run("unregistered email", func(t *testing.T) {
		res, body := postJSON(t, app, "/api/auth/login", fiber.Map{
			"email":    "ghost@x.com",
			"password": "pw1",
		})
		assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
		assert.Contains(t, body["message"], "Account not found")
	})

	t.Run("wrong password", func(t *testing.T) {
		res, body := postJSON(t, app, "/api/auth/login", fiber.Map{
			"email":    "client@x.com",
			"password": "wrong",
		})
		assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
		assert.Contains(t, body["message"], "Incorrect password")
	})

	t.Run("expired account", func(t *testing.T) {
		res, body := postJSON(t, app, "/api/auth/login", fiber.Map{
			"email":    "lapsed@x.com",
			"password": "pw1",
		})
		assert.Equal(t, http.StatusForbidden, res.StatusCode)
		assert.Contains(t, body["message"], "expired on")
	})

	t.Run("active account", func(t *testing.T) {
		res, body := postJSON(t, app, "/api/auth/login", fiber.Map{
			"email":    "client@x.com",
			"password": "pw1",
		})
		assert.Equal(t, http.StatusOK, res.StatusCode)
		assert.NotEmpty(t, body["token"])

		user, ok := body["user"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "Client", user["name"])
		assert.NotNil(t, user["daysRemaining"])
	})
}

func TestCreateAccountRoute(t *testing.T) {
	app := newInvitationApp(t, nil)

	t.Run("bad admin key", func(t *testing.T) {
		res, _ := postJSON(t, app, "/api/auth/create-account", fiber.Map{
			"adminKey": "wrong",
			"email":    "new@x.com",
			"password": "pw1",
			"name":     "New",
		})
		assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
	})

	t.Run("missing fields", func(t *testing.T) {
		res, _ := postJSON(t, app, "/api/auth/create-account", fiber.Map{
			"adminKey": "admin-secret",
			"email":    "new@x.com",
		})
		assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	})

	t.Run("creates the account", func(t *testing.T) {
		res, body := postJSON(t, app, "/api/auth/create-account", fiber.Map{
			"adminKey": "admin-secret",
			"email":    "new@x.com",
			"password": "pw1",
			"name":     "New Client",
			"months":   2,
		})
		assert.Equal(t, http.StatusOK, res.StatusCode)

		details, ok := body["details"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "new@x.com", details["email"])
		assert.Equal(t, "pw1", details["password"])
		assert.Equal(t, auth.DefaultPlan, details["plan"])
		assert.NotEmpty(t, details["expires"])
	})

	t.Run("duplicate rejected", func(t *testing.T) {
		res, _ := postJSON(t, app, "/api/auth/create-account", fiber.Map{
			"adminKey": "admin-secret",
			"email":    "new@x.com",
			"password": "pw1",
			"name":     "Imposter",
		})
		assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	})
}

func TestAccountsRoute(t *testing.T) {
	app := newInvitationApp(t, []auth.SeedAccount{
		{Email: "client@x.com", Password: "pw1", Name: "Client"},
	})

	t.Run("bad admin key", func(t *testing.T) {
		res, _ := getJSON(t, app, "/api/auth/accounts?adminKey=wrong", nil)
		assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
	})

	t.Run("lists accounts", func(t *testing.T) {
		res, body := getJSON(t, app, "/api/auth/accounts?adminKey=admin-secret", nil)
		assert.Equal(t, http.StatusOK, res.StatusCode)
		assert.Equal(t, float64(1), body["totalAccounts"])

		accounts, ok := body["accounts"].([]any)
		require.True(t, ok)
		require.Len(t, accounts, 1)

		first, ok := accounts[0].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "client@x.com", first["email"])
		assert.NotContains(t, first, "PasswordHash")
	})
}

func TestMeRoute(t *testing.T) {
	app := newOpenApp(t)

	_, _ = postJSON(t, app, "/api/auth/signup", fiber.Map{
		"email":    "a@x.com",
		"password": "pw1",
	})
	_, body := postJSON(t, app, "/api/auth/login", fiber.Map{
		"email":    "a@x.com",
		"password": "pw1",
	})
	token, _ := body["token"].(string)
	require.NotEmpty(t, token)

	t.Run("with bearer token", func(t *testing.T) {
		res, body := getJSON(t, app, "/api/auth/me", map[string]string{
			"Authorization": "Bearer " + token,
		})
		assert.Equal(t, http.StatusOK, res.StatusCode)

		session, ok := body["session"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "a@x.com", session["email"])
	})

	t.Run("without token", func(t *testing.T) {
		res, _ := getJSON(t, app, "/api/auth/me", nil)
		assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
	})

	t.Run("with a tampered token", func(t *testing.T) {
		res, _ := getJSON(t, app, "/api/auth/me", map[string]string{
			"Authorization": "Bearer " + token + "x",
		})
		assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
	})
}
