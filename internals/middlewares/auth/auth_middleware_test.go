package auth

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"newsroom_backend/internals/constants"
)

const testSecret = "s3cret"

func signed(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return tok
}

func newApp() *fiber.App {
	app := fiber.New()
	app.Use(OptionalAuth(testSecret))
	app.Get("/whoami", func(c *fiber.Ctx) error {
		return c.SendString(CurrentRole(c))
	})
	app.Post("/write", OnlyRolesSlice(constants.RoleErrorGuest("news"), constants.NonGuestRoles), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusNoContent)
	})
	return app
}

func call(t *testing.T, app *fiber.App, method, path, token string) (int, string) {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

func TestOptionalAuthRoles(t *testing.T) {
	app := newApp()
	exp := float64(time.Now().Add(time.Hour).Unix())

	code, body := call(t, app, "GET", "/whoami", "")
	assert.Equal(t, 200, code)
	assert.Equal(t, constants.RoleGuest, body)

	code, body = call(t, app, "GET", "/whoami", signed(t, testSecret, jwt.MapClaims{"role": "admin", "exp": exp}))
	assert.Equal(t, 200, code)
	assert.Equal(t, constants.RoleAdmin, body)

	code, body = call(t, app, "GET", "/whoami", signed(t, testSecret, jwt.MapClaims{"role": "root", "exp": exp}))
	assert.Equal(t, 200, code)
	assert.Equal(t, constants.RoleGuest, body)
}

func TestOptionalAuthRejectsBadTokens(t *testing.T) {
	app := newApp()

	code, _ := call(t, app, "GET", "/whoami", signed(t, "other", jwt.MapClaims{"role": "admin", "exp": float64(time.Now().Add(time.Hour).Unix())}))
	assert.Equal(t, fiber.StatusUnauthorized, code)

	code, _ = call(t, app, "GET", "/whoami", signed(t, testSecret, jwt.MapClaims{"role": "admin", "exp": float64(time.Now().Add(-time.Hour).Unix())}))
	assert.Equal(t, fiber.StatusUnauthorized, code)
}

func TestOnlyRolesSliceBlocksGuest(t *testing.T) {
	app := newApp()

	code, _ := call(t, app, "POST", "/write", "")
	assert.Equal(t, fiber.StatusForbidden, code)

	code, _ = call(t, app, "POST", "/write", signed(t, testSecret, jwt.MapClaims{"role": "user", "exp": float64(time.Now().Add(time.Hour).Unix())}))
	assert.Equal(t, fiber.StatusNoContent, code)
}

func TestRequireAuthRejectsAnonymous(t *testing.T) {
	app := fiber.New()
	app.Use(RequireAuth(testSecret), OnlyMutatingFor(constants.RoleErrorGuest("news"), constants.NonGuestRoles))
	app.Get("/grid", func(c *fiber.Ctx) error {
		return c.SendString(CurrentRole(c))
	})
	app.Post("/save", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusNoContent)
	})
	exp := float64(time.Now().Add(time.Hour).Unix())

	code, _ := call(t, app, "GET", "/grid", "")
	assert.Equal(t, fiber.StatusUnauthorized, code)

	guest := signed(t, testSecret, jwt.MapClaims{"role": "guest", "exp": exp})
	code, body := call(t, app, "GET", "/grid", guest)
	assert.Equal(t, 200, code)
	assert.Equal(t, constants.RoleGuest, body)

	code, _ = call(t, app, "POST", "/save", guest)
	assert.Equal(t, fiber.StatusForbidden, code)

	code, _ = call(t, app, "POST", "/save", signed(t, testSecret, jwt.MapClaims{"role": "admin", "exp": exp}))
	assert.Equal(t, fiber.StatusNoContent, code)
}

func TestRequireAuthWithoutSecret(t *testing.T) {
	app := fiber.New()
	app.Use(RequireAuth(""))
	app.Get("/grid", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })

	code, _ := call(t, app, "GET", "/grid", signed(t, testSecret, jwt.MapClaims{"role": "admin", "exp": float64(time.Now().Add(time.Hour).Unix())}))
	assert.Equal(t, fiber.StatusUnauthorized, code)
}
