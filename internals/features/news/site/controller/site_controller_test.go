package controller_test

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"newsroom_backend/internals/features/news/newstest"
	middlewares "newsroom_backend/internals/middlewares"
	routes "newsroom_backend/internals/route"
)

const secret = "test-secret"

type envelope struct {
	Success    bool                `json:"success"`
	Message    string              `json:"message"`
	Data       map[string]any      `json:"data"`
	Errors     map[string][]string `json:"errors"`
	Pagination map[string]any      `json:"pagination"`
}

type listEnvelope struct {
	Data       []map[string]any `json:"data"`
	Pagination map[string]any   `json:"pagination"`
}

func newApp(t *testing.T) (*fiber.App, *newstest.Env) {
	t.Helper()
	env := newstest.New(t)
	app := fiber.New(fiber.Config{
		JSONEncoder:  sonic.Marshal,
		JSONDecoder:  sonic.Unmarshal,
		ErrorHandler: middlewares.ErrorHandler,
	})
	routes.SetupRoutes(app, env.Module, secret)
	return app, env
}

func token(t *testing.T, role string) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"role": role,
		"exp":  time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte(secret))
	require.NoError(t, err)
	return tok
}

func adminToken(t *testing.T) string { return token(t, "admin") }

func do(t *testing.T, app *fiber.App, method, path, token string, body any) (int, []byte) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := sonic.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", fiber.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	out, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, out
}

func decode(t *testing.T, raw []byte, v any) {
	t.Helper()
	require.NoError(t, sonic.Unmarshal(raw, v), string(raw))
}

func TestTechLaunchScenario(t *testing.T) {
	app, env := newApp(t)
	admin := adminToken(t)

	category := map[string]any{
		"seo": true,
		"translations": []map[string]any{
			{"lang_id": env.EnID, "name": "Tech"},
			{"lang_id": env.IdID, "name": "Teknologi"},
		},
	}

	code, _ := do(t, app, "POST", "/admin/module/news/category/save", "", category)
	assert.Equal(t, fiber.StatusUnauthorized, code)
	code, _ = do(t, app, "POST", "/admin/module/news/category/save", token(t, "guest"), category)
	assert.Equal(t, fiber.StatusForbidden, code)

	code, raw := do(t, app, "POST", "/admin/module/news/category/save", admin, category)
	require.Equal(t, fiber.StatusCreated, code, string(raw))
	var created envelope
	decode(t, raw, &created)
	catID := uint(created.Data["id"].(float64))
	assert.Equal(t, "/tech", created.Data["url"])

	post := map[string]any{
		"category_id": catID,
		"published":   true,
		"seo":         true,
		"front":       true,
		"translations": []map[string]any{
			{"lang_id": env.EnID, "name": "Launch", "full": "<p>We launched</p>"},
			{"lang_id": env.IdID, "name": "Peluncuran"},
		},
	}
	code, raw = do(t, app, "POST", "/admin/module/news/post/save", admin, post)
	require.Equal(t, fiber.StatusCreated, code, string(raw))
	decode(t, raw, &created)
	postID := uint(created.Data["id"].(float64))
	assert.Equal(t, "/launch", created.Data["url"])
	assert.Equal(t, "Launch", created.Data["title"])
	assert.Equal(t, "Tech", created.Data["category_name"])

	postPath := fmt.Sprintf("/module/news/post/%d", postID)
	for i := 0; i < 2; i++ {
		code, raw = do(t, app, "GET", postPath, "", nil)
		require.Equal(t, fiber.StatusOK, code, string(raw))
	}
	stored, err := env.Posts.FetchByID(context.Background(), env.EnID, postID, false)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stored.Views)

	code, raw = do(t, app, "GET", "/news", "", nil)
	require.Equal(t, fiber.StatusOK, code)
	var feed listEnvelope
	decode(t, raw, &feed)
	require.Len(t, feed.Data, 1)
	assert.Equal(t, "Launch", feed.Data[0]["name"])
	assert.Equal(t, float64(1), feed.Pagination["total"])

	code, raw = do(t, app, "GET", "/id/peluncuran", "", nil)
	require.Equal(t, fiber.StatusOK, code, string(raw))
	var page envelope
	decode(t, raw, &page)
	assert.Equal(t, "post", page.Data["type"])

	code, raw = do(t, app, "GET", "/tech", "", nil)
	require.Equal(t, fiber.StatusOK, code, string(raw))
	decode(t, raw, &page)
	assert.Equal(t, "category", page.Data["type"])

	code, _ = do(t, app, "GET", "/nothing-here", "", nil)
	assert.Equal(t, fiber.StatusNotFound, code)
}

func TestTweakAndVisibility(t *testing.T) {
	app, env := newApp(t)
	admin := adminToken(t)
	cat := env.Category(t, "Tech")
	id := env.Post(t, cat, "Launch")
	key := fmt.Sprint(id)

	code, _ := do(t, app, "POST", "/admin/module/news/post/tweak", token(t, "guest"), map[string]any{
		"settings": map[string]any{key: map[string]bool{"published": false}},
	})
	assert.Equal(t, fiber.StatusForbidden, code)

	code, _ = do(t, app, "POST", "/admin/module/news/post/tweak", admin, map[string]any{
		"settings": map[string]any{key: map[string]bool{"views": true}},
	})
	assert.Equal(t, fiber.StatusBadRequest, code)

	code, raw := do(t, app, "POST", "/admin/module/news/post/tweak", admin, map[string]any{
		"settings": map[string]any{key: map[string]int{"published": 0, "seo": 1}},
	})
	require.Equal(t, fiber.StatusOK, code, string(raw))

	code, _ = do(t, app, "GET", fmt.Sprintf("/module/news/post/%d", id), "", nil)
	assert.Equal(t, fiber.StatusNotFound, code)

	code, raw = do(t, app, "GET", "/news", "", nil)
	require.Equal(t, fiber.StatusOK, code)
	var feed listEnvelope
	decode(t, raw, &feed)
	assert.Empty(t, feed.Data)

	code, raw = do(t, app, "GET", "/admin/module/news", token(t, "guest"), nil)
	require.Equal(t, fiber.StatusOK, code)
	decode(t, raw, &feed)
	assert.Len(t, feed.Data, 1)
}

func TestAdminReadsNeedToken(t *testing.T) {
	app, env := newApp(t)
	cat := env.Category(t, "Tech")
	in := env.PostInput(cat, "Secret draft")
	in.Published = false
	id, err := env.Posts.Add(context.Background(), in, nil)
	require.NoError(t, err)

	edit := fmt.Sprintf("/admin/module/news/post/edit/%d", id)
	for _, path := range []string{edit, "/admin/module/news", "/admin/module/news/history"} {
		code, raw := do(t, app, "GET", path, "", nil)
		assert.Equal(t, fiber.StatusUnauthorized, code, path)
		assert.NotContains(t, string(raw), "secret-draft", path)
	}

	code, raw := do(t, app, "GET", edit, token(t, "guest"), nil)
	require.Equal(t, fiber.StatusOK, code, string(raw))
	assert.Contains(t, string(raw), "secret-draft")
}

func TestSaveValidationAndDelete(t *testing.T) {
	app, env := newApp(t)
	admin := adminToken(t)
	cat := env.Category(t, "Tech")

	code, raw := do(t, app, "POST", "/admin/module/news/post/save", admin, map[string]any{
		"category_id":  cat,
		"date":         "2024-01-01",
		"translations": []map[string]any{{"lang_id": env.EnID, "name": ""}},
	})
	require.Equal(t, fiber.StatusUnprocessableEntity, code)
	var bad envelope
	decode(t, raw, &bad)
	assert.Contains(t, bad.Errors, "date")
	assert.Contains(t, bad.Errors, "translations[0].name")

	a := env.Post(t, cat, "Alpha")
	b := env.Post(t, cat, "Beta")

	code, _ = do(t, app, "POST", "/admin/module/news/post/delete-selected", admin, map[string]any{"ids": []uint{a, 999}})
	assert.Equal(t, fiber.StatusNotFound, code)

	code, _ = do(t, app, "POST", "/admin/module/news/post/delete-selected", admin, map[string]any{"ids": []uint{a, b}})
	assert.Equal(t, fiber.StatusOK, code)

	code, _ = do(t, app, "POST", fmt.Sprintf("/admin/module/news/category/delete/%d", cat), admin, nil)
	assert.Equal(t, fiber.StatusOK, code)
	code, _ = do(t, app, "GET", "/tech", "", nil)
	assert.Equal(t, fiber.StatusNotFound, code)
}

func TestWidgets(t *testing.T) {
	app, env := newApp(t)
	cat := env.Category(t, "Tech")
	first := env.Post(t, cat, "First")
	second := env.Post(t, cat, "Second")

	code, raw := do(t, app, "GET", "/news/site/recent?limit=1", "", nil)
	require.Equal(t, fiber.StatusOK, code)
	var list listEnvelope
	decode(t, raw, &list)
	require.Len(t, list.Data, 1)

	code, raw = do(t, app, "GET", "/news/site/categories", "", nil)
	require.Equal(t, fiber.StatusOK, code)
	decode(t, raw, &list)
	require.Len(t, list.Data, 1)
	assert.Equal(t, float64(2), list.Data[0]["post_count"])

	code, raw = do(t, app, "GET", fmt.Sprintf("/news/site/sequential/%d", first), "", nil)
	require.Equal(t, fiber.StatusOK, code)
	var seq envelope
	decode(t, raw, &seq)
	next := seq.Data["next"].(map[string]any)
	assert.Equal(t, float64(second), next["id"])

	code, raw = do(t, app, "GET", "/news/search?q=seco", "", nil)
	require.Equal(t, fiber.StatusOK, code)
	decode(t, raw, &list)
	require.Len(t, list.Data, 1)

	code, _ = do(t, app, "GET", "/news/search", "", nil)
	assert.Equal(t, fiber.StatusUnprocessableEntity, code)

	code, raw = do(t, app, "GET", "/news?sort=all", "", nil)
	require.Equal(t, fiber.StatusOK, code)
	decode(t, raw, &list)
	require.Len(t, list.Data, 2)
	assert.Equal(t, float64(first), list.Data[0]["id"])

	code, raw = do(t, app, "GET", "/news?sort=latest", "", nil)
	require.Equal(t, fiber.StatusOK, code)
	decode(t, raw, &list)
	require.Len(t, list.Data, 2)
	assert.Equal(t, float64(second), list.Data[0]["id"])

	code, raw = do(t, app, "GET", "/news?lang=id", "", nil)
	require.Equal(t, fiber.StatusOK, code)
	decode(t, raw, &list)
	require.Len(t, list.Data, 2)
	assert.Contains(t, list.Data[0]["url"], "/id/")
}
