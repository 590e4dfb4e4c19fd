package service_test

import (
	"context"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"newsroom_backend/internals/databases/dbtest"
	"newsroom_backend/internals/features/cms/languages/service"
)

func TestLanguageLookup(t *testing.T) {
	db := dbtest.Open(t)
	svc := dbtest.Languages(t, db)

	assert.Equal(t, "en", svc.Default().LanguageCode)
	assert.Len(t, svc.FetchAll(), 2)

	id, ok := svc.FetchByCode(" ID ")
	require.True(t, ok)
	assert.Equal(t, "Bahasa Indonesia", id.LanguageName)

	_, ok = svc.FetchByCode("fr")
	assert.False(t, ok)

	got, ok := svc.FetchByID(id.LanguageID)
	require.True(t, ok)
	assert.Equal(t, "id", got.LanguageCode)
}

func TestRefreshWithoutLanguages(t *testing.T) {
	db := dbtest.Open(t)
	require.NoError(t, db.Exec("DELETE FROM languages").Error)

	err := service.NewService(db).Refresh(context.Background())
	assert.ErrorIs(t, err, service.ErrNoLanguages)
}

func TestLanguageMiddleware(t *testing.T) {
	db := dbtest.Open(t)
	svc := dbtest.Languages(t, db)
	id, _ := svc.FetchByCode("id")

	app := fiber.New()
	app.Use(svc.Middleware())
	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString(strconv.Itoa(int(service.LangID(c))))
	})

	cases := []struct {
		name   string
		target string
		header string
		want   uint
	}{
		{"default", "/", "", svc.Default().LanguageID},
		{"query", "/?lang=id", "", id.LanguageID},
		{"header", "/", "id", id.LanguageID},
		{"unknown falls back", "/?lang=xx", "", svc.Default().LanguageID},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", tc.target, nil)
			if tc.header != "" {
				req.Header.Set("X-Language", tc.header)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			buf := make([]byte, 16)
			n, _ := resp.Body.Read(buf)
			assert.Equal(t, strconv.Itoa(int(tc.want)), string(buf[:n]))
		})
	}
}
