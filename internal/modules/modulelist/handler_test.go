package modulelist

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nfrund/coursewizard/internal/domain"
	"github.com/nfrund/coursewizard/internal/middleware"
	"github.com/nfrund/coursewizard/internal/registry"
	"github.com/nfrund/coursewizard/internal/testutils"
)

func setupApp(t *testing.T) (*testutils.WebApp, *testutils.FakeCourseService) {
	t.Helper()
	fake := testutils.NewFakeCourseService(threeModules()...)
	app := testutils.NewWebApp(t, middleware.SessionConfig{})
	m := NewModule(Dependencies{Client: fake})
	require.NoError(t, m.Boot(context.Background(), app.App, registry.New(nil)))
	app.Begin(t, "c1", "mv1")
	return app, fake
}

func TestHandler_List(t *testing.T) {
	t.Run("without a course goes to the start page", func(t *testing.T) {
		app := testutils.NewWebApp(t, middleware.SessionConfig{})
		require.NoError(t, NewModule(Dependencies{Client: testutils.NewFakeCourseService()}).Boot(context.Background(), app.App, registry.New(nil)))

		rec := app.Do(http.MethodGet, "/modules", nil)
		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/course/start", rec.Header().Get("Location"))
	})

	t.Run("renders the modules", func(t *testing.T) {
		app, _ := setupApp(t)
		rec := app.Do(http.MethodGet, "/modules", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		body := rec.Body.String()
		assert.Contains(t, body, "<h2 class=\"text-xl font-semibold\">A</h2>")
		assert.Contains(t, body, "3 hours")
		assert.Contains(t, body, `hx-confirm="Delete module &#34;B&#34;?"`)
	})

	t.Run("edit opens the row as a form", func(t *testing.T) {
		app, _ := setupApp(t)
		rec := app.Do(http.MethodGet, "/modules?edit=1", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `action="/modules/1"`)
		assert.Contains(t, rec.Body.String(), `value="B"`)
	})

	t.Run("service failure is shown on the page", func(t *testing.T) {
		app, fake := setupApp(t)
		fake.Fail("ListModules", &domain.TransportError{Op: "list modules", Err: errors.New("dial tcp: refused")})
		rec := app.Do(http.MethodGet, "/modules", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "could not be reached")
	})
}

func TestHandler_Mutations(t *testing.T) {
	t.Run("add redirects with a success flash", func(t *testing.T) {
		app, fake := setupApp(t)
		rec := app.Do(http.MethodPost, "/modules", url.Values{"title": {"D"}, "description": {"d"}, "hours": {"2-3 hours"}})
		page := app.Follow(t, rec)

		assert.Contains(t, page.Body.String(), `Module &#34;D&#34; added.`)
		require.Len(t, fake.Modules(), 4)
		assert.Equal(t, "2-3 hours", fake.Modules()[3].Hours.String())
	})

	t.Run("add with a missing field keeps the typed values", func(t *testing.T) {
		app, fake := setupApp(t)
		rec := app.Do(http.MethodPost, "/modules", url.Values{"title": {"Kept"}, "description": {"  "}})
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "Please fill in: description.")
		assert.Contains(t, rec.Body.String(), `value="Kept"`)
		assert.Len(t, fake.Modules(), 3)
	})

	t.Run("add is checked before the course service is contacted", func(t *testing.T) {
		app, fake := setupApp(t)
		fake.Fail(testutils.OpListModules, &domain.TransportError{Op: "list modules", Err: errors.New("dial tcp: refused")})

		rec := app.Do(http.MethodPost, "/modules", url.Values{"title": {" "}, "description": {"d"}, "hours": {"2 hours"}})
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "Please fill in: title.")
		assert.Contains(t, rec.Body.String(), `value="2 hours"`)
		assert.Zero(t, fake.Calls(testutils.OpAddModule))
	})

	t.Run("successful add does not list the modules", func(t *testing.T) {
		app, fake := setupApp(t)
		before := fake.Calls(testutils.OpListModules)

		rec := app.Do(http.MethodPost, "/modules", url.Values{"title": {"D"}, "description": {"d"}})
		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, before, fake.Calls(testutils.OpListModules))
		assert.Equal(t, 1, fake.Calls(testutils.OpAddModule))
	})

	t.Run("save updates the module", func(t *testing.T) {
		app, fake := setupApp(t)
		rec := app.Do(http.MethodPost, "/modules/0", url.Values{"id": {"m1"}, "title": {"A2"}, "description": {"a2"}, "hours": {""}})
		page := app.Follow(t, rec)

		assert.Contains(t, page.Body.String(), "Module saved.")
		assert.Equal(t, "A2", fake.Modules()[0].Title)
		assert.Equal(t, "1 hour", fake.Modules()[0].Hours.String())
	})

	t.Run("save against a changed list is rejected", func(t *testing.T) {
		app, fake := setupApp(t)
		rec := app.Do(http.MethodPost, "/modules/0", url.Values{"id": {"m2"}, "title": {"X"}, "description": {"x"}})
		page := app.Follow(t, rec)

		assert.Contains(t, page.Body.String(), "no longer exists")
		assert.Zero(t, fake.Calls(testutils.OpUpdateModule))
	})

	t.Run("delete needs confirmation", func(t *testing.T) {
		app, fake := setupApp(t)
		page := app.Follow(t, app.Do(http.MethodPost, "/modules/1/delete", url.Values{"id": {"m2"}}))
		assert.Contains(t, page.Body.String(), "Deletion was not confirmed.")
		assert.Zero(t, fake.Calls(testutils.OpDeleteModule))

		page = app.Follow(t, app.Do(http.MethodPost, "/modules/1/delete", url.Values{"id": {"m2"}, "confirm": {"yes"}}))
		assert.Contains(t, page.Body.String(), `Module &#34;B&#34; deleted.`)
		assert.Equal(t, []string{"m1", "m3"}, ids(fake.Modules()))
	})
}
