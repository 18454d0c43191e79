package submodules

import (
	"context"
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nfrund/coursewizard/internal/domain"
	"github.com/nfrund/coursewizard/internal/middleware"
	"github.com/nfrund/coursewizard/internal/modules/wizard"
	"github.com/nfrund/coursewizard/internal/registry"
	"github.com/nfrund/coursewizard/internal/testutils"
)

// setupApp mounts the wizard list and the detail screen, starts a course and
// opens m1 so that a submodule version is cached in the session.
func setupApp(t *testing.T, subs ...domain.Submodule) (*testutils.WebApp, *testutils.FakeCourseService) {
	t.Helper()
	ctx := context.Background()
	fake := testutils.NewFakeCourseService(intro)
	fake.OnGenerate(func(domain.Module) []domain.Submodule { return subs })

	app := testutils.NewWebApp(t, middleware.SessionConfig{})
	reg := registry.New(nil)
	wm := wizard.NewModule(wizard.ModuleDependencies{Controller: wizard.Dependencies{Client: fake}})
	require.NoError(t, wm.Register(reg))
	require.NoError(t, wm.Boot(ctx, app.App, reg))
	require.NoError(t, NewModule(Dependencies{Client: fake}).Boot(ctx, app.App, reg))

	app.Begin(t, "c1", "mv1")
	rec := app.Do(http.MethodPost, "/submodules/m1/open", nil)
	require.Equal(t, "/submodules/m1", rec.Header().Get("Location"))
	return app, fake
}

func TestHandler_Show(t *testing.T) {
	t.Run("lists the submodules", func(t *testing.T) {
		app, _ := setupApp(t, twoSubs()...)
		rec := app.Do(http.MethodGet, "/submodules/m1", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		body := rec.Body.String()
		assert.Contains(t, body, "Submodules generated for &#34;Intro&#34;.")
		assert.Contains(t, body, ">One</h2>")
		assert.Contains(t, body, ">Two</h2>")
		assert.Contains(t, body, `action="/submodules/m1/1/delete"`)
	})

	t.Run("empty generation goes back to the list", func(t *testing.T) {
		app, _ := setupApp(t)
		rec := app.Do(http.MethodGet, "/submodules/m1", nil)
		require.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/submodules", rec.Header().Get("Location"))

		page := app.Follow(t, rec)
		assert.Contains(t, page.Body.String(), "The generated submodules for this module are gone.")
		assert.Contains(t, page.Body.String(), `data-state="ungenerated"`)
	})

	t.Run("module that was never opened", func(t *testing.T) {
		app, _ := setupApp(t, twoSubs()...)
		page := app.Follow(t, app.Do(http.MethodGet, "/submodules/m9", nil))
		assert.Contains(t, page.Body.String(), "Submodules have not been generated for this module yet.")
	})
}

func TestHandler_Mutations(t *testing.T) {
	t.Run("add, save and delete", func(t *testing.T) {
		app, fake := setupApp(t, twoSubs()...)

		page := app.Follow(t, app.Do(http.MethodPost, "/submodules/m1", url.Values{"title": {"Three"}, "description": {"third"}}))
		assert.Contains(t, page.Body.String(), "Submodule &#34;Three&#34; added.")
		assert.Len(t, fake.Submodules("m1", "v1"), 3)

		page = app.Follow(t, app.Do(http.MethodPost, "/submodules/m1/0", url.Values{"id": {"s1"}, "title": {"Uno"}, "description": {"first"}}))
		assert.Contains(t, page.Body.String(), "Submodule saved.")
		assert.Contains(t, page.Body.String(), ">Uno</h2>")

		page = app.Follow(t, app.Do(http.MethodPost, "/submodules/m1/1/delete", url.Values{"id": {"s2"}, "confirm": {"yes"}}))
		assert.Contains(t, page.Body.String(), "Submodule &#34;Two&#34; deleted.")
		assert.Len(t, fake.Submodules("m1", "v1"), 2)
	})

	t.Run("invalid add stays on the page", func(t *testing.T) {
		app, fake := setupApp(t, twoSubs()...)
		rec := app.Do(http.MethodPost, "/submodules/m1", url.Values{"title": {"Only title"}})
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "Please fill in: description.")
		assert.Contains(t, rec.Body.String(), `value="Only title"`)
		assert.Zero(t, fake.Calls(testutils.OpAddSubmodule))
	})

	t.Run("deleting the last submodule returns to the wizard list", func(t *testing.T) {
		app, _ := setupApp(t, twoSubs()[0])
		rec := app.Do(http.MethodPost, "/submodules/m1/0/delete", url.Values{"id": {"s1"}, "confirm": {"yes"}})
		require.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/submodules", rec.Header().Get("Location"))

		page := app.Follow(t, rec)
		assert.Contains(t, page.Body.String(), "must be generated again")
		assert.Contains(t, page.Body.String(), `data-state="ungenerated"`)
	})
}
