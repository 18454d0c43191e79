package modulelist

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/nfrund/coursewizard/internal/domain"
	"github.com/nfrund/coursewizard/internal/session"
	"github.com/nfrund/coursewizard/internal/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupController(t *testing.T, modules ...domain.Module) (*Controller, *testutils.FakeCourseService, *session.Context) {
	t.Helper()
	fake := testutils.NewFakeCourseService(modules...)
	sc := session.NewContext("sid", session.NewCacheBackend(time.Hour).Open("sid"))
	require.NoError(t, sc.Begin(context.Background(), "c1", "mv1"))
	c := New(fake, sc, nil)
	require.NoError(t, c.Load(context.Background()))
	return c, fake, sc
}

func threeModules() []domain.Module {
	return []domain.Module{
		{ID: "m1", Title: "A", Description: "a", Hours: domain.Hours(1)},
		{ID: "m2", Title: "B", Description: "b", Hours: domain.Hours(2)},
		{ID: "m3", Title: "C", Description: "c", Hours: domain.Hours(3)},
	}
}

func ids(modules []domain.Module) []string {
	out := make([]string, len(modules))
	for i, m := range modules {
		out[i] = m.ID
	}
	return out
}

func TestLoad_RequiresCourseContext(t *testing.T) {
	fake := testutils.NewFakeCourseService(threeModules()...)
	sc := session.NewContext("sid", session.NewCacheBackend(time.Hour).Open("sid"))

	err := New(fake, sc, nil).Load(context.Background())
	assert.ErrorIs(t, err, domain.ErrNoCourseContext)
	assert.Zero(t, fake.Calls(testutils.OpListModules))
}

func TestDelete(t *testing.T) {
	ctx := context.Background()

	t.Run("removes exactly that entry and keeps order", func(t *testing.T) {
		c, fake, sc := setupController(t, threeModules()...)
		require.NoError(t, sc.SetSubmoduleVersion(ctx, "m2", "v2"))
		require.NoError(t, sc.SetSubmoduleVersion(ctx, "m3", "v3"))

		require.NoError(t, c.Delete(ctx, 1, true))

		assert.Equal(t, []string{"m1", "m3"}, ids(c.Modules()))
		assert.Equal(t, []string{"m1", "m3"}, ids(fake.Modules()))
		_, ok, _ := sc.SubmoduleVersion(ctx, "m2")
		assert.False(t, ok, "deleted module's submodule version must be forgotten")
		_, ok, _ = sc.SubmoduleVersion(ctx, "m3")
		assert.True(t, ok)
	})

	t.Run("unconfirmed issues no request", func(t *testing.T) {
		c, fake, _ := setupController(t, threeModules()...)
		assert.ErrorIs(t, c.Delete(ctx, 0, false), domain.ErrNotConfirmed)
		assert.Zero(t, fake.Calls(testutils.OpDeleteModule))
		assert.Len(t, c.Modules(), 3)
	})

	t.Run("failure leaves list unchanged", func(t *testing.T) {
		c, fake, _ := setupController(t, threeModules()...)
		fake.Fail(testutils.OpDeleteModule, &domain.TransportError{Op: "delete module", Status: 500, Err: errors.New("down")})

		err := c.Delete(ctx, 0, true)
		var te *domain.TransportError
		require.ErrorAs(t, err, &te)
		assert.Len(t, c.Modules(), 3)
	})

	t.Run("out of range", func(t *testing.T) {
		c, _, _ := setupController(t, threeModules()...)
		assert.ErrorIs(t, c.Delete(ctx, 3, true), domain.ErrIndexOutOfRange)
	})
}

func TestAdd(t *testing.T) {
	ctx := context.Background()

	t.Run("missing title issues no request", func(t *testing.T) {
		c, fake, _ := setupController(t, threeModules()...)
		_, err := c.Add(ctx, domain.ModuleDraft{Description: "d"})

		var verr *domain.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, []string{"title"}, verr.Fields)
		assert.Zero(t, fake.Calls(testutils.OpAddModule))
		assert.Len(t, c.Modules(), 3)
	})

	t.Run("appends with a fresh id", func(t *testing.T) {
		c, fake, _ := setupController(t, threeModules()...)
		c.newID = func() string { return "fixed-id" }

		m, err := c.Add(ctx, domain.ModuleDraft{Title: " New ", Description: "d", Hours: "2-3 hours"})
		require.NoError(t, err)
		assert.Equal(t, "fixed-id", m.ID)
		assert.Equal(t, "New", m.Title)
		assert.Equal(t, "2-3 hours", m.Hours.String())
		assert.Equal(t, []string{"m1", "m2", "m3", "fixed-id"}, ids(c.Modules()))
		assert.Equal(t, 1, fake.Calls(testutils.OpAddModule))
	})

	t.Run("empty hours default to one hour", func(t *testing.T) {
		c, _, _ := setupController(t)
		m, err := c.Add(ctx, domain.ModuleDraft{Title: "T", Description: "d"})
		require.NoError(t, err)
		assert.Equal(t, "1 hour", m.Hours.String())
	})

	t.Run("rejected add leaves list unchanged", func(t *testing.T) {
		c, fake, _ := setupController(t, threeModules()...)
		fake.Fail(testutils.OpAddModule, errors.New("down"))
		_, err := c.Add(ctx, domain.ModuleDraft{Title: "T", Description: "d"})
		assert.Error(t, err)
		assert.Len(t, c.Modules(), 3)
	})
}

func TestEditAndSave(t *testing.T) {
	ctx := context.Background()

	t.Run("save merges draft into local state", func(t *testing.T) {
		c, fake, _ := setupController(t, threeModules()...)
		require.NoError(t, c.BeginEdit(1))
		assert.Equal(t, "B", c.Draft().Title)
		assert.Equal(t, "2 hours", c.Draft().Hours)

		require.NoError(t, c.UpdateDraft(domain.ModuleDraft{Title: "B2", Description: "b2", Hours: "4"}))
		require.NoError(t, c.Save(ctx))

		m := c.Modules()[1]
		assert.Equal(t, "m2", m.ID)
		assert.Equal(t, "B2", m.Title)
		assert.Equal(t, domain.Hours(4), m.Hours)
		assert.Equal(t, -1, c.Editing())
		assert.Equal(t, "B2", fake.Modules()[1].Title)
	})

	t.Run("cancel leaves record untouched", func(t *testing.T) {
		c, fake, _ := setupController(t, threeModules()...)
		require.NoError(t, c.BeginEdit(0))
		require.NoError(t, c.UpdateDraft(domain.ModuleDraft{Title: "changed", Description: "x"}))
		c.CancelEdit()

		assert.Equal(t, "A", c.Modules()[0].Title)
		assert.ErrorIs(t, c.Save(ctx), domain.ErrNoDraft)
		assert.Zero(t, fake.Calls(testutils.OpUpdateModule))
	})

	t.Run("failed save keeps the draft", func(t *testing.T) {
		c, fake, _ := setupController(t, threeModules()...)
		fake.Fail(testutils.OpUpdateModule, errors.New("down"))
		require.NoError(t, c.BeginEdit(0))
		require.NoError(t, c.UpdateDraft(domain.ModuleDraft{Title: "changed", Description: "x"}))

		assert.Error(t, c.Save(ctx))
		assert.Equal(t, "A", c.Modules()[0].Title)
		assert.Equal(t, 0, c.Editing())
		assert.Equal(t, "changed", c.Draft().Title)
	})

	t.Run("draft without edit", func(t *testing.T) {
		c, _, _ := setupController(t, threeModules()...)
		assert.ErrorIs(t, c.UpdateDraft(domain.ModuleDraft{}), domain.ErrNoDraft)
		assert.ErrorIs(t, c.BeginEdit(-1), domain.ErrIndexOutOfRange)
	})
}
