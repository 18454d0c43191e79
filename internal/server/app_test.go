package server

import (
	"context"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nfrund/coursewizard/internal/config"
	"github.com/nfrund/coursewizard/internal/domain"
	"github.com/nfrund/coursewizard/internal/module"
	"github.com/nfrund/coursewizard/internal/modules/modulelist"
	"github.com/nfrund/coursewizard/internal/modules/submodules"
	"github.com/nfrund/coursewizard/internal/modules/wizard"
	"github.com/nfrund/coursewizard/internal/session"
	"github.com/nfrund/coursewizard/internal/testutils"
)

type browser struct {
	t      *testing.T
	base   string
	client *http.Client
}

func (b *browser) get(path string) (int, string) {
	b.t.Helper()
	resp, err := b.client.Get(b.base + path)
	require.NoError(b.t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(b.t, err)
	return resp.StatusCode, string(body)
}

func (b *browser) post(path string, form url.Values) (int, string) {
	b.t.Helper()
	resp, err := b.client.PostForm(b.base+path, form)
	require.NoError(b.t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(b.t, err)
	return resp.StatusCode, string(body)
}

func startServer(t *testing.T, backend session.Backend, fake *testutils.FakeCourseService) *browser {
	t.Helper()
	cfg := &config.Config{SessionSecret: testutils.TestSessionSecret, SessionTTL: time.Hour}
	s := New(Options{
		Config:   cfg,
		Sessions: backend,
		Modules: []module.Module{
			modulelist.NewModule(modulelist.Dependencies{Client: fake}),
			wizard.NewModule(wizard.ModuleDependencies{Controller: wizard.Dependencies{Client: fake}, ActivitiesURL: "/activities"}),
			submodules.NewModule(submodules.Dependencies{Client: fake}),
		},
	})
	require.NoError(t, s.Boot(context.Background()))

	srv := httptest.NewServer(s.E)
	t.Cleanup(srv.Close)
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &browser{t: t, base: srv.URL, client: &http.Client{Jar: jar}}
}

func TestServer_WizardFlow(t *testing.T) {
	backends := map[string]session.Backend{
		"cookie": nil,
		"memory": session.NewCacheBackend(time.Hour),
	}
	for name, backend := range backends {
		t.Run(name, func(t *testing.T) {
			fake := testutils.NewFakeCourseService(
				domain.Module{ID: "m1", Title: "Intro", Description: "Basics", Hours: domain.Hours(2)},
				domain.Module{ID: "m2", Title: "Advanced", Description: "More", Hours: domain.ParseDuration("2-3 hours")},
			)
			b := startServer(t, backend, fake)

			status, body := b.get("/modules")
			require.Equal(t, http.StatusOK, status)
			assert.Contains(t, body, "Start the course wizard", "no course yet")

			status, body = b.get("/course/start?course_id=c1&version_id=mv1")
			require.Equal(t, http.StatusOK, status)
			assert.Contains(t, body, "Intro")
			assert.Contains(t, body, "2-3 hours")

			_, body = b.get("/submodules")
			assert.Equal(t, 2, strings.Count(body, `data-state="ungenerated"`))
			assert.Contains(t, body, `<span id="continue"`)

			_, body = b.post("/submodules/m1/open", url.Values{})
			assert.Contains(t, body, "Intro part 1")
			_, body = b.post("/submodules/m2/open", url.Values{})
			assert.Contains(t, body, "Advanced part 2")

			_, body = b.get("/submodules")
			assert.Equal(t, 2, strings.Count(body, `data-state="ready"`))
			assert.Contains(t, body, `<a id="continue" href="/activities"`)

			_, body = b.post("/course/reset", url.Values{})
			assert.Contains(t, body, "You left the course.")
			_, body = b.get("/submodules")
			assert.Contains(t, body, "Start the course wizard")
		})
	}
}

func TestServer_Health(t *testing.T) {
	b := startServer(t, nil, testutils.NewFakeCourseService())
	status, body := b.get("/health")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "OK", body)
}

func TestServer_StaticAssets(t *testing.T) {
	b := startServer(t, nil, testutils.NewFakeCourseService())
	status, body := b.get("/static/app.css")
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "#continue")
}
