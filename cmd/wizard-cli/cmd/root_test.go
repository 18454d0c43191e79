package cmd

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"testing"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nfrund/coursewizard/internal/domain"
	"github.com/nfrund/coursewizard/internal/modules/wizard"
	"github.com/nfrund/coursewizard/internal/session"
	"github.com/nfrund/coursewizard/internal/testutils"
)

const testStateFile = "/state/wizard.json"

type cliFixture struct {
	fake *testutils.FakeCourseService
	fs   afero.Fs
}

// setupCLI points every command at a fake course service and an in-memory
// state file that outlives individual commands.
func setupCLI(t *testing.T, modules ...domain.Module) *cliFixture {
	t.Helper()
	f := &cliFixture{fake: testutils.NewFakeCourseService(modules...), fs: afero.NewMemMapFs()}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ctl := wizard.New(wizard.Dependencies{Client: f.fake, Logger: logger})

	original := loadEnvironment
	loadEnvironment = func(cmd *cobra.Command) (*environment, error) {
		return &environment{
			log:    logger,
			client: f.fake,
			sc:     session.NewContext("cli:"+testStateFile, session.NewFileStore(f.fs, testStateFile)),
			wizard: ctl,
		}, nil
	}
	t.Cleanup(func() { loadEnvironment = original })
	return f
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	outputFormat = "table"
	moduleTitle, moduleDescription, moduleHours = "", "", ""
	confirmDelete = false
	verifyVersions = false

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func modules() []domain.Module {
	return []domain.Module{
		{ID: "m1", Title: "Intro", Description: "Basics", Hours: domain.Hours(2)},
		{ID: "m2", Title: "Deep Dive", Description: "Details", Hours: domain.Hours(3)},
	}
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "wizard-cli v"+version+"\n", out)
}

func TestSession(t *testing.T) {
	setupCLI(t, modules()...)

	_, err := execute(t, "session", "show")
	assert.ErrorIs(t, err, domain.ErrNoCourseContext)

	out, err := execute(t, "session", "start", "c1", "mv1")
	require.NoError(t, err)
	assert.Contains(t, out, "Started course c1")

	out, err = execute(t, "session", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "c1")
	assert.Contains(t, out, "mv1")

	_, err = execute(t, "session", "reset")
	require.NoError(t, err)
	_, err = execute(t, "session", "show")
	assert.ErrorIs(t, err, domain.ErrNoCourseContext)
}

func TestModules(t *testing.T) {
	f := setupCLI(t, modules()...)
	_, err := execute(t, "session", "start", "c1", "mv1")
	require.NoError(t, err)

	out, err := execute(t, "modules", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Intro")
	assert.Contains(t, out, "3 hours")

	_, err = execute(t, "modules", "add", "--description", "no title")
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)

	out, err = execute(t, "modules", "add", "--title", "Wrap Up", "--description", "Summary")
	require.NoError(t, err)
	assert.Contains(t, out, `Added module "Wrap Up"`)
	require.Len(t, f.fake.Modules(), 3)
	assert.Equal(t, "1 hour", f.fake.Modules()[2].Hours.String())

	_, err = execute(t, "modules", "delete", "0")
	assert.ErrorIs(t, err, domain.ErrNotConfirmed)
	assert.Len(t, f.fake.Modules(), 3)

	out, err = execute(t, "modules", "delete", "0", "--yes")
	require.NoError(t, err)
	assert.Contains(t, out, `Deleted module "Intro"`)
	assert.Equal(t, "m2", f.fake.Modules()[0].ID)
}

func TestGenerateAndReadiness(t *testing.T) {
	setupCLI(t, modules()...)
	_, err := execute(t, "session", "start", "c1", "mv1")
	require.NoError(t, err)

	out, err := execute(t, "readiness")
	require.NoError(t, err)
	assert.Contains(t, out, "Ungenerated")
	assert.Contains(t, out, "Can continue: no")

	out, err = execute(t, "generate", "m1")
	require.NoError(t, err)
	assert.Contains(t, out, `Generated submodules for "Intro"`)

	out, err = execute(t, "submodules", "m1")
	require.NoError(t, err)
	assert.Contains(t, out, "Intro (version")

	_, err = execute(t, "generate", "m2")
	require.NoError(t, err)

	out, err = execute(t, "readiness", "--format", "json")
	require.NoError(t, err)
	var report struct {
		Modules []struct {
			ModuleID string `json:"module_id"`
			State    string `json:"state"`
		} `json:"modules"`
		CanContinue bool `json:"can_continue"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.True(t, report.CanContinue)
	require.Len(t, report.Modules, 2)
	assert.Equal(t, "ready", report.Modules[0].State)
}

func TestSessionShowVerify(t *testing.T) {
	f := setupCLI(t, modules()...)
	_, err := execute(t, "session", "start", "c1", "mv1")
	require.NoError(t, err)
	_, err = execute(t, "generate", "m1")
	require.NoError(t, err)
	f.fake.OnGenerate(func(domain.Module) []domain.Submodule { return nil })
	_, err = execute(t, "generate", "m2")
	require.NoError(t, err)

	out, err := execute(t, "session", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "Ready (Unverified)")
	assert.Zero(t, f.fake.Calls(testutils.OpListSubmodules))

	out, err = execute(t, "session", "show", "--verify", "--format", "json")
	require.NoError(t, err)
	var shown struct {
		Versions map[string]struct {
			VersionID string `json:"version_id"`
			State     string `json:"state"`
		} `json:"submodule_versions"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &shown))
	assert.Equal(t, "ready", shown.Versions["m1"].State)
	assert.NotEmpty(t, shown.Versions["m1"].VersionID)
	assert.Equal(t, "ungenerated", shown.Versions["m2"].State)
	assert.Empty(t, shown.Versions["m2"].VersionID)

	out, err = execute(t, "session", "show")
	require.NoError(t, err)
	assert.NotContains(t, out, "m2")
}

func TestInvalidFormat(t *testing.T) {
	setupCLI(t, modules()...)
	_, err := execute(t, "session", "start", "c1", "mv1")
	require.NoError(t, err)

	_, err = execute(t, "modules", "list", "--format", "yaml")
	assert.ErrorContains(t, err, "invalid format")
}
