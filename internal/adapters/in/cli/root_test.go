package cli

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/senzup/internal/app"
	"github.com/bnema/senzup/internal/domain"
)

type recorder struct {
	calls  int
	inv    app.Invocation
	report *domain.RunReport
	err    error
}

func (r *recorder) run(_ context.Context, inv app.Invocation) (*domain.RunReport, error) {
	r.calls++
	r.inv = inv
	if r.report == nil {
		r.report = &domain.RunReport{}
	}
	return r.report, r.err
}

func execute(t *testing.T, rec *recorder, args ...string) (string, string, error) {
	t.Helper()
	cmd := NewRootCmd(BuildInfo{Version: "1.2.3", Commit: "abc", Date: "today"}, rec.run)
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func TestRoot_ParsesRequest(t *testing.T) {
	rec := &recorder{}

	_, _, err := execute(t, rec,
		"-p", "demo", "-a", "PACKAGE", "-c", "webappdemo", "-c", "rest", "-c", "WEBAPPDEMO", "-o", "/tmp/out")
	require.NoError(t, err)
	require.Equal(t, 1, rec.calls)

	req := rec.inv.Request
	assert.Equal(t, domain.ActionPackage, req.Action)
	assert.Equal(t, "demo", req.ProjectDir)
	assert.Equal(t, []domain.CollectionID{domain.CollectionWebAppDemo, domain.CollectionREST}, req.Collections)
	assert.Equal(t, "/tmp/out", req.OutputDir)
	assert.Equal(t, "1.2.3", rec.inv.Version)
	assert.Empty(t, rec.inv.Overrides)
}

func TestRoot_DefaultActionIsCreate(t *testing.T) {
	rec := &recorder{}

	_, _, err := execute(t, rec, "--project-dir", "demo")
	require.NoError(t, err)
	assert.Equal(t, domain.ActionCreate, rec.inv.Request.Action)
	assert.Empty(t, rec.inv.Request.Collections)
}

func TestRoot_RejectsBadInput(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"missing project", []string{"-a", "create"}},
		{"unknown action", []string{"-p", "demo", "-a", "destroy"}},
		{"unknown collection", []string{"-p", "demo", "-c", "ORACLE"}},
		{"positional args", []string{"-p", "demo", "extra"}},
		{"unknown flag", []string{"-p", "demo", "--nope"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &recorder{}
			_, _, err := execute(t, rec, tt.args...)
			require.Error(t, err)
			assert.Zero(t, rec.calls)
		})
	}
}

func TestRoot_InvalidCollectionIsInvalidArgument(t *testing.T) {
	_, _, err := execute(t, &recorder{}, "-p", "demo", "-c", "ORACLE")
	assert.True(t, errors.Is(err, domain.ErrInvalidArgument))
}

func TestRoot_DeployRequiresInputProject(t *testing.T) {
	rec := &recorder{}

	_, _, err := execute(t, rec, "-p", "target", "-a", "deploy")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrMissingSource))
	assert.Zero(t, rec.calls)
}

func TestRoot_FlagOverrides(t *testing.T) {
	rec := &recorder{}

	_, _, err := execute(t, rec, "-p", "demo", "--accept-eula", "-y", "--log-level", "debug", "--docker-host", "unix:///tmp/d.sock")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"accept_eula": true,
		"assume_yes":  true,
		"log_level":   "debug",
		"docker_host": "unix:///tmp/d.sock",
	}, rec.inv.Overrides)
}

func TestRoot_Version(t *testing.T) {
	rec := &recorder{}

	stdout, _, err := execute(t, rec, "--version")
	require.NoError(t, err)
	assert.Contains(t, stdout, "senzup 1.2.3")
	assert.Zero(t, rec.calls)
}

func TestRoot_RendersSummary(t *testing.T) {
	rec := &recorder{report: &domain.RunReport{
		Project:     domain.Project{Path: "/srv/demo"},
		Plan:        domain.Plan{Collections: []domain.CollectionID{domain.CollectionWebAppDemo}},
		Images:      []domain.ImageReference{"senzing/web-app-demo:2.8.0"},
		Archive:     &domain.PackageArchive{Path: "/srv/senzup-demo.tgz", BundlePath: "/srv/demo/var/docker_save/b.tar"},
		HostAddress: domain.UnknownAddress,
		HistoryLog:  "/srv/demo/.senzing/history.log",
	}}

	stdout, _, err := execute(t, rec, "-p", "/srv/demo", "-a", "package")
	require.NoError(t, err)
	assert.Contains(t, stdout, "package finished")
	assert.Contains(t, stdout, "senzing/web-app-demo:2.8.0")
	assert.Contains(t, stdout, "/srv/senzup-demo.tgz")
	assert.Contains(t, stdout, domain.EnvHostIPAddr)
	assert.Contains(t, stdout, "/srv/demo/.senzing/history.log")
}

func TestRoot_RendersSubprocessFailure(t *testing.T) {
	rec := &recorder{
		report: &domain.RunReport{HistoryLog: "/tmp/senzup-run-1.log"},
		err: domain.AtStage(domain.StageInstall,
			&domain.SubprocessError{Tool: "senzing/installer", ExitCode: 2}),
	}

	_, stderr, err := execute(t, rec, "-p", "demo")
	require.ErrorIs(t, err, errReported)
	assert.Contains(t, stderr, "failed during install")
	assert.Contains(t, stderr, "Exit code:")
	assert.Contains(t, stderr, "2")
	assert.Contains(t, stderr, SupportHint)
	assert.Contains(t, stderr, "/tmp/senzup-run-1.log")
}

func TestRoot_RendersEULAHint(t *testing.T) {
	rec := &recorder{err: domain.AtStage(domain.StageEULA, domain.ErrEULADeclined)}

	_, stderr, err := execute(t, rec, "-p", "demo")
	require.Error(t, err)
	assert.Contains(t, stderr, "failed during eula")
	assert.Contains(t, stderr, "I_ACCEPT_THE_SENZING_EULA")
	assert.NotContains(t, stderr, SupportHint)
}
