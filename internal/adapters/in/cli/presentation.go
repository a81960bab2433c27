package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/bnema/senzup/internal/adapters/in/cli/ui/styles"
	"github.com/bnema/senzup/internal/config"
	"github.com/bnema/senzup/internal/domain"
)

// SupportHint is printed with subprocess failures.
const SupportHint = "If the problem persists, contact support@senzing.com and attach the history log."

var cliWriteLine = func(w io.Writer, msg string) {
	_, _ = fmt.Fprintln(w, msg)
}

var warn = color.New(color.FgYellow)

func renderBanner(w io.Writer, version string, req domain.RunRequest) {
	title := styles.Theme.Title.Render("senzup " + version)
	body := styles.RenderMeta("action", req.Action.String()) + "\n" +
		styles.RenderMeta("project", req.ProjectDir)
	cliWriteLine(w, styles.Theme.Banner.Render(title+"\n"+body))
}

func renderSummary(w io.Writer, action domain.Action, report *domain.RunReport) {
	if report == nil {
		return
	}

	cliWriteLine(w, styles.RenderSuccess(fmt.Sprintf("%s finished", action)))
	if report.Project.Path != "" {
		cliWriteLine(w, styles.RenderMeta("Project:", report.Project.Path))
	}
	if len(report.Plan.Collections) > 0 {
		ids := make([]string, len(report.Plan.Collections))
		for i, id := range report.Plan.Collections {
			ids[i] = string(id)
		}
		cliWriteLine(w, styles.RenderMeta("Collections:", strings.Join(ids, ", ")))
	}
	if len(report.Images) > 0 {
		cliWriteLine(w, styles.Theme.Bold.Render("Images:"))
		for _, ref := range report.Images {
			cliWriteLine(w, styles.RenderListItem(ref.String()))
		}
	}
	if report.Archive != nil {
		cliWriteLine(w, styles.RenderMeta("Archive:", report.Archive.Path))
		cliWriteLine(w, styles.RenderMeta("Image bundle:", report.Archive.BundlePath))
	}
	if report.HostAddress != "" {
		cliWriteLine(w, styles.RenderMeta("Host address:", report.HostAddress))
		if !report.AddressDetected {
			warn.Fprintf(w, "The host IP address could not be detected. Edit %s and set %s.\n",
				report.Project.EnvironmentPath(), domain.EnvHostIPAddr)
		}
	}
	if report.DemoContainer != "" {
		cliWriteLine(w, styles.RenderMeta("Demo container:", shortID(report.DemoContainer)))
	}
	if report.HistoryLog != "" {
		cliWriteLine(w, styles.RenderMeta("History log:", report.HistoryLog))
	}
}

func renderFailure(w io.Writer, err error, report *domain.RunReport) {
	stage := domain.StagePreflight
	var se *domain.StageError
	if errors.As(err, &se) {
		stage = se.Stage
	}

	lines := []string{styles.RenderError(fmt.Sprintf("senzup failed during %s", stage))}
	lines = append(lines, styles.Theme.Error.Render(err.Error()))

	var sub *domain.SubprocessError
	if errors.As(err, &sub) {
		lines = append(lines, styles.RenderMeta("Tool:", sub.Tool))
		lines = append(lines, styles.RenderMeta("Exit code:", fmt.Sprint(sub.ExitCode)))
		lines = append(lines, styles.Theme.Muted.Render(SupportHint))
	}
	if errors.Is(err, domain.ErrEULADeclined) {
		lines = append(lines, styles.Theme.Muted.Render(
			fmt.Sprintf("Set SENZING_ACCEPT_EULA=%s or pass --accept-eula to accept it non-interactively.", config.EULAAcceptValue)))
	}
	if report != nil && report.HistoryLog != "" {
		lines = append(lines, styles.RenderMeta("History log:", report.HistoryLog))
	}

	cliWriteLine(w, styles.Theme.BoxError.Render(strings.Join(lines, "\n")))
}

func shortID(id string) string {
	if len(id) > 12 {
		return id[:12]
	}
	return id
}
