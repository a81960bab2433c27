// Package cli implements the senzup command line.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/bnema/senzup/internal/adapters/out/prompt"
	"github.com/bnema/senzup/internal/app"
	"github.com/bnema/senzup/internal/domain"
)

// BuildInfo is stamped at build time.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// RunFunc executes one invocation.
type RunFunc func(ctx context.Context, inv app.Invocation) (*domain.RunReport, error)

// errReported marks a failure already rendered for the operator.
var errReported = errors.New("run failed")

type rootOptions struct {
	projectDir   string
	action       string
	collections  []string
	outputDir    string
	inputProject string
	configPath   string
	acceptEULA   bool
	assumeYes    bool
	logLevel     string
	dockerHost   string
}

// NewRootCmd creates the senzup command. run is called once flags are valid.
func NewRootCmd(info BuildInfo, run RunFunc) *cobra.Command {
	var opts rootOptions

	cmd := &cobra.Command{
		Use:   "senzup",
		Short: "Create, package and deploy Senzing demo projects",
		Long: `senzup provisions a local Senzing project, fetches the container images
of the requested collections, packages the project and its images into a
relocatable archive and deploys such an archive on another host.`,
		Example: `  senzup -p ~/senzing-demo
  senzup -p ~/senzing-demo -a package -c WEBAPPDEMO -c REST -o /tmp
  senzup -p /opt/senzing -a deploy -i senzup-senzing-demo-20261014T093005Z.tgz`,
		Version:      info.Version,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			req, err := opts.request()
			if err != nil {
				return err
			}
			// past this point failures are rendered by renderFailure
			cmd.SilenceErrors = true

			w := cmd.OutOrStdout()
			renderBanner(w, info.Version, req)

			report, err := run(cmd.Context(), app.Invocation{
				ConfigPath:  opts.configPath,
				Overrides:   opts.overrides(cmd),
				Request:     req,
				Version:     info.Version,
				Stderr:      cmd.ErrOrStderr(),
				Interactive: prompt.IsInteractive(),
			})
			if err != nil {
				renderFailure(cmd.ErrOrStderr(), err, report)
				return errReported
			}
			renderSummary(w, req.Action, report)
			return nil
		},
	}

	cmd.SetVersionTemplate(fmt.Sprintf("senzup %s (commit %s, built %s)\n", info.Version, info.Commit, info.Date))

	f := cmd.Flags()
	f.StringVarP(&opts.projectDir, "project-dir", "p", "", "project directory (required)")
	f.StringVarP(&opts.action, "action", "a", string(domain.ActionCreate), "action: create, package or deploy")
	f.StringArrayVarP(&opts.collections, "collection", "c", nil,
		"collection to install or package, repeatable ("+collectionNames()+")")
	f.StringVarP(&opts.outputDir, "output-dir", "o", "", "directory receiving the package archive")
	f.StringVarP(&opts.inputProject, "input-project", "i", "", "package archive to deploy (required for deploy)")
	f.StringVar(&opts.configPath, "config", "", "config file (default: senzup.yaml in ., the user config dir or ~/.senzup)")
	f.BoolVar(&opts.acceptEULA, "accept-eula", false, "accept the Senzing EULA without prompting")
	f.BoolVarP(&opts.assumeYes, "yes", "y", false, "answer yes to every confirmation")
	f.StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn or error")
	f.StringVar(&opts.dockerHost, "docker-host", "", "docker daemon address (default: DOCKER_HOST)")
	_ = cmd.MarkFlagRequired("project-dir")

	return cmd
}

func (o rootOptions) request() (domain.RunRequest, error) {
	action, err := domain.ParseAction(o.action)
	if err != nil {
		return domain.RunRequest{}, err
	}
	collections, err := domain.ParseCollectionIDs(o.collections)
	if err != nil {
		return domain.RunRequest{}, err
	}
	if strings.TrimSpace(o.projectDir) == "" {
		return domain.RunRequest{}, fmt.Errorf("%w: --project-dir must not be empty", domain.ErrInvalidArgument)
	}
	if action == domain.ActionDeploy && strings.TrimSpace(o.inputProject) == "" {
		return domain.RunRequest{}, fmt.Errorf("%w: --input-project is required for deploy", domain.ErrMissingSource)
	}
	return domain.RunRequest{
		Action:       action,
		ProjectDir:   o.projectDir,
		Collections:  collections,
		OutputDir:    o.outputDir,
		InputProject: o.inputProject,
	}, nil
}

// overrides returns the config keys set explicitly on the command line.
func (o rootOptions) overrides(cmd *cobra.Command) map[string]any {
	set := map[string]any{}
	f := cmd.Flags()
	if f.Changed("accept-eula") {
		set["accept_eula"] = o.acceptEULA
	}
	if f.Changed("yes") {
		set["assume_yes"] = o.assumeYes
	}
	if f.Changed("log-level") {
		set["log_level"] = o.logLevel
	}
	if f.Changed("docker-host") {
		set["docker_host"] = o.dockerHost
	}
	return set
}

func collectionNames() string {
	names := make([]string, len(domain.KnownCollections))
	for i, id := range domain.KnownCollections {
		names[i] = string(id)
	}
	return strings.Join(names, ", ")
}

// Execute runs the command line and returns the process exit code.
func Execute(info BuildInfo) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := NewRootCmd(info, app.Run)
	if err := cmd.ExecuteContext(ctx); err != nil {
		if !errors.Is(err, errReported) {
			color.New(color.FgRed).Fprintln(os.Stderr, "Run 'senzup --help' for usage.")
		}
		return 1
	}
	return 0
}
