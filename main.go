package main

import (
	"os"

	"github.com/bnema/senzup/internal/adapters/in/cli"
	"github.com/bnema/senzup/pkg/version"
)

var (
	buildVersion string
	commit       string
	date         string
)

func main() {
	version.Set(buildVersion, commit, date)
	os.Exit(cli.Execute(cli.BuildInfo{
		Version: version.Version(),
		Commit:  version.Commit(),
		Date:    version.BuildDate(),
	}))
}
