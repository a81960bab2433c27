package domain

import "path/filepath"

// Project directory layout.
const (
	DirData       = "data"
	DirDockerBin  = "docker-bin"
	DirDockerEtc  = "docker-etc"
	DirG2         = "g2"
	DirVar        = "var"
	DirMetadata   = ".senzing"
	DirDockerSave = "var/docker_save"

	FileHistoryLog     = "project-history.log"
	FileProjectName    = "project-name"
	FileProjectVersion = "project-version"
	FileEnvironment    = "docker-environment-vars.sh"
	FileImageList      = "images.txt"

	// FileInstallMarker is written by the binary installation container.
	FileInstallMarker = "g2BuildVersion.json"
)

// RequiredDirs must be present before a project can be packaged.
var RequiredDirs = []string{DirData, DirDockerBin, DirG2, DirVar, DirMetadata}

// SkeletonDirs are created for a new project.
var SkeletonDirs = []string{DirData, DirDockerBin, DirDockerEtc, DirG2, DirVar, DirDockerSave, DirMetadata}

// UpgradeDirs are backed up before an update installs new binaries.
var UpgradeDirs = []string{DirG2, DirData}

// ProjectState is the existence state of a project directory.
type ProjectState int

const (
	ProjectAbsent ProjectState = iota
	ProjectIncomplete
	ProjectValid
)

func (s ProjectState) String() string {
	switch s {
	case ProjectAbsent:
		return "absent"
	case ProjectIncomplete:
		return "existing-incomplete"
	case ProjectValid:
		return "existing-valid"
	}
	return "unknown"
}

// Exists reports whether the project directory is on disk.
func (s ProjectState) Exists() bool { return s != ProjectAbsent }

// Project is a project directory identified by its canonical absolute path.
type Project struct {
	Path  string
	State ProjectState
}

// Name is derived from the directory base name; renaming the directory
// renames the project.
func (p Project) Name() string { return filepath.Base(p.Path) }

// Dir joins elem onto the project root.
func (p Project) Dir(elem ...string) string {
	return filepath.Join(append([]string{p.Path}, elem...)...)
}

// MetadataFile returns the path of a file inside the hidden metadata directory.
func (p Project) MetadataFile(name string) string { return p.Dir(DirMetadata, name) }

// HistoryLogPath is the project's permanent, append-only history log.
func (p Project) HistoryLogPath() string { return p.MetadataFile(FileHistoryLog) }

// EnvironmentPath is the persisted environment-variables file.
func (p Project) EnvironmentPath() string { return p.Dir(DirDockerBin, FileEnvironment) }
