package domain

// Step is one lifecycle transition executed by a run.
type Step string

const (
	StepCreate  Step = "create"
	StepPackage Step = "package"
	StepDeploy  Step = "deploy"
)

// Plan is the ordered list of steps computed for a run before anything
// executes, with the collections the image steps work on.
type Plan struct {
	Steps       []Step
	Collections []CollectionID
}

// Composed reports whether the plan chains more than one step.
func (p Plan) Composed() bool { return len(p.Steps) > 1 }

// RunFlags record lifecycle decisions taken during a run.
type RunFlags struct {
	FirstTimeInstall bool
	PerformUpdates   bool
	EULAAccepted     bool
}

// EULARequired reports whether the EULA must be accepted before the run can
// fetch or install anything.
func (f RunFlags) EULARequired(action Action) bool {
	return (f.FirstTimeInstall || f.PerformUpdates) && action != ActionPackage
}

// RunRequest holds the operator's choices for one run.
type RunRequest struct {
	Action     Action
	ProjectDir string
	// Collections are the explicitly requested collections; empty means none.
	Collections  []CollectionID
	OutputDir    string
	InputProject string
}

// RunReport summarises a finished run.
type RunReport struct {
	Plan    Plan
	Flags   RunFlags
	Project Project
	Images  []ImageReference
	Archive *PackageArchive
	// HostAddress is the provisional address written on deploy.
	HostAddress     string
	AddressDetected bool
	DemoContainer   string
	HistoryLog      string
}
