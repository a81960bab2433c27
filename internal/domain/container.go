package domain

// Mount binds a host path into a container.
type Mount struct {
	Source   string
	Target   string
	ReadOnly bool
}

// RunSpec describes a container the orchestrator starts.
type RunSpec struct {
	Name    string
	Image   ImageReference
	Cmd     []string
	Env     []string
	Mounts  []Mount
	Network string
	// Ports are "host:container" tcp bindings.
	Ports []string
	User  string
	// Detach returns right after start instead of waiting for exit.
	Detach bool
	Remove bool
}

// RunResult reports a finished container.
type RunResult struct {
	ContainerID string
	ExitCode    int
	Output      string
}
