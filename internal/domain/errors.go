package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent the failure classes a run can end with.
// Every fatal error returned by a use case wraps exactly one of them.
var (
	// Pre-flight errors
	ErrPrerequisiteMissing = errors.New("prerequisite missing")
	ErrInvalidArgument     = errors.New("invalid argument")

	// Image resolution errors
	ErrManifestUnavailable = errors.New("manifest unavailable")
	ErrUnknownSymbol       = errors.New("unknown version symbol")
	ErrUnknownCollection   = errors.New("unknown collection")

	// Project errors
	ErrInvalidProject     = errors.New("invalid project")
	ErrMissingSource      = errors.New("missing input project archive")
	ErrDestinationExists  = errors.New("destination already exists")
	ErrEULADeclined       = errors.New("EULA not accepted")
	ErrInstallIncomplete  = errors.New("installation not confirmed")
	ErrSubprocessFailure  = errors.New("subprocess failed")
	ErrImageBundleMissing = errors.New("image bundle missing")
)

// BenignExitCode is the pipe-closure status (128+SIGPIPE) that external tools
// report when their output reader goes away early. It is not a failure.
const BenignExitCode = 141

// SubprocessError reports a non-zero exit from an external tool or container.
type SubprocessError struct {
	Tool     string
	ExitCode int
	Output   string
}

func (e *SubprocessError) Error() string {
	return fmt.Sprintf("%s exited with code %d", e.Tool, e.ExitCode)
}

// Unwrap lets errors.Is match ErrSubprocessFailure.
func (e *SubprocessError) Unwrap() error { return ErrSubprocessFailure }

// CheckExitCode returns a SubprocessError for a failing exit code.
// Zero and BenignExitCode are successes.
func CheckExitCode(tool string, code int, output string) error {
	if code == 0 || code == BenignExitCode {
		return nil
	}
	return &SubprocessError{Tool: tool, ExitCode: code, Output: output}
}

// Stage names the lifecycle step an error came from.
type Stage string

const (
	StagePreflight Stage = "preflight"
	StageResolve   Stage = "resolve images"
	StageEULA      Stage = "eula"
	StageCreate    Stage = "create project"
	StageFetch     Stage = "fetch images"
	StageInstall   Stage = "install"
	StagePackage   Stage = "package"
	StageDeploy    Stage = "deploy"
	StageDemo      Stage = "start demo"
)

// StageError wraps an error with the stage that produced it.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

// AtStage wraps err with stage, or returns nil when err is nil.
// An error already carrying a stage is returned unchanged.
func AtStage(stage Stage, err error) error {
	if err == nil {
		return nil
	}
	var se *StageError
	if errors.As(err, &se) {
		return err
	}
	return &StageError{Stage: stage, Err: err}
}

// StageOf returns the stage recorded on err, if any.
func StageOf(err error) (Stage, bool) {
	var se *StageError
	if errors.As(err, &se) {
		return se.Stage, true
	}
	return "", false
}
