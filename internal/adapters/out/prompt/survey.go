// Package prompt implements the operator prompts with survey.
package prompt

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/AlecAivazis/survey/v2"
)

// EULAAnswer is what the operator types to accept the license.
const EULAAnswer = "YES"

// Survey asks questions on the terminal.
type Survey struct {
	assumeYes   bool
	interactive bool
	out         io.Writer

	// askOne is survey.AskOne, swapped in tests.
	askOne func(p survey.Prompt, response interface{}, opts ...survey.AskOpt) error
}

// NewSurvey creates a prompter. With assumeYes every confirmation answers yes
// without asking. When interactive is false confirmations take their default
// and the EULA is declined.
func NewSurvey(assumeYes, interactive bool) *Survey {
	return &Survey{
		assumeYes:   assumeYes,
		interactive: interactive,
		out:         os.Stdout,
		askOne:      survey.AskOne,
	}
}

// Confirm asks a yes/no question.
func (s *Survey) Confirm(message string, defaultYes bool) (bool, error) {
	if s.assumeYes {
		return true, nil
	}
	if !s.interactive {
		return defaultYes, nil
	}

	answer := defaultYes
	prompt := &survey.Confirm{
		Message: message,
		Default: defaultYes,
	}
	if err := s.askOne(prompt, &answer); err != nil {
		return false, fmt.Errorf("prompt failed: %w", err)
	}
	return answer, nil
}

// AcceptEULA shows the license and asks the operator to type YES.
func (s *Survey) AcceptEULA(text string) (bool, error) {
	if !s.interactive {
		return false, nil
	}

	if text != "" {
		fmt.Fprintln(s.out, strings.TrimRight(text, "\n"))
		fmt.Fprintln(s.out)
	}

	var answer string
	prompt := &survey.Input{
		Message: fmt.Sprintf("Type %s to accept the license:", EULAAnswer),
	}
	if err := s.askOne(prompt, &answer); err != nil {
		return false, fmt.Errorf("prompt failed: %w", err)
	}
	return strings.EqualFold(strings.TrimSpace(answer), EULAAnswer), nil
}

// IsInteractive reports whether stdin is a terminal.
func IsInteractive() bool {
	info, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}
