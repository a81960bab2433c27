package out

// Prompter asks the operator for consent.
type Prompter interface {
	// Confirm asks a yes/no question.
	Confirm(message string, defaultYes bool) (bool, error)
	// AcceptEULA shows the license text and asks for acceptance.
	AcceptEULA(text string) (bool, error)
}
