package mocks

import "github.com/stretchr/testify/mock"

// Prompter is a mock of out.Prompter.
type Prompter struct {
	mock.Mock
}

func (m *Prompter) Confirm(message string, defaultYes bool) (bool, error) {
	args := m.Called(message, defaultYes)
	return args.Bool(0), args.Error(1)
}

func (m *Prompter) AcceptEULA(text string) (bool, error) {
	args := m.Called(text)
	return args.Bool(0), args.Error(1)
}
