package prompt

import (
	"bytes"
	"errors"
	"testing"

	"github.com/AlecAivazis/survey/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scripted(answer interface{}, err error) func(survey.Prompt, interface{}, ...survey.AskOpt) error {
	return func(_ survey.Prompt, response interface{}, _ ...survey.AskOpt) error {
		if err != nil {
			return err
		}
		switch r := response.(type) {
		case *bool:
			*r = answer.(bool)
		case *string:
			*r = answer.(string)
		}
		return nil
	}
}

func TestConfirm_AssumeYes(t *testing.T) {
	s := NewSurvey(true, true)
	s.askOne = func(survey.Prompt, interface{}, ...survey.AskOpt) error {
		t.Fatal("should not prompt")
		return nil
	}

	ok, err := s.Confirm("continue?", false)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestConfirm_NonInteractiveUsesDefault(t *testing.T) {
	s := NewSurvey(false, false)

	ok, err := s.Confirm("continue?", true)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.Confirm("continue?", false)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestConfirm_Asks(t *testing.T) {
	s := NewSurvey(false, true)
	var asked *survey.Confirm
	s.askOne = func(p survey.Prompt, response interface{}, _ ...survey.AskOpt) error {
		asked = p.(*survey.Confirm)
		*response.(*bool) = true
		return nil
	}

	ok, err := s.Confirm("Start the demo now?", false)
	require.NoError(t, err)
	assert.True(t, ok)
	require.NotNil(t, asked)
	assert.Equal(t, "Start the demo now?", asked.Message)
	assert.False(t, asked.Default)
}

func TestConfirm_PromptError(t *testing.T) {
	s := NewSurvey(false, true)
	s.askOne = scripted(nil, errors.New("interrupt"))

	_, err := s.Confirm("continue?", true)
	assert.Error(t, err)
}

func TestAcceptEULA(t *testing.T) {
	tests := []struct {
		name   string
		answer string
		want   bool
	}{
		{"upper", "YES", true},
		{"lower with spaces", "  yes ", true},
		{"no", "no", false},
		{"y is not enough", "y", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			s := NewSurvey(false, true)
			s.out = &buf
			s.askOne = scripted(tt.answer, nil)

			ok, err := s.AcceptEULA("LICENSE TEXT\n")
			require.NoError(t, err)
			assert.Equal(t, tt.want, ok)
			assert.Contains(t, buf.String(), "LICENSE TEXT")
		})
	}
}

func TestAcceptEULA_NonInteractiveDeclines(t *testing.T) {
	s := NewSurvey(true, false)

	ok, err := s.AcceptEULA("text")
	require.NoError(t, err)
	assert.False(t, ok)
}
