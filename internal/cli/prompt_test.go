package cli

import (
	"testing"

	"ri_query/internal/domain/query"

	"github.com/AlecAivazis/survey/v2"
	"github.com/stretchr/testify/assert"
)

func TestValidateDateAnswer(t *testing.T) {
	tests := []struct {
		name    string
		answer  interface{}
		wantErr bool
	}{
		{"upper month", "31-DEC-2024", false},
		{"single digit day", "1-Jan-2025", false},
		{"surrounding spaces", " 31-dec-2024 ", false},
		{"iso date", "2024-12-31", true},
		{"not a calendar day", "31-FEB-2024", true},
		{"blank", "  ", true},
		{"not a string", 42, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateDateAnswer(tt.answer)
			if tt.wantErr {
				assert.EqualError(t, err, "invalid date format, please enter in 'DD-MON-YYYY' format")
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateCountAnswer(t *testing.T) {
	tests := []struct {
		name    string
		answer  string
		wantErr bool
	}{
		{"one", "1", false},
		{"padded", " 3 ", false},
		{"zero", "0", true},
		{"negative", "-2", true},
		{"word", "x", true},
		{"blank", "  ", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateCountAnswer(tt.answer)
			if tt.wantErr {
				assert.EqualError(t, err, "please enter a whole number greater than zero")
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateCodeAnswer(t *testing.T) {
	assert.NoError(t, validateCodeAnswer("RI01"))
	assert.ErrorIs(t, validateCodeAnswer(""), query.ErrEmptyGroupCode)
	assert.ErrorIs(t, validateCodeAnswer("  "), query.ErrEmptyGroupCode)
}

func TestSurveyPrompterOptions(t *testing.T) {
	p := newSurveyPrompter(survey.WithShowCursor(true))

	first := p.with(survey.WithValidator(validateDateAnswer))
	second := p.with(survey.WithValidator(validateCodeAnswer))

	assert.Len(t, first, 2)
	assert.Len(t, second, 2)
	assert.Len(t, p.opts, 1)
}
