package cli

import (
	"fmt"
	"strconv"
	"strings"

	"ri_query/internal/domain/query"

	"github.com/AlecAivazis/survey/v2"
)

// Prompter asks the user for run parameters.
type Prompter interface {
	Date() (string, error)
	GroupCodeCount() (int, error)
	GroupCode(n int) (string, error)
}

// surveyPrompter asks on the terminal; invalid answers are asked again.
type surveyPrompter struct {
	opts []survey.AskOpt
}

func newSurveyPrompter(opts ...survey.AskOpt) *surveyPrompter {
	return &surveyPrompter{opts: opts}
}

func (p *surveyPrompter) Date() (string, error) {
	var date string
	prompt := &survey.Input{
		Message: "Enter the fic_mis_date (DD-MON-YYYY):",
		Help:    "Day, abbreviated month and four-digit year, e.g. 31-DEC-2024.",
	}
	err := survey.AskOne(prompt, &date, p.with(survey.WithValidator(validateDateAnswer))...)
	return strings.TrimSpace(date), err
}

func (p *surveyPrompter) GroupCodeCount() (int, error) {
	var answer string
	prompt := &survey.Input{Message: "How many v_ri_group_code values would you like to input?", Default: "1"}
	err := survey.AskOne(prompt, &answer, p.with(survey.WithValidator(validateCountAnswer))...)
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(strings.TrimSpace(answer))
}

func (p *surveyPrompter) GroupCode(n int) (string, error) {
	var code string
	prompt := &survey.Input{Message: fmt.Sprintf("Enter the v_ri_group_code #%d:", n)}
	err := survey.AskOne(prompt, &code, p.with(survey.WithValidator(validateCodeAnswer))...)
	return strings.TrimSpace(code), err
}

// validateDateAnswer rejects anything that is not DD-MON-YYYY so survey asks again.
func validateDateAnswer(ans interface{}) error {
	s, _ := ans.(string)
	if err := query.ValidateDate(s); err != nil {
		return fmt.Errorf("invalid date format, please enter in 'DD-MON-YYYY' format")
	}
	return nil
}

func validateCountAnswer(ans interface{}) error {
	s, _ := ans.(string)
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 {
		return fmt.Errorf("please enter a whole number greater than zero")
	}
	return nil
}

func validateCodeAnswer(ans interface{}) error {
	s, _ := ans.(string)
	return query.ValidateGroupCode(s)
}

func (p *surveyPrompter) with(opt survey.AskOpt) []survey.AskOpt {
	return append(append([]survey.AskOpt{}, p.opts...), opt)
}
