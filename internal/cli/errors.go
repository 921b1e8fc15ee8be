package cli

import (
	"errors"
	"io"

	"ri_query/internal/domain/query"
	"ri_query/internal/infrastructure/spreadsheet"

	"github.com/AlecAivazis/survey/v2/terminal"
	"github.com/fatih/color"
)

// userMessage returns the text shown for a failed run.
func userMessage(err error) string {
	switch {
	case errors.Is(err, terminal.InterruptErr):
		return "Aborted."
	case errors.Is(err, query.ErrInvalidDate):
		return "Invalid date format. Please enter in 'DD-MON-YYYY' format."
	case errors.Is(err, query.ErrEmptyGroupCode), errors.Is(err, query.ErrNoGroupCodes):
		return "Please enter all required v_ri_group_code values."
	case errors.Is(err, spreadsheet.ErrTooFewColumns), errors.Is(err, spreadsheet.ErrInvalidSpreadsheet):
		return err.Error() + "\nPlease ensure the file is a valid Excel file with at least 5 columns of data in the first sheet."
	}
	return err.Error()
}

func printError(w io.Writer, err error) {
	color.New(color.FgRed, color.Bold).Fprintln(w, userMessage(err))
}
