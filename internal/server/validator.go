package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// requestValidator plugs go-playground/validator into echo.
type requestValidator struct {
	validate *validator.Validate
}

func newRequestValidator() *requestValidator {
	return &requestValidator{validate: validator.New(validator.WithRequiredStructEnabled())}
}

func (v *requestValidator) Validate(i interface{}) error {
	if err := v.validate.Struct(i); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, formMessage(err)).SetInternal(err)
	}
	return nil
}

// formMessage turns the first failed field into the message shown next to the form.
func formMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "Invalid request."
	}

	// dive errors carry the element index, e.g. GroupCodes[2]
	field := verrs[0].StructField()
	switch {
	case field == "Date":
		return "Please enter the fic_mis_date."
	case strings.HasPrefix(field, "GroupCodes"):
		return "Please enter all required RI group codes."
	}
	return "Invalid value for " + verrs[0].Field() + "."
}
