package query

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// DateLayout matches DD-MON-YYYY. Month names are matched case-insensitively
// by time.Parse and a single-digit day is accepted.
const DateLayout = "2-Jan-2006"

var (
	ErrInvalidDate       = errors.New("invalid date format, expected DD-MON-YYYY")
	ErrEmptyGroupCode    = errors.New("group code cannot be empty")
	ErrNoGroupCodes      = errors.New("at least one group code is required")
	ErrTooManyGroupCodes = errors.New("too many group codes")
)

// ValidateDate проверяет, что дата записана в формате DD-MON-YYYY.
func ValidateDate(date string) error {
	date = strings.TrimSpace(date)
	if date == "" {
		return fmt.Errorf("%w: date is empty", ErrInvalidDate)
	}
	if _, err := time.Parse(DateLayout, date); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidDate, date)
	}
	return nil
}

// ValidateGroupCode rejects blank codes.
func ValidateGroupCode(code string) error {
	if strings.TrimSpace(code) == "" {
		return ErrEmptyGroupCode
	}
	return nil
}

// ValidateGroupCodes checks the whole list. max <= 0 disables the upper bound.
func ValidateGroupCodes(codes []string, max int) error {
	if len(codes) == 0 {
		return ErrNoGroupCodes
	}
	if max > 0 && len(codes) > max {
		return fmt.Errorf("%w: got %d, maximum %d", ErrTooManyGroupCodes, len(codes), max)
	}
	for i, code := range codes {
		if err := ValidateGroupCode(code); err != nil {
			return fmt.Errorf("group code #%d: %w", i+1, err)
		}
	}
	return nil
}
