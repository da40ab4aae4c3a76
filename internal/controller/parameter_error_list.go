package controller

import (
	"net/mail"
	"strconv"
	"strings"
	"time"
)

// ParameterErrorList contains a list of human-readable errors about parameters.
type ParameterErrorList []string

// AppendIfEmptyOrBlankSpaces appends the error message specified if `str` is empty or contains only blank spaces.
//
// Parameters:
//   the string to be checked
//   the error message to append
//
// Returns:
//   the trimmed string
func (pel *ParameterErrorList) AppendIfEmptyOrBlankSpaces(str string, errMsg string) string {
	if str = strings.TrimSpace(str); str == "" {
		*pel = append(*pel, errMsg)
	}

	return str
}

// AppendIfNotNumber appends the error message specified if `str` is not a decimal number. A decimal comma is
// accepted.
//
// Parameters:
//   the string to be checked
//   the error message to append
//
// Returns:
//   the parsed number or 0 if there's error
func (pel *ParameterErrorList) AppendIfNotNumber(str string, errMsg string) float64 {
	number, err := strconv.ParseFloat(strings.Replace(strings.TrimSpace(str), ",", ".", 1), 64)
	if err != nil {
		*pel = append(*pel, errMsg)
		return 0
	}

	return number
}

// AppendIfNotPositiveInt appends the error message specified if `str` is not a positive int.
//
// Parameters:
//   the string to be checked
//   the error message to append
//
// Returns:
//   the parsed int or 0 if it can't be parsed as int
func (pel *ParameterErrorList) AppendIfNotPositiveInt(str string, errMsg string) int {
	intResult, err := strconv.Atoi(strings.TrimSpace(str))
	if err != nil {
		*pel = append(*pel, errMsg)
		return 0
	}

	if intResult < 0 {
		*pel = append(*pel, errMsg)
	}

	return intResult
}

// AppendIfNotDate appends the error message specified if `str` is not a date in the format of an HTML date input
// (yyyy-mm-dd).
func (pel *ParameterErrorList) AppendIfNotDate(str string, errMsg string) string {
	str = strings.TrimSpace(str)
	if _, err := time.Parse("2006-01-02", str); err != nil {
		*pel = append(*pel, errMsg)
	}

	return str
}

// AppendIfNotEmail appends the error message specified if `str` is not an email address.
func (pel *ParameterErrorList) AppendIfNotEmail(str string, errMsg string) string {
	str = strings.TrimSpace(str)
	if addr, err := mail.ParseAddress(str); err != nil || addr.Address != str {
		*pel = append(*pel, errMsg)
	}

	return str
}
