// Package validation checks tool and route arguments before anything is sent
// to the registry.
package validation

import (
	"strconv"
	"strings"

	"github.com/elankeeran/Companies-House-MCP-Server/internal/apperrors"
)

// ValidateCompanyNumber rejects an empty or blank company number.
// The format is not checked; the registry answers NOT_FOUND for unknown numbers.
func ValidateCompanyNumber(companyNumber string) error {
	if strings.TrimSpace(companyNumber) == "" {
		return apperrors.ErrMissingCompanyNumber
	}
	return nil
}

// ValidateSearch validates the arguments of a company search.
//
// Returns a validation Error with field-specific messages if validation fails.
func ValidateSearch(query string, itemsPerPage, startIndex int) error {
	e := &Error{}

	if strings.TrimSpace(query) == "" {
		e.add("q", apperrors.ErrMissingQuery)
	}
	if itemsPerPage <= 0 {
		e.add("items_per_page", apperrors.ErrInvalidItemsPerPage)
	}
	if startIndex < 0 {
		e.add("start_index", apperrors.ErrInvalidStartIndex)
	}

	return e.orNil()
}

// ValidateCompanyPage validates a company number together with a page size.
func ValidateCompanyPage(companyNumber string, itemsPerPage int) error {
	e := &Error{}

	if err := ValidateCompanyNumber(companyNumber); err != nil {
		e.add("company_number", err)
	}
	if itemsPerPage <= 0 {
		e.add("items_per_page", apperrors.ErrInvalidItemsPerPage)
	}

	return e.orNil()
}

// ParseItemsPerPage parses an optional items_per_page query value.
// An empty value yields defaultValue.
func ParseItemsPerPage(raw string, defaultValue int) (int, error) {
	if raw == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, apperrors.ErrInvalidItemsPerPage
	}
	return n, nil
}

// ParseStartIndex parses an optional start_index query value, defaulting to 0.
func ParseStartIndex(raw string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, apperrors.ErrInvalidStartIndex
	}
	return n, nil
}
