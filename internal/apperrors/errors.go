package apperrors

import "errors"

// Argument errors represent tool or route input that cannot be forwarded
// to the registry. They never reach the upstream service.
var (
	// ErrMissingCompanyNumber indicates that a company_number argument is empty.
	ErrMissingCompanyNumber = errors.New("company number is required")

	// ErrMissingQuery indicates that a search was requested without query text.
	ErrMissingQuery = errors.New("search query is required")

	// ErrInvalidItemsPerPage indicates a page size that is not a positive integer.
	ErrInvalidItemsPerPage = errors.New("items_per_page must be a positive integer")

	// ErrInvalidStartIndex indicates a negative or non-numeric start index.
	ErrInvalidStartIndex = errors.New("start_index must be a non-negative integer")

	ErrInvalidArguments = errors.New("invalid tool arguments")
)

// Tool surface errors.
var (
	// ErrUnknownTool indicates a call to a tool name that is not registered.
	ErrUnknownTool = errors.New("unknown tool")
)

// Configuration errors are raised once, at startup.
var (
	// ErrCredentialDecrypt indicates that the encrypted default credential
	// could not be decrypted with the configured fernet key.
	ErrCredentialDecrypt = errors.New("failed to decrypt companies house api key")

	// ErrInvalidConfig indicates a malformed configuration value.
	ErrInvalidConfig = errors.New("invalid configuration")
)
