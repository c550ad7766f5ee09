package config

import "errors"

// Configuration validation errors returned by Config.Validate.
var (
	ErrNoSearchTerms   = errors.New("no search terms configured: set SEARCH_TERMS")
	ErrInvalidWorkers  = errors.New("invalid MAX_WORKERS: must be positive")
	ErrInvalidBudget   = errors.New("invalid ITEMS_PER_TERM: must be positive")
	ErrUnknownStrategy = errors.New("invalid RESOLVER_STRATEGY: must be ranked or first_result")
	ErrInvalidTimeout  = errors.New("invalid timeout: PAGE_LOAD_TIMEOUT and ELEMENT_TIMEOUT must be positive")
)
