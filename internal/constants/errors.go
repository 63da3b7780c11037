package constants

import "errors"

// Configuration errors.
var (
	ErrNotLoggedIn       = errors.New("not logged in, use 'albert login' first")
	ErrNoCredentials     = errors.New("either a token or client credentials are required")
	ErrClientIDRequired  = errors.New("--client-id flag is required")
	ErrInvalidFilterFlag = errors.New("filter must be in key=value form")
	ErrInvalidOutput     = errors.New("output format must be one of table, json, yaml")
	ErrNoItemsFound      = errors.New("no items found")
)
