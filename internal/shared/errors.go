package shared

import "fmt"

var (
	// Configuration errors
	ErrMissingConfig      = fmt.Errorf("configuration not found")
	ErrInvalidConfig      = fmt.Errorf("invalid configuration")
	ErrMissingCredentials = fmt.Errorf("missing credentials")

	// Authentication errors
	ErrAuthFailed       = fmt.Errorf("authentication failed")
	ErrNotAuthenticated = fmt.Errorf("not authenticated")
	ErrTokenExpired     = fmt.Errorf("access token expired")
	ErrTimeout          = fmt.Errorf("operation timed out")

	// API and pipeline errors
	ErrAPIRequest     = fmt.Errorf("API request failed")
	ErrEmptyInput     = fmt.Errorf("no usable words in sentence")
	ErrNothingMatched = fmt.Errorf("no words matched any track")
	ErrPlaylistCreate = fmt.Errorf("playlist creation failed")
	ErrTrackAdd       = fmt.Errorf("adding tracks failed")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
)
