// Package errors provides structured, actionable error messages for the
// designdocs CLI and server.
//
// Each error has a unique code that maps to a short message, a longer
// explanation and, where useful, a hint. Codes are grouped by category:
//   - config (E1xx): configuration file and flag problems
//   - protocol (E2xx): websocket frames and sessions
//   - publish (E3xx): static export and S3 upload
//   - validation (E4xx): user input such as token-name fields
//
// # Usage
//
//	err := errors.New("E101").
//	    WithDetail("port 70000 is out of range").
//	    WithSuggestion("Use a port between 1 and 65535")
//
//	fmt.Fprint(os.Stderr, err.Format())
package errors
