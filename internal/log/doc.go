// Package log provides secure logging functionality with automatic sanitization
// of sensitive information, built on top of the standard slog package.
//
// The registry API token travels in every request as
// "Authorization: Token <token>". The SecureHandler masks it, along with
// other credentials, whether it appears under a sensitive key such as
// "authorization" or "token" or only as a recognizable value. Even in
// verbose mode, masked values never reach the output.
//
// # Usage
//
//	logger := log.NewSecureLogger(os.Stderr, verbose)
//	logger.Debug("sending request",
//	    "url", "https://api.proff.no/api/companies/owner/NO/917251770",
//	    "authorization", "Token abc123", // written as ***REDACTED***
//	)
//	slog.SetDefault(logger)
package log
