// Package pkgerror defines the error taxonomy shared across the application.
//
// It keeps error handling consistent by:
//   - Providing a closed set of kinds, each with a fixed HTTP status code and
//     a default user-facing message.
//   - Providing an immutable Error type that carries a kind, a message, an
//     optional offending field, and an optional cause kept for local logging.
//   - Translating low-level storage failures (SQLSTATE codes, missing rows)
//     into Error values, see Translate.
package pkgerror
