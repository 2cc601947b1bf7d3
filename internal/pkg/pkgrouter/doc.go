// Package pkgrouter wraps HTTP routing and common middleware used by the API.
//
// It provides a small router abstraction over httprouter plus shared concerns
// like JSON encoding, logging, recovery, and correlation ID propagation.
// Handler errors never reach the wire unclassified: each one goes through
// pkgboundary and is rendered by pkgresponse.
package pkgrouter
