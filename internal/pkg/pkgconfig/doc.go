// Package pkgconfig provides a small abstraction for reading configuration values.
//
// Business code depends on the Config interface; Viper backs it in the
// application. Values come from a YAML file and can be overridden by
// environment variables named after the key with a FAULTLINE_ prefix, for
// example FAULTLINE_DATABASE_DSN for database.dsn.
//
// Binary values are base64 encoded; arrays and maps use "a,b" and "k:v,k:v".
package pkgconfig
