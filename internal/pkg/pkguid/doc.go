// Package pkguid generates identifiers.
//
// UUID (version 7) strings tag requests for correlation; Snowflake numbers
// identify stored records and sort by creation time. ParseNumber reads a
// Snowflake back from text.
package pkguid
