package pkguid

// StringID generates unique string identifiers, such as correlation IDs.
type StringID interface {
	Generate() string
}

// NumberID generates unique numeric identifiers, such as user IDs.
type NumberID interface {
	Generate() int64
}

var (
	_ StringID = (*UUID)(nil)
	_ NumberID = (*Snowflake)(nil)
)
