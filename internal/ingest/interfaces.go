package ingest

// Walker abstracts over JSONPath (data) and Tree-sitter (code) queries.
type Walker interface {
	// Query executes a selector against root and returns the matches.
	// root is a SitterRoot for code or a plain Go value for data.
	Query(root any, selector string) ([]Match, error)
}

// Match is a single query result.
type Match interface {
	// Values returns the captured values.
	// For Tree-sitter these are the named captures (e.g. "name" -> "resources").
	// For JSONPath an object match returns its fields; a primitive is
	// returned under the "value" key.
	Values() map[string]any

	// Context returns the node or object to use as root for child queries.
	Context() any
}
