package driven

// Loader extracts plain text from one raw document format.
type Loader interface {
	// Extensions returns the lowercase filename extensions this loader
	// handles, without dots (e.g. "txt", "html").
	Extensions() []string

	// Load converts raw file bytes into plain text. Returns
	// domain.ErrEmptyDocument when no usable text remains.
	Load(data []byte) (string, error)
}
