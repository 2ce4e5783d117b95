package pipeline

import "time"

// PageContext threads one URL's state through every Step. A Step reads
// the fields its stage needs and writes the fields downstream steps
// depend on; ShouldSkip/Error short-circuit the remaining steps.
type PageContext struct {
	URL string

	ShouldSkip   bool
	SkipReason   string
	Error        string

	RawBytes        []byte
	StatusCode      int
	ContentType     string
	BytesDownloaded int64
	ETag            string
	LastModified    string

	Title       string
	Description string
	Metadata    map[string]string

	Markdown   string
	OutputPath string

	DuplicateOf string

	StartedAt time.Time
}

// NewPageContext seeds a PageContext for targetURL.
func NewPageContext(targetURL string) *PageContext {
	return &PageContext{
		URL:       targetURL,
		Metadata:  make(map[string]string),
		StartedAt: time.Now(),
	}
}

// Skip marks the context as short-circuited with reason, matching the
// spec's convention that a gate failure sets should_skip with a named
// reason rather than raising an error.
func (pc *PageContext) Skip(reason string) {
	pc.ShouldSkip = true
	pc.SkipReason = reason
}

// Fail records a step failure. The driver is responsible for prefixing
// the message with the failing step's name.
func (pc *PageContext) Fail(message string) {
	pc.Error = message
	pc.ShouldSkip = true
}
