package models

// Category is one browsable category on a provider site.
type Category struct {
	Name       string
	URL        string
	Thumbnail  string
	VideoCount int
	Site       string
	CategoryID string
}

// Video is one listed media item inside a category. The URL points at the
// video's HTML page; resolving it to a playable stream is a separate step.
type Video struct {
	Title      string
	URL        string
	PageURL    string
	Thumbnail  string
	Duration   string
	Views      string
	ProviderID string
}
