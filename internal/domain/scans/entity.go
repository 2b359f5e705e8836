package scans

import "strings"

// Upload is an image received for analysis. It only lives for one request.
type Upload struct {
	Filename  string
	MediaType string
	Data      []byte
}

// IsImage reports whether the declared media type is an image type.
func (u Upload) IsImage() bool {
	return strings.HasPrefix(strings.ToLower(u.MediaType), "image/")
}

// Result of a scan analysis.
type Result struct {
	Analysis string `json:"analysis"`
}
