package analysis

import "time"

// Analysis is the published result of one successful scan analysis.
// It is never mutated after publishing.
type Analysis struct {
	SessionID   string    `json:"session_id,omitempty"`
	Text        string    `json:"text"`
	PublishedAt time.Time `json:"published_at"`
}
