package types

import "time"

// GeneratedSite is a finished generation kept in memory for preview and download.
type GeneratedSite struct {
	ID          string    `json:"id"`
	Template    string    `json:"template"`
	Prompt      string    `json:"prompt"`
	HTML        string    `json:"html"`
	GeneratedAt time.Time `json:"generatedAt"`
}
