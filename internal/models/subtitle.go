package models

import (
	"time"
)

// SubtitleDetails holds everything a subtitle detail page exposes except the
// identifier, which never appears in the page body. Optional fields keep
// their zero value when the page omits them.
type SubtitleDetails struct {
	Title           string    `json:"title"`                // Display title of the subtitle entry
	Releases        []string  `json:"releases,omitempty"`   // Release names this subtitle applies to
	Language        string    `json:"language,omitempty"`   // Language name as shown on the page
	DownloadURL     string    `json:"downloadUrl"`          // Relative URL of the archive download endpoint
	Uploader        string    `json:"uploader,omitempty"`   // Name of the uploading user
	Comment         string    `json:"comment,omitempty"`    // Free-form uploader comment
	HearingImpaired bool      `json:"hearingImpaired"`      // Whether the subtitle is marked hearing impaired
	Files           int       `json:"files,omitempty"`      // Number of files in the archive
	Rating          *float64  `json:"rating,omitempty"`     // Community rating, nil when the page shows none
	RatingCount     int       `json:"ratingCount,omitempty"`
	UploadedAt      time.Time `json:"uploadedAt,omitempty"` // Upload timestamp when the page carries one
}

// WithID combines the page data with an externally supplied identifier into
// a complete Subtitle. Value semantics: the receiver is not retained.
func (d SubtitleDetails) WithID(id string) Subtitle {
	return Subtitle{
		ID:              id,
		SubtitleDetails: d,
	}
}

// Subtitle represents a fully identified subtitle record.
type Subtitle struct {
	ID              string `json:"id"`
	SubtitleDetails `json:",inline"`
}
