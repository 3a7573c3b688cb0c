package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// SummaryKind is the closed set of content kinds a summary can record.
// Anything outside these four is a bug at the call site, not a new bucket.
type SummaryKind string

const (
	KindText  SummaryKind = "text"
	KindImage SummaryKind = "image"
	KindPDF   SummaryKind = "pdf"
	KindAudio SummaryKind = "audio"
)

// Valid reports whether k is one of the four known kinds.
func (k SummaryKind) Valid() bool {
	switch k {
	case KindText, KindImage, KindPDF, KindAudio:
		return true
	}
	return false
}

// Label returns the human-readable source label stored alongside a summary.
// Text summaries keep the raw input; binary kinds use a fixed label.
func (k SummaryKind) Label(input string) string {
	switch k {
	case KindImage:
		return "Image Analysis"
	case KindPDF:
		return "PDF Analysis"
	case KindAudio:
		return "Audio Transcript"
	default:
		return input
	}
}

// KindForMime maps an uploaded file's mime type to its stored kind.
// Non-PDF uploads land in the audio bucket, mirroring how uploads are
// split on the analyze endpoint.
func KindForMime(mimeType string) SummaryKind {
	if mimeType == "application/pdf" {
		return KindPDF
	}
	return KindAudio
}

// Summary is one recorded AI interaction. Owned by exactly one user, never
// mutated after creation, deleted only by its owner.
type Summary struct {
	gorm.Model
	UserID       uint           `gorm:"not null;index" json:"-"`
	Kind         SummaryKind    `gorm:"type:text;not null;default:'text'" json:"type"`
	OriginalText string         `gorm:"type:text" json:"originalText"`
	SummaryText  string         `gorm:"type:text" json:"summaryText"`
	Metadata     datatypes.JSON `gorm:"type:jsonb" json:"metadata,omitempty"`
}
