package models

import (
	"time"
)

// TestimonialStatus represents the moderation state of a testimonial
type TestimonialStatus string

const (
	TestimonialStatusPending  TestimonialStatus = "pending"
	TestimonialStatusApproved TestimonialStatus = "approved"
)

// Valid reports whether s is one of the defined moderation states.
func (s TestimonialStatus) Valid() bool {
	return s == TestimonialStatusPending || s == TestimonialStatusApproved
}

// Testimonial represents a customer testimonial, optionally with a video.
// VideoFilename is relative to the media directory of the current Status.
type Testimonial struct {
	ID              string            `json:"id" db:"id"`
	Name            string            `json:"name" db:"name"`
	TestimonialText string            `json:"testimonialText" db:"testimonial_text"`
	VideoFilename   string            `json:"videoFilename,omitempty" db:"video_filename"`
	VideoURL        string            `json:"videoUrl,omitempty" db:"video_url"`
	HasVideo        bool              `json:"hasVideo" db:"has_video"`
	Status          TestimonialStatus `json:"status" db:"status"`
	UploadedAt      time.Time         `json:"uploadedAt" db:"uploaded_at"`
	ApprovedAt      *time.Time        `json:"approvedAt,omitempty" db:"approved_at"`
	UpdatedAt       *time.Time        `json:"updatedAt,omitempty" db:"updated_at"`
}

// Clone returns a copy that can be mutated without touching the original.
func (t *Testimonial) Clone() *Testimonial {
	c := *t
	if t.ApprovedAt != nil {
		at := *t.ApprovedAt
		c.ApprovedAt = &at
	}
	if t.UpdatedAt != nil {
		ut := *t.UpdatedAt
		c.UpdatedAt = &ut
	}
	return &c
}

// StripVideo clears every video field.
func (t *Testimonial) StripVideo() {
	t.VideoFilename = ""
	t.VideoURL = ""
	t.HasVideo = false
}

// TestimonialSubmission is the public upload form
type TestimonialSubmission struct {
	Name            string `json:"name" form:"name"`
	TestimonialText string `json:"testimonialText" form:"testimonialText"`
}

// TestimonialUpdate is a partial edit; nil fields are left unchanged
type TestimonialUpdate struct {
	Name            *string `json:"name,omitempty"`
	TestimonialText *string `json:"testimonialText,omitempty"`
}

// Empty reports whether the update changes nothing.
func (u *TestimonialUpdate) Empty() bool {
	return u.Name == nil && u.TestimonialText == nil
}
