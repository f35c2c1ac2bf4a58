package models

import "time"

const (
	MinRating = 1
	MaxRating = 5
)

type Feedback struct {
	ID          int64     `json:"id"`
	DonorID     int64     `json:"donor_id"`
	OrganiserID int64     `json:"organiser_id"`
	DisasterID  int64     `json:"disaster_id"`
	Rating      int       `json:"rating"`
	Comment     string    `json:"comment"`
	SubmittedAt time.Time `json:"submitted_at"`

	DonorUsername string `json:"donor_username,omitempty"`
	DisasterTitle string `json:"disaster_title,omitempty"`
}
