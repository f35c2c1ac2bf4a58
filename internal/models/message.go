package models

import "time"

type Message struct {
	ID          int64     `json:"id"`
	SenderID    int64     `json:"sender_id"`
	RecipientID int64     `json:"recipient_id"`
	DisasterID  int64     `json:"disaster_id"`
	Content     string    `json:"content"`
	Timestamp   time.Time `json:"timestamp"`

	SenderUsername    string `json:"sender_username,omitempty"`
	RecipientUsername string `json:"recipient_username,omitempty"`
	DisasterTitle     string `json:"disaster_title,omitempty"`
}
