package models

import (
	"fmt"
	"time"
)

type UrgencyLevel string

const (
	UrgencyLow    UrgencyLevel = "low"
	UrgencyMedium UrgencyLevel = "medium"
	UrgencyHigh   UrgencyLevel = "high"
)

func (u UrgencyLevel) Valid() bool {
	switch u {
	case UrgencyLow, UrgencyMedium, UrgencyHigh:
		return true
	default:
		return false
	}
}

type Disaster struct {
	ID           int64        `json:"id"`
	OrganiserID  int64        `json:"organiser_id"`
	Title        string       `json:"title"`
	Description  string       `json:"description"`
	Location     string       `json:"location"`
	UrgencyLevel UrgencyLevel `json:"urgency_level"`
	Image        string       `json:"image,omitempty"`
	PostedAt     time.Time    `json:"posted_at"`

	// Manual payment details shown to donors.
	BankAccountName   string `json:"bank_account_name"`
	BankAccountNumber string `json:"bank_account_number"`
	IFSCCode          string `json:"ifsc_code"`
	UPIID             string `json:"upi_id,omitempty"`
}

func (d *Disaster) String() string {
	return fmt.Sprintf("%s (%s)", d.Title, d.UrgencyLevel)
}
