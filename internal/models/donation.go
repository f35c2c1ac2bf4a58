package models

import (
	"fmt"
	"math"
	"strconv"
	"time"
)

type DonationMethod string

const (
	DonationAutomatic DonationMethod = "automatic"
	DonationManual    DonationMethod = "manual"
)

// Amount is a monetary value in paise (hundredths of a rupee).
type Amount int64

// MaxAmount mirrors a DECIMAL(10,2) column.
const MaxAmount Amount = 99_999_999_99

func (a Amount) String() string {
	return fmt.Sprintf("%d.%02d", int64(a)/100, int64(a)%100)
}

func (a Amount) Float() float64 {
	return float64(a) / 100
}

// MarshalJSON writes the amount in rupees with two decimals.
func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(a.String()), nil
}

func (a *Amount) UnmarshalJSON(b []byte) error {
	v, err := strconv.ParseFloat(string(b), 64)
	if err != nil {
		return fmt.Errorf("invalid amount %s: %w", b, err)
	}
	*a = Amount(math.Round(v * 100))
	return nil
}

type Donation struct {
	ID            int64          `json:"id"`
	DonorID       int64          `json:"donor_id"`
	DisasterID    int64          `json:"disaster_id"`
	Method        DonationMethod `json:"method"`
	Amount        Amount         `json:"amount"`
	TransactionID string         `json:"transaction_id,omitempty"`
	ProofImage    string         `json:"proof_image,omitempty"`
	Message       string         `json:"message"`
	DonatedAt     time.Time      `json:"donated_at"`

	// Populated by listing queries.
	DisasterTitle string `json:"disaster_title,omitempty"`
	DonorUsername string `json:"donor_username,omitempty"`
}
