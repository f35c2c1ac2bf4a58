// Package donation records donations from donors to disasters.
package donation

import (
	"math"
	"strings"

	"github.com/mr1hm/disaster-relief/internal/models"
	"github.com/mr1hm/disaster-relief/internal/storage"
	"github.com/mr1hm/disaster-relief/internal/validation"
)

// Contribution is a submitted donation form: either Automatic or Manual.
type Contribution interface {
	Method() models.DonationMethod
	Validate() error
	apply(d *models.Donation)
	proof() *storage.File
}

// Automatic is a donation paid through the platform; only an amount and an
// optional note are collected.
type Automatic struct {
	Amount  float64 `json:"amount" form:"amount" validate:"gt=0"`
	Message string  `json:"message" form:"message"`
}

func (a Automatic) Method() models.DonationMethod { return models.DonationAutomatic }

func (a Automatic) Validate() error {
	errs := validation.Struct(a)
	checkAmount(errs, a.Amount)
	return errs.Err()
}

func (a Automatic) apply(d *models.Donation) {
	d.Amount = toAmount(a.Amount)
	d.Message = strings.TrimSpace(a.Message)
}

func (a Automatic) proof() *storage.File { return nil }

// Manual is a donation paid off-platform to the disaster's bank account or
// UPI id, backed by a transaction reference and a proof image.
type Manual struct {
	Amount        float64       `form:"amount" validate:"gt=0"`
	TransactionID string        `form:"transaction_id" validate:"required,max=100,txnid"`
	Message       string        `form:"message"`
	Proof         *storage.File `form:"-"`
}

func (m Manual) Method() models.DonationMethod { return models.DonationManual }

func (m Manual) Validate() error {
	errs := validation.Struct(m)
	checkAmount(errs, m.Amount)
	errs.Check("transaction_id", validation.TransactionID(m.TransactionID))
	if m.Proof == nil || m.Proof.Size == 0 {
		errs.Add("proof_image", "This field is required.")
	}
	return errs.Err()
}

func (m Manual) apply(d *models.Donation) {
	d.Amount = toAmount(m.Amount)
	d.TransactionID = m.TransactionID
	d.Message = strings.TrimSpace(m.Message)
}

func (m Manual) proof() *storage.File { return m.Proof }

func toAmount(v float64) models.Amount {
	return models.Amount(math.Round(v * 100))
}

// checkAmount records an amount error on errs when v is not a valid rupee
// amount.
func checkAmount(errs validation.Errors, v float64) {
	switch a := toAmount(v); {
	case math.IsNaN(v) || math.IsInf(v, 0):
		errs.Add("amount", msgAmountInvalid)
	case a <= 0:
		errs.Add("amount", msgAmountNotPositive)
	case a > models.MaxAmount:
		errs.Add("amount", msgAmountTooLarge)
	case math.Abs(v*100-float64(a)) > 1e-6:
		errs.Add("amount", msgAmountPrecision)
	}
}
