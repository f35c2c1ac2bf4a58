package repository

import (
	"context"
	"fmt"

	"github.com/mr1hm/disaster-relief/internal/models"
)

func (s *SQLiteDB) AddDonation(ctx context.Context, d *models.Donation) error {
	d.DonatedAt = stamp(d.DonatedAt)
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO donations (donor_id, disaster_id, method, amount, transaction_id, proof_image, message, donated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		d.DonorID, d.DisasterID, d.Method, d.Amount, d.TransactionID, d.ProofImage, d.Message, d.DonatedAt)
	if err != nil {
		return fmt.Errorf("error inserting donation: %w", err)
	}
	d.ID, err = res.LastInsertId()
	return err
}

func donationConditions(opts DonationFilter) ([]string, []any) {
	var conds []string
	var args []any
	if opts.DonorID != nil {
		conds = append(conds, "dn.donor_id = ?")
		args = append(args, *opts.DonorID)
	}
	if opts.DisasterID != nil {
		conds = append(conds, "dn.disaster_id = ?")
		args = append(args, *opts.DisasterID)
	}
	if opts.OrganiserID != nil {
		conds = append(conds, "ds.organiser_id = ?")
		args = append(args, *opts.OrganiserID)
	}
	return conds, args
}

// ListDonations returns matching donations newest first.
func (s *SQLiteDB) ListDonations(ctx context.Context, opts DonationFilter) ([]models.Donation, error) {
	conds, args := donationConditions(opts)
	query := `
		SELECT dn.id, dn.donor_id, dn.disaster_id, dn.method, dn.amount, dn.transaction_id, dn.proof_image,
			dn.message, dn.donated_at, ds.title, u.username
		FROM donations dn
		JOIN disasters ds ON ds.id = dn.disaster_id
		JOIN users u ON u.id = dn.donor_id` + where(conds) + `
		ORDER BY dn.donated_at DESC, dn.id DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying donations: %w", err)
	}
	defer rows.Close()

	donations := []models.Donation{}
	for rows.Next() {
		var d models.Donation
		if err := rows.Scan(&d.ID, &d.DonorID, &d.DisasterID, &d.Method, &d.Amount, &d.TransactionID,
			&d.ProofImage, &d.Message, &d.DonatedAt, &d.DisasterTitle, &d.DonorUsername); err != nil {
			return nil, err
		}
		donations = append(donations, d)
	}
	return donations, rows.Err()
}

func (s *SQLiteDB) CountDonations(ctx context.Context, opts DonationFilter) (int, error) {
	conds, args := donationConditions(opts)
	var count int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM donations dn
		JOIN disasters ds ON ds.id = dn.disaster_id`+where(conds), args...).Scan(&count)
	return count, err
}
