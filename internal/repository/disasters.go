package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/mr1hm/disaster-relief/internal/models"
)

const disasterColumns = `id, organiser_id, title, description, location, urgency_level, image, posted_at,
	bank_account_name, bank_account_number, ifsc_code, upi_id`

func scanDisaster(row rowScanner) (*models.Disaster, error) {
	d := &models.Disaster{}
	err := row.Scan(&d.ID, &d.OrganiserID, &d.Title, &d.Description, &d.Location, &d.UrgencyLevel,
		&d.Image, &d.PostedAt, &d.BankAccountName, &d.BankAccountNumber, &d.IFSCCode, &d.UPIID)
	if err != nil {
		return nil, err
	}
	return d, nil
}

func (s *SQLiteDB) AddDisaster(ctx context.Context, d *models.Disaster) error {
	d.PostedAt = stamp(d.PostedAt)
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO disasters (organiser_id, title, description, location, urgency_level, image, posted_at,
			bank_account_name, bank_account_number, ifsc_code, upi_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		d.OrganiserID, d.Title, d.Description, d.Location, d.UrgencyLevel, d.Image, d.PostedAt,
		d.BankAccountName, d.BankAccountNumber, d.IFSCCode, d.UPIID)
	if err != nil {
		return fmt.Errorf("error inserting disaster: %w", err)
	}
	d.ID, err = res.LastInsertId()
	return err
}

func (s *SQLiteDB) GetDisaster(ctx context.Context, id int64) (*models.Disaster, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+disasterColumns+` FROM disasters WHERE id = ?`, id)
	d, err := scanDisaster(row)
	if err != nil {
		return nil, notFound(err)
	}
	return d, nil
}

func (s *SQLiteDB) GetOwnedDisaster(ctx context.Context, id, organiserID int64) (*models.Disaster, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+disasterColumns+` FROM disasters WHERE id = ? AND organiser_id = ?`, id, organiserID)
	d, err := scanDisaster(row)
	if err != nil {
		return nil, notFound(err)
	}
	return d, nil
}

// UpdateDisaster rewrites the editable fields of a disaster owned by
// d.OrganiserID. Ownership and posting time are immutable.
func (s *SQLiteDB) UpdateDisaster(ctx context.Context, d *models.Disaster) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE disasters SET title = ?, description = ?, location = ?, urgency_level = ?, image = ?,
			bank_account_name = ?, bank_account_number = ?, ifsc_code = ?, upi_id = ?
		WHERE id = ? AND organiser_id = ?`,
		d.Title, d.Description, d.Location, d.UrgencyLevel, d.Image,
		d.BankAccountName, d.BankAccountNumber, d.IFSCCode, d.UPIID,
		d.ID, d.OrganiserID)
	if err != nil {
		return fmt.Errorf("error updating disaster: %w", err)
	}
	return expectRow(res)
}

// DeleteDisaster removes the disaster together with its donations, messages
// and feedback (ON DELETE CASCADE).
func (s *SQLiteDB) DeleteDisaster(ctx context.Context, id, organiserID int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM disasters WHERE id = ? AND organiser_id = ?`, id, organiserID)
	if err != nil {
		return fmt.Errorf("error deleting disaster: %w", err)
	}
	return expectRow(res)
}

func disasterConditions(opts DisasterFilter) ([]string, []any) {
	var conds []string
	var args []any
	if opts.OrganiserID != nil {
		conds = append(conds, "organiser_id = ?")
		args = append(args, *opts.OrganiserID)
	}
	if opts.Urgency != nil {
		conds = append(conds, "urgency_level = ?")
		args = append(args, *opts.Urgency)
	}
	return conds, args
}

// ListDisasters returns matching disasters newest first.
func (s *SQLiteDB) ListDisasters(ctx context.Context, opts DisasterFilter) ([]models.Disaster, error) {
	conds, args := disasterConditions(opts)
	query := `SELECT ` + disasterColumns + ` FROM disasters` + where(conds) + ` ORDER BY posted_at DESC, id DESC`
	if opts.Limit > 0 {
		query += ` LIMIT ? OFFSET ?`
		args = append(args, opts.Limit, opts.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying disasters: %w", err)
	}
	defer rows.Close()

	disasters := []models.Disaster{}
	for rows.Next() {
		d, err := scanDisaster(rows)
		if err != nil {
			return nil, err
		}
		disasters = append(disasters, *d)
	}
	return disasters, rows.Err()
}

func (s *SQLiteDB) CountDisasters(ctx context.Context, opts DisasterFilter) (int, error) {
	conds, args := disasterConditions(opts)
	var count int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM disasters`+where(conds), args...).Scan(&count)
	return count, err
}

func expectRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
