package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/mr1hm/disaster-relief/internal/models"
)

func (s *SQLiteDB) AddFeedback(ctx context.Context, f *models.Feedback) error {
	f.SubmittedAt = stamp(f.SubmittedAt)
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO feedback (donor_id, organiser_id, disaster_id, rating, comment, submitted_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		f.DonorID, f.OrganiserID, f.DisasterID, f.Rating, f.Comment, f.SubmittedAt)
	if err != nil {
		return fmt.Errorf("error inserting feedback: %w", err)
	}
	f.ID, err = res.LastInsertId()
	return err
}

func feedbackConditions(opts FeedbackFilter) ([]string, []any) {
	var conds []string
	var args []any
	if opts.DonorID != nil {
		conds = append(conds, "f.donor_id = ?")
		args = append(args, *opts.DonorID)
	}
	if opts.OrganiserID != nil {
		conds = append(conds, "f.organiser_id = ?")
		args = append(args, *opts.OrganiserID)
	}
	if opts.DisasterID != nil {
		conds = append(conds, "f.disaster_id = ?")
		args = append(args, *opts.DisasterID)
	}
	return conds, args
}

// ListFeedback returns matching feedback newest first.
func (s *SQLiteDB) ListFeedback(ctx context.Context, opts FeedbackFilter) ([]models.Feedback, error) {
	conds, args := feedbackConditions(opts)
	rows, err := s.db.QueryContext(ctx, `
		SELECT f.id, f.donor_id, f.organiser_id, f.disaster_id, f.rating, f.comment, f.submitted_at,
			u.username, d.title
		FROM feedback f
		JOIN users u ON u.id = f.donor_id
		JOIN disasters d ON d.id = f.disaster_id`+where(conds)+`
		ORDER BY f.submitted_at DESC, f.id DESC`, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying feedback: %w", err)
	}
	defer rows.Close()

	feedback := []models.Feedback{}
	for rows.Next() {
		var f models.Feedback
		if err := rows.Scan(&f.ID, &f.DonorID, &f.OrganiserID, &f.DisasterID, &f.Rating, &f.Comment,
			&f.SubmittedAt, &f.DonorUsername, &f.DisasterTitle); err != nil {
			return nil, err
		}
		feedback = append(feedback, f)
	}
	return feedback, rows.Err()
}

func (s *SQLiteDB) CountFeedback(ctx context.Context, opts FeedbackFilter) (int, error) {
	conds, args := feedbackConditions(opts)
	var count int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM feedback f`+where(conds), args...).Scan(&count)
	return count, err
}

func (s *SQLiteDB) AverageRating(ctx context.Context, organiserID int64) (float64, error) {
	var avg sql.NullFloat64
	err := s.db.QueryRowContext(ctx, `SELECT AVG(rating) FROM feedback WHERE organiser_id = ?`, organiserID).Scan(&avg)
	if err != nil {
		return 0, fmt.Errorf("error averaging ratings: %w", err)
	}
	if !avg.Valid {
		return 0, nil
	}
	return avg.Float64, nil
}
