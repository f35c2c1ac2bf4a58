package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/mr1hm/disaster-relief/internal/models"
)

const messageSelect = `
	SELECT m.id, m.sender_id, m.recipient_id, m.disaster_id, m.content, m.timestamp,
		s.username, r.username, d.title
	FROM messages m
	JOIN users s ON s.id = m.sender_id
	JOIN users r ON r.id = m.recipient_id
	JOIN disasters d ON d.id = m.disaster_id`

func (s *SQLiteDB) AddMessage(ctx context.Context, m *models.Message) error {
	if m.RecipientID == 0 {
		return errors.New("message has no recipient")
	}
	m.Timestamp = stamp(m.Timestamp)
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO messages (sender_id, recipient_id, disaster_id, content, timestamp)
		VALUES (?, ?, ?, ?, ?)`,
		m.SenderID, m.RecipientID, m.DisasterID, m.Content, m.Timestamp)
	if err != nil {
		return fmt.Errorf("error inserting message: %w", err)
	}
	m.ID, err = res.LastInsertId()
	return err
}

func (s *SQLiteDB) ThreadMessages(ctx context.Context, disasterID int64) ([]models.Message, error) {
	return s.queryMessages(ctx, messageSelect+` WHERE m.disaster_id = ? ORDER BY m.timestamp ASC, m.id ASC`, disasterID)
}

func messageConditions(opts MessageFilter) ([]string, []any) {
	var conds []string
	var args []any
	if opts.RecipientID != nil {
		conds = append(conds, "m.recipient_id = ?")
		args = append(args, *opts.RecipientID)
	}
	if opts.SenderID != nil {
		conds = append(conds, "m.sender_id = ?")
		args = append(args, *opts.SenderID)
	}
	if opts.DisasterID != nil {
		conds = append(conds, "m.disaster_id = ?")
		args = append(args, *opts.DisasterID)
	}
	return conds, args
}

func (s *SQLiteDB) ListMessages(ctx context.Context, opts MessageFilter) ([]models.Message, error) {
	conds, args := messageConditions(opts)
	return s.queryMessages(ctx, messageSelect+where(conds)+` ORDER BY m.timestamp DESC, m.id DESC`, args...)
}

func (s *SQLiteDB) CountMessages(ctx context.Context, opts MessageFilter) (int, error) {
	conds, args := messageConditions(opts)
	var count int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM messages m`+where(conds), args...).Scan(&count)
	return count, err
}

func (s *SQLiteDB) queryMessages(ctx context.Context, query string, args ...any) ([]models.Message, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying messages: %w", err)
	}
	defer rows.Close()

	messages := []models.Message{}
	for rows.Next() {
		var m models.Message
		if err := rows.Scan(&m.ID, &m.SenderID, &m.RecipientID, &m.DisasterID, &m.Content, &m.Timestamp,
			&m.SenderUsername, &m.RecipientUsername, &m.DisasterTitle); err != nil {
			return nil, err
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}
