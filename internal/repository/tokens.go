package repository

import (
	"context"
	"fmt"
	"time"
)

func (s *SQLiteDB) RevokeToken(ctx context.Context, tokenID string, expiresAt time.Time) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO revoked_tokens (token_id, expires_at) VALUES (?, ?)`, tokenID, expiresAt.UTC())
	if err != nil {
		return fmt.Errorf("error revoking token: %w", err)
	}
	return nil
}

func (s *SQLiteDB) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM revoked_tokens WHERE token_id = ?`, tokenID).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// PurgeExpiredTokens drops revocations whose tokens have expired anyway.
func (s *SQLiteDB) PurgeExpiredTokens(ctx context.Context, now time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM revoked_tokens WHERE expires_at < ?`, now.UTC())
	if err != nil {
		return 0, fmt.Errorf("error purging tokens: %w", err)
	}
	return res.RowsAffected()
}
