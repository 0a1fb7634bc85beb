package database

import (
	"context"
	"database/sql"
	"fmt"

	"complaint-service/models"
)

// ProfileService reads the filer/resolver profiles the complaint workflow
// depends on. The profiles themselves are owned elsewhere; the complaint
// service only reads names, emails and push tokens, and registers device
// tokens.
type ProfileService struct {
	db *sql.DB
}

// NewProfileService creates a new profile store instance
func NewProfileService(db *sql.DB) *ProfileService {
	return &ProfileService{db: db}
}

// GetProfile retrieves a profile by id
func (s *ProfileService) GetProfile(ctx context.Context, id string) (*models.Profile, error) {
	var p models.Profile
	err := s.db.QueryRowContext(ctx,
		"SELECT id, name, email, push_token FROM profiles WHERE id = ?", id).
		Scan(&p.ID, &p.Name, &p.Email, &p.PushToken)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to query profile: %w", err)
	}
	return &p, nil
}

// UpdatePushToken registers or replaces the device push token for a profile
func (s *ProfileService) UpdatePushToken(ctx context.Context, id, token string) error {
	query := `
		INSERT INTO profiles (id, name, push_token)
		VALUES (?, '', ?)
		ON DUPLICATE KEY UPDATE push_token = VALUES(push_token)
	`
	if _, err := s.db.ExecContext(ctx, query, id, token); err != nil {
		return fmt.Errorf("failed to update push token: %w", err)
	}
	return nil
}
