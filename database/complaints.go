package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"complaint-service/geocell"
	"complaint-service/models"
)

// ComplaintService handles all complaint database operations
type ComplaintService struct {
	db *sql.DB
}

// NewComplaintService creates a new complaint store instance
func NewComplaintService(db *sql.DB) *ComplaintService {
	return &ComplaintService{db: db}
}

// CreateComplaint persists a new complaint with its initial history entry.
// The complaint row, its image references and the "filed" history entry are
// written in one transaction.
func (s *ComplaintService) CreateComplaint(ctx context.Context, c *models.Complaint) (*models.Complaint, error) {
	now := time.Now().UTC()

	var geoCell sql.NullInt64
	if c.Latitude != nil && c.Longitude != nil {
		geoCell = sql.NullInt64{Int64: geocell.ID(*c.Latitude, *c.Longitude), Valid: true}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, `
		INSERT INTO complaints
			(filer_id, filer_name, category, location, latitude, longitude, geo_cell, description, assigned_resolver, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.FilerID, c.FilerName, c.Category, c.Location,
		c.Latitude, c.Longitude, geoCell, c.Description,
		c.AssignedResolver, models.StatusSubmitted, now)
	if err != nil {
		return nil, fmt.Errorf("failed to insert complaint: %w", err)
	}

	seq, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get complaint seq: %w", err)
	}

	for position, key := range c.Images {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO complaint_images (complaint_seq, position, image_key)
			VALUES (?, ?, ?)`,
			seq, position, key); err != nil {
			return nil, fmt.Errorf("failed to insert complaint image: %w", err)
		}
	}

	entry := models.HistoryEntry{
		Status:    models.StatusSubmitted,
		Actor:     c.FilerID,
		Remark:    "Complaint filed",
		Timestamp: now,
	}
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO complaint_history (complaint_seq, status, actor, remark, ts)
		VALUES (?, ?, ?, ?, ?)`,
		seq, entry.Status, entry.Actor, entry.Remark, entry.Timestamp); err != nil {
		return nil, fmt.Errorf("failed to insert history entry: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	stored := *c
	stored.Seq = seq
	stored.Status = models.StatusSubmitted
	stored.CreatedAt = now
	stored.History = []models.HistoryEntry{entry}
	return &stored, nil
}

// GetComplaint retrieves a complaint with its images and full history
func (s *ComplaintService) GetComplaint(ctx context.Context, seq int64) (*models.Complaint, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT seq, filer_id, filer_name, category, location, latitude, longitude,
			description, assigned_resolver, status, rating, feedback_text, created_at
		FROM complaints WHERE seq = ?`, seq)

	c, err := scanComplaint(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to query complaint: %w", err)
	}

	if err := s.loadImages(ctx, c); err != nil {
		return nil, err
	}
	if err := s.loadHistory(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// ListComplaints returns complaints matching the filter, newest first, with
// images and history included
func (s *ComplaintService) ListComplaints(ctx context.Context, filter models.ComplaintFilter) ([]models.Complaint, error) {
	query := `
		SELECT seq, filer_id, filer_name, category, location, latitude, longitude,
			description, assigned_resolver, status, rating, feedback_text, created_at
		FROM complaints`
	var conditions []string
	var args []interface{}

	if filter.FilerID != "" {
		conditions = append(conditions, "filer_id = ?")
		args = append(args, filter.FilerID)
	}
	if filter.AssignedResolver != "" {
		conditions = append(conditions, "assigned_resolver = ?")
		args = append(args, filter.AssignedResolver)
	}
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY created_at DESC, seq DESC"

	return s.queryComplaints(ctx, query, args...)
}

// ListNearby returns complaints located in the S2 cell neighborhood of the
// given coordinates, newest first
func (s *ComplaintService) ListNearby(ctx context.Context, lat, lng float64) ([]models.Complaint, error) {
	cells := geocell.Neighborhood(lat, lng)
	placeholders := make([]string, len(cells))
	args := make([]interface{}, len(cells))
	for i, cell := range cells {
		placeholders[i] = "?"
		args[i] = cell
	}

	query := fmt.Sprintf(`
		SELECT seq, filer_id, filer_name, category, location, latitude, longitude,
			description, assigned_resolver, status, rating, feedback_text, created_at
		FROM complaints WHERE geo_cell IN (%s)
		ORDER BY created_at DESC, seq DESC`, strings.Join(placeholders, ", "))

	return s.queryComplaints(ctx, query, args...)
}

// AppendHistoryAndSetStatus atomically validates the transition, sets the
// new status (and resolver, if given) and appends a history entry. The
// complaint row is locked for the duration of the transaction, so two
// concurrent updates on the same complaint serialize instead of losing a
// history entry.
func (s *ComplaintService) AppendHistoryAndSetStatus(ctx context.Context, seq int64, entry models.HistoryEntry, newStatus models.Status, resolver *string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var current models.Status
	err = tx.QueryRowContext(ctx,
		"SELECT status FROM complaints WHERE seq = ? FOR UPDATE", seq).Scan(&current)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.ErrNotFound
		}
		return fmt.Errorf("failed to lock complaint row: %w", err)
	}

	if !current.CanTransitionTo(newStatus) {
		return &models.InvalidTransitionError{From: current, To: newStatus}
	}

	if resolver != nil {
		_, err = tx.ExecContext(ctx,
			"UPDATE complaints SET status = ?, assigned_resolver = ? WHERE seq = ?",
			newStatus, *resolver, seq)
	} else {
		_, err = tx.ExecContext(ctx,
			"UPDATE complaints SET status = ? WHERE seq = ?", newStatus, seq)
	}
	if err != nil {
		return fmt.Errorf("failed to update complaint status: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO complaint_history (complaint_seq, status, actor, remark, ts)
		VALUES (?, ?, ?, ?, ?)`,
		seq, entry.Status, entry.Actor, entry.Remark, entry.Timestamp); err != nil {
		return fmt.Errorf("failed to insert history entry: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// SetFeedback sets the citizen rating and feedback text. Re-submitting
// feedback overwrites the previous value.
func (s *ComplaintService) SetFeedback(ctx context.Context, seq int64, rating int, text string) error {
	var exists int
	err := s.db.QueryRowContext(ctx, "SELECT 1 FROM complaints WHERE seq = ?", seq).Scan(&exists)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.ErrNotFound
		}
		return fmt.Errorf("failed to check complaint existence: %w", err)
	}

	if _, err := s.db.ExecContext(ctx,
		"UPDATE complaints SET rating = ?, feedback_text = ? WHERE seq = ?",
		rating, text, seq); err != nil {
		return fmt.Errorf("failed to set feedback: %w", err)
	}
	return nil
}

func (s *ComplaintService) queryComplaints(ctx context.Context, query string, args ...interface{}) ([]models.Complaint, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query complaints: %w", err)
	}
	defer rows.Close()

	var complaints []models.Complaint
	for rows.Next() {
		c, err := scanComplaint(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan complaint: %w", err)
		}
		complaints = append(complaints, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate complaints: %w", err)
	}

	for i := range complaints {
		if err := s.loadImages(ctx, &complaints[i]); err != nil {
			return nil, err
		}
		if err := s.loadHistory(ctx, &complaints[i]); err != nil {
			return nil, err
		}
	}
	return complaints, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanComplaint(row rowScanner) (*models.Complaint, error) {
	var c models.Complaint
	var latitude, longitude sql.NullFloat64
	var rating sql.NullInt64
	var feedback sql.NullString

	err := row.Scan(&c.Seq, &c.FilerID, &c.FilerName, &c.Category, &c.Location,
		&latitude, &longitude, &c.Description, &c.AssignedResolver, &c.Status,
		&rating, &feedback, &c.CreatedAt)
	if err != nil {
		return nil, err
	}

	if latitude.Valid && longitude.Valid {
		c.Latitude = &latitude.Float64
		c.Longitude = &longitude.Float64
	}
	if rating.Valid {
		r := int(rating.Int64)
		c.Rating = &r
	}
	if feedback.Valid {
		c.FeedbackText = feedback.String
	}
	return &c, nil
}

func (s *ComplaintService) loadImages(ctx context.Context, c *models.Complaint) error {
	rows, err := s.db.QueryContext(ctx,
		"SELECT image_key FROM complaint_images WHERE complaint_seq = ? ORDER BY position", c.Seq)
	if err != nil {
		return fmt.Errorf("failed to query complaint images: %w", err)
	}
	defer rows.Close()

	c.Images = []string{}
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return fmt.Errorf("failed to scan image key: %w", err)
		}
		c.Images = append(c.Images, key)
	}
	return rows.Err()
}

func (s *ComplaintService) loadHistory(ctx context.Context, c *models.Complaint) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT status, actor, remark, ts FROM complaint_history
		WHERE complaint_seq = ? ORDER BY ts, id`, c.Seq)
	if err != nil {
		return fmt.Errorf("failed to query complaint history: %w", err)
	}
	defer rows.Close()

	c.History = []models.HistoryEntry{}
	for rows.Next() {
		var entry models.HistoryEntry
		if err := rows.Scan(&entry.Status, &entry.Actor, &entry.Remark, &entry.Timestamp); err != nil {
			return fmt.Errorf("failed to scan history entry: %w", err)
		}
		c.History = append(c.History, entry)
	}
	return rows.Err()
}
