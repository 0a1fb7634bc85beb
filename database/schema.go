package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/apex/log"
)

// EnsureTables creates the complaint tables if they don't exist
func EnsureTables(ctx context.Context, db *sql.DB) error {
	queries := []string{
		createComplaintsTable,
		createComplaintImagesTable,
		createComplaintHistoryTable,
		createProfilesTable,
	}

	for _, query := range queries {
		if _, err := db.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to ensure tables: %w", err)
		}
	}

	log.Info("Complaint tables ensured")
	return nil
}

const createComplaintsTable = `
	CREATE TABLE IF NOT EXISTS complaints (
		seq INT NOT NULL AUTO_INCREMENT,
		filer_id VARCHAR(255) NOT NULL,
		filer_name VARCHAR(255) NOT NULL,
		category VARCHAR(255) NOT NULL,
		location VARCHAR(512) NOT NULL,
		latitude DOUBLE,
		longitude DOUBLE,
		geo_cell BIGINT,
		description TEXT NOT NULL,
		assigned_resolver VARCHAR(255) NOT NULL DEFAULT '',
		status ENUM('Submitted', 'InProgress', 'Resolved', 'Rejected') NOT NULL DEFAULT 'Submitted',
		rating INT,
		feedback_text TEXT,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (seq),
		INDEX filer_id_index (filer_id),
		INDEX assigned_resolver_index (assigned_resolver),
		INDEX status_index (status),
		INDEX geo_cell_index (geo_cell)
	)
`

const createComplaintImagesTable = `
	CREATE TABLE IF NOT EXISTS complaint_images (
		complaint_seq INT NOT NULL,
		position INT NOT NULL,
		image_key VARCHAR(512) NOT NULL,
		PRIMARY KEY (complaint_seq, position),
		FOREIGN KEY (complaint_seq) REFERENCES complaints(seq) ON DELETE CASCADE
	)
`

const createComplaintHistoryTable = `
	CREATE TABLE IF NOT EXISTS complaint_history (
		id INT NOT NULL AUTO_INCREMENT,
		complaint_seq INT NOT NULL,
		status ENUM('Submitted', 'InProgress', 'Resolved', 'Rejected') NOT NULL,
		actor VARCHAR(255) NOT NULL,
		remark VARCHAR(512) NOT NULL DEFAULT '',
		ts TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (id),
		INDEX complaint_seq_index (complaint_seq),
		FOREIGN KEY (complaint_seq) REFERENCES complaints(seq) ON DELETE CASCADE
	)
`

const createProfilesTable = `
	CREATE TABLE IF NOT EXISTS profiles (
		id VARCHAR(255) NOT NULL,
		name VARCHAR(255) NOT NULL,
		email VARCHAR(255) NOT NULL DEFAULT '',
		push_token VARCHAR(512) NOT NULL DEFAULT '',
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		PRIMARY KEY (id)
	)
`
