package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/cloud-classroom/internal/models"
)

// UserRepository archives user directory snapshots in Postgres.
//
// Expected schema:
//
//	CREATE TABLE classroom_users (
//	    id          INTEGER PRIMARY KEY,
//	    username    TEXT NOT NULL UNIQUE,
//	    password    TEXT NOT NULL,
//	    role_code   SMALLINT NOT NULL,
//	    archived_at TIMESTAMPTZ NOT NULL
//	);
type UserRepository struct {
	db *sqlx.DB
}

// NewUserRepository creates a new instance of UserRepository.
func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

type archivedUser struct {
	models.UserRecord
	ArchivedAt time.Time `db:"archived_at"`
}

// ReplaceAll swaps the archived snapshot for records inside one transaction.
func (r *UserRepository) ReplaceAll(ctx context.Context, records []models.UserRecord) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin user archive tx: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM classroom_users`); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("clear user archive: %w", err)
	}
	const query = `INSERT INTO classroom_users (id, username, password, role_code, archived_at)
VALUES (:id, :username, :password, :role_code, :archived_at)`
	now := time.Now().UTC()
	for _, rec := range records {
		row := archivedUser{UserRecord: rec, ArchivedAt: now}
		if _, err := tx.NamedExecContext(ctx, query, row); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("archive user %d: %w", rec.ID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit user archive tx: %w", err)
	}
	return nil
}

// List returns the archived records ordered by id.
func (r *UserRepository) List(ctx context.Context) ([]models.UserRecord, error) {
	const query = `SELECT id, username, password, role_code FROM classroom_users ORDER BY id ASC`
	var records []models.UserRecord
	if err := r.db.SelectContext(ctx, &records, query); err != nil {
		return nil, fmt.Errorf("list archived users: %w", err)
	}
	return records, nil
}
