package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/sbilibin2017/gw-microblog/internal/models"
)

const userColumns = `id, username, email, password_hash, about_me, last_seen`

// UserReadRepository looks users up by their unique keys.
type UserReadRepository struct {
	db       *sqlx.DB
	txGetter TxGetter
}

func NewUserReadRepository(db *sqlx.DB, txGetter TxGetter) *UserReadRepository {
	return &UserReadRepository{db: db, txGetter: txGetter}
}

// GetByID returns the user with the given id, or nil if absent.
func (r *UserReadRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

// GetByUsername returns the user holding username, or nil if absent.
func (r *UserReadRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE username = $1`, username)
}

// GetByEmail returns the user holding email, or nil if absent.
func (r *UserReadRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
}

func (r *UserReadRepository) getOne(ctx context.Context, query string, arg any) (*models.User, error) {
	var user models.User
	err := sqlx.GetContext(ctx, executor(ctx, r.db, r.txGetter), &user, query, arg)

	logQuery(query, []any{arg}, user.ID, err)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// UserWriteRepository persists user records.
type UserWriteRepository struct {
	db       *sqlx.DB
	txGetter TxGetter
}

func NewUserWriteRepository(db *sqlx.DB, txGetter TxGetter) *UserWriteRepository {
	return &UserWriteRepository{db: db, txGetter: txGetter}
}

// Create inserts a new user. A username or email collision fails with
// models.ErrDuplicateIdentity and leaves no row behind.
func (r *UserWriteRepository) Create(ctx context.Context, username, email, passwordHash string) (*models.User, error) {
	query := `
		INSERT INTO users (username, email, password_hash)
		VALUES ($1, $2, $3)
		RETURNING ` + userColumns

	var user models.User
	err := sqlx.GetContext(ctx, executor(ctx, r.db, r.txGetter), &user, query, username, email, passwordHash)

	logQuery(query, []any{username, email}, user.ID, err)

	if err != nil {
		if pgErrorCode(err) == pgUniqueViolation {
			return nil, fmt.Errorf("create user %q: %w", username, models.ErrDuplicateIdentity)
		}
		return nil, err
	}
	return &user, nil
}

// UpdateProfile sets username and about-me for the user. The UNIQUE
// constraint is re-checked at commit; a collision fails with
// models.ErrDuplicateIdentity.
func (r *UserWriteRepository) UpdateProfile(ctx context.Context, id int64, username string, aboutMe *string) error {
	query := `
		UPDATE users
		SET username = $2, about_me = $3
		WHERE id = $1
	`
	args := []any{id, username, aboutMe}

	res, err := executor(ctx, r.db, r.txGetter).ExecContext(ctx, query, args...)
	var rowsAffected int64
	if res != nil {
		rowsAffected, _ = res.RowsAffected()
	}

	logQuery(query, args, rowsAffected, err)

	if err != nil {
		if pgErrorCode(err) == pgUniqueViolation {
			return fmt.Errorf("rename user %d to %q: %w", id, username, models.ErrDuplicateIdentity)
		}
		return err
	}
	if rowsAffected == 0 {
		return models.ErrUserNotFound
	}
	return nil
}

// TouchLastSeen records the time of the user's latest authenticated request.
func (r *UserWriteRepository) TouchLastSeen(ctx context.Context, id int64, at time.Time) error {
	query := `UPDATE users SET last_seen = $2 WHERE id = $1`
	args := []any{id, at}

	_, err := executor(ctx, r.db, r.txGetter).ExecContext(ctx, query, args...)

	logQuery(query, args, nil, err)

	return err
}
