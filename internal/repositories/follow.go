package repositories

import (
	"context"

	"github.com/jmoiron/sqlx"
)

// FollowRepository stores the follower relation between users.
type FollowRepository struct {
	db       *sqlx.DB
	txGetter TxGetter
}

func NewFollowRepository(db *sqlx.DB, txGetter TxGetter) *FollowRepository {
	return &FollowRepository{db: db, txGetter: txGetter}
}

// Follow makes followerID follow followedID. Following twice is a no-op.
func (r *FollowRepository) Follow(ctx context.Context, followerID, followedID int64) error {
	query := `
		INSERT INTO followers (follower_id, followed_id)
		VALUES ($1, $2)
		ON CONFLICT DO NOTHING
	`
	return r.exec(ctx, query, followerID, followedID)
}

// Unfollow removes the relation if present.
func (r *FollowRepository) Unfollow(ctx context.Context, followerID, followedID int64) error {
	query := `DELETE FROM followers WHERE follower_id = $1 AND followed_id = $2`
	return r.exec(ctx, query, followerID, followedID)
}

// IsFollowing reports whether followerID follows followedID.
func (r *FollowRepository) IsFollowing(ctx context.Context, followerID, followedID int64) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM followers WHERE follower_id = $1 AND followed_id = $2)`

	var following bool
	err := sqlx.GetContext(ctx, executor(ctx, r.db, r.txGetter), &following, query, followerID, followedID)

	logQuery(query, []any{followerID, followedID}, following, err)

	return following, err
}

// CountFollowers returns how many users follow userID.
func (r *FollowRepository) CountFollowers(ctx context.Context, userID int64) (int, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM followers WHERE followed_id = $1`, userID)
}

// CountFollowing returns how many users userID follows.
func (r *FollowRepository) CountFollowing(ctx context.Context, userID int64) (int, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM followers WHERE follower_id = $1`, userID)
}

func (r *FollowRepository) count(ctx context.Context, query string, userID int64) (int, error) {
	var n int
	err := sqlx.GetContext(ctx, executor(ctx, r.db, r.txGetter), &n, query, userID)

	logQuery(query, []any{userID}, n, err)

	return n, err
}

func (r *FollowRepository) exec(ctx context.Context, query string, args ...any) error {
	res, err := executor(ctx, r.db, r.txGetter).ExecContext(ctx, query, args...)
	var rowsAffected int64
	if res != nil {
		rowsAffected, _ = res.RowsAffected()
	}

	logQuery(query, args, rowsAffected, err)

	return err
}
