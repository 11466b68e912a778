package repositories

import (
	"context"
	"fmt"
	"iter"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/sbilibin2017/gw-microblog/internal/models"
)

const postSelect = `
	SELECT p.id, p.body, p.timestamp, p.user_id, u.username AS author
	FROM posts p
	JOIN users u ON u.id = p.user_id
`

// PostWriteRepository appends posts.
type PostWriteRepository struct {
	db       *sqlx.DB
	txGetter TxGetter
}

func NewPostWriteRepository(db *sqlx.DB, txGetter TxGetter) *PostWriteRepository {
	return &PostWriteRepository{db: db, txGetter: txGetter}
}

// Create inserts a post for userID. A missing author fails with models.ErrUserNotFound.
func (r *PostWriteRepository) Create(ctx context.Context, userID int64, body string, at time.Time) (*models.Post, error) {
	query := `
		INSERT INTO posts (body, timestamp, user_id)
		VALUES ($1, $2, $3)
		RETURNING id, body, timestamp, user_id
	`

	var post models.Post
	err := sqlx.GetContext(ctx, executor(ctx, r.db, r.txGetter), &post, query, body, at, userID)

	logQuery(query, []any{body, at, userID}, post.ID, err)

	if err != nil {
		if pgErrorCode(err) == pgForeignKeyViolation {
			return nil, fmt.Errorf("create post for user %d: %w", userID, models.ErrUserNotFound)
		}
		return nil, err
	}
	return &post, nil
}

// PostReadRepository reads posts newest first.
type PostReadRepository struct {
	db       *sqlx.DB
	txGetter TxGetter
}

func NewPostReadRepository(db *sqlx.DB, txGetter TxGetter) *PostReadRepository {
	return &PostReadRepository{db: db, txGetter: txGetter}
}

// ListByAuthor returns one page of the author's posts, newest first.
func (r *PostReadRepository) ListByAuthor(ctx context.Context, userID int64, limit, offset int) ([]models.Post, error) {
	query := postSelect + `
		WHERE p.user_id = $1
		ORDER BY p.timestamp DESC, p.id DESC
		LIMIT $2 OFFSET $3
	`
	return r.list(ctx, query, userID, limit, offset)
}

// ListFeed returns one page of the user's own posts and the posts of
// everyone the user follows, newest first.
func (r *PostReadRepository) ListFeed(ctx context.Context, userID int64, limit, offset int) ([]models.Post, error) {
	query := postSelect + `
		WHERE p.user_id = $1
		   OR p.user_id IN (SELECT followed_id FROM followers WHERE follower_id = $1)
		ORDER BY p.timestamp DESC, p.id DESC
		LIMIT $2 OFFSET $3
	`
	return r.list(ctx, query, userID, limit, offset)
}

// ListAll returns one page of all posts, newest first.
func (r *PostReadRepository) ListAll(ctx context.Context, limit, offset int) ([]models.Post, error) {
	query := postSelect + `
		ORDER BY p.timestamp DESC, p.id DESC
		LIMIT $1 OFFSET $2
	`
	return r.list(ctx, query, limit, offset)
}

func (r *PostReadRepository) list(ctx context.Context, query string, args ...any) ([]models.Post, error) {
	posts := []models.Post{}
	err := sqlx.SelectContext(ctx, executor(ctx, r.db, r.txGetter), &posts, query, args...)

	logQuery(query, args, len(posts), err)

	if err != nil {
		return nil, err
	}
	return posts, nil
}

// IterateByAuthor yields every post by the author, newest first. Rows are
// streamed from a single statement, so one pass sees a consistent snapshot.
// Each range over the sequence runs the query again. The underlying
// connection is busy until the range loop ends.
func (r *PostReadRepository) IterateByAuthor(ctx context.Context, userID int64) iter.Seq2[models.Post, error] {
	query := postSelect + `
		WHERE p.user_id = $1
		ORDER BY p.timestamp DESC, p.id DESC
	`
	return func(yield func(models.Post, error) bool) {
		rows, err := executor(ctx, r.db, r.txGetter).QueryxContext(ctx, query, userID)

		logQuery(query, []any{userID}, nil, err)

		if err != nil {
			yield(models.Post{}, err)
			return
		}
		defer rows.Close()

		for rows.Next() {
			var post models.Post
			if err := rows.StructScan(&post); err != nil {
				yield(models.Post{}, err)
				return
			}
			if !yield(post, nil) {
				return
			}
		}
		if err := rows.Err(); err != nil {
			yield(models.Post{}, err)
		}
	}
}
