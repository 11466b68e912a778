package models

import "time"

// PostBodyMaxLen is the maximum number of characters in a post body.
const PostBodyMaxLen = 140

// Post represents a post row joined with its author's username.
type Post struct {
	ID        int64     `json:"id" db:"id"`               // Primary key
	Body      string    `json:"body" db:"body"`           // Post text
	Timestamp time.Time `json:"timestamp" db:"timestamp"` // Creation time
	UserID    int64     `json:"user_id" db:"user_id"`     // Author
	Author    string    `json:"author" db:"author"`       // Author username, filled by read queries
}

// Page is one page of posts together with the navigation flags.
type Page struct {
	Posts   []Post `json:"posts"`
	Page    int    `json:"page"`
	HasNext bool   `json:"has_next"`
	HasPrev bool   `json:"has_prev"`
}
