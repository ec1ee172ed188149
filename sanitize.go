package board

import (
	"time"

	"github.com/google/uuid"
)

// UserResponse is the outward user shape. It never carries the password hash.
type UserResponse struct {
	ID            uuid.UUID  `json:"id"`
	Email         string     `json:"email"`
	Nickname      string     `json:"nickname"`
	ProfileImage  string     `json:"profile_image,omitempty"`
	EmailVerified bool       `json:"email_verified"`
	CreatedAt     *time.Time `json:"created_at,omitempty"`
	UpdatedAt     *time.Time `json:"updated_at,omitempty"`
}

// PostResponse composes a post with its sanitized author and category.
type PostResponse struct {
	ID        uuid.UUID     `json:"id"`
	Title     string        `json:"title"`
	Content   string        `json:"content"`
	Author    *UserResponse `json:"author,omitempty"`
	Category  *Category     `json:"category,omitempty"`
	CreatedAt *time.Time    `json:"created_at,omitempty"`
	UpdatedAt *time.Time    `json:"updated_at,omitempty"`
}

// CommentResponse composes a comment with its sanitized author.
type CommentResponse struct {
	ID        uuid.UUID     `json:"id"`
	Content   string        `json:"content"`
	Author    *UserResponse `json:"author,omitempty"`
	PostID    uuid.UUID     `json:"post_id"`
	CreatedAt *time.Time    `json:"created_at,omitempty"`
	UpdatedAt *time.Time    `json:"updated_at,omitempty"`
}

// SanitizeUser strips credentials from a user record. Pure function, the
// input record is not mutated.
func SanitizeUser(u *User) *UserResponse {
	if u == nil {
		return nil
	}

	return &UserResponse{
		ID:            u.ID,
		Email:         u.Email,
		Nickname:      u.Nickname,
		ProfileImage:  u.ProfileImage,
		EmailVerified: u.EmailVerified,
		CreatedAt:     u.CreatedAt,
		UpdatedAt:     u.UpdatedAt,
	}
}

// PostToResponse shapes a post for the boundary, sanitizing the author.
func PostToResponse(p *Post) *PostResponse {
	if p == nil {
		return nil
	}

	return &PostResponse{
		ID:        p.ID,
		Title:     p.Title,
		Content:   p.Content,
		Author:    SanitizeUser(p.Author),
		Category:  p.Category,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

// PostsToResponse shapes a list of posts, preserving order.
func PostsToResponse(posts []*Post) []*PostResponse {
	out := make([]*PostResponse, len(posts))
	for i, p := range posts {
		out[i] = PostToResponse(p)
	}
	return out
}

// CommentToResponse shapes a comment for the boundary, sanitizing the author.
func CommentToResponse(c *Comment) *CommentResponse {
	if c == nil {
		return nil
	}

	return &CommentResponse{
		ID:        c.ID,
		Content:   c.Content,
		Author:    SanitizeUser(c.Author),
		PostID:    c.PostID,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

// CommentsToResponse shapes a list of comments, preserving order.
func CommentsToResponse(comments []*Comment) []*CommentResponse {
	out := make([]*CommentResponse, len(comments))
	for i, c := range comments {
		out[i] = CommentToResponse(c)
	}
	return out
}
