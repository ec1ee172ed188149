// Package board implements a session-backed board API: accounts with
// email verification, posts, comments, and categories, with ownership
// enforced on every mutation and a uniform response envelope at the
// HTTP boundary.
package board
