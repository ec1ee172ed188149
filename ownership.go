package board

import (
	goerrors "github.com/goliatone/go-errors"
)

// EnsureAuthor checks that the requester is the recorded author of the
// resource. Existence is settled before this runs, so a failure here is
// always a 403, never a 404. A resource loaded without its author relation
// is a programming error and maps to an internal failure.
func EnsureAuthor(requester *User, resource Authored) error {
	if requester == nil {
		return ErrLoginRequired
	}

	author := resource.AuthorRef()
	if author == nil {
		return goerrors.New("resource loaded without author relation", goerrors.CategoryInternal)
	}

	if author.ID != requester.ID {
		return ErrNotResourceOwner
	}

	return nil
}
