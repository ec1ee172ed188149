package board

import (
	"github.com/uptrace/bun"
)

// Pagination is the resolved form of the page / item-size query parameters.
// The zero convention is all-or-nothing: if either input is zero the whole
// result set is returned in stable (created_at, id) order and All is set.
type Pagination struct {
	All    bool
	Offset int
	Limit  int
}

// ResolvePage normalizes (page, itemSize) into offset/limit. Either value
// being zero means "return everything"; both positive means
// offset = (page-1)*itemSize, limit = itemSize; anything else is rejected
// before any query executes.
func ResolvePage(page, itemSize int) (Pagination, error) {
	if page < 0 || itemSize < 0 {
		return Pagination{}, ErrInvalidPageParams
	}

	if page == 0 || itemSize == 0 {
		return Pagination{All: true}, nil
	}

	return Pagination{
		Offset: (page - 1) * itemSize,
		Limit:  itemSize,
	}, nil
}

// Apply is a bun select criteria shared by every list query. Ordering is
// always applied so page boundaries stay stable between requests.
func (p Pagination) Apply(q *bun.SelectQuery) *bun.SelectQuery {
	q = q.OrderExpr("?TableAlias.created_at ASC, ?TableAlias.id ASC")

	if p.All {
		return q
	}

	return q.Offset(p.Offset).Limit(p.Limit)
}
