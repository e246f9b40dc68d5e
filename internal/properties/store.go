package properties

import "context"

// Store is the repository port for property search. Implementations return
// the full unpaginated hit list ordered by account; the service paginates.
type Store interface {
	Search(ctx context.Context, q Query) ([]*Summary, error)
}
