package contract

// ListOptions bounds list queries. A zero Limit means no limit.
type ListOptions struct {
	Limit  int
	Offset int
}

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// Page converts 1-based page parameters into list options.
func Page(page, limit int) ListOptions {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	return ListOptions{Limit: limit, Offset: (page - 1) * limit}
}
