package transport

const (
	DefaultLimit = 20
	MaxLimit     = 20
)

type PageQuery struct {
	Search string `query:"search"`
	Limit  int    `query:"limit"`
	Offset int    `query:"offset"`
}

// Clamp normalizes limit/offset to their allowed ranges.
func (q *PageQuery) Clamp() {
	if q.Limit <= 0 || q.Limit > MaxLimit {
		q.Limit = DefaultLimit
	}
	if q.Offset < 0 {
		q.Offset = 0
	}
}
