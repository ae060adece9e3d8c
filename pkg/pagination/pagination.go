package pagination

const (
	// DefaultPageSize is used when a page size is not provided.
	DefaultPageSize = 20
	// MaxPageSize caps how many rows any page query can request.
	MaxPageSize = 100
)

// Params holds offset pagination inputs. PageNumber is zero-based.
type Params struct {
	PageNumber int
	PageSize   int
}

// Normalize clamps the parameters to sane bounds.
func (p Params) Normalize() Params {
	if p.PageNumber < 0 {
		p.PageNumber = 0
	}
	if p.PageSize <= 0 {
		p.PageSize = DefaultPageSize
	}
	if p.PageSize > MaxPageSize {
		p.PageSize = MaxPageSize
	}
	return p
}

// Offset returns the row offset for the normalized page.
func (p Params) Offset() int {
	n := p.Normalize()
	return n.PageNumber * n.PageSize
}

// Limit returns the normalized page size.
func (p Params) Limit() int {
	return p.Normalize().PageSize
}
