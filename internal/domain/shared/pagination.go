package shared

// SortOrder is the sort direction accepted by the booking API
type SortOrder string

const (
	SortAsc  SortOrder = "Asc"
	SortDesc SortOrder = "Desc"
)

// PageRequest is an offset pagination request.
// GetAll asks the API to ignore Limit and return every node.
type PageRequest struct {
	Limit      int
	PageNumber int
	SortOrder  SortOrder
	GetAll     bool
}

// Normalize fills zero values with the given defaults
func (r PageRequest) Normalize(defaultLimit int) PageRequest {
	if r.Limit <= 0 {
		r.Limit = defaultLimit
	}
	if r.PageNumber <= 0 {
		r.PageNumber = 1
	}
	return r
}

// AllPages is the request used for dropdown lookups
func AllPages() PageRequest {
	return PageRequest{Limit: 1, PageNumber: 1, GetAll: true}
}

// Page is one page of search results
type Page[T any] struct {
	Nodes      []T `json:"nodes"`
	PageNumber int `json:"pageNumber"`
	PageSize   int `json:"pageSize"`
	TotalCount int `json:"totalCount"`
}

// TotalPages returns the number of pages for the page size
func (p Page[T]) TotalPages() int {
	if p.PageSize <= 0 {
		return 1
	}
	pages := p.TotalCount / p.PageSize
	if p.TotalCount%p.PageSize > 0 {
		pages++
	}
	return pages
}

// Ref is a reference to a related record carrying its display name
type Ref struct {
	ID   string `json:"_id"`
	Name string `json:"name,omitempty"`
}

// DeleteResult is the API answer to delete mutations
type DeleteResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
