package pagination

// Envelope is the wire format of one backend page.
type Envelope[T any] struct {
	Data         []T `json:"data"`
	PageNo       int `json:"pageNo"`
	TotalPages   int `json:"totalPages"`
	TotalRecords int `json:"totalRecords"`
}

// PageState is the live snapshot of one paginated collection. Snapshots
// delivered to subscribers are copies; mutating a snapshot never affects
// the fetcher.
type PageState[T any] struct {
	// Items accumulated across loaded pages, in server order.
	Items []T

	// CurrentPage is the highest page loaded; 0 means nothing loaded yet.
	CurrentPage int

	// TotalPages as reported by the most recent successful response.
	// Always >= 1.
	TotalPages int

	// TotalRecords as reported by the most recent successful response.
	TotalRecords int

	// HasMore is true exactly when CurrentPage < TotalPages.
	HasMore bool

	// IsLoading is true exactly while a request for this collection is in
	// flight.
	IsLoading bool

	// LastError holds the failure of the most recent load attempt, nil
	// after a success.
	LastError error
}

// emptyState is the state of a collection before anything loaded.
func emptyState[T any]() PageState[T] {
	state := PageState[T]{TotalPages: 1}
	state.recomputeHasMore()
	return state
}

func (s *PageState[T]) recomputeHasMore() {
	s.HasMore = s.CurrentPage < s.TotalPages
}

// snapshot returns a copy safe to hand to subscribers.
func (s PageState[T]) snapshot() PageState[T] {
	copied := s
	copied.Items = make([]T, len(s.Items))
	copy(copied.Items, s.Items)
	return copied
}
