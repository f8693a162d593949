// Package pagination implements the incremental fetcher for server-paginated
// collections.
//
// The backend paginates with 1-based pageNo/pageSize query parameters and
// responds with an envelope {data, pageNo, totalPages, totalRecords}. A
// Fetcher owns exactly one live collection: the accumulated items, the page
// counters, and the loading/error flags. Consumers subscribe for snapshot
// notifications and drive loading explicitly.
//
// Example usage:
//
//	spec := pagination.NewQuerySpec("/orders", map[string]string{"status": "OPEN"})
//	fetcher := pagination.NewFetcher[Order](pagination.NewGatewaySource[Order](gw), spec, 20)
//	unsubscribe := fetcher.Subscribe(func(state pagination.PageState[Order]) {
//		render(state)
//	})
//	defer unsubscribe()
//	_ = fetcher.LoadFirstPage(ctx)
//	_ = fetcher.LoadNextPage(ctx)
//
// The fetcher guarantees:
//   - At most one request in flight per collection; duplicate load calls
//     while loading are silent no-ops.
//   - Pages load strictly in order; a response for a page at or below the
//     one already loaded is discarded.
//   - A parameter change that invalidates loaded pages resets the state and
//     reloads page 1; the superseded in-flight response, if any, is
//     discarded on arrival instead of clobbering the fresh state.
//   - A failed load records the error in the snapshot and leaves previously
//     loaded items untouched. Recovery is an explicit reload; nothing
//     retries on its own.
package pagination
