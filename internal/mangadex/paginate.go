package mangadex

// pageFetcher fetches and maps the window starting at offset and reports the
// total number of items upstream has.
type pageFetcher[T any] func(offset int) (items []T, total int, err error)

// walk fetches windows of size limit until the reported total is reached and
// returns every item in upstream order.
func walk[T any](limit int, fetch pageFetcher[T]) ([]T, error) {
	var all []T
	offset := 0

	for {
		items, total, err := fetch(offset)
		if err != nil {
			return nil, err
		}

		if all == nil {
			all = make([]T, 0, max(total, len(items)))
		}
		all = append(all, items...)

		if offset+limit >= total {
			return all, nil
		}
		offset += limit
	}
}

// hasNext reports whether the window at offset is followed by another one.
func hasNext(offset, limit, total int) bool {
	return offset+limit < total
}
