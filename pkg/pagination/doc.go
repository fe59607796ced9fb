// Package pagination provides the rate-governed request core: single
// quota-gated calls and lazy sequences over cursor-paginated ballchasing
// endpoints.
//
// A sequence fetches strictly on demand. No page is requested until the
// consumer has drained the items of the previous one, so memory is bounded
// by one page and abandoning a sequence stops all further physical calls.
// Pages of one sequence are fetched in cursor order, never in parallel:
// each cursor is only known after decoding the page before it.
//
// Example usage:
//
//	seq := pagination.Fetch(fetcher, req, decodeReplays, nextCursor)
//	for replay, err := range seq.All(ctx) {
//		if err != nil {
//			return err
//		}
//		process(replay)
//	}
//
// Quota-exceeded (429) responses are absorbed: the fetcher reports them to
// the governor, waits out the window, and reissues the same page. Every
// other failure surfaces at the point of consumption and ends the sequence.
package pagination
