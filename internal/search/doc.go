// Package search holds the reactive search state: the current query,
// the latest result set and the per-photo liked/expanded flags.
//
// # Controller
//
// The Controller is the single owner of that state. Presentation code
// only reads snapshots and calls the controller's operations:
//
//	ctrl := search.NewController(searcher, logger)
//	defer ctrl.Close()
//
//	ctrl.Subscribe(func(s search.State) { render(s) })
//	ctrl.SubmitQuery("cats")
//	ctrl.ToggleLiked(photoID)
//	groups := ctrl.GroupedView()
//
// # Ordering
//
// Searches complete asynchronously and may complete out of order. Each
// request carries a sequence number and only the response to the latest
// one is applied (last-query-wins).
//
// # Errors
//
// A failed search keeps the previous results and sets State.LastError,
// which wraps ErrQueryFailed. Nothing is retried automatically.
//
// # Decisions
//
//   - Blank queries are ignored.
//   - Local liked state wins once a photo has been seen; the API value
//     only seeds photos that are new to the controller.
//   - At most one photo is expanded at a time.
package search
