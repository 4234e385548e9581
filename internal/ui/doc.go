// Package ui contains the Bubble Tea program that powers the to-do popup.
// Model orchestrates messages; the views own their own lists, forms and
// async loads.
//
// Message flow:
//   - Bubble Tea invokes Model.Update with incoming messages. Messages with a
//     typed handler (keys, window size, command results, store mutations,
//     backend events) go through the handler registry. Everything else is
//     forwarded by the nav.Container to the active view.
//   - Views never push other views directly. They hold nav.Link values,
//     register them with the shared nav.State when they appear, and activate
//     them to change the single current selection. The container notices the
//     generation change, makes the new view appear and slides it in.
//   - Esc pops back to the root; losing focus resets to the root without
//     animation.
//
// State ownership:
//   - The task and issue caches live in internal/state and are kept current
//     by the dispatcher, by store mutations and by the backend watcher. The
//     header summary is computed from the task cache on every render.
//   - List state (cursor, filter, marks, viewport) lives in
//     internal/ui/state.Level, one per list view.
//   - Store and tracker calls run through the command bus. Each result carries
//     a sequence number and only the newest result per request id is applied.
//     The issue list additionally tags its loads so a slow load that finishes
//     after the view reappeared is dropped.
package ui
