// Package nav implements identifier-keyed navigation for the popup UI.
//
// A State maps string identifiers to lazily built views and tracks which one
// is current. Links register destinations into a State when their owning view
// appears and select them when activated. A Container renders the current
// destination, or the root view when nothing (or an unknown identifier) is
// selected, and slides between views over a short eased transition.
//
// A State is not safe for concurrent use. It is owned by the Bubble Tea model
// and only touched from Update.
package nav
