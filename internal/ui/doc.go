// Package ui is roster's terminal interface, built on Bubble Tea.
//
// # Views
//
// Three views share one root Model:
//
//   - Users: the user list, loaded on start, with a debounced search box
//     and a "Showing X of Y users" count
//   - Details: one user's profile and posts; choosing a post loads its comments
//   - Form: create or edit a user, write or edit a post, add a comment
//
// # Async Requests
//
// Every remote call runs through an async.Request. Views never block: they
// start an attempt, keep rendering from the request's State, and receive a
// requestSettledMsg once the attempt's Done channel closes. Messages from
// attempts that were superseded or reset are ignored.
//
// # Forms
//
// The Form view drives a form.Form through the formController adapter.
// Typing calls SetValue, leaving a field marks it touched, and errors are
// shown only for touched fields. Submission runs in a command so the UI
// keeps drawing the spinner while the API answers.
//
// # Key Bindings
//
//   - j/k, g/G: Move selection
//   - enter: Open details / load comments
//   - /: Search users (users view)
//   - n: New user
//   - r: Reload or retry the failed request
//   - e, d: Edit or delete the user (details view)
//   - p, E, c: New post, edit post, add comment (details view)
//   - tab/shift+tab: Move between form fields
//   - ctrl+s, ctrl+r: Save or reset a form
//   - esc: Back / cancel
//   - T: Cycle theme
//   - ?: Toggle help
//   - ctrl+c: Quit
package ui
