// Package tui is a Bubble Tea front end for the demo application.
//
// Every commit happens inside Update, so the tree is only ever touched from
// the program's event loop. Authentication is the one slow step: it runs as
// a tea.Cmd and its result is committed when the message comes back.
package tui
