// Package demo is a small application built on the state tree: a counter,
// a todo list and a login session mounted as modules of one root, with a
// scoped summary view over all three.
//
// It backs the statetree demo command and doubles as an end-to-end fixture
// for the library packages.
package demo
