// Package main hosts the deadair CLI entrypoint and command graph.
//
// The Cobra-based command tree resolves configuration and logging once, then
// hands off to the workflow package for batch cuts (run), dry runs (plan),
// silence surveys (silences), and to the history store and preflight checks
// for reporting (history, status). Heavy lifting stays in internal packages;
// commands here parse flags and render output.
package main
