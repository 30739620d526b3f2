// Package preflight provides readiness checks for the binaries and
// filesystem paths deadair depends on.
//
// These checks run in two contexts:
//   - The batch driver calls RunAll before converting anything. If a check
//     fails the batch stops rather than failing every file the same way.
//   - The CLI "deadair status" command renders the individual results.
package preflight
