// Package check validates manuscript directories before a build: required
// files and config fields, bibliography sanity, figure existence, and
// citation keys against the bibliography. Findings carry a level so the CLI
// can separate hard errors from advisory warnings.
package check
