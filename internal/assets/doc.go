// Package assets ships the default LaTeX article template and the HTML
// preview stylesheet. Assets load from the embedded filesystem by default; a
// FilesystemLoader serves user-maintained template directories with the same
// interface.
package assets
