// Package pages holds the HTML views of the site. The views are written in
// the .templ files; run `templ generate` after changing them.
package pages
