// Package jsonapi provides the JSON:API top-level members used by list
// responses.
package jsonapi

// Meta holds non-standard meta-information about a document.
type Meta map[string]any

// Links holds links associated with a document.
type Links struct {
	Self  string `json:"self,omitempty"`
	First string `json:"first,omitempty"`
	Last  string `json:"last,omitempty"`
	Prev  string `json:"prev,omitempty"`
	Next  string `json:"next,omitempty"`
}
