// Package dto holds the JSON shapes exchanged between the ESG backend and its
// clients.
package dto

// Envelope is the body of every API response. Status mirrors the HTTP status
// the server intended; clients must check it even on a 2xx transport status.
type Envelope[T any] struct {
	Status  int    `json:"status"`
	Data    T      `json:"data"`
	Message string `json:"message,omitempty"`
}

// OK reports whether the envelope carries a 2xx status.
func (e Envelope[T]) OK() bool {
	return e.Status >= 200 && e.Status < 300
}
