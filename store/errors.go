package store

import "errors"

// Mutations addressed at an unknown id leave the store untouched and return
// one of these, wrapped with the id. Callers that do not care may ignore them.
var (
	ErrClientNotFound   = errors.New("client not found")
	ErrActivityNotFound = errors.New("activity not found")
)
