package service

import "errors"

// ErrValidation marks a request rejected before any work was done.
var ErrValidation = errors.New("validation failed")

// ErrClientClosed indicates the client has been closed.
var ErrClientClosed = errors.New("curator: client is closed")
