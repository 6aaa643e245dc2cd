package curator

import (
	"errors"

	"github.com/helixml/curator/application/service"
)

// Sentinel errors returned by the Client.
var (
	// ErrNoDatabase indicates no database was configured.
	ErrNoDatabase = errors.New("curator: no database configured")

	// ErrClientClosed indicates the client has been closed.
	ErrClientClosed = service.ErrClientClosed
)
