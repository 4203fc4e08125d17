package firestore

import "github.com/m-mizutani/goerr/v2"

// ErrNotFound is returned when an updated record does not exist
var ErrNotFound = goerr.New("record not found")
