package core

import "github.com/google/uuid"

// HandleID identifies a render handle across create/delete buffer log lines.
type HandleID string

func NewHandleID() HandleID {
	return HandleID(uuid.New().String())
}

// Short returns the first block of the id, enough to tell handles apart in logs.
func (id HandleID) Short() string {
	if len(id) < 8 {
		return string(id)
	}
	return string(id[:8])
}
