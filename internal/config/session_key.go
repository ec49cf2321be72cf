package config

import (
	"fmt"
)

type SessionKeyStruct struct{}

func NewSessionKeyStruct() *SessionKeyStruct {
	return &SessionKeyStruct{}
}

// UserSessionKey returns the Redis key holding a user's active session JTI.
func (r *SessionKeyStruct) UserSessionKey(userID int) string {
	return fmt.Sprintf("session:%d", userID)
}

var SessionKey = NewSessionKeyStruct()
