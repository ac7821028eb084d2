package utils

import "github.com/google/uuid"

func newTokenID() string {
	return uuid.NewString()
}

// IsUUID reports whether s is a well-formed UUID, as used for every primary key.
func IsUUID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}
