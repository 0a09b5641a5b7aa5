// Package domain contains entity without logic, just meta-data
package domain

import (
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
)

const MaxDisplayNameLen = 64

// ClientID names one live connection. It is issued by the server on connect
// and never reused.
type ClientID string

func NewClientID() ClientID {
	return ClientID(uuid.NewString())
}

// NormalizeDisplayName trims surrounding space and cuts the name to
// MaxDisplayNameLen runes. An empty result means "no display name".
func NormalizeDisplayName(name string) string {
	name = strings.TrimSpace(name)
	if utf8.RuneCountInString(name) <= MaxDisplayNameLen {
		return name
	}
	runes := []rune(name)
	return string(runes[:MaxDisplayNameLen])
}
