// Package domain holds the value types shared across the bot:
// identities, seen records, notifications and session state.
// It contains no I/O and no business orchestration.
package domain

import (
	"strings"
	"time"
)

// Identity is a chat participant as named in the protocol at observation
// time. Nicknames are compared case-insensitively on IRC, so the canonical
// form is lower-cased.
type Identity string

func NewIdentity(nick string) Identity {
	return Identity(strings.ToLower(nick))
}

func (i Identity) String() string {
	return string(i)
}

// SeenRecord is the last observed activity of one identity.
// At most one record per identity exists at any time.
type SeenRecord struct {
	Nick    string    `json:"nick"`
	Snippet string    `json:"snippet"`
	Channel string    `json:"channel"`
	At      time.Time `json:"at"`
}
