package command

import (
	"github.com/pixil98/go-arena/internal/identity"
	"github.com/pixil98/go-arena/internal/storage"
)

type IdentityConfig struct {
	// Profile names which stored profile this install plays as. Empty
	// falls back to the manager's default.
	Profile string `json:"profile"`
}

func (c *IdentityConfig) BuildManager(store storage.Storer[*identity.Profile]) (*identity.Manager, error) {
	return identity.NewManager(store, c.Profile)
}
