package identity

import (
	"fmt"

	"github.com/pixil98/go-errors"
)

// Profile is a stored player identity. The auth token is generated on first
// use and saved back, so a profile file authored by hand starts without one.
type Profile struct {
	Name     string `json:"name"`
	Pronouns string `json:"pronouns,omitempty"`
	Token    string `json:"token,omitempty"`
	Prefs    Prefs  `json:"prefs,omitempty"`
}

func (p *Profile) Validate() error {
	el := errors.NewErrorList()

	if p.Name == "" {
		el.Add(fmt.Errorf("name must be set"))
	}

	return el.Err()
}

// UserInfo is the slice of a profile that travels with a connect request.
type UserInfo struct {
	Name     string
	Pronouns string
}

func (p *Profile) UserInfo() UserInfo {
	return UserInfo{
		Name:     p.Name,
		Pronouns: p.Pronouns,
	}
}
