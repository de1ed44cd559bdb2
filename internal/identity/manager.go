package identity

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/pixil98/go-arena/internal/storage"
)

// Manager resolves the active profile and owns writes back to its store.
type Manager struct {
	store   storage.Storer[*Profile]
	current string
}

// NewManager selects profileID from the store. An empty profileID falls back
// to "default", creating it when the store has nothing, so a fresh install
// can connect without hand-authoring a profile first.
func NewManager(store storage.Storer[*Profile], profileID string) (*Manager, error) {
	if profileID == "" {
		profileID = "default"
	}

	if store.Get(profileID) == nil {
		if profileID != "default" {
			return nil, fmt.Errorf("profile %q not found", profileID)
		}

		err := store.Save(profileID, &Profile{Name: "player"})
		if err != nil {
			return nil, fmt.Errorf("creating default profile: %w", err)
		}
	}

	return &Manager{
		store:   store,
		current: profileID,
	}, nil
}

// Profile returns a copy of the active profile.
func (m *Manager) Profile() Profile {
	p := m.store.Get(m.current)
	if p == nil {
		return Profile{}
	}
	return *p
}

// Token returns the profile's auth token, minting and persisting one the
// first time it is asked for.
func (m *Manager) Token() (string, error) {
	p := m.store.Get(m.current)
	if p == nil {
		return "", fmt.Errorf("profile %q not found", m.current)
	}

	if p.Token != "" {
		return p.Token, nil
	}

	p.Token = uuid.New().String()
	err := m.store.Save(m.current, p)
	if err != nil {
		return "", fmt.Errorf("saving token: %w", err)
	}

	return p.Token, nil
}

// UpdateProfile replaces the stored display name and pronouns, keeping the
// token and preferences.
func (m *Manager) UpdateProfile(name, pronouns string) error {
	p := m.store.Get(m.current)
	if p == nil {
		return fmt.Errorf("profile %q not found", m.current)
	}

	p.Name = name
	p.Pronouns = pronouns
	return m.store.Save(m.current, p)
}

// UpdatePrefs writes a preference blob under key and persists the profile.
func (m *Manager) UpdatePrefs(key string, v any) error {
	p := m.store.Get(m.current)
	if p == nil {
		return fmt.Errorf("profile %q not found", m.current)
	}

	err := p.Prefs.Set(key, v)
	if err != nil {
		return err
	}

	return m.store.Save(m.current, p)
}

// Prefs reads the preference blob at key into out, reporting presence.
func (m *Manager) Prefs(key string, out any) (bool, error) {
	p := m.store.Get(m.current)
	if p == nil {
		return false, nil
	}
	return p.Prefs.Get(key, out)
}
