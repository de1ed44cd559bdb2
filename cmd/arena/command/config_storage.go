package command

import (
	"fmt"
	"os"

	"github.com/pixil98/go-errors"

	"github.com/pixil98/go-arena/internal/identity"
	"github.com/pixil98/go-arena/internal/input"
	"github.com/pixil98/go-arena/internal/sim"
	"github.com/pixil98/go-arena/internal/storage"
)

type StorageConfig struct {
	Tools    AssetConfig[*sim.ToolSpec]      `json:"tools"`
	Bindings AssetConfig[*input.BindingSpec] `json:"bindings"`
	Profiles AssetConfig[*identity.Profile]  `json:"profiles"`
}

func (c *StorageConfig) Validate() error {
	el := errors.NewErrorList()

	el.Add(c.Tools.Validate("tools"))
	el.Add(c.Bindings.Validate("bindings"))
	el.Add(c.Profiles.Validate("profiles"))

	return el.Err()
}

type AssetConfig[T storage.ValidatingSpec] struct {
	Path string `json:"path"`
}

func (c *AssetConfig[T]) Validate(name string) error {
	if c.Path == "" {
		return fmt.Errorf("%s: path is required", name)
	}
	_, err := os.Stat(c.Path)
	if err != nil {
		return fmt.Errorf("%s: invalid path %q: %w", name, c.Path, err)
	}

	return nil
}

func (c *AssetConfig[T]) BuildFileStore() (*storage.FileStore[T], error) {
	return storage.NewFileStore[T](c.Path)
}
