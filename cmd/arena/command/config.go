package command

import (
	"github.com/pixil98/go-errors"
)

type Config struct {
	Client   ClientConfig   `json:"client"`
	Connect  ConnectConfig  `json:"connect"`
	Host     *HostConfig    `json:"host,omitempty"`
	Storage  StorageConfig  `json:"storage"`
	Identity IdentityConfig `json:"identity"`
}

func (c *Config) Validate() error {
	el := errors.NewErrorList()

	el.Add(c.Client.Validate())
	el.Add(c.Connect.Validate())
	if c.Host != nil {
		el.Add(c.Host.Validate())
	}
	el.Add(c.Storage.Validate())

	return el.Err()
}
