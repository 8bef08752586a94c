// Package config carries the environment-sourced settings for the
// pipeline. The value is threaded explicitly into each client constructor
// so the pipeline stays testable with injected fakes.
package config

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Config is the full pipeline configuration. Service credentials are
// optional except the content store's, which is required before any
// upload is attempted.
type Config struct {
	// Text generation.
	OllamaURL   string `validate:"omitempty,url"`
	OllamaModel string
	Persona     string

	// Image generation. The API key is optional; the service may be
	// unauthenticated.
	ImageAPIURL string `validate:"omitempty,url"`
	ImageAPIKey string

	// Content-addressable store.
	IPFSAPIURL string `validate:"omitempty,url"`
	IPFSAPIKey string

	// Ownership oracle.
	NFTContract string `validate:"omitempty,eth_addr"`
	ChainName   string

	// Chain registry YAML file, resolved by ChainName.
	ChainRegistryPath string

	// Stage toggles pinning the deployment profile.
	OwnershipCheck    bool
	ImageGeneration   bool
	StoreUpload       bool
	DeriveImagePrompt bool
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks field formats and the cross-field requirements the
// enabled stages impose. Failures here are configuration errors; nothing
// has touched the network yet.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if c.StoreUpload {
		if c.IPFSAPIURL == "" {
			return errors.New("ipfs api url is required when store upload is enabled")
		}

		if c.IPFSAPIKey == "" {
			return errors.New("ipfs api key is required when store upload is enabled")
		}
	}

	if c.OwnershipCheck {
		if c.NFTContract == "" {
			return errors.New("nft contract address is required when the ownership check is enabled")
		}

		if c.ChainName == "" {
			return errors.New("chain name is required when the ownership check is enabled")
		}

		if c.ChainRegistryPath == "" {
			return errors.New("chain registry path is required when the ownership check is enabled")
		}
	}

	if c.ImageGeneration && c.ImageAPIURL == "" {
		return errors.New("image api url is required when image generation is enabled")
	}

	return nil
}
