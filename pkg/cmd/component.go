// Package cmd holds the shared wiring the binaries use to assemble the
// pipeline from configuration.
package cmd

import (
	"fmt"
	"log/slog"

	"github.com/ethereum/go-ethereum/common"

	"github.com/avsworks/artisan/pkg/artist"
	"github.com/avsworks/artisan/pkg/chain"
	"github.com/avsworks/artisan/pkg/config"
	"github.com/avsworks/artisan/pkg/diffusion"
	"github.com/avsworks/artisan/pkg/ipfs"
	"github.com/avsworks/artisan/pkg/ollama"
)

// NewComponent builds the pipeline component and every enabled
// collaborator from validated configuration.
func NewComponent(cfg config.Config, logger *slog.Logger) (*artist.Component, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	profile := artist.Profile{
		OwnershipCheck:    cfg.OwnershipCheck,
		ImageGeneration:   cfg.ImageGeneration,
		StoreUpload:       cfg.StoreUpload,
		DeriveImagePrompt: cfg.DeriveImagePrompt,
	}

	deps := artist.Deps{
		Text: ollama.NewClient(cfg.OllamaURL, cfg.OllamaModel),
	}

	if profile.ImageGeneration {
		deps.Image = diffusion.NewClient(cfg.ImageAPIURL, cfg.ImageAPIKey)
	}

	if profile.StoreUpload {
		deps.Store = ipfs.NewClient(cfg.IPFSAPIURL, cfg.IPFSAPIKey, logger)
	}

	var nftContract common.Address

	if profile.OwnershipCheck {
		registry, err := chain.LoadRegistry(cfg.ChainRegistryPath)
		if err != nil {
			return nil, err
		}

		oracle, err := chain.DialOracle(registry, cfg.ChainName)
		if err != nil {
			return nil, err
		}

		deps.Ownership = oracle
		nftContract = common.HexToAddress(cfg.NFTContract)
	}

	component, err := artist.NewComponent(deps, nftContract, profile, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to assemble pipeline: %w", err)
	}

	component.SetPersona(cfg.Persona)

	return component, nil
}
