package cmd

import (
	cli "github.com/urfave/cli/v3"

	"github.com/avsworks/artisan/pkg/config"
)

// PipelineFlags are the configuration flags shared by every binary.
func PipelineFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "ollama-url",
			Usage:   "Chat endpoint of the text-generation service",
			Sources: cli.EnvVars("OLLAMA_URL"),
		},
		&cli.StringFlag{
			Name:    "ollama-model",
			Usage:   "Model identifier for text generation",
			Sources: cli.EnvVars("OLLAMA_MODEL"),
		},
		&cli.StringFlag{
			Name:    "persona",
			Usage:   "System persona sent ahead of every prompt",
			Sources: cli.EnvVars("ARTISAN_PERSONA"),
		},
		&cli.StringFlag{
			Name:    "image-api-url",
			Usage:   "txt2img endpoint of the image-generation service",
			Sources: cli.EnvVars("SD_API_URL"),
		},
		&cli.StringFlag{
			Name:    "image-api-key",
			Usage:   "Optional bearer credential for the image service",
			Sources: cli.EnvVars("SD_API_KEY"),
		},
		&cli.StringFlag{
			Name:    "ipfs-api-url",
			Usage:   "Upload endpoint of the content-addressable store",
			Sources: cli.EnvVars("IPFS_API_URL"),
		},
		&cli.StringFlag{
			Name:    "ipfs-api-key",
			Usage:   "Bearer credential for the content-addressable store",
			Sources: cli.EnvVars("IPFS_API_KEY"),
		},
		&cli.StringFlag{
			Name:    "nft-contract",
			Usage:   "NFT contract address for the ownership check",
			Sources: cli.EnvVars("NFT_CONTRACT"),
		},
		&cli.StringFlag{
			Name:    "chain-name",
			Usage:   "Chain name resolved through the chain registry",
			Value:   "local",
			Sources: cli.EnvVars("CHAIN_NAME"),
		},
		&cli.StringFlag{
			Name:    "chain-registry",
			Usage:   "Path to the YAML chain registry",
			Value:   "./chains.yaml",
			Sources: cli.EnvVars("CHAIN_REGISTRY"),
		},
		&cli.BoolFlag{
			Name:    "ownership-check",
			Usage:   "Enable the sender ownership check stage",
			Sources: cli.EnvVars("STAGE_OWNERSHIP_CHECK"),
		},
		&cli.BoolFlag{
			Name:    "image-generation",
			Usage:   "Enable the image generation stage",
			Value:   true,
			Sources: cli.EnvVars("STAGE_IMAGE_GENERATION"),
		},
		&cli.BoolFlag{
			Name:    "store-upload",
			Usage:   "Enable uploads to the content-addressable store",
			Value:   true,
			Sources: cli.EnvVars("STAGE_STORE_UPLOAD"),
		},
		&cli.BoolFlag{
			Name:    "derive-image-prompt",
			Usage:   "Derive the image prompt from the generated text",
			Sources: cli.EnvVars("STAGE_DERIVE_IMAGE_PROMPT"),
		},
		&cli.StringFlag{
			Name:    "log-level",
			Usage:   "Log level (debug, info, warn, error)",
			Value:   "info",
			Sources: cli.EnvVars("LOG_LEVEL"),
		},
	}
}

// ConfigFromCommand assembles the pipeline configuration from parsed flags.
func ConfigFromCommand(command *cli.Command) config.Config {
	return config.Config{
		OllamaURL:         command.String("ollama-url"),
		OllamaModel:       command.String("ollama-model"),
		Persona:           command.String("persona"),
		ImageAPIURL:       command.String("image-api-url"),
		ImageAPIKey:       command.String("image-api-key"),
		IPFSAPIURL:        command.String("ipfs-api-url"),
		IPFSAPIKey:        command.String("ipfs-api-key"),
		NFTContract:       command.String("nft-contract"),
		ChainName:         command.String("chain-name"),
		ChainRegistryPath: command.String("chain-registry"),
		OwnershipCheck:    command.Bool("ownership-check"),
		ImageGeneration:   command.Bool("image-generation"),
		StoreUpload:       command.Bool("store-upload"),
		DeriveImagePrompt: command.Bool("derive-image-prompt"),
	}
}
