// Package artist runs the trigger-to-response pipeline: decode the
// trigger, generate text and image content deterministically, persist the
// artifacts, and encode the chain-ready response.
package artist

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/ethereum/go-ethereum/common"

	"github.com/avsworks/artisan/pkg/diffusion"
	"github.com/avsworks/artisan/pkg/nft"
	"github.com/avsworks/artisan/pkg/ollama"
	"github.com/avsworks/artisan/pkg/trigger"
)

const (
	// TokenName is the fixed display name of generated tokens.
	TokenName = "AI Generated NFT"

	// PlaceholderImageURI stands in for the image reference when image
	// generation is disabled for a deployment.
	PlaceholderImageURI = "ipfs://placeholder"

	// imagePromptPersona steers the second text-generation call that
	// derives an image-synthesis prompt from the generated description.
	imagePromptPersona = "You turn poems into a single vivid visual scene for an image model. Reply with the scene description only."
)

// TextGenerator produces a deterministic completion for a persona and prompt.
type TextGenerator interface {
	Generate(ctx context.Context, persona, prompt string) (string, error)
}

// ImageGenerator produces a deterministic image for a prompt.
type ImageGenerator interface {
	Generate(ctx context.Context, prompt string) (diffusion.Image, error)
}

// ContentStore uploads content and returns its addressable URI.
type ContentStore interface {
	UploadContent(ctx context.Context, contentType string, content []byte) (string, error)
}

// OwnershipChecker answers whether an account holds a token of a contract.
type OwnershipChecker interface {
	QueryOwnership(ctx context.Context, account, contract common.Address) (bool, error)
}

// Profile pins which optional pipeline stages are enabled for a
// deployment. The source system shipped several divergent variants; the
// profile makes the choice explicit and testable in one place.
type Profile struct {
	OwnershipCheck    bool
	ImageGeneration   bool
	StoreUpload       bool
	DeriveImagePrompt bool
}

// DefaultProfile runs the complete pipeline with the image prompt taken
// verbatim from the trigger.
func DefaultProfile() Profile {
	return Profile{
		OwnershipCheck:  true,
		ImageGeneration: true,
		StoreUpload:     true,
	}
}

// Deps are the external collaborators of the pipeline. Collaborators for
// disabled stages may be nil.
type Deps struct {
	Text      TextGenerator
	Image     ImageGenerator
	Store     ContentStore
	Ownership OwnershipChecker
}

type Component struct {
	deps        Deps
	nftContract common.Address
	persona     string
	profile     Profile
	logger      *slog.Logger
}

func NewComponent(deps Deps, nftContract common.Address, profile Profile, logger *slog.Logger) (*Component, error) {
	if deps.Text == nil {
		return nil, errors.New("text generator is required")
	}

	if profile.ImageGeneration && deps.Image == nil {
		return nil, errors.New("image generator is required when image generation is enabled")
	}

	if profile.StoreUpload && deps.Store == nil {
		return nil, errors.New("content store is required when store upload is enabled")
	}

	if profile.OwnershipCheck && deps.Ownership == nil {
		return nil, errors.New("ownership checker is required when the ownership check is enabled")
	}

	return &Component{
		deps:        deps,
		nftContract: nftContract,
		persona:     ollama.DefaultPersona,
		profile:     profile,
		logger:      logger.With("module", "artist"),
	}, nil
}

// SetPersona overrides the system persona sent to the text service.
func (c *Component) SetPersona(persona string) {
	if persona != "" {
		c.persona = persona
	}
}

// Run processes one trigger to completion. A nil byte slice with a nil
// error means no action. Every entity built here lives and dies within
// this single call; the pipeline is a sequential chain with no retries.
func (c *Component) Run(ctx context.Context, action trigger.TriggerAction) ([]byte, error) {
	req, err := trigger.DecodeMintRequest(action)
	if err != nil {
		return nil, fmt.Errorf("failed to decode trigger: %w", err)
	}

	logger := c.logger.With("trigger_id", req.TriggerID, "kind", req.Kind.String())
	logger.Info("Processing trigger", "prompt", req.Prompt)

	description, err := c.deps.Text.Generate(ctx, c.persona, req.Prompt)
	if err != nil {
		return nil, fmt.Errorf("text generation failed: %w", err)
	}

	attributes := []nft.Attribute{{TraitType: "Prompt", Value: req.Prompt}}

	if c.profile.OwnershipCheck {
		holder, err := c.deps.Ownership.QueryOwnership(ctx, req.Sender, c.nftContract)
		if err != nil {
			return nil, fmt.Errorf("ownership query failed: %w", err)
		}

		attributes = append(attributes, nft.Attribute{TraitType: "Holder", Value: strconv.FormatBool(holder)})
	}

	imageURI := PlaceholderImageURI

	if c.profile.ImageGeneration {
		imageURI, err = c.generateAndStoreImage(ctx, req.Prompt, description, logger)
		if err != nil {
			return nil, err
		}
	}

	metadata := nft.AssembleMetadata(TokenName, description, imageURI, attributes)

	metadataJSON, err := json.Marshal(metadata)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize metadata: %w", err)
	}

	tokenURI := c.uploadOrInline(ctx, "application/json", metadataJSON, logger)

	logger.Info("Pipeline complete", "token_uri", tokenURI)

	return nft.EncodeResponse(req, tokenURI)
}

func (c *Component) generateAndStoreImage(ctx context.Context, prompt, description string, logger *slog.Logger) (string, error) {
	imagePrompt := prompt

	if c.profile.DeriveImagePrompt {
		derived, err := c.deps.Text.Generate(ctx, imagePromptPersona, description)
		if err != nil {
			return "", fmt.Errorf("image prompt derivation failed: %w", err)
		}

		imagePrompt = derived
	}

	image, err := c.deps.Image.Generate(ctx, imagePrompt)
	if err != nil {
		return "", fmt.Errorf("image generation failed: %w", err)
	}

	imageBytes, err := image.Bytes()
	if err != nil {
		return "", err
	}

	return c.uploadOrInline(ctx, "image/png", imageBytes, logger), nil
}

// uploadOrInline is the single place a failure degrades instead of
// aborting: when the store upload fails (or the stage is disabled), the
// same bytes are inlined as a base64 data URI and the invocation still
// succeeds.
func (c *Component) uploadOrInline(ctx context.Context, contentType string, content []byte, logger *slog.Logger) string {
	inline := func() string {
		return fmt.Sprintf("data:%s;base64,%s", contentType, base64.StdEncoding.EncodeToString(content))
	}

	if !c.profile.StoreUpload {
		return inline()
	}

	uri, err := c.deps.Store.UploadContent(ctx, contentType, content)
	if err != nil {
		logger.Warn("Store upload failed, falling back to data URI", "content_type", contentType, "error", err)

		return inline()
	}

	return uri
}
