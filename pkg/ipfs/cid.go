package ipfs

import (
	"fmt"

	"github.com/ipfs/go-cid"
	"github.com/multiformats/go-multihash"
)

// ComputeCID derives the content identifier the store would assign for
// the same bytes: CIDv1, raw codec, SHA2-256 multihash. Pure; no network.
func ComputeCID(data []byte) (string, error) {
	digest, err := multihash.Sum(data, multihash.SHA2_256, -1)
	if err != nil {
		return "", fmt.Errorf("failed to hash content: %w", err)
	}

	return cid.NewCidV1(cid.Raw, digest).String(), nil
}

// URI builds an ipfs:// URI from a content identifier, with an optional
// filename segment for content addressed through a directory.
func URI(contentID, filename string) string {
	if filename == "" {
		return "ipfs://" + contentID
	}

	return fmt.Sprintf("ipfs://%s/%s", contentID, filename)
}

// GatewayURL builds an HTTP gateway URL for a content identifier.
func GatewayURL(contentID, gateway string) string {
	for len(gateway) > 0 && gateway[len(gateway)-1] == '/' {
		gateway = gateway[:len(gateway)-1]
	}

	return fmt.Sprintf("%s/ipfs/%s", gateway, contentID)
}
