// Package nft holds the token-metadata model and the chain-facing
// response encoder.
package nft

// Attribute is a single display attribute. The attribute list is ordered
// and order is display-significant: the first attribute is always the
// original prompt.
type Attribute struct {
	TraitType string `json:"trait_type"`
	Value     string `json:"value"`
}

// TokenMetadata is the fully assembled token-metadata record. It is only
// constructed once every field, including the image reference, is final;
// partial metadata is never observable outside the assembler.
type TokenMetadata struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Image       string      `json:"image"`
	Attributes  []Attribute `json:"attributes"`
}

// AssembleMetadata builds a metadata record from finalized parts. Pure.
func AssembleMetadata(name, description, imageURI string, attributes []Attribute) TokenMetadata {
	return TokenMetadata{
		Name:        name,
		Description: description,
		Image:       imageURI,
		Attributes:  attributes,
	}
}
