package typeid

import (
	"fmt"

	"go.jetify.com/typeid/v2"
)

const (
	PrefixCustomer = "cust"
	PrefixProduct  = "prod"
	PrefixDesign   = "design"
	PrefixSnapshot = "snap"
	PrefixArtwork  = "art"
	PrefixAsset    = "asset"
	PrefixOrder    = "order"
)

func New(prefix string) string {
	id := typeid.MustGenerate(prefix)
	return id.String()
}

func NewCustomerID() string { return New(PrefixCustomer) }
func NewProductID() string  { return New(PrefixProduct) }
func NewDesignID() string   { return New(PrefixDesign) }
func NewSnapshotID() string { return New(PrefixSnapshot) }
func NewArtworkID() string  { return New(PrefixArtwork) }
func NewAssetID() string    { return New(PrefixAsset) }
func NewOrderID() string    { return New(PrefixOrder) }

func Validate(id, expectedPrefix string) error {
	parsed, err := typeid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid typeid %q: %w", id, err)
	}
	if parsed.Prefix() != expectedPrefix {
		return fmt.Errorf("expected prefix %q but got %q in id %q", expectedPrefix, parsed.Prefix(), id)
	}
	return nil
}
