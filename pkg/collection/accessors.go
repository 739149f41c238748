package collection

import "github.com/cardbinder/cardbinder/pkg/listing"

// PoolAccessor is a card accessor with a synthetic "position" field that
// combines the owning pack's number with the card's own number into a
// composite key. A single string sort on "position" then orders cards by
// pack first and in-pack position second, with unnumbered cards trailing
// their pack group.
func PoolAccessor(packNumber func(packId string) *int) listing.Accessor[*Card] {
	return func(c *Card, field string) any {
		if c == nil {
			return nil
		}
		if field == "position" {
			return listing.CompositeNumberKey(packNumber(c.PackId), c.Number)
		}
		return c.Field(field)
	}
}
