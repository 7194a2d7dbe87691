package tickets

import (
	"fmt"
	"strings"
)

// TypeDescriptor is the static display metadata for one ticket type.
type TypeDescriptor struct {
	// Key is the catalog key of the type.
	Key string

	// Title is the display title used in the ticket embed.
	Title string

	// ChannelPrefix is the prefix used when deriving the channel name.
	ChannelPrefix string

	// Color is the embed colour.
	Color int

	// Image is the URL of the image shown in the ticket embed.
	Image string
}

// ChannelName derives the channel name for a ticket opened by the given user.
func (d TypeDescriptor) ChannelName(requesterName string) string {
	return fmt.Sprintf("%s-%s", d.ChannelPrefix, strings.ToLower(requesterName))
}

// Catalog is the static set of supported ticket types.
type Catalog struct {
	// order preserves the declaration order for panels and command choices.
	order []string

	types map[string]TypeDescriptor
}

// NewCatalog creates a catalog from the given descriptors.
func NewCatalog(descriptors ...TypeDescriptor) *Catalog {
	c := &Catalog{
		order: make([]string, 0, len(descriptors)),
		types: make(map[string]TypeDescriptor, len(descriptors)),
	}
	for _, d := range descriptors {
		c.order = append(c.order, d.Key)
		c.types[d.Key] = d
	}
	return c
}

// DefaultCatalog returns the catalog of supported ticket types.
func DefaultCatalog() *Catalog {
	return NewCatalog(
		TypeDescriptor{
			Key:           "help",
			Title:         "Pomoc",
			ChannelPrefix: "pomoc",
			Color:         0x3498db,
			Image:         "https://i.imgur.com/6Tm2zQd.png",
		},
		TypeDescriptor{
			Key:           "report",
			Title:         "Zgłoszenie",
			ChannelPrefix: "zgloszenie",
			Color:         0xe74c3c,
			Image:         "https://i.imgur.com/F1Yk2tN.png",
		},
		TypeDescriptor{
			Key:           "partnership",
			Title:         "Partnerstwo",
			ChannelPrefix: "partnerstwo",
			Color:         0x2ecc71,
			Image:         "https://i.imgur.com/pQ5cVxL.png",
		},
		TypeDescriptor{
			Key:           "idea",
			Title:         "Pomysł",
			ChannelPrefix: "pomysl",
			Color:         0xf1c40f,
			Image:         "https://i.imgur.com/Y8jp4dJ.png",
		},
		TypeDescriptor{
			Key:           "rewards",
			Title:         "Nagrody",
			ChannelPrefix: "nagrody",
			Color:         0x9b59b6,
			Image:         "https://i.imgur.com/kM9XhzR.png",
		},
	)
}

// Lookup returns the descriptor for the given type key.
func (c *Catalog) Lookup(key string) (TypeDescriptor, bool) {
	d, ok := c.types[key]
	return d, ok
}

// Descriptors returns all descriptors in declaration order.
func (c *Catalog) Descriptors() []TypeDescriptor {
	out := make([]TypeDescriptor, 0, len(c.order))
	for _, key := range c.order {
		out = append(out, c.types[key])
	}
	return out
}
