package catalog

import "github.com/roshda/galaxy-o-meter/internal/domain"

// MissingMetaSubtitle is shown for catalog entities absent from the static table.
const MissingMetaSubtitle = "Details unavailable"

var shows = map[string]domain.EntityMeta{
	"The Acolyte": {
		ReleaseWindow: "2024",
		Summary:       "A mystery-thriller series set in the final days of the High Republic era.",
	},
	"The Mandalorian": {
		ReleaseWindow: "2019 - 2023",
		Summary:       "The story of a lone bounty hunter in the outer reaches of the galaxy.",
	},
	"Andor": {
		ReleaseWindow: "2022 -",
		Summary:       "A prequel to Rogue One focusing on Cassian Andor's early days in the Rebellion.",
	},
}

// LookupMeta returns the static metadata for an entity.
func LookupMeta(name string) (domain.EntityMeta, bool) {
	meta, ok := shows[name]
	return meta, ok
}

// Subtitle formats the "release window • summary" line, falling back to
// MissingMetaSubtitle when the entity has no metadata.
func Subtitle(name string) (string, bool) {
	meta, ok := LookupMeta(name)
	if !ok {
		return MissingMetaSubtitle, false
	}
	return meta.ReleaseWindow + " • " + meta.Summary, true
}

// MissingMeta lists catalog entities without static metadata, in catalog order.
func MissingMeta(c *domain.Catalog) []string {
	var missing []string
	for _, name := range c.Names() {
		if _, ok := LookupMeta(name); !ok {
			missing = append(missing, name)
		}
	}
	return missing
}
