package catalog

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Category is one of the supported trading card games
type Category string

// Language is the print language of a product
type Language string

// ProductType describes how a product is packaged
type ProductType string

// Era is a chronological grouping of Pokémon sets
type Era string

const (
	Riftbound Category = "Riftbound"
	Pokemon   Category = "Pokémon"
)

const (
	English Language = "Englisch"
	German  Language = "Deutsch"
	Chinese Language = "Chinesisch"
)

const (
	Display          ProductType = "Display"
	SlimDisplay      ProductType = "Slim Display"
	JumboDisplay     ProductType = "Jumbo Display"
	Booster          ProductType = "Booster"
	SleevedBooster   ProductType = "Sleeved Booster"
	BoosterBundle    ProductType = "Booster Bundle"
	ThreePackBlister ProductType = "3-Pack-Blister"
	Collection       ProductType = "Kollektion"
)

const (
	XYSeries      Era = "XY Series"
	SunMoon       Era = "Sun & Moon"
	SwordShield   Era = "Sword & Shield"
	ScarletViolet Era = "Scarlet & Violet"
	MegaEvolution Era = "Mega Evolution"
)

var (
	// Categories lists the supported games
	Categories = []Category{Riftbound, Pokemon}

	// Languages lists the supported print languages
	Languages = []Language{English, German, Chinese}

	// ProductTypes lists the packaging types in the order the add form offers them
	ProductTypes = []ProductType{
		Display,
		SlimDisplay,
		JumboDisplay,
		Booster,
		SleevedBooster,
		BoosterBundle,
		ThreePackBlister,
		Collection,
	}

	// Eras is ordered oldest first
	Eras = []Era{XYSeries, SunMoon, SwordShield, ScarletViolet, MegaEvolution}

	// EraSets maps every era to its known sets in release order
	EraSets = map[Era][]string{
		XYSeries: {
			"XY Base", "Flashfire", "Furious Fists", "Phantom Forces", "Primal Clash",
			"Double Crisis", "Roaring Skies", "Ancient Origins", "BREAKthrough",
			"BREAKpoint", "Generations", "Fates Collide", "Steam Siege", "Evolutions",
		},
		SunMoon: {
			"Sun & Moon Base", "Guardians Rising", "Burning Shadows", "Shining Legends",
			"Crimson Invasion", "Ultra Prism", "Forbidden Light", "Celestial Storm",
			"Dragon Majesty", "Lost Thunder", "Team Up", "Detective Pikachu",
			"Unbroken Bonds", "Unified Minds", "Hidden Fates", "Cosmic Eclipse",
		},
		SwordShield: {
			"Sword & Shield Base", "Rebel Clash", "Darkness Ablaze", "Champions Path",
			"Vivid Voltage", "Shining Fates", "Battle Styles", "Brilliant Stars",
			"Astral Radiance", "Pokemon GO", "Lost Origin", "Silver Tempest",
			"Crown Zenith",
		},
		ScarletViolet: {
			"Scarlet & Violet Base", "Paldea Evolved", "Obsidian Flames", "151",
			"Paradox Rift", "Paldean Fates", "Temporal Forces", "Twilight Masquerade",
			"Shrouded Fable", "Stellar Crown", "Surging Sparks", "Prismatic Evolution",
			"Journey Together", "Destined Rivals", "Black Bolt", "White Flare",
		},
		MegaEvolution: {
			"Mega Evolution Base", "Phantasmal Flames", "Ascended Heroes",
			"Perfect Order", "Chaos Rising",
		},
	}

	// RiftboundSets are the released Riftbound sets
	RiftboundSets = []string{"Origins", "Spiritforged"}

	languageCodes = map[string]Language{
		"en": English,
		"de": German,
		"zh": Chinese,
	}
)

// Valid reports whether c is a supported category
func (c Category) Valid() bool {
	for i := range Categories {
		if Categories[i] == c {
			return true
		}
	}
	return false
}

// HasEras is true for the one category that groups its sets by era
func (c Category) HasEras() bool {
	return c == Pokemon
}

func (l Language) Valid() bool {
	for i := range Languages {
		if Languages[i] == l {
			return true
		}
	}
	return false
}

func (t ProductType) Valid() bool {
	for i := range ProductTypes {
		if ProductTypes[i] == t {
			return true
		}
	}
	return false
}

func (e Era) Valid() bool {
	_, ok := EraSets[e]
	return ok
}

// ParseLanguage accepts either the display name or the two letter code
func ParseLanguage(s string) (Language, bool) {
	s = strings.TrimSpace(s)
	if l, ok := languageCodes[strings.ToLower(s)]; ok {
		return l, true
	}
	l := Language(s)
	return l, l.Valid()
}

// ParseCategory matches s against the categories ignoring case and accents,
// so "pokemon" finds Pokémon
func ParseCategory(s string) (Category, bool) {
	key := fold(s)
	for _, c := range Categories {
		if fold(string(c)) == key {
			return c, true
		}
	}
	return Category(s), false
}

// ParseEra matches s against the eras ignoring case
func ParseEra(s string) (Era, bool) {
	key := fold(s)
	for _, e := range Eras {
		if fold(string(e)) == key {
			return e, true
		}
	}
	return Era(s), false
}

// ParseProductType matches s against the product types ignoring case
func ParseProductType(s string) (ProductType, bool) {
	key := fold(s)
	for _, t := range ProductTypes {
		if fold(string(t)) == key {
			return t, true
		}
	}
	return ProductType(s), false
}

// fold lowercases s and strips combining marks
func fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, strings.TrimSpace(s))
	if err != nil {
		out = s
	}
	return strings.ToLower(out)
}

// KnownSets returns the sets the add flow offers for a category / era pair.
// An era-bearing category without an era has no known sets yet.
func KnownSets(c Category, e Era) []string {
	if !c.HasEras() {
		if c == Riftbound {
			return append([]string(nil), RiftboundSets...)
		}
		return nil
	}
	if sets, ok := EraSets[e]; ok {
		return append([]string(nil), sets...)
	}
	return nil
}

// MatchSet returns the known set of the category / era pair matching s
// ignoring case. Custom sets come back trimmed and unchanged.
func MatchSet(c Category, e Era, s string) (string, bool) {
	key := fold(s)
	for _, set := range KnownSets(c, e) {
		if fold(set) == key {
			return set, true
		}
	}
	return strings.TrimSpace(s), false
}
