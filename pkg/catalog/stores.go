package catalog

import (
	"net/url"
	"strings"

	"golang.org/x/net/publicsuffix"
)

var (
	// storeNames maps a shop's hostname (without www.) to its display name
	storeNames = map[string]string{
		"innventory.de":     "Innventory",
		"yonko-tcg.de":      "Yonko TCG",
		"card-corner.de":    "Card Corner",
		"sapphire-cards.de": "Sapphire Cards",
		"wizzardsinn.de":    "Wizzards Inn",
		"goodgameguys.de":   "Good Game Guys",
		"peer-online.de":    "Peer Online",
		"voxymoron.de":      "Voxymoron",
	}

	// KnownStores are the display names of all mapped shops in table order
	KnownStores = []string{
		"Innventory",
		"Yonko TCG",
		"Card Corner",
		"Sapphire Cards",
		"Wizzards Inn",
		"Good Game Guys",
		"Peer Online",
		"Voxymoron",
	}
)

// StoreFromURL derives a store display name from a shop URL.
// Unmapped hosts fall back to the bare hostname, unparseable URLs to "".
func StoreFromURL(rawURL string) string {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || u.Hostname() == "" {
		return ""
	}
	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")

	if name, ok := storeNames[host]; ok {
		return name
	}

	// shop.example.de and example.de are the same store
	domain, err := publicsuffix.EffectiveTLDPlusOne(host)
	if err == nil {
		if name, ok := storeNames[domain]; ok {
			return name
		}
	}

	return host
}

// ParseStore returns the known store name matching s ignoring case and
// accents. Unknown names come back trimmed and unchanged.
func ParseStore(s string) (string, bool) {
	key := fold(s)
	for _, name := range KnownStores {
		if fold(name) == key {
			return name, true
		}
	}
	return strings.TrimSpace(s), false
}
