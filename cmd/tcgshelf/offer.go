package main

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"stillgrove.com/tcgshelf/pkg/catalog"
)

const offerFormat = "URL;PRICE;SHIPPING[;VARIANT[;STORE]]"

var offerUsage = fmt.Sprintf(
	"retailer offer as %q, repeatable. STORE defaults to the shop behind URL; known stores: %s",
	offerFormat,
	strings.Join(catalog.KnownStores, ", "),
)

// parseOffer reads an --offer value. The price may use a decimal comma.
func parseOffer(raw string) (catalog.Offer, error) {
	parts := strings.Split(raw, ";")
	if len(parts) < 3 || len(parts) > 5 {
		return catalog.Offer{}, fmt.Errorf("Offer %q - expected %s", raw, offerFormat)
	}

	price, err := parsePrice(parts[1])
	if err != nil {
		return catalog.Offer{}, fmt.Errorf("Offer %q - %w", raw, err)
	}

	o := catalog.Offer{
		URL:      strings.TrimSpace(parts[0]),
		Price:    price,
		Shipping: strings.TrimSpace(parts[2]),
	}
	if len(parts) >= 4 {
		o.Variant = strings.TrimSpace(parts[3])
	}
	if len(parts) == 5 {
		o.Store, _ = catalog.ParseStore(parts[4])
	}
	return o, nil
}

func parsePrice(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "€"))
	if !strings.Contains(s, ".") {
		s = strings.Replace(s, ",", ".", 1)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return d, fmt.Errorf("invalid price %q", s)
	}
	return d, nil
}
