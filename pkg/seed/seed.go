package seed

import (
	_ "embed"
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v2"

	"stillgrove.com/tcgshelf/pkg/catalog"
)

// Version is the data version of the built-in products. Bump it together
// with products.yaml so existing installations pick up the new data.
const Version = 3

//go:embed products.yaml
var embedded []byte

type file struct {
	Version  int      `yaml:"version"`
	Products []record `yaml:"products"`
}

type record struct {
	Category    string  `yaml:"category"`
	Era         string  `yaml:"era"`
	Name        string  `yaml:"name"`
	Set         string  `yaml:"set"`
	Language    string  `yaml:"language"`
	ProductType string  `yaml:"productType"`
	Notes       string  `yaml:"notes"`
	CreatedAt   string  `yaml:"createdAt"`
	Links       []offer `yaml:"links"`
}

type offer struct {
	URL      string `yaml:"url"`
	Store    string `yaml:"store"`
	Price    string `yaml:"price"`
	Unit     string `yaml:"unit"`
	Shipping string `yaml:"shipping"`
	Variant  string `yaml:"variant"`
}

// Products returns a fresh copy of the built-in catalog with ids
// prod-1..prod-N in file order
func Products() []catalog.Product {
	out, _, err := Parse(embedded)
	if err != nil {
		panic(fmt.Sprintf("Seed - embedded products are broken: %v", err))
	}
	return out
}

// Parse reads a seed file and returns its products and declared version
func Parse(payload []byte) ([]catalog.Product, int, error) {
	var f file
	err := yaml.Unmarshal(payload, &f)
	if err != nil {
		return nil, 0, fmt.Errorf("Parse seed - %w", err)
	}

	out := make([]catalog.Product, 0, len(f.Products))
	for i, r := range f.Products {
		d, err := r.draft()
		if err != nil {
			return nil, 0, fmt.Errorf("Parse seed - product %d: %w", i+1, err)
		}
		err = d.Validate()
		if err != nil {
			return nil, 0, fmt.Errorf("Parse seed - product %d (%s): %w", i+1, r.Name, err)
		}
		out = append(out, catalog.NewProduct("prod-"+strconv.Itoa(i+1), r.CreatedAt, d))
	}

	return out, f.Version, nil
}

func (r record) draft() (catalog.Draft, error) {
	d := catalog.Draft{
		Category:    catalog.Category(r.Category),
		Era:         catalog.Era(r.Era),
		Name:        r.Name,
		Set:         r.Set,
		Language:    catalog.Language(r.Language),
		ProductType: catalog.ProductType(r.ProductType),
		Notes:       r.Notes,
	}
	for _, o := range r.Links {
		price, err := decimal.NewFromString(o.Price)
		if err != nil {
			return d, fmt.Errorf("price of %s - %w", o.URL, err)
		}
		d.Links = append(d.Links, catalog.Offer{
			URL:      o.URL,
			Store:    o.Store,
			Price:    price,
			Unit:     o.Unit,
			Shipping: o.Shipping,
			Variant:  o.Variant,
		})
	}

	d = d.Normalize()
	// built-in offers keep the raw URL when no store name can be derived
	for i := range d.Links {
		if d.Links[i].Store == "" {
			d.Links[i].Store = d.Links[i].URL
		}
	}
	return d, nil
}
