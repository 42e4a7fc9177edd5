package export

import (
	"fmt"
	"io"

	"github.com/gocarina/gocsv"

	"stillgrove.com/tcgshelf/pkg/catalog"
)

// Row is one offer of one product, flattened for spreadsheets
type Row struct {
	ID          string `csv:"id"`
	Category    string `csv:"category"`
	Era         string `csv:"era"`
	Name        string `csv:"name"`
	Set         string `csv:"set"`
	Language    string `csv:"language"`
	ProductType string `csv:"product_type"`
	Store       string `csv:"store"`
	Price       string `csv:"price"`
	Cheapest    bool   `csv:"cheapest"`
	Unit        string `csv:"unit"`
	Shipping    string `csv:"shipping"`
	Variant     string `csv:"variant"`
	URL         string `csv:"url"`
	CreatedAt   string `csv:"created_at"`
}

// AsRows returns one row per offer of p
func AsRows(p catalog.Product) []Row {
	lowest := catalog.LowestPrice(p)

	rows := make([]Row, 0, len(p.Links))
	for _, o := range p.Links {
		rows = append(rows, Row{
			ID:          p.ID,
			Category:    string(p.Category),
			Era:         string(p.Era),
			Name:        p.Name,
			Set:         p.Set,
			Language:    string(p.Language),
			ProductType: string(p.ProductType),
			Store:       o.Store,
			Price:       o.Price.StringFixed(2),
			Cheapest:    o.Price.Equal(lowest),
			Unit:        o.Unit,
			Shipping:    o.Shipping,
			Variant:     o.Variant,
			URL:         o.URL,
			CreatedAt:   p.CreatedAt,
		})
	}
	return rows
}

// WriteCSV writes every offer of products to w, header first
func WriteCSV(w io.Writer, products []catalog.Product) error {
	rows := make([]Row, 0, len(products))
	for i := range products {
		rows = append(rows, AsRows(products[i])...)
	}

	err := gocsv.Marshal(&rows, w)
	if err != nil {
		return fmt.Errorf("Write CSV - %w", err)
	}
	return nil
}

// WriteCSVFile writes the CSV to wc and closes it. A failed close fails
// the export.
func WriteCSVFile(wc io.WriteCloser, products []catalog.Product) error {
	err := WriteCSV(wc, products)
	if err != nil {
		wc.Close()
		return err
	}
	err = wc.Close()
	if err != nil {
		return fmt.Errorf("Write CSV - close: %w", err)
	}
	return nil
}
