package main

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"

	"stillgrove.com/tcgshelf/pkg/catalog"
)

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

// printProducts renders one line per product with its cheapest offer
func printProducts(w io.Writer, products []catalog.Product) error {
	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tNAME\tSET\tLANGUAGE\tTYPE\tFROM\tOFFERS")
	for _, p := range products {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%d\n",
			p.ID,
			p.Name,
			p.Set,
			p.Language,
			p.ProductType,
			catalog.FormatPrice(catalog.LowestPrice(p)),
			len(p.Links),
		)
	}
	return tw.Flush()
}

// printProduct renders all details of p, offers cheapest first
func printProduct(w io.Writer, p catalog.Product) error {
	tw := newTable(w)
	fmt.Fprintf(tw, "ID\t%s\n", p.ID)
	fmt.Fprintf(tw, "Name\t%s\n", p.Name)
	fmt.Fprintf(tw, "Category\t%s\n", p.Category)
	if p.Era != "" {
		fmt.Fprintf(tw, "Era\t%s\n", p.Era)
	}
	fmt.Fprintf(tw, "Set\t%s\n", p.Set)
	fmt.Fprintf(tw, "Language\t%s\n", p.Language)
	fmt.Fprintf(tw, "Type\t%s\n", p.ProductType)
	fmt.Fprintf(tw, "Added\t%s\n", p.CreatedAt)
	if p.Notes != "" {
		fmt.Fprintf(tw, "Notes\t%s\n", p.Notes)
	}
	err := tw.Flush()
	if err != nil {
		return err
	}

	offers := append([]catalog.Offer(nil), p.Links...)
	sort.SliceStable(offers, func(i, j int) bool {
		return offers[i].Price.LessThan(offers[j].Price)
	})

	fmt.Fprintln(w)
	tw = newTable(w)
	fmt.Fprintln(tw, "STORE\tPRICE\tUNIT\tSHIPPING\tVARIANT\tURL")
	for _, o := range offers {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			o.Store,
			catalog.FormatPrice(o.Price),
			o.Unit,
			o.Shipping,
			o.Variant,
			o.URL,
		)
	}
	return tw.Flush()
}

// printFacet renders one facet as "Name: a, b, c"
func printFacet(w io.Writer, name string, values []string) {
	if len(values) == 0 {
		fmt.Fprintf(w, "%s: -\n", name)
		return
	}
	fmt.Fprintf(w, "%s: %s\n", name, strings.Join(values, ", "))
}
