package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"stillgrove.com/tcgshelf/pkg/catalog"
	"stillgrove.com/tcgshelf/pkg/export"
	"stillgrove.com/tcgshelf/pkg/filter"
	"stillgrove.com/tcgshelf/pkg/sftp"
	"stillgrove.com/tcgshelf/pkg/zip"
)

// facet flags and the constraint keys they set, in update order
var facetFlags = []struct {
	flag, key, usage string
}{
	{"era", filter.KeyEra, "only products of this era"},
	{"set", filter.KeySet, "only products of this set"},
	{"type", filter.KeyProductType, "only products of this type"},
	{"language", filter.KeyLanguage, "only products in this language (name or code)"},
	{"store", filter.KeyStore, "only products sold by this store"},
	{"min-price", filter.KeyMinPrice, "cheapest offer at least this much"},
	{"max-price", filter.KeyMaxPrice, "cheapest offer at most this much"},
}

func categoryFlag(required bool) cli.Flag {
	return &cli.StringFlag{
		Name:     "category",
		Aliases:  []string{"C"},
		Usage:    "restrict to one category: Riftbound or Pokémon",
		Required: required,
	}
}

func filterFlags() []cli.Flag {
	flags := []cli.Flag{categoryFlag(false)}
	for _, f := range facetFlags {
		flags = append(flags, &cli.StringFlag{Name: f.flag, Usage: f.usage})
	}
	return flags
}

// scope returns the products of the selected category, or all of them
func (s *shelf) scope(c *cli.Context) ([]catalog.Product, error) {
	products := s.store.Products()
	if !c.IsSet("category") {
		return products, nil
	}
	category, ok := catalog.ParseCategory(c.String("category"))
	if !ok {
		return nil, fmt.Errorf("Unknown category %q", c.String("category"))
	}
	return filter.ScopeCategory(products, category), nil
}

func constraints(c *cli.Context) (filter.Constraints, error) {
	var out filter.Constraints
	for _, f := range facetFlags {
		if !c.IsSet(f.flag) {
			continue
		}
		value := c.String(f.flag)
		switch f.key {
		case filter.KeyEra:
			if e, ok := catalog.ParseEra(value); ok {
				value = string(e)
			}
		case filter.KeyProductType:
			if t, ok := catalog.ParseProductType(value); ok {
				value = string(t)
			}
		case filter.KeyLanguage:
			if l, ok := catalog.ParseLanguage(value); ok {
				value = string(l)
			}
		}
		err := out.Update(f.key, value)
		if err != nil {
			return out, err
		}
	}
	return out, nil
}

func listCommand(s *shelf) *cli.Command {
	return &cli.Command{
		Name:    "list",
		Aliases: []string{"ls"},
		Usage:   "list products, newest first, narrowed by facets",
		Flags:   filterFlags(),
		Action: func(c *cli.Context) error {
			scoped, err := s.scope(c)
			if err != nil {
				return err
			}
			cons, err := constraints(c)
			if err != nil {
				return err
			}
			return printProducts(c.App.Writer, filter.Products(scoped, cons))
		},
	}
}

func searchCommand(s *shelf) *cli.Command {
	return &cli.Command{
		Name:      "search",
		Usage:     "find products by name, set, or category",
		ArgsUsage: "QUERY",
		Action: func(c *cli.Context) error {
			if c.NArg() == 0 {
				return errors.New("Search - missing query")
			}
			query := c.Args().First()
			for _, more := range c.Args().Tail() {
				query += " " + more
			}
			return printProducts(c.App.Writer, filter.Search(s.store.Products(), query))
		},
	}
}

func facetsCommand(s *shelf) *cli.Command {
	return &cli.Command{
		Name:  "facets",
		Usage: "show the filter choices of a category",
		Flags: filterFlags(),
		Action: func(c *cli.Context) error {
			scoped, err := s.scope(c)
			if err != nil {
				return err
			}
			cons, err := constraints(c)
			if err != nil {
				return err
			}
			opts := filter.Options(scoped, cons)

			w := c.App.Writer
			if len(opts.Eras) > 0 {
				printFacet(w, "Eras", opts.Eras)
			}
			printFacet(w, "Sets", opts.Sets)
			printFacet(w, "Types", opts.ProductTypes)
			printFacet(w, "Languages", opts.Languages)
			printFacet(w, "Stores", opts.Stores)
			return nil
		},
	}
}

func showCommand(s *shelf) *cli.Command {
	return &cli.Command{
		Name:      "show",
		Usage:     "show a product with all its offers",
		ArgsUsage: "ID",
		Action: func(c *cli.Context) error {
			id := c.Args().First()
			p, ok := s.store.Get(id)
			if !ok {
				return fmt.Errorf("No product with id %q", id)
			}
			return printProduct(c.App.Writer, p)
		},
	}
}

func addCommand(s *shelf) *cli.Command {
	return &cli.Command{
		Name:  "add",
		Usage: "add a product",
		Flags: []cli.Flag{
			categoryFlag(true),
			&cli.StringFlag{Name: "name", Required: true},
			&cli.StringFlag{Name: "era", Usage: "required for Pokémon"},
			&cli.StringFlag{Name: "set", Required: true},
			&cli.StringFlag{Name: "language", Value: string(catalog.German), Usage: "name or two letter code"},
			&cli.StringFlag{Name: "type", Value: string(catalog.Display)},
			&cli.StringSliceFlag{Name: "offer", Required: true, Usage: offerUsage},
			&cli.StringFlag{Name: "notes"},
		},
		Action: func(c *cli.Context) error {
			d, err := draftFrom(c)
			if err != nil {
				return err
			}
			d = d.Normalize()
			err = d.Validate()
			if err != nil {
				return err
			}

			p := s.store.Add(d)
			fmt.Fprintf(c.App.Writer, "Added %s (%s)\n", p.ID, p.Name)
			return nil
		},
	}
}

func draftFrom(c *cli.Context) (catalog.Draft, error) {
	category, _ := catalog.ParseCategory(c.String("category"))
	era, _ := catalog.ParseEra(c.String("era"))
	language, _ := catalog.ParseLanguage(c.String("language"))
	productType, _ := catalog.ParseProductType(c.String("type"))
	set, _ := catalog.MatchSet(category, era, c.String("set"))

	d := catalog.Draft{
		Category:    category,
		Name:        c.String("name"),
		Era:         era,
		Set:         set,
		Language:    language,
		ProductType: productType,
		Notes:       c.String("notes"),
	}
	for _, raw := range c.StringSlice("offer") {
		o, err := parseOffer(raw)
		if err != nil {
			return d, err
		}
		d.Links = append(d.Links, o)
	}
	return d, nil
}

func deleteCommand(s *shelf) *cli.Command {
	return &cli.Command{
		Name:      "delete",
		Aliases:   []string{"rm"},
		Usage:     "delete products",
		ArgsUsage: "ID...",
		Action: func(c *cli.Context) error {
			if c.NArg() == 0 {
				return errors.New("Delete - missing id")
			}
			for _, id := range c.Args().Slice() {
				s.store.Delete(id)
			}
			return nil
		},
	}
}

func exportCommand(s *shelf) *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "write every offer as CSV",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "file to write, stdout if empty"},
		},
		Action: func(c *cli.Context) error {
			if out := c.String("out"); out != "" && out != "-" {
				f, err := os.Create(out)
				if err != nil {
					return fmt.Errorf("Export - %w", err)
				}
				return export.WriteCSVFile(f, s.store.Products())
			}
			return export.WriteCSV(c.App.Writer, s.store.Products())
		},
	}
}

func backupCommand(s *shelf) *cli.Command {
	return &cli.Command{
		Name:  "backup",
		Usage: "upload a compressed snapshot to the configured SFTP server",
		Action: func(c *cli.Context) error {
			host, port, user, pass, err := s.cfg.GetSFTP()
			if err != nil {
				return err
			}
			dir, keep := s.cfg.GetBackupTarget()

			payload, err := s.store.Snapshot()
			if err != nil {
				return err
			}
			compressed, err := zip.Zip(payload)
			if err != nil {
				return err
			}

			sess, err := sftp.NewSession(host, user, pass, port)
			if err != nil {
				return err
			}
			defer sess.Close()

			target, err := sftp.Backup(sess, dir, compressed, time.Now(), keep)
			if err != nil {
				return err
			}
			log.WithFields(log.Fields{
				"host": host,
				"path": target,
				"size": humanize.Bytes(uint64(len(compressed))),
			}).Infoln("Backup uploaded")
			fmt.Fprintln(c.App.Writer, target)
			return nil
		},
	}
}

func statsCommand(s *shelf) *cli.Command {
	return &cli.Command{
		Name:  "stats",
		Usage: "summarize the catalog",
		Action: func(c *cli.Context) error {
			products := s.store.Products()
			payload, err := s.store.Snapshot()
			if err != nil {
				return err
			}

			offers := 0
			for i := range products {
				offers += len(products[i].Links)
			}

			tw := newTable(c.App.Writer)
			counts := catalog.CountByCategory(products)
			for _, category := range catalog.Categories {
				fmt.Fprintf(tw, "%s\t%d\n", category, counts[category])
			}
			fmt.Fprintf(tw, "Products\t%d\n", len(products))
			fmt.Fprintf(tw, "Offers\t%d\n", offers)
			fmt.Fprintf(tw, "Stores\t%d\n", len(catalog.UniqueStores(products)))
			fmt.Fprintf(tw, "Data version\t%d\n", s.store.DataVersion())
			fmt.Fprintf(tw, "Snapshot\t%s\n", humanize.Bytes(uint64(len(payload))))
			return tw.Flush()
		},
	}
}
