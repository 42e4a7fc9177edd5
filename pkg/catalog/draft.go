package catalog

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	c "stillgrove.com/tcgshelf/pkg/collection"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
	validate.RegisterCustomTypeFunc(decimalValue, decimal.Decimal{})
	validate.RegisterValidation("category", func(fl validator.FieldLevel) bool {
		return Category(fl.Field().String()).Valid()
	})
	validate.RegisterValidation("language", func(fl validator.FieldLevel) bool {
		return Language(fl.Field().String()).Valid()
	})
	validate.RegisterValidation("producttype", func(fl validator.FieldLevel) bool {
		return ProductType(fl.Field().String()).Valid()
	})
	validate.RegisterStructValidation(validateEra, Draft{})
}

func decimalValue(v reflect.Value) interface{} {
	d, ok := v.Interface().(decimal.Decimal)
	if !ok {
		return nil
	}
	return d.InexactFloat64()
}

// era is required for the era-bearing category and forbidden otherwise
func validateEra(sl validator.StructLevel) {
	d := sl.Current().Interface().(Draft)
	switch {
	case d.Category.HasEras() && d.Era == "":
		sl.ReportError(d.Era, "Era", "Era", "required", "")
	case d.Era != "" && !d.Category.HasEras():
		sl.ReportError(d.Era, "Era", "Era", "excluded", string(d.Category))
	case d.Era != "" && !d.Era.Valid():
		sl.ReportError(d.Era, "Era", "Era", "era", "")
	}
}

// ValidationError lists every field of a draft that failed validation
type ValidationError struct {
	Fields []string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("Invalid product - %s", strings.Join(e.Fields, ", "))
}

// Validate checks a draft before it may be handed to the store.
// The store itself trusts its input.
func (d Draft) Validate() error {
	err := validate.Struct(d)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("Validate draft - %w", err)
	}
	out := ValidationError{}
	for _, fe := range verrs {
		out.Fields = append(out.Fields, fmt.Sprintf("%s (%s)", fe.Namespace(), fe.Tag()))
	}
	return out
}

// Normalize trims the free-text fields, derives missing store names from the
// offer URL and defaults each offer's unit to the product type
func (d Draft) Normalize() Draft {
	d.Name = strings.TrimSpace(d.Name)
	d.Set = strings.TrimSpace(d.Set)
	d.Notes = strings.TrimSpace(d.Notes)
	if !d.Category.HasEras() {
		d.Era = ""
	}

	links := make([]Offer, len(d.Links))
	for i, l := range d.Links {
		l.URL = strings.TrimSpace(l.URL)
		l.Store = c.CollateStrings(strings.TrimSpace(l.Store), StoreFromURL(l.URL))
		l.Unit = c.CollateStrings(strings.TrimSpace(l.Unit), string(d.ProductType))
		l.Shipping = strings.TrimSpace(l.Shipping)
		l.Variant = strings.TrimSpace(l.Variant)
		links[i] = l
	}
	d.Links = links

	return d
}
