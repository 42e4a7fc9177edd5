package store

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/bwmarrin/snowflake"
	log "github.com/sirupsen/logrus"

	"stillgrove.com/tcgshelf/pkg/cache"
	"stillgrove.com/tcgshelf/pkg/catalog"
	"stillgrove.com/tcgshelf/pkg/seed"
)

// Keys of the durable state layout
const (
	VersionKey  = "tcg-data-version"
	ProductsKey = "tcg-products"
)

// errStale marks durable state that is missing or older than the data version
var errStale = errors.New("stored products are missing or outdated")

// Clock supplies the creation date of added products
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// Store owns the product collection of a session and mirrors every change
// to a durable backend. Durable failures are logged, never returned.
type Store struct {
	mux      sync.RWMutex
	products []catalog.Product

	backend cache.Cache
	version int
	seed    func() []catalog.Product
	clock   Clock
	node    *snowflake.Node
	logger  *log.Entry
}

// Option configures a Store
type Option func(*Store)

// WithClock replaces the wall clock used to date new products
func WithClock(c Clock) Option {
	return func(s *Store) {
		s.clock = c
	}
}

// WithSeed replaces the built-in products and their data version
func WithSeed(version int, products func() []catalog.Product) Option {
	return func(s *Store) {
		s.version = version
		s.seed = products
	}
}

// WithLogger sets the entry all store messages are logged through
func WithLogger(l *log.Entry) Option {
	return func(s *Store) {
		s.logger = l
	}
}

// New returns an empty store on top of backend. A nil backend keeps
// everything in memory. Call Load before reading.
func New(backend cache.Cache, opts ...Option) *Store {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(fmt.Sprintf("Store - snowflake node: %v", err))
	}

	s := &Store{
		products: []catalog.Product{},
		backend:  backend,
		version:  seed.Version,
		seed:     seed.Products,
		clock:    systemClock{},
		node:     node,
		logger:   log.WithField("component", "store"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// DataVersion is the version stamped next to every persisted collection
func (s *Store) DataVersion() int {
	return s.version
}

// Load adopts the persisted collection if it is current, otherwise the
// built-in products. It runs once at startup and never fails.
func (s *Store) Load() []catalog.Product {
	s.mux.Lock()
	defer s.mux.Unlock()

	stored, err := s.read()
	switch {
	case err == nil:
		s.products = stored
		s.logger.WithField("products", len(stored)).Debugln("Loaded stored products")
	case errors.Is(err, errStale):
		s.products = s.seed()
		s.logger.WithFields(log.Fields{
			"reason":   err,
			"products": len(s.products),
			"version":  s.version,
		}).Infoln("Reseeding product catalog")
		s.persist()
	default:
		s.products = s.seed()
		s.logger.WithField("err", err).Warningln("Durable storage unusable, using built-in products in memory only")
	}

	return s.snapshot()
}

// read returns the stored products, errStale when they must be replaced by
// the seed, or any other error when durable storage cannot be used
func (s *Store) read() ([]catalog.Product, error) {
	if s.backend == nil {
		return nil, fmt.Errorf("Read products - no durable backend")
	}

	stored := 0
	raw, err := s.backend.Load(VersionKey)
	switch {
	case errors.Is(err, cache.ErrNotFound):
		// never stamped
	case err != nil:
		return nil, fmt.Errorf("Read version - %w", err)
	default:
		// an unreadable marker counts as version 0
		stored, _ = strconv.Atoi(strings.TrimSpace(string(raw)))
	}

	payload, err := s.backend.Load(ProductsKey)
	switch {
	case errors.Is(err, cache.ErrNotFound) || (err == nil && len(payload) == 0):
		return nil, fmt.Errorf("%w - nothing stored", errStale)
	case err != nil:
		return nil, fmt.Errorf("Read products - %w", err)
	}

	if stored < s.version {
		return nil, fmt.Errorf("%w - stored version %d", errStale, stored)
	}

	return catalog.Unmarshal(payload)
}

// Products returns a copy of the collection, newest first
func (s *Store) Products() []catalog.Product {
	s.mux.RLock()
	defer s.mux.RUnlock()

	return s.snapshot()
}

// Get returns the product with id
func (s *Store) Get(id string) (catalog.Product, bool) {
	s.mux.RLock()
	defer s.mux.RUnlock()

	for i := range s.products {
		if s.products[i].ID == id {
			return s.products[i].Clone(), true
		}
	}
	return catalog.Product{}, false
}

// Add stamps d with a fresh id and today's date, puts it in front of the
// collection and persists. The draft must already be validated.
func (s *Store) Add(d catalog.Draft) catalog.Product {
	s.mux.Lock()
	defer s.mux.Unlock()

	p := catalog.NewProduct(
		"prod-"+s.node.Generate().String(),
		s.clock.Now().UTC().Format(catalog.DateLayout),
		d,
	)

	next := make([]catalog.Product, 0, len(s.products)+1)
	next = append(next, p)
	s.products = append(next, s.products...)

	s.logger.WithFields(log.Fields{
		"id":   p.ID,
		"name": p.Name,
	}).Infoln("Added product")
	s.persist()

	return p.Clone()
}

// Delete removes the product with id if present and persists
func (s *Store) Delete(id string) {
	s.mux.Lock()
	defer s.mux.Unlock()

	next := make([]catalog.Product, 0, len(s.products))
	for i := range s.products {
		if s.products[i].ID != id {
			next = append(next, s.products[i])
		}
	}
	if len(next) != len(s.products) {
		s.logger.WithField("id", id).Infoln("Deleted product")
	}
	s.products = next
	s.persist()
}

// Snapshot returns the collection in its persisted form
func (s *Store) Snapshot() ([]byte, error) {
	s.mux.RLock()
	defer s.mux.RUnlock()

	return catalog.Marshal(s.products)
}

// persist writes the whole collection together with the data version.
// Callers hold the write lock.
func (s *Store) persist() {
	if s.backend == nil {
		return
	}

	payload, err := catalog.Marshal(s.products)
	if err != nil {
		s.logger.WithField("err", err).Warningln("Failed to serialize products")
		return
	}

	err = s.backend.Store(map[string][]byte{
		ProductsKey: payload,
		VersionKey:  []byte(strconv.Itoa(s.version)),
	})
	if err != nil {
		s.logger.WithField("err", err).Warningln("Failed to persist products, keeping changes in memory")
	}
}

func (s *Store) snapshot() []catalog.Product {
	out := make([]catalog.Product, len(s.products))
	for i := range s.products {
		out[i] = s.products[i].Clone()
	}
	return out
}
