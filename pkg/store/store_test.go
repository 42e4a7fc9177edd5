package store

import (
	"errors"
	"io"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/suite"

	"stillgrove.com/tcgshelf/pkg/cache"
	"stillgrove.com/tcgshelf/pkg/catalog"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}

func seedProducts() []catalog.Product {
	return []catalog.Product{
		{
			ID:          "prod-1",
			Category:    catalog.Riftbound,
			Name:        "Riftbound: Origins",
			Set:         "Origins",
			Language:    catalog.English,
			ProductType: catalog.Display,
			CreatedAt:   "2025-02-27",
			Links:       []catalog.Offer{offer("Innventory", "159.99")},
		},
		{
			ID:          "prod-2",
			Category:    catalog.Riftbound,
			Name:        "Riftbound: Spiritforged",
			Set:         "Spiritforged",
			Language:    catalog.English,
			ProductType: catalog.Display,
			CreatedAt:   "2025-02-27",
			Links:       []catalog.Offer{offer("Innventory", "149.99")},
		},
	}
}

func offer(store, price string) catalog.Offer {
	return catalog.Offer{
		URL:      "https://innventory.de/produkt/x",
		Store:    store,
		Price:    decimal.RequireFromString(price),
		Unit:     "Display",
		Shipping: "Kostenlos ab 50€",
	}
}

func draft(name string) catalog.Draft {
	return catalog.Draft{
		Category:    catalog.Pokemon,
		Era:         catalog.ScarletViolet,
		Name:        name,
		Set:         "Paldean Fates",
		Language:    catalog.English,
		ProductType: catalog.BoosterBundle,
		Links:       []catalog.Offer{offer("Voxymoron", "109")},
	}
}

type StoreSuite struct {
	suite.Suite
	backend *cache.MemoryCache
	clock   *fakeClock
}

func TestStoreSuite(t *testing.T) {
	suite.Run(t, new(StoreSuite))
}

func (s *StoreSuite) SetupTest() {
	s.backend = cache.NewMemoryCache()
	s.clock = &fakeClock{now: time.Date(2026, 3, 14, 23, 30, 0, 0, time.FixedZone("CET", 3600))}
}

func (s *StoreSuite) newStore(backend cache.Cache) *Store {
	logger := log.New()
	logger.Out = io.Discard
	return New(backend,
		WithSeed(3, seedProducts),
		WithClock(s.clock),
		WithLogger(log.NewEntry(logger)),
	)
}

func (s *StoreSuite) stored() ([]catalog.Product, string) {
	payload, err := s.backend.Load(ProductsKey)
	s.Require().NoError(err)
	products, err := catalog.Unmarshal(payload)
	s.Require().NoError(err)
	version, err := s.backend.Load(VersionKey)
	s.Require().NoError(err)
	return products, string(version)
}

func ids(products []catalog.Product) []string {
	out := make([]string, len(products))
	for i := range products {
		out[i] = products[i].ID
	}
	return out
}

func (s *StoreSuite) TestFirstLoadSeedsAndPersists() {
	products := s.newStore(s.backend).Load()
	s.Equal([]string{"prod-1", "prod-2"}, ids(products))

	stored, version := s.stored()
	s.Equal([]string{"prod-1", "prod-2"}, ids(stored))
	s.Equal("3", version)
}

// sameProducts compares every field of every product and offer
func (s *StoreSuite) sameProducts(want, got []catalog.Product) {
	s.Require().Len(got, len(want))
	for i := range want {
		w, g := want[i], got[i]
		s.Equal(w.ID, g.ID)
		s.Equal(w.Category, g.Category, w.ID)
		s.Equal(w.Name, g.Name, w.ID)
		s.Equal(w.Era, g.Era, w.ID)
		s.Equal(w.Set, g.Set, w.ID)
		s.Equal(w.Language, g.Language, w.ID)
		s.Equal(w.ProductType, g.ProductType, w.ID)
		s.Equal(w.Notes, g.Notes, w.ID)
		s.Equal(w.CreatedAt, g.CreatedAt, w.ID)
		s.Require().Len(g.Links, len(w.Links), w.ID)
		for j := range w.Links {
			wl, gl := w.Links[j], g.Links[j]
			s.Equal(wl.URL, gl.URL, w.ID)
			s.Equal(wl.Store, gl.Store, w.ID)
			s.True(wl.Price.Equal(gl.Price), "%s: price %s != %s", w.ID, wl.Price, gl.Price)
			s.Equal(wl.Unit, gl.Unit, w.ID)
			s.Equal(wl.Shipping, gl.Shipping, w.ID)
			s.Equal(wl.Variant, gl.Variant, w.ID)
		}
	}
}

func (s *StoreSuite) TestRoundTrip() {
	st := s.newStore(s.backend)
	st.Load()
	d := draft("Paldean Fates Booster Bundle")
	d.Notes = "Vorbestellung"
	blister := offer("Peer Online", "34.90")
	blister.URL = "https://www.peer-online.de/products/7553937932524"
	blister.Unit = "3-Pack-Blister"
	blister.Shipping = "4,99€"
	blister.Variant = "Leafeon Version"
	d.Links = append(d.Links, blister)
	added := st.Add(d)
	st.Delete("prod-2")
	want := st.Products()

	got := s.newStore(s.backend).Load()
	s.Equal([]string{added.ID, "prod-1"}, ids(got))
	s.Equal(catalog.ScarletViolet, got[0].Era)
	s.Equal("Vorbestellung", got[0].Notes)
	s.Equal("Leafeon Version", got[0].Links[1].Variant)
	s.sameProducts(want, got)
}

func (s *StoreSuite) TestNewerStoredVersionIsKept() {
	payload, err := catalog.Marshal(seedProducts()[:1])
	s.Require().NoError(err)
	s.Require().NoError(s.backend.Store(map[string][]byte{
		ProductsKey: payload,
		VersionKey:  []byte("7"),
	}))

	products := s.newStore(s.backend).Load()
	s.Equal([]string{"prod-1"}, ids(products))
}

func (s *StoreSuite) TestOutdatedVersionReseeds() {
	custom := seedProducts()[:1]
	custom[0].ID = "prod-123"
	payload, err := catalog.Marshal(custom)
	s.Require().NoError(err)

	for _, version := range []string{"2", "", "abc"} {
		s.Require().NoError(s.backend.Store(map[string][]byte{
			ProductsKey: payload,
			VersionKey:  []byte(version),
		}))

		products := s.newStore(s.backend).Load()
		s.Equal([]string{"prod-1", "prod-2"}, ids(products), version)

		_, stamped := s.stored()
		s.Equal("3", stamped)
	}
}

func (s *StoreSuite) TestMissingVersionReseeds() {
	payload, err := catalog.Marshal(seedProducts()[1:])
	s.Require().NoError(err)
	s.Require().NoError(s.backend.Store(map[string][]byte{ProductsKey: payload}))

	products := s.newStore(s.backend).Load()
	s.Equal([]string{"prod-1", "prod-2"}, ids(products))
}

func (s *StoreSuite) TestCorruptSnapshotSeedsInMemoryOnly() {
	s.Require().NoError(s.backend.Store(map[string][]byte{
		ProductsKey: []byte("{not json"),
		VersionKey:  []byte("3"),
	}))

	products := s.newStore(s.backend).Load()
	s.Equal([]string{"prod-1", "prod-2"}, ids(products))

	raw, err := s.backend.Load(ProductsKey)
	s.Require().NoError(err)
	s.Equal("{not json", string(raw))
}

func (s *StoreSuite) TestUnavailableStorage() {
	s.backend.LoadErr = errors.New("quota exceeded")
	s.backend.StoreErr = errors.New("quota exceeded")

	st := s.newStore(s.backend)
	s.Equal([]string{"prod-1", "prod-2"}, ids(st.Load()))

	p := st.Add(draft("Paldean Fates Booster Bundle"))
	s.Equal([]string{p.ID, "prod-1", "prod-2"}, ids(st.Products()))
}

func (s *StoreSuite) TestNilBackend() {
	st := s.newStore(nil)
	s.Len(st.Load(), 2)
	st.Delete("prod-1")
	s.Equal([]string{"prod-2"}, ids(st.Products()))
}

func (s *StoreSuite) TestWriteFailureKeepsMemory() {
	st := s.newStore(s.backend)
	st.Load()

	s.backend.StoreErr = errors.New("disk full")
	st.Delete("prod-1")
	s.Equal([]string{"prod-2"}, ids(st.Products()))

	s.backend.StoreErr = nil
	stored, _ := s.stored()
	s.Equal([]string{"prod-1", "prod-2"}, ids(stored))
}

func (s *StoreSuite) TestAdd() {
	st := s.newStore(s.backend)
	st.Load()

	x := st.Add(draft("X"))
	s.clock.Advance(2 * time.Hour)
	y := st.Add(draft("Y"))

	s.Equal([]string{y.ID, x.ID, "prod-1", "prod-2"}, ids(st.Products()))
	s.Equal("2026-03-14", x.CreatedAt)
	s.Equal("2026-03-15", y.CreatedAt)
	s.Regexp(`^prod-\d+$`, x.ID)

	stored, version := s.stored()
	s.Equal(ids(st.Products()), ids(stored))
	s.Equal("3", version)
}

func (s *StoreSuite) TestAddUniqueIDs() {
	st := s.newStore(s.backend)
	st.Load()

	seen := make(map[string]struct{})
	for i := 0; i < 500; i++ {
		p := st.Add(draft("Bulk"))
		_, dup := seen[p.ID]
		s.Require().False(dup, p.ID)
		seen[p.ID] = struct{}{}
	}
}

func (s *StoreSuite) TestDeleteIdempotent() {
	st := s.newStore(s.backend)
	st.Load()

	st.Delete("prod-1")
	first := st.Products()
	st.Delete("prod-1")
	s.Equal(first, st.Products())

	st.Delete("prod-404")
	s.Equal(first, st.Products())
}

func (s *StoreSuite) TestGet() {
	st := s.newStore(s.backend)
	st.Load()

	p, ok := st.Get("prod-2")
	s.True(ok)
	s.Equal("Riftbound: Spiritforged", p.Name)

	p.Links[0].Store = "changed"
	again, _ := st.Get("prod-2")
	s.Equal("Innventory", again.Links[0].Store)

	_, ok = st.Get("prod-404")
	s.False(ok)
}

func (s *StoreSuite) TestSnapshot() {
	st := s.newStore(s.backend)
	st.Load()

	payload, err := st.Snapshot()
	s.Require().NoError(err)
	products, err := catalog.Unmarshal(payload)
	s.Require().NoError(err)
	s.Equal([]string{"prod-1", "prod-2"}, ids(products))
}

func TestDefaultSeed(t *testing.T) {
	st := New(cache.NewMemoryCache())
	products := st.Load()
	if len(products) == 0 || products[0].ID != "prod-1" {
		t.Fatalf("Expected the built-in catalog, got %d products", len(products))
	}
	if st.DataVersion() != 3 {
		t.Fatalf("Unexpected data version %d", st.DataVersion())
	}
}
