package cache

import (
	"errors"
	"fmt"
	"time"

	badger "github.com/dgraph-io/badger"
	log "github.com/sirupsen/logrus"

	zip "stillgrove.com/tcgshelf/pkg/zip"
)

// BadgerCache stores gzip-compressed values in an embedded badger database
type BadgerCache struct {
	db  *badger.DB
	ttl time.Duration
}

// NewBadgerCache opens (or creates) the database in dir.
// A ttl of zero keeps entries forever.
func NewBadgerCache(dir string, ttl time.Duration) (*BadgerCache, error) {
	l := log.New()
	l.SetFormatter(&log.TextFormatter{
		DisableColors: true,
		FullTimestamp: true,
	})
	l.SetLevel(log.WarnLevel)

	db, err := badger.Open(badger.DefaultOptions(dir).WithLogger(l))
	if err != nil {
		return nil, fmt.Errorf("Open badger cache %s - %w", dir, err)
	}
	return &BadgerCache{
		db:  db,
		ttl: ttl,
	}, nil
}

func (b *BadgerCache) Load(key string) ([]byte, error) {
	var zipped []byte
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		zipped, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("Load %s - %w", key, err)
	}

	return zip.Unzip(zipped)
}

// Store commits all updates in a single transaction
func (b *BadgerCache) Store(updates map[string][]byte) error {
	txn := b.db.NewTransaction(true)
	defer txn.Discard()

	for k, v := range updates {
		payload, err := zip.Zip(v)
		if err != nil {
			return err
		}
		e := badger.NewEntry([]byte(k), payload)
		if b.ttl > 0 {
			e = e.WithTTL(b.ttl)
		}
		if err := txn.SetEntry(e); err != nil {
			return fmt.Errorf("Store %s - %w", k, err)
		}
	}

	if err := txn.Commit(); err != nil {
		return fmt.Errorf("Commit - %w", err)
	}
	return nil
}

func (b *BadgerCache) Close() {
	if err := b.db.Close(); err != nil {
		log.WithField("Error", err).Warningln("Failed to close badger cache")
	}
}
