package main

import (
	"context"

	log "github.com/sirupsen/logrus"

	"stillgrove.com/tcgshelf/pkg/cache"
	"stillgrove.com/tcgshelf/pkg/config"
)

// openBackend connects the configured durable storage
func openBackend(ctx context.Context, cfg *config.File) (string, cache.Cache, error) {
	name, err := cfg.GetBackend()
	if err != nil {
		return name, nil, err
	}

	switch name {
	case config.BackendMemory:
		log.Warningln("Memory backend selected, changes are lost on exit")
		return name, cache.NewMemoryCache(), nil

	case config.BackendDynamo:
		region, id, secret, table, err := cfg.GetDynamo()
		if err != nil {
			return name, nil, err
		}
		backend, err := cache.NewDynamoCache(ctx, region, id, secret, table)
		if err != nil {
			return name, nil, err
		}
		return name, backend, nil

	case config.BackendPostgres:
		dsn, table, err := cfg.GetPostgres()
		if err != nil {
			return name, nil, err
		}
		backend, err := cache.NewPostgresCache(ctx, dsn, table)
		if err != nil {
			return name, nil, err
		}
		return name, backend, nil

	default:
		path, ttl, err := cfg.GetBadger()
		if err != nil {
			return name, nil, err
		}
		backend, err := cache.NewBadgerCache(path, ttl)
		if err != nil {
			return name, nil, err
		}
		return name, backend, nil
	}
}
