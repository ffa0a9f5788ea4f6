package storage

import (
	"context"
	"fmt"
	"time"

	"cpd/internal/providers"
	"cpd/internal/storage/interfaces"
	"cpd/internal/structures"
)

const redisDialTimeout = 5 * time.Second

// NewStore builds the store selected by storage.driver and wraps it with
// latency metrics.
func NewStore(conf *structures.Config, compressor interfaces.CompressorInterface, logger providers.Logger, metrics providers.MetricsProviderInterface) (interfaces.StoreInterface, error) {
	var (
		inner interfaces.StoreInterface
		err   error
	)
	switch conf.Storage.Driver {
	case "file", "":
		inner, err = NewFileStore(conf.Storage.FilePath, compressor, logger)
	case "redis":
		ctx, cancel := context.WithTimeout(context.Background(), redisDialTimeout)
		defer cancel()
		inner, err = NewRedisStore(ctx, conf.Storage.RedisURL, conf.Storage.Prefix)
		// Redis values are stored uncompressed.
		compressor.Close()
	default:
		return nil, fmt.Errorf("unknown storage driver %q", conf.Storage.Driver)
	}
	if err != nil {
		return nil, err
	}
	logger.Infof(providers.TypeApp, "Profile store: %s", conf.Storage.Driver)
	return &instrumentedStore{inner: inner, metrics: metrics}, nil
}

type instrumentedStore struct {
	inner   interfaces.StoreInterface
	metrics providers.MetricsProviderInterface
}

func (s *instrumentedStore) Get(ctx context.Context, key string) ([]byte, error) {
	start := time.Now()
	defer func() { s.metrics.ObserveStoreDuration("get", time.Since(start)) }()
	return s.inner.Get(ctx, key)
}

func (s *instrumentedStore) Set(ctx context.Context, key string, value []byte) error {
	start := time.Now()
	defer func() { s.metrics.ObserveStoreDuration("set", time.Since(start)) }()
	return s.inner.Set(ctx, key, value)
}

func (s *instrumentedStore) Close() error {
	return s.inner.Close()
}
