package cache

import (
	"context"
	"time"
)

// NoopCache never stores anything. Selected with cache.driver = "none".
type NoopCache struct{}

func (NoopCache) Get(context.Context, string) ([]byte, bool, error) {
	return nil, false, nil
}

func (NoopCache) Set(context.Context, string, []byte, time.Duration) error {
	return nil
}

func (NoopCache) Delete(context.Context, string) error {
	return nil
}

func (NoopCache) Clear(context.Context) error {
	return nil
}

var _ Cache = NoopCache{}
