//go:build integration

package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"sanctionwatch/internal/sanction/models"
	"sanctionwatch/internal/search/cache"
	"sanctionwatch/pkg/testutil/containers"
)

type RedisCacheSuite struct {
	suite.Suite
	redis *containers.RedisContainer
	cache *cache.Redis
}

func TestRedisCacheSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(RedisCacheSuite))
}

func (s *RedisCacheSuite) SetupSuite() {
	mgr := containers.GetManager()
	s.redis = mgr.GetRedis(s.T())
	s.cache = cache.NewRedis(s.redis.Client)
}

func (s *RedisCacheSuite) SetupTest() {
	s.Require().NoError(s.redis.FlushAll(context.Background()))
}

func (s *RedisCacheSuite) TestRoundTrip() {
	ctx := context.Background()
	rec := &models.Record{
		ID: "UN-1", Source: models.SourceUN, Name: "Alpha",
		Countries: []string{"Iran"},
	}

	s.Require().NoError(s.cache.Set(ctx, rec))

	got, err := s.cache.Get(ctx, "UN-1")
	s.Require().NoError(err)
	s.Require().NotNil(got)
	s.Equal("Alpha", got.Name)
	s.Equal([]string{"Iran"}, got.Countries)
}

func (s *RedisCacheSuite) TestMiss() {
	got, err := s.cache.Get(context.Background(), "absent")
	s.Require().NoError(err)
	s.Nil(got)
}

func (s *RedisCacheSuite) TestDelete() {
	ctx := context.Background()
	s.Require().NoError(s.cache.Set(ctx, &models.Record{ID: "UN-1"}))
	s.Require().NoError(s.cache.Delete(ctx, "UN-1"))

	got, err := s.cache.Get(ctx, "UN-1")
	s.Require().NoError(err)
	s.Nil(got)
}

func (s *RedisCacheSuite) TestTTLApplied() {
	ctx := context.Background()
	short := cache.NewRedis(s.redis.Client, cache.WithRedisTTL(time.Second))
	s.Require().NoError(short.Set(ctx, &models.Record{ID: "UN-1"}))

	ttl := s.redis.Client.TTL(ctx, "sw:record:UN-1").Val()
	s.Greater(ttl, time.Duration(0))
	s.LessOrEqual(ttl, time.Second)
}
