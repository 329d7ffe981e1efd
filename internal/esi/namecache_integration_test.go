//go:build integration

package esi_test

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"corpstats/internal/corpstats/ports"
	"corpstats/internal/corpstats/ports/mocks"
	"corpstats/internal/esi"
	id "corpstats/pkg/domain"
	"corpstats/pkg/testutil/containers"
)

type NameCacheSuite struct {
	suite.Suite
	redis *containers.RedisContainer
	next  *mocks.MockNameResolver
	cache *esi.CachedNames
}

func TestNameCacheSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(NameCacheSuite))
}

func (s *NameCacheSuite) SetupSuite() {
	s.redis = containers.GetManager().GetRedis(s.T())
}

func (s *NameCacheSuite) SetupTest() {
	s.Require().NoError(s.redis.FlushAll(context.Background()))
	s.next = mocks.NewMockNameResolver(gomock.NewController(s.T()))
	s.cache = esi.NewCachedNames(s.next, s.redis.Client, time.Hour, nil)
}

func (s *NameCacheSuite) TestCharacterNamesServedFromCache() {
	ctx := context.Background()
	s.next.EXPECT().CharacterNames(gomock.Any(), []id.CharacterID{1, 2}).
		Return(map[id.CharacterID]string{1: "One"}, nil)
	s.next.EXPECT().CharacterNames(gomock.Any(), []id.CharacterID{2}).
		Return(map[id.CharacterID]string{}, nil)

	first, err := s.cache.CharacterNames(ctx, []id.CharacterID{1, 2})
	s.Require().NoError(err)
	s.Equal(map[id.CharacterID]string{1: "One"}, first)

	second, err := s.cache.CharacterNames(ctx, []id.CharacterID{1, 2})
	s.Require().NoError(err)
	s.Equal(map[id.CharacterID]string{1: "One"}, second)
}

func (s *NameCacheSuite) TestTypeNameCached() {
	ctx := context.Background()
	s.next.EXPECT().TypeName(gomock.Any(), id.TypeID(670)).Return("Capsule", nil).Times(1)

	for range 3 {
		name, err := s.cache.TypeName(ctx, 670)
		s.Require().NoError(err)
		s.Equal("Capsule", name)
	}
}

func (s *NameCacheSuite) TestUpstreamErrorsPassThrough() {
	s.next.EXPECT().TypeName(gomock.Any(), id.TypeID(1)).Return("", ports.ErrNotFound)

	_, err := s.cache.TypeName(context.Background(), 1)
	s.ErrorIs(err, ports.ErrNotFound)
}

func (s *NameCacheSuite) TestRedisOutageFallsBackToUpstream() {
	broken := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", MaxRetries: -1})
	defer broken.Close()
	cache := esi.NewCachedNames(s.next, broken, time.Hour, nil)
	s.next.EXPECT().CharacterNames(gomock.Any(), []id.CharacterID{1}).Return(map[id.CharacterID]string{1: "One"}, nil)

	names, err := cache.CharacterNames(context.Background(), []id.CharacterID{1})
	s.Require().NoError(err)
	s.Equal("One", names[1])
}
