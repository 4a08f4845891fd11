// Package subscription resolves a user's tier from their roles and meters
// freemium generations per UTC day.
package subscription

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"vfxprompt/internal/cache"
	"vfxprompt/internal/domain"
)

const DefaultFreeDailyGenerations = 10

var (
	freemiumFeatures = []string{domain.FeatureBasicEffects, domain.FeatureShortPrompts}
	proFeatures      = []string{
		domain.FeatureBasicEffects,
		domain.FeatureShortPrompts,
		domain.FeatureAllEffects,
		domain.FeatureLongPrompts,
		domain.FeatureAdvancedControls,
	}
)

type Service struct {
	roles     domain.RoleRepository
	counters  cache.Store
	freeDaily int
	now       func() time.Time
	log       zerolog.Logger
}

func NewService(roles domain.RoleRepository, counters cache.Store, freeDaily int, log zerolog.Logger) *Service {
	if freeDaily <= 0 {
		freeDaily = DefaultFreeDailyGenerations
	}
	if counters == nil {
		counters = cache.NewMemoryStore()
	}
	return &Service{roles: roles, counters: counters, freeDaily: freeDaily, now: time.Now, log: log}
}

// WithClock replaces the clock used for day boundaries.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Get returns the user's tier and today's usage.
func (s *Service) Get(ctx context.Context, userID string) (domain.Subscription, error) {
	if userID == "" {
		return domain.Subscription{}, domain.ErrUnauthorized
	}
	sub, err := s.resolve(ctx, userID)
	if err != nil {
		return sub, err
	}
	used, err := s.counters.Count(ctx, cache.GenerationsKey(userID, s.now()))
	if err != nil {
		return sub, fmt.Errorf("read generation counter: %w", err)
	}
	return withUsage(sub, int(used)), nil
}

// Consume counts one generation. Freemium users past their daily limit get
// ErrDailyLimitReached.
func (s *Service) Consume(ctx context.Context, userID string) (domain.Subscription, error) {
	sub, _, err := s.Reserve(ctx, userID)
	return sub, err
}

// Release hands back a generation counted by Reserve.
type Release func(ctx context.Context) error

// Reserve counts one generation before the work runs. The returned Release
// undoes the count when the work fails. Freemium users past their daily
// limit get ErrDailyLimitReached and nothing stays counted.
func (s *Service) Reserve(ctx context.Context, userID string) (domain.Subscription, Release, error) {
	sub, err := s.Get(ctx, userID)
	if err != nil {
		return sub, nil, err
	}
	if !sub.CanGenerate() {
		return sub, nil, domain.ErrDailyLimitReached
	}
	now := s.now()
	key := cache.GenerationsKey(userID, now)
	used, err := s.counters.Incr(ctx, key, cache.UntilMidnight(now))
	if err != nil {
		return sub, nil, fmt.Errorf("increment generation counter: %w", err)
	}
	release := func(ctx context.Context) error {
		if _, err := s.counters.Decr(ctx, key); err != nil {
			return fmt.Errorf("release generation: %w", err)
		}
		return nil
	}
	if !sub.Unlimited && int(used) > sub.DailyLimit {
		// Lost a race with a concurrent request.
		if err := release(ctx); err != nil {
			s.log.Warn().Err(err).Str("user_id", userID).Msg("over-limit generation not released")
		}
		s.log.Info().Str("user_id", userID).Int64("used", used).Msg("daily generation limit reached")
		return withUsage(sub, sub.DailyLimit), nil, domain.ErrDailyLimitReached
	}
	return withUsage(sub, int(used)), release, nil
}

// Require returns ErrForbidden unless the subscription includes feature.
func Require(sub domain.Subscription, feature string) error {
	if sub.Has(feature) {
		return nil
	}
	return fmt.Errorf("%w: %s requires a pro subscription", domain.ErrForbidden, feature)
}

func (s *Service) resolve(ctx context.Context, userID string) (domain.Subscription, error) {
	sub := domain.Subscription{UserID: userID, Tier: domain.TierFreemium, DailyLimit: s.freeDaily, Features: freemiumFeatures}
	if s.roles == nil {
		return sub, nil
	}
	roles, err := s.roles.ListRoles(ctx, userID)
	if err != nil {
		return sub, fmt.Errorf("list roles: %w", err)
	}
	for _, r := range roles {
		switch r {
		case domain.RoleAdmin:
			sub.IsAdmin = true
			sub.Tier = domain.TierPro
		case domain.RolePro:
			sub.Tier = domain.TierPro
		}
	}
	if sub.IsPro() {
		sub.Unlimited = true
		sub.DailyLimit = 0
		sub.Features = proFeatures
	}
	return sub, nil
}

func withUsage(sub domain.Subscription, used int) domain.Subscription {
	sub.UsedToday = used
	if sub.Unlimited {
		sub.Remaining = -1
		return sub
	}
	sub.Remaining = sub.DailyLimit - used
	if sub.Remaining < 0 {
		sub.Remaining = 0
	}
	return sub
}
