package service

import (
	"context"
	"fmt"

	"github.com/alexanderramin/cadence/internal/domain"
	"github.com/alexanderramin/cadence/internal/repository"
	"github.com/alexanderramin/cadence/internal/scheduler"
)

type profileService struct {
	profiles repository.UserProfileRepo
	loader   *SnapshotLoader
}

func NewProfileService(profiles repository.UserProfileRepo, loader *SnapshotLoader) ProfileService {
	return &profileService{profiles: profiles, loader: loader}
}

// Effective returns the capacity config the analyses for userID run with.
func (s *profileService) Effective(ctx context.Context, userID string) (scheduler.CapacityConfig, error) {
	return s.loader.CapacityFor(ctx, userID)
}

func (s *profileService) Set(ctx context.Context, p *domain.UserProfile) error {
	if p.ID == "" {
		return domain.ErrMissingUserID
	}
	if p.WeeklyHoursAvailable < 0 || p.MaxProjectHoursPerWeek < 0 {
		return fmt.Errorf("capacity hours must not be negative")
	}
	return s.profiles.Upsert(ctx, p)
}
