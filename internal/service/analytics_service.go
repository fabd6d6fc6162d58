package service

import (
	"context"
	"fmt"
	"time"

	"healthreg/internal/access"
	"healthreg/internal/cache"
	apperrors "healthreg/internal/errors"
	"healthreg/internal/repository"
)

const summaryCacheTTL = 5 * time.Minute

// Summary is the dashboard aggregate for one caller's scope.
type Summary struct {
	Coverage     repository.CoverageStats      `json:"coverage"`
	Mandals      []repository.MandalCount      `json:"mandals"`
	Secretariats []repository.SecretariatCount `json:"secretariats,omitempty"`
	GeneratedAt  time.Time                     `json:"generated_at"`
}

// AnalyticsService computes role-scoped dashboard aggregates.
type AnalyticsService interface {
	Summary(ctx context.Context, actor access.Actor) (*Summary, error)
	OfficerActivity(ctx context.Context, actor access.Actor, start, end *time.Time) ([]repository.OfficerActivity, error)
}

type analyticsService struct {
	residentRepo repository.ResidentRepository
	logRepo      repository.UpdateLogRepository
	userRepo     repository.UserRepository
	cache        *cache.Client
}

// NewAnalyticsService creates a new analytics service.
func NewAnalyticsService(
	residentRepo repository.ResidentRepository,
	logRepo repository.UpdateLogRepository,
	userRepo repository.UserRepository,
	cacheClient *cache.Client,
) AnalyticsService {
	return &analyticsService{
		residentRepo: residentRepo,
		logRepo:      logRepo,
		userRepo:     userRepo,
		cache:        cacheClient,
	}
}

// Summary returns coverage and rollups for the actor's scope. Results
// are cached per user; aggregates over the full residents table are the
// most expensive queries the dashboard issues.
func (s *analyticsService) Summary(ctx context.Context, actor access.Actor) (*Summary, error) {
	cacheKey := fmt.Sprintf("analytics:summary:%d", actor.UserID)

	var cached Summary
	if hit, _ := s.cache.GetJSON(ctx, cacheKey, &cached); hit {
		return &cached, nil
	}

	scope, err := access.BuildResidentFilter(actor)
	if err != nil {
		return nil, err
	}

	coverage, err := s.residentRepo.CoverageStats(ctx, scope)
	if err != nil {
		return nil, err
	}
	mandals, err := s.residentRepo.CountByMandal(ctx, scope)
	if err != nil {
		return nil, err
	}

	summary := &Summary{
		Coverage:    *coverage,
		Mandals:     mandals,
		GeneratedAt: time.Now(),
	}

	// Secretariat-level detail only below district level; for an admin it
	// would be thousands of rows the dashboard never shows at once.
	if actor.Role != access.RoleAdmin {
		secs, err := s.residentRepo.CountBySecretariat(ctx, scope)
		if err != nil {
			return nil, err
		}
		summary.Secretariats = secs
	}

	_ = s.cache.SetJSON(ctx, cacheKey, summary, summaryCacheTTL)
	return summary, nil
}

// OfficerActivity returns per-officer edit counts. Admins see every
// officer, secretaries the officers of their mandal; field officers are
// not entitled to each other's numbers.
func (s *analyticsService) OfficerActivity(ctx context.Context, actor access.Actor, start, end *time.Time) ([]repository.OfficerActivity, error) {
	switch actor.Role {
	case access.RoleAdmin:
		return s.logRepo.CountByOfficer(ctx, nil, start, end)
	case access.RolePanchayatSecretary:
		ids, err := s.userRepo.ListFieldOfficerIDs(ctx, actor.Mandal)
		if err != nil {
			return nil, err
		}
		if len(ids) == 0 {
			return []repository.OfficerActivity{}, nil
		}
		return s.logRepo.CountByOfficer(ctx, ids, start, end)
	default:
		return nil, apperrors.ErrAccessDenied
	}
}
