package service

import (
	"context"
	"fmt"
	"time"

	"birdsong-quiz/internal/domain"
)

// ContributionService lets contributors annotate the occurrence type of observations
type ContributionService interface {
	// ObservationsToAnnotate lists observations in the region that have no occurrence type
	// and that the user has not annotated yet.
	ObservationsToAnnotate(ctx context.Context, regionID int64, userID string) ([]*domain.Observation, error)

	// AnnotateObservation stores one annotation per user and observation.
	// A superuser's annotation also sets the observation's occurrence type.
	AnnotateObservation(ctx context.Context, contributor domain.Contributor, observationID int64, occurrenceType domain.OccurrenceType) error
}

type contributionService struct {
	regionRepo      domain.RegionRepository
	observationRepo domain.ObservationRepository
	txManager       domain.TransactionManager
	now             func() time.Time
}

// NewContributionService creates a new instance of contributionService
func NewContributionService(
	regionRepo domain.RegionRepository,
	observationRepo domain.ObservationRepository,
	txManager domain.TransactionManager,
) ContributionService {
	return &contributionService{
		regionRepo:      regionRepo,
		observationRepo: observationRepo,
		txManager:       txManager,
		now:             time.Now,
	}
}

// ObservationsToAnnotate implements ContributionService
func (s *contributionService) ObservationsToAnnotate(ctx context.Context, regionID int64, userID string) ([]*domain.Observation, error) {
	if userID == "" {
		return nil, domain.NewUnauthorizedError("contributor identity is required")
	}
	region, err := s.regionRepo.GetByID(ctx, regionID)
	if err != nil {
		return nil, domain.NewInternalError("failed to look up region", err)
	}
	if region == nil {
		return nil, domain.NewRegionNotFoundError(regionID)
	}
	observations, err := s.observationRepo.ListUnannotated(ctx, regionID, userID)
	if err != nil {
		return nil, domain.NewInternalError("failed to list observations to annotate", err)
	}
	return observations, nil
}

// AnnotateObservation implements ContributionService
func (s *contributionService) AnnotateObservation(
	ctx context.Context,
	contributor domain.Contributor,
	observationID int64,
	occurrenceType domain.OccurrenceType,
) error {
	if contributor.UserID == "" {
		return domain.NewUnauthorizedError("contributor identity is required")
	}
	if _, err := domain.ParseOccurrenceType(string(occurrenceType)); err != nil {
		return err
	}
	observation, err := s.observationRepo.GetByID(ctx, observationID)
	if err != nil {
		return domain.NewInternalError("failed to look up observation", err)
	}
	if observation == nil {
		return domain.NewNotFoundError(fmt.Sprintf("observation not found with ID: %d", observationID)).
			WithContext("observation_id", observationID)
	}

	return s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		saved, err := s.observationRepo.SaveAnnotation(txCtx, &domain.ObservationAnnotation{
			ObservationID:  observationID,
			UserID:         contributor.UserID,
			OccurrenceType: occurrenceType,
			CreatedAt:      s.now().UTC(),
		})
		if err != nil {
			return domain.NewInternalError("failed to save annotation", err)
		}
		if !saved {
			return domain.NewQuizStateError("observation has already been annotated by this user").
				WithContext("observation_id", observationID)
		}
		if !contributor.Superuser {
			return nil
		}
		if err := s.observationRepo.SetOccurrenceType(txCtx, observationID, occurrenceType); err != nil {
			return domain.NewInternalError("failed to set occurrence type", err)
		}
		return nil
	})
}
