package importer

import (
	"context"
	"fmt"
	"sync"

	"birdsong-quiz/internal/domain"
	"birdsong-quiz/internal/logger"
	"birdsong-quiz/internal/metrics"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// TaxonomySource provides species, regions and regional species lists
type TaxonomySource interface {
	Taxonomy(ctx context.Context, locale domain.Locale) ([]TaxonomyEntry, error)
	Regions(ctx context.Context, parent string) ([]RegionEntry, error)
	SpeciesCodes(ctx context.Context, regionCode string) ([]string, error)
}

// RecordingSource provides recordings of a species
type RecordingSource interface {
	Recordings(ctx context.Context, species *domain.Species) ([]XCRecording, error)
}

// ImportReport counts the records handled by one import
type ImportReport struct {
	Fetched  int
	Imported int
	Skipped  int
}

func (r *ImportReport) add(other ImportReport) {
	r.Fetched += other.Fetched
	r.Imported += other.Imported
	r.Skipped += other.Skipped
}

// Repositories groups the stores an import writes to
type Repositories struct {
	Regions      domain.RegionRepository
	Species      domain.SpeciesRepository
	Observations domain.ObservationRepository
	Recordings   domain.RecordingRepository
	SpeciesLists domain.SpeciesListRepository
	Tx           domain.TransactionManager
}

// Service loads reference data from external sources into the repositories.
// Invalid records are skipped and counted, never stored.
type Service struct {
	taxonomy    TaxonomySource
	recordings  RecordingSource
	repos       Repositories
	metrics     *metrics.Metrics
	concurrency int
}

// NewService creates an import service. Either source may be nil when the
// corresponding imports are not used.
func NewService(taxonomy TaxonomySource, recordings RecordingSource, repos Repositories, m *metrics.Metrics, concurrency int) *Service {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Service{
		taxonomy:    taxonomy,
		recordings:  recordings,
		repos:       repos,
		metrics:     m,
		concurrency: concurrency,
	}
}

func (s *Service) record(source, kind string, report *ImportReport) {
	s.metrics.ImportRecords(source, kind, "imported", report.Imported)
	s.metrics.ImportRecords(source, kind, "skipped", report.Skipped)
	logger.Get().Info("Import finished",
		zap.String("source", source),
		zap.String("kind", kind),
		zap.Int("fetched", report.Fetched),
		zap.Int("imported", report.Imported),
		zap.Int("skipped", report.Skipped),
	)
}

// ImportRegions imports the direct subregions of parent, or countries for WorldRegion.
// A parent other than WorldRegion must already be imported.
func (s *Service) ImportRegions(ctx context.Context, parent string) (*ImportReport, error) {
	var parentRegion *domain.Region
	if parent != "" && parent != WorldRegion {
		var err error
		parentRegion, err = s.repos.Regions.GetByCode(ctx, parent)
		if err != nil {
			return nil, fmt.Errorf("failed to look up parent region %s: %w", parent, err)
		}
		if parentRegion == nil {
			return nil, domain.NewNotFoundError(fmt.Sprintf("parent region %s has not been imported", parent)).
				WithContext("region_code", parent)
		}
	}

	entries, err := s.taxonomy.Regions(ctx, parent)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch regions of %s: %w", parent, err)
	}

	report := &ImportReport{Fetched: len(entries)}
	for _, entry := range entries {
		region := ConvertRegion(entry, parentRegion)
		if err := region.Validate(); err != nil {
			logger.Get().Debug("Skipping invalid region", zap.String("code", entry.Code), zap.Error(err))
			report.Skipped++
			continue
		}
		if err := s.repos.Regions.Upsert(ctx, region); err != nil {
			return report, err
		}
		report.Imported++
	}
	s.record(SourceEBird, "region", report)
	return report, nil
}

// ImportSpecies imports the taxonomy in every supported locale, merged by species code.
func (s *Service) ImportSpecies(ctx context.Context) (*ImportReport, error) {
	byLocale := make(map[domain.Locale][]TaxonomyEntry)
	for _, locale := range domain.SupportedLocales() {
		entries, err := s.taxonomy.Taxonomy(ctx, locale)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch %s taxonomy: %w", locale, err)
		}
		byLocale[locale] = entries
	}

	species := MergeTaxonomies(byLocale)
	report := &ImportReport{Fetched: len(species)}
	for _, sp := range species {
		if err := sp.Validate(); err != nil {
			logger.Get().Debug("Skipping invalid species", zap.String("code", sp.Code), zap.Error(err))
			report.Skipped++
			continue
		}
		if err := s.repos.Species.Upsert(ctx, sp); err != nil {
			return report, err
		}
		report.Imported++
	}
	s.record(SourceEBird, "species", report)
	return report, nil
}

// ImportObservations records every imported species reported in each region.
// Codes of species that have not been imported are skipped.
func (s *Service) ImportObservations(ctx context.Context, regionCodes []string) (*ImportReport, error) {
	regions, err := s.resolveRegions(ctx, regionCodes)
	if err != nil {
		return nil, err
	}
	all, err := s.repos.Species.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	byCode := make(map[string]*domain.Species, len(all))
	for _, sp := range all {
		if sp.Code != "" {
			byCode[sp.Code] = sp
		}
	}

	report := &ImportReport{}
	for _, region := range regions {
		codes, err := s.taxonomy.SpeciesCodes(ctx, region.Code)
		if err != nil {
			return report, fmt.Errorf("failed to fetch species of region %s: %w", region.Code, err)
		}
		report.Fetched += len(codes)

		err = s.repos.Tx.WithTransaction(ctx, func(ctx context.Context) error {
			for _, code := range codes {
				sp, ok := byCode[code]
				if !ok {
					report.Skipped++
					continue
				}
				if err := s.repos.Observations.Upsert(ctx, sp.ID, region.ID); err != nil {
					return err
				}
				report.Imported++
			}
			return nil
		})
		if err != nil {
			return report, err
		}
	}
	s.record(SourceEBird, "observation", report)
	return report, nil
}

// ImportRecordings imports recordings of every species observed in the regions,
// fetching up to the configured number of species concurrently.
// With skipExisting, species that already have recordings are not fetched.
func (s *Service) ImportRecordings(ctx context.Context, regionCodes []string, skipExisting bool) (*ImportReport, error) {
	regions, err := s.resolveRegions(ctx, regionCodes)
	if err != nil {
		return nil, err
	}
	regionIDs := make([]int64, 0, len(regions))
	for _, r := range regions {
		regionIDs = append(regionIDs, r.ID)
	}
	species, err := s.repos.Species.ListObservedInRegions(ctx, regionIDs)
	if err != nil {
		return nil, err
	}

	var (
		mu     sync.Mutex
		report = &ImportReport{}
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for _, sp := range species {
		g.Go(func() error {
			partial, err := s.importSpeciesRecordings(gctx, sp, skipExisting)
			mu.Lock()
			report.add(partial)
			mu.Unlock()
			return err
		})
	}
	err = g.Wait()
	s.record(SourceXenoCanto, "recording", report)
	if err != nil {
		return report, err
	}
	return report, nil
}

func (s *Service) importSpeciesRecordings(ctx context.Context, sp *domain.Species, skipExisting bool) (ImportReport, error) {
	var report ImportReport
	if skipExisting {
		count, err := s.repos.Recordings.CountBySpecies(ctx, sp.ID)
		if err != nil {
			return report, err
		}
		if count > 0 {
			return report, nil
		}
	}

	recs, err := s.recordings.Recordings(ctx, sp)
	if err != nil {
		return report, fmt.Errorf("failed to fetch recordings of %s: %w", sp.ScientificName, err)
	}
	report.Fetched = len(recs)
	for _, rec := range recs {
		recording, err := ConvertRecording(rec, sp.ID)
		if err != nil {
			logger.Get().Debug("Skipping invalid recording",
				zap.String("xc_id", rec.ID),
				zap.String("species", sp.ScientificName),
				zap.Error(err),
			)
			report.Skipped++
			continue
		}
		if err := s.repos.Recordings.Save(ctx, recording); err != nil {
			return report, err
		}
		report.Imported++
	}
	return report, nil
}

// CreateBeginnerList stores an official beginner list of the given species codes scoped to the regions.
// Unknown species codes are skipped.
func (s *Service) CreateBeginnerList(ctx context.Context, name string, regionCodes, speciesCodes []string) (*domain.SpeciesList, *ImportReport, error) {
	regions, err := s.resolveRegions(ctx, regionCodes)
	if err != nil {
		return nil, nil, err
	}

	list := &domain.SpeciesList{Name: name, Official: true, Beginner: true}
	for _, r := range regions {
		list.RegionIDs = append(list.RegionIDs, r.ID)
	}

	report := &ImportReport{Fetched: len(speciesCodes)}
	seen := make(map[int64]bool, len(speciesCodes))
	for _, code := range speciesCodes {
		sp, err := s.repos.Species.GetByCode(ctx, code)
		if err != nil {
			return nil, report, err
		}
		if sp == nil || seen[sp.ID] {
			report.Skipped++
			continue
		}
		seen[sp.ID] = true
		list.SpeciesIDs = append(list.SpeciesIDs, sp.ID)
		report.Imported++
	}
	if err := list.Validate(); err != nil {
		return nil, report, err
	}

	if err := s.repos.Tx.WithTransaction(ctx, func(ctx context.Context) error {
		return s.repos.SpeciesLists.Save(ctx, list)
	}); err != nil {
		return nil, report, err
	}
	logger.Get().Info("Beginner list saved",
		zap.String("name", list.Name),
		zap.Int64("list_id", list.ID),
		zap.Int("species", len(list.SpeciesIDs)),
		zap.Int("regions", len(list.RegionIDs)),
	)
	return list, report, nil
}

// resolveRegions loads imported regions by code. Every code must exist.
func (s *Service) resolveRegions(ctx context.Context, codes []string) ([]*domain.Region, error) {
	regions := make([]*domain.Region, 0, len(codes))
	for _, code := range codes {
		region, err := s.repos.Regions.GetByCode(ctx, code)
		if err != nil {
			return nil, fmt.Errorf("failed to look up region %s: %w", code, err)
		}
		if region == nil {
			return nil, domain.NewNotFoundError(fmt.Sprintf("region %s has not been imported", code)).
				WithContext("region_code", code)
		}
		regions = append(regions, region)
	}
	return regions, nil
}
