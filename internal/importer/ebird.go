package importer

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"birdsong-quiz/internal/config"
	"birdsong-quiz/internal/domain"
	"birdsong-quiz/internal/logger"
	"birdsong-quiz/internal/metrics"

	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

const (
	SourceEBird = "ebird"

	// WorldRegion is the pseudo parent of countries.
	WorldRegion = "world"
)

// ErrMissingAPIKey is returned when an importer is configured without its API key
var ErrMissingAPIKey = errors.New("API key is required")

// TaxonomyEntry is one species from the eBird taxonomy
type TaxonomyEntry struct {
	ScientificName string  `json:"sciName"`
	CommonName     string  `json:"comName"`
	SpeciesCode    string  `json:"speciesCode"`
	Category       string  `json:"category"`
	TaxonOrder     float64 `json:"taxonOrder"`
	Order          string  `json:"order"`
	FamilySciName  string  `json:"familySciName"`
}

// RegionEntry is one region from the eBird region list
type RegionEntry struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// EBirdClient reads taxonomy, regions and regional species lists from the eBird API
type EBirdClient struct {
	client *client
	cache  *cache.Cache
}

// NewEBirdClient creates an eBird client. Taxonomy responses are cached for cfg.CacheTTL.
func NewEBirdClient(cfg config.ImporterConfig, m *metrics.Metrics) (*EBirdClient, error) {
	if cfg.EBirdAPIKey == "" {
		return nil, fmt.Errorf("eBird: %w", ErrMissingAPIKey)
	}
	headers := map[string]string{"X-eBirdApiToken": cfg.EBirdAPIKey}
	return &EBirdClient{
		client: newClient(SourceEBird, cfg.EBirdBaseURL, headers, cfg.RequestInterval, cfg.RequestTimeout, m),
		cache:  cache.New(cfg.CacheTTL, cfg.CacheTTL*2),
	}, nil
}

// Taxonomy returns the species-level taxonomy with common names in locale.
func (e *EBirdClient) Taxonomy(ctx context.Context, locale domain.Locale) ([]TaxonomyEntry, error) {
	cacheKey := "taxonomy:" + string(locale)
	if cached, found := e.cache.Get(cacheKey); found {
		if taxonomy, ok := cached.([]TaxonomyEntry); ok {
			logger.Get().Debug("eBird taxonomy cache hit", zap.String("locale", string(locale)))
			return taxonomy, nil
		}
	}

	query := url.Values{}
	query.Set("cat", "species")
	query.Set("fmt", "json")
	query.Set("locale", string(locale))

	var taxonomy []TaxonomyEntry
	if err := e.client.getJSON(ctx, "/v2/ref/taxonomy/ebird", query, &taxonomy); err != nil {
		return nil, err
	}
	e.cache.Set(cacheKey, taxonomy, cache.DefaultExpiration)
	return taxonomy, nil
}

// Regions lists the direct subregions of parent, or countries when parent is WorldRegion.
func (e *EBirdClient) Regions(ctx context.Context, parent string) ([]RegionEntry, error) {
	var regions []RegionEntry
	path := fmt.Sprintf("/v2/ref/region/list/%s/%s", RegionType(parent), url.PathEscape(parent))
	if err := e.client.getJSON(ctx, path, nil, &regions); err != nil {
		return nil, err
	}
	return regions, nil
}

// SpeciesCodes lists the codes of every species ever reported in the region.
func (e *EBirdClient) SpeciesCodes(ctx context.Context, regionCode string) ([]string, error) {
	var codes []string
	if err := e.client.getJSON(ctx, "/v2/product/spplist/"+url.PathEscape(regionCode), nil, &codes); err != nil {
		return nil, err
	}
	return codes, nil
}

// RegionType returns the eBird region type of the children of parent.
// Country codes have no dash, first-level subdivisions have one.
func RegionType(parent string) string {
	switch {
	case parent == "" || strings.EqualFold(parent, WorldRegion):
		return "country"
	case strings.Contains(parent, "-"):
		return "subnational2"
	default:
		return "subnational1"
	}
}

// ConvertSpecies converts a taxonomy entry fetched in locale.
// The genus is the first word of the scientific name.
func ConvertSpecies(entry TaxonomyEntry, locale domain.Locale) *domain.Species {
	species := &domain.Species{
		ScientificName: strings.TrimSpace(entry.ScientificName),
		Order:          entry.Order,
		Family:         entry.FamilySciName,
		Code:           entry.SpeciesCode,
	}
	if fields := strings.Fields(species.ScientificName); len(fields) > 0 {
		species.Genus = fields[0]
	}
	species.Names.Set(locale, strings.TrimSpace(entry.CommonName))
	return species
}

// MergeTaxonomies merges per-locale taxonomies into one species per code, in the order first seen.
// eBird falls back to English for untranslated names; such names are dropped for other locales.
func MergeTaxonomies(byLocale map[domain.Locale][]TaxonomyEntry) []*domain.Species {
	merged := make(map[string]*domain.Species)
	var order []string
	for _, locale := range domain.SupportedLocales() {
		for _, entry := range byLocale[locale] {
			sp := ConvertSpecies(entry, locale)
			key := sp.Code
			if key == "" {
				key = sp.ScientificName
			}
			existing, ok := merged[key]
			if !ok {
				merged[key] = sp
				order = append(order, key)
				continue
			}
			name := sp.Names.Get(locale)
			if locale != domain.DefaultLocale && name == existing.Names.Get(domain.DefaultLocale) {
				continue
			}
			existing.Names.Merge(sp.Names)
		}
	}

	species := make([]*domain.Species, 0, len(order))
	for _, key := range order {
		species = append(species, merged[key])
	}
	return species
}

// ConvertRegion converts a region list entry under parent, which may be nil.
func ConvertRegion(entry RegionEntry, parent *domain.Region) *domain.Region {
	region := &domain.Region{
		Code:  strings.TrimSpace(entry.Code),
		Names: domain.LocalizedNames{EN: strings.TrimSpace(entry.Name)},
	}
	if parent != nil {
		parentID := parent.ID
		region.ParentID = &parentID
		region.Parent = parent
	}
	return region
}
