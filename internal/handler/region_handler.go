package handler

import (
	"birdsong-quiz/internal/dto"
	"birdsong-quiz/internal/middleware"
	"birdsong-quiz/internal/service"

	"github.com/gofiber/fiber/v2"
)

// RegionHandler serves the regions and species a quiz can be built from
type RegionHandler struct {
	regions  service.RegionService
	selector service.SpeciesSelector
}

// NewRegionHandler creates a new RegionHandler instance
func NewRegionHandler(regions service.RegionService, selector service.SpeciesSelector) *RegionHandler {
	return &RegionHandler{regions: regions, selector: selector}
}

// ListRegions godoc
// @Summary List quiz regions
// @Description Returns regions with at least one observation, ordered by localized display name
// @Tags regions
// @Produce json
// @Param locale query string false "Locale (en, fi)"
// @Success 200 {array} dto.RegionResponse
// @Failure 400 {object} middleware.ErrorResponse
// @Failure 500 {object} middleware.ErrorResponse
// @Router /regions [get]
func (h *RegionHandler) ListRegions(c *fiber.Ctx) error {
	locale := middleware.Locale(c)
	regions, err := h.regions.ListAvailableRegions(c.UserContext(), locale)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewRegionResponses(regions, locale))
}

// ListSpecies godoc
// @Summary List species of a region
// @Description Returns species observed in the region that have recordings
// @Tags regions
// @Produce json
// @Param regionID path int true "Region ID"
// @Param beginner query bool false "Only species on a beginner list of the region"
// @Param locale query string false "Locale (en, fi)"
// @Success 200 {array} dto.SpeciesResponse
// @Failure 400 {object} middleware.ErrorResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /regions/{regionID}/species [get]
func (h *RegionHandler) ListSpecies(c *fiber.Ctx) error {
	locale := middleware.Locale(c)
	species, err := h.selector.SpeciesForRegion(c.UserContext(), middleware.IDParam(c, "regionID"), c.QueryBool("beginner"))
	if err != nil {
		return err
	}
	return c.JSON(dto.NewSpeciesResponses(species, locale))
}
