package handler

import (
	"birdsong-quiz/internal/domain"
	"birdsong-quiz/internal/dto"
	"birdsong-quiz/internal/logger"
	"birdsong-quiz/internal/middleware"
	"birdsong-quiz/internal/service"
	"birdsong-quiz/internal/validation"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// ContributeHandler serves observation annotation for contributors
type ContributeHandler struct {
	service   service.ContributionService
	validator *validation.Validator
}

// NewContributeHandler creates a new ContributeHandler instance
func NewContributeHandler(service service.ContributionService, validator *validation.Validator) *ContributeHandler {
	return &ContributeHandler{service: service, validator: validator}
}

// ListObservations godoc
// @Summary List observations to annotate
// @Description Observations in the region without an occurrence type that the caller has not annotated
// @Tags contribute
// @Produce json
// @Security BearerAuth
// @Param regionID path int true "Region ID"
// @Param locale query string false "Locale (en, fi)"
// @Success 200 {array} dto.ObservationResponse
// @Failure 401 {object} middleware.ErrorResponse
// @Failure 403 {object} middleware.ErrorResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /contribute/regions/{regionID}/observations [get]
func (h *ContributeHandler) ListObservations(c *fiber.Ctx) error {
	contributor, _ := middleware.CurrentContributor(c)
	observations, err := h.service.ObservationsToAnnotate(c.UserContext(), middleware.IDParam(c, "regionID"), contributor.UserID)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewObservationResponses(observations, middleware.Locale(c)))
}

// AnnotateObservation godoc
// @Summary Annotate an observation
// @Description Stores the caller's occurrence type for the observation. Superuser annotations apply immediately.
// @Tags contribute
// @Accept json
// @Security BearerAuth
// @Param observationID path int true "Observation ID"
// @Param request body dto.AnnotateObservationRequest true "Occurrence type"
// @Success 204
// @Failure 400 {object} middleware.ErrorResponse
// @Failure 401 {object} middleware.ErrorResponse
// @Failure 403 {object} middleware.ErrorResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Failure 409 {object} middleware.ErrorResponse
// @Router /contribute/observations/{observationID}/annotation [post]
func (h *ContributeHandler) AnnotateObservation(c *fiber.Ctx) error {
	var req dto.AnnotateObservationRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInvalidInputError("invalid request body")
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return err
	}
	occurrenceType, err := domain.ParseOccurrenceType(req.OccurrenceType)
	if err != nil {
		return err
	}

	contributor, _ := middleware.CurrentContributor(c)
	observationID := middleware.IDParam(c, "observationID")
	if err := h.service.AnnotateObservation(c.UserContext(), contributor, observationID, occurrenceType); err != nil {
		return err
	}

	logger.Get().Info("Observation annotated",
		zap.Int64("observation_id", observationID),
		zap.String("user_id", contributor.UserID),
		zap.String("occurrence_type", string(occurrenceType)),
		zap.Bool("superuser", contributor.Superuser),
	)
	return c.SendStatus(fiber.StatusNoContent)
}
