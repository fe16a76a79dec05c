package handler

import (
	"birdsong-quiz/internal/domain"
	"birdsong-quiz/internal/dto"
	"birdsong-quiz/internal/logger"
	"birdsong-quiz/internal/metrics"
	"birdsong-quiz/internal/middleware"
	"birdsong-quiz/internal/service"
	"birdsong-quiz/internal/validation"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// QuizHandler handles quiz-related HTTP requests
type QuizHandler struct {
	service   service.QuizService
	validator *validation.Validator
	metrics   *metrics.Metrics
}

// NewQuizHandler creates a new QuizHandler instance
func NewQuizHandler(service service.QuizService, validator *validation.Validator, m *metrics.Metrics) *QuizHandler {
	return &QuizHandler{
		service:   service,
		validator: validator,
		metrics:   m,
	}
}

// StartQuiz godoc
// @Summary Start a quiz
// @Description Builds a quiz of bird recordings for a region. The bearer token, when present, owns the quiz.
// @Tags quiz
// @Accept json
// @Produce json
// @Param request body dto.StartQuizRequest true "Quiz parameters"
// @Success 201 {object} dto.StartQuizResponse
// @Failure 400 {object} middleware.ErrorResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Failure 422 {object} middleware.ErrorResponse
// @Failure 500 {object} middleware.ErrorResponse
// @Router /quizzes [post]
func (h *QuizHandler) StartQuiz(c *fiber.Ctx) error {
	var req dto.StartQuizRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInvalidInputError("invalid request body")
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return err
	}

	session, err := h.service.StartQuiz(c.UserContext(), service.StartQuizInput{
		UserID:     middleware.UserID(c),
		RegionID:   req.RegionID,
		Difficulty: domain.Difficulty(req.Difficulty),
		Mode:       domain.QuizMode(req.Mode),
		Length:     req.Length,
		Locale:     domain.Locale(req.Locale),
	})
	if err != nil {
		return err
	}

	h.metrics.QuizStarted(string(session.Difficulty), string(session.Mode))
	logger.Get().Info("Quiz started",
		zap.String("session_id", session.ID),
		zap.Int64("region_id", session.RegionID),
		zap.String("difficulty", string(session.Difficulty)),
		zap.String("mode", string(session.Mode)),
		zap.Int("length", len(session.Questions)),
	)
	return c.Status(fiber.StatusCreated).JSON(dto.NewStartQuizResponse(session))
}

// SubmitAnswer godoc
// @Summary Answer a quiz question
// @Description Records the answer for one recording. The answer completing the quiz also returns the result.
// @Tags quiz
// @Accept json
// @Produce json
// @Param sessionID path string true "Quiz session ID"
// @Param request body dto.SubmitAnswerRequest true "Answer"
// @Success 200 {object} dto.SubmitAnswerResponse
// @Failure 400 {object} middleware.ErrorResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Failure 409 {object} middleware.ErrorResponse
// @Failure 500 {object} middleware.ErrorResponse
// @Router /quizzes/{sessionID}/answers [post]
func (h *QuizHandler) SubmitAnswer(c *fiber.Ctx) error {
	var req dto.SubmitAnswerRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInvalidInputError("invalid request body")
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return err
	}

	sessionID := c.Params("sessionID")
	outcome, err := h.service.SubmitAnswer(c.UserContext(), sessionID, req.RecordingID, req.Answer)
	if err != nil {
		return err
	}

	h.metrics.AnswerSubmitted(outcome.Correct)
	if outcome.Result != nil {
		h.metrics.QuizScored(outcome.Result.Score, outcome.Result.Length)
		logger.Get().Info("Quiz scored",
			zap.String("session_id", sessionID),
			zap.String("quiz_id", outcome.QuizID),
			zap.Int("score", outcome.Result.Score),
			zap.Int("length", outcome.Result.Length),
		)
	}

	return c.JSON(dto.SubmitAnswerResponse{
		RecordingID: outcome.RecordingID,
		Correct:     outcome.Correct,
		CorrectName: outcome.CorrectName,
		Finished:    outcome.Finished,
		QuizID:      outcome.QuizID,
		Result:      outcome.Result,
	})
}

// GetQuizResult godoc
// @Summary Get a quiz result
// @Description Returns the score and per-question outcome of a scored quiz
// @Tags quiz
// @Produce json
// @Param quizID path string true "Quiz ID"
// @Param locale query string false "Locale (en, fi)"
// @Success 200 {object} domain.QuizResult
// @Failure 400 {object} middleware.ErrorResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /quizzes/{quizID}/result [get]
func (h *QuizHandler) GetQuizResult(c *fiber.Ctx) error {
	result, err := h.service.GetQuizResult(c.UserContext(), c.Params("quizID"), middleware.Locale(c))
	if err != nil {
		return err
	}
	return c.JSON(result)
}
