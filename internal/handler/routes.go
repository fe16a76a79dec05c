package handler

import (
	"birdsong-quiz/internal/middleware"
	"birdsong-quiz/internal/service"

	"github.com/gofiber/fiber/v2"
)

// Routes groups the API handlers and the middleware they depend on
type Routes struct {
	Regions    *RegionHandler
	Quizzes    *QuizHandler
	Contribute *ContributeHandler
	Auth       service.AuthService
	Validation *middleware.ValidationMiddleware
}

// Register mounts the API on router, usually the /api group.
func (r *Routes) Register(router fiber.Router) {
	vm := r.Validation
	router.Use(middleware.OptionalAuth(r.Auth))

	router.Get("/regions", vm.ValidateLocale(), r.Regions.ListRegions)
	router.Get("/regions/:regionID/species", vm.ValidateIDParam("regionID"), vm.ValidateLocale(), r.Regions.ListSpecies)

	router.Post("/quizzes", r.Quizzes.StartQuiz)
	router.Post("/quizzes/:sessionID/answers", vm.ValidateULIDParam("sessionID"), r.Quizzes.SubmitAnswer)
	router.Get("/quizzes/:quizID/result", vm.ValidateULIDParam("quizID"), vm.ValidateLocale(), r.Quizzes.GetQuizResult)

	contribute := router.Group("/contribute", middleware.RequireContributor())
	contribute.Get("/regions/:regionID/observations", vm.ValidateIDParam("regionID"), vm.ValidateLocale(), r.Contribute.ListObservations)
	contribute.Post("/observations/:observationID/annotation", vm.ValidateIDParam("observationID"), r.Contribute.AnnotateObservation)
}
