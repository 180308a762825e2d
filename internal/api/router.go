package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/taskhub/taskhub-be/internal/api/handlers"
	"github.com/taskhub/taskhub-be/internal/services"
)

// NewRouter creates and configures a new Chi router.
func NewRouter(
	userService services.UserServiceProvider,
	taskService services.TaskServiceProvider,
	boardService services.BoardServiceProvider,
	eventService services.EventServiceProvider,
) *chi.Mux {
	r := chi.NewRouter()

	// Basic middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Initialize handlers
	userHandler := handlers.NewUserHandler(userService)
	taskHandler := handlers.NewTaskHandler(taskService)
	boardHandler := handlers.NewBoardHandler(boardService)
	eventHandler := handlers.NewEventHandler(eventService)

	// Root liveness probe for infrastructure checks
	r.Get("/health", handlers.Health)

	// API versioning
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/", handlers.APIInfo)
		r.Get("/health", handlers.Health)
		r.Get("/events", eventHandler.GetRecent)

		r.Route("/users", func(r chi.Router) {
			r.Post("/", userHandler.Create)
			r.Get("/", userHandler.GetAll)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", userHandler.Get)
				r.Get("/with-tasks", userHandler.GetWithTasks)
				r.Get("/task-stats", userHandler.GetTaskStats)
				r.Put("/", userHandler.Update)
				r.Delete("/", userHandler.Delete)
			})
		})

		r.Route("/tasks", func(r chi.Router) {
			r.Post("/", taskHandler.Create)
			r.Get("/", taskHandler.GetAll)
			r.Get("/search", taskHandler.Search)
			r.Patch("/mark-completed", taskHandler.MarkCompleted)
			r.Get("/user/{userId}", taskHandler.GetByUser)
			r.Get("/user/{userId}/stats", taskHandler.StatsByUser)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", taskHandler.Get)
				r.Put("/", taskHandler.Update)
				r.Patch("/toggle", taskHandler.Toggle)
				r.Delete("/", taskHandler.Delete)
			})
		})

		r.Route("/boards", func(r chi.Router) {
			r.Post("/", boardHandler.Create)
			r.Get("/", boardHandler.GetAll)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", boardHandler.Get)
				r.Post("/", boardHandler.AddMember)
				r.Delete("/members/{userId}", boardHandler.RemoveMember)
			})
		})
	})

	return r
}
