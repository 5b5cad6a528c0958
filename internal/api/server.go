// Package api exposes the record, identity and suggestion services over a
// JSON REST surface.
package api

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"

	"github.com/alexanderramin/tasker/internal/identity"
	"github.com/alexanderramin/tasker/internal/intelligence"
	"github.com/alexanderramin/tasker/internal/service"
)

// Services are the collaborators the handlers delegate to. Suggestions may
// be nil, in which case the suggestion route answers 503.
type Services struct {
	Identity    identity.Service
	Tasks       service.TaskService
	Categories  service.CategoryService
	Commitments service.CommitmentService
	Suggestions intelligence.SuggestionService
}

// NewApp builds the fiber application with every route registered.
func NewApp(svcs Services, logger *zap.Logger) *fiber.App {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("http")

	app := fiber.New(fiber.Config{
		AppName:               "tasker",
		DisableStartupMessage: true,
		ReadTimeout:           30 * time.Second,
		ErrorHandler:          errorHandler(logger),
	})
	app.Use(recover.New())
	app.Use(requestLogger(logger))

	h := &handlers{svcs: svcs}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	auth := app.Group("/auth")
	auth.Post("/signup", h.signUp)
	auth.Post("/signin", h.signIn)
	auth.Post("/oauth/:provider", h.signInWithOAuth)
	auth.Post("/reset", h.requestPasswordReset)
	auth.Post("/reset/confirm", h.resetPassword)
	auth.Post("/signout", RequireAuth(svcs.Identity), h.signOut)

	protected := app.Group("", RequireAuth(svcs.Identity))

	protected.Get("/tasks", h.listTasks)
	protected.Post("/tasks", h.createTask)
	protected.Post("/tasks/reorder", h.reorderTasks)
	protected.Get("/tasks/:id", h.getTask)
	protected.Patch("/tasks/:id", h.updateTask)
	protected.Delete("/tasks/:id", h.deleteTask)
	protected.Post("/tasks/:id/complete", h.completeTask)
	protected.Post("/tasks/:id/uncomplete", h.uncompleteTask)
	protected.Post("/tasks/:id/undo", h.undoCompletion)
	protected.Post("/tasks/:id/library", h.moveToLibrary)
	protected.Get("/tasks/:id/subtasks", h.listSubtasks)
	protected.Post("/tasks/:id/subtasks", h.addSubtask)
	protected.Post("/tasks/:id/subtasks/restore", h.restoreSubtasks)

	protected.Get("/categories", h.listCategories)
	protected.Post("/categories", h.createCategory)
	protected.Post("/categories/reorder", h.reorderCategories)
	protected.Get("/categories/:id", h.getCategory)
	protected.Patch("/categories/:id", h.updateCategory)
	protected.Delete("/categories/:id", h.deleteCategory)

	protected.Get("/commitments", h.listCommitments)
	protected.Post("/commitments", h.createCommitment)
	protected.Post("/commitments/reorder", h.reorderCommitments)
	protected.Get("/commitments/:id", h.getCommitment)
	protected.Patch("/commitments/:id", h.updateCommitment)
	protected.Delete("/commitments/:id", h.deleteCommitment)
	protected.Post("/commitments/:id/breakdown", h.breakdownCommitment)
	protected.Get("/commitments/:id/children", h.listCommitmentChildren)
	protected.Post("/commitments/:id/schedule", h.scheduleCommitment)

	protected.Post("/suggestions/subtasks", h.suggestSubtasks)

	return app
}

type handlers struct {
	svcs Services
}
