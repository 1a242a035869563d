package routes

import (
	"net/http"

	"github.com/taskforge/taskforge/internal/app"
	"github.com/taskforge/taskforge/internal/handler"
	"github.com/taskforge/taskforge/internal/middleware"
)

func SetupRoutes(app *app.App) http.Handler {
	// Handlers
	health := handler.NewHealthHandler(app.Cfg.AppName)
	project := handler.NewProjectHandler(app.ProjectService)
	task := handler.NewTaskHandler(app.TaskService)
	attachment := handler.NewAttachmentHandler(app.AttachmentService)

	mux := http.NewServeMux()

	// Health
	mux.HandleFunc("GET /health", health.Health)

	// Projects
	mux.HandleFunc("GET /projects", project.List)
	mux.HandleFunc("POST /projects", project.Create)
	mux.HandleFunc("GET /projects/{id}/tasks", task.ListByProject)

	// Tasks
	mux.HandleFunc("GET /tasks", task.List)
	mux.HandleFunc("POST /tasks", task.Create)
	mux.HandleFunc("PATCH /tasks/{id}/toggle", task.Toggle)
	mux.HandleFunc("DELETE /tasks/{id}", task.Delete)

	// Attachments
	mux.HandleFunc("GET /tasks/{id}/attachments", attachment.ListByTask)
	mux.HandleFunc("POST /attachments/presign", attachment.PresignUpload)
	mux.HandleFunc("POST /attachments/register", attachment.Register)
	mux.HandleFunc("GET /attachments/download", attachment.Download)
	mux.HandleFunc("DELETE /attachments/{id}", attachment.Delete)

	// Global middleware - executed in order (top to bottom)
	return middleware.Chain(
		mux,
		middleware.CORS(app.Cfg.CORSOrigin),
		middleware.Correlation,
		middleware.RequestLogging,
	)
}
