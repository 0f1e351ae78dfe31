package scheduler

import (
	"context"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"

	authrepo "assembly_portal_backend/internal/auth/repository"
	catalogrepo "assembly_portal_backend/internal/catalog/repository"
	"assembly_portal_backend/internal/email"
	projectsrepo "assembly_portal_backend/internal/projects/repository"
	projectsvc "assembly_portal_backend/internal/projects/service"
	"assembly_portal_backend/platform/config"
	"assembly_portal_backend/platform/logger"
)

const defaultConcurrency = 10

// Worker consumes background tasks: it prices ordered projects and delivers
// the confirmation and welcome emails.
type Worker struct {
	server   *asynq.Server
	mux      *asynq.ServeMux
	users    authrepo.Repository
	projects projectsrepo.Repository
	catalog  catalogrepo.Repository
	mail     email.Sender
	log      *logger.Logger
}

// NewWorker creates the asynq server and registers task handlers.
func NewWorker(cfg config.RedisConfig, pool *pgxpool.Pool, mail email.Sender, log *logger.Logger) (*Worker, error) {
	opt, err := redisClientOpt(cfg.GetRedisURL())
	if err != nil {
		return nil, err
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: defaultConcurrency,
		Queues: map[string]int{
			defaultQueue: 1,
		},
	})

	mux := asynq.NewServeMux()
	w := &Worker{
		server:   server,
		mux:      mux,
		users:    authrepo.New(pool),
		projects: projectsrepo.New(pool),
		catalog:  catalogrepo.New(pool),
		mail:     mail,
		log:      log,
	}

	mux.HandleFunc(TaskOrderConfirmation, w.handleOrderConfirmation)
	mux.HandleFunc(TaskWelcomeEmail, w.handleWelcomeEmail)

	return w, nil
}

// Run serves tasks until the context is cancelled.
func (w *Worker) Run(ctx context.Context) {
	if w == nil || w.server == nil {
		return
	}

	go func() {
		<-ctx.Done()
		w.server.Shutdown()
	}()

	if err := w.server.Run(w.mux); err != nil {
		w.log.Error("scheduler worker stopped", "error", err)
	}
}

func (w *Worker) handleOrderConfirmation(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseOrderConfirmationPayload(task)
	if err != nil {
		return err
	}

	user, err := w.users.GetUserByID(ctx, payload.UserID)
	if err != nil {
		return err
	}
	project, err := w.projects.GetProjectByID(ctx, payload.ProjectID)
	if err != nil {
		return err
	}

	lines, err := w.projects.GetProjectLines(ctx, payload.ProjectID)
	if err != nil {
		return err
	}

	ids := make([]int64, 0, len(lines))
	calcLines := make([]projectsvc.CalcLine, 0, len(lines))
	for _, line := range lines {
		ids = append(ids, line.ElementID)
		calcLines = append(calcLines, projectsvc.CalcLine{ElementID: line.ElementID, Quantity: line.Quantity})
	}

	elements, err := w.catalog.GetElementsByIDs(ctx, ids)
	if err != nil {
		return err
	}
	view := make(map[int64]projectsvc.CatalogElement, len(elements))
	for _, element := range elements {
		view[element.ID] = projectsvc.CatalogElement{
			ID:                      element.ID,
			Name:                    element.Name,
			PriceCents:              element.PriceCents,
			InstallationCostCents:   element.InstallationCostCents,
			InstallationTimeMinutes: element.InstallationTimeMinutes,
			StockAmount:             element.StockAmount,
		}
	}

	summary := projectsvc.CalculateCostAndTime(calcLines, view)

	if err := w.mail.SendOrderConfirmationEmail(ctx, user.Email, project.Name,
		summary.TotalCostCents, summary.TotalTimeMinutes); err != nil {
		return err
	}

	w.log.Info("order confirmation sent", "project_id", project.ID, "user_id", user.ID)
	return nil
}

func (w *Worker) handleWelcomeEmail(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseWelcomeEmailPayload(task)
	if err != nil {
		return err
	}

	if err := w.mail.SendWelcomeEmail(ctx, payload.Email); err != nil {
		return err
	}

	w.log.Info("welcome email sent", "user_id", payload.UserID)
	return nil
}
