package router

import (
	"github.com/oksasatya/iterate-backend/internal/application"
	"github.com/oksasatya/iterate-backend/internal/container"
	"github.com/oksasatya/iterate-backend/internal/domain/repository"
	pginfra "github.com/oksasatya/iterate-backend/internal/infrastructure/postgres"
	"github.com/oksasatya/iterate-backend/internal/infrastructure/search"
	handlers "github.com/oksasatya/iterate-backend/internal/interface/http"
	"github.com/oksasatya/iterate-backend/internal/interface/middleware"
	"github.com/oksasatya/iterate-backend/internal/router/modules"
)

type UserModuleDeps struct {
	Repo    repository.UserRepository
	Webhook *handlers.WebhookUsersHandler
	Users   *handlers.UserHandler
}

func buildUserDeps() UserModuleDeps {
	logger := container.GetLogger()
	repo := pginfra.NewUserRepository(container.GetPGPool())

	// nil-checked so optional components stay nil interfaces
	var pub application.MessagePublisher
	if p := container.GetRabbitPub(); p != nil {
		pub = p
	}
	var searcher application.UserSearcher
	if es := container.GetES(); es != nil {
		searcher = search.NewUserIndex(es, container.GetConfig().ESUsersIndex)
	}

	var verifier application.SignatureVerifier
	if v := container.GetWebhookVerifier(); v != nil {
		verifier = v
	}

	webhook := handlers.NewWebhookUsersHandler(
		application.NewVerifySvixSignatureUseCase(verifier, logger),
		application.NewSaveUsersUseCase(repo, logger),
		application.NewUserEventPublisher(pub, logger),
		logger,
	)
	users := handlers.NewUserHandler(application.NewUserQueryService(repo, searcher), logger)

	return UserModuleDeps{Repo: repo, Webhook: webhook, Users: users}
}

func sessionParser() middleware.SessionParser {
	if s := container.GetSessions(); s != nil {
		return s
	}
	return nil
}

// InitModules initializes all application modules and registers them with the router registry
// This function should be called once during application startup to wire up all modules
func InitModules(r *Registry) {
	cfg := container.GetConfig()
	deps := buildUserDeps()

	r.AddRoot(modules.NewWebhookModule(deps.Webhook, container.GetRedis(), cfg.WebhookRateLimit))
	r.Add(modules.NewHealthModule(handlers.NewHealthHandler(pgPinger())))
	r.Add(modules.NewUserModule(deps.Users, sessionParser(), container.GetRedis()))
	if cfg.DebugMetricsEnabled {
		r.Add(modules.NewDebugModule(container.GetRedis()))
	}
}

func pgPinger() handlers.Pinger {
	if p := container.GetPGPool(); p != nil {
		return p
	}
	return nil
}
