package main

import (
	"database/sql"
	"net/http"

	"github.com/jonboulle/clockwork"

	"github.com/agorahq/agora/go/internal/activation"
	"github.com/agorahq/agora/go/internal/gateway"
	"github.com/agorahq/agora/go/internal/questions"
	questionsdb "github.com/agorahq/agora/go/internal/questions/db"
	"github.com/agorahq/agora/go/internal/responses"
	responsesdb "github.com/agorahq/agora/go/internal/responses/db"
	"github.com/agorahq/agora/go/internal/sessions"
	sessionsdb "github.com/agorahq/agora/go/internal/sessions/db"
)

type Services struct {
	Sessions   *sessions.Service
	Questions  *questions.Service
	Activation *activation.Service
	Responses  *responses.Service
	Gateway    *gateway.Service
}

func setupServices(database *sql.DB, gatewayCfg gateway.Config) (*Services, error) {
	// Database layer → Repository layer → App layer → Service layer.
	clock := clockwork.NewRealClock()

	sessionQueries := sessionsdb.New(database)
	sessionRepo := sessions.NewRepository(sessionQueries)
	sessionApp := sessions.NewApp(sessionRepo)
	sessionService := sessions.NewService(sessionApp)

	questionQueries := questionsdb.New(database)
	questionRepo := questions.NewRepository(questionQueries, database)
	questionApp := questions.NewApp(questionRepo)
	questionService := questions.NewService(questionApp)

	// The coordinator and the gateway reference each other: the gateway
	// serves session state from the coordinator, and the coordinator
	// broadcasts through the gateway.
	coordinator := activation.NewCoordinator(questionRepo, nil, clock)
	gatewayService, err := gateway.NewService(gatewayCfg, coordinator)
	if err != nil {
		return nil, err
	}
	coordinator.SetBroadcaster(gatewayService)
	activationService := activation.NewService(coordinator)

	responseQueries := responsesdb.New(database)
	responseRepo := responses.NewRepository(responseQueries)
	responseApp := responses.NewApp(responseRepo, questionRepo, gatewayService, clock)
	responseService := responses.NewService(responseApp)

	return &Services{
		Sessions:   sessionService,
		Questions:  questionService,
		Activation: activationService,
		Responses:  responseService,
		Gateway:    gatewayService,
	}, nil
}

func registerServices(mux *http.ServeMux, services *Services) {
	services.Sessions.RegisterRoutes(mux)
	services.Questions.RegisterRoutes(mux)
	services.Activation.RegisterRoutes(mux)
	services.Responses.RegisterRoutes(mux)
	services.Gateway.RegisterRoutes(mux)
}
