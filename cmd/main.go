// Package main is the entry point for the fare offer service.
//
// @title           Fare Offer Service API
// @version         1.0.0
// @description     Normalizes flight pricing provider payloads into bookable fare offers.
//
//	Raw provider payloads are resolved into offers with segments, baggage, fare rules
//	and a per-passenger price breakdown. Payloads can be posted directly, fetched from
//	the pricing provider, or replayed from the archive.
//
// @contact.name   API Support
// @contact.email  support@example.com
// @contact.url    https://github.com/guttosm/fare-offer-service
//
// @license.name  MIT
// @license.url   https://opensource.org/licenses/MIT
//
// @host      localhost:8080
// @BasePath  /
//
// @securityDefinitions.apikey  ApiKeyAuth
// @in                          header
// @name                        X-API-Key
// @description                 API key. Required when authentication is enabled without a JWT secret.
//
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
// @description                 "Bearer <token>" issued by the identity service.
//
// @tag.name        Offers
// @tag.description Payload normalization, provider search and price confirmation
//
// @tag.name        Payloads
// @tag.description Archived provider payloads
//
// @tag.name        Logs
// @tag.description Stored request and audit logs
//
// @tag.name        Health
// @tag.description Liveness and readiness probes
package main

import (
	"context"

	"github.com/rs/zerolog/log"

	_ "github.com/guttosm/fare-offer-service/docs" // swagger docs

	"github.com/guttosm/fare-offer-service/config"
	"github.com/guttosm/fare-offer-service/internal/app"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	ctx := context.Background()
	application := app.InitializeApp(ctx, cfg)
	server := app.NewServer(application.Router, cfg.Server)

	runErr := server.Run(ctx)
	application.Close(ctx)
	if runErr != nil {
		log.Fatal().Err(runErr).Msg("Server error")
	}
}
