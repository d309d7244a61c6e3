// File: cmd/server/wire.go
//go:build wireinject
// +build wireinject

package main

import (
	"bazaar_onboarding_backend/internal/app"
	"bazaar_onboarding_backend/internal/buyer"
	"bazaar_onboarding_backend/internal/config"
	"bazaar_onboarding_backend/internal/jobs"
	"bazaar_onboarding_backend/internal/oauth"
	"bazaar_onboarding_backend/internal/onboarding"
	"bazaar_onboarding_backend/internal/platform/database"
	"bazaar_onboarding_backend/internal/platform/logger"
	"bazaar_onboarding_backend/internal/platform/redis"
	"bazaar_onboarding_backend/internal/seller"
	"bazaar_onboarding_backend/internal/user"

	"github.com/google/wire"
)

// initializeServer is the main Wire injector.
func initializeServer(cfg *config.Config) (*app.Server, func(), error) {
	wire.Build(
		// Platform Layer
		logger.New,
		database.NewGORM,
		redis.New,

		// Repositories
		user.NewGORMRepository,
		buyer.NewGORMRepository,
		seller.NewGORMRepository,

		// Onboarding
		onboarding.NewService,
		onboarding.NewHandler,

		// OAuth Handshake
		oauth.NewRedisStateStore,
		oauth.NewUserInfoResolver,
		oauth.NewService,
		oauth.NewHandler,

		// Jobs
		jobs.NewStaleOnboardingJob,

		// Application Layer
		app.NewServer,
	)
	return nil, nil, nil
}
