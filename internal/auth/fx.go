package auth

import (
	"github.com/welltrack/welltrack/internal/auth/repository"
	"github.com/welltrack/welltrack/internal/auth/service"
	"go.uber.org/fx"
)

var Module = fx.Module("auth",
	fx.Provide(
		repository.New,
		service.NewService,
	),
)
