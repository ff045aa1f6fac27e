package session

import (
	"github.com/welltrack/welltrack/internal/session/repository"
	"github.com/welltrack/welltrack/internal/session/service"
	"go.uber.org/fx"
)

var Module = fx.Module("session",
	fx.Provide(
		repository.New,
		service.NewService,
	),
)
