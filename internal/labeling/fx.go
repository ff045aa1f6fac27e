package labeling

import (
	"github.com/welltrack/welltrack/internal/config"
	"go.uber.org/fx"
)

var Module = fx.Module("labeling",
	fx.Provide(func(cfg config.Config) *Labeler {
		return New(cfg.SocialSites)
	}),
)
