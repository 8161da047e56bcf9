package app

import (
	"github.com/gin-gonic/gin"

	httpMW "github.com/yungbote/idearoom-admin/internal/http/middleware"
	"github.com/yungbote/idearoom-admin/internal/platform/logger"
)

type Middleware struct {
	Session        *httpMW.SessionMiddleware
	LoginRateLimit gin.HandlerFunc
}

func wireMiddleware(log *logger.Logger, cfg Config, services Services) Middleware {
	log.Info("Wiring middleware...")
	mw := Middleware{
		Session: httpMW.NewSessionMiddleware(log, services.Sessions),
	}
	if cfg.LoginRateLimit > 0 {
		mw.LoginRateLimit = httpMW.RateLimit(cfg.LoginRateLimit, cfg.LoginRateLimitWindow)
	}
	return mw
}
