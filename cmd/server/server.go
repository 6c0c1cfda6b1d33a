package server

import (
	"fmt"
	"log/slog"

	"sports-activity-platform/config"
	"sports-activity-platform/internal/global/cache"
	"sports-activity-platform/internal/global/database"
	"sports-activity-platform/internal/global/imagestore"
	"sports-activity-platform/internal/global/logger"
	"sports-activity-platform/internal/global/middleware"
	internalSentry "sports-activity-platform/internal/global/sentry"
	"sports-activity-platform/internal/module"
	"sports-activity-platform/tools"

	"github.com/gin-gonic/gin"
)

var log *slog.Logger

func Init() {
	config.Init()
	log = logger.New("Server")

	if err := internalSentry.Init(); err != nil {
		log.Warn("Sentry 初始化失败", "error", err)
	}

	database.Init()
	cache.Init()

	if err := imagestore.Init(); err != nil {
		log.Warn("图片存储初始化失败", "error", err)
	}

	for _, m := range module.Modules {
		log.Info(fmt.Sprintf("Init Module: %s", m.GetName()))
		m.Init()
	}
}

func Run() {
	gin.SetMode(string(config.Get().Mode))
	r := gin.New()

	switch config.Get().Mode {
	case config.ModeRelease:
		r.Use(middleware.Logger(logger.Get()))
	case config.ModeDebug:
		r.Use(gin.Logger())
	}
	r.Use(middleware.Cors())
	r.Use(internalSentry.Middleware())
	r.Use(middleware.Recovery())

	for _, m := range module.Modules {
		log.Info(fmt.Sprintf("Init Router: %s", m.GetName()))
		m.InitRouter(r.Group("/" + config.Get().Prefix))
	}
	err := r.Run(config.Get().Host + ":" + config.Get().Port)
	tools.PanicOnErr(err)
}
