package app

import (
	"os"
	"time"

	"shiftwatch/internal/mailer"
	"shiftwatch/internal/messaging/kafka"
	"shiftwatch/internal/schedule"
	"shiftwatch/internal/settings"
	"shiftwatch/internal/worksession"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

func registerModules(
	router *gin.Engine,
	gormDB *gorm.DB,
	rdb *redis.Client,
	loc *time.Location,
) error {
	db, err := gormDB.DB()
	if err != nil {
		return err
	}

	// --- Repositories ---
	settingsRepo := settings.NewRepository(gormDB)
	sessionRepo := worksession.NewRepository(gormDB)
	scheduleRepo := schedule.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(db)

	// --- Services ---
	extractor := schedule.NewHTTPExtractor(os.Getenv("SCHEDULE_PARSER_URL"))
	scheduleService := schedule.NewService(scheduleRepo, extractor)
	settingsService := settings.NewService(settingsRepo)
	sessionService := worksession.NewService(db, sessionRepo, scheduleService.DayFor, loc)
	mailerService := mailer.NewService(db, sessionRepo, settingsRepo, outboxRepo, rdb)

	// --- Handlers ---
	settingsHandler := settings.NewHandler(settingsService)
	sessionHandler := worksession.NewHandler(sessionService)
	scheduleHandler := schedule.NewHandler(scheduleService)
	mailerHandler := mailer.NewHandler(mailerService)

	// --- Routes Registration ---
	api := router.Group("/api")
	{
		settings.RegisterRoutes(api, settingsHandler)
		worksession.RegisterRoutes(api, sessionHandler)
		schedule.RegisterRoutes(api, scheduleHandler)
		mailer.RegisterRoutes(api, mailerHandler)
	}

	return nil
}
