package app

import (
	"os"
	"time"

	"shiftwatch/internal/middleware"
	"shiftwatch/internal/schedule"
	"shiftwatch/internal/settings"
	"shiftwatch/internal/shared/connection"
	"shiftwatch/internal/worksession"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"gorm.io/gorm"
)

// BuildApp wires infrastructure and registers every module's routes on
// the router.
func BuildApp(router *gin.Engine) error {
	gormDB, err := connection.ConnectGORMWithRetry(
		os.Getenv("DB_HOST"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		os.Getenv("DB_PORT"),
		os.Getenv("DB_SSLMODE"),
		5,
	)
	if err != nil {
		return err
	}
	zap.L().Info("database connection established")

	if err := migrate(gormDB); err != nil {
		return err
	}

	redisClient, err := connection.ConnectRedisWithRetry(os.Getenv("REDIS_ADDR"), 5)
	if err != nil {
		return err
	}
	zap.L().Info("redis connection established")

	loc, err := loadTimezone()
	if err != nil {
		return err
	}

	router.Use(middleware.RequestID())
	router.Use(middleware.RateLimitByIP(rate.Every(time.Second/20), 40))

	return registerModules(router, gormDB, redisClient, loc)
}

func loadTimezone() (*time.Location, error) {
	tz := os.Getenv("TIMEZONE")
	if tz == "" {
		return time.Local, nil
	}
	return time.LoadLocation(tz)
}

func migrate(gormDB *gorm.DB) error {
	if err := gormDB.AutoMigrate(
		&settings.Settings{},
		&worksession.WorkSession{},
		&worksession.SessionPhoto{},
		&schedule.Schedule{},
		&schedule.ScheduleDay{},
	); err != nil {
		return err
	}

	// The outbox repository works against plain SQL, outside gorm's
	// migration scope.
	return gormDB.Exec(`
		CREATE TABLE IF NOT EXISTS outbox_events (
			id UUID PRIMARY KEY,
			request_id TEXT,
			aggregate_type TEXT NOT NULL,
			aggregate_id TEXT NOT NULL,
			event_type TEXT NOT NULL,
			topic TEXT NOT NULL,
			payload JSONB NOT NULL,
			status TEXT NOT NULL DEFAULT 'pending',
			retry_count INT NOT NULL DEFAULT 0,
			error_message TEXT,
			next_retry_at TIMESTAMPTZ,
			processed_at TIMESTAMPTZ,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`).Error
}
