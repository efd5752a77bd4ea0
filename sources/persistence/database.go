package persistence

import (
	"fmt"
	"time"

	"coronabot/sources/configuration"
	"coronabot/sources/platform"
	"coronabot/sources/tracing"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func NewPostgresDatabase(config *configuration.Config, log *tracing.Logger) *gorm.DB {
	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=%s",
		config.Database.Host, config.Database.User, config.Database.Password, config.Database.DBName, config.Database.Port, config.Database.SSLMode, config.Database.TimeZone,
	)

	logLevel := logger.Warn
	if platform.GetAsBool("SQL_DEBUG", false) {
		logLevel = logger.Info
	}

	gormlogger := logger.New(
		&gormtracer{logger: log},
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logLevel,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{Logger: gormlogger})
	if err != nil {
		log.F("Failed to connect to database", tracing.InnerError, err)
	}

	sqldb, err := db.DB()
	if err != nil {
		log.F("Failed to get underlying sql.DB", tracing.InnerError, err)
	}

	sqldb.SetMaxOpenConns(platform.GetAsInt("DB_MAX_OPEN_CONNS", 10))
	sqldb.SetMaxIdleConns(platform.GetAsInt("DB_MAX_IDLE_CONNS", 2))
	sqldb.SetConnMaxLifetime(2 * time.Hour)
	sqldb.SetConnMaxIdleTime(30 * time.Minute)

	log.I("Database initialized successfully")
	return db
}
