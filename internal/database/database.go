package database

import (
	"context"
	"log/slog"
	"time"

	"github.com/cockroachdb/errors"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"preview-api/apiv1"
	"preview-api/internal/logging"
)

const (
	DriverSQLite = "sqlite"
	DriverMySQL  = "mysql"
)

// Settings selects and configures the database backend
type Settings struct {
	Driver string
	DSN    string
}

// Open connects to the configured database
func Open(settings Settings, logger *slog.Logger) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch settings.Driver {
	case DriverMySQL:
		dialector = mysql.Open(settings.DSN)
	case DriverSQLite, "":
		dsn := settings.DSN
		if dsn == "" {
			dsn = ":memory:"
		}
		dialector = sqlite.Open(dsn)
	default:
		return nil, errors.Newf("unsupported database driver: %s", settings.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         logging.NewGormLogger(logger, 200*time.Millisecond),
		TranslateError: true,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to connect to %s", settings.Driver)
	}

	if settings.Driver == DriverMySQL {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, errors.Wrap(err, "failed to get raw DB connection")
		}
		sqlDB.SetMaxOpenConns(20)
		sqlDB.SetMaxIdleConns(5)
		sqlDB.SetConnMaxLifetime(30 * time.Minute)
	}

	return db, nil
}

// Migrate creates or updates the schema of every model
func Migrate(db *gorm.DB) error {
	return errors.Wrap(db.AutoMigrate(apiv1.AllModels()...), "auto-migrate")
}

// Ping checks that the database answers.
func Ping(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close closes the underlying connection pool
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
