package database

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/rpupo63/shooting-roster/config"
	"github.com/rpupo63/shooting-roster/errs"
	"github.com/rpupo63/shooting-roster/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/plugin/dbresolver"
)

type Database struct {
	db           *gorm.DB
	incidentRepo *IncidentRepo
	bodycamRepo  *BodycamRepo
	tagRepo      *TagRepo
	sourceRepo   *SourceRepo
	postRepo     *PostRepo
	tipRepo      *TipRepo
	feedbackRepo *FeedbackRepo
}

// New initializes a new Database struct with each repository using a shared GORM database instance
func New(db *gorm.DB) Database {
	return Database{
		db:           db,
		incidentRepo: NewIncidentRepo(db),
		bodycamRepo:  NewBodycamRepo(db),
		tagRepo:      NewTagRepo(db),
		sourceRepo:   NewSourceRepo(db),
		postRepo:     NewPostRepo(db),
		tipRepo:      NewTipRepo(db),
		feedbackRepo: NewFeedbackRepo(db),
	}
}

// Open connects to the configured engine and wraps it.
func Open(cfg config.DatabaseConfig) (Database, error) {
	db, err := Connect(cfg)
	if err != nil {
		return Database{}, err
	}
	return New(db), nil
}

// Connect opens a gorm connection for the configured engine. Postgres
// replicas, when configured, serve read queries through dbresolver.
func Connect(cfg config.DatabaseConfig) (*gorm.DB, error) {
	newLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             cfg.SlowThreshold,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  true,
		},
	)
	gormConfig := &gorm.Config{
		PrepareStmt: false,
		Logger:      newLogger,
	}

	var dialector gorm.Dialector
	switch cfg.Type {
	case "postgres":
		dialector = postgres.New(postgres.Config{
			DSN:                  cfg.DSN(),
			PreferSimpleProtocol: true,
		})
	case "sqlite":
		dialector = sqlite.Open(cfg.SQLitePath + "?_pragma=foreign_keys(1)")
	default:
		return nil, fmt.Errorf("unsupported DB_TYPE %q", cfg.Type)
	}

	db, err := gorm.Open(dialector, gormConfig)
	if err != nil {
		return nil, fmt.Errorf("error connecting to database: %w", err)
	}

	if cfg.Type == "postgres" && len(cfg.ReplicaDSNs) > 0 {
		replicas := make([]gorm.Dialector, 0, len(cfg.ReplicaDSNs))
		for _, dsn := range cfg.ReplicaDSNs {
			replicas = append(replicas, postgres.New(postgres.Config{DSN: dsn, PreferSimpleProtocol: true}))
		}
		err := db.Use(dbresolver.Register(dbresolver.Config{
			Replicas: replicas,
			Policy:   dbresolver.RandomPolicy{},
		}).SetConnMaxLifetime(time.Hour))
		if err != nil {
			return nil, fmt.Errorf("error registering read replicas: %w", err)
		}
	}

	var result int
	if err := db.Raw("SELECT 1").Scan(&result).Error; err != nil {
		return nil, fmt.Errorf("error testing database connection: %w", err)
	}
	return db, nil
}

// Accessor methods for each repository

func (d Database) IncidentRepo() *IncidentRepo {
	return d.incidentRepo
}

func (d Database) BodycamRepo() *BodycamRepo {
	return d.bodycamRepo
}

func (d Database) TagRepo() *TagRepo {
	return d.tagRepo
}

func (d Database) SourceRepo() *SourceRepo {
	return d.sourceRepo
}

func (d Database) PostRepo() *PostRepo {
	return d.postRepo
}

func (d Database) TipRepo() *TipRepo {
	return d.tipRepo
}

func (d Database) FeedbackRepo() *FeedbackRepo {
	return d.feedbackRepo
}

// DB returns the shared gorm handle.
func (d Database) DB() *gorm.DB {
	return d.db
}

// Migrate creates or updates every table.
func (d Database) Migrate() error {
	if err := models.Migrate(d.db); err != nil {
		return errs.NewDatabaseError("migrate", "schema", err)
	}
	return nil
}

// Ping checks the database is reachable.
func (d Database) Ping(ctx context.Context) error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// yearBounds returns [Jan 1 year, Jan 1 year+1) in UTC.
func yearBounds(year int) (time.Time, time.Time) {
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(1, 0, 0)
}
