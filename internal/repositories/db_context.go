package repositories

import (
	"fmt"

	"github.com/glebarez/sqlite"
	"github.com/maxaizer/jobmarket/internal/domain/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	DriverSqlite   = "sqlite"
	DriverPostgres = "postgres"
)

type DbContext struct {
	DB *gorm.DB
}

func NewDbContext(driver, connectionString string) (*DbContext, error) {
	var dialector gorm.Dialector
	switch driver {
	case DriverSqlite, "":
		dialector = sqlite.Open(connectionString)
	case DriverPostgres:
		dialector = postgres.Open(connectionString)
	default:
		return nil, fmt.Errorf("unsupported db driver: %v", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Error),
	})
	if err != nil {
		return nil, err
	}

	return &DbContext{DB: db}, nil
}

func (c *DbContext) Migrate() error {
	entities := []struct {
		name  string
		model any
	}{
		{"Identity", models.Identity{}},
		{"Credential", Credential{}},
		{"Worker", models.Worker{}},
		{"Employer", models.Employer{}},
		{"Job", models.Job{}},
		{"Conversation", models.Conversation{}},
		{"Message", models.Message{}},
		{"ReadMarker", models.ReadMarker{}},
		{"PendingRegistration", models.PendingRegistration{}},
		{"SlotEntry", models.SlotEntry{}},
	}

	for _, entity := range entities {
		if err := c.DB.AutoMigrate(entity.model); err != nil {
			return fmt.Errorf("failed to migrate %s entity: %w", entity.name, err)
		}
	}

	return nil
}

// SeedIfEmpty loads the demo marketplace when no jobs exist yet.
func (c *DbContext) SeedIfEmpty() error {
	var jobsCount int64
	if err := c.DB.Model(models.Job{}).Count(&jobsCount).Error; err != nil {
		return fmt.Errorf("failed to count jobs: %w", err)
	}

	if jobsCount > 0 {
		return nil
	}

	if err := c.Seed(); err != nil {
		return fmt.Errorf("failed to seed marketplace: %w", err)
	}
	return nil
}

func (c *DbContext) Close() error {
	db, err := c.DB.DB()
	if err != nil {
		return err
	}

	return db.Close()
}
