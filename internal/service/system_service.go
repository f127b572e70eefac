package service

import (
	"database/sql"
	"strconv"

	"github.com/fintrack/finance-tracker-backend/internal/database"
	"github.com/fintrack/finance-tracker-backend/internal/model"
)

// AppVersion is the application release version, overridable at build time
// with -ldflags "-X ...service.AppVersion=v1.2.3".
var AppVersion = "dev"

// SystemService handles system-related operations
type SystemService struct {
	db *sql.DB
}

// NewSystemService creates a new SystemService
func NewSystemService(db *sql.DB) *SystemService {
	return &SystemService{
		db: db,
	}
}

// CheckHealth checks the health of the system
func (s *SystemService) CheckHealth() error {
	return database.HealthCheck(s.db)
}

// CheckVersion reports the application version and the applied schema
// migration version.
func (s *SystemService) CheckVersion() (model.VersionInfo, error) {
	schemaVersion, err := database.SchemaVersion(s.db)
	if err != nil {
		return model.VersionInfo{}, err
	}
	return model.VersionInfo{
		AppVersion: AppVersion,
		DbVersion:  strconv.FormatInt(schemaVersion, 10),
	}, nil
}
