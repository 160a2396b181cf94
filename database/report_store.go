package database

import (
	"fmt"
	"time"

	"healthwatch-backend/models"

	"gorm.io/gorm"
)

// ReportStore is the collaborator interface over the misinformation report
// table. The sync engine and handlers depend on this, not on gorm directly.
type ReportStore interface {
	// QueryNewerThan returns reports with created_at strictly after since,
	// ordered newest-first. A zero since returns all reports.
	QueryNewerThan(since time.Time) ([]models.Report, error)
	// All returns every report, ordered newest-first.
	All() ([]models.Report, error)
	// UpdateLocation writes back the given location fields for one report.
	UpdateLocation(id string, fields map[string]interface{}) error
	// Insert stores a new report.
	Insert(report *models.Report) error
	// Stats returns aggregate counts for observability endpoints.
	Stats() (map[string]interface{}, error)
}

type GormReportStore struct {
	db *gorm.DB
}

// NewGormReportStore creates a report store backed by the main database
func NewGormReportStore(db *gorm.DB) *GormReportStore {
	return &GormReportStore{db: db}
}

func (s *GormReportStore) QueryNewerThan(since time.Time) ([]models.Report, error) {
	var reports []models.Report
	query := s.db.Model(&models.Report{}).Order("created_at DESC")
	if !since.IsZero() {
		query = query.Where("created_at > ?", since)
	}
	if err := query.Find(&reports).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch reports: %w", err)
	}
	return reports, nil
}

func (s *GormReportStore) All() ([]models.Report, error) {
	return s.QueryNewerThan(time.Time{})
}

func (s *GormReportStore) UpdateLocation(id string, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}
	result := s.db.Model(&models.Report{}).Where("id = ?", id).Updates(fields)
	if result.Error != nil {
		return fmt.Errorf("failed to update report %s: %w", id, result.Error)
	}
	return nil
}

func (s *GormReportStore) Insert(report *models.Report) error {
	if err := s.db.Create(report).Error; err != nil {
		return fmt.Errorf("failed to insert report: %w", err)
	}
	return nil
}

func (s *GormReportStore) Stats() (map[string]interface{}, error) {
	var totalCount int64
	var types []string
	var regions []string

	s.db.Model(&models.Report{}).Count(&totalCount)
	s.db.Model(&models.Report{}).Distinct("misinformation_type").Pluck("misinformation_type", &types)
	s.db.Model(&models.Report{}).Where("region != ''").Distinct("region").Pluck("region", &regions)

	var oldest, newest models.Report
	s.db.Order("created_at ASC").First(&oldest)
	s.db.Order("created_at DESC").First(&newest)

	stats := map[string]interface{}{
		"total_reports":  totalCount,
		"unique_types":   len(types),
		"unique_regions": len(regions),
	}
	if totalCount > 0 {
		stats["oldest_report"] = oldest.CreatedAt.Format(time.RFC3339)
		stats["newest_report"] = newest.CreatedAt.Format(time.RFC3339)
	}
	return stats, nil
}
