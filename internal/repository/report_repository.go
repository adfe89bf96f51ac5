package repository

import (
	"student_portal_backend/internal/model"

	"gorm.io/gorm"
)

type ReportRepository struct {
	DB *gorm.DB
}

func NewReportRepository(db *gorm.DB) *ReportRepository {
	return &ReportRepository{DB: db}
}

func (r *ReportRepository) Create(report *model.AnalysisReport) error {
	return r.DB.Create(report).Error
}

func (r *ReportRepository) FindByID(id string) (*model.AnalysisReport, error) {
	var report model.AnalysisReport
	err := r.DB.First(&report, "id = ?", id).Error
	return &report, err
}

func (r *ReportRepository) ListByUser(userID uint, limit, offset int) ([]model.AnalysisReport, int64, error) {
	var reports []model.AnalysisReport
	var total int64

	db := r.DB.Model(&model.AnalysisReport{}).Where("requested_by = ?", userID)
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := db.Order("created_at DESC").Limit(limit).Offset(offset).Find(&reports).Error
	return reports, total, err
}

func (r *ReportRepository) Delete(id string) error {
	return r.DB.Delete(&model.AnalysisReport{}, "id = ?", id).Error
}
