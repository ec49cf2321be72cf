package service

import (
	"context"

	"github.com/samoschool/davomat-backend/internal/model"
	"github.com/samoschool/davomat-backend/internal/repository"
)

// SettingService handles the global settings row.
type SettingService struct {
	settingRepo *repository.SettingRepository
}

// NewSettingService creates a new SettingService.
func NewSettingService(settingRepo *repository.SettingRepository) *SettingService {
	return &SettingService{settingRepo: settingRepo}
}

// Get retrieves the settings.
func (s *SettingService) Get(ctx context.Context) (*model.Settings, error) {
	return s.settingRepo.Get(ctx)
}

// Update replaces the settings fields from the request.
func (s *SettingService) Update(ctx context.Context, req *model.UpdateSettingsRequest) (*model.Settings, error) {
	settings := &model.Settings{
		SchoolName:          req.SchoolName,
		SchoolAddress:       req.SchoolAddress,
		SchoolPhone:         req.SchoolPhone,
		SchoolEmail:         req.SchoolEmail,
		AcademicYear:        req.AcademicYear,
		AttendanceThreshold: req.AttendanceThreshold,
		AutoAttendance:      req.AutoAttendance,
		NotificationPref:    req.NotificationPref,
		Language:            req.Language,
	}
	if err := s.settingRepo.Update(ctx, settings); err != nil {
		return nil, err
	}
	return s.settingRepo.Get(ctx)
}
