package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aqualog/internal/db"
	"gorm.io/gorm"
)

var (
	// ErrMaintenanceNotFound 在指定维护日志不存在时返回
	ErrMaintenanceNotFound = errors.New("maintenance log not found")
	// ErrMaintenanceKindInvalid 在维护类型非法时返回
	ErrMaintenanceKindInvalid = errors.New("maintenance kind is invalid")
)

// MaintenanceService 负责维护日志的增删改查。
type MaintenanceService struct {
	db    *gorm.DB
	tanks *TankService
}

// NewMaintenanceService 构造 MaintenanceService。
func NewMaintenanceService(gdb *gorm.DB) *MaintenanceService {
	return &MaintenanceService{db: gdb, tanks: NewTankService(gdb)}
}

// MaintenanceInput 定义创建维护日志时可配置字段。
// PerformedAt 为零值时取当前时间。
type MaintenanceInput struct {
	Kind        string
	Note        string
	PerformedAt time.Time
}

// List 返回某鱼缸的维护日志，按操作时间倒序。
func (s *MaintenanceService) List(userID, tankID uint) ([]db.MaintenanceLog, error) {
	if _, err := s.tanks.Get(userID, tankID); err != nil {
		return nil, err
	}

	var logs []db.MaintenanceLog
	if err := s.db.Where("tank_id = ?", tankID).
		Order("performed_at DESC").
		Find(&logs).Error; err != nil {
		return nil, fmt.Errorf("list maintenance logs: %w", err)
	}
	return logs, nil
}

// Create 记录一次维护操作。
func (s *MaintenanceService) Create(userID, tankID uint, input MaintenanceInput) (*db.MaintenanceLog, error) {
	kind := strings.TrimSpace(input.Kind)
	if !validMaintenanceKind(kind) {
		return nil, ErrMaintenanceKindInvalid
	}
	if _, err := s.tanks.Get(userID, tankID); err != nil {
		return nil, err
	}

	performedAt := input.PerformedAt
	if performedAt.IsZero() {
		performedAt = time.Now().UTC()
	}

	log := db.MaintenanceLog{
		TankID:      tankID,
		UserID:      userID,
		Kind:        kind,
		Note:        strings.TrimSpace(input.Note),
		PerformedAt: performedAt,
	}

	if err := s.db.Create(&log).Error; err != nil {
		return nil, fmt.Errorf("create maintenance log: %w", err)
	}
	return &log, nil
}

// Delete 删除维护日志，仅限归属饲主。
func (s *MaintenanceService) Delete(userID, id uint) error {
	var log db.MaintenanceLog
	if err := s.db.First(&log, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrMaintenanceNotFound
		}
		return fmt.Errorf("get maintenance log: %w", err)
	}

	if _, err := s.tanks.Get(userID, log.TankID); err != nil {
		return ErrMaintenanceNotFound
	}

	if err := s.db.Delete(&log).Error; err != nil {
		return fmt.Errorf("delete maintenance log: %w", err)
	}
	return nil
}

func validMaintenanceKind(kind string) bool {
	switch kind {
	case db.MaintenanceWaterChange, db.MaintenanceCleaning, db.MaintenanceFilter,
		db.MaintenanceFeeding, db.MaintenanceOther:
		return true
	}
	return false
}
