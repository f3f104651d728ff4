package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/aqualog/internal/db"
	"gorm.io/gorm"
)

var (
	// ErrTankNameRequired 在鱼缸名称为空时返回
	ErrTankNameRequired = errors.New("tank name is required")
	// ErrTankVisibilityInvalid 在可见性取值非法时返回
	ErrTankVisibilityInvalid = errors.New("tank visibility is invalid")
	// ErrTankWaterTypeInvalid 在水体类型取值非法时返回
	ErrTankWaterTypeInvalid = errors.New("tank water type is invalid")
)

// TankService 负责鱼缸数据的增删改查，按饲主隔离。
type TankService struct {
	db *gorm.DB
}

// NewTankService 构造 TankService。
func NewTankService(gdb *gorm.DB) *TankService {
	return &TankService{db: gdb}
}

// TankFilter 描述列表过滤条件。
type TankFilter struct {
	Search     string
	Visibility string
	WaterType  string
}

// TankInput 定义创建/更新鱼缸时可配置字段。
type TankInput struct {
	Name        string
	Description string
	WaterType   string
	VolumeLiter int
	Visibility  string
	CoverURL    string
}

// List 返回指定饲主的鱼缸集合，支持基本筛选。
func (s *TankService) List(userID uint, filter TankFilter) ([]db.Tank, error) {
	var tanks []db.Tank

	query := s.db.Model(&db.Tank{}).Where("user_id = ?", userID)

	if filter.Visibility != "" {
		query = query.Where("visibility = ?", filter.Visibility)
	}
	if filter.WaterType != "" {
		query = query.Where("water_type = ?", filter.WaterType)
	}
	if filter.Search != "" {
		like := fmt.Sprintf("%%%s%%", strings.TrimSpace(filter.Search))
		query = query.Where("name LIKE ? OR description LIKE ?", like, like)
	}

	if err := query.Order("created_at DESC").Find(&tanks).Error; err != nil {
		return nil, fmt.Errorf("list tanks: %w", err)
	}

	return tanks, nil
}

// Get 返回指定饲主名下的鱼缸。
func (s *TankService) Get(userID, id uint) (*db.Tank, error) {
	var tank db.Tank
	if err := s.db.Where("user_id = ?", userID).First(&tank, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTankNotFound
		}
		return nil, fmt.Errorf("get tank: %w", err)
	}
	return &tank, nil
}

// GetPublic 返回公开可见的鱼缸，供展示页使用，不校验归属。
func (s *TankService) GetPublic(id uint) (*db.Tank, error) {
	var tank db.Tank
	if err := s.db.Where("visibility = ?", db.TankVisibilityPublic).First(&tank, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTankNotFound
		}
		return nil, fmt.Errorf("get public tank: %w", err)
	}
	return &tank, nil
}

// Create 新建鱼缸。
func (s *TankService) Create(userID uint, input TankInput) (*db.Tank, error) {
	if err := validateTankInput(input); err != nil {
		return nil, err
	}

	tank := db.Tank{
		Name:        strings.TrimSpace(input.Name),
		Description: input.Description,
		WaterType:   normalizeWaterType(input.WaterType),
		VolumeLiter: input.VolumeLiter,
		Visibility:  normalizeVisibility(input.Visibility),
		CoverURL:    strings.TrimSpace(input.CoverURL),
		UserID:      userID,
	}

	if err := s.db.Create(&tank).Error; err != nil {
		return nil, fmt.Errorf("create tank: %w", err)
	}
	return &tank, nil
}

// Update 更新鱼缸，仅限归属饲主。
func (s *TankService) Update(userID, id uint, input TankInput) (*db.Tank, error) {
	if err := validateTankInput(input); err != nil {
		return nil, err
	}

	tank, err := s.Get(userID, id)
	if err != nil {
		return nil, err
	}

	tank.Name = strings.TrimSpace(input.Name)
	tank.Description = input.Description
	tank.WaterType = normalizeWaterType(input.WaterType)
	tank.VolumeLiter = input.VolumeLiter
	tank.Visibility = normalizeVisibility(input.Visibility)
	tank.CoverURL = strings.TrimSpace(input.CoverURL)

	if err := s.db.Save(tank).Error; err != nil {
		return nil, fmt.Errorf("update tank: %w", err)
	}
	return tank, nil
}

// Delete 删除鱼缸，仅限归属饲主。
func (s *TankService) Delete(userID, id uint) error {
	tank, err := s.Get(userID, id)
	if err != nil {
		return err
	}

	if err := s.db.Delete(tank).Error; err != nil {
		return fmt.Errorf("delete tank: %w", err)
	}
	return nil
}

func validateTankInput(input TankInput) error {
	if strings.TrimSpace(input.Name) == "" {
		return ErrTankNameRequired
	}

	switch strings.TrimSpace(input.Visibility) {
	case "", db.TankVisibilityPublic, db.TankVisibilityPrivate:
	default:
		return ErrTankVisibilityInvalid
	}

	switch strings.TrimSpace(input.WaterType) {
	case "", db.TankWaterFresh, db.TankWaterSalt, db.TankWaterBrackish:
	default:
		return ErrTankWaterTypeInvalid
	}

	return nil
}

func normalizeVisibility(visibility string) string {
	visibility = strings.TrimSpace(visibility)
	if visibility == "" {
		return db.TankVisibilityPrivate
	}
	return visibility
}

func normalizeWaterType(waterType string) string {
	waterType = strings.TrimSpace(waterType)
	if waterType == "" {
		return db.TankWaterFresh
	}
	return waterType
}
