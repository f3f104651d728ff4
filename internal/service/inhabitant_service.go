package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/aqualog/internal/db"
	"gorm.io/gorm"
)

var (
	// ErrInhabitantNotFound 在指定生物不存在时返回
	ErrInhabitantNotFound = errors.New("inhabitant not found")
	// ErrInhabitantSpeciesRequired 在物种为空时返回
	ErrInhabitantSpeciesRequired = errors.New("inhabitant species is required")
	// ErrInhabitantQuantityInvalid 在数量小于 1 时返回
	ErrInhabitantQuantityInvalid = errors.New("inhabitant quantity must be positive")
)

// InhabitantService 负责缸内生物的增删改查。
// 所有操作都先确认鱼缸归属，避免跨租户访问。
type InhabitantService struct {
	db    *gorm.DB
	tanks *TankService
}

// NewInhabitantService 构造 InhabitantService。
func NewInhabitantService(gdb *gorm.DB) *InhabitantService {
	return &InhabitantService{db: gdb, tanks: NewTankService(gdb)}
}

// InhabitantInput 定义创建/更新生物时可配置字段。
type InhabitantInput struct {
	Species  string
	Nickname string
	Quantity int
	Note     string
}

// List 返回某鱼缸的生物集合。
func (s *InhabitantService) List(userID, tankID uint) ([]db.Inhabitant, error) {
	if _, err := s.tanks.Get(userID, tankID); err != nil {
		return nil, err
	}

	var inhabitants []db.Inhabitant
	if err := s.db.Where("tank_id = ?", tankID).
		Order("created_at ASC").
		Find(&inhabitants).Error; err != nil {
		return nil, fmt.Errorf("list inhabitants: %w", err)
	}
	return inhabitants, nil
}

// Create 向鱼缸中添加生物。
func (s *InhabitantService) Create(userID, tankID uint, input InhabitantInput) (*db.Inhabitant, error) {
	if err := validateInhabitantInput(input); err != nil {
		return nil, err
	}
	if _, err := s.tanks.Get(userID, tankID); err != nil {
		return nil, err
	}

	inhabitant := db.Inhabitant{
		TankID:   tankID,
		Species:  strings.TrimSpace(input.Species),
		Nickname: strings.TrimSpace(input.Nickname),
		Quantity: input.Quantity,
		Note:     strings.TrimSpace(input.Note),
	}

	if err := s.db.Create(&inhabitant).Error; err != nil {
		return nil, fmt.Errorf("create inhabitant: %w", err)
	}
	return &inhabitant, nil
}

// Update 更新生物信息。
func (s *InhabitantService) Update(userID, id uint, input InhabitantInput) (*db.Inhabitant, error) {
	if err := validateInhabitantInput(input); err != nil {
		return nil, err
	}

	inhabitant, err := s.get(userID, id)
	if err != nil {
		return nil, err
	}

	inhabitant.Species = strings.TrimSpace(input.Species)
	inhabitant.Nickname = strings.TrimSpace(input.Nickname)
	inhabitant.Quantity = input.Quantity
	inhabitant.Note = strings.TrimSpace(input.Note)

	if err := s.db.Save(inhabitant).Error; err != nil {
		return nil, fmt.Errorf("update inhabitant: %w", err)
	}
	return inhabitant, nil
}

// Delete 从鱼缸中移除生物。
func (s *InhabitantService) Delete(userID, id uint) error {
	inhabitant, err := s.get(userID, id)
	if err != nil {
		return err
	}

	if err := s.db.Delete(inhabitant).Error; err != nil {
		return fmt.Errorf("delete inhabitant: %w", err)
	}
	return nil
}

func (s *InhabitantService) get(userID, id uint) (*db.Inhabitant, error) {
	var inhabitant db.Inhabitant
	if err := s.db.First(&inhabitant, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInhabitantNotFound
		}
		return nil, fmt.Errorf("get inhabitant: %w", err)
	}

	if _, err := s.tanks.Get(userID, inhabitant.TankID); err != nil {
		return nil, ErrInhabitantNotFound
	}
	return &inhabitant, nil
}

func validateInhabitantInput(input InhabitantInput) error {
	if strings.TrimSpace(input.Species) == "" {
		return ErrInhabitantSpeciesRequired
	}
	if input.Quantity < 1 {
		return ErrInhabitantQuantityInvalid
	}
	return nil
}
