package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/aqualog/internal/db"
	"gorm.io/gorm"
)

var (
	// ErrReadingNotFound 在指定水质记录不存在时返回
	ErrReadingNotFound = errors.New("water reading not found")
	// ErrReadingEmpty 在一次测量未包含任何指标时返回
	ErrReadingEmpty = errors.New("water reading has no metrics")
	// ErrReadingOutOfRange 在指标明显越界时返回
	ErrReadingOutOfRange = errors.New("water reading metric out of range")
)

// ReadingService 负责水质测量记录的增删改查。
type ReadingService struct {
	db    *gorm.DB
	tanks *TankService
}

// NewReadingService 构造 ReadingService。
func NewReadingService(gdb *gorm.DB) *ReadingService {
	return &ReadingService{db: gdb, tanks: NewTankService(gdb)}
}

// ReadingInput 定义创建水质记录时可配置字段。
// 指标为 nil 表示该次测量未覆盖；MeasuredAt 为零值时取当前时间。
type ReadingInput struct {
	PH           *float64
	TemperatureC *float64
	NitrateMgL   *float64
	AmmoniaMgL   *float64
	MeasuredAt   time.Time
}

// List 返回某鱼缸的水质记录，按测量时间倒序。
func (s *ReadingService) List(userID, tankID uint) ([]db.WaterReading, error) {
	if _, err := s.tanks.Get(userID, tankID); err != nil {
		return nil, err
	}

	var readings []db.WaterReading
	if err := s.db.Where("tank_id = ?", tankID).
		Order("measured_at DESC").
		Find(&readings).Error; err != nil {
		return nil, fmt.Errorf("list water readings: %w", err)
	}
	return readings, nil
}

// Create 记录一次水质测量。
func (s *ReadingService) Create(userID, tankID uint, input ReadingInput) (*db.WaterReading, error) {
	if err := validateReadingInput(input); err != nil {
		return nil, err
	}
	if _, err := s.tanks.Get(userID, tankID); err != nil {
		return nil, err
	}

	measuredAt := input.MeasuredAt
	if measuredAt.IsZero() {
		measuredAt = time.Now().UTC()
	}

	reading := db.WaterReading{
		TankID:       tankID,
		UserID:       userID,
		PH:           input.PH,
		TemperatureC: input.TemperatureC,
		NitrateMgL:   input.NitrateMgL,
		AmmoniaMgL:   input.AmmoniaMgL,
		MeasuredAt:   measuredAt,
	}

	if err := s.db.Create(&reading).Error; err != nil {
		return nil, fmt.Errorf("create water reading: %w", err)
	}
	return &reading, nil
}

// Delete 删除水质记录，仅限归属饲主。
func (s *ReadingService) Delete(userID, id uint) error {
	var reading db.WaterReading
	if err := s.db.First(&reading, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrReadingNotFound
		}
		return fmt.Errorf("get water reading: %w", err)
	}

	if _, err := s.tanks.Get(userID, reading.TankID); err != nil {
		return ErrReadingNotFound
	}

	if err := s.db.Delete(&reading).Error; err != nil {
		return fmt.Errorf("delete water reading: %w", err)
	}
	return nil
}

func validateReadingInput(input ReadingInput) error {
	if input.PH == nil && input.TemperatureC == nil && input.NitrateMgL == nil && input.AmmoniaMgL == nil {
		return ErrReadingEmpty
	}

	if input.PH != nil && (*input.PH < 0 || *input.PH > 14) {
		return ErrReadingOutOfRange
	}
	if input.TemperatureC != nil && (*input.TemperatureC < -5 || *input.TemperatureC > 60) {
		return ErrReadingOutOfRange
	}
	if input.NitrateMgL != nil && *input.NitrateMgL < 0 {
		return ErrReadingOutOfRange
	}
	if input.AmmoniaMgL != nil && *input.AmmoniaMgL < 0 {
		return ErrReadingOutOfRange
	}
	return nil
}
