package service

import (
	"fmt"
	"time"

	"github.com/aqualog/internal/db"
	"gorm.io/gorm"
)

// 仪表盘时间范围符号
const (
	RangeWeek  = "7d"
	RangeMonth = "30d"
	RangeYear  = "365d"
	RangeAll   = "all"
)

// NormalizeRange 将未知的范围符号回退为 30d，保证仪表盘总能出数。
func NormalizeRange(symbol string) string {
	switch symbol {
	case RangeWeek, RangeMonth, RangeYear, RangeAll:
		return symbol
	default:
		return RangeMonth
	}
}

// ResolveRange 将符号范围解析为下界时间，all 返回 nil 表示无下界。
func ResolveRange(now time.Time, symbol string) *time.Time {
	var days int
	switch symbol {
	case RangeWeek:
		days = 7
	case RangeMonth:
		days = 30
	case RangeYear:
		days = 365
	default:
		return nil
	}

	from := now.AddDate(0, 0, -days)
	return &from
}

// DashboardService 负责管理面板的跨实体聚合，只读不写。
type DashboardService struct {
	db *gorm.DB
}

// NewDashboardService 构造 DashboardService。
func NewDashboardService(gdb *gorm.DB) *DashboardService {
	return &DashboardService{db: gdb}
}

// EntityCount 描述某类实体的总量与范围内新增量。
type EntityCount struct {
	Total int64
	New   int64
}

// DashboardSnapshot 是按需构造的请求级聚合结果，不落库。
// NewKeepers 为空指针表示"无法统计"（用户表缺少 created_at 列），
// 与 0 含义不同。
type DashboardSnapshot struct {
	Range           string
	From            *time.Time
	TotalKeepers    int64
	NewKeepers      *int64
	ActiveKeepers   int64
	Tanks           EntityCount
	Inhabitants     EntityCount
	MaintenanceLogs EntityCount
	WaterReadings   EntityCount
}

// Snapshot 为仪表盘构造一份跨实体快照。
// 任一查询失败则整体失败，不返回部分结果。
func (s *DashboardService) Snapshot(rangeSymbol string, now time.Time) (*DashboardSnapshot, error) {
	symbol := NormalizeRange(rangeSymbol)
	from := ResolveRange(now, symbol)

	snap := &DashboardSnapshot{Range: symbol, From: from}

	if err := s.db.Model(&db.User{}).Count(&snap.TotalKeepers).Error; err != nil {
		return nil, fmt.Errorf("count keepers: %w", err)
	}

	newKeepers, err := s.countNewKeepers(from)
	if err != nil {
		return nil, err
	}
	snap.NewKeepers = newKeepers

	if snap.Tanks, err = s.countEntity(&db.Tank{}, from); err != nil {
		return nil, fmt.Errorf("count tanks: %w", err)
	}
	if snap.Inhabitants, err = s.countEntity(&db.Inhabitant{}, from); err != nil {
		return nil, fmt.Errorf("count inhabitants: %w", err)
	}
	if snap.MaintenanceLogs, err = s.countEntity(&db.MaintenanceLog{}, from); err != nil {
		return nil, fmt.Errorf("count maintenance logs: %w", err)
	}
	if snap.WaterReadings, err = s.countEntity(&db.WaterReading{}, from); err != nil {
		return nil, fmt.Errorf("count water readings: %w", err)
	}

	if snap.ActiveKeepers, err = s.activeKeepers(from); err != nil {
		return nil, fmt.Errorf("count active keepers: %w", err)
	}

	return snap, nil
}

func (s *DashboardService) countEntity(model interface{}, from *time.Time) (EntityCount, error) {
	var count EntityCount
	if err := s.db.Model(model).Count(&count.Total).Error; err != nil {
		return count, err
	}

	if from == nil {
		count.New = count.Total
		return count, nil
	}

	if err := s.db.Model(model).Where("created_at >= ?", *from).Count(&count.New).Error; err != nil {
		return count, err
	}
	return count, nil
}

// countNewKeepers 在用户表缺少 created_at 列的部署中返回 nil，
// 让调用方能区分"没有新增"与"统计不了"。
func (s *DashboardService) countNewKeepers(from *time.Time) (*int64, error) {
	if !s.db.Migrator().HasColumn(&db.User{}, "created_at") {
		return nil, nil
	}

	var count int64
	query := s.db.Model(&db.User{})
	if from != nil {
		query = query.Where("created_at >= ?", *from)
	}
	if err := query.Count(&count).Error; err != nil {
		return nil, fmt.Errorf("count new keepers: %w", err)
	}
	return &count, nil
}

// activeKeepers 统计范围内至少有一条维护日志或水质记录的饲主数。
// 两个归属集合取 UNION 去重，同时活跃于两类记录的饲主只计一次。
func (s *DashboardService) activeKeepers(from *time.Time) (int64, error) {
	var count int64

	if from == nil {
		err := s.db.Raw(`SELECT COUNT(*) FROM (
			SELECT user_id FROM maintenance_logs WHERE deleted_at IS NULL
			UNION
			SELECT user_id FROM water_readings WHERE deleted_at IS NULL
		) active`).Scan(&count).Error
		return count, err
	}

	err := s.db.Raw(`SELECT COUNT(*) FROM (
		SELECT user_id FROM maintenance_logs WHERE deleted_at IS NULL AND created_at >= ?
		UNION
		SELECT user_id FROM water_readings WHERE deleted_at IS NULL AND created_at >= ?
	) active`, *from, *from).Scan(&count).Error
	return count, err
}
