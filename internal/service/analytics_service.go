package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/aqualog/internal/db"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	// ErrInvalidViewerKey 在访客键缺失或长度不符时返回
	ErrInvalidViewerKey = errors.New("invalid viewer key")
	// ErrTankNotFound 在鱼缸不存在或不可公开访问时返回
	ErrTankNotFound = errors.New("tank not found")
)

// viewerKeyLength 为访客键的固定长度（uuid 字符串）
const viewerKeyLength = 36

// 单缸统计窗口的天数上下界
const (
	minStatsDays = 1
	maxStatsDays = 365
)

// AnalyticsService 负责处理鱼缸浏览相关的统计逻辑。
type AnalyticsService struct {
	db *gorm.DB
}

// NewAnalyticsService 创建 AnalyticsService。
func NewAnalyticsService(gdb *gorm.DB) *AnalyticsService {
	return &AnalyticsService{db: gdb}
}

// ViewResult 描述一次浏览记录的结果。
type ViewResult struct {
	Day           time.Time
	UniqueCounted bool
}

// DayOf 将时间归一化为 UTC 日历日零点。
func DayOf(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ClampStatsDays 将天数限制在 [1, 365]，越界静默收拢而非报错。
func ClampStatsDays(days int) int {
	if days < minStatsDays {
		return minStatsDays
	}
	if days > maxStatsDays {
		return maxStatsDays
	}
	return days
}

// RecordTankView 记录访客对公开鱼缸的一次浏览。
// 三个计数器均通过存储层的原子自增更新，访客去重依赖
// (tank_id, day, viewer_key) 唯一索引：插入冲突即"今日已计入"。
func (s *AnalyticsService) RecordTankView(tankID uint, viewerKey string, now time.Time) (*ViewResult, error) {
	if len(viewerKey) != viewerKeyLength {
		return nil, ErrInvalidViewerKey
	}

	var visible int64
	if err := s.db.Model(&db.Tank{}).
		Where("id = ? AND visibility = ?", tankID, db.TankVisibilityPublic).
		Count(&visible).Error; err != nil {
		return nil, fmt.Errorf("lookup tank: %w", err)
	}
	if visible == 0 {
		return nil, ErrTankNotFound
	}

	day := DayOf(now)

	// 当日桶按需创建，并发首建时后到者冲突视为无事发生
	bucket := db.TankDailyStat{TankID: tankID, Day: day}
	if err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "tank_id"}, {Name: "day"}},
		DoNothing: true,
	}).Create(&bucket).Error; err != nil {
		return nil, fmt.Errorf("ensure daily stat: %w", err)
	}

	// 单条 UPDATE 自增，不做读-改-写
	if err := s.db.Model(&db.TankDailyStat{}).
		Where("tank_id = ? AND day = ?", tankID, day).
		UpdateColumn("views", gorm.Expr("views + 1")).Error; err != nil {
		return nil, fmt.Errorf("increment views: %w", err)
	}

	mark := db.TankViewMark{TankID: tankID, Day: day, ViewerKey: viewerKey}
	insert := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "tank_id"}, {Name: "day"}, {Name: "viewer_key"}},
		DoNothing: true,
	}).Create(&mark)
	if insert.Error != nil {
		return nil, fmt.Errorf("mark viewer: %w", insert.Error)
	}
	uniqueCounted := insert.RowsAffected == 1

	if uniqueCounted {
		if err := s.db.Model(&db.TankDailyStat{}).
			Where("tank_id = ? AND day = ?", tankID, day).
			UpdateColumn("unique_views", gorm.Expr("unique_views + 1")).Error; err != nil {
			return nil, fmt.Errorf("increment unique views: %w", err)
		}
	}

	if err := s.db.Model(&db.Tank{}).
		Where("id = ?", tankID).
		UpdateColumn("views_count", gorm.Expr("views_count + 1")).Error; err != nil {
		return nil, fmt.Errorf("increment total views: %w", err)
	}

	return &ViewResult{Day: day, UniqueCounted: uniqueCounted}, nil
}

// DailyViewStat 描述单日的浏览数据。
type DailyViewStat struct {
	Day         time.Time
	Views       uint64
	UniqueViews uint64
}

// TankViewStats 汇总单个鱼缸在窗口内的浏览数据。
// TotalAllTime 直接取自 Tank.ViewsCount，与桶求和互相独立，
// 早于统计子系统上线的浏览只会体现在前者中。
type TankViewStats struct {
	TotalAllTime      uint64
	TotalInPeriod     uint64
	TotalUniquePeriod uint64
	Daily             []DailyViewStat
}

// TankViewStats 返回最近 days 个日历日（含今日）的浏览汇总。
// days 越界时静默收拢到 [1, 365]；存储中缺失的日期不会补零行。
func (s *AnalyticsService) TankViewStats(tankID uint, days int, now time.Time) (*TankViewStats, error) {
	days = ClampStatsDays(days)

	var tank db.Tank
	if err := s.db.First(&tank, tankID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTankNotFound
		}
		return nil, fmt.Errorf("get tank: %w", err)
	}

	today := DayOf(now)
	from := today.AddDate(0, 0, -(days - 1))

	var buckets []db.TankDailyStat
	if err := s.db.
		Where("tank_id = ? AND day >= ? AND day <= ?", tankID, from, today).
		Order("day ASC").
		Find(&buckets).Error; err != nil {
		return nil, fmt.Errorf("load daily stats: %w", err)
	}

	stats := &TankViewStats{TotalAllTime: tank.ViewsCount}
	for _, bucket := range buckets {
		stats.TotalInPeriod += bucket.Views
		stats.TotalUniquePeriod += bucket.UniqueViews
		stats.Daily = append(stats.Daily, DailyViewStat{
			Day:         bucket.Day,
			Views:       bucket.Views,
			UniqueViews: bucket.UniqueViews,
		})
	}

	return stats, nil
}
