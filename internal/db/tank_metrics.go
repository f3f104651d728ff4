package db

import "time"

// TankDailyStat 按 (鱼缸, 日) 汇总展示页浏览数据。
// Day 统一存 UTC 零点；Views/UniqueViews 只通过原子自增更新。
// 不变量：UniqueViews <= Views。
type TankDailyStat struct {
	ID          uint      `gorm:"primaryKey"`
	TankID      uint      `gorm:"uniqueIndex:idx_tank_day"`
	Day         time.Time `gorm:"uniqueIndex:idx_tank_day"`
	Views       uint64    `gorm:"default:0"`
	UniqueViews uint64    `gorm:"default:0"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TableName 指定自定义表名，避免自动复数化导致的歧义。
func (TankDailyStat) TableName() string {
	return "tank_daily_stats"
}

// TankViewMark 记录 (鱼缸, 日, 访客键) 三元组，仅用于当日 UV 去重。
// 三元组全局唯一，插入冲突即代表"今日已计入"，而非错误。
type TankViewMark struct {
	ID        uint      `gorm:"primaryKey"`
	TankID    uint      `gorm:"uniqueIndex:idx_tank_day_viewer"`
	Day       time.Time `gorm:"uniqueIndex:idx_tank_day_viewer"`
	ViewerKey string    `gorm:"size:64;uniqueIndex:idx_tank_day_viewer"`
	CreatedAt time.Time
}

// TableName 指定自定义表名。
func (TankViewMark) TableName() string {
	return "tank_view_marks"
}
