package db

import (
	"time"

	"gorm.io/gorm"
)

// WaterReading 记录水质测量事件
// 指标允许为空指针，表示该次测量未覆盖的项目
// UserID 冗余记录测量人，便于按饲主维度统计活跃度
type WaterReading struct {
	gorm.Model
	TankID      uint `gorm:"index"`
	Tank        Tank `gorm:"constraint:OnDelete:CASCADE"`
	UserID      uint `gorm:"index"`
	PH           *float64
	TemperatureC *float64
	NitrateMgL   *float64
	AmmoniaMgL   *float64
	MeasuredAt   time.Time
}
