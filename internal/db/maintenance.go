package db

import (
	"time"

	"gorm.io/gorm"
)

// 维护类型取值
const (
	MaintenanceWaterChange = "water_change"
	MaintenanceCleaning    = "cleaning"
	MaintenanceFilter      = "filter"
	MaintenanceFeeding     = "feeding"
	MaintenanceOther       = "other"
)

// MaintenanceLog 记录鱼缸维护日志
// UserID 冗余记录操作人，便于按饲主维度统计活跃度
// PerformedAt 为用户填写的实际操作时间，CreatedAt 为入库时间
type MaintenanceLog struct {
	gorm.Model
	TankID      uint `gorm:"index"`
	Tank        Tank `gorm:"constraint:OnDelete:CASCADE"`
	UserID      uint `gorm:"index"`
	Kind        string
	Note        string
	PerformedAt time.Time
}
