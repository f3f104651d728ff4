package db

import "gorm.io/gorm"

// 鱼缸可见性取值
const (
	TankVisibilityPublic  = "public"
	TankVisibilityPrivate = "private"
)

// 水体类型取值，暂支持淡水/海水/汽水
const (
	TankWaterFresh    = "freshwater"
	TankWaterSalt     = "saltwater"
	TankWaterBrackish = "brackish"
)

// Tank 定义了鱼缸模型
// Description 为 Markdown 原文，渲染在公开展示页时再做净化
// ViewsCount 是展示页浏览总数，只增不减，由统计子系统原子累加
type Tank struct {
	gorm.Model
	Name        string `gorm:"not null"`
	Description string
	WaterType   string
	VolumeLiter int
	Visibility  string `gorm:"size:16;index"`
	CoverURL    string
	ViewsCount  uint64 `gorm:"default:0"`
	UserID      uint   `gorm:"index"`
	User        User
}
