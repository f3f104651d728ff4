package db

import "gorm.io/gorm"

// Inhabitant 记录鱼缸中的生物（鱼/虾/水草等）
// Quantity 表示同种生物数量，Nickname 为可选昵称
type Inhabitant struct {
	gorm.Model
	TankID   uint `gorm:"index"`
	Tank     Tank `gorm:"constraint:OnDelete:CASCADE"`
	Species  string
	Nickname string
	Quantity int
	Note     string
}
