package models

import "time"

// UserLog records a login or registration event for analytics.
type UserLog struct {
	ID        int64     `gorm:"column:id;primaryKey;autoIncrement"`
	UserID    int64     `gorm:"column:user_id;not null"`
	IPAddress string    `gorm:"column:ip_address;not null"`
	Browser   string    `gorm:"column:browser;not null"`
	Country   string    `gorm:"column:country;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (UserLog) TableName() string { return "user_logs" }
