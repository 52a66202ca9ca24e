package models

import "time"

// Binaries registered in the services table
const (
	BinaryCompute   = "nova-compute"
	BinaryScheduler = "nova-scheduler"
	BinaryConductor = "nova-conductor"
)

// Service is a row of the nova services table.
type Service struct {
	ID             uint       `json:"id" gorm:"primaryKey"`
	Host           string     `json:"host" gorm:"size:255;index"`
	Binary         string     `json:"binary" gorm:"size:255"`
	Topic          string     `json:"topic" gorm:"size:255"`
	ReportCount    int        `json:"report_count"`
	Disabled       bool       `json:"disabled"`
	DisabledReason *string    `json:"disabled_reason" gorm:"size:255"`
	ForcedDown     bool       `json:"forced_down"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      *time.Time `json:"updated_at"`
	DeletedAt      *time.Time `json:"deleted_at"`
	Deleted        uint       `json:"deleted" gorm:"default:0"`
}

// TableName returns the nova table name
func (Service) TableName() string {
	return "services"
}
