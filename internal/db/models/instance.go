package models

import "time"

// Column names used in queries
const (
	InstanceUUIDField    = "uuid"
	InstanceHostField    = "host"
	InstanceVMStateField = "vm_state"
	InstanceDeletedField = "deleted"
)

// VM states as stored in instances.vm_state
const (
	VMStateActive    = "active"
	VMStateBuilding  = "building"
	VMStateStopped   = "stopped"
	VMStatePaused    = "paused"
	VMStateSuspended = "suspended"
	VMStateError     = "error"
	VMStateDeleted   = "deleted"
)

// Power states as stored in instances.power_state
const (
	PowerStateNoState   = 0
	PowerStateRunning   = 1
	PowerStatePaused    = 3
	PowerStateShutdown  = 4
	PowerStateCrashed   = 6
	PowerStateSuspended = 7
)

// Instance is a row of the nova instances table.
type Instance struct {
	ID          uint       `json:"id" gorm:"primaryKey"`
	UUID        string     `json:"uuid" gorm:"column:uuid;size:36;uniqueIndex"`
	Hostname    string     `json:"hostname" gorm:"size:255"`
	DisplayName string     `json:"display_name" gorm:"size:255"`
	Host        string     `json:"host" gorm:"size:255;index"`
	ProjectID   string     `json:"project_id" gorm:"size:255"`
	ImageRef    string     `json:"image_ref" gorm:"size:255"`
	VMState     string     `json:"vm_state" gorm:"column:vm_state;size:255"`
	TaskState   *string    `json:"task_state" gorm:"column:task_state;size:255"`
	PowerState  int        `json:"power_state"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at"`
	DeletedAt   *time.Time `json:"deleted_at"`
	Deleted     uint       `json:"deleted" gorm:"default:0"`
}

// TableName returns the nova table name
func (Instance) TableName() string {
	return "instances"
}

// IsDeleted reports whether nova has soft-deleted the row
func (i *Instance) IsDeleted() bool {
	return i.Deleted != NotDeleted
}
