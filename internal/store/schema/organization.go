package schema

import "time"

// Organization represents the organizations table - a tenant of the platform
type Organization struct {
	// ID is the tenant identifier (UUID)
	ID string `gorm:"column:id;primaryKey;type:uuid"`
	// Name is the display name of the tenant
	Name string `gorm:"column:name;not null;type:text"`
	// Plan is the subscription tier that selects the API quota (e.g. free, pro)
	Plan string `gorm:"column:plan;not null;default:free;type:varchar(32)"`
	// CreatedAt is the timestamp when the tenant was created
	CreatedAt time.Time `gorm:"column:created_at;not null;default:now();type:timestamptz"`
	// UpdatedAt is the timestamp when the tenant was last updated
	UpdatedAt time.Time `gorm:"column:updated_at;not null;default:now();type:timestamptz"`
}

// TableName specifies the table name for the Organization model
func (Organization) TableName() string {
	return "organizations"
}
