package schema

import "time"

// APIKey represents the api_keys table - bearer credentials issued to tenants
type APIKey struct {
	// ID is an auto-incrementing sequence number
	ID uint64 `gorm:"column:id;primaryKey;autoIncrement"`
	// OrganizationID is the tenant the key belongs to
	OrganizationID string `gorm:"column:organization_id;not null;type:uuid"`
	// KeyHash is the hex SHA-256 of the raw key. Raw keys are never stored.
	KeyHash string `gorm:"column:key_hash;not null;unique;type:char(64)"`
	// KeyPrefix is the first characters of the raw key, shown in dashboards
	KeyPrefix string `gorm:"column:key_prefix;not null;type:varchar(16)"`
	// Name is an optional label chosen by the tenant
	Name string `gorm:"column:name;type:text"`
	// IsActive is false once the key has been revoked
	IsActive bool `gorm:"column:is_active;not null"`
	// LastUsedAt is updated opportunistically and may lag
	LastUsedAt *time.Time `gorm:"column:last_used_at;type:timestamptz"`
	// CreatedAt is the timestamp when the key was issued
	CreatedAt time.Time `gorm:"column:created_at;not null;default:now();type:timestamptz"`
}

// TableName specifies the table name for the APIKey model
func (APIKey) TableName() string {
	return "api_keys"
}
