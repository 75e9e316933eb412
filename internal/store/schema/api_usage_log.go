package schema

import "time"

// APIUsageLog represents the api_usage_logs table - best-effort per-request usage records.
// Endpoint holds the route template with identifiers replaced, e.g. /api/v1/webhooks/:id.
type APIUsageLog struct {
	ID             uint64    `gorm:"column:id;primaryKey;autoIncrement"`
	OrganizationID string    `gorm:"column:organization_id;not null;type:uuid"`
	Endpoint       string    `gorm:"column:endpoint;not null;type:text"`
	Method         string    `gorm:"column:method;not null;type:varchar(10)"`
	StatusCode     int       `gorm:"column:status_code;not null"`
	ResponseTimeMs int64     `gorm:"column:response_time_ms;not null"`
	ClientIP       *string   `gorm:"column:client_ip;type:varchar(64)"`
	UserAgent      *string   `gorm:"column:user_agent;type:text"`
	CreatedAt      time.Time `gorm:"column:created_at;not null;default:now();type:timestamptz"`
}

// TableName specifies the table name for the APIUsageLog model
func (APIUsageLog) TableName() string {
	return "api_usage_logs"
}
