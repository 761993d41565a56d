package shared

// Record is implemented by every persisted community record. Records carry
// an integer surrogate key and a version used as the optimistic concurrency token.
type Record interface {
	GetID() int64
	GetVersion() int
	SetVersion(v int)
	TableName() string
	// MutableColumns lists the columns an update replaces, keyed by column name.
	MutableColumns() map[string]any
}

// BaseRecord provides the identity and version columns shared by all records
type BaseRecord struct {
	ID      int64 `gorm:"primaryKey;autoIncrement"`
	Version int   `gorm:"not null;default:1"`
}

// GetID returns the record ID
func (r *BaseRecord) GetID() int64 {
	return r.ID
}

// GetVersion returns the record version
func (r *BaseRecord) GetVersion() int {
	return r.Version
}

// SetVersion sets the record version
func (r *BaseRecord) SetVersion(v int) {
	r.Version = v
}
