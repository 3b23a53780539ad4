package models

// Setting is a name/value pair used for sync bookkeeping (e.g. last_full_sync).
type Setting struct {
	Name  string `gorm:"column:name;primaryKey;size:191"`
	Value string `gorm:"column:value;type:text"`
}

// TableName overrides the table name.
func (Setting) TableName() string {
	return "settings"
}
