package models

import "encoding/json"

// Well-known system value names.
const (
	NameConfig        = "config"
	NameLicense       = "license"
	NameCurrentUserId = "currentUserId"
)

// System is a process-wide named singleton value stored as a key/value
// row. Structured values (config, license) are JSON-serialized.
type System struct {
	Name  string `gorm:"primaryKey;size:64" json:"name"`
	Value string `json:"value"`
}

// SystemFromValue builds a System row, JSON-serializing structured
// values and storing strings as-is.
func SystemFromValue(name string, value any) (System, error) {
	if s, ok := value.(string); ok {
		return System{Name: name, Value: s}, nil
	}
	data, err := json.Marshal(value)
	if err != nil {
		return System{}, err
	}
	return System{Name: name, Value: string(data)}, nil
}
