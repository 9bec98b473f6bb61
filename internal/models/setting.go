package models

const (
	SettingKindString = "string"
	SettingKindJSON   = "json"
)

// Setting is one row of the site key/value store. Kind tells how Value
// must be decoded.
type Setting struct {
	Key   string `gorm:"primaryKey;size:100"`
	Kind  string `gorm:"size:10;not null;default:string"`
	Value string `gorm:"type:text"`
}
