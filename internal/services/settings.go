package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/anonto42/gammy/backend/internal/models"
	"github.com/anonto42/gammy/backend/internal/repositories"
	"gorm.io/gorm"
)

const (
	// MaxSettingLength caps the serialized length of a setting value.
	MaxSettingLength = 50000

	SettingFeedAllowAnonymous = "feedAllowAnonymous"
)

// SettingValue is either a plain string or a JSON document.
type SettingValue struct {
	Kind string
	Text string
	JSON json.RawMessage
}

func StringValue(s string) SettingValue {
	return SettingValue{Kind: models.SettingKindString, Text: s}
}

func JSONValue(raw json.RawMessage) SettingValue {
	return SettingValue{Kind: models.SettingKindJSON, JSON: raw}
}

// SettingValueFromJSON classifies a raw client value: JSON strings become
// String values, everything else is kept as JSON.
func SettingValueFromJSON(raw json.RawMessage) (SettingValue, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return SettingValue{}, validationError("Value is required")
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return SettingValue{}, validationError("Value is not valid JSON")
		}
		return StringValue(s), nil
	}
	if !json.Valid(raw) {
		return SettingValue{}, validationError("Value is not valid JSON")
	}
	return JSONValue(append(json.RawMessage(nil), raw...)), nil
}

func (v SettingValue) serialized() string {
	if v.Kind == models.SettingKindJSON {
		return string(v.JSON)
	}
	return v.Text
}

// MarshalJSON emits strings as JSON strings and JSON values verbatim.
func (v SettingValue) MarshalJSON() ([]byte, error) {
	if v.Kind == models.SettingKindJSON {
		if len(v.JSON) == 0 {
			return []byte("null"), nil
		}
		return v.JSON, nil
	}
	return json.Marshal(v.Text)
}

// Truthy reports whether the value reads as an enabled flag: "true" or "1"
// as a string, or JSON true / 1.
func (v SettingValue) Truthy() bool {
	s := strings.TrimSpace(v.serialized())
	return s == "true" || s == "1"
}

func fromModel(s models.Setting) SettingValue {
	if s.Kind == models.SettingKindJSON {
		return JSONValue(json.RawMessage(s.Value))
	}
	return StringValue(s.Value)
}

// SettingsService is the typed access layer over the settings table.
type SettingsService struct {
	repo repositories.SettingRepository
}

func NewSettingsService(repo repositories.SettingRepository) *SettingsService {
	return &SettingsService{repo: repo}
}

// Get returns the value for key; ok is false when the key is unset.
func (s *SettingsService) Get(ctx context.Context, key string) (value SettingValue, ok bool, err error) {
	row, err := s.repo.GetSetting(ctx, key)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return SettingValue{}, false, nil
	}
	if err != nil {
		return SettingValue{}, false, err
	}
	return fromModel(*row), true, nil
}

func (s *SettingsService) GetAll(ctx context.Context) (map[string]SettingValue, error) {
	rows, err := s.repo.GetAllSettings(ctx)
	if err != nil {
		return nil, err
	}
	all := make(map[string]SettingValue, len(rows))
	for _, row := range rows {
		all[row.Key] = fromModel(row)
	}
	return all, nil
}

func (s *SettingsService) Set(ctx context.Context, key string, value SettingValue) error {
	return s.SetMany(ctx, map[string]SettingValue{key: value})
}

// SetMany validates every entry first and then writes them atomically.
func (s *SettingsService) SetMany(ctx context.Context, values map[string]SettingValue) error {
	if len(values) == 0 {
		return validationError("Settings object cannot be empty")
	}
	rows := make([]models.Setting, 0, len(values))
	for key, v := range values {
		if strings.TrimSpace(key) == "" {
			return validationError("All keys must be non-empty strings")
		}
		raw := v.serialized()
		if utf8.RuneCountInString(raw) > MaxSettingLength {
			return validationError(fmt.Sprintf("Value for key %q is too long. Maximum %d characters allowed", key, MaxSettingLength))
		}
		kind := v.Kind
		if kind != models.SettingKindJSON {
			kind = models.SettingKindString
		}
		rows = append(rows, models.Setting{Key: key, Kind: kind, Value: raw})
	}
	return s.repo.UpsertSettings(ctx, rows...)
}

// Flag reads key as a boolean; unset keys are false.
func (s *SettingsService) Flag(ctx context.Context, key string) (bool, error) {
	v, ok, err := s.Get(ctx, key)
	if err != nil || !ok {
		return false, err
	}
	return v.Truthy(), nil
}

func (s *SettingsService) AllowAnonymousPosts(ctx context.Context) (bool, error) {
	return s.Flag(ctx, SettingFeedAllowAnonymous)
}
