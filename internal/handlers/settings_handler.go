package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/anonto42/gammy/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// SettingsHandler reads and writes site settings.
type SettingsHandler struct {
	settings *services.SettingsService
}

func NewSettingsHandler(settings *services.SettingsService) *SettingsHandler {
	return &SettingsHandler{settings: settings}
}

func (h *SettingsHandler) RegisterSettingsRoutes(g *echo.Group, requireAuth, requireAdmin echo.MiddlewareFunc) {
	g.GET("", h.GetSettings)
	g.POST("/bulk", h.SetSettings, requireAuth, requireAdmin)
	g.GET("/:key", h.GetSetting)
	g.PUT("/:key", h.SetSetting, requireAuth, requireAdmin)
}

func (h *SettingsHandler) GetSettings(c echo.Context) error {
	all, err := h.settings.GetAll(c.Request().Context())
	if err != nil {
		return httpError(err, "Setting", "Failed to get settings")
	}
	return c.JSON(http.StatusOK, all)
}

// GetSetting answers null for unset keys.
func (h *SettingsHandler) GetSetting(c echo.Context) error {
	value, ok, err := h.settings.Get(c.Request().Context(), c.Param("key"))
	if err != nil {
		return httpError(err, "Setting", "Failed to get setting")
	}
	if !ok {
		return c.JSON(http.StatusOK, nil)
	}
	return c.JSON(http.StatusOK, value)
}

type setSettingRequest struct {
	Value json.RawMessage `json:"value"`
}

func (h *SettingsHandler) SetSetting(c echo.Context) error {
	var req setSettingRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	value, err := services.SettingValueFromJSON(req.Value)
	if err != nil {
		return httpError(err, "Setting", "Failed to save setting")
	}
	key := c.Param("key")
	if err := h.settings.Set(c.Request().Context(), key, value); err != nil {
		return httpError(err, "Setting", "Failed to save setting")
	}
	return c.JSON(http.StatusOK, echo.Map{"key": key, "value": value})
}

// SetSettings writes every key of the body object in one transaction.
func (h *SettingsHandler) SetSettings(c echo.Context) error {
	var body map[string]json.RawMessage
	if err := json.NewDecoder(c.Request().Body).Decode(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Settings must be a JSON object")
	}
	values := make(map[string]services.SettingValue, len(body))
	for key, raw := range body {
		v, err := services.SettingValueFromJSON(raw)
		if err != nil {
			return httpError(err, "Setting", "Failed to save settings")
		}
		values[key] = v
	}
	if err := h.settings.SetMany(c.Request().Context(), values); err != nil {
		return httpError(err, "Setting", "Failed to save settings")
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Settings saved", "count": len(values)})
}
