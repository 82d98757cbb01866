package api

import (
	"fmt"
	"net/http"

	"github.com/gofiber/fiber/v2"

	customlog "github.com/open-fieldtrack/controller/pkg/log"
	"github.com/open-fieldtrack/controller/services"
)

// ConfigHandler holds dependencies for configuration API endpoints.
type ConfigHandler struct {
	configService services.FieldConfigService
	logger        customlog.Logger
}

// NewConfigHandler creates a new handler for configuration endpoints.
func NewConfigHandler(configService services.FieldConfigService, logger customlog.Logger) *ConfigHandler {
	if configService == nil {
		panic("ConfigService cannot be nil in NewConfigHandler")
	}
	if logger == nil {
		panic("Logger cannot be nil in NewConfigHandler")
	}
	return &ConfigHandler{
		configService: configService,
		logger:        logger,
	}
}

// RegisterConfigRoutes registers the configuration API endpoints with the Fiber app.
func RegisterConfigRoutes(app *fiber.App, configService services.FieldConfigService, logger customlog.Logger) {
	h := NewConfigHandler(configService, logger)

	apiGroup := app.Group("/api/v1/config")

	// GET endpoint to retrieve the current field configuration as YAML
	apiGroup.Get("/field", h.handleGetFieldConfig)

	// PUT endpoint to update the field configuration
	apiGroup.Put("/field", h.handleUpdateFieldConfig)

	logger.Infof("Registered field configuration API endpoints under /api/v1/config")
}

// handleGetFieldConfig handles GET requests to retrieve the current field config YAML.
func (h *ConfigHandler) handleGetFieldConfig(c *fiber.Ctx) error {
	h.logger.Debugf("Handling GET request for /api/v1/config/field")
	yamlData, err := h.configService.GetCurrentConfigYAML()
	if err != nil {
		h.logger.Errorf("Failed to get current field config YAML: %v", err)
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{
			"error": fmt.Sprintf("Failed to retrieve configuration: %v", err),
		})
	}

	if yamlData == nil {
		h.logger.Warnf("Field configuration has not been loaded yet.")
		return c.Status(http.StatusNotFound).JSON(fiber.Map{
			"error": "Field configuration not found or not yet set.",
		})
	}

	c.Set(fiber.HeaderContentType, "application/x-yaml")
	return c.Send(yamlData)
}

// handleUpdateFieldConfig handles PUT requests to update the field config YAML.
func (h *ConfigHandler) handleUpdateFieldConfig(c *fiber.Ctx) error {
	h.logger.Debugf("Handling PUT request for /api/v1/config/field")

	contentType := c.Get(fiber.HeaderContentType)
	if contentType != "application/x-yaml" && contentType != "application/yaml" && contentType != "text/yaml" {
		// Relaxed check: attempt to process anyway but log the mismatch.
		h.logger.Warnf("Received PUT request with unexpected Content-Type: %s", contentType)
	}

	newConfigYAML := c.Body()
	if len(newConfigYAML) == 0 {
		h.logger.Errorf("Received empty body in PUT request for field config update.")
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{
			"error": "Request body cannot be empty.",
		})
	}

	if err := h.configService.UpdateConfig(newConfigYAML); err != nil {
		h.logger.Errorf("Failed to update field configuration: %v", err)
		if services.IsValidationError(err) {
			return c.Status(http.StatusBadRequest).JSON(fiber.Map{
				"error": fmt.Sprintf("Configuration update failed: %v", err),
			})
		}
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{
			"error": fmt.Sprintf("Internal server error during configuration update: %v", err),
		})
	}

	h.logger.Infof("Successfully processed PUT request to update field configuration.")
	return c.Status(http.StatusOK).JSON(fiber.Map{
		"message": "Field configuration updated successfully. A field reset applies the new placements.",
	})
}
