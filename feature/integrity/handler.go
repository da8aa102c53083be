package integrity

import (
	"feature-manifest/core/logger"
	"feature-manifest/core/utils"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for integrity checks.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the integrity routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/integrity")
	group.Get("/", h.HandleIntegrityCheck)
	group.Get("/definition", h.HandleDefinitionCheck)
	group.Get("/storage", h.HandleStorageCheck)
	group.Get("/database", h.HandleDatabaseCheck)
}

func errorEntry(err error) fiber.Map {
	return fiber.Map{"status": "error", "error": err.Error()}
}

// HandleIntegrityCheck triggers all integrity checks.
// @Summary Run All Integrity Checks
// @Description Performs every integrity check (Definition, Storage, Database). Failing checks are reported inline.
// @Tags integrity
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{} "Combined Report"
// @Router /integrity [get]
func (h *Handler) HandleIntegrityCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	l.Info("Triggering all integrity checks")

	report := make(map[string]any)

	if defReport, err := h.service.CheckDefinition(); err != nil {
		report["definition"] = errorEntry(err)
	} else {
		report["definition"] = defReport
	}

	if storageReport, err := h.service.CheckStorage(c.Context()); err != nil {
		report["storage"] = errorEntry(err)
	} else {
		report["storage"] = storageReport
	}

	if dbReport, err := h.service.CheckDatabase(); err != nil {
		report["database"] = errorEntry(err)
	} else {
		report["database"] = dbReport
	}

	return c.JSON(report)
}

// HandleDefinitionCheck checks the served definition.
// @Summary Check Definition
// @Description Reports dependency cycles and features without an availability rule.
// @Tags integrity
// @Produce json
// @Success 200 {object} checks.DefinitionReport "Definition Report"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /integrity/definition [get]
func (h *Handler) HandleDefinitionCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	report, err := h.service.CheckDefinition()
	if err != nil {
		l.Error("Definition check failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	if !report.Healthy {
		l.Warn("Definition problems detected",
			zap.Strings("cycle", report.Cycle),
			zap.Strings("missing_rules", report.MissingRules))
	}

	return c.JSON(report)
}

// HandleStorageCheck checks and optionally fixes the bucket layout.
// @Summary Check Storage
// @Description Checks that the bucket, the archive folder and the definition object exist. Optionally creates the bucket and missing folders.
// @Tags integrity
// @Produce json
// @Param fix query boolean false "Create the bucket and missing folders"
// @Success 200 {object} map[string]interface{} "Storage Report"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /integrity/storage [get]
func (h *Handler) HandleStorageCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	fix := utils.ToBool(c.Query("fix"))

	report, err := h.service.CheckStorage(c.Context())
	if err != nil {
		l.Error("Storage check failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	repairable := !report.BucketExists || len(report.MissingFolders) > 0
	if repairable {
		l.Warn("Storage layout incomplete",
			zap.Bool("bucket_exists", report.BucketExists),
			zap.Strings("missing_folders", report.MissingFolders))

		if fix {
			l.Info("Attempting to fix storage layout")
			if err := h.service.FixStorage(c.Context(), report); err != nil {
				return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
					"error":   "Failed to fix storage",
					"details": err.Error(),
					"report":  report,
				})
			}
			return c.JSON(fiber.Map{
				"status": "fixed",
				"fixed":  report.MissingFolders,
				"report": report,
			})
		}
	}

	return c.JSON(fiber.Map{
		"status": "checked",
		"report": report,
	})
}

// HandleDatabaseCheck checks the settings table schema.
// @Summary Check Settings Table
// @Description Checks that the settings table has every expected column.
// @Tags integrity
// @Produce json
// @Success 200 {object} checks.DatabaseReport "Database Report"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /integrity/database [get]
func (h *Handler) HandleDatabaseCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	l.Info("Starting settings table check")

	report, err := h.service.CheckDatabase()
	if err != nil {
		l.Error("Settings table check failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(report)
}

