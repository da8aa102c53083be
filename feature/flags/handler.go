package flags

import (
	"errors"

	"feature-manifest/core/feature"
	"feature-manifest/core/logger"
	"feature-manifest/core/settings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// CookiePrefix is prepended to cookie names in the evaluation context.
const CookiePrefix = "cookie."

// Handler handles HTTP requests for manifests.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the manifest routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/manifest")
	group.Get("/", h.HandleGetManifest)
	group.Post("/reload", h.HandleReload)
	group.Post("/archive", h.HandleArchive)
	group.Get("/:feature", h.HandleGetDescriptor)
	group.Get("/:feature/enabled", h.HandleIsEnabled)
}

// EvaluationContext builds the evaluation context of a request from its query
// parameters and cookies. Query values are typed with settings.Parse; cookies
// stay strings and are prefixed with CookiePrefix.
func EvaluationContext(c *fiber.Ctx) settings.Settings {
	evalCtx := settings.Settings{}
	c.Request().URI().QueryArgs().VisitAll(func(key, value []byte) {
		evalCtx[string(key)] = settings.Parse(string(value))
	})
	c.Request().Header.VisitAllCookie(func(key, value []byte) {
		evalCtx[CookiePrefix+string(key)] = settings.String(string(value))
	})
	return evalCtx
}

// HandleGetManifest resolves the manifest for the request context.
// @Summary Get Manifest
// @Description Resolves every feature for the evaluation context built from query parameters and cookies.
// @Tags manifest
// @Produce json
// @Success 200 {object} map[string]interface{} "Manifest"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /manifest [get]
func (h *Handler) HandleGetManifest(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	m, key, err := h.service.Manifest(c.Context(), EvaluationContext(c))
	if err != nil {
		l.Error("Manifest resolution failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{
		"key":      key,
		"manifest": m,
	})
}

// HandleGetDescriptor returns the descriptor of one feature.
// @Summary Get Feature Descriptor
// @Description Returns availability, dependencies and settings of a single feature.
// @Tags manifest
// @Produce json
// @Param feature path string true "Feature identifier"
// @Success 200 {object} map[string]interface{} "Descriptor"
// @Failure 404 {object} map[string]string "Unknown feature"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /manifest/{feature} [get]
func (h *Handler) HandleGetDescriptor(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	id := feature.ID(c.Params("feature"))

	d, err := h.service.Descriptor(c.Context(), id, EvaluationContext(c))
	if errors.Is(err, feature.ErrUnknownFeature) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	}
	if err != nil {
		l.Error("Descriptor resolution failed", zap.String("feature", string(id)), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{
		"feature":    id,
		"descriptor": d,
	})
}

// HandleIsEnabled reports whether a feature is enabled. Resolution failures
// are reported as disabled.
// @Summary Is Feature Enabled
// @Description Fail-safe availability check. Unknown features and resolution errors report false.
// @Tags manifest
// @Produce json
// @Param feature path string true "Feature identifier"
// @Success 200 {object} map[string]interface{} "Availability"
// @Router /manifest/{feature}/enabled [get]
func (h *Handler) HandleIsEnabled(c *fiber.Ctx) error {
	id := feature.ID(c.Params("feature"))
	enabled := h.service.IsEnabled(c.Context(), id, EvaluationContext(c))

	return c.JSON(fiber.Map{
		"feature": id,
		"enabled": enabled,
	})
}

// HandleReload reloads the feature definition.
// @Summary Reload Definition
// @Description Reloads the feature definition from its source and purges cached manifests. The current definition is kept on failure.
// @Tags manifest
// @Produce json
// @Success 200 {object} map[string]interface{} "Reloaded"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /manifest/reload [post]
func (h *Handler) HandleReload(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	l.Info("Reloading feature definition")

	if err := h.service.Reload(c.Context()); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	def := h.service.Definition()
	return c.JSON(fiber.Map{
		"status":   "reloaded",
		"features": def.Graph.Len(),
		"version":  def.Version,
	})
}

// HandleArchive resolves and archives the manifest for the request context.
// @Summary Archive Manifest
// @Description Resolves the manifest and stores it as JSON in object storage under its cache key.
// @Tags manifest
// @Produce json
// @Success 200 {object} map[string]interface{} "Archived"
// @Failure 503 {object} map[string]string "Archive not configured"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /manifest/archive [post]
func (h *Handler) HandleArchive(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	key, err := h.service.Archive(c.Context(), EvaluationContext(c))
	if errors.Is(err, ErrNoArchive) {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": err.Error()})
	}
	if err != nil {
		l.Error("Manifest archive failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{
		"status": "archived",
		"key":    key,
	})
}

