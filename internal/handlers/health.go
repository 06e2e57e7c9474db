package handlers

import (
	"github.com/MegamindsITServices/Sri-Sai-Ram-Real-Estate/internal/services"
	"github.com/MegamindsITServices/Sri-Sai-Ram-Real-Estate/internal/utils"
	"github.com/gofiber/fiber/v2"
)

// HealthHandler serves the liveness report
type HealthHandler struct {
	Health *services.Health
}

// Healthz godoc
// @Summary Service health
// @Description Database, authorizer, media store and cache status
// @Tags health
// @Produce json
// @Success 200 {object} services.HealthCheckResult
// @Failure 503 {object} services.HealthCheckResult
// @Router /healthz [get]
func (h *HealthHandler) Healthz(c *fiber.Ctx) error {
	result := h.Health.Check(c.UserContext())
	status := fiber.StatusOK
	if result.Status != "healthy" {
		status = fiber.StatusServiceUnavailable
	}
	return utils.SuccessResponse(c, result, status)
}
