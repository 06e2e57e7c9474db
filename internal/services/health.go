package services

import (
	"context"
	"fmt"
	"time"

	"github.com/MegamindsITServices/Sri-Sai-Ram-Real-Estate/internal/config"
	"github.com/MegamindsITServices/Sri-Sai-Ram-Real-Estate/internal/logger"
	"github.com/MegamindsITServices/Sri-Sai-Ram-Real-Estate/internal/media"
	"github.com/MegamindsITServices/Sri-Sai-Ram-Real-Estate/internal/utils"
	"gorm.io/gorm"
)

// HealthCheckResult represents the result of a health check
type HealthCheckResult struct {
	Status       string            `json:"status"`
	Database     string            `json:"database"`
	Authorizer   string            `json:"authorizer"`
	MediaStore   string            `json:"mediaStore"`
	Cache        string            `json:"cache"`
	Details      map[string]string `json:"details,omitempty"`
	ErrorMessage string            `json:"error,omitempty"`
}

// Health checks the collaborators the catalog depends on.
type Health struct {
	Config *config.Config
	DB     *gorm.DB
	Media  *media.Adapter
	Cache  *Cache
	Log    *logger.Logger
	// PingAuthorizer defaults to a TCP ping of AUTHZ_URL.
	PingAuthorizer func(url string) error
}

func (h *Health) fail(result *HealthCheckResult, component, detail string, err error) {
	result.Status = "unhealthy"
	result.Details[component+"_error"] = err.Error()
	msg := fmt.Sprintf("%s: %v", detail, err)
	if result.ErrorMessage == "" {
		result.ErrorMessage = msg
	} else {
		result.ErrorMessage += "; " + msg
	}
	h.Log.Warn("health check failed", "component", component, "error", err)
}

// Check performs a comprehensive health check of the service
func (h *Health) Check(ctx context.Context) HealthCheckResult {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	result := HealthCheckResult{
		Status:  "healthy",
		Details: make(map[string]string),
	}

	// Check database connectivity
	if sqlDB, err := h.DB.DB(); err != nil {
		result.Database = "error"
		h.fail(&result, "database", "Database connection error", err)
	} else if err := sqlDB.PingContext(ctx); err != nil {
		result.Database = "unreachable"
		h.fail(&result, "database", "Database ping failed", err)
	} else {
		result.Database = "ok"
		result.Details["database_type"] = h.Config.DBType
	}

	// Check Authorizer connectivity
	ping := h.PingAuthorizer
	if ping == nil {
		ping = utils.PingAuthorizer
	}
	if err := ping(h.Config.AuthzURL); err != nil {
		result.Authorizer = "unreachable"
		h.fail(&result, "authorizer", "Authorizer ping failed", err)
	} else {
		result.Authorizer = "ok"
	}

	if err := h.Media.Ping(ctx); err != nil {
		result.MediaStore = "unreachable"
		h.fail(&result, "media_store", "Media store ping failed", err)
	} else {
		result.MediaStore = "ok"
	}

	// a cache outage does not make the service unhealthy
	switch {
	case h.Cache == nil:
		result.Cache = "disabled"
	case h.Cache.Ping(ctx) != nil:
		result.Cache = "unreachable"
		result.Details["cache_error"] = "redis ping failed"
	default:
		result.Cache = "ok"
	}

	if result.Status == "healthy" {
		h.Log.Debug("health check passed")
	}
	return result
}
