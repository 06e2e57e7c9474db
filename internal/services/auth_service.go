package services

import (
	"fmt"
	"sync"

	"github.com/MegamindsITServices/Sri-Sai-Ram-Real-Estate/internal/config"
	"github.com/MegamindsITServices/Sri-Sai-Ram-Real-Estate/internal/logger"
	"github.com/MegamindsITServices/Sri-Sai-Ram-Real-Estate/internal/utils"
	authorizer "github.com/localnerve/authorizer-go"
)

// SessionValidator checks a session cookie against the required roles and returns the session data.
type SessionValidator func(cookie string, roles []string) (map[string]interface{}, error)

var (
	authClient *authorizer.AuthorizerClient
	authMu     sync.RWMutex
)

// IsAuthorizerInitialized returns true if the Authorizer client is initialized
func IsAuthorizerInitialized() bool {
	authMu.RLock()
	defer authMu.RUnlock()
	return authClient != nil
}

// InitAuthorizer initializes the Authorizer client (singleton pattern).
// A failed attempt leaves the client unset so a later call can retry.
func InitAuthorizer(cfg *config.Config, redirectURL string, log *logger.Logger) error {
	authMu.Lock()
	defer authMu.Unlock()
	if authClient != nil {
		return nil
	}

	// Ping the Authorizer service first
	if err := utils.PingAuthorizer(cfg.AuthzURL); err != nil {
		return fmt.Errorf("authorizer ping failed: %w", err)
	}

	log.Info("initializing authorizer", "authorizer_url", cfg.AuthzURL, "client_id", cfg.AuthzClientID, "redirect_url", redirectURL)

	client, err := authorizer.NewAuthorizerClient(cfg.AuthzClientID, cfg.AuthzURL, redirectURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create authorizer client: %w", err)
	}
	authClient = client
	return nil
}

// LazySessionValidator initializes the Authorizer on the first authenticated request.
func LazySessionValidator(cfg *config.Config, redirectURL string, log *logger.Logger) SessionValidator {
	return func(cookie string, roles []string) (map[string]interface{}, error) {
		if !IsAuthorizerInitialized() {
			if err := InitAuthorizer(cfg, redirectURL, log); err != nil {
				log.Warn("authorizer unavailable", "error", err)
				return nil, err
			}
		}
		return ValidateSession(cookie, roles)
	}
}

// ValidateSession validates a session cookie for the given roles
func ValidateSession(cookie string, roles []string) (map[string]interface{}, error) {
	authMu.RLock()
	client := authClient
	authMu.RUnlock()
	if client == nil {
		return nil, fmt.Errorf("authorizer client not initialized")
	}

	rolesPtrs := make([]*string, len(roles))
	for i := range roles {
		rolesPtrs[i] = &roles[i]
	}

	res, err := client.ValidateSession(&authorizer.ValidateSessionInput{
		Cookie: cookie,
		Roles:  rolesPtrs,
	})
	if err != nil {
		return nil, fmt.Errorf("session validation failed: %w", err)
	}

	if res == nil || !res.IsValid {
		return nil, fmt.Errorf("session is not valid")
	}

	return map[string]interface{}{
		"is_valid": res.IsValid,
		"user":     res.User,
	}, nil
}
