package services

import "log"

// AdminAuthorizer validates a submitted admin token before any catalog
// mutation. Token comparison is an exact match against a server-held
// configuration value; an absent configuration is a distinct condition
// from a wrong token.
type AdminAuthorizer interface {
	Authorize(token string) error
}

// ConfigAdminAuthorizer compares tokens against a configured value.
type ConfigAdminAuthorizer struct {
	expected string
}

var adminAuthorizerInstance AdminAuthorizer

// InitAdminAuthorizer initializes the authorizer with the configured token.
func InitAdminAuthorizer(expectedToken string) AdminAuthorizer {
	adminAuthorizerInstance = &ConfigAdminAuthorizer{expected: expectedToken}
	return adminAuthorizerInstance
}

// GetAdminAuthorizer returns the initialized authorizer instance.
func GetAdminAuthorizer() AdminAuthorizer {
	return adminAuthorizerInstance
}

// SetAdminAuthorizer sets the authorizer instance (primarily for testing).
func SetAdminAuthorizer(a AdminAuthorizer) {
	adminAuthorizerInstance = a
}

// Authorize checks the submitted token. No configured token rejects the
// operation as a deployment problem; a wrong or empty submitted token
// is a plain permission failure. No write is attempted in either case.
func (a *ConfigAdminAuthorizer) Authorize(token string) error {
	if a.expected == "" {
		log.Printf("Admin token is not configured; rejecting admin operation")
		return NewNotConfigured("admin token is not configured")
	}
	if token == "" || token != a.expected {
		return NewPermissionDenied("invalid admin token")
	}
	return nil
}
