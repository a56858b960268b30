package allowlist

import (
	"strings"

	"go.uber.org/zap"
)

// Checker decides whether a recipient address may receive training mail.
// An empty domain list allows nobody.
type Checker struct {
	domains map[string]struct{}
	logger  *zap.Logger
}

// NewChecker creates a new allowlist checker
func NewChecker(domains []string, logger *zap.Logger) *Checker {
	normalized := make(map[string]struct{}, len(domains))
	names := make([]string, 0, len(domains))
	for _, domain := range domains {
		domain = strings.ToLower(strings.TrimSpace(domain))
		if domain == "" {
			continue
		}
		if _, seen := normalized[domain]; !seen {
			normalized[domain] = struct{}{}
			names = append(names, domain)
		}
	}

	if logger != nil {
		if len(names) > 0 {
			logger.Info("Initialized recipient allowlist", zap.Strings("domains", names))
		} else {
			logger.Warn("Recipient allowlist is empty, delivery is disabled")
		}
	}

	return &Checker{
		domains: normalized,
		logger:  logger,
	}
}

// IsAllowed checks if the recipient's domain is on the allowlist
func (c *Checker) IsAllowed(address string) bool {
	if len(c.domains) == 0 {
		return false
	}

	at := strings.LastIndex(address, "@")
	if at <= 0 || at == len(address)-1 {
		return false
	}
	domain := strings.ToLower(strings.TrimSpace(address[at+1:]))

	if _, ok := c.domains[domain]; ok {
		if c.logger != nil {
			c.logger.Debug("Recipient domain is allowed",
				zap.String("domain", domain),
				zap.String("address", address))
		}
		return true
	}

	return false
}
