package client

import (
	"context"
	"net/url"

	"github.com/haproxytech/client-native/v6/models"
)

func (c *DataplaneClient) switchingRules(frontend string) ruleSet[models.BackendSwitchingRule] {
	return ruleSet[models.BackendSwitchingRule]{
		c:     c,
		kind:  "backend switching rule",
		path:  configurationPath + "backend_switching_rules",
		query: url.Values{"frontend": {frontend}},
	}
}

// GetBackendSwitchingRules lists the use_backend rules of frontend in order.
func (c *DataplaneClient) GetBackendSwitchingRules(ctx context.Context, frontend string) ([]Indexed[models.BackendSwitchingRule], error) {
	return c.switchingRules(frontend).list(ctx)
}

// GetBackendSwitchingRule returns the rule at index.
func (c *DataplaneClient) GetBackendSwitchingRule(ctx context.Context, frontend string, index int64) (Indexed[models.BackendSwitchingRule], error) {
	return c.switchingRules(frontend).get(ctx, index)
}

// CreateBackendSwitchingRule inserts rule at index.
func (c *DataplaneClient) CreateBackendSwitchingRule(ctx context.Context, scope Scope, frontend string, index int64, rule models.BackendSwitchingRule) (Indexed[models.BackendSwitchingRule], error) {
	return c.switchingRules(frontend).create(ctx, scope, index, rule)
}

// UpdateBackendSwitchingRule replaces the rule at index.
func (c *DataplaneClient) UpdateBackendSwitchingRule(ctx context.Context, scope Scope, frontend string, index int64, rule models.BackendSwitchingRule) (Indexed[models.BackendSwitchingRule], error) {
	return c.switchingRules(frontend).update(ctx, scope, index, rule)
}

// DeleteBackendSwitchingRule removes the rule at index.
func (c *DataplaneClient) DeleteBackendSwitchingRule(ctx context.Context, scope Scope, frontend string, index int64) error {
	return c.switchingRules(frontend).delete(ctx, scope, index)
}
