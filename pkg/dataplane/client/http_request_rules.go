package client

import (
	"context"

	"github.com/haproxytech/client-native/v6/models"
)

func (c *DataplaneClient) httpRequestRules(parent Parent) ruleSet[models.HTTPRequestRule] {
	return ruleSet[models.HTTPRequestRule]{
		c:     c,
		kind:  "http request rule",
		path:  configurationPath + "http_request_rules",
		query: parent.query(),
	}
}

// GetHTTPRequestRules lists the http-request rules of parent in order.
func (c *DataplaneClient) GetHTTPRequestRules(ctx context.Context, parent Parent) ([]Indexed[models.HTTPRequestRule], error) {
	return c.httpRequestRules(parent).list(ctx)
}

// GetHTTPRequestRule returns the rule at index.
func (c *DataplaneClient) GetHTTPRequestRule(ctx context.Context, parent Parent, index int64) (Indexed[models.HTTPRequestRule], error) {
	return c.httpRequestRules(parent).get(ctx, index)
}

// CreateHTTPRequestRule inserts rule at index.
func (c *DataplaneClient) CreateHTTPRequestRule(ctx context.Context, scope Scope, parent Parent, index int64, rule models.HTTPRequestRule) (Indexed[models.HTTPRequestRule], error) {
	return c.httpRequestRules(parent).create(ctx, scope, index, rule)
}

// UpdateHTTPRequestRule replaces the rule at index.
func (c *DataplaneClient) UpdateHTTPRequestRule(ctx context.Context, scope Scope, parent Parent, index int64, rule models.HTTPRequestRule) (Indexed[models.HTTPRequestRule], error) {
	return c.httpRequestRules(parent).update(ctx, scope, index, rule)
}

// DeleteHTTPRequestRule removes the rule at index.
func (c *DataplaneClient) DeleteHTTPRequestRule(ctx context.Context, scope Scope, parent Parent, index int64) error {
	return c.httpRequestRules(parent).delete(ctx, scope, index)
}
