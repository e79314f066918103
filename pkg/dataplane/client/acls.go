package client

import (
	"context"

	"github.com/haproxytech/client-native/v6/models"
)

func (c *DataplaneClient) acls(parent Parent) ruleSet[models.ACL] {
	return ruleSet[models.ACL]{c: c, kind: "acl", path: configurationPath + "acls", query: parent.query()}
}

// GetACLs lists the ACLs of parent in order.
func (c *DataplaneClient) GetACLs(ctx context.Context, parent Parent) ([]Indexed[models.ACL], error) {
	return c.acls(parent).list(ctx)
}

// GetACL returns the ACL of parent at index.
func (c *DataplaneClient) GetACL(ctx context.Context, parent Parent, index int64) (Indexed[models.ACL], error) {
	return c.acls(parent).get(ctx, index)
}

// CreateACL inserts acl at index.
func (c *DataplaneClient) CreateACL(ctx context.Context, scope Scope, parent Parent, index int64, acl models.ACL) (Indexed[models.ACL], error) {
	return c.acls(parent).create(ctx, scope, index, acl)
}

// UpdateACL replaces the ACL at index.
func (c *DataplaneClient) UpdateACL(ctx context.Context, scope Scope, parent Parent, index int64, acl models.ACL) (Indexed[models.ACL], error) {
	return c.acls(parent).update(ctx, scope, index, acl)
}

// DeleteACL removes the ACL at index.
func (c *DataplaneClient) DeleteACL(ctx context.Context, scope Scope, parent Parent, index int64) error {
	return c.acls(parent).delete(ctx, scope, index)
}
