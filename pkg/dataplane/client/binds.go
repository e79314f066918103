package client

import (
	"context"
	"net/http"
	"net/url"

	"github.com/haproxytech/client-native/v6/models"
)

const bindsPath = configurationPath + "binds"

// GetBinds lists the binds of parent.
func (c *DataplaneClient) GetBinds(ctx context.Context, parent Parent) ([]*models.Bind, error) {
	var out []*models.Bind
	if err := c.get(ctx, "get binds", bindsPath, parent.query(), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetBind returns a bind of parent by name.
func (c *DataplaneClient) GetBind(ctx context.Context, parent Parent, name string) (*models.Bind, error) {
	var out models.Bind
	if err := c.get(ctx, "get bind", bindsPath+"/"+url.PathEscape(name), parent.query(), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateBind adds bind to parent.
func (c *DataplaneClient) CreateBind(ctx context.Context, scope Scope, parent Parent, bind *models.Bind) (*models.Bind, error) {
	return c.writeBind(ctx, scope, "create bind", http.MethodPost, bindsPath, parent, bind)
}

// UpdateBind replaces a bind of parent.
func (c *DataplaneClient) UpdateBind(ctx context.Context, scope Scope, parent Parent, name string, bind *models.Bind) (*models.Bind, error) {
	return c.writeBind(ctx, scope, "update bind", http.MethodPut, bindsPath+"/"+url.PathEscape(name), parent, bind)
}

// DeleteBind removes a bind of parent.
func (c *DataplaneClient) DeleteBind(ctx context.Context, scope Scope, parent Parent, name string) error {
	_, err := c.mutate(ctx, scope, mutation{
		operation: "delete bind",
		method:    http.MethodDelete,
		path:      bindsPath + "/" + url.PathEscape(name),
		query:     parent.query(),
	})
	return err
}

func (c *DataplaneClient) writeBind(ctx context.Context, scope Scope, op, method, path string, parent Parent, bind *models.Bind) (*models.Bind, error) {
	resp, err := c.mutate(ctx, scope, mutation{operation: op, method: method, path: path, query: parent.query(), body: bind})
	if err != nil {
		return nil, err
	}
	var out models.Bind
	if err := decodeData(resp, op, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
