package client

import (
	"context"
	"net/http"
	"net/url"

	"github.com/haproxytech/client-native/v6/models"
)

const backendsPath = configurationPath + "backends"

// GetBackends lists every backend.
func (c *DataplaneClient) GetBackends(ctx context.Context) ([]*models.Backend, error) {
	var out []*models.Backend
	if err := c.get(ctx, "get backends", backendsPath, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetBackend returns the named backend.
func (c *DataplaneClient) GetBackend(ctx context.Context, name string) (*models.Backend, error) {
	var out models.Backend
	if err := c.get(ctx, "get backend", backendsPath+"/"+url.PathEscape(name), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateBackend creates backend under scope.
func (c *DataplaneClient) CreateBackend(ctx context.Context, scope Scope, backend *models.Backend) (*models.Backend, error) {
	return c.writeBackend(ctx, scope, "create backend", http.MethodPost, backendsPath, backend)
}

// UpdateBackend replaces the named backend under scope.
func (c *DataplaneClient) UpdateBackend(ctx context.Context, scope Scope, name string, backend *models.Backend) (*models.Backend, error) {
	return c.writeBackend(ctx, scope, "update backend", http.MethodPut, backendsPath+"/"+url.PathEscape(name), backend)
}

// DeleteBackend deletes the named backend under scope.
func (c *DataplaneClient) DeleteBackend(ctx context.Context, scope Scope, name string) error {
	_, err := c.mutate(ctx, scope, mutation{
		operation: "delete backend",
		method:    http.MethodDelete,
		path:      backendsPath + "/" + url.PathEscape(name),
	})
	return err
}

func (c *DataplaneClient) writeBackend(ctx context.Context, scope Scope, op, method, path string, backend *models.Backend) (*models.Backend, error) {
	resp, err := c.mutate(ctx, scope, mutation{operation: op, method: method, path: path, body: backend})
	if err != nil {
		return nil, err
	}
	var out models.Backend
	if err := decodeData(resp, op, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
