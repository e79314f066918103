package client

import (
	"context"
	"net/http"
	"net/url"

	"github.com/haproxytech/client-native/v6/models"
)

const frontendsPath = configurationPath + "frontends"

// GetFrontends lists every frontend.
func (c *DataplaneClient) GetFrontends(ctx context.Context) ([]*models.Frontend, error) {
	var out []*models.Frontend
	if err := c.get(ctx, "get frontends", frontendsPath, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetFrontend returns the named frontend.
func (c *DataplaneClient) GetFrontend(ctx context.Context, name string) (*models.Frontend, error) {
	var out models.Frontend
	if err := c.get(ctx, "get frontend", frontendsPath+"/"+url.PathEscape(name), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateFrontend creates frontend under scope.
func (c *DataplaneClient) CreateFrontend(ctx context.Context, scope Scope, frontend *models.Frontend) (*models.Frontend, error) {
	return c.writeFrontend(ctx, scope, "create frontend", http.MethodPost, frontendsPath, frontend)
}

// UpdateFrontend replaces the named frontend under scope.
func (c *DataplaneClient) UpdateFrontend(ctx context.Context, scope Scope, name string, frontend *models.Frontend) (*models.Frontend, error) {
	return c.writeFrontend(ctx, scope, "update frontend", http.MethodPut, frontendsPath+"/"+url.PathEscape(name), frontend)
}

// DeleteFrontend deletes the named frontend under scope.
func (c *DataplaneClient) DeleteFrontend(ctx context.Context, scope Scope, name string) error {
	_, err := c.mutate(ctx, scope, mutation{
		operation: "delete frontend",
		method:    http.MethodDelete,
		path:      frontendsPath + "/" + url.PathEscape(name),
	})
	return err
}

func (c *DataplaneClient) writeFrontend(ctx context.Context, scope Scope, op, method, path string, frontend *models.Frontend) (*models.Frontend, error) {
	resp, err := c.mutate(ctx, scope, mutation{operation: op, method: method, path: path, body: frontend})
	if err != nil {
		return nil, err
	}
	var out models.Frontend
	if err := decodeData(resp, op, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
