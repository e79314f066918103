package client

import (
	"context"
	"net/http"
	"net/url"

	"github.com/haproxytech/client-native/v6/models"
)

const serversPath = configurationPath + "servers"

// GetServers lists the servers of parent.
func (c *DataplaneClient) GetServers(ctx context.Context, parent Parent) ([]*models.Server, error) {
	var out []*models.Server
	if err := c.get(ctx, "get servers", serversPath, parent.query(), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetServer returns a server of parent by name.
func (c *DataplaneClient) GetServer(ctx context.Context, parent Parent, name string) (*models.Server, error) {
	var out models.Server
	if err := c.get(ctx, "get server", serversPath+"/"+url.PathEscape(name), parent.query(), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateServer adds server to parent.
func (c *DataplaneClient) CreateServer(ctx context.Context, scope Scope, parent Parent, server *models.Server) (*models.Server, error) {
	return c.writeServer(ctx, scope, "create server", http.MethodPost, serversPath, parent, server)
}

// UpdateServer replaces a server of parent.
func (c *DataplaneClient) UpdateServer(ctx context.Context, scope Scope, parent Parent, name string, server *models.Server) (*models.Server, error) {
	return c.writeServer(ctx, scope, "update server", http.MethodPut, serversPath+"/"+url.PathEscape(name), parent, server)
}

// DeleteServer removes a server of parent.
func (c *DataplaneClient) DeleteServer(ctx context.Context, scope Scope, parent Parent, name string) error {
	_, err := c.mutate(ctx, scope, mutation{
		operation: "delete server",
		method:    http.MethodDelete,
		path:      serversPath + "/" + url.PathEscape(name),
		query:     parent.query(),
	})
	return err
}

func (c *DataplaneClient) writeServer(ctx context.Context, scope Scope, op, method, path string, parent Parent, server *models.Server) (*models.Server, error) {
	resp, err := c.mutate(ctx, scope, mutation{operation: op, method: method, path: path, query: parent.query(), body: server})
	if err != nil {
		return nil, err
	}
	var out models.Server
	if err := decodeData(resp, op, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
