// Package ovh manages DNS zone records through the signed OVH API.
package ovh

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"slices"
	"strings"

	"github.com/ovh/go-ovh/ovh"
)

// Config configures a Client. Endpoint is either an OVH endpoint name
// ("ovh-eu", "ovh-ca", ...) or an API root URL.
type Config struct {
	Endpoint          string
	ApplicationKey    string
	ApplicationSecret string
	ConsumerKey       string
	HTTPClient        *http.Client
	Logger            *slog.Logger
}

// Client wraps the go-ovh client with the zone record calls.
type Client struct {
	api    *ovh.Client
	logger *slog.Logger
}

// New creates a Client.
func New(cfg Config) (*Client, error) {
	for field, value := range map[string]string{
		"endpoint":           cfg.Endpoint,
		"application_key":    cfg.ApplicationKey,
		"application_secret": cfg.ApplicationSecret,
		"consumer_key":       cfg.ConsumerKey,
	} {
		if strings.TrimSpace(value) == "" {
			return nil, fmt.Errorf("Failed to build OVH API Client: '%s' is required", field) //nolint:staticcheck // message shown to users as is
		}
	}

	api, err := ovh.NewClient(cfg.Endpoint, cfg.ApplicationKey, cfg.ApplicationSecret, cfg.ConsumerKey)
	if err != nil {
		return nil, fmt.Errorf("Failed to build OVH API Client: %w", err) //nolint:staticcheck // message shown to users as is
	}
	if cfg.HTTPClient != nil {
		api.Client = cfg.HTTPClient
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{api: api, logger: logger}, nil
}

// IsNotFound reports whether err is an OVH 404.
func IsNotFound(err error) bool {
	var apiErr *ovh.APIError
	return errors.As(err, &apiErr) && apiErr.Code == http.StatusNotFound
}

// Zones lists the zones the credentials can manage.
func (c *Client) Zones(ctx context.Context) ([]string, error) {
	var zones []string
	if err := c.api.GetWithContext(ctx, "/domain/zone", &zones); err != nil {
		return nil, fmt.Errorf("[Find Zone] - Failed to call OVH API (/domain/zone) : %w", err)
	}
	return zones, nil
}

// HasZone reports whether zone is managed by the account.
func (c *Client) HasZone(ctx context.Context, zone string) (bool, error) {
	zones, err := c.Zones(ctx)
	if err != nil {
		return false, err
	}
	return slices.Contains(zones, zone), nil
}

// RecordIDs returns the ids of the records of one type under subDomain.
func (c *Client) RecordIDs(ctx context.Context, zone, fieldType, subDomain string) ([]int64, error) {
	query := url.Values{"fieldType": {fieldType}, "subDomain": {subDomain}}
	path := recordsPath(zone) + "?" + query.Encode()

	var ids []int64
	if err := c.api.GetWithContext(ctx, path, &ids); err != nil {
		return nil, fmt.Errorf("[Find Record] - Failed to call OVH API (%s) for record [%s]: %w", recordsPath(zone), subDomain, err)
	}
	c.logger.Debug("found zone records", "zone", zone, "type", fieldType, "sub_domain", subDomain, "count", len(ids))
	return ids, nil
}

// GetRecord fetches one record.
func (c *Client) GetRecord(ctx context.Context, zone string, id int64) (*Record, error) {
	var record Record
	if err := c.api.GetWithContext(ctx, recordPath(zone, id), &record); err != nil {
		return nil, fmt.Errorf("Failed to call OVH API: %w", err) //nolint:staticcheck // message shown to users as is
	}
	return &record, nil
}

// CreateRecord adds a record to zone.
func (c *Client) CreateRecord(ctx context.Context, zone string, record Record) (*Record, error) {
	var created Record
	if err := c.api.PostWithContext(ctx, recordsPath(zone), recordBody(record), &created); err != nil {
		return nil, fmt.Errorf("Failed to call OVH API: %w", err) //nolint:staticcheck // message shown to users as is
	}
	return &created, nil
}

// UpdateRecord rewrites the record with id.
func (c *Client) UpdateRecord(ctx context.Context, zone string, id int64, record Record) error {
	if err := c.api.PutWithContext(ctx, recordPath(zone, id), recordBody(record), nil); err != nil {
		return fmt.Errorf("Failed to call OVH API: %w", err) //nolint:staticcheck // message shown to users as is
	}
	return nil
}

// DeleteRecord removes the record with id.
func (c *Client) DeleteRecord(ctx context.Context, zone string, id int64) error {
	if err := c.api.DeleteWithContext(ctx, recordPath(zone, id), nil); err != nil {
		return fmt.Errorf("Failed to call OVH API: %w", err) //nolint:staticcheck // message shown to users as is
	}
	return nil
}

// Refresh applies pending record changes to the zone.
func (c *Client) Refresh(ctx context.Context, zone string) error {
	if err := c.api.PostWithContext(ctx, "/domain/zone/"+url.PathEscape(zone)+"/refresh", nil, nil); err != nil {
		return fmt.Errorf("Failed to call OVH API: %w", err) //nolint:staticcheck // message shown to users as is
	}
	return nil
}

func recordsPath(zone string) string {
	return "/domain/zone/" + url.PathEscape(zone) + "/record"
}

func recordPath(zone string, id int64) string {
	return fmt.Sprintf("%s/%d", recordsPath(zone), id)
}

func recordBody(r Record) map[string]any {
	return map[string]any{
		"fieldType": r.FieldType,
		"subDomain": r.SubDomain,
		"target":    r.Target,
		"ttl":       r.TTL,
	}
}
