package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"restops/pkg/httpapi"
)

const sslCertificatesPath = "services/haproxy/storage/ssl_certificates"

// SSLCertificate is a certificate file held in the Dataplane storage.
// The storage API returns a free-form object (file, storage_name,
// description, not_after, ...), kept as a generic map.
type SSLCertificate map[string]any

// GetSSLCertificates lists the stored certificates.
func (c *DataplaneClient) GetSSLCertificates(ctx context.Context) ([]SSLCertificate, error) {
	var out []SSLCertificate
	if err := c.get(ctx, "get ssl certificates", sslCertificatesPath, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetSSLCertificate returns the named certificate.
func (c *DataplaneClient) GetSSLCertificate(ctx context.Context, name string) (SSLCertificate, error) {
	var out SSLCertificate
	if err := c.get(ctx, "get ssl certificate", sslCertificatesPath+"/"+url.PathEscape(name), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateSSLCertificate uploads the file at path as a multipart form under
// the field "file_upload", named name.
func (c *DataplaneClient) CreateSSLCertificate(ctx context.Context, name, path string, forceReload bool) (SSLCertificate, error) {
	name, path, err := checkCertificateInput(name, path)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open certificate file: %w", err)
	}
	defer file.Close()

	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)
	part, err := form.CreateFormFile("file_upload", name)
	if err != nil {
		return nil, fmt.Errorf("failed to build upload form: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return nil, fmt.Errorf("failed to read certificate file: %w", err)
	}
	if err := form.Close(); err != nil {
		return nil, fmt.Errorf("failed to build upload form: %w", err)
	}

	resp, err := c.api.Do(ctx, httpapi.Request{
		Method:      http.MethodPost,
		Path:        sslCertificatesPath,
		Query:       forceReloadQuery(forceReload),
		Body:        &buf,
		ContentType: form.FormDataContentType(),
		Operation:   "create ssl certificate",
	})
	if err != nil {
		return nil, err
	}

	var out SSLCertificate
	if err := decodeData(resp, "create ssl certificate", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateSSLCertificate replaces the named certificate with the content of
// the file at path, sent as text/plain.
func (c *DataplaneClient) UpdateSSLCertificate(ctx context.Context, name, path string, forceReload bool) (SSLCertificate, error) {
	name, path, err := checkCertificateInput(name, path)
	if err != nil {
		return nil, err
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read certificate file: %w", err)
	}

	resp, err := c.api.Do(ctx, httpapi.Request{
		Method:      http.MethodPut,
		Path:        sslCertificatesPath + "/" + url.PathEscape(name),
		Query:       forceReloadQuery(forceReload),
		Body:        bytes.NewReader(content),
		ContentType: "text/plain",
		Operation:   "update ssl certificate",
	})
	if err != nil {
		return nil, err
	}

	var out SSLCertificate
	if err := decodeData(resp, "update ssl certificate", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// DeleteSSLCertificate removes the named certificate.
func (c *DataplaneClient) DeleteSSLCertificate(ctx context.Context, name string, forceReload bool) (SSLCertificate, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("the 'name' parameter is required and cannot be blank")
	}

	_, err := c.api.Do(ctx, httpapi.Request{
		Method:    http.MethodDelete,
		Path:      sslCertificatesPath + "/" + url.PathEscape(name),
		Query:     forceReloadQuery(forceReload),
		Operation: "delete ssl certificate",
	})
	if err != nil {
		return nil, err
	}
	return SSLCertificate{"name": name, "status": "deleted"}, nil
}

func checkCertificateInput(name, path string) (string, string, error) {
	name = strings.TrimSpace(name)
	path = strings.TrimSpace(path)
	if name == "" {
		return "", "", fmt.Errorf("the 'name' parameter is required and cannot be blank")
	}
	if path == "" {
		return "", "", fmt.Errorf("the 'path' parameter is required and cannot be blank")
	}
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return "", "", fmt.Errorf("file to upload is not found: %s", filepath.Clean(path))
	}
	return name, path, nil
}

func forceReloadQuery(forceReload bool) url.Values {
	return url.Values{"force_reload": {strconv.FormatBool(forceReload)}}
}
