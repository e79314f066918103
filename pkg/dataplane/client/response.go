// Copyright 2025 Philipp Hossner
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"restops/pkg/httpapi"
)

// unwrapData returns the "data" member of a {"_version": N, "data": ...}
// envelope, or body itself when it is not enveloped.
func unwrapData(body []byte) []byte {
	if !gjson.ValidBytes(body) {
		return body
	}
	root := gjson.ParseBytes(body)
	if !root.IsObject() {
		return body
	}
	if data := root.Get("data"); data.Exists() && root.Get("_version").Exists() {
		return []byte(data.Raw)
	}
	return body
}

// decodeData unmarshals the possibly enveloped body into out.
func decodeData(resp *httpapi.Response, operation string, out any) error {
	if out == nil {
		return nil
	}
	data := unwrapData(resp.Body)
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%s: failed to decode response: %w", operation, err)
	}
	return nil
}

// withIndex adds the rule index to a JSON-encoded model. The v6 models keep
// the index out of the body, but the v2 API expects it there.
func withIndex(model any, index int64) (json.RawMessage, error) {
	data, err := json.Marshal(model)
	if err != nil {
		return nil, err
	}
	data, err = sjson.SetBytes(data, "index", index)
	if err != nil {
		return nil, fmt.Errorf("failed to set rule index: %w", err)
	}
	return data, nil
}

// get performs a GET and decodes the unwrapped payload into out. A 404 is
// returned as an *httpapi.APIError, testable with httpapi.IsNotFound.
func (c *DataplaneClient) get(ctx context.Context, operation, path string, query url.Values, out any) error {
	resp, err := c.api.Do(ctx, httpapi.Request{
		Method:    http.MethodGet,
		Path:      path,
		Query:     query,
		Operation: operation,
	})
	if err != nil {
		return err
	}
	return decodeData(resp, operation, out)
}
