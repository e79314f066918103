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

// Package config loads the Ansible args file handed to a binary module.
//
// An args file is a JSON object holding the task parameters plus a handful of
// internal "_ansible_*" keys. Parameters are decoded into typed structs whose
// fields carry `yaml` tags (the JSON key) and `validate` tags.
package config

import "restops/pkg/enums"

// Meta holds the internal keys Ansible injects into every args file.
type Meta struct {
	// CheckMode is true when the task runs with --check.
	CheckMode bool `yaml:"_ansible_check_mode"`

	// Diff is true when the task runs with --diff.
	Diff bool `yaml:"_ansible_diff"`

	// Verbosity is the -v count.
	Verbosity int `yaml:"_ansible_verbosity"`

	// NoLog suppresses logging of parameters.
	NoLog bool `yaml:"_ansible_no_log"`

	// ModuleName is set by Ansible 2.8+.
	ModuleName string `yaml:"_ansible_module_name"`
}

// StateParams is embedded by every present/absent module.
type StateParams struct {
	State string `yaml:"state" validate:"enum=state"`
}

// Present reports whether the desired state is "present".
func (s StateParams) Present() bool {
	v, err := enums.State.Parse(s.State)
	return err == nil && v == StatePresent
}
