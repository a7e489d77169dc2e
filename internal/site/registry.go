// Copyright 2026 OpenProphetDB
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

package site

import (
	"fmt"
	"sort"
)

// Registry is the read-only site table. Construct it once at startup and
// pass it to the HTTP layer; there is no runtime registration.
type Registry struct {
	sites map[string]*Descriptor
}

// NewRegistry validates the descriptors and builds a registry from them.
func NewRegistry(descriptors ...*Descriptor) (*Registry, error) {
	sites := make(map[string]*Descriptor, len(descriptors))
	for _, d := range descriptors {
		if err := d.Validate(); err != nil {
			return nil, err
		}
		if _, dup := sites[d.Key]; dup {
			return nil, fmt.Errorf("duplicate site key %q", d.Key)
		}
		sites[d.Key] = d
	}
	return &Registry{sites: sites}, nil
}

// Lookup returns the descriptor for key, or false if no site is registered
// under it.
func (r *Registry) Lookup(key string) (*Descriptor, bool) {
	d, ok := r.sites[key]
	return d, ok
}

// Keys returns all registered site keys in sorted order.
func (r *Registry) Keys() []string {
	keys := make([]string, 0, len(r.sites))
	for k := range r.sites {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
