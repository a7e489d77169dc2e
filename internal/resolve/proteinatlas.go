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

package resolve

import "net/url"

// ProteinAtlas is the policy for the Human Protein Atlas. Image assets live
// on a separate CDN host embedded as absolute URLs; the forwarding gateway
// cannot infer that origin from the site key, so rewritten URLs carry it
// explicitly in the raw_base_url query parameter.
type ProteinAtlas struct {
	// CDNHosts lists the third-party hosts whose URLs are redirected
	// through the gateway. Hosts not listed fall back to the default
	// algorithm.
	CDNHosts []string
}

func (p ProteinAtlas) Resolve(raw string, in Input) (string, error) {
	if pointsAtUpstream(raw, in.Upstream) {
		return raw, nil
	}

	u, err := in.Base.Parse(raw)
	if err != nil {
		return "", ErrInvalidURL
	}

	if in.RedirectEnabled && u.IsAbs() && p.isCDNHost(u.Host) {
		origin := u.Scheme + "://" + u.Host
		q := u.Query()
		q.Set(RawBaseURLParam, origin)
		redirected := url.URL{
			Path:     u.Path,
			RawQuery: q.Encode(),
			Fragment: u.Fragment,
		}
		return in.Upstream + DataPrefix + "/" + in.SiteKey + redirected.String(), nil
	}
	return resolveSimple(raw, in)
}

func (p ProteinAtlas) isCDNHost(host string) bool {
	for _, h := range p.CDNHosts {
		if host == h {
			return true
		}
	}
	return false
}
