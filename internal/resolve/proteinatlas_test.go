package resolve

import (
	"net/url"
	"strings"
	"testing"
)

func atlasInput(redirect bool) Input {
	base, _ := url.Parse("https://www.proteinatlas.org")
	return Input{
		Base:            base,
		SiteKey:         "protein_atlas",
		Upstream:        "https://drugs.3steps.cn",
		RedirectEnabled: redirect,
		Tag:             "img",
		Attr:            "src",
	}
}

func atlasPolicy() ProteinAtlas {
	return ProteinAtlas{CDNHosts: []string{"images.proteinatlas.org"}}
}

func TestProteinAtlasCDNRedirectCarriesRawBaseURL(t *testing.T) {
	got, err := atlasPolicy().Resolve("https://images.proteinatlas.org/115/672_A_1_4.jpg", atlasInput(true))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.HasPrefix(got, "https://drugs.3steps.cn/proxy-data/protein_atlas/115/672_A_1_4.jpg?") {
		t.Fatalf("got %q, want CDN path routed through the gateway", got)
	}
	u, err := url.Parse(got)
	if err != nil {
		t.Fatalf("rewritten URL does not parse: %v", err)
	}
	if raw := u.Query().Get(RawBaseURLParam); raw != "https://images.proteinatlas.org" {
		t.Errorf("raw_base_url = %q, want CDN origin", raw)
	}
}

func TestProteinAtlasCDNRedirectIdempotent(t *testing.T) {
	in := atlasInput(true)

	first, err := atlasPolicy().Resolve("https://images.proteinatlas.org/1/a.jpg", in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := atlasPolicy().Resolve(first, in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if second != first {
		t.Errorf("resolving twice changed the URL: %q -> %q", first, second)
	}
}

func TestProteinAtlasUnknownHostFallsBack(t *testing.T) {
	got, err := atlasPolicy().Resolve("https://cdn.other.example/pic.png", atlasInput(true))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "https://cdn.other.example/pic.png" {
		t.Errorf("got %q, want third-party URL untouched", got)
	}
}

func TestProteinAtlasOwnOriginUsesDefault(t *testing.T) {
	got, err := atlasPolicy().Resolve("/ENSG00000134057-CCNB1/tissue", atlasInput(true))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "https://drugs.3steps.cn/proxy-data/protein_atlas/ENSG00000134057-CCNB1/tissue"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestProteinAtlasNoRedirectLeavesCDNAlone(t *testing.T) {
	got, err := atlasPolicy().Resolve("https://images.proteinatlas.org/1/a.jpg", atlasInput(false))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "https://images.proteinatlas.org/1/a.jpg" {
		t.Errorf("got %q, want CDN URL untouched without redirect", got)
	}
}
