package resolve

import (
	"testing"
)

func TestSangerCosmicFragmentAnchorPassesThrough(t *testing.T) {
	in := cosmicInput(true)

	got, err := SangerCosmic{}.Resolve("#gene-overview", in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "#gene-overview" {
		t.Errorf("got %q, want fragment untouched", got)
	}
}

func TestSangerCosmicFragmentOnAnchorOnly(t *testing.T) {
	in := cosmicInput(true)
	in.Tag = "div"
	in.Attr = "data-url"

	// The fragment special case applies to anchors; other tags fall back to
	// the default algorithm.
	got, err := SangerCosmic{}.Resolve("#section", in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got == "#section" {
		t.Errorf("expected non-anchor fragment to be resolved, got %q", got)
	}
}

func TestSangerCosmicDefaultsToSimple(t *testing.T) {
	got, err := SangerCosmic{}.Resolve("/about", cosmicInput(true))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "https://drugs.3steps.cn/proxy-data/sanger_cosmic/about"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestSangerCosmicTableTitleRedirects(t *testing.T) {
	in := cosmicInput(true)
	in.Tag = "table"
	in.Attr = "title"

	got, err := SangerCosmic{}.Resolve("/cosmic/mutation/overview", in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "https://drugs.3steps.cn/proxy-data/sanger_cosmic/cosmic/mutation/overview"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}
