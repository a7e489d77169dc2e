package server

import (
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/open-prophetdb/siteproxy/internal/httperr"
)

func TestUpstreamFromRequest(t *testing.T) {
	r := httptest.NewRequest("GET", "https://proxy.example/proxy/testsite", nil)
	r.Header.Set("X-Forwarded-Proto", "https")
	r.Host = "drugs.3steps.cn"

	got, err := upstreamFromRequest(r)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "https://drugs.3steps.cn" {
		t.Errorf("upstream = %q", got)
	}
}

func TestUpstreamFromRequestMissingProto(t *testing.T) {
	r := httptest.NewRequest("GET", "https://proxy.example/proxy/testsite", nil)

	_, err := upstreamFromRequest(r)
	var pe *httperr.Error
	if !errors.As(err, &pe) || pe.Kind != httperr.KindMissingForwardedHeader {
		t.Fatalf("expected MissingForwardedHeader, got %v", err)
	}
}

func TestUpstreamFromRequestMissingHost(t *testing.T) {
	r := httptest.NewRequest("GET", "https://proxy.example/proxy/testsite", nil)
	r.Header.Set("X-Forwarded-Proto", "https")
	r.Host = ""

	_, err := upstreamFromRequest(r)
	var pe *httperr.Error
	if !errors.As(err, &pe) || pe.Kind != httperr.KindMissingForwardedHeader {
		t.Fatalf("expected MissingForwardedHeader, got %v", err)
	}
}

func TestUpstreamFromRequestInvalidHost(t *testing.T) {
	r := httptest.NewRequest("GET", "https://proxy.example/proxy/testsite", nil)
	r.Header.Set("X-Forwarded-Proto", "https")
	r.Host = "bad host\x00"

	_, err := upstreamFromRequest(r)
	var pe *httperr.Error
	if !errors.As(err, &pe) || pe.Kind != httperr.KindInvalidHostHeader {
		t.Fatalf("expected InvalidHostHeader, got %v", err)
	}
}
