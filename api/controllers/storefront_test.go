package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/berrythread/storefront-api/internal/catalog"
	pkgerrors "github.com/berrythread/storefront-api/pkg/errors"
)

type stubStorefrontReader struct {
	config     *catalog.StorefrontConfig
	fundraiser *catalog.Fundraiser
	err        error
	slugs      []string
}

func (s *stubStorefrontReader) StorefrontConfig(context.Context) (*catalog.StorefrontConfig, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.config, nil
}

func (s *stubStorefrontReader) GetFundraiser(_ context.Context, slug string) (*catalog.Fundraiser, error) {
	s.slugs = append(s.slugs, slug)
	if s.err != nil {
		return nil, s.err
	}
	return s.fundraiser, nil
}

func TestStorefrontConfig(t *testing.T) {
	stub := &stubStorefrontReader{config: &catalog.StorefrontConfig{
		StoreName:    "Berry Thread",
		CurrencyCode: "USD",
	}}
	rec := httptest.NewRecorder()
	StorefrontConfig(stub, testLogger()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/config", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var envelope struct {
		Data catalog.StorefrontConfig `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.StoreName != "Berry Thread" {
		t.Fatalf("unexpected config %+v", envelope.Data)
	}
}

func TestStorefrontConfigDependencyDown(t *testing.T) {
	stub := &stubStorefrontReader{err: pkgerrors.New(pkgerrors.CodeDependency, "upstream unavailable")}
	rec := httptest.NewRecorder()
	StorefrontConfig(stub, testLogger()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/config", nil))

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
}

func TestFundraiserDetail(t *testing.T) {
	stub := &stubStorefrontReader{fundraiser: &catalog.Fundraiser{Slug: "spring-gala", Title: "Spring Gala"}}
	rec := httptest.NewRecorder()
	req := slugRequest(http.MethodGet, "/api/v1/fundraisers/spring-gala", "spring-gala", nil)
	FundraiserDetail(stub, testLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if len(stub.slugs) != 1 || stub.slugs[0] != "spring-gala" {
		t.Fatalf("expected lookup by slug, got %v", stub.slugs)
	}
}

func TestFundraiserDetailNotFound(t *testing.T) {
	stub := &stubStorefrontReader{err: pkgerrors.New(pkgerrors.CodeNotFound, "fundraiser not found")}
	rec := httptest.NewRecorder()
	req := slugRequest(http.MethodGet, "/api/v1/fundraisers/missing", "missing", nil)
	FundraiserDetail(stub, testLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}
