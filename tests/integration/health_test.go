//go:build integration

package integration

import (
	"net/http"
	"testing"
)

func TestProbes(t *testing.T) {
	for _, path := range []string{"/livez", "/readyz"} {
		t.Run(path, func(t *testing.T) {
			resp := doGet(t, path)
			defer resp.Body.Close()

			if resp.StatusCode != http.StatusOK {
				t.Fatalf("expected 200, got %d", resp.StatusCode)
			}

			body := decodeJSON[healthResponse](t, resp)
			if body.Status != "ok" {
				t.Fatalf("expected status ok, got %q (checks: %v)", body.Status, body.Checks)
			}
			if len(body.Checks) != 0 {
				t.Errorf("healthy probe reported checks: %v", body.Checks)
			}
		})
	}
}

func TestBrand(t *testing.T) {
	resp := doGet(t, "/api/brand")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	body := decodeJSON[struct {
		Name     string   `json:"name"`
		LogoSrcs []string `json:"logoSrcs"`
	}](t, resp)
	if body.Name != "Ojo Migrante" {
		t.Errorf("name: got %q", body.Name)
	}
	if len(body.LogoSrcs) == 0 {
		t.Error("logoSrcs is empty")
	}
}
