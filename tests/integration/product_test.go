//go:build integration

package integration

import (
	"net/http"
	"net/url"
	"testing"
)

func TestListProducts(t *testing.T) {
	resp := doGet(t, "/api/products")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	list := decodeJSON[productList](t, resp)
	if list.Count != seededProducts || len(list.Products) != seededProducts {
		t.Fatalf("expected %d products, got count=%d len=%d", seededProducts, list.Count, len(list.Products))
	}
	if list.Products[0].ID != "p1" {
		t.Errorf("first product: got %q, want p1", list.Products[0].ID)
	}
}

func TestListProducts_Fields(t *testing.T) {
	resp := doGet(t, "/api/products")
	defer resp.Body.Close()

	list := decodeJSON[productList](t, resp)

	var p1 *productSummary
	for i := range list.Products {
		if list.Products[i].ID == "p1" {
			p1 = &list.Products[i]
			break
		}
	}

	if p1 == nil {
		t.Fatal("product p1 not found")
	}
	if p1.Title != "silencio en la sala" {
		t.Errorf("title: got %q", p1.Title)
	}
	if p1.FromPrice != 180 {
		t.Errorf("fromPrice: got %v, want 180", p1.FromPrice)
	}
	if len(p1.Sizes) != 3 {
		t.Errorf("sizes: got %v", p1.Sizes)
	}
	if len(p1.ImageSrcs) == 0 {
		t.Error("imageSrcs is empty")
	}
}

func TestListProducts_Filters(t *testing.T) {
	tests := []struct {
		name  string
		query url.Values
		want  []string
	}{
		{name: "series", query: url.Values{"series": {"Landscape"}}, want: []string{"p2", "p4"}},
		{name: "in stock", query: url.Values{"availability": {"In stock"}}, want: []string{"p1", "p2", "p3"}},
		{name: "text", query: url.Values{"q": {"orilla"}}, want: []string{"p4"}},
		{name: "price ascending", query: url.Values{"sort": {"Price: Low"}}, want: []string{"p4", "p3", "p1", "p2"}},
		{name: "no match", query: url.Values{"q": {"zzzz"}}, want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := doGet(t, "/api/products?"+tt.query.Encode())
			defer resp.Body.Close()

			if resp.StatusCode != http.StatusOK {
				t.Fatalf("expected 200, got %d", resp.StatusCode)
			}

			list := decodeJSON[productList](t, resp)
			got := make([]string, 0, len(list.Products))
			for _, p := range list.Products {
				got = append(got, p.ID)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("got %v, want %v", got, tt.want)
				}
			}
		})
	}
}

func TestListProducts_InvalidSort(t *testing.T) {
	resp := doGet(t, "/api/products?sort=sideways")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}

	body := decodeJSON[errorResponse](t, resp)
	if body.Code != http.StatusBadRequest {
		t.Errorf("code: got %d, want 400", body.Code)
	}
}

func TestGetProduct(t *testing.T) {
	resp := doGet(t, "/api/products/p3")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	p := decodeJSON[productSummary](t, resp)
	if p.Title != "mercado al amanecer" {
		t.Errorf("title: got %q", p.Title)
	}
}

func TestGetProduct_NotFound(t *testing.T) {
	resp := doGet(t, "/api/products/p999")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}

func TestGetPrice(t *testing.T) {
	tests := []struct {
		name  string
		path  string
		want  float64
		addon float64
	}{
		{name: "flat", path: "/api/products/p1/price?size=" + url.QueryEscape("11×14"), want: 185, addon: 110},
		{name: "framed default addon", path: "/api/products/p1/price?size=" + url.QueryEscape("8×10") + "&fulfillment=" + url.QueryEscape("Framed Print"), want: 260, addon: 80},
		{name: "framed product addon", path: "/api/products/p4/price?size=" + url.QueryEscape("8×10") + "&fulfillment=" + url.QueryEscape("Framed Print"), want: 220, addon: 70},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := doGet(t, tt.path)
			defer resp.Body.Close()

			if resp.StatusCode != http.StatusOK {
				t.Fatalf("expected 200, got %d", resp.StatusCode)
			}

			body := decodeJSON[priceResponse](t, resp)
			if body.Price != tt.want {
				t.Errorf("price: got %v, want %v", body.Price, tt.want)
			}
			if body.FrameAddOn != tt.addon {
				t.Errorf("frameAddOn: got %v, want %v", body.FrameAddOn, tt.addon)
			}
		})
	}
}
