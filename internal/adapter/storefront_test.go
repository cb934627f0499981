package adapter

import (
	"errors"
	"testing"

	"StoreWatch/pkg/config"
)

func testConf() config.AdapterConfig {
	return config.AdapterConfig{
		BaseURL:           "https://shop.example",
		ContainerSelector: "ul.product-grid",
		ItemSelector:      "li.product-item",
		NameSelector:      ".product-title",
		LinkSelector:      "a.product-link",
		ImageSelector:     "img.product-image",
		PriceSelector:     ".product-price",
	}
}

const listingPage = `
<html><body>
<ul class="product-grid">
  <li class="product-item">
    <a class="product-link" href="/products/desk-mat-xl">
      <img class="product-image" src="//cdn.example/files/desk-mat-xl_360x360.jpg?v=1724900000">
    </a>
    <div class="product-title">Desk Mat XL</div>
    <div class="product-price">
      $24.99
    </div>
  </li>
  <li class="product-item">
    <a class="product-link" href="/products/sticker-pack">
      <img class="product-image" src="placeholder.gif" data-src="https://cdn.example/files/sticker-pack_small.png?v=2">
    </a>
    <div class="product-title">Sticker Pack</div>
    <div class="product-price">$5.00
 $3.50</div>
  </li>
  <li class="product-item"><!-- spacer tile, no title --></li>
</ul>
</body></html>`

func TestExtract(t *testing.T) {
	a := NewStorefront(testConf())

	products, err := a.Extract(listingPage)
	if err != nil {
		t.Fatalf("Extract() failed: %v", err)
	}
	if len(products) != 2 {
		t.Fatalf("Extract() = %d products; want 2", len(products))
	}

	first := products[0]
	if first.Name != "Desk Mat XL" {
		t.Errorf("first.Name = %q; want %q", first.Name, "Desk Mat XL")
	}
	if first.PageURLFragment != "/products/desk-mat-xl" {
		t.Errorf("first.PageURLFragment = %q", first.PageURLFragment)
	}
	if first.ImageReference != "https://cdn.example/files/desk-mat-xl.jpg" {
		t.Errorf("first.ImageReference = %q; want normalized URL", first.ImageReference)
	}
	if first.PriceText != "$24.99" {
		t.Errorf("first.PriceText = %q; want %q", first.PriceText, "$24.99")
	}

	second := products[1]
	if second.ImageReference != "https://cdn.example/files/sticker-pack.png" {
		t.Errorf("second.ImageReference = %q; want data-src normalized", second.ImageReference)
	}
	if second.PriceText != "$5.00 $3.50" {
		t.Errorf("second.PriceText = %q", second.PriceText)
	}
}

func TestExtractEmptyListingIsValid(t *testing.T) {
	a := NewStorefront(testConf())

	products, err := a.Extract(`<html><body><ul class="product-grid"></ul></body></html>`)
	if err != nil {
		t.Fatalf("Extract() on empty listing returned error: %v", err)
	}
	if len(products) != 0 {
		t.Errorf("Extract() = %d products; want 0", len(products))
	}
}

func TestExtractMissingContainer(t *testing.T) {
	a := NewStorefront(testConf())

	_, err := a.Extract(`<html><body><div>we moved!</div></body></html>`)
	var extErr *ExtractionError
	if !errors.As(err, &extErr) {
		t.Fatalf("Extract() error = %v; want *ExtractionError", err)
	}
}

func TestNormalizeImageURL(t *testing.T) {
	testCases := []struct {
		name     string
		ref      string
		expected string
	}{
		{"Protocol Relative With Query", "//cdn.example/a_160x160.jpg?v=9", "https://cdn.example/a.jpg"},
		{"Absolute Named Variant", "https://cdn.example/b_large.png", "https://cdn.example/b.png"},
		{"Cropped Variant", "https://cdn.example/c_medium_cropped.jpg", "https://cdn.example/c.jpg"},
		{"Relative Path", "/files/d.webp?width=300", "https://shop.example/files/d.webp"},
		{"No Variant Token", "https://cdn.example/plain.jpg", "https://cdn.example/plain.jpg"},
		{"Empty", "", ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			result := NormalizeImageURL("https://shop.example", tc.ref)
			if result != tc.expected {
				t.Errorf("NormalizeImageURL(%q) = %q; want %q", tc.ref, result, tc.expected)
			}
		})
	}
}

// Two fetches of the same underlying image on different days differ only
// in size token and cache-busting query; both must normalize identically.
func TestNormalizeImageURLIsStable(t *testing.T) {
	day1 := NormalizeImageURL("https://shop.example", "//cdn.example/files/mug_360x360.jpg?v=1724900000")
	day2 := NormalizeImageURL("https://shop.example", "//cdn.example/files/mug_720x720.jpg?v=1724986400")
	if day1 != day2 {
		t.Errorf("normalization unstable: %q vs %q", day1, day2)
	}
}
