package adapter

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"StoreWatch/internal/models"
	"StoreWatch/pkg/config"
	"StoreWatch/utils"
)

// sizeVariantRegex matches CDN size-variant tokens like "_160x160",
// "_small" or "_compact_cropped" directly before the file extension.
var sizeVariantRegex = regexp.MustCompile(`_(?:\d+x\d*|pico|icon|thumb|small|compact|medium|large|grande|original|master)(?:_cropped)?(\.[a-zA-Z]+)$`)

// StorefrontAdapter extracts products from a storefront listing page using
// configured selectors.
type StorefrontAdapter struct {
	conf config.AdapterConfig
}

// NewStorefront builds an adapter for the given selector configuration.
func NewStorefront(conf config.AdapterConfig) *StorefrontAdapter {
	return &StorefrontAdapter{conf: conf}
}

// Extract implements PageAdapter. Zero items inside a present container is
// a valid empty listing; a missing container is an ExtractionError.
func (a *StorefrontAdapter) Extract(pageContent string) ([]models.RawProductFields, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(pageContent))
	if err != nil {
		return nil, &ExtractionError{Selector: a.conf.ContainerSelector, Reason: err.Error()}
	}

	container := doc.Find(a.conf.ContainerSelector)
	if container.Length() == 0 {
		return nil, &ExtractionError{Selector: a.conf.ContainerSelector, Reason: "listing container not found"}
	}

	products := []models.RawProductFields{}
	container.Find(a.conf.ItemSelector).Each(func(_ int, item *goquery.Selection) {
		name := strings.TrimSpace(item.Find(a.conf.NameSelector).First().Text())
		if name == "" {
			// Placeholder tiles and spacer items have no title; skip them.
			return
		}

		link, _ := item.Find(a.conf.LinkSelector).First().Attr("href")
		imgRef := imageAttr(item.Find(a.conf.ImageSelector).First())
		price := utils.CleanPriceText(item.Find(a.conf.PriceSelector).First().Text())

		products = append(products, models.RawProductFields{
			Name:            name,
			PageURLFragment: link,
			ImageReference:  NormalizeImageURL(a.conf.BaseURL, imgRef),
			PriceText:       price,
		})
	})

	return products, nil
}

// ResolvePageURL turns the extracted href fragment into an absolute URL
// against the storefront base.
func (a *StorefrontAdapter) ResolvePageURL(fragment string) string {
	return resolveURL(a.conf.BaseURL, fragment)
}

// imageAttr picks the best image URL attribute. Lazy-loading themes put
// the real URL in data-src and a 1px placeholder in src.
func imageAttr(img *goquery.Selection) string {
	for _, attr := range []string{"data-src", "data-original", "src"} {
		if v, ok := img.Attr(attr); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

// NormalizeImageURL makes an image reference stable across scrapes: it
// resolves relative and protocol-relative references against base, strips
// the query string (cache-busting version params change daily), and
// removes the size-variant token so every thumbnail size of one image
// normalizes to the same URL.
func NormalizeImageURL(base, ref string) string {
	if ref == "" {
		return ""
	}
	resolved := resolveURL(base, ref)

	u, err := url.Parse(resolved)
	if err != nil {
		return resolved
	}
	u.RawQuery = ""
	u.Fragment = ""
	u.Path = sizeVariantRegex.ReplaceAllString(u.Path, "$1")
	return u.String()
}

func resolveURL(base, ref string) string {
	if strings.HasPrefix(ref, "//") {
		return "https:" + ref
	}
	refURL, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	if refURL.IsAbs() {
		return ref
	}
	baseURL, err := url.Parse(base)
	if err != nil {
		return ref
	}
	return baseURL.ResolveReference(refURL).String()
}
