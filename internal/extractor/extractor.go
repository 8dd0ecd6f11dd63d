// Package extractor implements the page-kind extraction capability with
// goquery selectors matched to the source site's markup.
package extractor

import (
	"bytes"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/furnishdata/catalogue-crawler/internal/crawler"
)

// Selectors matched to the catalogue markup. The navigation carousel selector
// deliberately targets the plp navigation slot: product pages carry similar
// carousels ("articles similaires") that must not be mistaken for
// sub-navigation.
const (
	selNavSlides      = "div.plp-navigation-slot-wrapper div.hnf-carousel__wrapper div.hnf-carousel-slide"
	selListingLinks   = "#product-list div.plp-mastercard a.plp-price-link-wrapper"
	selMessage        = "div.pipf-price-package div.pipcom-commercial-message"
	selHighlighted    = "div.pipf-price-package em.pipcom-price"
	selBreadcrumb     = "ol.hnf-breadcrumb__list li.hnf-breadcrumb__list-item a span"
	selName           = "h1 .pipcom-price-module__name-decorator"
	selDescription    = "h1 .pipcom-price-module__description"
	selPriceText      = ".pipcom-price__sr-text"
	selImage          = "div.pip-media-grid__media-container img"
	selRatingStars    = ".pipf-rating .pipf-rating__stars"
	selRatingLabel    = ".pipf-rating__label"
	selItemNumberMeta = `meta[property="product:item_number"]`
)

// Extractor implements crawler.Extractor for the catalogue's HTML pages and
// the review API payload.
type Extractor struct{}

// New creates an Extractor.
func New() *Extractor {
	return &Extractor{}
}

// CategoryNav extracts the sub-navigation entries of a category page. The
// first carousel slide is the current category itself and is skipped. An
// empty entry set means the page is a leaf.
func (e *Extractor) CategoryNav(doc []byte, baseURL string) (crawler.CategoryNav, error) {
	root, err := goquery.NewDocumentFromReader(bytes.NewReader(doc))
	if err != nil {
		return crawler.CategoryNav{}, fmt.Errorf("parse category page: %w", err)
	}
	base, err := url.Parse(baseURL)
	if err != nil {
		return crawler.CategoryNav{}, fmt.Errorf("parse base url: %w", err)
	}

	var nav crawler.CategoryNav
	root.Find(selNavSlides).Each(func(i int, slide *goquery.Selection) {
		// Slide 0 is the current category itself. A leaf page has no
		// carousel at all, so there may be nothing to skip.
		if i == 0 {
			return
		}
		slide.Find("a[href]").Each(func(_ int, link *goquery.Selection) {
			href, ok := link.Attr("href")
			if !ok || href == "" {
				return
			}
			name := strings.TrimSpace(link.Find("span").First().Text())
			if name == "" {
				name = strings.TrimSpace(link.Text())
			}
			if name == "" {
				name = href
			}
			nav.Entries = append(nav.Entries, crawler.NavEntry{
				Name: name,
				URL:  resolve(base, href),
			})
		})
	})
	return nav, nil
}

// ListingLinks extracts the product-detail links of a listing page. Zero
// links is a legitimate result; the caller decides how to log it.
func (e *Extractor) ListingLinks(doc []byte, baseURL string) ([]string, error) {
	root, err := goquery.NewDocumentFromReader(bytes.NewReader(doc))
	if err != nil {
		return nil, fmt.Errorf("parse listing page: %w", err)
	}
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}

	var links []string
	root.Find(selListingLinks).Each(func(_ int, link *goquery.Selection) {
		if href, ok := link.Attr("href"); ok && href != "" {
			links = append(links, resolve(base, href))
		}
	})
	return links, nil
}

// Detail extracts the raw detail field set of a product page. Missing fields
// come back empty; defaulting is the assembler's concern.
func (e *Extractor) Detail(doc []byte) (crawler.DetailFields, error) {
	root, err := goquery.NewDocumentFromReader(bytes.NewReader(doc))
	if err != nil {
		return crawler.DetailFields{}, fmt.Errorf("parse detail page: %w", err)
	}

	fields := crawler.DetailFields{
		Name:             strings.TrimSpace(root.Find(selName).First().Text()),
		Description:      collapseSpace(root.Find(selDescription).First().Text()),
		PriceText:        strings.TrimSpace(root.Find(selPriceText).First().Text()),
		HighlightedPrice: root.Find(selHighlighted).Length() > 0,
	}

	if src, ok := root.Find(selImage).First().Attr("src"); ok {
		fields.ImageURL = src
	}
	if label, ok := root.Find(selRatingStars).First().Attr("aria-label"); ok {
		fields.RatingLabel = label
	}
	fields.ReviewCountText = strings.TrimSpace(root.Find(selRatingLabel).First().Text())
	if content, ok := root.Find(selItemNumberMeta).First().Attr("content"); ok {
		fields.ItemNumber = strings.TrimSpace(content)
	}

	root.Find(selBreadcrumb).Each(func(_ int, crumb *goquery.Selection) {
		if text := strings.TrimSpace(crumb.Text()); text != "" {
			fields.Breadcrumb = append(fields.Breadcrumb, text)
		}
	})

	root.Find(selMessage).Contents().Each(func(_ int, node *goquery.Selection) {
		if text := strings.TrimSpace(node.Text()); text != "" {
			fields.Messages = append(fields.Messages, text)
		}
	})

	return fields, nil
}

func resolve(base *url.URL, href string) string {
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	return base.ResolveReference(ref).String()
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
