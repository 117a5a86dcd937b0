package naver

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/vroong/store-onboarding-service/internal/crawler"
	"github.com/vroong/store-onboarding-service/pkg/logger"
)

// Selector fallbacks per field. Naver ships obfuscated, rotating class names,
// so each field carries the variants seen in the wild; the first one that
// matches wins. These lists are the only thing that should need maintenance
// when the page markup changes.
var selectors = map[string][]string{
	"name": {
		"span.GHAhO",
		"span.Fc1rA",
		".place_section_content h2",
		"div.zD5Nm h2",
		".O8qbU",
	},
	"category": {
		"span.lnJFt",
		"span.DJJvD",
		".LDgIH + span",
	},
	"address": {
		"span.LDgIH",
		".O8qbU.tQY7D span",
		"div.vV_z_ span",
	},
	"phone": {
		"span.xlx7Q",
		"span.dry01",
		"a[href^='tel:']",
	},
	"business_hours": {
		"div.w9QyJ time",
		"span.U7pYf",
	},
	"image": {
		".K0PDV img",
		".place_thumb img",
		".fNygA img",
		"div.K0PDV._div img",
	},
	"menu_item": {
		"li.E2jtL",
		"div.place_section_content li",
		".tQY7D li",
	},
	"menu_name": {
		".lPzHi",
		".tit_item",
		"span.A_cdD",
	},
	"menu_price": {
		".GXS1X",
		".price",
		"div.CLSES em",
	},
	"menu_original_price": {
		".GXS1X del",
		".price del",
		"del",
	},
	"menu_desc": {
		".kPogF",
		".detail_txt",
	},
}

type Options struct {
	Timeout   time.Duration
	UserAgent string
	MaxMenus  int
}

// Client extracts listings by fetching the Naver map entry page over plain
// HTTP and walking the rendered markup with CSS selectors.
type Client struct {
	http     *resty.Client
	maxMenus int
	logger   logger.ZapLogger
}

func NewClient(opts Options, log logger.ZapLogger) *Client {
	httpClient := resty.New().
		SetTimeout(opts.Timeout).
		SetHeader("User-Agent", opts.UserAgent).
		SetRedirectPolicy(resty.FlexibleRedirectPolicy(5))

	maxMenus := opts.MaxMenus
	if maxMenus <= 0 {
		maxMenus = 30
	}

	return &Client{
		http:     httpClient,
		maxMenus: maxMenus,
		logger:   log,
	}
}

// Extract implements crawler.Extractor. One call owns one HTTP session; there
// is no shared state between concurrent extractions.
func (c *Client) Extract(ctx context.Context, listingURL string) (*crawler.RawListing, error) {
	if !IsListingURL(listingURL) {
		return nil, fmt.Errorf("%w: not a naver map url: %s", crawler.ErrExtractionFailed, listingURL)
	}

	cleanURL := CleanURL(listingURL)
	c.logger.Debug("fetching listing page", zap.String("url", cleanURL))

	doc, err := c.fetchDocument(ctx, cleanURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", crawler.ErrExtractionFailed, err)
	}

	listing := parseListing(doc, c.maxMenus)

	// The entry page sometimes renders without the menu section; the menu
	// subpage is a best-effort second fetch.
	if len(listing.Menus) == 0 {
		if menuDoc, err := c.fetchDocument(ctx, cleanURL+"/menu"); err == nil {
			listing.Menus = parseMenus(menuDoc, c.maxMenus)
		} else {
			c.logger.Debug("menu page not reachable", zap.String("url", cleanURL), zap.Error(err))
		}
	}

	if listing.Name == "" && listing.Address == "" && len(listing.Menus) == 0 {
		return nil, fmt.Errorf("%w: page did not match any listing selectors", crawler.ErrExtractionFailed)
	}

	c.logger.Info("extracted listing",
		zap.String("name", listing.Name),
		zap.Int("menus", len(listing.Menus)),
	)
	return listing, nil
}

func (c *Client) fetchDocument(ctx context.Context, pageURL string) (*goquery.Document, error) {
	res, err := c.http.R().SetContext(ctx).Get(pageURL)
	if err != nil {
		return nil, err
	}
	if res.IsError() {
		return nil, fmt.Errorf("unexpected status %d for %s", res.StatusCode(), pageURL)
	}
	return goquery.NewDocumentFromReader(bytes.NewReader(res.Body()))
}

func parseListing(doc *goquery.Document, maxMenus int) *crawler.RawListing {
	listing := &crawler.RawListing{
		Name:          textOf(findFirst(doc.Selection, selectors["name"])),
		Category:      textOf(findFirst(doc.Selection, selectors["category"])),
		Address:       textOf(findFirst(doc.Selection, selectors["address"])),
		BusinessHours: textOf(findFirst(doc.Selection, selectors["business_hours"])),
	}

	if phone := findFirst(doc.Selection, selectors["phone"]); phone != nil {
		listing.Phone = textOf(phone)
		if listing.Phone == "" {
			// tel: anchors may carry the number only in the href
			href, _ := phone.Attr("href")
			listing.Phone = strings.TrimPrefix(href, "tel:")
		}
	}

	if img := findFirst(doc.Selection, selectors["image"]); img != nil {
		listing.ImageURL, _ = img.Attr("src")
	}

	listing.Menus = parseMenus(doc, maxMenus)
	return listing
}

func parseMenus(doc *goquery.Document, maxMenus int) []crawler.RawMenu {
	items := findAll(doc.Selection, selectors["menu_item"])
	if items == nil {
		return nil
	}

	var menus []crawler.RawMenu
	items.EachWithBreak(func(_ int, item *goquery.Selection) bool {
		if len(menus) >= maxMenus {
			return false
		}
		menu := parseMenuItem(item)
		if menu.Name != "" {
			menus = append(menus, menu)
		}
		return true
	})
	return menus
}

func parseMenuItem(item *goquery.Selection) crawler.RawMenu {
	menu := crawler.RawMenu{
		Name:        textOf(findFirst(item, selectors["menu_name"])),
		Description: textOf(findFirst(item, selectors["menu_desc"])),
	}

	if menu.Name == "" {
		// fallback: first text-bearing child
		menu.Name = strings.TrimSpace(item.Find("span, div, p").First().Text())
	}

	if price := findFirst(item, selectors["menu_price"]); price != nil {
		// the struck-through list price, if present, nests inside the price node
		if original := findFirst(price, selectors["menu_original_price"]); original != nil {
			menu.OriginalPrice = textOf(original)
			clone := price.Clone()
			clone.Find("del").Remove()
			menu.Price = strings.TrimSpace(clone.Text())
		} else {
			menu.Price = textOf(price)
		}
	}

	if img := item.Find("img").First(); img.Length() > 0 {
		if src, ok := img.Attr("src"); ok && !strings.HasPrefix(src, "data:") {
			menu.ImageURL = src
		}
	}

	return menu
}

// findFirst returns the first node matched by any of the selectors, honoring
// selector order, or nil when nothing matches.
func findFirst(root *goquery.Selection, sels []string) *goquery.Selection {
	for _, sel := range sels {
		if found := root.Find(sel).First(); found.Length() > 0 {
			return found
		}
	}
	return nil
}

func findAll(root *goquery.Selection, sels []string) *goquery.Selection {
	for _, sel := range sels {
		if found := root.Find(sel); found.Length() > 0 {
			return found
		}
	}
	return nil
}

func textOf(sel *goquery.Selection) string {
	if sel == nil {
		return ""
	}
	return strings.TrimSpace(sel.Text())
}
