package scraper

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os/exec"
	"strings"
	"time"

	"github.com/Mizanur7464/home-depot/internal/domain"
	"github.com/Mizanur7464/home-depot/internal/normalize"
	"github.com/Mizanur7464/home-depot/pkg/log"
	"github.com/chromedp/chromedp"
)

const (
	searchBaseURL = "https://www.homedepot.com/s/"
	scrapeTimeout = 45 * time.Second
	userAgent     = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"
)

// ErrUnavailable marks the scraper as absent rather than broken. Callers
// treat it as a soft failure: the fallback simply does not exist in this
// deployment.
var ErrUnavailable = errors.New("scraper: no chrome binary available")

var chromeBinaries = []string{"google-chrome", "chromium", "chromium-browser", "headless-shell"}

// Service is the secondary deal source, used only when the primary API
// yields nothing. It drives a headless browser against the public search
// page and feeds whatever it finds through the same normalizer as the API
// records.
type Service struct{}

func New() *Service {
	return &Service{}
}

func (s *Service) Name() domain.DealSource {
	return domain.DealSourceScraper
}

// extractScript pulls the embedded search-result state. The search page
// ships its results in a JSON blob before hydration, which is far more
// stable than scraping the rendered pods.
const extractScript = `
	(function() {
		const records = [];
		try {
			const state = window.__APOLLO_STATE__ || {};
			for (const key of Object.keys(state)) {
				const node = state[key];
				if (node && node.itemId && node.identifiers) {
					records.push(node);
				}
			}
		} catch (e) {}
		if (records.length === 0) {
			document.querySelectorAll('[data-testid="product-pod"]').forEach(function(pod) {
				const link = pod.querySelector('a[href*="/p/"]');
				const price = pod.querySelector('[data-testid="price"]');
				const img = pod.querySelector('img');
				const skuMatch = link ? (link.href.match(/\/(\d{9,})(?:[/?]|$)/) || []) : [];
				records.push({
					productId: skuMatch[1] || '',
					title: link ? link.textContent.trim() : '',
					price: price ? price.textContent : '',
					image: img ? img.src : ''
				});
			});
		}
		return JSON.stringify(records);
	})()
`

// FetchDeals scrapes one search query. Returns ErrUnavailable when no
// browser binary is installed.
func (s *Service) FetchDeals(ctx context.Context, query string, limit int) ([]domain.Deal, error) {
	if !browserAvailable() {
		return nil, ErrUnavailable
	}

	searchURL := searchBaseURL + url.PathEscape(query)

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.UserAgent(userAgent),
		chromedp.WindowSize(1920, 1080),
	)
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	browserCtx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	scrapeCtx, cancelScrape := context.WithTimeout(browserCtx, scrapeTimeout)
	defer cancelScrape()

	var rawJSON string
	err := chromedp.Run(scrapeCtx,
		chromedp.Navigate(searchURL),
		chromedp.WaitReady(`body`, chromedp.ByQuery),
		chromedp.Sleep(2*time.Second),
		chromedp.Evaluate(extractScript, &rawJSON),
	)
	if err != nil {
		return nil, fmt.Errorf("scraper: browser run failed: %w", err)
	}

	var records []map[string]any
	if err := json.Unmarshal([]byte(rawJSON), &records); err != nil {
		return nil, fmt.Errorf("scraper: failed to decode extracted records: %w", err)
	}

	deals := make([]domain.Deal, 0, len(records))
	for _, record := range records {
		deal := normalize.Normalize(record)
		if deal.SKU == "" || deal.CurrentPrice == 0 {
			continue
		}
		deal.Source = domain.DealSourceScraper
		deals = append(deals, deal)
		if limit > 0 && len(deals) >= limit {
			break
		}
	}

	log.L.WithFields(log.Fields{
		"query":   query,
		"records": len(records),
		"deals":   len(deals),
	}).Info("scraper: fetch completed")

	return deals, nil
}

func browserAvailable() bool {
	for _, binary := range chromeBinaries {
		if path, err := exec.LookPath(binary); err == nil && strings.TrimSpace(path) != "" {
			return true
		}
	}
	return false
}
