package currency

import (
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/vfg2006/marketplace-report-api/internal/config"
	"github.com/vfg2006/marketplace-report-api/pkg/utils"
)

// Converter converts a RUB amount into the seller's accounting currency
// (KGS). Implementations must never fail: on any upstream problem they fall
// back to a static rate so the aggregator cannot block or abort on currency.
type Converter interface {
	Convert(amount float64) float64
}

type nbkrConverter struct {
	httpClient   *http.Client
	rateURL      string
	fallbackRate float64

	mu        sync.Mutex
	rate      float64
	fetchedAt time.Time
}

// rateTTL bounds how long a fetched daily rate is reused before re-fetching.
const rateTTL = time.Hour

func NewConverter(cfg *config.Config) Converter {
	return &nbkrConverter{
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.Currency.TimeoutSeconds) * time.Second,
		},
		rateURL:      cfg.Currency.RateURL,
		fallbackRate: cfg.Currency.FallbackRate,
	}
}

func (c *nbkrConverter) Convert(amount float64) float64 {
	return utils.RoundWithTwoDecimalPlace(amount * c.currentRate())
}

func (c *nbkrConverter) currentRate() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.rate > 0 && time.Since(c.fetchedAt) < rateTTL {
		return c.rate
	}

	rate, err := c.fetchRate()
	if err != nil {
		logrus.WithError(err).WithField("fallback_rate", c.fallbackRate).
			Warn("currency: rate fetch failed, using static fallback rate")
		if c.rate > 0 {
			return c.rate
		}
		return c.fallbackRate
	}

	c.rate = rate
	c.fetchedAt = time.Now()
	return rate
}

// dailyRates mirrors the national bank's daily XML feed.
type dailyRates struct {
	Currencies []struct {
		ISOCode string `xml:"ISOCode,attr"`
		Nominal string `xml:"Nominal"`
		Value   string `xml:"Value"`
	} `xml:"Currency"`
}

func (c *nbkrConverter) fetchRate() (float64, error) {
	resp, err := c.httpClient.Get(c.rateURL)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("rate feed returned status %s", resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, err
	}

	var rates dailyRates
	if err := xml.Unmarshal(body, &rates); err != nil {
		return 0, err
	}

	for _, cur := range rates.Currencies {
		if cur.ISOCode != "RUB" {
			continue
		}

		nominal, err := strconv.Atoi(strings.TrimSpace(cur.Nominal))
		if err != nil || nominal == 0 {
			return 0, fmt.Errorf("invalid RUB nominal %q", cur.Nominal)
		}

		// The feed uses a comma decimal separator.
		value, err := strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(cur.Value), ",", "."), 64)
		if err != nil {
			return 0, fmt.Errorf("invalid RUB value %q", cur.Value)
		}

		return value / float64(nominal), nil
	}

	return 0, fmt.Errorf("RUB rate not present in feed")
}
