package currency

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vfg2006/marketplace-report-api/internal/config"
)

const rateFeedBody = `<?xml version="1.0" encoding="UTF-8"?>
<CurrencyRates Date="10.03.2025">
	<Currency ISOCode="USD">
		<Nominal>1</Nominal>
		<Value>87,45</Value>
	</Currency>
	<Currency ISOCode="RUB">
		<Nominal>1</Nominal>
		<Value>1,084343</Value>
	</Currency>
</CurrencyRates>`

func converterConfig(rateURL string) *config.Config {
	return &config.Config{
		Currency: config.Currency{
			RateURL:        rateURL,
			FallbackRate:   2.5,
			TimeoutSeconds: 2,
		},
	}
}

func TestConvertUsesFetchedRate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(rateFeedBody))
	}))
	defer server.Close()

	converter := NewConverter(converterConfig(server.URL))

	assert.InDelta(t, 108.43, converter.Convert(100), 0.001)
}

func TestConvertRespectsNominal(t *testing.T) {
	body := `<CurrencyRates><Currency ISOCode="RUB"><Nominal>100</Nominal><Value>108,4343</Value></Currency></CurrencyRates>`
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(body))
	}))
	defer server.Close()

	converter := NewConverter(converterConfig(server.URL))

	assert.InDelta(t, 108.43, converter.Convert(100), 0.001)
}

func TestConvertFallsBackOnServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	converter := NewConverter(converterConfig(server.URL))

	assert.InDelta(t, 250.0, converter.Convert(100), 0.001)
}

func TestConvertFallsBackWhenRateMissing(t *testing.T) {
	body := `<CurrencyRates><Currency ISOCode="USD"><Nominal>1</Nominal><Value>87,45</Value></Currency></CurrencyRates>`
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(body))
	}))
	defer server.Close()

	converter := NewConverter(converterConfig(server.URL))

	assert.InDelta(t, 250.0, converter.Convert(100), 0.001)
}

func TestConvertCachesTheRate(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Write([]byte(rateFeedBody))
	}))
	defer server.Close()

	converter := NewConverter(converterConfig(server.URL))

	converter.Convert(100)
	converter.Convert(200)
	converter.Convert(300)

	assert.Equal(t, 1, calls)
}
