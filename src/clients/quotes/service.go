package quotes

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"finance/src/config"
	"finance/src/metrics"
	"finance/src/utils"
	"finance/src/utils/requests"
)

// ErrQuoteUnavailable is the single failure signal of a lookup: network
// errors, timeouts, non-2xx statuses and malformed payloads all map to it.
var ErrQuoteUnavailable = errors.New("quote unavailable")

// maxQuoteBody caps how much of a provider response is read. A quote is a
// few hundred bytes; anything past this is treated as malformed.
const maxQuoteBody = 1 << 20

type QuoteServiceClientI interface {
	Lookup(ctx context.Context, symbol string) (*Quote, error)
}

// QuoteServiceClient talks to an IEX Cloud compatible quote endpoint.
type QuoteServiceClient struct {
	API     *requests.ExternalAPIService
	BaseURL string
	apiKey  string
	metrics *metrics.Metrics
}

// NewClient creates a client. apiKey is passed separately since it may come
// from Secrets Manager rather than the config file.
func NewClient(cfg *config.Config, apiKey string, m *metrics.Metrics) *QuoteServiceClient {
	return &QuoteServiceClient{
		API:     requests.NewExternalAPIService(nil, cfg.ExternalClients.Quotes.Timeout),
		BaseURL: strings.TrimRight(cfg.ExternalClients.Quotes.BaseURL, "/"),
		apiKey:  apiKey,
		metrics: m,
	}
}

// Lookup fetches the latest quote for symbol.
func (c *QuoteServiceClient) Lookup(ctx context.Context, symbol string) (*Quote, error) {
	start := time.Now()
	quote, err := c.lookup(ctx, symbol)
	c.metrics.ObserveQuoteLookup(err == nil, time.Since(start))
	if err != nil {
		utils.LoggerFromContext(ctx).WithField("symbol", symbol).WithError(err).Warn("quote lookup failed")
		return nil, fmt.Errorf("%w: %s", ErrQuoteUnavailable, symbol)
	}
	return quote, nil
}

func (c *QuoteServiceClient) lookup(ctx context.Context, symbol string) (*Quote, error) {
	if symbol == "" {
		return nil, errors.New("empty symbol")
	}
	endpoint := fmt.Sprintf("%s/v1/data/core/quote/%s", c.BaseURL, url.PathEscape(symbol))

	params := url.Values{}
	params.Add("token", c.apiKey)

	resp, err := c.API.Get(ctx, endpoint, params)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	responseBody, err := io.ReadAll(io.LimitReader(resp.Body, maxQuoteBody))
	if err != nil {
		return nil, err
	}

	return parseQuote(responseBody)
}

// parseQuote accepts either an object or a list and reads its first element.
func parseQuote(body []byte) (*Quote, error) {
	body = bytes.TrimSpace(body)

	var response quoteResponse
	if len(body) > 0 && body[0] == '[' {
		var list []quoteResponse
		if err := json.Unmarshal(body, &list); err != nil {
			return nil, err
		}
		if len(list) == 0 {
			return nil, errors.New("empty quote list")
		}
		response = list[0]
	} else if err := json.Unmarshal(body, &response); err != nil {
		return nil, err
	}

	switch {
	case response.CompanyName == nil:
		return nil, errors.New("missing companyName")
	case response.LatestPrice == nil:
		return nil, errors.New("missing latestPrice")
	case response.Symbol == nil || *response.Symbol == "":
		return nil, errors.New("missing symbol")
	case !response.LatestPrice.IsPositive():
		return nil, fmt.Errorf("non-positive price %s", response.LatestPrice)
	}

	return &Quote{
		Name:   *response.CompanyName,
		Price:  *response.LatestPrice,
		Symbol: *response.Symbol,
	}, nil
}
