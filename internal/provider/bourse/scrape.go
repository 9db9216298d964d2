package bourse

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"marketpipeline/internal/market"
)

// Page selectors.
const (
	selMASIValue     = "#masi-value"
	selMASIChange    = "#masi-change"
	selMADEXValue    = "#madex-value"
	selMADEXChange   = "#madex-change"
	selStockName     = "#stock-name"
	selStockPrice    = "#stock-price"
	selStockChange   = "#stock-change"
	selStockPercent  = "#stock-change-percent"
	selStockVolume   = "#stock-volume"
	selStockMktCap   = "#stock-market-cap"
	selStockSector   = "#stock-sector"
	selStockPERatio  = "#stock-pe-ratio"
	selStockDivYield = "#stock-dividend-yield"
)

func (c *Client) document(ctx context.Context, path string) (*goquery.Document, error) {
	res, err := c.get(ctx, path)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()
	doc, err := goquery.NewDocumentFromReader(res.Body)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return doc, nil
}

func (c *Client) scrapeIndices(ctx context.Context) (market.IndexPayload, error) {
	doc, err := c.document(ctx, "/")
	if err != nil {
		return market.IndexPayload{}, err
	}
	p := market.IndexPayload{
		MASI:  market.IndexQuotePayload{Value: number(doc, selMASIValue), ChangePercent: number(doc, selMASIChange)},
		MADEX: market.IndexQuotePayload{Value: number(doc, selMADEXValue), ChangePercent: number(doc, selMADEXChange)},
	}
	if !p.MASI.Value.Valid || !p.MADEX.Value.Valid {
		return market.IndexPayload{}, fmt.Errorf("index values not found on page")
	}
	return p, nil
}

func (c *Client) scrapeStock(ctx context.Context, symbol string) (market.StockPayload, error) {
	doc, err := c.document(ctx, "/stock/"+url.PathEscape(symbol))
	if err != nil {
		return market.StockPayload{}, err
	}
	p := market.StockPayload{
		Symbol:        symbol,
		Name:          text(doc, selStockName),
		Price:         number(doc, selStockPrice),
		Change:        number(doc, selStockChange),
		ChangePercent: number(doc, selStockPercent),
		Volume:        number(doc, selStockVolume),
		MarketCap:     number(doc, selStockMktCap),
		Sector:        text(doc, selStockSector),
		PERatio:       number(doc, selStockPERatio),
		DividendYield: number(doc, selStockDivYield),
	}
	if !p.Price.Valid {
		return market.StockPayload{}, fmt.Errorf("price not found on page")
	}
	return p, nil
}

func text(doc *goquery.Document, selector string) string {
	return strings.TrimSpace(doc.Find(selector).First().Text())
}

// number extracts a formatted number; anything unparsable is absent.
func number(doc *goquery.Document, selector string) market.Number {
	raw := text(doc, selector)
	if raw == "" {
		return market.Number{}
	}
	d, err := market.ParseNumber(raw)
	if err != nil {
		return market.Number{}
	}
	return market.NumberOf(d)
}
