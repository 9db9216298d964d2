package yahoo

import (
	"context"
	"fmt"
	"net/url"

	"github.com/guregu/null/v6"
)

// rawValue is the provider's {"raw": 1.23, "fmt": "1.23"} wrapper.
type rawValue struct {
	Raw null.Float `json:"raw"`
}

type summaryResponse struct {
	QuoteSummary struct {
		Result []summaryResult `json:"result"`
		Error  *apiError       `json:"error"`
	} `json:"quoteSummary"`
}

type summaryResult struct {
	Price struct {
		LongName  string   `json:"longName"`
		ShortName string   `json:"shortName"`
		MarketCap rawValue `json:"marketCap"`
	} `json:"price"`
	SummaryDetail struct {
		TrailingPE    rawValue `json:"trailingPE"`
		DividendYield rawValue `json:"dividendYield"`
		MarketCap     rawValue `json:"marketCap"`
	} `json:"summaryDetail"`
	AssetProfile struct {
		Sector string `json:"sector"`
	} `json:"assetProfile"`
}

// profile is the descriptive part of a quote.
type profile struct {
	Name          string
	MarketCap     null.Float
	Sector        string
	PERatio       null.Float
	DividendYield null.Float // fraction, as sent
}

func (c *Client) summary(ctx context.Context, ticker string) (profile, error) {
	q := url.Values{}
	q.Set("modules", "price,summaryDetail,assetProfile")

	var body summaryResponse
	if err := c.getJSON(ctx, "/v10/finance/quoteSummary/"+url.PathEscape(ticker)+"?"+q.Encode(), &body); err != nil {
		return profile{}, err
	}
	if body.QuoteSummary.Error != nil {
		return profile{}, fmt.Errorf("summary %s: %w", ticker, body.QuoteSummary.Error)
	}
	if len(body.QuoteSummary.Result) == 0 {
		return profile{}, fmt.Errorf("summary %s: empty result", ticker)
	}
	r := body.QuoteSummary.Result[0]
	p := profile{
		Name:          r.Price.LongName,
		MarketCap:     r.Price.MarketCap.Raw,
		Sector:        r.AssetProfile.Sector,
		PERatio:       r.SummaryDetail.TrailingPE.Raw,
		DividendYield: r.SummaryDetail.DividendYield.Raw,
	}
	if p.Name == "" {
		p.Name = r.Price.ShortName
	}
	if !p.MarketCap.Valid {
		p.MarketCap = r.SummaryDetail.MarketCap.Raw
	}
	return p, nil
}
