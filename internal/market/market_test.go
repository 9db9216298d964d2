package market_test

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/guregu/null/v6"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"marketpipeline/internal/market"
)

func TestStockRecord_JSONRoundTrip(t *testing.T) {
	t.Parallel()

	// Arrange: a record with a price that does not survive float64 rounding.
	in := market.StockRecord{
		Symbol:        "ATW",
		Name:          "Attijariwafa Bank",
		Price:         decimal.RequireFromString("489.5000000000000001"),
		Close:         decimal.NewNullDecimal(decimal.RequireFromString("489.50")),
		Volume:        145678,
		Change:        decimal.RequireFromString("12.30"),
		ChangePercent: decimal.RequireFromString("2.58"),
		Sector:        null.StringFrom("Banking"),
		Timestamp:     time.Date(2025, 3, 4, 10, 0, 0, 0, time.UTC),
		Source:        market.SourceFallback,
	}

	// Act: encode and decode.
	b, err := json.Marshal(in)
	require.NoError(t, err)
	var out market.StockRecord
	require.NoError(t, json.Unmarshal(b, &out))

	// Assert: symbol, price and source survive exactly.
	require.Equal(t, in.Symbol, out.Symbol)
	require.True(t, in.Price.Equal(out.Price), "price %s != %s", in.Price, out.Price)
	require.Equal(t, in.Source, out.Source)
	require.False(t, out.MarketCap.Valid)
	require.Equal(t, "Banking", out.Sector.String)
}

func TestSource_UnmarshalAliases(t *testing.T) {
	t.Parallel()

	cases := map[string]market.Source{
		`"casablanca_bourse"`: market.SourcePrimary,
		`"BVC"`:               market.SourcePrimary,
		`"yahoo_finance"`:     market.SourceFallback,
		`" calculated "`:      market.SourceDerived,
		`"manual"`:            market.SourceManual,
	}
	for raw, want := range cases {
		var got market.Source
		require.NoErrorf(t, json.Unmarshal([]byte(raw), &got), "raw=%s", raw)
		require.Equalf(t, want, got, "raw=%s", raw)
	}

	var bad market.Source
	require.Error(t, json.Unmarshal([]byte(`"mock"`), &bad))
}

func TestStockRecord_Validate(t *testing.T) {
	t.Parallel()

	base := market.StockRecord{
		Symbol:        "IAM",
		Price:         decimal.NewFromInt(128),
		Change:        decimal.RequireFromString("-1.5"),
		ChangePercent: decimal.RequireFromString("-1.16"),
		Source:        market.SourcePrimary,
	}
	require.NoError(t, base.Validate())

	noSymbol := base
	noSymbol.Symbol = " "
	require.ErrorIs(t, noSymbol.Validate(), market.ErrEmptySymbol)

	negative := base
	negative.Price = decimal.NewFromInt(-1)
	require.ErrorIs(t, negative.Validate(), market.ErrNegativePrice)

	mismatch := base
	mismatch.ChangePercent = decimal.RequireFromString("1.16")
	require.ErrorIs(t, mismatch.Validate(), market.ErrSignMismatch)

	derived := base
	derived.Source = market.SourceDerived
	require.ErrorIs(t, derived.Validate(), market.ErrInvalidSource)

	flat := base
	flat.Change = decimal.Zero
	require.NoError(t, flat.Validate(), "zero change is compatible with any percent")
}

func TestParseNumber_ExchangeFormatting(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"12,847.35":      "12847.35",
		"489.50 MAD":     "489.5",
		"+0.42%":         "0.42",
		"-1.13 %":        "-1.13",
		"1\u00a0234.5":   "1234.5",
		" 10 452,18 MAD": "1045218",
	}
	for in, want := range cases {
		got, err := market.ParseNumber(in)
		require.NoErrorf(t, err, "in=%q", in)
		require.Truef(t, decimal.RequireFromString(want).Equal(got), "in=%q got=%s", in, got)
	}

	_, err := market.ParseNumber("MAD")
	require.Error(t, err)
	_, err = market.ParseNumber("n/a")
	require.Error(t, err)
}

func TestStockPayload_Normalize(t *testing.T) {
	t.Parallel()

	ts := time.Date(2025, 3, 4, 10, 0, 0, 0, time.UTC)
	raw := `{"name":"Maroc Telecom","price":"128.40","open":0,"high":129,"volume":234567,
		"change":1.9,"change_percent":"1.50%","market_cap":null,"sector":"Telecom","pe_ratio":22.3}`

	var p market.StockPayload
	require.NoError(t, json.Unmarshal([]byte(raw), &p))

	rec, err := p.Normalize(" iam ", market.SourcePrimary, ts)
	require.NoError(t, err)
	require.Equal(t, "IAM", rec.Symbol)
	require.Equal(t, "Maroc Telecom", rec.Name)
	require.True(t, decimal.RequireFromString("128.4").Equal(rec.Price))
	require.False(t, rec.Open.Valid, "zero open is treated as absent")
	require.True(t, rec.High.Valid)
	require.Equal(t, int64(234567), rec.Volume)
	require.False(t, rec.Has(market.FieldMarketCap))
	require.True(t, rec.Has(market.FieldSector))
	require.True(t, rec.Has(market.FieldPERatio))
	require.False(t, rec.Has(market.FieldDividendYield))
	require.Equal(t, ts, rec.Timestamp)

	var noPrice market.StockPayload
	require.NoError(t, json.Unmarshal([]byte(`{"name":"x"}`), &noPrice))
	_, err = noPrice.Normalize("X", market.SourcePrimary, ts)
	require.Error(t, err)

	var negVolume market.StockPayload
	require.NoError(t, json.Unmarshal([]byte(`{"price":1,"volume":-3}`), &negVolume))
	_, err = negVolume.Normalize("X", market.SourcePrimary, ts)
	require.True(t, errors.Is(err, market.ErrNegativeVolume))
}

func TestIndexPayload_Normalize(t *testing.T) {
	t.Parallel()

	ts := time.Date(2025, 3, 4, 10, 0, 0, 0, time.UTC)
	raw := `{"masi":{"value":13245.67,"change_percent":0.34,"volume":2450000},
		"madex":{"value":"10,789.23","change_percent":"0.30"}}`

	var p market.IndexPayload
	require.NoError(t, json.Unmarshal([]byte(raw), &p))

	rec, err := p.Normalize(market.SourcePrimary, market.StatusOpen, ts)
	require.NoError(t, err)
	require.True(t, decimal.RequireFromString("10789.23").Equal(rec.MADEX.Value))
	require.Equal(t, int64(2450000), rec.MASI.Volume.Int64)
	require.False(t, rec.MADEX.Volume.Valid)

	var missing market.IndexPayload
	require.NoError(t, json.Unmarshal([]byte(`{"masi":{"value":1}}`), &missing))
	_, err = missing.Normalize(market.SourcePrimary, market.StatusOpen, ts)
	require.ErrorIs(t, err, market.ErrMissingIndex)
}

func TestTechnicalIndicatorSet_Empty(t *testing.T) {
	t.Parallel()

	set := market.TechnicalIndicatorSet{Symbol: "ATW"}
	require.True(t, set.Empty())
	set.SMA200 = null.FloatFrom(480.1)
	require.False(t, set.Empty())
}
