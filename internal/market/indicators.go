package market

import (
	"time"

	"github.com/guregu/null/v6"
)

// TechnicalIndicatorSet holds the latest indicator readings for a symbol.
// Every value is optional; which ones are set depends on the provider.
type TechnicalIndicatorSet struct {
	Symbol          string     `json:"symbol"`
	RSI             null.Float `json:"rsi"`
	SMA20           null.Float `json:"sma_20"`
	SMA50           null.Float `json:"sma_50"`
	SMA200          null.Float `json:"sma_200"`
	MACD            null.Float `json:"macd"`
	MACDSignal      null.Float `json:"macd_signal"`
	MACDHist        null.Float `json:"macd_hist"`
	BollingerUpper  null.Float `json:"bollinger_upper"`
	BollingerMiddle null.Float `json:"bollinger_middle"`
	BollingerLower  null.Float `json:"bollinger_lower"`
	Timestamp       time.Time  `json:"timestamp"`
}

// Empty reports whether no indicator value is set.
func (t TechnicalIndicatorSet) Empty() bool {
	for _, v := range []null.Float{
		t.RSI, t.SMA20, t.SMA50, t.SMA200,
		t.MACD, t.MACDSignal, t.MACDHist,
		t.BollingerUpper, t.BollingerMiddle, t.BollingerLower,
	} {
		if v.Valid {
			return false
		}
	}
	return true
}
