package yahoo

import "strings"

// tickerSuffix marks Casablanca listings on the provider.
const tickerSuffix = ".CS"

var tickers = map[string]string{
	"ATW": "ATW.CS", // Attijariwafa Bank
	"BCP": "BCP.CS", // Banque Centrale Populaire
	"CDM": "CDM.CS", // Credit du Maroc
	"IAM": "IAM.CS", // Maroc Telecom
	"ADH": "ADH.CS", // Douja Prom Addoha
	"ALL": "ALL.CS", // Alliances
	"LHM": "LHM.CS", // LafargeHolcim Maroc
	"SID": "SID.CS", // Sonasid
	"WAA": "WAA.CS", // Wafa Assurance
	"MNG": "MNG.CS", // Managem
	"LBL": "LBL.CS", // Label'Vie
}

// Ticker maps a local symbol to the provider ticker. Unmapped symbols get
// the Casablanca suffix.
func Ticker(symbol string) string {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if t, ok := tickers[symbol]; ok {
		return t
	}
	return symbol + tickerSuffix
}
