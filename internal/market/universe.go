package market

// PrimaryUniverse is the fixed list of listed companies the exchange client
// walks on every cycle.
var PrimaryUniverse = []string{
	"ATW", // Attijariwafa Bank
	"BCP", // Banque Centrale Populaire
	"CDM", // Crédit du Maroc
	"IAM", // Maroc Telecom
	"ADH", // Douja Prom Addoha
	"ALL", // Alliances
	"LHM", // LafargeHolcim Maroc
	"SID", // Sonasid
	"SRM", // Samir
	"WAA", // Wafa Assurance
	"MNG", // Managem
	"LBL", // Label'Vie
}

// FallbackUniverse is the subset the fallback provider actually lists.
var FallbackUniverse = []string{
	"ATW", "BCP", "CDM", "IAM", "ADH", "ALL", "LHM", "SID", "WAA", "MNG", "LBL",
}
