package corrector

// knownErrors is the curated table of frequent misspellings seen in real
// query logs. Matching here short-circuits the fuzzy scan and gets a
// fixed high confidence.
var knownErrors = map[string]string{
	"koka":       "coca",
	"kola":       "cola",
	"coka":       "coca",
	"cocacola":   "coca cola",
	"asucar":     "azucar",
	"azucal":     "azucar",
	"serveza":    "cerveza",
	"cerbeza":    "cerveza",
	"sebolla":    "cebolla",
	"vevida":     "bebida",
	"vevidas":    "bebidas",
	"yogur":      "yogurt",
	"yoghurt":    "yogurt",
	"galetas":    "galletas",
	"gayetas":    "galletas",
	"varato":     "barato",
	"varata":     "barata",
	"varatas":    "baratas",
	"picoso":     "picante",
	"deslactosa": "deslactosada",
}

// numericErrors is the only path through which a numeric token may be
// rewritten; everything else leaves numbers untouched so prices and
// quantities are never corrupted.
var numericErrors = map[string]string{
	"1oo":  "100",
	"5o":   "50",
	"2o":   "20",
	"1o":   "10",
	"o.5":  "0.5",
	"lo0":  "100",
}
