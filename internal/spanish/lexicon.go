package spanish

import "strings"

// Comparison operators used across token classification and filters.
const (
	OpLTE     = "lte"
	OpGTE     = "gte"
	OpEq      = "eq"
	OpBetween = "between"
)

// UnitClass distinguishes currency words from measure words.
type UnitClass string

const (
	UnitMoney   UnitClass = "money"
	UnitMeasure UnitClass = "measure"
)

// PriceBound maps a qualitative price word to a quantitative threshold.
type PriceBound struct {
	Op        string
	Threshold float64
}

// SizeBound maps a qualitative size word to a quantitative threshold on
// a product field.
type SizeBound struct {
	Field string
	Op    string
	Value float64
}

var priceQualifiers = map[string]PriceBound{
	"barato":     {Op: OpLTE, Threshold: 50},
	"barata":     {Op: OpLTE, Threshold: 50},
	"baratos":    {Op: OpLTE, Threshold: 50},
	"baratas":    {Op: OpLTE, Threshold: 50},
	"economico":  {Op: OpLTE, Threshold: 50},
	"economica":  {Op: OpLTE, Threshold: 50},
	"economicos": {Op: OpLTE, Threshold: 50},
	"economicas": {Op: OpLTE, Threshold: 50},
	"caro":       {Op: OpGTE, Threshold: 100},
	"cara":       {Op: OpGTE, Threshold: 100},
	"caros":      {Op: OpGTE, Threshold: 100},
	"caras":      {Op: OpGTE, Threshold: 100},
	"premium":    {Op: OpGTE, Threshold: 100},
}

var sizeQualifiers = map[string]SizeBound{
	"grande":   {Field: "volume", Op: OpGTE, Value: 1000},
	"grandes":  {Field: "volume", Op: OpGTE, Value: 1000},
	"chico":    {Field: "volume", Op: OpLTE, Value: 400},
	"chica":    {Field: "volume", Op: OpLTE, Value: 400},
	"chicos":   {Field: "volume", Op: OpLTE, Value: 400},
	"chicas":   {Field: "volume", Op: OpLTE, Value: 400},
	"pequeno":  {Field: "volume", Op: OpLTE, Value: 400},
	"pequena":  {Field: "volume", Op: OpLTE, Value: 400},
	"familiar": {Field: "volume", Op: OpGTE, Value: 1500},
	"mediano":  {Field: "volume", Op: OpEq, Value: 600},
	"mediana":  {Field: "volume", Op: OpEq, Value: 600},
}

var intensifiers = map[string]float64{
	"muy":      1.5,
	"bien":     1.5,
	"super":    2.0,
	"poco":     0.7,
	"algo":     0.8,
	"bastante": 1.3,
}

// attributeTags maps colloquial attribute words to a canonical tag.
var attributeTags = map[string]string{
	"picante":   "picante",
	"picoso":    "picante",
	"picosa":    "picante",
	"enchilado": "picante",
	"dulce":     "dulce",
	"dulces":    "dulce",
	"salado":    "salado",
	"salada":    "salado",
	"salados":   "salado",
	"azucar":    "azucar",
	"gas":       "gas",
	"alcohol":   "alcohol",
	"cafeina":   "cafeina",
	"gluten":    "gluten",
	"lactosa":   "lactosa",
	"light":     "sin_azucar",
	"natural":   "natural",
	"integral":  "integral",
	"organico":  "organico",
	"organica":  "organico",
}

var modifiers = map[string]string{
	"sin": "sin",
	"con": "con",
}

var units = map[string]UnitClass{
	"peso":      UnitMoney,
	"pesos":     UnitMoney,
	"mxn":       UnitMoney,
	"$":         UnitMoney,
	"ml":        UnitMeasure,
	"mililitro": UnitMeasure,
	"l":         UnitMeasure,
	"lt":        UnitMeasure,
	"litro":     UnitMeasure,
	"litros":    UnitMeasure,
	"g":         UnitMeasure,
	"gr":        UnitMeasure,
	"gramo":     UnitMeasure,
	"gramos":    UnitMeasure,
	"kg":        UnitMeasure,
	"kilo":      UnitMeasure,
	"kilos":     UnitMeasure,
	"pieza":     UnitMeasure,
	"piezas":    UnitMeasure,
}

// operatorPhrases are tried longest-first; each maps to a comparison
// operator applied to the number that follows.
var operatorPhrases = []struct {
	Words []string
	Op    string
}{
	{Words: []string{"menos", "de"}, Op: OpLTE},
	{Words: []string{"mas", "de"}, Op: OpGTE},
	{Words: []string{"menor", "a"}, Op: OpLTE},
	{Words: []string{"mayor", "a"}, Op: OpGTE},
	{Words: []string{"hasta"}, Op: OpLTE},
	{Words: []string{"maximo"}, Op: OpLTE},
	{Words: []string{"minimo"}, Op: OpGTE},
	{Words: []string{"entre"}, Op: OpBetween},
}

// categoryKeywords introduce a category by context ("tipo bebidas").
var categoryKeywords = map[string]struct{}{
	"tipo":      {},
	"categoria": {},
	"seccion":   {},
}

// PriceQualifier resolves a qualitative price word.
func PriceQualifier(word string) (PriceBound, bool) {
	b, ok := priceQualifiers[Normalize(word)]
	return b, ok
}

// SizeQualifier resolves a qualitative size word.
func SizeQualifier(word string) (SizeBound, bool) {
	b, ok := sizeQualifiers[Normalize(word)]
	return b, ok
}

// Intensifier returns the scaling factor for an intensifier word.
func Intensifier(word string) (float64, bool) {
	f, ok := intensifiers[Normalize(word)]
	return f, ok
}

// AttributeTag resolves a colloquial attribute word to its canonical tag.
func AttributeTag(word string) (string, bool) {
	t, ok := attributeTags[Normalize(word)]
	return t, ok
}

// IsModifier reports whether the word is a negation/inclusion modifier
// ("sin", "con").
func IsModifier(word string) bool {
	_, ok := modifiers[Normalize(word)]
	return ok
}

// IsIntensifier reports whether the word scales a following qualifier.
func IsIntensifier(word string) bool {
	_, ok := intensifiers[Normalize(word)]
	return ok
}

// Unit classifies a unit word as currency or measure.
func Unit(word string) (UnitClass, bool) {
	c, ok := units[Normalize(word)]
	return c, ok
}

// IsCategoryKeyword reports whether the word introduces a category by
// context.
func IsCategoryKeyword(word string) bool {
	_, ok := categoryKeywords[Normalize(word)]
	return ok
}

// OperatorPhrase matches the longest operator phrase at the start of
// words, returning the operator and how many words it consumed.
func OperatorPhrase(words []string) (op string, consumed int, ok bool) {
	for _, p := range operatorPhrases {
		if len(words) < len(p.Words) {
			continue
		}
		matched := true
		for i, w := range p.Words {
			if Normalize(words[i]) != w {
				matched = false
				break
			}
		}
		if matched {
			return p.Op, len(p.Words), true
		}
	}
	return "", 0, false
}

// StaticWords returns every lexicon word. These are folded into the
// vocabulary snapshot so the corrector treats qualifiers, units, and
// modifiers as known words.
func StaticWords() []string {
	var out []string
	for w := range priceQualifiers {
		out = append(out, w)
	}
	for w := range sizeQualifiers {
		out = append(out, w)
	}
	for w := range intensifiers {
		out = append(out, w)
	}
	for w := range attributeTags {
		out = append(out, w)
	}
	for w := range modifiers {
		out = append(out, w)
	}
	for w := range units {
		if !strings.ContainsAny(w, "$") {
			out = append(out, w)
		}
	}
	for _, p := range operatorPhrases {
		out = append(out, p.Words...)
	}
	for w := range categoryKeywords {
		out = append(out, w)
	}
	return out
}
