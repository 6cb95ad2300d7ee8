package recommend

// bigramSimilarity is the character-bigram overlap ratio between two
// strings: shared bigrams over the larger bigram set. 1.0 for identical
// strings, 0 when nothing overlaps.
func bigramSimilarity(a, b string) float64 {
	if a == b {
		if a == "" {
			return 0
		}
		return 1
	}
	ba := bigrams(a)
	bb := bigrams(b)
	if len(ba) == 0 || len(bb) == 0 {
		return 0
	}

	shared := 0
	for g, n := range ba {
		if m, ok := bb[g]; ok {
			if m < n {
				n = m
			}
			shared += n
		}
	}

	larger := count(ba)
	if c := count(bb); c > larger {
		larger = c
	}
	return float64(shared) / float64(larger)
}

func bigrams(s string) map[string]int {
	runes := []rune(s)
	out := make(map[string]int, len(runes))
	for i := 0; i+1 < len(runes); i++ {
		out[string(runes[i:i+2])]++
	}
	return out
}

func count(m map[string]int) int {
	total := 0
	for _, n := range m {
		total += n
	}
	return total
}
