package spanish

import "strings"

// PhoneticKey folds a word into its phonetic bucket key. Words that sound
// alike in Spanish land in the same bucket, which keeps the spelling
// corrector's edit-distance scan limited to plausible candidates.
//
// The folding collapses the consonant classes most often confused in
// written Spanish: b/v, the s-sound spellings (c before e/i, s, z, x),
// the k-sound spellings (c, k, q), ll/y, and g/j before e/i. Silent h is
// dropped and doubled letters are collapsed.
func PhoneticKey(word string) string {
	w := Normalize(word)
	if w == "" {
		return ""
	}

	var b strings.Builder
	b.Grow(len(w))

	rs := []rune(w)
	for i := 0; i < len(rs); i++ {
		r := rs[i]
		var next rune
		if i+1 < len(rs) {
			next = rs[i+1]
		}

		switch r {
		case 'h':
			continue
		case 'v':
			r = 'b'
		case 'z', 'x':
			r = 's'
		case 'c':
			if next == 'e' || next == 'i' {
				r = 's'
			} else if next == 'h' {
				// keep "ch" as a single affricate marker
				b.WriteRune('c')
				i++
				continue
			} else {
				r = 'k'
			}
		case 'q':
			r = 'k'
			// "qu" before e/i carries a silent u
			if next == 'u' {
				i++
			}
		case 'g':
			if next == 'e' || next == 'i' {
				r = 'j'
			}
		case 'l':
			if next == 'l' {
				r = 'y'
				i++
			}
		case 'w':
			r = 'u'
		}

		// collapse doubled output letters
		if b.Len() > 0 {
			prev := b.String()[b.Len()-1]
			if rune(prev) == r {
				continue
			}
		}
		b.WriteRune(r)
	}

	return b.String()
}
