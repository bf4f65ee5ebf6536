package wallet

import "sort"

// wordlistSize is fixed at 2048 so each word encodes exactly 11 bits, the
// same chunking Algorand's own mnemonic scheme uses.
const wordlistSize = 2048

var (
	wordlist    [wordlistSize]string
	wordIndex   map[string]int
)

// consonants/vowels are combined into short pronounceable syllables. No
// BIP-39 or Algorand wordlist ships in this module's dependency set, so the
// mnemonic alphabet is generated deterministically at init time rather than
// hand-transcribed — see DESIGN.md.
var consonants = []string{
	"b", "c", "d", "f", "g", "h", "j", "k", "l", "m",
	"n", "p", "r", "s", "t", "v", "w", "x", "y", "z",
}

var vowels = []string{"a", "e", "i", "o", "u"}

func init() {
	words := make([]string, 0, wordlistSize)
	seen := make(map[string]bool, wordlistSize)

	for _, c1 := range consonants {
		for _, v1 := range vowels {
			for _, c2 := range consonants {
				for _, v2 := range vowels {
					w := c1 + v1 + c2 + v2
					if !seen[w] {
						seen[w] = true
						words = append(words, w)
					}
					if len(words) >= wordlistSize {
						goto done
					}
				}
			}
		}
	}
done:
	sort.Strings(words)
	wordIndex = make(map[string]int, wordlistSize)
	for i := 0; i < wordlistSize; i++ {
		wordlist[i] = words[i]
		wordIndex[words[i]] = i
	}
}
