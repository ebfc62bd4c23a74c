// Package names generates human-readable instance names for withdrawal
// daemons in "adjective-noun" form, e.g. "early-registrar".
//
// A name tells apart several daemons in logs and health output when more
// than one student runs withdrawd on the same host.
package names

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

var adjectives = []string{
	"amber", "ardent", "brisk", "calm", "candid", "clever", "crisp",
	"curious", "daring", "diligent", "eager", "early", "earnest", "fleet",
	"frugal", "gentle", "hasty", "honest", "humble", "keen", "lucid",
	"mellow", "nimble", "patient", "plucky", "prompt", "quiet", "rapid",
	"sober", "steady", "swift", "tidy", "tireless", "upbeat", "vivid",
	"wary", "witty", "zealous",
}

var nouns = []string{
	"abacus", "almanac", "archive", "atrium", "bursar", "campus", "carrel",
	"chalk", "cloister", "codex", "colloquium", "dean", "docent", "easel",
	"folio", "gazette", "gown", "lantern", "lectern", "ledger", "library",
	"locker", "mentor", "notebook", "pamphlet", "prefect", "proctor",
	"quad", "quill", "registrar", "rostrum", "satchel", "scholar",
	"seminar", "syllabus", "thesis", "transcript", "tutor",
}

// Generate returns a random "adjective-noun" name.
func Generate() string {
	adjective := adjectives[randomIndex(len(adjectives))]
	noun := nouns[randomIndex(len(nouns))]
	return fmt.Sprintf("%s-%s", adjective, noun)
}

// randomIndex returns a uniform index below max using crypto/rand, or 0 if
// the random source fails.
func randomIndex(max int) int {
	if max <= 0 {
		return 0
	}

	n, err := rand.Int(rand.Reader, big.NewInt(int64(max)))
	if err != nil {
		return 0
	}

	return int(n.Int64())
}
