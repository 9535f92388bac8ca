package analyzer

// Word-count boundaries used by the categorization rules.
const (
	DetailedMinWords = 10 // word_count > 10 counts as detailed
	SimpleMaxWords   = 5  // word_count <= 5 counts as simple
)

// rule pairs a predicate with the category it assigns.
type rule struct {
	category Category
	matches  func(r Review) bool
}

// rules are evaluated in order and the first match wins. The order is
// load-bearing: rule 3 beats the noise rule for short positive reviews, and
// the neutral rule is shadowed by the noise and high-quality rules.
var rules = []rule{
	{CategoryDetailedPositive, func(r Review) bool {
		return r.WordCount > DetailedMinWords && r.Sentiment == SentimentPositive
	}},
	{CategoryDetailedCritical, func(r Review) bool {
		return r.WordCount > DetailedMinWords && r.Sentiment == SentimentNegative
	}},
	{CategorySimplePositive, func(r Review) bool {
		return r.WordCount <= SimpleMaxWords && r.Sentiment == SentimentPositive
	}},
	{CategoryNoisy, func(r Review) bool {
		return r.HasNoise
	}},
	{CategoryHighQuality, func(r Review) bool {
		return !r.HasNoise && r.WordCount > DetailedMinWords
	}},
	{CategoryDetailedNeutral, func(r Review) bool {
		return r.WordCount > DetailedMinWords && r.Sentiment == SentimentNeutral
	}},
	{CategoryExtreme, func(r Review) bool {
		return r.Score == 1 || r.Score == 5
	}},
}

// Categorize assigns exactly one category to a review. It never fails:
// reviews that match no rule are Balanced.
func Categorize(r Review) Category {
	for _, rl := range rules {
		if rl.matches(r) {
			return rl.category
		}
	}
	return CategoryBalanced
}

// CategorizeAll categorizes every review independently, preserving order.
func CategorizeAll(reviews []Review) []CategorizedReview {
	out := make([]CategorizedReview, len(reviews))
	for i, r := range reviews {
		out[i] = CategorizedReview{Review: r, Category: Categorize(r)}
	}
	return out
}

// Categories returns every category label in rule order, Balanced last.
func Categories() []Category {
	cats := make([]Category, 0, len(rules)+1)
	for _, rl := range rules {
		cats = append(cats, rl.category)
	}
	return append(cats, CategoryBalanced)
}

// IsCategory reports whether c is one of the known labels.
func IsCategory(c Category) bool {
	for _, known := range Categories() {
		if c == known {
			return true
		}
	}
	return false
}
