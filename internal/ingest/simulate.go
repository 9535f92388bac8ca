package ingest

import (
	"math/rand"

	"github.com/google/uuid"

	"github.com/blackwell-systems/reviewlens/internal/analyzer"
	"github.com/blackwell-systems/reviewlens/internal/store"
)

// SimulatedApps are the applications the simulator generates reviews for.
var SimulatedApps = []string{"WhatsApp", "Facebook Messenger", "Skype", "Viber", "LINE"}

// scoreWeights is the probability of scores 1 through 5.
var scoreWeights = []float64{0.10, 0.15, 0.20, 0.30, 0.25}

const (
	simMinReviews = 800
	simMaxReviews = 1200 // exclusive
	simMaxWords   = 50   // exclusive
	simNoiseRate  = 0.3
)

// Simulate generates a deterministic demonstration dataset for seed. Each
// application gets between 800 and 1199 reviews; sentiment follows the
// score (>=4 positive, <=2 negative, otherwise neutral).
func Simulate(seed int64) []*store.ReviewRow {
	rng := rand.New(rand.NewSource(seed))

	var rows []*store.ReviewRow
	for _, app := range SimulatedApps {
		n := simMinReviews + rng.Intn(simMaxReviews-simMinReviews)
		for i := 0; i < n; i++ {
			score := weightedScore(rng)
			words := 1 + rng.Intn(simMaxWords-1)
			chars := words*5 + rng.Intn(20) - 10
			if chars < 0 {
				chars = 0
			}

			sentiment := analyzer.SentimentForScore(score)

			id, _ := uuid.NewRandomFromReader(rng)
			wc := words
			rows = append(rows, &store.ReviewRow{
				ReviewUUID:     id.String(),
				Application:    app,
				Score:          score,
				WordCount:      &wc,
				CharCount:      chars,
				HasNoise:       rng.Float64() < simNoiseRate,
				SentimentLabel: string(sentiment),
				ModelSentiment: string(sentiment),
			})
		}
	}
	return rows
}

func weightedScore(rng *rand.Rand) int {
	p := rng.Float64()
	acc := 0.0
	for i, w := range scoreWeights {
		acc += w
		if p < acc {
			return i + 1
		}
	}
	return len(scoreWeights)
}
