package store

import (
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"
)

// insertBatchSize bounds the rows per multi-row INSERT so statements stay
// under the driver's bind-variable limit.
const insertBatchSize = 500

// Application operations

// UpsertApplication inserts the application if it does not exist and
// returns its ID.
func (s *Store) UpsertApplication(name string) (int64, error) {
	return s.upsertApplication(s.db, name)
}

// execQuerier is satisfied by both *sql.DB and *sql.Tx.
type execQuerier interface {
	Exec(query string, args ...interface{}) (sql.Result, error)
	QueryRow(query string, args ...interface{}) *sql.Row
}

func (s *Store) upsertApplication(runner execQuerier, name string) (int64, error) {
	insert, args, err := s.sb.Insert("applications").
		Columns("name").
		Values(name).
		Suffix("ON CONFLICT (name) DO NOTHING").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build application insert: %w", err)
	}
	if _, err := runner.Exec(insert, args...); err != nil {
		return 0, wrapQueryErr(fmt.Sprintf("failed to insert application %s", name), err)
	}

	query, args, err := s.sb.Select("id").From("applications").Where(sq.Eq{"name": name}).ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build application lookup: %w", err)
	}

	var id int64
	if err := runner.QueryRow(query, args...).Scan(&id); err != nil {
		return 0, wrapQueryErr(fmt.Sprintf("failed to look up application %s", name), err)
	}
	return id, nil
}

// ListApplications returns all applications ordered by ID.
func (s *Store) ListApplications() ([]*Application, error) {
	query, args, err := s.sb.Select("id", "name").From("applications").OrderBy("id").ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build application query: %w", err)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, wrapQueryErr("failed to list applications", err)
	}
	defer rows.Close()

	var apps []*Application
	for rows.Next() {
		var app Application
		if err := rows.Scan(&app.ID, &app.Name); err != nil {
			return nil, fmt.Errorf("failed to scan application row: %w", err)
		}
		apps = append(apps, &app)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating applications: %w", err)
	}

	return apps, nil
}

// Review operations

// ProgressFunc is called after each insert batch with the number of rows
// written so far.
type ProgressFunc func(done int)

// InsertReviews stores reviews in a single transaction, creating their
// applications as needed. ApplicationID on the input rows is ignored and
// resolved from Application.
func (s *Store) InsertReviews(reviews []*ReviewRow) error {
	return s.InsertReviewsFunc(reviews, nil)
}

// InsertReviewsFunc is InsertReviews with a progress callback.
func (s *Store) InsertReviewsFunc(reviews []*ReviewRow, progress ProgressFunc) error {
	if len(reviews) == 0 {
		return nil
	}
	return s.inTx(func(tx *sql.Tx) error {
		return s.insertReviews(tx, reviews, progress)
	})
}

// ReplaceReviews deletes every stored review and application and inserts
// reviews in their place, atomically.
func (s *Store) ReplaceReviews(reviews []*ReviewRow, progress ProgressFunc) error {
	return s.inTx(func(tx *sql.Tx) error {
		if err := s.clear(tx); err != nil {
			return err
		}
		return s.insertReviews(tx, reviews, progress)
	})
}

func (s *Store) inTx(fn func(tx *sql.Tx) error) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit reviews: %w", err)
	}
	return nil
}

func (s *Store) insertReviews(tx *sql.Tx, reviews []*ReviewRow, progress ProgressFunc) error {
	appIDs := make(map[string]int64)
	for _, r := range reviews {
		if _, ok := appIDs[r.Application]; ok {
			continue
		}
		id, err := s.upsertApplication(tx, r.Application)
		if err != nil {
			return err
		}
		appIDs[r.Application] = id
	}

	for start := 0; start < len(reviews); start += insertBatchSize {
		end := start + insertBatchSize
		if end > len(reviews) {
			end = len(reviews)
		}

		insert := s.sb.Insert("reviews").Columns(
			"review_uuid", "application_id", "score", "word_count",
			"char_count", "has_noise", "sentiment_label", "model_sentiment",
		)
		for _, r := range reviews[start:end] {
			var words interface{}
			if r.WordCount != nil {
				words = *r.WordCount
			}
			insert = insert.Values(
				r.ReviewUUID,
				appIDs[r.Application],
				r.Score,
				words,
				r.CharCount,
				r.HasNoise,
				r.SentimentLabel,
				r.ModelSentiment,
			)
		}

		query, args, err := insert.ToSql()
		if err != nil {
			return fmt.Errorf("failed to build review insert: %w", err)
		}
		if _, err := tx.Exec(query, args...); err != nil {
			return wrapQueryErr("failed to insert reviews", err)
		}
		if progress != nil {
			progress(end)
		}
	}
	return nil
}

// ListReviews returns every review that has a word count, joined with its
// application name, in insertion order.
func (s *Store) ListReviews() ([]*ReviewRow, error) {
	query, args, err := s.reviewSelect().
		Where(sq.NotEq{"r.word_count": nil}).
		OrderBy("r.id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build review query: %w", err)
	}
	return s.queryReviews(query, args)
}

// ListAllReviews returns every review, including those without a word
// count, in insertion order.
func (s *Store) ListAllReviews() ([]*ReviewRow, error) {
	query, args, err := s.reviewSelect().OrderBy("r.id").ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build review query: %w", err)
	}
	return s.queryReviews(query, args)
}

func (s *Store) reviewSelect() sq.SelectBuilder {
	return s.sb.Select(
		"r.id", "r.review_uuid", "a.name", "r.application_id", "r.score",
		"r.word_count", "r.char_count", "r.has_noise",
		"r.sentiment_label", "r.model_sentiment",
	).
		From("reviews r").
		Join("applications a ON r.application_id = a.id")
}

func (s *Store) queryReviews(query string, args []interface{}) ([]*ReviewRow, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, wrapQueryErr("failed to list reviews", err)
	}
	defer rows.Close()

	var reviews []*ReviewRow
	for rows.Next() {
		var r ReviewRow
		var words, chars sql.NullInt64

		err := rows.Scan(
			&r.ID,
			&r.ReviewUUID,
			&r.Application,
			&r.ApplicationID,
			&r.Score,
			&words,
			&chars,
			&r.HasNoise,
			&r.SentimentLabel,
			&r.ModelSentiment,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan review row: %w", err)
		}

		if words.Valid {
			n := int(words.Int64)
			r.WordCount = &n
		}
		r.CharCount = int(chars.Int64)

		reviews = append(reviews, &r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating reviews: %w", err)
	}

	return reviews, nil
}

// CountReviews returns the total number of stored reviews.
func (s *Store) CountReviews() (int, error) {
	query, args, err := s.sb.Select("COUNT(*)").From("reviews").ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build count query: %w", err)
	}

	var n int
	if err := s.db.QueryRow(query, args...).Scan(&n); err != nil {
		return 0, wrapQueryErr("failed to count reviews", err)
	}
	return n, nil
}

// Reset deletes every review and application.
func (s *Store) Reset() error {
	return s.clear(s.db)
}

func (s *Store) clear(runner execQuerier) error {
	for _, table := range []string{"reviews", "applications"} {
		query, args, err := s.sb.Delete(table).ToSql()
		if err != nil {
			return fmt.Errorf("failed to build delete for %s: %w", table, err)
		}
		if _, err := runner.Exec(query, args...); err != nil {
			return wrapQueryErr(fmt.Sprintf("failed to clear %s", table), err)
		}
	}
	return nil
}

// Aggregations

// SentimentProportions counts reviews per model sentiment.
func (s *Store) SentimentProportions() ([]LabelCount, error) {
	query, args, err := s.sb.Select("model_sentiment", "COUNT(*)").
		From("reviews").
		GroupBy("model_sentiment").
		OrderBy("model_sentiment").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build sentiment query: %w", err)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, wrapQueryErr("failed to count sentiments", err)
	}
	defer rows.Close()

	var out []LabelCount
	for rows.Next() {
		var lc LabelCount
		if err := rows.Scan(&lc.Label, &lc.Count); err != nil {
			return nil, fmt.Errorf("failed to scan sentiment row: %w", err)
		}
		out = append(out, lc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating sentiments: %w", err)
	}
	return out, nil
}

// ScoreCounts counts reviews per score, ascending by score.
func (s *Store) ScoreCounts() ([]ScoreCount, error) {
	query, args, err := s.sb.Select("score", "COUNT(*)").
		From("reviews").
		GroupBy("score").
		OrderBy("score").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build score query: %w", err)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, wrapQueryErr("failed to count scores", err)
	}
	defer rows.Close()

	var out []ScoreCount
	for rows.Next() {
		var sc ScoreCount
		if err := rows.Scan(&sc.Score, &sc.Count); err != nil {
			return nil, fmt.Errorf("failed to scan score row: %w", err)
		}
		out = append(out, sc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating scores: %w", err)
	}
	return out, nil
}

// SentimentByApplication counts reviews per application and model sentiment.
func (s *Store) SentimentByApplication() ([]AppSentimentCount, error) {
	query, args, err := s.sb.Select("a.name", "r.model_sentiment", "COUNT(*)").
		From("reviews r").
		Join("applications a ON r.application_id = a.id").
		GroupBy("a.name", "r.model_sentiment").
		OrderBy("a.name", "r.model_sentiment").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build sentiment-by-app query: %w", err)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, wrapQueryErr("failed to count sentiments by application", err)
	}
	defer rows.Close()

	var out []AppSentimentCount
	for rows.Next() {
		var c AppSentimentCount
		if err := rows.Scan(&c.Application, &c.Sentiment, &c.Count); err != nil {
			return nil, fmt.Errorf("failed to scan sentiment-by-app row: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating sentiments by application: %w", err)
	}
	return out, nil
}

// ScoreVsSentiment counts reviews per score and model sentiment.
func (s *Store) ScoreVsSentiment() ([]ScoreSentimentCount, error) {
	query, args, err := s.sb.Select("score", "model_sentiment", "COUNT(*)").
		From("reviews").
		GroupBy("score", "model_sentiment").
		OrderBy("score", "model_sentiment").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build score-vs-sentiment query: %w", err)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, wrapQueryErr("failed to count scores by sentiment", err)
	}
	defer rows.Close()

	var out []ScoreSentimentCount
	for rows.Next() {
		var c ScoreSentimentCount
		if err := rows.Scan(&c.Score, &c.Sentiment, &c.Count); err != nil {
			return nil, fmt.Errorf("failed to scan score-vs-sentiment row: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating scores by sentiment: %w", err)
	}
	return out, nil
}
