// Package ingest loads review tables from CSV exports and validates them
// into store rows.
//
// Validation happens here so the analyzer can assume well-formed input:
// rows with a missing application, an out-of-range score, a negative word
// count or an unknown sentiment label are rejected. Rows with no word count
// are kept (the source tables carry them) but excluded from analysis by the
// store read.
package ingest

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/google/uuid"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/blackwell-systems/reviewlens/internal/analyzer"
	"github.com/blackwell-systems/reviewlens/internal/store"
)

// CSV column names.
const (
	ColApp            = "app"
	ColReviewID       = "reviewId"
	ColScore          = "score"
	ColWordCount      = "word_count"
	ColCharCount      = "char_count"
	ColHasNoise       = "has_noise"
	ColSentiment      = "sentiment_label"
	ColModelSentiment = "model_sentiment"
)

// Supported source encodings.
const (
	EncodingUTF8   = "utf-8"
	EncodingLatin1 = "latin1"
)

var (
	ErrMissingColumn      = errors.New("missing required column")
	ErrMissingApplication = errors.New("missing application")
	ErrInvalidScore       = errors.New("score must be an integer in [1,5]")
	ErrInvalidWordCount   = errors.New("word count must be a non-negative integer")
	ErrInvalidNoiseFlag   = errors.New("has_noise must be 0, 1, true or false")
	ErrUnknownSentiment   = errors.New("unknown sentiment label")
)

var nanValues = []string{"", "NA", "NaN", "nan", "null", "NULL", "<nil>"}

// Options controls how a CSV source is decoded.
type Options struct {
	Delimiter rune   // defaults to ','
	Encoding  string // EncodingUTF8 (default) or EncodingLatin1
}

// RowError describes a rejected CSV row. Line is 1-based and counts the
// header as line 1.
type RowError struct {
	Line int
	Err  error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e *RowError) Unwrap() error {
	return e.Err
}

// Result is the outcome of loading one CSV source.
type Result struct {
	Rows         []*store.ReviewRow
	Rejected     []*RowError
	MissingWords int // accepted rows with no word count
}

// Applications returns the distinct application names in first-seen order.
func (r *Result) Applications() []string {
	seen := make(map[string]bool)
	var apps []string
	for _, row := range r.Rows {
		if !seen[row.Application] {
			seen[row.Application] = true
			apps = append(apps, row.Application)
		}
	}
	return apps
}

// Decode wraps r with a decoder for the named encoding.
func Decode(r io.Reader, encoding string) (io.Reader, error) {
	switch strings.ToLower(encoding) {
	case "", EncodingUTF8, "utf8":
		return r, nil
	case EncodingLatin1, "iso-8859-1", "iso8859-1":
		return transform.NewReader(r, charmap.ISO8859_1.NewDecoder()), nil
	default:
		return nil, fmt.Errorf("unsupported encoding %q (must be utf-8 or latin1)", encoding)
	}
}

// Load parses a review CSV. Malformed rows are collected in
// Result.Rejected; only structural problems (unreadable CSV, missing
// required columns) return an error.
func Load(r io.Reader, opts Options) (*Result, error) {
	src, err := Decode(r, opts.Encoding)
	if err != nil {
		return nil, err
	}

	delim := opts.Delimiter
	if delim == 0 {
		delim = ','
	}

	df := dataframe.ReadCSV(src,
		dataframe.WithDelimiter(delim),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
		dataframe.NaNValues(nanValues),
	)
	if df.Err != nil {
		return nil, fmt.Errorf("failed to parse CSV: %w", df.Err)
	}

	cols := make(map[string]bool)
	for _, name := range df.Names() {
		cols[name] = true
	}
	for _, required := range []string{ColApp, ColScore} {
		if !cols[required] {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, required)
		}
	}

	cell := func(col string, i int) (string, bool) {
		if !cols[col] {
			return "", false
		}
		e := df.Col(col).Elem(i)
		if e.IsNA() {
			return "", false
		}
		return strings.TrimSpace(e.String()), true
	}

	res := &Result{}
	for i := 0; i < df.Nrow(); i++ {
		row, err := parseRow(cell, i)
		if err != nil {
			res.Rejected = append(res.Rejected, &RowError{Line: i + 2, Err: err})
			continue
		}
		if row.WordCount == nil {
			res.MissingWords++
		}
		res.Rows = append(res.Rows, row)
	}
	return res, nil
}

func parseRow(cell func(col string, i int) (string, bool), i int) (*store.ReviewRow, error) {
	app, ok := cell(ColApp, i)
	if !ok || app == "" {
		return nil, ErrMissingApplication
	}

	rawScore, _ := cell(ColScore, i)
	score, err := parseWhole(rawScore)
	if err != nil || score < 1 || score > 5 {
		return nil, fmt.Errorf("%w: %q", ErrInvalidScore, rawScore)
	}

	row := &store.ReviewRow{
		Application: app,
		Score:       score,
	}

	if id, ok := cell(ColReviewID, i); ok && id != "" {
		row.ReviewUUID = id
	} else {
		row.ReviewUUID = uuid.NewString()
	}

	if raw, ok := cell(ColWordCount, i); ok {
		n, err := parseWhole(raw)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("%w: %q", ErrInvalidWordCount, raw)
		}
		row.WordCount = &n
	}

	if raw, ok := cell(ColCharCount, i); ok {
		if n, err := parseWhole(raw); err == nil && n >= 0 {
			row.CharCount = n
		}
	}

	if raw, ok := cell(ColHasNoise, i); ok {
		noise, err := parseFlag(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrInvalidNoiseFlag, raw)
		}
		row.HasNoise = noise
	}

	rawModel, hasModel := cell(ColModelSentiment, i)
	hasModel = hasModel && rawModel != ""

	// A missing label falls back to the model sentiment, then to the score.
	var sentiment analyzer.Sentiment
	if raw, ok := cell(ColSentiment, i); ok && raw != "" {
		if sentiment, err = analyzer.ParseSentiment(raw); err != nil {
			return nil, fmt.Errorf("%w: %q", ErrUnknownSentiment, raw)
		}
	} else if hasModel {
		if sentiment, err = analyzer.ParseSentiment(rawModel); err != nil {
			return nil, fmt.Errorf("%w: %q", ErrUnknownSentiment, rawModel)
		}
	} else {
		sentiment = analyzer.SentimentForScore(score)
	}
	row.SentimentLabel = string(sentiment)

	row.ModelSentiment = row.SentimentLabel
	if hasModel {
		if ms, err := analyzer.ParseSentiment(rawModel); err == nil {
			row.ModelSentiment = string(ms)
		}
	}

	return row, nil
}

// parseWhole parses an integer that may be written as a float ("12.0"),
// as pandas exports nullable integer columns.
func parseWhole(s string) (int, error) {
	if n, err := strconv.Atoi(s); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if f != math.Trunc(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("not a whole number: %s", s)
	}
	return int(f), nil
}

func parseFlag(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "1", "1.0", "true", "t", "yes":
		return true, nil
	case "0", "0.0", "false", "f", "no":
		return false, nil
	}
	return false, fmt.Errorf("invalid flag %q", s)
}
