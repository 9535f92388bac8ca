package store

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS applications (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT NOT NULL UNIQUE
);

CREATE TABLE IF NOT EXISTS reviews (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    review_uuid TEXT NOT NULL,
    application_id INTEGER NOT NULL,
    score INTEGER NOT NULL,
    word_count INTEGER,
    char_count INTEGER,
    has_noise BOOLEAN NOT NULL DEFAULT 0,
    sentiment_label TEXT NOT NULL,
    model_sentiment TEXT NOT NULL,
    FOREIGN KEY (application_id) REFERENCES applications(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_reviews_application ON reviews(application_id);
CREATE INDEX IF NOT EXISTS idx_reviews_score ON reviews(score);
`

const postgresSchema = `
CREATE TABLE IF NOT EXISTS applications (
    id SERIAL PRIMARY KEY,
    name TEXT NOT NULL UNIQUE
);

CREATE TABLE IF NOT EXISTS reviews (
    id SERIAL PRIMARY KEY,
    review_uuid TEXT NOT NULL,
    application_id INTEGER NOT NULL REFERENCES applications(id) ON DELETE CASCADE,
    score INTEGER NOT NULL,
    word_count INTEGER,
    char_count INTEGER,
    has_noise BOOLEAN NOT NULL DEFAULT FALSE,
    sentiment_label TEXT NOT NULL,
    model_sentiment TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_reviews_application ON reviews(application_id);
CREATE INDEX IF NOT EXISTS idx_reviews_score ON reviews(score);
`
