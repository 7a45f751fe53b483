// ABOUTME: SQLite database schema for the meal assistant
// ABOUTME: Creates all tables and indexes idempotently at open
package sqlite

// Schema contains all SQL statements for database initialization.
// Timestamps are INTEGER unix nanoseconds; lists are JSON arrays in TEXT.
const Schema = `
CREATE TABLE IF NOT EXISTS profiles (
    user_id TEXT PRIMARY KEY,
    display_name TEXT,
    diet_style TEXT,
    goals TEXT,
    allergies TEXT,
    dislikes TEXT,
    likes TEXT,
    cooking_skill TEXT,
    time_per_meal_minutes INTEGER DEFAULT 0,
    budget TEXT,
    household_size INTEGER DEFAULT 0,
    equipment TEXT,
    units TEXT DEFAULT 'metric',
    notes TEXT,
    version INTEGER NOT NULL DEFAULT 0,
    updated_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS preference_facts (
    user_id TEXT NOT NULL,
    fact_key TEXT NOT NULL,
    strength REAL NOT NULL DEFAULT 0,
    updated_at INTEGER NOT NULL,
    source_meal_id TEXT,
    PRIMARY KEY (user_id, fact_key)
);

CREATE TABLE IF NOT EXISTS memory_items (
    id TEXT PRIMARY KEY,
    user_id TEXT NOT NULL,
    kind TEXT NOT NULL,
    text TEXT NOT NULL,
    salience REAL NOT NULL DEFAULT 0.5,
    source_meal_id TEXT,
    vector BLOB,
    created_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS meals (
    meal_id TEXT PRIMARY KEY,
    user_id TEXT NOT NULL,
    created_at INTEGER NOT NULL,
    title TEXT NOT NULL,
    source_kind TEXT NOT NULL,
    input_text TEXT,
    input_image_refs TEXT,
    vision_result TEXT,
    suggestion_id TEXT NOT NULL,
    recipe TEXT NOT NULL,
    tags TEXT
);

CREATE TABLE IF NOT EXISTS meal_outcomes (
    meal_id TEXT PRIMARY KEY REFERENCES meals(meal_id) ON DELETE CASCADE,
    user_id TEXT NOT NULL,
    created_at INTEGER NOT NULL,
    liked INTEGER NOT NULL,
    cooked_again INTEGER NOT NULL,
    tags TEXT,
    notes TEXT
);

CREATE TABLE IF NOT EXISTS sessions (
    session_id TEXT PRIMARY KEY,
    user_id TEXT NOT NULL,
    state TEXT NOT NULL,
    updated_at INTEGER NOT NULL,
    expires_at INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_facts_rank ON preference_facts(user_id, strength DESC, updated_at DESC);
CREATE INDEX IF NOT EXISTS idx_memory_user ON memory_items(user_id);
CREATE INDEX IF NOT EXISTS idx_meals_user ON meals(user_id, created_at DESC);
CREATE INDEX IF NOT EXISTS idx_sessions_expiry ON sessions(expires_at);
`

// SchemaVersion is the current schema version for migrations
const SchemaVersion = 1
