package store

const schemaSQL = `
CREATE TABLE IF NOT EXISTS wallets (
    id              TEXT PRIMARY KEY,
    name            TEXT NOT NULL UNIQUE,
    wallet_type     TEXT NOT NULL,
    currency        TEXT NOT NULL,
    allow_negative  INTEGER NOT NULL DEFAULT 0,
    description     TEXT,
    created_at      TEXT NOT NULL,
    archived_at     TEXT
);

CREATE TABLE IF NOT EXISTS transfers (
    id              TEXT PRIMARY KEY,
    sequence        INTEGER NOT NULL UNIQUE,
    from_wallet_id  TEXT NOT NULL REFERENCES wallets(id),
    to_wallet_id    TEXT NOT NULL REFERENCES wallets(id),
    amount_cents    INTEGER NOT NULL CHECK (amount_cents > 0),
    timestamp       TEXT NOT NULL,
    recorded_at     TEXT NOT NULL,
    description     TEXT,
    category        TEXT,
    tags            TEXT NOT NULL DEFAULT '[]',
    reverses        TEXT REFERENCES transfers(id),
    external_ref    TEXT
);

CREATE TABLE IF NOT EXISTS budgets (
    id              TEXT PRIMARY KEY,
    name            TEXT NOT NULL UNIQUE,
    category        TEXT NOT NULL,
    period_type     TEXT NOT NULL,
    amount_cents    INTEGER NOT NULL,
    created_at      TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS scheduled_transfers (
    id               TEXT PRIMARY KEY,
    name             TEXT NOT NULL UNIQUE,
    from_wallet_id   TEXT NOT NULL REFERENCES wallets(id),
    to_wallet_id     TEXT NOT NULL REFERENCES wallets(id),
    amount_cents     INTEGER NOT NULL CHECK (amount_cents > 0),
    pattern          TEXT NOT NULL,
    start_date       TEXT NOT NULL,
    end_date         TEXT,
    last_executed_at TEXT,
    description      TEXT,
    category         TEXT,
    status           TEXT NOT NULL DEFAULT 'active',
    created_at       TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS sequence_counter (
    name   TEXT PRIMARY KEY,
    value  INTEGER NOT NULL
);

INSERT OR IGNORE INTO sequence_counter (name, value) VALUES ('transfer_sequence', 0);

CREATE INDEX IF NOT EXISTS idx_transfers_from ON transfers(from_wallet_id);
CREATE INDEX IF NOT EXISTS idx_transfers_to ON transfers(to_wallet_id);
CREATE INDEX IF NOT EXISTS idx_transfers_category ON transfers(category);
CREATE INDEX IF NOT EXISTS idx_transfers_ts_category ON transfers(timestamp, category);
CREATE INDEX IF NOT EXISTS idx_transfers_ts_amount ON transfers(timestamp, amount_cents);
CREATE INDEX IF NOT EXISTS idx_transfers_reverses ON transfers(reverses);
`
