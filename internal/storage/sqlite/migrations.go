package sqlite

import "database/sql"

// migrations contains the SQL statements to set up the database schema.
// These run on startup to ensure tables exist.
// IMPORTANT: profiles must be created before the tables that reference it.
// Amounts are stored as TEXT and parsed as decimals; REAL would lose cents.
const schema = `
CREATE TABLE IF NOT EXISTS profiles (
    id TEXT PRIMARY KEY,
    telegram_id INTEGER NOT NULL DEFAULT 0,
    email TEXT NOT NULL UNIQUE,
    display_name TEXT NOT NULL,
    created_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS friends (
    id TEXT PRIMARY KEY,
    owner_id TEXT NOT NULL,
    friend_id TEXT NOT NULL,
    nickname TEXT NOT NULL,
    created_at INTEGER NOT NULL,
    UNIQUE (owner_id, friend_id),
    FOREIGN KEY (owner_id) REFERENCES profiles(id) ON DELETE CASCADE,
    FOREIGN KEY (friend_id) REFERENCES profiles(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS transactions (
    id TEXT PRIMARY KEY,
    creator_id TEXT NOT NULL,
    description TEXT NOT NULL,
    total_amount TEXT NOT NULL,
    source_type TEXT NOT NULL,
    source_path TEXT,
    created_at INTEGER NOT NULL,
    FOREIGN KEY (creator_id) REFERENCES profiles(id)
);

CREATE TABLE IF NOT EXISTS obligations (
    id TEXT PRIMARY KEY,
    transaction_id TEXT NOT NULL,
    payer_id TEXT NOT NULL,
    payee_id TEXT NOT NULL,
    amount TEXT NOT NULL,
    label TEXT NOT NULL DEFAULT '',
    category TEXT NOT NULL DEFAULT '',
    status TEXT NOT NULL DEFAULT 'pending',
    created_at INTEGER NOT NULL,
    paid_at INTEGER,
    FOREIGN KEY (transaction_id) REFERENCES transactions(id) ON DELETE CASCADE,
    FOREIGN KEY (payer_id) REFERENCES profiles(id),
    FOREIGN KEY (payee_id) REFERENCES profiles(id)
);

CREATE TABLE IF NOT EXISTS otp_codes (
    email TEXT PRIMARY KEY,
    code_hash TEXT NOT NULL,
    expires_at INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_friends_owner_id ON friends(owner_id);
CREATE INDEX IF NOT EXISTS idx_obligations_transaction_id ON obligations(transaction_id);
CREATE INDEX IF NOT EXISTS idx_obligations_payer_id ON obligations(payer_id);
CREATE INDEX IF NOT EXISTS idx_obligations_payee_id ON obligations(payee_id);
CREATE INDEX IF NOT EXISTS idx_transactions_creator_id ON transactions(creator_id);
CREATE INDEX IF NOT EXISTS idx_profiles_telegram_id ON profiles(telegram_id);
`

// runMigrations executes the schema setup.
func runMigrations(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}
