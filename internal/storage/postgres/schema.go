package postgres

// schema is applied by InitSchema. The two unique constraints are the
// correctness backstop for the engine's check-then-act sequences:
// account auto-creation races on (user_id, code) and numbering races on
// (user_id, numbering). Ledger entries cascade with their transaction.
const schema = `
CREATE TABLE IF NOT EXISTS accounts (
	id                   UUID PRIMARY KEY,
	user_id              TEXT NOT NULL,
	code                 TEXT NOT NULL,
	name                 TEXT NOT NULL,
	nature               TEXT NOT NULL,
	account_type         TEXT NOT NULL,
	level                INTEGER NOT NULL DEFAULT 0,
	parent_id            UUID REFERENCES accounts (id),
	can_receive_movement BOOLEAN NOT NULL DEFAULT FALSE,
	created_at           TIMESTAMPTZ NOT NULL DEFAULT now(),
	UNIQUE (user_id, code)
);

CREATE TABLE IF NOT EXISTS transactions (
	id          UUID PRIMARY KEY,
	user_id     TEXT NOT NULL,
	numbering   TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	date        DATE NOT NULL,
	message_id  TEXT,
	created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
	UNIQUE (user_id, numbering)
);

CREATE TABLE IF NOT EXISTS ledger_entries (
	id             UUID PRIMARY KEY,
	transaction_id UUID NOT NULL REFERENCES transactions (id) ON DELETE CASCADE,
	account_id     UUID NOT NULL REFERENCES accounts (id),
	debit          NUMERIC(14, 2) NOT NULL DEFAULT 0 CHECK (debit >= 0),
	credit         NUMERIC(14, 2) NOT NULL DEFAULT 0 CHECK (credit >= 0)
);

CREATE INDEX IF NOT EXISTS idx_ledger_entries_account ON ledger_entries (account_id);
CREATE INDEX IF NOT EXISTS idx_transactions_user_date ON transactions (user_id, date DESC);
`
