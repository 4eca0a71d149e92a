package postgres

// schema is applied on startup. The partial unique index enforces
// case-insensitive username uniqueness while still allowing multiple
// players with no username yet.
const schema = `
CREATE TABLE IF NOT EXISTS players (
	player_id          TEXT PRIMARY KEY,
	username           TEXT,
	rating_classic     INTEGER NOT NULL DEFAULT 0,
	rating_infinity    INTEGER NOT NULL DEFAULT 0,
	achievements_count INTEGER NOT NULL DEFAULT 0 CHECK (achievements_count >= 0),
	created_at         TIMESTAMPTZ NOT NULL,
	updated_at         TIMESTAMPTZ NOT NULL,
	CHECK (created_at <= updated_at)
);

CREATE UNIQUE INDEX IF NOT EXISTS players_username_lower_idx
	ON players (LOWER(username))
	WHERE username IS NOT NULL AND username <> '';
`
