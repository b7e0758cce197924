// Package database owns Postgres persistence: match audit snapshots and
// the cross-room leaderboard. The engine never touches this package; the
// game layer calls in at round start, round end and match finish.
package database

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"
)

// DB is the shared connection pool. Nil when persistence is disabled.
var DB *pgxpool.Pool

const schema = `
CREATE TABLE IF NOT EXISTS matches (
    id            UUID PRIMARY KEY,
    name          TEXT NOT NULL,
    initial_state JSONB,
    final_state   JSONB,
    winner        UUID,
    pot           BIGINT NOT NULL DEFAULT 0,
    created_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
    finished_at   TIMESTAMPTZ
);
CREATE TABLE IF NOT EXISTS leaderboard (
    user_id      UUID PRIMARY KEY,
    wins         BIGINT NOT NULL DEFAULT 0,
    games_played BIGINT NOT NULL DEFAULT 0,
    updated_at   TIMESTAMPTZ NOT NULL DEFAULT now()
);`

// Connect opens the pool and ensures the schema exists.
func Connect(ctx context.Context, url string) error {
	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return err
	}
	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return err
	}
	DB = pool
	return nil
}

// UpsertInitialMatchState stores the round-start audit snapshot.
func UpsertInitialMatchState(matchID uuid.UUID, name string, snapshot interface{}) {
	if DB == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	blob, err := json.Marshal(snapshot)
	if err != nil {
		logrus.WithError(err).Error("marshal initial match state")
		return
	}
	_, err = DB.Exec(ctx, `
		INSERT INTO matches (id, name, initial_state)
		VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET initial_state = EXCLUDED.initial_state`,
		matchID, name, blob)
	if err != nil {
		logrus.WithError(err).WithField("match", matchID).Error("persist initial match state")
	}
}

// StoreFinalMatchState records the match outcome and pot.
func StoreFinalMatchState(ctx context.Context, matchID uuid.UUID, winner uuid.UUID, pot uint64, snapshot interface{}) {
	if DB == nil {
		return
	}
	blob, err := json.Marshal(snapshot)
	if err != nil {
		logrus.WithError(err).Error("marshal final match state")
		return
	}
	_, err = DB.Exec(ctx, `
		UPDATE matches
		SET final_state = $2, winner = $3, pot = $4, finished_at = now()
		WHERE id = $1`,
		matchID, blob, winner, pot)
	if err != nil {
		logrus.WithError(err).WithField("match", matchID).Error("persist final match state")
	}
}

// RecordResult updates the leaderboard counters for a finished match: the
// winner and every loser each gain a played game, the winner a win. The
// engine never mutates these counters directly.
func RecordResult(ctx context.Context, winner uuid.UUID, losers []uuid.UUID) error {
	if DB == nil {
		return nil
	}
	tx, err := DB.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	const upsert = `
		INSERT INTO leaderboard (user_id, wins, games_played, updated_at)
		VALUES ($1, $2, 1, now())
		ON CONFLICT (user_id) DO UPDATE
		SET wins = leaderboard.wins + $2,
		    games_played = leaderboard.games_played + 1,
		    updated_at = now()`

	if _, err := tx.Exec(ctx, upsert, winner, 1); err != nil {
		return err
	}
	for _, loser := range losers {
		if _, err := tx.Exec(ctx, upsert, loser, 0); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

// LeaderboardEntry is one row of the ranking read path.
type LeaderboardEntry struct {
	UserID      uuid.UUID `json:"userId"`
	Wins        int64     `json:"wins"`
	GamesPlayed int64     `json:"gamesPlayed"`
}

// TopPlayers returns the leaderboard ordered by wins.
func TopPlayers(ctx context.Context, limit int) ([]LeaderboardEntry, error) {
	if DB == nil {
		return nil, nil
	}
	rows, err := DB.Query(ctx, `
		SELECT user_id, wins, games_played
		FROM leaderboard
		ORDER BY wins DESC, games_played ASC
		LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []LeaderboardEntry
	for rows.Next() {
		var e LeaderboardEntry
		if err := rows.Scan(&e.UserID, &e.Wins, &e.GamesPlayed); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
