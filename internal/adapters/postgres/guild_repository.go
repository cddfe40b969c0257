package postgres

import (
	"GuildVerify/internal/core/domain"
	"GuildVerify/internal/core/ports"
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

type guildRepository struct {
	db  *DB
	log zerolog.Logger
}

var _ ports.GuildRepository = (*guildRepository)(nil) // Ensure compliance

// NewGuildRepository creates a new repository for guild records.
func NewGuildRepository(db *DB, baseLogger *zerolog.Logger) ports.GuildRepository {
	return &guildRepository{
		db:  db,
		log: baseLogger.With().Str("component", "guild_repo").Logger(),
	}
}

// guildQueryCols is the fixed projection exposed by the API.
const guildQueryCols = `external_site_id, id, name, tag, leader_name, status`

// ListAll returns every guild record.
func (r *guildRepository) ListAll(ctx context.Context) ([]domain.Guild, error) {
	query := `SELECT ` + guildQueryCols + ` FROM guilds ORDER BY name`

	rows, err := r.db.pool.Query(ctx, query)
	if err != nil {
		r.log.Error().Err(err).Msg("Failed to query guilds")
		return nil, err
	}

	guilds, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Guild, error) {
		var g domain.Guild
		err := row.Scan(
			&g.ExternalSiteID,
			&g.ID,
			&g.Name,
			&g.Tag,
			&g.LeaderName,
			&g.Status,
		)
		return g, err
	})
	if err != nil {
		r.log.Error().Err(err).Msg("Failed to scan guild rows")
		return nil, err
	}
	return guilds, nil
}

// UpdateStatus sets the status of the guild whose id is userID.
func (r *guildRepository) UpdateStatus(ctx context.Context, userID, status string) error {
	query := `UPDATE guilds SET status = $1 WHERE id = $2`

	tag, err := r.db.pool.Exec(ctx, query, status, userID)
	if err != nil {
		r.log.Error().Err(err).Str("user_id", userID).Msg("Failed to update guild status")
		return err
	}
	if tag.RowsAffected() == 0 {
		r.log.Warn().Str("user_id", userID).Msg("No guild matched status update")
		return domain.ErrGuildNotFound
	}

	r.log.Info().Str("user_id", userID).Str("status", status).Msg("Guild status updated")
	return nil
}
