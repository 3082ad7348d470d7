// Package data provides Redis-cached lookups over the CORPUS location
// reference loaded by the reference-data service.
package data

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/railwatch/vstp-engine/src/common/utils"
)

const tiplocCacheTTL = 24 * time.Hour

type DataClient struct {
	pg     *pgxpool.Pool
	rdb    *redis.Client
	logger *zap.SugaredLogger
}

func NewDataClient(pg *pgxpool.Pool, rdb *redis.Client, logger *zap.SugaredLogger) *DataClient {
	return &DataClient{
		pg:     pg,
		rdb:    rdb,
		logger: logger,
	}
}

// GetTiplocDescription resolves a TIPLOC to its CORPUS description, reading
// through the Redis cache. Unknown TIPLOCs surface as pgx.ErrNoRows.
func (dc *DataClient) GetTiplocDescription(ctx context.Context, tiploc string) (string, error) {
	key := utils.BuildTiplocKey(tiploc)

	cached, err := dc.rdb.Get(ctx, key).Result()
	if err == nil {
		return cached, nil
	}
	if err != redis.Nil {
		dc.logger.Debugw("redis tiploc cache read failed", "tiploc", tiploc, "error", err)
	}

	var description string
	err = dc.pg.QueryRow(ctx, `
		SELECT COALESCE(description, '') FROM tiploc
		WHERE tiploc_code = $1
	`, tiploc).Scan(&description)
	if err != nil {
		return "", err
	}

	if setErr := dc.rdb.Set(ctx, key, description, tiplocCacheTTL).Err(); setErr != nil {
		dc.logger.Debugw("redis tiploc cache write failed", "tiploc", tiploc, "error", setErr)
	}

	return description, nil
}
