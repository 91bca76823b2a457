package feed

import (
	"database/sql"
	"fmt"
	"iter"
	"path/filepath"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	_ "github.com/marcboeker/go-duckdb"
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-core/internal/logger"
	"github.com/rxtech-lab/argo-core/internal/types"
	"github.com/rxtech-lab/argo-core/pkg/errors"
	"go.uber.org/zap"
)

// DuckDBSource streams stored candles out of a parquet or csv file. The file
// must carry the columns time, symbol, open, high, low, close and volume.
type DuckDBSource struct {
	db       *sql.DB
	logger   *logger.Logger
	sq       squirrel.StatementBuilderType
	exchange string
}

// NewDuckDBSource opens an in-memory DuckDB instance. Every event it yields is
// tagged with exchange.
func NewDuckDBSource(exchange string, log *logger.Logger) (*DuckDBSource, error) {
	db, err := sql.Open("duckdb", ":memory:")
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfiguration, "failed to open duckdb", err)
	}

	return &DuckDBSource{
		db:       db,
		logger:   log,
		sq:       squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question),
		exchange: exchange,
	}, nil
}

// Load exposes the file at path as the market_data view, replacing any
// previously loaded file.
func (d *DuckDBSource) Load(path string) error {
	d.logger.Debug("Loading market data", zap.String("path", path))

	if _, err := d.db.Exec(`DROP VIEW IF EXISTS market_data;`); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidParameter, "failed to drop existing view", err)
	}

	reader := "read_parquet"
	if strings.EqualFold(filepath.Ext(path), ".csv") {
		reader = "read_csv_auto"
	}

	// squirrel has no CREATE VIEW support
	query := fmt.Sprintf(`CREATE VIEW market_data AS SELECT * FROM %s('%s');`, reader, strings.ReplaceAll(path, "'", "''"))
	if _, err := d.db.Exec(query); err != nil {
		return errors.Wrapf(errors.ErrCodeInvalidParameter, err, "failed to load market data from %s", path)
	}

	return nil
}

// Count returns the number of candles, optionally restricted to one symbol.
func (d *DuckDBSource) Count(symbol optional.Option[string]) (int, error) {
	query := d.sq.Select("COUNT(*)").From("market_data")
	if symbol.IsSome() {
		query = query.Where(squirrel.Eq{"symbol": symbol.Unwrap()})
	}

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeInvalidParameter, "failed to build count query", err)
	}

	var count int
	if err := d.db.QueryRow(sqlStr, args...).Scan(&count); err != nil {
		return 0, errors.Wrap(errors.ErrCodeInvalidParameter, "failed to count market data", err)
	}

	return count, nil
}

// Events yields candles in time order. A scan failure is yielded once and ends
// the sequence.
func (d *DuckDBSource) Events(symbol optional.Option[string]) iter.Seq2[types.MarketEvent, error] {
	return func(yield func(types.MarketEvent, error) bool) {
		query := d.sq.
			Select(
				"time", "symbol",
				"CAST(open AS DOUBLE)", "CAST(high AS DOUBLE)", "CAST(low AS DOUBLE)",
				"CAST(close AS DOUBLE)", "CAST(volume AS DOUBLE)",
			).
			From("market_data").
			OrderBy("time ASC", "symbol ASC")
		if symbol.IsSome() {
			query = query.Where(squirrel.Eq{"symbol": symbol.Unwrap()})
		}

		sqlStr, args, err := query.ToSql()
		if err != nil {
			yield(types.MarketEvent{}, errors.Wrap(errors.ErrCodeInvalidParameter, "failed to build read query", err))

			return
		}

		rows, err := d.db.Query(sqlStr, args...)
		if err != nil {
			yield(types.MarketEvent{}, errors.Wrap(errors.ErrCodeInvalidParameter, "failed to read market data", err))

			return
		}
		defer rows.Close()

		index := 0

		for rows.Next() {
			var (
				timestamp                      time.Time
				sym                            string
				open, high, low, close, volume float64
			)

			if err := rows.Scan(&timestamp, &sym, &open, &high, &low, &close, &volume); err != nil {
				yield(types.MarketEvent{}, errors.Wrap(errors.ErrCodeInvalidMarketEvent, "failed to scan market data", err))

				return
			}

			event := types.MarketEvent{
				ID:         fmt.Sprintf("%s-%d", sym, index),
				Timestamp:  timestamp,
				Exchange:   d.exchange,
				Instrument: sym,
				Open:       open,
				High:       high,
				Low:        low,
				Close:      close,
				Volume:     volume,
			}
			index++

			if !yield(event, nil) {
				return
			}
		}

		if err := rows.Err(); err != nil {
			yield(types.MarketEvent{}, errors.Wrap(errors.ErrCodeInvalidMarketEvent, "market data iteration failed", err))
		}
	}
}

// Close releases the database.
func (d *DuckDBSource) Close() error {
	return d.db.Close()
}
