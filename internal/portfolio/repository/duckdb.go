package repository

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/Masterminds/squirrel"
	_ "github.com/marcboeker/go-duckdb"
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-core/internal/logger"
	"github.com/rxtech-lab/argo-core/internal/types"
	"github.com/rxtech-lab/argo-core/pkg/errors"
	"go.uber.org/zap"
)

// DuckDBJournal stores account events in an in-memory DuckDB table. Each row
// carries the event as a JSON payload next to columns that can be queried.
type DuckDBJournal struct {
	mu     sync.Mutex
	db     *sql.DB
	logger *logger.Logger
	sq     squirrel.StatementBuilderType
	seq    int64
}

// NewDuckDBJournal opens the database and creates the account_events table.
func NewDuckDBJournal(log *logger.Logger) (*DuckDBJournal, error) {
	db, err := sql.Open("duckdb", ":memory:")
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeJournalInitFailed, "failed to open duckdb", err)
	}

	if log == nil {
		log = logger.NewNopLogger()
	}

	journal := &DuckDBJournal{
		db:     db,
		logger: log,
		sq:     squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question),
	}

	if err := journal.initialize(); err != nil {
		db.Close()

		return nil, err
	}

	return journal, nil
}

func (j *DuckDBJournal) initialize() error {
	_, err := j.db.Exec(`
		CREATE TABLE IF NOT EXISTS account_events (
			seq BIGINT PRIMARY KEY,
			kind TEXT,
			timestamp TIMESTAMP,
			position_id TEXT,
			payload TEXT
		)
	`)
	if err != nil {
		return errors.Wrap(errors.ErrCodeJournalInitFailed, "failed to create account_events table", err)
	}

	return nil
}

// Record implements Journal. A batch is written in one transaction.
func (j *DuckDBJournal) Record(events []types.AccountEvent) error {
	if len(events) == 0 {
		return nil
	}

	j.mu.Lock()
	defer j.mu.Unlock()

	tx, err := j.db.Begin()
	if err != nil {
		return errors.Wrap(errors.ErrCodeJournalWriteFailed, "failed to begin transaction", err)
	}

	seq := j.seq
	for _, event := range events {
		payload, err := json.Marshal(event)
		if err != nil {
			tx.Rollback()

			return errors.Wrapf(errors.ErrCodeJournalWriteFailed, err, "failed to encode %s event", event.Kind)
		}

		seq++

		_, err = j.sq.
			Insert("account_events").
			Columns("seq", "kind", "timestamp", "position_id", "payload").
			Values(seq, string(event.Kind), event.Timestamp, positionID(event), string(payload)).
			RunWith(tx).
			Exec()
		if err != nil {
			tx.Rollback()

			return errors.Wrapf(errors.ErrCodeJournalWriteFailed, err, "failed to insert %s event", event.Kind)
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrap(errors.ErrCodeJournalWriteFailed, "failed to commit events", err)
	}

	j.seq = seq

	return nil
}

// Events implements Journal.
func (j *DuckDBJournal) Events() ([]types.AccountEvent, error) {
	return j.Query(optional.None[types.AccountEventKind]())
}

// Query returns recorded events in emission order, optionally of one kind.
func (j *DuckDBJournal) Query(kind optional.Option[types.AccountEventKind]) ([]types.AccountEvent, error) {
	query := j.sq.
		Select("payload").
		From("account_events").
		OrderBy("seq ASC")

	if kind.IsSome() {
		query = query.Where(squirrel.Eq{"kind": string(kind.Unwrap())})
	}

	rows, err := query.RunWith(j.db).Query()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeJournalQueryFailed, "failed to query account events", err)
	}
	defer rows.Close()

	var events []types.AccountEvent
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, errors.Wrap(errors.ErrCodeJournalQueryFailed, "failed to scan account event", err)
		}

		var event types.AccountEvent
		if err := json.Unmarshal([]byte(payload), &event); err != nil {
			return nil, errors.Wrap(errors.ErrCodeJournalQueryFailed, "failed to decode account event", err)
		}

		events = append(events, event)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeJournalQueryFailed, "error iterating account events", err)
	}

	return events, nil
}

// Count returns the number of events recorded for a position.
func (j *DuckDBJournal) Count(positionID string) (int, error) {
	var count int

	err := j.sq.
		Select("COUNT(*)").
		From("account_events").
		Where(squirrel.Eq{"position_id": positionID}).
		RunWith(j.db).
		QueryRow().
		Scan(&count)
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeJournalQueryFailed, "failed to count account events", err)
	}

	return count, nil
}

// ExportParquet writes the journal to dir/account_events.parquet and returns the file path.
func (j *DuckDBJournal) ExportParquet(dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", errors.Wrap(errors.ErrCodeJournalWriteFailed, "failed to create directory", err)
	}

	path := filepath.Join(dir, "account_events.parquet")

	// squirrel doesn't support COPY
	_, err := j.db.Exec(fmt.Sprintf(`COPY (SELECT * FROM account_events ORDER BY seq) TO '%s' (FORMAT PARQUET)`, strings.ReplaceAll(path, "'", "''")))
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeJournalWriteFailed, "failed to export account events to parquet", err)
	}

	j.logger.Info("Exported account events", zap.String("path", path))

	return path, nil
}

// Close closes the database.
func (j *DuckDBJournal) Close() error {
	return j.db.Close()
}
