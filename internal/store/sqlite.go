package store

import (
	"database/sql"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"StockBoard/internal/model"
)

// SQLiteStore persists dashboard data to a local SQLite database.
type SQLiteStore struct {
	db   *sql.DB
	mu   sync.Mutex
	loc  *time.Location
	path string
}

// NewSQLiteStore opens (or creates) the database and runs migrations.
// Returned times are localized to loc.
func NewSQLiteStore(dbPath string, loc *time.Location) (*SQLiteStore, error) {
	if loc == nil {
		loc = time.UTC
	}
	if dir := filepath.Dir(dbPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode for better read performance while the dashboard writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	s := &SQLiteStore{db: db, loc: loc, path: dbPath}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Printf("[INFO] sqlite store opened: %s", dbPath)
	return s, nil
}

func (s *SQLiteStore) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS stock_data (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			ticker     TEXT NOT NULL,
			datetime   INTEGER NOT NULL,
			open       REAL NOT NULL,
			high       REAL NOT NULL,
			low        REAL NOT NULL,
			close      REAL NOT NULL,
			volume     INTEGER NOT NULL,
			period     TEXT NOT NULL,
			interval   TEXT NOT NULL,
			created_at INTEGER NOT NULL,
			UNIQUE(ticker, datetime, period, interval)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_stock_data_ticker_datetime
			ON stock_data(ticker, datetime)`,

		`CREATE TABLE IF NOT EXISTS technical_indicators (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			ticker      TEXT NOT NULL,
			datetime    INTEGER NOT NULL,
			sma_20      REAL,
			ema_20      REAL,
			rsi_14      REAL,
			macd        REAL,
			macd_signal REAL,
			bb_upper    REAL,
			bb_middle   REAL,
			bb_lower    REAL,
			created_at  INTEGER NOT NULL,
			UNIQUE(ticker, datetime)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_technical_indicators_ticker_datetime
			ON technical_indicators(ticker, datetime)`,

		`CREATE TABLE IF NOT EXISTS watchlist_tickers (
			id           INTEGER PRIMARY KEY AUTOINCREMENT,
			ticker       TEXT NOT NULL UNIQUE,
			company_name TEXT NOT NULL,
			sector       TEXT,
			added_date   INTEGER,
			notes        TEXT,
			target_price REAL,
			stop_loss    REAL,
			is_active    INTEGER DEFAULT 1,
			priority     INTEGER DEFAULT 3,
			created_at   INTEGER,
			updated_at   INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_watchlist_active_priority
			ON watchlist_tickers(is_active, priority)`,
	}

	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("exec %q: %w", stmt[:40], err)
		}
	}

	// Additive migration: long-window SMA columns arrived after the original
	// schema; add them as nullable without touching existing rows.
	return s.addMissingColumns("technical_indicators", map[string]string{
		"sma_50":  "REAL",
		"sma_100": "REAL",
		"sma_200": "REAL",
	})
}

func (s *SQLiteStore) addMissingColumns(table string, cols map[string]string) error {
	rows, err := s.db.Query(fmt.Sprintf("PRAGMA table_info(%s)", table))
	if err != nil {
		return fmt.Errorf("table_info %s: %w", table, err)
	}
	existing := map[string]bool{}
	for rows.Next() {
		var (
			cid     int
			name    string
			ctype   string
			notNull int
			dflt    sql.NullString
			pk      int
		)
		if err := rows.Scan(&cid, &name, &ctype, &notNull, &dflt, &pk); err != nil {
			rows.Close()
			return err
		}
		existing[name] = true
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return err
	}
	rows.Close()

	for name, ctype := range cols {
		if existing[name] {
			continue
		}
		if _, err := s.db.Exec(fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s %s", table, name, ctype)); err != nil {
			return fmt.Errorf("add column %s.%s: %w", table, name, err)
		}
		log.Printf("[INFO] migration: added column %s.%s", table, name)
	}
	return nil
}

func (s *SQLiteStore) UpsertBars(bars []model.Bar) error {
	if len(bars) == 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`INSERT INTO stock_data
		(ticker, datetime, open, high, low, close, volume, period, interval, created_at)
		VALUES (?,?,?,?,?,?,?,?,?,?)
		ON CONFLICT(ticker, datetime, period, interval) DO UPDATE SET
			open=excluded.open, high=excluded.high, low=excluded.low,
			close=excluded.close, volume=excluded.volume,
			created_at=excluded.created_at`)
	if err != nil {
		return fmt.Errorf("prepare: %w", err)
	}
	defer stmt.Close()

	now := time.Now().Unix()
	for _, b := range bars {
		if _, err := stmt.Exec(b.Ticker, b.Time.Unix(), b.Open, b.High, b.Low,
			b.Close, b.Volume, b.Period, b.Interval, now); err != nil {
			return fmt.Errorf("upsert bar %s@%d: %w", b.Ticker, b.Time.Unix(), err)
		}
	}
	return tx.Commit()
}

func (s *SQLiteStore) UpsertIndicators(recs []model.IndicatorRecord) error {
	if len(recs) == 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`INSERT INTO technical_indicators
		(ticker, datetime, sma_20, sma_50, sma_100, sma_200, ema_20, rsi_14,
		 macd, macd_signal, bb_upper, bb_middle, bb_lower, created_at)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?)
		ON CONFLICT(ticker, datetime) DO UPDATE SET
			sma_20=excluded.sma_20, sma_50=excluded.sma_50,
			sma_100=excluded.sma_100, sma_200=excluded.sma_200,
			ema_20=excluded.ema_20, rsi_14=excluded.rsi_14,
			macd=excluded.macd, macd_signal=excluded.macd_signal,
			bb_upper=excluded.bb_upper, bb_middle=excluded.bb_middle,
			bb_lower=excluded.bb_lower, created_at=excluded.created_at`)
	if err != nil {
		return fmt.Errorf("prepare: %w", err)
	}
	defer stmt.Close()

	now := time.Now().Unix()
	for _, r := range recs {
		if _, err := stmt.Exec(r.Ticker, r.Time.Unix(),
			r.SMA20, r.SMA50, r.SMA100, r.SMA200, r.EMA20, r.RSI14,
			r.MACD, r.MACDSignal, r.BBUpper, r.BBMiddle, r.BBLower, now); err != nil {
			return fmt.Errorf("upsert indicators %s@%d: %w", r.Ticker, r.Time.Unix(), err)
		}
	}
	return tx.Commit()
}

func (s *SQLiteStore) Bars(ticker, period, interval string, limit int) ([]model.Bar, error) {
	q := `SELECT datetime, open, high, low, close, volume
		FROM stock_data
		WHERE ticker = ? AND period = ? AND interval = ?
		ORDER BY datetime DESC`
	args := []interface{}{ticker, period, interval}
	if limit > 0 {
		q += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.Query(q, args...)
	if err != nil {
		return nil, fmt.Errorf("query bars: %w", err)
	}
	defer rows.Close()

	var bars []model.Bar
	for rows.Next() {
		var (
			b  model.Bar
			ts int64
		)
		if err := rows.Scan(&ts, &b.Open, &b.High, &b.Low, &b.Close, &b.Volume); err != nil {
			return nil, fmt.Errorf("scan bar: %w", err)
		}
		b.Ticker = ticker
		b.Period = period
		b.Interval = interval
		b.Time = time.Unix(ts, 0).In(s.loc)
		bars = append(bars, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Query runs newest-first so LIMIT keeps the most recent bars; flip back
	// to ascending for callers.
	for i, j := 0, len(bars)-1; i < j; i, j = i+1, j-1 {
		bars[i], bars[j] = bars[j], bars[i]
	}
	return bars, nil
}

func (s *SQLiteStore) Indicators(ticker string, limit int) ([]model.IndicatorRecord, error) {
	q := `SELECT datetime, sma_20, sma_50, sma_100, sma_200, ema_20, rsi_14,
			macd, macd_signal, bb_upper, bb_middle, bb_lower
		FROM technical_indicators
		WHERE ticker = ?
		ORDER BY datetime DESC`
	args := []interface{}{ticker}
	if limit > 0 {
		q += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.Query(q, args...)
	if err != nil {
		return nil, fmt.Errorf("query indicators: %w", err)
	}
	defer rows.Close()

	var recs []model.IndicatorRecord
	for rows.Next() {
		var (
			ts   int64
			cols [11]sql.NullFloat64
		)
		dest := []interface{}{&ts}
		for i := range cols {
			dest = append(dest, &cols[i])
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scan indicators: %w", err)
		}
		recs = append(recs, model.IndicatorRecord{
			Ticker:     ticker,
			Time:       time.Unix(ts, 0).In(s.loc),
			SMA20:      nullable(cols[0]),
			SMA50:      nullable(cols[1]),
			SMA100:     nullable(cols[2]),
			SMA200:     nullable(cols[3]),
			EMA20:      nullable(cols[4]),
			RSI14:      nullable(cols[5]),
			MACD:       nullable(cols[6]),
			MACDSignal: nullable(cols[7]),
			BBUpper:    nullable(cols[8]),
			BBMiddle:   nullable(cols[9]),
			BBLower:    nullable(cols[10]),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i, j := 0, len(recs)-1; i < j; i, j = i+1, j-1 {
		recs[i], recs[j] = recs[j], recs[i]
	}
	return recs, nil
}

func (s *SQLiteStore) IsFresh(ticker, period, interval string, ttl time.Duration) bool {
	cutoff := time.Now().Add(-ttl).Unix()
	var count int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM stock_data
		WHERE ticker = ? AND period = ? AND interval = ? AND created_at > ?`,
		ticker, period, interval, cutoff).Scan(&count)
	if err != nil {
		log.Printf("[WARN] freshness check failed for %s: %v", ticker, err)
		return false
	}
	return count > 0
}

func (s *SQLiteStore) PurgeOlderThan(cutoff time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var total int64
	for _, table := range []string{"stock_data", "technical_indicators"} {
		res, err := s.db.Exec(fmt.Sprintf("DELETE FROM %s WHERE created_at < ?", table), cutoff.Unix())
		if err != nil {
			return total, fmt.Errorf("purge %s: %w", table, err)
		}
		if n, err := res.RowsAffected(); err == nil {
			total += n
		}
	}
	return total, nil
}

func (s *SQLiteStore) AddWatch(e *model.WatchEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var active sql.NullInt64
	err := s.db.QueryRow(`SELECT is_active FROM watchlist_tickers WHERE ticker = ?`, e.Ticker).Scan(&active)
	switch {
	case err == sql.ErrNoRows:
		_, err := s.db.Exec(`INSERT INTO watchlist_tickers
			(ticker, company_name, sector, added_date, notes, target_price,
			 stop_loss, is_active, priority, created_at, updated_at)
			VALUES (?,?,?,?,?,?,?,?,?,?,?)`,
			e.Ticker, e.CompanyName, e.Sector, e.AddedDate.Unix(), e.Notes,
			e.TargetPrice, e.StopLoss, boolToInt(e.IsActive), e.Priority,
			e.CreatedAt.Unix(), e.UpdatedAt.Unix())
		if err != nil {
			return fmt.Errorf("insert watch: %w", err)
		}
		return nil
	case err != nil:
		return fmt.Errorf("check watch: %w", err)
	case active.Valid && active.Int64 != 0:
		return ErrDuplicate
	default:
		// Soft-deleted row exists: reactivate it as the new logical entry.
		_, err := s.db.Exec(`UPDATE watchlist_tickers SET
				company_name = ?, sector = ?, added_date = ?, notes = ?,
				target_price = ?, stop_loss = ?, is_active = 1,
				priority = ?, updated_at = ?
			WHERE ticker = ?`,
			e.CompanyName, e.Sector, e.AddedDate.Unix(), e.Notes,
			e.TargetPrice, e.StopLoss, e.Priority, e.UpdatedAt.Unix(), e.Ticker)
		if err != nil {
			return fmt.Errorf("reactivate watch: %w", err)
		}
		return nil
	}
}

func (s *SQLiteStore) Watchlist(activeOnly bool) ([]model.WatchEntry, error) {
	q := `SELECT ticker, company_name, sector, added_date, notes, target_price,
			stop_loss, is_active, priority, created_at, updated_at
		FROM watchlist_tickers`
	if activeOnly {
		q += " WHERE is_active = 1"
	}
	q += " ORDER BY priority ASC, added_date DESC"

	rows, err := s.db.Query(q)
	if err != nil {
		return nil, fmt.Errorf("query watchlist: %w", err)
	}
	defer rows.Close()

	var entries []model.WatchEntry
	for rows.Next() {
		e, err := s.scanWatchEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, *e)
	}
	return entries, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (s *SQLiteStore) scanWatchEntry(row rowScanner) (*model.WatchEntry, error) {
	var (
		e                 model.WatchEntry
		sector, notes     sql.NullString
		target, stop      sql.NullFloat64
		active            int
		added, crtd, updt int64
	)
	if err := row.Scan(&e.Ticker, &e.CompanyName, &sector, &added, &notes,
		&target, &stop, &active, &e.Priority, &crtd, &updt); err != nil {
		return nil, fmt.Errorf("scan watch entry: %w", err)
	}
	e.Sector = sector.String
	e.Notes = notes.String
	e.TargetPrice = nullable(target)
	e.StopLoss = nullable(stop)
	e.IsActive = active != 0
	e.AddedDate = time.Unix(added, 0).In(s.loc)
	e.CreatedAt = time.Unix(crtd, 0).In(s.loc)
	e.UpdatedAt = time.Unix(updt, 0).In(s.loc)
	return &e, nil
}

func (s *SQLiteStore) IsWatched(ticker string) (bool, error) {
	var count int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM watchlist_tickers
		WHERE ticker = ? AND is_active = 1`, ticker).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("check watchlist: %w", err)
	}
	return count > 0, nil
}

func (s *SQLiteStore) DeactivateWatch(ticker string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec(`UPDATE watchlist_tickers
		SET is_active = 0, updated_at = ?
		WHERE ticker = ? AND is_active = 1`,
		time.Now().Unix(), ticker)
	if err != nil {
		return false, fmt.Errorf("deactivate watch: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *SQLiteStore) UpdateWatch(ticker string, upd model.WatchUpdate) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	set := []string{"updated_at = ?"}
	args := []interface{}{time.Now().Unix()}
	if upd.Notes != nil {
		set = append(set, "notes = ?")
		args = append(args, *upd.Notes)
	}
	if upd.TargetPrice != nil {
		set = append(set, "target_price = ?")
		args = append(args, *upd.TargetPrice)
	}
	if upd.StopLoss != nil {
		set = append(set, "stop_loss = ?")
		args = append(args, *upd.StopLoss)
	}
	if upd.Priority != nil {
		set = append(set, "priority = ?")
		args = append(args, *upd.Priority)
	}
	if upd.IsActive != nil {
		set = append(set, "is_active = ?")
		args = append(args, boolToInt(*upd.IsActive))
	}
	args = append(args, ticker)

	res, err := s.db.Exec(
		fmt.Sprintf("UPDATE watchlist_tickers SET %s WHERE ticker = ?", strings.Join(set, ", ")),
		args...)
	if err != nil {
		return false, fmt.Errorf("update watch: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *SQLiteStore) MostRecentWatch() (*model.WatchEntry, error) {
	row := s.db.QueryRow(`SELECT ticker, company_name, sector, added_date, notes,
			target_price, stop_loss, is_active, priority, created_at, updated_at
		FROM watchlist_tickers
		WHERE is_active = 1
		ORDER BY added_date DESC
		LIMIT 1`)
	e, err := s.scanWatchEntry(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return e, nil
}

func (s *SQLiteStore) Stats() (*Stats, error) {
	st := &Stats{}
	if err := s.db.QueryRow("SELECT COUNT(*) FROM stock_data").Scan(&st.BarRows); err != nil {
		return nil, fmt.Errorf("count bars: %w", err)
	}
	if err := s.db.QueryRow("SELECT COUNT(*) FROM technical_indicators").Scan(&st.IndicatorRows); err != nil {
		return nil, fmt.Errorf("count indicators: %w", err)
	}

	rows, err := s.db.Query("SELECT DISTINCT ticker FROM stock_data ORDER BY ticker")
	if err != nil {
		return nil, fmt.Errorf("distinct tickers: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, err
		}
		st.Tickers = append(st.Tickers, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if fi, err := os.Stat(s.path); err == nil {
		st.SizeBytes = fi.Size()
	}
	return st, nil
}

func (s *SQLiteStore) Close() error {
	log.Println("[INFO] closing sqlite store")
	return s.db.Close()
}

func nullable(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
