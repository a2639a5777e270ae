// Package ledger 用 SQLite 记录批量生成中每条记录的处理结果。
package ledger

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// Status 为一条记录的处理状态。
type Status string

const (
	StatusDone    Status = "done"
	StatusSkipped Status = "skipped"
	StatusFailed  Status = "failed"
)

// Entry 为一条处理结果。
type Entry struct {
	RunID      string        `json:"run_id"`
	Record     string        `json:"record"`
	Path       string        `json:"path"`
	Status     Status        `json:"status"`
	Code       string        `json:"code,omitempty"`
	Error      string        `json:"error,omitempty"`
	Pages      int           `json:"pages"`
	OutOfFrame int           `json:"out_of_frame"`
	Duration   time.Duration `json:"duration"`
	FinishedAt time.Time     `json:"finished_at"`
}

// Ledger 封装结果表。并发写入由 database/sql 连接池与 busy_timeout 处理。
type Ledger struct {
	db *sql.DB
}

const schema = `
	CREATE TABLE IF NOT EXISTS outcomes (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL,
		record TEXT NOT NULL,
		path TEXT NOT NULL,
		status TEXT NOT NULL,
		code TEXT,
		error TEXT,
		pages INTEGER NOT NULL DEFAULT 0,
		out_of_frame INTEGER NOT NULL DEFAULT 0,
		duration_ms INTEGER NOT NULL DEFAULT 0,
		finished_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_outcomes_run ON outcomes(run_id);
	CREATE INDEX IF NOT EXISTS idx_outcomes_status ON outcomes(run_id, status);
`

// Open 打开（或创建）path 处的数据库。path 为 ":memory:" 时使用内存库。
func Open(path string) (*Ledger, error) {
	dsn := path
	if path != ":memory:" {
		dsn = path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(10000)"
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("打开结果库 %s 失败: %w", path, err)
	}
	if path == ":memory:" {
		db.SetMaxOpenConns(1)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("初始化结果库失败: %w", err)
	}
	return &Ledger{db: db}, nil
}

// Close 关闭数据库。
func (l *Ledger) Close() error { return l.db.Close() }

// Add 写入一条结果。
func (l *Ledger) Add(e Entry) error {
	if e.FinishedAt.IsZero() {
		e.FinishedAt = time.Now()
	}
	_, err := l.db.Exec(`
		INSERT INTO outcomes (run_id, record, path, status, code, error, pages, out_of_frame, duration_ms, finished_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, e.RunID, e.Record, e.Path, string(e.Status), e.Code, e.Error, e.Pages, e.OutOfFrame, e.Duration.Milliseconds(), e.FinishedAt.UnixMilli())
	if err != nil {
		return fmt.Errorf("写入结果 %s 失败: %w", e.Record, err)
	}
	return nil
}

// Entries 返回某次运行的全部结果，按写入顺序排列。
func (l *Ledger) Entries(runID string) ([]Entry, error) {
	rows, err := l.db.Query(`
		SELECT run_id, record, path, status, COALESCE(code, ''), COALESCE(error, ''), pages, out_of_frame, duration_ms, finished_at
		FROM outcomes WHERE run_id = ? ORDER BY id
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("查询结果失败: %w", err)
	}
	defer rows.Close()
	var out []Entry
	for rows.Next() {
		var e Entry
		var status string
		var durMs, finished int64
		if err := rows.Scan(&e.RunID, &e.Record, &e.Path, &status, &e.Code, &e.Error, &e.Pages, &e.OutOfFrame, &durMs, &finished); err != nil {
			return nil, fmt.Errorf("读取结果失败: %w", err)
		}
		e.Status = Status(status)
		e.Duration = time.Duration(durMs) * time.Millisecond
		e.FinishedAt = time.UnixMilli(finished)
		out = append(out, e)
	}
	return out, rows.Err()
}

// Summary 按状态统计某次运行的结果数。
func (l *Ledger) Summary(runID string) (map[Status]int, error) {
	rows, err := l.db.Query(`SELECT status, COUNT(*) FROM outcomes WHERE run_id = ? GROUP BY status`, runID)
	if err != nil {
		return nil, fmt.Errorf("统计结果失败: %w", err)
	}
	defer rows.Close()
	out := map[Status]int{}
	for rows.Next() {
		var s string
		var n int
		if err := rows.Scan(&s, &n); err != nil {
			return nil, err
		}
		out[Status(s)] = n
	}
	return out, rows.Err()
}
