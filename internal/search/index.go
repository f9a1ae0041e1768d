package search

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	_ "modernc.org/sqlite"
)

// Result 一条检索结果
type Result struct {
	Content  string
	Score    float64 // 0-1，越大越相关
	Metadata map[string]any
}

// Index 相似度检索索引
// 接受自由文本查询，按相关度降序返回至多 k 条结果
type Index interface {
	Add(ctx context.Context, content string, metadata map[string]any) error
	Search(ctx context.Context, query string, k int) ([]Result, error)
	Size(ctx context.Context) (int, error)
	Close() error
}

// sqliteIndex 基于 SQLite 的关键词重合度索引
type sqliteIndex struct {
	db *sql.DB
}

// NewSQLiteIndex 创建索引，path 为 ":memory:" 时纯内存运行
func NewSQLiteIndex(path string) (Index, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("打开索引库失败: %w", err)
	}

	const schema = `
CREATE TABLE IF NOT EXISTS documents (
	id       INTEGER PRIMARY KEY AUTOINCREMENT,
	content  TEXT NOT NULL,
	metadata TEXT NOT NULL DEFAULT '{}'
);`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("初始化索引表失败: %w", err)
	}

	return &sqliteIndex{db: db}, nil
}

func (s *sqliteIndex) Add(ctx context.Context, content string, metadata map[string]any) error {
	metaJSON, err := json.Marshal(metadata)
	if err != nil {
		return fmt.Errorf("序列化元数据失败: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		"INSERT INTO documents (content, metadata) VALUES (?, ?)",
		content, string(metaJSON),
	)
	return err
}

func (s *sqliteIndex) Search(ctx context.Context, query string, k int) ([]Result, error) {
	if k <= 0 {
		k = 4
	}
	keywords := tokenize(query)
	if len(keywords) == 0 {
		return nil, nil
	}

	// 先用 LIKE 粗筛候选，再在内存中按关键词重合度精排
	conditions := make([]string, 0, len(keywords))
	args := make([]any, 0, len(keywords))
	for _, kw := range keywords {
		conditions = append(conditions, "LOWER(content) LIKE ?")
		args = append(args, "%"+kw+"%")
	}

	sqlQuery := fmt.Sprintf(
		"SELECT content, metadata FROM documents WHERE %s",
		strings.Join(conditions, " OR "),
	)

	rows, err := s.db.QueryContext(ctx, sqlQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("检索失败: %w", err)
	}
	defer rows.Close()

	var results []Result
	for rows.Next() {
		var content, metaJSON string
		if err := rows.Scan(&content, &metaJSON); err != nil {
			continue
		}
		score := overlapScore(keywords, content)
		if score <= 0 {
			continue
		}
		var meta map[string]any
		if metaJSON != "" {
			_ = json.Unmarshal([]byte(metaJSON), &meta)
		}
		results = append(results, Result{Content: content, Score: score, Metadata: meta})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	sort.SliceStable(results, func(i, j int) bool { return results[i].Score > results[j].Score })
	if len(results) > k {
		results = results[:k]
	}
	return results, nil
}

func (s *sqliteIndex) Size(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM documents").Scan(&n)
	return n, err
}

func (s *sqliteIndex) Close() error { return s.db.Close() }

// tokenize 拆分查询为去重后的小写关键词
func tokenize(query string) []string {
	fields := strings.Fields(strings.ToLower(query))
	seen := make(map[string]struct{}, len(fields))
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.Trim(f, ".,!?;:\"'()")
		if len(f) < 2 {
			continue
		}
		if _, ok := seen[f]; ok {
			continue
		}
		seen[f] = struct{}{}
		out = append(out, f)
	}
	return out
}

// overlapScore 命中关键词数占查询关键词总数的比例
func overlapScore(keywords []string, content string) float64 {
	lower := strings.ToLower(content)
	hits := 0
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			hits++
		}
	}
	return float64(hits) / float64(len(keywords))
}
