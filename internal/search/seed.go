package search

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"skillpath/backend/internal/catalog"
)

// SeedCourses 把课程目录写入索引
func SeedCourses(ctx context.Context, idx Index, logger *zap.Logger) error {
	for _, c := range catalog.Courses() {
		meta := map[string]any{
			"course_id":  c.ID,
			"title":      c.Title,
			"difficulty": c.Difficulty,
			"duration":   c.Duration,
		}
		if err := idx.Add(ctx, c.SearchText(), meta); err != nil {
			return fmt.Errorf("索引课程 %s 失败: %w", c.ID, err)
		}
	}
	logger.Info("课程目录已写入检索索引", zap.Int("count", len(catalog.Courses())))
	return nil
}

// 文档分块上限（字符数），与入职文档的段落粒度匹配
const chunkSize = 1000

// SeedDocuments 加载目录下的 .txt 入职文档，分块后写入索引
// 目录不存在时仅告警，不视为错误
func SeedDocuments(ctx context.Context, idx Index, dir string, logger *zap.Logger) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Warn("入职文档目录不存在，跳过文档索引", zap.String("dir", dir))
			return nil
		}
		return fmt.Errorf("读取文档目录失败: %w", err)
	}

	total := 0
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".txt") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			logger.Warn("读取文档失败", zap.String("file", entry.Name()), zap.Error(err))
			continue
		}
		for _, chunk := range splitChunks(string(data), chunkSize) {
			meta := map[string]any{"source": entry.Name()}
			if err := idx.Add(ctx, chunk, meta); err != nil {
				return fmt.Errorf("索引文档 %s 失败: %w", entry.Name(), err)
			}
			total++
		}
	}
	logger.Info("入职文档已写入检索索引", zap.String("dir", dir), zap.Int("chunks", total))
	return nil
}

// splitChunks 按段落聚合成不超过 limit 字符的块
// 单个超长段落会被硬切
func splitChunks(text string, limit int) []string {
	paragraphs := strings.Split(text, "\n\n")
	var chunks []string
	var buf strings.Builder

	flush := func() {
		if s := strings.TrimSpace(buf.String()); s != "" {
			chunks = append(chunks, s)
		}
		buf.Reset()
	}

	for _, p := range paragraphs {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		for len(p) > limit {
			flush()
			chunks = append(chunks, p[:limit])
			p = p[limit:]
		}
		if buf.Len() > 0 && buf.Len()+len(p)+2 > limit {
			flush()
		}
		if buf.Len() > 0 {
			buf.WriteString("\n\n")
		}
		buf.WriteString(p)
	}
	flush()
	return chunks
}
