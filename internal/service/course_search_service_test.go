package service

import (
	"context"
	"strings"
	"testing"

	"go.uber.org/zap"

	"skillpath/backend/internal/dto"
	"skillpath/backend/internal/search"
	"skillpath/backend/pkg/llm"
)

func TestCourseSearch_BasicQuery(t *testing.T) {
	fake := &fakeLLM{responses: []string{"1. **Python Foundations** — best starting point."}}
	index := &fakeIndex{results: []search.Result{
		{Content: "python basics", Score: 0.9, Metadata: map[string]any{"course_id": "course5"}},
		{Content: "python advanced", Score: 0.7, Metadata: map[string]any{"course_id": "course4"}},
	}}
	svc := NewCourseSearchService(fake, index, zap.NewNop())

	resp, err := svc.Search(context.Background(), &dto.CourseSearchRequest{Query: "python for beginners"})
	if err != nil {
		t.Fatalf("Search 应成功: %v", err)
	}
	if resp.TotalFound != 2 {
		t.Errorf("应命中 2 门课程, got %d", resp.TotalFound)
	}
	for _, c := range resp.RelevantCourses {
		if c.ID != "course4" && c.ID != "course5" {
			t.Errorf("返回课程应为召回结果, got %s", c.ID)
		}
	}
	if !strings.Contains(resp.AIRecommendation, "Python Foundations") {
		t.Errorf("应返回 LLM 推荐语, got %q", resp.AIRecommendation)
	}
	// 课程上下文注入提示词
	if !strings.Contains(fake.prompts[0].UserPrompt+fake.prompts[0].SystemPrompt, "Difficulty:") {
		t.Errorf("提示词应包含课程上下文")
	}
}

func TestCourseSearch_AdvancedQueryAugmentsCourses(t *testing.T) {
	fake := &fakeLLM{responses: []string{"ok"}}
	// 只命中一门非进阶课程，advanced 查询应补充至多 2 门进阶 ML 课程
	index := &fakeIndex{results: []search.Result{
		{Content: "basics", Score: 0.9, Metadata: map[string]any{"course_id": "course5"}},
	}}
	svc := NewCourseSearchService(fake, index, zap.NewNop())

	resp, err := svc.Search(context.Background(), &dto.CourseSearchRequest{Query: "advanced machine learning courses"})
	if err != nil {
		t.Fatalf("Search 应成功: %v", err)
	}
	if resp.TotalFound != 3 {
		t.Errorf("应补充 2 门进阶课程, total=%d", resp.TotalFound)
	}

	augmented := 0
	for _, c := range resp.RelevantCourses {
		if c.ID == "course5" {
			continue
		}
		if !strings.EqualFold(c.Difficulty, "advanced") {
			t.Errorf("补充课程应为进阶难度, got %s (%s)", c.ID, c.Difficulty)
		}
		augmented++
	}
	if augmented != 2 {
		t.Errorf("补充课程应为 2 门, got %d", augmented)
	}
}

func TestCourseSearch_ResultCap(t *testing.T) {
	fake := &fakeLLM{responses: []string{"ok"}}
	index := &fakeIndex{results: []search.Result{
		{Metadata: map[string]any{"course_id": "course1"}},
		{Metadata: map[string]any{"course_id": "course2"}},
		{Metadata: map[string]any{"course_id": "course3"}},
		{Metadata: map[string]any{"course_id": "course4"}},
		{Metadata: map[string]any{"course_id": "course5"}},
		{Metadata: map[string]any{"course_id": "course6"}},
	}}
	svc := NewCourseSearchService(fake, index, zap.NewNop())

	resp, err := svc.Search(context.Background(), &dto.CourseSearchRequest{Query: "data science"})
	if err != nil {
		t.Fatalf("Search 应成功: %v", err)
	}
	if resp.TotalFound != 6 {
		t.Errorf("total_found 应为截断前数量, got %d", resp.TotalFound)
	}
	if len(resp.RelevantCourses) != courseResultLimit {
		t.Errorf("返回课程应截断到 %d 门, got %d", courseResultLimit, len(resp.RelevantCourses))
	}
}

func TestCourseSearch_LLMDownFallback(t *testing.T) {
	fake := &fakeLLM{err: llm.ErrUnavailable}
	index := &fakeIndex{results: []search.Result{
		{Metadata: map[string]any{"course_id": "course5"}},
	}}
	svc := NewCourseSearchService(fake, index, zap.NewNop())

	resp, err := svc.Search(context.Background(), &dto.CourseSearchRequest{Query: "python"})
	if err != nil {
		t.Fatalf("LLM 失败不应中断搜索: %v", err)
	}
	if !strings.Contains(resp.AIRecommendation, "temporarily unavailable") {
		t.Errorf("LLM 失败应返回兜底推荐语, got %q", resp.AIRecommendation)
	}
	if len(resp.RelevantCourses) != 1 {
		t.Errorf("课程列表仍应照常返回, got %d", len(resp.RelevantCourses))
	}
}

func TestCourseSearch_SearchFailure(t *testing.T) {
	svc := NewCourseSearchService(&fakeLLM{}, errIndex{}, zap.NewNop())

	if _, err := svc.Search(context.Background(), &dto.CourseSearchRequest{Query: "python"}); err == nil {
		t.Fatal("索引失败应返回错误")
	}
}

func TestCourseSearchHealth(t *testing.T) {
	index := &fakeIndex{size: 12}
	svc := NewCourseSearchService(&fakeLLM{}, index, zap.NewNop())

	health, err := svc.Health(context.Background())
	if err != nil {
		t.Fatalf("Health 应成功: %v", err)
	}
	if health.Status != "Course Search API OK" {
		t.Errorf("状态文案不符, got %q", health.Status)
	}
	if health.IndexedDocs != 12 {
		t.Errorf("索引文档数应为 12, got %d", health.IndexedDocs)
	}
}
