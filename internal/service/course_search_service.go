package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"skillpath/backend/internal/catalog"
	"skillpath/backend/internal/dto"
	"skillpath/backend/internal/search"
	"skillpath/backend/pkg/llm"
)

// 课程检索参数：召回 6 条，响应最多返回 4 条
const (
	courseSearchK     = 6
	courseResultLimit = 4
)

// advancedQueryKeywords 触发进阶课程补充的查询词
var advancedQueryKeywords = []string{"advanced", "machine learning", "ml", "deep learning", "modeling"}

// advancedSkillNames 判定进阶 ML 相关课程的技能名
var advancedSkillNames = map[string]struct{}{
	"machine learning": {}, "deep learning": {}, "mlops": {}, "tensorflow": {}, "python": {},
}

const courseRecommendationFallback = "AI recommendations are temporarily unavailable. " +
	"Here are the most relevant courses for your query."

// CourseSearchService 自然语言课程搜索：向量召回 + LLM 推荐语
type CourseSearchService interface {
	Search(ctx context.Context, req *dto.CourseSearchRequest) (*dto.CourseSearchResponse, error)
	Health(ctx context.Context) (*dto.CourseSearchHealthResponse, error)
}

type courseSearchService struct {
	llm    llm.Client
	index  search.Index
	logger *zap.Logger
}

func NewCourseSearchService(client llm.Client, index search.Index, logger *zap.Logger) CourseSearchService {
	return &courseSearchService{
		llm:    client,
		index:  index,
		logger: logger,
	}
}

func (s *courseSearchService) Search(ctx context.Context, req *dto.CourseSearchRequest) (*dto.CourseSearchResponse, error) {
	query := strings.TrimSpace(req.Query)

	results, err := s.index.Search(ctx, query, courseSearchK)
	if err != nil {
		s.logger.Error("课程检索失败", zap.Error(err))
		return nil, err
	}

	// 召回结果的 course_id → 目录条目，保持目录顺序
	hitIDs := map[string]struct{}{}
	for _, r := range results {
		if id, ok := r.Metadata["course_id"].(string); ok {
			hitIDs[id] = struct{}{}
		}
	}
	var relevant []catalog.Course
	for _, c := range catalog.Courses() {
		if _, ok := hitIDs[c.ID]; ok {
			relevant = append(relevant, c)
		}
	}

	// 进阶 ML 类查询追加至多 2 门相关的进阶课程
	if containsAdvancedKeyword(query) {
		added := 0
		for _, c := range catalog.Courses() {
			if added >= 2 {
				break
			}
			if _, hit := hitIDs[c.ID]; hit {
				continue
			}
			if strings.EqualFold(c.Difficulty, "advanced") && hasAdvancedSkill(c) {
				relevant = append(relevant, c)
				added++
			}
		}
	}

	recommendation := s.recommend(ctx, query, relevant)

	totalFound := len(relevant)
	if len(relevant) > courseResultLimit {
		relevant = relevant[:courseResultLimit]
	}

	return &dto.CourseSearchResponse{
		Query:            query,
		AIRecommendation: recommendation,
		RelevantCourses:  relevant,
		TotalFound:       totalFound,
	}, nil
}

func containsAdvancedKeyword(query string) bool {
	lower := strings.ToLower(query)
	for _, kw := range advancedQueryKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

func hasAdvancedSkill(c catalog.Course) bool {
	for _, skill := range c.Skills {
		if _, ok := advancedSkillNames[strings.ToLower(skill.Name)]; ok {
			return true
		}
	}
	return false
}

// recommend 生成 AI 推荐语，失败时退回固定提示（课程列表仍照常返回）
func (s *courseSearchService) recommend(ctx context.Context, query string, courses []catalog.Course) string {
	var b strings.Builder
	for _, c := range courses {
		skills := make([]string, 0, len(c.Skills))
		for _, skill := range c.Skills {
			skills = append(skills, skill.Name)
		}
		fmt.Fprintf(&b, "\nCourse: %s\nSkills: %s\nDifficulty: %s\nDuration: %s\nDescription: %s\n---\n",
			c.Title, strings.Join(skills, ", "), c.Difficulty, c.Duration, c.Description)
	}

	prompt := fmt.Sprintf(`You are an AI career and learning advisor specializing in data science.

Available courses in our database:
%s

User query: "%s"

IMPORTANT RULES:
- ONLY recommend courses that are listed above in the "Available courses" section
- Use the EXACT course titles as shown above
- Do NOT invent or suggest courses that are not in the list
- If a user asks for something we don't have, suggest the closest alternatives from our available courses

ANALYZE the user's intent and respond accordingly:

1. If asking about SPECIFIC COURSES/SKILLS (e.g., "Python for beginners", "machine learning"):
   - Recommend 2-4 most relevant courses from the available list
   - Use exact course titles from above
   - Explain why they match their needs
   - Suggest a learning sequence if multiple courses are relevant

2. If asking about CAREER GOALS (e.g., "I want to get promoted", "become a data scientist"):
   - Provide strategic learning roadmap using only available courses
   - Recommend multiple courses that align with career progression
   - Include timeline suggestions

3. If asking about LEARNING PATH (e.g., "where should I start", "what's next"):
   - Suggest optimal learning sequence using available courses only
   - Explain dependencies between skills/courses
   - Recommend 2-3 complementary courses when possible

IMPORTANT: When multiple relevant courses are available, recommend several (2-4) to give users good options. Always use numbered lists for multiple recommendations.

Keep response under 250 words, conversational, and actionable. Focus on practical career advancement using ONLY the courses listed above.`,
		b.String(), query)

	maxTokens := 250
	temp := 0.3
	recommendation, err := s.llm.Generate(ctx, llm.GenerateRequest{
		SystemPrompt: "You are an expert AI learning advisor. Provide strategic, career-focused course recommendations.",
		UserPrompt:   prompt,
		MaxTokens:    &maxTokens,
		Temperature:  &temp,
	})
	if err != nil {
		s.logger.Warn("课程推荐 LLM 调用失败，使用兜底文案", zap.Error(err))
		return courseRecommendationFallback
	}
	return recommendation
}

func (s *courseSearchService) Health(ctx context.Context) (*dto.CourseSearchHealthResponse, error) {
	size, err := s.index.Size(ctx)
	if err != nil {
		s.logger.Error("查询索引规模失败", zap.Error(err))
		return nil, err
	}
	return &dto.CourseSearchHealthResponse{
		Status:      "Course Search API OK",
		IndexedDocs: size,
	}, nil
}
