package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"go.uber.org/zap"

	"skillpath/backend/internal/dto"
	"skillpath/backend/pkg/llm"
)

// 技能差距分析的生成参数
var (
	skillGapTokens = 800
	skillGapTemp   = 0.3
)

// AdvisorService 学习顾问：多智能体综合分析 + 技能差距学习路径
type AdvisorService interface {
	// Analyze 并发运行三个分析智能体并汇总输出
	Analyze(ctx context.Context, req *dto.AnalyzeRequest) (*dto.AnalyzeResponse, error)

	// AnalyzeSkillGap 基于技能差距生成推荐学习序列
	AnalyzeSkillGap(ctx context.Context, req *dto.SkillGapRequest) (*dto.SkillGapResponse, error)
}

type advisorService struct {
	llm    llm.Client
	logger *zap.Logger
}

func NewAdvisorService(client llm.Client, logger *zap.Logger) AdvisorService {
	return &advisorService{llm: client, logger: logger}
}

// Analyze 三个智能体并发分析，任一智能体失败只降级自身结果
// 不取消其它分支，因此不使用 errgroup 的派生 context 做互相取消
func (s *advisorService) Analyze(ctx context.Context, req *dto.AnalyzeRequest) (*dto.AnalyzeResponse, error) {
	var (
		skills   dto.AgentResult
		goals    dto.AgentResult
		feedback dto.AgentResult
	)

	g := new(errgroup.Group)
	g.SetLimit(3)
	g.Go(func() error {
		skills = s.runSkillsAgent(ctx, req)
		return nil
	})
	g.Go(func() error {
		goals = s.runGoalsAgent(ctx, req)
		return nil
	})
	g.Go(func() error {
		feedback = s.runFeedbackAgent(ctx, req)
		return nil
	})
	_ = g.Wait()

	successful := 0
	for _, r := range []dto.AgentResult{skills, goals, feedback} {
		if r.Confidence != "low" {
			successful++
		}
	}
	s.logger.Info("多智能体分析完成",
		zap.String("user", req.UserProfile.Name),
		zap.Int("successful_agents", successful))

	resp := &dto.AnalyzeResponse{
		CoordinationMetadata: dto.CoordinationMetadata{
			TotalAgents:       3,
			SuccessfulAgents:  successful,
			AnalysisTimestamp: time.Now().Format(time.RFC3339),
		},
		CoursePriorities: extractCoursePriorities(goals, feedback),
	}
	resp.AgentOutputs.SkillsAnalysis = skills
	resp.AgentOutputs.GoalsAnalysis = goals
	resp.AgentOutputs.FeedbackAnalysis = feedback
	return resp, nil
}

// extractCoursePriorities 合并目标匹配分与学习风格适配分，按总分降序
func extractCoursePriorities(goals, feedback dto.AgentResult) dto.CoursePriorities {
	scores := map[string]*dto.ScoredCourse{}

	addScore := func(courseID string, score float64, factor string) {
		if courseID == "" {
			return
		}
		entry, ok := scores[courseID]
		if !ok {
			entry = &dto.ScoredCourse{CourseID: courseID}
			scores[courseID] = entry
		}
		entry.TotalScore += score
		entry.Factors = append(entry.Factors, factor)
	}

	forEachEntry(goals.Analysis, "goal_course_alignment", func(entry map[string]any) {
		addScore(stringField(entry, "course_id"), numberField(entry, "alignment_score", 5), "goals_alignment")
	})
	forEachEntry(feedback.Analysis, "course_preferences", func(entry map[string]any) {
		addScore(stringField(entry, "course_id"), numberField(entry, "suitability_score", 5), "learning_style_match")
	})

	prioritized := make([]dto.ScoredCourse, 0, len(scores))
	for _, entry := range scores {
		prioritized = append(prioritized, *entry)
	}
	sort.SliceStable(prioritized, func(i, j int) bool {
		return prioritized[i].TotalScore > prioritized[j].TotalScore
	})

	return dto.CoursePriorities{
		PrioritizedCourses: prioritized,
		ScoringFactors:     []string{"skills_priority", "goals_alignment", "learning_style_match"},
	}
}

// forEachEntry 遍历分析结果中指定 key 下的对象数组，容忍缺失与类型不符
func forEachEntry(analysis map[string]any, key string, fn func(map[string]any)) {
	list, ok := analysis[key].([]any)
	if !ok {
		return
	}
	for _, item := range list {
		if entry, ok := item.(map[string]any); ok {
			fn(entry)
		}
	}
}

func stringField(m map[string]any, key string) string {
	v, _ := m[key].(string)
	return v
}

func numberField(m map[string]any, key string, fallback float64) float64 {
	switch v := m[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	default:
		return fallback
	}
}

// AnalyzeSkillGap 请求 LLM 生成课程学习序列，失败时退回静态推荐
func (s *advisorService) AnalyzeSkillGap(ctx context.Context, req *dto.SkillGapRequest) (*dto.SkillGapResponse, error) {
	prompt := buildSkillGapPrompt(req)

	resp := &dto.SkillGapResponse{
		Success:        true,
		UserProfile:    req.UserProfile,
		SkillGapsCount: len(req.SkillGaps),
	}

	raw, err := s.llm.Generate(ctx, llm.GenerateRequest{
		SystemPrompt: "You are an expert AI learning advisor. Provide strategic, career-focused learning recommendations in valid JSON format.",
		UserPrompt:   prompt,
		Temperature:  &skillGapTemp,
		MaxTokens:    &skillGapTokens,
	})
	if err != nil {
		s.logger.Warn("技能差距分析调用失败", zap.Error(err))
		resp.AIRecommendations = staticSkillGapRecommendation(req,
			"Unable to generate AI recommendations at this time. Please try the standard recommendations.",
			"Timeline unavailable")
		return resp, nil
	}

	rec, err := llm.ExtractJSON[dto.SkillGapRecommendation](raw, nil)
	if err != nil {
		s.logger.Warn("技能差距分析响应无法解析", zap.Error(err))
		resp.AIRecommendations = staticSkillGapRecommendation(req,
			"AI recommendations generated but could not be parsed properly. Please try again.",
			"Contact advisor for personalized timeline")
		return resp, nil
	}

	if rec.StrategicAdvice == "" {
		rec.StrategicAdvice = "AI recommendations available"
	}
	if rec.EstimatedTimeline == "" {
		rec.EstimatedTimeline = "Timeline to be determined"
	}
	resp.AIRecommendations = rec
	return resp, nil
}

func buildSkillGapPrompt(req *dto.SkillGapRequest) string {
	var skillParts []string
	for _, sk := range req.UserProfile.Skills {
		skillParts = append(skillParts, fmt.Sprintf("%s (Level %d)", sk.Name, sk.Rating))
	}
	var gapParts []string
	for _, gap := range req.SkillGaps {
		gapParts = append(gapParts, fmt.Sprintf("%s (Need Level %d)", gap.Name, gap.Level))
	}

	var coursesCtx string
	for _, c := range req.AvailableCourses {
		var taught []string
		for _, sk := range c.Skills {
			taught = append(taught, fmt.Sprintf("%s (Level %d)", sk.Name, sk.Level))
		}
		coursesCtx += fmt.Sprintf(`
Course: %s (ID: %s)
- Difficulty: %s
- Duration: %s
- Skills Taught: %s
- Description: %s
`, c.Title, c.ID, c.Difficulty, c.Duration, strings.Join(taught, ", "), c.Description)
	}

	role := req.UserProfile.Role
	return fmt.Sprintf(`You are an AI learning advisor specializing in data science career development.

USER PROFILE:
Name: %s
Role: %s
Current Skills: %s
Skill Gaps: %s

AVAILABLE COURSES:
%s

TASK: Analyze this user's learning needs and provide:

1. LEARNING PATH OPTIMIZATION: Recommend the optimal sequence of courses considering:
   - Skill dependencies (e.g., ML fundamentals before Deep Learning)
   - Difficulty progression (beginner → intermediate → advanced)
   - Role-specific priorities for %s

2. CONTEXTUAL REASONING: For each recommended course, explain:
   - Why this course fits their role and gaps
   - When to take it in the sequence
   - How it builds toward their career goals

3. PERSONALIZED GUIDANCE: Provide 1-2 sentences of strategic advice for their learning journey.

RESPONSE FORMAT (JSON):
{
  "recommended_sequence": [
    {
      "course_id": "course2",
      "course_title": "Machine Learning Fundamentals",
      "sequence_order": 1,
      "reasoning": "Start here because you need ML Level 3, and this builds from your current Level 2 foundation",
      "timing_advice": "Complete this first - it's prerequisite for advanced courses"
    }
  ],
  "strategic_advice": "As a %s, focus on MLOps after mastering ML fundamentals to lead technical teams effectively.",
  "estimated_timeline": "3-4 months for complete learning path"
}

Be concise but insightful. Focus on practical career advancement for a %s.`,
		req.UserProfile.Name, role, strings.Join(skillParts, ", "), strings.Join(gapParts, ", "), coursesCtx, role, role, role)
}

// staticSkillGapRecommendation LLM 不可用时的静态推荐：取前 3 门可用课程
func staticSkillGapRecommendation(req *dto.SkillGapRequest, advice, timeline string) dto.SkillGapRecommendation {
	rec := dto.SkillGapRecommendation{
		RecommendedSequence: []dto.CourseStep{},
		StrategicAdvice:     advice,
		EstimatedTimeline:   timeline,
	}
	for i, c := range req.AvailableCourses {
		if i >= 3 {
			break
		}
		rec.RecommendedSequence = append(rec.RecommendedSequence, dto.CourseStep{
			CourseID:      c.ID,
			CourseTitle:   c.Title,
			SequenceOrder: i + 1,
			Reasoning:     fmt.Sprintf("Covers %s relevant to your current gaps", joinSkillNames(c.Skills)),
			TimingAdvice:  "Follow the listed order",
		})
	}
	return rec
}
