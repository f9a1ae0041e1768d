package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"skillpath/backend/internal/catalog"
	"skillpath/backend/internal/dto"
	"skillpath/backend/pkg/llm"
)

// ── 分析智能体 ──
// 三个智能体各自向 LLM 发一次结构化分析请求，失败时返回
// confidence=low 的兜底分析，绝不向调用方冒泡错误

const (
	agentSkills   = "skills_analysis"
	agentGoals    = "goals_analysis"
	agentFeedback = "feedback_analysis"
)

// 各智能体的生成参数：技能分析要求输出最稳定，温度最低
var (
	skillsAgentTokens   = 80
	skillsAgentTemp     = 0.1
	goalsAgentTokens    = 100
	goalsAgentTemp      = 0.2
	feedbackAgentTokens = 300
	feedbackAgentTemp   = 0.2
)

// runSkillsAgent 分析用户当前技能与课程技能图谱的差距
func (s *advisorService) runSkillsAgent(ctx context.Context, req *dto.AnalyzeRequest) dto.AgentResult {
	var skillParts []string
	for _, sk := range req.UserProfile.Skills {
		skillParts = append(skillParts, fmt.Sprintf("%s (Level %d)", sk.Name, sk.Rating))
	}

	courseSkills := map[string]map[string]any{}
	for _, c := range req.AvailableCourses {
		var taught []string
		for _, sk := range c.Skills {
			taught = append(taught, fmt.Sprintf("%s (Level %d)", sk.Name, sk.Level))
		}
		courseSkills[c.ID] = map[string]any{"title": c.Title, "skills": taught}
	}
	coursesJSON, err := json.MarshalIndent(courseSkills, "", " ")
	if err != nil {
		coursesJSON = []byte("{}")
	}

	prompt := fmt.Sprintf(`Analyze skills for learning path optimization.

User: %s (%s)
Skills: %s
Courses: %s

Return JSON:
{
  "critical_gaps": [
    {
      "skill_name": "Machine Learning",
      "current_level": 2,
      "required_level": 4,
      "impact": "high"
    }
  ],
  "learning_readiness": [
    {
      "skill_name": "Deep Learning",
      "ready_now": true,
      "prerequisites_needed": ["ML Level 3"]
    }
  ],
  "estimated_readiness": "6-8 weeks"
}`, req.UserProfile.Name, req.UserProfile.Role, strings.Join(skillParts, ", "), coursesJSON)

	raw, err := s.llm.Generate(ctx, llm.GenerateRequest{
		SystemPrompt: "You are an expert Skills Analysis AI agent. Provide precise, actionable skills analysis in valid JSON format.",
		UserPrompt:   prompt,
		Temperature:  &skillsAgentTemp,
		MaxTokens:    &skillsAgentTokens,
	})
	if err != nil {
		s.logger.Warn("技能分析智能体调用失败", zap.Error(err))
		return dto.AgentResult{
			Agent: agentSkills,
			Analysis: map[string]any{
				"critical_gaps":       []any{},
				"learning_readiness":  []any{},
				"skill_priorities":    []any{},
				"learning_approach":   "Unable to analyze - using default approach",
				"estimated_readiness": "Timeline unavailable",
			},
			Confidence: "low",
			Error:      err.Error(),
		}
	}

	analysis, err := llm.ExtractJSON[map[string]any](raw, nil)
	if err != nil {
		s.logger.Warn("技能分析响应无法解析", zap.Error(err))
		return dto.AgentResult{
			Agent: agentSkills,
			Analysis: map[string]any{
				"critical_gaps":       []any{},
				"learning_readiness":  []any{},
				"skill_priorities":    []any{},
				"learning_approach":   "Standard progressive learning approach",
				"estimated_readiness": "8-12 weeks",
			},
			Confidence: "low",
			Error:      "JSON parsing failed",
		}
	}

	return dto.AgentResult{Agent: agentSkills, Analysis: analysis, Confidence: "high"}
}

// runGoalsAgent 从绩效反馈中提取职业目标并评估课程匹配度
// 反馈中没有明确目标时按当前角色推断
func (s *advisorService) runGoalsAgent(ctx context.Context, req *dto.AnalyzeRequest) dto.AgentResult {
	var goalsText strings.Builder
	for _, fb := range req.Feedback {
		if fb.Goals != "" {
			fmt.Fprintf(&goalsText, "Goal: %s ", fb.Goals)
		}
	}
	goals := goalsText.String()
	if goals == "" {
		goals = fmt.Sprintf("Advance in %s position", req.UserProfile.Role)
	}

	var coursesCtx strings.Builder
	for _, c := range req.AvailableCourses {
		fmt.Fprintf(&coursesCtx, `
Course: %s (ID: %s)
- Difficulty: %s
- Duration: %s
- Skills: %s
- Description: %s
`, c.Title, c.ID, c.Difficulty, c.Duration, joinSkillNames(c.Skills), c.Description)
	}

	prompt := fmt.Sprintf(`Analyze goals and recommend courses.

User: %s (%s)
Goals: %s

Courses:
%s

Return JSON:
{
  "goal_course_alignment": [
    {
      "course_id": "course2",
      "course_title": "Machine Learning Fundamentals",
      "alignment_score": 9,
      "goal_relevance": "Essential for data science leadership role advancement",
      "career_impact": "high"
    }
  ],
  "strategic_timeline": {
    "short_term_priority": ["course2", "course3"],
    "medium_term_goals": ["advanced_courses"],
    "long_term_vision": "Technical leadership in ML/AI teams"
  },
  "career_progression": {
    "current_level": "team_lead",
    "target_level": "senior_technical_leader",
    "key_skills_needed": ["MLOps", "Cloud Architecture"],
    "timeline_months": 12
  }
}`, req.UserProfile.Name, req.UserProfile.Role, goals, coursesCtx.String())

	raw, err := s.llm.Generate(ctx, llm.GenerateRequest{
		SystemPrompt: "You are an expert Goals Analysis AI agent. Provide strategic career-focused analysis in valid JSON format.",
		UserPrompt:   prompt,
		Temperature:  &goalsAgentTemp,
		MaxTokens:    &goalsAgentTokens,
	})
	if err != nil {
		s.logger.Warn("目标分析智能体调用失败", zap.Error(err))
		return dto.AgentResult{
			Agent:      agentGoals,
			Analysis:   goalsFallbackAnalysis(req.UserProfile.Role, "Unable to analyze goals", "Advanced role"),
			Confidence: "low",
			Error:      err.Error(),
		}
	}

	analysis, err := llm.ExtractJSON[map[string]any](raw, nil)
	if err != nil {
		s.logger.Warn("目标分析响应无法解析", zap.Error(err))
		return dto.AgentResult{
			Agent:      agentGoals,
			Analysis:   goalsFallbackAnalysis(req.UserProfile.Role, "Career advancement in current role", "Senior "+req.UserProfile.Role),
			Confidence: "low",
			Error:      "JSON parsing failed",
		}
	}

	return dto.AgentResult{Agent: agentGoals, Analysis: analysis, Confidence: "high"}
}

func goalsFallbackAnalysis(role, vision, targetLevel string) map[string]any {
	return map[string]any{
		"goal_course_alignment": []any{},
		"strategic_timeline": map[string]any{
			"short_term_priority": []any{},
			"medium_term_goals":   []any{},
			"long_term_vision":    vision,
		},
		"career_progression": map[string]any{
			"current_level":     role,
			"target_level":      targetLevel,
			"key_skills_needed": []any{},
			"timeline_months":   12,
		},
		"roi_recommendations": []any{},
	}
}

// runFeedbackAgent 从历史绩效反馈推断学习风格与课程偏好
func (s *advisorService) runFeedbackAgent(ctx context.Context, req *dto.AnalyzeRequest) dto.AgentResult {
	var feedbackSummary strings.Builder
	if len(req.Feedback) > 0 {
		for _, fb := range req.Feedback {
			date := fb.Date
			if date == "" {
				date = "Unknown"
			}
			qualitative := fb.QualitativeFeedback
			if qualitative == "" {
				qualitative = "None"
			}
			improvement := fb.AreasForImprovement
			if improvement == "" {
				improvement = "None"
			}
			goals := fb.Goals
			if goals == "" {
				goals = "None"
			}
			fmt.Fprintf(&feedbackSummary, `
Feedback Date: %s
Technical Skills: %d/5
Communication: %d/5
Teamwork: %d/5
Problem Solving: %d/5
Initiative: %d/5
Qualitative Feedback: %s
Areas for Improvement: %s
Goals: %s
`, date, fb.TechnicalSkills, fb.Communication, fb.Teamwork, fb.ProblemSolving, fb.Initiative, qualitative, improvement, goals)
		}
	} else {
		feedbackSummary.WriteString("No feedback data available - will use general recommendations")
	}

	var coursesInfo strings.Builder
	for _, c := range req.AvailableCourses {
		fmt.Fprintf(&coursesInfo, `
Course: %s (ID: %s)
- Type: %s level
- Duration: %s
- Format: Online learning
- Skills Focus: %s
`, c.Title, c.ID, c.Difficulty, c.Duration, joinSkillNames(c.Skills))
	}

	prompt := fmt.Sprintf(`You are a Feedback Analysis AI agent specialized in learning style assessment and course preference matching.

USER PROFILE:
Name: %s
Role: %s

FEEDBACK HISTORY:
%s

AVAILABLE COURSES:
%s

TASK: Analyze feedback patterns to determine optimal learning approach and course preferences:

1. LEARNING STYLE ASSESSMENT:
   - Preferred learning methods (hands-on, theoretical, collaborative)
   - Strengths and weakness patterns
   - Optimal pace and difficulty progression

2. PERFORMANCE INSIGHTS:
   - Areas needing improvement from feedback
   - Consistent strengths to leverage
   - Learning challenges to address

3. COURSE PREFERENCE MATCHING:
   - Which courses match their learning style
   - Recommended delivery format
   - Suggested support mechanisms

Return JSON format:
{
  "learning_profile": {
    "preferred_style": "hands-on|theoretical|collaborative|mixed",
    "optimal_pace": "fast|moderate|slow",
    "strength_areas": ["problem_solving", "technical_skills"],
    "improvement_areas": ["communication", "teamwork"],
    "learning_confidence": "high|medium|low"
  },
  "course_preferences": [
    {
      "course_id": "course2",
      "suitability_score": 8,
      "learning_style_match": "high",
      "recommended_approach": "Start with foundational concepts, then hands-on projects",
      "support_needed": "minimal|moderate|high"
    }
  ],
  "personalized_recommendations": {
    "study_schedule": "intensive|regular|flexible",
    "collaboration_level": "solo|paired|group",
    "assessment_preference": "project|quiz|peer_review",
    "motivation_factors": ["career_advancement", "skill_building"]
  },
  "risk_factors": [
    {
      "factor": "time_management",
      "mitigation": "Structured timeline with milestones"
    }
  ]
}

Focus on actionable learning insights for %s.`,
		req.UserProfile.Name, req.UserProfile.Role, feedbackSummary.String(), coursesInfo.String(), req.UserProfile.Role)

	raw, err := s.llm.Generate(ctx, llm.GenerateRequest{
		SystemPrompt: "You are an expert Feedback Analysis AI agent. Provide personalized learning insights in valid JSON format.",
		UserPrompt:   prompt,
		Temperature:  &feedbackAgentTemp,
		MaxTokens:    &feedbackAgentTokens,
	})
	if err != nil {
		s.logger.Warn("反馈分析智能体调用失败", zap.Error(err))
		return dto.AgentResult{
			Agent: agentFeedback,
			Analysis: map[string]any{
				"learning_profile": map[string]any{
					"preferred_style":     "mixed",
					"optimal_pace":        "moderate",
					"strength_areas":      []any{},
					"improvement_areas":   []any{},
					"learning_confidence": "medium",
				},
				"course_preferences": []any{},
				"personalized_recommendations": map[string]any{
					"study_schedule":        "flexible",
					"collaboration_level":   "solo",
					"assessment_preference": "quiz",
					"motivation_factors":    []any{"skill_building"},
				},
				"risk_factors": []any{
					map[string]any{"factor": "analysis_unavailable", "mitigation": "Use standard learning approach"},
				},
			},
			Confidence: "low",
			Error:      err.Error(),
		}
	}

	analysis, err := llm.ExtractJSON[map[string]any](raw, nil)
	if err != nil {
		s.logger.Warn("反馈分析响应无法解析", zap.Error(err))
		return dto.AgentResult{
			Agent: agentFeedback,
			Analysis: map[string]any{
				"learning_profile": map[string]any{
					"preferred_style":     "mixed",
					"optimal_pace":        "moderate",
					"strength_areas":      []any{"technical_skills"},
					"improvement_areas":   []any{"communication"},
					"learning_confidence": "medium",
				},
				"course_preferences": []any{},
				"personalized_recommendations": map[string]any{
					"study_schedule":        "regular",
					"collaboration_level":   "paired",
					"assessment_preference": "project",
					"motivation_factors":    []any{"career_advancement"},
				},
				"risk_factors": []any{},
			},
			Confidence: "low",
			Error:      "JSON parsing failed",
		}
	}

	// 有反馈数据时置信度更高
	confidence := "medium"
	if len(req.Feedback) > 0 {
		confidence = "high"
	}
	return dto.AgentResult{Agent: agentFeedback, Analysis: analysis, Confidence: confidence}
}

func joinSkillNames(skills []catalog.Skill) string {
	names := make([]string, 0, len(skills))
	for _, sk := range skills {
		names = append(names, sk.Name)
	}
	return strings.Join(names, ", ")
}
