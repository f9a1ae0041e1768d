package service

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"skillpath/backend/internal/model"
	"skillpath/backend/pkg/llm"
)

// RequirementOverride 自然语言定制需求解析出的课程结构覆盖
// 零值表示无覆盖
type RequirementOverride struct {
	TotalWeeks    *float64 `json:"total_weeks"`
	TotalHours    *float64 `json:"total_hours"`
	ModulesToKeep *int     `json:"modules_to_keep"`
}

// RevisionSuggestion 修订请求解析出的偏好调整建议
type RevisionSuggestion struct {
	StudyHoursPerWeek *float64 `json:"study_hours_per_week"`
	PreferredDays     []string `json:"preferred_days"`
	PreferredTimes    []string `json:"preferred_times"`
	MaxSessionLength  *float64 `json:"max_session_length"`
	TotalWeeks        *float64 `json:"total_weeks"`
}

// requirementAdapter 把用户的自由文本需求翻译成结构化覆盖，
// LLM 不可用或输出无效时静默回退到空覆盖
type requirementAdapter struct {
	llm    llm.Client
	logger *zap.Logger
}

func newRequirementAdapter(client llm.Client, logger *zap.Logger) *requirementAdapter {
	return &requirementAdapter{llm: client, logger: logger}
}

const parseRequirementsSystem = `You translate a learner's free-text course requirements into a JSON override.
Respond with a single JSON object and nothing else. Use exactly these keys, null when the text does not mention them:
{"total_weeks": number|null, "total_hours": number|null, "modules_to_keep": integer|null}
total_weeks may be fractional (e.g. 2.5). Do not invent values the text does not state.`

// ParseRequirements 解析定制需求文本，空文本直接返回空覆盖（不调用 LLM）
// 任何失败都只降级为空覆盖并记录 warn，绝不向上抛错
func (a *requirementAdapter) ParseRequirements(ctx context.Context, requirements string) RequirementOverride {
	if requirements == "" {
		return RequirementOverride{}
	}

	temp := 0.1
	raw, err := a.llm.Generate(ctx, llm.GenerateRequest{
		SystemPrompt: parseRequirementsSystem,
		UserPrompt:   fmt.Sprintf("Requirements: %s", requirements),
		Temperature:  &temp,
	})
	if err != nil {
		a.logger.Warn("需求解析 LLM 调用失败，忽略定制需求", zap.Error(err))
		return RequirementOverride{}
	}

	override, err := llm.ExtractJSON[RequirementOverride](raw, nil)
	if err != nil {
		a.logger.Warn("需求解析输出无效，忽略定制需求", zap.Error(err))
		return RequirementOverride{}
	}

	// 非正数值视为无效字段，单独丢弃
	if override.TotalWeeks != nil && *override.TotalWeeks <= 0 {
		override.TotalWeeks = nil
	}
	if override.TotalHours != nil && *override.TotalHours <= 0 {
		override.TotalHours = nil
	}
	if override.ModulesToKeep != nil && *override.ModulesToKeep <= 0 {
		override.ModulesToKeep = nil
	}
	return override
}

const suggestRevisionSystem = `You adjust a learner's study preferences based on their revision request.
Respond with a single JSON object and nothing else. Use exactly these keys, null for anything the request does not ask to change:
{"study_hours_per_week": number|null, "preferred_days": [weekday names]|null, "preferred_times": ["Morning"|"Afternoon"|"Evening"]|null, "max_session_length": number|null, "total_weeks": number|null}
Weekday names are full English names like "Monday".`

// SuggestRevision 根据修订请求生成偏好调整建议，失败时返回 nil
func (a *requirementAdapter) SuggestRevision(ctx context.Context, prior model.Preferences, request string) *RevisionSuggestion {
	prefsJSON, _ := json.Marshal(prior)

	temp := 0.1
	raw, err := a.llm.Generate(ctx, llm.GenerateRequest{
		SystemPrompt: suggestRevisionSystem,
		UserPrompt:   fmt.Sprintf("Current preferences: %s\nRevision request: %s", prefsJSON, request),
		Temperature:  &temp,
	})
	if err != nil {
		a.logger.Warn("修订建议 LLM 调用失败，沿用原偏好", zap.Error(err))
		return nil
	}

	sug, err := llm.ExtractJSON[RevisionSuggestion](raw, nil)
	if err != nil {
		a.logger.Warn("修订建议输出无效，沿用原偏好", zap.Error(err))
		return nil
	}
	return &sug
}
