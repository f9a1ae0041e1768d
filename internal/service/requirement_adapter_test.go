package service

import (
	"context"
	"testing"

	"go.uber.org/zap"

	"skillpath/backend/pkg/llm"
)

func TestParseRequirements_EmptyInput(t *testing.T) {
	fake := &fakeLLM{}
	adapter := newRequirementAdapter(fake, zap.NewNop())

	override := adapter.ParseRequirements(context.Background(), "")
	if override.TotalWeeks != nil || override.TotalHours != nil || override.ModulesToKeep != nil {
		t.Errorf("空需求应返回空覆盖，实际=%+v", override)
	}
	if fake.calls != 0 {
		t.Errorf("空需求不应调用 LLM，实际调用=%d 次", fake.calls)
	}
}

func TestParseRequirements_ValidResponse(t *testing.T) {
	fake := &fakeLLM{responses: []string{
		"```json\n{\"total_weeks\": 0.3, \"total_hours\": 12, \"modules_to_keep\": 2}\n```",
	}}
	adapter := newRequirementAdapter(fake, zap.NewNop())

	override := adapter.ParseRequirements(context.Background(), "finish in 2 days")
	if fake.calls != 1 {
		t.Fatalf("期望恰好 1 次 LLM 调用，实际=%d", fake.calls)
	}
	if override.TotalWeeks == nil || *override.TotalWeeks != 0.3 {
		t.Errorf("期望 total_weeks=0.3，实际=%v", override.TotalWeeks)
	}
	if override.TotalHours == nil || *override.TotalHours != 12 {
		t.Errorf("期望 total_hours=12，实际=%v", override.TotalHours)
	}
	if override.ModulesToKeep == nil || *override.ModulesToKeep != 2 {
		t.Errorf("期望 modules_to_keep=2，实际=%v", override.ModulesToKeep)
	}
}

func TestParseRequirements_NonPositiveValuesDropped(t *testing.T) {
	fake := &fakeLLM{responses: []string{
		`{"total_weeks": -2, "total_hours": 0, "modules_to_keep": 3}`,
	}}
	adapter := newRequirementAdapter(fake, zap.NewNop())

	override := adapter.ParseRequirements(context.Background(), "shorter please")
	if override.TotalWeeks != nil {
		t.Errorf("负的周数应被丢弃，实际=%v", *override.TotalWeeks)
	}
	if override.TotalHours != nil {
		t.Errorf("学时为 0 应被丢弃，实际=%v", *override.TotalHours)
	}
	if override.ModulesToKeep == nil || *override.ModulesToKeep != 3 {
		t.Errorf("合法的 modules_to_keep 应保留，实际=%v", override.ModulesToKeep)
	}
}

func TestParseRequirements_LLMFailureDegradesSilently(t *testing.T) {
	fake := &fakeLLM{err: llm.ErrUnavailable}
	adapter := newRequirementAdapter(fake, zap.NewNop())

	override := adapter.ParseRequirements(context.Background(), "make it intensive")
	if override.TotalWeeks != nil || override.TotalHours != nil || override.ModulesToKeep != nil {
		t.Errorf("LLM 失败应降级为空覆盖，实际=%+v", override)
	}
}

func TestParseRequirements_InvalidJSONDegradesSilently(t *testing.T) {
	fake := &fakeLLM{responses: []string{"I think two weeks sounds reasonable."}}
	adapter := newRequirementAdapter(fake, zap.NewNop())

	override := adapter.ParseRequirements(context.Background(), "two weeks")
	if override.TotalWeeks != nil || override.TotalHours != nil || override.ModulesToKeep != nil {
		t.Errorf("无效输出应降级为空覆盖，实际=%+v", override)
	}
}

func TestSuggestRevision_ValidResponse(t *testing.T) {
	fake := &fakeLLM{responses: []string{
		`{"study_hours_per_week": 20, "preferred_days": ["Saturday", "Sunday"], "max_session_length": 4, "total_weeks": 2}`,
	}}
	adapter := newRequirementAdapter(fake, zap.NewNop())

	sug := adapter.SuggestRevision(context.Background(), DefaultPreferences(), "weekends only, faster")
	if sug == nil {
		t.Fatal("SuggestRevision 应返回建议")
	}
	if sug.StudyHoursPerWeek == nil || *sug.StudyHoursPerWeek != 20 {
		t.Errorf("期望 study_hours_per_week=20，实际=%v", sug.StudyHoursPerWeek)
	}
	if len(sug.PreferredDays) != 2 {
		t.Errorf("期望 2 个偏好日，实际=%v", sug.PreferredDays)
	}
	if sug.TotalWeeks == nil || *sug.TotalWeeks != 2 {
		t.Errorf("期望 total_weeks=2，实际=%v", sug.TotalWeeks)
	}
}

func TestSuggestRevision_FailureReturnsNil(t *testing.T) {
	fake := &fakeLLM{err: llm.ErrTimeout}
	adapter := newRequirementAdapter(fake, zap.NewNop())

	if sug := adapter.SuggestRevision(context.Background(), DefaultPreferences(), "faster"); sug != nil {
		t.Errorf("LLM 失败应返回 nil，实际=%+v", sug)
	}
}
