package service

import (
	"reflect"
	"testing"

	"skillpath/backend/internal/dto"
)

func TestResolvePreferences_Defaults(t *testing.T) {
	got := ResolvePreferences(DefaultPreferences(), nil, nil)
	want := DefaultPreferences()
	if !reflect.DeepEqual(got, want) {
		t.Errorf("无覆盖时应返回默认偏好，实际=%+v", got)
	}
}

func TestResolvePreferences_UserOverride(t *testing.T) {
	hours := 12.0
	length := 1.5
	user := &dto.PreferencesOverride{
		StudyHoursPerWeek: &hours,
		PreferredDays:     []string{"Saturday", "Sunday"},
		MaxSessionLength:  &length,
	}

	got := ResolvePreferences(DefaultPreferences(), user, nil)
	if got.StudyHoursPerWeek != 12 {
		t.Errorf("期望每周 12 小时，实际=%.1f", got.StudyHoursPerWeek)
	}
	if !reflect.DeepEqual(got.PreferredDays, []string{"Saturday", "Sunday"}) {
		t.Errorf("期望周末偏好，实际=%v", got.PreferredDays)
	}
	if got.MaxSessionLength != 1.5 {
		t.Errorf("期望会话上限 1.5，实际=%.1f", got.MaxSessionLength)
	}
	// 未覆盖的字段保持默认
	if !reflect.DeepEqual(got.PreferredTimes, []string{"Morning", "Evening"}) {
		t.Errorf("未覆盖的时段偏好应保持默认，实际=%v", got.PreferredTimes)
	}
}

func TestResolvePreferences_SuggestionWinsOverUser(t *testing.T) {
	userHours := 10.0
	sugHours := 20.0
	user := &dto.PreferencesOverride{StudyHoursPerWeek: &userHours}
	sug := &RevisionSuggestion{
		StudyHoursPerWeek: &sugHours,
		PreferredDays:     []string{"Monday", "Tuesday"},
	}

	got := ResolvePreferences(DefaultPreferences(), user, sug)
	if got.StudyHoursPerWeek != 20 {
		t.Errorf("建议覆盖应优先于用户覆盖，实际=%.1f", got.StudyHoursPerWeek)
	}
	if !reflect.DeepEqual(got.PreferredDays, []string{"Monday", "Tuesday"}) {
		t.Errorf("期望 [Monday Tuesday]，实际=%v", got.PreferredDays)
	}
}

func TestResolvePreferences_InvalidValuesIgnored(t *testing.T) {
	badHours := -5.0
	badLength := 0.0
	user := &dto.PreferencesOverride{
		StudyHoursPerWeek: &badHours,
		MaxSessionLength:  &badLength,
		PreferredDays:     []string{"Monday", "Funday", "friday", "Sunday"},
		PreferredTimes:    []string{"Night", "Evening"},
	}

	got := ResolvePreferences(DefaultPreferences(), user, nil)
	if got.StudyHoursPerWeek != 8 {
		t.Errorf("非正数每周学时应被忽略，实际=%.1f", got.StudyHoursPerWeek)
	}
	if got.MaxSessionLength != 2 {
		t.Errorf("非正数会话上限应被忽略，实际=%.1f", got.MaxSessionLength)
	}
	// 未知星期名逐项丢弃，合法项保留原顺序
	if !reflect.DeepEqual(got.PreferredDays, []string{"Monday", "Sunday"}) {
		t.Errorf("期望 [Monday Sunday]，实际=%v", got.PreferredDays)
	}
	if !reflect.DeepEqual(got.PreferredTimes, []string{"Evening"}) {
		t.Errorf("期望 [Evening]，实际=%v", got.PreferredTimes)
	}
}

func TestResolvePreferences_Idempotent(t *testing.T) {
	hours := 6.0
	user := &dto.PreferencesOverride{
		StudyHoursPerWeek: &hours,
		PreferredDays:     []string{"Wednesday"},
	}
	sug := &RevisionSuggestion{PreferredTimes: []string{"Afternoon"}}

	first := ResolvePreferences(DefaultPreferences(), user, sug)
	second := ResolvePreferences(DefaultPreferences(), user, sug)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("相同输入应得到相同输出: %+v != %+v", first, second)
	}
}

func TestResolvePreferences_DoesNotAliasBase(t *testing.T) {
	base := DefaultPreferences()
	got := ResolvePreferences(base, nil, nil)
	got.PreferredDays[0] = "Sunday"
	if base.PreferredDays[0] != "Monday" {
		t.Error("结果切片不应与输入共享底层数组")
	}
}
