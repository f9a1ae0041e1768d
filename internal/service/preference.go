package service

import (
	"skillpath/backend/internal/dto"
	"skillpath/backend/internal/model"
)

// weekdayNames 合法的星期名（英文全称）
var weekdayNames = map[string]struct{}{
	"Monday": {}, "Tuesday": {}, "Wednesday": {}, "Thursday": {},
	"Friday": {}, "Saturday": {}, "Sunday": {},
}

// timeBuckets 合法的时段名
var timeBuckets = map[string]struct{}{
	"Morning": {}, "Afternoon": {}, "Evening": {},
}

// DefaultPreferences 默认学习偏好
func DefaultPreferences() model.Preferences {
	return model.Preferences{
		StudyHoursPerWeek: 8,
		PreferredDays:     []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday"},
		PreferredTimes:    []string{"Morning", "Evening"},
		MaxSessionLength:  2,
		BreakDays:         []string{"Saturday", "Sunday"},
	}
}

// ResolvePreferences 合并学习偏好：base < user 覆盖 < 建议覆盖
// 纯函数；非法字段（未知星期名、非正数值）被忽略而非报错，
// 结果保证所有字段均已填充
func ResolvePreferences(base model.Preferences, user *dto.PreferencesOverride, sug *RevisionSuggestion) model.Preferences {
	out := base
	// 切片独立拷贝，避免与输入共享底层数组
	out.PreferredDays = append([]string(nil), base.PreferredDays...)
	out.PreferredTimes = append([]string(nil), base.PreferredTimes...)
	out.BreakDays = append([]string(nil), base.BreakDays...)

	if user != nil {
		if user.StudyHoursPerWeek != nil && *user.StudyHoursPerWeek > 0 {
			out.StudyHoursPerWeek = *user.StudyHoursPerWeek
		}
		if user.PreferredDays != nil {
			out.PreferredDays = filterWeekdays(user.PreferredDays)
		}
		if user.PreferredTimes != nil {
			out.PreferredTimes = filterTimeBuckets(user.PreferredTimes)
		}
		if user.MaxSessionLength != nil && *user.MaxSessionLength > 0 {
			out.MaxSessionLength = *user.MaxSessionLength
		}
		if user.BreakDays != nil {
			out.BreakDays = filterWeekdays(user.BreakDays)
		}
	}

	if sug != nil {
		if sug.StudyHoursPerWeek != nil && *sug.StudyHoursPerWeek > 0 {
			out.StudyHoursPerWeek = *sug.StudyHoursPerWeek
		}
		if sug.PreferredDays != nil {
			out.PreferredDays = filterWeekdays(sug.PreferredDays)
		}
		if sug.PreferredTimes != nil {
			out.PreferredTimes = filterTimeBuckets(sug.PreferredTimes)
		}
		if sug.MaxSessionLength != nil && *sug.MaxSessionLength > 0 {
			out.MaxSessionLength = *sug.MaxSessionLength
		}
	}

	return out
}

// filterWeekdays 丢弃未知星期名，保留输入顺序
func filterWeekdays(days []string) []string {
	out := make([]string, 0, len(days))
	for _, d := range days {
		if _, ok := weekdayNames[d]; ok {
			out = append(out, d)
		}
	}
	return out
}

// filterTimeBuckets 丢弃未知时段名，保留输入顺序
func filterTimeBuckets(times []string) []string {
	out := make([]string, 0, len(times))
	for _, t := range times {
		if _, ok := timeBuckets[t]; ok {
			out = append(out, t)
		}
	}
	return out
}
