package service

import (
	"errors"
	"testing"
	"time"

	"skillpath/backend/internal/catalog"
	"skillpath/backend/internal/model"
)

// 固定基准时间：2025-03-10 是周一，起始日即 03-11 周二
var schedulerNow = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

func mwfPreferences() model.Preferences {
	return model.Preferences{
		StudyHoursPerWeek: 10,
		PreferredDays:     []string{"Monday", "Wednesday", "Friday"},
		PreferredTimes:    []string{"Morning"},
		MaxSessionLength:  2,
		BreakDays:         []string{"Saturday", "Sunday"},
	}
}

// ════════════════════════════════════════════════════════════
// generateEvents 测试
// ════════════════════════════════════════════════════════════

func TestGenerateEvents_ModuleHoursConserved(t *testing.T) {
	course := catalog.TemplateFor("Advanced Python for Data Science")
	events, err := generateEvents(&course, mwfPreferences(), schedulerNow)
	if err != nil {
		t.Fatalf("generateEvents 应成功: %v", err)
	}

	// 各模块学习会话时长之和应恰好等于模块学时，总和不超过课程总学时
	perModule := map[string]float64{}
	total := 0.0
	for _, ev := range events {
		if ev.Type != model.EventTypeStudy {
			continue
		}
		hours := ev.EndTime.Sub(ev.StartTime).Hours()
		perModule[ev.ModuleName] += hours
		total += hours
	}
	for _, m := range course.Modules {
		if got := perModule[m.Name]; got != m.Hours {
			t.Errorf("模块 %s 期望学时总和=%.1f，实际=%.1f", m.Name, m.Hours, got)
		}
	}
	if total > course.TotalHours {
		t.Errorf("学习会话总时长 %.1f 超过课程总学时 %.1f", total, course.TotalHours)
	}
}

func TestGenerateEvents_SessionConstraints(t *testing.T) {
	course := catalog.TemplateFor("Advanced Python for Data Science")
	prefs := mwfPreferences()
	events, err := generateEvents(&course, prefs, schedulerNow)
	if err != nil {
		t.Fatalf("generateEvents 应成功: %v", err)
	}

	allowedDays := map[time.Weekday]bool{time.Monday: true, time.Wednesday: true, time.Friday: true}
	for _, ev := range events {
		if ev.Type != model.EventTypeStudy {
			continue
		}
		hours := ev.EndTime.Sub(ev.StartTime).Hours()
		if hours > prefs.MaxSessionLength {
			t.Errorf("会话时长 %.1f 超过上限 %.1f: %s", hours, prefs.MaxSessionLength, ev.Title)
		}
		if !allowedDays[ev.StartTime.Weekday()] {
			t.Errorf("会话落在非偏好日 %s: %s", ev.StartTime.Weekday(), ev.Title)
		}
		// Morning 时段 → 09:00 开始
		if ev.StartTime.Hour() != 9 || ev.StartTime.Minute() != 0 {
			t.Errorf("期望会话从 09:00 开始，实际=%02d:%02d", ev.StartTime.Hour(), ev.StartTime.Minute())
		}
		if !ev.RequiresProof || ev.ProofType != model.ProofTypeStudySession {
			t.Errorf("学习会话应要求 study_session 凭证: %+v", ev)
		}
	}
}

func TestGenerateEvents_DeadlinesThreeDaysAfterLastSession(t *testing.T) {
	course := catalog.TemplateFor("Advanced Python for Data Science")
	events, err := generateEvents(&course, mwfPreferences(), schedulerNow)
	if err != nil {
		t.Fatalf("generateEvents 应成功: %v", err)
	}

	lastSession := map[string]time.Time{}
	for _, ev := range events {
		if ev.Type == model.EventTypeStudy {
			lastSession[ev.ModuleName] = ev.StartTime
		}
		if ev.Type == model.EventTypeDeadline {
			last, ok := lastSession[ev.ModuleName]
			if !ok {
				t.Fatalf("截止事件出现在任何 %s 会话之前", ev.ModuleName)
			}
			wantDay := time.Date(last.Year(), last.Month(), last.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, 3)
			if ev.StartTime.Year() != wantDay.Year() || ev.StartTime.YearDay() != wantDay.YearDay() {
				t.Errorf("模块 %s 截止日期望 %s，实际 %s", ev.ModuleName, wantDay.Format("01-02"), ev.StartTime.Format("01-02"))
			}
			if ev.StartTime.Hour() != 23 || ev.StartTime.Minute() != 59 {
				t.Errorf("截止时间应为 23:59，实际=%02d:%02d", ev.StartTime.Hour(), ev.StartTime.Minute())
			}
			if !ev.StartTime.Equal(ev.EndTime) {
				t.Error("截止事件的开始与结束时间应相同")
			}
		}
	}

	deadlines := 0
	for _, ev := range events {
		if ev.Type == model.EventTypeDeadline {
			deadlines++
		}
	}
	// 6 个模块全部带作业
	if deadlines != len(course.Modules) {
		t.Errorf("期望 %d 个截止事件，实际=%d", len(course.Modules), deadlines)
	}
}

func TestGenerateEvents_WeeklyReviewOnLatestPreferredDay(t *testing.T) {
	course := catalog.TemplateFor("Advanced Python for Data Science")
	events, err := generateEvents(&course, mwfPreferences(), schedulerNow)
	if err != nil {
		t.Fatalf("generateEvents 应成功: %v", err)
	}

	reviews := 0
	for _, ev := range events {
		if ev.Type != model.EventTypeMilestone {
			continue
		}
		reviews++
		if ev.StartTime.Weekday() != time.Friday {
			t.Errorf("周复盘应落在周五（最晚的偏好日），实际=%s", ev.StartTime.Weekday())
		}
		if ev.StartTime.Hour() != 16 {
			t.Errorf("周复盘应从 16:00 开始，实际=%02d:00", ev.StartTime.Hour())
		}
		if ev.EndTime.Sub(ev.StartTime) != time.Hour {
			t.Error("周复盘时长应为 1 小时")
		}
		if ev.RequiresProof {
			t.Error("周复盘不应要求凭证")
		}
		if ev.ModuleName != "" {
			t.Errorf("周复盘不应关联模块，实际=%s", ev.ModuleName)
		}
	}
	// 每周 3 次 × 2 小时 = 6 小时，40 学时需 7 周，模块排完即停
	if reviews != 7 {
		t.Errorf("期望 7 次周复盘，实际=%d", reviews)
	}
}

func TestGenerateEvents_FractionalWeeks(t *testing.T) {
	modules := make([]catalog.Module, 7)
	for i := range modules {
		modules[i] = catalog.Module{Name: string(rune('A' + i)), Hours: 2, HasAssignment: false}
	}
	course := catalog.CourseTemplate{
		Name:       "Crash Course",
		TotalWeeks: 2.0 / 7.0,
		TotalHours: 14,
		Modules:    modules,
	}
	prefs := model.Preferences{
		StudyHoursPerWeek: 8,
		PreferredDays: []string{
			"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday",
		},
		PreferredTimes:   []string{"Morning"},
		MaxSessionLength: 2,
	}

	events, err := generateEvents(&course, prefs, schedulerNow)
	if err != nil {
		t.Fatalf("generateEvents 应成功: %v", err)
	}
	if len(events) == 0 {
		t.Fatal("2 天的速成课程应产生事件")
	}

	// 只扫描 round(2/7*7)=2 个日历日，事件不得越过第 2 天
	cutoff := time.Date(2025, 3, 13, 0, 0, 0, 0, time.UTC)
	for _, ev := range events {
		if ev.Type == model.EventTypeMilestone {
			t.Error("不足一整周不应产生周复盘")
		}
		if !ev.StartTime.Before(cutoff) {
			t.Errorf("事件超出 2 天范围: %s @ %s", ev.Title, ev.StartTime)
		}
	}
}

func TestGenerateEvents_EmptyPreferredDays(t *testing.T) {
	course := catalog.TemplateFor("Advanced Python for Data Science")
	prefs := mwfPreferences()
	prefs.PreferredDays = nil

	events, err := generateEvents(&course, prefs, schedulerNow)
	if err != nil {
		t.Fatalf("空偏好日是退化输入而非错误: %v", err)
	}
	if len(events) != 0 {
		t.Errorf("空偏好日不应产生任何事件，实际=%d", len(events))
	}
}

func TestGenerateEvents_LimitedDaysCapSession(t *testing.T) {
	// 仅周末 2 天：每日一次会话，时长被上限截断
	course := catalog.TemplateFor("Advanced Machine Learning")
	prefs := model.Preferences{
		StudyHoursPerWeek: 10,
		PreferredDays:     []string{"Saturday", "Sunday"},
		PreferredTimes:    []string{"Afternoon"},
		MaxSessionLength:  3,
	}

	events, err := generateEvents(&course, prefs, schedulerNow)
	if err != nil {
		t.Fatalf("generateEvents 应成功: %v", err)
	}
	for _, ev := range events {
		if ev.Type != model.EventTypeStudy {
			continue
		}
		if hours := ev.EndTime.Sub(ev.StartTime).Hours(); hours > 3 {
			t.Errorf("会话时长 %.1f 超过上限 3", hours)
		}
		if wd := ev.StartTime.Weekday(); wd != time.Saturday && wd != time.Sunday {
			t.Errorf("会话落在非偏好日 %s", wd)
		}
		if ev.StartTime.Hour() != 14 {
			t.Errorf("Afternoon 时段应从 14:00 开始，实际=%02d:00", ev.StartTime.Hour())
		}
	}
}

func TestGenerateEvents_Errors(t *testing.T) {
	empty := catalog.CourseTemplate{Name: "Empty", TotalWeeks: 4, TotalHours: 0}
	if _, err := generateEvents(&empty, mwfPreferences(), schedulerNow); !errors.Is(err, ErrNoModules) {
		t.Errorf("空模块列表期望 ErrNoModules，实际=%v", err)
	}

	course := catalog.TemplateFor("Advanced Python for Data Science")
	prefs := mwfPreferences()
	prefs.StudyHoursPerWeek = 0
	if _, err := generateEvents(&course, prefs, schedulerNow); !errors.Is(err, ErrInvalidPreferences) {
		t.Errorf("每周学时为 0 期望 ErrInvalidPreferences，实际=%v", err)
	}
}

func TestGenerateEvents_StartsTomorrow(t *testing.T) {
	course := catalog.TemplateFor("Advanced Python for Data Science")
	prefs := mwfPreferences()
	prefs.PreferredDays = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

	events, err := generateEvents(&course, prefs, schedulerNow)
	if err != nil {
		t.Fatalf("generateEvents 应成功: %v", err)
	}
	if len(events) == 0 {
		t.Fatal("应产生事件")
	}
	first := events[0]
	// 基准时间为 03-10，首个事件应落在次日
	if first.StartTime.Month() != time.March || first.StartTime.Day() != 11 {
		t.Errorf("首个事件应在 03-11，实际=%s", first.StartTime.Format("01-02"))
	}
}
