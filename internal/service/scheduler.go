package service

import (
	"fmt"
	"math"
	"time"

	"skillpath/backend/internal/catalog"
	"skillpath/backend/internal/model"
)

// dayNameToNum 星期名 → 序号（周一为 0，周日为 6）
var dayNameToNum = map[string]int{
	"Monday": 0, "Tuesday": 1, "Wednesday": 2, "Thursday": 3,
	"Friday": 4, "Saturday": 5, "Sunday": 6,
}

// weekdayNum time.Weekday → 周一为 0 的序号
func weekdayNum(d time.Weekday) int {
	return (int(d) + 6) % 7
}

// bucketStartHour 按偏好时段顺序取第一个可识别的时段，无匹配时默认 10:00
func bucketStartHour(preferredTimes []string) int {
	for _, t := range preferredTimes {
		switch t {
		case "Morning":
			return 9
		case "Afternoon":
			return 14
		case "Evening":
			return 18
		}
	}
	return 10
}

// generateEvents 核心排期算法：按周遍历日历日，把模块学时切分成学习会话，
// 模块完成时追加作业截止事件，每满一整周追加一次周复盘事件
//
// 纯计算，now 仅用于确定起始日（次日开始）；
// 模块列表为空或每周学时预算非正时报错，其余退化输入（如空偏好日）
// 只产生空结果
func generateEvents(course *catalog.CourseTemplate, prefs model.Preferences, now time.Time) ([]model.Event, error) {
	if len(course.Modules) == 0 {
		return nil, ErrNoModules
	}
	if prefs.StudyHoursPerWeek <= 0 {
		return nil, ErrInvalidPreferences
	}

	events := []model.Event{}
	startDate := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).AddDate(0, 0, 1)

	weeklyHours := prefs.StudyHoursPerWeek
	maxSession := prefs.MaxSessionLength

	// 计算每周会话数与单次会话时长
	var sessionsPerWeek int
	var hoursPerSession float64
	if len(prefs.PreferredDays) <= 2 {
		// 仅周末或极少可用日：每个偏好日一次会话，时长受上限截断
		sessionsPerWeek = len(prefs.PreferredDays)
		if sessionsPerWeek > 0 {
			hoursPerSession = math.Min(weeklyHours/float64(sessionsPerWeek), maxSession)
		}
	} else {
		byBudget := int(math.Floor(weeklyHours / maxSession))
		if byBudget < 1 {
			byBudget = 1
		}
		sessionsPerWeek = len(prefs.PreferredDays)
		if byBudget < sessionsPerWeek {
			sessionsPerWeek = byBudget
		}
		hoursPerSession = weeklyHours / float64(sessionsPerWeek)
	}

	preferredDayNums := map[int]struct{}{}
	lastPreferredDay := -1
	for _, d := range prefs.PreferredDays {
		if num, ok := dayNameToNum[d]; ok {
			preferredDayNums[num] = struct{}{}
			if num > lastPreferredDay {
				lastPreferredDay = num
			}
		}
	}

	startHour := bucketStartHour(prefs.PreferredTimes)

	// 小数周（如 0.3 周 ≈ 2 天）换算成绝对天数，只跑一轮周循环
	totalWeeks := course.TotalWeeks
	var weeksToIterate, daysInCourse int
	if totalWeeks < 1 {
		weeksToIterate = 1
		daysInCourse = int(math.Round(totalWeeks * 7))
	} else {
		weeksToIterate = int(totalWeeks)
		daysInCourse = 7 * weeksToIterate
	}

	moduleIndex := 0
	hoursRemaining := course.Modules[0].Hours
	weekStart := startDate
	totalDaysProcessed := 0

	for week := 0; week < weeksToIterate; week++ {
		sessionsThisWeek := 0

		for dayOffset := 0; dayOffset < 7; dayOffset++ {
			if totalWeeks < 1 && totalDaysProcessed >= daysInCourse {
				break
			}
			currentDate := weekStart.AddDate(0, 0, dayOffset)
			dayNum := weekdayNum(currentDate.Weekday())

			if _, ok := preferredDayNums[dayNum]; ok && sessionsThisWeek < sessionsPerWeek {
				if moduleIndex >= len(course.Modules) {
					break
				}
				mod := course.Modules[moduleIndex]
				sessionHours := math.Min(math.Min(hoursPerSession, hoursRemaining), maxSession)

				sessionStart := currentDate.Add(time.Duration(startHour) * time.Hour)
				events = append(events, model.Event{
					ID:            fmt.Sprintf("study_%d", len(events)+1),
					Title:         fmt.Sprintf("Study: %s", mod.Name),
					Type:          model.EventTypeStudy,
					StartTime:     sessionStart,
					EndTime:       sessionStart.Add(time.Duration(sessionHours * float64(time.Hour))),
					Description:   fmt.Sprintf("Study session for %s (%.1f hours)", mod.Name, sessionHours),
					Color:         model.EventColorStudy,
					ModuleName:    mod.Name,
					RequiresProof: true,
					ProofType:     model.ProofTypeStudySession,
				})

				hoursRemaining -= sessionHours
				sessionsThisWeek++

				// 模块学完：有作业则在最后一次会话 3 天后 23:59 设截止，再推进到下一模块
				if hoursRemaining <= 0 {
					if mod.HasAssignment {
						deadline := currentDate.AddDate(0, 0, 3).Add(23*time.Hour + 59*time.Minute)
						events = append(events, model.Event{
							ID:            fmt.Sprintf("assignment_%d", len(events)+1),
							Title:         fmt.Sprintf("Assignment Due: %s", mod.Name),
							Type:          model.EventTypeDeadline,
							StartTime:     deadline,
							EndTime:       deadline,
							Description:   fmt.Sprintf("Submit assignment for %s", mod.Name),
							Color:         model.EventColorDeadline,
							ModuleName:    mod.Name,
							RequiresProof: true,
							ProofType:     model.ProofTypeAssignment,
						})
					}
					moduleIndex++
					if moduleIndex < len(course.Modules) {
						hoursRemaining = course.Modules[moduleIndex].Hours
					}
				}
			}

			totalDaysProcessed++
		}

		if totalWeeks < 1 && totalDaysProcessed >= daysInCourse {
			break
		}

		// 整周结束后追加周复盘，落在本周最晚的偏好日 16:00
		if lastPreferredDay >= 0 {
			reviewOffset := (lastPreferredDay - weekdayNum(weekStart.Weekday()) + 7) % 7
			reviewStart := weekStart.AddDate(0, 0, reviewOffset).Add(16 * time.Hour)
			events = append(events, model.Event{
				ID:            fmt.Sprintf("review_%d", week+1),
				Title:         fmt.Sprintf("Week %d Review", week+1),
				Type:          model.EventTypeMilestone,
				StartTime:     reviewStart,
				EndTime:       reviewStart.Add(time.Hour),
				Description:   "Review progress and plan for next week",
				Color:         model.EventColorMilestone,
				RequiresProof: false,
				ProofType:     model.ProofTypeReflection,
			})
		}

		// 所有模块排完即停止，不再生成后续空周
		if moduleIndex >= len(course.Modules) {
			break
		}

		weekStart = weekStart.AddDate(0, 0, 7)
	}

	return events, nil
}
