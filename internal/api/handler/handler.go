package handler

import "skillpath/backend/internal/service"

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Auth         *AuthHandler
	Timeline     *TimelineHandler
	Export       *ExportHandler
	Advisor      *AdvisorHandler
	Mentor       *MentorHandler
	Onboarding   *OnboardingHandler
	Practice     *PracticeHandler
	CourseSearch *CourseSearchHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Auth:         NewAuthHandler(svc.Auth),
		Timeline:     NewTimelineHandler(svc.Timeline),
		Export:       NewExportHandler(svc.Export),
		Advisor:      NewAdvisorHandler(svc.Advisor),
		Mentor:       NewMentorHandler(svc.Mentor),
		Onboarding:   NewOnboardingHandler(svc.Onboarding),
		Practice:     NewPracticeHandler(svc.Practice),
		CourseSearch: NewCourseSearchHandler(svc.CourseSearch),
	}
}
