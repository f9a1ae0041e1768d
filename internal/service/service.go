package service

import (
	"go.uber.org/zap"

	"skillpath/backend/internal/repository"
	"skillpath/backend/internal/search"
	"skillpath/backend/internal/session"
	"skillpath/backend/pkg/jwt"
	"skillpath/backend/pkg/llm"
	"skillpath/backend/pkg/redis"
)

// Service 所有 Service 的聚合入口
type Service struct {
	Auth         AuthService
	Timeline     TimelineService
	Export       ExportService
	Advisor      AdvisorService
	Mentor       MentorService
	Onboarding   OnboardingService
	Practice     PracticeService
	CourseSearch CourseSearchService
}

// Deps Service 聚合的外部依赖
// CourseIndex 面向课程目录检索，DocIndex 面向入职文档检索
type Deps struct {
	Repo        *repository.Repository
	JWT         *jwt.Manager
	Redis       *redis.Client // 可为 nil（降级运行）
	LLM         llm.Client
	CourseIndex search.Index
	DocIndex    search.Index
	Sessions    session.Store
	Logger      *zap.Logger
}

// NewService 创建 Service 聚合
func NewService(d Deps) *Service {
	return &Service{
		Auth:         NewAuthService(d.Repo, d.JWT, d.Redis, d.Logger),
		Timeline:     NewTimelineService(d.Repo, d.LLM, d.Logger),
		Export:       NewExportService(d.Repo, d.Logger),
		Advisor:      NewAdvisorService(d.LLM, d.Logger),
		Mentor:       NewMentorService(d.LLM, d.DocIndex, d.Sessions, d.Logger),
		Onboarding:   NewOnboardingService(d.LLM, d.DocIndex, d.Sessions, d.Logger),
		Practice:     NewPracticeService(d.LLM, d.Sessions, d.Logger),
		CourseSearch: NewCourseSearchService(d.LLM, d.CourseIndex, d.Logger),
	}
}
