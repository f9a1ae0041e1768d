package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"skillpath/backend/internal/catalog"
	"skillpath/backend/internal/dto"
	"skillpath/backend/internal/model"
	"skillpath/backend/internal/repository"
	"skillpath/backend/pkg/llm"
)

// ── 时间线模块业务错误 ──
var (
	ErrTimelineNotFound   = errors.New("时间线不存在")
	ErrTimelineNotDraft   = errors.New("时间线不是草稿状态，无法审批")
	ErrNoModules          = errors.New("课程没有可排期的模块")
	ErrInvalidPreferences = errors.New("每周学习时长必须为正数")
	ErrProofNotFound      = errors.New("凭证记录不存在")
	ErrInvalidProofStatus = errors.New("审核状态只能是 approved 或 rejected")
)

// legacyYear 历史脚手架数据中写死的年份，审批时按当前年份修正
const legacyYear = 2023

// newTimelineID 秒级时间戳可读，随机后缀保证同秒内修订不撞键
func newTimelineID(now time.Time) string {
	return fmt.Sprintf("timeline_%s_%s", now.Format("20060102_150405"), uuid.NewString()[:8])
}

// TimelineService 学习时间线服务
type TimelineService interface {
	// Generate 为指定课程生成个性化学习时间线（草稿状态）
	Generate(ctx context.Context, req *dto.GenerateTimelineRequest) (*model.Timeline, error)
	// Get 按标识符查询时间线
	Get(ctx context.Context, timelineID string) (*model.Timeline, error)
	// ListByUser 查询用户的全部时间线，按生成时间倒序
	ListByUser(ctx context.Context, userID string) ([]model.Timeline, error)
	// Approve 审批时间线：草稿 → 已批准，并重写事件标识符、修正遗留年份
	Approve(ctx context.Context, timelineID string) (*model.Timeline, error)
	// Revise 基于已有时间线和修订请求生成新版时间线，原时间线不变
	Revise(ctx context.Context, req *dto.ReviseTimelineRequest) (*model.Timeline, error)
	// SubmitProof 提交事件完成凭证
	SubmitProof(ctx context.Context, req *dto.SubmitProofRequest) (*model.ProofRecord, error)
	// ReviewProof 审核凭证（approved / rejected）
	ReviewProof(ctx context.Context, req *dto.ReviewProofRequest) (*model.ProofRecord, error)
	// ListProofsByUser 查询用户提交的全部凭证
	ListProofsByUser(ctx context.Context, userID string) ([]model.ProofRecord, error)
	// ListProofsByEvent 查询某事件下的全部凭证
	ListProofsByEvent(ctx context.Context, eventID string) ([]model.ProofRecord, error)
}

type timelineService struct {
	repo    *repository.Repository
	adapter *requirementAdapter
	logger  *zap.Logger
}

func NewTimelineService(repo *repository.Repository, llmClient llm.Client, logger *zap.Logger) TimelineService {
	return &timelineService{
		repo:    repo,
		adapter: newRequirementAdapter(llmClient, logger),
		logger:  logger,
	}
}

// ════════════════════════════════════════
// 生成
// ════════════════════════════════════════

func (s *timelineService) Generate(ctx context.Context, req *dto.GenerateTimelineRequest) (*model.Timeline, error) {
	prefs := ResolvePreferences(DefaultPreferences(), req.UserPreferences, nil)
	course := catalog.TemplateFor(req.CourseName)

	// 定制需求通过 LLM 翻译成结构覆盖，失败时静默沿用原课程结构
	if req.CustomRequirements != "" {
		applyOverride(&course, s.adapter.ParseRequirements(ctx, req.CustomRequirements))
	}

	now := time.Now()
	events, err := generateEvents(&course, prefs, now)
	if err != nil {
		return nil, err
	}

	timeline := &model.Timeline{
		TimelineID:         newTimelineID(now),
		UserID:             req.UserID,
		CourseName:         req.CourseName,
		Status:             model.TimelineStatusDraft,
		TotalWeeks:         course.TotalWeeks,
		TotalHours:         course.TotalHours,
		Events:             events,
		Preferences:        model.PreferencesDoc(prefs),
		CustomRequirements: req.CustomRequirements,
		GeneratedAt:        now,
	}

	if err := s.repo.Timeline.Create(ctx, timeline); err != nil {
		s.logger.Error("保存时间线失败", zap.Error(err))
		return nil, err
	}

	s.logger.Info("时间线已生成",
		zap.String("timeline_id", timeline.TimelineID),
		zap.String("course", timeline.CourseName),
		zap.Int("events", len(events)))
	return timeline, nil
}

// applyOverride 把结构覆盖应用到课程模板上
// 保留的模块数截断到 [1, 模块总数]，截断后总学时按保留模块重新求和
func applyOverride(course *catalog.CourseTemplate, override RequirementOverride) {
	if override.TotalWeeks != nil {
		course.TotalWeeks = *override.TotalWeeks
	}
	if override.TotalHours != nil {
		course.TotalHours = *override.TotalHours
	}
	if override.ModulesToKeep != nil {
		keep := *override.ModulesToKeep
		if keep > len(course.Modules) {
			keep = len(course.Modules)
		}
		if keep < 1 {
			keep = 1
		}
		course.Modules = course.Modules[:keep]
		total := 0.0
		for _, m := range course.Modules {
			total += m.Hours
		}
		course.TotalHours = total
	}
}

// ════════════════════════════════════════
// 查询
// ════════════════════════════════════════

func (s *timelineService) Get(ctx context.Context, timelineID string) (*model.Timeline, error) {
	timeline, err := s.repo.Timeline.GetByID(ctx, timelineID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTimelineNotFound
		}
		s.logger.Error("查询时间线失败", zap.Error(err))
		return nil, err
	}
	return timeline, nil
}

func (s *timelineService) ListByUser(ctx context.Context, userID string) ([]model.Timeline, error) {
	timelines, err := s.repo.Timeline.ListByUser(ctx, userID)
	if err != nil {
		s.logger.Error("查询用户时间线列表失败", zap.Error(err))
		return nil, err
	}
	return timelines, nil
}

// ════════════════════════════════════════
// 审批
// ════════════════════════════════════════

func (s *timelineService) Approve(ctx context.Context, timelineID string) (*model.Timeline, error) {
	timeline, err := s.Get(ctx, timelineID)
	if err != nil {
		return nil, err
	}
	if timeline.Status != model.TimelineStatusDraft {
		return nil, ErrTimelineNotDraft
	}

	now := time.Now()
	timeline.Status = model.TimelineStatusApproved
	timeline.ApprovedAt = &now

	// 事件标识符重写为全局唯一；遗留年份的事件修正到当前年份，
	// 月/日/时/分保持不变。仅修正命中遗留年份的事件，不做通用改写
	for i := range timeline.Events {
		ev := &timeline.Events[i]
		ev.ID = fmt.Sprintf("%s_%d_%d", timelineID, i, now.Unix())

		if ev.StartTime.Year() == legacyYear {
			ev.StartTime = withYear(ev.StartTime, now.Year())
			if ev.EndTime.Year() == legacyYear {
				ev.EndTime = withYear(ev.EndTime, now.Year())
			}
		}
	}

	if err := s.repo.Timeline.Update(ctx, timeline); err != nil {
		s.logger.Error("保存审批结果失败", zap.Error(err))
		return nil, err
	}

	s.logger.Info("时间线已审批", zap.String("timeline_id", timelineID))
	return timeline, nil
}

func withYear(t time.Time, year int) time.Time {
	return time.Date(year, t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

// ════════════════════════════════════════
// 修订
// ════════════════════════════════════════

func (s *timelineService) Revise(ctx context.Context, req *dto.ReviseTimelineRequest) (*model.Timeline, error) {
	prior, err := s.Get(ctx, req.TimelineID)
	if err != nil {
		return nil, err
	}

	// 用 LLM 把修订请求翻译成偏好调整建议，失败时沿用原偏好
	suggestion := s.adapter.SuggestRevision(ctx, model.Preferences(prior.Preferences), req.RevisionRequest)
	prefs := ResolvePreferences(model.Preferences(prior.Preferences), nil, suggestion)

	course := catalog.TemplateFor(prior.CourseName)
	if suggestion != nil && suggestion.TotalWeeks != nil && *suggestion.TotalWeeks > 0 {
		course.TotalWeeks = *suggestion.TotalWeeks
	}

	now := time.Now()
	events, err := generateEvents(&course, prefs, now)
	if err != nil {
		return nil, err
	}

	combined := strings.TrimSpace(prior.CustomRequirements + " " + req.RevisionRequest)

	revised := &model.Timeline{
		TimelineID:         newTimelineID(now),
		UserID:             prior.UserID,
		CourseName:         prior.CourseName,
		Status:             model.TimelineStatusDraft,
		TotalWeeks:         course.TotalWeeks,
		TotalHours:         course.TotalHours,
		Events:             events,
		Preferences:        model.PreferencesDoc(prefs),
		CustomRequirements: combined,
		RevisionRequest:    req.RevisionRequest,
		PreviousVersion:    prior.TimelineID,
		GeneratedAt:        now,
	}

	if err := s.repo.Timeline.Create(ctx, revised); err != nil {
		s.logger.Error("保存修订时间线失败", zap.Error(err))
		return nil, err
	}

	s.logger.Info("时间线已修订",
		zap.String("timeline_id", revised.TimelineID),
		zap.String("previous_version", prior.TimelineID))
	return revised, nil
}

// ════════════════════════════════════════
// 完成凭证
// ════════════════════════════════════════

func (s *timelineService) SubmitProof(ctx context.Context, req *dto.SubmitProofRequest) (*model.ProofRecord, error) {
	proof := &model.ProofRecord{
		ProofID:      fmt.Sprintf("proof_%s", uuid.NewString()),
		EventID:      req.EventID,
		UserID:       req.UserID,
		ProofType:    req.ProofType,
		ProofContent: req.ProofContent,
		ProofURL:     req.ProofURL,
		Status:       model.ProofStatusPending,
		SubmittedAt:  time.Now(),
	}
	if proof.ProofType == "" {
		proof.ProofType = "text"
	}

	if err := s.repo.Proof.Create(ctx, proof); err != nil {
		s.logger.Error("保存凭证失败", zap.Error(err))
		return nil, err
	}

	s.logger.Info("凭证已提交",
		zap.String("proof_id", proof.ProofID),
		zap.String("event_id", proof.EventID))
	return proof, nil
}

func (s *timelineService) ReviewProof(ctx context.Context, req *dto.ReviewProofRequest) (*model.ProofRecord, error) {
	if req.Status != model.ProofStatusApproved && req.Status != model.ProofStatusRejected {
		return nil, ErrInvalidProofStatus
	}

	proof, err := s.repo.Proof.GetByID(ctx, req.ProofID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProofNotFound
		}
		s.logger.Error("查询凭证失败", zap.Error(err))
		return nil, err
	}

	// 重复审核直接覆盖上一次审核结果
	now := time.Now()
	proof.Status = req.Status
	proof.ReviewerID = req.ReviewerID
	proof.ReviewComments = req.ReviewComments
	proof.ReviewedAt = &now

	if err := s.repo.Proof.Update(ctx, proof); err != nil {
		s.logger.Error("保存审核结果失败", zap.Error(err))
		return nil, err
	}

	s.logger.Info("凭证已审核",
		zap.String("proof_id", proof.ProofID),
		zap.String("status", proof.Status))
	return proof, nil
}

func (s *timelineService) ListProofsByUser(ctx context.Context, userID string) ([]model.ProofRecord, error) {
	proofs, err := s.repo.Proof.ListByUser(ctx, userID)
	if err != nil {
		s.logger.Error("查询用户凭证列表失败", zap.Error(err))
		return nil, err
	}
	return proofs, nil
}

func (s *timelineService) ListProofsByEvent(ctx context.Context, eventID string) ([]model.ProofRecord, error) {
	proofs, err := s.repo.Proof.ListByEvent(ctx, eventID)
	if err != nil {
		s.logger.Error("查询事件凭证列表失败", zap.Error(err))
		return nil, err
	}
	return proofs, nil
}
