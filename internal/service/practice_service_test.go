package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"skillpath/backend/internal/dto"
	"skillpath/backend/internal/session"
	"skillpath/backend/pkg/llm"
)

func setupPracticeService(fake *fakeLLM) (PracticeService, session.Store) {
	store := session.NewMemoryStore(time.Minute)
	return NewPracticeService(fake, store, zap.NewNop()), store
}

func TestPracticeStart_ProposesScenario(t *testing.T) {
	svc, store := setupPracticeService(&fakeLLM{})

	resp, err := svc.Start(context.Background(), "u1")
	if err != nil {
		t.Fatalf("Start 应成功: %v", err)
	}
	if !strings.Contains(resp.Response, "Practice Mode - Scenario Selection") {
		t.Errorf("应返回场景提议, got %q", resp.Response)
	}
	if len(resp.Buttons) != 3 {
		t.Fatalf("应返回 3 个操作按钮, got %d", len(resp.Buttons))
	}
	if resp.Buttons[0].Action != "yes" || resp.Buttons[2].Action != "exit" {
		t.Errorf("按钮动作应为 yes/no/exit")
	}

	raw, _ := store.Get(context.Background(), "practice:u1")
	if !strings.Contains(raw, practiceStateSelecting) {
		t.Errorf("会话应处于选择状态, got %q", raw)
	}
}

func TestPracticeRespond_NoSession(t *testing.T) {
	svc, _ := setupPracticeService(&fakeLLM{})

	resp, err := svc.Respond(context.Background(), &dto.PracticeRespondRequest{Message: "yes", UserID: "u1"})
	if err != nil {
		t.Fatalf("Respond 应成功: %v", err)
	}
	if resp.Response != "Please start a practice session first." {
		t.Errorf("无会话应提示先开始, got %q", resp.Response)
	}
}

func TestPracticeRespond_YesStartsSimulation(t *testing.T) {
	fake := &fakeLLM{responses: []string{`"Hey, do you have a second? I messed something up."`}}
	svc, store := setupPracticeService(fake)

	ctx := context.Background()
	if _, err := svc.Start(ctx, "u1"); err != nil {
		t.Fatalf("Start 应成功: %v", err)
	}

	resp, err := svc.Respond(ctx, &dto.PracticeRespondRequest{Message: "Yes", UserID: "u1"})
	if err != nil {
		t.Fatalf("Respond 应成功: %v", err)
	}
	if !strings.Contains(resp.Response, "Practice Simulation Started") {
		t.Errorf("yes 应开始模拟, got %q", resp.Response)
	}
	if !strings.Contains(resp.Response, "messed something up") {
		t.Errorf("应包含 LLM 开场白")
	}

	raw, _ := store.Get(ctx, "practice:u1")
	if !strings.Contains(raw, practiceStateActive) {
		t.Errorf("会话应进入对话状态, got %q", raw)
	}
}

func TestPracticeRespond_NoPicksDifferentScenario(t *testing.T) {
	svc, _ := setupPracticeService(&fakeLLM{})

	ctx := context.Background()
	first, err := svc.Start(ctx, "u1")
	if err != nil {
		t.Fatalf("Start 应成功: %v", err)
	}

	resp, err := svc.Respond(ctx, &dto.PracticeRespondRequest{Message: "no", UserID: "u1"})
	if err != nil {
		t.Fatalf("Respond 应成功: %v", err)
	}
	if !strings.Contains(resp.Response, "New Scenario Selected") {
		t.Errorf("no 应换场景, got %q", resp.Response)
	}
	if resp.Response == first.Response {
		t.Errorf("新场景不应与原场景相同")
	}
	if len(resp.Buttons) != 3 {
		t.Errorf("换场景后仍应带操作按钮")
	}
}

func TestPracticeRespond_ExitEndsSession(t *testing.T) {
	svc, store := setupPracticeService(&fakeLLM{})

	ctx := context.Background()
	if _, err := svc.Start(ctx, "u1"); err != nil {
		t.Fatalf("Start 应成功: %v", err)
	}

	resp, err := svc.Respond(ctx, &dto.PracticeRespondRequest{Message: "exit", UserID: "u1"})
	if err != nil {
		t.Fatalf("Respond 应成功: %v", err)
	}
	if resp.Response != "Practice mode ended." {
		t.Errorf("exit 应结束演练, got %q", resp.Response)
	}
	raw, _ := store.Get(ctx, "practice:u1")
	if raw != "" {
		t.Errorf("退出后会话应删除")
	}
}

func TestPracticeRespond_InvalidChoice(t *testing.T) {
	svc, _ := setupPracticeService(&fakeLLM{})

	ctx := context.Background()
	if _, err := svc.Start(ctx, "u1"); err != nil {
		t.Fatalf("Start 应成功: %v", err)
	}

	resp, err := svc.Respond(ctx, &dto.PracticeRespondRequest{Message: "maybe", UserID: "u1"})
	if err != nil {
		t.Fatalf("Respond 应成功: %v", err)
	}
	if resp.Response != "Please choose: yes, no, or exit." {
		t.Errorf("非法选择应提示可选项, got %q", resp.Response)
	}
}

func TestPracticeConversation_FourTurnsEndsWithEvaluation(t *testing.T) {
	fake := &fakeLLM{responses: []string{
		`"Hi... I need your help."`,
		`"It happened yesterday during the deploy."`,
		`"I haven't told the team lead yet."`,
		`"Yes, that sounds like a plan."`,
		"**What you did well:** You listened.\n**Scores:** Empathy: 4/5 | Communication: 4/5 | Problem-solving: 3/5 | Overall: 4/5",
	}}
	svc, store := setupPracticeService(fake)

	ctx := context.Background()
	if _, err := svc.Start(ctx, "u1"); err != nil {
		t.Fatalf("Start 应成功: %v", err)
	}
	if _, err := svc.Respond(ctx, &dto.PracticeRespondRequest{Message: "yes", UserID: "u1"}); err != nil {
		t.Fatalf("进入对话应成功: %v", err)
	}

	// 前 3 轮为角色扮演回复
	for i := 0; i < 3; i++ {
		resp, err := svc.Respond(ctx, &dto.PracticeRespondRequest{Message: "Tell me more.", UserID: "u1"})
		if err != nil {
			t.Fatalf("第 %d 轮应成功: %v", i+1, err)
		}
		if strings.Contains(resp.Response, "Practice Simulation Complete") {
			t.Fatalf("第 %d 轮不应触发评估", i+1)
		}
	}

	// 第 4 轮触发评估并结束
	resp, err := svc.Respond(ctx, &dto.PracticeRespondRequest{Message: "Let's make a plan together.", UserID: "u1"})
	if err != nil {
		t.Fatalf("第 4 轮应成功: %v", err)
	}
	if !strings.Contains(resp.Response, "Practice Simulation Complete!") {
		t.Errorf("第 4 轮应返回评估, got %q", resp.Response)
	}
	if !strings.Contains(resp.Response, "**Your Responses**: 4") {
		t.Errorf("评估应统计 4 条用户回复")
	}
	if !strings.Contains(resp.Response, "Scores:") {
		t.Errorf("评估应包含评分块")
	}

	raw, _ := store.Get(ctx, "practice:u1")
	if !strings.Contains(raw, practiceStateCompleted) {
		t.Errorf("会话应进入完成状态, got %q", raw)
	}

	// 完成后继续发言提示重新开始
	after, err := svc.Respond(ctx, &dto.PracticeRespondRequest{Message: "again?", UserID: "u1"})
	if err != nil {
		t.Fatalf("完成后 Respond 应成功: %v", err)
	}
	if after.Response != "Session error. Please restart." {
		t.Errorf("完成态应提示重启, got %q", after.Response)
	}
}

func TestPracticeConversation_LLMDownUsesCannedLines(t *testing.T) {
	fake := &fakeLLM{err: llm.ErrUnavailable}
	svc, _ := setupPracticeService(fake)

	ctx := context.Background()
	if _, err := svc.Start(ctx, "u1"); err != nil {
		t.Fatalf("Start 应成功: %v", err)
	}
	resp, err := svc.Respond(ctx, &dto.PracticeRespondRequest{Message: "yes", UserID: "u1"})
	if err != nil {
		t.Fatalf("LLM 失败不应中断开场: %v", err)
	}
	if !strings.Contains(resp.Response, "I really need your advice") {
		t.Errorf("开场白失败应用兜底台词, got %q", resp.Response)
	}

	resp, err = svc.Respond(ctx, &dto.PracticeRespondRequest{Message: "What happened?", UserID: "u1"})
	if err != nil {
		t.Fatalf("LLM 失败不应中断对话: %v", err)
	}
	if !strings.Contains(resp.Response, "What would you do in my place?") {
		t.Errorf("角色扮演失败应用兜底台词, got %q", resp.Response)
	}
}

func TestPracticeReset(t *testing.T) {
	svc, store := setupPracticeService(&fakeLLM{})

	ctx := context.Background()
	if _, err := svc.Start(ctx, "u1"); err != nil {
		t.Fatalf("Start 应成功: %v", err)
	}
	if err := svc.Reset(ctx, "u1"); err != nil {
		t.Fatalf("Reset 应成功: %v", err)
	}
	raw, _ := store.Get(ctx, "practice:u1")
	if raw != "" {
		t.Errorf("重置后会话应为空")
	}
}
