package service

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"skillpath/backend/internal/dto"
	"skillpath/backend/internal/search"
	"skillpath/backend/internal/session"
)

func setupMentorService(fake *fakeLLM, index *fakeIndex) (MentorService, session.Store) {
	store := session.NewMemoryStore(time.Minute)
	return NewMentorService(fake, index, store, zap.NewNop()), store
}

func TestMentorSuggest_BasicReply(t *testing.T) {
	fake := &fakeLLM{responses: []string{"**1. Listen first:** hear them out before replying."}}
	index := &fakeIndex{results: []search.Result{{Content: "Active listening guide", Score: 0.8}}}
	svc, _ := setupMentorService(fake, index)

	reply, err := svc.Suggest(context.Background(), &dto.MentorSuggestRequest{
		Message: "My teammate keeps missing deadlines, how do I bring it up?",
		UserID:  "u1",
	})
	if err != nil {
		t.Fatalf("Suggest 应成功: %v", err)
	}
	if !strings.Contains(reply, "Listen first") {
		t.Errorf("回复应为 LLM 输出, got %q", reply)
	}
	if len(index.queries) != 1 {
		t.Fatalf("应检索知识库 1 次, got %d", len(index.queries))
	}
	if fake.calls != 1 {
		t.Errorf("应调用 LLM 1 次, got %d", fake.calls)
	}
	// 检索到的知识应注入系统提示词
	if !strings.Contains(fake.prompts[0].SystemPrompt, "Active listening guide") {
		t.Errorf("提示词应包含知识库内容")
	}
}

func TestMentorSuggest_HistoryTrimmedToFive(t *testing.T) {
	fake := &fakeLLM{responses: []string{"ok"}}
	svc, store := setupMentorService(fake, &fakeIndex{})

	ctx := context.Background()
	for i := 0; i < 7; i++ {
		if _, err := svc.Suggest(ctx, &dto.MentorSuggestRequest{
			Message: strings.Repeat("m", i+1), UserID: "u1",
		}); err != nil {
			t.Fatalf("Suggest 应成功: %v", err)
		}
	}

	raw, err := store.Get(ctx, "mentor:u1")
	if err != nil {
		t.Fatalf("读取会话应成功: %v", err)
	}
	var state mentorState
	if err := json.Unmarshal([]byte(raw), &state); err != nil {
		t.Fatalf("会话状态应为合法 JSON: %v", err)
	}
	if len(state.Messages) != 5 {
		t.Errorf("历史应截断到 5 条, got %d", len(state.Messages))
	}
	if state.Messages[0] != "mmm" {
		t.Errorf("应保留最近 5 条, 首条 got %q", state.Messages[0])
	}
}

func TestMentorSuggest_ClarificationCounting(t *testing.T) {
	// 回复包含问号 → 计为追问
	fake := &fakeLLM{responses: []string{"Could you tell me who the message is for?"}}
	svc, store := setupMentorService(fake, &fakeIndex{})

	ctx := context.Background()
	if _, err := svc.Suggest(ctx, &dto.MentorSuggestRequest{Message: "help me", UserID: "u1"}); err != nil {
		t.Fatalf("Suggest 应成功: %v", err)
	}

	raw, _ := store.Get(ctx, "mentor:u1")
	var state mentorState
	_ = json.Unmarshal([]byte(raw), &state)
	if state.ClarificationCount != 1 {
		t.Errorf("追问计数应为 1, got %d", state.ClarificationCount)
	}
}

func TestMentorSuggest_ClarificationBudgetExhausted(t *testing.T) {
	fake := &fakeLLM{responses: []string{"What exactly happened?"}}
	svc, store := setupMentorService(fake, &fakeIndex{})

	ctx := context.Background()
	// 预先写入已用完追问预算的状态
	state := mentorState{ClarificationCount: mentorClarificationLimit}
	data, _ := json.Marshal(state)
	_ = store.Update(ctx, "mentor:u1", func(string) (string, error) { return string(data), nil })

	if _, err := svc.Suggest(ctx, &dto.MentorSuggestRequest{Message: "still unsure", UserID: "u1"}); err != nil {
		t.Fatalf("Suggest 应成功: %v", err)
	}

	// 预算用尽：提示词应强制给出建议而非继续追问
	if !strings.Contains(fake.prompts[0].SystemPrompt, "Provide 3 gentle, actionable suggestions based on our conversation") {
		t.Errorf("预算用尽后应切换为强制建议提示词")
	}
	// 计数不再增长
	raw, _ := store.Get(ctx, "mentor:u1")
	var after mentorState
	_ = json.Unmarshal([]byte(raw), &after)
	if after.ClarificationCount != mentorClarificationLimit {
		t.Errorf("追问计数不应超过上限, got %d", after.ClarificationCount)
	}
}

func TestMentorSuggest_SampleDetection(t *testing.T) {
	fake := &fakeLLM{responses: []string{"**What works well:** clear opening."}}
	svc, _ := setupMentorService(fake, &fakeIndex{})

	if _, err := svc.Suggest(context.Background(), &dto.MentorSuggestRequest{
		Message: "Here's my draft: Hi Sam, I noticed the report was late again.",
		UserID:  "u1",
	}); err != nil {
		t.Fatalf("Suggest 应成功: %v", err)
	}

	if !strings.Contains(fake.prompts[0].SystemPrompt, "The user shared a sample message for feedback") {
		t.Errorf("检测到草稿时应切换为点评提示词")
	}
}

func TestMentorSuggest_SearchFailureDegrades(t *testing.T) {
	fake := &fakeLLM{responses: []string{"ok"}}
	store := session.NewMemoryStore(time.Minute)
	svc := NewMentorService(fake, &errIndex{}, store, zap.NewNop())

	reply, err := svc.Suggest(context.Background(), &dto.MentorSuggestRequest{Message: "help", UserID: "u1"})
	if err != nil {
		t.Fatalf("检索失败不应中断建议: %v", err)
	}
	if reply != "ok" {
		t.Errorf("应返回 LLM 回复, got %q", reply)
	}
}

func TestMentorReset(t *testing.T) {
	fake := &fakeLLM{responses: []string{"ok"}}
	svc, store := setupMentorService(fake, &fakeIndex{})

	ctx := context.Background()
	if _, err := svc.Suggest(ctx, &dto.MentorSuggestRequest{Message: "hi", UserID: "u1"}); err != nil {
		t.Fatalf("Suggest 应成功: %v", err)
	}
	if err := svc.Reset(ctx, "u1"); err != nil {
		t.Fatalf("Reset 应成功: %v", err)
	}
	raw, _ := store.Get(ctx, "mentor:u1")
	if raw != "" {
		t.Errorf("重置后会话应为空, got %q", raw)
	}
}

func TestMentorSummarizeFeedback(t *testing.T) {
	fake := &fakeLLM{responses: []string{"Overall strong quarter with room to grow in delegation."}}
	svc, _ := setupMentorService(fake, &fakeIndex{})

	summary, err := svc.SummarizeFeedback(context.Background(), "Great technical output. Delegates too little.")
	if err != nil {
		t.Fatalf("SummarizeFeedback 应成功: %v", err)
	}
	if !strings.Contains(summary, "delegation") {
		t.Errorf("应返回 LLM 总结, got %q", summary)
	}
	if !strings.Contains(fake.prompts[0].UserPrompt, "Delegates too little") {
		t.Errorf("原始反馈应注入提示词")
	}
}

func TestIsClarifyingReply(t *testing.T) {
	cases := []struct {
		reply string
		want  bool
	}{
		{"Who is the message for?", true},
		{"Please clarify the situation.", true},
		{"Tell me more about your teammate.", true},
		{"**1. Listen first:** hear them out.", false},
	}
	for _, tc := range cases {
		if got := isClarifyingReply(tc.reply); got != tc.want {
			t.Errorf("isClarifyingReply(%q) = %v, want %v", tc.reply, got, tc.want)
		}
	}
}
