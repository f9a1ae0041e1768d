package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"skillpath/backend/internal/dto"
	"skillpath/backend/internal/search"
	"skillpath/backend/internal/session"
	"skillpath/backend/pkg/llm"
)

// mentorHistoryLimit 对话历史保留条数
const mentorHistoryLimit = 5

// mentorClarificationLimit 追问次数上限，用尽后强制给出建议
const mentorClarificationLimit = 3

// sampleIndicators 用户分享草稿待点评的特征短语
var sampleIndicators = []string{
	"here's what i plan to", "here's my draft", "here's the message",
	"this is what i wrote", "sample:", "draft:", "what do you think of",
	"how can i improve", "feedback on", "review this",
}

// mentorState 每用户的导师对话状态，JSON 序列化后落会话存储
type mentorState struct {
	Messages           []string `json:"messages"`
	ClarificationCount int      `json:"clarification_count"`
}

// MentorService 沟通导师服务：结合知识库给出沟通建议，
// 上下文不足时先追问（有限次），用户贴出草稿时切换为点评模式
type MentorService interface {
	Suggest(ctx context.Context, req *dto.MentorSuggestRequest) (string, error)
	Reset(ctx context.Context, userID string) error
	SummarizeFeedback(ctx context.Context, feedback string) (string, error)
}

type mentorService struct {
	llm      llm.Client
	index    search.Index
	sessions session.Store
	logger   *zap.Logger
}

func NewMentorService(client llm.Client, index search.Index, sessions session.Store, logger *zap.Logger) MentorService {
	return &mentorService{
		llm:      client,
		index:    index,
		sessions: sessions,
		logger:   logger,
	}
}

func mentorSessionKey(userID string) string {
	if userID == "" {
		userID = "default_user"
	}
	return "mentor:" + userID
}

func (s *mentorService) Suggest(ctx context.Context, req *dto.MentorSuggestRequest) (string, error) {
	key := mentorSessionKey(req.UserID)

	// 读改写：追加本条消息并截断历史
	var state mentorState
	err := s.sessions.Update(ctx, key, func(current string) (string, error) {
		if current != "" {
			if err := json.Unmarshal([]byte(current), &state); err != nil {
				s.logger.Warn("导师会话状态损坏，重建", zap.String("key", key), zap.Error(err))
				state = mentorState{}
			}
		}
		state.Messages = append(state.Messages, req.Message)
		if len(state.Messages) > mentorHistoryLimit {
			state.Messages = state.Messages[len(state.Messages)-mentorHistoryLimit:]
		}
		data, err := json.Marshal(state)
		return string(data), err
	})
	if err != nil {
		s.logger.Error("更新导师会话失败", zap.Error(err))
		return "", err
	}

	fullContext := strings.Join(state.Messages, " | ")

	// 以完整对话做知识库检索
	knowledge := ""
	docs, err := s.index.Search(ctx, fullContext, 3)
	if err != nil {
		s.logger.Warn("知识库检索失败，继续无上下文回答", zap.Error(err))
	} else {
		parts := make([]string, 0, len(docs))
		for _, d := range docs {
			parts = append(parts, d.Content)
		}
		knowledge = strings.Join(parts, "\n")
	}

	hasSample := containsSampleIndicator(fullContext)
	prompt := buildMentorPrompt(knowledge, fullContext, req.Message, state.ClarificationCount, hasSample)

	maxTokens := 300
	suggestions, err := s.llm.Generate(ctx, llm.GenerateRequest{
		SystemPrompt: prompt,
		MaxTokens:    &maxTokens,
	})
	if err != nil {
		s.logger.Error("导师建议 LLM 调用失败", zap.Error(err))
		return "", err
	}

	// 回复是追问时累计追问次数
	if state.ClarificationCount < mentorClarificationLimit && isClarifyingReply(suggestions) {
		if err := s.sessions.Update(ctx, key, func(current string) (string, error) {
			var st mentorState
			if current != "" {
				_ = json.Unmarshal([]byte(current), &st)
			}
			st.ClarificationCount++
			data, err := json.Marshal(st)
			return string(data), err
		}); err != nil {
			s.logger.Warn("累计追问次数失败", zap.Error(err))
		}
	}

	return suggestions, nil
}

func containsSampleIndicator(text string) bool {
	lower := strings.ToLower(text)
	for _, ind := range sampleIndicators {
		if strings.Contains(lower, ind) {
			return true
		}
	}
	return false
}

func isClarifyingReply(reply string) bool {
	lower := strings.ToLower(reply)
	return strings.Contains(reply, "?") ||
		strings.Contains(lower, "clarify") ||
		strings.Contains(lower, "tell me")
}

// buildMentorPrompt 按追问预算与草稿标记组合四种提示词
func buildMentorPrompt(knowledge, fullContext, latest string, clarificationsUsed int, hasSample bool) string {
	if clarificationsUsed >= mentorClarificationLimit {
		if hasSample {
			return fmt.Sprintf(
				"You are a professional mentoring assistant and communication critic.\n"+
					"Analyze the sample message/draft and provide specific, gentle feedback.\n\n"+
					"Use the following knowledge base if relevant:\n%s\n\n"+
					"Full conversation: %s\n\n"+
					"Provide feedback in this format:\n"+
					"**What works well:** [positive aspects]\n"+
					"**Suggestions for improvement:** [gentle, specific suggestions]\n"+
					"**Overall:** [supportive assessment]\n\n"+
					"Be constructive, kind, and focus on tone, clarity, and empathy.\n"+
					"Keep response under 300 words to avoid cutoffs.",
				knowledge, fullContext)
		}
		return fmt.Sprintf(
			"You are a professional mentoring assistant.\n"+
				"Provide 3 gentle, actionable suggestions based on our conversation.\n\n"+
				"Use the following knowledge base if relevant:\n%s\n\n"+
				"Full conversation: %s\n\n"+
				"Format as:\n"+
				"**1. [Suggestion title]:** [gentle, practical advice]\n"+
				"**2. [Suggestion title]:** [gentle, practical advice]\n"+
				"**3. [Suggestion title]:** [gentle, practical advice]\n\n"+
				"Be supportive and encouraging. Keep under 300 words.",
			knowledge, fullContext)
	}

	if hasSample {
		return fmt.Sprintf(
			"You are a professional mentoring assistant and communication critic.\n"+
				"The user shared a sample message for feedback.\n\n"+
				"INSTRUCTIONS:\n"+
				"- If you need important context (recipient relationship, situation details), ask 1-2 specific questions.\n"+
				"- If you have enough context, provide gentle feedback on the sample.\n"+
				"- Be conversational and supportive, avoid repetitive phrases.\n"+
				"- Keep responses concise and under 300 words.\n\n"+
				"Use the following knowledge base if relevant:\n%s\n\n"+
				"Conversation history: %s\n"+
				"Latest message: %s\n\n"+
				"Either ask clarifying questions OR provide sample feedback - not both.",
			knowledge, fullContext, latest)
	}
	return fmt.Sprintf(
		"You are a professional mentoring assistant.\n"+
			"Help users communicate more effectively with their team.\n\n"+
			"INSTRUCTIONS:\n"+
			"- FIRST analyze if you have enough context to give good advice.\n"+
			"- If the situation is vague or you need important details, ask 1-2 specific clarifying questions.\n"+
			"- Only provide suggestions when you have sufficient context.\n"+
			"- Be conversational and supportive.\n"+
			"- Keep all responses under 300 words.\n\n"+
			"Use the following knowledge base if relevant:\n%s\n\n"+
			"Conversation history: %s\n"+
			"Latest message: %s\n\n"+
			"ANALYZE: Do you need more context about the situation or the people involved before giving advice?\n"+
			"- If YES: Ask specific, helpful questions.\n"+
			"- If NO: Provide 3 gentle, actionable suggestions.",
		knowledge, fullContext, latest)
}

func (s *mentorService) Reset(ctx context.Context, userID string) error {
	if err := s.sessions.Delete(ctx, mentorSessionKey(userID)); err != nil {
		s.logger.Error("重置导师会话失败", zap.Error(err))
		return err
	}
	s.logger.Info("导师会话已重置", zap.String("user_id", userID))
	return nil
}

func (s *mentorService) SummarizeFeedback(ctx context.Context, feedback string) (string, error) {
	maxTokens := 500
	temp := 0.7
	summary, err := s.llm.Generate(ctx, llm.GenerateRequest{
		SystemPrompt: "You are a helpful assistant that summarizes performance feedback in a constructive, professional manner. " +
			"Focus on the key points and provide actionable insights. Keep it concise and professional (around 150-200 words).",
		UserPrompt:  fmt.Sprintf("Summarize this performance feedback in a constructive way:\n\n%s", feedback),
		MaxTokens:   &maxTokens,
		Temperature: &temp,
	})
	if err != nil {
		s.logger.Error("反馈总结 LLM 调用失败", zap.Error(err))
		return "", err
	}
	return summary, nil
}
