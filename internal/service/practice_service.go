package service

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"strings"

	"go.uber.org/zap"

	"skillpath/backend/internal/dto"
	"skillpath/backend/internal/session"
	"skillpath/backend/pkg/llm"
)

// practiceMaxInteractions 第 4 次回复后结束演练并给出评估
const practiceMaxInteractions = 4

// 演练会话状态机：selecting → active → completed
const (
	practiceStateSelecting = "selecting"
	practiceStateActive    = "active"
	practiceStateCompleted = "completed"
)

// practiceState 每用户的演练会话，JSON 序列化后落会话存储
type practiceState struct {
	State        string   `json:"state"`
	Scenario     Scenario `json:"scenario"`
	Responses    []string `json:"responses"`
	Interactions int      `json:"interactions"`
}

var practiceButtons = []dto.PracticeButton{
	{Text: "✅ Yes, Start", Action: "yes"},
	{Text: "🔄 Different Scenario", Action: "no"},
	{Text: "❌ Exit", Action: "exit"},
}

// PracticeService 沟通演练服务：随机场景角色扮演，
// 固定四轮对话后由 LLM 评估用户的导师式沟通表现
type PracticeService interface {
	Start(ctx context.Context, userID string) (*dto.PracticeResponse, error)
	Respond(ctx context.Context, req *dto.PracticeRespondRequest) (*dto.PracticeResponse, error)
	Reset(ctx context.Context, userID string) error
}

type practiceService struct {
	llm       llm.Client
	sessions  session.Store
	scenarios []Scenario
	logger    *zap.Logger
}

func NewPracticeService(client llm.Client, sessions session.Store, logger *zap.Logger) PracticeService {
	return &practiceService{
		llm:       client,
		sessions:  sessions,
		scenarios: loadScenarios(),
		logger:    logger,
	}
}

func practiceSessionKey(userID string) string {
	if userID == "" {
		userID = "default_user"
	}
	return "practice:" + userID
}

func (s *practiceService) Start(ctx context.Context, userID string) (*dto.PracticeResponse, error) {
	scenario := s.scenarios[rand.Intn(len(s.scenarios))]

	state := practiceState{State: practiceStateSelecting, Scenario: scenario}
	if err := s.saveState(ctx, userID, &state); err != nil {
		return nil, err
	}

	return &dto.PracticeResponse{
		Response: fmt.Sprintf(`Practice Mode - Scenario Selection

**Scenario**: %s

**Situation**: %s

Would you like to practice with this scenario?`, scenario.Title, scenario.Description),
		Buttons: practiceButtons,
	}, nil
}

func (s *practiceService) Respond(ctx context.Context, req *dto.PracticeRespondRequest) (*dto.PracticeResponse, error) {
	key := practiceSessionKey(req.UserID)

	raw, err := s.sessions.Get(ctx, key)
	if err != nil {
		s.logger.Error("读取演练会话失败", zap.Error(err))
		return nil, err
	}
	if raw == "" {
		return &dto.PracticeResponse{Response: "Please start a practice session first."}, nil
	}

	var state practiceState
	if err := json.Unmarshal([]byte(raw), &state); err != nil {
		s.logger.Warn("演练会话状态损坏", zap.Error(err))
		return &dto.PracticeResponse{Response: "Session error. Please restart."}, nil
	}

	switch state.State {
	case practiceStateSelecting:
		return s.handleSelection(ctx, req.UserID, &state, strings.ToLower(strings.TrimSpace(req.Message)))
	case practiceStateActive:
		return s.handleConversation(ctx, req.UserID, &state, req.Message)
	default:
		return &dto.PracticeResponse{Response: "Session error. Please restart."}, nil
	}
}

func (s *practiceService) handleSelection(ctx context.Context, userID string, state *practiceState, choice string) (*dto.PracticeResponse, error) {
	switch choice {
	case "yes", "y":
		state.State = practiceStateActive
		state.Interactions = 0
		if err := s.saveState(ctx, userID, state); err != nil {
			return nil, err
		}

		opening := s.generateOpening(ctx, state.Scenario)
		return &dto.PracticeResponse{
			Response: fmt.Sprintf("Practice Simulation Started\n\n%s", opening),
		}, nil

	case "no", "n":
		// 换一个不同的场景
		candidates := make([]Scenario, 0, len(s.scenarios))
		for _, sc := range s.scenarios {
			if sc.Title != state.Scenario.Title {
				candidates = append(candidates, sc)
			}
		}
		state.Scenario = candidates[rand.Intn(len(candidates))]
		if err := s.saveState(ctx, userID, state); err != nil {
			return nil, err
		}

		return &dto.PracticeResponse{
			Response: fmt.Sprintf(`New Scenario Selected

**Scenario**: %s

**Situation**: %s

Would you like to practice with this scenario?`, state.Scenario.Title, state.Scenario.Description),
			Buttons: practiceButtons,
		}, nil

	case "exit", "quit":
		if err := s.sessions.Delete(ctx, practiceSessionKey(userID)); err != nil {
			s.logger.Warn("删除演练会话失败", zap.Error(err))
		}
		return &dto.PracticeResponse{Response: "Practice mode ended."}, nil

	default:
		return &dto.PracticeResponse{Response: "Please choose: yes, no, or exit."}, nil
	}
}

func (s *practiceService) handleConversation(ctx context.Context, userID string, state *practiceState, message string) (*dto.PracticeResponse, error) {
	state.Responses = append(state.Responses, message)
	state.Interactions++

	if state.Interactions >= practiceMaxInteractions {
		return s.endSimulation(ctx, userID, state)
	}
	if err := s.saveState(ctx, userID, state); err != nil {
		return nil, err
	}

	prompt := fmt.Sprintf(`You are %s, a distressed employee in this situation: %s

The user (your mentor/colleague) just said: "%s"

CRITICAL: Respond SPECIFICALLY to what they just said. Don't repeat your problem description.

ROLEPLAY INSTRUCTIONS:
- You ARE %s, the person with the problem
- DIRECTLY answer their question or respond to their comment
- If they ask about details, give specific details
- If they offer help, react to that help
- If they suggest meeting, respond about timing/availability
- Show progression in the conversation - don't loop back to describing your problem
- Keep under 100 words
- Make it feel like a real back-and-forth conversation

Respond as %s:`,
		state.Scenario.CharacterName, state.Scenario.Description, message,
		state.Scenario.CharacterName, state.Scenario.CharacterName)

	maxTokens := 250
	reply, err := s.llm.Generate(ctx, llm.GenerateRequest{SystemPrompt: prompt, MaxTokens: &maxTokens})
	if err != nil {
		s.logger.Warn("演练角色扮演 LLM 调用失败，使用兜底台词", zap.Error(err))
		reply = fmt.Sprintf("%s nods slowly. \"Thanks... I'm still trying to figure out what to do next. What would you do in my place?\"",
			state.Scenario.CharacterName)
	}

	return &dto.PracticeResponse{Response: reply}, nil
}

func (s *practiceService) endSimulation(ctx context.Context, userID string, state *practiceState) (*dto.PracticeResponse, error) {
	var lines []string
	for i, r := range state.Responses {
		lines = append(lines, fmt.Sprintf("%d. %q", i+1, r))
	}

	prompt := fmt.Sprintf(`Evaluate this mentoring practice session based ONLY on what the USER said, not what the AI character said.

SCENARIO: %s

WHAT THE USER (MENTOR) ACTUALLY SAID:
%s

IMPORTANT:
- Evaluate ONLY the user's responses listed above
- Do NOT consider what the AI character said
- Focus on whether the user's words showed empathy, support, and good mentoring
- Be honest about what the user actually demonstrated

EVALUATION GUIDELINES:
- Be fair and constructive
- Acknowledge any genuine effort in the user's words
- Point out missed opportunities for better mentoring
- Keep under 200 words

EVALUATE THE USER'S MENTORING RESPONSES:

**What you did well:** [Based only on user's actual words]

**Areas for growth:** [What the user could improve based on their responses]

**Consider trying:** [2-3 specific suggestions for better responses]

**Scores:** Empathy: X/5 | Communication: X/5 | Problem-solving: X/5 | Overall: X/5`,
		state.Scenario.Description, strings.Join(lines, "\n"))

	maxTokens := 250
	evaluation, err := s.llm.Generate(ctx, llm.GenerateRequest{SystemPrompt: prompt, MaxTokens: &maxTokens})
	if err != nil {
		s.logger.Warn("演练评估 LLM 调用失败，使用兜底评估", zap.Error(err))
		evaluation = "**What you did well:** You stayed engaged through the whole conversation.\n\n" +
			"**Areas for growth:** The evaluation service is temporarily unavailable, so detailed feedback could not be generated.\n\n" +
			"**Consider trying:** Ask open questions, acknowledge feelings before offering solutions, and agree on a concrete next step.\n\n" +
			"**Scores:** Empathy: -/5 | Communication: -/5 | Problem-solving: -/5 | Overall: -/5"
	}

	state.State = practiceStateCompleted
	if err := s.saveState(ctx, userID, state); err != nil {
		return nil, err
	}

	return &dto.PracticeResponse{
		Response: fmt.Sprintf(`Practice Simulation Complete!

**Scenario**: %s
**Your Responses**: %d

%s

Want to practice another scenario? Click refresh and start again!`,
			state.Scenario.Title, len(state.Responses), evaluation),
	}, nil
}

func (s *practiceService) generateOpening(ctx context.Context, scenario Scenario) string {
	prompt := fmt.Sprintf(`You are %s. Based on this scenario: %s

You are approaching a colleague for help. Start the conversation naturally as %s would - panicked, stressed, or worried about your situation. Don't repeat the scenario description. Just speak naturally as someone who needs help.

Generate ONLY the opening dialogue (under 50 words):`,
		scenario.CharacterName, scenario.Description, scenario.CharacterName)

	maxTokens := 250
	opening, err := s.llm.Generate(ctx, llm.GenerateRequest{SystemPrompt: prompt, MaxTokens: &maxTokens})
	if err != nil {
		s.logger.Warn("演练开场白 LLM 调用失败，使用兜底台词", zap.Error(err))
		return fmt.Sprintf("\"Hey... do you have a minute? It's %s. I really need your advice on something.\"", scenario.CharacterName)
	}
	return opening
}

func (s *practiceService) saveState(ctx context.Context, userID string, state *practiceState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return err
	}
	if err := s.sessions.Update(ctx, practiceSessionKey(userID), func(string) (string, error) {
		return string(data), nil
	}); err != nil {
		s.logger.Error("保存演练会话失败", zap.Error(err))
		return err
	}
	return nil
}

func (s *practiceService) Reset(ctx context.Context, userID string) error {
	if err := s.sessions.Delete(ctx, practiceSessionKey(userID)); err != nil {
		s.logger.Error("重置演练会话失败", zap.Error(err))
		return err
	}
	return nil
}
