package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"skillpath/backend/internal/dto"
	"skillpath/backend/internal/search"
	"skillpath/backend/internal/session"
	"skillpath/backend/pkg/llm"
)

// 入职问答的相关性门槛与上下文预算
const (
	onboardingHistoryLimit  = 6
	onboardingScoreCutoff   = 0.05 // 检索得分低于此值视为不相关
	onboardingContextLimit  = 1500 // 提示词上下文总字符预算
	onboardingSnippetLimit  = 300  // 单篇文档摘取字符上限
	onboardingPartialFloor  = 100  // 剩余预算低于此值时不再截取
	onboardingDefaultSource = "SAP Onboarding Guide"
)

// sapKeywords SAP 产品词（最高优先级放行）
var sapKeywords = []string{
	"sap", "s/4hana", "s4hana", "erp", "btp", "business technology platform",
	"hana", "fiori", "ariba", "concur", "successfactors", "fieldglass",
	"analytics cloud", "data intelligence", "integration suite", "commerce cloud",
	"sales cloud", "service cloud", "marketing cloud", "customer experience",
	"cx", "crm", "customer relationship management", "leonardo", "ai core",
	"launchpad", "workflow", "process orchestration", "master data governance",
	"data warehouse cloud", "datasphere", "event mesh", "api management",
}

// workKeywords 工作相关词（中等优先级放行）
var workKeywords = []string{
	"team", "work", "job", "career", "onboarding", "training", "project",
	"technology", "tool", "platform", "data science", "machine learning", "ai",
	"department", "manager", "colleague", "meeting", "process", "policy",
	"skill", "development", "learning", "certification", "performance", "review",
	"office", "remote", "schedule", "deadline", "goal", "objective", "mentor",
	"mentoring", "feedback", "collaboration", "communication", "leadership",
	"python", "sql", "analytics", "cloud", "database", "software", "programming",
	"code", "engineering", "research", "innovation", "product",
	"customer", "business", "strategy", "planning", "reporting", "analysis",
	"enterprise", "solution", "implementation", "integration", "architecture",
}

// businessKeywords 企业业务词
var businessKeywords = []string{
	"supply chain", "procurement", "finance", "accounting", "hr", "human resources",
	"sales", "marketing", "service", "operations", "manufacturing", "retail",
	"logistics", "warehouse", "inventory", "forecasting", "budgeting",
	"compliance", "governance", "security", "privacy", "gdpr", "audit",
}

// irrelevantKeywords 明确的非工作话题（强否定信号，优先判定）
var irrelevantKeywords = []string{
	"personal life", "family", "relationship", "dating", "marriage", "divorce",
	"religion", "politics", "weather", "sports", "entertainment", "movie", "music",
	"food", "cooking", "recipe", "vacation", "travel", "hobby", "gaming", "tv show",
	"celebrity", "gossip", "health", "medical", "doctor", "medicine", "fitness",
	"diet", "weight", "appearance", "fashion", "shopping", "personal finance",
	"investment", "stock", "cryptocurrency", "bitcoin", "lottery", "gambling",
}

var questionWords = []string{
	"what", "how", "when", "where", "who", "why", "can", "should",
	"do", "does", "tell", "explain", "describe",
}

const offTopicReply = "This question doesn't seem to be related to SAP products, data science, or work. " +
	"Please ask questions about SAP solutions like BTP (Business Technology Platform), ERP/S/4HANA, " +
	"Customer Experience (CX), onboarding, or other SAP-related topics."

const noRelevantInfoReply = "No relevant information found. Please contact HR for more information or " +
	"ask questions specifically related to SAP products, the Data Science Department, or SAP's technology platform."

const llmFallbackReply = "No relevant information found. Please contact HR for more information or " +
	"ask questions specifically related to SAP products, data science applications, or the SAP Data Science Department."

// onboardingTurn 一轮对话（与前端约定的 role/content 结构）
type onboardingTurn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// OnboardingService 入职问答服务：基于文档知识库回答新员工问题，
// 非工作话题直接婉拒，不消耗 LLM 配额
type OnboardingService interface {
	Chat(ctx context.Context, req *dto.OnboardingChatRequest) (*dto.OnboardingChatResponse, error)
	Reset(ctx context.Context, userID string) error
	SearchDocs(ctx context.Context, req *dto.SearchDocsRequest) (*dto.SearchDocsResponse, error)
}

type onboardingService struct {
	llm      llm.Client
	index    search.Index
	sessions session.Store
	logger   *zap.Logger
}

func NewOnboardingService(client llm.Client, index search.Index, sessions session.Store, logger *zap.Logger) OnboardingService {
	return &onboardingService{
		llm:      client,
		index:    index,
		sessions: sessions,
		logger:   logger,
	}
}

func onboardingSessionKey(userID string) string {
	if userID == "" {
		userID = "default_user"
	}
	return "onboarding:" + userID
}

func (s *onboardingService) Chat(ctx context.Context, req *dto.OnboardingChatRequest) (*dto.OnboardingChatResponse, error) {
	message := strings.TrimSpace(req.Message)
	now := time.Now().Format(time.RFC3339)

	if !isWorkRelevant(message) {
		return &dto.OnboardingChatResponse{
			Response: offTopicReply,
			Suggestions: []string{
				"What are the main SAP products I should know?",
				"Tell me about SAP Business Technology Platform (BTP)",
				"How does data science apply to SAP solutions?",
			},
			Sources:   []string{},
			Timestamp: now,
		}, nil
	}

	results, err := s.index.Search(ctx, message, 5)
	if err != nil {
		s.logger.Error("入职文档检索失败", zap.Error(err))
		return nil, err
	}

	// 按相关性得分过滤
	relevant := results[:0:0]
	for _, r := range results {
		if r.Score >= onboardingScoreCutoff {
			relevant = append(relevant, r)
		}
	}
	if len(relevant) == 0 {
		return &dto.OnboardingChatResponse{
			Response: noRelevantInfoReply,
			Suggestions: []string{
				"What are the main SAP products I should learn?",
				"Tell me about SAP's Business Technology Platform",
				"How is data science used in SAP solutions?",
			},
			Sources:   []string{},
			Timestamp: now,
		}, nil
	}

	contextText := buildOnboardingContext(message, relevant)

	systemPrompt := fmt.Sprintf(`You are a SAP Data Science onboarding assistant. Focus on BTP, ERP/S/4HANA, CX solutions.

RULES:
1. Answer ONLY from context below
2. If no relevant info, say "No relevant information found"
3. Keep under 150 words
4. Emphasize SAP products and data science applications

Context: %s

Be concise, helpful, and SAP-focused.`, contextText)

	maxTokens := 150
	temp := 0.3
	reply, err := s.llm.Generate(ctx, llm.GenerateRequest{
		SystemPrompt: systemPrompt,
		UserPrompt:   message,
		MaxTokens:    &maxTokens,
		Temperature:  &temp,
	})
	if err != nil {
		s.logger.Warn("入职问答 LLM 调用失败，使用兜底回复", zap.Error(err))
		reply = llmFallbackReply
	}
	reply = strings.TrimSpace(reply)
	if reply == "" {
		reply = llmFallbackReply
	}

	// 对话历史只保留最近 6 条
	if err := s.sessions.Update(ctx, onboardingSessionKey(req.UserID), func(current string) (string, error) {
		var turns []onboardingTurn
		if current != "" {
			_ = json.Unmarshal([]byte(current), &turns)
		}
		turns = append(turns,
			onboardingTurn{Role: "user", Content: message},
			onboardingTurn{Role: "assistant", Content: reply},
		)
		if len(turns) > onboardingHistoryLimit {
			turns = turns[len(turns)-onboardingHistoryLimit:]
		}
		data, err := json.Marshal(turns)
		return string(data), err
	}); err != nil {
		s.logger.Warn("更新入职会话失败", zap.Error(err))
	}

	var suggestions []string
	if strings.Contains(reply, "No relevant information found") {
		suggestions = []string{
			"What are the main SAP products I should learn?",
			"Tell me about SAP's Business Technology Platform",
			"How is data science applied in SAP solutions?",
		}
	} else {
		suggestions = generateOnboardingSuggestions(message)
	}

	sources := make([]string, 0, len(relevant))
	for _, r := range relevant {
		sources = append(sources, fmt.Sprintf("Document: %s", sourceOf(r.Metadata)))
	}

	return &dto.OnboardingChatResponse{
		Response:    reply,
		Suggestions: suggestions,
		Sources:     sources,
		Timestamp:   now,
	}, nil
}

func sourceOf(metadata map[string]any) string {
	if src, ok := metadata["source"].(string); ok && src != "" {
		return src
	}
	return onboardingDefaultSource
}

// isWorkRelevant 纯关键词判定：非工作话题拒绝，SAP/工作/业务词放行，
// 疑问词开头且不超过 25 词的一般问题也放行，其余默认放行
func isWorkRelevant(message string) bool {
	lower := strings.ToLower(message)

	for _, kw := range irrelevantKeywords {
		if strings.Contains(lower, kw) {
			return false
		}
	}
	for _, kw := range sapKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	for _, kw := range workKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	for _, kw := range businessKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	for _, qw := range questionWords {
		if strings.HasPrefix(lower, qw) && len(strings.Fields(message)) <= 25 {
			return true
		}
	}
	return true
}

// buildOnboardingContext 在总字符预算内拼接最相关的文档片段，
// 过长的文档按与问题的关键词重合度摘取句子
func buildOnboardingContext(query string, results []search.Result) string {
	queryKeywords := map[string]struct{}{}
	for _, w := range strings.Fields(strings.ToLower(query)) {
		queryKeywords[w] = struct{}{}
	}

	var parts []string
	total := 0
	for _, r := range results {
		content := r.Content
		if len(content) > onboardingSnippetLimit {
			content = pickRelevantSentences(content, queryKeywords)
		}

		if total+len(content) <= onboardingContextLimit {
			parts = append(parts, content)
			total += len(content)
			continue
		}
		if remaining := onboardingContextLimit - total; remaining > onboardingPartialFloor {
			parts = append(parts, content[:remaining]+"...")
		}
		break
	}
	return strings.Join(parts, "\n\n")
}

func pickRelevantSentences(content string, queryKeywords map[string]struct{}) string {
	sentences := strings.Split(content, ". ")
	type scored struct {
		sentence string
		overlap  int
	}
	ranked := make([]scored, 0, len(sentences))
	for _, sent := range sentences {
		lower := strings.ToLower(sent)
		overlap := 0
		for kw := range queryKeywords {
			if strings.Contains(lower, kw) {
				overlap++
			}
		}
		ranked = append(ranked, scored{sentence: sent, overlap: overlap})
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].overlap > ranked[j].overlap })

	var b strings.Builder
	for _, r := range ranked {
		if b.Len()+len(r.sentence) >= onboardingSnippetLimit {
			break
		}
		b.WriteString(r.sentence)
		b.WriteString(". ")
	}
	return strings.TrimSpace(b.String())
}

// generateOnboardingSuggestions 按问题关键词给出 3 条追问建议
func generateOnboardingSuggestions(message string) []string {
	lower := strings.ToLower(message)

	containsAny := func(keywords ...string) bool {
		for _, kw := range keywords {
			if strings.Contains(lower, kw) {
				return true
			}
		}
		return false
	}

	switch {
	case containsAny("btp", "business technology platform"):
		return []string{
			"What services are available in SAP BTP?",
			"How do I develop applications on BTP?",
			"What is SAP HANA Cloud and how is it used?",
		}
	case containsAny("erp", "s/4hana", "s4hana"):
		return []string{
			"What modules are available in S/4HANA?",
			"How does real-time analytics work in S/4HANA?",
			"What's the difference between ERP and S/4HANA?",
		}
	case containsAny("cx", "customer experience", "sales cloud", "service cloud"):
		return []string{
			"What is SAP Customer Experience suite?",
			"How do Sales Cloud and Service Cloud work together?",
			"What data science applications exist in CX?",
		}
	case containsAny("analytics", "data science", "machine learning"):
		return []string{
			"What analytics tools does SAP provide?",
			"How is machine learning integrated in SAP products?",
			"What is SAP Analytics Cloud used for?",
		}
	case containsAny("onboarding", "new", "first week"):
		return []string{
			"What SAP products should I learn first?",
			"What training is available for new employees?",
			"Who will be my mentor during onboarding?",
		}
	case containsAny("tool", "technology", "platform"):
		return []string{
			"What SAP development tools should I use?",
			"How do I access SAP systems and platforms?",
			"What's the architecture of SAP solutions?",
		}
	case containsAny("career", "growth", "development"):
		return []string{
			"What career paths exist in SAP data science?",
			"What SAP certifications should I pursue?",
			"How can I specialize in specific SAP products?",
		}
	case containsAny("integration", "api", "connectivity"):
		return []string{
			"How do SAP products integrate with each other?",
			"What integration technologies does SAP use?",
			"How do I connect external systems to SAP?",
		}
	default:
		return []string{
			"What are the main SAP products I should know?",
			"How does SAP support digital transformation?",
			"What makes SAP's approach to enterprise software unique?",
		}
	}
}

func (s *onboardingService) Reset(ctx context.Context, userID string) error {
	if err := s.sessions.Delete(ctx, onboardingSessionKey(userID)); err != nil {
		s.logger.Error("重置入职会话失败", zap.Error(err))
		return err
	}
	s.logger.Info("入职会话已重置", zap.String("user_id", userID))
	return nil
}

func (s *onboardingService) SearchDocs(ctx context.Context, req *dto.SearchDocsRequest) (*dto.SearchDocsResponse, error) {
	topK := req.TopK
	if topK <= 0 {
		topK = 3
	}

	results, err := s.index.Search(ctx, req.Query, topK)
	if err != nil {
		s.logger.Error("入职文档检索失败", zap.Error(err))
		return nil, err
	}

	docs := make([]dto.DocSearchResult, 0, len(results))
	for _, r := range results {
		content := r.Content
		if len(content) > onboardingSnippetLimit {
			content = content[:onboardingSnippetLimit] + "..."
		}
		source := "Unknown"
		if src, ok := r.Metadata["source"].(string); ok && src != "" {
			source = src
		}
		docs = append(docs, dto.DocSearchResult{
			Content:  content,
			Metadata: r.Metadata,
			Source:   source,
		})
	}

	return &dto.SearchDocsResponse{
		Query:   req.Query,
		Results: docs,
		Count:   len(docs),
	}, nil
}
