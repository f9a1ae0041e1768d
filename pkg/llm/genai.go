package llm

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/genai"

	"skillpath/backend/config"
)

// geminiClient 通过 Google GenAI SDK 调用 Gemini 模型
type geminiClient struct {
	cfg    *config.LLMConfig
	client *genai.Client
}

func newGeminiClient(cfg *config.LLMConfig) (*geminiClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini 提供方需要 llm.api_key")
	}

	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey: cfg.APIKey,
	})
	if err != nil {
		return nil, fmt.Errorf("创建 GenAI 客户端失败: %w", err)
	}

	return &geminiClient{cfg: cfg, client: client}, nil
}

func (c *geminiClient) Generate(ctx context.Context, req GenerateRequest) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	genCfg := &genai.GenerateContentConfig{}
	if req.SystemPrompt != "" {
		genCfg.SystemInstruction = genai.NewContentFromText(req.SystemPrompt, genai.RoleUser)
	}
	if req.Temperature != nil {
		genCfg.Temperature = genai.Ptr(float32(*req.Temperature))
	}
	maxTok := c.cfg.MaxTokens
	if req.MaxTokens != nil {
		maxTok = *req.MaxTokens
	}
	if maxTok > 0 {
		genCfg.MaxOutputTokens = int32(maxTok)
	}

	result, err := c.client.Models.GenerateContent(ctx, c.cfg.Model, genai.Text(req.UserPrompt), genCfg)
	if err != nil {
		if ctx.Err() != nil {
			return "", ErrTimeout
		}
		return "", fmt.Errorf("GenAI 生成失败: %w", err)
	}

	text := result.Text()
	if text == "" {
		return "", fmt.Errorf("%w: 响应中无文本内容", ErrInvalidOutput)
	}
	return text, nil
}

func (c *geminiClient) Available(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	// 用一次极小的生成请求探测可用性
	one := 1
	_, err := c.Generate(ctx, GenerateRequest{UserPrompt: "ping", MaxTokens: &one})
	return err == nil
}
