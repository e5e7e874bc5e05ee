// Package llm 提供外部文本生成服务客户端
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"sitecraft-api/internal/config"
	"sitecraft-api/pkg/errors"
	"sitecraft-api/pkg/metrics"
)

var tracer = otel.Tracer("llm")

// Client 文本生成服务客户端，封装 OpenAI 兼容的 chat/completions 接口
type Client struct {
	baseURL     string
	apiKey      string
	model       string
	maxTokens   int
	temperature float64
	httpClient  *http.Client
}

// NewClient 创建客户端，未配置 API Key 时返回配置错误
func NewClient(cfg *config.LLMConfig) (*Client, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, errors.ErrConfiguration.WithDetail("llm api key is required")
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = "https://openrouter.ai/api/v1"
	}

	model := cfg.Model
	if model == "" {
		model = "deepseek/deepseek-chat"
	}

	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 8000
	}

	temperature := cfg.Temperature
	if temperature <= 0 {
		temperature = 0.7
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 180 * time.Second
	}

	return &Client{
		baseURL:     baseURL,
		apiKey:      apiKey,
		model:       model,
		maxTokens:   maxTokens,
		temperature: temperature,
		httpClient:  &http.Client{Timeout: timeout},
	}, nil
}

// chatMessage 对话消息
type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatRequest chat/completions 请求体
type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
}

// chatResponse chat/completions 响应体
type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// GenerateWebsite 根据描述生成完整网站 HTML
func (c *Client) GenerateWebsite(ctx context.Context, prompt, websiteType string) (string, error) {
	ctx, span := tracer.Start(ctx, "llm.GenerateWebsite")
	span.SetAttributes(attribute.String("llm.website_type", websiteType))
	defer span.End()

	system := generateSystemPrompt(websiteType)
	user := fmt.Sprintf("Create a professional website for: %s", prompt)

	return c.complete(ctx, system, user)
}

// ModifyWebsite 按修改指令重新生成现有网站 HTML
func (c *Client) ModifyWebsite(ctx context.Context, existingCode, modifications, websiteType string) (string, error) {
	ctx, span := tracer.Start(ctx, "llm.ModifyWebsite")
	span.SetAttributes(attribute.String("llm.website_type", websiteType))
	defer span.End()

	system := modifySystemPrompt(websiteType)
	user := fmt.Sprintf(
		"Existing website code:\n%s\n\nModifications requested:\n%s\n\nApply these modifications to the existing code and return the complete updated website.",
		existingCode, modifications,
	)

	return c.complete(ctx, system, user)
}

// complete 执行一次 chat/completions 调用并清理结果
func (c *Client) complete(ctx context.Context, system, user string) (string, error) {
	ctx, span := tracer.Start(ctx, "llm.complete")
	span.SetAttributes(attribute.String("llm.model", c.model))
	defer span.End()

	start := time.Now()

	payload := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		MaxTokens:   c.maxTokens,
		Temperature: c.temperature,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", errors.Wrap(err, errors.CodeLLMProviderError, "failed to encode request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", errors.Wrap(err, errors.CodeLLMProviderError, "failed to build request")
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		span.RecordError(err)
		metrics.LLMCallTotal.WithLabelValues(c.model, "error").Inc()
		return "", errors.Wrap(err, errors.CodeLLMProviderError, "AI API request failed")
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		span.RecordError(err)
		metrics.LLMCallTotal.WithLabelValues(c.model, "error").Inc()
		return "", errors.Wrap(err, errors.CodeLLMProviderError, "failed to read response")
	}

	metrics.LLMCallDuration.WithLabelValues(c.model).Observe(time.Since(start).Seconds())

	if resp.StatusCode != http.StatusOK {
		span.SetAttributes(attribute.Int("llm.status_code", resp.StatusCode))
		metrics.LLMCallTotal.WithLabelValues(c.model, "error").Inc()
		return "", errors.New(errors.CodeLLMProviderError,
			fmt.Sprintf("AI API request failed: %d", resp.StatusCode)).
			WithDetail(string(respBody))
	}

	var result chatResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		metrics.LLMCallTotal.WithLabelValues(c.model, "error").Inc()
		return "", errors.Wrap(err, errors.CodeLLMProviderError, "failed to decode response")
	}

	if len(result.Choices) == 0 {
		metrics.LLMCallTotal.WithLabelValues(c.model, "empty").Inc()
		return "", errors.New(errors.CodeLLMProviderError, "empty response from AI model")
	}

	metrics.LLMCallTotal.WithLabelValues(c.model, "success").Inc()

	return StripCodeFence(result.Choices[0].Message.Content), nil
}

// StripCodeFence 去除模型输出外层的 Markdown 代码栅栏并裁剪空白
// 生成和修改两条路径共用同一套清理规则，保证入库产物形态一致
func StripCodeFence(s string) string {
	s = strings.TrimSpace(s)

	if strings.HasPrefix(s, "```html") {
		s = s[len("```html"):]
	} else if strings.HasPrefix(s, "```") {
		s = s[len("```"):]
	}
	if strings.HasSuffix(s, "```") {
		s = s[:len(s)-len("```")]
	}

	return strings.TrimSpace(s)
}

// generateSystemPrompt 首次生成的系统指令
func generateSystemPrompt(websiteType string) string {
	return fmt.Sprintf(`You are SiteCraft AI, an expert website generator. Generate a complete, professional website based on the user's requirements.

Website Type: %s

Requirements:
1. Generate a complete HTML file with embedded CSS and JavaScript
2. Use modern, responsive design with 3D effects and professional styling
3. Include proper semantic HTML structure
4. Add interactive elements and smooth animations
5. Ensure mobile responsiveness
6. Use modern CSS features (flexbox, grid, transforms, shadows)
7. Include proper meta tags and SEO optimization
8. Add placeholder content that matches the website purpose
9. Use professional color schemes and typography
10. Include navigation, hero section, content sections, and footer

Return ONLY the complete HTML code, no explanations or markdown formatting.`, websiteType)
}

// modifySystemPrompt 修改生成的系统指令
func modifySystemPrompt(websiteType string) string {
	return fmt.Sprintf(`You are SiteCraft AI, an expert website modifier. Modify the existing website code based on the user's instructions.

Website Type: %s

Instructions:
1. Take the existing HTML code and apply the requested modifications
2. Maintain the overall structure and quality
3. Ensure the modifications are properly integrated
4. Keep the professional 3D styling and responsiveness
5. Return the complete modified HTML code
6. Do not break existing functionality

Return ONLY the complete modified HTML code, no explanations or markdown formatting.`, websiteType)
}
