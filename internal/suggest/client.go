package suggest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

var (
	// ErrUnauthorized 对应上游 401。
	ErrUnauthorized = errors.New("suggestion service rejected the credentials")
	// ErrRateLimited 对应上游 429，用户可手动重试。
	ErrRateLimited = errors.New("suggestion service rate limit reached, try again later")
	// ErrUsageCapReached 对应上游 402。
	ErrUsageCapReached = errors.New("suggestion usage cap reached")
	// ErrUpstream 表示其他上游失败（网络、超时、5xx、空响应）。
	ErrUpstream = errors.New("suggestion service unavailable")
	// ErrNotConfigured 表示没有配置上游地址。
	ErrNotConfigured = errors.New("suggestion service is not configured")
)

const maxResponseBytes = 1 << 20

// Type 是建议的目标字段。
type Type string

const (
	TypeSummary     Type = "summary"
	TypeProject     Type = "project"
	TypeAchievement Type = "achievement"
	TypeSkill       Type = "skill"
)

// ParseType 校验建议类型。
func ParseType(raw string) (Type, bool) {
	switch t := Type(strings.ToLower(strings.TrimSpace(raw))); t {
	case TypeSummary, TypeProject, TypeAchievement, TypeSkill:
		return t, true
	}
	return "", false
}

// Request 是发送给上游的请求体。
type Request struct {
	Type        Type   `json:"type"`
	Data        any    `json:"data"`
	CurrentText string `json:"currentText,omitempty"`
}

// Suggestion 是一条建议文本。
type Suggestion struct {
	Text      string `json:"text"`
	Highlight string `json:"highlight,omitempty"`
}

type response struct {
	Suggestions []Suggestion `json:"suggestions"`
}

// Client 调用外部 AI 建议服务。
type Client struct {
	url  string
	http *http.Client
}

// NewClient 创建带超时的客户端。
func NewClient(url string, timeout time.Duration) *Client {
	return &Client{
		url:  strings.TrimSpace(url),
		http: &http.Client{Timeout: timeout},
	}
}

// Suggest 转发调用方的 bearer token 请求建议。
// 模型输出不是预期 JSON 时，把原始文本包装为一条建议返回。
func (c *Client) Suggest(ctx context.Context, bearerToken string, req Request) ([]Suggestion, error) {
	if c.url == "" {
		return nil, ErrNotConfigured
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal suggestion request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create suggestion request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if bearerToken != "" {
		httpReq.Header.Set("Authorization", "Bearer "+bearerToken)
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %v", ErrUpstream, err)
	}

	switch resp.StatusCode {
	case http.StatusUnauthorized:
		return nil, ErrUnauthorized
	case http.StatusTooManyRequests:
		return nil, ErrRateLimited
	case http.StatusPaymentRequired:
		return nil, ErrUsageCapReached
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: status %d", ErrUpstream, resp.StatusCode)
	}

	return parseSuggestions(raw)
}

// parseSuggestions 依次尝试：标准结构、去掉 ``` 代码块后的结构、原始文本。
func parseSuggestions(raw []byte) ([]Suggestion, error) {
	content := strings.TrimSpace(string(raw))
	if content == "" {
		return nil, fmt.Errorf("%w: empty response", ErrUpstream)
	}

	if out, ok := decode(content); ok {
		return out, nil
	}

	stripped := stripFences(content)
	if out, ok := decode(stripped); ok {
		return out, nil
	}
	if stripped == "" {
		return nil, fmt.Errorf("%w: empty response", ErrUpstream)
	}

	return []Suggestion{{Text: stripped}}, nil
}

func decode(content string) ([]Suggestion, bool) {
	var resp response
	if err := json.Unmarshal([]byte(content), &resp); err == nil && resp.Suggestions != nil {
		return nonEmpty(resp.Suggestions), true
	}
	var list []Suggestion
	if err := json.Unmarshal([]byte(content), &list); err == nil {
		return nonEmpty(list), true
	}
	return nil, false
}

func nonEmpty(in []Suggestion) []Suggestion {
	out := make([]Suggestion, 0, len(in))
	for _, s := range in {
		s.Text = strings.TrimSpace(s.Text)
		if s.Text != "" {
			out = append(out, s)
		}
	}
	return out
}

func stripFences(content string) string {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	return strings.TrimSpace(content)
}
