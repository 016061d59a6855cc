// Package voicevox 是 VOICEVOX Engine HTTP API 的客户端。
// 一行台词的合成分两步：先用 audio_query 生成韵律查询，
// 再把查询原样交给 synthesis 换取 WAV 波形。
package voicevox

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/iabetor/voxdub/internal/logger"
)

// Client 调用 VOICEVOX Engine。两类请求各有独立超时：
// audio_query 很快，synthesis 随文本长度增长。
type Client struct {
	baseURL      string
	queryTimeout time.Duration
	synthTimeout time.Duration
	httpClient   *http.Client
}

// New 创建引擎客户端。baseURL 形如 http://localhost:50021。
func New(baseURL string, queryTimeout, synthTimeout time.Duration) *Client {
	return &Client{
		baseURL:      strings.TrimRight(baseURL, "/"),
		queryTimeout: queryTimeout,
		synthTimeout: synthTimeout,
		httpClient:   &http.Client{},
	}
}

// AudioQuery 为一段文本生成韵律查询。
// 返回引擎的查询 JSON 原文，后续 Synthesize 会原样回传，这里不做解析。
func (c *Client) AudioQuery(ctx context.Context, text string, speaker int) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.queryTimeout)
	defer cancel()

	q := url.Values{}
	q.Set("text", text)
	q.Set("speaker", strconv.Itoa(speaker))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/audio_query?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("[voicevox] 创建 audio_query 请求失败: %w", err)
	}

	body, err := c.do(req, "audio_query")
	if err != nil {
		return nil, err
	}
	logger.Debugf("[voicevox] audio_query 完成 (speaker=%d, %d 字节)", speaker, len(body))
	return body, nil
}

// Synthesize 把 audio_query 的查询 JSON 交给引擎，换取 WAV 波形字节。
func (c *Client) Synthesize(ctx context.Context, query []byte, speaker int) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.synthTimeout)
	defer cancel()

	q := url.Values{}
	q.Set("speaker", strconv.Itoa(speaker))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/synthesis?"+q.Encode(), bytes.NewReader(query))
	if err != nil {
		return nil, fmt.Errorf("[voicevox] 创建 synthesis 请求失败: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	body, err := c.do(req, "synthesis")
	if err != nil {
		return nil, err
	}
	logger.Debugf("[voicevox] synthesis 完成 (speaker=%d, %d 字节)", speaker, len(body))
	return body, nil
}

// Style 一个音色风格，ID 就是合成时使用的 speaker 参数。
type Style struct {
	Name string `json:"name"`
	ID   int    `json:"id"`
}

// Speaker 引擎里的一个角色及其全部风格。
type Speaker struct {
	Name   string  `json:"name"`
	UUID   string  `json:"speaker_uuid"`
	Styles []Style `json:"styles"`
}

// Speakers 列出引擎安装的全部角色和风格。
func (c *Client) Speakers(ctx context.Context) ([]Speaker, error) {
	ctx, cancel := context.WithTimeout(ctx, c.queryTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/speakers", nil)
	if err != nil {
		return nil, fmt.Errorf("[voicevox] 创建 speakers 请求失败: %w", err)
	}
	body, err := c.do(req, "speakers")
	if err != nil {
		return nil, err
	}

	var speakers []Speaker
	if err := json.Unmarshal(body, &speakers); err != nil {
		return nil, fmt.Errorf("[voicevox] 解析 speakers 响应失败: %w", err)
	}
	return speakers, nil
}

// Version 返回引擎版本号。
func (c *Client) Version(ctx context.Context) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.queryTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/version", nil)
	if err != nil {
		return "", fmt.Errorf("[voicevox] 创建 version 请求失败: %w", err)
	}
	body, err := c.do(req, "version")
	if err != nil {
		return "", err
	}

	var version string
	if err := json.Unmarshal(body, &version); err != nil {
		return "", fmt.Errorf("[voicevox] 解析 version 响应失败: %w", err)
	}
	return version, nil
}

// do 执行请求并读取整个响应体。非 2xx 状态把响应片段带进错误消息，便于定位。
func (c *Client) do(req *http.Request, op string) ([]byte, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("[voicevox] %s 请求失败: %w", op, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("[voicevox] 读取 %s 响应失败: %w", op, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("[voicevox] %s 返回状态码 %d: %s", op, resp.StatusCode, snippet(body))
	}
	return body, nil
}

// snippet 截取响应体前 200 字节放进错误消息。
func snippet(body []byte) string {
	const max = 200
	s := string(body)
	if len(s) > max {
		s = s[:max] + "..."
	}
	return strings.TrimSpace(s)
}
