// Package config 定义 voxdub 的运行配置。
// 配置来源按优先级从低到高：内置默认值、可选的 YAML 配置文件、命令行参数。
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/iabetor/voxdub/internal/errs"
	"github.com/iabetor/voxdub/internal/logger"
)

// 内置默认值，与命令行帮助里展示的一致。
const (
	DefaultVoicevoxURL        = "http://localhost:50021"
	DefaultTimeoutQuery       = 10.0
	DefaultTimeoutSynthesis   = 60.0
	DefaultSilenceSameSpeaker = 0.125
	DefaultSilenceDiffSpeaker = 0.25
)

// Config 是 voxdub 的顶层配置结构。
type Config struct {
	// CSVPath 台词脚本路径，来自第一个位置参数。
	CSVPath string `yaml:"-"`
	// SpeakerMap 说话人映射串（"名字:ID 名字:ID ..."），来自第二个位置参数。
	SpeakerMap string `yaml:"-"`

	// VoicevoxURL 引擎 API 地址。
	VoicevoxURL string `yaml:"voicevox_url"`
	// OutputWavPath 输出 WAV 路径，为空则由脚本路径推导。
	OutputWavPath string `yaml:"output_wav_path"`
	// TimeoutQuery audio_query 请求超时（秒）。
	TimeoutQuery float64 `yaml:"timeout_query"`
	// TimeoutSynthesis synthesis 请求超时（秒）。
	TimeoutSynthesis float64 `yaml:"timeout_synthesis"`
	// SilenceSameSpeaker 说话人不变时插入的停顿（秒）。
	SilenceSameSpeaker float64 `yaml:"silence_duration_same_speaker"`
	// SilenceDiffSpeaker 说话人变化时插入的停顿（秒）。
	SilenceDiffSpeaker float64 `yaml:"silence_duration_diff_speaker"`

	// DryRun 只校验配置和脚本并打印合成计划，不发请求、不写文件。
	DryRun bool `yaml:"-"`
	// Play 写出文件后通过默认声卡播放结果。
	Play bool `yaml:"-"`

	Log logger.Config `yaml:"log"`
}

// Default 返回填好全部默认值的配置。
// 停顿时长 0 是合法取值（不插停顿），所以默认值在解析配置文件之前就位，
// 文件里写了的字段覆盖默认值，没写的保持不动。
func Default() *Config {
	return &Config{
		VoicevoxURL:        DefaultVoicevoxURL,
		TimeoutQuery:       DefaultTimeoutQuery,
		TimeoutSynthesis:   DefaultTimeoutSynthesis,
		SilenceSameSpeaker: DefaultSilenceSameSpeaker,
		SilenceDiffSpeaker: DefaultSilenceDiffSpeaker,
		Log:                logger.Config{Level: "info"},
	}
}

// Load 读取 YAML 配置文件，返回叠加在默认值之上的 Config。
// path 为空表示不使用配置文件，直接返回默认值。
// 文件内容支持 ${VAR_NAME} 形式的环境变量展开。
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: 读取配置文件 %s 失败: %v", errs.ErrConfig, path, err)
	}
	expanded := os.Expand(string(data), os.Getenv)
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("%w: 解析配置文件 %s 失败: %v", errs.ErrConfig, path, err)
	}
	return cfg, nil
}

// Validate 校验配置值。时长相关的非法取值都归为配置错误。
func (c *Config) Validate() error {
	if c.VoicevoxURL == "" {
		return fmt.Errorf("%w: voicevox_url 不能为空", errs.ErrConfig)
	}
	if c.TimeoutQuery <= 0 {
		return fmt.Errorf("%w: timeout_query 必须大于 0，实际为 %v", errs.ErrConfig, c.TimeoutQuery)
	}
	if c.TimeoutSynthesis <= 0 {
		return fmt.Errorf("%w: timeout_synthesis 必须大于 0，实际为 %v", errs.ErrConfig, c.TimeoutSynthesis)
	}
	if c.SilenceSameSpeaker < 0 {
		return fmt.Errorf("%w: silence_duration_same_speaker 不能为负数，实际为 %v", errs.ErrConfig, c.SilenceSameSpeaker)
	}
	if c.SilenceDiffSpeaker < 0 {
		return fmt.Errorf("%w: silence_duration_diff_speaker 不能为负数，实际为 %v", errs.ErrConfig, c.SilenceDiffSpeaker)
	}
	return nil
}

// QueryTimeout 返回 audio_query 的超时时长。
func (c *Config) QueryTimeout() time.Duration {
	return time.Duration(c.TimeoutQuery * float64(time.Second))
}

// SynthesisTimeout 返回 synthesis 的超时时长。
func (c *Config) SynthesisTimeout() time.Duration {
	return time.Duration(c.TimeoutSynthesis * float64(time.Second))
}
