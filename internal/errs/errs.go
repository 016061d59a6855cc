// Package errs 定义流水线各阶段的错误类别。
// 所有错误都是致命的：任何一类出现都会中止本次运行，不产生输出文件。
// 上层通过 errors.Is / errors.As 区分类别。
package errs

import (
	"errors"
	"fmt"
)

var (
	// ErrConfig 配置错误：说话人映射语法非法、台词引用了未映射的说话人、
	// 停顿时长为负等。
	ErrConfig = errors.New("配置错误")

	// ErrFileFormat 脚本文件错误：文件无法读取、不是合法 UTF-8、
	// 缺少必需列或没有可用的台词行。
	ErrFileFormat = errors.New("脚本文件格式错误")

	// ErrAudioFormat 音频格式错误：引擎返回的数据无法解析，
	// 或各段之间采样格式不一致。
	ErrAudioFormat = errors.New("音频格式错误")

	// ErrIO 输出文件写入错误。
	ErrIO = errors.New("输出写入错误")
)

// SynthesisError 表示某一行台词的合成失败（网络错误、非 2xx 响应或超时）。
// Row 是台词行序号（从 1 开始），Text 是该行原始文本，便于定位问题。
type SynthesisError struct {
	Row  int
	Text string
	Err  error
}

func (e *SynthesisError) Error() string {
	return fmt.Sprintf("第 %d 行台词合成失败 (text=%q): %v", e.Row, Excerpt(e.Text), e.Err)
}

func (e *SynthesisError) Unwrap() error { return e.Err }

// Excerpt 截取文本前 30 个字符用于日志和错误消息。
func Excerpt(s string) string {
	const max = 30
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max]) + "..."
}
