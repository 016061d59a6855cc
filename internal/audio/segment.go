// Package audio 处理 PCM 音频段：解码引擎返回的 WAV、生成停顿、
// 按顺序拼接并写出最终文件，以及本地回放。
package audio

import (
	"fmt"
	"math"

	"github.com/iabetor/voxdub/internal/errs"
	"github.com/iabetor/voxdub/internal/logger"
)

// Format 采样格式。拼接要求所有段的格式完全一致。
type Format struct {
	SampleRate int
	Channels   int
	BitDepth   int
}

func (f Format) String() string {
	return fmt.Sprintf("%dHz/%dch/%dbit", f.SampleRate, f.Channels, f.BitDepth)
}

// Segment 一段解码后的 PCM 音频，样本按声道交错存放。
type Segment struct {
	Format Format
	Data   []int
}

// Frames 返回段内的帧数（每帧含全部声道的各一个样本）。
func (s *Segment) Frames() int {
	if s.Format.Channels == 0 {
		return 0
	}
	return len(s.Data) / s.Format.Channels
}

// Duration 返回段的时长（秒）。
func (s *Segment) Duration() float64 {
	if s.Format.SampleRate == 0 {
		return 0
	}
	return float64(s.Frames()) / float64(s.Format.SampleRate)
}

// SilenceSpec 相邻两段之间的停顿时长（秒）。
// 前后两行的音色 ID 相同用 SameSpeaker，不同用 DiffSpeaker。
type SilenceSpec struct {
	SameSpeaker float64
	DiffSpeaker float64
}

// Silence 生成指定时长的数字静音段，帧数为 round(seconds * 采样率)。
// 8 位无符号 PCM 的静音值是 128，其余位深是 0。
// 时长为 0 返回空段；负时长是配置错误。
func Silence(seconds float64, f Format) (*Segment, error) {
	if seconds < 0 {
		return nil, fmt.Errorf("%w: 停顿时长不能为负数，实际为 %v", errs.ErrConfig, seconds)
	}
	frames := int(math.Round(seconds * float64(f.SampleRate)))
	data := make([]int, frames*f.Channels)
	if f.BitDepth == 8 {
		for i := range data {
			data[i] = 128
		}
	}
	return &Segment{Format: f, Data: data}, nil
}

// Assemble 把各行的音频段按原始顺序拼成一个段。
// voices[i] 是 segs[i] 对应的音色 ID，决定段间停顿取 SameSpeaker 还是
// DiffSpeaker。停顿格式取第一段的格式；任何段的格式与第一段不一致都会报错，
// 绝不做重采样。
func Assemble(segs []*Segment, voices []int, spec SilenceSpec) (*Segment, error) {
	if len(segs) == 0 {
		return nil, fmt.Errorf("没有音频段可拼接")
	}
	if len(voices) != len(segs) {
		return nil, fmt.Errorf("音频段与音色 ID 数量不一致: %d 对 %d", len(segs), len(voices))
	}

	ref := segs[0].Format
	for i, s := range segs {
		if s.Format != ref {
			return nil, fmt.Errorf("%w: 第 %d 段的格式 %s 与第 1 段的 %s 不一致",
				errs.ErrAudioFormat, i+1, s.Format, ref)
		}
	}

	out := &Segment{Format: ref, Data: append([]int(nil), segs[0].Data...)}
	for i := 1; i < len(segs); i++ {
		d := spec.SameSpeaker
		if voices[i] != voices[i-1] {
			d = spec.DiffSpeaker
		}
		gap, err := Silence(d, ref)
		if err != nil {
			return nil, err
		}
		if gap.Frames() > 0 {
			logger.Debugf("[audio] 第 %d 段前插入 %.3fs 停顿 (%d 帧)", i+1, d, gap.Frames())
		}
		out.Data = append(out.Data, gap.Data...)
		out.Data = append(out.Data, segs[i].Data...)
	}
	return out, nil
}
