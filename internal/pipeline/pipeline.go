// Package pipeline 是主编排器：读脚本、映射说话人、逐行调用引擎合成、
// 拼接停顿并写出最终 WAV。全程单线程顺序执行，任何一步失败都立即中止，
// 不产生输出文件。
package pipeline

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/iabetor/voxdub/internal/audio"
	"github.com/iabetor/voxdub/internal/config"
	"github.com/iabetor/voxdub/internal/errs"
	"github.com/iabetor/voxdub/internal/logger"
	"github.com/iabetor/voxdub/internal/script"
	"github.com/iabetor/voxdub/internal/voicevox"
)

// Pipeline 把一份台词脚本变成一个合成音频文件。
type Pipeline struct {
	cfg    *config.Config
	client *voicevox.Client
	spec   audio.SilenceSpec
}

// New 根据配置创建 Pipeline。配置非法时直接报错。
func New(cfg *config.Config) (*Pipeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Pipeline{
		cfg:    cfg,
		client: voicevox.New(cfg.VoicevoxURL, cfg.QueryTimeout(), cfg.SynthesisTimeout()),
		spec: audio.SilenceSpec{
			SameSpeaker: cfg.SilenceSameSpeaker,
			DiffSpeaker: cfg.SilenceDiffSpeaker,
		},
	}, nil
}

// Run 执行整个流水线。顺序：解析说话人映射 → 读脚本 → 逐行解析音色 ID →
// 逐行合成 → 拼接 → 写文件。映射缺失在发出第一个请求之前就会暴露。
func (p *Pipeline) Run(ctx context.Context) error {
	smap, err := script.ParseSpeakerMap(p.cfg.SpeakerMap)
	if err != nil {
		return err
	}

	rows, err := script.Load(p.cfg.CSVPath)
	if err != nil {
		return err
	}

	voices := make([]int, len(rows))
	for i, row := range rows {
		id, ok := smap[row.Speaker]
		if !ok {
			return fmt.Errorf("%w: 第 %d 行 (CSV 第 %d 行) 的说话人 %q 不在映射表中",
				errs.ErrConfig, i+1, row.Line, row.Speaker)
		}
		voices[i] = id
	}

	outPath := p.outputPath()
	logger.Infof("[pipeline] 脚本 %s：%d 行台词，%d 个说话人，输出到 %s",
		p.cfg.CSVPath, len(rows), len(smap), outPath)

	if p.cfg.DryRun {
		for i, row := range rows {
			logger.Infof("[pipeline] 计划 %d/%d (CSV 第 %d 行): %s → 音色 %d: %s",
				i+1, len(rows), row.Line, row.Speaker, voices[i], errs.Excerpt(row.Text))
		}
		logger.Infof("[pipeline] dry-run 结束，未发起任何合成请求")
		return nil
	}

	segs := make([]*audio.Segment, 0, len(rows))
	for i, row := range rows {
		if err := ctx.Err(); err != nil {
			return err
		}
		logger.Infof("[pipeline] 合成 %d/%d (CSV 第 %d 行, %s → 音色 %d): %s",
			i+1, len(rows), row.Line, row.Speaker, voices[i], errs.Excerpt(row.Text))

		query, err := p.client.AudioQuery(ctx, row.Text, voices[i])
		if err != nil {
			return &errs.SynthesisError{Row: i + 1, Text: row.Text, Err: err}
		}
		data, err := p.client.Synthesize(ctx, query, voices[i])
		if err != nil {
			return &errs.SynthesisError{Row: i + 1, Text: row.Text, Err: err}
		}
		seg, err := audio.Decode(data)
		if err != nil {
			return fmt.Errorf("第 %d 行 (CSV 第 %d 行): %w", i+1, row.Line, err)
		}
		segs = append(segs, seg)
	}

	out, err := audio.Assemble(segs, voices, p.spec)
	if err != nil {
		return err
	}
	if err := audio.WriteFile(outPath, out); err != nil {
		return err
	}

	logger.Infof("[pipeline] 合成完成：%d 段，%d 帧，约 %.2f 秒，已写入 %s",
		len(segs), out.Frames(), out.Duration(), outPath)

	if p.cfg.Play {
		player, err := audio.NewPlayer()
		if err != nil {
			return fmt.Errorf("初始化播放失败: %w", err)
		}
		defer player.Close()
		if err := player.Play(ctx, out); err != nil {
			return fmt.Errorf("播放输出失败: %w", err)
		}
	}
	return nil
}

// outputPath 未显式指定输出路径时，把脚本路径的扩展名换成 .wav。
func (p *Pipeline) outputPath() string {
	if p.cfg.OutputWavPath != "" {
		return p.cfg.OutputWavPath
	}
	return strings.TrimSuffix(p.cfg.CSVPath, filepath.Ext(p.cfg.CSVPath)) + ".wav"
}
