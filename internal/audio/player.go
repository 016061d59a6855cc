package audio

import (
	"context"
	"fmt"
	"sync"

	"github.com/gen2brain/malgo"

	"github.com/iabetor/voxdub/internal/logger"
)

// Player 使用 malgo (miniaudio) 通过默认输出设备播放音频段。
type Player struct {
	ctx    *malgo.AllocatedContext
	mu     sync.Mutex
	closed bool
}

// NewPlayer 初始化播放环境。
func NewPlayer() (*Player, error) {
	ctx, err := malgo.InitContext(nil, malgo.ContextConfig{}, nil)
	if err != nil {
		return nil, fmt.Errorf("初始化播放上下文失败: %w", err)
	}
	return &Player{ctx: ctx}, nil
}

// Play 播放一个音频段，阻塞直到播完或 ctx 被取消。
// 样本按段自身的采样率和声道数送入设备，统一转成 16 位输出。
func (p *Player) Play(ctx context.Context, seg *Segment) error {
	if seg == nil || len(seg.Data) == 0 {
		return nil
	}

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return fmt.Errorf("播放器已关闭")
	}
	p.mu.Unlock()

	pcm := s16le(seg.Format, seg.Data)
	channels := uint32(seg.Format.Channels)
	pos := 0
	done := make(chan struct{})

	deviceConfig := malgo.DefaultDeviceConfig(malgo.Playback)
	deviceConfig.Playback.Format = malgo.FormatS16
	deviceConfig.Playback.Channels = channels
	deviceConfig.SampleRate = uint32(seg.Format.SampleRate)
	deviceConfig.PeriodSizeInFrames = 512
	deviceConfig.Periods = 2

	callbacks := malgo.DeviceCallbacks{
		Data: func(outputSamples, inputSamples []byte, frameCount uint32) {
			need := int(frameCount) * int(channels) * 2
			if pos >= len(pcm) {
				// 数据播完，填静音并通知结束
				for i := range outputSamples[:need] {
					outputSamples[i] = 0
				}
				select {
				case done <- struct{}{}:
				default:
				}
				return
			}

			end := pos + need
			if end > len(pcm) {
				end = len(pcm)
			}
			copy(outputSamples, pcm[pos:end])
			for i := end - pos; i < need; i++ {
				outputSamples[i] = 0
			}
			pos = end
		},
	}

	device, err := malgo.InitDevice(p.ctx.Context, deviceConfig, callbacks)
	if err != nil {
		return fmt.Errorf("初始化播放设备失败: %w", err)
	}
	defer device.Uninit()

	if err := device.Start(); err != nil {
		return fmt.Errorf("启动播放设备失败: %w", err)
	}
	defer device.Stop()

	logger.Infof("[audio] 播放 %.2fs 音频 (%s)", seg.Duration(), seg.Format)

	select {
	case <-ctx.Done():
		logger.Debugf("[audio] 播放被取消")
		return ctx.Err()
	case <-done:
		logger.Debugf("[audio] 播放完成")
		return nil
	}
}

// Close 释放播放资源。
func (p *Player) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return
	}
	p.closed = true

	if p.ctx != nil {
		_ = p.ctx.Uninit()
		p.ctx.Free()
		p.ctx = nil
	}
}
