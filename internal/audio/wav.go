package audio

import (
	"bytes"
	"fmt"
	"os"

	gaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/google/uuid"

	"github.com/iabetor/voxdub/internal/errs"
	"github.com/iabetor/voxdub/internal/logger"
)

// Decode 解析引擎返回的 WAV 字节，得到 PCM 段。
func Decode(raw []byte) (*Segment, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("%w: 引擎返回了空数据", errs.ErrAudioFormat)
	}

	dec := wav.NewDecoder(bytes.NewReader(raw))
	if !dec.IsValidFile() {
		return nil, fmt.Errorf("%w: 引擎返回的数据不是有效的 WAV", errs.ErrAudioFormat)
	}
	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("%w: 解码 WAV 数据失败: %v", errs.ErrAudioFormat, err)
	}

	return &Segment{
		Format: Format{
			SampleRate: int(dec.SampleRate),
			Channels:   int(dec.NumChans),
			BitDepth:   int(dec.BitDepth),
		},
		Data: buf.Data,
	}, nil
}

// WriteFile 把拼接结果写到 path，已有文件会被覆盖。
// 先写进同目录的临时文件再原子改名，任何失败都不会留下半成品输出。
func WriteFile(path string, seg *Segment) error {
	tmp := path + "." + uuid.New().String() + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("%w: 创建临时输出文件 %s 失败: %v", errs.ErrIO, tmp, err)
	}

	enc := wav.NewEncoder(f, seg.Format.SampleRate, seg.Format.BitDepth, seg.Format.Channels, 1)
	buf := &gaudio.IntBuffer{
		Format: &gaudio.Format{
			NumChannels: seg.Format.Channels,
			SampleRate:  seg.Format.SampleRate,
		},
		Data:           seg.Data,
		SourceBitDepth: seg.Format.BitDepth,
	}
	if err := enc.Write(buf); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("%w: 写入波形数据失败: %v", errs.ErrIO, err)
	}
	if err := enc.Close(); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("%w: 收尾 WAV 编码失败: %v", errs.ErrIO, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("%w: 关闭临时输出文件失败: %v", errs.ErrIO, err)
	}

	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("%w: 移动输出文件到 %s 失败: %v", errs.ErrIO, path, err)
	}
	logger.Debugf("[audio] 输出已写入 %s (%d 帧)", path, seg.Frames())
	return nil
}
