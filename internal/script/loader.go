// Package script 负责读取台词脚本：CSV 台词文件和命令行里的说话人映射。
package script

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"unicode/utf8"

	"github.com/iabetor/voxdub/internal/errs"
	"github.com/iabetor/voxdub/internal/logger"
)

// Row 一行台词。Line 是源 CSV 的行号（表头是第 1 行，首条数据是第 2 行）。
type Row struct {
	Speaker string
	Text    string
	Line    int
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Load 读取台词 CSV 文件。要求 UTF-8 编码（可带 BOM）、带表头，
// 且表头必须包含 speaker 和 text 两列，其余列忽略。
// text 为空的行直接跳过，不产生音频段，也不占用停顿位。
func Load(path string) ([]Row, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: 读取脚本文件 %s 失败: %v", errs.ErrFileFormat, path, err)
	}
	data = bytes.TrimPrefix(data, utf8BOM)
	if !utf8.Valid(data) {
		return nil, fmt.Errorf("%w: 脚本文件 %s 不是合法的 UTF-8", errs.ErrFileFormat, path)
	}

	r := csv.NewReader(bytes.NewReader(data))
	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: 脚本文件 %s 缺少表头: %v", errs.ErrFileFormat, path, err)
	}

	speakerCol, textCol := -1, -1
	for i, name := range header {
		switch name {
		case "speaker":
			speakerCol = i
		case "text":
			textCol = i
		}
	}
	if speakerCol < 0 || textCol < 0 {
		return nil, fmt.Errorf("%w: 脚本文件 %s 缺少必需列 (需要 speaker 和 text，实际为 %v)",
			errs.ErrFileFormat, path, header)
	}

	var rows []Row
	for i := 0; ; i++ {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		line := i + 2
		if err != nil {
			return nil, fmt.Errorf("%w: 脚本文件 %s 第 %d 行解析失败: %v", errs.ErrFileFormat, path, line, err)
		}
		if record[textCol] == "" {
			logger.Debugf("[script] 第 %d 行 text 为空，跳过", line)
			continue
		}
		rows = append(rows, Row{
			Speaker: record[speakerCol],
			Text:    record[textCol],
			Line:    line,
		})
	}

	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: 脚本文件 %s 没有可合成的台词行", errs.ErrFileFormat, path)
	}

	logger.Infof("[script] 读取脚本 %s 完成，共 %d 行台词", path, len(rows))
	return rows, nil
}
