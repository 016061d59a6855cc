package script

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/iabetor/voxdub/internal/errs"
	"github.com/iabetor/voxdub/internal/logger"
)

// SpeakerMap 把脚本里的说话人名映射为引擎的音色 ID。名字区分大小写。
type SpeakerMap map[string]int

// ParseSpeakerMap 解析 "名字:ID 名字:ID ..." 形式的映射串。
// 按空白切分出条目，每条在最后一个冒号处拆开；名字本身不允许包含冒号，
// ID 必须是非负十进制整数。同名条目若 ID 冲突则报错，ID 相同则允许重复。
func ParseSpeakerMap(s string) (SpeakerMap, error) {
	tokens := strings.Fields(s)
	if len(tokens) == 0 {
		return nil, fmt.Errorf("%w: 说话人映射为空", errs.ErrConfig)
	}

	m := make(SpeakerMap, len(tokens))
	for _, tok := range tokens {
		sep := strings.LastIndex(tok, ":")
		if sep < 0 {
			return nil, fmt.Errorf("%w: 映射条目 %q 缺少冒号，应为 名字:ID", errs.ErrConfig, tok)
		}
		name, idStr := tok[:sep], tok[sep+1:]
		if name == "" {
			return nil, fmt.Errorf("%w: 映射条目 %q 的说话人名为空", errs.ErrConfig, tok)
		}
		if strings.Contains(name, ":") {
			return nil, fmt.Errorf("%w: 映射条目 %q 非法，说话人名不能包含冒号", errs.ErrConfig, tok)
		}
		id, err := strconv.Atoi(idStr)
		if err != nil {
			return nil, fmt.Errorf("%w: 映射条目 %q 的 ID %q 不是整数", errs.ErrConfig, tok, idStr)
		}
		if id < 0 {
			return nil, fmt.Errorf("%w: 映射条目 %q 的 ID 不能为负数", errs.ErrConfig, tok)
		}
		if old, ok := m[name]; ok && old != id {
			return nil, fmt.Errorf("%w: 说话人 %q 重复出现且 ID 冲突 (%d 与 %d)", errs.ErrConfig, name, old, id)
		}
		m[name] = id
	}

	logger.Debugf("[script] 说话人映射解析完成，共 %d 个说话人", len(m))
	return m, nil
}
