package audio

// s16le 把任意位深的 PCM 样本转成 16 位小端字节流，供播放设备使用。
// 8 位无符号样本先平移回有符号再放大，24/32 位截掉低位。
func s16le(f Format, data []int) []byte {
	out := make([]byte, len(data)*2)
	for i, v := range data {
		var s int
		switch f.BitDepth {
		case 8:
			s = (v - 128) << 8
		case 24:
			s = v >> 8
		case 32:
			s = v >> 16
		default:
			s = v
		}
		out[2*i] = byte(s)
		out[2*i+1] = byte(s >> 8)
	}
	return out
}
