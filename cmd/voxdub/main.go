package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/iabetor/voxdub/internal/config"
	"github.com/iabetor/voxdub/internal/logger"
	"github.com/iabetor/voxdub/internal/pipeline"
	"github.com/iabetor/voxdub/internal/voicevox"
)

func main() {
	configPath := flag.String("config", "", "YAML 配置文件路径（可选）")
	voicevoxURL := flag.String("voicevox_url", config.DefaultVoicevoxURL, "VOICEVOX 引擎地址")
	outputWavPath := flag.String("output_wav_path", "", "输出 WAV 路径，默认把脚本扩展名换成 .wav")
	timeoutQuery := flag.Float64("timeout_query", config.DefaultTimeoutQuery, "audio_query 请求超时（秒）")
	timeoutSynthesis := flag.Float64("timeout_synthesis", config.DefaultTimeoutSynthesis, "synthesis 请求超时（秒）")
	silenceSame := flag.Float64("silence_duration_same_speaker", config.DefaultSilenceSameSpeaker, "说话人不变时插入的停顿（秒）")
	silenceDiff := flag.Float64("silence_duration_diff_speaker", config.DefaultSilenceDiffSpeaker, "说话人变化时插入的停顿（秒）")
	logLevel := flag.String("log_level", "", "日志级别 (debug/info/warn/error)")
	listSpeakers := flag.Bool("list_speakers", false, "列出引擎的角色和音色 ID 后退出")
	dryRun := flag.Bool("dry_run", false, "只校验脚本并打印合成计划，不请求引擎、不写文件")
	play := flag.Bool("play", false, "写出文件后通过默认声卡播放结果")

	flag.Usage = usage
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "加载配置失败: %v\n", err)
		os.Exit(1)
	}

	// 命令行里显式给出的参数覆盖配置文件。
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "voicevox_url":
			cfg.VoicevoxURL = *voicevoxURL
		case "output_wav_path":
			cfg.OutputWavPath = *outputWavPath
		case "timeout_query":
			cfg.TimeoutQuery = *timeoutQuery
		case "timeout_synthesis":
			cfg.TimeoutSynthesis = *timeoutSynthesis
		case "silence_duration_same_speaker":
			cfg.SilenceSameSpeaker = *silenceSame
		case "silence_duration_diff_speaker":
			cfg.SilenceDiffSpeaker = *silenceDiff
		case "log_level":
			cfg.Log.Level = *logLevel
		}
	})
	cfg.DryRun = *dryRun
	cfg.Play = *play

	if err := logger.Init(cfg.Log); err != nil {
		fmt.Fprintf(os.Stderr, "初始化日志失败: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 监听系统信号，中断时取消正在进行的请求
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Infof("[main] 收到信号 %v，正在中止...", sig)
		cancel()
	}()

	if *listSpeakers {
		if err := runListSpeakers(ctx, cfg); err != nil {
			fmt.Fprintf(os.Stderr, "获取角色列表失败: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if flag.NArg() != 2 {
		flag.Usage()
		os.Exit(2)
	}
	cfg.CSVPath = flag.Arg(0)
	cfg.SpeakerMap = flag.Arg(1)

	p, err := pipeline.New(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "创建流水线失败: %v\n", err)
		os.Exit(1)
	}
	if err := p.Run(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			fmt.Fprintln(os.Stderr, "已取消")
		} else {
			fmt.Fprintf(os.Stderr, "合成失败: %v\n", err)
		}
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, "用法: %s [选项] <csv_path> <speaker_map>\n\n", os.Args[0])
	fmt.Fprintln(os.Stderr, "把带说话人标注的台词 CSV 通过 VOICEVOX 引擎合成为一个 WAV 文件。")
	fmt.Fprintln(os.Stderr, "CSV 需要 speaker 和 text 两列；speaker_map 形如 \"四国めたん:2 ずんだもん:3\"。")
	fmt.Fprintln(os.Stderr)
	fmt.Fprintln(os.Stderr, "选项:")
	flag.PrintDefaults()
}

// runListSpeakers 打印引擎的版本、角色和每个角色的音色 ID，方便拼 speaker_map。
func runListSpeakers(ctx context.Context, cfg *config.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	client := voicevox.New(cfg.VoicevoxURL, cfg.QueryTimeout(), cfg.SynthesisTimeout())
	version, err := client.Version(ctx)
	if err != nil {
		return err
	}
	speakers, err := client.Speakers(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("VOICEVOX Engine %s，共 %d 个角色\n", version, len(speakers))
	for _, sp := range speakers {
		fmt.Println(sp.Name)
		for _, st := range sp.Styles {
			fmt.Printf("  %4d  %s\n", st.ID, st.Name)
		}
	}
	return nil
}
