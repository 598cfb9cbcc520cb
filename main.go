package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/gonewx/ghostframe/pkg/app"
	"github.com/gonewx/ghostframe/pkg/config"
	"github.com/gonewx/ghostframe/pkg/embedded"
	"github.com/gonewx/ghostframe/pkg/logging"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/quasilyte/gdata/v2"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// defaultConfigPath 嵌入的默认遭遇战配置
const defaultConfigPath = "data/encounter.yaml"

// launchOptions 启动参数
//
// 优先级：命令行 > 环境变量（GHOSTFRAME_CONFIG 等）> 默认值。
type launchOptions struct {
	ConfigPath string
	Verbose    bool
	VR         bool
}

func readOptions(args []string) (launchOptions, error) {
	flags := pflag.NewFlagSet("ghostframe", pflag.ContinueOnError)
	flags.String("config", "", "遭遇战配置文件路径（默认使用内置配置）")
	flags.Bool("verbose", false, "输出详细日志")
	flags.Bool("vr", false, "使用手柄右肩键模拟 VR 控制器")
	if err := flags.Parse(args); err != nil {
		return launchOptions{}, err
	}

	v := viper.New()
	v.SetEnvPrefix("GHOSTFRAME")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(flags); err != nil {
		return launchOptions{}, err
	}

	return launchOptions{
		ConfigPath: v.GetString("config"),
		Verbose:    v.GetBool("verbose"),
		VR:         v.GetBool("vr"),
	}, nil
}

// loadEncounterConfig 读取指定配置文件，未指定时使用嵌入的默认配置
func loadEncounterConfig(path string) (*config.EncounterConfig, error) {
	if path != "" {
		return config.LoadEncounterConfig(path)
	}
	data, err := embedded.ReadFile(defaultConfigPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read embedded config: %w", err)
	}
	return config.ParseEncounterConfig(data)
}

func run() error {
	opts, err := readOptions(os.Args[1:])
	if err != nil {
		return err
	}

	logging.Init(opts.Verbose)
	logger := logging.For("Main")

	embedded.Init(dataFS)

	cfg, err := loadEncounterConfig(opts.ConfigPath)
	if err != nil {
		return err
	}

	// 存储不可用时降级为内存模式
	storage, err := gdata.Open(gdata.Config{AppName: "ghostframe"})
	if err != nil {
		logger.Warn().Err(err).Msg("无法打开存储，设置和记录不会保存")
		storage = nil
	}

	game, err := app.NewApp(app.Config{
		Encounter: cfg,
		Verbose:   opts.Verbose,
		VR:        opts.VR,
		Storage:   storage,
	})
	if err != nil {
		return err
	}
	defer game.Close()

	ebiten.SetWindowSize(config.GameWindowWidth, config.GameWindowHeight)
	ebiten.SetWindowTitle(config.GameWindowTitle)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(60)

	logger.Info().Str("config", opts.ConfigPath).Bool("vr", opts.VR).Msg("启动")
	return ebiten.RunGame(game)
}

// exitCode 把 run 的结果转换为进程退出码，--help 视为正常退出
func exitCode(err error) int {
	if err == nil || errors.Is(err, pflag.ErrHelp) {
		return 0
	}
	return 1
}

func main() {
	err := run()
	code := exitCode(err)
	if code != 0 {
		fmt.Fprintln(os.Stderr, "ghostframe:", err)
	}
	os.Exit(code)
}
