// Command uwbctl loads a UWB guest module and runs commands against it.
//
// Commands share one guest instance, so session state carries over:
//
//	uwbctl init -- session-init 1 0 -- start 1 -- count
//	uwbctl -script flow.txt
//
// A script holds one command per line; "-script -" reads stdin.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/uwbwasm/uwbwasm/uwbhost"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

var _ client = (*uwbhost.Guest)(nil)

var (
	configPath string
	logFile    string
	scriptPath string
)

func init() {
	flag.StringVar(&configPath, "config", "uwb.yaml", "guest configuration file")
	flag.StringVar(&logFile, "log-file", "", "write logs to this file, rotated (default: stderr)")
	flag.StringVar(&scriptPath, "script", "", "run the commands in this file, one per line (- for stdin)")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [flags] {command} [args] [-- {command} [args]]...\n\nCommands:\n", os.Args[0])
		for _, c := range commands {
			fmt.Fprintf(flag.CommandLine.Output(), "  %-28s %s\n", c.usage, c.help)
		}
		fmt.Fprintln(flag.CommandLine.Output(), "\nFlags:")
		flag.PrintDefaults()
	}
}

func newLogger(logFile string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if logFile == "" {
		return cfg.Build()
	}

	w := zapcore.AddSync(&lumberjack.Logger{
		Filename:   logFile,
		MaxSize:    10, // megabytes
		MaxBackups: 3,
		MaxAge:     28, // days
	})
	core := zapcore.NewCore(zapcore.NewJSONEncoder(cfg.EncoderConfig), w, cfg.Level)
	return zap.New(core, zap.AddCaller()), nil
}

func main() {
	flag.Parse()
	if flag.NArg() == 0 && scriptPath == "" {
		flag.Usage()
		os.Exit(2)
	}

	logger, err := newLogger(logFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}

	os.Exit(realMain(context.Background(), logger, flag.Args()))
}

// loadCommands returns the commands in args followed by those in the script
// at path, if any.
func loadCommands(args []string, path string, stdin io.Reader) ([][]string, error) {
	cmds := splitCommands(args)
	if path == "" {
		return cmds, nil
	}

	r := stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}
	script, err := readScript(r)
	if err != nil {
		return nil, err
	}
	return append(cmds, script...), nil
}

func realMain(ctx context.Context, logger *zap.Logger, args []string) int {
	defer func() { _ = logger.Sync() }()

	cmds, err := loadCommands(args, scriptPath, os.Stdin)
	if err != nil {
		logger.Error("Failed to load commands", zap.String("script", scriptPath), zap.Error(err))
		return 1
	}

	cfg, err := uwbhost.LoadConfig(configPath)
	if err != nil {
		logger.Error("Failed to load config", zap.String("config", configPath), zap.Error(err))
		return 1
	}

	guest, err := uwbhost.NewGuest(ctx, cfg, logger.Named("guest"))
	if err != nil {
		logger.Error("Failed to load guest", zap.String("path", cfg.Path), zap.Error(err))
		return 1
	}
	defer func() {
		if err := guest.Shutdown(ctx); err != nil {
			logger.Warn("Failed to shut down guest", zap.Error(err))
		}
	}()

	if err := runAll(ctx, guest, cmds, os.Stdout); err != nil {
		logger.Error("Command failed", zap.Error(err))
		return 1
	}
	return 0
}
