// Command asciiplay plays a video file as colored text glyphs in the
// terminal.
//
// Frames are decoded via ffmpeg, downsampled to the terminal grid with
// aspect-ratio correction, and painted as 24-bit ANSI color glyphs. Playback
// is interactive: space pauses, +/- change speed, l toggles looping, r
// restarts, q quits, h shows help.
//
// # Usage
//
//	asciiplay [flags] <video_file>
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	tea "charm.land/bubbletea/v2"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"go.jacobcolvin.com/asciiplay/config"
	"go.jacobcolvin.com/asciiplay/convert"
	"go.jacobcolvin.com/asciiplay/decode"
	"go.jacobcolvin.com/asciiplay/log"
	"go.jacobcolvin.com/asciiplay/notify"
	"go.jacobcolvin.com/asciiplay/player"
	"go.jacobcolvin.com/asciiplay/version"
)

func main() {
	rootCmd := newRootCmd()

	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

// options holds the resolved CLI flag values. Field semantics match
// [config.Config]; zero width/height mean auto-detect.
type options struct {
	cfg config.Config

	configPath string
	startTime  float64
	endTime    float64
	info       bool
	verbose    bool

	logCfg *log.Config
}

func newRootCmd() *cobra.Command {
	opts := &options{
		cfg:    config.Default(),
		logCfg: log.NewConfig(),
	}

	rootCmd := &cobra.Command{
		Use:   "asciiplay [flags] <video_file>",
		Short: "Play video files as colored text in the terminal",
		Long: `asciiplay renders a video as colored text glyphs directly in the terminal,
adapting to resizes and playback commands in real time. Decoding is delegated
to ffmpeg, which must be installed.`,
		Version:       version.String(),
		Args:          cobra.ExactArgs(1),
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := applyConfigFile(cmd, opts)
			if err != nil {
				return err
			}

			err = validateOptions(opts)
			if err != nil {
				return err
			}

			return run(cmd.Context(), opts, args[0])
		},
	}

	flags := rootCmd.Flags()
	flags.BoolVarP(&opts.cfg.Loop, "loop", "l", opts.cfg.Loop, "loop the video playback")
	flags.Float64VarP(&opts.cfg.Speed, "speed", "s", opts.cfg.Speed, "playback speed factor")
	flags.BoolVarP(&opts.cfg.Transparent, "transparent", "t", opts.cfg.Transparent,
		"transparent background: do not draw background colors")
	flags.IntVarP(&opts.cfg.AlphaThreshold, "alpha-threshold", "a", opts.cfg.AlphaThreshold,
		"hide cells with alpha below this threshold (0-255, negative disables)")
	flags.StringVarP(&opts.cfg.Palette, "palette", "p", opts.cfg.Palette,
		fmt.Sprintf("color palette, one of: %s", convert.AllPaletteStrings()))
	flags.IntVarP(&opts.cfg.Width, "width", "w", opts.cfg.Width,
		"render width in columns (0 = auto-detect)")
	flags.IntVar(&opts.cfg.Height, "height", opts.cfg.Height,
		"render height in rows (0 = auto-detect)")
	flags.Float64VarP(&opts.cfg.FPS, "fps", "f", opts.cfg.FPS,
		"frame rate cap (0 = source rate)")
	flags.Float64Var(&opts.cfg.Brightness, "brightness", opts.cfg.Brightness,
		"brightness adjustment (-1.0 to 1.0)")
	flags.Float64Var(&opts.cfg.Contrast, "contrast", opts.cfg.Contrast,
		"contrast adjustment (0.0 to 2.0)")
	flags.StringVar(&opts.cfg.SketchybarItem, "sketchybar-item", opts.cfg.SketchybarItem,
		"sketchybar item name to receive playback status")
	flags.Float64Var(&opts.startTime, "start-time", 0, "start playback at this time in seconds")
	flags.Float64Var(&opts.endTime, "end-time", 0, "stop playback at this time in seconds")
	flags.BoolVar(&opts.info, "info", false, "print video information and exit without playing")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logging")
	flags.StringVar(&opts.configPath, "config", "", "path to a YAML config file with flag defaults")

	opts.logCfg.RegisterFlags(flags)

	paletteErr := rootCmd.RegisterFlagCompletionFunc("palette",
		cobra.FixedCompletions(convert.AllPaletteStrings(), cobra.ShellCompDirectiveNoFileComp))
	if paletteErr != nil {
		fmt.Fprintf(os.Stderr, "register completions: %v\n", paletteErr)
	}

	completionErr := opts.logCfg.RegisterCompletions(rootCmd)
	if completionErr != nil {
		fmt.Fprintf(os.Stderr, "register completions: %v\n", completionErr)
	}

	rootCmd.AddCommand(newSchemaCmd())

	return rootCmd
}

func newSchemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Print the JSON Schema for the config file",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			out, err := json.MarshalIndent(config.Schema(), "", "  ")
			if err != nil {
				return fmt.Errorf("marshaling schema: %w", err)
			}

			out = append(out, '\n')

			_, err = os.Stdout.Write(out)

			return err
		},
	}
}

// applyConfigFile overlays config-file values onto flags the user did not
// set explicitly. Explicit flags always win.
func applyConfigFile(cmd *cobra.Command, opts *options) error {
	if opts.configPath == "" {
		return nil
	}

	fileCfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}

	flags := cmd.Flags()

	if !flags.Changed("loop") {
		opts.cfg.Loop = fileCfg.Loop
	}

	if !flags.Changed("speed") {
		opts.cfg.Speed = fileCfg.Speed
	}

	if !flags.Changed("transparent") {
		opts.cfg.Transparent = fileCfg.Transparent
	}

	if !flags.Changed("alpha-threshold") {
		opts.cfg.AlphaThreshold = fileCfg.AlphaThreshold
	}

	if !flags.Changed("palette") {
		opts.cfg.Palette = fileCfg.Palette
	}

	if !flags.Changed("width") {
		opts.cfg.Width = fileCfg.Width
	}

	if !flags.Changed("height") {
		opts.cfg.Height = fileCfg.Height
	}

	if !flags.Changed("fps") {
		opts.cfg.FPS = fileCfg.FPS
	}

	if !flags.Changed("brightness") {
		opts.cfg.Brightness = fileCfg.Brightness
	}

	if !flags.Changed("contrast") {
		opts.cfg.Contrast = fileCfg.Contrast
	}

	if !flags.Changed("sketchybar-item") {
		opts.cfg.SketchybarItem = fileCfg.SketchybarItem
	}

	if !flags.Changed(opts.logCfg.Flags.Level) {
		opts.logCfg.Level = fileCfg.LogLevel
	}

	if !flags.Changed(opts.logCfg.Flags.Format) {
		opts.logCfg.Format = fileCfg.LogFormat
	}

	return nil
}

// validateOptions rejects flag combinations that cannot produce playback.
// Speed is validated here but additionally clamped at runtime, so
// interactive speed changes never have to fail.
func validateOptions(opts *options) error {
	if opts.cfg.Speed <= 0 {
		return fmt.Errorf("speed factor must be greater than 0")
	}

	if opts.cfg.AlphaThreshold > 255 {
		return fmt.Errorf("alpha threshold must be at most 255")
	}

	if opts.cfg.Width < 0 || opts.cfg.Height < 0 {
		return fmt.Errorf("width and height must be non-negative")
	}

	if opts.cfg.FPS < 0 {
		return fmt.Errorf("fps must be greater than 0")
	}

	if opts.startTime < 0 || opts.endTime < 0 {
		return fmt.Errorf("time values must be non-negative")
	}

	if opts.endTime > 0 && opts.startTime >= opts.endTime {
		return fmt.Errorf("start time must be less than end time")
	}

	if opts.cfg.Brightness < -1 || opts.cfg.Brightness > 1 {
		return fmt.Errorf("brightness must be between -1.0 and 1.0")
	}

	if opts.cfg.Contrast < 0 || opts.cfg.Contrast > 2 {
		return fmt.Errorf("contrast must be between 0.0 and 2.0")
	}

	_, err := convert.ParsePalette(opts.cfg.Palette)

	return err
}

func run(ctx context.Context, opts *options, path string) error {
	if opts.verbose {
		opts.logCfg.Level = string(log.LevelDebug)
	}

	handler, err := opts.logCfg.NewHandler(os.Stderr)
	if err != nil {
		return err
	}

	slog.SetDefault(slog.New(handler))

	if _, statErr := os.Stat(path); statErr != nil {
		return fmt.Errorf("video file does not exist: %s", path)
	}

	if opts.info {
		return printInfo(ctx, path)
	}

	cols, rows, err := terminalSize(opts.cfg.Width, opts.cfg.Height)
	if err != nil {
		return err
	}

	stream, err := decode.Open(ctx, path, decode.Options{
		StartTime: opts.startTime,
		EndTime:   opts.endTime,
		FPSCap:    opts.cfg.FPS,
	})
	if err != nil {
		return err
	}

	defer stream.Close()

	info := stream.Info()
	slog.Info("playing video",
		"path", path,
		"dimensions", fmt.Sprintf("%dx%d", info.Width, info.Height),
		"fps", info.FPS,
		"duration", info.Duration)

	palette, err := convert.ParsePalette(opts.cfg.Palette)
	if err != nil {
		return err
	}

	converter := convert.New(convert.Config{
		Palette:        palette,
		AlphaThreshold: opts.cfg.AlphaThreshold,
		Brightness:     opts.cfg.Brightness,
		Contrast:       opts.cfg.Contrast,
	})

	filename := filepath.Base(path)

	var notifier *notify.Notifier
	if opts.cfg.SketchybarItem != "" {
		notifier = notify.New(opts.cfg.SketchybarItem)
		notifier.Playing(filename)

		defer notifier.Stopped()
	}

	model := player.New(player.Options{
		Stream:    stream,
		Converter: converter,
		Notifier:  notifier,
		Filename:  filename,
		State:     player.NewState(opts.cfg.Speed, opts.cfg.Loop, opts.cfg.Transparent),
		Cols:      cols,
		Rows:      rows,
		FixedCols: opts.cfg.Width > 0,
		FixedRows: opts.cfg.Height > 0,
	})

	final, err := tea.NewProgram(model).Run()
	if err != nil {
		return fmt.Errorf("running player: %w", err)
	}

	if m, ok := final.(*player.Model); ok {
		if m.Err() != nil {
			return m.Err()
		}

		slog.Info("playback finished", "frames", m.FramesShown())
	}

	return nil
}

// terminalSize resolves the render dimensions, preferring explicit
// overrides and falling back to the attached terminal per dimension.
func terminalSize(width, height int) (int, int, error) {
	if width > 0 && height > 0 {
		return width, height, nil
	}

	cols, rows, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil {
		return 0, 0, fmt.Errorf(
			"unable to detect terminal size (use --width and --height): %w", err)
	}

	if width > 0 {
		cols = width
	}

	if height > 0 {
		rows = height
	}

	return cols, rows, nil
}

func printInfo(ctx context.Context, path string) error {
	info, err := decode.Probe(ctx, path)
	if err != nil {
		return err
	}

	fmt.Println("Video information:")
	fmt.Printf("  File:         %s\n", path)
	fmt.Printf("  Dimensions:   %dx%d\n", info.Width, info.Height)
	fmt.Printf("  Frame rate:   %.2f fps\n", info.FPS)
	fmt.Printf("  Duration:     %.2f seconds\n", info.Duration)
	fmt.Printf("  Aspect ratio: %.2f\n", info.AspectRatio())

	return nil
}
