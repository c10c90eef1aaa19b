package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func run(args []string, stdout io.Writer) error {
	flags := pflag.NewFlagSet("noise_loop", pflag.ContinueOnError)
	configDir := flags.StringP("config", "c", ".", "directory containing "+configName)
	mute := flags.Bool("mute", false, "disable the ambient drone")
	flags.String("out", "", "export directory (overrides export.dir)")
	flags.Usage = func() {
		fmt.Fprintln(os.Stderr, "usage: noise_loop [flags] [watch | render <frame> | export | import <file.json> | fragments]")
		flags.PrintDefaults()
	}
	if err := flags.Parse(args); err != nil {
		return err
	}

	if err := Load(*configDir); err != nil {
		return err
	}
	if err := viper.BindPFlag("export.dir", flags.Lookup("out")); err != nil {
		return fmt.Errorf("failed to bind --out: %w", err)
	}
	if *mute {
		viper.Set("audio.enabled", false)
	}

	if err := InitLogger(viper.GetString("logFile"), viper.GetString("logLevel")); err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer CloseLogger()

	book := openBook(GetStorageConfig())
	defer book.Close()

	cmd, rest := "watch", flags.Args()
	if len(rest) > 0 {
		cmd, rest = strings.ToLower(rest[0]), rest[1:]
	}
	Log.Info().Str("command", cmd).Msg("Running command")

	switch cmd {
	case "watch":
		return runWatch(book)
	case "render":
		if len(rest) != 1 {
			return fmt.Errorf("render needs exactly one frame number")
		}
		frame, err := strconv.Atoi(rest[0])
		if err != nil {
			return fmt.Errorf("invalid frame %q: %w", rest[0], err)
		}
		return runRender(stdout, book, frame, GetExportConfig())
	case "export":
		return runExport(stdout, book, GetExportConfig())
	case "import":
		if len(rest) != 1 {
			return fmt.Errorf("import needs exactly one file")
		}
		return runImport(stdout, book, rest[0])
	case "fragments":
		return runListFragments(stdout, book)
	default:
		flags.Usage()
		return fmt.Errorf("unknown command %q", cmd)
	}
}

// openBook opens the configured store. When it cannot be opened the session
// continues on an in-memory store so the loop still plays.
func openBook(cfg StorageConfig) *FragmentBook {
	store, err := NewFragmentStore(cfg)
	if err != nil {
		Log.Error().Err(err).Str("type", cfg.Type).Msg("Fragment store unavailable, using memory store")
		store = newMemoryStore()
	}
	return NewFragmentBook(store)
}

func runWatch(book *FragmentBook) error {
	ambience := NewAmbience(GetAudioConfig())
	defer ambience.Close()

	p := tea.NewProgram(newPlayerModel(book, ambience, viper.GetString("author")), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("player failed: %w", err)
	}
	return nil
}

func runRender(w io.Writer, book *FragmentBook, frame int, cfg ExportConfig) error {
	if !ValidFrame(frame) {
		return fmt.Errorf("%w: %d", ErrFrameOutOfRange, frame)
	}
	sampler := NewPathSampler(NewSimplexNoise(NoiseSeed))
	curve := BuildCurve(sampler.GeneratePoints(FrameStart(frame), cfg.Width, cfg.Height))
	_, err := io.WriteString(w, RenderSVG(curve, book.ForFrame(frame), cfg.Width, cfg.Height))
	return err
}

// runExport plays one loop on virtual time through the scheduler and writes
// the first render of every frame. The run extends one frame past the loop
// so frame 1 is written from the wrapped pass.
func runExport(w io.Writer, book *FragmentBook, cfg ExportConfig) error {
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return fmt.Errorf("failed to create export dir: %w", err)
	}

	sampler := NewPathSampler(NewSimplexNoise(NoiseSeed))
	byFrame := book.ByFrame()
	written := make(map[int]bool, LoopFrames)
	var writeErr error

	render := func(fr FrameRender) {
		if writeErr != nil || written[fr.Index] {
			return
		}
		curve := BuildCurve(sampler.GeneratePoints(fr.Elapsed, cfg.Width, cfg.Height))
		doc := RenderSVG(curve, byFrame[fr.Index], cfg.Width, cfg.Height)
		path := filepath.Join(cfg.Dir, fmt.Sprintf("frame_%04d.svg", fr.Index))
		if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
			writeErr = fmt.Errorf("failed to write %s: %w", path, err)
			return
		}
		written[fr.Index] = true
		metrics.framesRendered.Add(context.Background(), 1)
	}

	clock := NewLoopClock(render, nil)
	source := NewSteppedRefresh(time.Unix(0, 0), RefreshRate, LoopDuration+FrameInterval)
	sched := NewScheduler(clock, source)
	sched.Start(context.Background())
	sched.Wait()
	sched.Stop()

	if writeErr != nil {
		return writeErr
	}
	Log.Info().Int("frames", len(written)).Str("dir", cfg.Dir).Msg("Exported loop")
	fmt.Fprintf(w, "wrote %d frames to %s\n", len(written), cfg.Dir)
	return nil
}

func runImport(w io.Writer, book *FragmentBook, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	var fragments []DrawingFragment
	if err := json.Unmarshal(data, &fragments); err != nil {
		return fmt.Errorf("failed to decode %s: %w", path, err)
	}

	saved := 0
	for _, f := range fragments {
		if f.ID == "" {
			f.ID = uuid.NewString()
		}
		if f.Timestamp.IsZero() {
			f.Timestamp = time.Now().UTC()
		}
		if book.Save(f) {
			saved++
		}
	}
	fmt.Fprintf(w, "imported %d of %d fragments\n", saved, len(fragments))
	return nil
}

func runListFragments(w io.Writer, book *FragmentBook) error {
	byFrame := book.ByFrame()
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "FRAME\tTIME\tFRAGMENTS")
	total := 0
	for _, frame := range SortedFrames(byFrame) {
		n := len(byFrame[frame])
		total += n
		fmt.Fprintf(tw, "%d\t%s\t%d\n", frame, formatLoopTime(FrameStart(frame)), n)
	}
	fmt.Fprintf(tw, "total\t\t%d\n", total)
	return tw.Flush()
}
