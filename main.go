package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/bodul/funzone/internal/puzzle"
)

var rootCmd = &cobra.Command{
	Use:   "funzone",
	Short: "Puzzle layouts for the children's newspaper fun zone",
	Long: `funzone lays out the puzzles of a newspaper edition: a word search,
a crossword and a tashchetz (Hebrew arrow-word grid).

Run "funzone serve" for the HTTP API or "funzone generate" to print a grid.`,
	SilenceUsage: true,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE:  runServe,
}

var (
	genFormat string
	genSolved bool
	genSeed   uint64
	genRows   int
	genCols   int
)

var generateCmd = &cobra.Command{
	Use:   "generate [wordsearch|crossword|tashchetz] [file]",
	Short: "Lay out one puzzle from a YAML or JSON word list and print it",
	Long: `Reads a word list and prints the laid-out grid.

The file holds "words" (word search) or "items" with "word" and "clue"
(crossword, tashchetz):

  items:
    - word: אריה
      clue: מלך החיות

Use "-" to read from standard input.`,
	Args:      cobra.ExactArgs(2),
	ValidArgs: []string{string(KindWordSearch), string(KindCrossword), string(KindTashchetz)},
	RunE:      runGenerate,
}

func init() {
	generateCmd.Flags().StringVar(&genFormat, "format", "text", "output format: text or yaml")
	generateCmd.Flags().BoolVar(&genSolved, "solved", false, "print the solution instead of blanks")
	generateCmd.Flags().Uint64Var(&genSeed, "seed", 0, "word-search random seed (0 picks one)")
	generateCmd.Flags().IntVar(&genRows, "rows", 0, "grid rows (0 keeps the default)")
	generateCmd.Flags().IntVar(&genCols, "cols", 0, "grid columns (0 keeps the default)")

	rootCmd.AddCommand(serveCmd, generateCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := LoadConfig()
	if err != nil {
		return err
	}
	log, err := newLogger(cfg.Log)
	if err != nil {
		return err
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var gen ContentGenerator
	if cfg.GCP.ProjectID != "" {
		gemini, err := NewGeminiClient(ctx, cfg.GCP, log.Named("gemini"))
		if err != nil {
			return fmt.Errorf("init gemini: %w", err)
		}
		defer gemini.Close()
		gen = gemini
		log.Info("gemini client ready", zap.String("project", cfg.GCP.ProjectID), zap.String("model", gemini.modelName))
	} else {
		log.Warn("GCP_PROJECT_ID not set, fun-zone generation disabled")
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      NewServer(cfg, NewStore(), gen, log),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server started", zap.String("addr", "http://localhost:"+cfg.Server.Port))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// generateInput is the word list file read by the generate command.
type generateInput struct {
	Words []string       `yaml:"words"`
	Items []puzzle.Entry `yaml:"items"`
}

func runGenerate(cmd *cobra.Command, args []string) error {
	kind := Kind(args[0])

	var r io.Reader = cmd.InOrStdin()
	if args[1] != "-" {
		f, err := os.Open(args[1])
		if err != nil {
			return fmt.Errorf("open word list: %w", err)
		}
		defer f.Close()
		r = f
	}

	var in generateInput
	if err := yaml.NewDecoder(r).Decode(&in); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("decode word list: %w", err)
	}

	log, err := newLogger(LogConfig{Level: "warn", Format: "console"})
	if err != nil {
		return err
	}
	defer log.Sync()

	opts := puzzle.Options{Logger: log, GridSize: genRows}
	if genSeed != 0 {
		opts.Rand = puzzle.NewRand(genSeed)
	}

	var out any
	var render func(io.Writer) error
	switch kind {
	case KindWordSearch:
		ws := puzzle.GenerateWordSearch(in.Words, opts)
		out, render = ws, func(w io.Writer) error { return puzzle.RenderWordSearch(w, ws) }
	case KindCrossword:
		cw := puzzle.GenerateCrossword(in.Items, genRows, genCols, opts)
		out, render = cw, func(w io.Writer) error { return puzzle.RenderCrossword(w, cw, genSolved) }
	case KindTashchetz:
		tz := puzzle.GenerateTashchetz(in.Items, genCols, genRows, opts)
		out, render = tz, func(w io.Writer) error { return puzzle.RenderTashchetz(w, tz, genSolved) }
	default:
		return fmt.Errorf("unknown puzzle kind %q", kind)
	}

	w := cmd.OutOrStdout()
	switch genFormat {
	case "yaml":
		enc := yaml.NewEncoder(w)
		defer enc.Close()
		return enc.Encode(out)
	case "text":
		return render(w)
	default:
		return fmt.Errorf("unknown format %q", genFormat)
	}
}
