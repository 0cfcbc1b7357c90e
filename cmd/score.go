// Package cmd provides the CLI commands for the mteval tool.
// This file implements the score command: reading aligned hypothesis
// and reference files and reporting metric scores.
package cmd

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/hyper-light/mteval/core/metric"
	"github.com/hyper-light/mteval/core/tokenize"
)

var (
	scoreInput         string
	scoreMetrics       []string
	scoreConfigPath    string
	scoreSentenceLevel bool
	scoreScoreOnly     bool
	scoreWidth         int
	scoreShortSig      bool
	scoreLowercase     bool

	scoreChrfOrder      int
	scoreChrfBeta       float64
	scoreChrfWhitespace bool

	scoreSmoothMethod string
	scoreSmoothValue  float64
	scoreTokenize     string
	scoreForce        bool
)

var scoreCmd = &cobra.Command{
	Use:   "score <reference>...",
	Short: "Score hypotheses against reference translations",
	Long: `Score a hypothesis file against one or more reference files.

Hypotheses are read from --input (or stdin); each positional argument
is one reference file. All files must contain the same number of
lines, aligned line by line.

Examples:
  mteval score -i output.txt ref.txt
  mteval score -m chrf -i output.txt ref.txt
  mteval score -m bleu -m chrf --lowercase -i output.txt ref1.txt ref2.txt
  cat output.txt | mteval score --sentence-level ref.txt`,
	Args: cobra.MinimumNArgs(1),
	RunE: runScore,
}

func init() {
	rootCmd.AddCommand(scoreCmd)

	scoreCmd.Flags().StringVarP(&scoreInput, "input", "i", "-", "Hypothesis file ('-' for stdin)")
	scoreCmd.Flags().StringSliceVarP(&scoreMetrics, "metric", "m", []string{"bleu"}, "Metrics to compute (bleu, chrf)")
	scoreCmd.Flags().StringVarP(&scoreConfigPath, "config", "c", "", "YAML file with metric options")
	scoreCmd.Flags().BoolVar(&scoreSentenceLevel, "sentence-level", false, "Score each line instead of the whole corpus")
	scoreCmd.Flags().BoolVarP(&scoreScoreOnly, "score-only", "b", false, "Print only the score value")
	scoreCmd.Flags().IntVarP(&scoreWidth, "width", "w", 2, "Decimal places in reports")
	scoreCmd.Flags().BoolVar(&scoreShortSig, "short", false, "Abbreviate the configuration signature")
	scoreCmd.Flags().BoolVar(&scoreLowercase, "lowercase", false, "Lowercase all text before scoring")

	scoreCmd.Flags().IntVar(&scoreChrfOrder, "chrf-order", metric.DefaultCharOrder, "chrF character n-gram order")
	scoreCmd.Flags().Float64Var(&scoreChrfBeta, "chrf-beta", metric.DefaultBeta, "chrF beta parameter")
	scoreCmd.Flags().BoolVar(&scoreChrfWhitespace, "chrf-whitespace", false, "Include whitespace in chrF n-grams")

	scoreCmd.Flags().StringVarP(&scoreSmoothMethod, "smooth-method", "s", "exp", "BLEU smoothing method (exp, floor, add-k, none)")
	scoreCmd.Flags().Float64Var(&scoreSmoothValue, "smooth-value", 0, "Smoothing value for floor and add-k (0 = method default)")
	scoreCmd.Flags().StringVar(&scoreTokenize, "tokenize", "13a", "BLEU tokenizer (13a, intl, none)")
	scoreCmd.Flags().BoolVar(&scoreForce, "force", false, "Suppress the pre-tokenized input warning")
}

// scoreFileConfig mirrors the score command flags in a YAML config
// file. Explicitly set flags take precedence over file values.
type scoreFileConfig struct {
	Metrics   []string `yaml:"metrics"`
	Lowercase *bool    `yaml:"lowercase"`
	CHRF      struct {
		Order      *int     `yaml:"order"`
		Beta       *float64 `yaml:"beta"`
		Whitespace *bool    `yaml:"whitespace"`
	} `yaml:"chrf"`
	BLEU struct {
		SmoothMethod *string  `yaml:"smooth_method"`
		SmoothValue  *float64 `yaml:"smooth_value"`
		Tokenize     *string  `yaml:"tokenize"`
	} `yaml:"bleu"`
}

func runScore(cmd *cobra.Command, args []string) error {
	if scoreConfigPath != "" {
		if err := applyScoreConfig(cmd, scoreConfigPath); err != nil {
			return err
		}
	}

	hypotheses, err := readSegments(scoreInput)
	if err != nil {
		return err
	}
	slog.Info("read hypotheses", "file", scoreInput, "segments", len(hypotheses))

	refStreams := make([][]string, 0, len(args))
	for _, path := range args {
		stream, err := readSegments(path)
		if err != nil {
			return err
		}
		slog.Info("read references", "file", path, "segments", len(stream))
		refStreams = append(refStreams, stream)
	}

	for _, name := range scoreMetrics {
		if err := runMetric(cmd.OutOrStdout(), name, hypotheses, refStreams); err != nil {
			return err
		}
	}
	return nil
}

// scorer pairs the corpus-level and sentence-level entry points of one
// configured metric instance for reporting.
type scorer struct {
	signature metric.Signature
	corpus    func(hyps []string, refStreams [][]string) (metric.Score, error)
	sentence  func(hyp string, refs []string) (metric.Score, error)
}

func runMetric(out io.Writer, name string, hypotheses []string, refStreams [][]string) error {
	switch strings.ToLower(name) {
	case "chrf":
		m, err := metric.NewCHRF(metric.CHRFConfig{
			CharOrder:        scoreChrfOrder,
			Beta:             scoreChrfBeta,
			RemoveWhitespace: !scoreChrfWhitespace,
			Lowercase:        scoreLowercase,
			NumRefs:          len(refStreams),
		})
		if err != nil {
			return err
		}
		return report(out, scorer{
			signature: m.Signature(),
			corpus: func(hyps []string, refs [][]string) (metric.Score, error) {
				return m.CorpusScore(hyps, refs)
			},
			sentence: func(hyp string, refs []string) (metric.Score, error) {
				return m.SentenceScore(hyp, refs)
			},
		}, hypotheses, refStreams)
	case "bleu":
		tokenizer, err := namedTokenizer(scoreTokenize)
		if err != nil {
			return err
		}
		m, err := metric.NewBLEU(metric.BLEUConfig{
			SmoothMethod: metric.SmoothMethod(scoreSmoothMethod),
			SmoothValue:  scoreSmoothValue,
			Tokenizer:    tokenizer,
			Lowercase:    scoreLowercase,
			NumRefs:      len(refStreams),
			Force:        scoreForce,
		})
		if err != nil {
			return err
		}
		return report(out, scorer{
			signature: m.Signature(),
			corpus: func(hyps []string, refs [][]string) (metric.Score, error) {
				return m.CorpusScore(hyps, refs)
			},
			sentence: func(hyp string, refs []string) (metric.Score, error) {
				return m.SentenceScore(hyp, refs)
			},
		}, hypotheses, refStreams)
	default:
		return fmt.Errorf("unknown metric %q (expected bleu or chrf)", name)
	}
}

// report prints either one corpus-level line or one line per segment,
// depending on --sentence-level.
func report(out io.Writer, sc scorer, hypotheses []string, refStreams [][]string) error {
	signature := ""
	if !scoreScoreOnly {
		signature = sc.signature.Render(scoreShortSig)
	}

	if !scoreSentenceLevel {
		s, err := sc.corpus(hypotheses, refStreams)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, s.Format(scoreWidth, scoreScoreOnly, signature))
		return nil
	}

	refs := make([]string, len(refStreams))
	for i, hypothesis := range hypotheses {
		for k, stream := range refStreams {
			if i >= len(stream) {
				return fmt.Errorf("reference stream %d has %d segments, expected %d", k, len(stream), len(hypotheses))
			}
			refs[k] = stream[i]
		}
		s, err := sc.sentence(hypothesis, refs)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, s.Format(scoreWidth, scoreScoreOnly, signature))
	}
	return nil
}

func namedTokenizer(name string) (tokenize.Tokenizer, error) {
	switch name {
	case "13a":
		return tokenize.NewTokenizer13a(), nil
	case "intl":
		return tokenize.NewIntlTokenizer(), nil
	case "none":
		return tokenize.NewNoneTokenizer(), nil
	}
	return nil, fmt.Errorf("unknown tokenizer %q (expected 13a, intl or none)", name)
}

// applyScoreConfig fills flag values from a YAML config file without
// overriding flags the user set explicitly.
func applyScoreConfig(cmd *cobra.Command, path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	var cfg scoreFileConfig
	if err := yaml.Unmarshal(content, &cfg); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	flags := cmd.Flags()
	if len(cfg.Metrics) > 0 && !flags.Changed("metric") {
		scoreMetrics = cfg.Metrics
	}
	if cfg.Lowercase != nil && !flags.Changed("lowercase") {
		scoreLowercase = *cfg.Lowercase
	}
	if cfg.CHRF.Order != nil && !flags.Changed("chrf-order") {
		scoreChrfOrder = *cfg.CHRF.Order
	}
	if cfg.CHRF.Beta != nil && !flags.Changed("chrf-beta") {
		scoreChrfBeta = *cfg.CHRF.Beta
	}
	if cfg.CHRF.Whitespace != nil && !flags.Changed("chrf-whitespace") {
		scoreChrfWhitespace = *cfg.CHRF.Whitespace
	}
	if cfg.BLEU.SmoothMethod != nil && !flags.Changed("smooth-method") {
		scoreSmoothMethod = *cfg.BLEU.SmoothMethod
	}
	if cfg.BLEU.SmoothValue != nil && !flags.Changed("smooth-value") {
		scoreSmoothValue = *cfg.BLEU.SmoothValue
	}
	if cfg.BLEU.Tokenize != nil && !flags.Changed("tokenize") {
		scoreTokenize = *cfg.BLEU.Tokenize
	}
	return nil
}

// readSegments reads one segment per line from path, or from stdin
// when path is "-".
func readSegments(path string) ([]string, error) {
	var reader io.Reader
	if path == "-" {
		reader = os.Stdin
	} else {
		file, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", path, err)
		}
		defer file.Close()
		reader = file
	}

	var segments []string
	scanner := bufio.NewScanner(reader)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		segments = append(segments, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return segments, nil
}
