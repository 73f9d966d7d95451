// Command redflag sends a screenshot to a running analysis server and prints
// the red flags it found.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/bryanwahyu/redflag-scanner/internal/client"
	"github.com/bryanwahyu/redflag-scanner/internal/domain/analysis"
	"github.com/bryanwahyu/redflag-scanner/internal/imagesrc"
	"github.com/bryanwahyu/redflag-scanner/internal/infra/ai/prompt"
	"github.com/bryanwahyu/redflag-scanner/internal/logger"
)

var (
	version = "0.1.0"

	endpoint       string
	dataURIArg     string
	analyzeProfile string
	promptProfile  string
	showSchema     bool
	rawJSON        bool
	verbose        bool
	timeout        time.Duration

	colorRed    = color.New(color.FgRed, color.Bold)
	colorGreen  = color.New(color.FgGreen, color.Bold)
	colorYellow = color.New(color.FgYellow)
	colorCyan   = color.New(color.FgCyan)
	colorWhite  = color.New(color.FgWhite)
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		colorRed.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "redflag",
	Short: "Red flag scanner for social media screenshots",
	Long: `Send a profile or post screenshot to the analysis server and print
the red flags the model found.

Examples:
  redflag analyze ./profile.png
  pbpaste | redflag analyze --data-uri -
  redflag prompt --profile dynamic --schema`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze [file]",
	Short: "Analyze a screenshot file or clipboard data URI",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runAnalyze,
}

var promptCmd = &cobra.Command{
	Use:   "prompt",
	Short: "Print the prompt or output schema for a profile",
	RunE:  runPrompt,
}

func init() {
	analyzeCmd.Flags().StringVar(&endpoint, "endpoint", "http://localhost:8080/analyze", "analysis endpoint")
	analyzeCmd.Flags().StringVar(&dataURIArg, "data-uri", "", "clipboard data URI, or - to read it from stdin")
	analyzeCmd.Flags().StringVar(&analyzeProfile, "profile", "", "analysis profile: fixed or dynamic (server default if empty)")
	analyzeCmd.Flags().BoolVar(&rawJSON, "json", false, "print the raw JSON result")
	analyzeCmd.Flags().DurationVar(&timeout, "timeout", 2*time.Minute, "give up after this long")
	analyzeCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "verbose logging")

	promptCmd.Flags().StringVar(&promptProfile, "profile", string(analysis.DefaultProfile), "analysis profile: fixed or dynamic")
	promptCmd.Flags().BoolVar(&showSchema, "schema", false, "print the JSON schema instead of the prompt")

	rootCmd.AddCommand(analyzeCmd, promptCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	img, err := acquire(cmd.InOrStdin(), args)
	if err != nil {
		return err
	}

	var profile analysis.Profile
	if analyzeProfile != "" {
		if profile, err = analysis.ParseProfile(analyzeProfile); err != nil {
			return err
		}
	}

	level := "warn"
	if verbose {
		level = "debug"
	}
	zl, err := logger.New(level, "console")
	if err != nil {
		return err
	}
	defer zl.Sync()

	inv := client.New(endpoint, client.Options{
		MediaType: img.MediaType,
		Profile:   profile,
		Logger:    zl,
	})
	inv.OnChange(func(s client.State) {
		if s.IsLoading && !rawJSON {
			colorCyan.Fprintf(cmd.ErrOrStderr(), "Analyzing %s (%s)...\n", shortURI(img.URI), img.MediaType)
		}
	})

	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()
	inv.AnalyzeProfile(ctx, img.Base64)

	st := inv.State()
	if st.Error != "" {
		zl.Debug("analysis failed", zap.String("endpoint", endpoint))
		return fmt.Errorf("%s", st.Error)
	}
	if rawJSON {
		var out bytes.Buffer
		if err := json.Indent(&out, st.Raw, "", "  "); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), out.String())
		return nil
	}
	printResult(cmd.OutOrStdout(), st.Analysis)
	return nil
}

func acquire(stdin io.Reader, args []string) (imagesrc.Image, error) {
	switch {
	case dataURIArg == "-":
		b, err := io.ReadAll(stdin)
		if err != nil {
			return imagesrc.Image{}, err
		}
		return imagesrc.FromDataURI(string(b))
	case dataURIArg != "":
		return imagesrc.FromDataURI(dataURIArg)
	case len(args) == 1:
		return imagesrc.FromFile(args[0])
	default:
		return imagesrc.Image{}, fmt.Errorf("need a file argument or --data-uri")
	}
}

func printResult(w io.Writer, r *analysis.Result) {
	if r == nil {
		colorYellow.Fprintln(w, "No analysis returned")
		return
	}
	if !r.IsValid {
		colorYellow.Fprintf(w, "Not analyzed: %s\n", r.ValidationMessage)
		return
	}

	if r.Platform != "" {
		colorCyan.Fprintf(w, "%s %s\n", r.Platform, r.ContentType)
	}
	score := analysis.ClampScore(r.OverallScore)
	scoreColor(score).Fprintf(w, "Risk Score: %.0f/100 (%s)\n", score, analysis.ScoreBand(score))
	if r.Summary != "" {
		colorWhite.Fprintln(w, r.Summary)
	}
	fmt.Fprintln(w, strings.Repeat("-", 60))

	if len(r.RedFlags) == 0 {
		colorGreen.Fprintln(w, "No red flags found")
		return
	}
	for _, f := range r.RedFlags {
		severityColor(f.Severity).Fprintf(w, "[%s] %s\n", strings.ToUpper(string(f.Severity)), f.Category)
		fmt.Fprintf(w, "  evidence: %s\n", f.Evidence)
		fmt.Fprintf(w, "  analysis: %s\n", f.Analysis)
	}
}

func scoreColor(score float64) *color.Color {
	switch {
	case score > 60:
		return colorRed
	case score > 30:
		return colorYellow
	default:
		return colorGreen
	}
}

func severityColor(s analysis.Severity) *color.Color {
	switch s {
	case analysis.SeverityHigh:
		return colorRed
	case analysis.SeverityMedium:
		return colorYellow
	default:
		return colorWhite
	}
}

func shortURI(uri string) string {
	if strings.HasPrefix(uri, "data:") {
		return "clipboard image"
	}
	return uri
}

func runPrompt(cmd *cobra.Command, args []string) error {
	p, err := analysis.ParseProfile(promptProfile)
	if err != nil {
		return err
	}
	spec := prompt.ForProfile(p)
	if !showSchema {
		fmt.Fprintln(cmd.OutOrStdout(), spec.Prompt)
		return nil
	}
	b, err := json.MarshalIndent(&spec.Schema, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s\n", b)
	return nil
}
