package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"path/filepath"

	fractalview "github.com/goliatone/go-fractalview"
	"github.com/goliatone/go-fractalview/internal/config"
	"github.com/goliatone/go-fractalview/pkg/dataset"
	"github.com/goliatone/go-fractalview/pkg/geometry"
	"github.com/goliatone/go-fractalview/pkg/markup"
	"github.com/goliatone/go-fractalview/pkg/picker"
	"github.com/goliatone/go-fractalview/pkg/surface/braille"
	"github.com/goliatone/go-fractalview/pkg/surface/raster"
	"github.com/goliatone/go-fractalview/pkg/viewer"
)

func main() {
	flag.Usage = func() {
		if _, err := fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [flags]\n\nRender a fractal example as PNG, a terminal preview or an HTML page.\n\n", filepath.Base(os.Args[0])); err != nil {
			panic(err)
		}
		flag.PrintDefaults()
	}
	configPath := flag.String("config", "", "config file (default "+config.DefaultPath+" when present)")
	family := flag.String("family", "", "fractal family: l or ifs")
	name := flag.String("name", "", "example name (prompted when empty)")
	format := flag.String("format", "", "output format: png, term or html")
	output := flag.String("out", "", "output file (stdout for term and html if empty)")
	width := flag.Int("width", 0, "terminal preview width in cells")
	interactive := flag.Bool("interactive", false, "pick the example interactively")
	list := flag.Bool("list", false, "list the examples and exit")
	verbose := flag.Bool("v", false, "debug logging")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	applyFlags(&cfg, *family, *name, *format, *output, *width)
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	level, err := cfg.Level()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	fractalview.SetLogger(logger)

	options, err := viewerOptions(cfg, logger)
	if err != nil {
		log.Fatalf("Failed to load examples: %v", err)
	}
	v, err := fractalview.NewViewer(options...)
	if err != nil {
		log.Fatalf("Failed to create viewer: %v", err)
	}

	if *list {
		printExamples(os.Stdout, v)
		return
	}

	ctx := context.Background()
	selected := cfg.FamilyCode()
	example := cfg.Example
	if *interactive || example == "" {
		selected, example, err = pick(ctx, v, selected, example, *interactive)
		if err != nil {
			log.Fatalf("Failed to pick an example: %v", err)
		}
	}

	examples, ok := v.Examples(selected)
	if !ok {
		log.Fatalf("No examples for family %q", selected)
	}
	if _, err := examples.Lookup(example); err != nil {
		log.Fatalf("Unknown example: %v", err)
	}

	path := cfg.OutPath(example)
	switch cfg.Format {
	case config.FormatPNG:
		err = writePNG(ctx, v, selected, example, path)
	case config.FormatTerm:
		err = writeTerm(ctx, v, selected, example, cfg.Width, path)
	case config.FormatHTML:
		err = writeHTML(ctx, v, selected, example, path)
	}
	if err != nil {
		log.Fatalf("Failed to render %s/%s: %v", selected, example, err)
	}
}

func applyFlags(cfg *config.Config, family, name, format, output string, width int) {
	if family != "" {
		cfg.Family = family
	}
	if name != "" {
		cfg.Example = name
	}
	if format != "" {
		cfg.Format = format
	}
	if output != "" {
		cfg.Out = output
	}
	if width > 0 {
		cfg.Width = width
	}
}

func viewerOptions(cfg config.Config, logger *slog.Logger) ([]viewer.Option, error) {
	options := []viewer.Option{
		viewer.WithLogger(logger),
		viewer.WithThemes(nil, cfg.Theme, cfg.Variant),
	}
	for _, family := range geometry.Families() {
		path, ok := cfg.Dataset(family)
		if !ok {
			continue
		}
		ds, err := dataset.Load(path)
		if err != nil {
			return nil, err
		}
		options = append(options, viewer.WithFamily(family, ds, nil))
	}
	if cfg.Markup != "" {
		doc, err := markup.Load(cfg.Markup)
		if err != nil {
			return nil, err
		}
		options = append(options, viewer.WithMarkup(doc))
	}
	return options, nil
}

// pick prompts for whatever is missing: the family only when asked to be
// interactive, the example whenever it is empty.
func pick(ctx context.Context, v *viewer.Viewer, family geometry.Family, example string, interactive bool) (geometry.Family, string, error) {
	p := picker.New(picker.WithPromptDriver(picker.NewSurveyDriver(os.Stderr)))
	if interactive {
		chosen, err := p.Family(ctx, v.Families(), family)
		if err != nil {
			return "", "", err
		}
		family = chosen
	}
	examples, ok := v.Examples(family)
	if !ok {
		return "", "", fmt.Errorf("no examples for family %q", family)
	}
	name, err := p.Example(ctx, family, examples, example)
	if err != nil {
		return "", "", err
	}
	return family, name, nil
}

func printExamples(w io.Writer, v *viewer.Viewer) {
	for _, family := range v.Families() {
		examples, _ := v.Examples(family)
		fmt.Fprintf(w, "%s (%s)\n", family.Label(), family)
		for _, name := range examples.Names() {
			fmt.Fprintf(w, "  %s\n", name)
		}
	}
}

func writePNG(ctx context.Context, v *viewer.Viewer, family geometry.Family, name, path string) error {
	canvas := raster.New()
	defer canvas.Close()

	if err := v.Render(ctx, family, name, canvas); err != nil {
		return err
	}
	if err := canvas.Err(); err != nil {
		return err
	}
	if err := canvas.SavePNG(path); err != nil {
		return err
	}
	fmt.Printf("Fractal written to %s (%dx%d)\n", path, canvas.Width(), canvas.Height())
	return nil
}

func writeTerm(ctx context.Context, v *viewer.Viewer, family geometry.Family, name string, width int, path string) error {
	preview := braille.New(braille.WithColumns(width))
	if err := v.Render(ctx, family, name, preview); err != nil {
		return err
	}
	return writeOutput(path, preview.String()+"\n"+v.Config()+"\n")
}

func writeHTML(ctx context.Context, v *viewer.Viewer, family geometry.Family, name, path string) error {
	page, err := v.Page(ctx, family, name)
	if err != nil {
		return err
	}
	return writeOutput(path, page)
}

func writeOutput(path, content string) error {
	if path == "" {
		_, err := io.WriteString(os.Stdout, content)
		return err
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return err
	}
	fmt.Printf("Output written to %s\n", path)
	return nil
}
