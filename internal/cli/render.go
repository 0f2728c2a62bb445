package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/curiosity110/LabelForge/pkg/fonts"
	"github.com/curiosity110/LabelForge/pkg/overlay"
	"github.com/curiosity110/LabelForge/pkg/pipeline"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	table      string // tabular data file (CSV or XLSX)
	zones      string // zones JSON file
	mapping    string // mapping JSON file
	template   string // single background image file
	archive    string // background archive file
	assign     string // archive assignment strategy: column, order
	column     string // image filename column for assign=column
	output     string // output path (ZIP, or PNG with --preview)
	preview    int    // render just this row to a PNG (-1 = full batch)
	maxRows    int    // row ceiling override
	workers    int    // parallel render workers
	configPath string // optional TOML config
	font       string // optional system font name
}

// newRenderCmd creates the render command for one-shot local batches.
func newRenderCmd() *cobra.Command {
	opts := renderOpts{preview: -1}

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render a batch of labels from local files",
		Long: `Render reads a tabular data file plus zone and mapping JSON, renders every
row onto its background, and writes a ZIP archive of numbered PNGs plus a
companion CSV. With --preview N, only row N is rendered and written as PNG.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd, &opts)
		},
	}

	cmd.Flags().StringVar(&opts.table, "table", "", "tabular data file (CSV or XLSX)")
	cmd.Flags().StringVar(&opts.zones, "zones", "", "zones JSON file")
	cmd.Flags().StringVar(&opts.mapping, "mapping", "", "mapping JSON file")
	cmd.Flags().StringVar(&opts.template, "template", "", "single background image")
	cmd.Flags().StringVar(&opts.archive, "archive", "", "background image archive (ZIP)")
	cmd.Flags().StringVar(&opts.assign, "assign", "", "archive assignment: column (default), order")
	cmd.Flags().StringVar(&opts.column, "column", "", "image filename column (default \"image\")")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "labels.zip", "output file")
	cmd.Flags().IntVar(&opts.preview, "preview", -1, "render only this row (0-based) as a PNG")
	cmd.Flags().IntVar(&opts.maxRows, "max-rows", 0, "row ceiling (default 200)")
	cmd.Flags().IntVar(&opts.workers, "workers", 0, "parallel render workers")
	cmd.Flags().StringVarP(&opts.configPath, "config", "c", "", "path to labelforge.toml")
	cmd.Flags().StringVar(&opts.font, "font", "", "system font file name")

	cmd.MarkFlagRequired("table")
	cmd.MarkFlagRequired("zones")
	return cmd
}

func runRender(cmd *cobra.Command, opts *renderOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	cfg, err := LoadConfig(opts.configPath)
	if err != nil {
		return err
	}

	pipeOpts, err := buildPipelineOptions(opts, cfg)
	if err != nil {
		return err
	}

	runner := pipeline.NewRunner(logger)

	if opts.preview >= 0 {
		img, err := runner.Preview(ctx, *pipeOpts, opts.preview)
		if err != nil {
			return err
		}
		out := opts.output
		if out == "labels.zip" {
			out = "preview.png"
		}
		if err := os.WriteFile(out, img, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", out, err)
		}
		logger.Info("wrote preview", "row", opts.preview, "path", out)
		return nil
	}

	result, err := runner.Run(ctx, *pipeOpts)
	if err != nil {
		return err
	}
	if err := os.WriteFile(opts.output, result.Archive, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", opts.output, err)
	}
	logger.Info("wrote archive", "rows", result.Rows, "path", opts.output)
	return nil
}

// buildPipelineOptions reads the input files and assembles pipeline
// options from flags and config.
func buildPipelineOptions(opts *renderOpts, cfg *Config) (*pipeline.Options, error) {
	tableData, err := os.ReadFile(opts.table)
	if err != nil {
		return nil, fmt.Errorf("read table: %w", err)
	}
	zonesData, err := os.ReadFile(opts.zones)
	if err != nil {
		return nil, fmt.Errorf("read zones: %w", err)
	}
	zones, err := overlay.ParseZones(zonesData)
	if err != nil {
		return nil, err
	}

	mapping := overlay.Mapping{}
	if opts.mapping != "" {
		mappingData, err := os.ReadFile(opts.mapping)
		if err != nil {
			return nil, fmt.Errorf("read mapping: %w", err)
		}
		if mapping, err = overlay.ParseMapping(mappingData); err != nil {
			return nil, err
		}
	}

	mode := pipeline.ModeSingleTemplate
	var templateData, archiveData []byte
	switch {
	case opts.template != "":
		if templateData, err = os.ReadFile(opts.template); err != nil {
			return nil, fmt.Errorf("read template: %w", err)
		}
	case opts.archive != "":
		mode = pipeline.ModeArchive
		if archiveData, err = os.ReadFile(opts.archive); err != nil {
			return nil, fmt.Errorf("read archive: %w", err)
		}
	default:
		return nil, fmt.Errorf("either --template or --archive is required")
	}

	assign, err := pipeline.ParseAssignStrategy(opts.assign)
	if err != nil {
		return nil, err
	}

	fontName := cfg.Render.Font
	if opts.font != "" {
		fontName = opts.font
	}
	fontSrc, err := fonts.Load(fontName)
	if err != nil {
		return nil, err
	}

	limits := cfg.PipelineLimits()
	if opts.maxRows > 0 {
		limits.MaxRows = opts.maxRows
	}
	if opts.workers > 0 {
		limits.Workers = opts.workers
	}

	return &pipeline.Options{
		TableData:    tableData,
		TableName:    opts.table,
		TemplateData: templateData,
		ArchiveData:  archiveData,
		Zones:        zones,
		Mapping:      mapping,
		Mode:         mode,
		Assign:       assign,
		ImageColumn:  opts.column,
		Fonts:        fontSrc,
		Limits:       limits,
	}, nil
}
