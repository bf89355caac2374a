package cli

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/seatmap/pkg/errors"
	seatio "github.com/matzehuels/seatmap/pkg/io"
	"github.com/matzehuels/seatmap/pkg/layout"
	"github.com/matzehuels/seatmap/pkg/records"
	"github.com/matzehuels/seatmap/pkg/render"
)

// Export formats.
const (
	formatJSON = "json"
	formatSVG  = "svg"
	formatPDF  = render.FormatPDF
	formatPNG  = render.FormatPNG
)

// =============================================================================
// import
// =============================================================================

// importOpts holds options for the import command.
type importOpts struct {
	strict bool
	force  bool
}

// importCommand creates the import command for loading layout files.
func (c *CLI) importCommand() *cobra.Command {
	var opts importOpts

	cmd := &cobra.Command{
		Use:   "import <file> <layout-id>",
		Short: "Store a layout file under an id",
		Long: `Store a layout JSON file under a layout id.

The file is normalized before storing. By default missing or unusable fields
are repaired the same way the editor does on load; --strict rejects such files
instead, along with overlapping elements. Use "-" to read from stdin.`,
		Example: `  seatmap import coach.json coach-42
  cat coach.json | seatmap import --strict - coach-42`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(cmd.InOrStdin(), args[0])
			if err != nil {
				return err
			}
			return c.withStore(cmd.Context(), func(s records.Store) error {
				return c.runImport(cmd.Context(), s, data, args[1], opts)
			})
		},
	}

	cmd.Flags().BoolVar(&opts.strict, "strict", false, "reject layouts that need repair")
	cmd.Flags().BoolVarP(&opts.force, "force", "f", false, "overwrite an existing layout")

	return cmd
}

func (c *CLI) runImport(ctx context.Context, s records.Store, data []byte, id string, opts importOpts) error {
	if err := errors.ValidateLayoutID(id); err != nil {
		return err
	}

	elements, err := decodeLayout(data, opts.strict)
	if err != nil {
		return err
	}

	if !opts.force {
		if _, err := s.Get(ctx, id); err == nil {
			return errors.New(errors.ErrCodeInvalidInput, "layout %s already exists (use --force to overwrite)", id)
		} else if !errors.Is(err, errors.ErrCodeLayoutNotFound) {
			return err
		}
	}

	value, err := seatio.Encode(elements)
	if err != nil {
		return err
	}
	if err := s.Set(ctx, id, value); err != nil {
		return err
	}

	printSuccess("Imported %s", StyleHighlight.Render(id))
	printDetail("%d elements", len(elements))
	printNextStep("Edit it", "seatmap edit "+id)
	return nil
}

func decodeLayout(data []byte, strict bool) ([]layout.Element, error) {
	if strict {
		return seatio.DecodeStrict(data)
	}
	elements, err := seatio.Decode(data)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidLayout, err, "malformed layout")
	}
	return elements, nil
}

func readInput(stdin io.Reader, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(stdin)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}

// =============================================================================
// export
// =============================================================================

// exportOpts holds options for the export command.
type exportOpts struct {
	output   string
	format   string
	cellSize float64
	scale    float64
	noCache  bool
}

// exportCommand creates the export command for writing stored layouts.
func (c *CLI) exportCommand() *cobra.Command {
	var opts exportOpts

	cmd := &cobra.Command{
		Use:   "export <layout-id>",
		Short: "Write a stored layout as JSON, SVG, PDF or PNG",
		Long: `Write a stored layout as JSON, SVG, PDF or PNG.

The format defaults to the output file extension, or JSON on stdout.
PDF and PNG output require rsvg-convert (librsvg). Converted files are
cached by content; see "seatmap cache".`,
		Example: `  seatmap export coach-42 > coach.json
  seatmap export coach-42 -o coach.svg
  seatmap export coach-42 -o coach.png --scale 3`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: c.completeLayoutIDs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withStore(cmd.Context(), func(s records.Store) error {
				return c.runExport(cmd.Context(), s, args[0], cmd.OutOrStdout(), opts)
			})
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "", "output format: json, svg, pdf, png")
	cmd.Flags().Float64Var(&opts.cellSize, "cell", 0, "SVG cell size in pixels")
	cmd.Flags().Float64Var(&opts.scale, "scale", 0, "PNG scale factor (default from config)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "convert without the artifact cache")

	return cmd
}

func (c *CLI) runExport(ctx context.Context, s records.Store, id string, stdout io.Writer, opts exportOpts) error {
	format := exportFormat(opts.format, opts.output)
	if (format == formatPDF || format == formatPNG) && opts.output == "" {
		return errors.New(errors.ErrCodeInvalidInput, "%s output needs --output", format)
	}

	_, st, err := loadState(ctx, s, id)
	if err != nil {
		return err
	}

	if opts.scale <= 0 {
		opts.scale = c.cfg.Export.Scale
	}

	prog := newProgress(c.Logger)
	var cv *render.Converter
	if format == formatPDF || format == formatPNG {
		cv = c.converter(opts.noCache)
	}
	data, err := encodeExport(ctx, st, format, opts, cv)
	if err != nil {
		return err
	}

	if opts.output == "" {
		_, err := stdout.Write(data)
		return err
	}
	if err := os.WriteFile(opts.output, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", opts.output, err)
	}
	prog.done(fmt.Sprintf("Exported %s as %s", id, format))
	printFile(opts.output)
	return nil
}

func encodeExport(ctx context.Context, st layout.State, format string, opts exportOpts, cv *render.Converter) ([]byte, error) {
	if format == formatJSON {
		var buf bytes.Buffer
		if err := seatio.WriteJSON(st.Elements, &buf); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}

	var svgOpts []render.SVGOption
	if opts.cellSize > 0 {
		svgOpts = append(svgOpts, render.WithCellSize(opts.cellSize))
	}
	svg := render.RenderSVG(st, svgOpts...)

	switch format {
	case formatSVG:
		return svg, nil
	case formatPDF, formatPNG:
		return cv.Convert(ctx, svg, format, opts.scale)
	default:
		return nil, errors.New(errors.ErrCodeUnsupported, "unknown export format %q", format)
	}
}

// exportFormat resolves the format from the flag or the output extension.
func exportFormat(flag, output string) string {
	if flag != "" {
		return strings.ToLower(flag)
	}
	if ext := strings.TrimPrefix(filepath.Ext(output), "."); ext != "" {
		return strings.ToLower(ext)
	}
	return formatJSON
}
