package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"os"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/kyiku/textpin-back/internal/editor"
	"github.com/kyiku/textpin-back/internal/submit"
)

// NewInitCommand creates the init command
func NewInitCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init <template.yaml>",
		Short: "Write a template file with the default layout",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("template already exists: %s (use --force to overwrite)", path)
			}

			if err := WriteTemplateFile(path, DefaultTemplateFile()); err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "✓ Template written to %s\n", path)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing file")

	return cmd
}

// reportOutput is what report prints.
type reportOutput struct {
	Image          imageSize  `json:"image" yaml:"image"`
	ReferencePoint pixelPoint `json:"reference_point" yaml:"reference_point"`
	TextBounds     textBounds `json:"text_bounds" yaml:"text_bounds"`
	TextSize       float64    `json:"text_size" yaml:"text_size"`
	TextColor      string     `json:"text_color" yaml:"text_color"`
	Mode           string     `json:"mode" yaml:"mode"`
}

type imageSize struct {
	Width  int `json:"width" yaml:"width"`
	Height int `json:"height" yaml:"height"`
}

type pixelPoint struct {
	X int `json:"x" yaml:"x"`
	Y int `json:"y" yaml:"y"`
}

type textBounds struct {
	X      int `json:"x" yaml:"x"`
	Y      int `json:"y" yaml:"y"`
	Width  int `json:"width" yaml:"width"`
	Height int `json:"height" yaml:"height"`
}

func newReportOutput(r editor.Report) reportOutput {
	return reportOutput{
		Image:          imageSize{Width: r.Image.Width, Height: r.Image.Height},
		ReferencePoint: pixelPoint{X: r.ReferencePoint.X, Y: r.ReferencePoint.Y},
		TextBounds: textBounds{
			X:      r.TextBounds.X,
			Y:      r.TextBounds.Y,
			Width:  r.TextBounds.Width,
			Height: r.TextBounds.Height,
		},
		TextSize:  r.Text.Size,
		TextColor: r.Text.Color,
		Mode:      r.Text.Mode.String(),
	}
}

// NewReportCommand creates the report command
func NewReportCommand(opts *Options) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "report <image>",
		Short: "Print the reference point and text bounds in original image pixels",
		Long: `Print the reference point and text bounds in original image pixels.

Examples:
  textpin report photo.jpg
  textpin report photo.jpg -t template.yaml --format json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEditor(opts, args[0])
			if err != nil {
				return err
			}

			out := newReportOutput(e.Report())
			switch format {
			case "json":
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(out)
			case "yaml":
				enc := yaml.NewEncoder(cmd.OutOrStdout())
				defer enc.Close()
				return enc.Encode(out)
			default:
				return fmt.Errorf("unknown format %q (use yaml or json)", format)
			}
		},
	}

	cmd.Flags().StringVar(&format, "format", "yaml", "Output format: yaml or json")

	return cmd
}

// NewRenderCommand creates the render command
func NewRenderCommand(opts *Options) *cobra.Command {
	var (
		overlayPath    string
		simulationPath string
		previewPath    string
	)

	cmd := &cobra.Command{
		Use:   "render <image>",
		Short: "Render the overlay, the finished look and the confirmation preview as PNG",
		Long: `Render the image with its guides, the finished look and the confirmation preview.

Examples:
  textpin render photo.jpg -o overlay.png
  textpin render photo.jpg -t template.yaml --simulation final.png --preview preview.png`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if overlayPath == "" && simulationPath == "" && previewPath == "" {
				return fmt.Errorf("nothing to render: set --output, --simulation or --preview")
			}

			e, err := loadEditor(opts, args[0])
			if err != nil {
				return err
			}

			outputs := []struct {
				path   string
				render func() (image.Image, error)
			}{
				{overlayPath, e.RenderOverlay},
				{simulationPath, e.RenderSimulation},
				{previewPath, e.RenderPreview},
			}
			for _, o := range outputs {
				if o.path == "" {
					continue
				}
				img, err := o.render()
				if err != nil {
					return fmt.Errorf("failed to render %s: %w", o.path, err)
				}
				if err := writePNG(o.path, img); err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote %s (%dx%d)\n", o.path, img.Bounds().Dx(), img.Bounds().Dy())
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&overlayPath, "output", "o", "", "Write the overlay with guides to this PNG")
	cmd.Flags().StringVar(&simulationPath, "simulation", "", "Write the finished look to this PNG")
	cmd.Flags().StringVar(&previewPath, "preview", "", "Write the confirmation preview to this PNG")

	return cmd
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := png.Encode(f, img); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	return f.Close()
}

// NewSubmitCommand creates the submit command
func NewSubmitCommand(opts *Options) *cobra.Command {
	var (
		endpoint string
		timeout  time.Duration
	)

	cmd := &cobra.Command{
		Use:   "submit <image>",
		Short: "Submit the template and print its template ID",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEditor(opts, args[0])
			if err != nil {
				return err
			}
			if err := e.OpenConfirmation(); err != nil {
				return err
			}
			payload, err := e.BeginSubmit()
			if err != nil {
				return err
			}

			client := submit.NewClient(endpoint, timeout)
			templateID, err := client.Submit(context.Background(), payload)
			e.FinishSubmit(templateID, err)
			if err != nil {
				_, _ = fmt.Fprintln(cmd.OutOrStderr(), "✗ Template submission failed")
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "✓ Template created: %s\n", templateID)
			return nil
		},
	}

	cmd.Flags().StringVar(&endpoint, "endpoint", submit.DefaultEndpoint, "Template endpoint URL")
	cmd.Flags().DurationVar(&timeout, "timeout", 30*time.Second, "Submission timeout")

	return cmd
}
