// Package cli implements the textpin command line tool.
package cli

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/kyiku/textpin-back/internal/editor"
	"github.com/kyiku/textpin-back/internal/typeset"
)

const (
	// Version is the current version of textpin
	Version = "0.1.0"
)

// Options holds the flags shared by all commands.
type Options struct {
	Template string
	Debug    bool
}

// NewRootCommand creates the root cobra command for textpin.
func NewRootCommand() *cobra.Command {
	opts := &Options{}

	cmd := &cobra.Command{
		Use:   "textpin",
		Short: "textpin - place a text label on an image by reference point",
		Long: `textpin lays out a text label on an image around a draggable reference point,
reports the point and the text bounds in original image pixels, renders the overlay
and submits the template.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if opts.Debug {
				log.SetOutput(os.Stderr)
				log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
			} else {
				log.SetOutput(io.Discard)
			}
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.Template, "template", "t", "", "Template YAML file (default: built-in template)")
	cmd.PersistentFlags().BoolVar(&opts.Debug, "debug", false, "Enable debug logging")

	cmd.AddCommand(NewInitCommand())
	cmd.AddCommand(NewReportCommand(opts))
	cmd.AddCommand(NewRenderCommand(opts))
	cmd.AddCommand(NewSubmitCommand(opts))

	return cmd
}

// Execute runs the root command
func Execute() error {
	return NewRootCommand().Execute()
}

// loadEditor creates an editor with the image at imagePath laid out by the template.
func loadEditor(opts *Options, imagePath string) (*editor.Editor, error) {
	tf, err := LoadTemplateFile(opts.Template)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(imagePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}

	ts, err := typeset.New()
	if err != nil {
		return nil, err
	}

	e := editor.New(ts)
	if err := e.LoadImage(data, imagePath); err != nil {
		return nil, err
	}
	if err := tf.Apply(e); err != nil {
		return nil, fmt.Errorf("invalid template: %w", err)
	}

	log.Printf("loaded %s (%dx%d)", imagePath, e.Report().Image.Width, e.Report().Image.Height)
	return e, nil
}
