package cli

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"

	"github.com/kyiku/textpin-back/internal/editor"
	"github.com/kyiku/textpin-back/internal/layout"
)

//go:embed template.schema.json
var templateSchema []byte

// TemplateFile is the YAML description of a template layout.
type TemplateFile struct {
	Point     PointSection     `yaml:"point"`
	Text      TextSection      `yaml:"text"`
	Container ContainerSection `yaml:"container"`
}

// PointSection is the reference point in percent of the image.
type PointSection struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

// TextSection is the label configuration. Size is a number or numeric string.
type TextSection struct {
	Content string `yaml:"content"`
	Size    string `yaml:"size"`
	Color   string `yaml:"color"`
	Mode    string `yaml:"mode"`
}

// ContainerSection is the area the image is fitted into for rendering.
type ContainerSection struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// DefaultTemplateFile returns the template used when no file is given.
func DefaultTemplateFile() TemplateFile {
	text := layout.DefaultTextSpec()
	return TemplateFile{
		Point: PointSection{X: layout.DefaultReferencePoint.X, Y: layout.DefaultReferencePoint.Y},
		Text: TextSection{
			Content: text.Content,
			Size:    fmt.Sprintf("%g", text.Size),
			Color:   text.Color,
			Mode:    text.Mode.String(),
		},
		Container: ContainerSection{Width: 800, Height: 600},
	}
}

// LoadTemplateFile reads a template from path. Missing fields keep their defaults.
func LoadTemplateFile(path string) (TemplateFile, error) {
	tf := DefaultTemplateFile()
	if path == "" {
		return tf, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return tf, fmt.Errorf("failed to read template: %w", err)
	}
	if err := ValidateTemplate(data); err != nil {
		return tf, err
	}
	if err := yaml.Unmarshal(data, &tf); err != nil {
		return tf, fmt.Errorf("failed to parse template YAML: %w", err)
	}
	return tf, nil
}

// ValidateTemplate checks template YAML against the template schema.
// An empty document is valid and means all defaults.
func ValidateTemplate(data []byte) error {
	var doc interface{}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("failed to parse template YAML: %w", err)
	}
	if doc == nil {
		return nil
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewBytesLoader(templateSchema),
		gojsonschema.NewGoLoader(doc),
	)
	if err != nil {
		return fmt.Errorf("schema validation error: %w", err)
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			msgs = append(msgs, fmt.Sprintf("%s: %s", desc.Field(), desc.Description()))
		}
		return fmt.Errorf("invalid template: %s", strings.Join(msgs, "; "))
	}
	return nil
}

// WriteTemplateFile writes tf to path as YAML.
func WriteTemplateFile(path string, tf TemplateFile) error {
	data, err := yaml.Marshal(tf)
	if err != nil {
		return fmt.Errorf("failed to marshal template: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write template: %w", err)
	}
	return nil
}

// Apply configures e from the template. Any invalid field fails the whole template.
func (tf TemplateFile) Apply(e *editor.Editor) error {
	if tf.Container.Width < 0 || tf.Container.Height < 0 {
		return fmt.Errorf("container: size must not be negative")
	}

	e.SetPoint(layout.ReferencePoint{X: tf.Point.X, Y: tf.Point.Y})
	e.SetContent(tf.Text.Content)
	if err := e.SetTextSize(tf.Text.Size); err != nil {
		return fmt.Errorf("text.size: %w", err)
	}
	if err := e.SetColor(tf.Text.Color); err != nil {
		return fmt.Errorf("text.color: %w", err)
	}
	if err := e.SetMode(tf.Text.Mode); err != nil {
		return fmt.Errorf("text.mode: %w", err)
	}
	e.SetContainer(layout.DisplayExtent{Width: tf.Container.Width, Height: tf.Container.Height})
	return nil
}
