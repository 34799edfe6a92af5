package assetkit

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

const (
	FBX  = "fbx"
	GLTF = "gltf"
	GLB  = "glb"
)

// Converter turns one source model into a converter output rooted at outputBase.
type Converter interface {
	Convert(ctx context.Context, input, outputBase string) error
}

// OutputLocator is implemented by converters that know where their output lands.
type OutputLocator interface {
	OutputPath(outputBase string) string
}

// CommandRunner runs an external program to completion.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) error
}

type execRunner struct {
	stdout io.Writer
	stderr io.Writer
}

// NewExecRunner returns a CommandRunner backed by os/exec.
func NewExecRunner(stdout, stderr io.Writer) CommandRunner {
	return &execRunner{stdout: stdout, stderr: stderr}
}

func (r *execRunner) Run(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = r.stdout
	cmd.Stderr = r.stderr
	return cmd.Run()
}

// FBX2glTF drives the FBX2glTF command line converter.
type FBX2glTF struct {
	Binary string
	Format string
	Runner CommandRunner
}

func NewFBX2glTF(binary, format string) *FBX2glTF {
	return &FBX2glTF{
		Binary: binary,
		Format: format,
		Runner: NewExecRunner(os.Stdout, os.Stderr),
	}
}

// Args returns the converter argument vector for one input.
func (c *FBX2glTF) Args(input, outputBase string) []string {
	args := []string{"--embed"}
	if c.Format != GLTF {
		args = append(args, "--binary")
	}
	return append(args, "--input", input, "--output", outputBase)
}

func (c *FBX2glTF) OutputPath(outputBase string) string {
	if c.Format == GLTF {
		return filepath.Join(outputBase+"_out", filepath.Base(outputBase)+".gltf")
	}
	return outputBase + ".glb"
}

func (c *FBX2glTF) Convert(ctx context.Context, input, outputBase string) error {
	args := c.Args(input, outputBase)
	slog.Debug("running converter", "cmd", c.Binary, "args", strings.Join(args, " "))
	if err := c.Runner.Run(ctx, c.Binary, args...); err != nil {
		return ioError(err, "%s %s", c.Binary, input)
	}
	return nil
}

// ConverterFactory returns the converter for a target format, or nil.
func ConverterFactory(binary, format string) Converter {
	switch format {
	case GLB, GLTF:
		return NewFBX2glTF(binary, format)
	}
	return nil
}

type ConvertOptions struct {
	// Inspect parses every FBX input before conversion.
	Inspect bool
	// Verify reopens each output and records its animation clips.
	Verify bool
	Logger *slog.Logger
}

type ConvertedFile struct {
	Input  string
	Output string
	Source *FBXInfo
	Clips  []Clip
}

type ConvertReport struct {
	Model      ConvertedFile
	Animations []ConvertedFile
}

// ModelLayout names the directories used for a root model and its animations.
type ModelLayout struct {
	Name         string
	Dir          string
	AnimsDir     string
	AnimsGltfDir string
}

// LayoutFor derives the conventional layout for dir/model.fbx.
func LayoutFor(modelPath string) ModelLayout {
	name := IconID(filepath.Base(modelPath))
	dir := filepath.Dir(modelPath)
	return ModelLayout{
		Name:         name,
		Dir:          dir,
		AnimsDir:     filepath.Join(dir, name+"_Animations"),
		AnimsGltfDir: filepath.Join(dir, name+"_Animations_gltf"),
	}
}

// ConvertModel converts dir/model.fbx to dir/model and every dir/model_Animations/*.fbx
// to dir/model_Animations_gltf/<anim>. The first failure aborts the run.
func ConvertModel(ctx context.Context, conv Converter, modelPath string, opts ConvertOptions) (*ConvertReport, error) {
	if conv == nil {
		return nil, invalidArgf("no converter")
	}
	if modelPath == "" {
		return nil, invalidArgf("model path is empty")
	}
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	layout := LayoutFor(modelPath)

	if err := os.Mkdir(layout.AnimsGltfDir, 0o755); err != nil && !os.IsExist(err) {
		return nil, ioError(err, "create animation output dir")
	}

	report := &ConvertReport{}
	model, err := convertOne(ctx, conv, modelPath, filepath.Join(layout.Dir, layout.Name), opts, log)
	if err != nil {
		return nil, err
	}
	report.Model = *model

	anims, err := filepath.Glob(filepath.Join(layout.AnimsDir, "*."+FBX))
	if err != nil {
		return nil, errors.Wrap(err, "glob animations")
	}
	log.Info("converting animations", "model", layout.Name, "dir", layout.AnimsDir, "count", len(anims))
	for _, anim := range anims {
		out := filepath.Join(layout.AnimsGltfDir, IconID(filepath.Base(anim)))
		cf, err := convertOne(ctx, conv, anim, out, opts, log)
		if err != nil {
			return nil, err
		}
		report.Animations = append(report.Animations, *cf)
	}
	return report, nil
}

func convertOne(ctx context.Context, conv Converter, input, outputBase string, opts ConvertOptions, log *slog.Logger) (*ConvertedFile, error) {
	cf := &ConvertedFile{Input: input, Output: outputBase}
	if opts.Inspect {
		info, err := InspectFBX(input)
		if err != nil {
			return nil, err
		}
		log.Info("inspected fbx", "path", input, "meshes", len(info.Meshes), "animations", len(info.Animations))
		cf.Source = info
	}
	log.Info("converting", "input", input, "output", outputBase)
	if err := conv.Convert(ctx, input, outputBase); err != nil {
		return nil, err
	}
	if loc, ok := conv.(OutputLocator); ok {
		cf.Output = loc.OutputPath(outputBase)
	}
	if opts.Verify {
		clips, err := ReadClips(cf.Output)
		if err != nil {
			return nil, err
		}
		log.Info("verified output", "path", cf.Output, "clips", len(clips))
		cf.Clips = clips
	}
	return cf, nil
}
