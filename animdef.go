package assetkit

import (
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"
)

const animsDirName = "anims"

// AnimDef is the model definition consumed by the client animation loader.
// The current layout fills ID and Src, the legacy layout fills Main and AnimDir.
type AnimDef struct {
	ID      string              `json:"id,omitempty"`
	Src     string              `json:"src,omitempty"`
	Main    string              `json:"main,omitempty"`
	AnimDir string              `json:"animDir,omitempty"`
	Anims   *orderedMap[string] `json:"anims"`
}

// Anim returns the file registered for a clip name.
func (d *AnimDef) Anim(name string) (string, bool) {
	return d.Anims.Get(name)
}

// AnimNames returns clip names in definition order.
func (d *AnimDef) AnimNames() []string {
	return d.Anims.Keys()
}

func (d *AnimDef) MarshalIndent() ([]byte, error) {
	return marshalManifest(d)
}

// ClipName derives a clip name from an exported animation file name such as
// "Xbot_Walk_Back.glb". The second "_" part is the name; when taken already
// the third part is appended.
func ClipName(fileName string, taken func(string) bool) (string, error) {
	parts := strings.Split(IconID(fileName), "_")
	if len(parts) < 2 {
		return "", invalidArgf("animation file %q has no clip name part", fileName)
	}
	name := parts[1]
	if taken != nil && taken(name) {
		if len(parts) < 3 {
			return "", invalidArgf("animation file %q duplicates clip %q and has no suffix part", fileName, name)
		}
		name += strings.SplitN(parts[2], ".", 2)[0]
	}
	return name, nil
}

// BuildAnimDef builds the definition for model from animation file names in order.
// An empty outDir selects the legacy layout.
func BuildAnimDef(model, outDir string, files []string) (*AnimDef, error) {
	if model == "" {
		return nil, invalidArgf("model name is empty")
	}
	def := &AnimDef{Anims: newOrderedMap[string]()}
	if outDir == "" {
		def.Main = model + "." + GLB
		def.AnimDir = animsDirName
	} else {
		def.ID = model
		def.Src = path.Join(outDir, model, model+"."+GLB)
	}
	for _, f := range files {
		name, err := ClipName(f, def.Anims.Has)
		if err != nil {
			return nil, err
		}
		src := f
		if outDir != "" {
			src = path.Join(outDir, model, animsDirName, f)
		}
		if def.Anims.Set(name, src) {
			slog.Warn("clip name registered twice, keeping the later file", "clip", name, "file", f)
		}
	}
	return def, nil
}

type AnimDefOptions struct {
	// OutDir prefixes every path in the definition. Empty selects the legacy
	// layout which scans <dir>/anims and stores bare file names.
	OutDir string
	// Verify opens every clip file as glTF before it is listed.
	Verify bool
	Logger *slog.Logger
}

// GenerateAnimDef scans the animation directory next to modelPath and writes
// <dir>/<model>.model.json. It returns the written path and the definition.
func GenerateAnimDef(modelPath string, opts AnimDefOptions) (string, *AnimDef, error) {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	layout := LayoutFor(modelPath)
	animDir := layout.AnimsGltfDir
	if opts.OutDir == "" {
		animDir = filepath.Join(layout.Dir, animsDirName)
	}
	log.Info("creating definition", "model", layout.Name, "anims", animDir)

	entries, err := os.ReadDir(animDir)
	if err != nil {
		return "", nil, ioError(err, "read animation dir")
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if opts.Verify {
			clips, err := ReadClips(filepath.Join(animDir, e.Name()))
			if err != nil {
				return "", nil, err
			}
			if len(clips) == 0 {
				log.Warn("animation file has no clips", "file", e.Name())
			}
		}
		files = append(files, e.Name())
	}

	def, err := BuildAnimDef(layout.Name, opts.OutDir, files)
	if err != nil {
		return "", nil, err
	}
	log.Info("found anims", "files", len(files), "added", def.Anims.Len())

	data, err := def.MarshalIndent()
	if err != nil {
		return "", nil, ioError(err, "encode model definition")
	}
	out := filepath.Join(layout.Dir, layout.Name+".model.json")
	log.Info("dumping definition", "path", out)
	if err := os.WriteFile(out, data, 0o644); err != nil {
		return "", nil, ioError(err, "write model definition")
	}
	return out, def, nil
}
