package assetkit

import (
	"io"
	"os"

	"github.com/pkg/errors"

	fbx "github.com/flywave/ofbx"
)

// FBXInfo summarises an FBX scene before it is handed to the converter.
type FBXInfo struct {
	Path       string
	Meshes     []string
	Animations []string
}

// InspectFBX lists the meshes and animation stacks of the FBX file at path.
// A file the parser cannot read, truncated ones included, is an ErrIO.
func InspectFBX(path string) (*FBXInfo, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, ioError(err, "open fbx")
	}
	defer f.Close()

	scene, err := loadFBX(f)
	if err != nil {
		return nil, ioError(err, "parse fbx %s", path)
	}
	info := &FBXInfo{Path: path}
	for _, mh := range scene.Meshes {
		info.Meshes = append(info.Meshes, mh.Name())
	}
	for _, st := range scene.AnimationStacks {
		info.Animations = append(info.Animations, st.Name())
	}
	return info, nil
}

// loadFBX turns parser panics on malformed input into errors.
func loadFBX(r io.Reader) (scene *fbx.Scene, err error) {
	defer func() {
		if p := recover(); p != nil {
			scene, err = nil, errors.Errorf("malformed fbx: %v", p)
		}
	}()
	return fbx.Load(r)
}
