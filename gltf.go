package assetkit

import (
	"github.com/flywave/gltf"
)

// Clip is one animation found in a glTF document.
type Clip struct {
	Name     string
	Channels int
	Samplers int
}

// ReadClips opens a .gltf or .glb file and lists its animations.
func ReadClips(path string) ([]Clip, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, ioError(err, "open gltf %s", path)
	}
	return clipsOf(doc), nil
}

func clipsOf(doc *gltf.Document) []Clip {
	clips := make([]Clip, 0, len(doc.Animations))
	for _, an := range doc.Animations {
		clips = append(clips, Clip{
			Name:     an.Name,
			Channels: len(an.Channels),
			Samplers: len(an.Samplers),
		})
	}
	return clips
}
