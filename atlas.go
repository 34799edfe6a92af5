package assetkit

import (
	"image"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

const atlasSrcPrefix = "assets/atlases/"

// MaxAtlasSide bounds the atlas width and height in pixels.
const MaxAtlasSide = 1 << 15

// Icon is one decoded source image and the sprite id derived from its file name.
type Icon struct {
	ID    string
	Image image.Image
}

// SpriteRect locates a sprite in atlas pixel coordinates.
type SpriteRect struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

// Rectangle converts r to an image.Rectangle.
func (r SpriteRect) Rectangle() image.Rectangle {
	return image.Rect(r.X, r.Y, r.X+r.W, r.Y+r.H)
}

// Sprite is one manifest entry.
type Sprite struct {
	ID  string     `json:"id"`
	Src SpriteRect `json:"src"`
}

// AtlasManifest describes the layout of an atlas image for the game client.
type AtlasManifest struct {
	ID      string               `json:"id"`
	Src     string               `json:"src"`
	Sprites *orderedMap[*Sprite] `json:"sprites"`
}

// Sprite returns the manifest entry for id.
func (m *AtlasManifest) Sprite(id string) (*Sprite, bool) {
	return m.Sprites.Get(id)
}

// SpriteIDs returns sprite ids in manifest order.
func (m *AtlasManifest) SpriteIDs() []string {
	return m.Sprites.Keys()
}

// MarshalIndent encodes the manifest with four space indentation.
func (m *AtlasManifest) MarshalIndent() ([]byte, error) {
	return marshalManifest(m)
}

// Atlas is a packed icon grid and its manifest.
type Atlas struct {
	Name     string
	IconDim  int
	Columns  int
	Rows     int
	Image    *image.RGBA
	Manifest *AtlasManifest
}

// Width is the atlas width in pixels.
func (a *Atlas) Width() int { return a.IconDim * a.Columns }

// Height is the atlas height in pixels.
func (a *Atlas) Height() int { return a.IconDim * a.Rows }

// EncodePNG encodes the atlas image as an RGB PNG.
func (a *Atlas) EncodePNG() ([]byte, error) {
	return encodePNG(a.Image)
}

// ManifestJSON returns the indented manifest document.
func (a *Atlas) ManifestJSON() ([]byte, error) {
	return a.Manifest.MarshalIndent()
}

// ImageFileName is the atlas image name written by WriteFiles.
func (a *Atlas) ImageFileName() string { return a.Name + ".png" }

// ManifestFileName is the manifest name written by WriteFiles.
func (a *Atlas) ManifestFileName() string { return a.Name + ".atlas.json" }

// WriteFiles writes <name>.png and <name>.atlas.json into outDir.
func (a *Atlas) WriteFiles(outDir string) (imagePath, manifestPath string, err error) {
	png, err := a.EncodePNG()
	if err != nil {
		return "", "", ioError(err, "encode atlas %s", a.Name)
	}
	manifest, err := a.ManifestJSON()
	if err != nil {
		return "", "", ioError(err, "encode atlas manifest %s", a.Name)
	}

	imagePath = filepath.Join(outDir, a.ImageFileName())
	slog.Info("saving atlas image", "path", imagePath)
	if err := os.WriteFile(imagePath, png, 0o644); err != nil {
		return "", "", ioError(err, "write atlas image")
	}
	manifestPath = filepath.Join(outDir, a.ManifestFileName())
	slog.Info("saving atlas definition", "path", manifestPath)
	if err := os.WriteFile(manifestPath, manifest, 0o644); err != nil {
		return "", "", ioError(err, "write atlas manifest")
	}
	return imagePath, manifestPath, nil
}

// IconID strips the last extension from a file name.
func IconID(fileName string) string {
	return strings.TrimSuffix(fileName, filepath.Ext(fileName))
}

// GridSize returns the number of rows needed for iconCount icons in colCount columns.
func GridSize(iconCount, colCount int) int {
	rows := iconCount / colCount
	if iconCount%colCount != 0 {
		rows++
	}
	return rows
}

// CellRect returns the rectangle of the grid cell holding the icon at index.
func CellRect(index, iconDim, colCount int) SpriteRect {
	col := index % colCount
	row := index / colCount
	return SpriteRect{X: col * iconDim, Y: row * iconDim, W: iconDim, H: iconDim}
}

func validatePackArgs(atlasName string, iconDim, colCount int) error {
	if atlasName == "" {
		return invalidArgf("atlas name is empty")
	}
	if iconDim <= 0 {
		return invalidArgf("icon dimension must be positive, got %d", iconDim)
	}
	if colCount <= 0 {
		return invalidArgf("column count must be positive, got %d", colCount)
	}
	if iconDim > MaxAtlasSide || colCount > MaxAtlasSide/iconDim {
		return invalidArgf("atlas width %d x %d exceeds %d pixels", iconDim, colCount, MaxAtlasSide)
	}
	return nil
}

// LoadIcons decodes every entry of dir in directory listing order.
func LoadIcons(dir string) ([]Icon, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, ioError(err, "read icon dir")
	}
	icons := make([]Icon, 0, len(entries))
	for _, e := range entries {
		img, err := decodeImageFile(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, ioError(err, "decode icon %s", e.Name())
		}
		icons = append(icons, Icon{ID: IconID(e.Name()), Image: img})
	}
	return icons, nil
}

// Pack lays icons out on a colCount wide grid of iconDim squares.
// Icons sharing an id all keep their cell but only the last one is
// reachable through the manifest.
func Pack(icons []Icon, atlasName string, iconDim, colCount int) (*Atlas, error) {
	if err := validatePackArgs(atlasName, iconDim, colCount); err != nil {
		return nil, err
	}
	if len(icons) == 0 {
		return nil, invalidArgf("no icons to pack")
	}

	rows := GridSize(len(icons), colCount)
	if rows > MaxAtlasSide/iconDim {
		return nil, invalidArgf("atlas height %d x %d exceeds %d pixels", iconDim, rows, MaxAtlasSide)
	}
	atlas := &Atlas{
		Name:    atlasName,
		IconDim: iconDim,
		Columns: colCount,
		Rows:    rows,
		Manifest: &AtlasManifest{
			ID:      atlasName,
			Src:     atlasSrcPrefix + atlasName + ".png",
			Sprites: newOrderedMap[*Sprite](),
		},
	}
	slog.Info("packing atlas",
		"inputs", len(icons),
		"icon_dim", iconDim,
		"columns", colCount,
		"rows", rows,
		"width", atlas.Width(),
		"height", atlas.Height())

	atlas.Image = newCanvas(atlas.Width(), atlas.Height())
	for i, icon := range icons {
		rect := CellRect(i, iconDim, colCount)
		pasteOpaque(atlas.Image, resizeIcon(icon.Image, iconDim), rect.X, rect.Y)
		if atlas.Manifest.Sprites.Set(icon.ID, &Sprite{ID: icon.ID, Src: rect}) {
			slog.Warn("duplicate sprite id overwrites earlier entry", "id", icon.ID, "index", i)
		}
	}
	return atlas, nil
}

// PackDir loads every icon in sourceDir and packs them. Arguments are
// validated before the directory is read.
func PackDir(sourceDir, atlasName string, iconDim, colCount int) (*Atlas, error) {
	if err := validatePackArgs(atlasName, iconDim, colCount); err != nil {
		return nil, err
	}
	slog.Info("loading images", "dir", sourceDir)
	icons, err := LoadIcons(sourceDir)
	if err != nil {
		return nil, err
	}
	return Pack(icons, atlasName, iconDim, colCount)
}
