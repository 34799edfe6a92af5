package assetkit

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func solidImage(w, h int, c color.Color) image.Image {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func writeImage(t *testing.T, path string, img image.Image) {
	t.Helper()
	var buf bytes.Buffer
	var err error
	switch filepath.Ext(path) {
	case ".png":
		err = png.Encode(&buf, img)
	case ".jpg":
		err = jpeg.Encode(&buf, img, &jpeg.Options{Quality: 100})
	case ".gif":
		err = gif.Encode(&buf, img, nil)
	default:
		t.Fatalf("unsupported fixture %s", path)
	}
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
}

var palette = []color.NRGBA{
	{255, 0, 0, 255},
	{0, 255, 0, 255},
	{0, 0, 255, 255},
	{255, 255, 0, 255},
	{0, 255, 255, 255},
	{255, 0, 255, 255},
	{255, 255, 255, 255},
}

func testIcons(n int) []Icon {
	icons := make([]Icon, n)
	for i := range icons {
		// uneven source sizes, the packer must stretch each one to a square
		icons[i] = Icon{
			ID:    fmt.Sprintf("icon%d", i),
			Image: solidImage(10+i*7, 30-i*2, palette[i%len(palette)]),
		}
	}
	return icons
}

func requireColor(t *testing.T, img *image.RGBA, x, y int, want color.NRGBA) {
	t.Helper()
	got := img.RGBAAt(x, y)
	require.InDelta(t, want.R, got.R, 1, "red at %d,%d", x, y)
	require.InDelta(t, want.G, got.G, 1, "green at %d,%d", x, y)
	require.InDelta(t, want.B, got.B, 1, "blue at %d,%d", x, y)
	require.Equal(t, uint8(0xff), got.A, "alpha at %d,%d", x, y)
}

func TestGridSize(t *testing.T) {
	cases := []struct {
		icons, cols, rows int
	}{
		{1, 1, 1},
		{5, 3, 2},
		{6, 3, 2},
		{7, 3, 3},
		{3, 8, 1},
		{64, 8, 8},
		{2, math.MaxInt, 1},
		{math.MaxInt, 1, math.MaxInt},
		{math.MaxInt, 2, math.MaxInt/2 + 1},
	}
	for _, c := range cases {
		require.Equal(t, c.rows, GridSize(c.icons, c.cols), "%d icons in %d columns", c.icons, c.cols)
	}
}

func TestCellRect(t *testing.T) {
	for i := 0; i < 20; i++ {
		r := CellRect(i, 32, 6)
		require.Equal(t, SpriteRect{X: (i % 6) * 32, Y: (i / 6) * 32, W: 32, H: 32}, r)
	}
}

func TestIconID(t *testing.T) {
	cases := map[string]string{
		"sword.png":     "sword",
		"potion.v2.png": "potion.v2",
		"shield":        "shield",
	}
	for in, want := range cases {
		require.Equal(t, want, IconID(in), in)
	}
}

func TestPackFiveIcons(t *testing.T) {
	atlas, err := Pack(testIcons(5), "items", 64, 3)
	require.NoError(t, err)

	require.Equal(t, 2, atlas.Rows)
	require.Equal(t, image.Rect(0, 0, 192, 128), atlas.Image.Bounds())

	sp, ok := atlas.Manifest.Sprite("icon3")
	require.True(t, ok)
	require.Equal(t, &Sprite{ID: "icon3", Src: SpriteRect{X: 0, Y: 64, W: 64, H: 64}}, sp)

	for i := 0; i < 5; i++ {
		r := CellRect(i, 64, 3)
		requireColor(t, atlas.Image, r.X+32, r.Y+32, palette[i])
		requireColor(t, atlas.Image, r.X, r.Y, palette[i])
		requireColor(t, atlas.Image, r.X+63, r.Y+63, palette[i])
	}
	// the sixth cell is never filled
	requireColor(t, atlas.Image, 128+32, 64+32, color.NRGBA{0, 0, 0, 255})
}

func TestPackSpritesFollowInputOrder(t *testing.T) {
	icons := testIcons(7)
	atlas, err := Pack(icons, "items", 16, 4)
	require.NoError(t, err)

	want := []string{"icon0", "icon1", "icon2", "icon3", "icon4", "icon5", "icon6"}
	if diff := cmp.Diff(want, atlas.Manifest.SpriteIDs()); diff != "" {
		t.Fatalf("sprite order mismatch (-want +got):\n%s", diff)
	}
	for i, id := range want {
		sp, _ := atlas.Manifest.Sprite(id)
		require.Equal(t, (i%4)*16, sp.Src.X, id)
		require.Equal(t, (i/4)*16, sp.Src.Y, id)
		require.Equal(t, 16, sp.Src.W, id)
		require.Equal(t, 16, sp.Src.H, id)
	}
}

func TestPackRectsWithinBounds(t *testing.T) {
	for _, cols := range []int{1, 2, 3, 5, 11} {
		atlas, err := Pack(testIcons(11), "items", 24, cols)
		require.NoError(t, err)
		bounds := atlas.Image.Bounds()
		require.Equal(t, atlas.Width(), bounds.Dx())
		require.Equal(t, atlas.Height(), bounds.Dy())
		for _, id := range atlas.Manifest.SpriteIDs() {
			sp, _ := atlas.Manifest.Sprite(id)
			require.True(t, sp.Src.Rectangle().In(bounds), "%s %+v outside %v", id, sp.Src, bounds)
		}
	}
}

func TestPackDuplicateIDLastWriteWins(t *testing.T) {
	icons := []Icon{
		{ID: "gem", Image: solidImage(4, 4, palette[0])},
		{ID: "coin", Image: solidImage(4, 4, palette[1])},
		{ID: "gem", Image: solidImage(4, 4, palette[2])},
	}
	atlas, err := Pack(icons, "loot", 8, 2)
	require.NoError(t, err)

	require.Equal(t, []string{"gem", "coin"}, atlas.Manifest.SpriteIDs())
	sp, _ := atlas.Manifest.Sprite("gem")
	require.Equal(t, SpriteRect{X: 0, Y: 8, W: 8, H: 8}, sp.Src)
	// both gems are still painted
	requireColor(t, atlas.Image, 4, 4, palette[0])
	requireColor(t, atlas.Image, 4, 12, palette[2])
}

func TestPackDropsAlpha(t *testing.T) {
	icons := []Icon{{ID: "ghost", Image: solidImage(6, 6, color.NRGBA{200, 100, 50, 128})}}
	atlas, err := Pack(icons, "fx", 4, 1)
	require.NoError(t, err)
	requireColor(t, atlas.Image, 2, 2, color.NRGBA{200, 100, 50, 255})
	require.True(t, atlas.Image.Opaque())
}

func TestPackInvalidArguments(t *testing.T) {
	icons := testIcons(2)
	cases := []struct {
		name      string
		atlasName string
		dim, cols int
		icons     []Icon
	}{
		{"zero columns", "a", 16, 0, icons},
		{"negative columns", "a", 16, -2, icons},
		{"zero dimension", "a", 0, 2, icons},
		{"negative dimension", "a", -16, 2, icons},
		{"empty name", "", 16, 2, icons},
		{"no icons", "a", 16, 2, nil},
		{"huge columns", "a", 1, math.MaxInt, icons},
		{"overflowing width", "a", math.MaxInt / 2, 3, icons},
		{"too wide", "a", 64, MaxAtlasSide/64 + 1, icons},
		{"too tall", "a", MaxAtlasSide / 2, 1, testIcons(3)},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			atlas, err := Pack(c.icons, c.atlasName, c.dim, c.cols)
			require.ErrorIs(t, err, ErrInvalidArgument)
			require.Nil(t, atlas)
		})
	}
}

func TestPackDirValidatesBeforeReading(t *testing.T) {
	_, err := PackDir(filepath.Join(t.TempDir(), "missing"), "a", 16, 0)
	require.ErrorIs(t, err, ErrInvalidArgument)
	require.NotErrorIs(t, err, ErrIO)
}

func TestPackDirEmptyDirectory(t *testing.T) {
	_, err := PackDir(t.TempDir(), "a", 16, 4)
	require.ErrorIs(t, err, ErrInvalidArgument)
}

func TestPackDirMissingDirectory(t *testing.T) {
	_, err := PackDir(filepath.Join(t.TempDir(), "missing"), "a", 16, 4)
	require.ErrorIs(t, err, ErrIO)
}

func TestLoadIconsRejectsNonImage(t *testing.T) {
	dir := t.TempDir()
	writeImage(t, filepath.Join(dir, "a.png"), solidImage(3, 3, palette[0]))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "readme.txt"), []byte("not an icon"), 0o644))

	_, err := LoadIcons(dir)
	require.ErrorIs(t, err, ErrIO)
	require.Contains(t, err.Error(), "readme.txt")
}

func TestLoadIconsFormats(t *testing.T) {
	dir := t.TempDir()
	writeImage(t, filepath.Join(dir, "axe.png"), solidImage(12, 20, palette[0]))
	writeImage(t, filepath.Join(dir, "bow.jpg"), solidImage(40, 8, palette[1]))
	writeImage(t, filepath.Join(dir, "cap.gif"), solidImage(9, 9, palette[2]))

	icons, err := LoadIcons(dir)
	require.NoError(t, err)
	var ids []string
	for _, ic := range icons {
		ids = append(ids, ic.ID)
	}
	require.Equal(t, []string{"axe", "bow", "cap"}, ids)
	require.Equal(t, image.Rect(0, 0, 40, 8), icons[1].Image.Bounds())
}

func TestManifestJSON(t *testing.T) {
	atlas, err := Pack(testIcons(5), "items", 64, 3)
	require.NoError(t, err)
	data, err := atlas.ManifestJSON()
	require.NoError(t, err)

	doc := gjson.ParseBytes(data)
	require.Equal(t, "items", doc.Get("id").String())
	require.Equal(t, "assets/atlases/items.png", doc.Get("src").String())
	require.Equal(t, "icon3", doc.Get("sprites.icon3.id").String())
	require.Equal(t, int64(0), doc.Get("sprites.icon3.src.x").Int())
	require.Equal(t, int64(64), doc.Get("sprites.icon3.src.y").Int())
	require.Equal(t, int64(64), doc.Get("sprites.icon3.src.w").Int())
	require.Equal(t, int64(64), doc.Get("sprites.icon3.src.h").Int())

	var keys []string
	doc.Get("sprites").ForEach(func(k, _ gjson.Result) bool {
		keys = append(keys, k.String())
		return true
	})
	require.Equal(t, []string{"icon0", "icon1", "icon2", "icon3", "icon4"}, keys)
	require.Contains(t, string(data), "\n    \"id\": \"items\"")
}

func TestManifestJSONIdempotent(t *testing.T) {
	first, err := Pack(testIcons(6), "items", 32, 4)
	require.NoError(t, err)
	second, err := Pack(testIcons(6), "items", 32, 4)
	require.NoError(t, err)

	a, err := first.ManifestJSON()
	require.NoError(t, err)
	b, err := second.ManifestJSON()
	require.NoError(t, err)
	require.Equal(t, a, b)

	pa, err := first.EncodePNG()
	require.NoError(t, err)
	pb, err := second.EncodePNG()
	require.NoError(t, err)
	require.Equal(t, pa, pb)
}

func TestPackDirWriteFiles(t *testing.T) {
	src := t.TempDir()
	out := t.TempDir()
	for i := 0; i < 5; i++ {
		writeImage(t, filepath.Join(src, fmt.Sprintf("icon%d.png", i)), solidImage(5+i, 9, palette[i]))
	}

	atlas, err := PackDir(src, "hud", 64, 3)
	require.NoError(t, err)
	imgPath, manifestPath, err := atlas.WriteFiles(out)
	require.NoError(t, err)
	require.Equal(t, filepath.Join(out, "hud.png"), imgPath)
	require.Equal(t, filepath.Join(out, "hud.atlas.json"), manifestPath)

	f, err := os.Open(imgPath)
	require.NoError(t, err)
	defer f.Close()
	cfg, err := png.DecodeConfig(f)
	require.NoError(t, err)
	require.Equal(t, 192, cfg.Width)
	require.Equal(t, 128, cfg.Height)
	require.Equal(t, color.RGBAModel, cfg.ColorModel, "atlas is written without an alpha channel")

	data, err := os.ReadFile(manifestPath)
	require.NoError(t, err)
	require.Equal(t, int64(64), gjson.GetBytes(data, "sprites.icon3.src.y").Int())

	entries, err := os.ReadDir(src)
	require.NoError(t, err)
	require.Len(t, entries, 5, "nothing is written next to the icons")
}
