package preview

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
)

const (
	maxFontScanDepth = 3
	maxFontFileSize  = 20 << 20 // 20 MB
)

type faceKey struct {
	name string
	size float64
	bold bool
}

// FontCache loads TrueType/OpenType fonts from the system font
// directories and caches rendered faces. Scanning is lazy; the first
// face lookup walks the directories once.
type FontCache struct {
	mu      sync.RWMutex
	dirs    []string
	fonts   map[string]*opentype.Font // lowercase family or file name
	faces   map[faceKey]font.Face
	scanned bool
}

// NewFontCache creates a cache searching the OS font directories plus
// any extra directories.
func NewFontCache(extraDirs ...string) *FontCache {
	return &FontCache{
		dirs:  append(systemFontDirs(), extraDirs...),
		fonts: make(map[string]*opentype.Font),
		faces: make(map[faceKey]font.Face),
	}
}

// Face returns a rendering face for the named font, or nil when no
// matching font can be found.
func (fc *FontCache) Face(name string, sizePt float64, bold bool) font.Face {
	fc.ensureScanned()

	key := faceKey{name: strings.ToLower(name), size: sizePt, bold: bold}
	fc.mu.RLock()
	if face, ok := fc.faces[key]; ok {
		fc.mu.RUnlock()
		return face
	}
	fc.mu.RUnlock()

	f := fc.lookup(key.name, bold)
	if f == nil {
		return nil
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    sizePt,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil
	}

	fc.mu.Lock()
	fc.faces[key] = face
	fc.mu.Unlock()
	return face
}

// lookup resolves a lowercase font name, trying bold variants first,
// then the CJK display-name aliases.
func (fc *FontCache) lookup(lower string, bold bool) *opentype.Font {
	fc.mu.RLock()
	defer fc.mu.RUnlock()

	if f := fc.lookupLocked(lower, bold); f != nil {
		return f
	}
	if alias, ok := cjkFontAliases[lower]; ok {
		return fc.lookupLocked(alias, bold)
	}
	return nil
}

func (fc *FontCache) lookupLocked(lower string, bold bool) *opentype.Font {
	if bold {
		// Windows-style file suffixes ("msjhbd") and full-name variants.
		for _, suffix := range []string{" bold", "bd", "b"} {
			if f, ok := fc.fonts[lower+suffix]; ok {
				return f
			}
		}
	}
	return fc.fonts[lower]
}

// LoadFont registers a font file under the given name in addition to
// its internal family name.
func (fc *FontCache) LoadFont(name, path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if info.Size() > maxFontFileSize {
		return fmt.Errorf("font file too large: %d bytes", info.Size())
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	f, err := opentype.Parse(data)
	if err != nil {
		return fmt.Errorf("parse font %s: %w", path, err)
	}
	fc.mu.Lock()
	fc.fonts[strings.ToLower(name)] = f
	fc.registerFamily(f)
	fc.mu.Unlock()
	return nil
}

func (fc *FontCache) ensureScanned() {
	fc.mu.RLock()
	scanned := fc.scanned
	fc.mu.RUnlock()
	if scanned {
		return
	}

	fc.mu.Lock()
	defer fc.mu.Unlock()
	if fc.scanned {
		return
	}
	fc.scanned = true
	for _, dir := range fc.dirs {
		fc.scanDir(dir, 0)
	}
}

func (fc *FontCache) scanDir(dir string, depth int) {
	if depth > maxFontScanDepth {
		return
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return
	}
	for _, entry := range entries {
		if entry.IsDir() {
			fc.scanDir(filepath.Join(dir, entry.Name()), depth+1)
			continue
		}
		lower := strings.ToLower(entry.Name())
		isColl := strings.HasSuffix(lower, ".ttc") || strings.HasSuffix(lower, ".otc")
		isFont := strings.HasSuffix(lower, ".ttf") || strings.HasSuffix(lower, ".otf")
		if !isColl && !isFont {
			continue
		}
		info, err := entry.Info()
		if err != nil || info.Size() > maxFontFileSize {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			continue
		}
		if isColl {
			fc.loadCollection(data)
		} else {
			fc.loadSingle(data, lower)
		}
	}
}

func (fc *FontCache) loadSingle(data []byte, lowerFilename string) {
	f, err := opentype.Parse(data)
	if err != nil {
		return
	}
	fc.fonts[strings.TrimSuffix(lowerFilename, filepath.Ext(lowerFilename))] = f
	fc.registerFamily(f)
}

// loadCollection registers every font in a TTC/OTC collection. The CJK
// system fonts on most Linux distributions ship as collections.
func (fc *FontCache) loadCollection(data []byte) {
	coll, err := opentype.ParseCollection(data)
	if err != nil {
		return
	}
	for i := 0; i < coll.NumFonts(); i++ {
		f, err := coll.Font(i)
		if err != nil {
			continue
		}
		fc.registerFamily(f)
	}
}

func (fc *FontCache) registerFamily(f *opentype.Font) {
	if name, err := f.Name(nil, sfnt.NameIDFamily); err == nil && name != "" {
		fc.fonts[strings.ToLower(name)] = f
	}
	if name, err := f.Name(nil, sfnt.NameIDFull); err == nil && name != "" {
		fc.fonts[strings.ToLower(name)] = f
	}
}

// cjkFontAliases maps CJK display names to the English family names
// fonts register under, so documents and configs may use either.
var cjkFontAliases = map[string]string{
	"微軟正黑體": "microsoft jhenghei",
	"標楷體":   "dfkai-sb",
	"新細明體":  "pmingliu",
	"細明體":   "mingliu",
	"宋体":    "simsun",
	"黑体":    "simhei",
	"微软雅黑":  "microsoft yahei",
	"楷体":    "kaiti",
	"仿宋":    "fangsong",
	"等线":    "dengxian",
}

func systemFontDirs() []string {
	switch runtime.GOOS {
	case "windows":
		windir := os.Getenv("WINDIR")
		if windir == "" {
			windir = `C:\Windows`
		}
		dirs := []string{filepath.Join(windir, "Fonts")}
		if lad := os.Getenv("LOCALAPPDATA"); lad != "" {
			dirs = append(dirs, filepath.Join(lad, "Microsoft", "Windows", "Fonts"))
		}
		return dirs
	case "darwin":
		dirs := []string{"/System/Library/Fonts", "/Library/Fonts"}
		if home, _ := os.UserHomeDir(); home != "" {
			dirs = append(dirs, filepath.Join(home, "Library", "Fonts"))
		}
		return dirs
	default:
		dirs := []string{"/usr/share/fonts", "/usr/local/share/fonts"}
		if home, _ := os.UserHomeDir(); home != "" {
			dirs = append(dirs,
				filepath.Join(home, ".local", "share", "fonts"),
				filepath.Join(home, ".fonts"))
		}
		return dirs
	}
}
