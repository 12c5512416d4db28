package fonts

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/go-fonts/dejavu/dejavusans"
	"github.com/tdewolff/canvas"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"
)

// BaselineName 是平台基础字体，所有加载失败的字体都会退回到它。DejaVu Sans 同时覆盖拉丁与阿拉伯/波斯字母。
const BaselineName = "builtin:dejavu-sans"

// GoRegularName is the built-in Latin font used for ltr runs by default.
const GoRegularName = "builtin:go-regular"

var builtins = map[string][]byte{
	"dejavu-sans": dejavusans.TTF,
	"go-regular":  goregular.TTF,
	"go-bold":    gobold.TTF,
	"go-mono":    gomono.TTF,
}

// Loader resolves font references and memoizes parsed fonts per resolved path.
// A reference is either "builtin:<name>" (also "built-in:" / "embed:"), an absolute
// path, or a file name relative to Dir.
type Loader struct {
	Dir string

	mu    sync.Mutex
	cache map[string]*canvas.Font
}

// NewLoader creates a loader rooted at dir for resolving relative font names.
func NewLoader(dir string) *Loader {
	return &Loader{Dir: dir, cache: map[string]*canvas.Font{}}
}

// Load returns the parsed font for ref. The empty reference means the baseline font.
// Fonts are parsed with github.com/tdewolff/canvas, which also builds their shaper.
func (l *Loader) Load(ref string) (*canvas.Font, error) {
	key, data, err := l.resolve(ref)
	if err != nil {
		return nil, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.cache == nil {
		l.cache = map[string]*canvas.Font{}
	}
	if f, ok := l.cache[key]; ok {
		return f, nil
	}

	if data == nil {
		data, err = os.ReadFile(key)
		if err != nil {
			return nil, fmt.Errorf("读取字体 %s 失败: %w", ref, err)
		}
	}
	f, err := canvas.LoadFont(data, 0, canvas.FontRegular)
	if err != nil {
		return nil, fmt.Errorf("解析字体 %s 失败: %w", ref, err)
	}
	l.cache[key] = f
	return f, nil
}

// Baseline returns the platform baseline font.
func (l *Loader) Baseline() *canvas.Font {
	f, err := l.Load(BaselineName)
	if err != nil {
		// 基础字体随二进制分发，解析失败只可能是程序错误
		panic(fmt.Sprintf("基础字体不可用: %v", err))
	}
	return f
}

// Available lists the font files (.ttf/.otf) found in Dir, sorted by name.
func (l *Loader) Available() ([]string, error) {
	if l.Dir == "" {
		return nil, nil
	}
	entries, err := os.ReadDir(l.Dir)
	if err != nil {
		return nil, fmt.Errorf("读取字体目录 %s 失败: %w", l.Dir, err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if ext == ".ttf" || ext == ".otf" {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// Builtins lists the built-in font references.
func Builtins() []string {
	names := make([]string, 0, len(builtins))
	for name := range builtins {
		names = append(names, "builtin:"+name)
	}
	sort.Strings(names)
	return names
}

// resolve returns the cache key for ref and, for built-in fonts, their bytes.
func (l *Loader) resolve(ref string) (string, []byte, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		ref = BaselineName
	}
	for _, prefix := range []string{"builtin:", "built-in:", "embed:"} {
		if strings.HasPrefix(ref, prefix) {
			name := strings.TrimPrefix(ref, prefix)
			data, ok := builtins[name]
			if !ok {
				return "", nil, fmt.Errorf("找不到内置字体资源 %s", ref)
			}
			return "builtin:" + name, data, nil
		}
	}
	path := ref
	if !filepath.IsAbs(path) {
		if l.Dir == "" {
			return "", nil, fmt.Errorf("未指定字体目录时不允许直接使用字体路径：%s（请改用 builtin:）", ref)
		}
		path = filepath.Join(l.Dir, path)
	}
	return filepath.Clean(path), nil, nil
}
