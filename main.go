package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/ridge/must/v2"

	"github.com/ByLCY/persiantext/binding"
	"github.com/ByLCY/persiantext/dsl"
	"github.com/ByLCY/persiantext/env"
	"github.com/ByLCY/persiantext/fonts"
	"github.com/ByLCY/persiantext/layout"
	"github.com/ByLCY/persiantext/logging"
	"github.com/ByLCY/persiantext/node"
	"github.com/ByLCY/persiantext/renderer"
	canvasrenderer "github.com/ByLCY/persiantext/renderer/canvas"
	"github.com/ByLCY/persiantext/renderer/raster"
)

func main() {
	env.Load()

	input := flag.String("in", "examples/demo.job", "任务文件路径")
	outDir := flag.String("out", env.StringVariable(env.OutDir, "output"), "PNG 输出目录")
	fontsDir := flag.String("fonts", env.StringVariable(env.FontsDir, ""), "字体目录")
	debugDir := flag.String("debug", "", "布局调试 JSON 输出目录")
	previewDir := flag.String("preview", "", "布局预览 PDF 输出目录")
	dataJSON := flag.String("data", "", "绑定到任务文本的 JSON 数据")
	listFonts := flag.Bool("list-fonts", false, "列出可用字体后退出")
	describeNode := flag.Bool("describe", false, "以 JSON 输出节点描述后退出")
	verbose := flag.Bool("v", env.BoolVariable(env.Verbose, false), "输出调试日志")
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logging.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	loader := fonts.NewLoader(*fontsDir)
	if *listFonts {
		for _, name := range append(must.OK1(loader.Available()), fonts.Builtins()...) {
			fmt.Println(name)
		}
		return
	}
	if *describeNode {
		if err := describe(os.Stdout, loader); err != nil {
			log.Fatalf("输出节点描述失败: %v", err)
		}
		return
	}

	var inputData any
	if *dataJSON != "" {
		if err := json.Unmarshal([]byte(*dataJSON), &inputData); err != nil {
			log.Fatalf("解析 data JSON 失败: %v", err)
		}
	}

	written, err := run(runOptions{
		InputPath:  *input,
		OutDir:     *outDir,
		DebugDir:   *debugDir,
		PreviewDir: *previewDir,
		Data:       inputData,
	}, raster.NewRenderer(loader))
	if err != nil {
		log.Fatalf("渲染失败: %v", err)
	}
	for _, path := range written {
		fmt.Printf("已生成：%s\n", path)
	}
}

// describe 以 JSON 输出节点描述，字体选项取自字体目录。
func describe(w io.Writer, loader *fonts.Loader) error {
	names, err := loader.Available()
	if err != nil {
		return err
	}
	d, ok := node.Register(names).Lookup(node.Name)
	if !ok {
		return fmt.Errorf("节点 %s 未注册", node.Name)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(d)
}

type runOptions struct {
	InputPath  string
	OutDir     string
	DebugDir   string
	PreviewDir string
	Data       any
}

// run 串联解析、绑定、渲染与输出，返回写入的文件路径。
func run(opts runOptions, r *raster.Renderer) ([]string, error) {
	if r == nil {
		return nil, fmt.Errorf("renderer 不能为空")
	}
	file, err := os.Open(opts.InputPath)
	if err != nil {
		return nil, fmt.Errorf("无法打开任务文件 %s: %w", opts.InputPath, err)
	}
	defer file.Close()

	doc, err := dsl.Parse(file)
	if err != nil {
		return nil, fmt.Errorf("解析任务文件失败: %w", err)
	}
	if err := doc.Validate(); err != nil {
		return nil, fmt.Errorf("任务文件无效: %w", err)
	}

	var written []string
	for _, job := range doc.Renders {
		paths, err := renderJob(doc, job, opts, r)
		if err != nil {
			return written, fmt.Errorf("render %s: %w", job.Name, err)
		}
		written = append(written, paths...)
	}
	return written, nil
}

func renderJob(doc *dsl.Document, job *dsl.Render, opts runOptions, r *raster.Renderer) ([]string, error) {
	params := job.Params()
	if text, ok := params[node.ParamText]; ok && opts.Data != nil {
		if missing := binding.Missing(text, opts.Data); len(missing) > 0 {
			logging.Logger().Warn("占位符未能解析，保留原文", "render", job.Name, "paths", missing)
		}
		params[node.ParamText] = binding.Interpolate(text, opts.Data)
	}

	cfg, err := node.ConfigFromParams(params)
	if err != nil {
		return nil, err
	}
	out, err := node.Execute(cfg, r)
	if err != nil {
		return nil, err
	}

	imagePath := filepath.Join(opts.OutDir, job.Name+".png")
	maskPath := filepath.Join(opts.OutDir, job.Name+"_mask.png")
	if err := out.Frame.WritePNG(imagePath, maskPath); err != nil {
		return nil, err
	}
	written := []string{imagePath, maskPath}

	if opts.DebugDir != "" {
		path := filepath.Join(opts.DebugDir, job.Name+".json")
		if err := layout.WriteDebugJSON(out.Layout, path); err != nil {
			return written, err
		}
		written = append(written, path)
	}

	if opts.PreviewDir != "" {
		var preview renderer.Renderer = canvasrenderer.NewRendererWithOptions(canvasrenderer.Options{
			Meta:       canvasrenderer.Meta{Title: doc.Name + "/" + job.Name, Subject: "layout preview", Creator: "persiantext"},
			Background: cfg.Style().Background,
			Labels:     true,
		})
		path := filepath.Join(opts.PreviewDir, job.Name+".pdf")
		if err := writePreview(preview, out.Layout, path); err != nil {
			return written, err
		}
		written = append(written, path)
	}
	return written, nil
}

func writePreview(r renderer.Renderer, result *layout.Result, path string) error {
	pdfBytes, err := r.Render(result)
	if err != nil {
		return fmt.Errorf("渲染 PDF 预览失败: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("创建输出目录失败: %w", err)
	}
	if err := os.WriteFile(path, pdfBytes, 0o644); err != nil {
		return fmt.Errorf("写入预览文件失败: %w", err)
	}
	return nil
}
