package renderer

import "github.com/ByLCY/persiantext/layout"

// Renderer 将布局结果编码为最终文件，例如 PNG 图像或 PDF 预览。
// Render 返回生成的二进制数据以及可能的错误。
type Renderer interface {
	Render(result *layout.Result) ([]byte, error)
}
