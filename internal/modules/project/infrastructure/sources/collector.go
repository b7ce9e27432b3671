// Package sources 收集项目中的 .ace 源文件
package sources

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/Popaulol/AroAceLang/internal/modules/frontend/domain/analysis"

	"golang.org/x/exp/slices"
)

// Extension 源文件扩展名
const Extension = ".ace"

// Collect 读取给定的路径。目录会被递归展开为其中的 .ace 文件，隐藏目录被跳过；
// 文件按给定顺序读取，目录内的文件按路径排序
func Collect(paths []string) ([]analysis.SourceCode, error) {
	var files []string
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("source %s: %w", p, err)
		}
		if !info.IsDir() {
			files = append(files, p)
			continue
		}
		found, err := walk(p)
		if err != nil {
			return nil, err
		}
		files = append(files, found...)
	}

	sources := make([]analysis.SourceCode, 0, len(files))
	for _, f := range files {
		data, err := os.ReadFile(f)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", f, err)
		}
		sources = append(sources, analysis.NewSourceCode(string(data), f))
	}
	return sources, nil
}

func walk(root string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) == Extension {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", root, err)
	}
	slices.Sort(files)
	return files, nil
}
