// Package config 实现 aroace.toml 配置文件的解析和更新
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/pelletier/go-toml/v2"
)

// ConfigFileName 项目配置文件名
const ConfigFileName = "aroace.toml"

// 输出种类
const (
	EmitIR     = "ir"
	EmitAST    = "ast"
	EmitTokens = "tokens"
)

// ErrProjectRootNotFound 向上查找时没有找到配置文件
var ErrProjectRootNotFound = errors.New("project root not found (no " + ConfigFileName + " found)")

// AroAceConfig AroAce 项目配置
type AroAceConfig struct {
	Compiler CompilerConfig `toml:"compiler"`
	Output   OutputConfig   `toml:"output"`
}

// CompilerConfig 编译器配置
type CompilerConfig struct {
	TargetTriple     string `toml:"target_triple"`
	WarningsAsErrors bool   `toml:"warnings_as_errors"`
	WarnShadowing    bool   `toml:"warn_shadowing"`
	MaxDiagnostics   int    `toml:"max_diagnostics"` // 0 表示不限制
	Parallelism      int    `toml:"parallelism"`
	Verbose          bool   `toml:"verbose"`
}

// OutputConfig 输出配置
type OutputConfig struct {
	Emit string `toml:"emit"`
}

// DefaultConfig 返回默认配置
func DefaultConfig() *AroAceConfig {
	return &AroAceConfig{
		Compiler: CompilerConfig{
			TargetTriple:   defaultTargetTriple(),
			WarnShadowing:  true,
			MaxDiagnostics: 200,
			Parallelism:    runtime.NumCPU(),
		},
		Output: OutputConfig{Emit: EmitIR},
	}
}

func defaultTargetTriple() string {
	arch := runtime.GOARCH
	switch arch {
	case "amd64":
		arch = "x86_64"
	case "arm64":
		arch = "aarch64"
	}
	switch runtime.GOOS {
	case "darwin":
		return arch + "-apple-darwin"
	case "windows":
		return arch + "-pc-windows-msvc"
	}
	return arch + "-pc-linux-gnu"
}

// LoadConfig 加载项目根目录下的配置文件。文件不存在时返回默认配置
func LoadConfig(projectRoot string) (*AroAceConfig, error) {
	configPath := filepath.Join(projectRoot, ConfigFileName)

	data, err := os.ReadFile(configPath)
	if errors.Is(err, os.ErrNotExist) {
		return DefaultConfig(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", configPath, err)
	}
	return cfg, nil
}

// Parse 解析配置内容。未出现的键保留默认值，未知的键是错误
func Parse(data []byte) (*AroAceConfig, error) {
	cfg := DefaultConfig()
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return nil, fmt.Errorf("unknown configuration keys:\n%s", strict.String())
		}
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate 检查配置值
func (c *AroAceConfig) Validate() error {
	switch c.Output.Emit {
	case EmitIR, EmitAST, EmitTokens:
	default:
		return fmt.Errorf("output.emit must be one of %q, %q, %q, got %q", EmitIR, EmitAST, EmitTokens, c.Output.Emit)
	}
	if c.Compiler.Parallelism < 1 {
		return fmt.Errorf("compiler.parallelism must be at least 1, got %d", c.Compiler.Parallelism)
	}
	if c.Compiler.MaxDiagnostics < 0 {
		return fmt.Errorf("compiler.max_diagnostics must not be negative, got %d", c.Compiler.MaxDiagnostics)
	}
	return nil
}

// FindProjectRoot 获取项目根目录
// 从 startDir 向上查找包含 aroace.toml 的目录
func FindProjectRoot(startDir string) (string, error) {
	current, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}
	for {
		if _, err := os.Stat(filepath.Join(current, ConfigFileName)); err == nil {
			return current, nil
		}

		parent := filepath.Dir(current)
		if parent == current {
			// 已经到达根目录
			return "", ErrProjectRootNotFound
		}
		current = parent
	}
}

// Discover 从 startDir 查找项目配置，找不到项目时返回默认配置和空根目录
func Discover(startDir string) (*AroAceConfig, string, error) {
	root, err := FindProjectRoot(startDir)
	if errors.Is(err, ErrProjectRootNotFound) {
		return DefaultConfig(), "", nil
	}
	if err != nil {
		return nil, "", err
	}
	cfg, err := LoadConfig(root)
	if err != nil {
		return nil, "", err
	}
	return cfg, root, nil
}
