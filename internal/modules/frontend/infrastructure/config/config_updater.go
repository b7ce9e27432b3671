package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// ConfigUpdater 配置更新器
// 职责：读取和更新 aroace.toml 配置文件
type ConfigUpdater struct {
	projectRoot string
	config      *AroAceConfig
}

// NewConfigUpdater 创建配置更新器
func NewConfigUpdater(projectRoot string) (*ConfigUpdater, error) {
	cfg, err := LoadConfig(projectRoot)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	return &ConfigUpdater{
		projectRoot: projectRoot,
		config:      cfg,
	}, nil
}

// SetTargetTriple 设置目标三元组
func (u *ConfigUpdater) SetTargetTriple(triple string) {
	u.config.Compiler.TargetTriple = triple
}

// SetEmit 设置输出种类
func (u *ConfigUpdater) SetEmit(emit string) error {
	previous := u.config.Output.Emit
	u.config.Output.Emit = emit
	if err := u.config.Validate(); err != nil {
		u.config.Output.Emit = previous
		return err
	}
	return nil
}

// Save 保存配置到文件
func (u *ConfigUpdater) Save() error {
	// 确保目录存在
	if err := os.MkdirAll(u.projectRoot, 0755); err != nil {
		return fmt.Errorf("failed to create project directory: %w", err)
	}

	data, err := toml.Marshal(u.config)
	if err != nil {
		return fmt.Errorf("failed to marshal config to TOML: %w", err)
	}

	configPath := filepath.Join(u.projectRoot, ConfigFileName)
	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// GetConfig 获取当前配置（只读）
func (u *ConfigUpdater) GetConfig() *AroAceConfig {
	return u.config
}
