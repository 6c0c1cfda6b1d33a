package config

import (
	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/viper"
)

var config Config

// Init 加载配置：先读取 config.yaml（可选），再用环境变量覆盖
func Init() {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	// 配置文件可以不存在，此时完全依赖环境变量
	if err := viper.ReadInConfig(); err == nil {
		if err := viper.Unmarshal(&config); err != nil {
			panic(err)
		}
	}

	if err := envconfig.Process("", &config); err != nil {
		panic(err)
	}

	setDefaults()
}

func setDefaults() {
	if config.Host == "" {
		config.Host = "0.0.0.0"
	}
	if config.Port == "" {
		config.Port = "8080"
	}
	if config.Mode == "" {
		config.Mode = ModeDebug
	}
	if config.JWT.AccessExpire <= 0 {
		config.JWT.AccessExpire = 7 * 24 * 3600 // 默认 7 天
	}
	if config.Log.Level == "" {
		config.Log.Level = "info"
	}
}

func Get() *Config {
	return &config
}
