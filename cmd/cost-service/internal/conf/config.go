package conf

import (
	"os"
	"time"

	"github.com/spf13/viper"
)

// Config 应用配置
type Config struct {
	Server        ServerConfig        `mapstructure:"server"`
	Database      DatabaseConfig      `mapstructure:"database"`
	AWS           AWSConfig           `mapstructure:"aws"`
	Ingestion     IngestionConfig     `mapstructure:"ingestion"`
	Recommend     RecommendConfig     `mapstructure:"recommend"`
	Observability ObservabilityConfig `mapstructure:"observability"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	MetricsPort     int           `mapstructure:"metrics_port"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	DBName          string        `mapstructure:"dbname"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

// AWSConfig AWS 配置
type AWSConfig struct {
	Region             string        `mapstructure:"region"`
	SessionNamePrefix  string        `mapstructure:"session_name_prefix"`
	CredentialDuration time.Duration `mapstructure:"credential_duration"`
}

// IngestionConfig 采集配置
type IngestionConfig struct {
	Interval      time.Duration `mapstructure:"interval"`       // 扫描周期，默认 24h
	StartOffset   time.Duration `mapstructure:"start_offset"`   // 进程启动后的首次延迟
	WorkerLimit   int           `mapstructure:"worker_limit"`   // 并发租户数上限
	TenantTimeout time.Duration `mapstructure:"tenant_timeout"` // 单租户处理超时
}

// RecommendConfig 建议引擎配置
type RecommendConfig struct {
	Interval          time.Duration `mapstructure:"interval"`     // 扫描周期，默认 24h
	StartOffset       time.Duration `mapstructure:"start_offset"` // 相对采集任务的错峰延迟
	HighCostThreshold string        `mapstructure:"high_cost_threshold"`
}

// ObservabilityConfig 可观测性配置
type ObservabilityConfig struct {
	ServiceName    string `mapstructure:"service_name"`
	ServiceVersion string `mapstructure:"service_version"`
	Environment    string `mapstructure:"environment"`
	LogLevel       string `mapstructure:"log_level"`
	LogFormat      string `mapstructure:"log_format"`
}

// Load 加载配置
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// 设置配置文件
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("cost-service")
		v.SetConfigType("yaml")
		v.AddConfigPath("./configs")
		v.AddConfigPath("../configs")
		v.AddConfigPath("../../configs")
	}

	setDefaults(v)

	// 自动从环境变量读取
	v.AutomaticEnv()

	// 读取配置文件
	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}

	// 解析配置
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	// 从环境变量覆盖敏感配置
	if password := os.Getenv("DB_PASSWORD"); password != "" {
		config.Database.Password = password
	}
	if region := os.Getenv("AWS_REGION"); region != "" {
		config.AWS.Region = region
	}

	return &config, nil
}

// setDefaults 设置默认值
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.metrics_port", 8007)
	v.SetDefault("server.shutdown_timeout", "30s")

	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_open_conns", 20)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", "1h")

	v.SetDefault("aws.region", "us-east-1")
	v.SetDefault("aws.session_name_prefix", "CloudCostTrackerSession")
	v.SetDefault("aws.credential_duration", "1h")

	v.SetDefault("ingestion.interval", "24h")
	v.SetDefault("ingestion.start_offset", "0s")
	v.SetDefault("ingestion.worker_limit", 8)
	v.SetDefault("ingestion.tenant_timeout", "5m")

	v.SetDefault("recommend.interval", "24h")
	v.SetDefault("recommend.start_offset", "1h")
	v.SetDefault("recommend.high_cost_threshold", "1000")

	v.SetDefault("observability.service_name", "cost-service")
	v.SetDefault("observability.log_level", "info")
	v.SetDefault("observability.log_format", "json")
}
