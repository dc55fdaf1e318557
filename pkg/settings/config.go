package settings

type Config struct {
	Server Server `mapstructure:"server"`
	Logger Logger `mapstructure:"logger"`
	Pool   Pool   `mapstructure:"pool"`
	Redis  Redis  `mapstructure:"redis"`
	Kafka  Kafka  `mapstructure:"kafka"`
}

// Server is the configuration for the HTTP server
type Server struct {
	Mode            string `mapstructure:"mode"`
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	ShutdownTimeout int    `mapstructure:"shutdown_timeout"` // Seconds
}

// Logger is the configuration for the logger
type Logger struct {
	LogLevel    string `mapstructure:"log_level"`
	FileLogName string `mapstructure:"file_log_name"`
	MaxBackups  int    `mapstructure:"max_backups"`
	MaxAge      int    `mapstructure:"max_age"`
	MaxSize     int    `mapstructure:"max_size"`
	Compress    bool   `mapstructure:"compress"`
}

// Pool is the configuration for the shared pool
type Pool struct {
	Name       string   `mapstructure:"name"`
	Initial    []string `mapstructure:"initial"`
	StripeSize int      `mapstructure:"stripe_size"`
	Stripes    int      `mapstructure:"stripes"`

	// FlushInterval bounds how long a fed item waits in the batcher. Milliseconds.
	FlushInterval int `mapstructure:"flush_interval"`

	// Drain, when Pattern is set, consumes matching items every Interval and logs them.
	Drain Drain `mapstructure:"drain"`
}

type Drain struct {
	Pattern  string `mapstructure:"pattern"`
	Interval int    `mapstructure:"interval"` // Milliseconds
}

// Redis is the configuration for the Redis list feed
type Redis struct {
	Enabled         bool   `mapstructure:"enabled"`
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	Password        string `mapstructure:"password"`
	Database        int    `mapstructure:"database"`
	List            string `mapstructure:"list"`
	BlockTimeout    int    `mapstructure:"block_timeout"` // Seconds
	PoolSize        int    `mapstructure:"pool_size"`
	MinIdleConns    int    `mapstructure:"min_idle_conns"`
	PoolTimeout     int    `mapstructure:"pool_timeout"`
	DialTimeout     int    `mapstructure:"dial_timeout"`
	ReadTimeout     int    `mapstructure:"read_timeout"`
	WriteTimeout    int    `mapstructure:"write_timeout"`
	MaxRetries      int    `mapstructure:"max_retries"`
	MaxRetryBackoff int    `mapstructure:"max_retry_backoff"` // Milliseconds
	MinRetryBackoff int    `mapstructure:"min_retry_backoff"` // Milliseconds
}

// Kafka is the configuration for the Kafka feed
type Kafka struct {
	Enabled      bool     `mapstructure:"enabled"`
	Brokers      []string `mapstructure:"brokers"`
	Topics       []string `mapstructure:"topics"`
	GroupID      string   `mapstructure:"group_id"`
	Version      string   `mapstructure:"version"`
	Oldest       bool     `mapstructure:"oldest"`
	Timeout      int      `mapstructure:"timeout"`       // Seconds
	RetryBackoff int      `mapstructure:"retry_backoff"` // Milliseconds
}
