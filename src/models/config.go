package models

// MConfig Structure
type MConfig struct {
	Name     string         `yaml:"name"`
	Host     string         `yaml:"host"`
	Port     int            `yaml:"port"`
	LogLevel string         `yaml:"log_level"`
	GrpcHost string         `yaml:"grpc_host"`
	GrpcPort int            `yaml:"grpc_port"`
	Log      MLogConfig     `yaml:"log"`
	Socket   MSocketConfig  `yaml:"socket"`
	Storage  MStorageConfig `yaml:"storage"`
	UI       MUIConfig      `yaml:"ui"`
	Trading  MTradingConfig `yaml:"trading"`
	Form     []MFieldPreset `yaml:"form"`
}

type MLogConfig struct {
	File       string `yaml:"file"` // Optional, stdout only when empty
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
}

type MSocketConfig struct {
	URL                 string `yaml:"url"`
	AppID               string `yaml:"app_id"`
	Language            string `yaml:"language"`
	DialTimeoutSeconds  int    `yaml:"dial_timeout_seconds"`
	PingIntervalSeconds int    `yaml:"ping_interval_seconds"`
	MaxRetries          int    `yaml:"retries"`
	NodeID              int64  `yaml:"node_id"`
}

type MStorageConfig struct {
	DBType             string `yaml:"db_type"`
	DBPath             string `yaml:"db_path"`
	DBConnectionString string `yaml:"db_connection_string"`
	RetentionDays      int    `yaml:"retention_days"`
}

type MUIConfig struct {
	ViewportWidth   int      `yaml:"viewport_width"`
	TooltipMinWidth int      `yaml:"tooltip_min_width"`
	Slots           []string `yaml:"slots"`
}

type MTradingConfig struct {
	Form      string                       `yaml:"form"`
	FormName  string                       `yaml:"form_name"`
	Forms     map[string]map[string]string `yaml:"forms"`     // form -> contract type -> label
	Positions map[string]string            `yaml:"positions"` // contract type -> slot, merged over built-ins
	Defaults  map[string]string            `yaml:"defaults"`
}

// MFieldPreset seeds one form field at startup.
type MFieldPreset struct {
	ID     string            `yaml:"id"`
	Value  string            `yaml:"value"`
	Attrs  map[string]string `yaml:"attrs"`
	Hidden bool              `yaml:"hidden"`
}
