package env

// viper keys, also used as cobra flag names
const (
	Config             = "config"
	Port               = "port"
	ModelPath          = "modelPath"
	MetricsPath        = "metricsPath"
	Schema             = "schema"
	OwnerName          = "ownerName"
	OwnerID            = "ownerID"
	OwnerLab           = "ownerLab"
	LogLevel           = "logLevel"
	LogFile            = "logFile"
	Pprof              = "pprof"
	TraceAgentHostPort = "TraceAgentHostPort"
)

// EnvPrefix is prepended to every key when read from the environment, e.g. PREDICTOR_PORT
const EnvPrefix = "PREDICTOR"

const (
	DefaultPort        = 8000
	DefaultModelPath   = "model.json"
	DefaultMetricsPath = "metrics.json"
	DefaultSchema      = "wine"
)

const (
	ServiceName = "Wine Quality Prediction API"
	Version     = "1.0.0"
)
