package common

const (
	EnvKeyGoEnv string = "GO_ENV"

	EnvKeyRunIntegrationTests string = "RUN_INTEGRATION_TESTS"

	EnvKeyPlantDBType string = "PLANT_DB_TYPE"
	EnvKeyPlantDbPath string = "PLANT_DB_PATH"

	EnvKeyPlantHttpHostPort string = "PLANT_HTTP_HOST_PORT"
	EnvKeyPlantGrpcHostPort string = "PLANT_GRPC_HOST_PORT"

	EnvKeyPlantDefaultRate  string = "PLANT_DEFAULT_RATE"
	EnvKeyPlantDefaultBurst string = "PLANT_DEFAULT_BURST"

	EnvKeyPlantSheetsDir  string = "PLANT_SHEETS_DIR"
	EnvKeyPlantSourceID   string = "PLANT_SOURCE_ID"
	EnvKeyPlantTimezone   string = "PLANT_TIMEZONE"
	EnvKeyPlantUploadsDir string = "PLANT_UPLOADS_DIR"
	EnvKeyPlantJWTSecret  string = "PLANT_JWT_SECRET"

	EnvKeyPlantBreakerFailures string = "PLANT_BREAKER_FAILURES"
	EnvKeyPlantBreakerOpenMs   string = "PLANT_BREAKER_OPEN_MS"

	EnvKeyPlantMqttBroker   string = "PLANT_MQTT_BROKER"
	EnvKeyPlantMqttClientID string = "PLANT_MQTT_CLIENT_ID"
	EnvKeyPlantMqttTopic    string = "PLANT_MQTT_TOPIC"

	DefaultSourceID       string = "plants"
	DefaultTimezone       string = "Asia/Taipei"
	DefaultSheetsDir      string = "sheets"
	DefaultUploadsDir     string = "uploads"
	DefaultHttpPort       string = ":1080"
	DefaultMqttTopic      string = "plants/+/telemetry"
	DefaultMqttClient     string = "plant-collector"
	DefaultPhotoReference string = "/static/default-plant.png"

	LoggerNamePlantCore      string = "plant_core"
	LoggerNameRestfulServer  string = "restful_server"
	LoggerNameGrpcServer     string = "grpc_server"
	LoggerNameCollector      string = "collector"
	LoggerNameTelemetryStore string = "telemetry_store"

	LoggerFieldPlantCategory     string = "category"
	LoggerCategoryPlantRegistry  string = "registry"
	LoggerCategoryPlantMailbox   string = "mailbox"
	LoggerCategoryPlantReset     string = "reset"
	LoggerCategoryPlantTelemetry string = "telemetry"
)
