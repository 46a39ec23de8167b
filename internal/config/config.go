package config

import (
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config корневая структура конфигурации приложения.

type Config struct {
	World    WorldConfig    `yaml:"world"`
	Terrain  TerrainConfig  `yaml:"terrain"`
	Juice    JuiceConfig    `yaml:"juice"`
	Server   ServerConfig   `yaml:"server"`
	EventBus EventBusConfig `yaml:"eventbus"`
	Storage  StorageConfig  `yaml:"storage"`
}

// WorldConfig задаёт параметры генерации графа мира.
type WorldConfig struct {
	Seed       int64   `yaml:"seed"`
	Width      int     `yaml:"width"`        // Ширина области сэмплирования
	Height     int     `yaml:"height"`       // Высота области сэмплирования
	Radius     float64 `yaml:"radius"`       // Минимальная дистанция между чанками
	Cycles     int     `yaml:"cycles"`       // Количество дополнительных циклов поверх MST
	Neighbours int     `yaml:"neighbours"`   // Кандидатных рёбер на чанк для циклов
	ChunkSpan  int     `yaml:"chunk_span"`   // Сторона террейн-окна чанка (блоков)
}

// TerrainConfig задаёт параметры слоёв ландшафта.
type TerrainConfig struct {
	Scale            float64 `yaml:"scale"`
	Octaves          int     `yaml:"octaves"`
	Persistence      float64 `yaml:"persistence"`
	MinElevation     float64 `yaml:"min_elevation"`
	MaxElevation     float64 `yaml:"max_elevation"`
	EquatorY         int     `yaml:"equator_y"`
	MaxLatitude      float64 `yaml:"max_latitude"`
	MinTemperature   float64 `yaml:"min_temperature"`
	MaxTemperature   float64 `yaml:"max_temperature"`
	TempNoiseScale   float64 `yaml:"temperature_noise_scale"`
	LapseRate        float64 `yaml:"lapse_rate"`
	WaterLevel       float64 `yaml:"water_level"`
	SourcePercentile float64 `yaml:"source_percentile"`
	DaysInYear       int     `yaml:"days_in_year"`
	SeasonAmplitude  float64 `yaml:"season_amplitude"`
	SeasonScaling    float64 `yaml:"season_scaling_factor"`
}

// JuiceConfig задаёт параметры трекера интереса к чанкам.
type JuiceConfig struct {
	MaxJuice        float64 `yaml:"max_juice"`
	JuiceAtPlayer   float64 `yaml:"juice_at_player"`
	DistanceDecay   float64 `yaml:"distance_decay"`
	LingerDecay     float64 `yaml:"linger_decay"`
	ProximityWeight float64 `yaml:"proximity_weight"`
	LingerWeight    float64 `yaml:"linger_weight"`
	UnloadThreshold float64 `yaml:"unload_threshold"`
	TickMillis      int     `yaml:"tick_millis"`
	MaxHops         int     `yaml:"max_hops"` // Ограничение BFS по графу
}

// ServerConfig задаёт порты внешних интерфейсов.
type ServerConfig struct {
	RESTPort    int `yaml:"rest_port"`
	MetricsPort int `yaml:"metrics_port"`
}

// EventBusConfig задаёт подключение к NATS JetStream.
type EventBusConfig struct {
	URL       string `yaml:"url"`
	Stream    string `yaml:"stream"`
	Retention int    `yaml:"retention_hours"`
}

// StorageConfig задаёт хранилища и кэш.
type StorageConfig struct {
	DataPath  string `yaml:"data_path"`
	RedisAddr string `yaml:"redis_addr"`
	RedisTTL  int    `yaml:"redis_ttl_seconds"`
	MariaDSN  string `yaml:"maria_dsn"`
	MongoURI  string `yaml:"mongo_uri"`
}

// GetRESTPort возвращает REST порт с поддержкой fallback значений
func (s *ServerConfig) GetRESTPort() int {
	return getPortWithEnvFallback(s.RESTPort, "WORLD_REST_PORT", 8088)
}

// GetMetricsPort возвращает Prometheus порт с поддержкой fallback значений
func (s *ServerConfig) GetMetricsPort() int {
	return getPortWithEnvFallback(s.MetricsPort, "WORLD_METRICS_PORT", 2112)
}

// getPortWithEnvFallback возвращает порт с приоритетом: config -> env -> default
func getPortWithEnvFallback(configPort int, envVar string, defaultPort int) int {
	if configPort > 0 {
		return configPort
	}

	if envVal := os.Getenv(envVar); envVal != "" {
		if port, err := strconv.Atoi(envVal); err == nil && port > 0 {
			return port
		}
	}

	return defaultPort
}

// Default возвращает конфигурацию по умолчанию: мир 1000x1000 с радиусом 20
// (как в исходных прототипах генерации) и параметрами слоёв ландшафта,
// откалиброванными под диапазоны высот -1000..15000 и температур -20..120.
func Default() *Config {
	return &Config{
		World: WorldConfig{
			Seed:       42,
			Width:      1000,
			Height:     1000,
			Radius:     20,
			Cycles:     500,
			Neighbours: 5,
			ChunkSpan:  16,
		},
		Terrain: TerrainConfig{
			Scale:            50,
			Octaves:          4,
			Persistence:      0.5,
			MinElevation:     -1000,
			MaxElevation:     15000,
			EquatorY:         500,
			MaxLatitude:      500,
			MinTemperature:   -20,
			MaxTemperature:   120,
			TempNoiseScale:   0.5,
			LapseRate:        0.00065,
			WaterLevel:       1000,
			SourcePercentile: 95,
			DaysInYear:       365,
			SeasonAmplitude:  20,
			SeasonScaling:    0.5,
		},
		Juice: JuiceConfig{
			MaxJuice:        100,
			JuiceAtPlayer:   100,
			DistanceDecay:   0.5,
			LingerDecay:     0.1,
			ProximityWeight: 0.70,
			LingerWeight:    0.30,
			UnloadThreshold: 25,
			TickMillis:      1000,
			MaxHops:         12,
		},
		Server: ServerConfig{},
		EventBus: EventBusConfig{
			Stream:    "WORLD_EVENTS",
			Retention: 24,
		},
		Storage: StorageConfig{
			DataPath: "data",
			RedisTTL: 300,
		},
	}
}

// Load читает YAML файл конфигурации поверх дефолтов.
// Если path == "", пытается прочитать из ENV WORLD_CONFIG или возвращает дефолты.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = os.Getenv("WORLD_CONFIG")
		if path == "" {
			return cfg, nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}
