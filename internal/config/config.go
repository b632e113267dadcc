package config

import (
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config корневая структура конфигурации движка.
// Все секции опциональны: нулевые значения заменяются дефолтами
// через Get*-методы.

type Config struct {
	World    WorldConfig    `yaml:"world"`
	Lighting LightingConfig `yaml:"lighting"`
	Assets   AssetsConfig   `yaml:"assets"`
	Storage  StorageConfig  `yaml:"storage"`
}

type WorldConfig struct {
	Seed           int64 `yaml:"seed"`
	RenderDistance int   `yaml:"render_distance"`
	UnloadDistance int   `yaml:"unload_distance"`
	MeshBudgetMs   int   `yaml:"mesh_budget_ms"`
}

type LightingConfig struct {
	DimX              int     `yaml:"dim_x"`
	DimY              int     `yaml:"dim_y"`
	DimZ              int     `yaml:"dim_z"`
	Step              int     `yaml:"step"`
	RebuildsPerSecond float64 `yaml:"rebuilds_per_second"`
}

type AssetsConfig struct {
	AtlasPath     string `yaml:"atlas_path"`
	AtlasTileSize int    `yaml:"atlas_tile_size"`
	ColormapPath  string `yaml:"colormap_path"`
}

type StorageConfig struct {
	Enabled  bool   `yaml:"enabled"`
	DataPath string `yaml:"data_path"`
}

// GetRenderDistance возвращает радиус стриминга в чанках
func (w *WorldConfig) GetRenderDistance() int {
	return getIntWithEnvFallback(w.RenderDistance, "VOXEL_RENDER_DISTANCE", 8)
}

// GetUnloadDistance возвращает радиус выгрузки в чанках.
// Всегда строго больше радиуса стриминга: гистерезис против
// дребезга загрузки/выгрузки на границе.
func (w *WorldConfig) GetUnloadDistance() int {
	d := getIntWithEnvFallback(w.UnloadDistance, "VOXEL_UNLOAD_DISTANCE", 10)
	if d <= w.GetRenderDistance() {
		d = w.GetRenderDistance() + 2
	}
	return d
}

// GetMeshBudgetMs возвращает мягкий бюджет перестроения мешей на кадр
func (w *WorldConfig) GetMeshBudgetMs() int {
	return getIntWithEnvFallback(w.MeshBudgetMs, "VOXEL_MESH_BUDGET_MS", 4)
}

// GetDims возвращает размеры объема освещения
func (l *LightingConfig) GetDims() (int, int, int) {
	dx, dy, dz := l.DimX, l.DimY, l.DimZ
	if dx <= 0 {
		dx = 64
	}
	if dy <= 0 {
		dy = 96
	}
	if dz <= 0 {
		dz = 64
	}
	return dx, dy, dz
}

// GetStep возвращает шаг привязки origin объема освещения
func (l *LightingConfig) GetStep() int {
	if l.Step <= 0 {
		return 16
	}
	return l.Step
}

// GetRebuildsPerSecond возвращает лимит перестроений освещения в секунду
func (l *LightingConfig) GetRebuildsPerSecond() float64 {
	if l.RebuildsPerSecond <= 0 {
		return 2
	}
	return l.RebuildsPerSecond
}

// GetAtlasTileSize возвращает сторону тайла атласа в пикселях
func (a *AssetsConfig) GetAtlasTileSize() int {
	if a.AtlasTileSize <= 0 {
		return 16
	}
	return a.AtlasTileSize
}

// GetDataPath возвращает путь к данным мира с приоритетом: config -> env -> default
func (s *StorageConfig) GetDataPath() string {
	if s.DataPath != "" {
		return s.DataPath
	}
	if envVal := os.Getenv("VOXEL_DATA_PATH"); envVal != "" {
		return envVal
	}
	return "data"
}

// getIntWithEnvFallback возвращает значение с приоритетом: config -> env -> default
func getIntWithEnvFallback(configVal int, envVar string, defaultVal int) int {
	// Если значение задано в конфиге и больше 0, используем его
	if configVal > 0 {
		return configVal
	}

	// Пробуем прочитать из environment variable
	if envVal := os.Getenv(envVar); envVal != "" {
		if v, err := strconv.Atoi(envVal); err == nil && v > 0 {
			return v
		}
	}

	// Используем дефолтное значение
	return defaultVal
}

// Load читает YAML файл конфигурации.
// Если path == "", пытается прочитать из ENV VOXEL_CONFIG или возвращает nil, nil.
func Load(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv("VOXEL_CONFIG")
		if path == "" {
			return nil, nil // конфиг не задан — использовать дефолты
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
