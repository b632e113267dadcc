package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig_Defaults(t *testing.T) {
	// Тест дефолтов нулевой конфигурации
	cfg := &Config{}

	assert.Equal(t, 8, cfg.World.GetRenderDistance(), "Дефолтный радиус стриминга")
	assert.Equal(t, 10, cfg.World.GetUnloadDistance(), "Дефолтный радиус выгрузки")
	assert.Equal(t, 4, cfg.World.GetMeshBudgetMs(), "Дефолтный бюджет мешей")

	dx, dy, dz := cfg.Lighting.GetDims()
	assert.Equal(t, 64, dx)
	assert.Equal(t, 96, dy)
	assert.Equal(t, 64, dz)
	assert.Equal(t, 16, cfg.Lighting.GetStep())
	assert.Equal(t, 2.0, cfg.Lighting.GetRebuildsPerSecond())

	assert.Equal(t, 16, cfg.Assets.GetAtlasTileSize())
	assert.Equal(t, "data", cfg.Storage.GetDataPath())
}

func TestConfig_UnloadDistanceHysteresis(t *testing.T) {
	// Тест принудительного гистерезиса: радиус выгрузки всегда
	// строго больше радиуса стриминга
	cfg := &Config{World: WorldConfig{RenderDistance: 12, UnloadDistance: 5}}

	assert.Equal(t, 14, cfg.World.GetUnloadDistance(), "Радиус выгрузки должен подниматься выше стриминга")
}

func TestConfig_EnvFallback(t *testing.T) {
	// Тест приоритета: config -> env -> default
	t.Setenv("VOXEL_RENDER_DISTANCE", "6")

	cfg := &Config{}
	assert.Equal(t, 6, cfg.World.GetRenderDistance(), "Без значения в конфиге берется env")

	cfg.World.RenderDistance = 3
	assert.Equal(t, 3, cfg.World.GetRenderDistance(), "Значение конфига приоритетнее env")

	t.Setenv("VOXEL_RENDER_DISTANCE", "мусор")
	cfg.World.RenderDistance = 0
	assert.Equal(t, 8, cfg.World.GetRenderDistance(), "Некорректный env падает в дефолт")
}

func TestConfig_LoadYAML(t *testing.T) {
	// Тест загрузки YAML-файла
	path := filepath.Join(t.TempDir(), "engine.yml")
	yaml := `
world:
  seed: 777
  render_distance: 5
lighting:
  dim_y: 128
storage:
  enabled: true
  data_path: /tmp/voxel
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0644))

	cfg, err := Load(path)
	require.NoError(t, err, "Корректный YAML должен загружаться")
	require.NotNil(t, cfg)

	assert.Equal(t, int64(777), cfg.World.Seed)
	assert.Equal(t, 5, cfg.World.GetRenderDistance())

	_, dy, _ := cfg.Lighting.GetDims()
	assert.Equal(t, 128, dy, "Заданная размерность из файла")

	assert.True(t, cfg.Storage.Enabled)
	assert.Equal(t, "/tmp/voxel", cfg.Storage.GetDataPath())
}

func TestConfig_LoadMissing(t *testing.T) {
	// Тест отсутствующей конфигурации
	cfg, err := Load("")
	assert.NoError(t, err, "Пустой путь без env — не ошибка")
	assert.Nil(t, cfg, "Конфиг не задан — дефолты у вызывающего")

	_, err = Load("nonexistent.yml")
	assert.Error(t, err, "Отсутствующий файл — ошибка")
}
