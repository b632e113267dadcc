package world

import (
	"github.com/annel0/voxel-engine/internal/block"
	"github.com/annel0/voxel-engine/internal/vec"
)

// VisualSettings содержит визуальные параметры карты:
// температуру и влажность для колормапы тинтов, скайбокс и время суток.
type VisualSettings struct {
	Temperature float64
	Humidity    float64
	Skybox      string
	TimeOfDay   float64
}

// DefaultVisualSettings возвращает параметры процедурного мира
func DefaultVisualSettings() VisualSettings {
	return VisualSettings{
		Temperature: 0.8,
		Humidity:    0.4,
		Skybox:      "default",
		TimeOfDay:   0.5,
	}
}

// MapTemplate — конечная авторская карта, подменяющая процедурную генерацию.
// Создается внешним читателем формата карт; мир использует её только на чтение.
// Координаты внутри границ, но без сохраненных данных — пустота (Air),
// это void-карта, а не ошибка.
type MapTemplate struct {
	MinChunk vec.Vec2 // Границы в координатах чанков, включительно
	MaxChunk vec.Vec2

	Chunks map[vec.Vec2][]block.BlockID // Разреженные массивы блоков по ChunkVolume

	Visual VisualSettings
}

// Contains проверяет, лежит ли координата чанка внутри границ шаблона
func (t *MapTemplate) Contains(coords vec.Vec2) bool {
	return coords.X >= t.MinChunk.X && coords.X <= t.MaxChunk.X &&
		coords.Z >= t.MinChunk.Z && coords.Z <= t.MaxChunk.Z
}

// FindChunk возвращает сохраненный массив блоков для координаты чанка.
// false означает, что чанк внутри границ не авторизован (пустота).
func (t *MapTemplate) FindChunk(cx, cz int) ([]block.BlockID, bool) {
	data, exists := t.Chunks[vec.Vec2{X: cx, Z: cz}]
	if !exists || len(data) != ChunkVolume {
		return nil, false
	}
	return data, true
}
