package world

import (
	"encoding/binary"

	"github.com/annel0/voxel-engine/internal/block"
	"github.com/annel0/voxel-engine/internal/logging"
	"github.com/annel0/voxel-engine/internal/vec"
	"github.com/aquilax/go-perlin"
	"github.com/cespare/xxhash/v2"
)

// Константы генерации ландшафта
const (
	noiseScale  = 0.02 // Масштаб шума в мировых единицах
	baseHeight  = 60   // Базовая высота поверхности
	heightRange = 20   // Амплитуда рельефа поверх базовой высоты

	// Растительность на поверхности, вероятности в десятитысячных долях
	vegetationChance = 1500 // 15% колонн получают растительность
)

// Кумулятивные пороги подтипов растительности (из 100):
// 70% высокая трава, 10% мак, 10% одуванчик, 10% сухой куст
const (
	vegBandTallGrass = 70
	vegBandPoppy     = 80
	vegBandDandelion = 90
)

// TerrainGenerator генерирует ландшафт мира: шум Перлина для
// процедурных чанков либо копирование из конечного шаблона карты.
// Генератор детерминирован: два экземпляра с одним сидом выдают
// побитово одинаковые чанки независимо от порядка запросов.
type TerrainGenerator struct {
	seed     int64
	noise    *perlin.Perlin
	template *MapTemplate
}

// NewTerrainGenerator создаёт генератор с указанным сидом.
// alpha=2 даёт затухание 0.5 на октаву, beta=2 удваивает частоту,
// 4 октавы классического 2D шума Перлина.
func NewTerrainGenerator(seed int64) *TerrainGenerator {
	return &TerrainGenerator{
		seed:  seed,
		noise: perlin.NewPerlin(2, 2, 4, seed),
	}
}

// SetTemplate устанавливает конечный шаблон карты.
// nil возвращает генератор к процедурному режиму.
func (tg *TerrainGenerator) SetTemplate(t *MapTemplate) {
	tg.template = t
}

// Template возвращает текущий шаблон карты (может быть nil)
func (tg *TerrainGenerator) Template() *MapTemplate {
	return tg.template
}

// Seed возвращает сид генератора
func (tg *TerrainGenerator) Seed() int64 {
	return tg.seed
}

// GenerateChunk генерирует чанк по его координатам
func (tg *TerrainGenerator) GenerateChunk(coords vec.Vec2) *Chunk {
	chunk := NewChunk(coords)

	if tg.template != nil {
		tg.fillFromTemplate(chunk, coords)
		logging.LogChunkGenerated(coords.X, coords.Z, true)
		return chunk
	}

	tg.fillProcedural(chunk, coords)
	logging.LogChunkGenerated(coords.X, coords.Z, false)
	return chunk
}

// fillFromTemplate копирует блоки из шаблона карты.
// Внутри границ без данных и за границами — пустота (Air):
// конечная карта не окружается фоновым шумом.
func (tg *TerrainGenerator) fillFromTemplate(chunk *Chunk, coords vec.Vec2) {
	chunk.IsGenerated = true
	chunk.NeedsMeshUpdate = true

	if !tg.template.Contains(coords) {
		return // Явная граница пустоты за пределами карты
	}

	data, exists := tg.template.FindChunk(coords.X, coords.Z)
	if !exists {
		return // Void-чанк внутри границ
	}

	copy(chunk.blocks, data)
}

// fillProcedural заполняет чанк процедурным ландшафтом
func (tg *TerrainGenerator) fillProcedural(chunk *Chunk, coords vec.Vec2) {
	globalStartX := coords.X << 4 // chunkX * 16
	globalStartZ := coords.Z << 4

	for z := 0; z < ChunkSizeZ; z++ {
		for x := 0; x < ChunkSizeX; x++ {
			worldX := globalStartX + x
			worldZ := globalStartZ + z

			height := tg.surfaceHeight(worldX, worldZ)

			for y := 0; y < height && y < ChunkSizeY; y++ {
				var id block.BlockID
				switch {
				case y == 0:
					id = block.BedrockBlockID
				case y < height-4:
					id = block.StoneBlockID
				case y < height-1:
					id = block.DirtBlockID
				default: // y == height-1
					id = block.GrassBlockID
				}
				chunk.blocks[blockIndex(x, y, z)] = id
			}

			// Растительность на поверхности; выше — воздух (нулевые ячейки)
			if height < ChunkSizeY {
				if veg := tg.vegetationAt(worldX, height, worldZ); veg != block.AirBlockID {
					chunk.blocks[blockIndex(x, height, z)] = veg
				}
			}
		}
	}

	chunk.IsGenerated = true
	chunk.NeedsMeshUpdate = true
	chunk.Modified = false
}

// surfaceHeight возвращает высоту поверхности колонны.
// Шум приводится из [-1,1] в [0,1] и растягивается на heightRange.
func (tg *TerrainGenerator) surfaceHeight(worldX, worldZ int) int {
	n := tg.noise.Noise2D(float64(worldX)*noiseScale, float64(worldZ)*noiseScale)
	n01 := (n + 1.0) / 2.0
	return baseHeight + int(n01*heightRange)
}

// vegetationAt детерминированно выбирает растительность для колонны.
// Вместо stateful ГПСЧ — хэш от (сид, worldX, worldZ, y): результат
// не зависит от порядка генерации чанков.
func (tg *TerrainGenerator) vegetationAt(worldX, y, worldZ int) block.BlockID {
	h := tg.placementHash(worldX, y, worldZ)

	if h%10000 >= vegetationChance {
		return block.AirBlockID
	}

	// Вторая полоса хэша выбирает подтип по кумулятивным порогам
	band := (h / 10000) % 100
	switch {
	case band < vegBandTallGrass:
		return block.TallGrassBlockID
	case band < vegBandPoppy:
		return block.PoppyBlockID
	case band < vegBandDandelion:
		return block.DandelionBlockID
	default:
		return block.DeadBushBlockID
	}
}

// placementHash хэширует (сид, worldX, worldZ, y) в 64 бита
func (tg *TerrainGenerator) placementHash(worldX, y, worldZ int) uint64 {
	var buf [32]byte
	binary.LittleEndian.PutUint64(buf[0:], uint64(tg.seed))
	binary.LittleEndian.PutUint64(buf[8:], uint64(int64(worldX)))
	binary.LittleEndian.PutUint64(buf[16:], uint64(int64(worldZ)))
	binary.LittleEndian.PutUint64(buf[24:], uint64(int64(y)))
	return xxhash.Sum64(buf[:])
}
