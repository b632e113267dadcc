package world

import (
	"testing"

	"github.com/annel0/voxel-engine/internal/block"
	"github.com/annel0/voxel-engine/internal/vec"
	"github.com/stretchr/testify/assert"
)

func TestTerrainGenerator_Determinism(t *testing.T) {
	// Тест детерминизма: два генератора с одним сидом выдают
	// побитово одинаковые чанки независимо от порядка запросов
	gen1 := NewTerrainGenerator(12345)
	gen2 := NewTerrainGenerator(12345)

	coords := []vec.Vec2{{X: 0, Z: 0}, {X: -3, Z: 7}, {X: 100, Z: -50}}

	first := make(map[vec.Vec2][]block.BlockID)
	for _, c := range coords {
		first[c] = gen1.GenerateChunk(c).BlocksSnapshot()
	}

	// Второй генератор запрашивает чанки в обратном порядке
	for i := len(coords) - 1; i >= 0; i-- {
		c := coords[i]
		assert.Equal(t, first[c], gen2.GenerateChunk(c).BlocksSnapshot(),
			"Чанк (%d,%d) должен быть идентичен при одном сиде", c.X, c.Z)
	}
}

func TestTerrainGenerator_SeedChangesTerrain(t *testing.T) {
	// Тест влияния сида на ландшафт
	c1 := NewTerrainGenerator(1).GenerateChunk(vec.Vec2{X: 0, Z: 0})
	c2 := NewTerrainGenerator(2).GenerateChunk(vec.Vec2{X: 0, Z: 0})

	assert.NotEqual(t, c1.BlocksSnapshot(), c2.BlocksSnapshot(), "Разные сиды должны давать разный ландшафт")
}

func TestTerrainGenerator_ColumnLayering(t *testing.T) {
	// Тест послойного устройства колонны: бедрок, камень, дерн, трава
	gen := NewTerrainGenerator(12345)
	chunk := gen.GenerateChunk(vec.Vec2{X: 0, Z: 0})

	for z := 0; z < ChunkSizeZ; z++ {
		for x := 0; x < ChunkSizeX; x++ {
			height := gen.surfaceHeight(x, z)

			assert.GreaterOrEqual(t, height, baseHeight, "Высота не может быть ниже базовой")
			assert.LessOrEqual(t, height, baseHeight+heightRange, "Высота не может превышать амплитуду")

			assert.Equal(t, block.BedrockBlockID, chunk.GetBlockLocal(x, 0, z), "Дно колонны — бедрок")
			assert.Equal(t, block.StoneBlockID, chunk.GetBlockLocal(x, 1, z), "Над бедроком — камень")
			assert.Equal(t, block.StoneBlockID, chunk.GetBlockLocal(x, height-5, z), "Низ колонны — камень")
			assert.Equal(t, block.DirtBlockID, chunk.GetBlockLocal(x, height-4, z), "Под поверхностью — дерн")
			assert.Equal(t, block.DirtBlockID, chunk.GetBlockLocal(x, height-2, z), "Под поверхностью — дерн")
			assert.Equal(t, block.GrassBlockID, chunk.GetBlockLocal(x, height-1, z), "Поверхность — трава")

			// На поверхности либо воздух, либо растительность
			surface := chunk.GetBlockLocal(x, height, z)
			switch surface {
			case block.AirBlockID, block.TallGrassBlockID, block.PoppyBlockID,
				block.DandelionBlockID, block.DeadBushBlockID:
			default:
				t.Errorf("Неожиданный блок на поверхности (%d,%d): %d", x, z, surface)
			}

			assert.Equal(t, block.AirBlockID, chunk.GetBlockLocal(x, height+1, z), "Над поверхностью — воздух")
		}
	}
}

func TestTerrainGenerator_VegetationFrequency(t *testing.T) {
	// Тест частоты растительности: около 15% колонн, стабильно по сиду
	gen := NewTerrainGenerator(12345)

	total := 0
	planted := 0
	for z := 0; z < 100; z++ {
		for x := 0; x < 100; x++ {
			total++
			if gen.vegetationAt(x, gen.surfaceHeight(x, z), z) != block.AirBlockID {
				planted++
			}
		}
	}

	ratio := float64(planted) / float64(total)
	assert.InDelta(t, 0.15, ratio, 0.03, "Растительность должна покрывать около 15%% колонн")
}

func TestTerrainGenerator_VegetationStateless(t *testing.T) {
	// Тест stateless-выбора растительности: результат зависит только
	// от сида и координат, не от истории вызовов
	gen1 := NewTerrainGenerator(777)
	gen2 := NewTerrainGenerator(777)

	// Прогреваем первый генератор посторонними запросами
	gen1.GenerateChunk(vec.Vec2{X: 50, Z: 50})

	for x := 0; x < 50; x++ {
		assert.Equal(t, gen1.vegetationAt(x, 64, 10), gen2.vegetationAt(x, 64, 10),
			"Растительность колонны %d не должна зависеть от порядка запросов", x)
	}
}

func TestTerrainGenerator_Template(t *testing.T) {
	// Тест генерации из конечного шаблона карты
	data := make([]block.BlockID, ChunkVolume)
	data[blockIndex(3, 40, 3)] = block.SandBlockID

	template := &MapTemplate{
		MinChunk: vec.Vec2{X: 0, Z: 0},
		MaxChunk: vec.Vec2{X: 1, Z: 1},
		Chunks: map[vec.Vec2][]block.BlockID{
			{X: 0, Z: 0}: data,
		},
		Visual: DefaultVisualSettings(),
	}

	gen := NewTerrainGenerator(12345)
	gen.SetTemplate(template)

	// Чанк с данными копируется из шаблона
	chunk := gen.GenerateChunk(vec.Vec2{X: 0, Z: 0})
	assert.Equal(t, block.SandBlockID, chunk.GetBlockLocal(3, 40, 3), "Блок должен копироваться из шаблона")

	// Void-чанк внутри границ — пустота, не процедурный шум
	void := gen.GenerateChunk(vec.Vec2{X: 1, Z: 1})
	assert.Equal(t, block.AirBlockID, void.GetBlockLocal(8, 0, 8), "Void-чанк внутри границ должен быть пустым")

	// За границами шаблона — пустота
	outside := gen.GenerateChunk(vec.Vec2{X: 5, Z: 5})
	assert.Equal(t, block.AirBlockID, outside.GetBlockLocal(8, 0, 8), "За границами шаблона должна быть пустота")

	// Сброс шаблона возвращает процедурную генерацию
	gen.SetTemplate(nil)
	procedural := gen.GenerateChunk(vec.Vec2{X: 0, Z: 0})
	assert.Equal(t, block.BedrockBlockID, procedural.GetBlockLocal(8, 0, 8), "Без шаблона генерация процедурная")
}
