package model

import (
	"testing"

	"github.com/annel0/voxel-engine/internal/block"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlabElement_Extents(t *testing.T) {
	// Тест кубоидов плиты по размещению
	bottom := SlabElement(block.SlabBottom)
	assert.Equal(t, float32(0), bottom.From[1], "Нижняя плита начинается от пола")
	assert.Equal(t, float32(8), bottom.To[1], "Нижняя плита до середины блока")

	top := SlabElement(block.SlabTop)
	assert.Equal(t, float32(8), top.From[1], "Верхняя плита от середины")
	assert.Equal(t, float32(16), top.To[1], "Верхняя плита до потолка блока")

	double := SlabElement(block.SlabDouble)
	assert.Equal(t, float32(0), double.From[1])
	assert.Equal(t, float32(16), double.To[1], "Двойная плита занимает блок целиком")

	for face := 0; face < block.FaceCount; face++ {
		require.NotNil(t, bottom.Faces[face], "У плиты должны быть все 6 граней")
	}
}

func TestFenceElements_Connections(t *testing.T) {
	// Тест элементов забора по флагам соединений
	lone := FenceElements(block.DefaultState)
	assert.Len(t, lone, 1, "Одинокий забор — только столб")

	east := FenceElements(block.DefaultState.WithConn(block.ConnEast))
	assert.Len(t, east, 3, "Одно соединение добавляет две перекладины")

	all := FenceElements(block.DefaultState.
		WithConn(block.ConnNorth).WithConn(block.ConnSouth).
		WithConn(block.ConnEast).WithConn(block.ConnWest))
	assert.Len(t, all, 9, "Четыре соединения — столб и восемь перекладин")

	// Перекладина тянется от столба до края блока
	bar := east[1]
	assert.Equal(t, float32(10), bar.From[0], "Перекладина начинается у столба")
	assert.Equal(t, float32(16), bar.To[0], "Перекладина доходит до края блока")
}

func TestModel_ResolveTexture(t *testing.T) {
	// Тест резолва текстурных переменных
	m := &Model{Textures: map[string]int{"#all": 5}}

	assert.Equal(t, 5, m.ResolveTexture("#all", 1), "Известная переменная резолвится из таблицы")
	assert.Equal(t, 1, m.ResolveTexture("#missing", 1), "Неизвестная переменная падает в fallback")
}

func TestRegistry_BuiltinModels(t *testing.T) {
	// Тест встроенных моделей частичных блоков
	blocks := block.NewRegistry()
	r := NewRegistry(blocks)

	slab, exists := r.Get(block.StoneSlabBlockID)
	require.True(t, exists, "Плита должна иметь встроенную модель")
	assert.Equal(t, block.ShapeBottomSlab, slab.Shape)

	fence, exists := r.Get(block.OakFenceBlockID)
	require.True(t, exists, "Забор должен иметь встроенную модель")
	assert.Equal(t, block.ShapeFence, fence.Shape)

	cross, exists := r.Get(block.TallGrassBlockID)
	require.True(t, exists, "Растительность должна иметь встроенную модель")
	assert.Equal(t, block.TileTallGrass, cross.ResolveTexture("#cross", 0), "Крест ссылается на тайл растения")
}

func TestRegistry_IsFullCube(t *testing.T) {
	// Тест предиката cullface: только модель с формой ровно Full
	// закрывает грани соседей
	blocks := block.NewRegistry()
	r := NewRegistry(blocks)

	assert.False(t, r.IsFullCube(block.StoneSlabBlockID), "Плита не закрывает грани соседей")
	assert.False(t, r.IsFullCube(block.OakFenceBlockID), "Забор не закрывает грани соседей")
	assert.False(t, r.IsFullCube(block.StoneBlockID), "Без зарегистрированной модели предикат ложен")

	r.Register(block.BlockID(600), &Model{Shape: block.ShapeFull})
	assert.True(t, r.IsFullCube(block.BlockID(600)), "Модель с формой Full закрывает грани")
}
