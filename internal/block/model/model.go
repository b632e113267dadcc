package model

import (
	"github.com/annel0/voxel-engine/internal/block"
)

// Face описывает одну грань элемента модели
type Face struct {
	UV      [4]float32 // u0,v0,u1,v1 в локальных единицах 0..16
	Cull    bool       // Грань отбрасывается против полного соседнего куба
	Texture string     // Имя текстурной переменной ("#side", "#top", ...)
}

// Element описывает кубоид модели в локальных единицах 0..16
type Element struct {
	From  [3]float32
	To    [3]float32
	Faces [block.FaceCount]*Face // nil — грань отсутствует
}

// Model статически описывает неполную геометрию блока:
// список кубоидов плюс привязки текстурных переменных к тайлам атласа.
type Model struct {
	Shape    block.Shape
	Elements []Element
	Textures map[string]int // Переменная -> индекс тайла атласа
}

// ResolveTexture возвращает тайл атласа для текстурной переменной грани.
// Неизвестная переменная резолвится в fallback.
func (m *Model) ResolveTexture(name string, fallback int) int {
	if tile, ok := m.Textures[name]; ok {
		return tile
	}
	return fallback
}

// Registry хранит модели неполных блоков. Создается явно, без синглтона.
type Registry struct {
	models map[block.BlockID]*Model
}

// NewRegistry создает регистр моделей со встроенными формами
// (плита, забор, крест) для блоков из таблицы типов.
func NewRegistry(blocks *block.Registry) *Registry {
	r := &Registry{models: make(map[block.BlockID]*Model)}

	r.Register(block.StoneSlabBlockID, &Model{
		Shape:    block.ShapeBottomSlab,
		Elements: []Element{SlabElement(block.SlabBottom)},
		Textures: map[string]int{"#all": block.TileStone},
	})
	r.Register(block.OakFenceBlockID, &Model{
		Shape:    block.ShapeFence,
		Elements: FenceElements(block.DefaultState),
		Textures: map[string]int{"#all": block.TileOakPlanks},
	})
	for _, id := range []block.BlockID{
		block.TallGrassBlockID, block.PoppyBlockID,
		block.DandelionBlockID, block.DeadBushBlockID,
	} {
		t, _ := blocks.Get(id)
		r.Register(id, &Model{
			Shape:    block.ShapeCross,
			Textures: map[string]int{"#cross": t.FaceTiles[block.FaceUp]},
		})
	}

	return r
}

// Register добавляет модель блока в регистр
func (r *Registry) Register(id block.BlockID, m *Model) {
	r.models[id] = m
}

// Get возвращает модель для указанного ID блока
func (r *Registry) Get(id block.BlockID) (*Model, bool) {
	m, exists := r.models[id]
	return m, exists
}

// IsFullCube возвращает true, если у блока зарегистрирована модель
// с формой ровно Full. Только против таких соседей срабатывает cullface:
// частичные формы никогда не отбрасывают грани друг против друга,
// иначе на стыках появляются видимые дыры.
func (r *Registry) IsFullCube(id block.BlockID) bool {
	m, exists := r.models[id]
	return exists && m.Shape == block.ShapeFull
}

// fullFaces возвращает набор граней с одинаковой текстурой и cull-флагом
func fullFaces(texture string, cull bool) [block.FaceCount]*Face {
	var faces [block.FaceCount]*Face
	for i := 0; i < block.FaceCount; i++ {
		faces[i] = &Face{
			UV:      [4]float32{0, 0, 16, 16},
			Cull:    cull,
			Texture: texture,
		}
	}
	return faces
}

// SlabElement возвращает кубоид плиты для указанного размещения
func SlabElement(t block.SlabType) Element {
	var y0, y1 float32
	switch t {
	case block.SlabTop:
		y0, y1 = 8, 16
	case block.SlabDouble:
		y0, y1 = 0, 16
	default:
		y0, y1 = 0, 8
	}

	return Element{
		From:  [3]float32{0, y0, 0},
		To:    [3]float32{16, y1, 16},
		Faces: fullFaces("#all", false),
	}
}

// FenceElements возвращает элементы забора для флагов соединений:
// центральный столб плюс по две горизонтальные перекладины
// (нижняя y=6..9, верхняя y=12..15) на каждое активное направление.
func FenceElements(conns block.State) []Element {
	elements := []Element{
		{
			From:  [3]float32{6, 0, 6},
			To:    [3]float32{10, 16, 10},
			Faces: fullFaces("#all", false),
		},
	}

	type bar struct {
		flag     block.State
		from, to [3]float32
	}

	// Перекладины тянутся от столба до края блока
	bars := []bar{
		{block.ConnNorth, [3]float32{7, 0, 0}, [3]float32{9, 0, 6}},
		{block.ConnSouth, [3]float32{7, 0, 10}, [3]float32{9, 0, 16}},
		{block.ConnEast, [3]float32{10, 0, 7}, [3]float32{16, 0, 9}},
		{block.ConnWest, [3]float32{0, 0, 7}, [3]float32{6, 0, 9}},
	}

	heights := [][2]float32{{6, 9}, {12, 15}}

	for _, b := range bars {
		if !conns.HasConn(b.flag) {
			continue
		}
		for _, h := range heights {
			e := Element{
				From:  [3]float32{b.from[0], h[0], b.from[2]},
				To:    [3]float32{b.to[0], h[1], b.to[2]},
				Faces: fullFaces("#all", false),
			}
			elements = append(elements, e)
		}
	}

	return elements
}
