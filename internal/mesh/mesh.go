package mesh

import (
	"fmt"

	"github.com/annel0/voxel-engine/internal/biome"
	"github.com/annel0/voxel-engine/internal/block"
	"github.com/annel0/voxel-engine/internal/block/model"
	"github.com/annel0/voxel-engine/internal/light"
	"github.com/annel0/voxel-engine/internal/vec"
	"github.com/annel0/voxel-engine/internal/world"
	"github.com/google/uuid"
)

// ChunkMesh — плоские массивы геометрии чанка для внешнего рендера.
// Ядро не делает draw call'ов: рендер забирает буферы по хэндлу
// и загружает их самостоятельно.
type ChunkMesh struct {
	Positions []float32 // x,y,z на вершину
	UVs       []float32 // Основной UV-канал (атлас)
	UV2       []float32 // Вторичный канал: (маска листвы, AO-яркость)
	Normals   []float32 // x,y,z на вершину
	Colors    []float32 // r,g,b,a на вершину (тинт биома)
	Indices   []uint32

	// LightPoints — позиции блоков-эмиттеров для точечных источников
	// света рендера; сами эмиттеры геометрии не дают.
	LightPoints []vec.Vec3

	Handle uuid.UUID
}

// FaceCount возвращает количество эмитированных граней (квадов)
func (m *ChunkMesh) FaceCount() int {
	return len(m.Indices) / 6
}

// Builder строит геометрию чанков: отсечение невидимых граней,
// ambient occlusion по углам, специальные формы (плиты, заборы,
// растительность) и тинты биома.
type Builder struct {
	world    *world.World
	registry *block.Registry
	models   *model.Registry
	atlas    *block.Atlas
	colormap *biome.Colormap // Опционально: nil — fallback-цвет
	lighting *light.Volume   // Опционально: nil — полная яркость

	meshes map[vec.Vec2]*ChunkMesh // Готовые меши по координатам чанка
}

// NewBuilder создает построитель мешей для мира
func NewBuilder(w *world.World, registry *block.Registry, models *model.Registry, atlas *block.Atlas) *Builder {
	return &Builder{
		world:    w,
		registry: registry,
		models:   models,
		atlas:    atlas,
		meshes:   make(map[vec.Vec2]*ChunkMesh),
	}
}

// SetColormap устанавливает колормапу тинтов травы и листвы
func (b *Builder) SetColormap(c *biome.Colormap) {
	b.colormap = c
}

// SetLighting устанавливает объем освещения для затенения вершин
func (b *Builder) SetLighting(v *light.Volume) {
	b.lighting = v
}

// DropChunk освобождает меш выгруженного чанка. Реализует
// world.MeshRebuilder: буферы не переживают свой чанк.
func (b *Builder) DropChunk(coords vec.Vec2) {
	delete(b.meshes, coords)
}

// Mesh возвращает готовый меш чанка по координатам
func (b *Builder) Mesh(coords vec.Vec2) (*ChunkMesh, bool) {
	m, exists := b.meshes[coords]
	return m, exists
}

// RebuildChunk перестраивает геометрию чанка. Реализует
// world.MeshRebuilder. Пустой результат (ни одной грани и ни одного
// источника света) не загружается: возвращается uuid.Nil — "меша нет".
func (b *Builder) RebuildChunk(coords vec.Vec2) (uuid.UUID, int, error) {
	chunk := b.world.ChunkAt(coords)
	if chunk == nil {
		return uuid.Nil, 0, fmt.Errorf("чанк (%d,%d) не загружен", coords.X, coords.Z)
	}

	m := b.buildChunk(chunk)

	if m.FaceCount() == 0 && len(m.LightPoints) == 0 {
		delete(b.meshes, coords)
		return uuid.Nil, 0, nil
	}

	m.Handle = uuid.New()
	b.meshes[coords] = m
	return m.Handle, m.FaceCount(), nil
}

// buildChunk обходит все блоки чанка и диспетчеризует эмиссию
// геометрии по форме блока.
func (b *Builder) buildChunk(chunk *world.Chunk) *ChunkMesh {
	m := &ChunkMesh{}

	baseX := chunk.Coords.X << 4
	baseZ := chunk.Coords.Z << 4

	for y := 0; y < world.ChunkSizeY; y++ {
		for z := 0; z < world.ChunkSizeZ; z++ {
			for x := 0; x < world.ChunkSizeX; x++ {
				id := chunk.GetBlockLocal(x, y, z)
				if id == block.AirBlockID {
					continue
				}

				pos := vec.Vec3{X: baseX + x, Y: y, Z: baseZ + z}

				// Эмиттеры света исключаются из кубической геометрии:
				// рендер рисует их как точечные источники
				if b.registry.IsEmitter(id) {
					m.LightPoints = append(m.LightPoints, pos)
					continue
				}

				state := chunk.GetStateLocal(x, y, z)

				switch b.registry.ShapeOf(id) {
				case block.ShapeEmpty:
					// Геометрии нет
				case block.ShapeCross:
					b.emitCross(m, pos, id)
				case block.ShapeFence:
					b.emitElements(m, pos, id, model.FenceElements(state))
				case block.ShapeBottomSlab, block.ShapeTopSlab:
					b.emitElements(m, pos, id, []model.Element{model.SlabElement(state.Slab())})
				case block.ShapeCustom:
					if custom, exists := b.models.Get(id); exists {
						b.emitElements(m, pos, id, custom.Elements)
					}
				default:
					b.emitFullCube(m, pos, id)
				}
			}
		}
	}

	return m
}

// emitFullCube эмитит стандартный куб с отсечением по 6 граням:
// грань видна, только если сосед в этом направлении прозрачен
// по статической таблице типов.
func (b *Builder) emitFullCube(m *ChunkMesh, pos vec.Vec3, id block.BlockID) {
	t, _ := b.registry.Get(id)

	for face := 0; face < block.FaceCount; face++ {
		neighbor := b.world.GetBlock(pos.Add(faceData[face].normal))
		if !b.registry.IsTransparent(neighbor) {
			continue
		}

		uv := b.atlas.FaceUV(t, face)
		tint, foliage := b.tintFor(id, face)
		b.emitBoxFace(m, pos, face, 0, 0, 0, 1, 1, 1, uv, tint, foliage, true)
	}
}

// tintFor возвращает цвет вершин и признак листвы для грани блока.
// Тинт колормапы получают верх травы и листья; остальное — белый.
func (b *Builder) tintFor(id block.BlockID, face int) (biome.Color, bool) {
	white := biome.Color{R: 255, G: 255, B: 255}

	switch id {
	case block.GrassBlockID:
		if face == block.FaceUp {
			return b.sampleBiomeTint(), true
		}
		return white, false
	case block.LeavesBlockID, block.TallGrassBlockID:
		return b.sampleBiomeTint(), true
	default:
		return white, false
	}
}

// sampleBiomeTint сэмплирует колормапу по визуальным параметрам мира
func (b *Builder) sampleBiomeTint() biome.Color {
	vs := b.world.VisualSettings()
	return b.colormap.Sample(vs.Temperature, vs.Humidity)
}

// lightScale возвращает множитель яркости из объема освещения
// для ячейки рядом с гранью; без объема — полная яркость.
func (b *Builder) lightScale(cell vec.Vec3) float32 {
	if b.lighting == nil {
		return 1
	}
	level := b.lighting.SampleCombined(cell)
	return 0.25 + 0.75*float32(level)/float32(light.MaxLevel)
}
