package mesh

import (
	"github.com/annel0/voxel-engine/internal/biome"
	"github.com/annel0/voxel-engine/internal/block"
	"github.com/annel0/voxel-engine/internal/block/model"
	"github.com/annel0/voxel-engine/internal/vec"
)

// Диагональ единичного квадрата, нормализованная
const diag = float32(0.70710678)

// Отступ крестовых квадов от краев блока, в долях блока
const crossInset = float32(2.0 / 16.0)

// emitCross эмитит растительность: два диагональных квада, каждый
// видим с обеих сторон. AO не применяется — тонкая геометрия
// затеняется целиком и выглядит грязной.
func (b *Builder) emitCross(m *ChunkMesh, pos vec.Vec3, id block.BlockID) {
	t, _ := b.registry.Get(id)

	tile := t.FaceTiles[block.FaceUp]
	if mod, exists := b.models.Get(id); exists {
		tile = mod.ResolveTexture("#cross", tile)
	}
	rect := b.atlas.UVRect(tile)

	tint, foliage := b.tintFor(id, block.FaceUp)

	// Растение не перекрывает собственную ячейку: сэмплируем в ней
	scale := b.lightScale(pos)

	lo := crossInset
	hi := 1 - crossInset

	planes := [2][4][3]float32{
		{{lo, 0, lo}, {hi, 0, hi}, {hi, 1, hi}, {lo, 1, lo}},
		{{lo, 0, hi}, {hi, 0, lo}, {hi, 1, lo}, {lo, 1, hi}},
	}
	normals := [2][3]float32{
		{-diag, 0, diag},
		{diag, 0, diag},
	}

	for i, corners := range planes {
		b.emitCrossQuad(m, pos, corners, normals[i], rect, tint, foliage, scale)

		// Обратная сторона: обход в обратном порядке, нормаль инвертирована
		back := [4][3]float32{corners[0], corners[3], corners[2], corners[1]}
		backNormal := [3]float32{-normals[i][0], -normals[i][1], -normals[i][2]}
		b.emitCrossQuad(m, pos, back, backNormal, rect, tint, foliage, scale)
	}
}

// emitCrossQuad эмитит один квад креста с фиксированной разверткой:
// нижние углы (0 и 1) — низ тайла, верхние (2 и 3) — верх.
func (b *Builder) emitCrossQuad(m *ChunkMesh, pos vec.Vec3, corners [4][3]float32, normal [3]float32, rect block.UVRect, tint biome.Color, foliage bool, scale float32) {
	uvs := [4][2]float32{
		{rect.U0, rect.V1},
		{rect.U1, rect.V1},
		{rect.U1, rect.V0},
		{rect.U0, rect.V0},
	}

	r := float32(tint.R) / 255 * scale
	g := float32(tint.G) / 255 * scale
	bl := float32(tint.B) / 255 * scale

	foliageVal := float32(0)
	if foliage {
		foliageVal = 1
	}

	base := uint32(len(m.Positions) / 3)

	for i, c := range corners {
		m.appendVertex(
			float32(pos.X)+c[0], float32(pos.Y)+c[1], float32(pos.Z)+c[2],
			normal[0], normal[1], normal[2],
			uvs[i][0], uvs[i][1],
			foliageVal, 1, // Полная яркость, без AO
			r, g, bl, 1,
		)
	}

	m.appendQuadIndices(base)
}

// neighborIsFullCube возвращает true, если сосед закрывает cullface-грани:
// либо у него зарегистрирована модель с формой ровно Full, либо это
// непрозрачный полный куб из таблицы типов. Частичные формы не закрывают
// грани друг друга, иначе на стыках видны дыры.
func (b *Builder) neighborIsFullCube(id block.BlockID) bool {
	if b.models.IsFullCube(id) {
		return true
	}
	return b.registry.ShapeOf(id) == block.ShapeFull && !b.registry.IsTransparent(id)
}

// faceOnBoundary возвращает true, если грань элемента лежит на границе
// блока в своем направлении.
func faceOnBoundary(face int, x0, y0, z0, x1, y1, z1 float32) bool {
	switch face {
	case block.FaceEast:
		return x1 >= 1
	case block.FaceWest:
		return x0 <= 0
	case block.FaceUp:
		return y1 >= 1
	case block.FaceDown:
		return y0 <= 0
	case block.FaceSouth:
		return z1 >= 1
	default: // FaceNorth
		return z0 <= 0
	}
}

// subRect возвращает UV-подпрямоугольник тайла по развертке грани
// элемента (локальные единицы 0..16).
func subRect(rect block.UVRect, uv [4]float32) block.UVRect {
	du := rect.U1 - rect.U0
	dv := rect.V1 - rect.V0
	return block.UVRect{
		U0: rect.U0 + uv[0]/16*du,
		V0: rect.V0 + uv[1]/16*dv,
		U1: rect.U0 + uv[2]/16*du,
		V1: rect.V0 + uv[3]/16*dv,
	}
}

// emitElements эмитит кубоиды модели частичного блока (плита, забор,
// произвольная модель). Грани с флагом Cull отбрасываются только против
// соседей-полных кубов и только когда лежат на границе блока.
// AO применяется к граням на границе блока; внутренние грани элементов
// идут с полной яркостью.
func (b *Builder) emitElements(m *ChunkMesh, pos vec.Vec3, id block.BlockID, elements []model.Element) {
	t, _ := b.registry.Get(id)
	mod, hasModel := b.models.Get(id)

	for _, e := range elements {
		x0, y0, z0 := e.From[0]/16, e.From[1]/16, e.From[2]/16
		x1, y1, z1 := e.To[0]/16, e.To[1]/16, e.To[2]/16

		for face := 0; face < block.FaceCount; face++ {
			f := e.Faces[face]
			if f == nil {
				continue
			}

			onBoundary := faceOnBoundary(face, x0, y0, z0, x1, y1, z1)

			if f.Cull && onBoundary {
				neighbor := b.world.GetBlock(pos.Add(faceData[face].normal))
				if b.neighborIsFullCube(neighbor) {
					continue
				}
			}

			tile := t.FaceTiles[face]
			if hasModel {
				tile = mod.ResolveTexture(f.Texture, tile)
			}
			uv := subRect(b.atlas.UVRect(tile), f.UV)

			tint, foliage := b.tintFor(id, face)
			b.emitBoxFace(m, pos, face, x0, y0, z0, x1, y1, z1, uv, tint, foliage, onBoundary)
		}
	}
}
