package mesh

import (
	"github.com/annel0/voxel-engine/internal/biome"
	"github.com/annel0/voxel-engine/internal/block"
	"github.com/annel0/voxel-engine/internal/vec"
)

// aoBrightness — таблица яркости угла по числу затеняющих соседей (0..3)
var aoBrightness = [4]float32{1.0, 0.75, 0.5, 0.35}

// faceData задает нормаль и касательные оси (u, v) каждой грани.
// Оси используются для проекции UV и выбора диагональных соседей AO.
var faceData = [block.FaceCount]struct {
	normal vec.Vec3
	uAxis  vec.Vec3
	vAxis  vec.Vec3
}{
	block.FaceEast:  {normal: vec.Vec3{X: 1}, uAxis: vec.Vec3{Z: 1}, vAxis: vec.Vec3{Y: 1}},
	block.FaceWest:  {normal: vec.Vec3{X: -1}, uAxis: vec.Vec3{Z: 1}, vAxis: vec.Vec3{Y: 1}},
	block.FaceUp:    {normal: vec.Vec3{Y: 1}, uAxis: vec.Vec3{X: 1}, vAxis: vec.Vec3{Z: 1}},
	block.FaceDown:  {normal: vec.Vec3{Y: -1}, uAxis: vec.Vec3{X: 1}, vAxis: vec.Vec3{Z: 1}},
	block.FaceSouth: {normal: vec.Vec3{Z: 1}, uAxis: vec.Vec3{X: 1}, vAxis: vec.Vec3{Y: 1}},
	block.FaceNorth: {normal: vec.Vec3{Z: -1}, uAxis: vec.Vec3{X: 1}, vAxis: vec.Vec3{Y: 1}},
}

// faceCorners возвращает 4 угла грани кубоида [x0..x1, y0..y1, z0..z1]
// в порядке против часовой стрелки при взгляде снаружи.
func faceCorners(face int, x0, y0, z0, x1, y1, z1 float32) [4][3]float32 {
	switch face {
	case block.FaceEast:
		return [4][3]float32{{x1, y0, z1}, {x1, y0, z0}, {x1, y1, z0}, {x1, y1, z1}}
	case block.FaceWest:
		return [4][3]float32{{x0, y0, z0}, {x0, y0, z1}, {x0, y1, z1}, {x0, y1, z0}}
	case block.FaceUp:
		return [4][3]float32{{x0, y1, z0}, {x0, y1, z1}, {x1, y1, z1}, {x1, y1, z0}}
	case block.FaceDown:
		return [4][3]float32{{x0, y0, z0}, {x1, y0, z0}, {x1, y0, z1}, {x0, y0, z1}}
	case block.FaceSouth:
		return [4][3]float32{{x0, y0, z1}, {x1, y0, z1}, {x1, y1, z1}, {x0, y1, z1}}
	default: // FaceNorth
		return [4][3]float32{{x1, y0, z0}, {x0, y0, z0}, {x0, y1, z0}, {x1, y1, z0}}
	}
}

// axisValue возвращает компоненту точки вдоль единичной оси
func axisValue(p [3]float32, axis vec.Vec3) float32 {
	switch {
	case axis.X != 0:
		return p[0]
	case axis.Y != 0:
		return p[1]
	default:
		return p[2]
	}
}

// normCoord нормализует координату в пределах [min..max] в 0..1
func normCoord(v, min, max float32) float32 {
	if max <= min {
		return 0
	}
	return (v - min) / (max - min)
}

// scaledVec умножает вектор на целый скаляр
func scaledVec(a vec.Vec3, s int) vec.Vec3 {
	return vec.Vec3{X: a.X * s, Y: a.Y * s, Z: a.Z * s}
}

// appendVertex добавляет одну вершину во все буферы меша
func (m *ChunkMesh) appendVertex(px, py, pz, nx, ny, nz, u, v, foliage, ao, r, g, b, a float32) {
	m.Positions = append(m.Positions, px, py, pz)
	m.Normals = append(m.Normals, nx, ny, nz)
	m.UVs = append(m.UVs, u, v)
	m.UV2 = append(m.UV2, foliage, ao)
	m.Colors = append(m.Colors, r, g, b, a)
}

// appendQuadIndices добавляет индексы квада из двух треугольников,
// base — индекс первой из 4 вершин квада.
func (m *ChunkMesh) appendQuadIndices(base uint32) {
	m.Indices = append(m.Indices, base, base+1, base+2, base+2, base+3, base)
}

// occludes возвращает true, если блок затеняет угол соседней грани.
// Частичные формы в AO не участвуют: затеняют только твердые полные кубы.
func (b *Builder) occludes(id block.BlockID) bool {
	return b.registry.IsSolid(id) && b.registry.ShapeOf(id) == block.ShapeFull
}

// cornerOcclusion считает AO-затенение угла грани: 2 боковых диагональных
// соседа за плоскостью грани плюс угловой. Угловой учитывается, только
// если заняты не оба боковых; при обоих занятых затенение максимально.
func (b *Builder) cornerOcclusion(pos vec.Vec3, face int, uCoord, vCoord float32) int {
	fd := faceData[face]

	su := 1
	if uCoord < 0.5 {
		su = -1
	}
	sv := 1
	if vCoord < 0.5 {
		sv = -1
	}

	beyond := pos.Add(fd.normal)
	side1 := b.occludes(b.world.GetBlock(beyond.Add(scaledVec(fd.uAxis, su))))
	side2 := b.occludes(b.world.GetBlock(beyond.Add(scaledVec(fd.vAxis, sv))))
	corner := b.occludes(b.world.GetBlock(beyond.Add(scaledVec(fd.uAxis, su)).Add(scaledVec(fd.vAxis, sv))))

	if side1 && side2 {
		return 3
	}

	occ := 0
	if side1 {
		occ++
	}
	if side2 {
		occ++
	}
	if corner {
		occ++
	}
	return occ
}

// emitBoxFace эмитит одну грань кубоида [x0..x1, y0..y1, z0..z1]
// (в долях блока, 0..1) блока pos. UV проецируется по касательным
// осям грани, AO считается по углам при withAO.
func (b *Builder) emitBoxFace(m *ChunkMesh, pos vec.Vec3, face int, x0, y0, z0, x1, y1, z1 float32, uv block.UVRect, tint biome.Color, foliage bool, withAO bool) {
	fd := faceData[face]
	corners := faceCorners(face, x0, y0, z0, x1, y1, z1)

	uMin := axisValue([3]float32{x0, y0, z0}, fd.uAxis)
	uMax := axisValue([3]float32{x1, y1, z1}, fd.uAxis)
	vMin := axisValue([3]float32{x0, y0, z0}, fd.vAxis)
	vMax := axisValue([3]float32{x1, y1, z1}, fd.vAxis)

	// Один сэмпл освещения на грань: из ячейки перед гранью
	scale := b.lightScale(pos.Add(fd.normal))

	r := float32(tint.R) / 255 * scale
	g := float32(tint.G) / 255 * scale
	bl := float32(tint.B) / 255 * scale

	foliageVal := float32(0)
	if foliage {
		foliageVal = 1
	}

	base := uint32(len(m.Positions) / 3)

	for _, c := range corners {
		uCoord := normCoord(axisValue(c, fd.uAxis), uMin, uMax)
		vCoord := normCoord(axisValue(c, fd.vAxis), vMin, vMax)

		u := uv.U0 + uCoord*(uv.U1-uv.U0)
		v := uv.V1 - vCoord*(uv.V1-uv.V0)

		brightness := float32(1)
		if withAO {
			brightness = aoBrightness[b.cornerOcclusion(pos, face, uCoord, vCoord)]
		}

		m.appendVertex(
			float32(pos.X)+c[0], float32(pos.Y)+c[1], float32(pos.Z)+c[2],
			float32(fd.normal.X), float32(fd.normal.Y), float32(fd.normal.Z),
			u, v,
			foliageVal, brightness,
			r, g, bl, 1,
		)
	}

	m.appendQuadIndices(base)
}
