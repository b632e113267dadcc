package world

import (
	"github.com/annel0/voxel-engine/internal/block"
	"github.com/annel0/voxel-engine/internal/vec"
)

// Горизонтальные направления соединений: флаг состояния и смещение в мире
var connDirections = [4]struct {
	flag   block.State
	offset vec.Vec3
}{
	{block.ConnNorth, vec.Vec3{Z: -1}},
	{block.ConnSouth, vec.Vec3{Z: 1}},
	{block.ConnEast, vec.Vec3{X: 1}},
	{block.ConnWest, vec.Vec3{X: -1}},
}

// isConnectable возвращает true для блоков, хранящих флаги соединений
func (w *World) isConnectable(id block.BlockID) bool {
	return w.registry.ShapeOf(id) == block.ShapeFence
}

// canAnchor возвращает true, если блок может служить опорой для
// забора или стены: твердый полный куб либо другой забор.
func (w *World) canAnchor(id block.BlockID) bool {
	if !w.registry.IsSolid(id) {
		return false
	}
	switch w.registry.ShapeOf(id) {
	case block.ShapeFull, block.ShapeFence:
		return true
	default:
		return false
	}
}

// connectionFlags сэмплирует 4 горизонтальных соседа в мировых
// координатах и собирает флаги соединений.
func (w *World) connectionFlags(pos vec.Vec3) block.State {
	var flags block.State
	for _, d := range connDirections {
		if w.canAnchor(w.GetBlock(pos.Add(d.offset))) {
			flags = flags.WithConn(d.flag)
		}
	}
	return flags
}

// RecomputeConnections пересчитывает флаги соединений всех
// соединяемых блоков чанка по мировым соседям. Запускается после
// массового применения данных чанка или изменения соседей.
// Всегда завершается пометкой меша чанка грязным.
func (w *World) RecomputeConnections(coords vec.Vec2) {
	chunk, exists := w.chunks[coords]
	if !exists {
		return
	}

	baseX := coords.X << 4
	baseZ := coords.Z << 4

	for y := 0; y < ChunkSizeY; y++ {
		for z := 0; z < ChunkSizeZ; z++ {
			for x := 0; x < ChunkSizeX; x++ {
				id := chunk.GetBlockLocal(x, y, z)
				if !w.isConnectable(id) {
					continue
				}

				pos := vec.Vec3{X: baseX + x, Y: y, Z: baseZ + z}
				old := chunk.GetStateLocal(x, y, z)
				updated := old.WithConnections(w.connectionFlags(pos))
				if updated != old {
					chunk.SetStateLocal(x, y, z, updated)
				}
			}
		}
	}

	chunk.MarkDirty()
}

// updateConnectionsAround точечно пересчитывает соединения блока и его
// 4 горизонтальных соседей после одиночной правки. В отличие от
// RecomputeConnections не сканирует чанк целиком; соседи за границей
// чанка обновляются тоже — видимая геометрия забора не должна зависеть
// от того, в каком чанке стояла опора.
func (w *World) updateConnectionsAround(pos vec.Vec3) {
	w.refreshConnectionsAt(pos)
	for _, d := range connDirections {
		w.refreshConnectionsAt(pos.Add(d.offset))
	}
}

// refreshConnectionsAt пересчитывает флаги одного блока, если он соединяемый
func (w *World) refreshConnectionsAt(pos vec.Vec3) {
	if pos.Y < 0 || pos.Y >= ChunkSizeY {
		return
	}

	chunk, exists := w.chunks[pos.ToChunkCoords()]
	if !exists {
		return
	}

	local := pos.LocalInChunk()
	id := chunk.GetBlockLocal(local.X, local.Y, local.Z)
	if !w.isConnectable(id) {
		return
	}

	old := chunk.GetStateLocal(local.X, local.Y, local.Z)
	updated := old.WithConnections(w.connectionFlags(pos))
	if updated != old {
		chunk.SetStateLocal(local.X, local.Y, local.Z, updated)
		chunk.MarkDirty()
	}
}
