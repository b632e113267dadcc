package world

import (
	"github.com/annel0/voxel-engine/internal/block"
	"github.com/annel0/voxel-engine/internal/vec"
	"github.com/google/uuid"
)

// Размеры чанка: вертикальная колонна 16x256x16 блоков
const (
	ChunkSizeX = 16
	ChunkSizeY = 256
	ChunkSizeZ = 16

	// ChunkVolume — количество ячеек в плотном массиве блоков
	ChunkVolume = ChunkSizeX * ChunkSizeY * ChunkSizeZ
)

// Chunk представляет вертикальную колонну мира 16x256x16.
// Плотный массив хранит только BlockID; редкое упакованное состояние
// (соединения заборов, размещение плит) лежит в разреженной карте —
// память пропорциональна сложности, а не объему.
type Chunk struct {
	Coords vec.Vec2 // Координаты чанка в мире

	blocks []block.BlockID     // Плотный массив ChunkVolume ячеек
	states map[int]block.State // Локальный линейный индекс -> состояние (только не-дефолтные)

	NeedsMeshUpdate bool // Меш устарел и требует перестроения
	IsGenerated     bool // Ландшафт сгенерирован
	Modified        bool // Есть правки после генерации (кандидат на сохранение)

	// MeshHandle — непрозрачный идентификатор меша, которым владеет рендер.
	// uuid.Nil означает "меша нет" (чанк пуст или меш еще не построен).
	MeshHandle uuid.UUID
}

// NewChunk создаёт новый пустой чанк с указанными координатами
func NewChunk(coords vec.Vec2) *Chunk {
	return &Chunk{
		Coords: coords,
		blocks: make([]block.BlockID, ChunkVolume),
		states: make(map[int]block.State),
	}
}

// blockIndex преобразует локальные координаты в линейный индекс
func blockIndex(x, y, z int) int {
	return (y*ChunkSizeZ+z)*ChunkSizeX + x
}

// inLocalBounds проверяет, что локальные координаты внутри чанка
func inLocalBounds(x, y, z int) bool {
	return x >= 0 && x < ChunkSizeX &&
		y >= 0 && y < ChunkSizeY &&
		z >= 0 && z < ChunkSizeZ
}

// GetBlockLocal возвращает ID блока по локальным координатам.
// Координаты вне чанка разрешаются в Air: горячий путь не возвращает ошибок.
func (c *Chunk) GetBlockLocal(x, y, z int) block.BlockID {
	if !inLocalBounds(x, y, z) {
		return block.AirBlockID
	}
	return c.blocks[blockIndex(x, y, z)]
}

// SetBlockLocal устанавливает блок по локальным координатам.
// Любое изменение блока делает меш чанка грязным и инвалидирует
// хэндл рендера.
func (c *Chunk) SetBlockLocal(x, y, z int, id block.BlockID) {
	if !inLocalBounds(x, y, z) {
		return
	}

	idx := blockIndex(x, y, z)
	c.blocks[idx] = id

	// Состояние прежнего блока не имеет смысла для нового типа
	delete(c.states, idx)

	c.MarkDirty()
	c.Modified = true
}

// GetStateLocal возвращает упакованное состояние блока;
// отсутствующая запись означает состояние по умолчанию.
func (c *Chunk) GetStateLocal(x, y, z int) block.State {
	if !inLocalBounds(x, y, z) {
		return block.DefaultState
	}
	return c.states[blockIndex(x, y, z)]
}

// SetStateLocal устанавливает состояние блока. Дефолтное значение
// удаляет запись из разреженной карты.
func (c *Chunk) SetStateLocal(x, y, z int, s block.State) {
	if !inLocalBounds(x, y, z) {
		return
	}

	idx := blockIndex(x, y, z)
	if s.IsDefault() {
		delete(c.states, idx)
	} else {
		c.states[idx] = s
	}

	c.MarkDirty()
	c.Modified = true
}

// MarkDirty помечает меш чанка устаревшим и инвалидирует хэндл рендера
func (c *Chunk) MarkDirty() {
	c.NeedsMeshUpdate = true
	c.MeshHandle = uuid.Nil
}

// ApplyData перезаписывает все блоки чанка плоским массивом.
// Длина массива проверяется вызывающим (World.ApplyChunkData).
func (c *Chunk) ApplyData(flat []block.BlockID) {
	copy(c.blocks, flat)
	c.states = make(map[int]block.State)
	c.IsGenerated = true
	c.Modified = true
	c.MarkDirty()
}

// BlocksSnapshot возвращает копию плотного массива блоков
func (c *Chunk) BlocksSnapshot() []block.BlockID {
	snapshot := make([]block.BlockID, ChunkVolume)
	copy(snapshot, c.blocks)
	return snapshot
}

// StatesSnapshot возвращает копию разреженной карты состояний
func (c *Chunk) StatesSnapshot() map[int]block.State {
	snapshot := make(map[int]block.State, len(c.states))
	for idx, s := range c.states {
		snapshot[idx] = s
	}
	return snapshot
}

// RestoreSnapshot восстанавливает чанк из сохраненных данных хранилища
func (c *Chunk) RestoreSnapshot(blocks []block.BlockID, states map[int]block.State) {
	copy(c.blocks, blocks)
	c.states = make(map[int]block.State, len(states))
	for idx, s := range states {
		if !s.IsDefault() && idx >= 0 && idx < ChunkVolume {
			c.states[idx] = s
		}
	}
	c.IsGenerated = true
	c.Modified = false
	c.MarkDirty()
}

// StateCount возвращает количество не-дефолтных состояний (для тестов и метрик)
func (c *Chunk) StateCount() int {
	return len(c.states)
}
