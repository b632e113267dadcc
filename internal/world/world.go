package world

import (
	"fmt"
	"time"

	"github.com/annel0/voxel-engine/internal/block"
	"github.com/annel0/voxel-engine/internal/logging"
	"github.com/annel0/voxel-engine/internal/metrics"
	"github.com/annel0/voxel-engine/internal/vec"
	"github.com/google/uuid"
)

// MeshRebuilder перестраивает геометрию чанка для рендера.
// RebuildChunk возвращает непрозрачный хэндл меша (uuid.Nil —
// "меша нет", когда чанк не дал ни одной грани) и количество граней.
// DropChunk освобождает буферы выгруженного чанка: ресурсы чанка
// за радиусом выгрузки не должны жить дольше самого чанка.
type MeshRebuilder interface {
	RebuildChunk(coords vec.Vec2) (uuid.UUID, int, error)
	DropChunk(coords vec.Vec2)
}

// ChunkStore сохраняет отредактированные чанки между выгрузкой и
// повторной загрузкой. Реализация — internal/storage поверх BadgerDB.
type ChunkStore interface {
	SaveChunk(coords vec.Vec2, blocks []block.BlockID, states map[int]block.State) error
	LoadChunk(coords vec.Vec2) ([]block.BlockID, map[int]block.State, bool, error)
}

// World владеет картой чанков и координирует стриминг, правки блоков
// и перестроение мешей. Владение эксклюзивное: чанки не разделяются
// и не алиасятся за пределами кадра. Все операции синхронны и
// выполняются в потоке вызывающего.
type World struct {
	chunks map[vec.Vec2]*Chunk

	registry       *block.Registry
	seed           int64
	renderDistance int
	unloadDistance int
	meshBudget     time.Duration

	generator *TerrainGenerator

	store   ChunkStore              // Опционально: nil — чисто процедурный мир
	mesher  MeshRebuilder           // Опционально: без него меши не строятся
	metrics *metrics.EngineMetrics // Опционально, nil-safe

	lightingStale bool
}

// NewWorld создаёт мир с указанным сидом и радиусами стриминга.
// unloadDistance должен быть больше renderDistance (гистерезис);
// при нарушении поднимается автоматически.
func NewWorld(registry *block.Registry, seed int64, renderDistance, unloadDistance int) *World {
	if renderDistance < 1 {
		renderDistance = 1
	}
	if unloadDistance <= renderDistance {
		unloadDistance = renderDistance + 2
	}

	return &World{
		chunks:         make(map[vec.Vec2]*Chunk),
		registry:       registry,
		seed:           seed,
		renderDistance: renderDistance,
		unloadDistance: unloadDistance,
		meshBudget:     4 * time.Millisecond,
		generator:      NewTerrainGenerator(seed),
	}
}

// Seed возвращает сид мира
func (w *World) Seed() int64 {
	return w.seed
}

// SetMeshRebuilder устанавливает построитель мешей
func (w *World) SetMeshRebuilder(m MeshRebuilder) {
	w.mesher = m
}

// SetChunkStore устанавливает хранилище отредактированных чанков
func (w *World) SetChunkStore(s ChunkStore) {
	w.store = s
}

// SetMetrics устанавливает метрики движка
func (w *World) SetMetrics(em *metrics.EngineMetrics) {
	w.metrics = em
}

// SetMeshBudget устанавливает мягкий бюджет перестроения мешей на вызов Update
func (w *World) SetMeshBudget(d time.Duration) {
	if d > 0 {
		w.meshBudget = d
	}
}

// SetMapTemplate устанавливает конечный шаблон карты.
// Загруженные чанки сбрасываются: они отражают прежний мир.
func (w *World) SetMapTemplate(t *MapTemplate) {
	w.generator.SetTemplate(t)
	w.chunks = make(map[vec.Vec2]*Chunk)
	w.lightingStale = true
}

// ClearMapTemplate возвращает мир к процедурной генерации
func (w *World) ClearMapTemplate() {
	w.SetMapTemplate(nil)
}

// Template возвращает текущий шаблон карты (может быть nil)
func (w *World) Template() *MapTemplate {
	return w.generator.Template()
}

// VisualSettings возвращает визуальные параметры: из шаблона карты,
// либо дефолтные для процедурного мира.
func (w *World) VisualSettings() VisualSettings {
	if t := w.Template(); t != nil {
		return t.Visual
	}
	return DefaultVisualSettings()
}

// LoadedChunkCount возвращает количество загруженных чанков
func (w *World) LoadedChunkCount() int {
	return len(w.chunks)
}

// ChunkAt возвращает загруженный чанк или nil
func (w *World) ChunkAt(coords vec.Vec2) *Chunk {
	return w.chunks[coords]
}

// MarkLightingStale помечает объем освещения устаревшим
func (w *World) MarkLightingStale() {
	w.lightingStale = true
}

// TakeLightingStale возвращает и сбрасывает флаг устаревшего освещения
func (w *World) TakeLightingStale() bool {
	stale := w.lightingStale
	w.lightingStale = false
	return stale
}

// Update выполняет кадровый цикл мира вокруг позиции наблюдателя:
// догружает чанки в радиусе стриминга, выгружает дальние
// (с гистерезисом против дребезга на границе) и перестраивает
// грязные меши в пределах мягкого бюджета времени. Недостроенные
// меши остаются грязными и достраиваются в следующих вызовах.
func (w *World) Update(focus vec.Vec3Float) {
	focusChunk := focus.ToChunkCoords()

	// Стриминг: все чанки с квадратом сеточного расстояния <= r^2
	r := w.renderDistance
	for dz := -r; dz <= r; dz++ {
		for dx := -r; dx <= r; dx++ {
			if dx*dx+dz*dz > r*r {
				continue
			}
			w.GetOrCreateChunk(vec.Vec2{X: focusChunk.X + dx, Z: focusChunk.Z + dz})
		}
	}

	// Выгрузка за большим радиусом
	u := w.unloadDistance
	for coords, chunk := range w.chunks {
		if coords.DistanceSq(focusChunk) <= u*u {
			continue
		}
		w.unloadChunk(coords, chunk)
	}

	w.rebuildDirtyMeshes()

	w.metrics.SetLoadedChunks(len(w.chunks))
}

// unloadChunk выгружает чанк, сохранив правки в хранилище
// и освободив его меш
func (w *World) unloadChunk(coords vec.Vec2, chunk *Chunk) {
	if chunk.Modified && w.store != nil {
		if err := w.store.SaveChunk(coords, chunk.BlocksSnapshot(), chunk.StatesSnapshot()); err != nil {
			logging.LogError("Ошибка сохранения чанка (%d,%d): %v", coords.X, coords.Z, err)
		}
	}

	if w.mesher != nil {
		w.mesher.DropChunk(coords)
	}

	delete(w.chunks, coords)
	logging.LogChunkUnloaded(coords.X, coords.Z)
}

// rebuildDirtyMeshes перестраивает грязные меши до исчерпания бюджета.
// Порядок не гарантируется; гарантируется только, что оставшиеся
// грязные чанки будут достроены в последующих вызовах.
func (w *World) rebuildDirtyMeshes() {
	if w.mesher == nil {
		return
	}

	start := time.Now()
	rebuilt := 0
	deferred := 0

	for coords, chunk := range w.chunks {
		if !chunk.NeedsMeshUpdate {
			continue
		}

		// Бюджет мягкий: хотя бы один чанк перестраивается за вызов,
		// иначе при крошечном бюджете завершение не гарантируется
		if rebuilt > 0 && time.Since(start) > w.meshBudget {
			deferred++
			continue
		}

		rebuildStart := time.Now()
		handle, faces, err := w.mesher.RebuildChunk(coords)
		if err != nil {
			logging.LogError("Ошибка перестроения меша (%d,%d): %v", coords.X, coords.Z, err)
			continue
		}

		chunk.NeedsMeshUpdate = false
		chunk.MeshHandle = handle
		rebuilt++

		elapsed := time.Since(rebuildStart)
		w.metrics.ObserveMeshRebuild(elapsed)
		logging.LogMeshRebuild(coords.X, coords.Z, faces, elapsed)
	}

	w.metrics.SetDirtyDeferred(deferred)
}

// GetOrCreateChunk возвращает чанк, создавая и генерируя его при отсутствии.
// Сначала консультируется хранилище: отредактированный чанк восстанавливается
// вместо повторной генерации.
func (w *World) GetOrCreateChunk(coords vec.Vec2) *Chunk {
	if chunk, exists := w.chunks[coords]; exists {
		return chunk
	}

	if w.store != nil {
		blocks, states, found, err := w.store.LoadChunk(coords)
		if err != nil {
			logging.LogError("Ошибка загрузки чанка (%d,%d): %v", coords.X, coords.Z, err)
		} else if found {
			chunk := NewChunk(coords)
			chunk.RestoreSnapshot(blocks, states)
			w.chunks[coords] = chunk
			w.lightingStale = true
			return chunk
		}
	}

	start := time.Now()
	chunk := w.generator.GenerateChunk(coords)
	w.metrics.ObserveChunkGeneration(time.Since(start))

	w.chunks[coords] = chunk
	w.lightingStale = true
	return chunk
}

// GetBlock возвращает блок по глобальным координатам.
// Вертикаль вне [0,ChunkSizeY) и незагруженные чанки разрешаются в Air:
// функция тотальна и не возвращает ошибок.
func (w *World) GetBlock(pos vec.Vec3) block.BlockID {
	if pos.Y < 0 || pos.Y >= ChunkSizeY {
		return block.AirBlockID
	}

	chunk, exists := w.chunks[pos.ToChunkCoords()]
	if !exists {
		return block.AirBlockID
	}

	local := pos.LocalInChunk()
	return chunk.GetBlockLocal(local.X, local.Y, local.Z)
}

// GetBlockState возвращает упакованное состояние блока
func (w *World) GetBlockState(pos vec.Vec3) block.State {
	if pos.Y < 0 || pos.Y >= ChunkSizeY {
		return block.DefaultState
	}

	chunk, exists := w.chunks[pos.ToChunkCoords()]
	if !exists {
		return block.DefaultState
	}

	local := pos.LocalInChunk()
	return chunk.GetStateLocal(local.X, local.Y, local.Z)
}

// SetBlock устанавливает блок по глобальным координатам.
// Запись в еще не загруженный чанк создает его: правки из внешних
// источников (репликация) не должны теряться. Вертикаль вне диапазона
// молча игнорируется.
func (w *World) SetBlock(pos vec.Vec3, id block.BlockID) {
	w.SetBlockWithState(pos, id, block.DefaultState)
}

// SetBlockWithState устанавливает блок вместе с упакованным состоянием
func (w *World) SetBlockWithState(pos vec.Vec3, id block.BlockID, s block.State) {
	if pos.Y < 0 || pos.Y >= ChunkSizeY {
		return
	}

	coords := pos.ToChunkCoords()
	chunk := w.GetOrCreateChunk(coords)

	local := pos.LocalInChunk()
	chunk.SetBlockLocal(local.X, local.Y, local.Z, id)
	if !s.IsDefault() {
		chunk.SetStateLocal(local.X, local.Y, local.Z, s)
	}

	// Видимость граней соседнего чанка зависит от блока на границе
	w.dirtyBoundaryNeighbors(coords, local)

	// Соединения заборов пересчитываются и через границу чанка
	w.updateConnectionsAround(pos)

	w.lightingStale = true
}

// Registry возвращает регистр типов блоков мира
func (w *World) Registry() *block.Registry {
	return w.registry
}

// dirtyBoundaryNeighbors помечает соседние чанки грязными, если правка
// легла на граничную локальную координату по X или Z
func (w *World) dirtyBoundaryNeighbors(coords vec.Vec2, local vec.Vec3) {
	mark := func(c vec.Vec2) {
		if neighbor, exists := w.chunks[c]; exists {
			neighbor.MarkDirty()
		}
	}

	if local.X == 0 {
		mark(vec.Vec2{X: coords.X - 1, Z: coords.Z})
	}
	if local.X == ChunkSizeX-1 {
		mark(vec.Vec2{X: coords.X + 1, Z: coords.Z})
	}
	if local.Z == 0 {
		mark(vec.Vec2{X: coords.X, Z: coords.Z - 1})
	}
	if local.Z == ChunkSizeZ-1 {
		mark(vec.Vec2{X: coords.X, Z: coords.Z + 1})
	}
}

// ApplyChunkData применяет внешний массив блоков к чанку целиком.
// Пакет с длиной, отличной от ChunkVolume, отклоняется без каких-либо
// изменений: предупреждение в лог и ошибка вызывающему.
func (w *World) ApplyChunkData(cx, cz int, flat []block.BlockID) error {
	if len(flat) != ChunkVolume {
		logging.LogMalformedChunkPayload(cx, cz, len(flat), ChunkVolume)
		return fmt.Errorf("некорректная длина данных чанка (%d,%d): %d, ожидалось %d",
			cx, cz, len(flat), ChunkVolume)
	}

	coords := vec.Vec2{X: cx, Z: cz}
	chunk, exists := w.chunks[coords]
	if !exists {
		chunk = NewChunk(coords)
		w.chunks[coords] = chunk
	}

	chunk.ApplyData(flat)

	// Грани на стыках зависят от нового содержимого целиком
	for _, n := range [4]vec.Vec2{
		{X: cx - 1, Z: cz}, {X: cx + 1, Z: cz},
		{X: cx, Z: cz - 1}, {X: cx, Z: cz + 1},
	} {
		if neighbor, ok := w.chunks[n]; ok {
			neighbor.MarkDirty()
		}
	}

	w.RecomputeConnections(coords)
	w.lightingStale = true

	return nil
}
