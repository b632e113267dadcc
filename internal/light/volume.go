package light

import (
	"time"

	"github.com/annel0/voxel-engine/internal/block"
	"github.com/annel0/voxel-engine/internal/logging"
	"github.com/annel0/voxel-engine/internal/metrics"
	"github.com/annel0/voxel-engine/internal/vec"
	"golang.org/x/time/rate"
)

// MaxLevel — максимальный уровень света в обоих каналах
const MaxLevel = 15

// BlockSource отдает блоки по мировым координатам.
// Реализуется World; объем освещения не владеет блоками.
type BlockSource interface {
	GetBlock(pos vec.Vec3) block.BlockID
}

// Volume поддерживает ограниченное двухканальное поле света
// (небесный и блочный каналы) вокруг точки фокуса. Поле живет
// столько же, сколько мир, мутирует на месте и всегда
// перестраивается целиком: удаление источников при инкрементальном
// flood fill сложнее, чем полный пересчет ограниченного объема.
type Volume struct {
	registry *block.Registry

	origin vec.Vec3 // Привязан к крупной сетке с шагом step
	dimX   int
	dimY   int
	dimZ   int
	step   int

	sky   []uint8 // Небесный канал, 0..15
	light []uint8 // Блочный канал, 0..15

	limiter  *rate.Limiter // Ограничитель частоты перестроений
	hasBuilt bool
	pending  bool // Отложенная потребность в перестроении

	metrics *metrics.EngineMetrics
}

// NewVolume создает объем освещения указанных размеров.
// rebuildsPerSecond ограничивает частоту полных перестроений
// (правки лишь помечают поле устаревшим до следующего допустимого тика).
func NewVolume(registry *block.Registry, dimX, dimY, dimZ, step int, rebuildsPerSecond float64) *Volume {
	if step <= 0 {
		step = 16
	}

	cells := dimX * dimY * dimZ

	return &Volume{
		registry: registry,
		dimX:     dimX,
		dimY:     dimY,
		dimZ:     dimZ,
		step:     step,
		sky:      make([]uint8, cells),
		light:    make([]uint8, cells),
		limiter:  rate.NewLimiter(rate.Limit(rebuildsPerSecond), 1),
	}
}

// SetMetrics устанавливает метрики движка
func (v *Volume) SetMetrics(em *metrics.EngineMetrics) {
	v.metrics = em
}

// MarkStale помечает поле света устаревшим: блоки изменились, но
// origin мог остаться прежним. Перестроение произойдет на следующем
// допустимом тике Update и не потеряется, даже если ограничитель
// частоты отклонит ближайшие вызовы.
func (v *Volume) MarkStale() {
	v.pending = true
}

// Origin возвращает текущий origin объема
func (v *Volume) Origin() vec.Vec3 {
	return v.origin
}

// Dims возвращает размеры объема
func (v *Volume) Dims() (int, int, int) {
	return v.dimX, v.dimY, v.dimZ
}

// floorDiv делит с округлением вниз (в отличие от усечения к нулю)
func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}

// desiredOrigin вычисляет origin для фокуса: объем центрируется на
// фокусе и привязывается к сетке с шагом step, чтобы мелкие движения
// наблюдателя не требовали перестроения.
func (v *Volume) desiredOrigin(focus vec.Vec3Float) vec.Vec3 {
	f := focus.ToVec3()
	return vec.Vec3{
		X: floorDiv(f.X-v.dimX/2, v.step) * v.step,
		Y: floorDiv(f.Y-v.dimY/2, v.step) * v.step,
		Z: floorDiv(f.Z-v.dimZ/2, v.step) * v.step,
	}
}

// Update перестраивает поле света, если origin сместился, поле
// помечено устаревшим или вызов принудительный, с учетом ограничителя
// частоты. Отклоненная потребность не теряется: она запоминается и
// выполняется на следующем допустимом тике. Возвращает true,
// если перестроение произошло.
func (v *Volume) Update(source BlockSource, focus vec.Vec3Float, force bool) bool {
	desired := v.desiredOrigin(focus)

	needed := force || v.pending || !v.hasBuilt || !desired.Equals(v.origin)
	if !needed {
		return false
	}

	if !v.limiter.Allow() {
		v.pending = true
		return false
	}

	v.origin = desired

	start := time.Now()
	v.rebuild(source)
	elapsed := time.Since(start)

	v.hasBuilt = true
	v.pending = false
	v.metrics.IncLightRebuilds()
	logging.LogLightingRebuild(v.origin.X, v.origin.Y, v.origin.Z, elapsed)

	return true
}

// cellIndex преобразует локальные координаты объема в линейный индекс
func (v *Volume) cellIndex(x, y, z int) int {
	return (y*v.dimZ+z)*v.dimX + x
}

// inBounds проверяет, что локальные координаты внутри объема
func (v *Volume) inBounds(x, y, z int) bool {
	return x >= 0 && x < v.dimX &&
		y >= 0 && y < v.dimY &&
		z >= 0 && z < v.dimZ
}

// opaqueAt возвращает true, если мировая ячейка не пропускает свет
func (v *Volume) opaqueAt(source BlockSource, x, y, z int) bool {
	id := source.GetBlock(vec.Vec3{
		X: v.origin.X + x,
		Y: v.origin.Y + y,
		Z: v.origin.Z + z,
	})
	return v.registry.IsOpaque(id)
}

// rebuild полностью пересчитывает оба канала: очистка, посев
// источников, затем BFS flood fill по каждому каналу.
func (v *Volume) rebuild(source BlockSource) {
	for i := range v.sky {
		v.sky[i] = 0
		v.light[i] = 0
	}

	v.seedAndFloodSky(source)
	v.seedAndFloodBlock(source)
}

// seedAndFloodSky сеет skylight=15 в каждую прозрачную ячейку
// верхнего слоя и распространяет вниз без потерь, вбок и вверх
// с затуханием 1. Асимметрия намеренная: солнечный свет падает
// сквозь открытые шахты без ослабления.
func (v *Volume) seedAndFloodSky(source BlockSource) {
	queue := make([]int, 0, v.dimX*v.dimZ)

	top := v.dimY - 1
	for z := 0; z < v.dimZ; z++ {
		for x := 0; x < v.dimX; x++ {
			if v.opaqueAt(source, x, top, z) {
				continue
			}
			idx := v.cellIndex(x, top, z)
			v.sky[idx] = MaxLevel
			queue = append(queue, idx)
		}
	}

	v.flood(source, v.sky, queue, true)
}

// seedAndFloodBlock сеет blocklight=15 в ячейки с блоками-эмиттерами
// и распространяет с затуханием 1 во все 6 направлений.
func (v *Volume) seedAndFloodBlock(source BlockSource) {
	var queue []int

	for y := 0; y < v.dimY; y++ {
		for z := 0; z < v.dimZ; z++ {
			for x := 0; x < v.dimX; x++ {
				id := source.GetBlock(vec.Vec3{
					X: v.origin.X + x,
					Y: v.origin.Y + y,
					Z: v.origin.Z + z,
				})
				if !v.registry.IsEmitter(id) {
					continue
				}
				idx := v.cellIndex(x, y, z)
				v.light[idx] = MaxLevel
				queue = append(queue, idx)
			}
		}
	}

	v.flood(source, v.light, queue, false)
}

// flood выполняет BFS по каналу в порядке FIFO.
// Инвариант: значение пишется только если оно строго больше
// сохраненного — это гарантирует завершение без повторных визитов.
// skyRules включает асимметрию небесного канала (вниз без потерь).
func (v *Volume) flood(source BlockSource, grid []uint8, queue []int, skyRules bool) {
	for head := 0; head < len(queue); head++ {
		idx := queue[head]
		level := int(grid[idx])

		x := idx % v.dimX
		z := (idx / v.dimX) % v.dimZ
		y := idx / (v.dimX * v.dimZ)

		for _, d := range [6]vec.Vec3{
			{X: 1}, {X: -1}, {Y: 1}, {Y: -1}, {Z: 1}, {Z: -1},
		} {
			nx, ny, nz := x+d.X, y+d.Y, z+d.Z
			if !v.inBounds(nx, ny, nz) {
				continue
			}

			next := level - 1
			if skyRules && d.Y == -1 {
				next = level // Вниз солнечный свет не теряет уровень
			}
			if next <= 0 {
				continue
			}

			// В непрозрачную ячейку свет не проталкивается
			if v.opaqueAt(source, nx, ny, nz) {
				continue
			}

			nIdx := v.cellIndex(nx, ny, nz)
			if next > int(grid[nIdx]) {
				grid[nIdx] = uint8(next)
				queue = append(queue, nIdx)
			}
		}
	}
}

// SampleCombined возвращает max(sky, block) для мировой координаты.
// Вне границ объема — нейтрально-яркие 15: темные швы на краю
// объема хуже, чем слегка пересвеченная даль.
func (v *Volume) SampleCombined(pos vec.Vec3) uint8 {
	x := pos.X - v.origin.X
	y := pos.Y - v.origin.Y
	z := pos.Z - v.origin.Z

	if !v.hasBuilt || !v.inBounds(x, y, z) {
		return MaxLevel
	}

	idx := v.cellIndex(x, y, z)
	sky := v.sky[idx]
	blk := v.light[idx]
	if blk > sky {
		return blk
	}
	return sky
}

// SkyAt возвращает уровень небесного канала для мировой координаты
// и признак попадания в границы объема (для тестов и отладки).
func (v *Volume) SkyAt(pos vec.Vec3) (uint8, bool) {
	x := pos.X - v.origin.X
	y := pos.Y - v.origin.Y
	z := pos.Z - v.origin.Z

	if !v.inBounds(x, y, z) {
		return 0, false
	}
	return v.sky[v.cellIndex(x, y, z)], true
}

// BlockAt возвращает уровень блочного канала для мировой координаты
func (v *Volume) BlockAt(pos vec.Vec3) (uint8, bool) {
	x := pos.X - v.origin.X
	y := pos.Y - v.origin.Y
	z := pos.Z - v.origin.Z

	if !v.inBounds(x, y, z) {
		return 0, false
	}
	return v.light[v.cellIndex(x, y, z)], true
}
