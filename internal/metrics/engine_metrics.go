package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// EngineMetrics регистрирует базовые метрики движка в Prometheus.
// Использование:
//
//	em := metrics.NewEngineMetrics("voxel_engine")
//	world.SetMetrics(em)
//
// Метрики:
// * chunks_loaded — gauge, количество загруженных чанков
// * chunks_dirty_deferred — gauge, чанки, отложенные бюджетом меша
// * chunk_generation_seconds — histogram
// * mesh_rebuild_seconds — histogram
// * light_rebuilds_total — counter
//
// Все методы nil-safe: движок работает и без метрик.
type EngineMetrics struct {
	loadedChunks       prometheus.Gauge
	dirtyDeferred      prometheus.Gauge
	chunkGenSeconds    prometheus.Histogram
	meshRebuildSeconds prometheus.Histogram
	lightRebuilds      prometheus.Counter
}

// NewEngineMetrics создает метрики и регистрирует их в дефолтном регистре
func NewEngineMetrics(namespace string) *EngineMetrics {
	em := &EngineMetrics{
		loadedChunks: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "chunks_loaded",
			Help:      "Количество загруженных чанков.",
		}),
		dirtyDeferred: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "chunks_dirty_deferred",
			Help:      "Чанки с грязным мешом, отложенные бюджетом кадра.",
		}),
		chunkGenSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "chunk_generation_seconds",
			Help:      "Длительность генерации чанка.",
			Buckets:   []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1},
		}),
		meshRebuildSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "mesh_rebuild_seconds",
			Help:      "Длительность перестроения меша чанка.",
			Buckets:   []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1},
		}),
		lightRebuilds: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "light_rebuilds_total",
			Help:      "Количество полных перестроений объема освещения.",
		}),
	}

	prometheus.MustRegister(
		em.loadedChunks,
		em.dirtyDeferred,
		em.chunkGenSeconds,
		em.meshRebuildSeconds,
		em.lightRebuilds,
	)

	return em
}

// SetLoadedChunks обновляет количество загруженных чанков
func (em *EngineMetrics) SetLoadedChunks(n int) {
	if em == nil {
		return
	}
	em.loadedChunks.Set(float64(n))
}

// SetDirtyDeferred обновляет количество отложенных грязных чанков
func (em *EngineMetrics) SetDirtyDeferred(n int) {
	if em == nil {
		return
	}
	em.dirtyDeferred.Set(float64(n))
}

// ObserveChunkGeneration фиксирует длительность генерации чанка
func (em *EngineMetrics) ObserveChunkGeneration(d time.Duration) {
	if em == nil {
		return
	}
	em.chunkGenSeconds.Observe(d.Seconds())
}

// ObserveMeshRebuild фиксирует длительность перестроения меша
func (em *EngineMetrics) ObserveMeshRebuild(d time.Duration) {
	if em == nil {
		return
	}
	em.meshRebuildSeconds.Observe(d.Seconds())
}

// IncLightRebuilds инкрементирует счетчик перестроений освещения
func (em *EngineMetrics) IncLightRebuilds() {
	if em == nil {
		return
	}
	em.lightRebuilds.Inc()
}
