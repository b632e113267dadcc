package storage

import (
	"encoding/binary"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/annel0/voxel-engine/internal/block"
	"github.com/annel0/voxel-engine/internal/vec"
	"github.com/annel0/voxel-engine/internal/world"
	"github.com/dgraph-io/badger/v3"
	"github.com/klauspost/compress/zstd"
)

// Версия бинарного формата записи чанка
const chunkFormatVersion = 1

// WorldStorage представляет собой хранилище данных мира.
// Чанки сериализуются в плотный бинарный формат и сжимаются zstd:
// столбцы ландшафта состоят из длинных серий одинаковых блоков
// и сжимаются на порядок.
type WorldStorage struct {
	db      *badger.DB
	dbPath  string
	encoder *zstd.Encoder
	decoder *zstd.Decoder
	mutex   sync.RWMutex
	isReady bool
}

// NewWorldStorage создает новое хранилище мира
func NewWorldStorage(dataPath string) (*WorldStorage, error) {
	dbPath := filepath.Join(dataPath, "world")
	opts := badger.DefaultOptions(dbPath)
	opts.Logger = nil // Отключаем логирование BadgerDB

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("не удалось открыть BadgerDB: %w", err)
	}

	encoder, err := zstd.NewWriter(nil)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("не удалось создать zstd-кодер: %w", err)
	}

	decoder, err := zstd.NewReader(nil)
	if err != nil {
		encoder.Close()
		db.Close()
		return nil, fmt.Errorf("не удалось создать zstd-декодер: %w", err)
	}

	return &WorldStorage{
		db:      db,
		dbPath:  dbPath,
		encoder: encoder,
		decoder: decoder,
		isReady: true,
	}, nil
}

// Close закрывает хранилище данных
func (ws *WorldStorage) Close() error {
	ws.mutex.Lock()
	defer ws.mutex.Unlock()

	if !ws.isReady {
		return nil
	}

	ws.isReady = false
	ws.encoder.Close()
	ws.decoder.Close()
	return ws.db.Close()
}

// chunkKey возвращает ключ BadgerDB для чанка
func chunkKey(coords vec.Vec2) []byte {
	return []byte(fmt.Sprintf("chunk:%d:%d", coords.X, coords.Z))
}

// encodeChunk сериализует чанк: версия формата, плотный массив блоков
// (LE uint16), затем разреженные состояния (количество + пары
// индекс/состояние).
func encodeChunk(blocks []block.BlockID, states map[int]block.State) []byte {
	size := 1 + len(blocks)*2 + 4 + len(states)*5
	buf := make([]byte, 0, size)

	buf = append(buf, chunkFormatVersion)

	for _, id := range blocks {
		buf = binary.LittleEndian.AppendUint16(buf, uint16(id))
	}

	buf = binary.LittleEndian.AppendUint32(buf, uint32(len(states)))
	for idx, s := range states {
		buf = binary.LittleEndian.AppendUint32(buf, uint32(idx))
		buf = append(buf, uint8(s))
	}

	return buf
}

// decodeChunk разбирает сериализованный чанк
func decodeChunk(data []byte) ([]block.BlockID, map[int]block.State, error) {
	if len(data) < 1 {
		return nil, nil, fmt.Errorf("пустая запись чанка")
	}
	if data[0] != chunkFormatVersion {
		return nil, nil, fmt.Errorf("неизвестная версия формата чанка: %d", data[0])
	}
	data = data[1:]

	blockBytes := world.ChunkVolume * 2
	if len(data) < blockBytes+4 {
		return nil, nil, fmt.Errorf("запись чанка обрезана: %d байт", len(data))
	}

	blocks := make([]block.BlockID, world.ChunkVolume)
	for i := range blocks {
		blocks[i] = block.BlockID(binary.LittleEndian.Uint16(data[i*2:]))
	}
	data = data[blockBytes:]

	count := int(binary.LittleEndian.Uint32(data))
	data = data[4:]

	if len(data) < count*5 {
		return nil, nil, fmt.Errorf("состояния чанка обрезаны: %d записей, %d байт", count, len(data))
	}

	states := make(map[int]block.State, count)
	for i := 0; i < count; i++ {
		idx := int(binary.LittleEndian.Uint32(data[i*5:]))
		if idx < 0 || idx >= world.ChunkVolume {
			return nil, nil, fmt.Errorf("индекс состояния вне чанка: %d", idx)
		}
		states[idx] = block.State(data[i*5+4])
	}

	return blocks, states, nil
}

// SaveChunk сохраняет блоки и состояния чанка. Реализует world.ChunkStore.
func (ws *WorldStorage) SaveChunk(coords vec.Vec2, blocks []block.BlockID, states map[int]block.State) error {
	ws.mutex.RLock()
	defer ws.mutex.RUnlock()

	if !ws.isReady {
		return fmt.Errorf("хранилище не готово")
	}
	if len(blocks) != world.ChunkVolume {
		return fmt.Errorf("некорректный размер чанка: %d блоков", len(blocks))
	}

	compressed := ws.encoder.EncodeAll(encodeChunk(blocks, states), nil)

	err := ws.db.Update(func(txn *badger.Txn) error {
		return txn.Set(chunkKey(coords), compressed)
	})
	if err != nil {
		return fmt.Errorf("ошибка сохранения чанка в BadgerDB: %w", err)
	}

	return nil
}

// LoadChunk загружает блоки и состояния чанка. Реализует world.ChunkStore.
// Отсутствующий чанк — не ошибка: возвращается found=false, и мир
// генерирует чанк заново.
func (ws *WorldStorage) LoadChunk(coords vec.Vec2) ([]block.BlockID, map[int]block.State, bool, error) {
	ws.mutex.RLock()
	defer ws.mutex.RUnlock()

	if !ws.isReady {
		return nil, nil, false, fmt.Errorf("хранилище не готово")
	}

	var data []byte
	err := ws.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(chunkKey(coords))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			data = append([]byte{}, val...)
			return nil
		})
	})

	if err == badger.ErrKeyNotFound {
		return nil, nil, false, nil
	}
	if err != nil {
		return nil, nil, false, fmt.Errorf("ошибка чтения чанка из BadgerDB: %w", err)
	}

	raw, err := ws.decoder.DecodeAll(data, nil)
	if err != nil {
		return nil, nil, false, fmt.Errorf("ошибка распаковки чанка: %w", err)
	}

	blocks, states, err := decodeChunk(raw)
	if err != nil {
		return nil, nil, false, fmt.Errorf("ошибка десериализации чанка (%d,%d): %w", coords.X, coords.Z, err)
	}

	return blocks, states, true, nil
}
