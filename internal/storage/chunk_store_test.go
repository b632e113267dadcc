package storage

import (
	"testing"

	"github.com/annel0/voxel-engine/internal/block"
	"github.com/annel0/voxel-engine/internal/vec"
	"github.com/annel0/voxel-engine/internal/world"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStorage(t *testing.T) *WorldStorage {
	t.Helper()
	ws, err := NewWorldStorage(t.TempDir())
	require.NoError(t, err, "Хранилище должно создаваться")
	t.Cleanup(func() { ws.Close() })
	return ws
}

func TestWorldStorage_RoundTrip(t *testing.T) {
	// Тест сохранения и загрузки чанка: блоки и разреженные состояния
	ws := newTestStorage(t)

	blocks := make([]block.BlockID, world.ChunkVolume)
	blocks[0] = block.BedrockBlockID
	blocks[100] = block.StoneBlockID
	blocks[world.ChunkVolume-1] = block.GrassBlockID

	states := map[int]block.State{
		100: block.DefaultState.WithConn(block.ConnNorth),
		200: block.DefaultState.WithSlab(block.SlabTop),
	}

	coords := vec.Vec2{X: 3, Z: -7}
	require.NoError(t, ws.SaveChunk(coords, blocks, states), "Сохранение должно проходить")

	gotBlocks, gotStates, found, err := ws.LoadChunk(coords)
	require.NoError(t, err)
	require.True(t, found, "Сохраненный чанк должен находиться")

	assert.Equal(t, blocks, gotBlocks, "Блоки должны совпадать после цикла")
	assert.Equal(t, states, gotStates, "Состояния должны совпадать после цикла")
}

func TestWorldStorage_MissingChunk(t *testing.T) {
	// Тест отсутствующего чанка: не ошибка, found=false
	ws := newTestStorage(t)

	_, _, found, err := ws.LoadChunk(vec.Vec2{X: 9, Z: 9})
	assert.NoError(t, err, "Отсутствие чанка — не ошибка")
	assert.False(t, found, "Несохраненный чанк не должен находиться")
}

func TestWorldStorage_OverwriteChunk(t *testing.T) {
	// Тест перезаписи: последняя версия чанка побеждает
	ws := newTestStorage(t)
	coords := vec.Vec2{X: 0, Z: 0}

	first := make([]block.BlockID, world.ChunkVolume)
	first[5] = block.StoneBlockID
	require.NoError(t, ws.SaveChunk(coords, first, nil))

	second := make([]block.BlockID, world.ChunkVolume)
	second[5] = block.SandBlockID
	require.NoError(t, ws.SaveChunk(coords, second, map[int]block.State{}))

	gotBlocks, gotStates, found, err := ws.LoadChunk(coords)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, block.SandBlockID, gotBlocks[5], "Должна загружаться последняя версия")
	assert.Empty(t, gotStates, "Состояний не сохранялось")
}

func TestWorldStorage_RejectsWrongSize(t *testing.T) {
	// Тест отклонения массива некорректного размера
	ws := newTestStorage(t)

	err := ws.SaveChunk(vec.Vec2{X: 0, Z: 0}, make([]block.BlockID, 100), nil)
	assert.Error(t, err, "Массив некорректного размера должен отклоняться")
}

func TestWorldStorage_ClosedStorage(t *testing.T) {
	// Тест операций над закрытым хранилищем
	ws, err := NewWorldStorage(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, ws.Close())

	err = ws.SaveChunk(vec.Vec2{X: 0, Z: 0}, make([]block.BlockID, world.ChunkVolume), nil)
	assert.Error(t, err, "Запись в закрытое хранилище — ошибка")

	_, _, _, err = ws.LoadChunk(vec.Vec2{X: 0, Z: 0})
	assert.Error(t, err, "Чтение из закрытого хранилища — ошибка")

	assert.NoError(t, ws.Close(), "Повторное закрытие безопасно")
}

func TestEncodeDecodeChunk(t *testing.T) {
	// Тест бинарного формата без BadgerDB
	blocks := make([]block.BlockID, world.ChunkVolume)
	blocks[42] = block.OakFenceBlockID
	states := map[int]block.State{42: block.DefaultState.WithConn(block.ConnWest)}

	gotBlocks, gotStates, err := decodeChunk(encodeChunk(blocks, states))
	require.NoError(t, err)
	assert.Equal(t, blocks, gotBlocks)
	assert.Equal(t, states, gotStates)

	// Битые данные отклоняются
	_, _, err = decodeChunk(nil)
	assert.Error(t, err, "Пустая запись должна отклоняться")

	_, _, err = decodeChunk([]byte{99})
	assert.Error(t, err, "Неизвестная версия формата должна отклоняться")

	_, _, err = decodeChunk([]byte{chunkFormatVersion, 1, 2, 3})
	assert.Error(t, err, "Обрезанная запись должна отклоняться")
}
