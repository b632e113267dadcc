package vec

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVec3_ToChunkCoords(t *testing.T) {
	// Тест преобразования глобальных координат в координаты чанка,
	// включая отрицательные: деление с округлением вниз
	cases := []struct {
		pos  Vec3
		want Vec2
	}{
		{Vec3{X: 0, Y: 10, Z: 0}, Vec2{X: 0, Z: 0}},
		{Vec3{X: 15, Y: 10, Z: 15}, Vec2{X: 0, Z: 0}},
		{Vec3{X: 16, Y: 10, Z: 16}, Vec2{X: 1, Z: 1}},
		{Vec3{X: -1, Y: 10, Z: -1}, Vec2{X: -1, Z: -1}},
		{Vec3{X: -16, Y: 10, Z: -17}, Vec2{X: -1, Z: -2}},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, tc.pos.ToChunkCoords(), "Чанк для (%d,%d)", tc.pos.X, tc.pos.Z)
	}
}

func TestVec3_LocalInChunk(t *testing.T) {
	// Тест локальных координат внутри чанка: маска младших 4 бит
	// корректна и для отрицательных глобальных координат
	local := Vec3{X: 37, Y: 100, Z: -12}.LocalInChunk()
	assert.Equal(t, Vec3{X: 5, Y: 100, Z: 4}, local, "Локальные координаты по модулю 16")

	edge := Vec3{X: -1, Y: 0, Z: -16}.LocalInChunk()
	assert.Equal(t, Vec3{X: 15, Y: 0, Z: 0}, edge, "Отрицательная граница сворачивается в 15")
}

func TestVec2_DistanceSq(t *testing.T) {
	// Тест квадрата сеточного расстояния для стриминга
	a := Vec2{X: 0, Z: 0}

	assert.Equal(t, 0, a.DistanceSq(a), "Расстояние до себя нулевое")
	assert.Equal(t, 25, a.DistanceSq(Vec2{X: 3, Z: 4}), "Квадрат диагонального расстояния")
	assert.Equal(t, 25, a.DistanceSq(Vec2{X: -3, Z: -4}), "Расстояние симметрично по знаку")
}

func TestVec3Float_Conversions(t *testing.T) {
	// Тест преобразования позиции наблюдателя в блочные координаты:
	// округление вниз, не усечение к нулю
	assert.Equal(t, Vec3{X: 1, Y: 70, Z: 2}, Vec3Float{X: 1.9, Y: 70.2, Z: 2.0}.ToVec3())
	assert.Equal(t, Vec3{X: -1, Y: 70, Z: -2}, Vec3Float{X: -0.1, Y: 70.9, Z: -1.5}.ToVec3(),
		"Отрицательные координаты округляются вниз")

	assert.Equal(t, Vec2{X: -1, Z: 0}, Vec3Float{X: -0.5, Y: 70, Z: 3}.ToChunkCoords(),
		"Наблюдатель чуть левее нуля стоит в чанке -1")
}

func TestVec3_Add(t *testing.T) {
	// Тест покомпонентного сложения
	sum := Vec3{X: 1, Y: 2, Z: 3}.Add(Vec3{X: -1, Y: 10, Z: 0})
	assert.Equal(t, Vec3{X: 0, Y: 12, Z: 3}, sum)
}
