package vec

import "math"

// Vec3Float представляет позицию наблюдателя с плавающими координатами
type Vec3Float struct {
	X float64
	Y float64
	Z float64
}

// ToVec3 округляет координаты вниз до целых координат блока
func (v Vec3Float) ToVec3() Vec3 {
	return Vec3{
		X: int(math.Floor(v.X)),
		Y: int(math.Floor(v.Y)),
		Z: int(math.Floor(v.Z)),
	}
}

// ToChunkCoords возвращает координаты чанка, в котором находится позиция
func (v Vec3Float) ToChunkCoords() Vec2 {
	return v.ToVec3().ToChunkCoords()
}

// DistanceTo вычисляет расстояние до другой точки
func (v Vec3Float) DistanceTo(other Vec3Float) float64 {
	dx := v.X - other.X
	dy := v.Y - other.Y
	dz := v.Z - other.Z
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}
