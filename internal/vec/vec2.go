package vec

// Vec2 представляет координаты чанка в горизонтальной плоскости мира
type Vec2 struct {
	X, Z int
}

// Add складывает два вектора
func (v Vec2) Add(other Vec2) Vec2 {
	return Vec2{X: v.X + other.X, Z: v.Z + other.Z}
}

// DistanceSq возвращает квадрат сеточного расстояния до другой точки.
// Используется для стриминга чанков: сравнение с квадратом радиуса
// позволяет обойтись без извлечения корня.
func (v Vec2) DistanceSq(other Vec2) int {
	dx := v.X - other.X
	dz := v.Z - other.Z
	return dx*dx + dz*dz
}

// Equals проверяет равенство векторов
func (v Vec2) Equals(other Vec2) bool {
	return v.X == other.X && v.Z == other.Z
}
