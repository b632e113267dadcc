package block

// State представляет упакованное состояние блока: один байт на позицию.
// Биты 0..3 — флаги соединений N/S/E/W (заборы, стены),
// биты 4..5 — размещение плиты (Bottom/Top/Double).
// Значение по умолчанию (нет соединений, нижняя плита) не хранится:
// разреженная карта чанка держит только отличные от него записи.
type State uint8

// Флаги соединений по горизонтальным направлениям
const (
	ConnNorth State = 1 << 0 // -Z
	ConnSouth State = 1 << 1 // +Z
	ConnEast  State = 1 << 2 // +X
	ConnWest  State = 1 << 3 // -X

	connMask State = 0x0F
)

// SlabType определяет размещение плиты в блоке
type SlabType uint8

const (
	SlabBottom SlabType = iota // Нижняя половина, y 0..8/16
	SlabTop                    // Верхняя половина, y 8..16/16
	SlabDouble                 // Полный блок из двух плит
)

const (
	slabShift       = 4
	slabMask  State = 0x03 << slabShift
)

// DefaultState — состояние по умолчанию: без соединений, нижняя плита
const DefaultState State = 0

// IsDefault возвращает true, если состояние совпадает с дефолтным
// и запись в разреженной карте не нужна
func (s State) IsDefault() bool {
	return s == DefaultState
}

// HasConn проверяет наличие флага соединения
func (s State) HasConn(flag State) bool {
	return s&flag != 0
}

// WithConn возвращает состояние с установленным флагом соединения
func (s State) WithConn(flag State) State {
	return s | (flag & connMask)
}

// WithoutConn возвращает состояние со сброшенным флагом соединения
func (s State) WithoutConn(flag State) State {
	return s &^ (flag & connMask)
}

// Connections возвращает только биты соединений
func (s State) Connections() State {
	return s & connMask
}

// WithConnections заменяет все биты соединений разом,
// сохраняя биты размещения плиты
func (s State) WithConnections(conns State) State {
	return (s &^ connMask) | (conns & connMask)
}

// Slab возвращает размещение плиты
func (s State) Slab() SlabType {
	return SlabType((s & slabMask) >> slabShift)
}

// WithSlab возвращает состояние с указанным размещением плиты
func (s State) WithSlab(t SlabType) State {
	return (s &^ slabMask) | (State(t) << slabShift & slabMask)
}
