package block

// BlockID представляет идентификатор типа блока
type BlockID uint16

// Константы ID блоков
const (
	// Базовые типы блоков
	AirBlockID     BlockID = iota // 0
	BedrockBlockID                // 1
	StoneBlockID                  // 2
	DirtBlockID                   // 3
	GrassBlockID                  // 4
	SandBlockID                   // 5
	LeavesBlockID                 // 6

	// Для возможности расширения оставляем промежутки между категориями

	// Растительность, cross-геометрия (начиная со 100)
	TallGrassBlockID BlockID = 100 // Высокая трава
	PoppyBlockID     BlockID = 101 // Мак
	DandelionBlockID BlockID = 102 // Одуванчик
	DeadBushBlockID  BlockID = 103 // Сухой куст

	// Частичные формы (начиная с 200)
	StoneSlabBlockID BlockID = 200 // Каменная плита
	OakFenceBlockID  BlockID = 201 // Дубовый забор

	// Специальные блоки (начиная с 1000)
	GlowstoneBlockID BlockID = 1000 // Светящийся блок-маркер точечного света
)

// Грани блока; порядок фиксирован и используется в FaceTiles и меш-билдере
const (
	FaceEast  = 0 // +X
	FaceWest  = 1 // -X
	FaceUp    = 2 // +Y
	FaceDown  = 3 // -Y
	FaceSouth = 4 // +Z
	FaceNorth = 5 // -Z
	FaceCount = 6
)

// Shape определяет геометрическую форму блока.
// Закрытый enum: меш-билдер диспетчеризует по нему через switch,
// без виртуальных вызовов и наследования.
type Shape uint8

const (
	ShapeEmpty      Shape = iota // Воздух, геометрия не эмитится
	ShapeFull                    // Полный куб
	ShapeBottomSlab              // Нижняя плита (верх/низ выбирается BlockState)
	ShapeTopSlab                 // Верхняя плита
	ShapeFence                   // Забор: столб + перекладины по флагам соединений
	ShapeCross                   // Растительность: два диагональных квада
	ShapeCustom                  // Произвольная модель из регистра моделей
)

// Индексы тайлов в атласе текстур
const (
	TileGrassTop  = 0
	TileStone     = 1
	TileDirt      = 2
	TileGrassSide = 3
	TileBedrock   = 4
	TileSand      = 5
	TileLeaves    = 6
	TileTallGrass = 7
	TilePoppy     = 8
	TileDandelion = 9
	TileDeadBush  = 10
	TileOakPlanks = 11
	TileGlowstone = 12
)

// Type содержит неизменяемые статические свойства типа блока.
// Таблица загружается один раз при создании регистра.
type Type struct {
	ID           BlockID
	Name         string
	Solid        bool    // Твердый блок: учитывается в AO и предикате опоры забора
	Transparent  bool    // Прозрачный: сосед эмитит грань против него
	Hardness     float64 // Прочность (время разрушения)
	ToolLevel    int     // Минимальный уровень инструмента
	FaceTiles    [FaceCount]int
	Shape        Shape
	LightEmitter bool // Маркер точечного источника света
}

// Registry хранит таблицу типов блоков.
// Создается явно в composition root и передается зависимостям;
// глобального синглтона нет.
type Registry struct {
	types map[BlockID]Type
}

// uniformTiles возвращает массив граней с одинаковым тайлом
func uniformTiles(tile int) [FaceCount]int {
	return [FaceCount]int{tile, tile, tile, tile, tile, tile}
}

// NewRegistry создает регистр и загружает таблицу типов по умолчанию
func NewRegistry() *Registry {
	r := &Registry{types: make(map[BlockID]Type)}

	r.Register(Type{
		ID: AirBlockID, Name: "air",
		Transparent: true, Shape: ShapeEmpty,
	})
	r.Register(Type{
		ID: BedrockBlockID, Name: "bedrock",
		Solid: true, Hardness: -1, // Неразрушаемый
		FaceTiles: uniformTiles(TileBedrock), Shape: ShapeFull,
	})
	r.Register(Type{
		ID: StoneBlockID, Name: "stone",
		Solid: true, Hardness: 1.5, ToolLevel: 1,
		FaceTiles: uniformTiles(TileStone), Shape: ShapeFull,
	})
	r.Register(Type{
		ID: DirtBlockID, Name: "dirt",
		Solid: true, Hardness: 0.5,
		FaceTiles: uniformTiles(TileDirt), Shape: ShapeFull,
	})
	r.Register(Type{
		ID: GrassBlockID, Name: "grass",
		Solid: true, Hardness: 0.6,
		FaceTiles: [FaceCount]int{
			TileGrassSide, TileGrassSide,
			TileGrassTop, TileDirt,
			TileGrassSide, TileGrassSide,
		},
		Shape: ShapeFull,
	})
	r.Register(Type{
		ID: SandBlockID, Name: "sand",
		Solid: true, Hardness: 0.5,
		FaceTiles: uniformTiles(TileSand), Shape: ShapeFull,
	})
	r.Register(Type{
		ID: LeavesBlockID, Name: "leaves",
		Solid: true, Transparent: true, Hardness: 0.2,
		FaceTiles: uniformTiles(TileLeaves), Shape: ShapeFull,
	})

	r.Register(Type{
		ID: TallGrassBlockID, Name: "tall_grass",
		Transparent: true,
		FaceTiles:   uniformTiles(TileTallGrass), Shape: ShapeCross,
	})
	r.Register(Type{
		ID: PoppyBlockID, Name: "poppy",
		Transparent: true,
		FaceTiles:   uniformTiles(TilePoppy), Shape: ShapeCross,
	})
	r.Register(Type{
		ID: DandelionBlockID, Name: "dandelion",
		Transparent: true,
		FaceTiles:   uniformTiles(TileDandelion), Shape: ShapeCross,
	})
	r.Register(Type{
		ID: DeadBushBlockID, Name: "dead_bush",
		Transparent: true,
		FaceTiles:   uniformTiles(TileDeadBush), Shape: ShapeCross,
	})

	r.Register(Type{
		ID: StoneSlabBlockID, Name: "stone_slab",
		Solid: true, Transparent: true, Hardness: 1.5, ToolLevel: 1,
		FaceTiles: uniformTiles(TileStone), Shape: ShapeBottomSlab,
	})
	r.Register(Type{
		ID: OakFenceBlockID, Name: "oak_fence",
		Solid: true, Transparent: true, Hardness: 1.0,
		FaceTiles: uniformTiles(TileOakPlanks), Shape: ShapeFence,
	})

	r.Register(Type{
		ID: GlowstoneBlockID, Name: "glowstone",
		Transparent: true, Hardness: 0.3,
		FaceTiles: uniformTiles(TileGlowstone), Shape: ShapeEmpty,
		LightEmitter: true,
	})

	return r
}

// Register добавляет тип блока в регистр
func (r *Registry) Register(t Type) {
	r.types[t.ID] = t
}

// Get возвращает тип для указанного ID
func (r *Registry) Get(id BlockID) (Type, bool) {
	t, exists := r.types[id]
	return t, exists
}

// IsValidBlockID проверяет, является ли ID допустимым идентификатором блока
func (r *Registry) IsValidBlockID(id BlockID) bool {
	_, exists := r.types[id]
	return exists
}

// IsSolid возвращает true для твердых блоков (AO, опора забора)
func (r *Registry) IsSolid(id BlockID) bool {
	t, exists := r.types[id]
	return exists && t.Solid
}

// IsTransparent возвращает true, если соседняя грань против блока видна
func (r *Registry) IsTransparent(id BlockID) bool {
	t, exists := r.types[id]
	if !exists {
		return true // Неизвестный блок не закрывает соседей
	}
	return t.Transparent
}

// IsOpaque возвращает true, если блок не пропускает свет
func (r *Registry) IsOpaque(id BlockID) bool {
	return !r.IsTransparent(id)
}

// IsEmitter возвращает true для блоков-маркеров точечного света
func (r *Registry) IsEmitter(id BlockID) bool {
	t, exists := r.types[id]
	return exists && t.LightEmitter
}

// ShapeOf возвращает форму блока; для неизвестных ID — ShapeEmpty
func (r *Registry) ShapeOf(id BlockID) Shape {
	t, exists := r.types[id]
	if !exists {
		return ShapeEmpty
	}
	return t.Shape
}
