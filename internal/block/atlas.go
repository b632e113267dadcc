package block

import (
	"fmt"
	"image"
	_ "image/png" // Атлас поставляется в PNG
	"os"
)

// UVRect описывает прямоугольник тайла в текстурных координатах атласа
type UVRect struct {
	U0, V0 float32 // Левый верхний угол
	U1, V1 float32 // Правый нижний угол
}

// Atlas отображает индекс тайла в UV-прямоугольник атласа текстур.
// Загружается один раз при старте; без атласа блоки не рендерятся,
// поэтому ошибка загрузки фатальна и пробрасывается вызывающему.
type Atlas struct {
	width    int
	height   int
	tileSize int
	cols     int
	rows     int
}

// LoadAtlas читает изображение атласа и строит таблицу тайлов.
// tileSize — сторона одного тайла в пикселях.
func LoadAtlas(path string, tileSize int) (*Atlas, error) {
	if tileSize <= 0 {
		return nil, fmt.Errorf("некорректный размер тайла: %d", tileSize)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("не удалось открыть атлас %s: %w", path, err)
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return nil, fmt.Errorf("не удалось декодировать атлас %s: %w", path, err)
	}

	if cfg.Width < tileSize || cfg.Height < tileSize {
		return nil, fmt.Errorf("атлас %s меньше одного тайла (%dx%d)", path, cfg.Width, cfg.Height)
	}

	return &Atlas{
		width:    cfg.Width,
		height:   cfg.Height,
		tileSize: tileSize,
		cols:     cfg.Width / tileSize,
		rows:     cfg.Height / tileSize,
	}, nil
}

// NewGridAtlas создает атлас по известной сетке без чтения файла.
// Используется в тестах и при встроенных атласах.
func NewGridAtlas(cols, rows, tileSize int) *Atlas {
	return &Atlas{
		width:    cols * tileSize,
		height:   rows * tileSize,
		tileSize: tileSize,
		cols:     cols,
		rows:     rows,
	}
}

// TileCount возвращает количество тайлов в атласе
func (a *Atlas) TileCount() int {
	return a.cols * a.rows
}

// UVRect возвращает текстурные координаты тайла по его линейному индексу.
// Индекс за пределами атласа сворачивается по модулю: рендер получает
// валидный прямоугольник, а не мусорные координаты.
func (a *Atlas) UVRect(tile int) UVRect {
	if tile < 0 || tile >= a.TileCount() {
		tile = tile % a.TileCount()
		if tile < 0 {
			tile += a.TileCount()
		}
	}

	col := tile % a.cols
	row := tile / a.cols

	du := float32(a.tileSize) / float32(a.width)
	dv := float32(a.tileSize) / float32(a.height)

	return UVRect{
		U0: float32(col) * du,
		V0: float32(row) * dv,
		U1: float32(col+1) * du,
		V1: float32(row+1) * dv,
	}
}

// FaceUV возвращает UV-прямоугольник для конкретной грани типа блока
func (a *Atlas) FaceUV(t Type, face int) UVRect {
	if face < 0 || face >= FaceCount {
		face = 0
	}
	return a.UVRect(t.FaceTiles[face])
}
