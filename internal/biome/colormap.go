package biome

import (
	"fmt"
	"image"
	_ "image/png" // Колормапы поставляются в PNG
	"os"
)

// Color представляет RGB цвет тинта
type Color struct {
	R, G, B uint8
}

// FallbackColor — заведомо искусственный цвет, который возвращается,
// когда колормапа не загружена. Ярко-пурпурный сразу виден на сцене.
var FallbackColor = Color{R: 255, G: 0, B: 255}

// Colormap сэмплирует цвет тинта травы/листвы по температуре и влажности
// из 2D lookup-изображения.
type Colormap struct {
	img    image.Image
	width  int
	height int
}

// LoadColormap читает lookup-изображение колормапы
func LoadColormap(path string) (*Colormap, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("не удалось открыть колормапу %s: %w", path, err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("не удалось декодировать колормапу %s: %w", path, err)
	}

	return NewColormap(img), nil
}

// NewColormap создает колормапу из готового изображения
func NewColormap(img image.Image) *Colormap {
	bounds := img.Bounds()
	return &Colormap{
		img:    img,
		width:  bounds.Dx(),
		height: bounds.Dy(),
	}
}

// Sample возвращает цвет для указанных температуры и влажности.
// Оба параметра зажимаются в [0,1]; влажность дополнительно
// масштабируется температурой (сухие холодные углы карты недостижимы).
// Выборка по ближайшему пикселю: x=(1-temp)*W, y=(1-adjHumidity)*H.
func (c *Colormap) Sample(temperature, humidity float64) Color {
	if c == nil || c.img == nil || c.width == 0 || c.height == 0 {
		return FallbackColor
	}

	temperature = clamp01(temperature)
	humidity = clamp01(humidity)

	adjustedHumidity := humidity * temperature

	x := int((1 - temperature) * float64(c.width-1))
	y := int((1 - adjustedHumidity) * float64(c.height-1))

	bounds := c.img.Bounds()
	r, g, b, _ := c.img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()

	return Color{
		R: uint8(r >> 8),
		G: uint8(g >> 8),
		B: uint8(b >> 8),
	}
}

// clamp01 зажимает значение в диапазон [0,1]
func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
