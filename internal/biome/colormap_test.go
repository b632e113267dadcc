package biome

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
)

// newTestColormap строит колормапу 3x3 с различимыми углами
func newTestColormap() *Colormap {
	img := image.NewRGBA(image.Rect(0, 0, 3, 3))
	for y := 0; y < 3; y++ {
		for x := 0; x < 3; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 100), G: uint8(y * 100), B: 50, A: 255})
		}
	}
	return NewColormap(img)
}

func TestColormap_NilFallback(t *testing.T) {
	// Тест fallback-цвета: nil-колормапа не должна ронять рендер
	var c *Colormap
	assert.Equal(t, FallbackColor, c.Sample(0.5, 0.5), "Nil-колормапа дает fallback-цвет")
}

func TestColormap_SampleCorners(t *testing.T) {
	// Тест выборки по углам карты: x=(1-temp)*W, y=(1-adjHumidity)*H
	c := newTestColormap()

	// Жарко и влажно: левый верхний угол (x=0, y=0)
	hotWet := c.Sample(1.0, 1.0)
	assert.Equal(t, uint8(0), hotWet.R)
	assert.Equal(t, uint8(0), hotWet.G)

	// Холодно: x максимален; влажность умножается на температуру,
	// поэтому при temp=0 скорректированная влажность тоже 0 (y максимален)
	coldWet := c.Sample(0.0, 1.0)
	assert.Equal(t, uint8(200), coldWet.R)
	assert.Equal(t, uint8(200), coldWet.G, "Сухой холодный угол: влажность обнулена температурой")
}

func TestColormap_ClampInputs(t *testing.T) {
	// Тест зажима параметров в [0,1]: выход за диапазон не паникует
	c := newTestColormap()

	assert.Equal(t, c.Sample(1, 1), c.Sample(5, 7), "Параметры выше диапазона зажимаются")
	assert.Equal(t, c.Sample(0, 0), c.Sample(-3, -1), "Параметры ниже диапазона зажимаются")
}

func TestLoadColormap_MissingFile(t *testing.T) {
	// Тест загрузки отсутствующего файла
	_, err := LoadColormap("nonexistent.png")
	assert.Error(t, err, "Отсутствующая колормапа — ошибка загрузки")
}
