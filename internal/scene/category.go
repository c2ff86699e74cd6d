package scene

import (
	"math"
	"math/rand/v2"

	"github.com/AisuKyobu/xmas-morph/internal/layout"
	"github.com/lucasb-eyer/go-colorful"
)

// Category 元素类别
type Category int

const (
	Foliage Category = iota
	BoxOrnament
	SphereOrnament
	StarOrnament
	PhotoFrame
	Topper

	// 以下两类是纯装饰，没有双目标位置
	InnerCore
	Sparkle
)

var categoryNames = [...]string{"foliage", "box", "sphere", "star", "photo", "topper", "core", "sparkle"}

func (c Category) String() string {
	if c < 0 || int(c) >= len(categoryNames) {
		return "unknown"
	}
	return categoryNames[c]
}

// Swatch 调色板里的一种颜色及其抽中的相对概率
type Swatch struct {
	Color  colorful.Color
	Chance float64
}

// Palette 离散调色板
type Palette []Swatch

// Pick 按概率抽一种颜色；空调色板返回白色
func (p Palette) Pick(rng *rand.Rand) colorful.Color {
	var total float64
	for _, s := range p {
		total += s.Chance
	}
	if total <= 0 {
		return colorful.Color{R: 1, G: 1, B: 1}
	}
	u := rng.Float64() * total
	for _, s := range p {
		if u < s.Chance {
			return s.Color
		}
		u -= s.Chance
	}
	return p[len(p)-1].Color
}

// Params 每个类别的生成与更新参数
type Params struct {
	Category Category
	Count    int

	Tree    layout.Sampler
	Scatter layout.Shell

	Scale        float64
	WeightBase   float64
	WeightJitter float64
	Palette      Palette

	// Rate 是平滑速度；装饰球的实际速度是 Weight*Rate
	Rate float64
}

// weight 基础值加一点随机抖动
func (p Params) weight(rng *rand.Rand) float64 {
	return p.WeightBase + rng.Float64()*p.WeightJitter
}

func mustHex(s string) colorful.Color {
	c, err := colorful.Hex(s)
	if err != nil {
		panic(err)
	}
	return c
}

// 树的几何尺寸
var (
	foliageCone  = layout.Cone{Bottom: -3.5, Height: 7, BaseRadius: 2.5}
	ornamentCone = layout.Cone{Bottom: -3.5, Height: 6.5, BaseRadius: 2.4 * 1.2}
)

// 颜色
var (
	Emerald      = colorful.Color{R: 0, G: 0.25, B: 0.15}
	Gold         = mustHex("#FFD700")
	DeepRed      = mustHex("#8B0000")
	DarkGreen    = mustHex("#006400")
	Goldenrod    = mustHex("#DAA520")
	Silver       = mustHex("#C0C0C0")
	LemonChiffon = mustHex("#FFFACD")
	Cream        = mustHex("#FFFDD0")
	CoreGreen    = mustHex("#001a10")
)

// FoliageParams 粒子树叶
func FoliageParams(count int) Params {
	return Params{
		Category: Foliage,
		Count:    count,
		Tree:     layout.TreeVolume{Cone: foliageCone, Heights: layout.Band{Min: -3.5, Max: 3.5}},
		Scatter:  layout.Shell{Radius: layout.Band{Min: 6, Max: 10}},
		Scale:    1,
		Rate:     1.5,
	}
}

// OrnamentParams 三种实例化装饰：盒子重、球居中、小星星轻
func OrnamentParams() []Params {
	tree := layout.TreeVolume{Cone: ornamentCone, Heights: layout.Band{Min: -3.2, Max: 3.0}, Inner: 0.8 / 1.2}
	scatter := layout.Shell{Radius: layout.Band{Min: 6, Max: 12}}

	return []Params{
		{
			Category: BoxOrnament, Count: 30, Tree: tree, Scatter: scatter,
			Scale: 0.25, WeightBase: 0.05, WeightJitter: 0.2, Rate: 8,
			Palette: Palette{{DeepRed, 0.5}, {Gold, 0.5}},
		},
		{
			Category: SphereOrnament, Count: 80, Tree: tree, Scatter: scatter,
			Scale: 0.2, WeightBase: 0.1, WeightJitter: 0.2, Rate: 8,
			Palette: Palette{{DarkGreen, 0.4}, {Goldenrod, 0.3}, {Silver, 0.3}},
		},
		{
			Category: StarOrnament, Count: 150, Tree: tree, Scatter: scatter,
			Scale: 0.08, WeightBase: 0.2, WeightJitter: 0.2, Rate: 8,
			Palette: Palette{{LemonChiffon, 1}},
		},
	}
}

// PhotoParams 照片框；树形位置走螺旋线，不用 Tree 采样器
func PhotoParams() Params {
	return Params{
		Category: PhotoFrame,
		Scatter:  layout.Shell{Radius: layout.Band{Min: 6, Max: 10}},
		Scale:    0.9,
		Rate:     2,
		Palette:  Palette{{Gold, 1}},
	}
}

// SlowestRate 所有元素里最慢的平滑速度（最轻的装饰盒），决定一次切换多久才算落定
func SlowestRate() float64 {
	slowest := math.Min(FoliageParams(0).Rate, PhotoParams().Rate)
	for _, p := range OrnamentParams() {
		slowest = math.Min(slowest, p.WeightBase*p.Rate)
	}
	return slowest
}

// photoSpiral n 张照片的螺旋排布
func photoSpiral(n int) layout.Spiral {
	return layout.Spiral{Count: n, Bottom: -2.5, Rise: 5.5, Cone: foliageCone, Offset: 0.6, Turns: 2}
}
