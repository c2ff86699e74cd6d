package mode

// DefaultPhotos 照片列表为空时使用的默认图片
var DefaultPhotos = []string{
	"https://images.unsplash.com/photo-1621112904887-419379ce6824?q=80&w=500&auto=format&fit=crop",
	"https://images.unsplash.com/photo-1525059337994-6f2a1311b4d4?q=80&w=500&auto=format&fit=crop",
	"https://images.unsplash.com/photo-1492684223066-81342ee5ff30?q=80&w=500&auto=format&fit=crop",
	"https://images.unsplash.com/photo-1507003211169-0a1dd7228f2d?q=80&w=500&auto=format&fit=crop",
	"https://images.unsplash.com/photo-1511632765486-a01980e01a18?q=80&w=500&auto=format&fit=crop",
	"https://images.unsplash.com/photo-1517248135467-4c7edcad34c4?q=80&w=500&auto=format&fit=crop",
}

// Controller 持有形态和照片列表。
// 只由主循环所在的 goroutine 读写，所以不加锁。
type Controller struct {
	mode       Mode
	photos     []string
	generation uint64
	observers  []func(Mode)
}

// NewController 初始形态由调用方给出（通常是 Tree），照片用默认列表
func NewController(initial Mode) *Controller {
	c := &Controller{mode: initial}
	c.SetPhotos(nil)
	return c
}

// Mode 只读访问
func (c *Controller) Mode() Mode {
	return c.mode
}

// SetMode 无条件覆盖，下一帧生效；值变化时通知观察者
func (c *Controller) SetMode(m Mode) {
	if m != Tree && m != Scattered {
		return
	}
	changed := m != c.mode
	c.mode = m
	if !changed {
		return
	}
	for _, fn := range c.observers {
		fn(m)
	}
}

// Toggle 切换到另一种形态并返回新值
func (c *Controller) Toggle() Mode {
	c.SetMode(c.mode.Toggle())
	return c.mode
}

// Subscribe 注册形态变化的回调
func (c *Controller) Subscribe(fn func(Mode)) {
	c.observers = append(c.observers, fn)
}

// SetPhotos 替换照片列表；空列表回落到默认列表。
// 每次调用都会让 Generation 前进，场景据此重建照片元素。
func (c *Controller) SetPhotos(refs []string) {
	if len(refs) == 0 {
		refs = DefaultPhotos
	}
	c.photos = append([]string(nil), refs...)
	c.generation++
}

// Photos 返回照片列表的副本
func (c *Controller) Photos() []string {
	return append([]string(nil), c.photos...)
}

// Generation 照片列表的版本号
func (c *Controller) Generation() uint64 {
	return c.generation
}
