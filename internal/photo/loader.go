// Package photo 把照片（本地路径或网址）读成小尺寸缩略图，供终端里的相框显示
package photo

import (
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/nfnt/resize"
)

// 缩略图尺寸：宽 12 像素、高 16 像素（终端里用半块字符，一格两像素）
const (
	ThumbWidth  = 12
	ThumbHeight = 16
)

// maxDownload 网络图片的大小上限
const maxDownload = 16 << 20

// Thumbnail 缩略图像素，按行存储
type Thumbnail struct {
	Ref    string
	Width  int
	Height int
	Pixels []colorful.Color
}

// At 越界时取最近的边缘像素
func (t *Thumbnail) At(x, y int) colorful.Color {
	if t == nil || t.Width == 0 || t.Height == 0 {
		return colorful.Color{}
	}
	x = min(max(x, 0), t.Width-1)
	y = min(max(y, 0), t.Height-1)
	return t.Pixels[y*t.Width+x]
}

// Result 一次加载的结果；Err 非空时 Thumb 为 nil
type Result struct {
	Index      int
	Generation uint64
	Thumb      *Thumbnail
	Err        error
}

// Loader 读取并缩放照片
type Loader struct {
	client *http.Client
	log    *slog.Logger
}

func NewLoader(log *slog.Logger) *Loader {
	if log == nil {
		log = slog.Default()
	}
	return &Loader{client: &http.Client{Timeout: 20 * time.Second}, log: log}
}

// Load 读取一张照片并缩放成缩略图
func (l *Loader) Load(ctx context.Context, ref string) (*Thumbnail, error) {
	rc, err := l.open(ctx, ref)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	img, format, err := image.Decode(rc)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", ref, err)
	}
	l.log.Debug("photo decoded", "ref", ref, "format", format, "size", img.Bounds().Size())
	return FromImage(ref, img), nil
}

// LoadAll 每张照片一个 goroutine 并行加载，各自完成后调用 done。
// done 在加载 goroutine 里执行，可能并发调用，调用方负责把结果转交给主循环。
func (l *Loader) LoadAll(ctx context.Context, gen uint64, refs []string, done func(Result)) {
	for i, ref := range refs {
		go func() {
			if ctx.Err() != nil {
				return
			}
			thumb, err := l.Load(ctx, ref)
			if err != nil {
				l.log.Warn("photo load failed", "ref", ref, "err", err)
			}
			done(Result{Index: i, Generation: gen, Thumb: thumb, Err: err})
		}()
	}
}

func (l *Loader) open(ctx context.Context, ref string) (io.ReadCloser, error) {
	if !strings.HasPrefix(ref, "http://") && !strings.HasPrefix(ref, "https://") {
		f, err := os.Open(ref)
		if err != nil {
			return nil, fmt.Errorf("open photo: %w", err)
		}
		return f, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ref, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch photo: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("fetch photo %s: status %s", ref, resp.Status)
	}
	return struct {
		io.Reader
		io.Closer
	}{io.LimitReader(resp.Body, maxDownload), resp.Body}, nil
}

// FromImage 居中裁成相框比例后缩放
func FromImage(ref string, img image.Image) *Thumbnail {
	img = cropToAspect(img, ThumbWidth, ThumbHeight)
	small := resize.Resize(ThumbWidth, ThumbHeight, img, resize.Bilinear)

	b := small.Bounds()
	t := &Thumbnail{Ref: ref, Width: b.Dx(), Height: b.Dy(), Pixels: make([]colorful.Color, b.Dx()*b.Dy())}
	for y := 0; y < t.Height; y++ {
		for x := 0; x < t.Width; x++ {
			c, _ := colorful.MakeColor(small.At(b.Min.X+x, b.Min.Y+y))
			t.Pixels[y*t.Width+x] = c
		}
	}
	return t
}

type subImager interface {
	SubImage(r image.Rectangle) image.Image
}

func cropToAspect(img image.Image, w, h int) image.Image {
	si, ok := img.(subImager)
	if !ok {
		return img
	}
	b := img.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		return img
	}
	want := float64(w) / float64(h)
	have := float64(b.Dx()) / float64(b.Dy())

	r := b
	if have > want {
		cw := int(float64(b.Dy()) * want)
		r.Min.X = b.Min.X + (b.Dx()-cw)/2
		r.Max.X = r.Min.X + cw
	} else if have < want {
		ch := int(float64(b.Dx()) / want)
		r.Min.Y = b.Min.Y + (b.Dy()-ch)/2
		r.Max.Y = r.Min.Y + ch
	}
	return si.SubImage(r)
}
