package main

import (
	"github.com/gdamore/tcell/v2"
)

// promptKind 输入框的用途
type promptKind int

const (
	promptNone promptKind = iota
	promptBlessing
	promptPhotos
)

// 输入框标题
var promptLabels = map[promptKind]string{
	promptBlessing: "Who seeks the light?",
	promptPhotos:   "Photo paths or URLs (comma separated):",
}

// maxPromptRunes 输入长度上限
const maxPromptRunes = 512

// Prompt 单行输入框，只支持追加和退格
type Prompt struct {
	kind promptKind
	buf  []rune
}

func (p *Prompt) Open(k promptKind) {
	p.kind = k
	p.buf = p.buf[:0]
}

func (p *Prompt) Close() {
	p.kind = promptNone
	p.buf = p.buf[:0]
}

func (p *Prompt) Active() bool  { return p.kind != promptNone }
func (p *Prompt) Label() string { return promptLabels[p.kind] }
func (p *Prompt) Text() string  { return string(p.buf) }

// Handle 处理一次按键。回车时返回输入内容和用途，并关闭输入框
func (p *Prompt) Handle(ev *tcell.EventKey) (string, promptKind, bool) {
	switch ev.Key() {
	case tcell.KeyEnter:
		text, kind := p.Text(), p.kind
		p.Close()
		return text, kind, true
	case tcell.KeyEscape:
		p.Close()
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		if n := len(p.buf); n > 0 {
			p.buf = p.buf[:n-1]
		}
	case tcell.KeyCtrlU:
		p.buf = p.buf[:0]
	case tcell.KeyRune:
		if len(p.buf) < maxPromptRunes {
			p.buf = append(p.buf, ev.Rune())
		}
	}
	return "", promptNone, false
}
