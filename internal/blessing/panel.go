package blessing

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/rivo/uniseg"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// State 祝福面板的状态
type State int

const (
	Idle State = iota
	Pending
	Resolved
)

func (s State) String() string {
	switch s {
	case Pending:
		return "pending"
	case Resolved:
		return "resolved"
	}
	return "idle"
}

// Panel idle → pending → resolved。请求进行中不接受新的请求，这是界面层的禁用，不是排队。
type Panel struct {
	state State
	guest string
	text  string
}

func (p *Panel) State() State  { return p.state }
func (p *Panel) Guest() string { return p.guest }
func (p *Panel) Text() string  { return p.text }

// Begin 开始一次请求；空白名字或正在请求时返回 false
func (p *Panel) Begin(name string) bool {
	name = strings.TrimSpace(name)
	if name == "" || p.state == Pending {
		return false
	}
	p.state = Pending
	p.guest = DisplayName(name)
	p.text = ""
	return true
}

// Resolve 写入结果；只在 pending 时生效
func (p *Panel) Resolve(text string) {
	if p.state != Pending {
		return
	}
	p.state = Resolved
	p.text = text
}

// Reset 回到 idle
func (p *Panel) Reset() {
	*p = Panel{}
}

// DisplayName 名字按英文习惯首字母大写
func DisplayName(name string) string {
	return cases.Title(language.English).String(strings.TrimSpace(name))
}

// Wrap 按 Unicode 断行规则折行，每行显示宽度不超过 width
func Wrap(text string, width int) []string {
	if width <= 0 {
		return nil
	}
	var (
		lines []string
		line  strings.Builder
		lineW int
		state = -1
	)
	flush := func() {
		lines = append(lines, strings.TrimRight(line.String(), " "))
		line.Reset()
		lineW = 0
	}

	rest := text
	for len(rest) > 0 {
		var seg string
		var mustBreak bool
		seg, rest, mustBreak, state = uniseg.FirstLineSegmentInString(rest, state)

		trimmed := strings.TrimRight(seg, " \n\r")
		segW := uniseg.StringWidth(trimmed)
		if lineW > 0 && lineW+segW > width {
			flush()
		}
		if segW > width {
			// 整段比一行还宽（长网址之类）：按字素硬切
			for g, s := -1, trimmed; len(s) > 0; {
				var cluster string
				var w int
				cluster, s, w, g = uniseg.FirstGraphemeClusterInString(s, g)
				if lineW > 0 && lineW+w > width {
					flush()
				}
				line.WriteString(cluster)
				lineW += w
			}
			seg = seg[len(trimmed):]
		}
		line.WriteString(strings.TrimRight(seg, "\n\r"))
		lineW += uniseg.StringWidth(strings.TrimRight(seg, "\n\r"))

		if mustBreak && len(rest) > 0 {
			flush()
		}
	}
	if line.Len() > 0 || len(lines) == 0 {
		flush()
	}
	return lines
}

var (
	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#FFD700")).
			Padding(1, 3)

	cardTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFD700"))

	cardBodyStyle = lipgloss.NewStyle().
			Italic(true).
			Foreground(lipgloss.Color("#D1FAE5"))
)

// Card 非交互模式下打印到标准输出的祝福卡片
func Card(name, text string, width int) string {
	if width < 20 {
		width = 20
	}
	body := strings.Join(Wrap(text, width), "\n")
	title := cardTitleStyle.Render("✦ A blessing for " + DisplayName(name))
	return cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, title, "", cardBodyStyle.Render(body)))
}
