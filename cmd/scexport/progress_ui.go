package main

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/John-Robertt/scexport/internal/app/export"
	"github.com/John-Robertt/scexport/internal/config"
	"github.com/John-Robertt/scexport/internal/domain"
	"github.com/John-Robertt/scexport/internal/provider"
)

var _ export.Observer = (*progressUI)(nil)

// progressUI 是面向人的控制台输出：每个请求一个点，结束时一行结论。
//
// 只有 w 是交互终端时才上色；管道/文件里保持纯文本。
type progressUI struct {
	w io.Writer

	mu       sync.Mutex
	dotsOpen bool // 当前行是否还挂着进度点（需要先换行再输出诊断）

	color bool
	ok    lipgloss.Style
	bad   lipgloss.Style
	hint  lipgloss.Style
}

func newProgressUI(w io.Writer, color bool) *progressUI {
	p := &progressUI{w: w, color: color}
	if color {
		r := lipgloss.NewRenderer(w)
		p.ok = r.NewStyle().Foreground(lipgloss.Color("2")).Bold(true)
		p.bad = r.NewStyle().Foreground(lipgloss.Color("1"))
		p.hint = r.NewStyle().Foreground(lipgloss.Color("3"))
	}
	return p
}

func (p *progressUI) Banner() {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintln(p.w, "SensCritique Exporter")
	fmt.Fprintln(p.w, strings.Repeat("-", 40))
}

func (p *progressUI) OnStart(eff config.EffectiveConfig) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintf(p.w, "Fetching movies for user: %s...\n", eff.Username)
}

func (p *progressUI) OnPageStart(offset int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprint(p.w, ".")
	p.dotsOpen = true
}

// OnPageDone 不输出：每页的点已在 OnPageStart 打出。
func (p *progressUI) OnPageDone(offset, items int, total *int, dur time.Duration) {}

func (p *progressUI) OnAbort(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closeDotsLocked()

	fmt.Fprintln(p.w, p.render(p.bad, err.Error()))
	switch {
	case export.Classify(err) == domain.ErrCodeCanceled:
		fmt.Fprintln(p.w, p.render(p.bad, "Interrupted."))
	case provider.IsTransport(err):
		fmt.Fprintln(p.w, p.render(p.bad, "Error fetching data."))
	}
}

// Finish 输出最终结论（成功行 / 空结果指引 / 写盘失败）。
func (p *progressUI) Finish(rr domain.ExportReport) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closeDotsLocked()

	switch {
	case rr.Exported == 0:
		fmt.Fprintln(p.w, p.render(p.hint, "No rated movies found. The profile might be private or contain no ratings."))
		fmt.Fprintln(p.w, p.render(p.hint, "Try adding ratings to your movies on SensCritique first."))
		fmt.Fprintf(p.w, "No movies found for user %s\n", rr.Username)
	case rr.WriteError != "":
		fmt.Fprintln(p.w, p.render(p.bad, fmt.Sprintf("✗ Failed to write %s: %s", rr.Output, rr.WriteError)))
	default:
		fmt.Fprintln(p.w, p.render(p.ok, fmt.Sprintf("✓ Exported %d movies to %s", rr.Exported, rr.Output)))
		if rr.Status == domain.StatusPartial {
			fmt.Fprintln(p.w, p.render(p.hint, fmt.Sprintf("(partial export: stopped after %d page(s); %s)", rr.Pages, rr.ErrorCode)))
		}
	}
}

func (p *progressUI) closeDotsLocked() {
	if p.dotsOpen {
		fmt.Fprintln(p.w)
		p.dotsOpen = false
	}
}

func (p *progressUI) render(s lipgloss.Style, text string) string {
	if !p.color {
		return text
	}
	return s.Render(text)
}
