package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"storefront/internal/cart"
	"storefront/internal/catalog"
	"storefront/internal/logging"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

// Placeholders shown in place of the product listing and the cart.
const (
	FetchFailedText = "Failed to load products."
	EmptyCartText   = "Your cart is empty."
	LoadingText     = "Loading products..."
)

// Pane identifies which half of the screen has focus.
type Pane int

const (
	PaneProducts Pane = iota
	PaneCart
)

// Messages
type (
	catalogLoadedMsg struct{ catalog *catalog.Catalog }
	catalogFailedMsg struct{ err error }
)

// ShopOptions configures a ShopModel.
type ShopOptions struct {
	Engine         *cart.Engine
	Fetcher        catalog.Fetcher
	Styles         Styles
	PaneRatio      float64       // product pane share of the width
	ResizeDebounce time.Duration // zero uses DefaultResizeDuration
	Context        context.Context
}

// ShopModel is the interactive storefront: products on the left, the cart on
// the right. Key presses become cart intents dispatched to the engine.
type ShopModel struct {
	ctx     context.Context
	engine  *cart.Engine
	fetcher catalog.Fetcher
	catalog *catalog.Catalog

	styles   Styles
	keys     keyMap
	help     help.Model
	spinner  spinner.Model
	viewport viewport.Model
	renderer *glamour.TermRenderer
	resize   *ResizeDebouncer

	snapshot    cart.Snapshot
	loading     bool
	fetchFailed bool
	focus       Pane
	cursor      [2]int
	categories  []string
	category    string
	showDetail  bool
	paneRatio   float64
	width       int
	height      int
	ready       bool
}

// NewShopModel restores the cart from storage and builds the model. The
// restore finishes before any key press can dispatch a cart intent; the
// catalog fetch starts from Init.
func NewShopModel(opts ShopOptions) ShopModel {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	ratio := opts.PaneRatio
	if ratio <= 0 || ratio >= 1 {
		ratio = 0.6
	}

	opts.Engine.Restore(ctx)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = opts.Styles.Spinner

	return ShopModel{
		ctx:       ctx,
		engine:    opts.Engine,
		fetcher:   opts.Fetcher,
		styles:    opts.Styles,
		keys:      defaultKeyMap(),
		help:      help.New(),
		spinner:   sp,
		viewport:  viewport.New(80, 20),
		renderer:  newRenderer(opts.Styles.Theme, 76),
		resize:    NewResizeDebouncer(opts.ResizeDebounce),
		snapshot:  opts.Engine.Snapshot(),
		loading:   true,
		paneRatio: ratio,
		width:     80,
		height:    24,
	}
}

func newRenderer(theme Theme, wrap int) *glamour.TermRenderer {
	if wrap < 20 {
		wrap = 20
	}
	style := "light"
	if theme.IsDark {
		style = "dark"
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStylePath(style),
		glamour.WithWordWrap(wrap),
	)
	if err != nil {
		logging.Get(logging.CategoryUI).Warn("glamour renderer unavailable: %v", err)
		return nil
	}
	return r
}

// Init starts the spinner and the catalog fetch.
func (m ShopModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.fetchCmd())
}

func (m ShopModel) fetchCmd() tea.Cmd {
	fetcher, ctx := m.fetcher, m.ctx
	return func() tea.Msg {
		c, err := catalog.Load(ctx, fetcher)
		if err != nil {
			return catalogFailedMsg{err: err}
		}
		return catalogLoadedMsg{catalog: c}
	}
}

// Update handles messages.
func (m ShopModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		if !m.ready {
			m.ready = true
			m.applySize(msg.Width, msg.Height)
			return m, nil
		}
		return m, m.resize.Resize(msg.Width, msg.Height)

	case ResizeSettledMsg:
		if m.resize.Settle(msg) {
			m.applySize(msg.Width, msg.Height)
		}
		return m, nil

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case catalogLoadedMsg:
		m.loading = false
		m.fetchFailed = false
		m.catalog = msg.catalog
		m.categories = msg.catalog.Categories()
		logging.UI("Catalog ready: %d products, %d categories", m.catalog.Len(), len(m.categories))
		m.clampCursors()
		return m, nil

	case catalogFailedMsg:
		m.loading = false
		m.fetchFailed = true
		logging.Get(logging.CategoryUI).Warn("Catalog fetch failed: %v", msg.err)
		return m, nil
	}

	if m.showDetail {
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m ShopModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		m.resize.Cancel()
		return m, tea.Quit
	}

	if m.showDetail {
		switch {
		case key.Matches(msg, m.keys.Back), key.Matches(msg, m.keys.Detail):
			m.showDetail = false
			return m, nil
		}
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.SwitchPane):
		if m.focus == PaneProducts {
			m.focus = PaneCart
		} else {
			m.focus = PaneProducts
		}

	case key.Matches(msg, m.keys.Up):
		m.moveCursor(-1)

	case key.Matches(msg, m.keys.Down):
		m.moveCursor(1)

	case key.Matches(msg, m.keys.Add):
		if m.focus == PaneProducts {
			if id, ok := m.selectedID(); ok {
				m.dispatch(cart.Add(id))
			}
		}

	case key.Matches(msg, m.keys.Increment):
		if id, ok := m.selectedID(); ok {
			m.dispatch(cart.Increment(id))
		}

	case key.Matches(msg, m.keys.Decrement):
		if id, ok := m.selectedID(); ok {
			m.dispatch(cart.Decrement(id))
		}

	case key.Matches(msg, m.keys.Remove):
		if id, ok := m.selectedID(); ok {
			m.dispatch(cart.Remove(id))
		}

	case key.Matches(msg, m.keys.Category):
		m.cycleCategory()

	case key.Matches(msg, m.keys.Detail):
		if p, ok := m.selectedProduct(); ok {
			m.viewport.SetContent(m.renderDetail(p))
			m.viewport.GotoTop()
			m.showDetail = true
		}
	}

	return m, nil
}

func (m *ShopModel) dispatch(in cart.Intent) {
	logging.UIDebug("Intent %s %s", in.Action, in.ProductID)
	m.engine.Dispatch(m.ctx, in, m.catalog)
	m.snapshot = m.engine.Snapshot()
	m.clampCursors()
}

func (m *ShopModel) cycleCategory() {
	if len(m.categories) == 0 {
		return
	}
	next := ""
	if m.category == "" {
		next = m.categories[0]
	} else {
		for i, c := range m.categories {
			if c == m.category && i+1 < len(m.categories) {
				next = m.categories[i+1]
				break
			}
		}
	}
	m.category = next
	m.cursor[PaneProducts] = 0
}

func (m *ShopModel) applySize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width - 4
	m.viewport.Height = height - 6
	if m.viewport.Height < 3 {
		m.viewport.Height = 3
	}
	m.help.Width = width
	m.renderer = newRenderer(m.styles.Theme, width-8)
}

func (m *ShopModel) moveCursor(delta int) {
	n := m.paneLen(m.focus)
	if n == 0 {
		m.cursor[m.focus] = 0
		return
	}
	c := m.cursor[m.focus] + delta
	if c < 0 {
		c = 0
	}
	if c >= n {
		c = n - 1
	}
	m.cursor[m.focus] = c
}

func (m *ShopModel) clampCursors() {
	for _, p := range []Pane{PaneProducts, PaneCart} {
		n := m.paneLen(p)
		if m.cursor[p] >= n {
			m.cursor[p] = n - 1
		}
		if m.cursor[p] < 0 {
			m.cursor[p] = 0
		}
	}
}

func (m ShopModel) paneLen(p Pane) int {
	if p == PaneCart {
		return len(m.snapshot.Lines)
	}
	return len(m.visibleProducts())
}

func (m ShopModel) visibleProducts() []catalog.Product {
	return m.catalog.Filter(m.category)
}

// selectedProduct returns the product under the cursor of the focused pane.
func (m ShopModel) selectedProduct() (catalog.Product, bool) {
	if m.focus == PaneCart {
		lines := m.snapshot.Lines
		i := m.cursor[PaneCart]
		if i < 0 || i >= len(lines) {
			return catalog.Product{}, false
		}
		return lines[i].Product, true
	}
	products := m.visibleProducts()
	i := m.cursor[PaneProducts]
	if i < 0 || i >= len(products) {
		return catalog.Product{}, false
	}
	return products[i], true
}

func (m ShopModel) selectedID() (catalog.ID, bool) {
	p, ok := m.selectedProduct()
	return p.ID, ok
}

// Focus returns the focused pane.
func (m ShopModel) Focus() Pane { return m.focus }

// Category returns the active category filter ("" for all).
func (m ShopModel) Category() string { return m.category }

// Snapshot returns the cart state the model last rendered.
func (m ShopModel) Snapshot() cart.Snapshot { return m.snapshot }

// =============================================================================
// VIEW
// =============================================================================

// View renders the storefront.
func (m ShopModel) View() string {
	header := m.styles.Header.Width(m.width).Render(
		fmt.Sprintf("storefront  ·  %d items  ·  Total: $%s", m.snapshot.Count, m.snapshot.FormatTotal()))

	var body string
	if m.showDetail {
		body = m.viewport.View()
	} else {
		leftW := int(float64(m.width) * m.paneRatio)
		rightW := m.width - leftW
		bodyH := m.height - 4
		left := m.paneStyle(PaneProducts).Width(leftW - 2).Height(bodyH - 2).Render(m.productsView(leftW-4, bodyH-4))
		right := m.paneStyle(PaneCart).Width(rightW - 2).Height(bodyH - 2).Render(m.cartView(rightW - 4))
		body = lipgloss.JoinHorizontal(lipgloss.Top, left, right)
	}

	footer := m.styles.Footer.Render(m.help.View(m.keys))
	return lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
}

func (m ShopModel) paneStyle(p Pane) lipgloss.Style {
	if m.focus == p {
		return m.styles.PaneFocused
	}
	return m.styles.PaneBlurred
}

func (m ShopModel) productsView(width, height int) string {
	var sb strings.Builder

	title := "Products"
	if m.category != "" {
		title += "  " + m.styles.Badge.Render(m.category)
	}
	sb.WriteString(m.styles.Title.Render(title))
	sb.WriteString("\n")

	switch {
	case m.loading:
		sb.WriteString(m.spinner.View() + " " + m.styles.Muted.Render(LoadingText))
		return sb.String()
	case m.fetchFailed:
		sb.WriteString(m.styles.Error.Render(FetchFailedText))
		return sb.String()
	}

	products := m.visibleProducts()
	if len(products) == 0 {
		sb.WriteString(m.styles.Muted.Render("No products."))
		return sb.String()
	}

	titleW := width - 24
	if titleW < 10 {
		titleW = 10
	}
	start, end := visibleRange(m.cursor[PaneProducts], len(products), height-3)

	name := Text("Product")
	name.Max = titleW
	table := NewTable("", name, Amount("Price"), Amount("In cart"))
	for i := start; i < end; i++ {
		p := products[i]
		qty := ""
		if l, ok := m.lineFor(p.ID); ok {
			qty = fmt.Sprintf("×%d", l.Quantity)
		}
		table.AddRow(p.Title, "$"+p.FormatPrice(), qty)
	}
	if m.focus == PaneProducts {
		table.Selected = m.cursor[PaneProducts] - start
	}
	sb.WriteString(table.View(m.styles))
	return sb.String()
}

func (m ShopModel) cartView(width int) string {
	var sb strings.Builder
	sb.WriteString(m.styles.Title.Render("Cart"))
	sb.WriteString("\n")

	if m.snapshot.Empty() {
		sb.WriteString(m.styles.Muted.Render(EmptyCartText))
		sb.WriteString("\n\n")
		sb.WriteString(m.styles.Price.Render(FormatTotalLine(m.snapshot)))
		return sb.String()
	}

	titleW := width - 28
	if titleW < 8 {
		titleW = 8
	}
	item := Text("Item")
	item.Max = titleW
	table := NewTable("", item, Amount("Qty"), Amount("Price"))
	for _, l := range m.snapshot.Lines {
		table.AddRow(l.Title, fmt.Sprintf("%d", l.Quantity), "$"+l.FormatPrice())
	}
	if m.focus == PaneCart {
		table.Selected = m.cursor[PaneCart]
	}
	sb.WriteString(table.View(m.styles))
	sb.WriteString("\n")
	sb.WriteString(m.styles.Price.Render(FormatTotalLine(m.snapshot)))
	return sb.String()
}

func (m ShopModel) lineFor(id catalog.ID) (cart.Line, bool) {
	for _, l := range m.snapshot.Lines {
		if l.ID == id {
			return l, true
		}
	}
	return cart.Line{}, false
}

func (m ShopModel) renderDetail(p catalog.Product) string {
	md := ProductMarkdown(p)
	if m.renderer == nil {
		return md
	}
	out, err := m.renderer.Render(md)
	if err != nil {
		logging.Get(logging.CategoryUI).Warn("detail render failed: %v", err)
		return md
	}
	return out
}

// ProductMarkdown describes a product as markdown for the detail view.
func ProductMarkdown(p catalog.Product) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n\n", p.Title)
	fmt.Fprintf(&sb, "**$%s** · _%s_\n\n", p.FormatPrice(), p.Category)
	if p.Rating.Count > 0 {
		fmt.Fprintf(&sb, "Rated %.1f / 5 by %d customers\n\n", p.Rating.Rate, p.Rating.Count)
	}
	if p.Description != "" {
		sb.WriteString(p.Description)
		sb.WriteString("\n\n")
	}
	if p.Image != "" {
		fmt.Fprintf(&sb, "Image: %s\n", p.Image)
	}
	return sb.String()
}

// FormatTotalLine renders "Total: $X.YY".
func FormatTotalLine(s cart.Snapshot) string {
	return "Total: $" + s.FormatTotal()
}

// visibleRange returns the [start, end) window of n rows that keeps cursor
// on screen within height rows.
func visibleRange(cursor, n, height int) (int, int) {
	if height < 1 {
		height = 1
	}
	if n <= height {
		return 0, n
	}
	start := cursor - height/2
	if start < 0 {
		start = 0
	}
	if start+height > n {
		start = n - height
	}
	return start, start + height
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 1 {
		return string(r[:n])
	}
	return string(r[:n-1]) + "…"
}
