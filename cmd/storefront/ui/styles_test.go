package ui

import (
	"strings"
	"testing"
	"time"

	"storefront/internal/config"
)

func TestDetectTheme(t *testing.T) {
	t.Setenv("COLORFGBG", "")

	t.Setenv("STOREFRONT_DARK_MODE", "1")
	if !DetectTheme().IsDark {
		t.Fatalf("expected dark theme when STOREFRONT_DARK_MODE=1")
	}

	t.Setenv("STOREFRONT_DARK_MODE", "")
	if DetectTheme().IsDark {
		t.Fatalf("expected light theme when STOREFRONT_DARK_MODE is unset")
	}

	t.Setenv("COLORFGBG", "15;0")
	if !DetectTheme().IsDark {
		t.Fatalf("expected dark theme for a black COLORFGBG background")
	}
}

func TestThemeFor(t *testing.T) {
	t.Setenv("COLORFGBG", "")
	t.Setenv("STOREFRONT_DARK_MODE", "")

	if !ThemeFor(config.ThemeDark).IsDark {
		t.Error("dark should be dark")
	}
	if ThemeFor(config.ThemeLight).IsDark {
		t.Error("light should be light")
	}
	if ThemeFor(config.ThemeAuto).IsDark {
		t.Error("auto should fall back to detection (light here)")
	}
}

func TestTable(t *testing.T) {
	table := NewTable("Cart", Text("Item"), Amount("Qty"))
	table.AddRow("Backpack", "12")
	table.AddRow("Tee", "1")
	table.Selected = 1

	view := table.View(NewStyles(LightTheme()))
	t.Logf("View:\n%q", view)

	for _, want := range []string{"Cart", "Item", "Backpack", "Tee", "12"} {
		if !strings.Contains(view, want) {
			t.Errorf("View missing %q", want)
		}
	}
	if table.Len() != 2 {
		t.Errorf("expected 2 rows, got %d", table.Len())
	}

	empty := NewTable("Nothing", Text("A"))
	if empty.View(DefaultStyles()) != "" {
		t.Error("empty table should render nothing")
	}
}

func TestTable_AlignmentAndTruncation(t *testing.T) {
	name := Text("Item")
	name.Max = 6
	table := NewTable("", name, Amount("Price"))
	table.AddRow("Fjallraven Backpack", "$109.95")
	table.AddRow("Tee", "$9.99")
	table.AddRow("Short row")

	view := table.View(DefaultStyles())
	if !strings.Contains(view, "Fjall…") {
		t.Errorf("long cell should be truncated to its column max:\n%s", view)
	}
	if strings.Contains(view, "Backpack") {
		t.Errorf("truncated text leaked into the view:\n%s", view)
	}
	// right alignment pads the shorter price on the left
	if !strings.Contains(view, "  $9.99") {
		t.Errorf("prices should sit flush right:\n%s", view)
	}
}

func TestResizeDebouncer(t *testing.T) {
	rd := NewResizeDebouncer(time.Millisecond)

	first := rd.Resize(80, 24)
	second := rd.Resize(100, 30)

	if rd.Settle(first().(ResizeSettledMsg)) {
		t.Error("superseded resize should not settle")
	}
	if !rd.Settle(second().(ResizeSettledMsg)) {
		t.Fatal("latest resize should settle")
	}

	pending := rd.Resize(10, 10)
	rd.Cancel()
	if rd.Settle(pending().(ResizeSettledMsg)) {
		t.Error("cancelled resize should not settle")
	}
}
