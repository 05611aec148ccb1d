package main

import (
	"fmt"

	"storefront/cmd/storefront/ui"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

// runShop opens the interactive storefront.
func runShop(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext(cmd)
	defer cancel()

	sess, err := openSession(ctx, cfg)
	if err != nil {
		return err
	}
	defer sess.Close()

	model := ui.NewShopModel(ui.ShopOptions{
		Engine:         sess.engine,
		Fetcher:        sess.fetcher,
		Styles:         ui.NewStyles(ui.ThemeFor(cfg.UI.Theme)),
		PaneRatio:      cfg.UI.CartPaneRatio,
		ResizeDebounce: cfg.UI.GetResizeDebounce(),
		Context:        ctx,
	})

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("storefront UI failed: %w", err)
	}
	return nil
}
