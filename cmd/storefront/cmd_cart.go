package main

import (
	"fmt"
	"io"

	"storefront/cmd/storefront/ui"
	"storefront/internal/cart"
	"storefront/internal/catalog"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func cliStyles() ui.Styles {
	return ui.NewStyles(ui.ThemeFor(cfg.UI.Theme))
}

// runProducts fetches the catalog and prints it as a table.
func runProducts(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext(cmd)
	defer cancel()

	sess, err := openSession(ctx, cfg)
	if err != nil {
		return err
	}
	defer sess.Close()

	c, err := catalog.Load(ctx, sess.fetcher)
	out := cmd.OutOrStdout()
	if err != nil {
		logger.Warn("catalog fetch failed", zap.Error(err))
		fmt.Fprintln(out, ui.FetchFailedText)
		return nil
	}

	category, _ := cmd.Flags().GetString("category")
	products := c.Filter(category)
	if len(products) == 0 {
		fmt.Fprintf(out, "No products in category %q. Categories: %v\n", category, c.Categories())
		return nil
	}

	title := "Products"
	if category != "" {
		title = fmt.Sprintf("Products (%s)", category)
	}
	table := ui.NewTable(title, ui.Amount("ID"), ui.Text("Title"), ui.Amount("Price"), ui.Text("Category"))
	for _, p := range products {
		table.AddRow(p.ID.String(), p.Title, "$"+p.FormatPrice(), p.Category)
	}
	fmt.Fprint(out, table.View(cliStyles()))
	return nil
}

// runCart prints the saved cart.
func runCart(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext(cmd)
	defer cancel()

	sess, err := openSession(ctx, cfg)
	if err != nil {
		return err
	}
	defer sess.Close()

	if err := sess.load(ctx, false); err != nil {
		return err
	}
	printCart(cmd.OutOrStdout(), sess.engine.Snapshot())
	return nil
}

// runTotal prints only the total line.
func runTotal(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext(cmd)
	defer cancel()

	sess, err := openSession(ctx, cfg)
	if err != nil {
		return err
	}
	defer sess.Close()

	if err := sess.load(ctx, false); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), ui.FormatTotalLine(sess.engine.Snapshot()))
	return nil
}

// intentFor maps a subcommand to its cart intent.
func intentFor(name string, id catalog.ID) (cart.Intent, error) {
	switch name {
	case "add":
		return cart.Add(id), nil
	case "inc":
		return cart.Increment(id), nil
	case "dec":
		return cart.Decrement(id), nil
	case "remove", "rm":
		return cart.Remove(id), nil
	default:
		return cart.Intent{}, fmt.Errorf("unknown cart command: %s", name)
	}
}

// runIntent applies one add/inc/dec/remove against the saved cart and
// prints the result.
func runIntent(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext(cmd)
	defer cancel()

	in, err := intentFor(cmd.Name(), catalog.ID(args[0]))
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	// Restore also signals OnChange; only the mutation should print.
	armed, changed := false, false
	sess, err := openSession(ctx, cfg, cart.OnChange(func(s cart.Snapshot) {
		if !armed {
			return
		}
		changed = true
		printCart(out, s)
	}))
	if err != nil {
		return err
	}
	defer sess.Close()

	if err := sess.load(ctx, in.Action == cart.ActionAdd); err != nil {
		return err
	}
	armed = true

	if sess.fetchErr != nil {
		fmt.Fprintln(out, ui.FetchFailedText)
	}

	logger.Debug("dispatching", zap.Stringer("action", in.Action), zap.String("id", in.ProductID.String()))
	sess.engine.Dispatch(ctx, in, sess.catalog)

	if !changed {
		fmt.Fprintf(out, "No change: product %s is not available.\n", in.ProductID)
		printCart(out, sess.engine.Snapshot())
	}
	return nil
}

func printCart(w io.Writer, s cart.Snapshot) {
	if s.Empty() {
		fmt.Fprintln(w, ui.EmptyCartText)
		fmt.Fprintln(w, ui.FormatTotalLine(s))
		return
	}

	table := ui.NewTable("Cart", ui.Amount("ID"), ui.Text("Title"), ui.Amount("Qty"), ui.Amount("Price"), ui.Amount("Subtotal"))
	for _, l := range s.Lines {
		table.AddRow(l.ID.String(), l.Title, fmt.Sprintf("%d", l.Quantity), "$"+l.FormatPrice(), "$"+l.Subtotal().StringFixed(2))
	}
	fmt.Fprint(w, table.View(cliStyles()))
	fmt.Fprintln(w, ui.FormatTotalLine(s))
}
