package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"text/tabwriter"

	"github.com/nikolayk812/extract-cart/internal/catalog"
	"github.com/nikolayk812/extract-cart/internal/config"
	"github.com/nikolayk812/extract-cart/internal/repository"
	"github.com/spf13/cobra"
)

type rootFlags struct {
	configPath   string
	session      string
	storage      string
	logLevel     string
	printMetrics bool
}

func rootCmd() *cobra.Command {
	var flags rootFlags

	cmd := &cobra.Command{
		Use:   "cartctl",
		Short: "Inspect and change a storefront session cart",
		Long: `Inspect and change a storefront session cart.

Each command loads the cart for the session from its storage, applies
one operation and persists the result.

Examples:
  cartctl products
  cartctl add 6f1c1f0e-6a51-4d59-a0b5-5a2b1e0e7c01
  cartctl qty 6f1c1f0e-6a51-4d59-a0b5-5a2b1e0e7c01 3
  cartctl show --session tab-2
`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&flags.configPath, "config", "", "Config file (default ./cartctl.yaml if present)")
	cmd.PersistentFlags().StringVar(&flags.session, "session", "", "Session id, overrides config")
	cmd.PersistentFlags().StringVar(&flags.storage, "storage", "", "Session storage: memory, file or postgres")
	cmd.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	cmd.PersistentFlags().BoolVar(&flags.printMetrics, "metrics", false, "Print cart metrics after the command")

	cmd.AddCommand(
		productsCmd(&flags),
		showCmd(&flags),
		addCmd(&flags),
		removeCmd(&flags),
		qtyCmd(&flags),
		clearCmd(&flags),
		importCmd(&flags),
	)

	return cmd
}

func productsCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "products",
		Short: "List the catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, flags, func(ctx context.Context, a *app) error {
				products, err := a.catalog.ListProducts(ctx)
				if err != nil {
					return fmt.Errorf("catalog.ListProducts: %w", err)
				}

				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(w, "ID\tNAME\tPRICE\tORIGIN")
				for _, p := range products {
					fmt.Fprintf(w, "%s\t%s\t%s %s\t%s\n", p.ID, p.Name, p.Price, p.Currency, p.Origin)
				}
				return w.Flush()
			})
		},
	}
}

func showCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the cart",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, flags, func(ctx context.Context, a *app) error {
				return printCart(cmd.OutOrStdout(), a)
			})
		},
	}
}

func addCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "add <product-id>",
		Short: "Add one unit of a product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, flags, func(ctx context.Context, a *app) error {
				product, err := a.catalog.GetProduct(ctx, args[0])
				if err != nil {
					return fmt.Errorf("catalog.GetProduct: %w", err)
				}

				a.store.AddItem(ctx, product)
				return printCart(cmd.OutOrStdout(), a)
			})
		},
	}
}

func removeCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <product-id>",
		Short: "Remove a product line",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, flags, func(ctx context.Context, a *app) error {
				a.store.RemoveItem(ctx, args[0])
				return printCart(cmd.OutOrStdout(), a)
			})
		},
	}
}

func qtyCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "qty <product-id> <quantity>",
		Short: "Set the quantity of a line; below 1 removes it",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			quantity, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("quantity[%s] is not an integer: %w", args[1], err)
			}

			return withApp(cmd, flags, func(ctx context.Context, a *app) error {
				a.store.UpdateQuantity(ctx, args[0], quantity)
				return printCart(cmd.OutOrStdout(), a)
			})
		},
	}
}

func clearCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Empty the cart",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, flags, func(ctx context.Context, a *app) error {
				a.store.ClearCart(ctx)
				return printCart(cmd.OutOrStdout(), a)
			})
		},
	}
}

func importCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "import <catalog.yaml>",
		Short: "Load a YAML catalog into the postgres catalog",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source, err := catalog.LoadFile(args[0])
			if err != nil {
				return fmt.Errorf("catalog.LoadFile: %w", err)
			}

			return withApp(cmd, flags, func(ctx context.Context, a *app) error {
				if a.pool == nil {
					return fmt.Errorf("import needs catalog.source %s", config.CatalogPostgres)
				}

				products, err := source.ListProducts(ctx)
				if err != nil {
					return fmt.Errorf("source.ListProducts: %w", err)
				}

				n, err := repository.NewCatalog(a.pool).AddProducts(ctx, products)
				if err != nil {
					return fmt.Errorf("AddProducts: %w", err)
				}

				fmt.Fprintf(cmd.OutOrStdout(), "imported %d products\n", n)
				return nil
			})
		},
	}
}

func withApp(cmd *cobra.Command, flags *rootFlags, fn func(ctx context.Context, a *app) error) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(flags.configPath)
	if err != nil {
		return fmt.Errorf("config.Load: %w", err)
	}

	if flags.session != "" {
		cfg.Session.ID = flags.session
	}
	if flags.storage != "" {
		cfg.Session.Storage = flags.storage
	}
	if flags.logLevel != "" {
		cfg.App.LogLevel = flags.logLevel
	}

	a, err := newApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := fn(ctx, a); err != nil {
		return err
	}

	if flags.printMetrics {
		return printMetrics(cmd.OutOrStdout(), a)
	}

	return nil
}

func printCart(out io.Writer, a *app) error {
	items := a.store.Items()
	if len(items) == 0 {
		_, err := fmt.Fprintln(out, "cart is empty")
		return err
	}

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "PRODUCT\tNAME\tPRICE\tQTY")
	for _, item := range items {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\n", item.Product.ID, item.Product.Name, item.Product.Price, item.Quantity)
	}
	fmt.Fprintf(w, "\t\tTOTAL %s\t%d\n", a.store.Total(), a.store.TotalItems())

	return w.Flush()
}

func printMetrics(out io.Writer, a *app) error {
	families, err := a.registry.Gather()
	if err != nil {
		return fmt.Errorf("registry.Gather: %w", err)
	}

	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			switch {
			case m.GetGauge() != nil:
				fmt.Fprintf(out, "%s %g\n", mf.GetName(), m.GetGauge().GetValue())
			case m.GetCounter() != nil:
				fmt.Fprintf(out, "%s %g\n", mf.GetName(), m.GetCounter().GetValue())
			}
		}
	}

	return nil
}
