package cli

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/shopspring/decimal"
)

func (a *App) List(ctx context.Context) error {
	list, err := a.api.Holdings(ctx)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		fmt.Fprintln(a.out, "No holdings")
		return nil
	}

	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTICKER\tQUANTITY")
	for _, h := range list {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", h.ID, h.Ticker, h.Quantity.String())
	}
	return tw.Flush()
}

func (a *App) Add(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: add <ticker> <quantity>")
	}
	qty, err := parseQuantity(args[1])
	if err != nil {
		return err
	}

	h, err := a.api.AddHolding(ctx, args[0], qty)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Added %s %s (%s)\n", h.Ticker, h.Quantity.String(), h.ID)
	return nil
}

func (a *App) Update(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: update <id> <quantity>")
	}
	qty, err := parseQuantity(args[1])
	if err != nil {
		return err
	}

	h, err := a.api.UpdateHolding(ctx, args[0], qty)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Updated %s to %s\n", h.Ticker, h.Quantity.String())
	return nil
}

func (a *App) Delete(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: delete <id>")
	}
	if err := a.api.DeleteHolding(ctx, args[0]); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Deleted")
	return nil
}

func parseQuantity(s string) (decimal.Decimal, error) {
	q, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid quantity %q", s)
	}
	return q, nil
}
