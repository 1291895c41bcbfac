package cli

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"text/tabwriter"
	"time"

	"github.com/dmitrijs2005/portfoliorisk/internal/client/apiclient"
	"github.com/dmitrijs2005/portfoliorisk/internal/common"
)

// Analyze starts a factor regression. Up to two dates may be given, start
// first; omitted ones use the server defaults.
func (a *App) Analyze(ctx context.Context, args []string) error {
	if len(args) > 2 {
		return fmt.Errorf("usage: run [startDate] [endDate]")
	}
	for _, d := range args {
		if _, err := time.Parse(common.DateLayout, d); err != nil {
			return fmt.Errorf("invalid date %q, expected YYYY-MM-DD", d)
		}
	}

	var start, end string
	if len(args) > 0 {
		start = args[0]
	}
	if len(args) > 1 {
		end = args[1]
	}

	res, err := a.api.RunAnalysis(ctx, start, end)
	if err != nil {
		return err
	}
	return a.printAnalysis(res)
}

func (a *App) History(ctx context.Context) error {
	list, err := a.api.History(ctx)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		fmt.Fprintln(a.out, "No analyses yet")
		return nil
	}

	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tDATE\tALPHA\tBETA MKT\tR2")
	for _, r := range list {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", r.ID, r.AnalysisDate.Format(time.DateTime),
			r.Alpha.String(), r.BetaMkt.String(), r.RSquared.String())
	}
	return tw.Flush()
}

func (a *App) Show(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: show <id>")
	}
	res, err := a.api.Analysis(ctx, args[0])
	if err != nil {
		return err
	}
	return a.printAnalysis(res)
}

func (a *App) printAnalysis(r *apiclient.Analysis) error {
	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "id\t%s\n", r.ID)
	fmt.Fprintf(tw, "date\t%s\n", r.AnalysisDate.Format(time.DateTime))
	fmt.Fprintf(tw, "alpha\t%s\n", r.Alpha.String())
	fmt.Fprintf(tw, "beta mkt\t%s\n", r.BetaMkt.String())
	fmt.Fprintf(tw, "beta smb\t%s\n", r.BetaSmb.String())
	fmt.Fprintf(tw, "beta hml\t%s\n", r.BetaHml.String())
	fmt.Fprintf(tw, "beta rmw\t%s\n", r.BetaRmw.String())
	fmt.Fprintf(tw, "beta cma\t%s\n", r.BetaCma.String())
	fmt.Fprintf(tw, "r squared\t%s\n", r.RSquared.String())
	for _, k := range slices.Sorted(maps.Keys(r.TStats)) {
		v := r.TStats[k]
		fmt.Fprintf(tw, "t(%s)\t%s\n", k, v.String())
	}
	return tw.Flush()
}
