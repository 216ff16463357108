package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/olekukonko/tablewriter"

	"cargotrack/internal/client"
	"cargotrack/internal/report"
)

func main() {
	fs := flag.NewFlagSet("cargoctl", flag.ContinueOnError)

	var server string
	fs.StringVar(&server, "server", "http://localhost:8080", "")
	fs.StringVar(&server, "s", "http://localhost:8080", "")

	var token string
	fs.StringVar(&token, "token", "", "")
	fs.StringVar(&token, "t", "", "")

	fs.Usage = func() {
		fmt.Fprint(os.Stdout, `Usage: cargoctl [flags] <list|report>

Commands:
  list     print the container list
  report   print the transit status report

Flags:
  -s, -server <url>    server base URL (default: http://localhost:8080)
  -t, -token <token>   session token; without one, cargoctl logs in through
                       the server's local identity provider
  -h, -help            show this help and exit
`)
	}

	if err := fs.Parse(os.Args[1:]); err != nil {
		if err == flag.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	if fs.NArg() != 1 {
		fs.Usage()
		os.Exit(1)
	}

	ctx := context.Background()

	c, err := client.New(server)
	if err != nil {
		fatal(err)
	}

	if token != "" {
		if err := c.SetToken(token); err != nil {
			fatal(err)
		}
	} else if err := c.LoginDev(ctx); err != nil {
		fatal(err)
	}

	switch fs.Arg(0) {
	case "list":
		err = cmdList(ctx, c)
	case "report":
		err = cmdReport(ctx, c)
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", fs.Arg(0))
		fs.Usage()
		os.Exit(1)
	}
	if err != nil {
		fatal(err)
	}
}

func cmdList(ctx context.Context, c *client.Client) error {
	if err := c.Refresh(ctx); err != nil {
		return err
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"ID", "Container", "Route", "Status", "Expected arrival"})
	for _, ct := range c.Containers() {
		table.Append([]string{
			strconv.FormatInt(ct.ID, 10),
			ct.ContainerNumber,
			ct.DeparturePort + " -> " + ct.ArrivalPort,
			ct.Status,
			orDash(ct.ExpectedArrivalDate),
		})
	}
	table.Render()
	return nil
}

func cmdReport(ctx context.Context, c *client.Client) error {
	rep, err := c.Report(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("Transit report (generated %s)\n", rep.GeneratedAt.Format("2006-01-02 15:04"))
	fmt.Printf("Shipped: %d   In production: %d   Total: %d\n\n",
		rep.Stats.Shipped, rep.Stats.Production, rep.Stats.Total)

	fmt.Println("Shipped (departed / in transit)")
	renderEntries(rep.Shipped)

	fmt.Println("\nIn production (pending)")
	renderEntries(rep.Production)
	return nil
}

func renderEntries(entries []report.Entry) {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Container", "Route", "Expected", "Days to go", "Progress", "Urgency"})
	for _, e := range entries {
		days := "-"
		if e.DaysToArrival != nil {
			days = strconv.Itoa(*e.DaysToArrival)
		}
		table.Append([]string{
			e.Container.ContainerNumber,
			e.Container.DeparturePort + " -> " + e.Container.ArrivalPort,
			orDash(e.Container.ExpectedArrivalDate),
			days,
			fmt.Sprintf("%.0f%%", e.ProgressPercent),
			e.Urgency,
		})
	}
	table.Render()
}

func orDash(s *string) string {
	if s == nil || *s == "" {
		return "-"
	}
	return *s
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}
