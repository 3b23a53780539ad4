package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"catalog-mirror/core/reconcile"
	"catalog-mirror/core/storage"
	"catalog-mirror/feature/catalog/syncer"

	"github.com/dustin/go-humanize"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	syncArtists  []int64
	syncPrefetch bool
	syncNoBar    bool
)

// syncCmd runs a reconciliation from the command line.
var syncCmd = &cobra.Command{
	Use:   "sync [all|artists|items|orders]",
	Short: "Reconcile the local mirror with the remote catalog",
	Long: `Fetches artists, offers and orders from the remote API and reconciles them into the
local database. Items no longer offered are removed once their artist is fully fetched.

Examples:
  # Full run
  sync

  # Items of two artists only, read from storage snapshots where present
  sync items --artist 7 --artist 9 --prefetch`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		arg := ""
		if len(args) > 0 {
			arg = args[0]
		}
		scope, ok := reconcile.ParseScope(arg)
		if !ok {
			return fmt.Errorf("unknown scope %q", arg)
		}

		e, err := setup()
		if err != nil {
			return err
		}
		defer e.log.Sync()

		if syncPrefetch {
			e.cfg.Sync.Prefetch = true
		}
		var store storage.Client
		if e.cfg.Sync.Prefetch || e.cfg.Sync.Snapshot {
			if store, err = storage.NewClient(e.cfg.Storage); err != nil {
				return fmt.Errorf("failed to create storage client: %w", err)
			}
		}

		engine, err := e.newSyncer(store)
		if err != nil {
			return err
		}

		var bar *progressbar.ProgressBar
		if !syncNoBar {
			bar = progressbar.NewOptions(-1,
				progressbar.OptionSetDescription("Syncing"),
				progressbar.OptionSetWidth(40),
				progressbar.OptionShowCount(),
				progressbar.OptionSetItsString("pages"),
				progressbar.OptionThrottle(100*time.Millisecond),
				progressbar.OptionClearOnFinish(),
				progressbar.OptionSetRenderBlankState(true),
			)
		}
		observer := func(ev reconcile.Event) {
			if bar == nil {
				return
			}
			desc := fmt.Sprintf("%s page %d/%d", ev.Scope, ev.Page, ev.TotalPages)
			if ev.ArtistID > 0 {
				desc = fmt.Sprintf("%s artist %d page %d/%d", ev.Scope, ev.ArtistID, ev.Page, ev.TotalPages)
			}
			bar.Describe(desc)
			_ = bar.Add(1)
		}

		// A nil override keeps the configured artists.
		report, err := engine.Run(cmd.Context(), scope, syncer.RunOptions{ArtistIDs: syncArtists, Observer: observer})
		if bar != nil {
			_ = bar.Finish()
		}
		if report != nil {
			printReport(report)
		}
		if err != nil {
			e.log.Error("Sync failed", zap.Error(err))
			return err
		}
		return nil
	},
}

// syncStatusCmd shows the sync history.
var syncStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show when the mirror was last synced",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := setup()
		if err != nil {
			return err
		}
		engine, err := e.newSyncer(nil)
		if err != nil {
			return err
		}
		st, err := engine.Status(cmd.Context())
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		defer w.Flush()
		if st.LastFullSync != nil {
			fmt.Fprintf(w, "Last full sync\t%s\t(%s)\n", humanize.Time(*st.LastFullSync), st.LastFullSync.Local().Format(time.DateTime))
		} else {
			fmt.Fprintf(w, "Last full sync\tnever\t\n")
		}
		for _, scope := range []reconcile.Scope{reconcile.ScopeArtists, reconcile.ScopeItems, reconcile.ScopeOrders} {
			if t, ok := st.LastSync[scope]; ok {
				fmt.Fprintf(w, "Last %s sync\t%s\t\n", scope, humanize.Time(t))
			}
		}
		fmt.Fprintf(w, "Artists\t%s\t\n", humanize.Comma(st.Artists))
		fmt.Fprintf(w, "Items\t%s\t\n", humanize.Comma(st.Items))
		fmt.Fprintf(w, "Orders\t%s\t\n", humanize.Comma(st.Orders))
		return nil
	},
}

func printReport(report *reconcile.Report) {
	if report.Skipped {
		fmt.Printf("Sync skipped: %s\n", report.Reason)
		return
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	defer w.Flush()
	fmt.Fprintf(w, "SCOPE\tPAGES\tUPSERTED\tCHILDREN\tDELETED\tORPHANS\tNOTE\n")
	for _, r := range report.Results {
		note := ""
		if r.Skipped {
			note = "skipped: " + r.Reason
		}
		fmt.Fprintf(w, "%s\t%d\t%s\t%s\t%s\t%s\t%s\n", r.Scope, r.Pages,
			humanize.Comma(int64(r.Upserted)), humanize.Comma(int64(r.Children)),
			humanize.Comma(r.Deleted), humanize.Comma(r.Orphans), note)
	}
	fmt.Fprintf(w, "\nRun %s finished in %s\n", report.RunID, report.Duration.Round(time.Millisecond))
}

func init() {
	syncCmd.Flags().Int64SliceVar(&syncArtists, "artist", nil, "Sync items of these artists instead of the configured ones (repeatable)")
	syncCmd.Flags().BoolVar(&syncPrefetch, "prefetch", false, "Read artists and offers from storage snapshots when present")
	syncCmd.Flags().BoolVar(&syncNoBar, "no-progress", false, "Disable the progress bar")

	syncCmd.AddCommand(syncStatusCmd)
	RootCmd.AddCommand(syncCmd)
}
