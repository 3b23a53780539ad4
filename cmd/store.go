package cmd

import (
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"catalog-mirror/feature/storefront"

	"github.com/spf13/cobra"
)

var (
	storePage       int
	storeShowHidden bool
	storeArtist     int64
	storeStatus     string
)

// storeCmd groups storefront commands.
var storeCmd = &cobra.Command{
	Use:   "store",
	Short: "Inspect storefronts and their composed listings",
}

// storeListCmd lists the configured stores.
var storeListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stores",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := setup()
		if err != nil {
			return err
		}
		svc := storefront.NewService(e.db, e.cfg.Storefront, e.log)
		stores, err := svc.ListStores(cmd.Context(), storeStatus)
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		defer w.Flush()
		fmt.Fprintf(w, "ID\tNAME\tARTIST\tSTATUS\tSORT\tPER PAGE\n")
		for _, s := range stores {
			fmt.Fprintf(w, "%d\t%s\t%d\t%s\t%s/%s\t%d\n", s.ID, s.Name, s.ArtistID, s.Status, s.DefaultSortingBy, s.DefaultSorting, s.ItemsPerPage)
		}
		return nil
	},
}

// storeItemsCmd prints one page of a store's composed listing.
var storeItemsCmd = &cobra.Command{
	Use:   "items <store-id>",
	Short: "Print a page of a store's composed listing",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid store id %q", args[0])
		}

		e, err := setup()
		if err != nil {
			return err
		}
		svc := storefront.NewService(e.db, e.cfg.Storefront, e.log)
		page, err := svc.StorePage(cmd.Context(), id, storePage, storeShowHidden, storeArtist)
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		defer w.Flush()
		fmt.Fprintf(w, "ID\tNAME\tOFFER TYPE\tPRICE\tVISIBLE\tTAGS\n")
		for _, it := range page.Items {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s%.2f\t%t\t%v\n", it.ID, it.Name, it.OfferType, it.CurrencySymbol, it.Price, it.Visible, it.Tags)
		}
		fmt.Fprintf(w, "\nPage %d of %d, %d items\n", page.Page, page.TotalPages, page.Total)
		return nil
	},
}

func init() {
	storeListCmd.Flags().StringVar(&storeStatus, "status", "", "Only stores with this status (publish or trash)")

	storeItemsCmd.Flags().IntVar(&storePage, "page", 1, "Page number")
	storeItemsCmd.Flags().BoolVar(&storeShowHidden, "show-hidden", false, "Include items hidden in the manual order")
	storeItemsCmd.Flags().Int64Var(&storeArtist, "artist", 0, "Compose for this artist instead of the store's")

	storeCmd.AddCommand(storeListCmd, storeItemsCmd)
	RootCmd.AddCommand(storeCmd)
}
