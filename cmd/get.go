package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/sw33tLie/genscope/pkg/storage"
	"github.com/sw33tLie/genscope/pkg/targets"
)

// getCmd represents the parent `db get` command.
var getCmd = &cobra.Command{
	Use:   "get",
	Short: "Extract specific target types from the archived assets",
}

func newGetCmd(use, short string, collect func(entries []storage.AssetEntry, aggressive bool) []string) *cobra.Command {
	c := &cobra.Command{
		Use:   use,
		Short: short,
		RunE: func(cmd *cobra.Command, _ []string) error {
			slug, _ := cmd.Flags().GetString("slug")
			aggressive, _ := cmd.Flags().GetBool("aggressive")

			db, err := openExistingDB(cmd)
			if err != nil {
				return err
			}
			defer db.Close()

			entries, err := db.ListAssets(cmd.Context(), storage.ListOptions{Slug: slug})
			if err != nil {
				return err
			}
			for _, t := range collect(entries, aggressive) {
				fmt.Println(t)
			}
			return nil
		},
	}
	c.Flags().StringP("slug", "s", "", "Only use assets of this program")
	return c
}

func init() {
	dbCmd.AddCommand(getCmd)

	getCmd.AddCommand(newGetCmd("urls", "Print in-scope web URLs", func(e []storage.AssetEntry, _ bool) []string {
		return targets.CollectURLs(e)
	}))
	getCmd.AddCommand(newGetCmd("contracts", "Print in-scope smart contract addresses", func(e []storage.AssetEntry, _ bool) []string {
		return targets.CollectContracts(e)
	}))

	domainsCmd := newGetCmd("domains", "Print the domains of in-scope web assets", targets.CollectDomains)
	domainsCmd.Flags().BoolP("aggressive", "a", false, "Reduce every domain to a wildcard on its root domain")
	getCmd.AddCommand(domainsCmd)
}
