package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Sanali209/webos-dam/internal/core/domain"
)

var (
	searchLimit  int
	searchTypes  []string
	searchTags   []string
	searchStatus string
	searchOwner  string
	searchFacets bool
	searchJSON   bool
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search the asset catalog",
	Long: `Performs hybrid search across the catalog, fusing keyword, semantic
and graph channels into one ranked list. Without a query, returns a
recency-sorted filtered listing.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 20, "maximum number of results")
	searchCmd.Flags().StringSliceVar(&searchTypes, "type", nil, "restrict to asset types")
	searchCmd.Flags().StringSliceVar(&searchTags, "tag", nil, "restrict to user tags")
	searchCmd.Flags().StringVar(&searchStatus, "status", "", "restrict to a lifecycle status")
	searchCmd.Flags().StringVar(&searchOwner, "owner", "", "restrict to an owner")
	searchCmd.Flags().BoolVar(&searchFacets, "facets", false, "include facet counts")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	if searchService == nil {
		return errors.New("search service not configured")
	}

	req := domain.SearchRequest{
		Limit:         searchLimit,
		IncludeFacets: searchFacets,
		Filter: domain.AssetFilter{
			OwnerID:    searchOwner,
			AssetTypes: searchTypes,
			Tags:       searchTags,
			Status:     domain.AssetStatus(searchStatus),
		},
	}
	if len(args) > 0 {
		req.Query = args[0]
	}

	page, err := searchService.Search(context.Background(), req)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if searchJSON {
		return outputSearchJSON(cmd, page)
	}
	return outputSearchTable(cmd, page)
}

func outputSearchJSON(cmd *cobra.Command, page *domain.SearchPage) error {
	data, err := json.MarshalIndent(page, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputSearchTable(cmd *cobra.Command, page *domain.SearchPage) error {
	if len(page.Items) == 0 {
		cmd.Println("No results found.")
		return nil
	}

	cmd.Printf("Results (%d of ~%d):\n\n", len(page.Items), page.TotalEstimate)
	for i, hit := range page.Items {
		cmd.Printf("  [%d] %s (%.4f)", i+1, hit.AssetID, hit.Score)
		if len(hit.MatchedBy) > 0 {
			cmd.Printf("  via %s", strings.Join(hit.MatchedBy, ","))
		}
		cmd.Println()

		if assetService != nil {
			if asset, err := assetService.Get(context.Background(), hit.AssetID); err == nil {
				cmd.Printf("      %s  %s  %s\n", asset.Filename, asset.PrimaryType(), asset.Status)
			}
		}
	}

	if page.Facets != nil {
		cmd.Println()
		printFacets(cmd, "types", page.Facets.AssetTypes)
		printFacets(cmd, "tags", page.Facets.Tags)
	}
	return nil
}

func printFacets(cmd *cobra.Command, name string, buckets []domain.FacetBucket) {
	if len(buckets) == 0 {
		return
	}
	cmd.Printf("  %s: ", name)
	parts := make([]string, len(buckets))
	for i, b := range buckets {
		parts[i] = fmt.Sprintf("%s(%d)", b.Value, b.Count)
	}
	cmd.Println(strings.Join(parts, " "))
}
