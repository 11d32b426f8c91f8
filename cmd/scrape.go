package cmd

import (
	"errors"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/shelfwise/crawler/internal/domain"
)

func scrapeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scrape",
		Short: "Run a scrape synchronously and print the result",
	}

	cmd.AddCommand(scrapeNavigationCommand())
	cmd.AddCommand(scrapeCategoriesCommand())
	cmd.AddCommand(scrapeProductsCommand())
	cmd.AddCommand(scrapeDetailCommand())

	return cmd
}

func scrapeNavigationCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "navigation",
		Short: "Scrape the site's navigation headings",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := loadConfig()
			if err != nil {
				return err
			}

			a, err := newApp(cfg, log)
			if err != nil {
				return err
			}
			defer a.close()

			job, items, err := a.orchestrator.RunNavigation(cmd.Context())
			if err != nil {
				return err
			}

			t := table.NewWriter()
			t.SetOutputMirror(os.Stdout)
			t.AppendHeader(table.Row{"Title", "Slug", "URL"})
			for _, nav := range items {
				url := ""
				if nav.SourceURL != nil {
					url = *nav.SourceURL
				}
				t.AppendRow(table.Row{nav.Title, nav.Slug, url})
			}
			t.Render()

			printJobSummary(job)
			return nil
		},
	}
}

func scrapeCategoriesCommand() *cobra.Command {
	var navigationID string

	cmd := &cobra.Command{
		Use:   "categories <url>",
		Short: "Scrape category links from a page",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := loadConfig()
			if err != nil {
				return err
			}

			a, err := newApp(cfg, log)
			if err != nil {
				return err
			}
			defer a.close()

			var navID *string
			if navigationID != "" {
				navID = &navigationID
			}

			job, items, err := a.orchestrator.RunCategory(cmd.Context(), args[0], navID, nil)
			if err != nil {
				return err
			}

			t := table.NewWriter()
			t.SetOutputMirror(os.Stdout)
			t.AppendHeader(table.Row{"Title", "Slug", "Products"})
			for _, cat := range items {
				t.AppendRow(table.Row{cat.Title, cat.Slug, cat.ProductCount})
			}
			t.Render()

			printJobSummary(job)
			return nil
		},
	}

	cmd.Flags().StringVar(&navigationID, "navigation-id", "", "navigation heading to attach new categories to")
	return cmd
}

func scrapeProductsCommand() *cobra.Command {
	var (
		categoryID string
		page       int
		limit      int
	)

	cmd := &cobra.Command{
		Use:   "products <url>",
		Short: "Scrape a product listing page",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := loadConfig()
			if err != nil {
				return err
			}

			a, err := newApp(cfg, log)
			if err != nil {
				return err
			}
			defer a.close()

			var catID *string
			if categoryID != "" {
				catID = &categoryID
			}

			job, items, err := a.orchestrator.RunProducts(cmd.Context(), args[0], catID, page, limit)
			if err != nil {
				return err
			}

			t := table.NewWriter()
			t.SetOutputMirror(os.Stdout)
			t.AppendHeader(table.Row{"Source ID", "Title", "Price", "Currency"})
			for _, p := range items {
				price := any("")
				if p.Price != nil {
					price = *p.Price
				}
				t.AppendRow(table.Row{p.SourceID, p.Title, price, p.Currency})
			}
			t.Render()

			printJobSummary(job)
			return nil
		},
	}

	cmd.Flags().StringVar(&categoryID, "category-id", "", "category to attach new products to")
	cmd.Flags().IntVar(&page, "page", 1, "listing page number")
	cmd.Flags().IntVar(&limit, "limit", 20, "products per page")
	return cmd
}

func scrapeDetailCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "detail <product-id>",
		Short: "Scrape the detail page of a stored product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := loadConfig()
			if err != nil {
				return err
			}

			a, err := newApp(cfg, log)
			if err != nil {
				return err
			}
			defer a.close()

			job, detail, err := a.orchestrator.RunProductDetail(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if detail == nil {
				return errors.New("no detail extracted")
			}

			t := table.NewWriter()
			t.SetOutputMirror(os.Stdout)
			t.AppendHeader(table.Row{"Field", "Value"})
			if detail.Description != nil {
				t.AppendRow(table.Row{"Description", *detail.Description})
			}
			if detail.ISBN != nil {
				t.AppendRow(table.Row{"ISBN", *detail.ISBN})
			}
			if detail.Publisher != nil {
				t.AppendRow(table.Row{"Publisher", *detail.Publisher})
			}
			if detail.RatingsAvg != nil {
				t.AppendRow(table.Row{"Rating", *detail.RatingsAvg})
			}
			t.AppendRow(table.Row{"Reviews", detail.ReviewsCount})
			t.Render()

			printJobSummary(job)
			return nil
		},
	}
}

func printJobSummary(job *domain.ScrapeJob) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"Job", "Status", "Items"})
	t.AppendRow(table.Row{job.ID, job.Status, job.ItemsScraped})
	t.Render()
}
