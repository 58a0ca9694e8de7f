package main

import (
	"fmt"
	"strings"

	"github.com/go-authgate/shop-admin-cli/admin"
	"github.com/spf13/cobra"
)

func deleteCmd(a *app, noun string, del func(cmd *cobra.Command, id string) error) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a " + noun,
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := del(cmd, args[0]); err != nil {
				return err
			}
			return a.done(map[string]string{"deleted": args[0]}, fmt.Sprintf("Deleted %s %s.", noun, args[0]))
		},
	}
}

// ── Banners ─────────────────────────────────────────────────────────────────

func bannersCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{Use: "banners", Short: "Manage storefront banners"}

	list := &cobra.Command{
		Use:   "list",
		Short: "List banners",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var banners []admin.Banner
			err := a.fetch("banners", func() (err error) {
				banners, err = a.svc.ListBanners(cmd.Context())
				return err
			})
			if err != nil {
				return err
			}
			t := &table{
				header: []string{"ID", "Title", "Position", "Sort", "Status", "Link"},
				value:  nonEmpty(banners),
			}
			for _, b := range banners {
				t.add(b.ID, oneLine(b.Title, 40), b.Position, itoa(b.Sort), string(b.Status), b.Link)
			}
			return a.render(t, "No banners.")
		},
	}

	input := func(cmd *cobra.Command) (admin.BannerInput, error) {
		st, err := statusFlag(cmd)
		return admin.BannerInput{
			Image:        strFlag(cmd, "image"),
			Title:        strFlag(cmd, "title"),
			Subtitle:     strFlag(cmd, "subtitle"),
			Discount:     strFlag(cmd, "discount"),
			Status:       st,
			Position:     strFlag(cmd, "position"),
			Sort:         intFlag(cmd, "sort"),
			Link:         strFlag(cmd, "link"),
			CategorySlug: strFlag(cmd, "category-slug"),
		}, err
	}
	fields := func(c *cobra.Command) {
		f := c.Flags()
		f.String("image", "", "image URL")
		f.String("title", "", "headline")
		f.String("subtitle", "", "sub headline")
		f.String("discount", "", "discount label")
		f.String("status", "", "ACTIVE or HIDDEN")
		f.String("position", "", "placement on the storefront")
		f.Int("sort", 0, "sort order")
		f.String("link", "", "target URL")
		f.String("category-slug", "", "category the banner links to")
	}

	create := &cobra.Command{
		Use:   "create",
		Short: "Create a banner",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			in, err := input(cmd)
			if err != nil {
				return err
			}
			created, err := a.svc.CreateBanner(cmd.Context(), in)
			if err != nil {
				return err
			}
			return a.done(created, "Created banner "+created.ID+".")
		},
	}
	fields(create)

	update := &cobra.Command{
		Use:   "update <id>",
		Short: "Change fields of a banner",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := input(cmd)
			if err != nil {
				return err
			}
			if err := a.svc.UpdateBanner(cmd.Context(), args[0], in); err != nil {
				return err
			}
			return a.done(map[string]string{"updated": args[0]}, "Updated banner "+args[0]+".")
		},
	}
	fields(update)

	cmd.AddCommand(list, create, update, deleteCmd(a, "banner", func(cmd *cobra.Command, id string) error {
		return a.svc.DeleteBanner(cmd.Context(), id)
	}))
	return cmd
}

// ── Brands ──────────────────────────────────────────────────────────────────

func brandsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{Use: "brands", Aliases: []string{"manufacturers"}, Short: "Manage brands"}

	list := &cobra.Command{
		Use:   "list",
		Short: "List brands",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var brands []admin.Brand
			err := a.fetch("brands", func() (err error) {
				brands, err = a.svc.ListBrands(cmd.Context())
				return err
			})
			if err != nil {
				return err
			}
			t := &table{header: []string{"ID", "Name", "Slug", "Status"}, value: nonEmpty(brands)}
			for _, b := range brands {
				t.add(b.ID, b.Name, b.Slug, string(b.Status))
			}
			return a.render(t, "No brands.")
		},
	}

	input := func(cmd *cobra.Command) (admin.BrandInput, error) {
		st, err := statusFlag(cmd)
		return admin.BrandInput{
			Name:        strFlag(cmd, "name"),
			Slug:        strFlag(cmd, "slug"),
			Image:       strFlag(cmd, "image"),
			Description: strFlag(cmd, "description"),
			Status:      st,
		}, err
	}
	fields := func(c *cobra.Command) {
		f := c.Flags()
		f.String("name", "", "brand name")
		f.String("slug", "", "URL slug")
		f.String("image", "", "logo URL")
		f.String("description", "", "description")
		f.String("status", "", "ACTIVE or HIDDEN")
	}

	create := &cobra.Command{
		Use:   "create",
		Short: "Create a brand",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			in, err := input(cmd)
			if err != nil {
				return err
			}
			created, err := a.svc.CreateBrand(cmd.Context(), in)
			if err != nil {
				return err
			}
			return a.done(created, "Created brand "+created.ID+".")
		},
	}
	fields(create)

	update := &cobra.Command{
		Use:   "update <id>",
		Short: "Change fields of a brand",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := input(cmd)
			if err != nil {
				return err
			}
			if err := a.svc.UpdateBrand(cmd.Context(), args[0], in); err != nil {
				return err
			}
			return a.done(map[string]string{"updated": args[0]}, "Updated brand "+args[0]+".")
		},
	}
	fields(update)

	cmd.AddCommand(list, create, update, deleteCmd(a, "brand", func(cmd *cobra.Command, id string) error {
		return a.svc.DeleteBrand(cmd.Context(), id)
	}))
	return cmd
}

// ── Categories ──────────────────────────────────────────────────────────────

func categoriesCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{Use: "categories", Short: "Manage product categories"}

	list := &cobra.Command{
		Use:   "list",
		Short: "List categories",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var cats []admin.Category
			err := a.fetch("categories", func() (err error) {
				cats, err = a.svc.ListCategories(cmd.Context())
				return err
			})
			if err != nil {
				return err
			}
			t := &table{header: []string{"ID", "Name", "Slug", "Status", "Updated"}, value: nonEmpty(cats)}
			for _, c := range cats {
				t.add(c.ID, c.Name, c.Slug, string(c.Status), day(c.UpdatedAt))
			}
			return a.render(t, "No categories.")
		},
	}

	input := func(cmd *cobra.Command) (admin.CategoryInput, error) {
		st, err := statusFlag(cmd)
		in := admin.CategoryInput{
			Name:        strFlag(cmd, "name"),
			Slug:        strFlag(cmd, "slug"),
			Title:       strFlag(cmd, "title"),
			Image:       strFlag(cmd, "image"),
			Description: strFlag(cmd, "description"),
			Status:      st,
		}
		if cmd.Flags().Changed("images") {
			in.Images, _ = cmd.Flags().GetStringSlice("images")
		}
		return in, err
	}
	fields := func(c *cobra.Command) {
		f := c.Flags()
		f.String("name", "", "category name")
		f.String("slug", "", "URL slug")
		f.String("title", "", "page title")
		f.String("image", "", "main image URL")
		f.StringSlice("images", nil, "gallery image URLs")
		f.String("description", "", "description")
		f.String("status", "", "ACTIVE or HIDDEN")
	}

	create := &cobra.Command{
		Use:   "create",
		Short: "Create a category",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			in, err := input(cmd)
			if err != nil {
				return err
			}
			created, err := a.svc.CreateCategory(cmd.Context(), in)
			if err != nil {
				return err
			}
			return a.done(created, "Created category "+created.ID+".")
		},
	}
	fields(create)

	update := &cobra.Command{
		Use:   "update <id>",
		Short: "Change fields of a category",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := input(cmd)
			if err != nil {
				return err
			}
			if err := a.svc.UpdateCategory(cmd.Context(), args[0], in); err != nil {
				return err
			}
			return a.done(map[string]string{"updated": args[0]}, "Updated category "+args[0]+".")
		},
	}
	fields(update)

	cmd.AddCommand(list, create, update, deleteCmd(a, "category", func(cmd *cobra.Command, id string) error {
		return a.svc.DeleteCategory(cmd.Context(), id)
	}))
	return cmd
}

// ── Subcategories ───────────────────────────────────────────────────────────

func subcategoriesCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{Use: "subcategories", Short: "Manage subcategories"}

	var categoryID string
	list := &cobra.Command{
		Use:   "list",
		Short: "List subcategories, optionally of one category",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var subs []admin.Subcategory
			err := a.fetch("subcategories", func() (err error) {
				subs, err = a.svc.ListSubcategories(cmd.Context(), categoryID)
				return err
			})
			if err != nil {
				return err
			}
			t := &table{header: []string{"ID", "Name", "Slug", "Category", "Status"}, value: nonEmpty(subs)}
			for _, s := range subs {
				t.add(s.ID, s.Name, s.Slug, s.CategoryID, string(s.Status))
			}
			return a.render(t, "No subcategories.")
		},
	}
	list.Flags().StringVar(&categoryID, "category", "", "only subcategories of this category id")

	get := &cobra.Command{
		Use:   "get <id>",
		Short: "Show one subcategory",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var s *admin.Subcategory
			err := a.fetch("subcategory", func() (err error) {
				s, err = a.svc.GetSubcategory(cmd.Context(), args[0])
				return err
			})
			if err != nil {
				return err
			}
			return a.renderPairs(s, [][2]string{
				{"ID", s.ID},
				{"Name", s.Name},
				{"Slug", s.Slug},
				{"Category", s.CategoryID},
				{"Status", string(s.Status)},
				{"Description", oneLine(s.Description, 80)},
				{"Images", strings.Join(s.Images, ", ")},
				{"Updated", stamp(s.UpdatedAt)},
			})
		},
	}

	input := func(cmd *cobra.Command) (admin.SubcategoryInput, error) {
		st, err := statusFlag(cmd)
		in := admin.SubcategoryInput{
			Name:        strFlag(cmd, "name"),
			Slug:        strFlag(cmd, "slug"),
			CategoryID:  strFlag(cmd, "category"),
			Description: strFlag(cmd, "description"),
			Status:      st,
		}
		if cmd.Flags().Changed("images") {
			in.Images, _ = cmd.Flags().GetStringSlice("images")
		}
		return in, err
	}
	fields := func(c *cobra.Command) {
		f := c.Flags()
		f.String("name", "", "subcategory name")
		f.String("slug", "", "URL slug")
		f.String("category", "", "parent category id")
		f.StringSlice("images", nil, "image URLs")
		f.String("description", "", "description")
		f.String("status", "", "ACTIVE or HIDDEN")
	}

	create := &cobra.Command{
		Use:   "create",
		Short: "Create a subcategory",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			in, err := input(cmd)
			if err != nil {
				return err
			}
			created, err := a.svc.CreateSubcategory(cmd.Context(), in)
			if err != nil {
				return err
			}
			return a.done(created, "Created subcategory "+created.ID+".")
		},
	}
	fields(create)

	update := &cobra.Command{
		Use:   "update <id>",
		Short: "Change fields of a subcategory",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := input(cmd)
			if err != nil {
				return err
			}
			if err := a.svc.UpdateSubcategory(cmd.Context(), args[0], in); err != nil {
				return err
			}
			return a.done(map[string]string{"updated": args[0]}, "Updated subcategory "+args[0]+".")
		},
	}
	fields(update)

	cmd.AddCommand(list, get, create, update, deleteCmd(a, "subcategory", func(cmd *cobra.Command, id string) error {
		return a.svc.DeleteSubcategory(cmd.Context(), id)
	}))
	return cmd
}

// ── Products ────────────────────────────────────────────────────────────────

func productsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{Use: "products", Short: "Browse products"}

	list := &cobra.Command{
		Use:   "list",
		Short: "List products",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var page *admin.ProductPage
			err := a.fetch("products", func() (err error) {
				page, err = a.svc.ListProducts(cmd.Context())
				return err
			})
			if err != nil {
				return err
			}
			page.Items = nonEmpty(page.Items)
			t := &table{header: []string{"ID", "Title", "Brand", "Category", "Price", "Stock"}, value: page}
			for _, p := range page.Items {
				t.add(p.ID, oneLine(p.Title, 40), p.Brand, p.CategorySlug, money(p.Price), itoa(p.Stock))
			}
			return a.render(t, "No products.")
		},
	}

	get := &cobra.Command{
		Use:   "get <id>",
		Short: "Show one product",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var p *admin.Product
			err := a.fetch("product", func() (err error) {
				p, err = a.svc.GetProduct(cmd.Context(), args[0])
				return err
			})
			if err != nil {
				return err
			}
			return a.renderPairs(p, [][2]string{
				{"ID", p.ID},
				{"Title", p.Title},
				{"Slug", p.Slug},
				{"Brand", p.Brand},
				{"Category", p.CategorySlug},
				{"Price", money(p.Price)},
				{"Stock", itoa(p.Stock)},
			})
		},
	}

	cmd.AddCommand(list, get)
	return cmd
}
