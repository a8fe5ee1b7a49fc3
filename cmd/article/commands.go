package article

import (
	"encoding/json"
	"fmt"
	"strconv"

	libarticle "github.com/ValentinKolb/aKV/lib/article"
	"github.com/ValentinKolb/aKV/cmd/util"
	"github.com/spf13/cobra"
)

// printJSON pretty-prints an API result
func printJSON(v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}

var (
	listCmd = &cobra.Command{
		Use:   "list",
		Short: "Lists articles ordered by recency",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			page, _ := cmd.Flags().GetInt("page")
			pageSize, _ := cmd.Flags().GetInt("page-size")

			result, err := rpcStore.List(page, pageSize)
			if err != nil {
				return err
			}
			return printJSON(result)
		},
	}
	byAuthorCmd = &cobra.Command{
		Use:   "by-author [email]",
		Short: "Lists one author's articles ordered by recency",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			page, _ := cmd.Flags().GetInt("page")
			pageSize, _ := cmd.Flags().GetInt("page-size")

			result, err := rpcStore.ListByAuthor(args[0], page, pageSize)
			if err != nil {
				return err
			}
			return printJSON(result)
		},
	}
	getCmd = &cobra.Command{
		Use:   "get [slug]",
		Short: "Reads the article stored under a slug",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := rpcStore.GetBySlug(args[0])
			if err != nil {
				return err
			}
			return printJSON(result)
		},
	}
	createCmd = &cobra.Command{
		Use:   "create [title] [description] [body]",
		Short: "Creates a new article",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			tags, _ := cmd.Flags().GetStringSlice("tags")
			authorName, _ := cmd.Flags().GetString("author-name")
			authorEmail, _ := cmd.Flags().GetString("author-email")

			result, err := rpcStore.Create(&libarticle.NewArticle{
				Title:       args[0],
				Description: args[1],
				Body:        args[2],
				TagList:     tags,
				Author: libarticle.Author{
					Name:  authorName,
					Email: authorEmail,
				},
			})
			if err != nil {
				return err
			}
			return printJSON(result)
		},
	}
	updateCmd = &cobra.Command{
		Use:   "update [slug]",
		Short: "Applies a partial update to an article",
		Long:  "Applies a partial update to an article. Only the fields set via flags are changed, everything else keeps its stored value.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			payload := &libarticle.UpdateArticle{}

			// only flags the caller actually set become part of the payload
			if cmd.Flags().Changed("title") {
				v, _ := cmd.Flags().GetString("title")
				payload.Title = &v
			}
			if cmd.Flags().Changed("description") {
				v, _ := cmd.Flags().GetString("description")
				payload.Description = &v
			}
			if cmd.Flags().Changed("body") {
				v, _ := cmd.Flags().GetString("body")
				payload.Body = &v
			}
			if cmd.Flags().Changed("tags") {
				v, _ := cmd.Flags().GetStringSlice("tags")
				payload.TagList = &v
			}

			result, err := rpcStore.Update(args[0], payload)
			if err != nil {
				return err
			}
			return printJSON(result)
		},
	}
	delCmd = &cobra.Command{
		Use:   "del [slug]",
		Short: "Deletes an article",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := rpcStore.Delete(args[0]); err != nil {
				return err
			}
			fmt.Println("delete successfully")
			return nil
		},
	}
	favoriteCmd = &cobra.Command{
		Use:   "favorite [slug] [true|false]",
		Short: "Sets the favorite flag of an article",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			favorited, err := strconv.ParseBool(args[1])
			if err != nil {
				return fmt.Errorf("favorited must be true or false: %w", err)
			}

			result, err := rpcStore.Favorite(args[0], favorited)
			if err != nil {
				return err
			}
			return printJSON(result)
		},
	}
)

func init() {
	// paging flags for the listing commands
	for _, cmd := range []*cobra.Command{listCmd, byAuthorCmd} {
		cmd.Flags().Int("page", 1, util.WrapString("Page to fetch (1-based)"))
		cmd.Flags().Int("page-size", 20, util.WrapString("Number of articles per page"))
	}

	// create flags
	createCmd.Flags().StringSlice("tags", nil, util.WrapString("Tags for the article (comma separated)"))
	createCmd.Flags().String("author-name", "", util.WrapString("Display name of the author"))
	createCmd.Flags().String("author-email", "", util.WrapString("Email of the author (required, used as the author identity)"))

	// update flags
	updateCmd.Flags().String("title", "", util.WrapString("New title"))
	updateCmd.Flags().String("description", "", util.WrapString("New description"))
	updateCmd.Flags().String("body", "", util.WrapString("New body"))
	updateCmd.Flags().StringSlice("tags", nil, util.WrapString("New tags (comma separated, replaces the stored list)"))
}
