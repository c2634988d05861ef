package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/dmitrijs2005/gallery/internal/imaging"
	"github.com/spf13/cobra"
)

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List entries, most prominent first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := clientFromCmd(cmd)
			if err != nil {
				return err
			}
			list, err := c.List(cmd.Context())
			if err != nil {
				return err
			}
			return newPrinter(cmd).entries(list)
		},
	}
}

func newGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show one entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := clientFromCmd(cmd)
			if err != nil {
				return err
			}
			e, err := c.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return newPrinter(cmd).entry(e)
		},
	}
}

func newUploadCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "upload <name> <image-file>",
		Short: "Create an entry and upload its image and thumbnail",
		Long: "Creates an entry on the server, renders a thumbnail locally and " +
			"PUTs both files to the presigned URLs the server returns. If an " +
			"upload fails the entry is deleted again.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[1])
			if err != nil {
				return err
			}
			contentType, err := imaging.DetectType(data)
			if err != nil {
				return err
			}
			w, _ := cmd.Flags().GetInt("thumb-width")
			h, _ := cmd.Flags().GetInt("thumb-height")
			thumb, err := imaging.NewImageThumbnailer(w, h).Thumbnail(data, contentType)
			if err != nil {
				return err
			}

			c, err := clientFromCmd(cmd)
			if err != nil {
				return err
			}
			date, _ := cmd.Flags().GetString("date")
			res, err := c.Create(cmd.Context(), args[0], contentType, date)
			if err != nil {
				return err
			}
			if res.SignedURLs == nil {
				return fmt.Errorf("server did not return upload URLs; is it running with the presign upload policy?")
			}

			err = c.Upload(cmd.Context(), res.SignedURLs.ImageURL, contentType, data)
			if err != nil {
				err = fmt.Errorf("upload image: %w", err)
			} else if err = c.Upload(cmd.Context(), res.SignedURLs.ThumbnailURL, contentType, thumb); err != nil {
				err = fmt.Errorf("upload thumbnail: %w", err)
			}
			if err != nil {
				// an entry must not point at assets that were never written
				if _, derr := c.Delete(context.WithoutCancel(cmd.Context()), res.Entry.ID); derr != nil {
					return errors.Join(err, fmt.Errorf("remove entry %s: %w", res.Entry.ID, derr))
				}
				return err
			}
			return newPrinter(cmd).entry(&res.Entry)
		},
	}
	cmd.Flags().String("date", "", "creation date, YYYY-MM-DD or RFC 3339 (default: now)")
	cmd.Flags().Int("thumb-width", 400, "thumbnail bounding box width")
	cmd.Flags().Int("thumb-height", 400, "thumbnail bounding box height")
	return cmd
}

func newRenameCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rename <id> <name>",
		Short: "Change an entry's name",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := clientFromCmd(cmd)
			if err != nil {
				return err
			}
			e, err := c.Update(cmd.Context(), args[0], &args[1], nil)
			if err != nil {
				return err
			}
			return newPrinter(cmd).entry(e)
		},
	}
}

func newSetOrderCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set-order <id> <order>",
		Short: "Move an entry to an order, swapping with its current holder",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			order, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("order must be an integer: %w", err)
			}
			c, err := clientFromCmd(cmd)
			if err != nil {
				return err
			}
			e, err := c.Update(cmd.Context(), args[0], nil, &order)
			if err != nil {
				return err
			}
			return newPrinter(cmd).entry(e)
		},
	}
}

func newMoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "move <id> up|down",
		Short:     "Move an entry one step up or down",
		Args:      cobra.ExactArgs(2),
		ValidArgs: []string{"up", "down"},
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := clientFromCmd(cmd)
			if err != nil {
				return err
			}
			e, err := c.Move(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			return newPrinter(cmd).entry(e)
		},
	}
}

func newDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an entry and its assets",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := clientFromCmd(cmd)
			if err != nil {
				return err
			}
			res, err := c.Delete(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			p := newPrinter(cmd)
			if p.isJSON() {
				return p.json(res)
			}
			p.kv([][2]string{
				{"Metadata deleted", strconv.FormatBool(res.MetadataDeleted)},
				{"Assets deleted", strconv.FormatBool(res.AssetsDeleted)},
			})
			return nil
		},
	}
}

func newPublishCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "publish",
		Short: "Write the public manifest",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := clientFromCmd(cmd)
			if err != nil {
				return err
			}
			res, err := c.Publish(cmd.Context())
			if err != nil {
				return err
			}
			p := newPrinter(cmd)
			if p.isJSON() {
				return p.json(res)
			}
			p.kv([][2]string{{"Key", res.Key}, {"Entries", strconv.Itoa(res.Count)}})
			return nil
		},
	}
}
