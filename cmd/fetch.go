package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	fuzzyfinder "github.com/ktr0731/go-fuzzyfinder"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/kamal-hamza/dgrab/internal/core/domain"
	"github.com/kamal-hamza/dgrab/internal/core/services"
	"github.com/kamal-hamza/dgrab/pkg/ui"
)

var (
	fetchCopy    int
	fetchAll     bool
	fetchJSON    bool
	fetchURLs    bool
	fetchPick    bool
	fetchGallery bool
)

var fetchCmd = &cobra.Command{
	Use:     "fetch <message-link>",
	Aliases: []string{"get"},
	Short:   "Fetch the image attachments of a message",
	Long: `Fetch a message's attachments from the API endpoint and list the images.

Non-image attachments are skipped. Use the flags to copy URLs to the clipboard
or render the images as a clickable thumbnail gallery in your browser.

Examples:
  dgrab fetch https://discord.com/channels/1/2/3
  dgrab fetch <link> --copy 2     # copy the second image URL
  dgrab fetch <link> --all        # copy all image URLs, one per line
  dgrab fetch <link> --pick       # choose an image with a fuzzy finder
  dgrab fetch <link> --gallery    # open thumbnails in the browser
  dgrab fetch <link> --urls | xargs -n1 curl -O`,
	Args: cobra.ExactArgs(1),
	RunE: runFetch,
}

func init() {
	fetchCmd.Flags().IntVarP(&fetchCopy, "copy", "c", 0, "Copy the URL of image N (1-based)")
	fetchCmd.Flags().BoolVarP(&fetchAll, "all", "a", false, "Copy all image URLs, one per line")
	fetchCmd.Flags().BoolVar(&fetchJSON, "json", false, "Print the image attachments as JSON")
	fetchCmd.Flags().BoolVarP(&fetchURLs, "urls", "u", false, "Print bare image URLs, one per line")
	fetchCmd.Flags().BoolVarP(&fetchPick, "pick", "p", false, "Pick an image interactively and copy its URL")
	fetchCmd.Flags().BoolVarP(&fetchGallery, "gallery", "g", false, "Render a thumbnail gallery and open it")

	fetchCmd.MarkFlagsMutuallyExclusive("json", "urls")
	fetchCmd.MarkFlagsMutuallyExclusive("copy", "all", "pick")
}

func runFetch(cmd *cobra.Command, args []string) error {
	ctx := getContext()
	out := cmd.OutOrStdout()
	quiet := fetchJSON || fetchURLs

	// Machine-readable output stays clean on stdout
	notice := out
	if quiet {
		notice = cmd.ErrOrStderr()
	}

	if !quiet {
		fmt.Fprintln(out, ui.FormatRocket(services.MsgFetching))
	}

	result, err := grabService.Fetch(ctx, args[0])
	if err != nil {
		return err
	}

	// 1. Output
	switch {
	case fetchJSON:
		if err := printJSON(out, result.Images); err != nil {
			return err
		}
	case fetchURLs:
		for _, u := range domain.URLs(result.Images) {
			fmt.Fprintln(out, u)
		}
	default:
		printFetchResult(out, result)
	}

	// 2. Gallery
	if fetchGallery {
		if err := openGallery(out, result); err != nil {
			return err
		}
	}

	// 3. Clipboard
	switch {
	case fetchPick:
		return pickAndCopy(out, result.Images)
	case fetchAll:
		if _, err := grabService.CopyAll(); err != nil {
			return err
		}
		fmt.Fprintln(notice, ui.FormatCopied(fmt.Sprintf("%s (%d)", services.MsgCopiedAll, len(result.Images))))
	case fetchCopy != 0:
		url, err := grabService.CopyOne(fetchCopy - 1)
		if err != nil {
			return err
		}
		fmt.Fprintln(notice, ui.FormatCopied(services.MsgCopiedOne+": "+url))
	}

	return nil
}

func printFetchResult(out io.Writer, result *services.GrabResult) {
	fmt.Fprintln(out)

	if len(result.Images) == 0 {
		fmt.Fprintln(out, ui.FormatWarning(domain.NoImagesMessage))
		if result.Skipped > 0 {
			fmt.Fprintln(out, ui.FormatMuted(fmt.Sprintf("(%d non-image attachment(s) skipped)", result.Skipped)))
		}
		return
	}

	table := ui.NewTable([]ui.TableColumn{
		{Header: "#", Width: 2, Align: "right"},
		{Header: "NAME", MaxWidth: 40},
		{Header: "TYPE", MaxWidth: 16},
		{Header: "SIZE", Align: "right"},
		{Header: "URL", MaxWidth: 80},
	})
	for i, img := range result.Images {
		table.AddRow([]string{
			strconv.Itoa(i + 1),
			img.DisplayName(),
			img.ContentType,
			img.HumanSize(),
			img.URL,
		})
	}

	fmt.Fprint(out, table.Render())
	fmt.Fprintln(out)
	fmt.Fprintln(out, ui.FormatSuccess(result.Status))
	if result.Skipped > 0 {
		fmt.Fprintln(out, ui.FormatMuted(fmt.Sprintf("(%d non-image attachment(s) skipped)", result.Skipped)))
	}
}

func printJSON(out io.Writer, images []domain.Attachment) error {
	if images == nil {
		images = []domain.Attachment{}
	}

	data, err := json.MarshalIndent(images, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode attachments: %w", err)
	}

	text := string(data)
	if f, ok := out.(*os.File); ok && isatty.IsTerminal(f.Fd()) {
		text = ui.HighlightJSON(text)
	}

	fmt.Fprintln(out, text)
	return nil
}

func openGallery(out io.Writer, result *services.GrabResult) error {
	path, err := galleryService.WriteFile(appDirs.CachePath, services.GalleryPage{
		Link:   result.Link.Raw,
		Status: result.Status,
		Images: result.Images,
	})
	if err != nil {
		return err
	}

	if !appConfig.OpenGallery {
		fmt.Fprintln(out, ui.FormatInfo("Gallery written: "+path))
		return nil
	}

	fmt.Fprintln(out, ui.FormatRocket("Opening gallery..."))
	return OpenFile(path, appConfig.GalleryViewer)
}

// pickAndCopy launches the fuzzy finder for images
func pickAndCopy(out io.Writer, images []domain.Attachment) error {
	if len(images) == 0 {
		return domain.ErrNoImages
	}

	idx, err := fuzzyfinder.Find(
		images,
		func(i int) string {
			img := images[i]
			return fmt.Sprintf("%d  %s  %s", i+1, img.DisplayName(), img.ContentType)
		},
		fuzzyfinder.WithPreviewWindow(func(i, w, h int) string {
			if i == -1 {
				return ""
			}
			return imagePreview(images[i], i)
		}),
	)
	if err != nil {
		fmt.Fprintln(out, ui.FormatInfo("Selection cancelled."))
		return nil
	}

	url, err := grabService.CopyOne(idx)
	if err != nil {
		return err
	}

	fmt.Fprintln(out, ui.FormatSuccess("Selected: "+images[idx].DisplayName()))
	fmt.Fprintln(out, ui.FormatCopied(services.MsgCopiedOne+": "+url))
	return nil
}

// imagePreview builds the fuzzy finder preview pane for one image
func imagePreview(img domain.Attachment, index int) string {
	var s strings.Builder
	s.WriteString(fmt.Sprintf("Image: %s\n", ui.StyleBold.Render(img.AltText(index))))
	s.WriteString(fmt.Sprintf("Type:  %s\n", img.ContentType))
	if size := img.HumanSize(); size != "" {
		s.WriteString(fmt.Sprintf("Size:  %s\n", size))
	}
	s.WriteString("\n")
	s.WriteString(ui.StyleHeader.Render("URL") + "\n")
	s.WriteString(img.URL + "\n")
	return s.String()
}
