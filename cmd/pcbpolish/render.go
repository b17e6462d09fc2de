package main

import (
	"fmt"
	"image/png"
	"os"

	"github.com/spf13/cobra"

	"pcb-polish/internal/render"
)

var (
	renderOut    string
	renderWidth  int
	renderHeight int
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render the board to a PNG image",
	Args:  cobra.NoArgs,
	Run:   runRender,
}

func init() {
	renderCmd.Flags().StringVarP(&renderOut, "output", "o", "board.png", "output file")
	renderCmd.Flags().IntVar(&renderWidth, "width", 1024, "image width in pixels")
	renderCmd.Flags().IntVar(&renderHeight, "height", 768, "image height in pixels")
	rootCmd.AddCommand(renderCmd)
}

func runRender(cmd *cobra.Command, args []string) {
	_, store, err := openContext()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	opts := render.DefaultOptions()
	opts.Width = renderWidth
	opts.Height = renderHeight
	img, err := render.Board(store, opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	f, err := os.Create(renderOut)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Wrote %s\n", renderOut)
}
