package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var describeWasmFile string

var describeCmd = &cobra.Command{
	Use:   "describe",
	Short: "Show a WASM implementation's lifecycle contract",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		g, err := loadGuest(ctx, describeWasmFile)
		if err != nil {
			return err
		}
		defer g.Close(ctx)

		fmt.Printf("Guest: %s\n", describeWasmFile)
		fmt.Println("Lifecycle exports: connected, disconnected, adopted, attribute-changed")

		observed := g.ObservedAttributes()
		if len(observed) == 0 {
			fmt.Println("Observed attributes: (none)")
			return nil
		}
		fmt.Println("Observed attributes:")
		for _, name := range observed {
			fmt.Printf("  - %s\n", name)
		}
		return nil
	},
}

func init() {
	describeCmd.Flags().StringVar(&describeWasmFile, "wasm", "", "path to the guest wasm module")
	describeCmd.MarkFlagRequired("wasm")
	rootCmd.AddCommand(describeCmd)
}
